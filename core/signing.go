package core

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// GenerateKeyPair produces a fresh secp256k1 private/public key pair as raw
// byte strings.
func GenerateKeyPair() (priv, pub []byte, err error) {
	key, err := ecdsa.GenerateKey(crypto.S256(), rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("generate key pair: %w", err)
	}
	return crypto.FromECDSA(key), crypto.FromECDSAPub(&key.PublicKey), nil
}

// Sign signs payload with priv, returning a 65-byte {R||S||V} signature.
// go-ethereum's ECDSA signer derives its nonce deterministically (RFC 6979),
// so repeated calls over the same payload and key produce the same signature.
func Sign(payload, priv []byte) ([]byte, error) {
	key, err := crypto.ToECDSA(priv)
	if err != nil {
		return nil, fmt.Errorf("sign: invalid private key: %w", err)
	}
	digest := sha256.Sum256(payload)
	return crypto.Sign(digest[:], key)
}

// Verify reports whether sig is a valid signature of payload under pub.
func Verify(payload, sig, pub []byte) bool {
	if len(sig) != 65 {
		return false
	}
	digest := sha256.Sum256(payload)
	recovered, err := crypto.SigToPub(digest[:], sig)
	if err != nil {
		return false
	}
	return string(crypto.FromECDSAPub(recovered)) == string(pub)
}
