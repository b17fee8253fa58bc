package core

import "testing"

func TestSignVerifyRoundTrip(t *testing.T) {
	priv, pub, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("generate key pair: %v", err)
	}
	payload := []byte("payload")
	sig, err := Sign(payload, priv)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if !Verify(payload, sig, pub) {
		t.Fatalf("expected signature to verify against the matching public key")
	}
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	priv, pub, _ := GenerateKeyPair()
	sig, _ := Sign([]byte("payload"), priv)
	if Verify([]byte("different"), sig, pub) {
		t.Fatalf("expected verification to fail against a different payload")
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	priv, _, _ := GenerateKeyPair()
	_, otherPub, _ := GenerateKeyPair()
	payload := []byte("payload")
	sig, _ := Sign(payload, priv)
	if Verify(payload, sig, otherPub) {
		t.Fatalf("expected verification to fail against an unrelated public key")
	}
}

func TestVerifyRejectsMalformedSignature(t *testing.T) {
	_, pub, _ := GenerateKeyPair()
	if Verify([]byte("payload"), []byte("too-short"), pub) {
		t.Fatalf("expected a malformed signature to fail verification")
	}
}
