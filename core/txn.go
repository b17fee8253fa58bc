package core

import (
	"crypto/sha512"
	"encoding/hex"

	"github.com/ethereum/go-ethereum/rlp"
)

// TransactionHeader carries a transaction's identifying fields. Every
// field besides SignerPubkey/BatcherPubkey/Inputs/Outputs/Dependencies/
// PayloadSHA512 is opaque to the scheduling core and kept only so the
// header round-trips.
type TransactionHeader struct {
	SignerPubkey    []byte
	BatcherPubkey   []byte
	FamilyName      string
	FamilyVersion   string
	Inputs          []string
	Outputs         []string
	Dependencies    []string
	PayloadEncoding string
	PayloadSHA512   []byte
}

// Transaction is the unit of work the scheduler dispatches. HeaderSignature
// uniquely identifies it within a batch and the scheduler's lifetime.
type Transaction struct {
	Header          []byte
	Payload         []byte
	HeaderSignature string

	// parsed is populated by NewTransaction so the scheduler
	// and predecessor tree can read Inputs/Outputs/Dependencies without
	// re-decoding Header on every access.
	parsed TransactionHeader
}

// Inputs returns the transaction's declared read addresses.
func (t *Transaction) Inputs() []string { return t.parsed.Inputs }

// Outputs returns the transaction's declared write addresses.
func (t *Transaction) Outputs() []string { return t.parsed.Outputs }

// Dependencies returns the header signatures this transaction depends on.
func (t *Transaction) Dependencies() []string { return t.parsed.Dependencies }

// BatchHeader carries a batch's identifying fields.
type BatchHeader struct {
	SignerPubkey  []byte
	TransactionIDs []string
}

// Batch is an ordered, non-empty sequence of Transactions sharing a single
// header signature. A batch is atomic: valid only if every transaction in
// it is valid.
type Batch struct {
	Header          []byte
	Transactions    []*Transaction
	HeaderSignature string
}

// EncodeHeader serializes a TransactionHeader using a length-delimited
// structured encoding. Bit-exact wire compatibility is explicitly out of
// scope; RLP is used here as the length-delimited codec.
func EncodeHeader(h TransactionHeader) ([]byte, error) {
	return rlp.EncodeToBytes(h)
}

// DecodeHeader is the inverse of EncodeHeader.
func DecodeHeader(b []byte) (TransactionHeader, error) {
	var h TransactionHeader
	err := rlp.DecodeBytes(b, &h)
	return h, err
}

// NewTransaction builds a Transaction from a header and payload, encoding
// the header and deriving PayloadSHA512 if it was left unset.
func NewTransaction(h TransactionHeader, payload []byte) (*Transaction, error) {
	if len(h.PayloadSHA512) == 0 {
		sum := sha512.Sum512(payload)
		h.PayloadSHA512 = sum[:]
	}
	encoded, err := EncodeHeader(h)
	if err != nil {
		return nil, err
	}
	return &Transaction{Header: encoded, Payload: payload, parsed: h}, nil
}

// DeriveAddress follows the "000000" + hex(sha512(name)) address
// convention, keeping the first 64 hex characters of the digest (a
// 70-character address), extended with any additional byte fragments the
// caller wants folded into the hash (e.g. a record key).
func DeriveAddress(familyName string, extra ...[]byte) string {
	h := sha512.New()
	h.Write([]byte(familyName))
	for _, e := range extra {
		h.Write(e)
	}
	digest := hex.EncodeToString(h.Sum(nil))
	return "000000" + digest[:64]
}
