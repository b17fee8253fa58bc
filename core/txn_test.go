package core

import (
	"bytes"
	"crypto/sha512"
	"testing"
)

func TestEncodeDecodeHeaderRoundTrip(t *testing.T) {
	h := TransactionHeader{
		FamilyName:      "intkey",
		FamilyVersion:   "1.0",
		Inputs:          []string{"a", "b"},
		Outputs:         []string{"a"},
		Dependencies:    []string{"dep1"},
		PayloadEncoding: "application/cbor",
		PayloadSHA512:   []byte{1, 2, 3},
	}
	encoded, err := EncodeHeader(h)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeHeader(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.FamilyName != h.FamilyName || decoded.FamilyVersion != h.FamilyVersion {
		t.Fatalf("got %+v want %+v", decoded, h)
	}
	if len(decoded.Inputs) != 2 || decoded.Inputs[0] != "a" || decoded.Inputs[1] != "b" {
		t.Fatalf("inputs round-trip mismatch: %v", decoded.Inputs)
	}
	if !bytes.Equal(decoded.PayloadSHA512, h.PayloadSHA512) {
		t.Fatalf("payload hash round-trip mismatch: %v vs %v", decoded.PayloadSHA512, h.PayloadSHA512)
	}
}

func TestNewTransactionDerivesPayloadHash(t *testing.T) {
	payload := []byte("hello world")
	txn, err := NewTransaction(TransactionHeader{FamilyName: "intkey"}, payload)
	if err != nil {
		t.Fatalf("new transaction: %v", err)
	}
	want := sha512.Sum512(payload)
	if !bytes.Equal(txn.parsed.PayloadSHA512, want[:]) {
		t.Fatalf("expected derived payload hash, got %x want %x", txn.parsed.PayloadSHA512, want)
	}
}

func TestNewTransactionKeepsExplicitPayloadHash(t *testing.T) {
	explicit := []byte{9, 9, 9}
	txn, err := NewTransaction(TransactionHeader{FamilyName: "intkey", PayloadSHA512: explicit}, []byte("payload"))
	if err != nil {
		t.Fatalf("new transaction: %v", err)
	}
	if !bytes.Equal(txn.parsed.PayloadSHA512, explicit) {
		t.Fatalf("expected explicit payload hash preserved, got %x", txn.parsed.PayloadSHA512)
	}
}

func TestDeriveAddressConvention(t *testing.T) {
	addr := DeriveAddress("intkey", []byte("myrecord"))
	if len(addr) != 70 {
		t.Fatalf("expected a 70-character address, got %d: %s", len(addr), addr)
	}
	if addr[:6] != "000000" {
		t.Fatalf("expected the namespace prefix 000000, got %s", addr[:6])
	}
}

func TestDeriveAddressIsDeterministic(t *testing.T) {
	a1 := DeriveAddress("intkey", []byte("myrecord"))
	a2 := DeriveAddress("intkey", []byte("myrecord"))
	if a1 != a2 {
		t.Fatalf("expected deterministic address derivation, got %s vs %s", a1, a2)
	}
	a3 := DeriveAddress("intkey", []byte("otherrecord"))
	if a1 == a3 {
		t.Fatalf("expected different records to derive different addresses")
	}
}
