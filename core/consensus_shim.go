package core

import "bytes"

// consensusMarker is the fixed byte marker the consensus shim stamps onto
// finalized block headers and checks for on verification.
var consensusMarker = []byte("test_mode")

// BlockHeader is the trivial subset of a block header the consensus shim
// touches. The scheduling core treats every other field as opaque.
type BlockHeader struct {
	BlockNum   uint64
	PreviousID string
	Consensus  []byte
}

// InitializeBlock always succeeds; the shim has no setup work.
func InitializeBlock(*BlockHeader) bool { return true }

// CheckPublishBlock always succeeds; the shim imposes no publish gating.
func CheckPublishBlock(*BlockHeader) bool { return true }

// FinalizeBlock stamps the block header's consensus field with the fixed
// marker this shim recognizes.
func FinalizeBlock(h *BlockHeader) {
	h.Consensus = append([]byte(nil), consensusMarker...)
}

// VerifyBlock accepts a block iff its consensus field equals the marker
// this shim stamps in FinalizeBlock.
func VerifyBlock(h *BlockHeader) bool {
	return bytes.Equal(h.Consensus, consensusMarker)
}
