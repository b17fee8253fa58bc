package core

import "math/big"

// ForkHead is the tip of a candidate chain, compared by (block number,
// weight) to produce a total order over competing chains.
type ForkHead struct {
	BlockNum uint64
	Weight   *big.Int
}

// CompareForks reports whether newHead should replace curHead: newHead's
// block number is strictly greater, or block numbers are equal and
// newHead's weight is strictly greater. Ties resolve to false — keep the
// current head.
func CompareForks(cur, newHead ForkHead) bool {
	if newHead.BlockNum != cur.BlockNum {
		return newHead.BlockNum > cur.BlockNum
	}
	curWeight := cur.Weight
	if curWeight == nil {
		curWeight = big.NewInt(0)
	}
	newWeight := newHead.Weight
	if newWeight == nil {
		newWeight = big.NewInt(0)
	}
	return newWeight.Cmp(curWeight) > 0
}
