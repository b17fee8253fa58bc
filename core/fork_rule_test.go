package core

import (
	"math/big"
	"testing"
)

func TestCompareForksGreaterBlockNumWins(t *testing.T) {
	cur := ForkHead{BlockNum: 5, Weight: big.NewInt(100)}
	newHead := ForkHead{BlockNum: 6, Weight: big.NewInt(1)}
	if !CompareForks(cur, newHead) {
		t.Fatalf("expected higher block num to win regardless of weight")
	}
}

func TestCompareForksLowerBlockNumLoses(t *testing.T) {
	cur := ForkHead{BlockNum: 6, Weight: big.NewInt(1)}
	newHead := ForkHead{BlockNum: 5, Weight: big.NewInt(100)}
	if CompareForks(cur, newHead) {
		t.Fatalf("expected lower block num to lose regardless of weight")
	}
}

func TestCompareForksEqualNumHigherWeightWins(t *testing.T) {
	cur := ForkHead{BlockNum: 5, Weight: big.NewInt(10)}
	newHead := ForkHead{BlockNum: 5, Weight: big.NewInt(11)}
	if !CompareForks(cur, newHead) {
		t.Fatalf("expected greater weight at equal block num to win")
	}
}

func TestCompareForksTieKeepsCurrent(t *testing.T) {
	cur := ForkHead{BlockNum: 5, Weight: big.NewInt(10)}
	newHead := ForkHead{BlockNum: 5, Weight: big.NewInt(10)}
	if CompareForks(cur, newHead) {
		t.Fatalf("expected a tie to keep the current head")
	}
}

func TestCompareForksNilWeightsTreatedAsZero(t *testing.T) {
	cur := ForkHead{BlockNum: 5}
	newHead := ForkHead{BlockNum: 5}
	if CompareForks(cur, newHead) {
		t.Fatalf("expected nil-vs-nil weight tie to keep current head")
	}
	newHead.Weight = big.NewInt(1)
	if !CompareForks(cur, newHead) {
		t.Fatalf("expected any positive weight to beat a nil weight")
	}
}
