package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-trainer/internal/deck"
	"github.com/lox/holdem-trainer/internal/randutil"
)

func mustCards(t *testing.T, s string) []deck.Card {
	t.Helper()
	cards, err := deck.ParseCards(s)
	require.NoError(t, err)
	return cards
}

func TestValidateNoDuplicates(t *testing.T) {
	hands := [][]deck.Card{mustCards(t, "AsKd"), mustCards(t, "QhJs")}

	require.NoError(t, validateNoDuplicates(hands, nil))

	err := validateNoDuplicates(hands, mustCards(t, "As7c2d"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate card")

	err = validateNoDuplicates([][]deck.Card{mustCards(t, "AsKd"), mustCards(t, "AsQc")}, nil)
	require.Error(t, err)
}

func TestMonteCarloFavoursDominantHand(t *testing.T) {
	hands := [][]deck.Card{mustCards(t, "AsAh"), mustCards(t, "7d2c")}

	results := runMonteCarlo(hands, nil, 5000, randutil.New(1))

	for _, r := range results {
		assert.Equal(t, 5000, r.wins+r.ties+oppositeWins(results, r))
	}
	// Aces pre-flop against 72o run at roughly 88% equity.
	winRate := float64(results[0].wins) / 5000
	assert.Greater(t, winRate, 0.80)
	assert.Less(t, winRate, 0.95)
}

// oppositeWins sums the other hands' wins so the roll-out ledger closes.
func oppositeWins(results []oddsResult, self oddsResult) int {
	total := 0
	for _, r := range results {
		if r.hand[0] != self.hand[0] {
			total += r.wins
		}
	}
	return total
}

func TestMonteCarloLockedBoard(t *testing.T) {
	hands := [][]deck.Card{mustCards(t, "AsAh"), mustCards(t, "KdKc")}
	board := mustCards(t, "Kh7s2d9cQs")

	results := runMonteCarlo(hands, board, 100, randutil.New(1))

	// Full board leaves nothing to sample: trip kings win every iteration.
	assert.Equal(t, 0, results[0].wins)
	assert.Equal(t, 100, results[1].wins)
}

func TestMonteCarloDeterministicWithSeed(t *testing.T) {
	hands := [][]deck.Card{mustCards(t, "QsJs"), mustCards(t, "8d8c")}

	a := runMonteCarlo(hands, nil, 2000, randutil.New(42))
	b := runMonteCarlo(hands, nil, 2000, randutil.New(42))

	assert.Equal(t, a[0].wins, b[0].wins)
	assert.Equal(t, a[0].ties, b[0].ties)
	assert.Equal(t, a[1].wins, b[1].wins)
}
