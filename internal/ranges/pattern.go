// Package ranges matches two-card starting hands against textual range
// patterns and holds the static pre-flop range tables used by the bot and
// the advisor.
//
// Pattern grammar, by example:
//
//	22        exactly pocket deuces
//	88+       pocket eights or better
//	88-TT     pocket pairs eight through ten
//	A2s       ace-deuce suited
//	A2s+      ace-x suited, deuce kicker or better
//	K9s-KQs   king-x suited, nine through queen kicker
//	A2o ...   offsuit analogues of the suited forms
//
// A pattern that doesn't fit the grammar matches nothing rather than
// raising an error; range tables come from external data and a single bad
// entry shouldn't take the table down.
package ranges

import (
	"strings"

	"github.com/lox/holdem-trainer/internal/deck"
)

// Hand is a two-card starting hand normalized to high/low rank order
type Hand struct {
	High   deck.Rank
	Low    deck.Rank
	Suited bool
}

// HandFromCards builds a Hand from two hole cards, normalizing rank order
func HandFromCards(c1, c2 deck.Card) Hand {
	high, low := c1.Rank, c2.Rank
	if low > high {
		high, low = low, high
	}
	return Hand{High: high, Low: low, Suited: c1.Suit == c2.Suit}
}

// InRange returns true if any pattern matches the hand
func InRange(hand Hand, patterns []string) bool {
	for _, p := range patterns {
		if Matches(hand, p) {
			return true
		}
	}
	return false
}

// Matches tests a single pattern against a hand. Malformed patterns match
// nothing.
func Matches(hand Hand, pattern string) bool {
	pattern = strings.TrimSpace(pattern)

	switch {
	case strings.ContainsRune(pattern, 's'):
		if !hand.Suited {
			return false
		}
		return matchNonPair(hand, strings.ReplaceAll(pattern, "s", ""))
	case strings.ContainsRune(pattern, 'o'):
		if hand.Suited {
			return false
		}
		return matchNonPair(hand, strings.ReplaceAll(pattern, "o", ""))
	default:
		return matchPair(hand, pattern)
	}
}

// Valid reports whether a pattern fits the grammar. Matching stays lenient
// regardless; this exists so table loading can warn about typos.
func Valid(pattern string) bool {
	pattern = strings.TrimSpace(pattern)
	clean := strings.ReplaceAll(strings.ReplaceAll(pattern, "s", ""), "o", "")

	if base, rest, ok := strings.Cut(clean, "-"); ok {
		return validBase(base) && validBase(rest)
	}
	clean = strings.TrimSuffix(clean, "+")
	return validBase(clean)
}

func validBase(s string) bool {
	if len(s) != 2 {
		return false
	}
	return deck.ParseRank(s[0]) != 0 && deck.ParseRank(s[1]) != 0
}

// matchPair handles the pair forms: 22, 22+, 88-TT
func matchPair(hand Hand, pattern string) bool {
	if hand.High != hand.Low {
		return false
	}

	if start, end, ok := strings.Cut(pattern, "-"); ok {
		lo, okLo := pairRank(start)
		hi, okHi := pairRank(end)
		if !okLo || !okHi {
			return false
		}
		if hi < lo {
			lo, hi = hi, lo
		}
		return hand.High >= lo && hand.High <= hi
	}

	open := strings.HasSuffix(pattern, "+")
	base, ok := pairRank(strings.TrimSuffix(pattern, "+"))
	if !ok {
		return false
	}
	if open {
		return hand.High >= base
	}
	return hand.High == base
}

// pairRank parses a two-character pair base like "88"
func pairRank(s string) (deck.Rank, bool) {
	if len(s) != 2 {
		return 0, false
	}
	r1 := deck.ParseRank(s[0])
	r2 := deck.ParseRank(s[1])
	if r1 == 0 || r1 != r2 {
		return 0, false
	}
	return r1, true
}

// matchNonPair handles suited/offsuit forms with the modifier stripped:
// A2, A2+, K9-KQ. The high card is fixed; + and - vary the kicker.
func matchNonPair(hand Hand, clean string) bool {
	if start, end, ok := strings.Cut(clean, "-"); ok {
		if len(start) != 2 || len(end) != 2 {
			return false
		}
		high := deck.ParseRank(start[0])
		kickerA := deck.ParseRank(start[1])
		kickerB := deck.ParseRank(end[1])
		if high == 0 || kickerA == 0 || kickerB == 0 || deck.ParseRank(end[0]) != high {
			return false
		}
		if hand.High != high {
			return false
		}
		if kickerB < kickerA {
			kickerA, kickerB = kickerB, kickerA
		}
		return hand.Low >= kickerA && hand.Low <= kickerB
	}

	open := strings.HasSuffix(clean, "+")
	clean = strings.TrimSuffix(clean, "+")
	if len(clean) != 2 {
		return false
	}

	high := deck.ParseRank(clean[0])
	kicker := deck.ParseRank(clean[1])
	if high == 0 || kicker == 0 || high == kicker {
		return false
	}
	if hand.High != high {
		return false
	}
	if open {
		return hand.Low >= kicker
	}
	return hand.Low == kicker
}
