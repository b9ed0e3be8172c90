// Package evaluator ranks poker hands of 5 to 7 cards.
//
// Evaluation enumerates every 5-card subset (at most 21 for a 7-card hand)
// and keeps the best one, so the result is always the strongest 5-card hand
// the input can make. The scoring scheme guarantees that hand category
// always dominates kickers: a pair of deuces beats any high card hand.
package evaluator

import (
	"fmt"
	"sort"

	"github.com/lox/holdem-trainer/internal/deck"
)

// Category is the 10-way hand classification, ordered weakest to strongest.
type Category int

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns the display name of the category
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// HandStrength is the result of evaluating a hand. Score is a single
// monotonic value: higher score always means a better hand, and any hand of
// a higher category outscores every hand of a lower one.
type HandStrength struct {
	Category Category
	Score    int
	Cards    []deck.Card // the 5 cards making up the best hand
}

// scoreBase is one more than the highest card value (14), so packed card
// values never carry between positions.
const scoreBase = 15

// Evaluate returns the best 5-card hand that can be made from 5-7 cards.
// Fewer than 5 or more than 7 cards is a caller bug and returns an error.
func Evaluate(cards []deck.Card) (HandStrength, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return HandStrength{}, fmt.Errorf("evaluator: need 5-7 cards, got %d", len(cards))
	}

	var best HandStrength
	combinations(cards, 5, func(combo []deck.Card) {
		strength := evaluateFive(combo)
		if strength.Score > best.Score {
			best = strength
		}
	})

	return best, nil
}

// MustEvaluate is Evaluate for callers that have already guaranteed the
// card count, such as the showdown path of the game engine.
func MustEvaluate(cards []deck.Card) HandStrength {
	strength, err := Evaluate(cards)
	if err != nil {
		panic(err)
	}
	return strength
}

// Compare returns -1, 0 or 1 as a is weaker than, equal to, or stronger
// than b.
func Compare(a, b HandStrength) int {
	switch {
	case a.Score < b.Score:
		return -1
	case a.Score > b.Score:
		return 1
	default:
		return 0
	}
}

// combinations calls fn with every k-card subset of cards. The slice passed
// to fn is reused between calls.
func combinations(cards []deck.Card, k int, fn func([]deck.Card)) {
	combo := make([]deck.Card, 0, k)
	var recurse func(start int)
	recurse = func(start int) {
		if len(combo) == k {
			fn(combo)
			return
		}
		for i := start; i < len(cards); i++ {
			combo = append(combo, cards[i])
			recurse(i + 1)
			combo = combo[:len(combo)-1]
		}
	}
	recurse(0)
}

// rankGroup is a card value with its multiplicity in the hand
type rankGroup struct {
	value int
	count int
}

// evaluateFive scores exactly 5 cards
func evaluateFive(combo []deck.Card) HandStrength {
	sorted := make([]deck.Card, 5)
	copy(sorted, combo)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Value() > sorted[j].Value()
	})

	values := make([]int, 5)
	flush := true
	for i, c := range sorted {
		values[i] = c.Value()
		if c.Suit != sorted[0].Suit {
			flush = false
		}
	}

	straight, straightHigh := straightHighCard(values)
	groups := groupByRank(values)

	switch {
	case straight && flush:
		if straightHigh == int(deck.Ace) {
			return HandStrength{RoyalFlush, score(RoyalFlush, straightValues(straightHigh)), sorted}
		}
		return HandStrength{StraightFlush, score(StraightFlush, straightValues(straightHigh)), sorted}

	case groups[0].count == 4:
		sig := []int{groups[0].value, groups[0].value, groups[0].value, groups[0].value, groups[1].value}
		return HandStrength{FourOfAKind, score(FourOfAKind, sig), sorted}

	case groups[0].count == 3 && groups[1].count == 2:
		sig := []int{groups[0].value, groups[0].value, groups[0].value, groups[1].value, groups[1].value}
		return HandStrength{FullHouse, score(FullHouse, sig), sorted}

	case flush:
		return HandStrength{Flush, score(Flush, values), sorted}

	case straight:
		return HandStrength{Straight, score(Straight, straightValues(straightHigh)), sorted}

	case groups[0].count == 3:
		sig := []int{groups[0].value, groups[0].value, groups[0].value, groups[1].value, groups[2].value}
		return HandStrength{ThreeOfAKind, score(ThreeOfAKind, sig), sorted}

	case groups[0].count == 2 && groups[1].count == 2:
		sig := []int{groups[0].value, groups[0].value, groups[1].value, groups[1].value, groups[2].value}
		return HandStrength{TwoPair, score(TwoPair, sig), sorted}

	case groups[0].count == 2:
		sig := []int{groups[0].value, groups[0].value, groups[1].value, groups[2].value, groups[3].value}
		return HandStrength{Pair, score(Pair, sig), sorted}

	default:
		return HandStrength{HighCard, score(HighCard, values), sorted}
	}
}

// straightHighCard reports whether the 5 descending values form a straight
// and, if so, the value of its high card. The wheel (A-2-3-4-5) counts as a
// 5-high straight, not ace-high.
func straightHighCard(values []int) (bool, int) {
	unique := true
	for i := 1; i < 5; i++ {
		if values[i] == values[i-1] {
			unique = false
			break
		}
	}
	if !unique {
		return false, 0
	}

	if values[0]-values[4] == 4 {
		return true, values[0]
	}

	// Wheel: A-5-4-3-2 in descending order
	if values[0] == int(deck.Ace) && values[1] == 5 && values[4] == 2 {
		return true, 5
	}

	return false, 0
}

// straightValues returns the significant card values for a straight, high
// card first. For the wheel this is 5-4-3-2-A-as-1.
func straightValues(high int) []int {
	sig := make([]int, 5)
	for i := range sig {
		sig[i] = high - i
	}
	return sig
}

// groupByRank returns rank groups sorted by count then value, descending.
// Quads sort before their kicker, trips before the pair, and so on.
func groupByRank(values []int) []rankGroup {
	counts := make(map[int]int)
	for _, v := range values {
		counts[v]++
	}

	groups := make([]rankGroup, 0, len(counts))
	for v, n := range counts {
		groups = append(groups, rankGroup{value: v, count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].value > groups[j].value
	})

	return groups
}

// score packs a category and its significant card values into a single
// comparable integer: category*15^5 + sum(sig[i]*15^(4-i)).
func score(category Category, sig []int) int {
	total := int(category)
	for i := 0; i < 5; i++ {
		v := 0
		if i < len(sig) {
			v = sig[i]
		}
		total = total*scoreBase + v
	}
	return total
}
