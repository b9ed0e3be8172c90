// Package bot implements a heuristic opponent policy driven by a
// personality tag and an injectable random source.
package bot

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-trainer/internal/deck"
	"github.com/lox/holdem-trainer/internal/evaluator"
	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/internal/ranges"
)

// Static ranges for facing a raise pre-flop. Premium hands re-raise
// regardless of price; the calling range flats only when the price is
// small relative to the big blind.
var (
	premiumRange = []string{"JJ+", "AQs+", "AKo"}
	callingRange = []string{"22+", "A2s+", "K9s+", "QTs+", "JTs", "T9s", "AQo+"}
)

// Decision is a chosen action. Amount is the total bet for Bet and Raise
// and ignored otherwise.
type Decision struct {
	Action game.Action
	Amount int
}

// AI chooses actions for non-human seats. All behavioral variance comes
// from the seat's personality tag and draws on the injected RNG, so a
// seeded source makes decisions reproducible.
type AI struct {
	logger *log.Logger
	rng    *rand.Rand
	tables *ranges.Tables
}

// New creates a bot policy backed by the given range tables. A nil rng
// falls back to a time-seeded source.
func New(tables *ranges.Tables, logger *log.Logger, rng *rand.Rand) *AI {
	if logger == nil {
		logger = log.Default()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if tables == nil {
		tables = ranges.Default()
	}
	return &AI{
		logger: logger.WithPrefix("bot"),
		rng:    rng,
		tables: tables,
	}
}

// GetAction picks an action for the player. It always returns something
// legal for the current state: raise totals are clamped to the player's
// stack and a zero call amount degrades to a check.
func (a *AI) GetAction(player game.Player, state game.GameState) Decision {
	callAmount := state.CurrentMaxBet() - player.CurrentBet

	personality := player.Personality
	if personality == game.Human {
		personality = game.TAG
	}
	random := a.rng.Float64()

	a.logger.Debug("deciding",
		"player", player.Name,
		"personality", personality,
		"phase", state.Phase,
		"callAmount", callAmount)

	if state.Phase == game.PreFlop {
		return a.preFlopAction(player, state, callAmount)
	}

	if len(state.CommunityCards) < 3 || len(player.HoleCards) != 2 {
		if callAmount == 0 {
			return Decision{Action: game.Check}
		}
		return Decision{Action: game.Fold}
	}

	cards := append(append([]deck.Card(nil), player.HoleCards...), state.CommunityCards...)
	strength := evaluator.MustEvaluate(cards)

	return a.postFlopAction(player, state, personality, strength, random, callAmount)
}

func (a *AI) preFlopAction(player game.Player, state game.GameState, callAmount int) Decision {
	if len(player.HoleCards) != 2 {
		if callAmount == 0 {
			return Decision{Action: game.Check}
		}
		return Decision{Action: game.Fold}
	}

	hand := ranges.HandFromCards(player.HoleCards[0], player.HoleCards[1])
	currentMaxBet := state.CurrentMaxBet()

	// Unopened pot: open the seat's RFI range, fold everything else
	if state.Unopened() {
		rfi := a.tables.RFI(positionName(player, state))
		if ranges.InRange(hand, rfi) {
			amount := max(state.BigBlind*3, state.MinRaise)
			return a.raise(player, amount)
		}
		if callAmount == 0 {
			return Decision{Action: game.Check}
		}
		return Decision{Action: game.Fold}
	}

	// Facing a raise: premium hands 3-bet, the wider calling range flats
	// only for a small price
	if ranges.InRange(hand, premiumRange) {
		return a.raise(player, currentMaxBet*3)
	}
	if ranges.InRange(hand, callingRange) && callAmount <= state.BigBlind*4 {
		return Decision{Action: game.Call}
	}

	if callAmount == 0 {
		return Decision{Action: game.Check}
	}
	return Decision{Action: game.Fold}
}

func (a *AI) postFlopAction(
	player game.Player,
	state game.GameState,
	personality game.Personality,
	strength evaluator.HandStrength,
	random float64,
	callAmount int,
) Decision {
	aggressive := personality.IsAggressive()
	currentMaxBet := state.CurrentMaxBet()
	minTotalBet := currentMaxBet + max(state.LastRaiseAmount, state.BigBlind)

	potFraction := func(frac float64) Decision {
		amount := max(minTotalBet, currentMaxBet+int(float64(state.Pot)*frac))
		return a.raise(player, amount)
	}

	switch {
	// Full house or better: always build the pot
	case strength.Category >= evaluator.FullHouse:
		return potFraction(0.75)

	// Flush or straight
	case strength.Category >= evaluator.Straight:
		return potFraction(0.5)

	// Trips and sets bet for value
	case strength.Category == evaluator.ThreeOfAKind:
		return potFraction(0.6)

	// Two pair is strong but vulnerable; passive players sometimes just call
	case strength.Category == evaluator.TwoPair:
		if aggressive || random > 0.2 {
			return potFraction(0.5)
		}
		return Decision{Action: game.Call}

	case strength.Category == evaluator.Pair:
		if isTopPair(strength, state) && (aggressive || random > 0.5) {
			return potFraction(0.3)
		}
		if callAmount == 0 {
			return Decision{Action: game.Check}
		}
		if random > 0.4 {
			return Decision{Action: game.Call}
		}
		return Decision{Action: game.Fold}
	}

	// No made hand: aggressive personalities semi-bluff an unopposed pot
	// a fraction of the time
	if callAmount == 0 {
		if aggressive && random > 0.8 {
			return potFraction(0.4)
		}
		return Decision{Action: game.Check}
	}
	return Decision{Action: game.Fold}
}

// raise clamps the total to the player's stack, turning an oversized
// wager into a shove.
func (a *AI) raise(player game.Player, amount int) Decision {
	stackTotal := player.CurrentBet + player.Chips
	if amount > stackTotal {
		amount = stackTotal
	}
	return Decision{Action: game.Raise, Amount: amount}
}

// isTopPair reports whether the highest card of the made hand matches the
// highest board card. The best five are sorted by value, so a pair below
// a bigger kicker (A7 on a 7-high board) reads as not top pair and plays
// the more cautious line.
func isTopPair(strength evaluator.HandStrength, state game.GameState) bool {
	if len(strength.Cards) == 0 || len(state.CommunityCards) == 0 {
		return false
	}
	top := state.CommunityCards[0].Value()
	for _, c := range state.CommunityCards[1:] {
		if c.Value() > top {
			top = c.Value()
		}
	}
	return strength.Cards[0].Value() == top
}

// positionName labels the seat relative to the dealer using the 6-max
// names. Other table sizes fall back to MP, which keeps opening ranges
// conservative.
func positionName(player game.Player, state game.GameState) string {
	n := len(state.Players)
	diff := (player.Seat - state.DealerIndex + n) % n

	if diff == 0 {
		return "BTN"
	}
	if n == 6 {
		switch diff {
		case 1:
			return "SB"
		case 2:
			return "BB"
		case 3:
			return "UTG"
		case 4:
			return "MP"
		case 5:
			return "CO"
		}
	}
	return "MP"
}
