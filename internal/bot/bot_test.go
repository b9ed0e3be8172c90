package bot

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-trainer/internal/deck"
	"github.com/lox/holdem-trainer/internal/game"
)

func newTestAI(seed int64) *AI {
	return New(nil, nil, rand.New(rand.NewSource(seed)))
}

func card(s deck.Suit, r deck.Rank) deck.Card {
	return deck.NewCard(s, r)
}

// sixMax builds a six-seat table with 1000 chip stacks and the hero in
// the given seat holding the given cards.
func sixMax(heroSeat int, hole []deck.Card) (game.Player, game.GameState) {
	players := make([]game.Player, 6)
	for i := range players {
		players[i] = game.Player{
			ID:    string(rune('a' + i)),
			Name:  "seat",
			Seat:  i,
			Chips: 1000,
		}
	}
	players[heroSeat].HoleCards = hole
	players[heroSeat].Personality = game.TAG

	state := game.GameState{
		Players:         players,
		Phase:           game.PreFlop,
		DealerIndex:     0,
		LastRaiseAmount: 10,
		MinRaise:        20,
		SmallBlind:      5,
		BigBlind:        10,
	}
	return players[heroSeat], state
}

func TestOpensPremiumFromUnderTheGun(t *testing.T) {
	ai := newTestAI(1)

	hero, state := sixMax(3, []deck.Card{ // seat 3 is UTG
		card(deck.Spades, deck.Ace),
		card(deck.Hearts, deck.Ace),
	})

	d := ai.GetAction(hero, state)
	assert.Equal(t, game.Raise, d.Action)
	assert.Equal(t, 30, d.Amount, "open to 3x the big blind")
}

func TestFoldsTrashInUnopenedPot(t *testing.T) {
	ai := newTestAI(2)

	hero, state := sixMax(3, []deck.Card{
		card(deck.Spades, deck.Seven),
		card(deck.Hearts, deck.Two),
	})

	d := ai.GetAction(hero, state)
	assert.Equal(t, game.Fold, d.Action)
}

func TestOpenRespectsMinRaise(t *testing.T) {
	ai := newTestAI(3)

	hero, state := sixMax(0, []deck.Card{ // button
		card(deck.Spades, deck.Ace),
		card(deck.Hearts, deck.King),
	})
	state.MinRaise = 50

	d := ai.GetAction(hero, state)
	assert.Equal(t, game.Raise, d.Action)
	assert.Equal(t, 50, d.Amount)
}

func TestThreeBetsPremiumFacingRaise(t *testing.T) {
	ai := newTestAI(4)

	hero, state := sixMax(0, []deck.Card{
		card(deck.Spades, deck.Queen),
		card(deck.Hearts, deck.Queen),
	})
	state.Players[3].CurrentBet = 30 // UTG opened
	state.LastRaiseAmount = 20

	d := ai.GetAction(hero, state)
	assert.Equal(t, game.Raise, d.Action)
	assert.Equal(t, 90, d.Amount, "3-bet to 3x the open")
}

func TestCallsSmallRaiseWithCallingRangeHand(t *testing.T) {
	ai := newTestAI(5)

	hero, state := sixMax(0, []deck.Card{
		card(deck.Spades, deck.Eight),
		card(deck.Hearts, deck.Eight),
	})
	state.Players[3].CurrentBet = 30 // price of 30 <= 4x bb

	d := ai.GetAction(hero, state)
	assert.Equal(t, game.Call, d.Action)
}

func TestFoldsCallingRangeHandToLargeRaise(t *testing.T) {
	ai := newTestAI(6)

	hero, state := sixMax(0, []deck.Card{
		card(deck.Spades, deck.Eight),
		card(deck.Hearts, deck.Eight),
	})
	state.Players[3].CurrentBet = 100 // price of 100 > 4x bb

	d := ai.GetAction(hero, state)
	assert.Equal(t, game.Fold, d.Action)
}

func TestRaisesMonsterThreeQuartersPot(t *testing.T) {
	ai := newTestAI(7)

	hero, state := sixMax(0, []deck.Card{
		card(deck.Spades, deck.Ace),
		card(deck.Hearts, deck.Ace),
	})
	state.Phase = game.Flop
	state.Pot = 100
	state.CommunityCards = []deck.Card{
		card(deck.Diamonds, deck.Ace),
		card(deck.Clubs, deck.King),
		card(deck.Spades, deck.King),
	}

	// Aces full of kings
	d := ai.GetAction(hero, state)
	assert.Equal(t, game.Raise, d.Action)
	assert.Equal(t, 75, d.Amount)
}

func TestRaisesFlushHalfPot(t *testing.T) {
	ai := newTestAI(8)

	hero, state := sixMax(0, []deck.Card{
		card(deck.Spades, deck.Ace),
		card(deck.Spades, deck.Two),
	})
	state.Phase = game.Flop
	state.Pot = 100
	state.CommunityCards = []deck.Card{
		card(deck.Spades, deck.Nine),
		card(deck.Spades, deck.Seven),
		card(deck.Spades, deck.Four),
	}

	d := ai.GetAction(hero, state)
	assert.Equal(t, game.Raise, d.Action)
	assert.Equal(t, 50, d.Amount)
}

func TestRaiseRespectsMinimumIncrement(t *testing.T) {
	ai := newTestAI(9)

	hero, state := sixMax(0, []deck.Card{
		card(deck.Spades, deck.Ace),
		card(deck.Spades, deck.Two),
	})
	state.Phase = game.Flop
	state.Pot = 40
	state.LastRaiseAmount = 60
	state.Players[1].CurrentBet = 60
	state.CommunityCards = []deck.Card{
		card(deck.Spades, deck.Nine),
		card(deck.Spades, deck.Seven),
		card(deck.Spades, deck.Four),
	}

	// Half pot on top of 60 is only 80 total; the minimum legal raise
	// total is 120
	d := ai.GetAction(hero, state)
	assert.Equal(t, game.Raise, d.Action)
	assert.Equal(t, 120, d.Amount)
}

func TestRaiseClampedToStack(t *testing.T) {
	ai := newTestAI(10)

	hero, state := sixMax(0, []deck.Card{
		card(deck.Spades, deck.Ace),
		card(deck.Spades, deck.Two),
	})
	hero.Chips = 30
	state.Phase = game.Flop
	state.Pot = 200
	state.CommunityCards = []deck.Card{
		card(deck.Spades, deck.Nine),
		card(deck.Spades, deck.Seven),
		card(deck.Spades, deck.Four),
	}

	d := ai.GetAction(hero, state)
	assert.Equal(t, game.Raise, d.Action)
	assert.Equal(t, 30, d.Amount, "shove rather than bet beyond the stack")
}

func TestNoMadeHandFoldsToBet(t *testing.T) {
	ai := newTestAI(11)

	hero, state := sixMax(0, []deck.Card{
		card(deck.Spades, deck.Ace),
		card(deck.Hearts, deck.Two),
	})
	hero.Personality = game.TP
	state.Phase = game.Flop
	state.Pot = 60
	state.Players[1].CurrentBet = 20
	state.CommunityCards = []deck.Card{
		card(deck.Diamonds, deck.Nine),
		card(deck.Clubs, deck.Seven),
		card(deck.Spades, deck.Four),
	}

	d := ai.GetAction(hero, state)
	assert.Equal(t, game.Fold, d.Action)
}

func TestPassivePersonalityNeverSemiBluffs(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		ai := newTestAI(seed)

		hero, state := sixMax(0, []deck.Card{
			card(deck.Spades, deck.Ace),
			card(deck.Hearts, deck.Two),
		})
		hero.Personality = game.TP
		state.Phase = game.Flop
		state.Pot = 60
		state.CommunityCards = []deck.Card{
			card(deck.Diamonds, deck.Nine),
			card(deck.Clubs, deck.Seven),
			card(deck.Spades, deck.Four),
		}

		d := ai.GetAction(hero, state)
		assert.Equal(t, game.Check, d.Action)
	}
}

func TestAggressivePersonalitySemiBluffsSometimes(t *testing.T) {
	raised, checked := 0, 0
	for seed := int64(0); seed < 200; seed++ {
		ai := newTestAI(seed)

		hero, state := sixMax(0, []deck.Card{
			card(deck.Spades, deck.Ace),
			card(deck.Hearts, deck.Two),
		})
		hero.Personality = game.LAG
		state.Phase = game.Flop
		state.Pot = 60
		state.CommunityCards = []deck.Card{
			card(deck.Diamonds, deck.Nine),
			card(deck.Clubs, deck.Seven),
			card(deck.Spades, deck.Four),
		}

		switch d := ai.GetAction(hero, state); d.Action {
		case game.Raise:
			raised++
		case game.Check:
			checked++
		default:
			t.Fatalf("unexpected action %v with no made hand and nothing to call", d.Action)
		}
	}

	assert.Positive(t, raised, "aggressive bot should semi-bluff occasionally")
	assert.Greater(t, checked, raised, "semi-bluffs should be the minority")
}

func TestDeterministicWithSameSeed(t *testing.T) {
	build := func() (game.Player, game.GameState) {
		hero, state := sixMax(0, []deck.Card{
			card(deck.Spades, deck.Jack),
			card(deck.Hearts, deck.Ten),
		})
		state.Phase = game.Flop
		state.Pot = 80
		state.Players[1].CurrentBet = 20
		state.CommunityCards = []deck.Card{
			card(deck.Diamonds, deck.Jack),
			card(deck.Clubs, deck.Seven),
			card(deck.Spades, deck.Four),
		}
		return hero, state
	}

	heroA, stateA := build()
	heroB, stateB := build()

	a := newTestAI(42).GetAction(heroA, stateA)
	b := newTestAI(42).GetAction(heroB, stateB)
	require.Equal(t, a, b)
}

func TestPositionNames(t *testing.T) {
	_, state := sixMax(0, nil)

	names := make([]string, 6)
	for seat := 0; seat < 6; seat++ {
		names[seat] = positionName(state.Players[seat], state)
	}
	assert.Equal(t, []string{"BTN", "SB", "BB", "UTG", "MP", "CO"}, names)
}
