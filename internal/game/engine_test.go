package game

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-trainer/internal/deck"
)

func newTestEngine(t *testing.T, seats []Seat, sb, bb int, seed int64) *Engine {
	t.Helper()
	return NewEngineWithRNG(seats, sb, bb, nil, rand.New(rand.NewSource(seed)))
}

func threeSeats(chips int) []Seat {
	return []Seat{
		{Name: "Alice", Chips: chips},
		{Name: "Bob", Chips: chips},
		{Name: "Charlie", Chips: chips},
	}
}

func TestStartNewHandDealsAndPostsBlinds(t *testing.T) {
	e := newTestEngine(t, threeSeats(1000), 5, 10, 1)
	e.StartNewHand()

	state := e.State()
	assert.Equal(t, PreFlop, state.Phase)
	assert.Equal(t, 15, state.Pot, "small and big blind should be in the pot")
	assert.NotEmpty(t, state.HandID)

	for _, p := range state.Players {
		assert.Len(t, p.HoleCards, 2, "player %s should have hole cards", p.Name)
		assert.False(t, p.Folded)
	}

	// Dealer rotates to seat 0 on the first hand; blinds follow
	assert.Equal(t, 0, state.DealerIndex)
	assert.True(t, state.Players[1].SmallBlind)
	assert.True(t, state.Players[2].BigBlind)
	assert.Equal(t, 5, state.Players[1].CurrentBet)
	assert.Equal(t, 10, state.Players[2].CurrentBet)

	// First to act pre-flop is the seat after the big blind
	assert.Equal(t, 0, state.CurrentPlayerIndex)
	assert.Equal(t, 10, state.LastRaiseAmount)
	assert.Equal(t, 20, state.MinRaise)
}

func TestDealerRotatesBetweenHands(t *testing.T) {
	e := newTestEngine(t, threeSeats(1000), 5, 10, 2)

	e.StartNewHand()
	first := e.State().DealerIndex
	e.StartNewHand()
	second := e.State().DealerIndex

	assert.Equal(t, (first+1)%3, second)
}

func TestWrongTurnRejectedWithoutMutation(t *testing.T) {
	e := newTestEngine(t, threeSeats(1000), 5, 10, 3)
	e.StartNewHand()

	before := e.State()
	wrongPlayer := before.Players[(before.CurrentPlayerIndex+1)%3]

	ok := e.ProcessAction(wrongPlayer.ID, Call, 0)
	assert.False(t, ok)

	after := e.State()
	// Strip the snapshot-only fields that are expected to be identical
	// anyway and compare everything
	if !reflect.DeepEqual(before, after) {
		t.Errorf("state changed after rejected action:\nbefore: %+v\nafter:  %+v", before, after)
	}
}

func TestUnknownPlayerRejected(t *testing.T) {
	e := newTestEngine(t, threeSeats(1000), 5, 10, 4)
	e.StartNewHand()

	assert.False(t, e.ProcessAction("nonexistent", Fold, 0))
}

func TestCheckFacingBetRejected(t *testing.T) {
	e := newTestEngine(t, threeSeats(1000), 5, 10, 5)
	e.StartNewHand()

	state := e.State()
	actor := state.Players[state.CurrentPlayerIndex]

	// UTG faces the big blind and cannot check
	assert.False(t, e.ProcessAction(actor.ID, Check, 0))
	assert.True(t, e.ProcessAction(actor.ID, Call, 0))
}

func TestUnderRaiseRejected(t *testing.T) {
	e := newTestEngine(t, threeSeats(1000), 5, 10, 6)
	e.StartNewHand()

	state := e.State()
	actor := state.Players[state.CurrentPlayerIndex]

	// Max bet is 10 and the last raise is 10, so the minimum raise total
	// is 20. A total of 15 is an under-raise from a player with chips
	// behind.
	before := e.State()
	assert.False(t, e.ProcessAction(actor.ID, Raise, 15))
	assert.Equal(t, before.Pot, e.State().Pot)

	assert.True(t, e.ProcessAction(actor.ID, Raise, 20))
}

func TestHeadsUpRaiseScenario(t *testing.T) {
	// Heads-up, blinds 10/20: the dealer posts the small blind and acts
	// first. A raise to 60 total is legal (increment 40 >= 20) and the
	// pot holds 10 + 20 + 50 before the big blind acts.
	e := newTestEngine(t, []Seat{
		{Name: "BTN", Chips: 1000},
		{Name: "BB", Chips: 1000},
	}, 10, 20, 7)
	e.StartNewHand()

	state := e.State()
	require.Equal(t, 0, state.DealerIndex)
	require.True(t, state.Players[0].SmallBlind, "heads-up dealer posts the small blind")
	require.True(t, state.Players[1].BigBlind)
	require.Equal(t, 0, state.CurrentPlayerIndex, "heads-up dealer acts first pre-flop")

	btn := state.Players[0]
	require.True(t, e.ProcessAction(btn.ID, Raise, 60))

	after := e.State()
	assert.Equal(t, 80, after.Pot)
	assert.Equal(t, 60, after.Players[0].CurrentBet)
	assert.Equal(t, 940, after.Players[0].Chips)
	assert.Equal(t, 40, after.LastRaiseAmount)
	assert.Equal(t, PreFlop, after.Phase, "big blind still has to act")
	assert.Equal(t, 1, after.CurrentPlayerIndex)
}

func TestFoldOutAwardsPotWithoutEvaluation(t *testing.T) {
	// Pre-flop fold-out leaves fewer than five cards on the table, so any
	// attempt to evaluate hands would fail. The survivor just gets the pot.
	e := newTestEngine(t, threeSeats(1000), 5, 10, 8)
	e.StartNewHand()

	state := e.State()
	utg := state.Players[state.CurrentPlayerIndex]
	require.True(t, e.ProcessAction(utg.ID, Fold, 0))

	state = e.State()
	sb := state.Players[state.CurrentPlayerIndex]
	require.True(t, e.ProcessAction(sb.ID, Fold, 0))

	state = e.State()
	assert.Equal(t, Showdown, state.Phase)
	assert.Equal(t, 0, state.Pot)

	// Big blind won the 15 in blinds: 5 net gain on their 10 posted
	bb := state.Players[2]
	assert.Equal(t, 1005, bb.Chips)

	assert.NoError(t, e.ValidateChipConservation())
}

func TestBigBlindGetsOption(t *testing.T) {
	e := newTestEngine(t, threeSeats(1000), 5, 10, 9)
	e.StartNewHand()

	// Everyone calls around to the big blind
	state := e.State()
	require.True(t, e.ProcessAction(state.Players[0].ID, Call, 0))
	state = e.State()
	require.True(t, e.ProcessAction(state.Players[1].ID, Call, 0))

	// Still pre-flop: the big blind has not acted
	state = e.State()
	assert.Equal(t, PreFlop, state.Phase)
	assert.Equal(t, 2, state.CurrentPlayerIndex)

	// Big blind checks the option and the flop comes
	require.True(t, e.ProcessAction(state.Players[2].ID, Check, 0))
	state = e.State()
	assert.Equal(t, Flop, state.Phase)
	assert.Len(t, state.CommunityCards, 3)
}

func TestRaiseReopensAction(t *testing.T) {
	e := newTestEngine(t, threeSeats(1000), 5, 10, 10)
	e.StartNewHand()

	// UTG calls, SB raises: UTG must get another turn
	state := e.State()
	utg := state.Players[0]
	require.True(t, e.ProcessAction(utg.ID, Call, 0))

	state = e.State()
	sb := state.Players[1]
	require.True(t, e.ProcessAction(sb.ID, Raise, 30))

	state = e.State()
	assert.False(t, state.Players[0].HasActed, "raise should reopen action for callers")
	assert.Equal(t, PreFlop, state.Phase)

	// BB and UTG both still need to act before the flop
	require.True(t, e.ProcessAction(state.Players[2].ID, Call, 0))
	state = e.State()
	assert.Equal(t, PreFlop, state.Phase)
	require.True(t, e.ProcessAction(state.Players[0].ID, Call, 0))

	state = e.State()
	assert.Equal(t, Flop, state.Phase)
	assert.Equal(t, 90, state.Pot)
}

func TestPostFlopFirstActorAfterDealer(t *testing.T) {
	e := newTestEngine(t, threeSeats(1000), 5, 10, 11)
	e.StartNewHand()

	state := e.State()
	require.True(t, e.ProcessAction(state.Players[0].ID, Call, 0))
	require.True(t, e.ProcessAction(state.Players[1].ID, Call, 0))
	require.True(t, e.ProcessAction(state.Players[2].ID, Check, 0))

	state = e.State()
	require.Equal(t, Flop, state.Phase)

	// Dealer is seat 0; first to act post-flop is seat 1
	assert.Equal(t, 1, state.CurrentPlayerIndex)
	assert.Equal(t, 10, state.LastRaiseAmount, "raise thresholds reset between streets")
	for _, p := range state.Players {
		assert.Zero(t, p.CurrentBet)
		assert.False(t, p.HasActed)
	}
}

func TestCommunityCardsGrowMonotonically(t *testing.T) {
	e := newTestEngine(t, threeSeats(1000), 5, 10, 12)
	e.StartNewHand()

	checkAround := func() {
		for i := 0; i < 3; i++ {
			state := e.State()
			if state.Phase == Showdown {
				return
			}
			actor := state.Players[state.CurrentPlayerIndex]
			if state.CallAmount(actor.ID) > 0 {
				require.True(t, e.ProcessAction(actor.ID, Call, 0))
			} else {
				require.True(t, e.ProcessAction(actor.ID, Check, 0))
			}
		}
	}

	wantLens := []int{0, 3, 4, 5}
	for _, want := range wantLens {
		state := e.State()
		assert.Len(t, state.CommunityCards, want)
		checkAround()
	}

	assert.Equal(t, Showdown, e.State().Phase)
	assert.Zero(t, e.State().Pot)
	assert.NoError(t, e.ValidateChipConservation())
}

func TestAllInCallCappedAtStack(t *testing.T) {
	e := newTestEngine(t, []Seat{
		{Name: "Rich", Chips: 1000},
		{Name: "Short", Chips: 50},
		{Name: "Medium", Chips: 500},
	}, 5, 10, 13)
	e.StartNewHand()

	// Rich raises beyond the short stack
	state := e.State()
	require.True(t, e.ProcessAction(state.Players[0].ID, Raise, 200))

	// Short stack calls all-in for 50
	state = e.State()
	require.True(t, e.ProcessAction(state.Players[1].ID, Call, 0))

	state = e.State()
	short := state.Players[1]
	assert.True(t, short.AllIn)
	assert.Zero(t, short.Chips)
	assert.Equal(t, 50, short.CurrentBet)
	assert.NoError(t, e.ValidateChipConservation())
}

func TestAllInUnderRaiseAllowed(t *testing.T) {
	e := newTestEngine(t, []Seat{
		{Name: "Rich", Chips: 1000},
		{Name: "Short", Chips: 15},
		{Name: "Medium", Chips: 500},
	}, 5, 10, 14)
	e.StartNewHand()

	// Short stack shoves 15 total: the 5 chip increment is below the
	// minimum raise of 10 but legal because it's a forced all-in.
	state := e.State()
	require.True(t, e.ProcessAction(state.Players[0].ID, Call, 0))

	state = e.State()
	require.True(t, e.ProcessAction(state.Players[1].ID, Raise, 15))

	state = e.State()
	assert.True(t, state.Players[1].AllIn)
	assert.NoError(t, e.ValidateChipConservation())
}

func TestShowdownSplitsPotEvenly(t *testing.T) {
	e := newTestEngine(t, []Seat{
		{Name: "Alice", Chips: 1000},
		{Name: "Bob", Chips: 1000},
	}, 10, 20, 15)
	e.StartNewHand()

	// Rig an identical board-playing situation: both players' hole cards
	// are irrelevant against a board that is the best hand for both.
	e.players[0].HoleCards = []deck.Card{
		deck.NewCard(deck.Hearts, deck.Two),
		deck.NewCard(deck.Spades, deck.Three),
	}
	e.players[1].HoleCards = []deck.Card{
		deck.NewCard(deck.Diamonds, deck.Two),
		deck.NewCard(deck.Clubs, deck.Three),
	}
	e.community = []deck.Card{
		deck.NewCard(deck.Spades, deck.Ace),
		deck.NewCard(deck.Hearts, deck.Ace),
		deck.NewCard(deck.Diamonds, deck.King),
		deck.NewCard(deck.Clubs, deck.King),
		deck.NewCard(deck.Spades, deck.Queen),
	}
	e.pot = 100
	e.players[0].Chips = 950
	e.players[1].Chips = 950

	e.resolveShowdown()

	assert.Equal(t, 1000, e.players[0].Chips)
	assert.Equal(t, 1000, e.players[1].Chips)
	assert.Zero(t, e.pot)
	assert.NoError(t, e.ValidateChipConservation())
}

func TestSplitPotRemainderStaysUnawarded(t *testing.T) {
	e := newTestEngine(t, []Seat{
		{Name: "Alice", Chips: 1000},
		{Name: "Bob", Chips: 1000},
	}, 10, 20, 16)
	e.StartNewHand()

	e.players[0].HoleCards = []deck.Card{
		deck.NewCard(deck.Hearts, deck.Two),
		deck.NewCard(deck.Spades, deck.Three),
	}
	e.players[1].HoleCards = []deck.Card{
		deck.NewCard(deck.Diamonds, deck.Two),
		deck.NewCard(deck.Clubs, deck.Three),
	}
	e.community = []deck.Card{
		deck.NewCard(deck.Spades, deck.Ace),
		deck.NewCard(deck.Hearts, deck.Ace),
		deck.NewCard(deck.Diamonds, deck.King),
		deck.NewCard(deck.Clubs, deck.King),
		deck.NewCard(deck.Spades, deck.Queen),
	}
	e.pot = 101
	e.players[0].Chips = 950
	e.players[1].Chips = 949

	e.resolveShowdown()

	// 101 / 2 = 50 each; the odd chip is retired, not redistributed
	assert.Equal(t, 1000, e.players[0].Chips)
	assert.Equal(t, 999, e.players[1].Chips)
	assert.Zero(t, e.pot)
	assert.Equal(t, 1, e.retiredChips)

	// The retired chip must not read as a conservation violation, during
	// this hand or any later one.
	assert.NoError(t, e.ValidateChipConservation())
	e.StartNewHand()
	assert.NoError(t, e.ValidateChipConservation())
}

func TestChipConservationOverManyHands(t *testing.T) {
	e := newTestEngine(t, threeSeats(500), 5, 10, 17)
	rng := rand.New(rand.NewSource(99))

	for hand := 0; hand < 50; hand++ {
		e.StartNewHand()

		for steps := 0; steps < 100 && !e.HandComplete(); steps++ {
			state := e.State()
			actor := state.Players[state.CurrentPlayerIndex]
			callAmount := state.CallAmount(actor.ID)

			var ok bool
			switch rng.Intn(4) {
			case 0:
				ok = e.ProcessAction(actor.ID, Fold, 0)
			case 1:
				if callAmount == 0 {
					ok = e.ProcessAction(actor.ID, Check, 0)
				} else {
					ok = e.ProcessAction(actor.ID, Call, 0)
				}
			case 2:
				ok = e.ProcessAction(actor.ID, Call, 0)
				if !ok {
					ok = e.ProcessAction(actor.ID, Check, 0)
				}
			default:
				ok = e.ProcessAction(actor.ID, Raise, state.MinRaise)
				if !ok {
					if callAmount == 0 {
						ok = e.ProcessAction(actor.ID, Check, 0)
					} else {
						ok = e.ProcessAction(actor.ID, Call, 0)
					}
				}
			}
			require.True(t, ok, "hand %d: no action applied for %s", hand, actor.Name)
			require.NoError(t, e.ValidateChipConservation(), "hand %d", hand)
		}
		require.True(t, e.HandComplete(), "hand %d did not finish", hand)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	e := newTestEngine(t, threeSeats(1000), 5, 10, 18)
	e.StartNewHand()

	state := e.State()
	state.Players[0].Chips = 0
	state.Players[0].HoleCards[0] = deck.NewCard(deck.Spades, deck.Ace)
	state.Pot = 99999

	fresh := e.State()
	assert.Equal(t, 1000, fresh.Players[0].Chips+fresh.Players[0].CurrentBet)
	assert.Equal(t, 15, fresh.Pot)
}
