// Package game implements the Texas Hold'em betting state machine.
//
// The engine is single-threaded and pull-based: state only changes inside
// StartNewHand and ProcessAction, and each ProcessAction either fully
// applies or leaves the table untouched. Callers that share an engine
// across goroutines must serialize access themselves.
package game

import (
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lox/holdem-trainer/internal/deck"
	"github.com/lox/holdem-trainer/internal/evaluator"
	"github.com/lox/holdem-trainer/internal/handid"
)

// Seat describes one player joining a table
type Seat struct {
	Name        string
	Chips       int
	Personality Personality
}

// Engine runs hands for a single table
type Engine struct {
	logger *log.Logger
	deck   *deck.Deck

	players   []*Player
	community []deck.Card
	pot       int
	phase     Phase

	dealerIdx       int
	currentIdx      int
	lastAggressorID string
	lastRaiseAmount int
	minRaise        int

	smallBlind int
	bigBlind   int
	handID     string

	startingChipTotal int
	retiredChips      int
}

// NewEngine creates a table with the given seats and blinds. The deck is
// crypto-seeded; use NewEngineWithRNG for deterministic deals.
func NewEngine(seats []Seat, smallBlind, bigBlind int, logger *log.Logger) *Engine {
	return NewEngineWithRNG(seats, smallBlind, bigBlind, logger, nil)
}

// NewEngineWithRNG creates a table whose deck is driven by the supplied
// RNG, for deterministic testing.
func NewEngineWithRNG(seats []Seat, smallBlind, bigBlind int, logger *log.Logger, rng *rand.Rand) *Engine {
	if logger == nil {
		logger = log.Default()
	}

	players := make([]*Player, len(seats))
	total := 0
	for i, seat := range seats {
		players[i] = &Player{
			ID:          uuid.NewString(),
			Name:        seat.Name,
			Seat:        i,
			Chips:       seat.Chips,
			Personality: seat.Personality,
		}
		total += seat.Chips
	}

	return &Engine{
		logger:            logger.WithPrefix("engine"),
		deck:              deck.New(rng),
		players:           players,
		community:         make([]deck.Card, 0, 5),
		phase:             PreFlop,
		dealerIdx:         len(players) - 1, // first StartNewHand rotates to seat 0
		smallBlind:        smallBlind,
		bigBlind:          bigBlind,
		startingChipTotal: total,
	}
}

// Players returns the seat order with ids, for mapping external actors to
// seats. The returned copies are snapshots.
func (e *Engine) Players() []Player {
	out := make([]Player, len(e.players))
	for i, p := range e.players {
		out[i] = p.clone()
	}
	return out
}

// State returns a read-only snapshot of the table
func (e *Engine) State() GameState {
	players := make([]Player, len(e.players))
	for i, p := range e.players {
		players[i] = p.clone()
	}

	return GameState{
		HandID:             e.handID,
		Players:            players,
		CommunityCards:     append([]deck.Card(nil), e.community...),
		Pot:                e.pot,
		Phase:              e.phase,
		DealerIndex:        e.dealerIdx,
		CurrentPlayerIndex: e.currentIdx,
		LastAggressorID:    e.lastAggressorID,
		LastRaiseAmount:    e.lastRaiseAmount,
		MinRaise:           e.minRaise,
		SmallBlind:         e.smallBlind,
		BigBlind:           e.bigBlind,
	}
}

// StartNewHand resets the deck, rotates the dealer button, deals hole
// cards, posts blinds and sets the first player to act.
func (e *Engine) StartNewHand() {
	e.handID = handid.New()
	e.deck.Reset()

	if e.fundedCount() < 2 {
		e.phase = Showdown
		e.logger.Warn("not enough funded players to start a hand")
		return
	}

	e.dealerIdx = e.nextFundedSeat(e.dealerIdx)
	sbIdx, bbIdx := e.blindSeats()

	for i, p := range e.players {
		// Busted seats sit out
		p.Folded = p.Chips == 0
		if p.Folded {
			p.HoleCards = nil
		} else {
			p.HoleCards = e.deck.DealN(2)
		}
		p.CurrentBet = 0
		p.AllIn = false
		p.HasActed = false
		p.Dealer = i == e.dealerIdx
		p.SmallBlind = i == sbIdx
		p.BigBlind = i == bbIdx
	}

	e.community = e.community[:0]
	e.pot = 0
	e.phase = PreFlop
	e.lastAggressorID = ""

	e.postBlind(sbIdx, e.smallBlind)
	e.postBlind(bbIdx, e.bigBlind)

	e.currentIdx = e.firstToActPreFlop(bbIdx)
	e.lastRaiseAmount = e.bigBlind
	e.minRaise = e.bigBlind * 2

	// A blind can force a seat all-in; skip dead seats, and if the blinds
	// left no one able to act, run the board out immediately.
	if !e.players[e.currentIdx].CanAct() {
		e.currentIdx = e.nextActiveSeat(e.currentIdx)
	}
	for e.phase != Showdown && e.bettingRoundOver() {
		e.advancePhase()
	}

	e.logger.Debug("started hand",
		"handID", e.handID,
		"dealer", e.players[e.dealerIdx].Name,
		"firstToAct", e.players[e.currentIdx].Name)
}

// blindSeats returns the small and big blind seats for the current dealer,
// skipping busted seats. Heads-up the dealer posts the small blind and acts
// first pre-flop.
func (e *Engine) blindSeats() (sb, bb int) {
	if e.fundedCount() == 2 {
		return e.dealerIdx, e.nextFundedSeat(e.dealerIdx)
	}
	sb = e.nextFundedSeat(e.dealerIdx)
	bb = e.nextFundedSeat(sb)
	return sb, bb
}

func (e *Engine) fundedCount() int {
	n := 0
	for _, p := range e.players {
		if p.Chips > 0 {
			n++
		}
	}
	return n
}

// nextFundedSeat returns the next seat after from with chips behind, or
// from itself when no other seat is funded.
func (e *Engine) nextFundedSeat(from int) int {
	n := len(e.players)
	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		if e.players[idx].Chips > 0 {
			return idx
		}
	}
	return from
}

func (e *Engine) firstToActPreFlop(bbIdx int) int {
	return (bbIdx + 1) % len(e.players)
}

// postBlind commits a forced bet, capped at the player's stack
func (e *Engine) postBlind(idx, amount int) {
	p := e.players[idx]
	actual := min(p.Chips, amount)
	p.Chips -= actual
	p.CurrentBet = actual
	e.pot += actual
	if p.Chips == 0 {
		p.AllIn = true
	}
}

// ProcessAction applies an action for the given player. For Bet and Raise,
// amount is the total the player wants committed this round, not the
// increment. It returns false and mutates nothing when the action is
// illegal: wrong turn, check facing a bet, under-raise without being
// all-in, or betting more chips than the player has.
func (e *Engine) ProcessAction(playerID string, action Action, amount int) bool {
	idx := e.playerIndex(playerID)
	if idx == -1 || idx != e.currentIdx || e.phase == Showdown {
		return false
	}

	p := e.players[idx]
	maxBet := e.currentMaxBet()
	callAmount := maxBet - p.CurrentBet

	switch action {
	case Fold:
		p.Folded = true

	case Check:
		if callAmount > 0 {
			return false
		}

	case Call:
		// Calling zero is a limp pre-flop; post-flop the action is a check
		if callAmount == 0 && e.phase != PreFlop {
			return false
		}
		actual := min(p.Chips, callAmount)
		p.Chips -= actual
		p.CurrentBet += actual
		e.pot += actual
		if p.Chips == 0 {
			p.AllIn = true
		}

	case Bet, Raise:
		contribution := amount - p.CurrentBet
		increment := amount - maxBet
		forcedAllIn := contribution == p.Chips

		if contribution > p.Chips {
			return false
		}
		if amount <= maxBet && !forcedAllIn {
			return false
		}
		if increment < e.lastRaiseAmount && !forcedAllIn {
			return false
		}
		if contribution <= 0 {
			return false
		}

		p.Chips -= contribution
		p.CurrentBet = amount
		e.pot += contribution
		e.lastAggressorID = p.ID
		if increment > 0 {
			e.lastRaiseAmount = increment
			e.minRaise = amount + increment
		}
		if p.Chips == 0 {
			p.AllIn = true
		}

		// A new wager reopens the action for everyone else
		for _, other := range e.players {
			if other.ID != p.ID {
				other.HasActed = false
			}
		}

	default:
		return false
	}

	p.HasActed = true
	e.logger.Debug("action applied",
		"player", p.Name, "action", action, "bet", p.CurrentBet, "pot", e.pot)

	e.advanceAfterAction()
	return true
}

func (e *Engine) playerIndex(playerID string) int {
	for i, p := range e.players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

func (e *Engine) currentMaxBet() int {
	maxBet := 0
	for _, p := range e.players {
		if p.CurrentBet > maxBet {
			maxBet = p.CurrentBet
		}
	}
	return maxBet
}

func (e *Engine) playersInHand() []*Player {
	in := make([]*Player, 0, len(e.players))
	for _, p := range e.players {
		if p.InHand() {
			in = append(in, p)
		}
	}
	return in
}

// advanceAfterAction moves the hand forward after a successful action:
// resolve immediately if only one player remains, advance the phase when
// the betting round closes, otherwise pass the action to the next seat.
func (e *Engine) advanceAfterAction() {
	if len(e.playersInHand()) <= 1 {
		e.phase = Showdown
		e.resolveShowdown()
		return
	}

	if !e.bettingRoundOver() {
		e.currentIdx = e.nextActiveSeat(e.currentIdx)
		return
	}

	// Betting round closed; advance streets, dealing straight through to
	// showdown when everyone left is all-in.
	for e.phase != Showdown && e.bettingRoundOver() {
		e.advancePhase()
	}
}

// bettingRoundOver reports whether every active player has matched the
// current bet and acted this round.
func (e *Engine) bettingRoundOver() bool {
	inHand := e.playersInHand()
	if len(inHand) <= 1 {
		return true
	}

	maxBet := e.currentMaxBet()
	for _, p := range inHand {
		if p.AllIn {
			continue
		}
		if p.CurrentBet != maxBet || !p.HasActed {
			return false
		}
	}
	return true
}

// advancePhase deals the next street, resets per-round state and sets the
// first active seat after the dealer to act.
func (e *Engine) advancePhase() {
	for _, p := range e.players {
		p.CurrentBet = 0
		p.HasActed = false
	}
	e.lastRaiseAmount = e.bigBlind
	e.minRaise = e.bigBlind * 2

	switch e.phase {
	case PreFlop:
		e.phase = Flop
		e.community = append(e.community, e.deck.DealN(3)...)
	case Flop:
		e.phase = Turn
		e.community = append(e.community, e.deck.DealN(1)...)
	case Turn:
		e.phase = River
		e.community = append(e.community, e.deck.DealN(1)...)
	case River:
		e.phase = Showdown
		e.resolveShowdown()
		return
	}

	e.logger.Debug("phase advanced", "phase", e.phase, "board", e.community, "pot", e.pot)
	e.currentIdx = e.nextActiveSeat(e.dealerIdx)
}

// nextActiveSeat returns the next seat after from that can act. The scan is
// bounded; if no seat can act it returns from unchanged.
func (e *Engine) nextActiveSeat(from int) int {
	n := len(e.players)
	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		if e.players[idx].CanAct() {
			return idx
		}
	}
	return from
}

// resolveShowdown awards the pot. A sole survivor wins without evaluation;
// otherwise every remaining hand is evaluated as the best 5 of 7 and the
// top score(s) split the pot by floor division. Remainder chips from an
// uneven split are retired from play rather than redistributed, and the
// conservation check accounts for them.
func (e *Engine) resolveShowdown() {
	e.phase = Showdown
	contenders := e.playersInHand()
	if len(contenders) == 0 {
		return
	}

	if len(contenders) == 1 {
		winner := contenders[0]
		winner.Chips += e.pot
		e.logger.Debug("won by fold", "player", winner.Name, "pot", e.pot)
		e.pot = 0
		return
	}

	type scored struct {
		player   *Player
		strength evaluator.HandStrength
	}

	best := make([]scored, 0, len(contenders))
	topScore := 0
	for _, p := range contenders {
		cards := append(append([]deck.Card(nil), p.HoleCards...), e.community...)
		strength := evaluator.MustEvaluate(cards)
		if strength.Score > topScore {
			topScore = strength.Score
		}
		best = append(best, scored{p, strength})
	}

	winners := make([]scored, 0, len(best))
	for _, s := range best {
		if s.strength.Score == topScore {
			winners = append(winners, s)
		}
	}

	share := e.pot / len(winners)
	for _, w := range winners {
		w.player.Chips += share
		e.logger.Debug("showdown winner",
			"player", w.player.Name, "hand", w.strength.Category, "share", share)
	}
	if remainder := e.pot - share*len(winners); remainder > 0 {
		e.retiredChips += remainder
		e.logger.Debug("odd chip retired", "remainder", remainder)
	}
	e.pot = 0
}

// ValidateChipConservation checks that no chips have been created or
// destroyed since the engine was built. Bets are moved into the pot as
// they are committed, so the pot, the retired odd chips and all stacks
// must equal the starting total at every point.
func (e *Engine) ValidateChipConservation() error {
	total := e.pot + e.retiredChips
	for _, p := range e.players {
		total += p.Chips
	}
	if total != e.startingChipTotal {
		return fmt.Errorf("chip total %d does not match starting total %d", total, e.startingChipTotal)
	}
	return nil
}

// HandComplete returns true once the current hand has been resolved
func (e *Engine) HandComplete() bool {
	return e.phase == Showdown
}
