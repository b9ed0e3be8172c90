// Package trainer orchestrates training sessions: it drives bot seats,
// grades the hero's actions, accumulates results and surfaces recurring
// leaks.
package trainer

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-trainer/internal/advisor"
	"github.com/lox/holdem-trainer/internal/bot"
	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/internal/learning"
	"github.com/lox/holdem-trainer/internal/ranges"
)

// Config describes a training session. The hero always sits in seat 0.
type Config struct {
	HeroName   string
	HeroChips  int
	Opponents  []game.Seat
	SmallBlind int
	BigBlind   int

	Tables *ranges.Tables
	Logger *log.Logger
	RNG    *rand.Rand
}

var (
	// ErrNotHeroTurn is returned when the hero acts out of turn
	ErrNotHeroTurn = errors.New("not the hero's turn")
	// ErrIllegalAction is returned when the engine rejects the hero's action
	ErrIllegalAction = errors.New("illegal action")
)

// Session is a single hero-vs-bots training session. It is not safe for
// concurrent use.
type Session struct {
	logger  *log.Logger
	engine  *game.Engine
	bots    *bot.AI
	advisor *advisor.Advisor

	heroID    string
	decisions []learning.Decision
	feedback  []advisor.Feedback
	stats     *Stats

	handOpen       bool
	heroChipsStart int
	potHighWater   int
}

// NewSession seats the hero with the configured opponents and prepares
// the grading pipeline.
func NewSession(cfg Config) (*Session, error) {
	if cfg.HeroName == "" {
		cfg.HeroName = "Hero"
	}
	if cfg.HeroChips <= 0 {
		return nil, fmt.Errorf("hero needs a positive stack, got %d", cfg.HeroChips)
	}
	if len(cfg.Opponents) == 0 {
		return nil, errors.New("at least one opponent is required")
	}
	if cfg.SmallBlind <= 0 || cfg.BigBlind <= cfg.SmallBlind {
		return nil, fmt.Errorf("invalid blinds %d/%d", cfg.SmallBlind, cfg.BigBlind)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	tables := cfg.Tables
	if tables == nil {
		tables = ranges.Default()
	}

	seats := make([]game.Seat, 0, len(cfg.Opponents)+1)
	seats = append(seats, game.Seat{Name: cfg.HeroName, Chips: cfg.HeroChips, Personality: game.Human})
	seats = append(seats, cfg.Opponents...)

	engine := game.NewEngineWithRNG(seats, cfg.SmallBlind, cfg.BigBlind, logger, cfg.RNG)
	heroID := engine.Players()[0].ID

	return &Session{
		logger:  logger.WithPrefix("trainer"),
		engine:  engine,
		bots:    bot.New(tables, logger, cfg.RNG),
		advisor: advisor.New(tables, logger),
		heroID:  heroID,
		stats:   NewStats(cfg.BigBlind),
	}, nil
}

// State returns a snapshot of the table
func (s *Session) State() game.GameState {
	return s.engine.State()
}

// Hero returns a snapshot of the hero's seat
func (s *Session) Hero() game.Player {
	st := s.engine.State()
	p, _ := st.PlayerByID(s.heroID)
	return p
}

// HandComplete reports whether the current hand has been resolved
func (s *Session) HandComplete() bool {
	return s.engine.HandComplete()
}

// AwaitingHero reports whether play is paused on the hero's decision
func (s *Session) AwaitingHero() bool {
	if s.engine.HandComplete() {
		return false
	}
	state := s.engine.State()
	return state.Players[state.CurrentPlayerIndex].ID == s.heroID
}

// StartHand deals a new hand and advances bot seats until the hero is to
// act or the hand resolves.
func (s *Session) StartHand() error {
	if s.handOpen {
		return errors.New("hand already in progress")
	}

	st := s.engine.State()
	hero, _ := st.PlayerByID(s.heroID)
	s.heroChipsStart = hero.Chips
	s.engine.StartNewHand()
	if s.engine.HandComplete() && s.engine.State().Pot == 0 && len(s.engine.State().CommunityCards) == 0 {
		return errors.New("not enough funded players to deal")
	}

	s.handOpen = true
	s.potHighWater = s.engine.State().Pot
	s.driveBots()
	return nil
}

// HeroAct grades and applies the hero's action, then plays the bots
// forward. The feedback is returned even for graded mistakes; only an
// engine-rejected action produces an error.
func (s *Session) HeroAct(action game.Action, amount int) (advisor.Feedback, error) {
	if !s.AwaitingHero() {
		return advisor.Feedback{}, ErrNotHeroTurn
	}

	state := s.engine.State()
	hero, _ := state.PlayerByID(s.heroID)
	fb := s.advisor.Analyze(hero, state, action, amount)

	if !s.engine.ProcessAction(s.heroID, action, amount) {
		return fb, fmt.Errorf("%w: %s %d", ErrIllegalAction, action, amount)
	}

	s.decisions = append(s.decisions, learning.Decision{
		Phase:    state.Phase,
		Action:   action,
		Correct:  fb.Correct,
		Severity: fb.Severity,
	})
	s.feedback = append(s.feedback, fb)

	s.driveBots()
	return fb, nil
}

// driveBots plays bot seats until the hero is to act or the hand ends,
// then settles the hand outcome.
func (s *Session) driveBots() {
	// Bounded: a hand cannot take anywhere near this many actions
	for i := 0; i < 512 && !s.engine.HandComplete(); i++ {
		state := s.engine.State()
		if state.Pot > s.potHighWater {
			s.potHighWater = state.Pot
		}

		actor := state.Players[state.CurrentPlayerIndex]
		if actor.ID == s.heroID {
			return
		}

		applyBotAction(s.engine, s.bots, s.logger, actor, state)
	}

	if s.engine.HandComplete() {
		s.settleHand()
	} else {
		s.logger.Error("bot loop did not converge", "handID", s.engine.State().HandID)
	}
}

// applyBotAction applies the bot's decision, degrading to call, check and
// finally fold when the engine rejects it. Fold is always legal on the
// actor's turn, so the ladder terminates.
func applyBotAction(e *game.Engine, ai *bot.AI, logger *log.Logger, actor game.Player, state game.GameState) {
	d := ai.GetAction(actor, state)
	if e.ProcessAction(actor.ID, d.Action, d.Amount) {
		return
	}

	logger.Debug("bot action rejected, degrading",
		"player", actor.Name, "action", d.Action, "amount", d.Amount)

	if e.ProcessAction(actor.ID, game.Call, 0) {
		return
	}
	if e.ProcessAction(actor.ID, game.Check, 0) {
		return
	}
	e.ProcessAction(actor.ID, game.Fold, 0)
}

// settleHand records the hero's result once per hand
func (s *Session) settleHand() {
	if !s.handOpen {
		return
	}
	s.handOpen = false

	state := s.engine.State()
	hero, _ := state.PlayerByID(s.heroID)

	contenders := 0
	for _, p := range state.Players {
		if !p.Folded && len(p.HoleCards) == 2 {
			contenders++
		}
	}

	n := len(state.Players)
	position := (hero.Seat-state.DealerIndex+n)%n + 1

	final := state.Pot
	if final < s.potHighWater {
		final = s.potHighWater
	}

	outcome := HandOutcome{
		NetBB:          float64(hero.Chips-s.heroChipsStart) / float64(state.BigBlind),
		Position:       position,
		WentToShowdown: contenders > 1,
		FinalPotSize:   final,
	}
	s.stats.Add(outcome)

	if err := s.engine.ValidateChipConservation(); err != nil {
		s.logger.Error("chip conservation violated", "err", err)
	}

	s.logger.Info("hand settled",
		"handID", state.HandID,
		"netBB", outcome.NetBB,
		"showdown", outcome.WentToShowdown,
		"pot", outcome.FinalPotSize)
}

// Stats returns the accumulated session results
func (s *Session) Stats() *Stats {
	return s.stats
}

// Feedback returns the advisor's judgement of every hero action so far
func (s *Session) Feedback() []advisor.Feedback {
	return s.feedback
}

// Decisions returns the graded decision log
func (s *Session) Decisions() []learning.Decision {
	return s.decisions
}

// Weaknesses surfaces recurring leaks from the decision log
func (s *Session) Weaknesses() []learning.Weakness {
	return learning.Detect(s.decisions)
}
