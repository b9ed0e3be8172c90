package trainer

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-trainer/internal/bot"
	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/internal/randutil"
	"github.com/lox/holdem-trainer/internal/ranges"
)

// SimConfig describes a bot-vs-bot simulation measuring the first seat's
// win rate against the rest of the lineup.
type SimConfig struct {
	Hands      int
	Seats      []game.Seat
	SmallBlind int
	BigBlind   int
	Seed       int64
	Workers    int

	Tables *ranges.Tables
	Logger *log.Logger
}

// Simulator plays independent hands in parallel and aggregates results
// for the focal seat. Every hand gets its own engine and a seed derived
// from the base seed, so runs are reproducible regardless of worker
// count.
type Simulator struct {
	cfg    SimConfig
	logger *log.Logger
}

// NewSimulator validates the lineup and prepares a simulator
func NewSimulator(cfg SimConfig) (*Simulator, error) {
	if cfg.Hands <= 0 {
		return nil, fmt.Errorf("hands must be positive, got %d", cfg.Hands)
	}
	if len(cfg.Seats) < 2 {
		return nil, errors.New("at least two seats are required")
	}
	if cfg.SmallBlind <= 0 || cfg.BigBlind <= cfg.SmallBlind {
		return nil, fmt.Errorf("invalid blinds %d/%d", cfg.SmallBlind, cfg.BigBlind)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Tables == nil {
		cfg.Tables = ranges.Default()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Simulator{cfg: cfg, logger: logger.WithPrefix("simulator")}, nil
}

// Run plays the configured number of hands and returns aggregate stats
// for the focal seat.
func (s *Simulator) Run(ctx context.Context) (*Stats, error) {
	group, ctx := errgroup.WithContext(ctx)

	workers := s.cfg.Workers
	results := make([]*Stats, workers)

	for w := 0; w < workers; w++ {
		w := w
		stats := NewStats(s.cfg.BigBlind)
		results[w] = stats

		group.Go(func() error {
			for hand := w; hand < s.cfg.Hands; hand += workers {
				if err := ctx.Err(); err != nil {
					return err
				}

				outcome, err := s.playHand(s.cfg.Seed+int64(hand), hand)
				if err != nil {
					return fmt.Errorf("hand %d: %w", hand, err)
				}
				stats.Add(outcome)
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	total := NewStats(s.cfg.BigBlind)
	for _, stats := range results {
		total.Merge(stats)
	}
	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.logger.Info("simulation complete",
		"hands", total.Hands,
		"meanBB", total.Mean(),
		"stderr", total.StdError())
	return total, nil
}

// playHand plays one complete hand on a fresh table. The focal seat is
// rotated through the table so positional advantage averages out.
func (s *Simulator) playHand(seed int64, hand int) (HandOutcome, error) {
	n := len(s.cfg.Seats)
	focalSeat := hand % n

	// Rotate the lineup so the focal player sits in a different seat each
	// hand while the opposition order is preserved
	seats := make([]game.Seat, n)
	for i, seat := range s.cfg.Seats {
		seats[(i+focalSeat)%n] = seat
	}

	rng := randutil.New(seed)
	engine := game.NewEngineWithRNG(seats, s.cfg.SmallBlind, s.cfg.BigBlind, s.logger, rng)
	focalID := engine.Players()[focalSeat].ID
	startChips := engine.Players()[focalSeat].Chips

	// Decisions draw from the same seeded source as the deck, keeping the
	// whole hand reproducible
	handAI := bot.New(s.cfg.Tables, s.logger, rng)

	engine.StartNewHand()

	potHighWater := 0
	for i := 0; i < 512 && !engine.HandComplete(); i++ {
		state := engine.State()
		if state.Pot > potHighWater {
			potHighWater = state.Pot
		}
		actor := state.Players[state.CurrentPlayerIndex]
		applyBotAction(engine, handAI, s.logger, actor, state)
	}
	if !engine.HandComplete() {
		return HandOutcome{}, fmt.Errorf("hand did not converge (seed %d)", seed)
	}
	if err := engine.ValidateChipConservation(); err != nil {
		return HandOutcome{}, err
	}

	state := engine.State()
	focal, _ := state.PlayerByID(focalID)

	contenders := 0
	for _, p := range state.Players {
		if !p.Folded && len(p.HoleCards) == 2 {
			contenders++
		}
	}

	return HandOutcome{
		NetBB:          float64(focal.Chips-startChips) / float64(s.cfg.BigBlind),
		Seed:           seed,
		Position:       (focalSeat-state.DealerIndex+n)%n + 1,
		WentToShowdown: contenders > 1,
		FinalPotSize:   potHighWater,
	}, nil
}
