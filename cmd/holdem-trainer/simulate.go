package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/internal/trainer"
)

// SimulateCmd measures how the first style in the lineup performs
// against the rest over many independent hands.
type SimulateCmd struct {
	Hands      int    `default:"1000" help:"Number of hands to simulate"`
	Lineup     string `default:"TAG,LAG,TP,LP" help:"Comma-separated styles; the first seat is measured"`
	Chips      int    `default:"1000" help:"Starting chip count per seat"`
	SmallBlind int    `default:"5" help:"Small blind amount"`
	BigBlind   int    `default:"10" help:"Big blind amount"`
	Seed       int64  `default:"1" help:"Base RNG seed; each hand derives its own"`
	Workers    int    `help:"Parallel workers (defaults to CPU count)"`
	Ranges     string `help:"Path to an HCL range table file"`
	Debug      bool   `help:"Enable debug logging"`
}

func (c *SimulateCmd) Run() error {
	logger := setupLogger(c.Debug)

	tables, err := loadTables(c.Ranges, logger)
	if err != nil {
		return err
	}

	seats, err := parseOpponents(c.Lineup, c.Chips)
	if err != nil {
		return err
	}

	sim, err := trainer.NewSimulator(trainer.SimConfig{
		Hands:      c.Hands,
		Seats:      seats,
		SmallBlind: c.SmallBlind,
		BigBlind:   c.BigBlind,
		Seed:       c.Seed,
		Workers:    c.Workers,
		Tables:     tables,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	stats, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	printSimulationSummary(stats, seats, time.Since(start))
	return nil
}

func printSimulationSummary(stats *trainer.Stats, seats []game.Seat, elapsed time.Duration) {
	focal := seats[0]
	opponents := make([]string, 0, len(seats)-1)
	for _, s := range seats[1:] {
		opponents = append(opponents, s.Personality.String())
	}

	fmt.Printf("\n=== %s vs %s ===\n", focal.Personality, strings.Join(opponents, ","))
	fmt.Printf("Hands: %d in %s\n\n", stats.Hands, elapsed.Round(time.Millisecond))

	low, high := stats.ConfidenceInterval95()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Mean:\t%.4f bb/hand\n", stats.Mean())
	fmt.Fprintf(w, "Median:\t%.4f bb/hand\n", stats.Median())
	fmt.Fprintf(w, "Std dev:\t%.4f bb\n", stats.StdDev())
	fmt.Fprintf(w, "95%% CI:\t[%.4f, %.4f] bb/hand\n", low, high)
	fmt.Fprintf(w, "Percentiles:\tP5=%.2f P25=%.2f P75=%.2f P95=%.2f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))
	w.Flush()

	totalWins := stats.ShowdownWins + stats.NonShowdownWins
	if totalWins > 0 {
		fmt.Printf("\nWinning hands: %d at showdown (%.1f%%), %d by folds (%.1f%%)\n",
			stats.ShowdownWins, float64(stats.ShowdownWins)/float64(totalWins)*100,
			stats.NonShowdownWins, float64(stats.NonShowdownWins)/float64(totalWins)*100)
	}
	fmt.Printf("Showdown: %.3f bb/hand, non-showdown: %.3f bb/hand\n",
		stats.ShowdownBB/float64(stats.Hands), stats.NonShowdownBB/float64(stats.Hands))
	fmt.Printf("Largest pot: %d chips; pots over 50bb: %d\n", stats.MaxPotChips, stats.BigPots)

	fmt.Println("\nBy position (1 = button):")
	for pos := 1; pos <= len(seats); pos++ {
		if ps, ok := stats.Positions[pos]; ok && ps.Hands > 0 {
			fmt.Printf("  position %d: %d hands, %.3f bb/hand\n", pos, ps.Hands, stats.PositionMean(pos))
		}
	}
}
