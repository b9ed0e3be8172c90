package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-trainer/internal/advisor"
	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/internal/ranges"
	"github.com/lox/holdem-trainer/internal/trainer"
)

// PlayCmd runs an interactive training session on the terminal
type PlayCmd struct {
	Hands      int    `default:"10" help:"Number of hands to play"`
	Chips      int    `default:"1000" help:"Starting chip count"`
	SmallBlind int    `default:"5" help:"Small blind amount"`
	BigBlind   int    `default:"10" help:"Big blind amount"`
	Name       string `default:"Hero" help:"Your seat name"`
	Opponents  string `default:"TAG,LAG" help:"Comma-separated opponent styles (TAG, LAG, TP, LP)"`
	Ranges     string `help:"Path to an HCL range table file (defaults to built-in tables)"`
	Seed       *int64 `help:"Deterministic RNG seed"`
	Debug      bool   `help:"Enable debug logging"`
}

func (c *PlayCmd) Run() error {
	logger := setupLogger(c.Debug)

	tables, err := loadTables(c.Ranges, logger)
	if err != nil {
		return err
	}

	opponents, err := parseOpponents(c.Opponents, c.Chips)
	if err != nil {
		return err
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}

	session, err := trainer.NewSession(trainer.Config{
		HeroName:   c.Name,
		HeroChips:  c.Chips,
		Opponents:  opponents,
		SmallBlind: c.SmallBlind,
		BigBlind:   c.BigBlind,
		Tables:     tables,
		Logger:     logger,
		RNG:        rand.New(rand.NewSource(seed)),
	})
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	for hand := 1; hand <= c.Hands; hand++ {
		if err := session.StartHand(); err != nil {
			fmt.Printf("Session over: %v\n", err)
			break
		}
		fmt.Printf("\n=== Hand %d of %d ===\n", hand, c.Hands)

		for session.AwaitingHero() {
			printTable(session)
			fb, err := promptHero(session, scanner)
			if err != nil {
				fmt.Printf("  %v\n", err)
				continue
			}
			printFeedback(fb)
		}

		if !session.HandComplete() {
			// Stdin closed mid-hand
			return nil
		}
		printHandResult(session)
	}

	printSummary(session)
	return nil
}

func loadTables(path string, logger *log.Logger) (*ranges.Tables, error) {
	if path == "" {
		return ranges.Default(), nil
	}
	return ranges.Load(path, logger)
}

func parseOpponents(spec string, chips int) ([]game.Seat, error) {
	var seats []game.Seat
	for i, part := range strings.Split(spec, ",") {
		style, err := game.ParsePersonality(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		if style == game.Human {
			return nil, fmt.Errorf("opponent %d cannot be human", i+1)
		}
		seats = append(seats, game.Seat{
			Name:        fmt.Sprintf("%s-%d", style, i+1),
			Chips:       chips,
			Personality: style,
		})
	}
	return seats, nil
}

func printTable(s *trainer.Session) {
	state := s.State()
	hero := s.Hero()

	board := "--"
	if len(state.CommunityCards) > 0 {
		cards := make([]string, len(state.CommunityCards))
		for i, c := range state.CommunityCards {
			cards[i] = c.String()
		}
		board = strings.Join(cards, " ")
	}

	fmt.Printf("\n%s | board: %s | pot: %d\n", state.Phase, board, state.Pot)
	for _, p := range state.Players {
		marker := " "
		if p.Dealer {
			marker = "D"
		}
		status := ""
		if p.Folded {
			status = " (folded)"
		} else if p.AllIn {
			status = " (all-in)"
		}
		fmt.Printf("  %s %-10s chips: %-5d bet: %-4d%s\n", marker, p.Name, p.Chips, p.CurrentBet, status)
	}
	fmt.Printf("  your cards: %s %s | to call: %d | min raise: %d\n",
		hero.HoleCards[0], hero.HoleCards[1], state.CallAmount(hero.ID), state.MinRaise)
}

func promptHero(s *trainer.Session, scanner *bufio.Scanner) (advisor.Feedback, error) {
	fmt.Print("> action (fold/check/call/bet N/raise N): ")
	if !scanner.Scan() {
		return advisor.Feedback{}, fmt.Errorf("input closed")
	}

	fields := strings.Fields(scanner.Text())
	if len(fields) == 0 {
		return advisor.Feedback{}, fmt.Errorf("enter an action")
	}

	action, err := game.ParseAction(fields[0])
	if err != nil {
		return advisor.Feedback{}, err
	}

	amount := 0
	if len(fields) > 1 {
		amount, err = strconv.Atoi(fields[1])
		if err != nil {
			return advisor.Feedback{}, fmt.Errorf("bad amount %q", fields[1])
		}
	}
	if action.IsAggressive() && amount <= 0 {
		return advisor.Feedback{}, fmt.Errorf("%s needs an amount", action)
	}

	return s.HeroAct(action, amount)
}

func printFeedback(fb advisor.Feedback) {
	grade := "OK"
	if !fb.Correct {
		grade = strings.ToUpper(fb.Severity.String()) + " MISTAKE"
	}
	fmt.Printf("  [%s] %s\n", grade, fb.Advice)
	if fb.ExpectedSizing != "" {
		fmt.Printf("  suggested sizing: %s\n", fb.ExpectedSizing)
	}
	if fb.HasPotOdds {
		fmt.Printf("  pot odds: %.1f%%\n", fb.PotOdds)
	}
	if fb.HasEquity {
		fmt.Printf("  draw equity: %.1f%%\n", fb.Equity)
	}
}

func printHandResult(s *trainer.Session) {
	state := s.State()
	fmt.Println("\n--- hand complete ---")
	for _, p := range state.Players {
		fmt.Printf("  %-10s chips: %d\n", p.Name, p.Chips)
	}
}

func printSummary(s *trainer.Session) {
	stats := s.Stats()
	if stats.Hands == 0 {
		return
	}

	fmt.Printf("\n=== Session Summary ===\n")
	fmt.Printf("Hands played: %d\n", stats.Hands)
	fmt.Printf("Result: %.2f bb/hand (total %.1f bb)\n", stats.Mean(), stats.SumBB)

	correct := 0
	for _, d := range s.Decisions() {
		if d.Correct {
			correct++
		}
	}
	if n := len(s.Decisions()); n > 0 {
		fmt.Printf("Decisions graded correct: %d/%d (%.0f%%)\n",
			correct, n, float64(correct)/float64(n)*100)
	}

	if weaknesses := s.Weaknesses(); len(weaknesses) > 0 {
		fmt.Println("\nRecurring leaks:")
		for _, w := range weaknesses {
			fmt.Printf("  %s (%dx): %s\n", w.Name, w.Count, w.Description)
		}
	}
}
