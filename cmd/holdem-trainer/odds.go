package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/lox/holdem-trainer/internal/deck"
	"github.com/lox/holdem-trainer/internal/evaluator"
	"github.com/lox/holdem-trainer/internal/randutil"
)

// OddsCmd estimates each hand's equity by Monte Carlo roll-outs of the
// remaining board.
type OddsCmd struct {
	Hands      []string `arg:"" required:"" help:"Hole cards per player, e.g. AsKd QhJs"`
	Board      string   `short:"b" help:"Community cards already dealt, e.g. Td7s8h"`
	Iterations int      `short:"i" default:"100000" help:"Monte Carlo iterations"`
	Breakdown  bool     `short:"p" help:"Show hand category probabilities"`
	Seed       *int64   `help:"Deterministic RNG seed"`
}

type oddsResult struct {
	hand       []deck.Card
	wins       int
	ties       int
	categories map[evaluator.Category]int
}

func (c *OddsCmd) Run() error {
	var rng *rand.Rand
	if c.Seed != nil {
		rng = randutil.New(*c.Seed)
	} else {
		rng = randutil.NewCrypto()
	}

	hands := make([][]deck.Card, 0, len(c.Hands))
	for i, spec := range c.Hands {
		hand, err := deck.ParseCards(strings.ReplaceAll(strings.TrimSpace(spec), " ", ""))
		if err != nil {
			return fmt.Errorf("hand %d: %w", i+1, err)
		}
		if len(hand) != 2 {
			return fmt.Errorf("hand %d: must contain exactly 2 cards, got %d", i+1, len(hand))
		}
		hands = append(hands, hand)
	}

	var board []deck.Card
	if c.Board != "" {
		var err error
		board, err = deck.ParseCards(c.Board)
		if err != nil {
			return fmt.Errorf("board: %w", err)
		}
		if len(board) > 5 {
			return fmt.Errorf("board cannot have more than 5 cards")
		}
	}

	if err := validateNoDuplicates(hands, board); err != nil {
		return err
	}

	start := time.Now()
	results := runMonteCarlo(hands, board, c.Iterations, rng)
	printOdds(results, board, c.Breakdown, c.Iterations, time.Since(start))
	return nil
}

func validateNoDuplicates(hands [][]deck.Card, board []deck.Card) error {
	seen := make(map[deck.Card]bool)
	for _, card := range board {
		if seen[card] {
			return fmt.Errorf("duplicate card: %s", card)
		}
		seen[card] = true
	}
	for i, hand := range hands {
		for _, card := range hand {
			if seen[card] {
				return fmt.Errorf("duplicate card in hand %d: %s", i+1, card)
			}
			seen[card] = true
		}
	}
	return nil
}

func runMonteCarlo(hands [][]deck.Card, board []deck.Card, iterations int, rng *rand.Rand) []oddsResult {
	results := make([]oddsResult, len(hands))
	for i := range results {
		results[i] = oddsResult{
			hand:       hands[i],
			categories: make(map[evaluator.Category]int),
		}
	}

	used := make(map[deck.Card]bool)
	for _, card := range board {
		used[card] = true
	}
	for _, hand := range hands {
		for _, card := range hand {
			used[card] = true
		}
	}

	var stub []deck.Card
	for suit := deck.Spades; suit <= deck.Clubs; suit++ {
		for rank := deck.Two; rank <= deck.Ace; rank++ {
			card := deck.NewCard(suit, rank)
			if !used[card] {
				stub = append(stub, card)
			}
		}
	}

	needed := 5 - len(board)
	strengths := make([]evaluator.HandStrength, len(hands))

	for iter := 0; iter < iterations; iter++ {
		// Partial Fisher-Yates: draw just the cards the board still needs
		for i := 0; i < needed; i++ {
			j := i + rng.Intn(len(stub)-i)
			stub[i], stub[j] = stub[j], stub[i]
		}
		fullBoard := append(append([]deck.Card(nil), board...), stub[:needed]...)

		best := 0
		for i, hand := range hands {
			cards := append(append([]deck.Card(nil), hand...), fullBoard...)
			strengths[i] = evaluator.MustEvaluate(cards)
			results[i].categories[strengths[i].Category]++
			if strengths[i].Score > best {
				best = strengths[i].Score
			}
		}

		winners := 0
		for i := range hands {
			if strengths[i].Score == best {
				winners++
			}
		}
		for i := range hands {
			if strengths[i].Score == best {
				if winners == 1 {
					results[i].wins++
				} else {
					results[i].ties++
				}
			}
		}
	}

	return results
}

func printOdds(results []oddsResult, board []deck.Card, breakdown bool, iterations int, elapsed time.Duration) {
	if len(board) > 0 {
		fmt.Printf("board: %s\n\n", formatCards(board))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "hand\twin\ttie")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%.1f%%\t%.1f%%\n",
			formatCards(r.hand),
			float64(r.wins)/float64(iterations)*100,
			float64(r.ties)/float64(iterations)*100)
	}
	w.Flush()

	if breakdown {
		fmt.Println()
		bw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for category := evaluator.RoyalFlush; category >= evaluator.HighCard; category-- {
			row := []string{category.String()}
			shown := false
			for _, r := range results {
				count := r.categories[category]
				row = append(row, fmt.Sprintf("%.1f%%", float64(count)/float64(iterations)*100))
				if count > 0 {
					shown = true
				}
			}
			if shown {
				fmt.Fprintln(bw, strings.Join(row, "\t"))
			}
		}
		bw.Flush()
	}

	fmt.Printf("\n%d iterations in %v\n", iterations, elapsed.Truncate(time.Millisecond))
}

func formatCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
