// Package learning surfaces recurring leaks from a log of graded
// decisions. Detection is a pure function over the log, so it is safe to
// call repeatedly as the session grows.
package learning

import (
	"github.com/lox/holdem-trainer/internal/advisor"
	"github.com/lox/holdem-trainer/internal/game"
)

// Decision is one graded action from a session
type Decision struct {
	Phase    game.Phase
	Action   game.Action
	Correct  bool
	Severity advisor.Severity
}

// Weakness describes a recurring leak with how often it occurred
type Weakness struct {
	ID          string
	Name        string
	Description string
	Count       int
}

// threshold is how many occurrences of a pattern count as a leak rather
// than a one-off
const threshold = 3

// Detect scans the decision log for recurring mistakes
func Detect(decisions []Decision) []Weakness {
	var weaknesses []Weakness

	preFlopFolds := 0
	passiveCalls := 0
	chasing := 0
	for _, d := range decisions {
		if d.Correct {
			continue
		}
		if d.Phase == game.PreFlop && d.Action == game.Fold {
			preFlopFolds++
		}
		if d.Phase != game.PreFlop && d.Action == game.Call {
			passiveCalls++
		}
		if d.Action == game.Call && d.Severity == advisor.Minor {
			chasing++
		}
	}

	if preFlopFolds >= threshold {
		weaknesses = append(weaknesses, Weakness{
			ID:          "tight_preflop",
			Name:        "Folding too much pre-flop",
			Description: "You are folding hands that have potential. Try playing more suited connectors or high cards.",
			Count:       preFlopFolds,
		})
	}
	if passiveCalls >= threshold {
		weaknesses = append(weaknesses, Weakness{
			ID:          "passive_postflop",
			Name:        "Playing too passively",
			Description: "You are calling when you should be raising. Take initiative to build pots with strong hands.",
			Count:       passiveCalls,
		})
	}
	if chasing >= threshold {
		weaknesses = append(weaknesses, Weakness{
			ID:          "chasing_draws",
			Name:        "Chasing weak draws",
			Description: "You are calling bets without the right pot odds to complete your draws.",
			Count:       chasing,
		})
	}

	return weaknesses
}
