package game

import (
	"fmt"
	"strings"

	"github.com/lox/holdem-trainer/internal/deck"
)

// Phase represents the betting round of a hand. Phases only ever advance
// within a hand; a new hand starts back at PreFlop.
type Phase int

const (
	PreFlop Phase = iota
	Flop
	Turn
	River
	Showdown
)

func (p Phase) String() string {
	return [...]string{"pre-flop", "flop", "turn", "river", "showdown"}[p]
}

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Bet
	Raise
)

func (a Action) String() string {
	return [...]string{"fold", "check", "call", "bet", "raise"}[a]
}

// ParseAction maps an action verb to its tag, case-insensitively
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(s) {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "bet":
		return Bet, nil
	case "raise":
		return Raise, nil
	}
	return Fold, fmt.Errorf("unknown action %q", s)
}

// IsAggressive returns true for actions that put new money in unforced
func (a Action) IsAggressive() bool {
	return a == Bet || a == Raise
}

// Personality tags a seat with a playing style. It only drives the opponent
// policy; the engine itself treats every seat the same.
type Personality int

const (
	Human Personality = iota
	TAG               // tight aggressive
	LAG               // loose aggressive
	TP                // tight passive
	LP                // loose passive
)

func (p Personality) String() string {
	return [...]string{"human", "TAG", "LAG", "TP", "LP"}[p]
}

// ParsePersonality maps a style name to its tag, case-insensitively
func ParsePersonality(s string) (Personality, error) {
	switch strings.ToUpper(s) {
	case "HUMAN":
		return Human, nil
	case "TAG":
		return TAG, nil
	case "LAG":
		return LAG, nil
	case "TP":
		return TP, nil
	case "LP":
		return LP, nil
	}
	return Human, fmt.Errorf("unknown personality %q", s)
}

// IsAggressive returns true for styles that bet and raise liberally
func (p Personality) IsAggressive() bool {
	return p == TAG || p == LAG
}

// IsLoose returns true for styles that play many starting hands
func (p Personality) IsLoose() bool {
	return p == LAG || p == LP
}

// Player is a seat at the table. Players are owned exclusively by the
// engine; the copies handed out in GameState snapshots are safe to keep.
type Player struct {
	ID          string
	Name        string
	Seat        int
	Chips       int
	HoleCards   []deck.Card
	CurrentBet  int
	Folded      bool
	AllIn       bool
	HasActed    bool
	Dealer      bool
	SmallBlind  bool
	BigBlind    bool
	Personality Personality
}

// InHand returns true if the player has not folded
func (p *Player) InHand() bool {
	return !p.Folded
}

// CanAct returns true if the player can still make decisions this hand
func (p *Player) CanAct() bool {
	return !p.Folded && !p.AllIn
}

func (p *Player) clone() Player {
	c := *p
	c.HoleCards = append([]deck.Card(nil), p.HoleCards...)
	return c
}

// GameState is a read-only snapshot of a table. It shares no memory with
// the engine, so callers may hold it across engine mutations.
type GameState struct {
	HandID             string
	Players            []Player
	CommunityCards     []deck.Card
	Pot                int
	Phase              Phase
	DealerIndex        int
	CurrentPlayerIndex int
	LastAggressorID    string
	LastRaiseAmount    int
	MinRaise           int
	SmallBlind         int
	BigBlind           int
}

// CurrentMaxBet returns the highest committed bet this round
func (gs *GameState) CurrentMaxBet() int {
	maxBet := 0
	for i := range gs.Players {
		if gs.Players[i].CurrentBet > maxBet {
			maxBet = gs.Players[i].CurrentBet
		}
	}
	return maxBet
}

// CallAmount returns what the given player must add to match the current bet
func (gs *GameState) CallAmount(playerID string) int {
	for i := range gs.Players {
		if gs.Players[i].ID == playerID {
			return gs.CurrentMaxBet() - gs.Players[i].CurrentBet
		}
	}
	return 0
}

// PlayerByID returns the snapshot player with the given id
func (gs *GameState) PlayerByID(playerID string) (Player, bool) {
	for i := range gs.Players {
		if gs.Players[i].ID == playerID {
			return gs.Players[i], true
		}
	}
	return Player{}, false
}

// Unopened returns true if no one has raised beyond the big blind pre-flop
func (gs *GameState) Unopened() bool {
	return gs.CurrentMaxBet() <= gs.BigBlind
}
