// Package advisor grades already-chosen actions against range tables and
// board math. It never decides the game's outcome, it only judges.
package advisor

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-trainer/internal/deck"
	"github.com/lox/holdem-trainer/internal/evaluator"
	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/internal/pokermath"
	"github.com/lox/holdem-trainer/internal/ranges"
)

// Severity grades how costly a mistake was
type Severity int

const (
	None Severity = iota
	Minor
	Major
)

func (s Severity) String() string {
	switch s {
	case Minor:
		return "minor"
	case Major:
		return "major"
	}
	return "none"
}

// Feedback is the advisor's judgement of a single action. Action is the
// recommended play, which matches the player's action when Correct.
type Feedback struct {
	Action         game.Action
	Advice         string
	Correct        bool
	Severity       Severity
	ExpectedSizing string

	// PotOdds and Equity are only populated post-flop when there is a
	// live price or draw to report
	PotOdds    float64
	HasPotOdds bool
	Equity     float64
	HasEquity  bool
}

// Advisor judges actions against position-aware opening and defending
// ranges plus pot-odds math.
type Advisor struct {
	logger *log.Logger
	tables *ranges.Tables
}

// New creates an advisor backed by the given range tables
func New(tables *ranges.Tables, logger *log.Logger) *Advisor {
	if logger == nil {
		logger = log.Default()
	}
	if tables == nil {
		tables = ranges.Default()
	}
	return &Advisor{
		logger: logger.WithPrefix("advisor"),
		tables: tables,
	}
}

// Analyze grades the action the player just took. For Bet and Raise,
// amount is the total committed this round.
func (a *Advisor) Analyze(player game.Player, state game.GameState, action game.Action, amount int) Feedback {
	if state.Phase == game.PreFlop {
		return a.analyzePreFlop(player, state, action)
	}
	return a.analyzePostFlop(player, state, action, amount)
}

func (a *Advisor) analyzePreFlop(player game.Player, state game.GameState, action game.Action) Feedback {
	position := PositionName(player, state)

	if len(player.HoleCards) != 2 {
		return Feedback{Action: action, Advice: "No hole cards to judge.", Correct: true}
	}
	hand := ranges.HandFromCards(player.HoleCards[0], player.HoleCards[1])

	if state.Unopened() {
		return a.analyzeRFI(position, hand, action)
	}
	return a.analyzeVsOpen(player, state, position, hand, action)
}

func (a *Advisor) analyzeRFI(position string, hand ranges.Hand, action game.Action) Feedback {
	inRange := ranges.InRange(hand, a.tables.RFI(position))
	raising := action == game.Raise || action == game.Bet

	if inRange {
		if raising {
			return Feedback{
				Action:  game.Raise,
				Advice:  fmt.Sprintf("Excellent. In %s, this hand is a standard open-raise. Raising takes the initiative and maximizes your fold equity.", position),
				Correct: true,
			}
		}
		severity := Minor
		if action == game.Fold {
			severity = Major
		}
		return Feedback{
			Action:   game.Raise,
			Advice:   fmt.Sprintf("In %s, you should be raising this hand. Limping in is a common leak; it has no fold equity and makes you easy to exploit.", position),
			Severity: severity,
		}
	}

	if action == game.Fold {
		return Feedback{
			Action:  game.Fold,
			Advice:  fmt.Sprintf("Correct fold. In %s, this hand is too weak to open. Folding keeps you out of difficult spots out of position.", position),
			Correct: true,
		}
	}
	return Feedback{
		Action:   game.Fold,
		Advice:   fmt.Sprintf("In %s, this hand is outside your opening range. Playing too many marginal hands from here bleeds chips.", position),
		Severity: Minor,
	}
}

func (a *Advisor) analyzeVsOpen(player game.Player, state game.GameState, position string, hand ranges.Hand, action game.Action) Feedback {
	aggressorPos := "UTG"
	if aggressor, ok := state.PlayerByID(state.LastAggressorID); ok {
		aggressorPos = PositionName(aggressor, state)
	}

	if vsOpen, ok := a.tables.VsOpen(position, aggressorPos); ok {
		switch {
		case ranges.InRange(hand, vsOpen.ThreeBet):
			if action == game.Raise {
				return Feedback{
					Action:  game.Raise,
					Advice:  fmt.Sprintf("Great 3-bet. This hand is a strong favorite against the %s opening range.", aggressorPos),
					Correct: true,
				}
			}
			return Feedback{
				Action:   game.Raise,
				Advice:   fmt.Sprintf("You should be 3-betting here. This hand is too strong to just call or fold against a %s open.", aggressorPos),
				Severity: Minor,
			}

		case ranges.InRange(hand, vsOpen.Call):
			switch action {
			case game.Call:
				return Feedback{
					Action:  game.Call,
					Advice:  fmt.Sprintf("Solid call. In the %s, you have the right price to see a flop with this hand.", position),
					Correct: true,
				}
			case game.Raise:
				return Feedback{
					Action:   game.Call,
					Advice:   "A call is better here. Raising bloats the pot with a hand that prefers a lower-variance flop.",
					Severity: Minor,
				}
			}
			return Feedback{
				Action:   game.Call,
				Advice:   fmt.Sprintf("Don't fold this. You're in the %s and getting a good price to defend.", position),
				Severity: Minor,
			}
		}

		if action == game.Fold {
			return Feedback{
				Action:  game.Fold,
				Advice:  fmt.Sprintf("Good fold. This hand is too weak to continue against a %s raise.", aggressorPos),
				Correct: true,
			}
		}
		return Feedback{
			Action:   game.Fold,
			Advice:   "Fold is the standard play here. Don't bleed chips with marginal hands against an open raise.",
			Severity: Minor,
		}
	}

	// No position-vs-position table: fall back to the generic 3-bet range
	if ranges.InRange(hand, a.tables.ThreeBet(position)) {
		if action == game.Raise {
			return Feedback{
				Action:  game.Raise,
				Advice:  fmt.Sprintf("Aggressive and correct. This is a premium 3-betting hand from %s.", position),
				Correct: true,
			}
		}
		return Feedback{
			Action:   game.Raise,
			Advice:   "Standard 3-bet. You should be re-raising this premium hand to build value.",
			Severity: Major,
		}
	}

	if action == game.Fold {
		return Feedback{Action: game.Fold, Advice: "Correct fold against the open raise.", Correct: true}
	}
	return Feedback{
		Action:   game.Fold,
		Advice:   "This hand is likely too weak to continue. Folding is the safest and most standard play here.",
		Severity: Minor,
	}
}

func (a *Advisor) analyzePostFlop(player game.Player, state game.GameState, action game.Action, amount int) Feedback {
	currentMaxBet := state.CurrentMaxBet()
	callAmount := currentMaxBet - player.CurrentBet
	wasLastAggressor := state.LastAggressorID == player.ID

	potOdds := pokermath.PotOdds(callAmount, state.Pot)
	texture := pokermath.AnalyzeTexture(state.CommunityCards)
	draw := pokermath.IdentifyDraws(player.HoleCards, state.CommunityCards)

	cards := append(append([]deck.Card(nil), player.HoleCards...), state.CommunityCards...)
	strength, err := evaluator.Evaluate(cards)
	if err != nil {
		return Feedback{Action: action, Advice: "Not enough cards to judge yet.", Correct: true}
	}

	// Mathematical fold errors: folding a draw that has the right price
	if action == game.Fold && callAmount > 0 {
		if draw.Equity > potOdds {
			return Feedback{
				Action: game.Call,
				Advice: fmt.Sprintf("Mathematical error. You have %.1f%% equity with a %s, but only need %.1f%% to break even. This is a profitable call long-term.",
					draw.Equity, draw.Type, potOdds),
				Severity:   Major,
				PotOdds:    potOdds,
				HasPotOdds: true,
				Equity:     draw.Equity,
				HasEquity:  true,
			}
		}
		if strength.Category >= evaluator.Pair {
			return Feedback{
				Action: game.Call,
				Advice: fmt.Sprintf("Too tight. You have %s on a %s board. Folding here is over-folding; at least call to see the next card.",
					strength.Category, texture.Description),
				Severity: Minor,
			}
		}
	}

	if action == game.Check && callAmount == 0 {
		// Continuation bet opportunity: the player took the last aggressive
		// action pre-flop and checked the flop
		if wasLastAggressor && state.Phase == game.Flop {
			sizing, reasoning := "65% Pot", "This is a wet board. Bet larger (65%+ pot) to protect your equity against draws."
			if texture.Dry {
				sizing, reasoning = "33% Pot", "This is a dry board. A small continuation bet (33% pot) folds out air cheaply."
			}
			return Feedback{
				Action:         game.Bet,
				Advice:         "Continuation bet opportunity. " + reasoning,
				Correct:        true,
				ExpectedSizing: sizing,
			}
		}

		if strength.Category >= evaluator.TwoPair {
			return Feedback{
				Action: game.Bet,
				Advice: fmt.Sprintf("Value bet missed. You have %s. On this %s board, build the pot to get paid by weaker hands.",
					strength.Category, texture.Description),
				Severity:       Minor,
				ExpectedSizing: "75% Pot",
			}
		}
	}

	// Sizing feedback for wagers
	if (action == game.Bet || action == game.Raise) && amount > 0 && state.Pot > 0 {
		relative := float64(amount-currentMaxBet) / float64(state.Pot)

		if texture.Dry && relative > 0.6 {
			return Feedback{
				Action:         game.Bet,
				Advice:         "Sizing warning: betting very large on a dry board. Smaller sizes (33%) stay balanced and keep worse hands in.",
				Correct:        true,
				ExpectedSizing: "33% Pot",
			}
		}
		if texture.Wet && relative < 0.4 {
			return Feedback{
				Action:         game.Bet,
				Advice:         "Sizing warning: this wet board has many draws and you're giving too good a price to chase. Size up to 65-75% pot.",
				Correct:        true,
				ExpectedSizing: "75% Pot",
			}
		}
	}

	fb := Feedback{
		Action:  action,
		Advice:  fmt.Sprintf("Good logic. You're playing correctly based on %s and the %s board texture.", strength.Category, texture.Description),
		Correct: true,
	}
	if callAmount > 0 {
		fb.PotOdds = potOdds
		fb.HasPotOdds = true
	}
	if draw.Type != pokermath.NoDraw {
		fb.Equity = draw.Equity
		fb.HasEquity = true
	}
	return fb
}

// PositionName labels a seat relative to the dealer. Six-handed tables get
// the full BTN/SB/BB/UTG/MP/CO mapping; other sizes fall back to a coarse
// CO/MP split.
func PositionName(player game.Player, state game.GameState) string {
	n := len(state.Players)
	diff := (player.Seat - state.DealerIndex + n) % n

	if diff == 0 {
		return "BTN"
	}
	if n == 6 {
		switch diff {
		case 1:
			return "SB"
		case 2:
			return "BB"
		case 3:
			return "UTG"
		case 4:
			return "MP"
		case 5:
			return "CO"
		}
	}
	if diff == n-1 {
		return "CO"
	}
	return "MP"
}
