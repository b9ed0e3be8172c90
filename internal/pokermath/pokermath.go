// Package pokermath provides pure poker arithmetic: pot odds, board
// texture classification and draw equity estimation.
//
// Everything here is stateless and safe to call concurrently; functions
// only read their arguments and allocate local results.
package pokermath

import (
	"sort"

	"github.com/lox/holdem-trainer/internal/deck"
)

// PotOdds returns the percentage of the final pot a caller must win to
// break even: callAmount / (totalPot + callAmount) * 100. Returns 0 when
// there is nothing to call.
func PotOdds(callAmount, totalPot int) float64 {
	if callAmount == 0 {
		return 0
	}
	finalPot := totalPot + callAmount
	return float64(callAmount) / float64(finalPot) * 100
}

// Texture classifies how coordinated a board is
type Texture struct {
	Dry         bool
	Wet         bool
	Paired      bool
	Monotone    bool
	Connected   bool
	Description string
}

// AnalyzeTexture classifies community cards. Boards with fewer than three
// cards are pre-flop and classify as dry.
func AnalyzeTexture(community []deck.Card) Texture {
	if len(community) < 3 {
		return Texture{Dry: true, Description: "Pre-flop"}
	}

	values := make([]int, len(community))
	for i, c := range community {
		values[i] = c.Value()
	}
	sort.Ints(values)

	suitCounts := make(map[deck.Suit]int)
	for _, c := range community {
		suitCounts[c.Suit]++
	}
	monotone := false
	for _, n := range suitCounts {
		if n >= 3 {
			monotone = true
		}
	}

	valueCounts := make(map[int]int)
	for _, v := range values {
		valueCounts[v]++
	}
	paired := false
	for _, n := range valueCounts {
		if n >= 2 {
			paired = true
		}
	}

	// Connected: any three cards fall within a 4-value span (e.g. 7-8-9
	// or 7-8-J)
	connected := false
	for i := 0; i+2 < len(values); i++ {
		if values[i+2]-values[i] <= 4 {
			connected = true
			break
		}
	}

	tightSpread := values[len(values)-1]-values[0] <= 5
	wet := connected || monotone || tightSpread
	dry := !wet && !paired

	description := "Dynamic"
	if dry {
		description = "Dry"
	}
	if monotone {
		description = "Monotone"
	}
	if paired {
		description += " / Paired"
	}

	return Texture{
		Dry:         dry,
		Wet:         wet,
		Paired:      paired,
		Monotone:    monotone,
		Connected:   connected,
		Description: description,
	}
}

// DrawType identifies the kind of draw a hand holds
type DrawType int

const (
	NoDraw DrawType = iota
	FlushDraw
	OpenEndedStraightDraw
	Gutshot
	ComboDraw
)

func (d DrawType) String() string {
	switch d {
	case FlushDraw:
		return "flush draw"
	case OpenEndedStraightDraw:
		return "open-ended straight draw"
	case Gutshot:
		return "gutshot"
	case ComboDraw:
		return "combo draw"
	default:
		return "no draw"
	}
}

// Draw describes a detected draw with its outs and estimated equity
type Draw struct {
	Type   DrawType
	Outs   int
	Equity float64
}

// IdentifyDraws detects flush and straight draws among the known cards and
// estimates equity with the rule of 2 and 4: outs x4 on the flop (two
// cards to come), x2 on the turn, zero on the river.
func IdentifyDraws(holeCards, community []deck.Card) Draw {
	all := make([]deck.Card, 0, len(holeCards)+len(community))
	all = append(all, holeCards...)
	all = append(all, community...)

	suitCounts := make(map[deck.Suit]int)
	for _, c := range all {
		suitCounts[c.Suit]++
	}
	flushDraw := false
	for _, n := range suitCounts {
		if n == 4 {
			flushDraw = true
		}
	}

	unique := make(map[int]bool)
	for _, c := range all {
		unique[c.Value()] = true
	}
	values := make([]int, 0, len(unique))
	for v := range unique {
		values = append(values, v)
	}
	sort.Ints(values)

	oesd, gutshot := straightDraws(values, unique)

	var outs int
	var drawType DrawType
	switch {
	case flushDraw && (oesd || gutshot):
		drawType = ComboDraw
		outs = 15 // 9 flush outs plus straight outs, minus overlap
	case flushDraw:
		drawType = FlushDraw
		outs = 9
	case oesd:
		drawType = OpenEndedStraightDraw
		outs = 8
	case gutshot:
		drawType = Gutshot
		outs = 4
	default:
		drawType = NoDraw
	}

	// Rule of 2 and 4
	multiplier := 0
	switch len(community) {
	case 3:
		multiplier = 4
	case 4:
		multiplier = 2
	}

	return Draw{
		Type:   drawType,
		Outs:   outs,
		Equity: float64(outs * multiplier),
	}
}

// straightDraws scans unique sorted values for four-card straight shapes.
// A span of 3 across four values is open-ended; a span of 4 is a gutshot.
// Four cards of the wheel or broadway also count as gutshots since one end
// is closed by the ace.
func straightDraws(values []int, present map[int]bool) (oesd, gutshot bool) {
	if len(values) < 4 {
		return false, false
	}

	for i := 0; i+3 < len(values); i++ {
		span := values[i+3] - values[i]
		switch span {
		case 3:
			oesd = true
		case 4:
			gutshot = true
		}
	}

	wheel := []int{int(deck.Ace), 2, 3, 4, 5}
	broadway := []int{int(deck.Ace), int(deck.King), int(deck.Queen), int(deck.Jack), int(deck.Ten)}

	if countPresent(wheel, present) == 4 || countPresent(broadway, present) == 4 {
		gutshot = true
	}

	return oesd, gutshot
}

func countPresent(target []int, present map[int]bool) int {
	n := 0
	for _, v := range target {
		if present[v] {
			n++
		}
	}
	return n
}
