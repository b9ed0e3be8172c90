package ranges

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// VsOpenRanges holds the response ranges when facing a single open raise
// from a specific position.
type VsOpenRanges struct {
	ThreeBet []string `hcl:"three_bet,optional"`
	Call     []string `hcl:"call,optional"`
}

// PositionRanges holds the range tables for one seat
type PositionRanges struct {
	RFI      []string
	ThreeBet []string
	VsOpen   map[string]VsOpenRanges // keyed by opener position code
}

// Tables is an immutable set of position range tables. Build one at startup
// with Default or Load and inject it into consumers; never mutate it after.
type Tables struct {
	positions map[string]PositionRanges
}

// Position returns the ranges for a position code like "BTN" or "UTG"
func (t *Tables) Position(code string) (PositionRanges, bool) {
	pr, ok := t.positions[code]
	return pr, ok
}

// RFI returns the raise-first-in range for a position, or nil if the
// position is unknown.
func (t *Tables) RFI(code string) []string {
	return t.positions[code].RFI
}

// ThreeBet returns the generic 3-bet range for a position
func (t *Tables) ThreeBet(code string) []string {
	return t.positions[code].ThreeBet
}

// VsOpen returns the response ranges for a position facing an open from
// the given opener position.
func (t *Tables) VsOpen(code, opener string) (VsOpenRanges, bool) {
	vs, ok := t.positions[code].VsOpen[opener]
	return vs, ok
}

// HCL schema for external range table files
type tablesHCL struct {
	Positions []positionHCL `hcl:"position,block"`
}

type positionHCL struct {
	Code     string      `hcl:"code,label"`
	RFI      []string    `hcl:"rfi,optional"`
	ThreeBet []string    `hcl:"three_bet,optional"`
	VsOpen   []vsOpenHCL `hcl:"vs_open,block"`
}

type vsOpenHCL struct {
	Opener   string   `hcl:"opener,label"`
	ThreeBet []string `hcl:"three_bet,optional"`
	Call     []string `hcl:"call,optional"`
}

// Load parses range tables from an HCL file. Patterns that don't fit the
// grammar are kept (they match nothing) but logged so chart typos surface.
//
//	position "BTN" {
//	  rfi       = ["22+", "A2s+", "KTo+"]
//	  three_bet = ["JJ+", "AQs+"]
//	  vs_open "CO" {
//	    three_bet = ["QQ+", "AKs"]
//	    call      = ["TT-JJ", "AQs"]
//	  }
//	}
func Load(filename string, logger *log.Logger) (*Tables, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("range table file not found: %s", filename)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse range tables: %s", diags.Error())
	}

	var raw tablesHCL
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode range tables: %s", diags.Error())
	}

	tables := &Tables{positions: make(map[string]PositionRanges, len(raw.Positions))}
	for _, pos := range raw.Positions {
		pr := PositionRanges{
			RFI:      pos.RFI,
			ThreeBet: pos.ThreeBet,
			VsOpen:   make(map[string]VsOpenRanges, len(pos.VsOpen)),
		}
		for _, vs := range pos.VsOpen {
			pr.VsOpen[vs.Opener] = VsOpenRanges{ThreeBet: vs.ThreeBet, Call: vs.Call}
		}
		tables.positions[pos.Code] = pr

		if logger != nil {
			warnInvalidPatterns(logger, pos.Code, pr)
		}
	}

	return tables, nil
}

func warnInvalidPatterns(logger *log.Logger, code string, pr PositionRanges) {
	check := func(kind string, patterns []string) {
		for _, p := range patterns {
			if !Valid(p) {
				logger.Warn("range pattern doesn't fit the grammar and will never match",
					"position", code, "table", kind, "pattern", p)
			}
		}
	}
	check("rfi", pr.RFI)
	check("three_bet", pr.ThreeBet)
	for opener, vs := range pr.VsOpen {
		check("vs_open."+opener+".three_bet", vs.ThreeBet)
		check("vs_open."+opener+".call", vs.Call)
	}
}

// Default returns the built-in 6-max range tables, used when no external
// table file is supplied.
func Default() *Tables {
	return &Tables{positions: map[string]PositionRanges{
		"UTG": {
			RFI:      []string{"77+", "ATs+", "KQs", "AJo+", "KQo"},
			ThreeBet: []string{"QQ+", "AKs", "AKo"},
		},
		"MP": {
			RFI:      []string{"66+", "A9s+", "KTs+", "QJs", "JTs", "ATo+", "KJo+"},
			ThreeBet: []string{"JJ+", "AQs+", "AKo"},
			VsOpen: map[string]VsOpenRanges{
				"UTG": {
					ThreeBet: []string{"QQ+", "AKs", "AKo"},
					Call:     []string{"88-JJ", "AQs", "AJs", "KQs"},
				},
			},
		},
		"CO": {
			RFI:      []string{"44+", "A5s+", "K9s+", "Q9s+", "J9s+", "T9s", "98s", "A9o+", "KTo+", "QJo"},
			ThreeBet: []string{"JJ+", "AQs+", "AKo"},
			VsOpen: map[string]VsOpenRanges{
				"UTG": {
					ThreeBet: []string{"QQ+", "AKs", "AKo"},
					Call:     []string{"88-JJ", "AQs+", "KQs"},
				},
				"MP": {
					ThreeBet: []string{"JJ+", "AQs+", "AKo"},
					Call:     []string{"66-TT", "ATs+", "KTs+", "QJs"},
				},
			},
		},
		"BTN": {
			RFI: []string{"22+", "A2s+", "K5s+", "Q7s+", "J8s+", "T8s+", "97s+", "87s", "76s", "65s",
				"A2o+", "K9o+", "Q9o+", "J9o+", "T9o"},
			ThreeBet: []string{"TT+", "AJs+", "KQs", "AQo+"},
			VsOpen: map[string]VsOpenRanges{
				"UTG": {
					ThreeBet: []string{"QQ+", "AKs", "AKo"},
					Call:     []string{"66-JJ", "AQs+", "KQs", "JTs"},
				},
				"MP": {
					ThreeBet: []string{"JJ+", "AQs+", "AKo"},
					Call:     []string{"55-TT", "ATs+", "KTs+", "QJs", "JTs"},
				},
				"CO": {
					ThreeBet: []string{"TT+", "AJs+", "KQs", "AQo+"},
					Call:     []string{"22-99", "A8s+", "KTs+", "QTs+", "JTs", "T9s"},
				},
			},
		},
		"SB": {
			RFI:      []string{"22+", "A2s+", "K7s+", "Q8s+", "J8s+", "T8s+", "98s", "A7o+", "KTo+", "QTo+", "JTo"},
			ThreeBet: []string{"JJ+", "AQs+", "AKo"},
			VsOpen: map[string]VsOpenRanges{
				"CO": {
					ThreeBet: []string{"JJ+", "AQs+", "AKo"},
					Call:     []string{"66-TT", "ATs+", "KJs+"},
				},
				"BTN": {
					ThreeBet: []string{"TT+", "ATs+", "KQs", "AJo+"},
					Call:     []string{"22-99", "A2s-A9s", "KTs+", "QTs+", "JTs"},
				},
			},
		},
		"BB": {
			RFI:      []string{"22+", "A2s+", "K2s+", "Q2s+", "J7s+", "A2o+", "K9o+", "Q9o+", "J9o+"},
			ThreeBet: []string{"JJ+", "AQs+", "AKo"},
			VsOpen: map[string]VsOpenRanges{
				"UTG": {
					ThreeBet: []string{"QQ+", "AKs", "AKo"},
					Call:     []string{"22-JJ", "A9s+", "A5s-A2s", "KTs+", "QTs+", "JTs", "T9s", "98s", "AQo+"},
				},
				"MP": {
					ThreeBet: []string{"JJ+", "AQs+", "AKo"},
					Call:     []string{"22-TT", "A7s+", "A5s-A2s", "K9s+", "Q9s+", "J9s+", "T9s", "98s", "87s", "AJo+", "KQo"},
				},
				"CO": {
					ThreeBet: []string{"TT+", "AJs+", "KQs", "AQo+"},
					Call:     []string{"22-99", "A2s+", "K9s+", "Q9s+", "J8s+", "T8s+", "97s+", "87s", "76s", "ATo+", "KJo+"},
				},
				"BTN": {
					ThreeBet: []string{"99+", "ATs+", "KJs+", "AJo+", "KQo"},
					Call: []string{"22-88", "A2s+", "K5s+", "Q7s+", "J7s+", "T7s+", "96s+", "86s+", "75s+", "65s",
						"A2o+", "K9o+", "Q9o+", "J9o+", "T9o"},
				},
				"SB": {
					ThreeBet: []string{"88+", "A9s+", "KTs+", "ATo+", "KQo"},
					Call:     []string{"22-77", "A2s+", "K2s+", "Q5s+", "J7s+", "T7s+", "97s+", "86s+", "76s", "A2o+", "K7o+", "Q9o+", "J9o+"},
				},
			},
		},
	}}
}
