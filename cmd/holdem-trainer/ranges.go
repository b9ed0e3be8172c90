package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// RangesCmd prints the range tables the advisor and bots play from.
// Loading a file reports malformed patterns as warnings.
type RangesCmd struct {
	File     string `arg:"" optional:"" help:"HCL range table file (defaults to built-in tables)"`
	Position string `short:"p" help:"Only show one position (e.g. BTN)"`
}

var positionOrder = []string{"UTG", "MP", "CO", "BTN", "SB", "BB"}

func (c *RangesCmd) Run() error {
	logger := setupLogger(false)

	tables, err := loadTables(c.File, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	for _, code := range positionOrder {
		if c.Position != "" && !strings.EqualFold(c.Position, code) {
			continue
		}
		pr, ok := tables.Position(code)
		if !ok {
			continue
		}

		fmt.Fprintf(w, "%s\n", code)
		fmt.Fprintf(w, "  open:\t%s\n", strings.Join(pr.RFI, " "))
		if len(pr.ThreeBet) > 0 {
			fmt.Fprintf(w, "  3-bet:\t%s\n", strings.Join(pr.ThreeBet, " "))
		}
		for _, opener := range positionOrder {
			vs, ok := pr.VsOpen[opener]
			if !ok {
				continue
			}
			fmt.Fprintf(w, "  vs %s open:\t3-bet %s\n", opener, strings.Join(vs.ThreeBet, " "))
			fmt.Fprintf(w, "\tcall %s\n", strings.Join(vs.Call, " "))
		}
		fmt.Fprintln(w)
	}

	if c.Position != "" {
		if _, ok := tables.Position(strings.ToUpper(c.Position)); !ok {
			return fmt.Errorf("no ranges for position %q", c.Position)
		}
	}
	return nil
}
