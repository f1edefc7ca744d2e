package portfolio

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// RenderTable prints the portfolio dashboard.
func RenderTable(w io.Writer, s Summary) {
	if len(s.Positions) == 0 {
		fmt.Fprintln(w, "no reconciled trades")
		return
	}

	table := tablewriter.NewWriter(w)
	table.Header("Symbol", "Dir", "Status", "Open Qty", "Entry Avg", "Exit Avg", "Realized", "Unrealized")

	for _, pos := range s.Positions {
		unrealized := pos.UnrealizedPL.StringFixed(2)
		if pos.Snapshot.Status == "OPEN" && !pos.HasLTP {
			unrealized = "n/a"
		}
		table.Append(
			pos.Trade.TradingSymbol,
			string(pos.Trade.Direction),
			string(pos.Snapshot.Status),
			fmt.Sprintf("%d", pos.Snapshot.OpenQuantity),
			pos.Snapshot.EntryAveragePrice.StringFixed(2),
			pos.Snapshot.ExitAveragePrice.StringFixed(2),
			pos.Snapshot.RealizedPL.StringFixed(2),
			unrealized,
		)
	}

	table.Render()

	fmt.Fprintf(w, "  open: %d  closed: %d  capital used: %s  realized: %s\n",
		s.OpenCount, s.ClosedCount, s.CapitalUsed.StringFixed(2), s.RealizedPL.StringFixed(2))
	if s.Complete {
		fmt.Fprintf(w, "  unrealized: %s\n", s.UnrealizedPL.StringFixed(2))
	} else {
		fmt.Fprintf(w, "  unrealized: %s (incomplete, quotes missing)\n", s.UnrealizedPL.StringFixed(2))
	}
}
