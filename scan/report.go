package scan

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

func price(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "-"
	}
	return decimal.NewFromFloat(x).StringFixed(2)
}

// Print renders the report the way the daily scan is read in a terminal.
func Print(w io.Writer, r Report) {
	fmt.Fprintf(w, "\n===== %s SCAN FOR %s =====\n", r.Strategy, r.Date.Format(time.DateOnly))

	fmt.Fprintln(w, "\n--- ENTRY SIGNALS ---")
	if len(r.Entries) == 0 {
		fmt.Fprintln(w, "No entries today.")
	}
	for _, e := range r.Entries {
		fmt.Fprintf(w, "%s | Entry: %s | Stop: %s | Target: %s | Qty: %d | Risk: %s\n",
			e.Symbol, price(e.Entry), price(e.Stop), price(e.Target), e.Quantity, price(e.RiskAmount))
	}

	fmt.Fprintln(w, "\n--- EXIT FROM STOCKS ---")
	if len(r.Exits) == 0 {
		fmt.Fprintln(w, "No exits today.")
	}
	for _, x := range r.Exits {
		fmt.Fprintf(w, "%s | Close: %s | Breakdown: %s\n", x.Symbol, price(x.Close), price(x.BreakdownLow))
	}
}
