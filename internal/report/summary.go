package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/seqfin/absim/internal/waterfall"
)

// PrintSummary writes a human-readable tear sheet for a completed run.
func PrintSummary(w io.Writer, res *waterfall.Result) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintf(w, "  Simulation %s\n", res.RunID)
	fmt.Fprintln(w, strings.Repeat("-", 62))

	s := res.Summary
	fmt.Fprintf(w, "  Periods          : %d\n", s.Periods)
	fmt.Fprintf(w, "  Called           : %v\n", res.Called)
	fmt.Fprintf(w, "  Truncated        : %v\n", res.Truncated)
	fmt.Fprintf(w, "  Total fees       : %s\n", s.TotalFees.StringFixed(2))
	fmt.Fprintf(w, "  Total interest   : %s\n", s.TotalInterest.StringFixed(2))
	fmt.Fprintf(w, "  Total principal  : %s\n", s.TotalPrincipal.StringFixed(2))
	fmt.Fprintf(w, "  Total residual   : %s\n", s.TotalResidual.StringFixed(2))
	fmt.Fprintf(w, "  Ending reserve   : %s\n", s.EndingReserve.StringFixed(2))
	fmt.Fprintf(w, "  Pool ending      : %s\n", s.PoolEnding.StringFixed(2))
	fmt.Fprintf(w, "  Duration         : %.3fs\n", res.Duration.Seconds())
	fmt.Fprintln(w, strings.Repeat("-", 62))

	fmt.Fprintf(w, "  %-8s %14s %14s %10s %6s %8s\n",
		"Tranche", "Interest", "Principal", "Losses", "Stage", "WAL(y)")
	for _, t := range s.Tranches {
		fmt.Fprintf(w, "  %-8s %14s %14s %10s %6d %8s\n",
			t.Name,
			t.InterestPaid.StringFixed(2),
			t.PrincipalPaid.StringFixed(2),
			t.Losses.StringFixed(2),
			t.FinalStage,
			t.WAL.StringFixed(2),
		)
	}
	fmt.Fprintln(w, strings.Repeat("=", 62))
}
