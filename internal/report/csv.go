package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/seqfin/absim/internal/waterfall"
)

// WriteCSV serializes a record sequence as a flat table, one row per
// period. Fee and tranche columns are derived from the first record, so
// every record must come from the same run. Decimal values are written
// exactly; two reruns of the same deal produce byte-identical output.
func WriteCSV(w io.Writer, records []waterfall.PeriodRecord) error {
	if len(records) == 0 {
		return fmt.Errorf("report: no records to write")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header(records[0])); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(row(rec)); err != nil {
			return fmt.Errorf("write period %d: %w", rec.Period, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func header(rec waterfall.PeriodRecord) []string {
	cols := []string{
		"period",
		"pool_beginning", "pool_interest", "scheduled", "prepaid",
		"defaulted", "recovered", "collections",
	}
	for _, f := range rec.Fees {
		cols = append(cols,
			"fee_"+f.Name+"_due",
			"fee_"+f.Name+"_paid",
			"fee_"+f.Name+"_shortfall",
		)
	}
	cols = append(cols, "reserve_draw", "reserve_deposit", "reserve_balance")
	for _, t := range rec.Tranches {
		cols = append(cols,
			t.Name+"_interest_due",
			t.Name+"_interest_paid",
			t.Name+"_interest_shortfall",
			t.Name+"_principal_paid",
			t.Name+"_losses",
			t.Name+"_ending_balance",
			t.Name+"_stage",
			t.Name+"_allowance",
		)
	}
	cols = append(cols,
		"principal_paid", "call_redemption",
		"residual_retained", "residual_paid", "reinvested",
		"pool_ending", "called", "truncated",
	)
	return cols
}

func row(rec waterfall.PeriodRecord) []string {
	vals := []string{
		strconv.Itoa(rec.Period),
		rec.PoolBeginning.String(),
		rec.PoolInterest.String(),
		rec.Scheduled.String(),
		rec.Prepaid.String(),
		rec.Defaulted.String(),
		rec.Recovered.String(),
		rec.Collections.String(),
	}
	for _, f := range rec.Fees {
		vals = append(vals, f.Due.String(), f.Paid.String(), f.Shortfall.String())
	}
	vals = append(vals,
		rec.ReserveDraw.String(),
		rec.ReserveDeposit.String(),
		rec.ReserveBalance.String(),
	)
	for _, t := range rec.Tranches {
		vals = append(vals,
			t.InterestDue.String(),
			t.InterestPaid.String(),
			t.InterestShortfall.String(),
			t.PrincipalPaid.String(),
			t.LossAllocated.String(),
			t.EndingBalance.String(),
			strconv.Itoa(int(t.Stage)),
			t.Allowance.String(),
		)
	}
	vals = append(vals,
		rec.PrincipalPaid.String(),
		rec.CallRedemption.String(),
		rec.ResidualRetained.String(),
		rec.ResidualPaid.String(),
		rec.Reinvested.String(),
		rec.PoolEnding.String(),
		strconv.FormatBool(rec.Called),
		strconv.FormatBool(rec.Truncated),
	)
	return vals
}
