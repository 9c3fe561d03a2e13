package waterfall

import (
	"github.com/shopspring/decimal"

	"github.com/seqfin/absim/internal/tranche"
)

var monthsPerYear = decimal.NewFromInt(12)

// Summary aggregates a run after the period loop, in the spirit of a
// deal-level tear sheet.
type Summary struct {
	Periods        int
	TotalFees      decimal.Decimal
	TotalInterest  decimal.Decimal
	TotalPrincipal decimal.Decimal
	TotalResidual  decimal.Decimal
	EndingReserve  decimal.Decimal
	PoolEnding     decimal.Decimal
	Tranches       []TrancheSummary
}

// TrancheSummary is the per-tranche view of a completed run.
type TrancheSummary struct {
	Name           string
	InterestPaid   decimal.Decimal
	PrincipalPaid  decimal.Decimal
	Losses         decimal.Decimal
	EndingBalance  decimal.Decimal
	FinalStage     tranche.Stage
	LossAllowance  decimal.Decimal
	InterestIncome decimal.Decimal
	// WAL is the weighted average life of principal repayment, in years.
	WAL decimal.Decimal
}

// summarize folds the record sequence and final state into a Summary.
func summarize(records []PeriodRecord, st *State) Summary {
	s := Summary{Periods: len(records)}
	if len(records) == 0 {
		return s
	}

	// Per-tranche principal-weighted period sums for WAL.
	weighted := make(map[string]decimal.Decimal)
	principal := make(map[string]decimal.Decimal)

	for _, rec := range records {
		s.TotalFees = s.TotalFees.Add(rec.TotalFeesPaid())
		s.TotalInterest = s.TotalInterest.Add(rec.TotalInterestPaid())
		s.TotalPrincipal = s.TotalPrincipal.Add(rec.PrincipalPaid).Add(rec.CallRedemption)
		s.TotalResidual = s.TotalResidual.Add(rec.Residual())

		period := decimal.NewFromInt(int64(rec.Period))
		for _, tf := range rec.Tranches {
			weighted[tf.Name] = weighted[tf.Name].Add(period.Mul(tf.PrincipalPaid))
			principal[tf.Name] = principal[tf.Name].Add(tf.PrincipalPaid)
		}
	}

	last := records[len(records)-1]
	s.EndingReserve = last.ReserveBalance
	s.PoolEnding = last.PoolEnding

	for _, t := range st.Tranches {
		ts := TrancheSummary{
			Name:           t.Name(),
			InterestPaid:   t.TotalInterestPaid(),
			PrincipalPaid:  t.TotalPrincipalPaid(),
			Losses:         t.TotalLosses(),
			EndingBalance:  t.Balance(),
			FinalStage:     t.Stage(),
			LossAllowance:  t.Allowance(),
			InterestIncome: t.InterestIncome(),
		}
		if paid := principal[t.Name()]; paid.Sign() > 0 {
			ts.WAL = weighted[t.Name()].Div(paid).Div(monthsPerYear)
		}
		s.Tranches = append(s.Tranches, ts)
	}
	return s
}
