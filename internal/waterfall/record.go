package waterfall

import (
	"github.com/shopspring/decimal"

	"github.com/seqfin/absim/internal/tranche"
)

// FeeFlow is one fee's flows for a period.
type FeeFlow struct {
	Name      string
	Due       decimal.Decimal
	Paid      decimal.Decimal
	Shortfall decimal.Decimal
}

// PeriodRecord is the engine's output for one period: a flat set of
// named numeric fields suitable for direct tabular serialization.
// Records are immutable once emitted, ordered by ascending period with
// no gaps.
type PeriodRecord struct {
	Period int

	// Pool flows.
	PoolBeginning decimal.Decimal
	PoolEnding    decimal.Decimal
	Scheduled     decimal.Decimal
	Prepaid       decimal.Decimal
	Defaulted     decimal.Decimal
	Recovered     decimal.Decimal
	PoolInterest  decimal.Decimal
	Collections   decimal.Decimal

	Fees []FeeFlow

	// Reserve movements.
	ReserveDraw    decimal.Decimal
	ReserveDeposit decimal.Decimal
	ReserveBalance decimal.Decimal

	Tranches []tranche.Flow

	// PrincipalPaid is principal funded from collections through the
	// waterfall; CallRedemption is principal funded by the call exercise.
	PrincipalPaid  decimal.Decimal
	CallRedemption decimal.Decimal

	// Residual cash by destination. At most one is nonzero per period,
	// depending on the configured policy; never silently discarded.
	ResidualRetained decimal.Decimal
	ResidualPaid     decimal.Decimal
	Reinvested       decimal.Decimal

	Called    bool
	Truncated bool
}

// TotalFeesPaid returns fee cash paid this period.
func (r PeriodRecord) TotalFeesPaid() decimal.Decimal {
	total := decimal.Zero
	for _, f := range r.Fees {
		total = total.Add(f.Paid)
	}
	return total
}

// TotalInterestPaid returns tranche interest cash paid this period.
func (r PeriodRecord) TotalInterestPaid() decimal.Decimal {
	total := decimal.Zero
	for _, t := range r.Tranches {
		total = total.Add(t.InterestPaid)
	}
	return total
}

// Residual returns the period's residual cash regardless of destination.
func (r PeriodRecord) Residual() decimal.Decimal {
	return r.ResidualRetained.Add(r.ResidualPaid).Add(r.Reinvested)
}

// NotesEnding returns the combined tranche balance after the period.
func (r PeriodRecord) NotesEnding() decimal.Decimal {
	total := decimal.Zero
	for _, t := range r.Tranches {
		total = total.Add(t.EndingBalance)
	}
	return total
}
