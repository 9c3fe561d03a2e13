package fees

import (
	"sort"

	"github.com/shopspring/decimal"
)

var twelve = decimal.NewFromInt(12)

// Kind discriminates how a fee's rate is resolved.
type Kind string

const (
	KindFlat   Kind = "flat"
	KindTiered Kind = "tiered"
)

// Base selects which balance the fee accrues on.
type Base string

const (
	BasePoolCurrent  Base = "pool_current"
	BasePoolOriginal Base = "pool_original"
)

// Tier is one leg of a tiered rate schedule, inclusive on both ends.
type Tier struct {
	PeriodStart int
	PeriodEnd   int
	Rate        decimal.Decimal
}

// Contains reports whether period falls inside the tier.
func (t Tier) Contains(period int) bool {
	return t.PeriodStart <= period && period <= t.PeriodEnd
}

// Fee is an immutable waterfall fee definition. Rates are annual and
// accrue monthly on the configured base balance.
type Fee struct {
	Name     string
	Kind     Kind
	BaseRate decimal.Decimal
	Priority int
	Base     Base
	Tiers    []Tier
}

// Rate resolves the annual rate in effect for a period. For tiered fees
// the first matching tier wins; tiers are validated non-overlapping in
// strict mode, otherwise overlap resolution is first-match by
// construction order. A period outside every tier accrues nothing.
func (f Fee) Rate(period int) decimal.Decimal {
	if f.Kind != KindTiered {
		return f.BaseRate
	}
	for _, tier := range f.Tiers {
		if tier.Contains(period) {
			return tier.Rate
		}
	}
	return decimal.Zero
}

// Due returns the fee amount owed for a period.
func (f Fee) Due(period int, poolCurrent, poolOriginal decimal.Decimal) decimal.Decimal {
	base := poolCurrent
	if f.Base == BasePoolOriginal {
		base = poolOriginal
	}
	return f.Rate(period).Div(twelve).Mul(base)
}

// SortByPriority returns a copy of fs ordered by ascending priority,
// which is the order the waterfall pays them.
func SortByPriority(fs []Fee) []Fee {
	sorted := make([]Fee, len(fs))
	copy(sorted, fs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return sorted
}

// Overlapping reports the indexes of the first pair of overlapping tiers,
// or (-1, -1) when the schedule is clean.
func Overlapping(tiers []Tier) (int, int) {
	for i := 0; i < len(tiers); i++ {
		for j := i + 1; j < len(tiers); j++ {
			if tiers[i].PeriodStart <= tiers[j].PeriodEnd && tiers[j].PeriodStart <= tiers[i].PeriodEnd {
				return i, j
			}
		}
	}
	return -1, -1
}
