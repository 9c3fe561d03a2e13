package dealconfig

import (
	"github.com/shopspring/decimal"

	"github.com/seqfin/absim/internal/fees"
	"github.com/seqfin/absim/internal/pool"
	"github.com/seqfin/absim/internal/reserve"
	"github.com/seqfin/absim/internal/tranche"
	"github.com/seqfin/absim/internal/waterfall"
)

// Build converts a validated deal into the engine's initial state and
// parameters. All wire-format floats become exact decimals here, once.
func Build(d *Deal) (*waterfall.State, waterfall.Params) {
	p := pool.New(pool.Config{
		OriginalBalance: decimal.NewFromFloat(d.Pool.OriginalBalance),
		CouponRate:      decimal.NewFromFloat(d.Pool.CouponRate),
		TermPeriods:     d.Pool.TermPeriods,
		PrepaymentRate:  decimal.NewFromFloat(d.Pool.PrepaymentRate),
		DefaultRate:     decimal.NewFromFloat(d.Pool.DefaultRate),
		RecoveryRate:    decimal.NewFromFloat(d.Pool.RecoveryRate),
		RecoveryLag:     d.Pool.RecoveryLagPeriods,
	})

	staging := buildStaging(d.Impairment)

	tranches := make([]*tranche.Tranche, 0, len(d.Tranches))
	for _, tr := range d.Tranches {
		tranches = append(tranches, tranche.New(tranche.Config{
			Name:            tr.Name,
			OriginalBalance: decimal.NewFromFloat(tr.OriginalBalance),
			CouponRate:      decimal.NewFromFloat(tr.CouponRate),
			Priority:        tr.Priority,
			ArrearsPolicy:   tranche.ArrearsPolicy(tr.ArrearsPolicy),
			EffectiveRate:   decimal.NewFromFloat(tr.EffectiveInterestRate),
		}, staging))
	}

	feeList := make([]fees.Fee, 0, len(d.Fees))
	for _, f := range d.Fees {
		tiers := make([]fees.Tier, 0, len(f.Tiers))
		for _, t := range f.Tiers {
			tiers = append(tiers, fees.Tier{
				PeriodStart: t.PeriodStart,
				PeriodEnd:   t.PeriodEnd,
				Rate:        decimal.NewFromFloat(t.Rate),
			})
		}
		feeList = append(feeList, fees.Fee{
			Name:     f.Name,
			Kind:     fees.Kind(f.Kind),
			BaseRate: decimal.NewFromFloat(f.BaseRate),
			Priority: f.Priority,
			Base:     fees.Base(f.Base),
			Tiers:    tiers,
		})
	}

	state := waterfall.NewState(p, tranches, reserve.New(decimal.NewFromFloat(d.Reserve.OpeningBalance)))

	params := waterfall.Params{
		Fees: feeList,
		Call: waterfall.CallOption{
			Enabled:           d.Call.Enabled,
			CallPeriod:        d.Call.CallPeriod,
			PriceFactor:       decimal.NewFromFloat(d.Call.CallPriceFactor),
			BalanceTriggerPct: decimal.NewFromFloat(d.Call.BalanceTriggerPct),
		},
		ReserveTargetPct:  decimal.NewFromFloat(d.Reserve.TargetPct),
		ReserveTargetBase: waterfall.ReserveBase(d.Reserve.TargetBase),
		SwitchPeriod:      d.Waterfall.ProRataSwitchPeriod,
		ResidualPolicy:    waterfall.ResidualPolicy(d.Waterfall.ResidualPolicy),
		MaxPeriods:        d.Waterfall.MaxPeriods,
	}

	return state, params
}

func buildStaging(imp *ImpairmentDef) tranche.StagingConfig {
	if imp == nil {
		return tranche.DefaultStaging()
	}
	return tranche.StagingConfig{
		Stage2ConsecutiveShortfalls:  imp.Stage2ConsecutiveShortfalls,
		Stage2DefaultRateThreshold:   decimal.NewFromFloat(imp.Stage2DefaultRateThreshold),
		Stage3CumulativeShortfallPct: decimal.NewFromFloat(imp.Stage3CumulativeShortfallPct),
		Stage3UnpaidPeriods:          imp.Stage3UnpaidPeriods,
		CureCleanPeriods:             imp.CureCleanPeriods,
		Stage1Rate:                   decimal.NewFromFloat(imp.Stage1AllowanceRate),
		Stage2Rate:                   decimal.NewFromFloat(imp.Stage2AllowanceRate),
		Stage3Rate:                   decimal.NewFromFloat(imp.Stage3AllowanceRate),
	}
}
