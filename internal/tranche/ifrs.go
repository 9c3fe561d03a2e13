package tranche

import "github.com/shopspring/decimal"

// Stage is the IFRS 9 credit-quality classification of a tranche.
type Stage int

const (
	Stage1 Stage = 1 // performing
	Stage2 Stage = 2 // underperforming: significant increase in credit risk
	Stage3 Stage = 3 // credit-impaired
)

// StagingConfig parameterizes impairment stage transitions and the loss
// allowance per stage. Allowance rates are expected-loss fractions of
// the exposure: Stage1Rate is the 12-month EL, the others lifetime EL.
type StagingConfig struct {
	// Stage 1 -> 2 triggers.
	Stage2ConsecutiveShortfalls int
	Stage2DefaultRateThreshold  decimal.Decimal // periodic pool default rate

	// Stage 2 -> 3 triggers.
	Stage3CumulativeShortfallPct decimal.Decimal // of original balance
	Stage3UnpaidPeriods          int

	// Cure: consecutive clean periods that step the stage back down.
	// Stage 3 reached through a principal write-down never cures.
	CureCleanPeriods int

	Stage1Rate decimal.Decimal
	Stage2Rate decimal.Decimal
	Stage3Rate decimal.Decimal
}

// DefaultStaging returns the staging parameters used when a deal file
// leaves the impairment section empty.
func DefaultStaging() StagingConfig {
	return StagingConfig{
		Stage2ConsecutiveShortfalls:  2,
		Stage2DefaultRateThreshold:   decimal.NewFromFloat(0.01),
		Stage3CumulativeShortfallPct: decimal.NewFromFloat(0.05),
		Stage3UnpaidPeriods:          6,
		CureCleanPeriods:             3,
		Stage1Rate:                   decimal.NewFromFloat(0.01),
		Stage2Rate:                   decimal.NewFromFloat(0.03),
		Stage3Rate:                   decimal.NewFromFloat(1.0),
	}
}

// AllowanceRate returns the expected-loss fraction for a stage.
func (c StagingConfig) AllowanceRate(s Stage) decimal.Decimal {
	switch s {
	case Stage3:
		return c.Stage3Rate
	case Stage2:
		return c.Stage2Rate
	default:
		return c.Stage1Rate
	}
}

// applyStaging runs the period's stage transitions. Transitions move at
// most one stage per period in each direction: deterioration first,
// then cure. Cure is symmetric with deterioration (3->2, 2->1) and
// requires the configured run of clean periods.
func (t *Tranche) applyStaging(poolDefaultRate decimal.Decimal) {
	shortfall := t.periodShortfall.Sign() > 0
	if shortfall {
		t.consecutiveShortfalls++
		t.consecutiveClean = 0
	} else {
		t.consecutiveShortfalls = 0
		t.consecutiveClean++
	}

	switch t.stage {
	case Stage1:
		if t.consecutiveShortfalls >= t.staging.Stage2ConsecutiveShortfalls && t.staging.Stage2ConsecutiveShortfalls > 0 {
			t.stage = Stage2
			return
		}
		if t.staging.Stage2DefaultRateThreshold.Sign() > 0 && poolDefaultRate.GreaterThanOrEqual(t.staging.Stage2DefaultRateThreshold) {
			t.stage = Stage2
			return
		}
	case Stage2:
		threshold := t.cfg.OriginalBalance.Mul(t.staging.Stage3CumulativeShortfallPct)
		if t.staging.Stage3CumulativeShortfallPct.Sign() > 0 && t.cumulativeShortfall.GreaterThanOrEqual(threshold) {
			t.stage = Stage3
			return
		}
		if t.staging.Stage3UnpaidPeriods > 0 && t.consecutiveShortfalls >= t.staging.Stage3UnpaidPeriods {
			t.stage = Stage3
			return
		}
		if t.cured() {
			t.stage = Stage1
			t.consecutiveClean = 0
			t.cumulativeShortfall = decimal.Zero
		}
	case Stage3:
		if t.lossImpaired {
			return
		}
		if t.cured() {
			t.stage = Stage2
			t.consecutiveClean = 0
		}
	}
}

func (t *Tranche) cured() bool {
	return t.staging.CureCleanPeriods > 0 && t.consecutiveClean >= t.staging.CureCleanPeriods
}
