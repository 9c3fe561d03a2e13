package dealconfig

import (
	"fmt"
)

// ValidationError is a fatal configuration defect. Simulation never
// starts with an invalid deal; there are no mid-run config failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning is a non-fatal advisory about a questionable deal setup.
type Warning struct {
	Code    string
	Message string
}

// Validate checks all hard constraints on a deal.
func Validate(d *Deal) error {
	if d.Meta.DealID == "" {
		return ValidationError{"meta.deal_id", "required"}
	}

	// === Pool ===
	if d.Pool.OriginalBalance <= 0 {
		return ValidationError{"pool.original_balance", "must be > 0"}
	}
	if d.Pool.TermPeriods <= 0 {
		return ValidationError{"pool.term_periods", "must be > 0"}
	}
	if err := validateRate(d.Pool.CouponRate, "pool.coupon_rate"); err != nil {
		return err
	}
	if err := validateRate(d.Pool.PrepaymentRate, "pool.prepayment_rate"); err != nil {
		return err
	}
	if err := validateRate(d.Pool.DefaultRate, "pool.default_rate"); err != nil {
		return err
	}
	if err := validateRate(d.Pool.RecoveryRate, "pool.recovery_rate"); err != nil {
		return err
	}
	if d.Pool.RecoveryLagPeriods < 0 {
		return ValidationError{"pool.recovery_lag_periods", "must be >= 0"}
	}

	// === Tranches ===
	if len(d.Tranches) == 0 {
		return ValidationError{"tranches", "at least one tranche required"}
	}
	trPriorities := make(map[int]string)
	trNames := make(map[string]bool)
	for i, tr := range d.Tranches {
		field := fmt.Sprintf("tranches[%d]", i)
		if tr.Name == "" {
			return ValidationError{field + ".name", "required"}
		}
		if trNames[tr.Name] {
			return ValidationError{field + ".name", fmt.Sprintf("duplicate tranche name %q", tr.Name)}
		}
		trNames[tr.Name] = true
		if tr.OriginalBalance < 0 {
			return ValidationError{field + ".original_balance", "must be >= 0"}
		}
		if err := validateRate(tr.CouponRate, field+".coupon_rate"); err != nil {
			return err
		}
		if other, dup := trPriorities[tr.Priority]; dup {
			return ValidationError{field + ".priority", fmt.Sprintf("priority %d already used by tranche %q", tr.Priority, other)}
		}
		trPriorities[tr.Priority] = tr.Name
		if tr.ArrearsPolicy != "carry" && tr.ArrearsPolicy != "capitalize" {
			return ValidationError{field + ".arrears_policy", "must be carry or capitalize"}
		}
		if tr.EffectiveInterestRate < 0 || tr.EffectiveInterestRate > 1 {
			return ValidationError{field + ".effective_interest_rate", "must be in [0, 1]"}
		}
	}

	// === Fees ===
	feePriorities := make(map[int]string)
	for i, fee := range d.Fees {
		field := fmt.Sprintf("fees[%d]", i)
		if fee.Name == "" {
			return ValidationError{field + ".name", "required"}
		}
		if fee.Kind != "flat" && fee.Kind != "tiered" {
			return ValidationError{field + ".kind", "must be flat or tiered"}
		}
		if fee.Base != "pool_current" && fee.Base != "pool_original" {
			return ValidationError{field + ".base", "must be pool_current or pool_original"}
		}
		if err := validateRate(fee.BaseRate, field+".base_rate"); err != nil {
			return err
		}
		if other, dup := feePriorities[fee.Priority]; dup {
			return ValidationError{field + ".priority", fmt.Sprintf("priority %d already used by fee %q", fee.Priority, other)}
		}
		feePriorities[fee.Priority] = fee.Name

		if fee.Kind == "tiered" && len(fee.Tiers) == 0 {
			return ValidationError{field + ".tiers", "tiered fee requires at least one tier"}
		}
		for j, tier := range fee.Tiers {
			tierField := fmt.Sprintf("%s.tiers[%d]", field, j)
			if tier.PeriodStart < 1 {
				return ValidationError{tierField + ".period_start", "must be >= 1"}
			}
			if tier.PeriodEnd < tier.PeriodStart {
				return ValidationError{tierField + ".period_end", "must be >= period_start"}
			}
			if err := validateRate(tier.Rate, tierField+".rate"); err != nil {
				return err
			}
		}
		if d.Waterfall.StrictTiers {
			if i1, i2 := overlappingTiers(fee.Tiers); i1 >= 0 {
				return ValidationError{
					Field:   fmt.Sprintf("%s.tiers", field),
					Message: fmt.Sprintf("tiers[%d] and tiers[%d] overlap (strict_tiers)", i1, i2),
				}
			}
		}
	}

	// === Reserve ===
	if err := validateRate(d.Reserve.TargetPct, "reserve.target_pct"); err != nil {
		return err
	}
	if d.Reserve.TargetBase != "pool" && d.Reserve.TargetBase != "notes" {
		return ValidationError{"reserve.target_base", "must be pool or notes"}
	}
	if d.Reserve.OpeningBalance < 0 {
		return ValidationError{"reserve.opening_balance", "must be >= 0"}
	}

	// === Call ===
	if d.Call.Enabled {
		if d.Call.CallPeriod < 0 {
			return ValidationError{"call.call_period", "must be >= 0"}
		}
		if d.Call.CallPriceFactor <= 0 {
			return ValidationError{"call.call_price_factor", "must be > 0"}
		}
		if d.Call.BalanceTriggerPct < 0 || d.Call.BalanceTriggerPct > 1 {
			return ValidationError{"call.balance_trigger_pct", "must be in [0, 1]"}
		}
	}

	// === Waterfall ===
	if d.Waterfall.ProRataSwitchPeriod < 0 {
		return ValidationError{"waterfall.pro_rata_switch_period", "must be >= 0"}
	}
	switch d.Waterfall.ResidualPolicy {
	case "retain", "equity", "reinvest":
	default:
		return ValidationError{"waterfall.residual_policy", "must be retain, equity, or reinvest"}
	}
	if d.Waterfall.MaxPeriods <= 0 {
		return ValidationError{"waterfall.max_periods", "must be > 0"}
	}

	// === Impairment ===
	if imp := d.Impairment; imp != nil {
		if imp.Stage2ConsecutiveShortfalls < 0 || imp.Stage3UnpaidPeriods < 0 || imp.CureCleanPeriods < 0 {
			return ValidationError{"impairment", "period counts must be >= 0"}
		}
		for field, rate := range map[string]float64{
			"impairment.stage2_default_rate_threshold":   imp.Stage2DefaultRateThreshold,
			"impairment.stage3_cumulative_shortfall_pct": imp.Stage3CumulativeShortfallPct,
			"impairment.stage1_allowance_rate":           imp.Stage1AllowanceRate,
			"impairment.stage2_allowance_rate":           imp.Stage2AllowanceRate,
			"impairment.stage3_allowance_rate":           imp.Stage3AllowanceRate,
		} {
			if err := validateRate(rate, field); err != nil {
				return err
			}
		}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal).
func Warn(d *Deal) []Warning {
	var warnings []Warning

	notes := 0.0
	for _, tr := range d.Tranches {
		notes += tr.OriginalBalance
	}
	if notes > d.Pool.OriginalBalance {
		warnings = append(warnings, Warning{
			Code:    "NOTES_EXCEED_POOL",
			Message: fmt.Sprintf("note balance %.2f exceeds pool balance %.2f: junior tranches rely on excess spread", notes, d.Pool.OriginalBalance),
		})
	}

	if d.Reserve.TargetPct == 0 {
		for _, tr := range d.Tranches {
			if tr.ArrearsPolicy == "carry" {
				warnings = append(warnings, Warning{
					Code:    "NO_RESERVE",
					Message: "zero reserve target with carry-arrears tranches: interest shortfalls have no buffer",
				})
				break
			}
		}
	}

	if d.Call.Enabled && d.Call.CallPriceFactor < 1.0 {
		warnings = append(warnings, Warning{
			Code:    "DISCOUNT_CALL",
			Message: fmt.Sprintf("call price factor %.4f redeems notes below par", d.Call.CallPriceFactor),
		})
	}

	if d.Waterfall.ResidualPolicy == "reinvest" && d.Waterfall.ProRataSwitchPeriod <= 1 {
		warnings = append(warnings, Warning{
			Code:    "REINVEST_NO_WINDOW",
			Message: "reinvest residual policy has no effect without a revolving window before the pro-rata switch",
		})
	}

	return warnings
}

func validateRate(rate float64, field string) error {
	if rate < 0 || rate > 1 {
		return ValidationError{field, "must be in [0, 1]"}
	}
	return nil
}

// overlappingTiers returns the first overlapping pair, or (-1, -1).
func overlappingTiers(tiers []TierDef) (int, int) {
	for i := 0; i < len(tiers); i++ {
		for j := i + 1; j < len(tiers); j++ {
			if tiers[i].PeriodStart <= tiers[j].PeriodEnd && tiers[j].PeriodStart <= tiers[i].PeriodEnd {
				return i, j
			}
		}
	}
	return -1, -1
}
