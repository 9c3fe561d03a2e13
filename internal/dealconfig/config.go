package dealconfig

import "time"

// Deal is the full YAML definition of one securitization to simulate.
// Numeric fields stay in plain float/int form on the wire; Build
// converts them to exact decimals for the engine.
type Deal struct {
	Meta       Meta             `yaml:"meta" json:"meta"`
	Pool       PoolDef          `yaml:"pool" json:"pool"`
	Tranches   []TrancheDef     `yaml:"tranches" json:"tranches"`
	Fees       []FeeDef         `yaml:"fees" json:"fees"`
	Reserve    ReserveDef       `yaml:"reserve" json:"reserve"`
	Call       CallDef          `yaml:"call" json:"call"`
	Waterfall  WaterfallDef     `yaml:"waterfall" json:"waterfall"`
	Impairment *ImpairmentDef   `yaml:"impairment,omitempty" json:"impairment,omitempty"`
}

// Meta identifies the deal for hashing and audit.
type Meta struct {
	DealID  string `yaml:"deal_id" json:"deal_id"`
	Version string `yaml:"version" json:"version"`
}

// PoolDef describes the collateral pool. Rates are annual fractions.
type PoolDef struct {
	OriginalBalance    float64 `yaml:"original_balance" json:"original_balance"`
	CouponRate         float64 `yaml:"coupon_rate" json:"coupon_rate"`
	TermPeriods        int     `yaml:"term_periods" json:"term_periods"`
	PrepaymentRate     float64 `yaml:"prepayment_rate" json:"prepayment_rate"`
	DefaultRate        float64 `yaml:"default_rate" json:"default_rate"`
	RecoveryRate       float64 `yaml:"recovery_rate" json:"recovery_rate"`
	RecoveryLagPeriods int     `yaml:"recovery_lag_periods" json:"recovery_lag_periods"`
}

// TrancheDef describes one note tranche.
type TrancheDef struct {
	Name            string  `yaml:"name" json:"name"`
	OriginalBalance float64 `yaml:"original_balance" json:"original_balance"`
	CouponRate      float64 `yaml:"coupon_rate" json:"coupon_rate"`
	Priority        int     `yaml:"priority" json:"priority"`
	// ArrearsPolicy: "carry" (default) reports unpaid interest as an
	// arrears claim; "capitalize" adds it to the principal balance.
	ArrearsPolicy string `yaml:"arrears_policy" json:"arrears_policy"`
	// EffectiveInterestRate for IFRS amortized-cost accounting;
	// 0 means use the coupon.
	EffectiveInterestRate float64 `yaml:"effective_interest_rate" json:"effective_interest_rate"`
}

// FeeDef describes one waterfall fee.
type FeeDef struct {
	Name     string    `yaml:"name" json:"name"`
	Kind     string    `yaml:"kind" json:"kind"` // flat | tiered
	BaseRate float64   `yaml:"base_rate" json:"base_rate"`
	Priority int       `yaml:"priority" json:"priority"`
	Base     string    `yaml:"base" json:"base"` // pool_current | pool_original
	Tiers    []TierDef `yaml:"tiers,omitempty" json:"tiers,omitempty"`
}

// TierDef is one leg of a tiered fee schedule, inclusive on both ends.
type TierDef struct {
	PeriodStart int     `yaml:"period_start" json:"period_start"`
	PeriodEnd   int     `yaml:"period_end" json:"period_end"`
	Rate        float64 `yaml:"rate" json:"rate"`
}

// ReserveDef describes the reserve account rule.
type ReserveDef struct {
	TargetPct      float64 `yaml:"target_pct" json:"target_pct"`
	TargetBase     string  `yaml:"target_base" json:"target_base"` // pool | notes
	OpeningBalance float64 `yaml:"opening_balance" json:"opening_balance"`
}

// CallDef describes the clean-up call rule.
type CallDef struct {
	Enabled         bool    `yaml:"enabled" json:"enabled"`
	CallPeriod      int     `yaml:"call_period" json:"call_period"`
	CallPriceFactor float64 `yaml:"call_price_factor" json:"call_price_factor"`
	// BalanceTriggerPct > 0 additionally requires the pool balance to
	// drop below this fraction of the original pool.
	BalanceTriggerPct float64 `yaml:"balance_trigger_pct" json:"balance_trigger_pct"`
}

// WaterfallDef holds distribution settings.
type WaterfallDef struct {
	ProRataSwitchPeriod int    `yaml:"pro_rata_switch_period" json:"pro_rata_switch_period"`
	ResidualPolicy      string `yaml:"residual_policy" json:"residual_policy"` // retain | equity | reinvest
	MaxPeriods          int    `yaml:"max_periods" json:"max_periods"`
	// StrictTiers makes overlapping fee tiers a validation error instead
	// of first-match-wins.
	StrictTiers bool `yaml:"strict_tiers" json:"strict_tiers"`
}

// ImpairmentDef parameterizes IFRS staging; omit to use defaults.
type ImpairmentDef struct {
	Stage2ConsecutiveShortfalls  int     `yaml:"stage2_consecutive_shortfalls" json:"stage2_consecutive_shortfalls"`
	Stage2DefaultRateThreshold   float64 `yaml:"stage2_default_rate_threshold" json:"stage2_default_rate_threshold"`
	Stage3CumulativeShortfallPct float64 `yaml:"stage3_cumulative_shortfall_pct" json:"stage3_cumulative_shortfall_pct"`
	Stage3UnpaidPeriods          int     `yaml:"stage3_unpaid_periods" json:"stage3_unpaid_periods"`
	CureCleanPeriods             int     `yaml:"cure_clean_periods" json:"cure_clean_periods"`
	Stage1AllowanceRate          float64 `yaml:"stage1_allowance_rate" json:"stage1_allowance_rate"`
	Stage2AllowanceRate          float64 `yaml:"stage2_allowance_rate" json:"stage2_allowance_rate"`
	Stage3AllowanceRate          float64 `yaml:"stage3_allowance_rate" json:"stage3_allowance_rate"`
}

// Snapshot captures a validated deal for reproducibility: identical
// snapshots guarantee identical simulation output.
type Snapshot struct {
	ConfigHash string    `json:"config_hash"`
	ConfigYAML string    `json:"config_yaml"`
	DealID     string    `json:"deal_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// applyDefaults fills in the optional enum fields before validation.
func (d *Deal) applyDefaults() {
	for i := range d.Tranches {
		if d.Tranches[i].ArrearsPolicy == "" {
			d.Tranches[i].ArrearsPolicy = "carry"
		}
	}
	for i := range d.Fees {
		if d.Fees[i].Kind == "" {
			d.Fees[i].Kind = "flat"
		}
		if d.Fees[i].Base == "" {
			d.Fees[i].Base = "pool_current"
		}
	}
	if d.Reserve.TargetBase == "" {
		d.Reserve.TargetBase = "pool"
	}
	if d.Waterfall.ResidualPolicy == "" {
		d.Waterfall.ResidualPolicy = "retain"
	}
	if d.Waterfall.MaxPeriods == 0 {
		d.Waterfall.MaxPeriods = 600
	}
}
