package tranche

import (
	"sort"

	"github.com/shopspring/decimal"
)

var twelve = decimal.NewFromInt(12)

// ArrearsPolicy says what happens to interest a tranche is owed but the
// waterfall could not pay.
type ArrearsPolicy string

const (
	// ArrearsCapitalize adds unpaid interest to the principal balance at
	// period end, so it compounds and is repaid as principal.
	ArrearsCapitalize ArrearsPolicy = "capitalize"
	// ArrearsCarry keeps unpaid interest as a separate claim paid with
	// interest priority in later periods. It never increases principal.
	ArrearsCarry ArrearsPolicy = "carry"
)

// Config is the immutable definition of a note tranche.
type Config struct {
	Name            string
	OriginalBalance decimal.Decimal
	CouponRate      decimal.Decimal // annual
	Priority        int             // lower = more senior
	ArrearsPolicy   ArrearsPolicy
	EffectiveRate   decimal.Decimal // EIR for amortized-cost accounting; defaults to coupon
}

// Tranche is the per-tranche ledger: principal balance, arrears,
// cumulative payment history, and the IFRS amortized-cost and
// impairment state.
type Tranche struct {
	cfg     Config
	balance decimal.Decimal
	arrears decimal.Decimal // outstanding carried interest claim

	// Cumulative since issuance.
	interestPaid        decimal.Decimal
	principalPaid       decimal.Decimal
	lossesAllocated     decimal.Decimal
	cumulativeShortfall decimal.Decimal

	// IFRS state.
	staging        StagingConfig
	stage          Stage
	amortizedCost  decimal.Decimal
	interestIncome decimal.Decimal
	allowance      decimal.Decimal

	consecutiveShortfalls int
	consecutiveClean      int
	lossImpaired          bool // stage 3 entered via loss allocation; no cure

	// Scratch for the period in flight, reset by BeginPeriod.
	periodBeginning     decimal.Decimal
	periodAccrued       decimal.Decimal
	periodInterestPaid  decimal.Decimal
	periodPrincipalPaid decimal.Decimal
	periodLoss          decimal.Decimal
	periodShortfall     decimal.Decimal
	periodEIRIncome     decimal.Decimal
}

// New creates a tranche ledger at its original balance, stage 1.
func New(cfg Config, staging StagingConfig) *Tranche {
	if cfg.EffectiveRate.IsZero() {
		cfg.EffectiveRate = cfg.CouponRate
	}
	t := &Tranche{
		cfg:           cfg,
		balance:       cfg.OriginalBalance,
		stage:         Stage1,
		staging:       staging,
		amortizedCost: cfg.OriginalBalance,
	}
	t.allowance = t.staging.AllowanceRate(t.stage).Mul(t.balance)
	return t
}

// Name returns the tranche name.
func (t *Tranche) Name() string { return t.cfg.Name }

// Priority returns the seniority rank; lower is paid first.
func (t *Tranche) Priority() int { return t.cfg.Priority }

// Balance returns the current principal balance.
func (t *Tranche) Balance() decimal.Decimal { return t.balance }

// Arrears returns the outstanding carried interest claim.
func (t *Tranche) Arrears() decimal.Decimal { return t.arrears }

// Stage returns the current impairment stage.
func (t *Tranche) Stage() Stage { return t.stage }

// Allowance returns the current loss allowance.
func (t *Tranche) Allowance() decimal.Decimal { return t.allowance }

// AmortizedCost returns the IFRS carrying amount.
func (t *Tranche) AmortizedCost() decimal.Decimal { return t.amortizedCost }

// InterestIncome returns cumulative effective-interest income.
func (t *Tranche) InterestIncome() decimal.Decimal { return t.interestIncome }

// TotalInterestPaid returns cumulative coupon cash received.
func (t *Tranche) TotalInterestPaid() decimal.Decimal { return t.interestPaid }

// TotalPrincipalPaid returns cumulative principal cash received.
func (t *Tranche) TotalPrincipalPaid() decimal.Decimal { return t.principalPaid }

// TotalLosses returns cumulative losses written down.
func (t *Tranche) TotalLosses() decimal.Decimal { return t.lossesAllocated }

// Retired reports whether the tranche has been fully paid or written off.
func (t *Tranche) Retired() bool { return t.balance.IsZero() }

// BeginPeriod opens a new period: snapshots the beginning balance and
// accrues coupon interest on it. Arrears from prior periods stay due.
func (t *Tranche) BeginPeriod() {
	t.periodBeginning = t.balance
	t.periodAccrued = t.balance.Mul(t.cfg.CouponRate).Div(twelve)
	t.periodInterestPaid = decimal.Zero
	t.periodPrincipalPaid = decimal.Zero
	t.periodLoss = decimal.Zero
	t.periodShortfall = decimal.Zero
	t.periodEIRIncome = decimal.Zero
}

// InterestDue returns the unpaid interest claim for the open period:
// current accrual plus carried arrears, net of what was already paid.
func (t *Tranche) InterestDue() decimal.Decimal {
	due := t.periodAccrued.Add(t.arrears).Sub(t.periodInterestPaid)
	if due.Sign() < 0 {
		return decimal.Zero
	}
	return due
}

// PayInterest applies up to cash against the open interest claim and
// returns the amount actually paid. May be called more than once per
// period (waterfall cash, then a reserve draw).
func (t *Tranche) PayInterest(cash decimal.Decimal) decimal.Decimal {
	if cash.Sign() <= 0 {
		return decimal.Zero
	}
	pay := decimal.Min(cash, t.InterestDue())
	t.periodInterestPaid = t.periodInterestPaid.Add(pay)
	t.interestPaid = t.interestPaid.Add(pay)
	return pay
}

// PayPrincipal applies up to cash against the principal balance and
// returns the amount actually paid. Balance never goes negative.
func (t *Tranche) PayPrincipal(cash decimal.Decimal) decimal.Decimal {
	if cash.Sign() <= 0 {
		return decimal.Zero
	}
	pay := decimal.Min(cash, t.balance)
	t.balance = t.balance.Sub(pay)
	t.periodPrincipalPaid = t.periodPrincipalPaid.Add(pay)
	t.principalPaid = t.principalPaid.Add(pay)
	return pay
}

// AllocateLoss writes loss down against the balance and returns the
// unabsorbed remainder. Any write-down moves the tranche to stage 3.
func (t *Tranche) AllocateLoss(loss decimal.Decimal) decimal.Decimal {
	if loss.Sign() <= 0 {
		return decimal.Zero
	}
	applied := decimal.Min(loss, t.balance)
	t.balance = t.balance.Sub(applied)
	t.periodLoss = t.periodLoss.Add(applied)
	t.lossesAllocated = t.lossesAllocated.Add(applied)
	if applied.Sign() > 0 {
		t.stage = Stage3
		t.lossImpaired = true
	}
	return loss.Sub(applied)
}

// Redeem retires the tranche at factor times the remaining balance, as
// principal, driving the balance to zero. Used by the clean-up call.
func (t *Tranche) Redeem(factor decimal.Decimal) decimal.Decimal {
	pay := t.balance.Mul(factor)
	t.periodPrincipalPaid = t.periodPrincipalPaid.Add(pay)
	t.principalPaid = t.principalPaid.Add(pay)
	t.balance = decimal.Zero
	return pay
}

// SettlePeriod closes the open period: resolves unpaid interest per the
// arrears policy, rolls the amortized cost forward at the effective
// rate, applies staging transitions, and recomputes the loss allowance.
// poolDefaultRate is the pool's periodic default rate for the period.
func (t *Tranche) SettlePeriod(poolDefaultRate decimal.Decimal) {
	unpaid := t.InterestDue()
	t.periodShortfall = unpaid
	t.cumulativeShortfall = t.cumulativeShortfall.Add(unpaid)

	switch {
	case t.cfg.ArrearsPolicy == ArrearsCapitalize && t.balance.Sign() > 0:
		t.balance = t.balance.Add(unpaid)
		t.arrears = decimal.Zero
	default:
		// Carry policy, or a retired balance with nothing left to
		// capitalize onto (e.g. after a call redemption).
		t.arrears = unpaid
	}

	t.rollAmortizedCost()
	t.applyStaging(poolDefaultRate)
	t.allowance = t.staging.AllowanceRate(t.stage).Mul(t.balance)
}

// rollAmortizedCost advances the IFRS carrying amount one period:
// effective interest accrues on the opening carrying amount, cash
// received and losses written off reduce it.
func (t *Tranche) rollAmortizedCost() {
	income := t.amortizedCost.Mul(t.cfg.EffectiveRate).Div(twelve)
	t.periodEIRIncome = income
	t.interestIncome = t.interestIncome.Add(income)

	cost := t.amortizedCost.Add(income).
		Sub(t.periodInterestPaid).
		Sub(t.periodPrincipalPaid).
		Sub(t.periodLoss)
	if cost.Sign() < 0 {
		cost = decimal.Zero
	}
	t.amortizedCost = cost
}

// Flow reports the closed period's flows for the record emitter.
// Call after SettlePeriod.
func (t *Tranche) Flow() Flow {
	return Flow{
		Name:              t.cfg.Name,
		BeginningBalance:  t.periodBeginning,
		InterestDue:       t.periodAccrued,
		InterestPaid:      t.periodInterestPaid,
		InterestShortfall: t.periodShortfall,
		PrincipalPaid:     t.periodPrincipalPaid,
		LossAllocated:     t.periodLoss,
		EndingBalance:     t.balance,
		Stage:             t.stage,
		Allowance:         t.allowance,
		EIRIncome:         t.periodEIRIncome,
	}
}

// Flow is a tranche's flows for one period, flattened for reporting.
type Flow struct {
	Name              string
	BeginningBalance  decimal.Decimal
	InterestDue       decimal.Decimal
	InterestPaid      decimal.Decimal
	InterestShortfall decimal.Decimal
	PrincipalPaid     decimal.Decimal
	LossAllocated     decimal.Decimal
	EndingBalance     decimal.Decimal
	Stage             Stage
	Allowance         decimal.Decimal
	EIRIncome         decimal.Decimal
}

// Clone returns an independent copy of the ledger.
func (t *Tranche) Clone() *Tranche {
	clone := *t
	return &clone
}

// SortBySeniority returns tranches ordered most senior first.
func SortBySeniority(ts []*Tranche) []*Tranche {
	sorted := make([]*Tranche, len(ts))
	copy(sorted, ts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})
	return sorted
}
