package waterfall

import "github.com/shopspring/decimal"

// CallOption is the clean-up call rule, evaluated each period after the
// normal allocation. Stateless: eligibility is a pure function of the
// period and pool balance.
type CallOption struct {
	Enabled     bool
	CallPeriod  int             // earliest period redemption is allowed
	PriceFactor decimal.Decimal // fraction of outstanding balance paid to redeem
	// BalanceTriggerPct, when positive, additionally requires the pool
	// balance to have fallen to this fraction of the original balance.
	BalanceTriggerPct decimal.Decimal
}

// Callable reports whether the notes may be redeemed this period.
func (c CallOption) Callable(period int, poolBalance, poolOriginal decimal.Decimal) bool {
	if !c.Enabled || period < c.CallPeriod {
		return false
	}
	if c.BalanceTriggerPct.Sign() <= 0 {
		return true
	}
	return poolBalance.LessThanOrEqual(poolOriginal.Mul(c.BalanceTriggerPct))
}
