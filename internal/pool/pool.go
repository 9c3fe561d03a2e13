package pool

import (
	"github.com/shopspring/decimal"
)

var (
	twelve = decimal.NewFromInt(12)

	// Balances below this are amortization dust and get folded into the
	// final scheduled payment so the pool lands on exactly zero.
	dustThreshold = decimal.New(1, -8) // 1e-8
)

// Config describes the aggregate collateral pool. All rates are annual;
// the model converts to simple monthly rates internally.
type Config struct {
	OriginalBalance decimal.Decimal
	CouponRate      decimal.Decimal
	TermPeriods     int
	PrepaymentRate  decimal.Decimal // CPR-style annual rate
	DefaultRate     decimal.Decimal // CDR-style annual rate
	RecoveryRate    decimal.Decimal // fraction of defaulted balance recovered
	RecoveryLag     int             // periods between default and recovery cash
}

// Pool advances the collateral one period at a time: scheduled level-pay
// principal, prepayment, default, and (possibly lagged) recovery.
type Pool struct {
	cfg           Config
	balance       decimal.Decimal
	remainingTerm int

	// Recoveries waiting out the configured lag, keyed by arrival period.
	pendingRecoveries map[int]decimal.Decimal
}

// Cashflow is the pool's output for a single period.
type Cashflow struct {
	Period           int
	BeginningBalance decimal.Decimal
	Interest         decimal.Decimal
	Scheduled        decimal.Decimal
	Prepaid          decimal.Decimal
	Defaulted        decimal.Decimal
	Recovered        decimal.Decimal // recovery cash arriving this period
	Loss             decimal.Decimal // defaulted net of its eventual recovery
	EndingBalance    decimal.Decimal
}

// Collections returns the total cash the pool produced this period.
func (c Cashflow) Collections() decimal.Decimal {
	return c.Interest.Add(c.Scheduled).Add(c.Prepaid).Add(c.Recovered)
}

// New creates a pool at its original balance and full term.
func New(cfg Config) *Pool {
	return &Pool{
		cfg:               cfg,
		balance:           cfg.OriginalBalance,
		remainingTerm:     cfg.TermPeriods,
		pendingRecoveries: make(map[int]decimal.Decimal),
	}
}

// Balance returns the current pool balance.
func (p *Pool) Balance() decimal.Decimal { return p.balance }

// OriginalBalance returns the balance at issuance. Reinvested cash grows
// only the current balance; call triggers and original-balance fee bases
// stay measured against issuance.
func (p *Pool) OriginalBalance() decimal.Decimal { return p.cfg.OriginalBalance }

// RemainingTerm returns the periods left on the amortization schedule.
func (p *Pool) RemainingTerm() int { return p.remainingTerm }

// PeriodicDefaultRate returns the monthly default rate, used by the
// impairment staging rules.
func (p *Pool) PeriodicDefaultRate() decimal.Decimal {
	return p.cfg.DefaultRate.Div(twelve)
}

// Exhausted reports whether the pool can produce no further cash.
func (p *Pool) Exhausted() bool {
	return (p.balance.IsZero() || p.remainingTerm <= 0) && len(p.pendingRecoveries) == 0
}

// Reinvest adds principal back into the pool as new collateral at the
// pool coupon. Used by the revolving (pre-switch) residual policy.
func (p *Pool) Reinvest(amount decimal.Decimal) {
	if amount.Sign() <= 0 {
		return
	}
	p.balance = p.balance.Add(amount)
}

// Clone returns an independent copy of the pool state.
func (p *Pool) Clone() *Pool {
	pending := make(map[int]decimal.Decimal, len(p.pendingRecoveries))
	for k, v := range p.pendingRecoveries {
		pending[k] = v
	}
	return &Pool{
		cfg:               p.cfg,
		balance:           p.balance,
		remainingTerm:     p.remainingTerm,
		pendingRecoveries: pending,
	}
}

// Advance moves the pool forward one period and returns the cashflow it
// generated. Deterministic given the period index and configured rates.
func (p *Pool) Advance(period int) Cashflow {
	cf := Cashflow{
		Period:           period,
		BeginningBalance: p.balance,
		EndingBalance:    p.balance,
	}
	cf.Recovered = p.drainRecoveries(period)

	if p.balance.IsZero() || p.remainingTerm <= 0 {
		// Only lagged recoveries can still arrive.
		return cf
	}

	begin := p.balance
	monthlyRate := p.cfg.CouponRate.Div(twelve)
	cf.Interest = begin.Mul(monthlyRate)

	payment := annuityPayment(begin, p.remainingTerm, monthlyRate)
	scheduled := payment.Sub(cf.Interest)
	if scheduled.Sign() < 0 {
		scheduled = decimal.Zero
	}
	if scheduled.GreaterThan(begin) {
		scheduled = begin
	}

	prepaid := p.cfg.PrepaymentRate.Div(twelve).Mul(begin.Sub(scheduled))
	defaulted := p.cfg.DefaultRate.Div(twelve).Mul(begin)

	// If the combined reductions would overdraw the pool, scale all three
	// proportionally so the ending balance is exactly zero.
	total := scheduled.Add(prepaid).Add(defaulted)
	if total.GreaterThan(begin) {
		scale := begin.Div(total)
		scheduled = scheduled.Mul(scale)
		prepaid = prepaid.Mul(scale)
		defaulted = begin.Sub(scheduled).Sub(prepaid)
	}

	ending := begin.Sub(scheduled).Sub(prepaid).Sub(defaulted)
	if ending.LessThan(dustThreshold) {
		scheduled = scheduled.Add(ending)
		ending = decimal.Zero
	}

	recovery := defaulted.Mul(p.cfg.RecoveryRate)
	cf.Loss = defaulted.Sub(recovery)
	if p.cfg.RecoveryLag <= 0 {
		cf.Recovered = cf.Recovered.Add(recovery)
	} else if recovery.Sign() > 0 {
		arrival := period + p.cfg.RecoveryLag
		p.pendingRecoveries[arrival] = p.pendingRecoveries[arrival].Add(recovery)
	}

	cf.Scheduled = scheduled
	cf.Prepaid = prepaid
	cf.Defaulted = defaulted
	cf.EndingBalance = ending

	p.balance = ending
	p.remainingTerm--

	return cf
}

// drainRecoveries releases recoveries whose lag has elapsed.
func (p *Pool) drainRecoveries(period int) decimal.Decimal {
	amount, ok := p.pendingRecoveries[period]
	if !ok {
		return decimal.Zero
	}
	delete(p.pendingRecoveries, period)
	return amount
}

// annuityPayment returns the level payment amortizing principal over n
// periods at the given periodic rate.
func annuityPayment(principal decimal.Decimal, n int, rate decimal.Decimal) decimal.Decimal {
	periods := decimal.NewFromInt(int64(n))
	if rate.IsZero() {
		return principal.Div(periods)
	}
	onePlusR := decimal.NewFromInt(1).Add(rate)
	compounded := onePlusR.Pow(periods)
	return principal.Mul(rate).Mul(compounded).Div(compounded.Sub(decimal.NewFromInt(1)))
}
