package reserve

import "github.com/shopspring/decimal"

// Account is the cash buffer drawn to cover fee and interest shortfalls
// and replenished toward a target before excess cash cascades to
// principal. The account only enforces non-negativity; sequencing of
// draws and deposits belongs to the waterfall engine.
type Account struct {
	balance decimal.Decimal
}

// New creates an account with the given opening balance.
func New(opening decimal.Decimal) *Account {
	if opening.Sign() < 0 {
		opening = decimal.Zero
	}
	return &Account{balance: opening}
}

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal { return a.balance }

// Draw removes up to amount from the account and returns what was
// actually drawn.
func (a *Account) Draw(amount decimal.Decimal) decimal.Decimal {
	if amount.Sign() <= 0 {
		return decimal.Zero
	}
	drawn := decimal.Min(amount, a.balance)
	a.balance = a.balance.Sub(drawn)
	return drawn
}

// Deposit adds amount to the account. Capping at the target is the
// engine's responsibility.
func (a *Account) Deposit(amount decimal.Decimal) {
	if amount.Sign() <= 0 {
		return
	}
	a.balance = a.balance.Add(amount)
}

// ShortfallToTarget returns how much is missing to reach target.
func (a *Account) ShortfallToTarget(target decimal.Decimal) decimal.Decimal {
	shortfall := target.Sub(a.balance)
	if shortfall.Sign() < 0 {
		return decimal.Zero
	}
	return shortfall
}

// Clone returns an independent copy.
func (a *Account) Clone() *Account {
	return &Account{balance: a.balance}
}
