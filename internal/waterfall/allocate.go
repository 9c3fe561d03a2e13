package waterfall

import (
	"github.com/shopspring/decimal"

	"github.com/seqfin/absim/internal/tranche"
)

// allocateSequential directs all available principal cash to the most
// senior tranche with a nonzero balance before the next sees anything
// (turbo paydown). Returns the total paid.
func allocateSequential(tranches []*tranche.Tranche, cash decimal.Decimal) decimal.Decimal {
	remaining := cash
	for _, t := range tranches {
		if remaining.Sign() <= 0 {
			break
		}
		remaining = remaining.Sub(t.PayPrincipal(remaining))
	}
	return cash.Sub(remaining)
}

// allocateProRata splits principal cash across outstanding tranches in
// proportion to their current balances, capped at each tranche's
// balance. Residual from capping is redistributed in further
// proportional rounds until the cash or the balances are exhausted.
// Returns the total paid; division dust stays with the caller.
func allocateProRata(tranches []*tranche.Tranche, cash decimal.Decimal) decimal.Decimal {
	remaining := cash
	for round := 0; round <= len(tranches); round++ {
		if remaining.Sign() <= 0 {
			break
		}
		total := decimal.Zero
		for _, t := range tranches {
			total = total.Add(t.Balance())
		}
		if total.Sign() == 0 {
			break
		}
		if remaining.GreaterThanOrEqual(total) {
			// Enough for everyone: retire all balances outright.
			for _, t := range tranches {
				remaining = remaining.Sub(t.PayPrincipal(t.Balance()))
			}
			break
		}

		// Shares computed on a snapshot so payments inside the round
		// do not skew the proportions. The share division rounds, so the
		// rounded shares can sum past the cash; each payment is capped at
		// what is still undistributed.
		balances := make([]decimal.Decimal, len(tranches))
		for i, t := range tranches {
			balances[i] = t.Balance()
		}
		allocated := decimal.Zero
		for i, t := range tranches {
			if balances[i].Sign() == 0 {
				continue
			}
			share := decimal.Min(remaining.Mul(balances[i]).Div(total), remaining.Sub(allocated))
			allocated = allocated.Add(t.PayPrincipal(share))
		}
		if allocated.Sign() == 0 {
			break
		}
		remaining = remaining.Sub(allocated)
	}
	return cash.Sub(remaining)
}
