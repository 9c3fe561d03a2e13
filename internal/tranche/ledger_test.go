package tranche

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func newCarry(balance, coupon float64) *Tranche {
	return New(Config{
		Name:            "A",
		OriginalBalance: dec(balance),
		CouponRate:      dec(coupon),
		Priority:        1,
		ArrearsPolicy:   ArrearsCarry,
	}, DefaultStaging())
}

func TestAccrualAndFullPayment(t *testing.T) {
	tr := newCarry(1000, 0.06)

	tr.BeginPeriod()
	due := tr.InterestDue()
	assert.True(t, dec(5).Equal(due), "1000 at 6%% accrues 5 a month, got %s", due)

	paid := tr.PayInterest(dec(100))
	assert.True(t, dec(5).Equal(paid), "payment is capped at the claim")
	assert.True(t, tr.InterestDue().IsZero())

	tr.SettlePeriod(decimal.Zero)
	assert.True(t, tr.Arrears().IsZero())
	assert.True(t, dec(5).Equal(tr.TotalInterestPaid()))
}

func TestCarryArrearsCompoundClaim(t *testing.T) {
	tr := newCarry(1000, 0.06)

	tr.BeginPeriod()
	tr.PayInterest(dec(2)) // partial
	tr.SettlePeriod(decimal.Zero)
	assert.True(t, dec(3).Equal(tr.Arrears()))
	assert.True(t, dec(1000).Equal(tr.Balance()), "carry never touches principal")

	tr.BeginPeriod()
	assert.True(t, dec(8).Equal(tr.InterestDue()), "new accrual plus carried arrears")
}

func TestCapitalizeAddsToBalance(t *testing.T) {
	tr := New(Config{
		Name:            "B",
		OriginalBalance: dec(1000),
		CouponRate:      dec(0.06),
		Priority:        2,
		ArrearsPolicy:   ArrearsCapitalize,
	}, DefaultStaging())

	tr.BeginPeriod()
	tr.SettlePeriod(decimal.Zero)
	assert.True(t, dec(1005).Equal(tr.Balance()))
	assert.True(t, tr.Arrears().IsZero())

	// Next accrual compounds on the grown balance.
	tr.BeginPeriod()
	assert.True(t, dec(1005).Mul(dec(0.005)).Equal(tr.InterestDue()))
}

func TestCapitalizeOnRetiredBalanceCarries(t *testing.T) {
	tr := New(Config{
		Name:            "B",
		OriginalBalance: dec(1000),
		CouponRate:      dec(0.06),
		ArrearsPolicy:   ArrearsCapitalize,
	}, DefaultStaging())

	tr.BeginPeriod()
	tr.Redeem(decimal.NewFromInt(1))
	tr.SettlePeriod(decimal.Zero)

	assert.True(t, tr.Balance().IsZero(), "redeemed balance must stay zero")
	assert.True(t, dec(5).Equal(tr.Arrears()), "unpaid interest stays a claim, not principal")
}

func TestPayPrincipalCapped(t *testing.T) {
	tr := newCarry(100, 0.05)
	tr.BeginPeriod()

	paid := tr.PayPrincipal(dec(150))
	assert.True(t, dec(100).Equal(paid))
	assert.True(t, tr.Balance().IsZero())
	assert.True(t, tr.Retired())
}

func TestAllocateLoss(t *testing.T) {
	tr := newCarry(100, 0.05)
	tr.BeginPeriod()

	remainder := tr.AllocateLoss(dec(150))
	assert.True(t, dec(50).Equal(remainder), "loss past the balance passes through")
	assert.True(t, tr.Balance().IsZero())
	assert.Equal(t, Stage3, tr.Stage(), "a write-down is credit impairment")
	assert.True(t, dec(100).Equal(tr.TotalLosses()))
}

func TestRedeemAtPremium(t *testing.T) {
	tr := newCarry(200, 0.05)
	tr.BeginPeriod()

	paid := tr.Redeem(dec(1.02))
	assert.True(t, dec(204).Equal(paid))
	assert.True(t, tr.Balance().IsZero())
}

func TestAmortizedCostRoll(t *testing.T) {
	tr := New(Config{
		Name:            "A",
		OriginalBalance: dec(1000),
		CouponRate:      dec(0.06),
		EffectiveRate:   dec(0.08),
		ArrearsPolicy:   ArrearsCarry,
	}, DefaultStaging())

	tr.BeginPeriod()
	tr.PayInterest(dec(5))
	tr.PayPrincipal(dec(100))
	tr.SettlePeriod(decimal.Zero)

	income := dec(1000).Mul(dec(0.08)).Div(decimal.NewFromInt(12))
	wantCost := dec(1000).Add(income).Sub(dec(5)).Sub(dec(100))
	assert.True(t, wantCost.Equal(tr.AmortizedCost()),
		"want %s, got %s", wantCost, tr.AmortizedCost())
	assert.True(t, income.Equal(tr.InterestIncome()))
}

func TestEffectiveRateDefaultsToCoupon(t *testing.T) {
	tr := newCarry(1000, 0.06)
	tr.BeginPeriod()
	tr.PayInterest(dec(5))
	tr.SettlePeriod(decimal.Zero)

	flow := tr.Flow()
	assert.True(t, dec(5).Equal(flow.EIRIncome))
}

func TestFlowReportsPeriod(t *testing.T) {
	tr := newCarry(1000, 0.06)
	tr.BeginPeriod()
	tr.PayInterest(dec(3))
	tr.PayPrincipal(dec(50))
	tr.SettlePeriod(decimal.Zero)

	flow := tr.Flow()
	assert.Equal(t, "A", flow.Name)
	assert.True(t, dec(1000).Equal(flow.BeginningBalance))
	assert.True(t, dec(5).Equal(flow.InterestDue))
	assert.True(t, dec(3).Equal(flow.InterestPaid))
	assert.True(t, dec(2).Equal(flow.InterestShortfall))
	assert.True(t, dec(50).Equal(flow.PrincipalPaid))
	assert.True(t, dec(950).Equal(flow.EndingBalance))
}

func TestCloneIndependence(t *testing.T) {
	tr := newCarry(1000, 0.06)
	tr.BeginPeriod()
	clone := tr.Clone()

	tr.PayPrincipal(dec(500))
	require.True(t, dec(500).Equal(tr.Balance()))
	assert.True(t, dec(1000).Equal(clone.Balance()))
}

func TestSortBySeniority(t *testing.T) {
	a := New(Config{Name: "A", Priority: 1, OriginalBalance: dec(1)}, DefaultStaging())
	b := New(Config{Name: "B", Priority: 2, OriginalBalance: dec(1)}, DefaultStaging())
	c := New(Config{Name: "C", Priority: 3, OriginalBalance: dec(1)}, DefaultStaging())

	sorted := SortBySeniority([]*Tranche{c, a, b})
	assert.Equal(t, []string{"A", "B", "C"},
		[]string{sorted[0].Name(), sorted[1].Name(), sorted[2].Name()})
}
