package pool

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

// decEq asserts two decimals are equal within amortization tolerance.
func decEq(t *testing.T, want, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	diff := want.Sub(got).Abs()
	assert.True(t, diff.LessThan(dec(1e-8)),
		"want %s, got %s (diff %s): %v", want, got, diff, msgAndArgs)
}

func TestLevelPayTermination(t *testing.T) {
	p := New(Config{
		OriginalBalance: dec(1_000_000),
		CouponRate:      dec(0.06),
		TermPeriods:     12,
	})

	totalScheduled := decimal.Zero
	for period := 1; period <= 12; period++ {
		cf := p.Advance(period)
		assert.True(t, cf.EndingBalance.LessThanOrEqual(cf.BeginningBalance),
			"balance must not grow in period %d", period)
		decEq(t, cf.BeginningBalance.Mul(dec(0.005)), cf.Interest, "interest accrues at coupon/12")
		totalScheduled = totalScheduled.Add(cf.Scheduled)
	}

	assert.True(t, p.Balance().IsZero(), "pool must land on exactly zero, got %s", p.Balance())
	assert.True(t, p.Exhausted())
	decEq(t, dec(1_000_000), totalScheduled, "scheduled principal repays the full balance")
}

func TestZeroCouponSchedule(t *testing.T) {
	p := New(Config{
		OriginalBalance: dec(1200),
		TermPeriods:     12,
	})

	cf := p.Advance(1)
	decEq(t, dec(100), cf.Scheduled)
	assert.True(t, cf.Interest.IsZero())
}

func TestProportionalClamp(t *testing.T) {
	// Pathological rates push combined reductions past the balance; the
	// model scales all three so the pool lands on exactly zero.
	p := New(Config{
		OriginalBalance: dec(1000),
		TermPeriods:     10,
		PrepaymentRate:  dec(12), // SMM = 1.0
		DefaultRate:     dec(6),  // MDR = 0.5
	})

	cf := p.Advance(1)
	total := cf.Scheduled.Add(cf.Prepaid).Add(cf.Defaulted)
	decEq(t, dec(1000), total, "clamped components must sum to the beginning balance")
	assert.True(t, cf.EndingBalance.IsZero())
	assert.True(t, p.Balance().IsZero())
}

func TestRecoveryLag(t *testing.T) {
	p := New(Config{
		OriginalBalance: dec(100_000),
		CouponRate:      dec(0.05),
		TermPeriods:     120,
		DefaultRate:     dec(0.12), // MDR = 0.01
		RecoveryRate:    dec(0.5),
		RecoveryLag:     2,
	})

	cf1 := p.Advance(1)
	require.True(t, cf1.Defaulted.Sign() > 0)
	assert.True(t, cf1.Recovered.IsZero(), "recovery must wait out the lag")
	decEq(t, cf1.Defaulted.Mul(dec(0.5)), cf1.Loss, "loss is default net of eventual recovery")

	p.Advance(2)
	cf3 := p.Advance(3)
	decEq(t, cf1.Defaulted.Mul(dec(0.5)), cf3.Recovered, "period 1 defaults recover in period 3")
}

func TestImmediateRecovery(t *testing.T) {
	p := New(Config{
		OriginalBalance: dec(100_000),
		CouponRate:      dec(0.05),
		TermPeriods:     120,
		DefaultRate:     dec(0.12),
		RecoveryRate:    dec(0.4),
	})

	cf := p.Advance(1)
	decEq(t, cf.Defaulted.Mul(dec(0.4)), cf.Recovered)
}

func TestExhaustedPoolStillDrainsRecoveries(t *testing.T) {
	p := New(Config{
		OriginalBalance: dec(1000),
		TermPeriods:     1,
		DefaultRate:     dec(0.12),
		RecoveryRate:    dec(1.0),
		RecoveryLag:     1,
	})

	cf1 := p.Advance(1)
	assert.True(t, p.Balance().IsZero())
	assert.False(t, p.Exhausted(), "pending recoveries keep the pool alive")

	cf2 := p.Advance(2)
	decEq(t, cf1.Defaulted, cf2.Recovered)
	assert.True(t, p.Exhausted())
}

func TestReinvest(t *testing.T) {
	p := New(Config{OriginalBalance: dec(1000), CouponRate: dec(0.05), TermPeriods: 10})
	p.Advance(1)
	before := p.Balance()
	p.Reinvest(dec(500))
	decEq(t, before.Add(dec(500)), p.Balance())
}

func TestCloneIndependence(t *testing.T) {
	p := New(Config{
		OriginalBalance: dec(1000),
		CouponRate:      dec(0.05),
		TermPeriods:     10,
		DefaultRate:     dec(0.12),
		RecoveryRate:    dec(0.5),
		RecoveryLag:     3,
	})
	p.Advance(1)

	clone := p.Clone()
	p.Advance(2)

	assert.Equal(t, 8, p.RemainingTerm())
	assert.Equal(t, 9, clone.RemainingTerm())
	assert.False(t, clone.Balance().Equal(p.Balance()))
}
