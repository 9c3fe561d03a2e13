package reserve

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func TestDrawCapsAtBalance(t *testing.T) {
	a := New(dec(100))

	drawn := a.Draw(dec(30))
	assert.True(t, dec(30).Equal(drawn))
	assert.True(t, dec(70).Equal(a.Balance()))

	drawn = a.Draw(dec(1000))
	assert.True(t, dec(70).Equal(drawn), "draw is capped at the balance")
	assert.True(t, a.Balance().IsZero())
}

func TestDrawIgnoresNonPositive(t *testing.T) {
	a := New(dec(50))
	assert.True(t, a.Draw(decimal.Zero).IsZero())
	assert.True(t, a.Draw(dec(-10)).IsZero())
	assert.True(t, dec(50).Equal(a.Balance()))
}

func TestDeposit(t *testing.T) {
	a := New(decimal.Zero)
	a.Deposit(dec(25))
	a.Deposit(dec(-5)) // ignored
	assert.True(t, dec(25).Equal(a.Balance()))
}

func TestShortfallToTarget(t *testing.T) {
	a := New(dec(40))
	assert.True(t, dec(60).Equal(a.ShortfallToTarget(dec(100))))
	assert.True(t, a.ShortfallToTarget(dec(30)).IsZero(), "above target means no shortfall")
}

func TestNegativeOpeningClamped(t *testing.T) {
	a := New(dec(-10))
	assert.True(t, a.Balance().IsZero())
}

func TestClone(t *testing.T) {
	a := New(dec(10))
	b := a.Clone()
	a.Draw(dec(10))
	assert.True(t, dec(10).Equal(b.Balance()))
}
