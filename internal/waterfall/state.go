package waterfall

import (
	"github.com/shopspring/decimal"

	"github.com/seqfin/absim/internal/pool"
	"github.com/seqfin/absim/internal/reserve"
	"github.com/seqfin/absim/internal/tranche"
)

// State is the full mutable simulation state for one run: the pool, the
// tranche ledgers (held most senior first), and the reserve account.
// The engine never shares a State between runs; Clone before replaying.
type State struct {
	Pool     *pool.Pool
	Tranches []*tranche.Tranche
	Reserve  *reserve.Account
}

// NewState assembles a simulation state, ordering tranches by seniority.
func NewState(p *pool.Pool, tranches []*tranche.Tranche, r *reserve.Account) *State {
	return &State{
		Pool:     p,
		Tranches: tranche.SortBySeniority(tranches),
		Reserve:  r,
	}
}

// Clone returns a deep, independent copy of the state.
func (s *State) Clone() *State {
	tranches := make([]*tranche.Tranche, len(s.Tranches))
	for i, t := range s.Tranches {
		tranches[i] = t.Clone()
	}
	return &State{
		Pool:     s.Pool.Clone(),
		Tranches: tranches,
		Reserve:  s.Reserve.Clone(),
	}
}

// NotesBalance returns the combined outstanding tranche balance.
func (s *State) NotesBalance() decimal.Decimal {
	total := decimal.Zero
	for _, t := range s.Tranches {
		total = total.Add(t.Balance())
	}
	return total
}

// AllNotesRetired reports whether every tranche balance is zero.
func (s *State) AllNotesRetired() bool {
	for _, t := range s.Tranches {
		if !t.Retired() {
			return false
		}
	}
	return true
}
