package waterfall

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/seqfin/absim/internal/fees"
	"github.com/seqfin/absim/internal/pool"
	"github.com/seqfin/absim/pkg/logger"
)

// ReserveBase selects which balance the reserve target tracks.
type ReserveBase string

const (
	ReserveBasePool  ReserveBase = "pool"
	ReserveBaseNotes ReserveBase = "notes"
)

// ResidualPolicy says where cash left after all obligations goes.
type ResidualPolicy string

const (
	// ResidualRetain keeps the excess in the structure and reports it.
	ResidualRetain ResidualPolicy = "retain"
	// ResidualEquity pays the excess out to the residual holder.
	ResidualEquity ResidualPolicy = "equity"
	// ResidualReinvest buys new collateral with the excess during the
	// revolving phase (before the pro-rata switch); afterwards it falls
	// back to retain.
	ResidualReinvest ResidualPolicy = "reinvest"
)

// Params are the immutable per-deal settings of the waterfall. The
// engine holds no mutable state, so one Engine can run many scenarios
// concurrently as long as each run gets its own State.
type Params struct {
	Fees              []fees.Fee
	Call              CallOption
	ReserveTargetPct  decimal.Decimal
	ReserveTargetBase ReserveBase
	SwitchPeriod      int // first period of pro-rata principal distribution
	ResidualPolicy    ResidualPolicy
	MaxPeriods        int
}

// Engine executes the per-period waterfall: collect pool cash, pay fees,
// pay tranche interest by seniority, top up the reserve, distribute
// principal per the active mode, allocate losses, roll IFRS state,
// check the call, emit a record.
type Engine struct {
	params Params
	log    *logger.Logger
}

// New validates the parameters and creates an engine. Malformed
// configuration fails here, never mid-run.
func New(params Params, log *logger.Logger) (*Engine, error) {
	if params.MaxPeriods <= 0 {
		return nil, fmt.Errorf("waterfall: max periods must be > 0, got %d", params.MaxPeriods)
	}
	if params.SwitchPeriod < 0 {
		return nil, fmt.Errorf("waterfall: switch period must be >= 0, got %d", params.SwitchPeriod)
	}
	if params.Call.Enabled && params.Call.CallPeriod < 0 {
		return nil, fmt.Errorf("waterfall: call period must be >= 0, got %d", params.Call.CallPeriod)
	}
	if params.ReserveTargetPct.Sign() < 0 {
		return nil, fmt.Errorf("waterfall: reserve target must be >= 0")
	}
	switch params.ResidualPolicy {
	case ResidualRetain, ResidualEquity, ResidualReinvest:
	default:
		return nil, fmt.Errorf("waterfall: unknown residual policy %q", params.ResidualPolicy)
	}
	if log == nil {
		log = logger.Nop()
	}
	params.Fees = fees.SortByPriority(params.Fees)
	return &Engine{params: params, log: log}, nil
}

// Result is a completed simulation run.
type Result struct {
	RunID     string
	Records   []PeriodRecord
	Called    bool
	Truncated bool
	Duration  time.Duration
	Summary   Summary
}

// Run executes the simulation from initial until the notes retire, the
// pool exhausts, the call fires, or MaxPeriods elapses. The initial
// state is cloned, so callers may reuse it across runs.
func (e *Engine) Run(initial *State) (*Result, error) {
	if initial == nil {
		return nil, fmt.Errorf("waterfall: nil initial state")
	}
	st := initial.Clone()

	result := &Result{
		RunID:   uuid.NewString(),
		Records: make([]PeriodRecord, 0, e.params.MaxPeriods),
	}

	e.log.WithFields(map[string]interface{}{
		"run_id":        result.RunID,
		"tranches":      len(st.Tranches),
		"fees":          len(e.params.Fees),
		"switch_period": e.params.SwitchPeriod,
		"max_periods":   e.params.MaxPeriods,
	}).Info("Starting waterfall simulation")

	start := time.Now()
	for period := 1; ; period++ {
		rec := e.Step(st, period)

		if period >= e.params.MaxPeriods && !rec.Called && !st.Pool.Exhausted() && !st.AllNotesRetired() {
			rec.Truncated = true
			result.Truncated = true
			e.log.Warnf("simulation truncated at period %d before full amortization", period)
		}
		result.Records = append(result.Records, rec)

		if rec.Called {
			result.Called = true
			break
		}
		if rec.Truncated || st.AllNotesRetired() || st.Pool.Exhausted() {
			break
		}
	}
	result.Duration = time.Since(start)
	result.Summary = summarize(result.Records, st)

	e.log.WithFields(map[string]interface{}{
		"run_id":    result.RunID,
		"periods":   len(result.Records),
		"called":    result.Called,
		"truncated": result.Truncated,
		"duration":  result.Duration.Seconds(),
	}).Info("Waterfall simulation completed")

	return result, nil
}

// Step advances the state one period and returns its record. Exported
// so callers can replay or inspect period-by-period; Run is Step in a
// loop with termination handling.
func (e *Engine) Step(st *State, period int) PeriodRecord {
	cf := st.Pool.Advance(period)
	avail := cf.Collections()

	rec := PeriodRecord{
		Period:        period,
		PoolBeginning: cf.BeginningBalance,
		PoolEnding:    cf.EndingBalance,
		Scheduled:     cf.Scheduled,
		Prepaid:       cf.Prepaid,
		Defaulted:     cf.Defaulted,
		Recovered:     cf.Recovered,
		PoolInterest:  cf.Interest,
		Collections:   avail,
	}

	for _, t := range st.Tranches {
		t.BeginPeriod()
	}

	// 1. Fees, ascending priority. Shortfalls draw the reserve.
	for _, fee := range e.params.Fees {
		due := fee.Due(period, cf.EndingBalance, st.Pool.OriginalBalance())
		paid := decimal.Min(due, avail)
		avail = avail.Sub(paid)
		if paid.LessThan(due) {
			drawn := st.Reserve.Draw(due.Sub(paid))
			rec.ReserveDraw = rec.ReserveDraw.Add(drawn)
			paid = paid.Add(drawn)
		}
		rec.Fees = append(rec.Fees, FeeFlow{
			Name:      fee.Name,
			Due:       due,
			Paid:      paid,
			Shortfall: due.Sub(paid),
		})
	}

	// 2. Interest, strictly by seniority. A senior tranche is made whole
	// (cash, then reserve) before any junior tranche sees a cent.
	for _, t := range st.Tranches {
		paid := t.PayInterest(avail)
		avail = avail.Sub(paid)
		if outstanding := t.InterestDue(); outstanding.Sign() > 0 {
			drawn := st.Reserve.Draw(outstanding)
			rec.ReserveDraw = rec.ReserveDraw.Add(drawn)
			t.PayInterest(drawn)
		}
	}

	// 3. Reserve top-up, before any cash cascades to principal.
	target := e.reserveTarget(st, cf)
	if need := st.Reserve.ShortfallToTarget(target); need.Sign() > 0 {
		deposit := decimal.Min(need, avail)
		st.Reserve.Deposit(deposit)
		avail = avail.Sub(deposit)
		rec.ReserveDeposit = deposit
	}

	// 4. Principal: sequential/turbo before the switch period, pro-rata
	// at and after it.
	var principalPaid decimal.Decimal
	if period < e.params.SwitchPeriod {
		principalPaid = allocateSequential(st.Tranches, avail)
	} else {
		principalPaid = allocateProRata(st.Tranches, avail)
	}
	avail = avail.Sub(principalPaid)
	rec.PrincipalPaid = principalPaid

	// 5. Period losses written down junior-first.
	loss := cf.Loss
	for i := len(st.Tranches) - 1; i >= 0 && loss.Sign() > 0; i-- {
		loss = st.Tranches[i].AllocateLoss(loss)
	}

	// 6. Clean-up call, after normal allocation.
	if e.params.Call.Callable(period, st.Pool.Balance(), st.Pool.OriginalBalance()) && !st.AllNotesRetired() {
		for _, t := range st.Tranches {
			rec.CallRedemption = rec.CallRedemption.Add(t.Redeem(e.params.Call.PriceFactor))
		}
		rec.Called = true
	}

	// 7. IFRS roll: arrears settlement, staging, allowances.
	mdr := st.Pool.PeriodicDefaultRate()
	for _, t := range st.Tranches {
		t.SettlePeriod(mdr)
		rec.Tranches = append(rec.Tranches, t.Flow())
	}

	// 8. Residual cash per policy.
	if avail.Sign() > 0 {
		switch {
		case e.params.ResidualPolicy == ResidualEquity:
			rec.ResidualPaid = avail
		case e.params.ResidualPolicy == ResidualReinvest && period < e.params.SwitchPeriod && !rec.Called:
			st.Pool.Reinvest(avail)
			rec.Reinvested = avail
		default:
			rec.ResidualRetained = avail
		}
	}

	rec.PoolEnding = st.Pool.Balance()
	rec.ReserveBalance = st.Reserve.Balance()
	return rec
}

// reserveTarget computes the period's reserve target balance.
func (e *Engine) reserveTarget(st *State, cf pool.Cashflow) decimal.Decimal {
	base := cf.EndingBalance
	if e.params.ReserveTargetBase == ReserveBaseNotes {
		base = st.NotesBalance()
	}
	return e.params.ReserveTargetPct.Mul(base)
}
