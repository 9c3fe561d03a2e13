package scenario

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/seqfin/absim/internal/dealconfig"
	"github.com/seqfin/absim/internal/waterfall"
	"github.com/seqfin/absim/pkg/logger"
)

// Scenario is one independent deal configuration to simulate. Scenarios
// share nothing, so a sweep can run them in parallel without affecting
// each run's determinism.
type Scenario struct {
	Name string
	Deal *dealconfig.Deal
}

// Outcome pairs a scenario with its completed run.
type Outcome struct {
	Name   string
	Result *waterfall.Result
}

// Sweep runs every scenario, at most concurrency at a time, and returns
// outcomes in input order. Parallelism is across scenarios only; each
// simulation remains strictly sequential internally.
func Sweep(ctx context.Context, scenarios []Scenario, concurrency int, log *logger.Logger) ([]Outcome, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("scenario: nothing to sweep")
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	if log == nil {
		log = logger.Nop()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	outcomes := make([]Outcome, len(scenarios))
	for i, sc := range scenarios {
		i, sc := i, sc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			state, params := dealconfig.Build(sc.Deal)
			engine, err := waterfall.New(params, log.WithField("scenario", sc.Name))
			if err != nil {
				return fmt.Errorf("scenario %q: %w", sc.Name, err)
			}
			result, err := engine.Run(state)
			if err != nil {
				return fmt.Errorf("scenario %q: %w", sc.Name, err)
			}
			outcomes[i] = Outcome{Name: sc.Name, Result: result}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
