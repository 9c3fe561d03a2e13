package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/seqfin/absim/internal/dealconfig"
	"github.com/seqfin/absim/internal/report"
	"github.com/seqfin/absim/internal/waterfall"
	"github.com/seqfin/absim/pkg/config"
	"github.com/seqfin/absim/pkg/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single deal simulation and export the cashflow table",
	Long: `Loads a deal YAML, runs the waterfall until the notes retire,
the pool exhausts, the call fires, or the period cap is hit, then
writes one CSV row per period and prints a summary.

Example:
  absim run --deal deals/sample.yaml --output cashflows.csv`,
	RunE: runRun,
}

var (
	runDealPath   string
	runOutputPath string
	runMaxPeriods int
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runDealPath, "deal", "", "deal YAML file (required)")
	runCmd.Flags().StringVar(&runOutputPath, "output", "", "CSV output path (default: <output_dir>/<deal_id>_cashflows.csv)")
	runCmd.Flags().IntVar(&runMaxPeriods, "max-periods", 0, "override the deal's period cap")

	runCmd.MarkFlagRequired("deal")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	deal, _, err := dealconfig.Load(runDealPath)
	if err != nil {
		return fmt.Errorf("load deal: %w", err)
	}
	for _, warning := range dealconfig.Warn(deal) {
		log.WithField("code", warning.Code).Warn(warning.Message)
	}

	state, params := dealconfig.Build(deal)
	if runMaxPeriods > 0 {
		params.MaxPeriods = runMaxPeriods
	}

	engine, err := waterfall.New(params, log)
	if err != nil {
		return fmt.Errorf("init engine: %w", err)
	}
	result, err := engine.Run(state)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	output := runOutputPath
	if output == "" {
		output = filepath.Join(cfg.OutputDir, deal.Meta.DealID+"_cashflows.csv")
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()
	if err := report.WriteCSV(f, result.Records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	report.PrintSummary(cmd.OutOrStdout(), result)
	fmt.Fprintf(cmd.OutOrStdout(), "cashflows written to %s\n", output)
	return nil
}
