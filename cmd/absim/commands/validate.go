package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seqfin/absim/internal/dealconfig"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a deal file without running it",
	Long: `Strict-decodes a deal YAML (unknown fields are errors), runs
the full validation set, and prints the config hash used for
reproducibility tracking.

Example:
  absim validate --deal deals/sample.yaml`,
	RunE: runValidate,
}

var validateDealPath string

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateDealPath, "deal", "", "deal YAML file (required)")
	validateCmd.MarkFlagRequired("deal")
}

func runValidate(cmd *cobra.Command, args []string) error {
	deal, yamlData, err := dealconfig.Load(validateDealPath)
	if err != nil {
		return fmt.Errorf("deal invalid: %w", err)
	}

	snapshot, err := dealconfig.NewSnapshot(deal, yamlData)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "deal %q is valid\n", deal.Meta.DealID)
	fmt.Fprintf(out, "config hash: %s\n", snapshot.ConfigHash)
	fmt.Fprintf(out, "tranches: %d, fees: %d, term: %d periods\n",
		len(deal.Tranches), len(deal.Fees), deal.Pool.TermPeriods)

	warnings := dealconfig.Warn(deal)
	for _, w := range warnings {
		fmt.Fprintf(out, "warning [%s]: %s\n", w.Code, w.Message)
	}
	if len(warnings) == 0 {
		fmt.Fprintln(out, "no warnings")
	}
	return nil
}
