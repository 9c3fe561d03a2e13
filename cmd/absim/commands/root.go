package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "absim",
	Short: "absim - ABS cashflow waterfall simulator",
	Long: `absim simulates the period-by-period cashflows of an
asset-backed security: pool amortization under prepayment and default
assumptions, a prioritized waterfall across fees, tranche interest and
principal, a reserve account, IFRS impairment staging, and clean-up
call handling.

Examples:
  absim validate --deal deals/sample.yaml
  absim run --deal deals/sample.yaml --output cashflows.csv
  absim sweep --deal base.yaml --deal stressed.yaml`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
