package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "symbinmd",
		Short: "Symmetrised re-binning of multi-dimensional event data",
		Long: `symbinmd bins measured events onto a set of basis vectors once for the
given orientation and once more for every symmetry-equivalent orientation,
summing all passes into one histogram.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "symbinmd.yaml", "YAML configuration file")
	root.PersistentFlags().BoolP("verbose", "v", false, "log every binning pass")

	root.AddCommand(
		newRunCmd(),
		newPlanCmd(),
		newOpsCmd(),
		newShowCmd(),
		newImportCmd(),
		newInitConfigCmd(),
	)
	return root
}
