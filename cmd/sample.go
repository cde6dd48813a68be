package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/churnlab/churnscope/internal/contract"
	"github.com/churnlab/churnscope/internal/loader"
)

// defaultSamplePath is where generated sample data lands without an argument.
const defaultSamplePath = "customers_sample.csv"

// sampleCmd generates synthetic customer data.
var sampleCmd = &cobra.Command{
	Use:   "sample [output-file]",
	Short: "Generate a synthetic customer CSV for trying out churnscope.",
	Long: `Write a synthetic customer dataset with the required input columns.

Generated rows carry realistic ranges for purchases, total value and visits,
so every pipeline stage has meaningful data to work with.

Examples:
  # Write 100 customers to customers_sample.csv
  churnscope sample

  # Write a reproducible 500-row dataset
  churnscope sample demo.csv --rows 500 --seed 42`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		// The positional argument is an output path, not an input file.
		return sharedSetup(cmd, nil)
	},
	Run: func(_ *cobra.Command, args []string) {
		path := defaultSamplePath
		if len(args) == 1 {
			path = args[0]
		}

		seed := cfg.SampleSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		if err := loader.WriteSampleFile(path, cfg.SampleRows, seed); err != nil {
			contract.FatalError("Cannot write sample data", err)
		}
		fmt.Printf("Wrote %d sample customers to %s\n", cfg.SampleRows, path)
	},
}
