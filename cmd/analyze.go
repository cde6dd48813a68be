package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/churnlab/churnscope/core"
	"github.com/churnlab/churnscope/internal/contract"
	"github.com/churnlab/churnscope/internal/loader"
	"github.com/churnlab/churnscope/internal/outwriter"
	"github.com/churnlab/churnscope/internal/snapstore"
	"github.com/churnlab/churnscope/schema"
)

// analyzeCmd runs the full churn analysis pipeline on a customer CSV.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <input-file>",
	Short: "Score customers and report segments, metrics and alerts.",
	Long: `Run the full churn analysis pipeline on a customer CSV export.

The input file must carry the columns Name, Purchases, Total_Value and Visits.
Cells that fail numeric coercion default to zero and are counted as warnings
instead of aborting the run.

For each customer, churnscope computes:
- Churn probabilities from the configured model slots (with safe fallbacks)
- A risk segment (Loyal, Medium, At Risk) and an advanced business segment
- A predicted future value and a recommended retention action

Population-level output covers retention, conversion, lifetime value, revenue
at risk and threshold-driven alerts.

Examples:
  # Analyze an export with default settings
  churnscope analyze customers.csv

  # Use trained model artifacts and tighter alert thresholds
  churnscope analyze customers.csv --primary-model rf.json --risk-threshold 15

  # Persist the run and keep only the last 5 snapshots
  churnscope analyze customers.csv --save --owner weekly --keep 5

  # Export findings to CSV for tracking
  churnscope analyze customers.csv --output csv --output-file churn.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runAnalyze(); err != nil {
			contract.FatalError("Cannot run analysis", err)
		}
	},
}

func runAnalyze() error {
	table, err := loader.LoadCSV(cfg.InputFile)
	if err != nil {
		return err
	}

	models := core.ModelSet{
		Primary:   loadModelSlot(cfg.PrimaryModelPath, schema.PrimarySlot),
		Secondary: loadModelSlot(cfg.SecondaryModelPath, schema.SecondarySlot),
		Best:      loadModelSlot(cfg.BestModelPath, schema.BestSlot),
	}

	result, err := core.Run(table, core.Options{
		Models:     models,
		Thresholds: cfg.Thresholds,
		Language:   cfg.Language,
	})
	if err != nil {
		return err
	}

	if err := outwriter.WriteAnalysis(result, cfg); err != nil {
		return err
	}

	if cfg.Save {
		return saveSnapshot(result)
	}
	return nil
}

// loadModelSlot loads one model artifact. A load failure degrades the slot to
// nil with a warning instead of aborting the run.
func loadModelSlot(path string, slot schema.ModelSlot) any {
	if path == "" {
		return nil
	}
	model, err := core.LoadModel(path)
	if err != nil {
		contract.Warning(fmt.Sprintf("Could not load %s model from %s: %v", slot, path, err))
		return nil
	}
	return model
}

// saveSnapshot persists the run and prunes old snapshots down to cfg.Keep.
func saveSnapshot(result *core.Result) error {
	if err := snapstore.InitStore(cfg.SnapshotBackend, cfg.SnapshotDBConnect); err != nil {
		return err
	}

	snap := core.BuildSnapshot(result.Records, result.Metrics, cfg.Owner, time.Now())
	id, err := snapstore.Store().Save(snap)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Saved snapshot #%d\n", id)

	removed, err := snapstore.Store().Prune(cfg.Owner, cfg.Keep)
	if err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}
	if removed > 0 {
		fmt.Fprintf(os.Stderr, "💾 Pruned %d old snapshots (keeping %d)\n", removed, cfg.Keep)
	}
	return nil
}
