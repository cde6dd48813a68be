// Package cmd defines the command-line interface for churnscope.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/churnlab/churnscope/internal/contract"
	"github.com/churnlab/churnscope/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(snapshotsCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the snapshots subcommands to the parent snapshots command
	snapshotsCmd.AddCommand(snapshotsListCmd)
	snapshotsCmd.AddCommand(snapshotsShowCmd)
	snapshotsCmd.AddCommand(snapshotsPruneCmd)
	snapshotsCmd.AddCommand(snapshotsClearCmd)
	snapshotsCmd.AddCommand(snapshotsStatusCmd)
	snapshotsCmd.AddCommand(snapshotsExportCmd)
	snapshotsCmd.AddCommand(snapshotsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	defaults := schema.DefaultThresholds()
	rootCmd.PersistentFlags().Float64("risk-threshold", defaults.Risk, "At-risk customer share that triggers an alert (0-100)")
	rootCmd.PersistentFlags().Float64("inactive-threshold", defaults.Inactive, "Inactive customer share that triggers an alert (0-100)")
	rootCmd.PersistentFlags().Float64("revenue-threshold", defaults.Revenue, "Revenue-at-risk share that triggers an alert (0-100)")
	rootCmd.PersistentFlags().Float64("new-customer-threshold", defaults.NewCustomer, "New customer share that triggers an alert (0-100)")
	rootCmd.PersistentFlags().String("lang", string(schema.English), "Display language: en or ar")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("snapshot-backend", string(schema.SQLiteBackend), "Snapshot backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("snapshot-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().Int("keep", contract.DefaultKeep, "Number of snapshots to keep when pruning")
	rootCmd.PersistentFlags().String("owner", "", "Owner label recorded on saved snapshots and used to scope list/prune")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in section headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.FatalError("Error binding root flags", err)
	}

	// Bind all flags of analyzeCmd to Viper
	analyzeCmd.Flags().String("primary-model", "", "Path to the primary model artifact (JSON)")
	analyzeCmd.Flags().String("secondary-model", "", "Path to the secondary model artifact (JSON)")
	analyzeCmd.Flags().String("best-model", "", "Path to the best model artifact (JSON)")
	analyzeCmd.Flags().Bool("save", false, "Persist the analysis as a snapshot")
	if err := viper.BindPFlags(analyzeCmd.Flags()); err != nil {
		contract.FatalError("Error binding analyze flags", err)
	}

	// Bind all flags of sampleCmd to Viper
	sampleCmd.Flags().Int("rows", contract.DefaultSampleRows, "Number of sample customers to generate")
	sampleCmd.Flags().Int64("seed", 0, "Random seed for reproducible sample data (0 = time-based)")
	if err := viper.BindPFlags(sampleCmd.Flags()); err != nil {
		contract.FatalError("Error binding sample flags", err)
	}

	// Bind all flags of snapshotsMigrateCmd to Viper
	snapshotsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(snapshotsMigrateCmd.Flags()); err != nil {
		contract.FatalError("Error binding snapshots migrate flags", err)
	}
}
