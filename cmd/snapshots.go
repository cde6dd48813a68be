package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/churnlab/churnscope/internal/contract"
	"github.com/churnlab/churnscope/internal/outwriter"
	"github.com/churnlab/churnscope/internal/parquet"
	"github.com/churnlab/churnscope/internal/snapstore"
	"github.com/churnlab/churnscope/schema"
)

// snapshotSetup runs the shared validation and connects the snapshot store.
func snapshotSetup(cmd *cobra.Command) error {
	if err := sharedSetup(cmd, nil); err != nil {
		return err
	}
	if cfg.SnapshotBackend == schema.NoneBackend {
		return fmt.Errorf("snapshot commands require a snapshot backend other than none")
	}
	return snapstore.InitStore(cfg.SnapshotBackend, cfg.SnapshotDBConnect)
}

// snapshotSetupWrapper wraps snapshotSetup to provide PreRunE for snapshot commands.
func snapshotSetupWrapper(cmd *cobra.Command, _ []string) error {
	return snapshotSetup(cmd)
}

// snapshotConfigSetupWrapper validates config without initializing the store.
// Store initialization creates tables, which would defeat running migrations
// on a fresh database, and clear removes the storage the store would hold open.
func snapshotConfigSetupWrapper(cmd *cobra.Command, _ []string) error {
	if err := sharedSetup(cmd, nil); err != nil {
		return err
	}
	if cfg.SnapshotBackend == schema.NoneBackend {
		return fmt.Errorf("snapshot commands require a snapshot backend other than none")
	}
	return nil
}

// snapshotsCmd is the parent for snapshot data management.
var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Manage saved analysis snapshots",
	Long: `Manage the history of saved analysis runs.

Every analysis saved with --save stores:
- Run metadata (timestamp, owner, customer and risk band counts)
- Population metrics (average churn, revenue at risk, retention rate)
- Per-customer scores, segments and predicted future value

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  list    - Show recent snapshots, newest first
  show    - Show one snapshot with its customer rows
  prune   - Remove all but the most recent snapshots
  clear   - Remove all snapshot data
  status  - Show snapshot store statistics
  export  - Export data to Parquet for analytics
  migrate - Run database schema migrations

Examples:
  # List the last runs
  churnscope snapshots list

  # Export for analysis in pandas/DuckDB
  churnscope snapshots export --output-file churn-history.parquet`,
}

// snapshotsListCmd lists recent snapshot summaries.
var snapshotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recent snapshots, newest first",
	Long: `List saved analysis snapshots without per-customer detail.

The number of rows is capped by --limit. With --owner, only that owner's
snapshots are listed. Use --output json or csv for machine-readable listings.

Examples:
  # Show the ten most recent runs
  churnscope snapshots list --limit 10

  # Show only one owner's runs
  churnscope snapshots list --owner weekly-batch`,
	PreRunE: snapshotSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		snaps, err := snapstore.Store().List(cfg.Owner, cfg.ResultLimit)
		if err != nil {
			contract.FatalError("Failed to list snapshots", err)
		}
		if err := outwriter.WriteSnapshotList(snaps, cfg); err != nil {
			contract.FatalError("Failed to write snapshot list", err)
		}
	},
}

// snapshotsShowCmd shows one snapshot with customer rows.
var snapshotsShowCmd = &cobra.Command{
	Use:   "show <snapshot-id>",
	Short: "Show one snapshot with its customer rows",
	Long: `Display a saved snapshot including every analyzed customer, ordered by
best churn probability descending.

Examples:
  # Inspect snapshot 7
  churnscope snapshots show 7

  # Export one run's customers as CSV
  churnscope snapshots show 7 --output csv --output-file run7.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: snapshotSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			contract.FatalError("Invalid snapshot ID", err)
		}
		snap, err := snapstore.Store().Get(id)
		if err != nil {
			contract.FatalError("Failed to load snapshot", err)
		}
		if err := outwriter.WriteSnapshotDetails(snap, cfg); err != nil {
			contract.FatalError("Failed to write snapshot details", err)
		}
	},
}

// snapshotsPruneCmd removes old snapshots.
var snapshotsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove all but the most recent snapshots",
	Long: `Delete old snapshots and their customer rows, keeping the --keep most
recent runs. With --owner, only that owner's snapshots are counted and
removed; other owners' history is untouched.

Examples:
  # Keep only the last 5 runs
  churnscope snapshots prune --keep 5

  # Keep one owner's last 3 runs
  churnscope snapshots prune --owner weekly-batch --keep 3`,
	PreRunE: snapshotSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		removed, err := snapstore.Store().Prune(cfg.Owner, cfg.Keep)
		if err != nil {
			contract.FatalError("Failed to prune snapshots", err)
		}
		fmt.Printf("Pruned %d snapshots (keeping %d).\n", removed, cfg.Keep)
	},
}

// snapshotsClearCmd clears the snapshot data.
var snapshotsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all saved snapshot data",
	Long: `Delete every stored snapshot and customer row.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  churnscope snapshots export --output-file backup.parquet
  churnscope snapshots clear`,
	PreRunE: snapshotConfigSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := snapstore.DropStorage(cfg.SnapshotBackend, snapshotConnString(), cfg.SnapshotDBConnect); err != nil {
			contract.FatalError("Failed to clear snapshot data", err)
		}
		fmt.Println("Snapshot data cleared successfully.")
	},
}

// snapshotsStatusCmd shows snapshot store status.
var snapshotsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display snapshot store statistics and connection details",
	Long: `Show detailed information about the snapshot store.

Displays:
- Backend type and connection status
- Total number of snapshots stored
- Last and oldest snapshot timestamps
- Database table sizes

Examples:
  # Check snapshot storage health
  churnscope snapshots status`,
	PreRunE: snapshotSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := snapstore.Store().GetStatus()
		if err != nil {
			contract.FatalError("Failed to get snapshot status", err)
		}
		if err := outwriter.WriteStoreStatus(status, cfg); err != nil {
			contract.FatalError("Failed to write snapshot status", err)
		}
	},
}

// snapshotsExportCmd exports snapshot data to Parquet files.
var snapshotsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export snapshot history to Parquet for BI tools and analytics",
	Long: `Export all stored snapshot data to Parquet format.

Exports two datasets next to each other:
- <base>.snapshots.parquet - one row per saved analysis run
- <base>.customers.parquet - one row per analyzed customer

Parquet format enables fast querying with DuckDB, Apache Spark and pandas,
and direct import into BI tools.

Requires: --output-file parameter

Examples:
  # Export all data
  churnscope snapshots export --output-file churn-history.parquet

  # Query the export with DuckDB
  duckdb -c "SELECT * FROM read_parquet('churn-history.customers.parquet') LIMIT 10"`,
	PreRunE: snapshotSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runSnapshotExport(); err != nil {
			contract.FatalError("Failed to export snapshot data", err)
		}
	},
}

func runSnapshotExport() error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for export")
	}

	summaries, err := snapstore.Store().List(cfg.Owner, contract.MaxResultLimit)
	if err != nil {
		return err
	}

	// List omits customer rows, so fetch each snapshot in full.
	full := make([]schema.AnalysisSnapshot, 0, len(summaries))
	for _, s := range summaries {
		snap, err := snapstore.Store().Get(s.ID)
		if err != nil {
			return err
		}
		full = append(full, snap)
	}

	base := strings.TrimSuffix(cfg.OutputFile, ".parquet")
	snapPath := base + ".snapshots.parquet"
	custPath := base + ".customers.parquet"

	if err := parquet.WriteSnapshotsParquet(parquet.ConvertSnapshots(full), snapPath); err != nil {
		return err
	}
	if err := parquet.WriteCustomersParquet(parquet.ConvertCustomers(full), custPath); err != nil {
		return err
	}

	fmt.Printf("Exported %d snapshots to %s and %s\n", len(full), snapPath, custPath)
	return nil
}

// snapshotsMigrateCmd runs database migrations for the snapshot store.
var snapshotsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the snapshot store.

By default, migrates to the latest version. Use --target-version for specific
versions.

Examples:
  # Migrate to latest version (default)
  churnscope snapshots migrate

  # Migrate to specific version
  churnscope snapshots migrate --target-version 1

  # Rollback to initial state
  churnscope snapshots migrate --target-version 0`,
	PreRunE: snapshotConfigSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := snapstore.MigrateStore(cfg.SnapshotBackend, snapshotConnString(), targetVersion); err != nil {
			contract.FatalError("Failed to run migrations", err)
		}
	},
}
