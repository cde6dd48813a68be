package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/churnlab/churnscope/internal/contract"
	"github.com/churnlab/churnscope/schema"
)

// WriteSnapshotList outputs saved snapshot summaries, dispatching based on
// the output format configured.
func WriteSnapshotList(snaps []schema.AnalysisSnapshot, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, snaps)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSnapshotCSV(w, snaps, fmtFloat, intFmt)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSnapshotTable(w, snaps, cfg, fmtFloat, intFmt)
		}, "Wrote table")
	}
}

func writeSnapshotCSV(w io.Writer, snaps []schema.AnalysisSnapshot, fmtFloat func(float64) string, intFmt string) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	header := []string{
		"id",
		"owner",
		"analysis_date",
		"total_customers",
		"high_risk_count",
		"medium_risk_count",
		"low_risk_count",
		"avg_churn_probability",
		"revenue_at_risk",
		"retention_rate",
	}
	if err := csvWriter.Write(header); err != nil {
		return err
	}

	for _, s := range snaps {
		rec := []string{
			strconv.FormatInt(s.ID, 10),
			s.Owner,
			s.CreatedAt.Format(time.RFC3339),
			fmt.Sprintf(intFmt, s.TotalCustomers),
			fmt.Sprintf(intFmt, s.HighRiskCount),
			fmt.Sprintf(intFmt, s.MediumRiskCount),
			fmt.Sprintf(intFmt, s.LowRiskCount),
			fmtFloat(s.AvgChurnProbability),
			fmtFloat(s.RevenueAtRisk),
			fmtFloat(s.RetentionRate),
		}
		if err := csvWriter.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func writeSnapshotTable(w io.Writer, snaps []schema.AnalysisSnapshot, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	if _, err := fmt.Fprintln(w, sectionTitle(sectionSnapshots, cfg.Language, cfg.UseEmojis)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Owner", "Date", "Customers", "High", "Medium", "Low", "Avg Churn", "At Risk $"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, s := range snaps {
		data = append(data, []string{
			strconv.FormatInt(s.ID, 10),
			s.Owner,
			s.CreatedAt.Format("2006-01-02 15:04"),
			fmt.Sprintf(intFmt, s.TotalCustomers),
			fmt.Sprintf(intFmt, s.HighRiskCount),
			fmt.Sprintf(intFmt, s.MediumRiskCount),
			fmt.Sprintf(intFmt, s.LowRiskCount),
			fmtFloat(s.AvgChurnProbability) + "%",
			fmtFloat(s.RevenueAtRisk),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Showing %d snapshots\n", len(snaps))
	return err
}

// WriteSnapshotDetails outputs one snapshot with its customer rows,
// dispatching based on the output format configured.
func WriteSnapshotDetails(snap schema.AnalysisSnapshot, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, snap)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSnapshotDetailCSV(w, snap, fmtFloat, intFmt)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSnapshotDetailText(w, snap, cfg, fmtFloat, intFmt)
		}, "Wrote table")
	}
}

func writeSnapshotDetailCSV(w io.Writer, snap schema.AnalysisSnapshot, fmtFloat func(float64) string, intFmt string) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	header := []string{
		"name",
		"purchases",
		"total_value",
		"visits",
		"churn_probability_rf",
		"churn_probability_xgb",
		"churn_probability_best",
		"segment",
		"advanced_segment",
		"predicted_future_value",
	}
	if err := csvWriter.Write(header); err != nil {
		return err
	}

	for _, c := range snap.Customers {
		rec := []string{
			c.Name,
			fmt.Sprintf(intFmt, c.Purchases),
			fmtFloat(c.TotalValue),
			fmt.Sprintf(intFmt, c.Visits),
			fmtFloat(c.ChurnProbabilityRF),
			fmtFloat(c.ChurnProbabilityXGB),
			fmtFloat(c.ChurnProbabilityBest),
			contract.GetPlainSegmentLabel(c.Segment),
			string(c.AdvancedSegment),
			fmtFloat(c.PredictedFutureValue),
		}
		if err := csvWriter.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func writeSnapshotDetailText(w io.Writer, snap schema.AnalysisSnapshot, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	if _, err := fmt.Fprintf(w, "Snapshot %d (%s) saved %s\n",
		snap.ID, snap.Owner, snap.CreatedAt.Format("2006-01-02 15:04")); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  %d customers: %d high / %d medium / %d low risk\n",
		snap.TotalCustomers, snap.HighRiskCount, snap.MediumRiskCount, snap.LowRiskCount); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  avg churn %s%%, revenue at risk $%s, retention %s%%\n\n",
		fmtFloat(snap.AvgChurnProbability), fmtFloat(snap.RevenueAtRisk), fmtFloat(snap.RetentionRate)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Name", "Purchases", "Value", "Visits", "Churn", "Segment", "Advanced"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth(cfg)
	var data [][]string
	for _, c := range snap.Customers {
		segment := displaySegment(c.Segment, cfg.Language)
		if cfg.UseColors {
			segment = contract.GetColorSegmentLabel(c.Segment)
		}
		data = append(data, []string{
			schema.TruncateName(c.Name, nameWidth),
			fmt.Sprintf(intFmt, c.Purchases),
			fmtFloat(c.TotalValue),
			fmt.Sprintf(intFmt, c.Visits),
			fmtFloat(c.ChurnProbabilityBest) + "%",
			segment,
			string(c.AdvancedSegment),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// WriteStoreStatus outputs snapshot store diagnostics.
func WriteStoreStatus(status schema.StoreStatus, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStoreStatusText(w, status)
		}, "Wrote status")
	}
}

func writeStoreStatusText(w io.Writer, status schema.StoreStatus) error {
	if _, err := fmt.Fprintf(w, "Backend:   %s\n", status.Backend); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Connected: %t\n", status.Connected); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Snapshots: %d\n", status.TotalSnapshots); err != nil {
		return err
	}
	if status.TotalSnapshots > 0 {
		if _, err := fmt.Fprintf(w, "Last:      #%d at %s\n",
			status.LastSnapshotID, status.LastSnapshotTime.Format(time.RFC3339)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Oldest:    %s\n",
			status.OldestSnapshotTime.Format(time.RFC3339)); err != nil {
			return err
		}
	}
	for table, count := range status.TableSizes {
		if _, err := fmt.Fprintf(w, "Table %s: %d rows\n", table, count); err != nil {
			return err
		}
	}
	return nil
}
