package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/churnlab/churnscope/core"
	"github.com/churnlab/churnscope/internal/contract"
	"github.com/churnlab/churnscope/schema"
)

// WriteAnalysis outputs a full analysis result, dispatching based on the
// output format configured.
func WriteAnalysis(result *core.Result, cfg *contract.Config) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeAnalysisJSON(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeAnalysisCSV(result, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable sections
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalysisText(result, cfg, fmtFloat, intFmt, w)
		}, "Wrote report")
	}
	return nil
}

// rankedRecords returns records ordered by best churn probability descending,
// without mutating the result.
func rankedRecords(records []schema.CustomerRecord) []schema.CustomerRecord {
	ranked := make([]schema.CustomerRecord, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ChurnProbabilityBest > ranked[j].ChurnProbabilityBest
	})
	return ranked
}

// writeAnalysisJSON handles opening the file and encoding the full result.
func writeAnalysisJSON(result *core.Result, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		type jsonResult struct {
			*core.Result
			Campaigns []core.CampaignEstimate `json:"campaigns"`
		}
		return writeJSON(w, jsonResult{
			Result:    result,
			Campaigns: core.EstimateCampaigns(result.Records),
		})
	}, "Wrote JSON")
}

// writeAnalysisCSV writes the ranked customer rows in CSV format.
func writeAnalysisCSV(result *core.Result, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()

		header := []string{
			"rank",
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
			"recommended_action",
		}
		if err := csvWriter.Write(header); err != nil {
			return err
		}

		for i, r := range rankedRecords(result.Records) {
			rec := []string{
				strconv.Itoa(i + 1),
				r.Name,
				fmt.Sprintf(intFmt, r.Purchases),
				fmtFloat(r.TotalValue),
				fmt.Sprintf(intFmt, r.Visits),
				fmtFloat(r.ChurnProbabilityRF),
				fmtFloat(r.ChurnProbabilityXGB),
				fmtFloat(r.ChurnProbabilityBest),
				contract.GetPlainSegmentLabel(r.Segment),
				string(r.AdvancedSegment),
				fmtFloat(r.PredictedFutureValue),
				string(core.RecommendAction(r)),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	}, "Wrote CSV")
}

// writeAnalysisText generates and writes the human-readable report.
func writeAnalysisText(result *core.Result, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, writer io.Writer) error {
	if err := writeCustomerTable(result, cfg, fmtFloat, intFmt, writer); err != nil {
		return err
	}
	if err := writeMetricsSection(result.Metrics, cfg, fmtFloat, writer); err != nil {
		return err
	}
	if err := writeAlertsSection(result.Alerts, cfg, writer); err != nil {
		return err
	}
	if err := writeCampaignTable(core.EstimateCampaigns(result.Records), cfg, fmtFloat, intFmt, writer); err != nil {
		return err
	}
	return writeSlotReport(result.Report, cfg, writer)
}

// writeCustomerTable renders the ranked customer table, capped at the
// configured result limit.
func writeCustomerTable(result *core.Result, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, writer io.Writer) error {
	if _, err := fmt.Fprintln(writer, sectionTitle(sectionCustomers, cfg.Language, cfg.UseEmojis)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Name", "Purchases", "Value", "Visits", "Churn", "Segment", "Advanced", "Action"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	ranked := rankedRecords(result.Records)
	shown := min(len(ranked), cfg.ResultLimit)
	nameWidth := getMaxTableNameWidth(cfg)

	var data [][]string
	for i, r := range ranked[:shown] {
		segment := displaySegment(r.Segment, cfg.Language)
		if cfg.UseColors {
			segment = contract.GetColorSegmentLabel(r.Segment)
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			schema.TruncateName(r.Name, nameWidth),
			fmt.Sprintf(intFmt, r.Purchases),
			fmtFloat(r.TotalValue),
			fmt.Sprintf(intFmt, r.Visits),
			fmtFloat(r.ChurnProbabilityBest) + "%",
			segment,
			string(r.AdvancedSegment),
			string(core.RecommendAction(r)),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(writer, "Showing top %d of %d customers (coercion warnings: %d)\n\n",
		shown, len(ranked), len(result.Warnings))
	return err
}

// writeMetricsSection prints the population metrics block.
func writeMetricsSection(m schema.BusinessMetrics, cfg *contract.Config, fmtFloat func(float64) string, writer io.Writer) error {
	if _, err := fmt.Fprintln(writer, sectionTitle(sectionMetrics, cfg.Language, cfg.UseEmojis)); err != nil {
		return err
	}

	lines := []struct {
		label string
		value string
	}{
		{"Retention rate", fmtFloat(m.RetentionRate) + "%"},
		{"Conversion rate", fmtFloat(m.ConversionRate) + "%"},
		{"Lifetime value", "$" + fmtFloat(m.LTV)},
		{"Total revenue", "$" + fmtFloat(m.TotalRevenue)},
		{"Revenue at risk", "$" + fmtFloat(m.RevenueAtRisk)},
		{"Predicted future value", "$" + fmtFloat(m.PredictedFutureValue)},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(writer, "  %-24s %s\n", l.label, l.value); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(writer)
	return err
}

// writeAlertsSection prints the alerts, already sorted by priority.
func writeAlertsSection(alerts []schema.Alert, cfg *contract.Config, writer io.Writer) error {
	if _, err := fmt.Fprintln(writer, sectionTitle(sectionAlerts, cfg.Language, cfg.UseEmojis)); err != nil {
		return err
	}

	if len(alerts) == 0 {
		if _, err := fmt.Fprintln(writer, "  (none)"); err != nil {
			return err
		}
		_, err := fmt.Fprintln(writer)
		return err
	}

	for _, a := range alerts {
		label := string(a.Type)
		if cfg.UseColors {
			label = contract.GetColorAlertLabel(a.Type)
		}
		if _, err := fmt.Fprintf(writer, "  [%s] %s: %s\n", label, a.Title, a.Message); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(writer)
	return err
}

// writeCampaignTable renders the per-segment campaign projections.
func writeCampaignTable(estimates []core.CampaignEstimate, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, writer io.Writer) error {
	if _, err := fmt.Fprintln(writer, sectionTitle(sectionCampaigns, cfg.Language, cfg.UseEmojis)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Segment", "Customers", "Conversion", "Converts", "AOV", "Revenue"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, e := range estimates {
		data = append(data, []string{
			string(e.Segment),
			fmt.Sprintf(intFmt, e.Customers),
			fmtFloat(e.ConversionRate*100) + "%",
			fmtFloat(e.ExpectedConverts),
			"$" + fmtFloat(e.AvgOrderValue),
			"$" + fmtFloat(e.ProjectedRevenue),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(writer)
	return err
}

// writeSlotReport prints which tier served each model slot.
func writeSlotReport(report schema.ScoreReport, cfg *contract.Config, writer io.Writer) error {
	if _, err := fmt.Fprintln(writer, sectionTitle(sectionModels, cfg.Language, cfg.UseEmojis)); err != nil {
		return err
	}

	for _, s := range report.Slots() {
		line := fmt.Sprintf("  %-10s %s", s.Slot, s.Status)
		if s.Detail != "" {
			line += " (" + s.Detail + ")"
		}
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return err
		}
	}
	return nil
}
