// Package core has the churn analysis pipeline: feature normalization, churn
// scoring, segmentation, business metrics and alerting. Everything here is
// synchronous, pure compute on in-memory data; persistence and presentation
// live elsewhere.
package core

import (
	"github.com/churnlab/churnscope/schema"
)

// Options carries everything one analysis run needs. There is no ambient
// state: thresholds, language and model handles all arrive here.
type Options struct {
	Models     ModelSet
	Thresholds schema.Thresholds
	Language   schema.Language
}

// Result is the freshly allocated output of one analysis run. It is never
// mutated after Run returns, so results for different datasets may be computed
// concurrently without locking.
type Result struct {
	Records  []schema.CustomerRecord  `json:"records"`
	Metrics  schema.BusinessMetrics   `json:"metrics"`
	Alerts   []schema.Alert           `json:"alerts"`
	Report   schema.ScoreReport       `json:"score_report"`
	Warnings []schema.CoercionWarning `json:"coercion_warnings,omitempty"`
}

// Run executes the whole pipeline on a raw table:
// normalize -> score -> segment -> aggregate -> alerts.
// A normalization failure aborts the run; every later stage degrades to safe
// defaults instead of failing, so the caller always gets a usable analysis.
func Run(table schema.RawTable, opts Options) (*Result, error) {
	records, warnings, err := Normalize(table)
	if err != nil {
		return nil, err
	}

	if opts.Language == "" {
		opts.Language = schema.English
	}

	report := Score(records, opts.Models)
	AssignSegments(records)
	metrics := Aggregate(records)
	alerts := GenerateAlerts(records, metrics, opts.Thresholds, opts.Language)

	return &Result{
		Records:  records,
		Metrics:  metrics,
		Alerts:   alerts,
		Report:   report,
		Warnings: warnings,
	}, nil
}
