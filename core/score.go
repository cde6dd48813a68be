package core

import (
	"fmt"

	"github.com/churnlab/churnscope/schema"
)

// Score fills the three churn probability columns on records, in place, and
// returns a report describing which tier served each slot. Probabilities are
// rescaled from [0,1] to [0,100] and clamped, even when a model misbehaves.
//
// Per-slot degradation ladder: native probability, then hard labels expanded
// one-hot, then zeros with a failure flag. An absent model yields zeros with
// a missing flag. Nothing in here aborts the pipeline.
func Score(records []schema.CustomerRecord, models ModelSet) schema.ScoreReport {
	primary, primaryReport := scoreSlot(schema.PrimarySlot, models.Primary, records)
	secondary, secondaryReport := scoreSlot(schema.SecondarySlot, models.Secondary, records)

	var best []float64
	var bestReport schema.SlotReport
	if models.Best != nil {
		best, bestReport = scoreSlot(schema.BestSlot, models.Best, records)
	} else {
		// No designated best model: fall back to the unweighted mean of
		// whichever slots are present, or zeros if none are.
		var present [][]float64
		if models.Primary != nil {
			present = append(present, primary)
		}
		if models.Secondary != nil {
			present = append(present, secondary)
		}
		best = meanColumns(len(records), present)
		status := schema.SlotEnsembleMean
		if len(present) == 0 {
			status = schema.SlotMissing
		}
		bestReport = schema.SlotReport{Slot: schema.BestSlot, Status: status}
	}

	for i := range records {
		records[i].ChurnProbabilityRF = schema.ClampPercent(primary[i] * 100)
		records[i].ChurnProbabilityXGB = schema.ClampPercent(secondary[i] * 100)
		records[i].ChurnProbabilityBest = schema.ClampPercent(best[i] * 100)
	}

	return schema.ScoreReport{
		Primary:   primaryReport,
		Secondary: secondaryReport,
		Best:      bestReport,
	}
}

// scoreSlot produces one probability per record in [0,1] for a single model
// slot, walking the degradation ladder. The returned slice always has
// len(records) entries.
func scoreSlot(slot schema.ModelSlot, model any, records []schema.CustomerRecord) ([]float64, schema.SlotReport) {
	probs := make([]float64, len(records))

	if model == nil {
		return probs, schema.SlotReport{Slot: slot, Status: schema.SlotMissing}
	}

	var firstErr error

	if pm, ok := model.(ProbabilityModel); ok {
		if err := predictProbabilities(pm, records, probs); err == nil {
			return probs, schema.SlotReport{Slot: slot, Status: schema.SlotServedProbability}
		} else {
			firstErr = err
		}
	}

	if lm, ok := model.(LabelModel); ok {
		if err := predictLabels(lm, records, probs); err == nil {
			return probs, schema.SlotReport{Slot: slot, Status: schema.SlotServedLabel}
		} else if firstErr == nil {
			firstErr = err
		}
	}

	detail := "model has no usable predict capability"
	if firstErr != nil {
		detail = firstErr.Error()
	}
	clear(probs)
	return probs, schema.SlotReport{Slot: slot, Status: schema.SlotFailed, Detail: detail}
}

// predictProbabilities fills out with one probability per record. Any error
// invalidates the whole batch, mirroring a failed matrix inference call.
func predictProbabilities(m ProbabilityModel, records []schema.CustomerRecord, out []float64) error {
	for i, r := range records {
		p, err := m.PredictProbability(schema.FeaturesOf(r))
		if err != nil {
			return err
		}
		out[i] = p
	}
	return nil
}

// predictLabels fills out with one-hot probabilities from hard labels.
// Labels outside {0,1} count as an inference failure.
func predictLabels(m LabelModel, records []schema.CustomerRecord, out []float64) error {
	for i, r := range records {
		label, err := m.PredictLabel(schema.FeaturesOf(r))
		if err != nil {
			return err
		}
		switch label {
		case 0:
			out[i] = 0
		case 1:
			out[i] = 1
		default:
			return &labelRangeError{label: label}
		}
	}
	return nil
}

type labelRangeError struct {
	label int
}

func (e *labelRangeError) Error() string {
	return fmt.Sprintf("label prediction %d outside {0,1}", e.label)
}

// meanColumns averages per-row values across the given columns. With no
// columns it returns all zeros.
func meanColumns(n int, columns [][]float64) []float64 {
	out := make([]float64, n)
	if len(columns) == 0 {
		return out
	}
	for i := range out {
		var sum float64
		for _, col := range columns {
			sum += col[i]
		}
		out[i] = sum / float64(len(columns))
	}
	return out
}
