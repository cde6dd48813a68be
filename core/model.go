package core

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/churnlab/churnscope/schema"
)

// ProbabilityModel is the preferred model capability: a direct probability of
// churn in [0,1] for one customer's features.
type ProbabilityModel interface {
	PredictProbability(f schema.Features) (float64, error)
}

// LabelModel is the reduced capability: a hard 0/1 churn label. The scorer
// expands labels into one-hot probabilities (1 -> 100%, 0 -> 0%).
type LabelModel interface {
	PredictLabel(f schema.Features) (int, error)
}

// ModelSet names the three scorer slots. Any slot may be nil; the scorer
// degrades per slot instead of failing. Models must be immutable after load
// so concurrent analysis runs can share them.
type ModelSet struct {
	Primary   any // fills ChurnProbabilityRF
	Secondary any // fills ChurnProbabilityXGB
	Best      any // fills ChurnProbabilityBest; nil means ensemble mean of present slots
}

// LogisticModel scores churn with a logistic function over the three features.
type LogisticModel struct {
	Bias    float64 `json:"bias"`
	Weights struct {
		Purchases  float64 `json:"purchases"`
		TotalValue float64 `json:"total_value"`
		Visits     float64 `json:"visits"`
	} `json:"weights"`
}

var _ ProbabilityModel = (*LogisticModel)(nil) // Compile-time check

// PredictProbability returns the sigmoid of the weighted feature sum.
func (m *LogisticModel) PredictProbability(f schema.Features) (float64, error) {
	z := m.Bias +
		m.Weights.Purchases*f.Purchases +
		m.Weights.TotalValue*f.TotalValue +
		m.Weights.Visits*f.Visits
	return 1.0 / (1.0 + math.Exp(-z)), nil
}

// ThresholdModel is a label-only classifier: a single cut point on one
// feature. It exists for rule-of-thumb models exported without calibrated
// probabilities and exercises the scorer's one-hot fallback.
type ThresholdModel struct {
	Feature    string  `json:"feature"` // purchases, total_value or visits
	Cutoff     float64 `json:"cutoff"`
	ChurnBelow bool    `json:"churn_below"` // true: value <= cutoff predicts churn
}

var _ LabelModel = (*ThresholdModel)(nil) // Compile-time check

// PredictLabel returns 1 when the configured feature falls on the churn side
// of the cut point.
func (m *ThresholdModel) PredictLabel(f schema.Features) (int, error) {
	var v float64
	switch m.Feature {
	case "purchases":
		v = f.Purchases
	case "total_value":
		v = f.TotalValue
	case "visits":
		v = f.Visits
	default:
		return 0, fmt.Errorf("unknown feature %q", m.Feature)
	}

	below := v <= m.Cutoff
	if below == m.ChurnBelow {
		return 1, nil
	}
	return 0, nil
}

// modelArtifact is the on-disk envelope for trained model artifacts.
type modelArtifact struct {
	Type string `json:"type"` // logistic or threshold
}

// Model loading is memoized per path for the life of the process: artifacts
// are read-only after load and loading is the expensive part.
var (
	modelMu    sync.Mutex
	modelCache = map[string]any{}
)

// LoadModel reads a model artifact from a JSON file. The returned value
// implements ProbabilityModel or LabelModel depending on the artifact type.
// Repeated loads of the same path return the cached instance.
func LoadModel(path string) (any, error) {
	modelMu.Lock()
	defer modelMu.Unlock()

	if m, ok := modelCache[path]; ok {
		return m, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact %q: %w", path, err)
	}

	var envelope modelArtifact
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact %q: %w", path, err)
	}

	var model any
	switch envelope.Type {
	case "logistic":
		m := &LogisticModel{}
		if err := json.Unmarshal(data, m); err != nil {
			return nil, fmt.Errorf("failed to parse logistic model %q: %w", path, err)
		}
		model = m
	case "threshold":
		m := &ThresholdModel{}
		if err := json.Unmarshal(data, m); err != nil {
			return nil, fmt.Errorf("failed to parse threshold model %q: %w", path, err)
		}
		model = m
	default:
		return nil, fmt.Errorf("unsupported model type %q in %q", envelope.Type, path)
	}

	modelCache[path] = model
	return model, nil
}
