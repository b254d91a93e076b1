package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/mirai-health/screening/pkg/screening/features"
)

// Artifact is the exported-model JSON contract. The training side freezes a
// fitted pipeline into feature order, categorical encoders, per-feature
// imputation fills for absent values, and the linear weights.
type Artifact struct {
	Model struct {
		Type         string                        `json:"type"`
		Algorithm    string                        `json:"algorithm"`
		FeatureNames []string                      `json:"feature_names"`
		Encoders     map[string]map[string]float64 `json:"encoders,omitempty"`
		Imputations  map[string]float64            `json:"imputations,omitempty"`
		Weights      struct {
			Bias         float64   `json:"bias"`
			Coefficients []float64 `json:"coefficients"`
		} `json:"weights"`
	} `json:"model"`
}

// Logistic scores feature vectors against a frozen logistic-regression
// artifact. All fields are fixed at load time.
type Logistic struct {
	featureNames []string
	encoders     map[string]map[string]float64
	imputations  map[string]float64
	bias         float64
	coefficients []float64
}

func LoadLogistic(path string) (*Logistic, error) {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	var artifact Artifact
	if err := json.Unmarshal(content, &artifact); err != nil {
		return nil, fmt.Errorf("parsing model artifact: %w", err)
	}
	return NewLogistic(artifact)
}

func NewLogistic(artifact Artifact) (*Logistic, error) {
	m := artifact.Model
	if len(m.FeatureNames) == 0 {
		return nil, fmt.Errorf("artifact missing feature names")
	}
	if len(m.Weights.Coefficients) != len(m.FeatureNames) {
		return nil, fmt.Errorf("artifact has %d coefficients for %d features",
			len(m.Weights.Coefficients), len(m.FeatureNames))
	}
	return &Logistic{
		featureNames: m.FeatureNames,
		encoders:     m.Encoders,
		imputations:  m.Imputations,
		bias:         m.Weights.Bias,
		coefficients: m.Weights.Coefficients,
	}, nil
}

// FeatureNames returns the positional column order the artifact was fitted on.
func (l *Logistic) FeatureNames() []string {
	return append([]string(nil), l.featureNames...)
}

// Score consumes the vector positionally. The vector's column order must
// match the artifact's fitted order exactly; any mismatch is a scoring fault,
// not something to reorder silently.
func (l *Logistic) Score(vec features.Vector) (float64, error) {
	entries := vec.Entries()
	if len(entries) != len(l.featureNames) {
		return 0, fmt.Errorf("vector has %d columns, artifact expects %d",
			len(entries), len(l.featureNames))
	}

	sum := l.bias
	for i, entry := range entries {
		if entry.Name != l.featureNames[i] {
			return 0, fmt.Errorf("vector column %d is %q, artifact expects %q",
				i, entry.Name, l.featureNames[i])
		}
		value, err := l.resolve(entry)
		if err != nil {
			return 0, err
		}
		sum += l.coefficients[i] * value
	}
	return sigmoid(sum), nil
}

// resolve converts one entry to the numeric value the linear model consumes:
// categorical values go through the artifact's encoder, nil and NaN fall back
// to the fitted imputation value.
func (l *Logistic) resolve(entry features.Entry) (float64, error) {
	if entry.Value == nil {
		return l.impute(entry.Name)
	}

	if s, ok := entry.Value.(string); ok {
		enc, ok := l.encoders[entry.Name]
		if !ok {
			return 0, fmt.Errorf("feature %s: no encoder for categorical value %q", entry.Name, s)
		}
		mapped, ok := enc[s]
		if !ok {
			return 0, fmt.Errorf("feature %s: value %q not in encoder", entry.Name, s)
		}
		return mapped, nil
	}

	value, err := toFloat(entry.Value)
	if err != nil {
		return 0, fmt.Errorf("feature %s: %w", entry.Name, err)
	}
	if math.IsNaN(value) {
		return l.impute(entry.Name)
	}
	return value, nil
}

func (l *Logistic) impute(name string) (float64, error) {
	fill, ok := l.imputations[name]
	if !ok {
		return 0, fmt.Errorf("feature %s absent and artifact has no imputation for it", name)
	}
	return fill, nil
}

func toFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	default:
		return 0, fmt.Errorf("unsupported type %T", value)
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
