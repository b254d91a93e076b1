package features

import (
	"math"
	"strings"

	"github.com/mirai-health/screening/pkg/common/models"
	"github.com/mirai-health/screening/pkg/screening/schema"
)

const missingSuffix = "_missing"

// Builder turns a patient record into the fixed-order feature vector a
// stage's classifier expects.
type Builder struct {
	registry *schema.Registry
	rules    []columnRule
}

// columnRule is one stage-3 construction rule. Rules are evaluated in order
// per column; the first match wins.
type columnRule struct {
	matches func(col string) bool
	apply   func(col string, patient models.PatientAttributes) (interface{}, error)
}

func NewBuilder(registry *schema.Registry) *Builder {
	b := &Builder{registry: registry}
	b.rules = []columnRule{
		{matches: isMissingIndicator, apply: applyMissingIndicator},
		{matches: isGenderColumn, apply: applyGender},
		{matches: b.isPlasmaColumn, apply: applyPlasma},
		{matches: matchAny, apply: applyPassthrough},
	}
	return b
}

// Build constructs the single-row vector for a stage in the schema's declared
// column order. Stages 1 and 2 project the patient record verbatim; stage 3
// applies the enriched per-column rules.
func (b *Builder) Build(patient models.PatientAttributes, stage int) (Vector, error) {
	columns, err := b.registry.Features(stage)
	if err != nil {
		return Vector{}, err
	}

	if stage == 3 {
		return b.buildStage3(patient, columns)
	}
	return buildProjection(patient, columns)
}

// buildProjection takes each named value as-is. Absence is an error: stage
// 1/2 lookups have no fallback semantics.
func buildProjection(patient models.PatientAttributes, columns []string) (Vector, error) {
	entries := make([]Entry, 0, len(columns))
	for _, col := range columns {
		value, ok := patient[col]
		if !ok || value == nil {
			return Vector{}, validationf("%w: %s", errMissingField, col)
		}
		entries = append(entries, Entry{Name: col, Value: value})
	}
	return NewVector(entries), nil
}

func (b *Builder) buildStage3(patient models.PatientAttributes, columns []string) (Vector, error) {
	entries := make([]Entry, 0, len(columns))
	for _, col := range columns {
		for _, rule := range b.rules {
			if !rule.matches(col) {
				continue
			}
			value, err := rule.apply(col, patient)
			if err != nil {
				return Vector{}, err
			}
			entries = append(entries, Entry{Name: col, Value: value})
			break
		}
	}
	return NewVector(entries), nil
}

// Missing-indicator columns encode "value supplied vs absent" as a first-class
// numeric signal: 0 when the base feature is present and non-null, 1 otherwise.
func isMissingIndicator(col string) bool {
	return strings.HasSuffix(col, missingSuffix)
}

func applyMissingIndicator(col string, patient models.PatientAttributes) (interface{}, error) {
	base := strings.TrimSuffix(col, missingSuffix)
	if v, ok := patient[base]; ok && v != nil {
		return 0.0, nil
	}
	return 1.0, nil
}

func isGenderColumn(col string) bool {
	return col == models.AttrGender
}

func applyGender(col string, patient models.PatientAttributes) (interface{}, error) {
	encoded, err := encodeGender(patient[col])
	if err != nil {
		return nil, err
	}
	return encoded, nil
}

func (b *Builder) isPlasmaColumn(col string) bool {
	return b.registry.IsPlasma(col)
}

// Plasma lab values are frequently and legitimately absent, so coercion
// failure yields NaN instead of failing the request. The classifier treats
// NaN as its missing-value sentinel.
func applyPlasma(col string, patient models.PatientAttributes) (interface{}, error) {
	raw, ok := patient[col]
	if !ok || raw == nil {
		return math.NaN(), nil
	}
	value, err := toFloat(raw)
	if err != nil {
		return math.NaN(), nil
	}
	return value, nil
}

func matchAny(string) bool { return true }

func applyPassthrough(col string, patient models.PatientAttributes) (interface{}, error) {
	return patient[col], nil
}
