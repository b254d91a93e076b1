package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrUnknownStage signals a stage number outside {1,2,3}. Reaching it through
// the public API means a caller bypassed the stage selector.
var ErrUnknownStage = errors.New("stage must be 1, 2, or 3")

const (
	StageMin = 1
	StageMax = 3
)

// Registry holds the per-stage feature schemas. It is built once at startup
// and never mutated afterwards, so concurrent readers need no locking.
type Registry struct {
	features map[int][]string
	plasma   map[string]struct{}
}

type fileFormat struct {
	Stage1Features       []string `json:"stage1_features"`
	Stage2Features       []string `json:"stage2_features"`
	Stage3Features       []string `json:"stage3_features"`
	PlasmaFeaturesStage3 []string `json:"plasma_features_stage3"`
}

// Load reads the feature schema artifact that ships alongside the model
// artifacts and fails if any stage's feature list is missing or empty.
func Load(path string) (*Registry, error) {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading feature schema: %w", err)
	}

	var ff fileFormat
	if err := json.Unmarshal(content, &ff); err != nil {
		return nil, fmt.Errorf("parsing feature schema: %w", err)
	}

	return New(ff.Stage1Features, ff.Stage2Features, ff.Stage3Features, ff.PlasmaFeaturesStage3)
}

// New validates and assembles a registry from explicit stage feature lists.
func New(stage1, stage2, stage3, plasma []string) (*Registry, error) {
	lists := map[int][]string{1: stage1, 2: stage2, 3: stage3}
	features := make(map[int][]string, len(lists))
	for stage := StageMin; stage <= StageMax; stage++ {
		if len(lists[stage]) == 0 {
			return nil, fmt.Errorf("feature schema missing stage %d feature list", stage)
		}
		features[stage] = append([]string(nil), lists[stage]...)
	}

	plasmaSet := make(map[string]struct{}, len(plasma))
	for _, name := range plasma {
		plasmaSet[name] = struct{}{}
	}

	return &Registry{features: features, plasma: plasmaSet}, nil
}

// Features returns the ordered feature names for a stage. The returned slice
// is a copy; callers may not reorder the registry's own view.
func (r *Registry) Features(stage int) ([]string, error) {
	names, ok := r.features[stage]
	if !ok {
		return nil, ErrUnknownStage
	}
	return append([]string(nil), names...), nil
}

// IsPlasma reports whether a stage-3 feature requires numeric coercion with
// NaN fallback.
func (r *Registry) IsPlasma(name string) bool {
	_, ok := r.plasma[name]
	return ok
}

// Stages lists the configured stage numbers in ascending order.
func (r *Registry) Stages() []int {
	return []int{1, 2, 3}
}
