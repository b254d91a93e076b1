package classifier

import (
	"fmt"
	"path/filepath"

	"github.com/mirai-health/screening/pkg/screening/features"
	"github.com/mirai-health/screening/pkg/screening/schema"
)

// Classifier is the single capability the screening core needs from a model
// artifact: score a fixed-shape feature vector and return the probability of
// the positive ("at risk") class. Implementations must be safe for
// concurrent use after construction.
type Classifier interface {
	Score(vec features.Vector) (float64, error)
}

// Set holds one classifier per stage. It is assembled before the service
// accepts traffic and is read-only afterwards.
type Set struct {
	byStage map[int]Classifier
}

func NewSet(byStage map[int]Classifier) *Set {
	copied := make(map[int]Classifier, len(byStage))
	for stage, cls := range byStage {
		copied[stage] = cls
	}
	return &Set{byStage: copied}
}

// LoadSet reads the three stage artifacts from dir, failing fast when any is
// missing or malformed: the process cannot serve without a full set.
func LoadSet(dir string) (*Set, error) {
	byStage := make(map[int]Classifier, schema.StageMax)
	for stage := schema.StageMin; stage <= schema.StageMax; stage++ {
		path := filepath.Join(dir, fmt.Sprintf("stage%d_model.json", stage))
		model, err := LoadLogistic(path)
		if err != nil {
			return nil, fmt.Errorf("loading stage %d classifier: %w", stage, err)
		}
		byStage[stage] = model
	}
	return NewSet(byStage), nil
}

// Score delegates to the classifier registered for stage. Faults propagate
// unmasked: classifier invocation is deterministic, so a retry would fail
// identically.
func (s *Set) Score(stage int, vec features.Vector) (float64, error) {
	cls, ok := s.byStage[stage]
	if !ok {
		return 0, schema.ErrUnknownStage
	}
	return cls.Score(vec)
}
