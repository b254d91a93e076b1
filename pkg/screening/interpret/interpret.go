package interpret

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// The binary category cut and the tier bands are independent scales: a 0.55
// probability is "High Risk" by category and "moderate" by tier. Both are
// preserved exactly as the deployed models were evaluated against.
const highRiskThreshold = 0.50

const (
	CategoryHigh = "High Risk"
	CategoryLow  = "Low Risk"
)

// Band is one tier of user-facing messaging. Below is the exclusive upper
// probability bound; bands are evaluated in order and the last band catches
// everything remaining.
type Band struct {
	Tier    string  `yaml:"tier" json:"tier"`
	Below   float64 `yaml:"below" json:"below"`
	Message string  `yaml:"message" json:"message"`
}

type bandsConfig struct {
	Bands []Band `yaml:"bands" json:"bands"`
}

// Assessment is the human-facing reading of a risk probability.
type Assessment struct {
	Category string
	Tier     string
	Message  string
}

// Interpreter maps probabilities onto the fixed category and the configured
// tier bands. Immutable after construction.
type Interpreter struct {
	bands []Band
}

// Default returns the interpreter with the standard tier bands and the exact
// guidance copy reviewed for the screening product.
func Default() *Interpreter {
	return &Interpreter{bands: defaultBands()}
}

func defaultBands() []Band {
	return []Band{
		{
			Tier:  "low",
			Below: 0.30,
			Message: "Your screening profile suggests a low risk of Alzheimer's at this time. " +
				"Keep nurturing your brain health—stay active, sleep well, and stay connected.",
		},
		{
			Tier:  "moderate",
			Below: 0.60,
			Message: "Your screening profile suggests a moderate risk. " +
				"We'd recommend sharing these results with your healthcare provider " +
				"for a fuller conversation. Early awareness is a powerful tool.",
		},
		{
			Tier:  "high",
			Below: 1.01,
			Message: "Your screening profile suggests elevated risk. This is not a diagnosis—" +
				"it's an invitation to speak with your doctor. Early consultation can open " +
				"the door to monitoring and care options that make a real difference.",
		},
	}
}

// Load reads tier bands from a YAML file; an empty path yields the defaults.
func Load(path string) (*Interpreter, error) {
	if path == "" {
		return Default(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading tier rules: %w", err)
	}

	var cfg bandsConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing tier rules: %w", err)
	}
	return New(cfg.Bands)
}

// New validates explicit bands: ascending bounds, every tier named and
// carrying a message, and a final band covering probability 1.0.
func New(bands []Band) (*Interpreter, error) {
	if len(bands) == 0 {
		return nil, errors.New("no tier bands configured")
	}
	prev := 0.0
	for i, band := range bands {
		if band.Tier == "" || band.Message == "" {
			return nil, fmt.Errorf("tier band %d missing tier or message", i)
		}
		if band.Below <= prev {
			return nil, fmt.Errorf("tier band %d bound %.2f not ascending", i, band.Below)
		}
		prev = band.Below
	}
	if prev <= 1.0 {
		return nil, errors.New("final tier band must cover probability 1.0")
	}
	return &Interpreter{bands: append([]Band(nil), bands...)}, nil
}

// Interpret maps a probability to its binary category and messaging tier.
func (i *Interpreter) Interpret(probability float64) Assessment {
	category := CategoryLow
	if probability >= highRiskThreshold {
		category = CategoryHigh
	}

	band := i.bands[len(i.bands)-1]
	for _, b := range i.bands {
		if probability < b.Below {
			band = b
			break
		}
	}

	return Assessment{
		Category: category,
		Tier:     band.Tier,
		Message:  band.Message,
	}
}

// Bands exposes the configured tiers for the schema/metadata endpoint.
func (i *Interpreter) Bands() []Band {
	return append([]Band(nil), i.bands...)
}
