package features

import (
	"github.com/mirai-health/screening/pkg/common/models"
)

// present reports whether an attribute exists with a non-null value.
func present(attrs models.PatientAttributes, name string) bool {
	v, ok := attrs[name]
	return ok && v != nil
}

// SelectStage picks the most specific applicable screening stage from which
// optional attributes are present. It is a pure function of key presence,
// never of values: any plasma lab value escalates to stage 3 regardless of
// APOE4; APOE4 alone escalates to stage 2; otherwise demographics-only
// stage 1 applies.
func SelectStage(attrs models.PatientAttributes) int {
	for _, name := range models.PlasmaAttributes {
		if present(attrs, name) {
			return 3
		}
	}
	if present(attrs, models.AttrAPOE4) {
		return 2
	}
	return 1
}

// ValidateBaseline checks the three fields every stage requires. It runs
// before stage selection so a bad request is rejected before any feature
// vector work happens.
func ValidateBaseline(attrs models.PatientAttributes) error {
	for _, name := range models.BaselineAttributes {
		if !present(attrs, name) {
			return validationf("missing required field: %s", name)
		}
	}
	if _, err := encodeGender(attrs[models.AttrGender]); err != nil {
		return err
	}
	return nil
}

// Normalize validates the baseline fields and returns the patient record the
// builder consumes: recognized attributes only, with AGE, PTEDUCAT and (when
// supplied) APOE4 coerced to float64. Unknown keys are dropped, plasma values
// are carried raw so the stage-3 coercion rules see the original input, and
// the source map is never mutated.
func Normalize(attrs models.PatientAttributes) (models.PatientAttributes, error) {
	if err := ValidateBaseline(attrs); err != nil {
		return nil, err
	}

	patient := models.PatientAttributes{}
	for _, name := range []string{models.AttrAge, models.AttrEducat} {
		value, err := toFloat(attrs[name])
		if err != nil {
			return nil, validationf("field %s must be numeric: %w", name, err)
		}
		patient[name] = value
	}
	patient[models.AttrGender] = attrs[models.AttrGender]

	stage := SelectStage(attrs)

	if stage >= 2 {
		// APOE4 defaults to zero copies when plasma values arrive without a
		// genotype, matching the upstream intake behavior.
		apoe := 0.0
		if present(attrs, models.AttrAPOE4) {
			value, err := toFloat(attrs[models.AttrAPOE4])
			if err != nil {
				return nil, validationf("field %s must be numeric: %w", models.AttrAPOE4, err)
			}
			apoe = value
		}
		patient[models.AttrAPOE4] = apoe
	}

	if stage == 3 {
		for _, name := range models.PlasmaAttributes {
			if present(attrs, name) {
				patient[name] = attrs[name]
			}
		}
	}

	return patient, nil
}
