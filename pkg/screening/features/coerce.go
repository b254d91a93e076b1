package features

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// toFloat coerces the loosely typed values a JSON body produces into float64.
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
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", errNotNumeric, value)
	}
}

// encodeGender maps the categorical PTGENDER value to its model encoding.
// The match is exact and case-sensitive: the encoding direction materially
// changes risk output, so there is no safe default.
func encodeGender(value interface{}) (float64, error) {
	switch value {
	case "Male":
		return 0, nil
	case "Female":
		return 1, nil
	default:
		return 0, ValidationError{reason: errInvalidGender}
	}
}
