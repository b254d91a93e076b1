package features

import (
	"errors"
	"fmt"
)

var (
	errMissingField  = errors.New("missing required field")
	errInvalidGender = errors.New("PTGENDER must be 'Male' or 'Female'")
	errNotNumeric    = errors.New("value is not numeric")
)

// ValidationError marks client-fault input problems: absent baseline fields,
// an unencodable PTGENDER, or a non-numeric required value. It is detected
// before any feature vector is built and is never retried.
type ValidationError struct {
	reason error
}

func (e ValidationError) Error() string {
	return e.reason.Error()
}

func (e ValidationError) Unwrap() error {
	return e.reason
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

func validationf(format string, args ...interface{}) error {
	return ValidationError{reason: fmt.Errorf(format, args...)}
}
