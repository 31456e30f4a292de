package upload

import "errors"

// ValidationError marks a rejected upload. The message is safe to show to
// the uploader verbatim.
type ValidationError struct {
	reason error
}

func NewValidationError(message string) ValidationError {
	return ValidationError{reason: errors.New(message)}
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
