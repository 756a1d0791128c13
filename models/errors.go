package models

import "errors"

// ErrPermissionDenied marks an access to a resource the caller does not own.
var ErrPermissionDenied = errors.New("permission denied")

// ValidationError reports a rejected request parameter. Handlers translate
// it into an invalid-parameters response keyed by Param.
type ValidationError struct {
	Param   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Param + ": " + e.Message
}

func NewValidationError(param, message string) error {
	return &ValidationError{Param: param, Message: message}
}

// AsValidationError unwraps err as a ValidationError when it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
