package domain

import "errors"

// repository specific errors
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate record")
)

// ValidationError signals a missing or malformed request input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError signals a username or email that is already taken.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// AuthError signals bad credentials, an unverified account, or a
// rejected federated token.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// InputError signals a missing or unknown verification id.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

// UserMessage returns the user-facing message for any of the typed
// errors above. The second return is false for unexpected errors,
// which must not leak their text to clients.
func UserMessage(err error) (string, bool) {
	var validation *ValidationError
	if errors.As(err, &validation) {
		return validation.Message, true
	}
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict.Message, true
	}
	var auth *AuthError
	if errors.As(err, &auth) {
		return auth.Message, true
	}
	var input *InputError
	if errors.As(err, &input) {
		return input.Message, true
	}
	return "", false
}
