package secrets

import "errors"

var (
	// ErrInvalidName is returned when a secret name is empty or is not a single path element.
	ErrInvalidName = errors.New("secret name must be a single non-empty path element")
	// ErrMalformed is returned when a secret file does not contain valid UTF-8 text.
	ErrMalformed = errors.New("secret file is not valid UTF-8 text")
)
