package settings

import "errors"

var (
	// ErrInvalidEnvironment is returned when an environment variable cannot be decoded into its setting type.
	ErrInvalidEnvironment = errors.New("invalid environment")
	// ErrSecret is returned when a secret file exists but cannot be resolved.
	ErrSecret = errors.New("secret resolution failed")
)
