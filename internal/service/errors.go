package service

import "errors"

// Sentinel errors returned by the service layer. Handlers map these to
// HTTP status codes with errors.Is; anything unwrapped is a 500.
var (
	// ErrNotFound covers missing or foreign-owned resources. Ownership
	// failures are reported as not-found on purpose, so the API does not
	// reveal whether a given ID exists for another user.
	ErrNotFound = errors.New("not found")

	// ErrConflict covers duplicate usernames and emails at registration
	// or profile update.
	ErrConflict = errors.New("already exists")

	// ErrValidation covers malformed input that survived JSON decoding.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials covers both unknown email and wrong password;
	// the two cases are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
