package users

import "errors"

// Login validation failures. Their text is shown to API callers as is.
var (
	ErrMissingCredentials = errors.New("Missing credentials")
	ErrUserNotFound       = errors.New("User not found")
	ErrBadCredentials     = errors.New("Bad credentials")
)
