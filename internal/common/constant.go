// Package common contains shared constants and sentinel errors used across
// recipebook components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token on
// protected requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token inside the Authorization header.
const BearerPrefix = "Bearer "

// UnauthorizedMessage is returned for every authentication failure. The
// concrete cause (expired, malformed, unknown user) is never disclosed.
const UnauthorizedMessage = "Authentication Token is missing!"
