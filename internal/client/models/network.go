package models

import "fmt"

// NetworkError is the closed set of failures the UI knows how to show.
type NetworkError int

const (
	NetworkUnknown NetworkError = iota
	NetworkUnauthorized
	NetworkServerError
	NetworkNoConnectivity
)

func (e NetworkError) Error() string {
	return e.Message()
}

// Message is the user-facing text for e.
func (e NetworkError) Message() string {
	switch e {
	case NetworkUnauthorized:
		return "Wrong email or password, or the session has expired"
	case NetworkServerError:
		return "The server failed to process the request"
	case NetworkNoConnectivity:
		return "No connection to the server"
	case NetworkUnknown:
		return "Something went wrong"
	}
	panic(fmt.Sprintf("unhandled network error %d", int(e)))
}
