package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/dmitrijs2005/recipebook/internal/client/models"
)

// APIError is a non-2xx answer from the server. Message is the server's
// envelope message when it sent one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// MapError folds err into the closed NetworkError set.
func MapError(err error) models.NetworkError {
	var ne models.NetworkError
	if errors.As(err, &ne) {
		return ne
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden:
			return models.NetworkUnauthorized
		case apiErr.Status >= 500:
			return models.NetworkServerError
		default:
			return models.NetworkUnknown
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return models.NetworkNoConnectivity
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return models.NetworkNoConnectivity
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return models.NetworkNoConnectivity
	}

	return models.NetworkUnknown
}

// ErrorMessage is the text shown for a failed call: the server's own
// message for rejected requests (empty title, id conflict, not owner),
// otherwise the NetworkError message.
func ErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest && apiErr.Message != "" {
		return apiErr.Message
	}
	return MapError(err).Message()
}
