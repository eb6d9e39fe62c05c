package apierr

import (
	"errors"
	"fmt"
)

// APIError carries a failed response's status code alongside its normalized
// display message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// FromResponse builds an APIError from a non-2xx response body.
func FromResponse(status int, body []byte) *APIError {
	return &APIError{Status: status, Message: Normalize(status, body)}
}

// DisplayMessage returns the user-facing text for any error: the normalized
// message for APIErrors, or a generic transport-failure line otherwise.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}
	var api *APIError
	if errors.As(err, &api) {
		return api.Message
	}
	return "Request failed: " + err.Error()
}
