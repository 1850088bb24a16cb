package clientcli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/memecat/memecat"
)

var (
	// ErrConfigRequired is returned when a nil config is passed to New.
	ErrConfigRequired = errors.New("config is required")
	// ErrEndpointRequired is returned when the config has no endpoint. Run
	// the configure command first.
	ErrEndpointRequired = errors.New("endpoint is not configured")
)

// parseServerError converts a non-success response into an error. The
// server's error body is included when it can be decoded.
func parseServerError(status int, body []byte) error {
	var base error
	switch status {
	case http.StatusNotFound:
		base = memecat.ErrNotFound
	case http.StatusUnprocessableEntity:
		base = memecat.ErrUnprocessable
	case http.StatusBadRequest:
		base = memecat.ErrInvalidInput
	case http.StatusServiceUnavailable:
		base = memecat.ErrStorageUnavailable
	default:
		base = fmt.Errorf("unexpected status %d", status)
	}

	var serverErr struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &serverErr); err == nil && serverErr.Message != "" {
		return fmt.Errorf("%w: %s", base, serverErr.Message)
	}

	return base
}
