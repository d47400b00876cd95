package petfinder

import (
	"errors"
	"fmt"
)

// ErrExternalService wraps every failure talking to the adoption API.
var ErrExternalService = errors.New("external service failure")

// HTTPError is a non-2xx response from the adoption API.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d body=%s", e.StatusCode, e.Body)
}

// Unwrap lets errors.Is(err, ErrExternalService) match HTTP errors.
func (e *HTTPError) Unwrap() error {
	return ErrExternalService
}

func externalErr(op string, err error) error {
	if errors.Is(err, ErrExternalService) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrExternalService, err)
}
