package catalog

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotFound matches any StatusError carrying a 404.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized matches any StatusError carrying a 401. A 403 stays an ordinary
	// status error.
	ErrUnauthorized = errors.New("unauthorized")
)

// StatusError reports a non-2xx response from the catalog API.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e == nil {
		return "api status error"
	}
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("api %s %s returned status %d: %s", e.Method, e.Path, e.StatusCode, msg)
}

// Is lets callers use errors.Is with ErrNotFound and ErrUnauthorized.
func (e *StatusError) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	}
	return false
}
