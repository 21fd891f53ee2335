package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dooddles07/cyaadnu-frontend/models"
)

// NetworkError means no HTTP response was received.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError is a non-2xx response. Message holds the server's "message"
// field when the body had one.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuthorization
	KindNotFound
	KindConflict
	KindServer
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// KindOf places an error in the client's error taxonomy.
func KindOf(err error) Kind {
	var verr *models.ValidationError
	var serr *StatusError
	var nerr *NetworkError
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &verr):
		return KindValidation
	case errors.As(err, &serr):
		switch {
		case serr.StatusCode == http.StatusUnauthorized || serr.StatusCode == http.StatusForbidden:
			return KindAuthorization
		case serr.StatusCode == http.StatusNotFound:
			return KindNotFound
		case serr.StatusCode == http.StatusConflict:
			return KindConflict
		case serr.StatusCode == http.StatusBadRequest || serr.StatusCode == http.StatusUnprocessableEntity:
			return KindValidation
		default:
			return KindServer
		}
	case errors.As(err, &nerr):
		return KindNetwork
	default:
		return KindUnknown
	}
}

// IsUnauthorized reports a 401 from the server.
func IsUnauthorized(err error) bool {
	var serr *StatusError
	return errors.As(err, &serr) && serr.StatusCode == http.StatusUnauthorized
}

// Message returns the text a user should see for err: the server's message
// verbatim, a validation message, or fallback.
func Message(err error, fallback string) string {
	var verr *models.ValidationError
	var serr *StatusError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.Error()
	case errors.As(err, &serr) && serr.Message != "":
		return serr.Message
	default:
		return fallback
	}
}
