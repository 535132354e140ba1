package send

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"syscall"

	"github.com/static-hub/static-hub/internal/resolvepath"
)

// Kind classifies a failed send for the caller that renders the response.
type Kind string

const (
	KindInvalidInput  Kind = "invalid_input"
	KindTraversal     Kind = "traversal"
	KindNotFound      Kind = "not_found"
	KindInternal      Kind = "internal"
	KindConfiguration Kind = "configuration"
)

// Error is returned by Send for every failure. Status is the HTTP status
// the caller should answer with.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode maps err to an HTTP status, 500 for anything that is not an *Error.
func StatusCode(err error) int {
	var sendErr *Error
	if errors.As(err, &sendErr) {
		return sendErr.Status
	}
	return http.StatusInternalServerError
}

// KindOf returns the Kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var sendErr *Error
	if errors.As(err, &sendErr) {
		return sendErr.Kind
	}
	return KindInternal
}

func invalidInput(msg string, err error) *Error {
	return &Error{Kind: KindInvalidInput, Status: http.StatusBadRequest, Message: msg, Err: err}
}

func configError(msg string) *Error {
	return &Error{Kind: KindConfiguration, Status: http.StatusInternalServerError, Message: msg}
}

// fromResolve converts resolvepath failures into send errors.
func fromResolve(err error) error {
	switch {
	case errors.Is(err, resolvepath.ErrMaliciousPath):
		return invalidInput("malicious path", err)
	case errors.Is(err, resolvepath.ErrForbidden):
		return &Error{Kind: KindTraversal, Status: http.StatusForbidden, Message: "forbidden", Err: err}
	default:
		return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: "resolve root", Err: err}
	}
}

// fromStat maps a stat/open failure: missing targets become 404, the rest 500.
func fromStat(err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENAMETOOLONG) || errors.Is(err, syscall.ENOTDIR) {
		return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: "not found", Err: err}
	}
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: "stat failed", Err: err}
}
