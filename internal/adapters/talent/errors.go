package talent

import (
	"errors"
	"fmt"

	"github.com/okian/wrapped/internal/domain/model"
	"github.com/okian/wrapped/pkg/metrics"
)

// Failure kinds. Every error returned by Client matches exactly one of them
// with errors.Is.
var (
	// ErrNotFound means the resource does not exist (404 or zero matches).
	ErrNotFound = model.ErrNotFound
	// ErrUnavailable covers transport failures, timeouts and non-2xx statuses.
	ErrUnavailable = errors.New("upstream unavailable")
	// ErrMisconfigured means an HTML document came back where JSON was
	// expected, which usually points at a bad API key or base URL.
	ErrMisconfigured = errors.New("upstream returned html instead of json")
	// ErrDecode means the JSON payload did not have the expected shape.
	ErrDecode = errors.New("malformed upstream payload")
)

// Error describes one failed profile API call.
type Error struct {
	Op         string
	Kind       error
	StatusCode int
	Reason     string
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("talent %s: %v", e.Op, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Outcome maps an error to its metrics outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrMisconfigured):
		return metrics.OutcomeMisconfigured
	case errors.Is(err, ErrDecode):
		return metrics.OutcomeDecode
	default:
		return metrics.OutcomeUnavailable
	}
}

// StatusCode returns the upstream HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
