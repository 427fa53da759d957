package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// CallError is a failed remote operation.
type CallError struct {
	Op         string
	Table      string
	StatusCode int
	Retryable  bool
	Err        error
}

func (e *CallError) Error() string {
	msg := e.Op
	if e.Table != "" {
		msg += " " + e.Table
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// NewCallError builds a CallError and derives Retryable from the status code.
func NewCallError(op, table string, status int, err error) *CallError {
	return &CallError{
		Op:         op,
		Table:      table,
		StatusCode: status,
		Retryable:  RetryableStatus(status),
		Err:        err,
	}
}

// RetryableStatus reports whether a status code is worth retrying (429 and 5xx).
func RetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// IsRetryable reports whether err is a retryable CallError.
func IsRetryable(err error) bool {
	var ce *CallError
	return errors.As(err, &ce) && ce.Retryable
}

// IsNotFound reports whether err is a CallError for a missing table or row.
func IsNotFound(err error) bool {
	var ce *CallError
	return errors.As(err, &ce) && ce.StatusCode == http.StatusNotFound
}
