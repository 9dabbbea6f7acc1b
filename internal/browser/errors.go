package browser

import (
	"context"

	"github.com/cockroachdb/errors"
)

var (
	// ErrSession matches every *SessionError.
	ErrSession = errors.New("browser session failed")
	// ErrTimeout marks a page step that did not finish within its wait.
	ErrTimeout = errors.New("browser step timed out")
)

// SessionError reports that the browser could not be launched or died mid-session.
// It is fatal for the call and never retried.
type SessionError struct {
	Op  string
	Err error
}

func (e *SessionError) Error() string {
	if e.Err == nil {
		return "browser " + e.Op
	}
	return "browser " + e.Op + ": " + e.Err.Error()
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

func (e *SessionError) Is(target error) bool {
	return target == ErrSession
}

func stepError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Mark(errors.Wrapf(err, "%s", op), ErrTimeout)
	}
	return errors.Wrapf(err, "%s", op)
}
