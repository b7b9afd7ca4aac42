// Package notify turns operation results into user-visible notices. Every
// failure caught at a component boundary ends up here; none are fatal.
package notify

import (
	"fmt"
	"time"

	"github.com/agentstation/mapnotes/pkg/errors"
)

// Notice is one user-visible notification.
type Notice struct {
	Level     Level
	Message   string
	Err       error
	Timestamp time.Time
}

// New creates a notice with the given level and message.
func New(level Level, message string) Notice {
	return Notice{Level: level, Message: message, Timestamp: time.Now()}
}

// Success creates a success notice.
func Success(format string, args ...any) Notice {
	return New(LevelSuccess, fmt.Sprintf(format, args...))
}

// Info creates an info notice.
func Info(format string, args ...any) Notice {
	return New(LevelInfo, fmt.Sprintf(format, args...))
}

// FromError classifies err into a notice about operation.
func FromError(operation string, err error) Notice {
	var n Notice
	switch {
	case errors.IsEmptyUpdatePayload(err):
		n = New(LevelWarning, "Add text or an image before submitting")
	case errors.IsCanceled(err):
		n = New(LevelInfo, fmt.Sprintf("%s canceled", operation))
	case errors.IsTimeout(err):
		n = New(LevelError, fmt.Sprintf("%s timed out, try again", operation))
	case errors.IsValidationFailure(err):
		n = New(LevelError, fmt.Sprintf("%s rejected: %s", operation, serverMessage(err)))
	case errors.IsNetworkFailure(err):
		n = New(LevelError, fmt.Sprintf("%s failed: server unreachable or unavailable", operation))
	default:
		n = New(LevelError, fmt.Sprintf("%s failed", operation))
	}
	n.Err = err
	return n
}

// serverMessage returns the backend's own explanation when there is one.
func serverMessage(err error) string {
	var v *errors.ValidationError
	if errors.As(err, &v) && v.Message != "" {
		return v.Message
	}
	return err.Error()
}

// String renders the notice on one line.
func (n Notice) String() string {
	return fmt.Sprintf("%s %s", n.Level.Icon(), n.Message)
}

// Expired reports whether the notice has been shown for at least d.
func (n Notice) Expired(now time.Time, d time.Duration) bool {
	return now.Sub(n.Timestamp) >= d
}
