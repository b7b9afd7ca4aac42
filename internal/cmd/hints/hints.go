// Package hints provides actionable follow-up guidance after a failed CLI
// operation.
package hints

import (
	"fmt"
	"io"
	"strings"

	"github.com/agentstation/mapnotes/internal/cmd/output"
	"github.com/agentstation/mapnotes/pkg/errors"
)

// Hint represents actionable user guidance.
type Hint struct {
	Message string `json:"message" yaml:"message"`
	Command string `json:"command,omitempty" yaml:"command,omitempty"`
}

// New creates a new hint with the given message.
func New(message string) Hint {
	return Hint{Message: message}
}

// WithCommand adds a command to the hint.
func (h Hint) WithCommand(command string) Hint {
	h.Command = command
	return h
}

// String returns a string representation of the hint.
func (h Hint) String() string {
	if h.Command == "" {
		return "hint: " + h.Message
	}
	return fmt.Sprintf("hint: %s\n      run: %s", h.Message, h.Command)
}

// Context is what a hint may refer to.
type Context struct {
	ServerURL string
	Operation string
}

// ForError returns the hints that apply to err, most useful first.
func ForError(ctx Context, err error) []Hint {
	var out []Hint
	switch {
	case errors.IsEmptyUpdatePayload(err):
		out = append(out, New("an update needs --text, --image or both"))
	case errors.IsCanceled(err):
		return nil
	case errors.IsTimeout(err):
		out = append(out,
			New("the backend did not answer in time").WithCommand("mapnotes --timeout 1m "+strings.ToLower(ctx.Operation)))
	case errors.IsNotFound(err):
		out = append(out, New("no marker has that id").WithCommand("mapnotes list"))
	case errors.IsNetworkFailure(err):
		out = append(out,
			New(fmt.Sprintf("check that the backend is running at %s", ctx.ServerURL)),
			New("point mapnotes at another backend").WithCommand("mapnotes --server http://host:5000 list"))
	}
	return out
}

// Write prints hints for a table-format session. Structured formats get no
// hints so their output stays parseable.
func Write(w io.Writer, format output.Format, hints []Hint) error {
	if !format.IsTable() {
		return nil
	}
	for _, h := range hints {
		if _, err := fmt.Fprintln(w, h.String()); err != nil {
			return err
		}
	}
	return nil
}
