package notify

import (
	"fmt"
	"io"

	"github.com/mattn/go-isatty"

	"github.com/agentstation/mapnotes/internal/cmd/output"
)

// Writer delivers notices to the user.
type Writer interface {
	Notify(n Notice) error
}

// WriterFunc is an adapter to allow functions to be used as Writers.
type WriterFunc func(Notice) error

// Notify calls the function.
func (f WriterFunc) Notify(n Notice) error {
	return f(n)
}

// Discard is a Writer that drops every notice.
var Discard Writer = WriterFunc(func(Notice) error { return nil })

// FormatWriter writes notices for the CLI, structured when the command
// output is structured.
type FormatWriter struct {
	w        io.Writer
	format   output.Format
	useColor bool
}

// notice is the structured form of a Notice.
type notice struct {
	Level   string `json:"level" yaml:"level"`
	Message string `json:"message" yaml:"message"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewFormatWriter creates a writer for format. Color is used only when w is
// a terminal and noColor is false.
func NewFormatWriter(w io.Writer, format output.Format, noColor bool) *FormatWriter {
	return &FormatWriter{w: w, format: format, useColor: !noColor && isTerminal(w)}
}

// Notify implements Writer.
func (fw *FormatWriter) Notify(n Notice) error {
	if !fw.format.IsTable() {
		data := notice{Level: n.Level.String(), Message: n.Message}
		if n.Err != nil {
			data.Error = n.Err.Error()
		}
		return output.NewFormatter(fw.format).Format(fw.w, data)
	}

	line := n.String()
	if fw.useColor {
		line = n.Level.Style().Render(line)
	}
	_, err := fmt.Fprintln(fw.w, line)
	return err
}

type fder interface {
	Fd() uintptr
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(fder)
	return ok && isatty.IsTerminal(f.Fd())
}
