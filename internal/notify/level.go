package notify

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Level represents the severity of a notice.
type Level int

const (
	// LevelError indicates a failed operation.
	LevelError Level = iota
	// LevelWarning indicates something the user should fix before retrying.
	LevelWarning
	// LevelInfo indicates general informational messages.
	LevelInfo
	// LevelSuccess indicates successful completion of an operation.
	LevelSuccess
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}

// Icon returns the symbol shown before a notice.
func (l Level) Icon() string {
	switch l {
	case LevelError:
		return "✗"
	case LevelWarning:
		return "!"
	case LevelInfo:
		return "i"
	case LevelSuccess:
		return "✓"
	default:
		return "?"
	}
}

// Color returns the terminal color for the level.
func (l Level) Color() lipgloss.Color {
	switch l {
	case LevelError:
		return lipgloss.Color("1")
	case LevelWarning:
		return lipgloss.Color("3")
	case LevelInfo:
		return lipgloss.Color("6")
	case LevelSuccess:
		return lipgloss.Color("2")
	default:
		return lipgloss.Color("7")
	}
}

// Style returns a lipgloss style in the level's color.
func (l Level) Style() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(l.Color())
}
