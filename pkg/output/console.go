package output

import (
	"fmt"
	"io"

	"github.com/arthur-debert/xavr/pkg/errors"
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

// Console prints the progress of a setup run as each phase executes
type Console struct {
	w      io.Writer
	styled bool
}

// NewConsole creates a console writing to w. FormatAuto styles the output
// only when w is a color terminal.
func NewConsole(w io.Writer, format Format) *Console {
	return &Console{w: w, styled: Resolve(format, w) == FormatTerminal}
}

// Discard returns a console that prints nothing
func Discard() *Console {
	return &Console{w: io.Discard}
}

// Phase announces the start of a phase
func (c *Console) Phase(format string, args ...interface{}) {
	c.println("")
	c.println(c.paint(TitleStyle, fmt.Sprintf(format, args...)))
}

// Printf prints an unstyled line
func (c *Console) Printf(format string, args ...interface{}) {
	c.println(fmt.Sprintf(format, args...))
}

// ToolFound reports a tool located at path
func (c *Console) ToolFound(name, path string) {
	c.println(fmt.Sprintf("%s %-11s install in %s",
		c.sprint(FoundStyle, "Found"), name, c.paint(PathStyle, fmt.Sprintf("%q", path))))
}

// ToolMissing reports a tool missing from source
func (c *Console) ToolMissing(name, source string) {
	where := "(or is not in the PATH)"
	if source != "" && source != "PATH" {
		where = fmt.Sprintf("in %q", source)
	}
	c.println(fmt.Sprintf("%-11s %s %s.", name, c.sprint(MissingStyle, "is not installed"), where))
}

// Warn prints a warning
func (c *Console) Warn(format string, args ...interface{}) {
	c.println(c.paint(WarningStyle, "Warning:") + " " + fmt.Sprintf(format, args...))
}

// Drift reports a probe whose expected header was missing from the tool output
func (c *Console) Drift(probe, header string) {
	c.println(fmt.Sprintf("%s %s: expected %q in the tool output, possible format drift",
		c.sprint(DriftStyle, "Warning:"), probe, header))
}

// Success prints a completion message
func (c *Console) Success(format string, args ...interface{}) {
	c.println(c.paint(SuccessStyle, fmt.Sprintf(format, args...)))
}

// Error prints err followed by a hint when its code has one. Coded errors
// already carry their code in the message.
func (c *Console) Error(err error) {
	if err == nil {
		return
	}
	c.println(c.paint(ErrorStyle, "Error:") + " " + err.Error())
	if hint := errors.Hint(err); hint != "" {
		c.println(c.paint(MutedStyle, "Hint: "+hint))
	}
}

// Summary prints the counts of the generated template
func (c *Console) Summary(mcus, programmers int) {
	c.println(fmt.Sprintf("Generated template: MCUs %d, Programmers %d", mcus, programmers))
}

func (c *Console) paint(style lipgloss.Style, s string) string {
	if !c.styled {
		return s
	}
	return style.Render(s)
}

func (c *Console) sprint(style *pterm.Style, s string) string {
	if !c.styled {
		return s
	}
	return style.Sprint(s)
}

func (c *Console) println(s string) {
	_, _ = fmt.Fprintln(c.w, s)
}
