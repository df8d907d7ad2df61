package perrors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// FormattedError is a display-ready rendering of a diagnostic, grounded
// on the teacher's errors/format.go FormattedError shape.
type FormattedError struct {
	Code        ErrorCode
	Kind        string
	Message     string
	Filename    string
	Line        int
	Column      int
	EndColumn   int
	SourceLines []SourceLineEntry
	Hint        string
}

// SourceLineEntry is one line of source context shown alongside a
// diagnostic.
type SourceLineEntry struct {
	Number int
	Text   string
	IsMain bool
}

// Formatter renders FormattedError values as Rust-style
// "SyntaxError[E1003]: message" text (the error's Kind, then its code)
// with a source-line-and-caret excerpt.
type Formatter struct {
	UseColor bool
}

// NewFormatter creates a Formatter; useColor enables ANSI styling via
// github.com/fatih/color.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

func (f *Formatter) colorize(c *color.Color, s string) string {
	if !f.UseColor {
		return s
	}
	return c.Sprint(s)
}

// Format renders a single diagnostic.
func (f *Formatter) Format(err *FormattedError) string {
	var b strings.Builder

	header := fmt.Sprintf("%s", err.Kind)
	if err.Code != "" {
		header = fmt.Sprintf("%s[%s]", header, err.Code)
	}
	header = fmt.Sprintf("%s: %s", header, err.Message)
	b.WriteString(f.colorize(color.New(color.FgRed, color.Bold), header))
	b.WriteByte('\n')

	if err.Filename != "" {
		loc := fmt.Sprintf("  --> %s:%d:%d", err.Filename, err.Line, err.Column)
		b.WriteString(f.colorize(color.New(color.FgCyan), loc))
		b.WriteByte('\n')
	}

	width := len(fmt.Sprintf("%d", err.Line))
	if width < 2 {
		width = 2
	}
	for _, line := range err.SourceLines {
		gutter := fmt.Sprintf("%*d | ", width, line.Number)
		b.WriteString(f.colorize(color.New(color.FgHiBlack), gutter))
		b.WriteString(line.Text)
		b.WriteByte('\n')
		if line.IsMain {
			caretLead := strings.Repeat(" ", width) + " | " + strings.Repeat(" ", max0(err.Column-1))
			caretLen := err.EndColumn - err.Column
			if caretLen < 1 {
				caretLen = 1
			}
			caret := caretLead + strings.Repeat("^", caretLen)
			b.WriteString(f.colorize(color.New(color.FgRed, color.Bold), caret))
			b.WriteByte('\n')
		}
	}
	if err.Hint != "" {
		b.WriteString(f.colorize(color.New(color.FgYellow), "help: "+err.Hint))
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatMultiple renders several diagnostics, one after another.
func (f *Formatter) FormatMultiple(errs []*FormattedError) string {
	var b strings.Builder
	for i, e := range errs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(f.Format(e))
	}
	return b.String()
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
