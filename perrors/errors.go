// Package perrors implements the diagnostic model from spec.md §4.5 and
// §7: typed syntax errors carrying precise locations, printf-style
// messages, decoded source snippets, and (for SyntaxError) the
// last-statement metadata triple attached by the two-pass engine.
package perrors

import (
	"fmt"

	"github.com/corepeg/pyparser/token"
)

// Kind orders the error taxonomy exactly as spec.md §7's precedence
// table: lower values are raised/observed first when multiple trigger
// conditions are present in the same parse.
type Kind int

const (
	KindMemory Kind = iota
	KindStackOverflow
	KindDecode
	KindTokenizer
	KindSyntaxKnownLocation
	KindSyntaxNextToken
	KindInvalidTarget
	KindIncompleteInput
	KindInvalidEscapeWarning
)

// Span is an inclusive-start, exclusive-end source range.
type Span struct {
	Start token.Position
	End   token.Position
}

// StmtMetadata is the "(last_stmt_lineno, last_stmt_col, decoded_source)"
// triple spec.md §6 says is attached only to SyntaxError instances.
type StmtMetadata struct {
	Line       int
	Column     int
	SourceText string
}

// SyntaxError is the primary diagnostic type: SyntaxError,
// IndentationError, and TabError all share this shape, distinguished by
// Class.
type SyntaxError struct {
	Class      string // "SyntaxError", "IndentationError", "TabError"
	Code       ErrorCode
	Message    string
	Filename   string
	Span       Span
	SourceLine string
	Metadata   *StmtMetadata
	Kind       Kind
}

func (e *SyntaxError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("%s: %s (%s:%d:%d)", e.Class, e.Message, e.Filename, e.Span.Start.Line, e.Span.Start.Column)
	}
	return fmt.Sprintf("%s: %s (%d:%d)", e.Class, e.Message, e.Span.Start.Line, e.Span.Start.Column)
}

// ToFormatted renders e into the display-ready FormattedError shape.
func (e *SyntaxError) ToFormatted() *FormattedError {
	return &FormattedError{
		Code:     e.Code,
		Kind:     e.Class,
		Message:  e.Message,
		Filename: e.Filename,
		Line:     e.Span.Start.Line,
		Column:   e.Span.Start.Column + 1,
		EndColumn: func() int {
			if e.Span.End.Line == e.Span.Start.Line {
				return e.Span.End.Column + 1
			}
			return e.Span.Start.Column + 1
		}(),
		SourceLines: []SourceLineEntry{
			{Number: e.Span.Start.Line, Text: e.SourceLine, IsMain: true},
		},
	}
}

// ValueError mirrors CPython's ValueError surface for number-literal
// range failures (spec.md §7).
type ValueError struct {
	Message string
	Hint    string
}

func (e *ValueError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("ValueError: %s (%s)", e.Message, e.Hint)
	}
	return fmt.Sprintf("ValueError: %s", e.Message)
}

// MemoryError reports an arena allocation failure or a recursion-limit
// overflow (spec.md §7's two highest-precedence rows).
type MemoryError struct {
	Message string
}

func (e *MemoryError) Error() string { return fmt.Sprintf("MemoryError: %s", e.Message) }

// IncompleteInputError is raised when end-of-source is reached mid
// construct and the ALLOW_INCOMPLETE_INPUT flag is set (spec.md §6/§7).
type IncompleteInputError struct {
	*SyntaxError
}

// NewSyntaxError builds a SyntaxError with Class "SyntaxError".
func NewSyntaxError(code ErrorCode, filename string, span Span, sourceLine string, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Class:      "SyntaxError",
		Code:       code,
		Message:    fmt.Sprintf(format, args...),
		Filename:   filename,
		Span:       span,
		SourceLine: sourceLine,
		Kind:       KindSyntaxKnownLocation,
	}
}

// NewIndentationError builds a SyntaxError with Class "IndentationError".
func NewIndentationError(filename string, span Span, sourceLine string, format string, args ...any) *SyntaxError {
	e := NewSyntaxError(ECodeIndentation, filename, span, sourceLine, format, args...)
	e.Class = "IndentationError"
	e.Kind = KindTokenizer
	return e
}

// NewTabError builds a SyntaxError with Class "TabError".
func NewTabError(filename string, span Span, sourceLine string) *SyntaxError {
	e := NewSyntaxError(ECodeTabError, filename, span, sourceLine, "inconsistent use of tabs and spaces in indentation")
	e.Class = "TabError"
	e.Kind = KindTokenizer
	return e
}

// WithMetadata attaches the last-statement metadata triple, as the
// two-pass engine does just before surfacing any SyntaxError (spec.md
// §4.3 step 4).
func (e *SyntaxError) WithMetadata(line, col int, source string) *SyntaxError {
	e.Metadata = &StmtMetadata{Line: line, Column: col, SourceText: source}
	return e
}
