package gherkin

import "fmt"

type ErrorKind int

const (
	ErrSyntax ErrorKind = iota
	ErrNoFeature
	ErrMultipleFeatures
	ErrMultipleBackgrounds
	ErrLateBackground
	ErrBackgroundSteps
	ErrEmptyBackground
	ErrUnterminatedDocString
	ErrTableShape
	ErrEmptyTable
	ErrOutlineTokens
	ErrExampleData
)

func (k ErrorKind) String() string {
	switch k {
	case ErrSyntax:
		return "syntax"
	case ErrNoFeature:
		return "no feature"
	case ErrMultipleFeatures:
		return "multiple features"
	case ErrMultipleBackgrounds:
		return "multiple backgrounds"
	case ErrLateBackground:
		return "late background"
	case ErrBackgroundSteps:
		return "background steps"
	case ErrEmptyBackground:
		return "empty background"
	case ErrUnterminatedDocString:
		return "unterminated doc string"
	case ErrTableShape:
		return "table shape"
	case ErrEmptyTable:
		return "empty table"
	case ErrOutlineTokens:
		return "outline tokens"
	case ErrExampleData:
		return "example data"
	}
	return "unknown"
}

// ParseError is the first error met while parsing a document. Line is the
// 1-based source line, or 0 when the error concerns the end of input.
type ParseError struct {
	File    string
	Line    int
	Kind    ErrorKind
	Message string
}

func (e *ParseError) Error() string {
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	case e.File != "":
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Is reports whether target is a *ParseError of the same Kind, so callers
// can write errors.Is(err, &gherkin.ParseError{Kind: gherkin.ErrTableShape}).
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Kind == e.Kind
}

// DecodeError reports input that is not valid UTF-8.
type DecodeError struct {
	File   string
	Offset int
}

func (e *DecodeError) Error() string {
	name := e.File
	if name == "" {
		name = "input"
	}
	return fmt.Sprintf("%s: invalid UTF-8 at byte %d", name, e.Offset)
}

// FormatError is returned by the DataTable formatters.
type FormatError struct {
	Formatter string
	Reason    string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("can't format DataTable with %s formatter because %s", e.Formatter, e.Reason)
}
