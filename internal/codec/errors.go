package codec

import (
	"errors"
	"fmt"
)

// ErrFormat indicates a malformed import file.
var ErrFormat = errors.New("format error")

// FormatError describes where an import file is malformed. Line is 0 when
// the problem is not tied to a line (JSON input, missing header).
type FormatError struct {
	Line  int
	Field string
	Msg   string
}

func (e *FormatError) Error() string {
	switch {
	case e.Line > 0 && e.Field != "":
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Field, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	case e.Field != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	return e.Msg
}

func (e *FormatError) Unwrap() error {
	return ErrFormat
}

func formatErr(line int, field, format string, args ...any) *FormatError {
	return &FormatError{Line: line, Field: field, Msg: fmt.Sprintf(format, args...)}
}
