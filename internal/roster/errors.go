package roster

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSchema        = errors.New("roster schema invalid")
	ErrInvalidRecord = errors.New("roster record invalid")
)

// SchemaError reports required columns absent from the header.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("CSV must contain %s columns, missing %s",
		quoteJoin(RequiredColumns), quoteJoin(e.Missing))
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// RecordError reports a row with empty required fields.
type RecordError struct {
	Line   int
	Fields []string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("line %d: empty %s", e.Line, quoteJoin(e.Fields))
}

func (e *RecordError) Unwrap() error { return ErrInvalidRecord }

func quoteJoin(s []string) string {
	q := make([]string, len(s))
	for i, v := range s {
		q[i] = "'" + v + "'"
	}
	return strings.Join(q, ", ")
}
