package codec

import (
	"fmt"
	"strings"
)

// DecodeError identifies the line, block and field where decoding failed
type DecodeError struct {
	Line   int    // 1-based line number
	Block  string // metadata or task
	Field  string // positional field name, empty for block-level errors
	Value  string // offending line content, if any
	Detail string
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "line %d: %s block", e.Line, e.Block)
	if e.Field != "" {
		fmt.Fprintf(&b, ", field %s", e.Field)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, ", value %q", e.Value)
	}
	fmt.Fprintf(&b, ": %s", e.Detail)
	return b.String()
}

// Unwrap lets callers match any decode failure with errors.Is(err, ErrMalformed).
func (e *DecodeError) Unwrap() error {
	return ErrMalformed
}
