package diagnostics

import (
	"fmt"
	"strings"

	"github.com/rill-lang/rill/internal/span"
)

// Label attaches a message to a secondary span inside a diagnostic.
type Label struct {
	Span    span.Span
	Message string
}

// Note is an auxiliary message with zero or more associated spans.
type Note struct {
	Spans   []span.Span
	Message string
}

// Suggestion proposes a mechanical fix: adding a capability bound to a
// generic parameter of the offending implementation.
type Suggestion struct {
	Param string
	Bound string
}

func (s Suggestion) String() string {
	return fmt.Sprintf("consider restricting type parameter `%s` with `%s: %s`", s.Param, s.Param, s.Bound)
}

// Diagnostic is a fully built error report. It is assembled to completion
// by a validator and only then handed to the sink, so concurrent emitters
// never interleave partial messages.
type Diagnostic struct {
	Code        ErrorCode
	Span        span.Span
	Message     string
	Labels      []Label
	Notes       []Note
	Suggestions []Suggestion
}

// Error renders the diagnostic as a single string, used both by the plain
// renderer and by tests. Output is deterministic: labels, notes and
// suggestions appear in the order they were attached.
func (d Diagnostic) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "error[%s]: %s", d.Code, d.Message)
	if !d.Span.IsZero() {
		fmt.Fprintf(&b, "\n  --> %s", d.Span)
	}
	for _, l := range d.Labels {
		fmt.Fprintf(&b, "\n  --> %s: %s", l.Span, l.Message)
	}
	for _, n := range d.Notes {
		fmt.Fprintf(&b, "\n  note: %s", n.Message)
		for _, sp := range n.Spans {
			fmt.Fprintf(&b, "\n    --> %s", sp)
		}
	}
	for _, s := range d.Suggestions {
		fmt.Fprintf(&b, "\n  help: %s", s)
	}
	return b.String()
}

// NewError builds a simple diagnostic with no labels or notes.
func NewError(code ErrorCode, sp span.Span, msg string) Diagnostic {
	return Diagnostic{Code: code, Span: sp, Message: msg}
}
