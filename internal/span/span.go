package span

import "fmt"

// Span identifies a source region for diagnostics. Line and Column are
// 1-based; Lexeme is the source text covered (may be empty when the span
// was synthesized by an earlier phase).
type Span struct {
	File   string
	Line   int
	Column int
	Lexeme string
}

func (s Span) String() string {
	if s.File == "" {
		return fmt.Sprintf("%d:%d", s.Line, s.Column)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// IsZero reports whether the span carries no position information.
func (s Span) IsZero() bool {
	return s.File == "" && s.Line == 0 && s.Column == 0
}

// New builds a span at the given position.
func New(file string, line, column int, lexeme string) Span {
	return Span{File: file, Line: line, Column: column, Lexeme: lexeme}
}
