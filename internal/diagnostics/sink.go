package diagnostics

import "sync"

// Sink collects diagnostics for one compilation session. Append is safe for
// concurrent use; each diagnostic is already fully built when it arrives, so
// no ordering guarantee is needed beyond "all emitted eventually".
type Sink struct {
	mu    sync.Mutex
	diags []Diagnostic
}

func NewSink() *Sink {
	return &Sink{}
}

// Emit renders a payload into a diagnostic and appends it. Fire-and-forget:
// emission never fails.
func (s *Sink) Emit(p Payload) {
	s.Append(p.Build())
}

// Append adds an already built diagnostic.
func (s *Sink) Append(d Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diags = append(s.diags, d)
}

// AppendAll adds a batch of diagnostics under a single lock, preserving
// their relative order. Used by the parallel dispatcher when merging one
// record's fully built output.
func (s *Sink) AppendAll(ds []Diagnostic) {
	if len(ds) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diags = append(s.diags, ds...)
}

// Diagnostics returns a snapshot copy.
func (s *Sink) Diagnostics() []Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Diagnostic, len(s.diags))
	copy(out, s.diags)
	return out
}

// HasErrors reports whether anything was emitted.
func (s *Sink) HasErrors() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.diags) > 0
}

// Len returns the number of collected diagnostics.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.diags)
}
