package infer

import (
	"github.com/rill-lang/rill/internal/span"
	"github.com/rill-lang/rill/internal/types"
)

// RegionConstraint records that Sup must outlive Sub, with the span that
// demanded it.
type RegionConstraint struct {
	Sup  types.Region
	Sub  types.Region
	Span span.Span
}

// Scope is a short-lived unification arena. One scope is created
// immediately before a single field's obligation check and discarded
// immediately after; scopes are never shared across fields, so obligations
// from one field cannot leak into another's report.
type Scope struct {
	regionConstraints []RegionConstraint
	closed            bool
}

// NewScope opens a fresh, exclusively owned scope.
func NewScope() *Scope {
	return &Scope{}
}

// Close tears the scope down. Always deferred at acquisition so the scope
// is released on every exit path, including early rejection.
func (s *Scope) Close() {
	s.closed = true
	s.regionConstraints = nil
}

// RecordOutlives accumulates a region-outlives constraint for later
// resolution.
func (s *Scope) RecordOutlives(sup, sub types.Region, sp span.Span) {
	if s.closed {
		return
	}
	s.regionConstraints = append(s.regionConstraints, RegionConstraint{Sup: sup, Sub: sub, Span: sp})
}

// RegionConstraints returns the constraints accumulated so far, in
// recording order.
func (s *Scope) RegionConstraints() []RegionConstraint {
	return s.regionConstraints
}
