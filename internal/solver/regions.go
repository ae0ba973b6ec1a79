package solver

import (
	"github.com/rill-lang/rill/internal/infer"
	"github.com/rill-lang/rill/internal/session"
)

// RegionError is a region-outlives constraint that could not be proven.
type RegionError struct {
	Constraint infer.RegionConstraint
}

// ResolveRegionObligations checks every region constraint accumulated on
// the scope against the whole-program region, reflexivity, and the
// outlives bounds declared on the implementation record. Violations are
// returned in recording order.
func ResolveRegionObligations(rec *session.ImplRecord, scope *infer.Scope) []RegionError {
	var errs []RegionError
	for _, c := range scope.RegionConstraints() {
		if regionSatisfied(rec, c) {
			continue
		}
		errs = append(errs, RegionError{Constraint: c})
	}
	return errs
}

func regionSatisfied(rec *session.ImplRecord, c infer.RegionConstraint) bool {
	if c.Sup.IsStatic() || c.Sup.Name == c.Sub.Name {
		return true
	}
	if c.Sup.IsErased() || c.Sub.IsErased() {
		return true
	}
	return rec != nil && rec.RegionOutlives(c.Sup.Name, c.Sub.Name)
}
