package infer

import (
	"fmt"

	"github.com/rill-lang/rill/internal/span"
	"github.com/rill-lang/rill/internal/types"
)

// ObligationSet is the residue of a successful equality check: predicates
// that must still be discharged for the equality to actually hold. Region
// constraints are not part of the set; they accumulate in the scope and are
// resolved at the end of the enclosing check.
type ObligationSet []Predicate

// MismatchError reports that two types cannot be proven equal.
type MismatchError struct {
	A      types.Type
	B      types.Type
	Reason string
}

func (e *MismatchError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("cannot equate %s with %s", e.A, e.B)
	}
	return fmt.Sprintf("%s: %s vs %s", e.Reason, e.A, e.B)
}

// TypeEqual decides equality of two fully substituted types inside the
// given scope. Equality is invariant: no subtyping, no variance. Differing
// regions never fail structurally; they are recorded as mutual outlives
// constraints on the scope. The poison type equals everything.
func TypeEqual(scope *Scope, a, b types.Type, sp span.Span) (ObligationSet, error) {
	if types.IsError(a) || types.IsError(b) {
		return nil, nil
	}

	switch ta := a.(type) {
	case types.TPrim:
		if tb, ok := b.(types.TPrim); ok && ta.Name == tb.Name {
			return nil, nil
		}
		return nil, errEq(a, b, "")
	case types.TParam:
		// Parameters are rigid: a parameter only equals itself.
		if tb, ok := b.(types.TParam); ok && ta.Name == tb.Name {
			return nil, nil
		}
		return nil, errEq(a, b, "")
	case types.TAdt:
		tb, ok := b.(types.TAdt)
		if !ok || tb.Def != ta.Def {
			return nil, errEq(a, b, "distinct definitions")
		}
		if len(ta.Args) != len(tb.Args) {
			return nil, errEq(a, b, "argument count mismatch")
		}
		var set ObligationSet
		for i := range ta.Args {
			sub, err := TypeEqual(scope, ta.Args[i], tb.Args[i], sp)
			if err != nil {
				return nil, err
			}
			set = append(set, sub...)
		}
		for i := range ta.Regions {
			if i < len(tb.Regions) {
				regionEqual(scope, ta.Regions[i], tb.Regions[i], sp)
			}
		}
		return set, nil
	case types.TRef:
		tb, ok := b.(types.TRef)
		if !ok {
			return nil, errEq(a, b, "")
		}
		if ta.Mut != tb.Mut {
			return nil, errEq(a, b, "types differ in mutability")
		}
		regionEqual(scope, ta.Region, tb.Region, sp)
		return TypeEqual(scope, ta.Elem, tb.Elem, sp)
	case types.TRawPtr:
		tb, ok := b.(types.TRawPtr)
		if !ok {
			return nil, errEq(a, b, "")
		}
		if ta.Mut != tb.Mut {
			return nil, errEq(a, b, "types differ in mutability")
		}
		return TypeEqual(scope, ta.Elem, tb.Elem, sp)
	case types.TArray:
		tb, ok := b.(types.TArray)
		if !ok {
			return nil, errEq(a, b, "")
		}
		if ta.Len != tb.Len {
			return nil, errEq(a, b, "array length mismatch")
		}
		return TypeEqual(scope, ta.Elem, tb.Elem, sp)
	case types.TSlice:
		tb, ok := b.(types.TSlice)
		if !ok {
			return nil, errEq(a, b, "")
		}
		return TypeEqual(scope, ta.Elem, tb.Elem, sp)
	case types.TTuple:
		tb, ok := b.(types.TTuple)
		if !ok || len(ta.Elems) != len(tb.Elems) {
			return nil, errEq(a, b, "")
		}
		var set ObligationSet
		for i := range ta.Elems {
			sub, err := TypeEqual(scope, ta.Elems[i], tb.Elems[i], sp)
			if err != nil {
				return nil, err
			}
			set = append(set, sub...)
		}
		return set, nil
	}
	return nil, errEq(a, b, "")
}

// regionEqual equates two regions by requiring each to outlive the other.
// Erased regions impose nothing.
func regionEqual(scope *Scope, a, b types.Region, sp span.Span) {
	if a.Name == b.Name || a.IsErased() || b.IsErased() {
		return
	}
	scope.RecordOutlives(a, b, sp)
	scope.RecordOutlives(b, a, sp)
}

func errEq(a, b types.Type, reason string) error {
	return &MismatchError{A: a, B: b, Reason: reason}
}
