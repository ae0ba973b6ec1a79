package coherence

import (
	"fmt"
	"strings"

	"github.com/rill-lang/rill/internal/config"
	"github.com/rill-lang/rill/internal/diagnostics"
	"github.com/rill-lang/rill/internal/infer"
	"github.com/rill-lang/rill/internal/session"
	"github.com/rill-lang/rill/internal/solver"
	"github.com/rill-lang/rill/internal/span"
	"github.com/rill-lang/rill/internal/types"
)

// diffField is a field whose type differs between the source and target
// substitutions: the candidate widened field.
type diffField struct {
	Index int
	TyA   types.Type
	TyB   types.Type
}

// visitWidenImpl checks one widening implementation and, for ADT-to-ADT
// widenings, computes which field is the one that widens. The returned
// kind is only meaningful when ok is true; it is consumed by later codegen.
func visitWidenImpl(ctx *session.Context, rec *session.ImplRecord, out *diagnostics.Sink) (session.WidenKind, bool) {
	sp := rec.Span
	source, target := rec.SelfTy, rec.TargetTy
	if target == nil || types.IsError(source) || types.IsError(target) {
		return session.WidenKind{}, false
	}

	scope := infer.NewScope()
	defer scope.Close()

	var (
		predSource types.Type
		predTarget types.Type
		predCap    string
		kind       session.WidenKind
		haveKind   bool
	)

	switch src := source.(type) {
	case types.TRef:
		switch tgt := target.(type) {
		case types.TRef:
			// The source region must outlive the target region: the
			// widened reference cannot be live longer than the original.
			scope.RecordOutlives(src.Region, tgt.Region, sp)
			checkWidenMut(src.Mut, tgt.Mut, types.TRef{Region: tgt.Region, Elem: tgt.Elem}, target, sp, out)
			predSource, predTarget, predCap = src.Elem, tgt.Elem, config.UnsizeCapName
		case types.TRawPtr:
			checkWidenMut(src.Mut, tgt.Mut, types.TRawPtr{Elem: tgt.Elem}, target, sp, out)
			predSource, predTarget, predCap = src.Elem, tgt.Elem, config.UnsizeCapName
		default:
			out.Emit(diagnostics.WidenNotAStruct{Span: sp})
			return session.WidenKind{}, false
		}
	case types.TRawPtr:
		tgt, ok := target.(types.TRawPtr)
		if !ok {
			out.Emit(diagnostics.WidenNotAStruct{Span: sp})
			return session.WidenKind{}, false
		}
		checkWidenMut(src.Mut, tgt.Mut, types.TRawPtr{Elem: tgt.Elem}, target, sp, out)
		predSource, predTarget, predCap = src.Elem, tgt.Elem, config.UnsizeCapName
	case types.TAdt:
		tgt, ok := target.(types.TAdt)
		if !ok || !src.Def.IsStruct() || !tgt.Def.IsStruct() {
			out.Emit(diagnostics.WidenNotAStruct{Span: sp})
			return session.WidenKind{}, false
		}
		if src.Def != tgt.Def {
			out.Emit(diagnostics.WidenBaseMismatch{
				Span:       sp,
				SourcePath: src.Def.Path(),
				TargetPath: tgt.Def.Path(),
			})
			return session.WidenKind{}, false
		}

		// Walk the fields under both substitutions and find the ones that
		// changed. Exactly one may change: the pointer becoming wide.
		diffs := widenDiffFields(scope, src, tgt)
		switch {
		case len(diffs) == 0:
			out.Emit(diagnostics.WidenNoCoercedField{Span: sp})
			return session.WidenKind{}, false
		case len(diffs) > 1:
			out.Emit(diagnostics.WidenTooManyCoercedFields{
				Span:   rec.CapSpan,
				Count:  len(diffs),
				Fields: joinDiffFields(src.Def, diffs),
			})
			return session.WidenKind{}, false
		}

		d := diffs[0]
		predSource, predTarget, predCap = d.TyA, d.TyB, config.WidenCapName
		kind = session.WidenKind{FieldIndex: d.Index}
		haveKind = true
	default:
		out.Emit(diagnostics.WidenNotAStruct{Span: sp})
		return session.WidenKind{}, false
	}

	// Register the capability obligation for the widened pair and solve it
	// fully; structural recursion happens inside the solver's worklist.
	ok := true
	pred := infer.CapPredicate{Subject: predSource, Capability: predCap, Args: []types.Type{predTarget}}
	for _, u := range solver.Solve(ctx, rec, pred, scope, sp) {
		out.Emit(diagnostics.ObligationUnmet{Span: u.Span, Predicate: u.Predicate.String(), Root: u.Root.String()})
		ok = false
	}

	// Finally, resolve all regions.
	for _, re := range solver.ResolveRegionObligations(rec, scope) {
		out.Emit(diagnostics.RegionViolation{
			Span: re.Constraint.Span,
			Sup:  re.Constraint.Sup.String(),
			Sub:  re.Constraint.Sub.String(),
		})
		ok = false
	}

	return kind, haveKind && ok
}

// checkWidenMut enforces mutability monotonicity: a widening may lose
// mutability but never gain it. The check reports and continues; the
// remaining obligations are still worth solving for their own diagnostics.
func checkWidenMut(srcMut, tgtMut bool, immutable types.Type, target types.Type, sp span.Span, out *diagnostics.Sink) {
	if !srcMut && tgtMut {
		out.Emit(diagnostics.MutabilityMismatch{
			Span:   sp,
			Found:  target.String(),
			Wanted: immutable.String(),
		})
	}
}

// widenDiffFields zips the struct's fields under both substitutions,
// skipping phantom-marker fields and fields whose instantiations are
// provably equal with no residue.
func widenDiffFields(scope *infer.Scope, src, tgt types.TAdt) []diffField {
	fieldsA := types.FieldsOf(src.Def, src.Args, src.Regions)
	fieldsB := types.FieldsOf(tgt.Def, tgt.Args, tgt.Regions)

	var diffs []diffField
	for i := range fieldsA {
		f := fieldsA[i]
		if types.IsPhantomMarker(f.Field.Ty) {
			// Purely compile-time markers contribute nothing to layout.
			continue
		}
		tyA, tyB := f.Ty, fieldsB[i].Ty
		if set, err := infer.TypeEqual(scope, tyA, tyB, f.Field.Span); err == nil && len(set) == 0 {
			continue
		}
		diffs = append(diffs, diffField{Index: i, TyA: tyA, TyB: tyB})
	}
	return diffs
}

func joinDiffFields(def *types.AdtDef, diffs []diffField) string {
	parts := make([]string, len(diffs))
	for i, d := range diffs {
		parts[i] = fmt.Sprintf("`%s` (`%s` -> `%s`)", def.Fields[d.Index].Name, d.TyA, d.TyB)
	}
	return strings.Join(parts, ", ")
}
