package coherence

import (
	"github.com/rill-lang/rill/internal/config"
	"github.com/rill-lang/rill/internal/diagnostics"
	"github.com/rill-lang/rill/internal/infer"
	"github.com/rill-lang/rill/internal/session"
	"github.com/rill-lang/rill/internal/solver"
	"github.com/rill-lang/rill/internal/types"
)

// visitDynAdaptImpl checks one dyn-dispatch conversion implementation. The
// shape rules mirror widening, but mutability must match exactly, forbidden
// layouts are rejected, and any unchanged field that is not truly empty is
// an error in its own right, reported as soon as it is found.
func visitDynAdaptImpl(ctx *session.Context, rec *session.ImplRecord, out *diagnostics.Sink) {
	sp := rec.Span
	source, target := rec.SelfTy, rec.TargetTy
	if target == nil || types.IsError(source) || types.IsError(target) {
		return
	}

	scope := infer.NewScope()
	defer scope.Close()

	switch src := source.(type) {
	case types.TRef:
		tgt, ok := target.(types.TRef)
		if !ok {
			out.Emit(diagnostics.DynAdaptNotAStruct{Span: sp})
			return
		}
		if src.Mut != tgt.Mut {
			out.Emit(diagnostics.DynAdaptMutabilityMismatch{Span: sp, Source: source.String(), Target: target.String()})
			return
		}
		// Regions must be equatable; the constraints are checked below.
		if _, err := infer.TypeEqual(scope, source, target, sp); err != nil {
			out.Emit(diagnostics.DynAdaptNotAStruct{Span: sp})
			return
		}
	case types.TRawPtr:
		tgt, ok := target.(types.TRawPtr)
		if !ok {
			out.Emit(diagnostics.DynAdaptNotAStruct{Span: sp})
			return
		}
		if src.Mut != tgt.Mut {
			out.Emit(diagnostics.DynAdaptMutabilityMismatch{Span: sp, Source: source.String(), Target: target.String()})
			return
		}
	case types.TAdt:
		tgt, ok := target.(types.TAdt)
		if !ok || !src.Def.IsStruct() || !tgt.Def.IsStruct() {
			out.Emit(diagnostics.DynAdaptNotAStruct{Span: sp})
			return
		}
		if src.Def != tgt.Def {
			out.Emit(diagnostics.DynAdaptBaseMismatch{
				Span:       sp,
				SourcePath: src.Def.Path(),
				TargetPath: tgt.Def.Path(),
			})
			return
		}

		// A forbidden layout is reported but does not stop the field
		// analysis; the rest of the record still gets its diagnostics.
		if src.Def.Repr.Foreign || src.Def.Repr.Packed {
			out.Emit(diagnostics.DynAdaptBadRepr{Span: sp})
		}

		fieldsA := types.FieldsOf(src.Def, src.Args, src.Regions)
		fieldsB := types.FieldsOf(tgt.Def, tgt.Args, tgt.Regions)

		var coerced []diffField
		for i := range fieldsA {
			f := fieldsA[i]
			tyA, tyB := f.Ty, fieldsB[i].Ty

			// Truly empty fields are ignored: anything zero-sized with
			// 1-byte alignment, not only the canonical marker.
			if types.IsZeroSizedAlign1(tyA) {
				continue
			}

			if set, err := infer.TypeEqual(scope, tyA, tyB, f.Field.Span); err == nil && len(set) == 0 {
				// An unchanged field that occupies space cannot ride along
				// with a vtable reinterpretation; reported per field, as
				// soon as it is detected.
				out.Emit(diagnostics.DynAdaptInvalidField{
					Span:      sp,
					FieldName: f.Field.Name,
					Ty:        tyA.String(),
				})
				continue
			}
			coerced = append(coerced, diffField{Index: i, TyA: tyA, TyB: tyB})
		}

		switch {
		case len(coerced) == 0:
			out.Emit(diagnostics.DynAdaptNoCoercedFields{Span: sp})
			return
		case len(coerced) > 1:
			out.Emit(diagnostics.DynAdaptTooManyCoercedFields{
				Span:   sp,
				Count:  len(coerced),
				Fields: joinDiffFields(src.Def, coerced),
			})
			return
		}

		d := coerced[0]
		pred := infer.CapPredicate{Subject: d.TyA, Capability: config.DynAdaptCapName, Args: []types.Type{d.TyB}}
		for _, u := range solver.Solve(ctx, rec, pred, scope, sp) {
			out.Emit(diagnostics.ObligationUnmet{Span: u.Span, Predicate: u.Predicate.String(), Root: u.Root.String()})
		}
	default:
		out.Emit(diagnostics.DynAdaptNotAStruct{Span: sp})
		return
	}

	// Finally, resolve all regions.
	for _, re := range solver.ResolveRegionObligations(rec, scope) {
		out.Emit(diagnostics.RegionViolation{
			Span: re.Constraint.Span,
			Sup:  re.Constraint.Sup.String(),
			Sub:  re.Constraint.Sub.String(),
		})
	}
}
