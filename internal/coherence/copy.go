package coherence

import (
	"fmt"
	"sort"

	"github.com/rill-lang/rill/internal/config"
	"github.com/rill-lang/rill/internal/diagnostics"
	"github.com/rill-lang/rill/internal/infer"
	"github.com/rill-lang/rill/internal/session"
	"github.com/rill-lang/rill/internal/solver"
	"github.com/rill-lang/rill/internal/span"
	"github.com/rill-lang/rill/internal/types"
)

// obligationKey groups unmet sub-obligations by the field type and the
// predicate that failed, so one note covers every span that produced the
// same pair.
type obligationKey struct {
	Ty        string
	Predicate string
}

// visitCopyImpl checks one copy implementation. Eligibility is delegated
// to the copy judgment; when fields infringe, each one is re-probed in a
// fresh scope to recover the precise reason, and everything is folded into
// a single aggregated diagnostic for the record.
func visitCopyImpl(ctx *session.Context, rec *session.ImplRecord, out *diagnostics.Sink) {
	if types.IsError(rec.SelfTy) {
		return
	}

	verdict, fields := solver.CanImplementCopy(ctx, rec, rec.SelfTy)
	switch verdict {
	case solver.CopyOK:
		return
	case solver.CopyNotAnAdt:
		out.Emit(diagnostics.CopyOnNonAdt{SelfTySpan: rec.SelfTySpan})
	case solver.CopyHasDestructor:
		out.Emit(diagnostics.CopyOnTypeWithDtor{Span: rec.Span})
	case solver.CopyInfringingFields:
		out.Emit(buildInfringingFieldsDiag(ctx, rec, fields))
	}
}

func buildInfringingFieldsDiag(ctx *session.Context, rec *session.ImplRecord, fields []solver.InfringingField) diagnostics.CopyInfringingFields {
	var labels []diagnostics.Label
	errors := make(map[obligationKey][]span.Span)
	var bounds []diagnostics.Suggestion
	seenBound := map[diagnostics.Suggestion]bool{}

	for _, f := range fields {
		labels = append(labels, diagnostics.Label{
			Span:    f.Field.Span,
			Message: "this field does not implement `Copy`",
		})

		// A fresh scope per field recovers the precise reason the copy
		// obligation fails, without obligation leakage between fields.
		scope := infer.NewScope()
		pred := infer.CapPredicate{Subject: f.Ty, Capability: config.CopyCapName}
		unmet := solver.Solve(ctx, rec, pred, scope, f.Field.Span)
		scope.Close()

		for _, u := range unmet {
			// The root obligation is self-explanatory (the field itself
			// does not implement Copy); only nested causes get a note.
			if u.Predicate.String() != u.Root.String() {
				key := obligationKey{Ty: f.Ty.String(), Predicate: u.Predicate.String()}
				errors[key] = append(errors[key], u.Span)
			}
			if param, ok := infer.SubjectParam(u.Predicate); ok {
				cp := u.Predicate.(infer.CapPredicate)
				s := diagnostics.Suggestion{Param: param, Bound: cp.Capability}
				if !seenBound[s] {
					seenBound[s] = true
					bounds = append(bounds, s)
				}
			}
		}
	}

	// Deterministic note ordering, keyed textually.
	keys := make([]obligationKey, 0, len(errors))
	for k := range errors {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Ty != keys[j].Ty {
			return keys[i].Ty < keys[j].Ty
		}
		return keys[i].Predicate < keys[j].Predicate
	})

	var notes []diagnostics.Note
	for _, k := range keys {
		notes = append(notes, diagnostics.Note{
			Spans:   errors[k],
			Message: fmt.Sprintf("the `Copy` impl for `%s` requires that `%s`", k.Ty, k.Predicate),
		})
	}

	return diagnostics.CopyInfringingFields{
		Span:        rec.CapSpan,
		Labels:      labels,
		Notes:       notes,
		Suggestions: bounds,
	}
}
