package solver

import (
	"github.com/rill-lang/rill/internal/config"
	"github.com/rill-lang/rill/internal/infer"
	"github.com/rill-lang/rill/internal/session"
	"github.com/rill-lang/rill/internal/types"
)

// CopyVerdict is the outcome of the copy eligibility judgment.
type CopyVerdict int

const (
	CopyOK CopyVerdict = iota
	CopyNotAnAdt
	CopyHasDestructor
	CopyInfringingFields
)

// InfringingField is a field whose instantiated type fails the copy
// obligation.
type InfringingField struct {
	Field types.FieldDef
	Ty    types.Type
}

// CanImplementCopy decides whether selfTy is eligible for a copy
// implementation: it must be an ADT, it must not have a custom destructor,
// and every field must independently satisfy the copy capability. Each
// field is probed in its own throwaway scope so a failure in one field
// cannot contaminate another.
func CanImplementCopy(ctx *session.Context, rec *session.ImplRecord, selfTy types.Type) (CopyVerdict, []InfringingField) {
	adt, ok := selfTy.(types.TAdt)
	if !ok {
		return CopyNotAnAdt, nil
	}
	if ctx.HasDestructor(adt.Def) {
		return CopyHasDestructor, nil
	}

	var infringing []InfringingField
	for _, f := range types.FieldsOf(adt.Def, adt.Args, adt.Regions) {
		scope := infer.NewScope()
		pred := infer.CapPredicate{Subject: f.Ty, Capability: config.CopyCapName}
		unmet := Solve(ctx, rec, pred, scope, f.Field.Span)
		scope.Close()
		if len(unmet) > 0 {
			infringing = append(infringing, InfringingField{Field: f.Field, Ty: f.Ty})
		}
	}
	if len(infringing) > 0 {
		return CopyInfringingFields, infringing
	}
	return CopyOK, nil
}
