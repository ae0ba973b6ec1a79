package coherence

import (
	"testing"

	"github.com/rill-lang/rill/internal/config"
	"github.com/rill-lang/rill/internal/diagnostics"
	"github.com/rill-lang/rill/internal/session"
	"github.com/rill-lang/rill/internal/span"
	"github.com/rill-lang/rill/internal/types"
)

func dropImpl(selfTy types.Type) *session.ImplRecord {
	return &session.ImplRecord{
		ID:         "drop-impl",
		Capability: config.DropCapName,
		SelfTy:     selfTy,
		SelfTySpan: span.Span{File: "m.rill", Line: 5, Column: 10},
	}
}

func TestDropOnLocalAdt(t *testing.T) {
	ctx := newTestContext()
	guard := structDef("Guard", field("fd", intTy))
	ctx.RegisterAdt(guard)
	ctx.RegisterImpl(dropImpl(types.TAdt{Def: guard}))

	expectCodes(t, runCapability(t, ctx, config.DropCapName))
}

func TestDropOnForeignAdt(t *testing.T) {
	ctx := newTestContext()
	foreign := &types.AdtDef{Name: "Handle", Module: "sys", Local: false, Kind: types.AdtStruct}
	ctx.RegisterAdt(foreign)
	ctx.RegisterImpl(dropImpl(types.TAdt{Def: foreign}))

	diags := runCapability(t, ctx, config.DropCapName)
	expectCodes(t, diags, diagnostics.ErrC001)
	if got := diags[0].Span.String(); got != "m.rill:5:10" {
		t.Errorf("diagnostic points at %s, want the self-type span", got)
	}
}

func TestDropOnNonAdt(t *testing.T) {
	for _, selfTy := range []types.Type{
		types.TPrim{Name: "Int"},
		types.TRef{Elem: intTy},
		types.TTuple{Elems: []types.Type{intTy}},
	} {
		ctx := newTestContext()
		ctx.RegisterImpl(dropImpl(selfTy))
		expectCodes(t, runCapability(t, ctx, config.DropCapName), diagnostics.ErrC001)
	}
}

func TestDropOnPoisonType(t *testing.T) {
	ctx := newTestContext()
	ctx.RegisterImpl(dropImpl(types.TErr{}))
	expectCodes(t, runCapability(t, ctx, config.DropCapName))
}

func TestDropSkippedWithoutLangItem(t *testing.T) {
	ctx := session.NewContext()
	ctx.RegisterImpl(dropImpl(intTy))
	if err := CheckCapability(ctx, config.DropCapName); err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if ctx.Diags.HasErrors() {
		t.Error("check ran without the lang item registered")
	}
}
