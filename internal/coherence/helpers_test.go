package coherence

import (
	"testing"

	"github.com/rill-lang/rill/internal/config"
	"github.com/rill-lang/rill/internal/diagnostics"
	"github.com/rill-lang/rill/internal/session"
	"github.com/rill-lang/rill/internal/types"
)

var (
	intTy  = types.TPrim{Name: "Int"}
	boolTy = types.TPrim{Name: "Bool"}
)

// newTestContext builds a session with every built-in capability
// registered, matching what the bootstrap prelude provides.
func newTestContext() *session.Context {
	ctx := session.NewContext()
	for _, item := range []string{
		config.DropCapName,
		config.CopyCapName,
		config.WidenCapName,
		config.DynAdaptCapName,
		config.UnsizeCapName,
	} {
		ctx.RegisterLangItem(item)
	}
	return ctx
}

func structDef(name string, fields ...types.FieldDef) *types.AdtDef {
	for i := range fields {
		fields[i].Index = i
	}
	return &types.AdtDef{Name: name, Local: true, Kind: types.AdtStruct, Fields: fields}
}

func field(name string, ty types.Type) types.FieldDef {
	return types.FieldDef{Name: name, Ty: ty}
}

func runCapability(t *testing.T, ctx *session.Context, capability string) []diagnostics.Diagnostic {
	t.Helper()
	if err := CheckCapability(ctx, capability); err != nil {
		t.Fatalf("CheckCapability(%s) fatal: %v", capability, err)
	}
	return ctx.Diags.Diagnostics()
}

func expectCodes(t *testing.T, diags []diagnostics.Diagnostic, want ...diagnostics.ErrorCode) {
	t.Helper()
	if len(diags) != len(want) {
		t.Fatalf("got %d diagnostics, want %d: %v", len(diags), len(want), renderAll(diags))
	}
	for i, code := range want {
		if diags[i].Code != code {
			t.Errorf("diagnostic %d has code %s, want %s: %s", i, diags[i].Code, code, diags[i].Error())
		}
	}
}

func renderAll(diags []diagnostics.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Error()
	}
	return out
}
