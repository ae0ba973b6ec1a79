package solver

import (
	"testing"

	"github.com/rill-lang/rill/internal/config"
	"github.com/rill-lang/rill/internal/session"
	"github.com/rill-lang/rill/internal/types"
)

func TestCanImplementCopyNotAnAdt(t *testing.T) {
	ctx := session.NewContext()
	verdict, fields := CanImplementCopy(ctx, nil, types.TRef{Elem: intTy})
	if verdict != CopyNotAnAdt {
		t.Errorf("verdict = %v, want CopyNotAnAdt", verdict)
	}
	if fields != nil {
		t.Errorf("unexpected fields: %v", fields)
	}
}

func TestCanImplementCopyHasDestructor(t *testing.T) {
	ctx := session.NewContext()
	guard := &types.AdtDef{Name: "Guard", Local: true, Kind: types.AdtStruct}
	ctx.RegisterAdt(guard)
	guardTy := types.TAdt{Def: guard}
	ctx.RegisterImpl(&session.ImplRecord{ID: "drop-guard", Capability: config.DropCapName, SelfTy: guardTy})

	verdict, _ := CanImplementCopy(ctx, nil, guardTy)
	if verdict != CopyHasDestructor {
		t.Errorf("verdict = %v, want CopyHasDestructor", verdict)
	}
}

func TestCanImplementCopyInfringingFields(t *testing.T) {
	ctx := session.NewContext()
	holder := &types.AdtDef{
		Name:  "Holder",
		Local: true,
		Kind:  types.AdtStruct,
		Fields: []types.FieldDef{
			{Name: "n", Index: 0, Ty: intTy},
			{Name: "buf", Index: 1, Ty: types.TRef{Mut: true, Elem: intTy}},
			{Name: "items", Index: 2, Ty: types.TSlice{Elem: boolTy}},
		},
	}
	ctx.RegisterAdt(holder)

	verdict, fields := CanImplementCopy(ctx, nil, types.TAdt{Def: holder})
	if verdict != CopyInfringingFields {
		t.Fatalf("verdict = %v, want CopyInfringingFields", verdict)
	}
	if len(fields) != 2 {
		t.Fatalf("got %d infringing fields, want 2", len(fields))
	}
	if fields[0].Field.Name != "buf" || fields[1].Field.Name != "items" {
		t.Errorf("infringing fields = %s, %s; want buf, items", fields[0].Field.Name, fields[1].Field.Name)
	}
}

func TestCanImplementCopyOK(t *testing.T) {
	ctx := session.NewContext()
	point := &types.AdtDef{
		Name:  "Point",
		Local: true,
		Kind:  types.AdtStruct,
		Fields: []types.FieldDef{
			{Name: "x", Index: 0, Ty: intTy},
			{Name: "y", Index: 1, Ty: intTy},
		},
	}
	ctx.RegisterAdt(point)

	verdict, fields := CanImplementCopy(ctx, nil, types.TAdt{Def: point})
	if verdict != CopyOK {
		t.Errorf("verdict = %v, want CopyOK", verdict)
	}
	if len(fields) != 0 {
		t.Errorf("unexpected fields: %v", fields)
	}
}

func TestCanImplementCopyGenericFieldWithBound(t *testing.T) {
	ctx := session.NewContext()
	box := &types.AdtDef{
		Name:       "Cell",
		Local:      true,
		Kind:       types.AdtStruct,
		TypeParams: []string{"T"},
		Fields: []types.FieldDef{
			{Name: "value", Index: 0, Ty: types.TParam{Name: "T"}},
		},
	}
	ctx.RegisterAdt(box)
	selfTy := types.TAdt{Def: box, Args: []types.Type{types.TParam{Name: "T"}}}

	// Without a bound the field infringes.
	bare := &session.ImplRecord{ID: "i1", Capability: config.CopyCapName, SelfTy: selfTy,
		Generics: []session.GenericParam{{Name: "T"}}}
	if verdict, _ := CanImplementCopy(ctx, bare, selfTy); verdict != CopyInfringingFields {
		t.Errorf("verdict without bound = %v, want CopyInfringingFields", verdict)
	}

	// With T: Copy declared, the field is provable.
	bounded := &session.ImplRecord{ID: "i2", Capability: config.CopyCapName, SelfTy: selfTy,
		Generics: []session.GenericParam{{Name: "T", Bounds: []session.Bound{{Capability: config.CopyCapName}}}}}
	if verdict, _ := CanImplementCopy(ctx, bounded, selfTy); verdict != CopyOK {
		t.Errorf("verdict with bound = %v, want CopyOK", verdict)
	}
}
