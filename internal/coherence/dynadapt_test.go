package coherence

import (
	"strings"
	"testing"

	"github.com/rill-lang/rill/internal/config"
	"github.com/rill-lang/rill/internal/diagnostics"
	"github.com/rill-lang/rill/internal/session"
	"github.com/rill-lang/rill/internal/span"
	"github.com/rill-lang/rill/internal/types"
)

func dynAdaptImpl(source, target types.Type) *session.ImplRecord {
	return &session.ImplRecord{
		ID:         "dynadapt-impl",
		Capability: config.DynAdaptCapName,
		SelfTy:     source,
		TargetTy:   target,
		Span:       span.Span{File: "m.rill", Line: 20, Column: 1},
		SelfTySpan: span.Span{File: "m.rill", Line: 20, Column: 24},
		CapSpan:    span.Span{File: "m.rill", Line: 20, Column: 6},
	}
}

// dispatcherDef is the canonical dispatcher shape: one reference plus a
// phantom marker, parameterized by the pointee.
func dispatcherDef() *types.AdtDef {
	return &types.AdtDef{
		Name: "Dispatcher", Local: true, Kind: types.AdtStruct, TypeParams: []string{"T"},
		Fields: []types.FieldDef{
			{Name: "inner", Index: 0, Ty: types.TRef{Elem: types.TParam{Name: "T"}},
				Span: span.Span{File: "m.rill", Line: 15, Column: 5}},
			{Name: "marker", Index: 1, Ty: types.TAdt{Def: types.PhantomDef(), Args: []types.Type{types.TParam{Name: "T"}}},
				Span: span.Span{File: "m.rill", Line: 16, Column: 5}},
		},
	}
}

func TestDynAdaptStructSingleField(t *testing.T) {
	ctx := newTestContext()
	dispatcher := dispatcherDef()
	ctx.RegisterAdt(dispatcher)

	ctx.RegisterImpl(dynAdaptImpl(
		types.TAdt{Def: dispatcher, Args: []types.Type{types.TArray{Elem: intTy, Len: 3}}},
		types.TAdt{Def: dispatcher, Args: []types.Type{types.TSlice{Elem: intTy}}},
	))

	expectCodes(t, runCapability(t, ctx, config.DynAdaptCapName))
}

func TestDynAdaptReferenceShapes(t *testing.T) {
	arr := types.TArray{Elem: intTy, Len: 3}
	slice := types.TSlice{Elem: intTy}

	tests := []struct {
		name   string
		source types.Type
		target types.Type
		want   []diagnostics.ErrorCode
	}{
		{"same mutability refs", types.TRef{Elem: arr}, types.TRef{Elem: slice}, nil},
		{"same mutability ptrs", types.TRawPtr{Mut: true, Elem: arr}, types.TRawPtr{Mut: true, Elem: slice}, nil},
		{
			"mut ref to shared ref",
			types.TRef{Mut: true, Elem: arr}, types.TRef{Elem: slice},
			[]diagnostics.ErrorCode{diagnostics.ErrC016},
		},
		{
			"shared ref to mut ref",
			types.TRef{Elem: arr}, types.TRef{Mut: true, Elem: slice},
			[]diagnostics.ErrorCode{diagnostics.ErrC016},
		},
		{
			"mut ptr to const ptr",
			types.TRawPtr{Mut: true, Elem: arr}, types.TRawPtr{Elem: slice},
			[]diagnostics.ErrorCode{diagnostics.ErrC016},
		},
		{
			"ref to ptr",
			types.TRef{Elem: arr}, types.TRawPtr{Elem: slice},
			[]diagnostics.ErrorCode{diagnostics.ErrC015},
		},
		{
			"prim",
			intTy, intTy,
			[]diagnostics.ErrorCode{diagnostics.ErrC015},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newTestContext()
			ctx.RegisterImpl(dynAdaptImpl(tt.source, tt.target))
			expectCodes(t, runCapability(t, ctx, config.DynAdaptCapName), tt.want...)
		})
	}
}

func TestDynAdaptBaseMismatch(t *testing.T) {
	ctx := newTestContext()
	a := dispatcherDef()
	b := &types.AdtDef{Name: "Other", Local: true, Kind: types.AdtStruct, TypeParams: []string{"T"},
		Fields: []types.FieldDef{{Name: "inner", Index: 0, Ty: types.TRef{Elem: types.TParam{Name: "T"}}}}}
	ctx.RegisterAdt(a)
	ctx.RegisterAdt(b)
	ctx.RegisterImpl(dynAdaptImpl(
		types.TAdt{Def: a, Args: []types.Type{intTy}},
		types.TAdt{Def: b, Args: []types.Type{intTy}},
	))

	expectCodes(t, runCapability(t, ctx, config.DynAdaptCapName), diagnostics.ErrC010)
}

func TestDynAdaptForbiddenRepr(t *testing.T) {
	for _, repr := range []types.ReprFlags{{Foreign: true}, {Packed: true}} {
		ctx := newTestContext()
		dispatcher := dispatcherDef()
		dispatcher.Repr = repr
		ctx.RegisterAdt(dispatcher)

		// The layout is rejected, but the field analysis still runs; a
		// valid single coerced field adds no second diagnostic.
		ctx.RegisterImpl(dynAdaptImpl(
			types.TAdt{Def: dispatcher, Args: []types.Type{types.TArray{Elem: intTy, Len: 3}}},
			types.TAdt{Def: dispatcher, Args: []types.Type{types.TSlice{Elem: intTy}}},
		))
		expectCodes(t, runCapability(t, ctx, config.DynAdaptCapName), diagnostics.ErrC011)
	}
}

func TestDynAdaptExtraField(t *testing.T) {
	ctx := newTestContext()
	bad := &types.AdtDef{
		Name: "Bad", Local: true, Kind: types.AdtStruct, TypeParams: []string{"T"},
		Fields: []types.FieldDef{
			{Name: "inner", Index: 0, Ty: types.TRef{Elem: types.TParam{Name: "T"}}},
			{Name: "count", Index: 1, Ty: intTy},
		},
	}
	ctx.RegisterAdt(bad)
	ctx.RegisterImpl(dynAdaptImpl(
		types.TAdt{Def: bad, Args: []types.Type{types.TArray{Elem: intTy, Len: 3}}},
		types.TAdt{Def: bad, Args: []types.Type{types.TSlice{Elem: intTy}}},
	))

	diags := runCapability(t, ctx, config.DynAdaptCapName)
	expectCodes(t, diags, diagnostics.ErrC012)
	if !strings.Contains(diags[0].Message, "extra field `count` of type `Int`") {
		t.Errorf("unexpected message: %s", diags[0].Message)
	}
}

func TestDynAdaptZeroSizedFieldIgnored(t *testing.T) {
	ctx := newTestContext()
	ok := &types.AdtDef{
		Name: "Ok", Local: true, Kind: types.AdtStruct, TypeParams: []string{"T"},
		Fields: []types.FieldDef{
			{Name: "inner", Index: 0, Ty: types.TRef{Elem: types.TParam{Name: "T"}}},
			{Name: "unit", Index: 1, Ty: types.TPrim{Name: "Unit"}},
		},
	}
	ctx.RegisterAdt(ok)
	ctx.RegisterImpl(dynAdaptImpl(
		types.TAdt{Def: ok, Args: []types.Type{types.TArray{Elem: intTy, Len: 3}}},
		types.TAdt{Def: ok, Args: []types.Type{types.TSlice{Elem: intTy}}},
	))

	expectCodes(t, runCapability(t, ctx, config.DynAdaptCapName))
}

func TestDynAdaptNoCoercedFields(t *testing.T) {
	ctx := newTestContext()
	marker := &types.AdtDef{
		Name: "Marker", Local: true, Kind: types.AdtStruct, TypeParams: []string{"T"},
		Fields: []types.FieldDef{
			{Name: "tag", Index: 0, Ty: types.TAdt{Def: types.PhantomDef(), Args: []types.Type{types.TParam{Name: "T"}}}},
		},
	}
	ctx.RegisterAdt(marker)
	ctx.RegisterImpl(dynAdaptImpl(
		types.TAdt{Def: marker, Args: []types.Type{types.TArray{Elem: intTy, Len: 3}}},
		types.TAdt{Def: marker, Args: []types.Type{types.TSlice{Elem: intTy}}},
	))

	expectCodes(t, runCapability(t, ctx, config.DynAdaptCapName), diagnostics.ErrC013)
}

func TestDynAdaptTooManyCoercedFields(t *testing.T) {
	ctx := newTestContext()
	pair := &types.AdtDef{
		Name: "Pair", Local: true, Kind: types.AdtStruct, TypeParams: []string{"T"},
		Fields: []types.FieldDef{
			{Name: "first", Index: 0, Ty: types.TRef{Elem: types.TParam{Name: "T"}}},
			{Name: "second", Index: 1, Ty: types.TRef{Elem: types.TParam{Name: "T"}}},
		},
	}
	ctx.RegisterAdt(pair)
	ctx.RegisterImpl(dynAdaptImpl(
		types.TAdt{Def: pair, Args: []types.Type{types.TArray{Elem: intTy, Len: 3}}},
		types.TAdt{Def: pair, Args: []types.Type{types.TSlice{Elem: intTy}}},
	))

	expectCodes(t, runCapability(t, ctx, config.DynAdaptCapName), diagnostics.ErrC014)
}

func TestDynAdaptUnmetObligation(t *testing.T) {
	ctx := newTestContext()
	dispatcher := dispatcherDef()
	ctx.RegisterAdt(dispatcher)

	// The coerced field pair does not reduce: [Int; 3] cannot unsize to
	// [Bool].
	ctx.RegisterImpl(dynAdaptImpl(
		types.TAdt{Def: dispatcher, Args: []types.Type{types.TArray{Elem: intTy, Len: 3}}},
		types.TAdt{Def: dispatcher, Args: []types.Type{types.TSlice{Elem: boolTy}}},
	))

	expectCodes(t, runCapability(t, ctx, config.DynAdaptCapName), diagnostics.ErrC017)
}

func TestDynAdaptPoisonTypesAreSilent(t *testing.T) {
	ctx := newTestContext()
	ctx.RegisterImpl(dynAdaptImpl(types.TErr{}, types.TRef{Elem: intTy}))
	ctx.RegisterImpl(dynAdaptImpl(types.TRef{Elem: intTy}, types.TErr{}))
	expectCodes(t, runCapability(t, ctx, config.DynAdaptCapName))
}

func TestDynAdaptMissingLangItemIsFatal(t *testing.T) {
	ctx := session.NewContext()
	err := CheckCapability(ctx, config.DynAdaptCapName)
	var fatal *session.FatalConfigError
	if !asFatal(err, &fatal) || fatal.Capability != config.DynAdaptCapName {
		t.Errorf("error = %v, want FatalConfigError for DynAdapt", err)
	}
}
