package diagnostics

import (
	"strings"
	"sync"
	"testing"

	"github.com/rill-lang/rill/internal/span"
)

func TestDiagnosticError(t *testing.T) {
	d := Diagnostic{
		Code:    ErrC004,
		Span:    span.Span{File: "m.rill", Line: 4, Column: 1},
		Message: "the `Copy` capability may not be implemented for this type",
		Labels: []Label{
			{Span: span.Span{File: "m.rill", Line: 6, Column: 5}, Message: "this field does not implement `Copy`"},
		},
		Notes: []Note{
			{Message: "the `Copy` impl for `[Int]` requires that `[Int]: Copy`",
				Spans: []span.Span{{File: "m.rill", Line: 6, Column: 5}}},
		},
		Suggestions: []Suggestion{{Param: "T", Bound: "Copy"}},
	}

	got := d.Error()
	want := strings.Join([]string{
		"error[C004]: the `Copy` capability may not be implemented for this type",
		"  --> m.rill:4:1",
		"  --> m.rill:6:5: this field does not implement `Copy`",
		"  note: the `Copy` impl for `[Int]` requires that `[Int]: Copy`",
		"    --> m.rill:6:5",
		"  help: consider restricting type parameter `T` with `T: Copy`",
	}, "\n")
	if got != want {
		t.Errorf("Error() =\n%s\nwant\n%s", got, want)
	}
}

func TestDiagnosticErrorZeroSpan(t *testing.T) {
	d := NewError(ErrC017, span.Span{}, "the requirement `[Int]: Copy` is not satisfied")
	if strings.Contains(d.Error(), "-->") {
		t.Errorf("zero span rendered a location: %q", d.Error())
	}
}

func TestPayloadBuild(t *testing.T) {
	sp := span.Span{File: "m.rill", Line: 2, Column: 3}

	tests := []struct {
		name     string
		payload  Payload
		wantCode ErrorCode
		wantText string
	}{
		{"drop wrong item", DropOnWrongItem{SelfTySpan: sp}, ErrC001, "local algebraic data types"},
		{"copy non adt", CopyOnNonAdt{SelfTySpan: sp}, ErrC002, "algebraic data types"},
		{"copy with dtor", CopyOnTypeWithDtor{Span: sp}, ErrC003, "destructor"},
		{"widen not struct", WidenNotAStruct{Span: sp}, ErrC005, "between structures"},
		{
			"widen base mismatch",
			WidenBaseMismatch{Span: sp, SourcePath: "demo.A", TargetPath: "demo.B"},
			ErrC006, "expected `demo.A`, found `demo.B`",
		},
		{"widen none", WidenNoCoercedField{Span: sp}, ErrC007, "none found"},
		{
			"widen too many",
			WidenTooManyCoercedFields{Span: sp, Count: 2, Fields: "`a` (`X` -> `Y`), `b` (`P` -> `Q`)"},
			ErrC008, "multiple widenings",
		},
		{
			"mutability",
			MutabilityMismatch{Span: sp, Found: "&mut [Int]", Wanted: "&[Int]"},
			ErrC009, "expected `&[Int]`, found `&mut [Int]`",
		},
		{"dynadapt bad repr", DynAdaptBadRepr{Span: sp}, ErrC011, "packed"},
		{
			"dynadapt invalid field",
			DynAdaptInvalidField{Span: sp, FieldName: "extra", Ty: "Int"},
			ErrC012, "extra field `extra` of type `Int`",
		},
		{"dynadapt none", DynAdaptNoCoercedFields{Span: sp}, ErrC013, "none found"},
		{"dynadapt not struct", DynAdaptNotAStruct{Span: sp}, ErrC015, "between structures"},
		{
			"dynadapt mutability",
			DynAdaptMutabilityMismatch{Span: sp, Source: "&mut Int", Target: "&Int"},
			ErrC016, "identical mutability",
		},
		{
			"region violation",
			RegionViolation{Span: sp, Sup: "'a", Sub: "'b"},
			ErrC018, "region `'a` must outlive `'b`",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.payload.Build()
			if d.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", d.Code, tt.wantCode)
			}
			if !strings.Contains(d.Error(), tt.wantText) {
				t.Errorf("rendered %q, want it to contain %q", d.Error(), tt.wantText)
			}
		})
	}
}

func TestObligationUnmetNote(t *testing.T) {
	// A nested failure names its root; a root failure carries no note.
	nested := ObligationUnmet{Predicate: "[Int]: Copy", Root: "Wrapper<[Int]>: Copy"}.Build()
	if len(nested.Notes) != 1 || !strings.Contains(nested.Notes[0].Message, "Wrapper<[Int]>: Copy") {
		t.Errorf("nested obligation missing root note: %v", nested.Notes)
	}
	root := ObligationUnmet{Predicate: "[Int]: Copy", Root: "[Int]: Copy"}.Build()
	if len(root.Notes) != 0 {
		t.Errorf("root obligation carries a note: %v", root.Notes)
	}
}

func TestSinkConcurrentAppend(t *testing.T) {
	sink := NewSink()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				sink.Emit(WidenNoCoercedField{})
			}
		}()
	}
	wg.Wait()
	if sink.Len() != 800 {
		t.Errorf("Len() = %d, want 800", sink.Len())
	}
	if !sink.HasErrors() {
		t.Error("HasErrors() = false")
	}
}

func TestSinkAppendAllPreservesOrder(t *testing.T) {
	sink := NewSink()
	batch := []Diagnostic{
		NewError(ErrC001, span.Span{}, "first"),
		NewError(ErrC002, span.Span{}, "second"),
	}
	sink.AppendAll(batch)
	got := sink.Diagnostics()
	if len(got) != 2 || got[0].Message != "first" || got[1].Message != "second" {
		t.Errorf("AppendAll reordered the batch: %v", got)
	}
}

func TestSinkSnapshotIsCopy(t *testing.T) {
	sink := NewSink()
	sink.Append(NewError(ErrC001, span.Span{}, "only"))
	snap := sink.Diagnostics()
	snap[0].Message = "mutated"
	if sink.Diagnostics()[0].Message != "only" {
		t.Error("snapshot aliases the sink's storage")
	}
}

func TestRenderPlain(t *testing.T) {
	var b strings.Builder
	Render(&b, []Diagnostic{
		NewError(ErrC007, span.Span{File: "m.rill", Line: 1, Column: 1},
			"implementing the `Widen` capability requires a conversion between structures with one field being widened, none found"),
	}, false)

	out := b.String()
	if !strings.HasPrefix(out, "error[C007]: ") {
		t.Errorf("unexpected head: %q", out)
	}
	if !strings.Contains(out, "aborting due to 1 previous error(s)") {
		t.Errorf("missing trailer: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("plain render contains ANSI escapes: %q", out)
	}
}

func TestRenderNothing(t *testing.T) {
	var b strings.Builder
	Render(&b, nil, false)
	if b.Len() != 0 {
		t.Errorf("empty render produced output: %q", b.String())
	}
}
