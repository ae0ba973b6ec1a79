package diagnostics

import (
	"fmt"

	"github.com/rill-lang/rill/internal/span"
)

// Payload is a tagged error value carrying exactly the data needed to
// render one diagnostic kind. Each variant is dispatched to a Diagnostic
// once, at emission time.
type Payload interface {
	Build() Diagnostic
}

// DropOnWrongItem: the destructor capability was implemented for something
// other than a local algebraic data type.
type DropOnWrongItem struct {
	SelfTySpan span.Span
}

func (p DropOnWrongItem) Build() Diagnostic {
	return NewError(ErrC001, p.SelfTySpan,
		"the `Drop` capability may only be implemented for local algebraic data types")
}

// CopyOnNonAdt: the copy capability was implemented for a non-ADT type.
type CopyOnNonAdt struct {
	SelfTySpan span.Span
}

func (p CopyOnNonAdt) Build() Diagnostic {
	return NewError(ErrC002, p.SelfTySpan,
		"the `Copy` capability may only be implemented for algebraic data types")
}

// CopyOnTypeWithDtor: copy and a custom destructor are mutually exclusive.
type CopyOnTypeWithDtor struct {
	Span span.Span
}

func (p CopyOnTypeWithDtor) Build() Diagnostic {
	return NewError(ErrC003, p.Span,
		"the `Copy` capability may not be implemented for a type with a destructor")
}

// CopyInfringingFields: one or more fields fail the copy obligation. The
// labels point at the fields, notes carry the grouped obligation chains and
// suggestions carry derivable parameter bounds.
type CopyInfringingFields struct {
	Span        span.Span
	Labels      []Label
	Notes       []Note
	Suggestions []Suggestion
}

func (p CopyInfringingFields) Build() Diagnostic {
	return Diagnostic{
		Code:        ErrC004,
		Span:        p.Span,
		Message:     "the `Copy` capability may not be implemented for this type",
		Labels:      p.Labels,
		Notes:       p.Notes,
		Suggestions: p.Suggestions,
	}
}

// WidenNotAStruct: widening is only defined between struct shapes and the
// primitive pointer shapes.
type WidenNotAStruct struct {
	Span span.Span
}

func (p WidenNotAStruct) Build() Diagnostic {
	return NewError(ErrC005, p.Span,
		"the `Widen` capability may only be implemented for a conversion between structures")
}

// WidenBaseMismatch: source and target structs have distinct definitions.
type WidenBaseMismatch struct {
	Span       span.Span
	SourcePath string
	TargetPath string
}

func (p WidenBaseMismatch) Build() Diagnostic {
	return NewError(ErrC006, p.Span, fmt.Sprintf(
		"the `Widen` capability may only be implemented for a conversion between structures with the same definition; expected `%s`, found `%s`",
		p.SourcePath, p.TargetPath))
}

// WidenNoCoercedField: no field changes between the two substitutions, so
// the implementation does nothing and cannot be legal.
type WidenNoCoercedField struct {
	Span span.Span
}

func (p WidenNoCoercedField) Build() Diagnostic {
	return NewError(ErrC007, p.Span,
		"implementing the `Widen` capability requires a conversion between structures with one field being widened, none found")
}

// WidenTooManyCoercedFields: more than one field changes; Fields lists every
// diffing field with both instantiated types, already joined for display.
type WidenTooManyCoercedFields struct {
	Span   span.Span
	Count  int
	Fields string
}

func (p WidenTooManyCoercedFields) Build() Diagnostic {
	d := NewError(ErrC008, p.Span,
		"implementing the `Widen` capability requires multiple widenings")
	d.Notes = []Note{
		{Message: "the `Widen` capability may only be implemented for a conversion between structures with exactly one field being widened"},
		{Message: fmt.Sprintf("currently, %d fields need widenings: %s", p.Count, p.Fields)},
	}
	return d
}

// MutabilityMismatch: an immutable pointer or reference cannot be converted
// into a mutable one.
type MutabilityMismatch struct {
	Span   span.Span
	Found  string
	Wanted string
}

func (p MutabilityMismatch) Build() Diagnostic {
	d := NewError(ErrC009, p.Span, fmt.Sprintf(
		"mismatched types: expected `%s`, found `%s`", p.Wanted, p.Found))
	d.Notes = []Note{{Message: "types differ in mutability"}}
	return d
}

// DynAdaptBaseMismatch: source and target structs have distinct definitions.
type DynAdaptBaseMismatch struct {
	Span       span.Span
	SourcePath string
	TargetPath string
}

func (p DynAdaptBaseMismatch) Build() Diagnostic {
	return NewError(ErrC010, p.Span, fmt.Sprintf(
		"the `DynAdapt` capability may only be implemented for a conversion between structures with the same definition; expected `%s`, found `%s`",
		p.SourcePath, p.TargetPath))
}

// DynAdaptBadRepr: the layout forbids the pointer-metadata reinterpretation
// dyn-dispatch conversion requires.
type DynAdaptBadRepr struct {
	Span span.Span
}

func (p DynAdaptBadRepr) Build() Diagnostic {
	return NewError(ErrC011, p.Span,
		"structs implementing `DynAdapt` may not have foreign-call-compatible or packed representation")
}

// DynAdaptInvalidField: a field's two instantiations equal only modulo a
// non-empty obligation set, so it cannot be dispatched through a vtable.
type DynAdaptInvalidField struct {
	Span      span.Span
	FieldName string
	Ty        string
}

func (p DynAdaptInvalidField) Build() Diagnostic {
	return NewError(ErrC012, p.Span, fmt.Sprintf(
		"the `DynAdapt` capability may only be implemented for structs containing the field being adapted; extra field `%s` of type `%s` is not allowed",
		p.FieldName, p.Ty))
}

// DynAdaptNoCoercedFields mirrors WidenNoCoercedField for dyn-dispatch.
type DynAdaptNoCoercedFields struct {
	Span span.Span
}

func (p DynAdaptNoCoercedFields) Build() Diagnostic {
	return NewError(ErrC013, p.Span,
		"implementing the `DynAdapt` capability requires a conversion between structures with one field being adapted, none found")
}

// DynAdaptTooManyCoercedFields mirrors WidenTooManyCoercedFields.
type DynAdaptTooManyCoercedFields struct {
	Span   span.Span
	Count  int
	Fields string
}

func (p DynAdaptTooManyCoercedFields) Build() Diagnostic {
	d := NewError(ErrC014, p.Span,
		"implementing the `DynAdapt` capability requires multiple adaptations")
	d.Notes = []Note{
		{Message: "the `DynAdapt` capability may only be implemented for a conversion between structures with exactly one field being adapted"},
		{Message: fmt.Sprintf("currently, %d fields need adaptations: %s", p.Count, p.Fields)},
	}
	return d
}

// DynAdaptNotAStruct mirrors WidenNotAStruct for dyn-dispatch.
type DynAdaptNotAStruct struct {
	Span span.Span
}

func (p DynAdaptNotAStruct) Build() Diagnostic {
	return NewError(ErrC015, p.Span,
		"the `DynAdapt` capability may only be implemented for a conversion between structures")
}

// DynAdaptMutabilityMismatch: dyn-dispatch conversion requires identical
// mutability on both sides, with no monotonicity relaxation.
type DynAdaptMutabilityMismatch struct {
	Span   span.Span
	Source string
	Target string
}

func (p DynAdaptMutabilityMismatch) Build() Diagnostic {
	return NewError(ErrC016, p.Span, fmt.Sprintf(
		"the `DynAdapt` capability requires identical mutability: cannot convert `%s` into `%s`",
		p.Source, p.Target))
}

// ObligationUnmet: a required sub-capability could not be proven. Root is
// the obligation at the head of the causal chain.
type ObligationUnmet struct {
	Span      span.Span
	Predicate string
	Root      string
}

func (p ObligationUnmet) Build() Diagnostic {
	d := NewError(ErrC017, p.Span, fmt.Sprintf(
		"the requirement `%s` is not satisfied", p.Predicate))
	if p.Root != "" && p.Predicate != p.Root {
		d.Notes = []Note{{Message: fmt.Sprintf("required by the requirement `%s`", p.Root)}}
	}
	return d
}

// RegionViolation: a region-outlives relationship between source and target
// could not be proven.
type RegionViolation struct {
	Span span.Span
	Sup  string
	Sub  string
}

func (p RegionViolation) Build() Diagnostic {
	return NewError(ErrC018, p.Span, fmt.Sprintf(
		"region `%s` must outlive `%s`", p.Sup, p.Sub))
}
