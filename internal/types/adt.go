package types

import (
	"github.com/rill-lang/rill/internal/config"
	"github.com/rill-lang/rill/internal/span"
)

// AdtKind distinguishes struct-shaped and enum-shaped definitions.
type AdtKind int

const (
	AdtStruct AdtKind = iota
	AdtEnum
)

// ReprFlags are the layout attributes declared on an ADT that matter to the
// coherence pass. Foreign-call-compatible and packed layouts forbid the
// pointer-metadata reinterpretation dyn-dispatch conversion requires.
type ReprFlags struct {
	Foreign bool
	Packed  bool
}

// FieldDef is a field of an ADT: stable identity (name and index), declared
// type expression over the ADT's own parameters, and its source span. Owned
// by the definition; instantiated copies are produced by FieldsOf.
type FieldDef struct {
	Name  string
	Index int
	Ty    Type
	Span  span.Span
}

// AdtDef is an algebraic data type definition. Created once during earlier
// phases; read-only to the coherence pass.
type AdtDef struct {
	Name         string
	Module       string
	Local        bool
	Kind         AdtKind
	TypeParams   []string
	RegionParams []string
	Fields       []FieldDef
	Repr         ReprFlags
	Phantom      bool
	Span         span.Span
}

// Path returns the fully qualified display path of the definition.
func (d *AdtDef) Path() string {
	if d.Module == "" {
		return d.Name
	}
	return d.Module + "." + d.Name
}

func (d *AdtDef) IsStruct() bool { return d.Kind == AdtStruct }

// InstField pairs a field descriptor with its type instantiated under one
// substitution of the enclosing ADT.
type InstField struct {
	Field FieldDef
	Ty    Type
}

// FieldsOf instantiates every field of def under the given arguments.
func FieldsOf(def *AdtDef, args []Type, regions []Region) []InstField {
	s := NewSubst(def.TypeParams, args, def.RegionParams, regions)
	out := make([]InstField, 0, len(def.Fields))
	for _, f := range def.Fields {
		out = append(out, InstField{Field: f, Ty: f.Ty.Apply(s)})
	}
	return out
}

// PhantomDef returns the canonical compile-time marker definition. It is
// zero-sized, 1-byte aligned, and carries a single type parameter for
// variance purposes only.
func PhantomDef() *AdtDef {
	return &AdtDef{
		Name:       config.PhantomTypeName,
		Local:      false,
		Kind:       AdtStruct,
		TypeParams: []string{"T"},
		Phantom:    true,
	}
}
