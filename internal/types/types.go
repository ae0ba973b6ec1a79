package types

import (
	"fmt"
	"strings"
)

// Type is the interface for all types in our system. Types are immutable
// values; Apply returns a new type with substituted parameters.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeParams() []string
}

// Subst maps generic parameter names to concrete types and region parameter
// names to concrete regions. Two substitutions are used simultaneously when
// the coherence pass compares the "before" and "after" shapes of an ADT.
type Subst struct {
	Types   map[string]Type
	Regions map[string]Region
}

// NewSubst builds a substitution from parallel parameter/argument lists.
// Extra arguments are ignored; missing arguments leave the parameter free.
func NewSubst(typeParams []string, typeArgs []Type, regionParams []string, regionArgs []Region) Subst {
	s := Subst{Types: make(map[string]Type), Regions: make(map[string]Region)}
	for i, p := range typeParams {
		if i < len(typeArgs) {
			s.Types[p] = typeArgs[i]
		}
	}
	for i, p := range regionParams {
		if i < len(regionArgs) {
			s.Regions[p] = regionArgs[i]
		}
	}
	return s
}

func (s Subst) typeFor(name string) (Type, bool) {
	if s.Types == nil {
		return nil, false
	}
	t, ok := s.Types[name]
	return t, ok
}

func (s Subst) regionFor(r Region) Region {
	if s.Regions == nil {
		return r
	}
	if repl, ok := s.Regions[r.Name]; ok {
		return repl
	}
	return r
}

// TPrim represents a primitive scalar type (Int, Bool, Unit, ...).
type TPrim struct {
	Name string
}

func (t TPrim) String() string       { return t.Name }
func (t TPrim) Apply(Subst) Type     { return t }
func (t TPrim) FreeParams() []string { return nil }

// TParam represents a generic parameter in scope of an implementation.
// Parameters are rigid: they only change under an explicit substitution.
type TParam struct {
	Name string
}

func (t TParam) String() string { return t.Name }

func (t TParam) Apply(s Subst) Type {
	if repl, ok := s.typeFor(t.Name); ok {
		return repl
	}
	return t
}

func (t TParam) FreeParams() []string { return []string{t.Name} }

// TAdt is a nominal type: an ADT definition applied to type and region
// arguments. Args/Regions line up with Def.TypeParams/Def.RegionParams.
type TAdt struct {
	Def     *AdtDef
	Args    []Type
	Regions []Region
}

func (t TAdt) String() string {
	if len(t.Args) == 0 && len(t.Regions) == 0 {
		return t.Def.Path()
	}
	parts := make([]string, 0, len(t.Args)+len(t.Regions))
	for _, r := range t.Regions {
		parts = append(parts, r.String())
	}
	for _, a := range t.Args {
		parts = append(parts, a.String())
	}
	return fmt.Sprintf("%s<%s>", t.Def.Path(), strings.Join(parts, ", "))
}

func (t TAdt) Apply(s Subst) Type {
	newArgs := make([]Type, len(t.Args))
	for i, a := range t.Args {
		newArgs[i] = a.Apply(s)
	}
	newRegions := make([]Region, len(t.Regions))
	for i, r := range t.Regions {
		newRegions[i] = s.regionFor(r)
	}
	return TAdt{Def: t.Def, Args: newArgs, Regions: newRegions}
}

func (t TAdt) FreeParams() []string {
	var vars []string
	for _, a := range t.Args {
		vars = append(vars, a.FreeParams()...)
	}
	return uniqueNames(vars)
}

// TRef is a borrowed reference with a region and mutability.
type TRef struct {
	Region Region
	Mut    bool
	Elem   Type
}

func (t TRef) String() string {
	var b strings.Builder
	b.WriteString("&")
	if t.Region.Name != "" {
		b.WriteString(t.Region.Name)
		b.WriteString(" ")
	}
	if t.Mut {
		b.WriteString("mut ")
	}
	b.WriteString(t.Elem.String())
	return b.String()
}

func (t TRef) Apply(s Subst) Type {
	return TRef{Region: s.regionFor(t.Region), Mut: t.Mut, Elem: t.Elem.Apply(s)}
}

func (t TRef) FreeParams() []string { return t.Elem.FreeParams() }

// TRawPtr is an unmanaged pointer, mutable or const.
type TRawPtr struct {
	Mut  bool
	Elem Type
}

func (t TRawPtr) String() string {
	if t.Mut {
		return "*mut " + t.Elem.String()
	}
	return "*const " + t.Elem.String()
}

func (t TRawPtr) Apply(s Subst) Type {
	return TRawPtr{Mut: t.Mut, Elem: t.Elem.Apply(s)}
}

func (t TRawPtr) FreeParams() []string { return t.Elem.FreeParams() }

// TArray is a sized sequence [T; N].
type TArray struct {
	Elem Type
	Len  int
}

func (t TArray) String() string {
	return fmt.Sprintf("[%s; %d]", t.Elem, t.Len)
}

func (t TArray) Apply(s Subst) Type {
	return TArray{Elem: t.Elem.Apply(s), Len: t.Len}
}

func (t TArray) FreeParams() []string { return t.Elem.FreeParams() }

// TSlice is the unsized counterpart of TArray.
type TSlice struct {
	Elem Type
}

func (t TSlice) String() string { return fmt.Sprintf("[%s]", t.Elem) }

func (t TSlice) Apply(s Subst) Type {
	return TSlice{Elem: t.Elem.Apply(s)}
}

func (t TSlice) FreeParams() []string { return t.Elem.FreeParams() }

// TTuple represents a tuple type (e.g. (Int, Bool)).
type TTuple struct {
	Elems []Type
}

func (t TTuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

func (t TTuple) Apply(s Subst) Type {
	newElems := make([]Type, len(t.Elems))
	for i, e := range t.Elems {
		newElems[i] = e.Apply(s)
	}
	return TTuple{Elems: newElems}
}

func (t TTuple) FreeParams() []string {
	var vars []string
	for _, e := range t.Elems {
		vars = append(vars, e.FreeParams()...)
	}
	return uniqueNames(vars)
}

// TErr is the poison type produced by earlier phases for unresolvable
// expressions. Every check silently accepts it to avoid cascades.
type TErr struct{}

func (t TErr) String() string       { return "{error}" }
func (t TErr) Apply(Subst) Type     { return t }
func (t TErr) FreeParams() []string { return nil }

// IsError reports whether t is the poison type.
func IsError(t Type) bool {
	_, ok := t.(TErr)
	return ok
}

func uniqueNames(names []string) []string {
	unique := []string{}
	seen := map[string]bool{}
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			unique = append(unique, n)
		}
	}
	return unique
}
