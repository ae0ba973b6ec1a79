package solver

import (
	"github.com/rill-lang/rill/internal/types"
)

// binding accumulates the parameter assignments discovered while matching
// an implementation head against a concrete type.
type binding struct {
	types   map[string]types.Type
	regions map[string]types.Region
}

func newBinding() *binding {
	return &binding{types: make(map[string]types.Type), regions: make(map[string]types.Region)}
}

func (b *binding) subst() types.Subst {
	return types.Subst{Types: b.types, Regions: b.regions}
}

// matchType matches a pattern (an impl head, whose parameters named in
// binders are holes) against a fully concrete type, extending b. A
// parameter already bound must rebind to an identical type. Regions always
// match; region parameters bind on first sight.
func matchType(pattern, concrete types.Type, binders map[string]bool, b *binding) bool {
	switch p := pattern.(type) {
	case types.TParam:
		if binders[p.Name] {
			if prev, ok := b.types[p.Name]; ok {
				return prev.String() == concrete.String()
			}
			b.types[p.Name] = concrete
			return true
		}
		c, ok := concrete.(types.TParam)
		return ok && c.Name == p.Name
	case types.TPrim:
		c, ok := concrete.(types.TPrim)
		return ok && c.Name == p.Name
	case types.TAdt:
		c, ok := concrete.(types.TAdt)
		if !ok || c.Def != p.Def || len(c.Args) != len(p.Args) {
			return false
		}
		for i := range p.Args {
			if !matchType(p.Args[i], c.Args[i], binders, b) {
				return false
			}
		}
		for i := range p.Regions {
			if i < len(c.Regions) {
				matchRegion(p.Regions[i], c.Regions[i], b)
			}
		}
		return true
	case types.TRef:
		c, ok := concrete.(types.TRef)
		if !ok || c.Mut != p.Mut {
			return false
		}
		matchRegion(p.Region, c.Region, b)
		return matchType(p.Elem, c.Elem, binders, b)
	case types.TRawPtr:
		c, ok := concrete.(types.TRawPtr)
		return ok && c.Mut == p.Mut && matchType(p.Elem, c.Elem, binders, b)
	case types.TArray:
		c, ok := concrete.(types.TArray)
		return ok && c.Len == p.Len && matchType(p.Elem, c.Elem, binders, b)
	case types.TSlice:
		c, ok := concrete.(types.TSlice)
		return ok && matchType(p.Elem, c.Elem, binders, b)
	case types.TTuple:
		c, ok := concrete.(types.TTuple)
		if !ok || len(c.Elems) != len(p.Elems) {
			return false
		}
		for i := range p.Elems {
			if !matchType(p.Elems[i], c.Elems[i], binders, b) {
				return false
			}
		}
		return true
	case types.TErr:
		return true
	}
	return false
}

func matchRegion(pattern, concrete types.Region, b *binding) {
	if pattern.IsErased() || pattern.Name == concrete.Name {
		return
	}
	if _, ok := b.regions[pattern.Name]; !ok {
		b.regions[pattern.Name] = concrete
	}
}
