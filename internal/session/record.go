package session

import (
	"github.com/rill-lang/rill/internal/span"
	"github.com/rill-lang/rill/internal/types"
)

// Bound is a capability requirement declared on a generic parameter,
// e.g. `U: Unsize<V>` carries Capability "Unsize" and one argument.
type Bound struct {
	Capability string
	Args       []types.Type
}

// GenericParam is one entry of an implementation's generic parameter list.
type GenericParam struct {
	Name   string
	Bounds []Bound
}

// RegionParam declares a region parameter and the regions it is declared
// to outlive.
type RegionParam struct {
	Name     string
	Outlives []string
}

// ImplRecord identifies a single user-written implementation of a
// capability. Created once during earlier phases; read-only here.
type ImplRecord struct {
	ID         string
	Capability string
	SelfTy     types.Type
	TargetTy   types.Type // nil unless the capability is a conversion
	Generics   []GenericParam
	Regions    []RegionParam

	Span       span.Span // whole implementation item
	SelfTySpan span.Span // the self-type expression
	CapSpan    span.Span // the capability name in the header
}

// ParamBounds returns the declared bounds of the named generic parameter.
func (r *ImplRecord) ParamBounds(name string) []Bound {
	for _, g := range r.Generics {
		if g.Name == name {
			return g.Bounds
		}
	}
	return nil
}

// ParamNames lists the generic parameters in declaration order.
func (r *ImplRecord) ParamNames() []string {
	names := make([]string, len(r.Generics))
	for i, g := range r.Generics {
		names[i] = g.Name
	}
	return names
}

// RegionOutlives reports whether the record declares sup to outlive sub,
// directly or transitively.
func (r *ImplRecord) RegionOutlives(sup, sub string) bool {
	seen := map[string]bool{}
	var walk func(string) bool
	walk = func(cur string) bool {
		if cur == sub {
			return true
		}
		if seen[cur] {
			return false
		}
		seen[cur] = true
		for _, rp := range r.Regions {
			if rp.Name != cur {
				continue
			}
			for _, next := range rp.Outlives {
				if walk(next) {
					return true
				}
			}
		}
		return false
	}
	return walk(sup)
}
