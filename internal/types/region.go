package types

import "github.com/rill-lang/rill/internal/config"

// Region is a lifetime annotation on references and ADT region arguments.
// The empty name is the erased region, used where no ordering is required.
type Region struct {
	Name string
}

func (r Region) String() string {
	if r.Name == "" {
		return "'_"
	}
	return r.Name
}

// IsStatic reports whether r is the whole-program region, which outlives
// every other region.
func (r Region) IsStatic() bool { return r.Name == config.StaticRegion }

// IsErased reports whether r carries no name.
func (r Region) IsErased() bool { return r.Name == "" }

// StaticRegion returns the whole-program region.
func StaticRegion() Region { return Region{Name: config.StaticRegion} }
