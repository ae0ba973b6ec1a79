package infer

import (
	"fmt"
	"strings"

	"github.com/rill-lang/rill/internal/types"
)

// Predicate is an obligation that must be proven for a capability
// implementation to be valid.
type Predicate interface {
	String() string
	predicate()
}

// CapPredicate asserts that Subject implements Capability, with optional
// arguments for conversion capabilities (`A: Widen<B>`).
type CapPredicate struct {
	Subject    types.Type
	Capability string
	Args       []types.Type
}

func (p CapPredicate) predicate() {}

func (p CapPredicate) String() string {
	if len(p.Args) == 0 {
		return fmt.Sprintf("%s: %s", p.Subject, p.Capability)
	}
	args := make([]string, len(p.Args))
	for i, a := range p.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s: %s<%s>", p.Subject, p.Capability, strings.Join(args, ", "))
}

// OutlivesPredicate asserts that region Sup outlives region Sub.
type OutlivesPredicate struct {
	Sup types.Region
	Sub types.Region
}

func (p OutlivesPredicate) predicate() {}

func (p OutlivesPredicate) String() string {
	return fmt.Sprintf("%s: %s", p.Sup, p.Sub)
}

// SubjectParam returns the parameter name if the predicate's subject is a
// bare generic parameter, which is the case where a bound suggestion is
// mechanically derivable.
func SubjectParam(p Predicate) (string, bool) {
	cp, ok := p.(CapPredicate)
	if !ok {
		return "", false
	}
	param, ok := cp.Subject.(types.TParam)
	if !ok {
		return "", false
	}
	return param.Name, true
}
