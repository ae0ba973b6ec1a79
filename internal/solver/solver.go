package solver

import (
	"github.com/rill-lang/rill/internal/config"
	"github.com/rill-lang/rill/internal/infer"
	"github.com/rill-lang/rill/internal/session"
	"github.com/rill-lang/rill/internal/span"
	"github.com/rill-lang/rill/internal/types"
)

// UnmetObligation is one predicate the solver could not discharge, with the
// root obligation it descends from for the causal chain.
type UnmetObligation struct {
	Predicate infer.Predicate
	Root      infer.Predicate
	Span      span.Span
}

type workItem struct {
	pred infer.Predicate
	root infer.Predicate
}

// worklist iterations are bounded; recursive capability obligations are
// explicit items here, never organic recursion in a validator.
const maxWorkItems = 10000

// Solve attempts to fully discharge a predicate inside the given scope,
// using built-in rules, the generic bounds declared on rec, and the
// implementation records of the session. It returns every sub-obligation it
// could not prove, each chained back to the root predicate.
func Solve(ctx *session.Context, rec *session.ImplRecord, pred infer.Predicate, scope *infer.Scope, sp span.Span) []UnmetObligation {
	var unmet []UnmetObligation
	visited := map[string]bool{}
	work := []workItem{{pred: pred, root: pred}}

	for steps := 0; len(work) > 0 && steps < maxWorkItems; steps++ {
		item := work[0]
		work = work[1:]

		key := item.pred.String()
		if visited[key] {
			continue
		}
		visited[key] = true

		switch p := item.pred.(type) {
		case infer.OutlivesPredicate:
			// Deferred: accumulated on the scope, resolved at the end of
			// the enclosing check.
			scope.RecordOutlives(p.Sup, p.Sub, sp)
		case infer.CapPredicate:
			subs, proven := step(ctx, rec, p, scope, sp)
			if !proven {
				unmet = append(unmet, UnmetObligation{Predicate: p, Root: item.root, Span: sp})
				continue
			}
			for _, sub := range subs {
				work = append(work, workItem{pred: sub, root: item.root})
			}
		}
	}
	return unmet
}

// step proves one capability predicate a single layer deep, returning the
// sub-obligations it reduces to. proven=false means no rule applied.
func step(ctx *session.Context, rec *session.ImplRecord, p infer.CapPredicate, scope *infer.Scope, sp span.Span) ([]infer.Predicate, bool) {
	if types.IsError(p.Subject) {
		return nil, true
	}

	// A bare generic parameter is only provable through a declared bound.
	if param, ok := p.Subject.(types.TParam); ok {
		return nil, boundSatisfies(rec, param.Name, p)
	}

	switch p.Capability {
	case config.CopyCapName:
		return stepCopy(ctx, p)
	case config.UnsizeCapName:
		return stepUnsize(ctx, p)
	case config.WidenCapName:
		return stepPointerConversion(ctx, p, scope, sp, false)
	case config.DynAdaptCapName:
		return stepPointerConversion(ctx, p, scope, sp, true)
	}
	return implLookup(ctx, p)
}

func boundSatisfies(rec *session.ImplRecord, param string, p infer.CapPredicate) bool {
	if rec == nil {
		return false
	}
	for _, bound := range rec.ParamBounds(param) {
		if bound.Capability != p.Capability || len(bound.Args) != len(p.Args) {
			continue
		}
		ok := true
		for i := range bound.Args {
			if bound.Args[i].String() != p.Args[i].String() {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func stepCopy(ctx *session.Context, p infer.CapPredicate) ([]infer.Predicate, bool) {
	switch t := p.Subject.(type) {
	case types.TPrim:
		return nil, true
	case types.TRef:
		// Shared references copy freely; unique ones never do.
		return nil, !t.Mut
	case types.TRawPtr:
		return nil, true
	case types.TArray:
		return []infer.Predicate{infer.CapPredicate{Subject: t.Elem, Capability: config.CopyCapName}}, true
	case types.TTuple:
		subs := make([]infer.Predicate, len(t.Elems))
		for i, e := range t.Elems {
			subs[i] = infer.CapPredicate{Subject: e, Capability: config.CopyCapName}
		}
		return subs, true
	case types.TSlice:
		// Unsized; cannot be copied by value.
		return nil, false
	case types.TAdt:
		if t.Def.Phantom {
			return nil, true
		}
		if ctx.HasDestructor(t.Def) {
			return nil, false
		}
		return implLookup(ctx, p)
	}
	return nil, false
}

func stepUnsize(ctx *session.Context, p infer.CapPredicate) ([]infer.Predicate, bool) {
	if len(p.Args) != 1 {
		return nil, false
	}
	// Built-in rule: [T; N] unsizes to [T].
	if arr, ok := p.Subject.(types.TArray); ok {
		if sl, ok := p.Args[0].(types.TSlice); ok && arr.Elem.String() == sl.Elem.String() {
			return nil, true
		}
		return nil, false
	}
	return implLookup(ctx, p)
}

// stepPointerConversion implements the built-in widening and dyn-dispatch
// conversion rules over the pointer shapes. Both reduce to an unsizing
// obligation between the pointees; dyn-dispatch additionally requires
// identical mutability where widening only forbids gaining mutability.
func stepPointerConversion(ctx *session.Context, p infer.CapPredicate, scope *infer.Scope, sp span.Span, exactMut bool) ([]infer.Predicate, bool) {
	if len(p.Args) != 1 {
		return nil, false
	}
	target := p.Args[0]

	unsizeSub := func(a, b types.Type) []infer.Predicate {
		return []infer.Predicate{infer.CapPredicate{Subject: a, Capability: config.UnsizeCapName, Args: []types.Type{b}}}
	}
	mutOK := func(srcMut, tgtMut bool) bool {
		if exactMut {
			return srcMut == tgtMut
		}
		return srcMut || !tgtMut
	}

	switch src := p.Subject.(type) {
	case types.TRef:
		switch tgt := target.(type) {
		case types.TRef:
			if !mutOK(src.Mut, tgt.Mut) {
				return nil, false
			}
			scope.RecordOutlives(src.Region, tgt.Region, sp)
			return unsizeSub(src.Elem, tgt.Elem), true
		case types.TRawPtr:
			if exactMut || !mutOK(src.Mut, tgt.Mut) {
				return nil, false
			}
			return unsizeSub(src.Elem, tgt.Elem), true
		}
		return nil, false
	case types.TRawPtr:
		if tgt, ok := target.(types.TRawPtr); ok && mutOK(src.Mut, tgt.Mut) {
			return unsizeSub(src.Elem, tgt.Elem), true
		}
		return nil, false
	case types.TAdt:
		return implLookup(ctx, p)
	}
	return nil, false
}

// implLookup searches the registry for a user implementation whose head
// matches the predicate, and reduces to the bounds of that implementation
// instantiated at the matched arguments.
func implLookup(ctx *session.Context, p infer.CapPredicate) ([]infer.Predicate, bool) {
	for _, cand := range ctx.RecordsFor(p.Capability) {
		binders := map[string]bool{}
		for _, name := range cand.ParamNames() {
			binders[name] = true
		}
		b := newBinding()
		if !matchType(cand.SelfTy, p.Subject, binders, b) {
			continue
		}
		if len(p.Args) > 0 {
			if cand.TargetTy == nil || !matchType(cand.TargetTy, p.Args[0], binders, b) {
				continue
			}
		} else if cand.TargetTy != nil {
			continue
		}

		s := b.subst()
		var subs []infer.Predicate
		for _, g := range cand.Generics {
			subject, ok := s.Types[g.Name]
			if !ok {
				subject = types.TParam{Name: g.Name}
			}
			for _, bound := range g.Bounds {
				args := make([]types.Type, len(bound.Args))
				for i, a := range bound.Args {
					args[i] = a.Apply(s)
				}
				subs = append(subs, infer.CapPredicate{Subject: subject, Capability: bound.Capability, Args: args})
			}
		}
		return subs, true
	}
	return nil, false
}
