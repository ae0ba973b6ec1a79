package types

// Layout carries the size and alignment facts the coherence pass needs.
// Target dependence is irrelevant here: only zero-sizedness and alignment 1
// are ever consulted, and those are stable across targets.
type Layout struct {
	Size  int
	Align int
}

var primLayouts = map[string]Layout{
	"Int":   {Size: 8, Align: 8},
	"Float": {Size: 8, Align: 8},
	"Bool":  {Size: 1, Align: 1},
	"Char":  {Size: 4, Align: 4},
	"Unit":  {Size: 0, Align: 1},
}

const ptrLayout = 8

// LayoutOf computes the layout of a fully concrete type. The second result
// is false for types whose layout cannot be known here: generic parameters,
// unsized types, enums and the poison type.
func LayoutOf(t Type) (Layout, bool) {
	switch t := t.(type) {
	case TPrim:
		l, ok := primLayouts[t.Name]
		return l, ok
	case TRef, TRawPtr:
		// Thin pointer. Wide pointers never reach layout queries in this
		// pass: the diff filters run on the declared field types.
		return Layout{Size: ptrLayout, Align: ptrLayout}, true
	case TArray:
		elem, ok := LayoutOf(t.Elem)
		if !ok {
			return Layout{}, false
		}
		return Layout{Size: elem.Size * t.Len, Align: maxAlign(elem.Align, 1)}, true
	case TTuple:
		size, align := 0, 1
		for _, e := range t.Elems {
			l, ok := LayoutOf(e)
			if !ok {
				return Layout{}, false
			}
			size = alignUp(size, l.Align) + l.Size
			align = maxAlign(align, l.Align)
		}
		return Layout{Size: alignUp(size, align), Align: align}, true
	case TAdt:
		if t.Def.Phantom {
			return Layout{Size: 0, Align: 1}, true
		}
		if !t.Def.IsStruct() {
			return Layout{}, false
		}
		size, align := 0, 1
		for _, f := range FieldsOf(t.Def, t.Args, t.Regions) {
			l, ok := LayoutOf(f.Ty)
			if !ok {
				return Layout{}, false
			}
			size = alignUp(size, l.Align) + l.Size
			align = maxAlign(align, l.Align)
		}
		if t.Def.Repr.Packed {
			align = 1
		}
		return Layout{Size: alignUp(size, align), Align: align}, true
	default:
		return Layout{}, false
	}
}

// IsZeroSizedAlign1 reports whether t is provably zero-sized with 1-byte
// alignment. Unknown layouts answer false: the caller must not exclude a
// field it cannot prove empty.
func IsZeroSizedAlign1(t Type) bool {
	l, ok := LayoutOf(t)
	return ok && l.Size == 0 && l.Align == 1
}

// IsPhantomMarker reports whether t is the canonical compile-time marker
// type, regardless of its argument.
func IsPhantomMarker(t Type) bool {
	adt, ok := t.(TAdt)
	return ok && adt.Def.Phantom
}

func alignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	rem := n % align
	if rem == 0 {
		return n
	}
	return n + align - rem
}

func maxAlign(a, b int) int {
	if a > b {
		return a
	}
	return b
}
