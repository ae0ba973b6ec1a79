package manifest

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/rill-lang/rill/internal/config"
	"github.com/rill-lang/rill/internal/session"
	"github.com/rill-lang/rill/internal/types"
)

// primNames are the scalar types recognized by the expression parser.
var primNames = map[string]bool{
	"Int":   true,
	"Float": true,
	"Bool":  true,
	"Char":  true,
	"Unit":  true,
	"Str":   true,
}

// typeParser is a tiny recursive-descent parser for the type expressions
// the manifest uses: `&'a mut T`, `*mut [T; 3]`, `Wrapper<[Int]>`, `!` for
// the poison type. Identifiers resolve against the generic parameters in
// scope first, then the primitive set, then the ADT table.
type typeParser struct {
	src     string
	pos     int
	params  map[string]bool
	resolve func(string) (*types.AdtDef, bool)
}

// ParseType parses a single type expression.
func ParseType(src string, params map[string]bool, resolve func(string) (*types.AdtDef, bool)) (types.Type, error) {
	p := &typeParser{src: src, params: params, resolve: resolve}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("trailing input in type expression %q at offset %d", src, p.pos)
	}
	return t, nil
}

// ParseBound parses a generic bound such as `Copy` or `Unsize<[Int]>`.
func ParseBound(src string, params map[string]bool, resolve func(string) (*types.AdtDef, bool)) (session.Bound, error) {
	p := &typeParser{src: src, params: params, resolve: resolve}
	p.skipSpace()
	name := p.ident()
	if name == "" {
		return session.Bound{}, fmt.Errorf("invalid bound %q", src)
	}
	bound := session.Bound{Capability: name}
	p.skipSpace()
	if p.eat('<') {
		for {
			arg, err := p.parseType()
			if err != nil {
				return session.Bound{}, err
			}
			bound.Args = append(bound.Args, arg)
			p.skipSpace()
			if p.eat(',') {
				continue
			}
			break
		}
		if !p.eat('>') {
			return session.Bound{}, fmt.Errorf("missing `>` in bound %q", src)
		}
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return session.Bound{}, fmt.Errorf("trailing input in bound %q", src)
	}
	return bound, nil
}

func (p *typeParser) parseType() (types.Type, error) {
	p.skipSpace()
	switch {
	case p.eat('!'):
		return types.TErr{}, nil
	case p.eat('&'):
		region := p.region()
		p.skipSpace()
		mut := p.keyword("mut")
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return types.TRef{Region: region, Mut: mut, Elem: elem}, nil
	case p.eat('*'):
		p.skipSpace()
		var mut bool
		switch {
		case p.keyword("mut"):
			mut = true
		case p.keyword("const"):
			mut = false
		default:
			return nil, fmt.Errorf("raw pointer needs `mut` or `const` in %q", p.src)
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return types.TRawPtr{Mut: mut, Elem: elem}, nil
	case p.eat('['):
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.eat(';') {
			p.skipSpace()
			n := p.number()
			if n < 0 {
				return nil, fmt.Errorf("invalid array length in %q", p.src)
			}
			p.skipSpace()
			if !p.eat(']') {
				return nil, fmt.Errorf("missing `]` in %q", p.src)
			}
			return types.TArray{Elem: elem, Len: n}, nil
		}
		if !p.eat(']') {
			return nil, fmt.Errorf("missing `]` in %q", p.src)
		}
		return types.TSlice{Elem: elem}, nil
	case p.eat('('):
		p.skipSpace()
		if p.eat(')') {
			return types.TPrim{Name: config.UnitTypeName}, nil
		}
		var elems []types.Type
		for {
			e, err := p.parseType()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			p.skipSpace()
			if p.eat(',') {
				continue
			}
			break
		}
		if !p.eat(')') {
			return nil, fmt.Errorf("missing `)` in %q", p.src)
		}
		if len(elems) == 1 {
			return elems[0], nil
		}
		return types.TTuple{Elems: elems}, nil
	}

	name := p.ident()
	if name == "" {
		return nil, fmt.Errorf("cannot parse type expression %q at offset %d", p.src, p.pos)
	}
	return p.named(name)
}

func (p *typeParser) named(name string) (types.Type, error) {
	var args []types.Type
	var regions []types.Region
	p.skipSpace()
	if p.eat('<') {
		for {
			p.skipSpace()
			if p.peek() == '\'' {
				regions = append(regions, p.region())
			} else {
				a, err := p.parseType()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
			}
			p.skipSpace()
			if p.eat(',') {
				continue
			}
			break
		}
		if !p.eat('>') {
			return nil, fmt.Errorf("missing `>` in %q", p.src)
		}
	}

	if p.params[name] {
		if len(args) > 0 || len(regions) > 0 {
			return nil, fmt.Errorf("generic parameter %s takes no arguments", name)
		}
		return types.TParam{Name: name}, nil
	}
	if primNames[name] {
		if len(args) > 0 {
			return nil, fmt.Errorf("primitive %s takes no arguments", name)
		}
		return types.TPrim{Name: name}, nil
	}
	def, ok := p.resolve(name)
	if !ok {
		return nil, fmt.Errorf("unknown type %s", name)
	}
	if len(args) != len(def.TypeParams) {
		return nil, fmt.Errorf("%s expects %d type arguments, got %d", name, len(def.TypeParams), len(args))
	}
	return types.TAdt{Def: def, Args: args, Regions: regions}, nil
}

func (p *typeParser) region() types.Region {
	p.skipSpace()
	if p.peek() != '\'' {
		return types.Region{}
	}
	start := p.pos
	p.pos++
	for p.pos < len(p.src) && isIdentRune(rune(p.src[p.pos])) {
		p.pos++
	}
	return types.Region{Name: p.src[start:p.pos]}
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeParser) eat(c byte) bool {
	p.skipSpace()
	if p.peek() == c {
		p.pos++
		return true
	}
	return false
}

// keyword consumes an identifier-like word only when it matches exactly.
func (p *typeParser) keyword(word string) bool {
	p.skipSpace()
	end := p.pos + len(word)
	if end > len(p.src) || p.src[p.pos:end] != word {
		return false
	}
	if end < len(p.src) && isIdentRune(rune(p.src[end])) {
		return false
	}
	p.pos = end
	return true
}

func (p *typeParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		r := rune(p.src[p.pos])
		if isIdentRune(r) || (r == '.' && p.pos > start) {
			p.pos++
			continue
		}
		break
	}
	return strings.TrimSuffix(p.src[start:p.pos], ".")
}

func (p *typeParser) number() int {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if start == p.pos {
		return -1
	}
	n, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return -1
	}
	return n
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
