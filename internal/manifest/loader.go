package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rill-lang/rill/internal/session"
	"github.com/rill-lang/rill/internal/span"
	"github.com/rill-lang/rill/internal/types"
)

// Manifest is the YAML snapshot of a compilation session: the lang-item
// table, the type definitions and the capability implementations to check.
// It stands in for the front-end phases that would normally populate the
// session context.
type Manifest struct {
	LangItems []string   `yaml:"lang_items"`
	Adts      []AdtDecl  `yaml:"adts"`
	Impls     []ImplDecl `yaml:"impls"`
}

// SpanDecl is a source position in the manifest's own coordinate system.
type SpanDecl struct {
	File   string `yaml:"file"`
	Line   int    `yaml:"line"`
	Column int    `yaml:"column"`
}

func (s SpanDecl) toSpan() span.Span {
	return span.Span{File: s.File, Line: s.Line, Column: s.Column}
}

// ReprDecl carries the layout flags of a definition.
type ReprDecl struct {
	Foreign bool `yaml:"foreign"`
	Packed  bool `yaml:"packed"`
}

// FieldDecl declares one struct field. The type is a type expression parsed
// with the definition's own parameters in scope.
type FieldDecl struct {
	Name string   `yaml:"name"`
	Type string   `yaml:"type"`
	Span SpanDecl `yaml:"span"`
}

// AdtDecl declares one nominal type.
type AdtDecl struct {
	Name    string      `yaml:"name"`
	Module  string      `yaml:"module"`
	Local   bool        `yaml:"local"`
	Kind    string      `yaml:"kind"`
	Params  []string    `yaml:"params"`
	Regions []string    `yaml:"regions"`
	Repr    ReprDecl    `yaml:"repr"`
	Fields  []FieldDecl `yaml:"fields"`
	Span    SpanDecl    `yaml:"span"`
}

// GenericDecl declares one generic parameter of an implementation, with its
// bounds as bound expressions such as `Copy` or `Unsize<[Int]>`.
type GenericDecl struct {
	Name   string   `yaml:"name"`
	Bounds []string `yaml:"bounds"`
}

// RegionDecl declares one region parameter of an implementation.
type RegionDecl struct {
	Name     string   `yaml:"name"`
	Outlives []string `yaml:"outlives"`
}

// ImplDecl declares one capability implementation. Source and target are
// type expressions parsed with the implementation's generics in scope;
// target is only meaningful for conversion capabilities.
type ImplDecl struct {
	ID         string        `yaml:"id"`
	Capability string        `yaml:"capability"`
	Source     string        `yaml:"source"`
	Target     string        `yaml:"target"`
	Generics   []GenericDecl `yaml:"generics"`
	Regions    []RegionDecl  `yaml:"regions"`
	Span       SpanDecl      `yaml:"span"`
	SelfSpan   SpanDecl      `yaml:"self_span"`
	CapSpan    SpanDecl      `yaml:"cap_span"`
}

// Parse decodes a manifest from YAML.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return &m, nil
}

// LoadFile reads and builds a session context from a manifest file.
func LoadFile(path string) (*session.Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ctx, err := m.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ctx, nil
}

// Build populates a fresh session context from the manifest. Definitions
// register in two phases so fields may refer to any declared type,
// including mutually recursive ones.
func (m *Manifest) Build() (*session.Context, error) {
	ctx := session.NewContext()
	for _, name := range m.LangItems {
		ctx.RegisterLangItem(name)
	}

	byName := map[string]*types.AdtDef{}
	defs := make([]*types.AdtDef, len(m.Adts))
	for i, decl := range m.Adts {
		kind := types.AdtStruct
		switch decl.Kind {
		case "", "struct":
		case "enum":
			kind = types.AdtEnum
		default:
			return nil, fmt.Errorf("type %s: unknown kind %q", decl.Name, decl.Kind)
		}
		def := &types.AdtDef{
			Name:         decl.Name,
			Module:       decl.Module,
			Local:        decl.Local,
			Kind:         kind,
			TypeParams:   decl.Params,
			RegionParams: decl.Regions,
			Repr:         types.ReprFlags{Foreign: decl.Repr.Foreign, Packed: decl.Repr.Packed},
			Span:         decl.Span.toSpan(),
		}
		if _, dup := byName[decl.Name]; dup {
			return nil, fmt.Errorf("type %s declared twice", decl.Name)
		}
		byName[decl.Name] = def
		defs[i] = def
		ctx.RegisterAdt(def)
	}

	resolve := func(name string) (*types.AdtDef, bool) {
		if def, ok := byName[name]; ok {
			return def, true
		}
		return ctx.LookupAdt(name)
	}

	for i, decl := range m.Adts {
		def := defs[i]
		params := paramSet(decl.Params)
		for j, fd := range decl.Fields {
			ty, err := ParseType(fd.Type, params, resolve)
			if err != nil {
				return nil, fmt.Errorf("type %s, field %s: %w", decl.Name, fd.Name, err)
			}
			def.Fields = append(def.Fields, types.FieldDef{
				Name:  fd.Name,
				Index: j,
				Ty:    ty,
				Span:  fd.Span.toSpan(),
			})
		}
	}

	for i, decl := range m.Impls {
		rec, err := buildImpl(i, decl, resolve)
		if err != nil {
			return nil, err
		}
		ctx.RegisterImpl(rec)
	}
	return ctx, nil
}

func buildImpl(i int, decl ImplDecl, resolve func(string) (*types.AdtDef, bool)) (*session.ImplRecord, error) {
	id := decl.ID
	if id == "" {
		id = fmt.Sprintf("%s-%d", decl.Capability, i)
	}
	names := make([]string, len(decl.Generics))
	for j, g := range decl.Generics {
		names[j] = g.Name
	}
	params := paramSet(names)

	generics := make([]session.GenericParam, len(decl.Generics))
	for j, g := range decl.Generics {
		gp := session.GenericParam{Name: g.Name}
		for _, b := range g.Bounds {
			bound, err := ParseBound(b, params, resolve)
			if err != nil {
				return nil, fmt.Errorf("impl %s, parameter %s: %w", id, g.Name, err)
			}
			gp.Bounds = append(gp.Bounds, bound)
		}
		generics[j] = gp
	}

	regions := make([]session.RegionParam, len(decl.Regions))
	for j, r := range decl.Regions {
		regions[j] = session.RegionParam{Name: r.Name, Outlives: r.Outlives}
	}

	if decl.Source == "" {
		return nil, fmt.Errorf("impl %s: missing source type", id)
	}
	selfTy, err := ParseType(decl.Source, params, resolve)
	if err != nil {
		return nil, fmt.Errorf("impl %s: source: %w", id, err)
	}
	var targetTy types.Type
	if decl.Target != "" {
		targetTy, err = ParseType(decl.Target, params, resolve)
		if err != nil {
			return nil, fmt.Errorf("impl %s: target: %w", id, err)
		}
	}

	return &session.ImplRecord{
		ID:         id,
		Capability: decl.Capability,
		SelfTy:     selfTy,
		TargetTy:   targetTy,
		Generics:   generics,
		Regions:    regions,
		Span:       decl.Span.toSpan(),
		SelfTySpan: decl.SelfSpan.toSpan(),
		CapSpan:    decl.CapSpan.toSpan(),
	}, nil
}

func paramSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
