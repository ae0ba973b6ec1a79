package session

import (
	"fmt"
	"sync"

	"github.com/rill-lang/rill/internal/config"
	"github.com/rill-lang/rill/internal/diagnostics"
	"github.com/rill-lang/rill/internal/types"
)

// CapabilityID identifies a registered built-in capability in the lang-item
// table.
type CapabilityID string

// FatalConfigError signals that a capability this pass unconditionally
// depends on is not registered. It is the only unrecoverable error of the
// pass: the driver aborts the whole compilation session.
type FatalConfigError struct {
	Capability string
}

func (e *FatalConfigError) Error() string {
	return fmt.Sprintf("requires the `%s` lang item, which is not registered", e.Capability)
}

// WidenKind records, for an ADT-to-ADT widening implementation, which field
// is the one that widens. Consumed by later codegen.
type WidenKind struct {
	FieldIndex int
}

// Context is the explicit per-session compiler context: type tables,
// lang-item registry and the diagnostic sink. It replaces ambient global
// state; every validator receives it by reference. Its lifetime equals one
// compilation session.
type Context struct {
	Diags *diagnostics.Sink

	adts      map[string]*types.AdtDef
	langItems map[string]CapabilityID
	impls     map[string][]*ImplRecord
	dtors     map[*types.AdtDef]*ImplRecord

	widenMu   sync.Mutex
	widenInfo map[string]WidenKind
}

// NewContext creates an empty session context with the canonical phantom
// marker pre-registered.
func NewContext() *Context {
	ctx := &Context{
		Diags:     diagnostics.NewSink(),
		adts:      make(map[string]*types.AdtDef),
		langItems: make(map[string]CapabilityID),
		impls:     make(map[string][]*ImplRecord),
		dtors:     make(map[*types.AdtDef]*ImplRecord),
		widenInfo: make(map[string]WidenKind),
	}
	ctx.RegisterAdt(types.PhantomDef())
	return ctx
}

// RegisterLangItem binds a capability name in the lang-item table.
func (c *Context) RegisterLangItem(name string) {
	c.langItems[name] = CapabilityID(name)
}

// LangItem looks a capability up in the lang-item table.
func (c *Context) LangItem(name string) (CapabilityID, bool) {
	id, ok := c.langItems[name]
	return id, ok
}

// RequireLangItem returns a fatal configuration error when the capability
// is absent. Callers propagate the error unchanged; nothing retries it.
func (c *Context) RequireLangItem(name string) (CapabilityID, error) {
	id, ok := c.langItems[name]
	if !ok {
		return "", &FatalConfigError{Capability: name}
	}
	return id, nil
}

// RegisterAdt adds a definition to the type table, keyed by path.
func (c *Context) RegisterAdt(def *types.AdtDef) {
	c.adts[def.Path()] = def
}

// LookupAdt finds a definition by its fully qualified path.
func (c *Context) LookupAdt(path string) (*types.AdtDef, bool) {
	def, ok := c.adts[path]
	return def, ok
}

// AdtDefs returns the registered definitions, unordered.
func (c *Context) AdtDefs() map[string]*types.AdtDef {
	return c.adts
}

// RegisterImpl appends a record to the registry of its capability.
// Destructor implementations on ADTs additionally populate the destructor
// lookup used by the copy eligibility judgment.
func (c *Context) RegisterImpl(rec *ImplRecord) {
	c.impls[rec.Capability] = append(c.impls[rec.Capability], rec)
	if rec.Capability == config.DropCapName {
		if adt, ok := rec.SelfTy.(types.TAdt); ok {
			c.dtors[adt.Def] = rec
		}
	}
}

// RecordsFor returns the implementation records registered against a
// capability, in registration order.
func (c *Context) RecordsFor(capability string) []*ImplRecord {
	return c.impls[capability]
}

// HasDestructor reports whether a destructor implementation is registered
// for the definition.
func (c *Context) HasDestructor(def *types.AdtDef) bool {
	_, ok := c.dtors[def]
	return ok
}

// SetWidenInfo memoizes the widening kind computed for an implementation.
func (c *Context) SetWidenInfo(implID string, kind WidenKind) {
	c.widenMu.Lock()
	defer c.widenMu.Unlock()
	c.widenInfo[implID] = kind
}

// WidenInfo returns the memoized widening kind for an implementation.
func (c *Context) WidenInfo(implID string) (WidenKind, bool) {
	c.widenMu.Lock()
	defer c.widenMu.Unlock()
	k, ok := c.widenInfo[implID]
	return k, ok
}
