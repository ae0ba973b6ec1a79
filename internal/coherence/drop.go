package coherence

import (
	"github.com/rill-lang/rill/internal/diagnostics"
	"github.com/rill-lang/rill/internal/session"
	"github.com/rill-lang/rill/internal/types"
)

// visitDropImpl checks one destructor implementation. Destructors only work
// on ADT types defined in the current compilation unit; everything else is
// rejected at the self-type span. Unresolved types are silently accepted to
// avoid cascading diagnostics.
func visitDropImpl(_ *session.Context, rec *session.ImplRecord, out *diagnostics.Sink) {
	switch t := rec.SelfTy.(type) {
	case types.TAdt:
		if t.Def.Local {
			return
		}
	case types.TErr:
		return
	}

	out.Emit(diagnostics.DropOnWrongItem{SelfTySpan: rec.SelfTySpan})
}
