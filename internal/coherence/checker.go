package coherence

import (
	"sync"

	"github.com/rill-lang/rill/internal/config"
	"github.com/rill-lang/rill/internal/diagnostics"
	"github.com/rill-lang/rill/internal/session"
)

// Checker drives the coherence pass over one capability. Validators are
// independent, so records may be processed across parallel workers; each
// record's diagnostics are built to completion in a private sink and merged
// back in registration order, keeping output byte-stable.
type Checker struct {
	Parallel bool
	Workers  int
}

// CheckCapability validates every implementation record registered against
// the named capability. It is the outward interface of the pass, invoked
// once per capability by the driver after record registration and before
// code generation. Ordinary problems become diagnostics on the session
// sink; the only returned error is the fatal configuration error for a
// missing unconditionally-required lang item.
func CheckCapability(ctx *session.Context, capability string) error {
	return Checker{}.CheckCapability(ctx, capability)
}

func (c Checker) CheckCapability(ctx *session.Context, capability string) error {
	switch capability {
	case config.DropCapName:
		// Optional lang item: a build without destructors simply has
		// nothing to check.
		if _, ok := ctx.LangItem(config.DropCapName); !ok {
			return nil
		}
		c.visitAll(ctx, config.DropCapName, func(ctx *session.Context, rec *session.ImplRecord, out *diagnostics.Sink) {
			visitDropImpl(ctx, rec, out)
		})
	case config.CopyCapName:
		if _, ok := ctx.LangItem(config.CopyCapName); !ok {
			return nil
		}
		c.visitAll(ctx, config.CopyCapName, visitCopyImpl)
	case config.WidenCapName:
		// Widening is a bootstrapping invariant: both the capability and
		// its unsizing companion must be registered before this pass runs.
		if _, err := ctx.RequireLangItem(config.WidenCapName); err != nil {
			return err
		}
		if _, err := ctx.RequireLangItem(config.UnsizeCapName); err != nil {
			return err
		}
		c.visitAll(ctx, config.WidenCapName, func(ctx *session.Context, rec *session.ImplRecord, out *diagnostics.Sink) {
			if kind, ok := visitWidenImpl(ctx, rec, out); ok {
				ctx.SetWidenInfo(rec.ID, kind)
			}
		})
	case config.DynAdaptCapName:
		if _, err := ctx.RequireLangItem(config.DynAdaptCapName); err != nil {
			return err
		}
		c.visitAll(ctx, config.DynAdaptCapName, visitDynAdaptImpl)
	}
	return nil
}

type visitor func(*session.Context, *session.ImplRecord, *diagnostics.Sink)

func (c Checker) visitAll(ctx *session.Context, capability string, visit visitor) {
	records := ctx.RecordsFor(capability)
	if !c.Parallel || len(records) < 2 {
		for _, rec := range records {
			visit(ctx, rec, ctx.Diags)
		}
		return
	}

	workers := c.Workers
	if workers <= 0 {
		workers = 4
	}

	// One private sink per record; merged in registration order after all
	// workers finish, so parallel runs emit identical output.
	outs := make([]*diagnostics.Sink, len(records))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out := diagnostics.NewSink()
				outs[i] = out
				visit(ctx, records[i], out)
			}
		}()
	}
	for i := range records {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, out := range outs {
		ctx.Diags.AppendAll(out.Diagnostics())
	}
}

// CheckAll runs the pass for the four built-in capabilities in their
// canonical order, stopping only on a fatal configuration error.
func (c Checker) CheckAll(ctx *session.Context) error {
	for _, capability := range []string{
		config.DropCapName,
		config.CopyCapName,
		config.WidenCapName,
		config.DynAdaptCapName,
	} {
		if err := c.CheckCapability(ctx, capability); err != nil {
			return err
		}
	}
	return nil
}
