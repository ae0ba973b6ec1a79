package pipeline

import "github.com/rill-lang/rill/internal/session"

// PipelineContext is threaded through every stage of a pass run. Ordinary
// problems land in the session's diagnostic sink; Fatal is reserved for
// configuration errors that abort the whole session.
type PipelineContext struct {
	Session *session.Context
	Fatal   error
}

func NewPipelineContext(sess *session.Context) *PipelineContext {
	return &PipelineContext{Session: sess}
}

// Processor is one stage of a pass.
type Processor interface {
	Process(*PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Stages keep running after diagnostics so a
// single run collects everything; only a fatal configuration error stops
// the sequence.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		if ctx.Fatal != nil {
			return ctx
		}
	}
	return ctx
}
