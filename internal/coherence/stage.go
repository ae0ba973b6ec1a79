package coherence

import "github.com/rill-lang/rill/internal/pipeline"

// stage adapts one capability check to a pipeline processor.
type stage struct {
	checker    Checker
	capability string
}

func (s stage) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if err := s.checker.CheckCapability(ctx.Session, s.capability); err != nil {
		ctx.Fatal = err
	}
	return ctx
}

// Stage returns a pipeline processor that checks one capability.
func Stage(checker Checker, capability string) pipeline.Processor {
	return stage{checker: checker, capability: capability}
}
