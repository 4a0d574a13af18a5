package dsl

import (
	tys "github.com/tyslab/tys"
)

// PipelineSchema chains two stages: the from schema must fully succeed
// before its output becomes the to schema's input. A from failure
// short-circuits without ever invoking to.
type PipelineSchema struct {
	base
	from tys.Schema
	to   tys.Schema
}

// Pipe returns a schema running from, then to on from's output.
func Pipe(from, to tys.Schema) *PipelineSchema {
	return &PipelineSchema{base: base{kind: tys.KindPipeline}, from: from, to: to}
}

func (s *PipelineSchema) clone() *PipelineSchema {
	c := *s
	c.opts = s.opts.clone()
	return &c
}

// From returns the first stage.
func (s *PipelineSchema) From() tys.Schema { return s.from }

// To returns the second stage.
func (s *PipelineSchema) To() tys.Schema { return s.to }

// Async reports whether either stage is async.
func (s *PipelineSchema) Async() bool { return s.from.Async() || s.to.Async() }

// FailFast sets the node-level abort-early preference.
func (s *PipelineSchema) FailFast(on bool) *PipelineSchema {
	c := s.clone()
	c.opts.failFast = &on
	return c
}

// Message overrides the message used for a given issue code on this node.
func (s *PipelineSchema) Message(code, msg string) *PipelineSchema {
	c := s.clone()
	c.opts.setMessage(code, msg)
	return c
}

func (s *PipelineSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	before := len(pc.Issues())
	fromCtx := pc.Sibling(s.from)
	res := s.from.ParseIn(fromCtx)
	if res.Status != tys.StatusValid || len(pc.Issues()) > before {
		return tys.Invalid()
	}
	toCtx := pc.Sibling(s.to)
	toCtx.SetData(res.Value)
	return s.to.ParseIn(toCtx)
}
