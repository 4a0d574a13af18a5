package dsl

import (
	"fmt"

	tys "github.com/tyslab/tys"
)

// LiteralSchema accepts exactly one value, compared structurally.
type LiteralSchema struct {
	base
	value any
}

// Literal returns a schema accepting only the given value.
func Literal(v any) *LiteralSchema {
	return &LiteralSchema{base: base{kind: tys.KindLiteral}, value: v}
}

func (s *LiteralSchema) clone() *LiteralSchema {
	c := *s
	c.opts = s.opts.clone()
	return &c
}

// Value returns the literal this schema accepts.
func (s *LiteralSchema) Value() any { return s.value }

// FailFast sets the node-level abort-early preference.
func (s *LiteralSchema) FailFast(on bool) *LiteralSchema {
	c := s.clone()
	c.opts.failFast = &on
	return c
}

// Message overrides the message used for a given issue code on this node.
func (s *LiteralSchema) Message(code, msg string) *LiteralSchema {
	c := s.clone()
	c.opts.setMessage(code, msg)
	return c
}

func (s *LiteralSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	v := pc.Data()
	// structEqual normalizes numeric forms, so Literal(1) accepts 1.0.
	if !structEqual(v, s.value) {
		pc.AddIssue(tys.Issue{
			Code:    tys.CodeInvalidLiteral,
			Message: s.message(tys.CodeInvalidLiteral),
			Params: map[string]any{
				"expected": fmt.Sprintf("%v", s.value),
				"received": fmt.Sprintf("%v", v),
			},
		})
		return pc.Abort()
	}
	return tys.Valid(s.value)
}
