package dsl

import (
	"fmt"

	tys "github.com/tyslab/tys"
)

// EnumSchema accepts any of a fixed set of values, compared structurally.
type EnumSchema struct {
	base
	values []any
}

// Enum returns a schema accepting exactly the given values.
func Enum(values ...any) *EnumSchema {
	return &EnumSchema{base: base{kind: tys.KindEnum}, values: values}
}

// EnumOf builds an enum from a typed slice, which keeps call sites readable
// for string enums.
func EnumOf[T comparable](values ...T) *EnumSchema {
	vs := make([]any, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return Enum(vs...)
}

func (s *EnumSchema) clone() *EnumSchema {
	c := *s
	c.opts = s.opts.clone()
	c.values = append([]any(nil), s.values...)
	return &c
}

// Values returns the accepted values in declaration order.
func (s *EnumSchema) Values() []any { return append([]any(nil), s.values...) }

// FailFast sets the node-level abort-early preference.
func (s *EnumSchema) FailFast(on bool) *EnumSchema {
	c := s.clone()
	c.opts.failFast = &on
	return c
}

// Message overrides the message used for a given issue code on this node.
func (s *EnumSchema) Message(code, msg string) *EnumSchema {
	c := s.clone()
	c.opts.setMessage(code, msg)
	return c
}

func (s *EnumSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	v := pc.Data()
	for _, want := range s.values {
		if structEqual(v, want) {
			return tys.Valid(want)
		}
	}
	opts := make([]string, len(s.values))
	for i, want := range s.values {
		opts[i] = fmt.Sprintf("%v", want)
	}
	pc.AddIssue(tys.Issue{
		Code:    tys.CodeInvalidEnumValue,
		Message: s.message(tys.CodeInvalidEnumValue),
		Params:  map[string]any{"options": opts, "received": fmt.Sprintf("%v", v)},
	})
	return pc.Abort()
}
