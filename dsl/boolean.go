package dsl

import (
	"strings"

	tys "github.com/tyslab/tys"
)

// BoolSchema validates boolean values.
type BoolSchema struct {
	base
	coerce bool
}

// Bool returns a new bool schema node.
func Bool() *BoolSchema {
	return &BoolSchema{base: base{kind: tys.KindBool}}
}

func (s *BoolSchema) clone() *BoolSchema {
	c := *s
	c.opts = s.opts.clone()
	return &c
}

// Coerce enables conversion from "true"/"false" strings and numbers.
func (s *BoolSchema) Coerce() *BoolSchema {
	c := s.clone()
	c.coerce = true
	return c
}

// FailFast sets the node-level abort-early preference.
func (s *BoolSchema) FailFast(on bool) *BoolSchema {
	c := s.clone()
	c.opts.failFast = &on
	return c
}

// Message overrides the message used for a given issue code on this node.
func (s *BoolSchema) Message(code, msg string) *BoolSchema {
	c := s.clone()
	c.opts.setMessage(code, msg)
	return c
}

func (s *BoolSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	if s.coerce {
		pc.SetData(coerceBool(pc.Data()))
	}
	v, ok := pc.Data().(bool)
	if !ok {
		return invalidType(pc, "bool", s.message(tys.CodeInvalidType))
	}
	return tys.Valid(v)
}

func coerceBool(v any) any {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "1":
			return true
		case "false", "0":
			return false
		}
		return v
	}
	if f, ok := toFloat(v); ok {
		return f != 0
	}
	return v
}
