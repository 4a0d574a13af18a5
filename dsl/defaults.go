package dsl

import (
	tys "github.com/tyslab/tys"
)

// DefaultSchema substitutes a default for an absent value, then delegates.
// Null passes through to the wrapped schema untouched.
type DefaultSchema struct {
	wrapper
	value   any
	produce func() any
}

// Default substitutes v when the input is absent.
func Default(inner tys.Schema, v any) *DefaultSchema {
	return &DefaultSchema{wrapper: wrapper{base{kind: tys.KindDefault}, inner}, value: v}
}

// DefaultFunc invokes produce for every absent input, so mutable defaults
// (slices, maps) are never shared between parses.
func DefaultFunc(inner tys.Schema, produce func() any) *DefaultSchema {
	return &DefaultSchema{wrapper: wrapper{base{kind: tys.KindDefault}, inner}, produce: produce}
}

func (s *DefaultSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	if tys.IsMissing(pc.Data()) {
		v := s.value
		if s.produce != nil {
			v = s.produce()
		}
		pc.SetData(v)
	}
	return s.inner.ParseIn(pc.Sibling(s.inner))
}

// CatchSchema replaces any failure of the wrapped schema with a fallback
// value. The failed branch's issues are discarded.
type CatchSchema struct {
	wrapper
	value   any
	produce func() any
}

// Catch substitutes v whenever the wrapped schema fails.
func Catch(inner tys.Schema, v any) *CatchSchema {
	return &CatchSchema{wrapper: wrapper{base{kind: tys.KindCatch}, inner}, value: v}
}

// CatchFunc invokes produce for every swallowed failure.
func CatchFunc(inner tys.Schema, produce func() any) *CatchSchema {
	return &CatchSchema{wrapper: wrapper{base{kind: tys.KindCatch}, inner}, produce: produce}
}

func (s *CatchSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	branch := pc.Branch(s.inner, pc.Data())
	res := s.inner.ParseIn(branch)
	if res.Status == tys.StatusValid && branch.IsValid() {
		return res
	}
	v := s.value
	if s.produce != nil {
		v = s.produce()
	}
	return tys.Valid(v)
}
