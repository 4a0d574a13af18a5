package dsl

import (
	tys "github.com/tyslab/tys"
)

// wrapper is the shared shell for the pass-through variant nodes.
type wrapper struct {
	base
	inner tys.Schema
}

func (w wrapper) Unwrap() tys.Schema { return w.inner }
func (w wrapper) Async() bool        { return w.inner.Async() }

// OptionalSchema accepts Missing in place of the wrapped schema's input.
type OptionalSchema struct{ wrapper }

// Optional lets the wrapped schema also accept an absent value.
func Optional(inner tys.Schema) *OptionalSchema {
	return &OptionalSchema{wrapper{base{kind: tys.KindOptional}, inner}}
}

func (s *OptionalSchema) Meta() tys.Meta {
	m := s.inner.Meta()
	m.Optional = true
	return m
}

func (s *OptionalSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	if tys.IsMissing(pc.Data()) {
		return tys.Valid(tys.Missing)
	}
	return s.inner.ParseIn(pc.Sibling(s.inner))
}

// NullableSchema accepts nil in place of the wrapped schema's input.
type NullableSchema struct{ wrapper }

// Nullable lets the wrapped schema also accept null.
func Nullable(inner tys.Schema) *NullableSchema {
	return &NullableSchema{wrapper{base{kind: tys.KindNullable}, inner}}
}

func (s *NullableSchema) Meta() tys.Meta {
	m := s.inner.Meta()
	m.Nullable = true
	return m
}

func (s *NullableSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	if pc.Data() == nil {
		return tys.Valid(nil)
	}
	return s.inner.ParseIn(pc.Sibling(s.inner))
}

// RequiredSchema rejects Missing before delegating, undoing an inner
// Optional.
type RequiredSchema struct{ wrapper }

// Required makes an absent value a fatal issue.
func Required(inner tys.Schema) *RequiredSchema {
	return &RequiredSchema{wrapper{base{kind: tys.KindRequired}, inner}}
}

// Message overrides the message used for a given issue code on this node.
func (s *RequiredSchema) Message(code, msg string) *RequiredSchema {
	c := *s
	c.opts = s.opts.clone()
	c.opts.setMessage(code, msg)
	return &c
}

func (s *RequiredSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	if tys.IsMissing(pc.Data()) {
		pc.AddIssue(tys.Issue{
			Code:    tys.CodeRequired,
			Message: s.message(tys.CodeRequired),
		})
		return pc.Abort()
	}
	inner := s.inner
	// Required(Optional(x)) validates against x, never against the
	// absence-tolerant wrapper.
	if o, ok := inner.(*OptionalSchema); ok {
		inner = o.Unwrap()
	}
	return inner.ParseIn(pc.Sibling(inner))
}

// ReadonlySchema is a pass-through marker; Go values carry no runtime
// frozen-ness, so the flag only surfaces through Meta.
type ReadonlySchema struct{ wrapper }

// Readonly marks the wrapped schema's output as immutable by convention.
func Readonly(inner tys.Schema) *ReadonlySchema {
	return &ReadonlySchema{wrapper{base{kind: tys.KindReadonly}, inner}}
}

func (s *ReadonlySchema) Meta() tys.Meta {
	m := s.inner.Meta()
	m.Readonly = true
	return m
}

func (s *ReadonlySchema) ParseIn(pc *tys.ParseContext) tys.Result {
	return s.inner.ParseIn(pc.Sibling(s.inner))
}

// BrandSchema is a nominal-typing marker with no runtime behavior.
type BrandSchema struct {
	wrapper
	name string
}

// Brand tags the wrapped schema with a nominal brand name.
func Brand(inner tys.Schema, name string) *BrandSchema {
	return &BrandSchema{wrapper{base{kind: tys.KindBrand}, inner}, name}
}

// BrandName returns the nominal tag.
func (s *BrandSchema) BrandName() string { return s.name }

func (s *BrandSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	return s.inner.ParseIn(pc.Sibling(s.inner))
}
