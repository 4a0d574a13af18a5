package dsl

import (
	tys "github.com/tyslab/tys"
)

// LazySchema defers construction of the wrapped schema until parse time,
// which is what makes self-referential schemas expressible.
type LazySchema struct {
	base
	factory func() tys.Schema
}

// Lazy returns a schema built by factory on every parse. The factory is
// never memoized; it must be cheap and side-effect free.
func Lazy(factory func() tys.Schema) *LazySchema {
	return &LazySchema{base: base{kind: tys.KindLazy}, factory: factory}
}

// Unwrap resolves the factory once for introspection.
func (s *LazySchema) Unwrap() tys.Schema { return s.factory() }

// Async is pinned to false: resolving the factory here would recurse forever
// on self-referential schemas. Async effects inside a lazy subtree must be
// declared via an outer async wrapper instead.
func (s *LazySchema) Async() bool { return false }

func (s *LazySchema) ParseIn(pc *tys.ParseContext) tys.Result {
	inner := s.factory()
	return inner.ParseIn(pc.Sibling(inner))
}
