package dsl

import (
	"context"

	tys "github.com/tyslab/tys"
)

type effectKind int

const (
	effectPreprocess effectKind = iota
	effectRefine
	effectTransform
)

// MapFunc rewrites a value; it must be total.
type MapFunc func(ctx context.Context, v any) any

// Predicate decides whether a parsed value is acceptable.
type Predicate func(ctx context.Context, v any) bool

// EffectsSchema attaches a user function to a wrapped schema: a preprocess
// step before it, a refinement predicate after it, or a transform of its
// output.
type EffectsSchema struct {
	wrapper
	effect effectKind
	fn     MapFunc
	pred   Predicate
	msg    string
}

// Preprocess rewrites the input before the wrapped schema sees it.
func Preprocess(inner tys.Schema, fn MapFunc) *EffectsSchema {
	return &EffectsSchema{wrapper: wrapper{base{kind: tys.KindEffects}, inner}, effect: effectPreprocess, fn: fn}
}

// PreprocessAsync is Preprocess for functions that need the concurrent path.
func PreprocessAsync(inner tys.Schema, fn MapFunc) *EffectsSchema {
	s := Preprocess(inner, fn)
	s.async = true
	return s
}

// Refine rejects values the predicate declines, after the wrapped schema
// accepted them.
func Refine(inner tys.Schema, pred Predicate, opts ...CheckOpt) *EffectsSchema {
	cfg := applyCheckOpts(opts)
	return &EffectsSchema{wrapper: wrapper{base{kind: tys.KindEffects}, inner}, effect: effectRefine, pred: pred, msg: cfg.msg}
}

// RefineAsync is Refine for predicates that need the concurrent path.
func RefineAsync(inner tys.Schema, pred Predicate, opts ...CheckOpt) *EffectsSchema {
	s := Refine(inner, pred, opts...)
	s.async = true
	return s
}

// Transform rewrites the wrapped schema's output.
func Transform(inner tys.Schema, fn MapFunc) *EffectsSchema {
	return &EffectsSchema{wrapper: wrapper{base{kind: tys.KindEffects}, inner}, effect: effectTransform, fn: fn}
}

// TransformAsync is Transform for functions that need the concurrent path.
func TransformAsync(inner tys.Schema, fn MapFunc) *EffectsSchema {
	s := Transform(inner, fn)
	s.async = true
	return s
}

// Async reports whether this effect or the wrapped schema is async.
func (s *EffectsSchema) Async() bool { return s.async || s.inner.Async() }

func (s *EffectsSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	switch s.effect {
	case effectPreprocess:
		pc.SetData(s.fn(pc.Ctx(), pc.Data()))
		return s.inner.ParseIn(pc.Sibling(s.inner))
	case effectTransform:
		res := s.inner.ParseIn(pc.Sibling(s.inner))
		if res.Status != tys.StatusValid {
			return res
		}
		return tys.Valid(s.fn(pc.Ctx(), res.Value))
	default:
		res := s.inner.ParseIn(pc.Sibling(s.inner))
		if res.Status != tys.StatusValid {
			return res
		}
		if !s.pred(pc.Ctx(), res.Value) {
			pc.AddIssue(tys.Issue{Code: tys.CodeCustom, Message: s.msg})
			return pc.Abort()
		}
		return res
	}
}
