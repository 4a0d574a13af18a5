package dsl

import (
	"time"

	tys "github.com/tyslab/tys"
)

// IntersectionSchema validates the input against every member, then
// structurally merges the member outputs. A merge conflict among outputs
// that each validated fine is its own fatal issue.
type IntersectionSchema struct {
	base
	members []tys.Schema
}

// Intersection returns a schema requiring every member to accept the input.
func Intersection(members ...tys.Schema) *IntersectionSchema {
	return &IntersectionSchema{base: base{kind: tys.KindIntersection}, members: members}
}

func (s *IntersectionSchema) clone() *IntersectionSchema {
	c := *s
	c.opts = s.opts.clone()
	c.members = append([]tys.Schema(nil), s.members...)
	return &c
}

// Members returns the member schemas in declaration order.
func (s *IntersectionSchema) Members() []tys.Schema { return append([]tys.Schema(nil), s.members...) }

// Async reports whether any member is async.
func (s *IntersectionSchema) Async() bool {
	for _, m := range s.members {
		if m.Async() {
			return true
		}
	}
	return false
}

// FailFast sets the node-level abort-early preference.
func (s *IntersectionSchema) FailFast(on bool) *IntersectionSchema {
	c := s.clone()
	c.opts.failFast = &on
	return c
}

// Message overrides the message used for a given issue code on this node.
func (s *IntersectionSchema) Message(code, msg string) *IntersectionSchema {
	c := s.clone()
	c.opts.setMessage(code, msg)
	return c
}

func (s *IntersectionSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	if len(s.members) == 0 {
		return tys.Valid(pc.Data())
	}

	branches := make([]*tys.ParseContext, len(s.members))
	for i, m := range s.members {
		branches[i] = pc.Branch(m, pc.Data())
	}
	results := runBranches(pc, branches)
	if absorbBranches(pc, branches, results) {
		return tys.Invalid()
	}

	merged := results[0].Value
	for i := 1; i < len(results); i++ {
		next, ok := mergeValues(merged, results[i].Value)
		if !ok {
			pc.AddIssue(tys.Issue{
				Code:    tys.CodeInvalidIntersection,
				Message: s.message(tys.CodeInvalidIntersection),
				Params:  map[string]any{"member": i},
			})
			return pc.Abort()
		}
		merged = next
	}
	return tys.Valid(merged)
}

// mergeValues structurally intersects two member outputs. Equal scalars
// intersect to themselves, objects merge key-by-key with shared keys merged
// recursively, arrays merge element-wise only when lengths match.
func mergeValues(a, b any) (any, bool) {
	if tys.IsMissing(a) {
		return b, true
	}
	if tys.IsMissing(b) {
		return a, true
	}
	switch x := a.(type) {
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok {
			return nil, false
		}
		out := make(map[string]any, len(x)+len(y))
		for k, v := range x {
			out[k] = v
		}
		for k, v := range y {
			if xv, shared := out[k]; shared {
				mv, mok := mergeValues(xv, v)
				if !mok {
					return nil, false
				}
				out[k] = mv
				continue
			}
			out[k] = v
		}
		return out, true
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return nil, false
		}
		out := make([]any, len(x))
		for i := range x {
			mv, mok := mergeValues(x[i], y[i])
			if !mok {
				return nil, false
			}
			out[i] = mv
		}
		return out, true
	case time.Time:
		y, ok := b.(time.Time)
		if !ok || !x.Equal(y) {
			return nil, false
		}
		return x, true
	}
	if structEqual(a, b) {
		return a, true
	}
	return nil, false
}
