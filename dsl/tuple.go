package dsl

import (
	tys "github.com/tyslab/tys"
)

// TupleSchema validates fixed-position arrays: element i is checked against
// item schema i. A trailing Rest schema absorbs any extra elements.
type TupleSchema struct {
	base
	items []tys.Schema
	rest  tys.Schema
}

// Tuple returns a schema validating positional arrays.
func Tuple(items ...tys.Schema) *TupleSchema {
	return &TupleSchema{base: base{kind: tys.KindTuple}, items: items}
}

func (s *TupleSchema) clone() *TupleSchema {
	c := *s
	c.opts = s.opts.clone()
	c.items = append([]tys.Schema(nil), s.items...)
	return &c
}

// Items returns the positional item schemas.
func (s *TupleSchema) Items() []tys.Schema { return s.items }

// Async reports whether any item or the rest schema is async.
func (s *TupleSchema) Async() bool {
	for _, it := range s.items {
		if it.Async() {
			return true
		}
	}
	return s.rest != nil && s.rest.Async()
}

// Rest lets the tuple accept extra trailing elements validated against r.
func (s *TupleSchema) Rest(r tys.Schema) *TupleSchema {
	c := s.clone()
	c.rest = r
	return c
}

// FailFast sets the node-level abort-early preference.
func (s *TupleSchema) FailFast(on bool) *TupleSchema {
	c := s.clone()
	c.opts.failFast = &on
	return c
}

// Message overrides the message used for a given issue code on this node.
func (s *TupleSchema) Message(code, msg string) *TupleSchema {
	c := s.clone()
	c.opts.setMessage(code, msg)
	return c
}

func (s *TupleSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	arr, ok := asAnySlice(pc.Data())
	if !ok {
		return invalidType(pc, "tuple", s.message(tys.CodeInvalidType))
	}
	pc.SetData(arr)

	// Arity mismatch is structural and always fatal, like a type mismatch.
	if len(arr) < len(s.items) || (s.rest == nil && len(arr) > len(s.items)) {
		msg := s.message(tys.CodeInvalidTuple)
		pc.AddIssue(tys.Issue{
			Code:    tys.CodeInvalidTuple,
			Message: msg,
			Params:  map[string]any{"expected": len(s.items), "got": len(arr), "rest": s.rest != nil},
		})
		return pc.Abort()
	}

	schemaAt := func(i int) tys.Schema {
		if i < len(s.items) {
			return s.items[i]
		}
		return s.rest
	}

	before := len(pc.Issues())
	out := make([]any, len(arr))
	if pc.Async() {
		branches := make([]*tys.ParseContext, len(arr))
		for i, el := range arr {
			branches[i] = pc.ChildBranch(schemaAt(i), el, i)
		}
		results := runBranches(pc, branches)
		if absorbBranches(pc, branches, results) && pc.FailFast() {
			return tys.Invalid()
		}
		for i, r := range results {
			if r.Status == tys.StatusValid {
				out[i] = r.Value
			}
		}
	} else {
		for i, el := range arr {
			item := schemaAt(i)
			child := pc.Child(item, el, i)
			res := item.ParseIn(child)
			if res.Status == tys.StatusValid {
				out[i] = res.Value
			}
			if halted(pc) {
				return tys.Invalid()
			}
		}
	}

	if len(pc.Issues()) > before {
		return tys.Invalid()
	}
	return tys.Valid(out)
}
