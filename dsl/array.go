package dsl

import (
	tys "github.com/tyslab/tys"
)

// ArraySchema validates []any values element-wise against one element
// schema, after structural length/uniqueness checks.
type ArraySchema struct {
	base
	elem   tys.Schema
	coerce bool
	checks []sizeCheck
	unique bool
}

// Array returns a schema validating arrays of elem.
func Array(elem tys.Schema) *ArraySchema {
	return &ArraySchema{base: base{kind: tys.KindArray}, elem: elem}
}

func (s *ArraySchema) clone() *ArraySchema {
	c := *s
	c.opts = s.opts.clone()
	c.checks = append([]sizeCheck(nil), s.checks...)
	return &c
}

// Element returns the element schema.
func (s *ArraySchema) Element() tys.Schema { return s.elem }

// Async reports whether the element schema is async.
func (s *ArraySchema) Async() bool { return s.elem.Async() }

// Coerce accepts a set-shaped input and converts it to an array first.
func (s *ArraySchema) Coerce() *ArraySchema {
	c := s.clone()
	c.coerce = true
	return c
}

// FailFast sets the node-level abort-early preference.
func (s *ArraySchema) FailFast(on bool) *ArraySchema {
	c := s.clone()
	c.opts.failFast = &on
	return c
}

// Message overrides the message used for a given issue code on this node.
func (s *ArraySchema) Message(code, msg string) *ArraySchema {
	c := s.clone()
	c.opts.setMessage(code, msg)
	return c
}

// Min requires at least n elements. Adding it removes a previous Length.
func (s *ArraySchema) Min(n int, opts ...CheckOpt) *ArraySchema {
	cfg := applyCheckOpts(opts)
	c := s.clone()
	c.checks = dropSizeChecks(c.checks, chkSizeExact)
	c.checks = append(c.checks, sizeCheck{kind: chkSizeMin, n: n, inclusive: cfg.inclusive, msg: cfg.msg})
	return c
}

// Max allows at most n elements. Adding it removes a previous Length.
func (s *ArraySchema) Max(n int, opts ...CheckOpt) *ArraySchema {
	cfg := applyCheckOpts(opts)
	c := s.clone()
	c.checks = dropSizeChecks(c.checks, chkSizeExact)
	c.checks = append(c.checks, sizeCheck{kind: chkSizeMax, n: n, inclusive: cfg.inclusive, msg: cfg.msg})
	return c
}

// Length requires exactly n elements. Adding it removes previous Min/Max.
func (s *ArraySchema) Length(n int, opts ...CheckOpt) *ArraySchema {
	cfg := applyCheckOpts(opts)
	c := s.clone()
	c.checks = dropSizeChecks(c.checks, chkSizeMin, chkSizeMax)
	c.checks = append(c.checks, sizeCheck{kind: chkSizeExact, n: n, msg: cfg.msg})
	return c
}

// Unique requires structurally distinct elements.
func (s *ArraySchema) Unique() *ArraySchema {
	c := s.clone()
	c.unique = true
	return c
}

func (s *ArraySchema) ParseIn(pc *tys.ParseContext) tys.Result {
	if s.coerce {
		if m, ok := pc.Data().(map[any]struct{}); ok {
			pc.SetData(setToSlice(m))
		}
	}
	arr, ok := asAnySlice(pc.Data())
	if !ok {
		return invalidType(pc, "array", s.message(tys.CodeInvalidType))
	}
	pc.SetData(arr)

	before := len(pc.Issues())
	// Structural checks run before element validation; under fail-fast a
	// structural failure skips element validation entirely.
	for _, ck := range s.checks {
		if evalSizeCheck(ck, len(arr)) {
			continue
		}
		msg := ck.msg
		if msg == "" {
			msg = s.message(tys.CodeInvalidArray)
		}
		pc.AddIssue(tys.Issue{
			Code:    tys.CodeInvalidArray,
			Message: msg,
			Params:  map[string]any{"check": sizeCheckNames[ck.kind], "n": ck.n, "got": len(arr)},
		})
		if pc.FailFast() {
			return pc.Abort()
		}
	}
	if s.unique {
		for i := 1; i < len(arr); i++ {
			for j := 0; j < i; j++ {
				if structEqual(arr[i], arr[j]) {
					pc.AddIssue(tys.Issue{
						Code:    tys.CodeInvalidArray,
						Message: s.message(tys.CodeInvalidArray),
						Params:  map[string]any{"check": "unique", "first": j, "dup": i},
					})
					if pc.FailFast() {
						return pc.Abort()
					}
				}
			}
		}
	}

	out := make([]any, len(arr))
	if pc.Async() {
		branches := make([]*tys.ParseContext, len(arr))
		for i, el := range arr {
			branches[i] = pc.ChildBranch(s.elem, el, i)
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
			child := pc.Child(s.elem, el, i)
			res := s.elem.ParseIn(child)
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
