package dsl

import (
	tys "github.com/tyslab/tys"
)

// SetSchema validates collections of structurally distinct elements. Go has
// no general set literal, so input is a slice whose elements must be unique
// (or, with coercion, a map[any]struct{}); output is []any in
// first-occurrence order.
type SetSchema struct {
	base
	elem   tys.Schema
	coerce bool
	checks []sizeCheck
}

// Set returns a schema validating sets of elem.
func Set(elem tys.Schema) *SetSchema {
	return &SetSchema{base: base{kind: tys.KindSet}, elem: elem}
}

func (s *SetSchema) clone() *SetSchema {
	c := *s
	c.opts = s.opts.clone()
	c.checks = append([]sizeCheck(nil), s.checks...)
	return &c
}

// Element returns the element schema.
func (s *SetSchema) Element() tys.Schema { return s.elem }

// Async reports whether the element schema is async.
func (s *SetSchema) Async() bool { return s.elem.Async() }

// Coerce accepts a map-shaped set and converts it to a slice first.
func (s *SetSchema) Coerce() *SetSchema {
	c := s.clone()
	c.coerce = true
	return c
}

// FailFast sets the node-level abort-early preference.
func (s *SetSchema) FailFast(on bool) *SetSchema {
	c := s.clone()
	c.opts.failFast = &on
	return c
}

// Message overrides the message used for a given issue code on this node.
func (s *SetSchema) Message(code, msg string) *SetSchema {
	c := s.clone()
	c.opts.setMessage(code, msg)
	return c
}

// Min requires at least n elements. Adding it removes a previous Size.
func (s *SetSchema) Min(n int, opts ...CheckOpt) *SetSchema {
	cfg := applyCheckOpts(opts)
	c := s.clone()
	c.checks = dropSizeChecks(c.checks, chkSizeExact)
	c.checks = append(c.checks, sizeCheck{kind: chkSizeMin, n: n, inclusive: cfg.inclusive, msg: cfg.msg})
	return c
}

// Max allows at most n elements. Adding it removes a previous Size.
func (s *SetSchema) Max(n int, opts ...CheckOpt) *SetSchema {
	cfg := applyCheckOpts(opts)
	c := s.clone()
	c.checks = dropSizeChecks(c.checks, chkSizeExact)
	c.checks = append(c.checks, sizeCheck{kind: chkSizeMax, n: n, inclusive: cfg.inclusive, msg: cfg.msg})
	return c
}

// Size requires exactly n elements. Adding it removes previous Min/Max.
func (s *SetSchema) Size(n int, opts ...CheckOpt) *SetSchema {
	cfg := applyCheckOpts(opts)
	c := s.clone()
	c.checks = dropSizeChecks(c.checks, chkSizeMin, chkSizeMax)
	c.checks = append(c.checks, sizeCheck{kind: chkSizeExact, n: n, msg: cfg.msg})
	return c
}

func (s *SetSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	if s.coerce {
		if m, ok := pc.Data().(map[any]struct{}); ok {
			pc.SetData(setToSlice(m))
		}
	}
	arr, ok := asAnySlice(pc.Data())
	if !ok {
		return invalidType(pc, "set", s.message(tys.CodeInvalidType))
	}
	pc.SetData(arr)

	before := len(pc.Issues())
	for _, ck := range s.checks {
		if evalSizeCheck(ck, len(arr)) {
			continue
		}
		msg := ck.msg
		if msg == "" {
			msg = s.message(tys.CodeInvalidSet)
		}
		pc.AddIssue(tys.Issue{
			Code:    tys.CodeInvalidSet,
			Message: msg,
			Params:  map[string]any{"check": sizeCheckNames[ck.kind], "n": ck.n, "got": len(arr)},
		})
		if pc.FailFast() {
			return pc.Abort()
		}
	}
	// Uniqueness is intrinsic to the set variant, not an opt-in check.
	for i := 1; i < len(arr); i++ {
		for j := 0; j < i; j++ {
			if structEqual(arr[i], arr[j]) {
				pc.AddIssue(tys.Issue{
					Code:    tys.CodeInvalidSet,
					Message: s.message(tys.CodeInvalidSet),
					Params:  map[string]any{"check": "unique", "first": j, "dup": i},
				})
				if pc.FailFast() {
					return pc.Abort()
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
