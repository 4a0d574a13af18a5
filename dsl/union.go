package dsl

import (
	"fmt"

	tys "github.com/tyslab/tys"
)

// UnionSchema tries members against the same input in declared order until
// one succeeds. With a discriminator it jumps straight to the single member
// whose tag literal matches.
type UnionSchema struct {
	base
	members []tys.Schema
	tag     string
}

// Union returns a schema accepting any of the member schemas.
func Union(members ...tys.Schema) *UnionSchema {
	return &UnionSchema{base: base{kind: tys.KindUnion}, members: members}
}

func (s *UnionSchema) clone() *UnionSchema {
	c := *s
	c.opts = s.opts.clone()
	c.members = append([]tys.Schema(nil), s.members...)
	return &c
}

// Members returns the member schemas in declaration order.
func (s *UnionSchema) Members() []tys.Schema { return append([]tys.Schema(nil), s.members...) }

// Async reports whether any member is async.
func (s *UnionSchema) Async() bool {
	for _, m := range s.members {
		if m.Async() {
			return true
		}
	}
	return false
}

// Discriminator selects the member by the tag field's literal value instead
// of trying every member. Each member must be an object schema declaring the
// tag field as a literal or enum.
func (s *UnionSchema) Discriminator(field string) *UnionSchema {
	c := s.clone()
	c.tag = field
	return c
}

// FailFast sets the node-level abort-early preference.
func (s *UnionSchema) FailFast(on bool) *UnionSchema {
	c := s.clone()
	c.opts.failFast = &on
	return c
}

// Message overrides the message used for a given issue code on this node.
func (s *UnionSchema) Message(code, msg string) *UnionSchema {
	c := s.clone()
	c.opts.setMessage(code, msg)
	return c
}

// tagValues extracts the discriminator literals a member answers to, looking
// through wrapper chains to the object's tag field.
func tagValues(member tys.Schema, field string) []any {
	obj, ok := unwrapAll(member).(*ObjectSchema)
	if !ok {
		return nil
	}
	fs, ok := obj.FieldSchema(field)
	if !ok {
		return nil
	}
	switch t := unwrapAll(fs).(type) {
	case *LiteralSchema:
		return []any{t.Value()}
	case *EnumSchema:
		return t.Values()
	}
	return nil
}

func unwrapAll(s tys.Schema) tys.Schema {
	for {
		w, ok := s.(tys.Unwrapper)
		if !ok {
			return s
		}
		s = w.Unwrap()
	}
}

func (s *UnionSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	if s.tag != "" {
		return s.parseDiscriminated(pc)
	}
	if pc.Async() {
		return s.parseConcurrent(pc)
	}

	// Sequential trial. The first success returns before any later member
	// runs, so effect functions on untried members never fire.
	nested := make([]tys.Issues, 0, len(s.members))
	for _, m := range s.members {
		bc := pc.Branch(m, pc.Data())
		res := m.ParseIn(bc)
		if res.Status == tys.StatusValid && bc.IsValid() {
			return res
		}
		nested = append(nested, bc.TakeIssues())
	}
	return s.failUnion(pc, nested)
}

// parseConcurrent fans the members out through branch contexts. Selection
// still follows declaration order, never completion order, so on this path
// members past the winner may have run.
func (s *UnionSchema) parseConcurrent(pc *tys.ParseContext) tys.Result {
	branches := make([]*tys.ParseContext, len(s.members))
	for i, m := range s.members {
		branches[i] = pc.Branch(m, pc.Data())
	}
	results := runBranches(pc, branches)

	for i, r := range results {
		if r.Status == tys.StatusValid && branches[i].IsValid() {
			return r
		}
	}

	nested := make([]tys.Issues, len(branches))
	for i, bc := range branches {
		nested[i] = bc.TakeIssues()
	}
	return s.failUnion(pc, nested)
}

func (s *UnionSchema) failUnion(pc *tys.ParseContext, nested []tys.Issues) tys.Result {
	pc.AddIssue(tys.Issue{
		Code:    tys.CodeInvalidUnion,
		Message: s.message(tys.CodeInvalidUnion),
		Params:  map[string]any{"members": len(s.members)},
		Nested:  nested,
	})
	return pc.Abort()
}

func (s *UnionSchema) parseDiscriminated(pc *tys.ParseContext) tys.Result {
	m, ok := pc.Data().(map[string]any)
	if !ok {
		return invalidType(pc, "object", s.message(tys.CodeInvalidType))
	}
	tag, present := m[s.tag]
	if !present {
		pc.AddIssue(tys.Issue{
			Code:    tys.CodeDiscriminatorMissing,
			Message: s.message(tys.CodeDiscriminatorMissing),
			Params:  map[string]any{"field": s.tag},
		})
		return pc.Abort()
	}
	for _, member := range s.members {
		for _, want := range tagValues(member, s.tag) {
			if structEqual(tag, want) {
				branch := pc.Sibling(member)
				return member.ParseIn(branch)
			}
		}
	}
	pc.AddIssue(tys.Issue{
		Code:    tys.CodeDiscriminatorUnknown,
		Message: s.message(tys.CodeDiscriminatorUnknown),
		Params:  map[string]any{"field": s.tag, "received": fmt.Sprintf("%v", tag)},
	})
	return pc.Abort()
}
