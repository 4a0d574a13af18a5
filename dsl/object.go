package dsl

import (
	"sort"

	tys "github.com/tyslab/tys"
)

// objectField pairs a key with its schema; fields keep declaration order so
// collect-all issue emission is deterministic.
type objectField struct {
	name   string
	schema tys.Schema
}

// ObjectSchema validates map[string]any values field by field, then applies
// the unknown-key policy to input keys outside the declared shape.
type ObjectSchema struct {
	base
	fields   []objectField
	index    map[string]int
	policy   tys.UnknownPolicy
	catchall tys.Schema
}

// Object returns an empty object schema; add fields with Field.
func Object() *ObjectSchema {
	return &ObjectSchema{
		base:  base{kind: tys.KindObject},
		index: map[string]int{},
	}
}

func (s *ObjectSchema) clone() *ObjectSchema {
	c := *s
	c.opts = s.opts.clone()
	c.fields = append([]objectField(nil), s.fields...)
	c.index = make(map[string]int, len(s.index))
	for k, v := range s.index {
		c.index[k] = v
	}
	return &c
}

// Field declares (or redeclares) a key. Redeclaring keeps the original
// position so iteration order stays stable across Extend-style chains.
func (s *ObjectSchema) Field(name string, schema tys.Schema) *ObjectSchema {
	c := s.clone()
	if i, ok := c.index[name]; ok {
		c.fields[i].schema = schema
		return c
	}
	c.index[name] = len(c.fields)
	c.fields = append(c.fields, objectField{name: name, schema: schema})
	return c
}

// Extend declares every field of other on the receiver, with other winning
// on shared keys.
func (s *ObjectSchema) Extend(other *ObjectSchema) *ObjectSchema {
	c := s
	for _, f := range other.fields {
		c = c.Field(f.name, f.schema)
	}
	return c
}

// Pick keeps only the named fields.
func (s *ObjectSchema) Pick(names ...string) *ObjectSchema {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}
	c := s.clone()
	c.fields = c.fields[:0]
	c.index = map[string]int{}
	for _, f := range s.fields {
		if keep[f.name] {
			c.index[f.name] = len(c.fields)
			c.fields = append(c.fields, f)
		}
	}
	return c
}

// Omit drops the named fields.
func (s *ObjectSchema) Omit(names ...string) *ObjectSchema {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	c := s.clone()
	c.fields = c.fields[:0]
	c.index = map[string]int{}
	for _, f := range s.fields {
		if !drop[f.name] {
			c.index[f.name] = len(c.fields)
			c.fields = append(c.fields, f)
		}
	}
	return c
}

// Partial wraps every field schema in Optional.
func (s *ObjectSchema) Partial() *ObjectSchema {
	c := s.clone()
	for i, f := range c.fields {
		c.fields[i].schema = Optional(f.schema)
	}
	return c
}

// Keys returns the declared field names in declaration order.
func (s *ObjectSchema) Keys() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.name
	}
	return out
}

// FieldSchema returns the schema declared for name, if any.
func (s *ObjectSchema) FieldSchema(name string) (tys.Schema, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.fields[i].schema, true
}

// Async reports whether any field or catchall schema is async.
func (s *ObjectSchema) Async() bool {
	for _, f := range s.fields {
		if f.schema.Async() {
			return true
		}
	}
	return s.catchall != nil && s.catchall.Async()
}

// Strip omits unknown keys from the output. This is the default policy.
func (s *ObjectSchema) Strip() *ObjectSchema {
	c := s.clone()
	c.policy = tys.UnknownStrip
	c.catchall = nil
	return c
}

// Passthrough copies unknown keys through unvalidated.
func (s *ObjectSchema) Passthrough() *ObjectSchema {
	c := s.clone()
	c.policy = tys.UnknownPassthrough
	c.catchall = nil
	return c
}

// Strict makes any unknown key a fatal issue listing all offending keys.
func (s *ObjectSchema) Strict() *ObjectSchema {
	c := s.clone()
	c.policy = tys.UnknownStrict
	c.catchall = nil
	return c
}

// Catchall validates every unknown key's value against cs and keeps the key.
func (s *ObjectSchema) Catchall(cs tys.Schema) *ObjectSchema {
	c := s.clone()
	c.policy = tys.UnknownStrip
	c.catchall = cs
	return c
}

// FailFast sets the node-level abort-early preference.
func (s *ObjectSchema) FailFast(on bool) *ObjectSchema {
	c := s.clone()
	c.opts.failFast = &on
	return c
}

// Message overrides the message used for a given issue code on this node.
func (s *ObjectSchema) Message(code, msg string) *ObjectSchema {
	c := s.clone()
	c.opts.setMessage(code, msg)
	return c
}

func (s *ObjectSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	m, ok := pc.Data().(map[string]any)
	if !ok {
		return invalidType(pc, "object", s.message(tys.CodeInvalidType))
	}

	before := len(pc.Issues())
	out := make(map[string]any, len(s.fields))

	// Every declared key is validated, absent ones against Missing so the
	// optional/required/default wrappers can interpret absence.
	if pc.Async() {
		branches := make([]*tys.ParseContext, len(s.fields))
		for i, f := range s.fields {
			v, present := m[f.name]
			if !present {
				v = tys.Missing
			}
			branches[i] = pc.ChildBranch(f.schema, v, f.name)
		}
		results := runBranches(pc, branches)
		if absorbBranches(pc, branches, results) && pc.FailFast() {
			return tys.Invalid()
		}
		for i, r := range results {
			if r.Status == tys.StatusValid && !tys.IsMissing(r.Value) {
				out[s.fields[i].name] = r.Value
			}
		}
	} else {
		for _, f := range s.fields {
			v, present := m[f.name]
			if !present {
				v = tys.Missing
			}
			child := pc.Child(f.schema, v, f.name)
			res := f.schema.ParseIn(child)
			if res.Status == tys.StatusValid && !tys.IsMissing(res.Value) {
				out[f.name] = res.Value
			}
			if halted(pc) {
				return tys.Invalid()
			}
		}
	}

	unknown := make([]string, 0)
	for k := range m {
		if _, declared := s.index[k]; !declared {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)

	switch {
	case s.catchall != nil:
		for _, k := range unknown {
			child := pc.Child(s.catchall, m[k], k)
			res := s.catchall.ParseIn(child)
			if res.Status == tys.StatusValid {
				out[k] = res.Value
			}
			if halted(pc) {
				return tys.Invalid()
			}
		}
	case s.policy == tys.UnknownStrict && len(unknown) > 0:
		pc.AddIssue(tys.Issue{
			Code:    tys.CodeUnrecognizedKeys,
			Message: s.message(tys.CodeUnrecognizedKeys),
			Params:  map[string]any{"keys": unknown},
		})
		return pc.Abort()
	case s.policy == tys.UnknownPassthrough:
		for _, k := range unknown {
			out[k] = m[k]
		}
	}

	if len(pc.Issues()) > before {
		return tys.Invalid()
	}
	return tys.Valid(out)
}
