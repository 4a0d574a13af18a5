package dsl

import (
	"fmt"
	"sort"

	tys "github.com/tyslab/tys"
)

// RecordSchema validates map[string]any values entry-wise: each entry runs
// the key schema against the key and the value schema against the value,
// both addressed by the same path segment. Issues carry a "part" param
// naming the half that failed.
type RecordSchema struct {
	base
	key    tys.Schema
	value  tys.Schema
	coerce bool
}

// Record returns a schema validating string-keyed maps.
func Record(key, value tys.Schema) *RecordSchema {
	return &RecordSchema{base: base{kind: tys.KindRecord}, key: key, value: value}
}

func (s *RecordSchema) clone() *RecordSchema {
	c := *s
	c.opts = s.opts.clone()
	return &c
}

// Async reports whether the key or value schema is async.
func (s *RecordSchema) Async() bool { return s.key.Async() || s.value.Async() }

// Coerce accepts a map[any]any whose keys are all strings.
func (s *RecordSchema) Coerce() *RecordSchema {
	c := s.clone()
	c.coerce = true
	return c
}

// FailFast sets the node-level abort-early preference.
func (s *RecordSchema) FailFast(on bool) *RecordSchema {
	c := s.clone()
	c.opts.failFast = &on
	return c
}

// Message overrides the message used for a given issue code on this node.
func (s *RecordSchema) Message(code, msg string) *RecordSchema {
	c := s.clone()
	c.opts.setMessage(code, msg)
	return c
}

func (s *RecordSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	if s.coerce {
		if mm, ok := pc.Data().(map[any]any); ok {
			conv := make(map[string]any, len(mm))
			good := true
			for k, v := range mm {
				ks, isStr := k.(string)
				if !isStr {
					good = false
					break
				}
				conv[ks] = v
			}
			if good {
				pc.SetData(conv)
			}
		}
	}
	m, ok := pc.Data().(map[string]any)
	if !ok {
		return invalidType(pc, "record", s.message(tys.CodeInvalidType))
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	before := len(pc.Issues())
	out := make(map[string]any, len(m))
	for _, k := range keys {
		kres := parseEntryHalf(pc, s.key, k, k, "key")
		if halted(pc) {
			return tys.Invalid()
		}
		vres := parseEntryHalf(pc, s.value, m[k], k, "value")
		if halted(pc) {
			return tys.Invalid()
		}
		// Entries survive only when both halves do.
		if kres.Status == tys.StatusValid && vres.Status == tys.StatusValid {
			ks, isStr := kres.Value.(string)
			if !isStr {
				ks = k
			}
			out[ks] = vres.Value
		}
	}

	if len(pc.Issues()) > before {
		return tys.Invalid()
	}
	return tys.Valid(out)
}

// parseEntryHalf runs one half of a map entry in a private sink, then
// surfaces its issues stamped with the half they came from. Key and value
// children share a path segment; the "part" param is what tells them apart.
func parseEntryHalf(pc *tys.ParseContext, s tys.Schema, v any, seg any, part string) tys.Result {
	bc := pc.ChildBranch(s, v, seg)
	res := s.ParseIn(bc)
	for _, iss := range bc.TakeIssues() {
		params := make(map[string]any, len(iss.Params)+1)
		for pk, pv := range iss.Params {
			params[pk] = pv
		}
		params["part"] = part
		iss.Params = params
		pc.AddIssue(iss)
	}
	return res
}

// MapSchema validates map[any]any values with arbitrary key types.
type MapSchema struct {
	base
	key    tys.Schema
	value  tys.Schema
	coerce bool
}

// MapOf returns a schema validating maps with arbitrary keys.
func MapOf(key, value tys.Schema) *MapSchema {
	return &MapSchema{base: base{kind: tys.KindMap}, key: key, value: value}
}

func (s *MapSchema) clone() *MapSchema {
	c := *s
	c.opts = s.opts.clone()
	return &c
}

// Async reports whether the key or value schema is async.
func (s *MapSchema) Async() bool { return s.key.Async() || s.value.Async() }

// Coerce accepts a map[string]any and widens it to map[any]any first.
func (s *MapSchema) Coerce() *MapSchema {
	c := s.clone()
	c.coerce = true
	return c
}

// FailFast sets the node-level abort-early preference.
func (s *MapSchema) FailFast(on bool) *MapSchema {
	c := s.clone()
	c.opts.failFast = &on
	return c
}

// Message overrides the message used for a given issue code on this node.
func (s *MapSchema) Message(code, msg string) *MapSchema {
	c := s.clone()
	c.opts.setMessage(code, msg)
	return c
}

func (s *MapSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	if s.coerce {
		if sm, ok := pc.Data().(map[string]any); ok {
			conv := make(map[any]any, len(sm))
			for k, v := range sm {
				conv[k] = v
			}
			pc.SetData(conv)
		}
	}
	m, ok := pc.Data().(map[any]any)
	if !ok {
		return invalidType(pc, "map", s.message(tys.CodeInvalidType))
	}

	keys := make([]any, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j]) })

	before := len(pc.Issues())
	out := make(map[any]any, len(m))
	for _, k := range keys {
		seg := fmt.Sprint(k)
		kres := parseEntryHalf(pc, s.key, k, seg, "key")
		if halted(pc) {
			return tys.Invalid()
		}
		vres := parseEntryHalf(pc, s.value, m[k], seg, "value")
		if halted(pc) {
			return tys.Invalid()
		}
		if kres.Status == tys.StatusValid && vres.Status == tys.StatusValid {
			out[kres.Value] = vres.Value
		}
	}

	if len(pc.Issues()) > before {
		return tys.Invalid()
	}
	return tys.Valid(out)
}
