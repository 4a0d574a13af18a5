package rules

import (
	tys "github.com/tyslab/tys"
)

// ruleSchema runs the wrapped schema, then the rules against its output.
type ruleSchema struct {
	inner tys.Schema
	rules []Rule
}

// Apply attaches rules to a schema. The rules see the parsed output and run
// only when the wrapped schema succeeded.
func Apply(inner tys.Schema, rs ...Rule) tys.Schema {
	return &ruleSchema{inner: inner, rules: rs}
}

func (s *ruleSchema) Kind() tys.Kind     { return tys.KindEffects }
func (s *ruleSchema) Async() bool        { return s.inner.Async() }
func (s *ruleSchema) Meta() tys.Meta     { return s.inner.Meta() }
func (s *ruleSchema) Unwrap() tys.Schema { return s.inner }

func (s *ruleSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	res := s.inner.ParseIn(pc.Sibling(s.inner))
	if res.Status != tys.StatusValid {
		return res
	}
	failed := false
	for _, r := range s.rules {
		if r == nil {
			continue
		}
		for _, iss := range r(pc.Ctx(), res.Value) {
			iss.Path = joinPointer(pc.PathString(), iss.Path)
			pc.AddIssue(iss)
			failed = true
			if pc.FailFast() {
				return pc.Abort()
			}
		}
	}
	if failed {
		return tys.Invalid()
	}
	return res
}

// joinPointer re-roots a rule-relative pointer under the node's position.
func joinPointer(prefix, rel string) string {
	rel = normalizePath(rel)
	if prefix == "" || prefix == "/" {
		return rel
	}
	if rel == "/" {
		return prefix
	}
	return prefix + rel
}
