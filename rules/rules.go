// Package rules provides cross-field validation rules applied to a schema's
// parsed output. Rules navigate the parsed value by JSON Pointer, so they
// express constraints a single field schema cannot, like "if status is
// active, items must not be empty".
package rules

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tys "github.com/tyslab/tys"
)

// Op is the comparison operator of a conditional.
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// Rule inspects a parsed value and returns the issues it finds. Issue paths
// are JSON Pointers relative to the inspected value.
type Rule func(ctx context.Context, v any) tys.Issues

// Conditional gates rules on a comparison over the parsed value.
type Conditional struct {
	path string
	op   Op
	want any
	all  []Conditional
	any  []Conditional
}

// If evaluates the value at a JSON Pointer path against want.
func If(path string, op Op, want any) Conditional {
	return Conditional{path: normalizePath(path), op: op, want: want}
}

// IfAll requires every condition to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny requires at least one condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with more conditions under logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines the receiver with more conditions under logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Then runs the given rules only when the condition holds.
func (c Conditional) Then(rs ...Rule) Rule {
	return func(ctx context.Context, v any) tys.Issues {
		if !c.eval(v) {
			return nil
		}
		var out tys.Issues
		for _, r := range rs {
			if r == nil {
				continue
			}
			out = append(out, r(ctx, v)...)
		}
		return out
	}
}

func (c Conditional) eval(v any) bool {
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !it.eval(v) {
				return false
			}
		}
		return true
	}
	if len(c.any) > 0 {
		for _, it := range c.any {
			if it.eval(v) {
				return true
			}
		}
		return false
	}
	cur, ok := ValueAt(v, c.path)
	if !ok {
		return false
	}
	return compare(cur, c.op, c.want)
}

// AtLeastOne requires the collection at path to have at least one element.
func AtLeastOne(path string) Rule {
	p := normalizePath(path)
	return func(ctx context.Context, v any) tys.Issues {
		val, ok := ValueAt(v, p)
		if !ok {
			return nil
		}
		arr, ok := val.([]any)
		if !ok || len(arr) > 0 {
			return nil
		}
		return tys.Issues{{
			Path:    p,
			Code:    tys.CodeCustom,
			Message: "at least 1 item is required",
			Params:  map[string]any{"check": "minItems", "n": 1},
		}}
	}
}

// UniqueBy requires elements of the collection at path to have distinct
// values at keyPath (a pointer relative to each element). Key values are
// compared by their rendered form, so keep the key a single type.
func UniqueBy(path, keyPath string) Rule {
	cp := normalizePath(path)
	kp := normalizePath(keyPath)
	return func(ctx context.Context, v any) tys.Issues {
		val, ok := ValueAt(v, cp)
		if !ok {
			return nil
		}
		arr, ok := val.([]any)
		if !ok {
			return nil
		}
		seen := map[string]int{}
		var out tys.Issues
		for i, elem := range arr {
			kv, ok := ValueAt(elem, kp)
			if !ok {
				continue
			}
			key := fmt.Sprint(kv)
			if j, dup := seen[key]; dup {
				out = append(out, tys.Issue{
					Path:    cp + "/" + strconv.Itoa(i) + kp,
					Code:    tys.CodeCustom,
					Message: "duplicate value",
					Params:  map[string]any{"check": "unique", "first": j, "dup": i, "key": key},
				})
				continue
			}
			seen[key] = i
		}
		return out
	}
}

// All runs every rule and concatenates their issues.
func All(rs ...Rule) Rule {
	return func(ctx context.Context, v any) tys.Issues {
		var out tys.Issues
		for _, r := range rs {
			if r == nil {
				continue
			}
			out = append(out, r(ctx, v)...)
		}
		return out
	}
}

// Any succeeds when any rule reports no issues; otherwise it returns the
// branch with the fewest issues.
func Any(rs ...Rule) Rule {
	return func(ctx context.Context, v any) tys.Issues {
		var best tys.Issues
		bestSet := false
		for _, r := range rs {
			if r == nil {
				continue
			}
			iss := r(ctx, v)
			if len(iss) == 0 {
				return nil
			}
			if !bestSet || len(iss) < len(best) {
				best = iss
				bestSet = true
			}
		}
		return best
	}
}

// ValueAt navigates map[string]any and []any values by JSON Pointer.
func ValueAt(v any, pointer string) (any, bool) {
	pointer = normalizePath(pointer)
	if pointer == "/" {
		return v, true
	}
	cur := v
	for _, seg := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		seg = strings.ReplaceAll(strings.ReplaceAll(seg, "~1", "/"), "~0", "~")
		switch x := cur.(type) {
		case map[string]any:
			nv, ok := x[seg]
			if !ok {
				return nil, false
			}
			cur = nv
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(x) {
				return nil, false
			}
			cur = x[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

func normalizePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	if p[0] != '/' {
		return "/" + p
	}
	return p
}

func compare(cur any, op Op, want any) bool {
	switch op {
	case Eq, Ne:
		eq := renderEqual(cur, want)
		if op == Eq {
			return eq
		}
		return !eq
	}
	a, aok := asFloat(cur)
	b, bok := asFloat(want)
	if !aok || !bok {
		return false
	}
	switch op {
	case Lt:
		return a < b
	case Le:
		return a <= b
	case Gt:
		return a > b
	case Ge:
		return a >= b
	}
	return false
}

// renderEqual compares scalars with numeric normalization so 1 == 1.0.
func renderEqual(a, b any) bool {
	if fa, ok := asFloat(a); ok {
		fb, ok2 := asFloat(b)
		return ok2 && fa == fb
	}
	return fmt.Sprint(a) == fmt.Sprint(b) && fmt.Sprintf("%T", a) == fmt.Sprintf("%T", b)
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}
