package dsl

import (
	"math/big"
	"reflect"
	"time"

	tys "github.com/tyslab/tys"
)

// schemaOpts is the generic options bag shared by every node: abort-early
// override and custom messages keyed by issue code.
type schemaOpts struct {
	failFast *bool
	messages map[string]string
}

func (o schemaOpts) clone() schemaOpts {
	c := schemaOpts{failFast: o.failFast}
	if len(o.messages) > 0 {
		c.messages = make(map[string]string, len(o.messages))
		for k, v := range o.messages {
			c.messages[k] = v
		}
	}
	return c
}

func (o *schemaOpts) setMessage(code, msg string) {
	if o.messages == nil {
		o.messages = map[string]string{}
	}
	o.messages[code] = msg
}

// base carries the variant tag and options bag common to all nodes.
type base struct {
	kind  tys.Kind
	opts  schemaOpts
	async bool
}

func (b base) Kind() tys.Kind { return b.kind }
func (b base) Async() bool    { return b.async }
func (b base) Meta() tys.Meta { return tys.Meta{Kind: b.kind, Async: b.async} }

// FailFastHint surfaces the node-level abort-early preference to the root
// context constructor.
func (b base) FailFastHint() (bool, bool) {
	if b.opts.failFast == nil {
		return false, false
	}
	return *b.opts.failFast, true
}

func (b base) message(code string) string { return b.opts.messages[code] }

// halted is the fail-fast skip condition consulted after every child parse
// and after every async join.
func halted(pc *tys.ParseContext) bool {
	return pc.FailFast() && !pc.IsValid()
}

// invalidType records the fatal type-mismatch issue and aborts the node.
func invalidType(pc *tys.ParseContext, expected, customMsg string) tys.Result {
	pc.AddIssue(tys.Issue{
		Code:    tys.CodeInvalidType,
		Message: customMsg,
		Params: map[string]any{
			"expected": expected,
			"received": tys.TypeOf(pc.Data()).String(),
		},
	})
	return pc.Abort()
}

// structEqual compares two values by structure, normalizing numeric
// representations so 1 and 1.0 intersect. Used by literal matching, set
// uniqueness, and intersection merging.
func structEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok2 := toFloat(b)
		return ok2 && fa == fb
	}
	switch x := a.(type) {
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	case *big.Int:
		y, ok := b.(*big.Int)
		return ok && x.Cmp(y) == 0
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !structEqual(x[i], y[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, present := y[k]
			if !present || !structEqual(xv, yv) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}
