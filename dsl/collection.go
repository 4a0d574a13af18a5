package dsl

import (
	"fmt"
	"reflect"
	"sort"

	tys "github.com/tyslab/tys"
	"golang.org/x/sync/errgroup"
)

type sizeCheckKind int

const (
	chkSizeMin sizeCheckKind = iota
	chkSizeMax
	chkSizeExact
)

var sizeCheckNames = map[sizeCheckKind]string{
	chkSizeMin: "min", chkSizeMax: "max", chkSizeExact: "length",
}

type sizeCheck struct {
	kind      sizeCheckKind
	n         int
	inclusive bool
	msg       string
}

func evalSizeCheck(ck sizeCheck, n int) bool {
	switch ck.kind {
	case chkSizeMin:
		if ck.inclusive {
			return n >= ck.n
		}
		return n > ck.n
	case chkSizeMax:
		if ck.inclusive {
			return n <= ck.n
		}
		return n < ck.n
	case chkSizeExact:
		return n == ck.n
	}
	return true
}

func dropSizeChecks(checks []sizeCheck, kinds ...sizeCheckKind) []sizeCheck {
	out := checks[:0]
	for _, ck := range checks {
		drop := false
		for _, k := range kinds {
			if ck.kind == k {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, ck)
		}
	}
	return out
}

// asAnySlice views the input as []any. []byte is deliberately excluded; it
// classifies as bytes, not array.
func asAnySlice(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []byte:
		return nil, false
	case string:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// setToSlice converts a set-shaped map to a deterministic slice, ordered by
// the rendered key.
func setToSlice(m map[any]struct{}) []any {
	out := make([]any, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return fmt.Sprint(out[i]) < fmt.Sprint(out[j]) })
	return out
}

// runBranches executes every branch context's schema. On the async path the
// branches are dispatched concurrently and joined; either way the returned
// slice is index-aligned so callers reduce in original order, never in
// completion order.
func runBranches(pc *tys.ParseContext, branches []*tys.ParseContext) []tys.Result {
	results := make([]tys.Result, len(branches))
	if pc.Async() && len(branches) > 1 {
		g, _ := errgroup.WithContext(pc.Ctx())
		for i, bc := range branches {
			i, bc := i, bc
			g.Go(func() error {
				results[i] = bc.Schema().ParseIn(bc)
				return nil
			})
		}
		_ = g.Wait()
		return results
	}
	for i, bc := range branches {
		results[i] = bc.Schema().ParseIn(bc)
	}
	return results
}

// absorbBranches merges branch issues into pc in index order. Under
// fail-fast the first failed branch (by index) wins and later branch issues
// are discarded. It reports whether any branch failed.
func absorbBranches(pc *tys.ParseContext, branches []*tys.ParseContext, results []tys.Result) bool {
	failed := false
	for i, bc := range branches {
		if results[i].Status == tys.StatusValid && bc.IsValid() {
			continue
		}
		failed = true
		pc.Absorb(bc)
		if pc.FailFast() {
			pc.Abort()
			return true
		}
	}
	return failed
}
