package dsl_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/alecthomas/assert/v2"
	tys "github.com/tyslab/tys"
	"github.com/tyslab/tys/dsl"
)

func TestMemoizeCachesByInput(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32
	counted := dsl.Refine(dsl.String().Min(2), func(context.Context, any) bool {
		calls.Add(1)
		return true
	})
	s := dsl.Memoize(counted)

	for n := 0; n < 3; n++ {
		got, err := tys.Parse[string](ctx, s, "hello")
		assert.NoError(t, err)
		assert.Equal(t, "hello", got)
	}
	assert.Equal(t, int32(1), calls.Load())

	_, err := tys.Parse[string](ctx, s, "other")
	assert.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestMemoizeReplaysFailures(t *testing.T) {
	ctx := context.Background()
	s := dsl.Memoize(dsl.String().Min(5))

	for n := 0; n < 2; n++ {
		r := tys.SafeParse[string](ctx, s, "ab")
		assert.False(t, r.OK)
		iss, _ := tys.AsIssues(r.Err)
		assert.Equal(t, 1, len(iss))
		assert.Equal(t, tys.CodeInvalidString, iss[0].Code)
		assert.Equal(t, "/", iss[0].Path)
	}
}

func TestMemoizeRerootsNestedPaths(t *testing.T) {
	ctx := context.Background()
	item := dsl.Memoize(dsl.Object().Field("n", dsl.Number()))
	s := dsl.Array(item)

	// the same invalid element at two positions reports both positions
	bad := map[string]any{"n": "x"}
	r := tys.SafeParse[[]any](ctx, s, []any{bad, map[string]any{"n": 1}, bad})
	assert.False(t, r.OK)
	iss, _ := tys.AsIssues(r.Err)
	assert.Equal(t, 2, len(iss))
	assert.Equal(t, "/0/n", iss[0].Path)
	assert.Equal(t, "/2/n", iss[1].Path)
}

func TestMemoizeOnOffEquivalence(t *testing.T) {
	ctx := context.Background()
	plain := dsl.Object().
		Field("id", dsl.String().UUID()).
		Field("count", dsl.Number().Int().Nonnegative())
	memo := dsl.Memoize(dsl.Object().
		Field("id", dsl.String().UUID()).
		Field("count", dsl.Number().Int().Nonnegative()))

	inputs := []any{
		map[string]any{"id": "6ba7b810-9dad-11d1-80b4-00c04fd430c8", "count": 3},
		map[string]any{"id": "nope", "count": -1},
		map[string]any{"id": "nope", "count": -1}, // repeated: served from cache
		"not even an object",
	}
	for _, in := range inputs {
		rp := tys.SafeParse[any](ctx, plain, in)
		rm := tys.SafeParse[any](ctx, memo, in)
		assert.Equal(t, rp.OK, rm.OK)
		if !rp.OK {
			pi, _ := tys.AsIssues(rp.Err)
			mi, _ := tys.AsIssues(rm.Err)
			assert.Equal(t, len(pi), len(mi))
			for i := range pi {
				assert.Equal(t, pi[i].Path, mi[i].Path)
				assert.Equal(t, pi[i].Code, mi[i].Code)
			}
		}
	}
}

func TestMemoizeSkipsUnhashable(t *testing.T) {
	ctx := context.Background()
	s := dsl.Memoize(dsl.Any())
	// functions have no canonical serialization; the cache is bypassed
	assert.True(t, tys.Is(ctx, s, func() {}))
}
