package dsl_test

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"
	tys "github.com/tyslab/tys"
	"github.com/tyslab/tys/dsl"
)

func TestArrayElementValidation(t *testing.T) {
	ctx := context.Background()
	s := dsl.Array(dsl.Number())
	got, err := tys.Parse[[]any](ctx, s, []any{1, 2.5, 3})
	assert.NoError(t, err)
	assert.Equal(t, []any{1.0, 2.5, 3.0}, got)

	r := tys.SafeParse[[]any](ctx, s, []any{1, "x", "y"})
	assert.False(t, r.OK)
	iss, _ := tys.AsIssues(r.Err)
	assert.Equal(t, 2, len(iss))
	assert.Equal(t, "/1", iss[0].Path)
	assert.Equal(t, "/2", iss[1].Path)
}

func TestArrayAbortEarlyFirstIndexWins(t *testing.T) {
	ctx := context.Background()
	s := dsl.Array(dsl.Number())
	r := tys.SafeParse[[]any](ctx, s, []any{1, "x", "y"}, tys.ParseOpt{FailFast: tys.FailFastOn})
	assert.False(t, r.OK)
	iss, _ := tys.AsIssues(r.Err)
	assert.Equal(t, 1, len(iss))
	assert.Equal(t, "/1", iss[0].Path)
}

func TestArrayStructuralChecksRunFirst(t *testing.T) {
	ctx := context.Background()
	s := dsl.Array(dsl.Number()).Min(5)
	// under abort-early a structural failure skips element validation
	r := tys.SafeParse[[]any](ctx, s, []any{"not even checked"}, tys.ParseOpt{FailFast: tys.FailFastOn})
	assert.False(t, r.OK)
	iss, _ := tys.AsIssues(r.Err)
	assert.Equal(t, 1, len(iss))
	assert.Equal(t, tys.CodeInvalidArray, iss[0].Code)

	// collect-all reports the structural issue and the element issues
	r = tys.SafeParse[[]any](ctx, s, []any{"bad"})
	iss, _ = tys.AsIssues(r.Err)
	assert.Equal(t, 2, len(iss))
}

func TestArrayLengthExclusivity(t *testing.T) {
	ctx := context.Background()
	s := dsl.Array(dsl.Any()).Min(3).Length(1)
	assert.True(t, tys.Is(ctx, s, []any{"only"}))

	s = dsl.Array(dsl.Any()).Length(1).Min(3)
	assert.False(t, tys.Is(ctx, s, []any{"only"}))
	assert.True(t, tys.Is(ctx, s, []any{1, 2, 3}))
}

func TestArrayUnique(t *testing.T) {
	ctx := context.Background()
	s := dsl.Array(dsl.Number()).Unique()
	assert.True(t, tys.Is(ctx, s, []any{1, 2, 3}))
	r := tys.SafeParse[[]any](ctx, s, []any{1, 2, 1.0})
	assert.False(t, r.OK)
	iss, _ := tys.AsIssues(r.Err)
	assert.Equal(t, "unique", iss[0].Params["check"])
	assert.Equal(t, 0, iss[0].Params["first"])
	assert.Equal(t, 2, iss[0].Params["dup"])
}

func TestArrayAcceptsTypedSlices(t *testing.T) {
	ctx := context.Background()
	s := dsl.Array(dsl.String())
	assert.True(t, tys.Is(ctx, s, []string{"a", "b"}))
	// bytes and strings are not arrays
	assert.False(t, tys.Is(ctx, s, []byte("ab")))
	assert.False(t, tys.Is(ctx, s, "ab"))
}

func TestSetUniquenessIsIntrinsic(t *testing.T) {
	ctx := context.Background()
	s := dsl.Set(dsl.Number())
	got, err := tys.Parse[[]any](ctx, s, []any{1, 2, 3})
	assert.NoError(t, err)
	assert.Equal(t, []any{1.0, 2.0, 3.0}, got)

	r := tys.SafeParse[[]any](ctx, s, []any{1, 1})
	assert.False(t, r.OK)
	iss, _ := tys.AsIssues(r.Err)
	assert.Equal(t, tys.CodeInvalidSet, iss[0].Code)
}

func TestSetSizeChecksAndCoercion(t *testing.T) {
	ctx := context.Background()
	s := dsl.Set(dsl.String()).Min(2)
	assert.False(t, tys.Is(ctx, s, []any{"a"}))

	c := dsl.Set(dsl.String()).Coerce()
	got, err := tys.Parse[[]any](ctx, c, map[any]struct{}{"b": {}, "a": {}})
	assert.NoError(t, err)
	// coerced sets are ordered deterministically
	assert.Equal(t, []any{"a", "b"}, got)
}

func TestTupleArity(t *testing.T) {
	ctx := context.Background()
	s := dsl.Tuple(dsl.String(), dsl.Number())
	got, err := tys.Parse[[]any](ctx, s, []any{"x", 1})
	assert.NoError(t, err)
	assert.Equal(t, []any{"x", 1.0}, got)

	// arity mismatches are fatal
	for _, in := range [][]any{{"x"}, {"x", 1, true}} {
		r := tys.SafeParse[[]any](ctx, s, in)
		assert.False(t, r.OK)
		iss, _ := tys.AsIssues(r.Err)
		assert.Equal(t, 1, len(iss))
		assert.Equal(t, tys.CodeInvalidTuple, iss[0].Code)
	}
}

func TestTupleRest(t *testing.T) {
	ctx := context.Background()
	s := dsl.Tuple(dsl.String()).Rest(dsl.Number())
	got, err := tys.Parse[[]any](ctx, s, []any{"x", 1, 2, 3})
	assert.NoError(t, err)
	assert.Equal(t, []any{"x", 1.0, 2.0, 3.0}, got)

	r := tys.SafeParse[[]any](ctx, s, []any{"x", 1, "oops"})
	assert.False(t, r.OK)
	iss, _ := tys.AsIssues(r.Err)
	assert.Equal(t, "/2", iss[0].Path)
}

func TestRecord(t *testing.T) {
	ctx := context.Background()
	s := dsl.Record(dsl.String().Min(2), dsl.Number())
	got, err := tys.Parse[map[string]any](ctx, s, map[string]any{"ab": 1, "cd": 2})
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{"ab": 1.0, "cd": 2.0}, got)

	// a failing key rejects the entry
	r := tys.SafeParse[map[string]any](ctx, s, map[string]any{"x": 1})
	assert.False(t, r.OK)
	iss, _ := tys.AsIssues(r.Err)
	assert.Equal(t, "/x", iss[0].Path)
}

func TestRecordTagsEntryHalves(t *testing.T) {
	ctx := context.Background()
	s := dsl.Record(dsl.String().Min(2), dsl.Number())

	// both halves of the same entry fail; the "part" param tells them apart
	r := tys.SafeParse[map[string]any](ctx, s, map[string]any{"x": "nan"})
	assert.False(t, r.OK)
	iss, _ := tys.AsIssues(r.Err)
	assert.Equal(t, 2, len(iss))
	assert.Equal(t, "/x", iss[0].Path)
	assert.Equal(t, "key", iss[0].Params["part"].(string))
	assert.Equal(t, "/x", iss[1].Path)
	assert.Equal(t, "value", iss[1].Params["part"].(string))

	m := dsl.MapOf(dsl.Number(), dsl.String())
	r2 := tys.SafeParse[map[any]any](ctx, m, map[any]any{"k": "v"})
	assert.False(t, r2.OK)
	iss, _ = tys.AsIssues(r2.Err)
	assert.Equal(t, "key", iss[0].Params["part"].(string))
}

func TestMapOf(t *testing.T) {
	ctx := context.Background()
	s := dsl.MapOf(dsl.Number(), dsl.String())
	got, err := tys.Parse[map[any]any](ctx, s, map[any]any{1: "a", 2: "b"})
	assert.NoError(t, err)
	assert.Equal(t, "a", got[1.0].(string))

	// coercion bridges record-shaped input
	c := dsl.MapOf(dsl.String(), dsl.String()).Coerce()
	got, err = tys.Parse[map[any]any](ctx, c, map[string]any{"k": "v"})
	assert.NoError(t, err)
	assert.Equal(t, "v", got["k"].(string))
}
