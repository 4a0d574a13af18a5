package dsl_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/alecthomas/assert/v2"
	tys "github.com/tyslab/tys"
	"github.com/tyslab/tys/dsl"
)

func TestUnionFirstMatchWins(t *testing.T) {
	ctx := context.Background()
	// both members accept the input; the first declared one produces the output
	s := dsl.Union(dsl.String().Uppercase(), dsl.String().Lowercase())
	got, err := tys.Parse[string](ctx, s, "MiXeD")
	assert.NoError(t, err)
	assert.Equal(t, "MIXED", got)
}

func TestUnionStopsAfterFirstSuccess(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32
	second := dsl.Transform(dsl.String(), func(_ context.Context, v any) any {
		calls.Add(1)
		return v
	})
	s := dsl.Union(dsl.String(), second)

	got, err := tys.Parse[string](ctx, s, "hello")
	assert.NoError(t, err)
	assert.Equal(t, "hello", got)
	// the first member accepted, so the second member never ran
	assert.Equal(t, int32(0), calls.Load())

	// a rejected earlier member still falls through to later ones
	s = dsl.Union(dsl.Number(), second)
	_, err = tys.Parse[string](ctx, s, "hello")
	assert.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestUnionCollectsBranchIssues(t *testing.T) {
	ctx := context.Background()
	s := dsl.Union(dsl.String(), dsl.Number())
	r := tys.SafeParse[any](ctx, s, true)
	assert.False(t, r.OK)
	iss, _ := tys.AsIssues(r.Err)
	assert.Equal(t, 1, len(iss))
	assert.Equal(t, tys.CodeInvalidUnion, iss[0].Code)
	// one nested list per failed member, in declaration order
	assert.Equal(t, 2, len(iss[0].Nested))
	assert.Equal(t, tys.CodeInvalidType, iss[0].Nested[0][0].Code)
}

func TestUnionRejectedBranchLeavesNoIssues(t *testing.T) {
	ctx := context.Background()
	s := dsl.Union(dsl.Number(), dsl.String())
	got, err := tys.Parse[string](ctx, s, "text")
	assert.NoError(t, err)
	assert.Equal(t, "text", got)
}

func TestUnionAsyncKeepsDeclarationOrder(t *testing.T) {
	ctx := context.Background()
	slow := dsl.RefineAsync(dsl.String().Uppercase(), func(context.Context, any) bool { return true })
	s := dsl.Union(slow, dsl.String().Lowercase())
	got, err := tys.ParseAsync[string](ctx, s, "MiXeD")
	assert.NoError(t, err)
	assert.Equal(t, "MIXED", got)
}

func TestDiscriminatedUnion(t *testing.T) {
	ctx := context.Background()
	circle := dsl.Object().
		Field("type", dsl.Literal("circle")).
		Field("radius", dsl.Number().Positive())
	square := dsl.Object().
		Field("type", dsl.Literal("square")).
		Field("side", dsl.Number().Positive())
	s := dsl.Union(circle, square).Discriminator("type")

	got, err := tys.Parse[map[string]any](ctx, s, map[string]any{"type": "square", "side": 2})
	assert.NoError(t, err)
	assert.Equal(t, 2.0, got["side"].(float64))

	// the matched branch's own issues surface directly
	r := tys.SafeParse[map[string]any](ctx, s, map[string]any{"type": "circle", "radius": -1})
	assert.False(t, r.OK)
	iss, _ := tys.AsIssues(r.Err)
	assert.Equal(t, "/radius", iss[0].Path)

	r = tys.SafeParse[map[string]any](ctx, s, map[string]any{"side": 2})
	iss, _ = tys.AsIssues(r.Err)
	assert.Equal(t, tys.CodeDiscriminatorMissing, iss[0].Code)

	r = tys.SafeParse[map[string]any](ctx, s, map[string]any{"type": "hexagon"})
	iss, _ = tys.AsIssues(r.Err)
	assert.Equal(t, tys.CodeDiscriminatorUnknown, iss[0].Code)
}

func TestIntersectionMergesObjects(t *testing.T) {
	ctx := context.Background()
	a := dsl.Object().Field("name", dsl.String()).Passthrough()
	b := dsl.Object().Field("age", dsl.Number()).Passthrough()
	s := dsl.Intersection(a, b)

	got, err := tys.Parse[map[string]any](ctx, s, map[string]any{"name": "ada", "age": 36.0})
	assert.NoError(t, err)
	assert.Equal(t, "ada", got["name"].(string))
	assert.Equal(t, 36.0, got["age"].(float64))
}

func TestIntersectionMemberFailure(t *testing.T) {
	ctx := context.Background()
	s := dsl.Intersection(dsl.String().Min(3), dsl.String().Max(5))
	assert.True(t, tys.Is(ctx, s, "abcd"))

	r := tys.SafeParse[string](ctx, s, "ab")
	assert.False(t, r.OK)
	iss, _ := tys.AsIssues(r.Err)
	assert.Equal(t, tys.CodeInvalidString, iss[0].Code)
}

func TestIntersectionMergeConflict(t *testing.T) {
	ctx := context.Background()
	// both members accept, but their outputs disagree
	s := dsl.Intersection(
		dsl.Transform(dsl.String(), func(_ context.Context, v any) any { return "left" }),
		dsl.Transform(dsl.String(), func(_ context.Context, v any) any { return "right" }),
	)
	r := tys.SafeParse[string](ctx, s, "in")
	assert.False(t, r.OK)
	iss, _ := tys.AsIssues(r.Err)
	assert.Equal(t, tys.CodeInvalidIntersection, iss[0].Code)
}

func TestPipelineShortCircuits(t *testing.T) {
	ctx := context.Background()
	toLen := dsl.Transform(dsl.String(), func(_ context.Context, v any) any {
		return float64(len(v.(string)))
	})
	s := dsl.Pipe(toLen, dsl.Number().Min(3))

	got, err := tys.Parse[float64](ctx, s, "hello")
	assert.NoError(t, err)
	assert.Equal(t, 5.0, got)

	r := tys.SafeParse[float64](ctx, s, "ab")
	assert.False(t, r.OK)
	iss, _ := tys.AsIssues(r.Err)
	assert.Equal(t, tys.CodeInvalidNumber, iss[0].Code)

	// a from-stage failure never reaches the to-stage
	r = tys.SafeParse[float64](ctx, s, 99)
	assert.False(t, r.OK)
	iss, _ = tys.AsIssues(r.Err)
	assert.Equal(t, 1, len(iss))
	assert.Equal(t, tys.CodeInvalidType, iss[0].Code)
}
