package tys_test

import (
	"context"
	"errors"
	"testing"

	tys "github.com/tyslab/tys"
	"github.com/tyslab/tys/dsl"
)

func TestParseTyped(t *testing.T) {
	ctx := context.Background()
	got, err := tys.Parse[string](ctx, dsl.String().Min(2), "hello")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != "hello" {
		t.Fatalf("got %q", got)
	}
}

func TestParseFailureIsSingleParseError(t *testing.T) {
	ctx := context.Background()
	_, err := tys.Parse[string](ctx, dsl.String().Min(5).Pattern(`^\d+$`), "ab")
	if err == nil {
		t.Fatalf("expected error")
	}
	var pe *tys.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error is %T, want *ParseError", err)
	}
	// collect-all by default: both checks report
	if len(pe.Issues) != 2 {
		t.Fatalf("issues = %d, want 2: %v", len(pe.Issues), pe.Issues)
	}
	for _, iss := range pe.Issues {
		if iss.Path != "/" {
			t.Fatalf("issue path = %q, want /", iss.Path)
		}
	}
}

func TestSafeParseDoesNotError(t *testing.T) {
	ctx := context.Background()
	r := tys.SafeParse[float64](ctx, dsl.Number().Min(10), 3.0)
	if r.OK {
		t.Fatalf("expected failure")
	}
	if _, ok := tys.AsIssues(r.Err); !ok {
		t.Fatalf("SafeResult.Err should carry issues, got %T", r.Err)
	}
}

func TestSyncParseRejectsAsyncSchema(t *testing.T) {
	ctx := context.Background()
	s := dsl.RefineAsync(dsl.String(), func(context.Context, any) bool { return true })
	if _, err := tys.Parse[string](ctx, s, "x"); !errors.Is(err, tys.ErrAsyncSchema) {
		t.Fatalf("err = %v, want ErrAsyncSchema", err)
	}
	r := tys.SafeParse[string](ctx, s, "x")
	if r.OK || !errors.Is(r.Err, tys.ErrAsyncSchema) {
		t.Fatalf("SafeParse should refuse async schemas: %+v", r)
	}
	// the async entrypoint accepts it
	if _, err := tys.ParseAsync[string](ctx, s, "x"); err != nil {
		t.Fatalf("ParseAsync: %v", err)
	}
}

func TestParseAsyncOnSyncTreeMatchesParse(t *testing.T) {
	ctx := context.Background()
	s := dsl.Object().
		Field("name", dsl.String().Min(1)).
		Field("age", dsl.Number().Int().Nonnegative())
	in := map[string]any{"name": "ada", "age": 36.0}

	sync, errS := tys.Parse[map[string]any](ctx, s, in)
	async, errA := tys.ParseAsync[map[string]any](ctx, s, in)
	if errS != nil || errA != nil {
		t.Fatalf("sync err %v, async err %v", errS, errA)
	}
	if sync["name"] != async["name"] || sync["age"] != async["age"] {
		t.Fatalf("sync %v != async %v", sync, async)
	}
}

func TestValidateAndIs(t *testing.T) {
	ctx := context.Background()
	s := dsl.String().Email()
	if err := tys.Validate(ctx, s, "user@example.com"); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if tys.Is(ctx, s, "not-an-email") {
		t.Fatalf("Is should reject")
	}
	if !tys.Is(ctx, s, "a@b.co") {
		t.Fatalf("Is should accept")
	}
}

func TestNullCollapsesToZeroValue(t *testing.T) {
	ctx := context.Background()
	got, err := tys.Parse[string](ctx, dsl.Nullable(dsl.String()), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != "" {
		t.Fatalf("null should collapse to the zero value, got %q", got)
	}
}

func TestUnwrapHelpers(t *testing.T) {
	inner := dsl.String()
	opt := dsl.Optional(dsl.Optional(inner))
	if tys.Unwrap(opt).Kind() != tys.KindOptional {
		t.Fatalf("Unwrap should peel one layer")
	}
	if tys.DeepUnwrap(opt) != tys.Schema(inner) {
		t.Fatalf("DeepUnwrap should peel same-kind chains")
	}
	mixed := dsl.Optional(dsl.Nullable(dsl.Optional(inner)))
	if tys.NullishDeepUnwrap(mixed) != tys.Schema(inner) {
		t.Fatalf("NullishDeepUnwrap should treat optional and nullable alike")
	}
	if tys.Unwrap(inner) != tys.Schema(inner) {
		t.Fatalf("Unwrap of a non-wrapper is the identity")
	}
}
