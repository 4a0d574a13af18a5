package dsl_test

import (
	"context"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	tys "github.com/tyslab/tys"
	"github.com/tyslab/tys/dsl"
)

func TestNumberBounds(t *testing.T) {
	ctx := context.Background()
	s := dsl.Number().Min(1).Max(10)
	assert.True(t, tys.Is(ctx, s, 1.0))
	assert.True(t, tys.Is(ctx, s, 10))
	assert.False(t, tys.Is(ctx, s, 0.5))
	assert.False(t, tys.Is(ctx, s, 11))

	exc := dsl.Number().Min(1, dsl.Exclusive())
	assert.False(t, tys.Is(ctx, exc, 1.0))
	assert.True(t, tys.Is(ctx, exc, 1.1))
}

func TestNumberRangeDropsMinMax(t *testing.T) {
	ctx := context.Background()
	s := dsl.Number().Min(100).Range(0, 10)
	assert.True(t, tys.Is(ctx, s, 5))

	s = dsl.Number().Range(0, 10).Min(100)
	assert.False(t, tys.Is(ctx, s, 5))
	assert.True(t, tys.Is(ctx, s, 150))
}

func TestNumberDecimalSafeMultiple(t *testing.T) {
	ctx := context.Background()
	s := dsl.Number().Multiple(0.1)
	// 0.3/0.1 drifts under plain float modulo; the scaled check accepts it
	assert.True(t, tys.Is(ctx, s, 0.3))
	assert.True(t, tys.Is(ctx, s, 0.7))
	assert.False(t, tys.Is(ctx, s, 0.35))

	assert.True(t, tys.Is(ctx, dsl.Number().Multiple(3), 9))
	assert.False(t, tys.Is(ctx, dsl.Number().Multiple(3), 10))
}

func TestNumberNaNIsTypeMismatch(t *testing.T) {
	ctx := context.Background()
	r := tys.SafeParse[float64](ctx, dsl.Number(), math.NaN())
	assert.False(t, r.OK)
	iss, _ := tys.AsIssues(r.Err)
	assert.Equal(t, tys.CodeInvalidType, iss[0].Code)
}

func TestNumberChecks(t *testing.T) {
	ctx := context.Background()
	assert.True(t, tys.Is(ctx, dsl.Number().Int(), 4.0))
	assert.False(t, tys.Is(ctx, dsl.Number().Int(), 4.5))
	assert.True(t, tys.Is(ctx, dsl.Number().Positive(), 0.1))
	assert.False(t, tys.Is(ctx, dsl.Number().Positive(), 0))
	assert.True(t, tys.Is(ctx, dsl.Number().Nonnegative(), 0))
	assert.False(t, tys.Is(ctx, dsl.Number().Finite(), math.Inf(1)))
	assert.True(t, tys.Is(ctx, dsl.Number().Port(), 8080))
	assert.False(t, tys.Is(ctx, dsl.Number().Port(), 70000))
}

func TestNumberCoerce(t *testing.T) {
	ctx := context.Background()
	s := dsl.Number().Coerce()
	got, err := tys.Parse[float64](ctx, s, " 3.5 ")
	assert.NoError(t, err)
	assert.Equal(t, 3.5, got)
	got, err = tys.Parse[float64](ctx, s, true)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, got)
	assert.False(t, tys.Is(ctx, s, "not a number"))
}

func TestBigInt(t *testing.T) {
	ctx := context.Background()
	s := dsl.BigInt().Min(big.NewInt(0)).Multiple(big.NewInt(5))
	got, err := tys.Parse[*big.Int](ctx, s, big.NewInt(25))
	assert.NoError(t, err)
	assert.Equal(t, 0, got.Cmp(big.NewInt(25)))
	assert.False(t, tys.Is(ctx, s, big.NewInt(7)))
	assert.False(t, tys.Is(ctx, s, big.NewInt(-5)))

	c := dsl.BigInt().Coerce()
	got, err = tys.Parse[*big.Int](ctx, c, "123456789012345678901234567890")
	assert.NoError(t, err)
	assert.Equal(t, "123456789012345678901234567890", got.String())
}

func TestBool(t *testing.T) {
	ctx := context.Background()
	assert.True(t, tys.Is(ctx, dsl.Bool(), true))
	assert.False(t, tys.Is(ctx, dsl.Bool(), "true"))
	got, err := tys.Parse[bool](ctx, dsl.Bool().Coerce(), "true")
	assert.NoError(t, err)
	assert.True(t, got)
	got, err = tys.Parse[bool](ctx, dsl.Bool().Coerce(), 0)
	assert.NoError(t, err)
	assert.False(t, got)
}

func TestDateBoundsAndCoercion(t *testing.T) {
	ctx := context.Background()
	lo := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	hi := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	s := dsl.Date().Range(dsl.At(lo), dsl.At(hi))
	assert.True(t, tys.Is(ctx, s, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, tys.Is(ctx, s, time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC)))

	past := dsl.Date().Max(dsl.Now)
	assert.True(t, tys.Is(ctx, past, time.Now().Add(-time.Hour)))
	assert.False(t, tys.Is(ctx, past, time.Now().Add(time.Hour)))

	c := dsl.Date().Coerce()
	got, err := tys.Parse[time.Time](ctx, c, "2024-03-01T10:00:00Z")
	assert.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))
	got, err = tys.Parse[time.Time](ctx, c, float64(0))
	assert.NoError(t, err)
	assert.True(t, got.Equal(time.Unix(0, 0)))
}

func TestBytes(t *testing.T) {
	ctx := context.Background()
	s := dsl.Bytes().Min(2).Max(4)
	assert.True(t, tys.Is(ctx, s, []byte("abc")))
	assert.False(t, tys.Is(ctx, s, []byte("a")))
	assert.False(t, tys.Is(ctx, s, "abc"))

	got, err := tys.Parse[[]byte](ctx, dsl.Bytes().Coerce(), "hi")
	assert.NoError(t, err)
	assert.Equal(t, []byte("hi"), got)
}

func TestLiteralAndEnum(t *testing.T) {
	ctx := context.Background()
	assert.True(t, tys.Is(ctx, dsl.Literal("on"), "on"))
	assert.False(t, tys.Is(ctx, dsl.Literal("on"), "off"))
	// numeric forms are normalized before comparison
	assert.True(t, tys.Is(ctx, dsl.Literal(1), 1.0))

	e := dsl.EnumOf("red", "green", "blue")
	assert.True(t, tys.Is(ctx, e, "green"))
	r := tys.SafeParse[string](ctx, e, "yellow")
	assert.False(t, r.OK)
	iss, _ := tys.AsIssues(r.Err)
	assert.Equal(t, tys.CodeInvalidEnumValue, iss[0].Code)
}

func TestSpecialSchemas(t *testing.T) {
	ctx := context.Background()
	assert.True(t, tys.Is(ctx, dsl.Any(), map[string]any{"x": 1}))
	assert.True(t, tys.Is(ctx, dsl.Unknown(), nil))
	assert.False(t, tys.Is(ctx, dsl.Never(), "anything"))
	assert.True(t, tys.Is(ctx, dsl.Null(), nil))
	assert.False(t, tys.Is(ctx, dsl.Null(), "x"))

	type widget struct{ ID int }
	assert.True(t, tys.Is(ctx, dsl.InstanceOf[widget](), widget{ID: 1}))
	assert.False(t, tys.Is(ctx, dsl.InstanceOf[widget](), "nope"))
}
