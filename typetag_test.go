package tys

import (
	"math"
	"math/big"
	"testing"
	"time"
)

func TestTypeOf(t *testing.T) {
	type payload struct{ A int }
	cases := []struct {
		name string
		in   any
		want TypeTag
	}{
		{"nil", nil, TypeNil},
		{"missing", Missing, TypeMissing},
		{"string", "x", TypeString},
		{"bool", true, TypeBool},
		{"float", 1.5, TypeNumber},
		{"nan", math.NaN(), TypeNaN},
		{"int", 7, TypeInteger},
		{"bigint", big.NewInt(1), TypeBigInt},
		{"date", time.Now(), TypeDate},
		{"bytes", []byte("b"), TypeBytes},
		{"array", []any{1}, TypeArray},
		{"typed slice", []string{"a"}, TypeArray},
		{"object", map[string]any{}, TypeObject},
		{"map", map[any]any{}, TypeMap},
		{"set", map[any]struct{}{}, TypeSet},
		{"func", func() {}, TypeFunc},
		{"chan", make(chan any), TypeThunk},
		{"struct", payload{}, TypeInstance},
		{"struct ptr", &payload{}, TypeInstance},
		{"nil ptr", (*payload)(nil), TypeNil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TypeOf(tc.in); got != tc.want {
				t.Fatalf("TypeOf(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestTypeTagString(t *testing.T) {
	if TypeNil.String() != "null" {
		t.Fatalf("TypeNil = %q", TypeNil.String())
	}
	if TypeTag(999).String() != "unknown" {
		t.Fatalf("out-of-range tag should stringify as unknown")
	}
}
