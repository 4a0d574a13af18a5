package dsl

import (
	"reflect"

	tys "github.com/tyslab/tys"
)

// passSchema accepts anything; it backs Any and Unknown.
type passSchema struct{ base }

// Any returns a schema accepting every value, including Missing and nil.
func Any() tys.Schema { return passSchema{base{kind: tys.KindAny}} }

// Unknown is Any with a distinct kind for the static layer; runtime behavior
// is identical.
func Unknown() tys.Schema { return passSchema{base{kind: tys.KindUnknown}} }

func (s passSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	return tys.Valid(pc.Data())
}

// neverSchema rejects everything.
type neverSchema struct{ base }

// Never returns a schema rejecting every value with a Forbidden issue.
func Never() tys.Schema { return neverSchema{base{kind: tys.KindNever}} }

func (s neverSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	pc.AddIssue(tys.Issue{Code: tys.CodeForbidden, Message: s.message(tys.CodeForbidden)})
	return pc.Abort()
}

// unitSchema accepts exactly one sentinel (nil or Missing).
type unitSchema struct {
	base
	wantMissing bool
	expected    string
}

// Null returns a schema accepting only JSON null (untyped nil).
func Null() tys.Schema {
	return unitSchema{base: base{kind: tys.KindNull}, expected: "null"}
}

// Undefined returns a schema accepting only the Missing sentinel.
func Undefined() tys.Schema {
	return unitSchema{base: base{kind: tys.KindUndefined}, wantMissing: true, expected: "missing"}
}

// Void is Undefined under its static-layer name.
func Void() tys.Schema {
	return unitSchema{base: base{kind: tys.KindVoid}, wantMissing: true, expected: "missing"}
}

func (s unitSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	v := pc.Data()
	if s.wantMissing {
		if tys.IsMissing(v) {
			return tys.Valid(tys.Missing)
		}
	} else if v == nil {
		return tys.Valid(nil)
	}
	return invalidType(pc, s.expected, s.message(tys.CodeInvalidType))
}

// instanceSchema accepts values assignable to a target reflect type.
type instanceSchema struct {
	base
	target reflect.Type
}

// InstanceOf returns a schema accepting values whose dynamic type is T (or
// assignable to it).
func InstanceOf[T any]() tys.Schema {
	return instanceSchema{
		base:   base{kind: tys.KindInstance},
		target: reflect.TypeOf((*T)(nil)).Elem(),
	}
}

func (s instanceSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	v := pc.Data()
	if v != nil {
		rt := reflect.TypeOf(v)
		if rt.AssignableTo(s.target) {
			return tys.Valid(v)
		}
	}
	pc.AddIssue(tys.Issue{
		Code:    tys.CodeInvalidInstance,
		Message: s.message(tys.CodeInvalidInstance),
		Params: map[string]any{
			"expected": s.target.String(),
			"received": tys.TypeOf(v).String(),
		},
	})
	return pc.Abort()
}
