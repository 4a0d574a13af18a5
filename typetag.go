package tys

import (
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"time"
)

// missing is the sentinel for values that are absent rather than null.
// Object and tuple parsing pass Missing to children for keys the input did
// not contain; Optional/Default/Required match on it.
type missing struct{}

// Missing marks an absent value. It is distinct from untyped nil (JSON null).
var Missing any = missing{}

// IsMissing reports whether v is the Missing sentinel.
func IsMissing(v any) bool {
	_, ok := v.(missing)
	return ok
}

// TypeTag is the coarse runtime classification of an input value. It is used
// for fast invalid-type issues, union dispatch, and literal/enum comparison.
type TypeTag int

const (
	TypeUnknown TypeTag = iota
	TypeString
	TypeNumber
	TypeInteger
	TypeNaN
	TypeBigInt
	TypeBool
	TypeDate
	TypeBytes
	TypeArray
	TypeObject
	TypeMap
	TypeSet
	TypeFunc
	TypeThunk
	TypeInstance
	TypeNil
	TypeMissing
)

var typeTagNames = map[TypeTag]string{
	TypeUnknown:  "unknown",
	TypeString:   "string",
	TypeNumber:   "number",
	TypeInteger:  "integer",
	TypeNaN:      "nan",
	TypeBigInt:   "bigint",
	TypeBool:     "bool",
	TypeDate:     "date",
	TypeBytes:    "bytes",
	TypeArray:    "array",
	TypeObject:   "object",
	TypeMap:      "map",
	TypeSet:      "set",
	TypeFunc:     "func",
	TypeThunk:    "thunk",
	TypeInstance: "instance",
	TypeNil:      "null",
	TypeMissing:  "missing",
}

func (t TypeTag) String() string {
	if s, ok := typeTagNames[t]; ok {
		return s
	}
	return "unknown"
}

// TypeOf classifies any runtime value into a TypeTag. It is total and
// side-effect-free; it never panics.
func TypeOf(v any) TypeTag {
	switch x := v.(type) {
	case nil:
		return TypeNil
	case missing:
		return TypeMissing
	case string:
		return TypeString
	case bool:
		return TypeBool
	case float64:
		if math.IsNaN(x) {
			return TypeNaN
		}
		return TypeNumber
	case float32:
		if math.IsNaN(float64(x)) {
			return TypeNaN
		}
		return TypeNumber
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeInteger
	case json.Number:
		return TypeNumber
	case *big.Int:
		return TypeBigInt
	case big.Int:
		return TypeBigInt
	case time.Time:
		return TypeDate
	case *time.Time:
		return TypeDate
	case []byte:
		return TypeBytes
	case []any:
		return TypeArray
	case map[string]any:
		return TypeObject
	case map[any]any:
		return TypeMap
	case map[any]struct{}:
		return TypeSet
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return TypeArray
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return TypeObject
		}
		return TypeMap
	case reflect.Func:
		return TypeFunc
	case reflect.Chan:
		return TypeThunk
	case reflect.Struct:
		return TypeInstance
	case reflect.Pointer:
		if rv.IsNil() {
			return TypeNil
		}
		if rv.Elem().Kind() == reflect.Struct {
			return TypeInstance
		}
		return TypeOf(rv.Elem().Interface())
	}
	return TypeUnknown
}
