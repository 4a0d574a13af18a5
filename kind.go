package tys

// Kind is the closed discriminant of schema variants. Cross-cutting behavior
// (deep unwrap, union flattening, object shape access) switches on Kind
// instead of runtime type tests so new variants surface every call site.
type Kind int

const (
	KindInvalid Kind = iota

	// primitives
	KindString
	KindNumber
	KindBigInt
	KindBool
	KindLiteral
	KindEnum
	KindDate
	KindBytes
	KindAny
	KindUnknown
	KindNever
	KindVoid
	KindUndefined
	KindNull
	KindInstance

	// composites
	KindArray
	KindTuple
	KindSet
	KindRecord
	KindMap
	KindObject
	KindUnion
	KindIntersection
	KindPipeline

	// wrappers
	KindOptional
	KindNullable
	KindRequired
	KindReadonly
	KindBrand
	KindDefault
	KindCatch
	KindLazy
	KindEffects
	KindMemo
)

var kindNames = map[Kind]string{
	KindInvalid:      "invalid",
	KindString:       "string",
	KindNumber:       "number",
	KindBigInt:       "bigint",
	KindBool:         "bool",
	KindLiteral:      "literal",
	KindEnum:         "enum",
	KindDate:         "date",
	KindBytes:        "bytes",
	KindAny:          "any",
	KindUnknown:      "unknown",
	KindNever:        "never",
	KindVoid:         "void",
	KindUndefined:    "undefined",
	KindNull:         "null",
	KindInstance:     "instance",
	KindArray:        "array",
	KindTuple:        "tuple",
	KindSet:          "set",
	KindRecord:       "record",
	KindMap:          "map",
	KindObject:       "object",
	KindUnion:        "union",
	KindIntersection: "intersection",
	KindPipeline:     "pipeline",
	KindOptional:     "optional",
	KindNullable:     "nullable",
	KindRequired:     "required",
	KindReadonly:     "readonly",
	KindBrand:        "brand",
	KindDefault:      "default",
	KindCatch:        "catch",
	KindLazy:         "lazy",
	KindEffects:      "effects",
	KindMemo:         "memo",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "invalid"
}
