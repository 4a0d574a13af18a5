// Package dsl provides the schema constructors of tys: primitive validators
// (String, Number, BigInt, Bool, Literal, Enum, Date, Bytes, ...), composite
// validators (Array, Tuple, Set, Record, Map, Object, Union, Intersection,
// Pipe), and wrapper combinators (Optional, Nullable, Required, Default,
// Catch, Brand, Readonly, Lazy, Preprocess, Refine, Transform).
//
// Every constructor returns an immutable node; chain methods copy the node
// and return the modified copy, so schemas can be shared freely across
// concurrent parse invocations.
package dsl
