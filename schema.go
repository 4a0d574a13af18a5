package tys

import (
	"context"
	"errors"
)

// Schema is the contract every variant implements. Nodes are immutable once
// constructed; every configuring operation in the dsl returns a new node.
type Schema interface {
	// Kind is the closed variant discriminant.
	Kind() Kind
	// ParseIn consumes a context and produces a result. Validation failures
	// are recorded through the context's issue sink, never returned as
	// language-level errors.
	ParseIn(pc *ParseContext) Result
	// Async reports whether this node or any descendant carries an async
	// effect. Async trees must be driven through ParseAsync.
	Async() bool
	// Meta exposes the structural flags an external manifest generator needs.
	Meta() Meta
}

// Meta is the per-node structural metadata surfaced for introspection.
type Meta struct {
	Kind     Kind
	Optional bool
	Nullable bool
	Readonly bool
	Async    bool
}

// Unwrapper is implemented by wrapper variants; Unwrap returns the
// immediately wrapped schema.
type Unwrapper interface {
	Unwrap() Schema
}

// ErrAsyncSchema is the programmer-misuse error returned when a synchronous
// entrypoint is used on a schema tree containing async effects. It is not a
// validation failure.
var ErrAsyncSchema = errors.New("tys: synchronous parse on an async schema; use ParseAsync")

// SafeResult is the non-throwing result shape. Exactly one of Data/Err is
// meaningful, selected by OK.
type SafeResult[T any] struct {
	OK   bool
	Data T
	// Err is a *ParseError for validation failures, or a plain error such as
	// ErrAsyncSchema for programmer misuse.
	Err error
}

// Parse validates v against s and returns the typed output, or an error
// aggregating every issue found.
func Parse[T any](ctx context.Context, s Schema, v any, opts ...ParseOpt) (T, error) {
	r := SafeParse[T](ctx, s, v, opts...)
	if !r.OK {
		var zero T
		return zero, r.Err
	}
	return r.Data, nil
}

// SafeParse is like Parse but never returns an error for validation
// failures; inspect the SafeResult instead.
func SafeParse[T any](ctx context.Context, s Schema, v any, opts ...ParseOpt) SafeResult[T] {
	if s.Async() {
		return SafeResult[T]{Err: ErrAsyncSchema}
	}
	return run[T](ctx, s, v, false, opts...)
}

// ParseAsync validates v against s on the asynchronous path, fanning out
// independent child validations concurrently.
func ParseAsync[T any](ctx context.Context, s Schema, v any, opts ...ParseOpt) (T, error) {
	r := SafeParseAsync[T](ctx, s, v, opts...)
	if !r.OK {
		var zero T
		return zero, r.Err
	}
	return r.Data, nil
}

// SafeParseAsync is the non-throwing async entrypoint. For a tree with no
// async member it produces a result structurally identical to SafeParse.
func SafeParseAsync[T any](ctx context.Context, s Schema, v any, opts ...ParseOpt) SafeResult[T] {
	return run[T](ctx, s, v, true, opts...)
}

func run[T any](ctx context.Context, s Schema, v any, async bool, opts ...ParseOpt) SafeResult[T] {
	pc := NewParseContext(ctx, s, v, async, opts...)
	if pc.Debug() {
		pc.root.cfg.logger.V(1).Info("parse start", "schema", s.Kind().String(), "async", async, "failFast", pc.FailFast())
	}
	res := s.ParseIn(pc)
	if res.Status != StatusValid || !pc.IsValid() {
		iss := pc.Issues()
		if len(iss) == 0 {
			// A node aborted without recording anything; surface a generic entry
			// so the error is never empty.
			iss = Issues{{Path: "/", Code: CodeParseError, Message: "parse aborted"}}
		}
		return SafeResult[T]{Err: newParseError(s, iss, pc.root.cfg.formatter)}
	}
	// nil (JSON null) and Missing have no typed representation; collapse to
	// T's zero value so Parse[any] and Parse[string] behave alike.
	if res.Value == nil || IsMissing(res.Value) {
		var zero T
		return SafeResult[T]{OK: true, Data: zero}
	}
	out, ok := res.Value.(T)
	if !ok {
		pc.AddIssue(Issue{Path: "/", Code: CodeInvalidType, Params: map[string]any{
			"expected": "typed output", "received": TypeOf(res.Value).String(),
		}})
		return SafeResult[T]{Err: newParseError(s, pc.Issues(), pc.root.cfg.formatter)}
	}
	return SafeResult[T]{OK: true, Data: out}
}

// Validate runs s against v and reports issues without returning the parsed
// output.
func Validate(ctx context.Context, s Schema, v any, opts ...ParseOpt) error {
	_, err := Parse[any](ctx, s, v, opts...)
	return err
}

// Is reports whether v conforms to s.
func Is(ctx context.Context, s Schema, v any) bool {
	return Validate(ctx, s, v) == nil
}
