package tys

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tyslab/tys/i18n"
)

// Status is the outcome of one schema node's parse step.
type Status int

const (
	// StatusValid carries a usable output value.
	StatusValid Status = iota
	// StatusInvalid marks a failed step; the issues live in the context sink.
	StatusInvalid
)

// Result is what every schema's ParseIn returns.
type Result struct {
	Status Status
	Value  any
}

// Valid wraps a successfully parsed value.
func Valid(v any) Result { return Result{Status: StatusValid, Value: v} }

// Invalid marks a failed step. Issues must already be in the sink.
func Invalid() Result { return Result{Status: StatusInvalid} }

type issueSink struct {
	issues  Issues
	aborted bool
}

// rootState is shared by reference across every context of one invocation.
type rootState struct {
	goctx    context.Context
	schema   Schema
	failFast bool
	debug    bool
	async    bool
	errMap   ErrorMap
	cfg      configSnapshot
}

// ParseContext is the mutable execution record threaded through one parse
// invocation. Child contexts share the root's issue sink and options and
// differ only in data, path, and active schema.
type ParseContext struct {
	root   *rootState
	sink   *issueSink
	schema Schema
	data   any
	path   []any
}

// failFastHinter lets schema nodes carry an abort-early preference resolved
// at root-context construction (call option > schema option > global).
type failFastHinter interface {
	FailFastHint() (value, ok bool)
}

// NewParseContext builds the root context for one invocation.
func NewParseContext(ctx context.Context, s Schema, v any, async bool, opts ...ParseOpt) *ParseContext {
	var opt ParseOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	cfg := Global().snapshot()
	ff := cfg.abortEarly
	if h, ok := s.(failFastHinter); ok {
		if hv, hok := h.FailFastHint(); hok {
			ff = hv
		}
	}
	if opt.FailFast != nil {
		ff = *opt.FailFast
	}
	if ctx == nil {
		ctx = context.Background()
	}
	rs := &rootState{
		goctx:    ctx,
		schema:   s,
		failFast: ff,
		debug:    opt.Debug,
		async:    async,
		errMap:   opt.ErrorMap,
		cfg:      cfg,
	}
	return &ParseContext{root: rs, sink: &issueSink{}, schema: s, data: v}
}

// Ctx returns the context.Context of the invocation.
func (pc *ParseContext) Ctx() context.Context { return pc.root.goctx }

// Data returns the current value under inspection.
func (pc *ParseContext) Data() any { return pc.data }

// SetData mutates the current value in place so subsequent checks in the same
// node observe coerced or transformed data.
func (pc *ParseContext) SetData(v any) { pc.data = v }

// Schema returns the currently active schema node.
func (pc *ParseContext) Schema() Schema { return pc.schema }

// FailFast reports whether this invocation aborts on the first issue.
func (pc *ParseContext) FailFast() bool { return pc.root.failFast }

// Async reports whether this invocation runs on the asynchronous path.
func (pc *ParseContext) Async() bool { return pc.root.async }

// Debug reports whether verbose tracing is enabled for this invocation.
func (pc *ParseContext) Debug() bool { return pc.root.debug }

// Child descends into a nested value, sharing the root issue sink. seg is the
// property key (string) or index (int) of the nested position.
func (pc *ParseContext) Child(s Schema, v any, seg any) *ParseContext {
	path := make([]any, len(pc.path), len(pc.path)+1)
	copy(path, pc.path)
	path = append(path, seg)
	return &ParseContext{root: pc.root, sink: pc.sink, schema: s, data: v, path: path}
}

// Sibling re-targets an alternative schema at the same logical position, so
// issues from rejected branches still report the correct path.
func (pc *ParseContext) Sibling(s Schema) *ParseContext {
	return &ParseContext{root: pc.root, sink: pc.sink, schema: s, data: pc.data, path: pc.path}
}

// Branch is a sibling with a private issue sink. Union member trials and
// concurrent fan-out run in branches; Absorb merges their issues back in a
// deterministic order.
func (pc *ParseContext) Branch(s Schema, v any) *ParseContext {
	return &ParseContext{root: pc.root, sink: &issueSink{}, schema: s, data: v, path: pc.path}
}

// ChildBranch combines Child and Branch for concurrent element fan-out.
func (pc *ParseContext) ChildBranch(s Schema, v any, seg any) *ParseContext {
	c := pc.Child(s, v, seg)
	c.sink = &issueSink{}
	return c
}

// Absorb appends a branch's issues to this context's sink, preserving order.
func (pc *ParseContext) Absorb(b *ParseContext) {
	if b == nil || len(b.sink.issues) == 0 {
		return
	}
	pc.sink.issues = append(pc.sink.issues, b.sink.issues...)
}

// TakeIssues drains and returns a branch's collected issues.
func (pc *ParseContext) TakeIssues() Issues {
	iss := pc.sink.issues
	pc.sink.issues = nil
	return iss
}

// AddIssue resolves the issue message through the override chain
// (call map > preset message > global map > i18n default), stamps the path,
// and appends it to the invocation's sink. It returns pc for chaining into
// Abort.
func (pc *ParseContext) AddIssue(iss Issue) *ParseContext {
	if iss.Path == "" {
		iss.Path = pc.PathString()
	}
	if msg := pc.resolveMessage(iss); msg != "" {
		iss.Message = msg
	}
	pc.sink.issues = append(pc.sink.issues, iss)
	if pc.root.debug {
		pc.root.cfg.logger.V(1).Info("issue recorded",
			"code", iss.Code, "path", iss.Path, "schema", pc.schema.Kind().String())
	}
	return pc
}

func (pc *ParseContext) resolveMessage(iss Issue) string {
	if pc.root.errMap != nil {
		if m := pc.root.errMap(iss); m != "" {
			return m
		}
	}
	if iss.Message != "" {
		return iss.Message
	}
	if pc.root.cfg.errorMap != nil {
		if m := pc.root.cfg.errorMap(iss); m != "" {
			return m
		}
	}
	return i18n.T(iss.Code, iss.Params)
}

// Abort marks the invocation as failed and returns the failed result.
func (pc *ParseContext) Abort() Result {
	pc.sink.aborted = true
	return Invalid()
}

// IsValid reports whether no issue has been recorded in this context's sink.
// Under fail-fast, every node must consult it at well-defined points
// (after child parses and after any join) and skip further work when false.
func (pc *ParseContext) IsValid() bool {
	return !pc.sink.aborted && len(pc.sink.issues) == 0
}

// Issues returns the issues collected so far in this context's sink.
func (pc *ParseContext) Issues() Issues { return pc.sink.issues }

// PathString renders the current path as a JSON Pointer ("/" for the root).
func (pc *ParseContext) PathString() string { return RenderPath(pc.path) }

// Path returns the raw path segments from the root.
func (pc *ParseContext) Path() []any { return pc.path }

// RenderPath renders path segments as a JSON Pointer, escaping per RFC 6901.
func RenderPath(segs []any) string {
	if len(segs) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, seg := range segs {
		b.WriteByte('/')
		switch s := seg.(type) {
		case string:
			b.WriteString(escapePointer(s))
		case int:
			b.WriteString(strconv.Itoa(s))
		default:
			b.WriteString(escapePointer(fmt.Sprint(seg)))
		}
	}
	return b.String()
}

func escapePointer(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}
