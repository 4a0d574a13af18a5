package tys

import (
	"context"
	"testing"
)

// stubSchema is the minimal Schema used by context tests.
type stubSchema struct {
	kind     Kind
	failFast *bool
}

func (s stubSchema) Kind() Kind                   { return s.kind }
func (s stubSchema) ParseIn(*ParseContext) Result { return Valid(nil) }
func (s stubSchema) Async() bool                  { return false }
func (s stubSchema) Meta() Meta                   { return Meta{Kind: s.kind} }
func (s stubSchema) FailFastHint() (bool, bool) {
	if s.failFast == nil {
		return false, false
	}
	return *s.failFast, true
}

func TestRenderPath(t *testing.T) {
	cases := []struct {
		segs []any
		want string
	}{
		{nil, "/"},
		{[]any{"items", 2, "price"}, "/items/2/price"},
		{[]any{"a/b"}, "/a~1b"},
		{[]any{"t~e"}, "/t~0e"},
	}
	for _, tc := range cases {
		if got := RenderPath(tc.segs); got != tc.want {
			t.Fatalf("RenderPath(%v) = %q, want %q", tc.segs, got, tc.want)
		}
	}
}

func TestChildPathAndSink(t *testing.T) {
	pc := NewParseContext(context.Background(), stubSchema{kind: KindObject}, nil, false)
	child := pc.Child(stubSchema{kind: KindString}, "v", "name")
	grand := child.Child(stubSchema{kind: KindNumber}, 1, 0)
	if got := grand.PathString(); got != "/name/0" {
		t.Fatalf("path = %q", got)
	}
	grand.AddIssue(Issue{Code: CodeInvalidType})
	// sinks are shared up the chain
	if len(pc.Issues()) != 1 {
		t.Fatalf("root sink has %d issues, want 1", len(pc.Issues()))
	}
	if pc.Issues()[0].Path != "/name/0" {
		t.Fatalf("issue path = %q", pc.Issues()[0].Path)
	}
	if pc.IsValid() {
		t.Fatalf("root should be invalid after a child issue")
	}
}

func TestBranchIsolationAndAbsorb(t *testing.T) {
	pc := NewParseContext(context.Background(), stubSchema{kind: KindUnion}, nil, false)
	b := pc.Branch(stubSchema{kind: KindString}, "v")
	b.AddIssue(Issue{Code: CodeInvalidType})
	if !pc.IsValid() {
		t.Fatalf("branch issues must not leak before Absorb")
	}
	pc.Absorb(b)
	if len(pc.Issues()) != 1 {
		t.Fatalf("absorbed %d issues, want 1", len(pc.Issues()))
	}
}

func TestAddIssueResolvesDefaultMessage(t *testing.T) {
	pc := NewParseContext(context.Background(), stubSchema{kind: KindString}, nil, false)
	pc.AddIssue(Issue{Code: CodeRequired})
	if msg := pc.Issues()[0].Message; msg == "" {
		t.Fatalf("default message should be resolved from the dictionary")
	}
}

func TestAddIssueCallErrorMapWins(t *testing.T) {
	pc := NewParseContext(context.Background(), stubSchema{kind: KindString}, nil, false,
		ParseOpt{ErrorMap: func(Issue) string { return "custom" }})
	pc.AddIssue(Issue{Code: CodeRequired, Message: "preset"})
	if msg := pc.Issues()[0].Message; msg != "custom" {
		t.Fatalf("message = %q, want the per-call map to win", msg)
	}
}

func TestFailFastResolutionOrder(t *testing.T) {
	on := true
	// schema hint applies when no call option is present
	pc := NewParseContext(context.Background(), stubSchema{kind: KindString, failFast: &on}, nil, false)
	if !pc.FailFast() {
		t.Fatalf("schema hint should enable fail-fast")
	}
	// the call option overrides the schema hint
	pc = NewParseContext(context.Background(), stubSchema{kind: KindString, failFast: &on}, nil, false,
		ParseOpt{FailFast: FailFastOff})
	if pc.FailFast() {
		t.Fatalf("call option should override the schema hint")
	}
	// last call option wins
	pc = NewParseContext(context.Background(), stubSchema{kind: KindString}, nil, false,
		ParseOpt{FailFast: FailFastOn}, ParseOpt{FailFast: FailFastOff})
	if pc.FailFast() {
		t.Fatalf("last option should win")
	}
}
