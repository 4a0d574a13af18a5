package tys

// ParseOpt bundles per-invocation parsing options. When several are passed,
// the last one wins.
type ParseOpt struct {
	// FailFast overrides the schema-level and global abort-early defaults for
	// this call only. Leave nil to inherit.
	FailFast *bool
	// Debug enables verbose tracing through the configured logger. It never
	// alters validation outcomes.
	Debug bool
	// ErrorMap is the highest-priority message override for this call only.
	ErrorMap ErrorMap
}

// FailFastOn and FailFastOff are ready-made pointers for ParseOpt.FailFast.
var (
	FailFastOn  = ptrBool(true)
	FailFastOff = ptrBool(false)
)

func ptrBool(b bool) *bool { return &b }

// UnknownPolicy controls how object schemas handle keys absent from the
// declared shape. Policies are mutually exclusive; a catchall schema, when
// configured, replaces the policy entirely.
type UnknownPolicy int

const (
	UnknownStrip       UnknownPolicy = iota // Drop unknown keys (default).
	UnknownPassthrough                      // Preserve unknown keys unvalidated.
	UnknownStrict                           // Reject unknown keys with an error.
)
