package tys

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType          = "invalid_type"
	CodeRequired             = "required"
	CodeInvalidLiteral       = "invalid_literal"
	CodeInvalidEnumValue     = "invalid_enum_value"
	CodeInvalidString        = "invalid_string"
	CodeInvalidNumber        = "invalid_number"
	CodeInvalidBigInt        = "invalid_bigint"
	CodeInvalidDate          = "invalid_date"
	CodeInvalidBytes         = "invalid_bytes"
	CodeInvalidArray         = "invalid_array"
	CodeInvalidSet           = "invalid_set"
	CodeInvalidTuple         = "invalid_tuple"
	CodeInvalidUnion         = "invalid_union"
	CodeInvalidIntersection  = "invalid_intersection"
	CodeUnrecognizedKeys     = "unrecognized_keys"
	CodeInvalidInstance      = "invalid_instance"
	CodeForbidden            = "forbidden"
	CodeCustom               = "custom"
	CodeDiscriminatorMissing = "discriminator_missing"
	CodeDiscriminatorUnknown = "discriminator_unknown"
	CodeParseError           = "parse_error"
)

// Issue represents a single validation entry. Path is always relative to the
// root of the parse invocation, rendered as a JSON Pointer (for example:
// /items/2/price).
type Issue struct {
	Path    string
	Code    string
	Message string
	Hint    string // Optional: remediation hints, format names, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":1, "max":10, "got":42})
	// for i18n and observability.
	Params map[string]any
	// Nested holds per-branch issue lists for composite failures (one entry
	// per failed union member, in declaration order; one per conflicting
	// intersection merge).
	Nested []Issues
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally. It also
// unwraps a *ParseError to its issue list.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Issues, true
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
