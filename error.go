package tys

import "sync"

// ParseError aggregates every issue found during one failed parse invocation.
// One parse produces at most one ParseError, never one error per issue. The
// display message is rendered lazily by the formatter configured at the time
// the error was created.
type ParseError struct {
	// Schema is the root schema of the failed invocation.
	Schema Schema
	// Issues is the full ordered issue list.
	Issues Issues

	format Formatter
	once   sync.Once
	msg    string
}

func newParseError(s Schema, iss Issues, f Formatter) *ParseError {
	if f == nil {
		f = Global().ErrorFormatter()
	}
	return &ParseError{Schema: s, Issues: iss, format: f}
}

// Error renders the formatted message, computing it once on first use.
func (e *ParseError) Error() string {
	e.once.Do(func() { e.msg = e.format(e.Issues) })
	return e.msg
}

// Unwrap exposes the issue list for errors.As chains.
func (e *ParseError) Unwrap() error { return e.Issues }
