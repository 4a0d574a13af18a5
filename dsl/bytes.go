package dsl

import (
	tys "github.com/tyslab/tys"
)

type bytesCheckKind int

const (
	chkBytesMin bytesCheckKind = iota
	chkBytesMax
	chkBytesLength
)

var bytesCheckNames = map[bytesCheckKind]string{
	chkBytesMin: "min", chkBytesMax: "max", chkBytesLength: "length",
}

type bytesCheck struct {
	kind      bytesCheckKind
	n         int
	inclusive bool
	msg       string
}

// BytesSchema validates binary values as []byte.
type BytesSchema struct {
	base
	coerce bool
	checks []bytesCheck
}

// Bytes returns a new binary schema node.
func Bytes() *BytesSchema {
	return &BytesSchema{base: base{kind: tys.KindBytes}}
}

func (s *BytesSchema) clone() *BytesSchema {
	c := *s
	c.opts = s.opts.clone()
	c.checks = append([]bytesCheck(nil), s.checks...)
	return &c
}

// Coerce enables conversion from strings.
func (s *BytesSchema) Coerce() *BytesSchema {
	c := s.clone()
	c.coerce = true
	return c
}

// FailFast sets the node-level abort-early preference.
func (s *BytesSchema) FailFast(on bool) *BytesSchema {
	c := s.clone()
	c.opts.failFast = &on
	return c
}

// Message overrides the message used for a given issue code on this node.
func (s *BytesSchema) Message(code, msg string) *BytesSchema {
	c := s.clone()
	c.opts.setMessage(code, msg)
	return c
}

func (s *BytesSchema) addCheck(ck bytesCheck) *BytesSchema {
	c := s.clone()
	c.checks = append(c.checks, ck)
	return c
}

func (s *BytesSchema) dropChecks(kinds ...bytesCheckKind) {
	out := s.checks[:0]
	for _, ck := range s.checks {
		drop := false
		for _, k := range kinds {
			if ck.kind == k {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, ck)
		}
	}
	s.checks = out
}

// Min requires at least n bytes. Adding it removes a previous Length.
func (s *BytesSchema) Min(n int, opts ...CheckOpt) *BytesSchema {
	cfg := applyCheckOpts(opts)
	c := s.clone()
	c.dropChecks(chkBytesLength)
	return c.addCheck(bytesCheck{kind: chkBytesMin, n: n, inclusive: cfg.inclusive, msg: cfg.msg})
}

// Max allows at most n bytes. Adding it removes a previous Length.
func (s *BytesSchema) Max(n int, opts ...CheckOpt) *BytesSchema {
	cfg := applyCheckOpts(opts)
	c := s.clone()
	c.dropChecks(chkBytesLength)
	return c.addCheck(bytesCheck{kind: chkBytesMax, n: n, inclusive: cfg.inclusive, msg: cfg.msg})
}

// Length requires exactly n bytes. Adding it removes previous Min/Max.
func (s *BytesSchema) Length(n int, opts ...CheckOpt) *BytesSchema {
	cfg := applyCheckOpts(opts)
	c := s.clone()
	c.dropChecks(chkBytesMin, chkBytesMax)
	return c.addCheck(bytesCheck{kind: chkBytesLength, n: n, msg: cfg.msg})
}

func (s *BytesSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	if s.coerce {
		if str, ok := pc.Data().(string); ok {
			pc.SetData([]byte(str))
		}
	}
	v, ok := pc.Data().([]byte)
	if !ok {
		return invalidType(pc, "bytes", s.message(tys.CodeInvalidType))
	}
	before := len(pc.Issues())
	for _, ck := range s.checks {
		if evalBytesCheck(ck, v) {
			continue
		}
		msg := ck.msg
		if msg == "" {
			msg = s.message(tys.CodeInvalidBytes)
		}
		pc.AddIssue(tys.Issue{
			Code:    tys.CodeInvalidBytes,
			Message: msg,
			Params:  map[string]any{"check": bytesCheckNames[ck.kind], "n": ck.n, "got": len(v)},
		})
		if pc.FailFast() {
			return pc.Abort()
		}
	}
	if len(pc.Issues()) > before {
		return tys.Invalid()
	}
	return tys.Valid(v)
}

func evalBytesCheck(ck bytesCheck, v []byte) bool {
	switch ck.kind {
	case chkBytesMin:
		if ck.inclusive {
			return len(v) >= ck.n
		}
		return len(v) > ck.n
	case chkBytesMax:
		if ck.inclusive {
			return len(v) <= ck.n
		}
		return len(v) < ck.n
	case chkBytesLength:
		return len(v) == ck.n
	}
	return true
}
