package dsl

import (
	"math"
	"time"

	tys "github.com/tyslab/tys"
)

type dateCheckKind int

const (
	chkDateMin dateCheckKind = iota
	chkDateMax
	chkDateRange
)

var dateCheckNames = map[dateCheckKind]string{
	chkDateMin: "min", chkDateMax: "max", chkDateRange: "range",
}

// DateBound is either a literal instant or the "now" sentinel, resolved
// against a single snapshot taken at the start of the node's parse.
type DateBound struct {
	t   time.Time
	now bool
}

func (b DateBound) resolve(snapshot time.Time) time.Time {
	if b.now {
		return snapshot
	}
	return b.t
}

type dateCheck struct {
	kind      dateCheckKind
	min, max  DateBound
	inclusive bool
	msg       string
}

// Now is the sentinel bound for date checks; it resolves to the current time
// once per parse of the node, so Range(Now, ...) stays self-consistent.
var Now = DateBound{now: true}

// At wraps a literal instant as a date bound.
func At(t time.Time) DateBound { return DateBound{t: t} }

// DateSchema validates time.Time values.
type DateSchema struct {
	base
	coerce bool
	checks []dateCheck
}

// Date returns a new date schema node.
func Date() *DateSchema {
	return &DateSchema{base: base{kind: tys.KindDate}}
}

func (s *DateSchema) clone() *DateSchema {
	c := *s
	c.opts = s.opts.clone()
	c.checks = append([]dateCheck(nil), s.checks...)
	return &c
}

// Coerce enables conversion from RFC 3339 strings and epoch-millisecond
// numbers.
func (s *DateSchema) Coerce() *DateSchema {
	c := s.clone()
	c.coerce = true
	return c
}

// FailFast sets the node-level abort-early preference.
func (s *DateSchema) FailFast(on bool) *DateSchema {
	c := s.clone()
	c.opts.failFast = &on
	return c
}

// Message overrides the message used for a given issue code on this node.
func (s *DateSchema) Message(code, msg string) *DateSchema {
	c := s.clone()
	c.opts.setMessage(code, msg)
	return c
}

func (s *DateSchema) addCheck(ck dateCheck) *DateSchema {
	c := s.clone()
	c.checks = append(c.checks, ck)
	return c
}

func (s *DateSchema) dropChecks(kinds ...dateCheckKind) {
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

// Min requires the value not to precede the bound. Adding it removes a
// previous Range.
func (s *DateSchema) Min(b DateBound, opts ...CheckOpt) *DateSchema {
	cfg := applyCheckOpts(opts)
	c := s.clone()
	c.dropChecks(chkDateRange)
	return c.addCheck(dateCheck{kind: chkDateMin, min: b, inclusive: cfg.inclusive, msg: cfg.msg})
}

// Max requires the value not to follow the bound. Adding it removes a
// previous Range.
func (s *DateSchema) Max(b DateBound, opts ...CheckOpt) *DateSchema {
	cfg := applyCheckOpts(opts)
	c := s.clone()
	c.dropChecks(chkDateRange)
	return c.addCheck(dateCheck{kind: chkDateMax, max: b, inclusive: cfg.inclusive, msg: cfg.msg})
}

// Range requires min <= v <= max. Adding it removes previous Min/Max.
func (s *DateSchema) Range(min, max DateBound, opts ...CheckOpt) *DateSchema {
	cfg := applyCheckOpts(opts)
	c := s.clone()
	c.dropChecks(chkDateMin, chkDateMax)
	return c.addCheck(dateCheck{kind: chkDateRange, min: min, max: max, inclusive: cfg.inclusive, msg: cfg.msg})
}

func (s *DateSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	if s.coerce {
		pc.SetData(coerceDate(pc.Data()))
	}
	v, ok := asTime(pc.Data())
	if !ok {
		return invalidType(pc, "date", s.message(tys.CodeInvalidType))
	}
	pc.SetData(v)

	// One snapshot per node parse keeps Now-based range checks consistent.
	snapshot := time.Now()
	before := len(pc.Issues())
	for _, ck := range s.checks {
		if evalDateCheck(ck, v, snapshot) {
			continue
		}
		msg := ck.msg
		if msg == "" {
			msg = s.message(tys.CodeInvalidDate)
		}
		pc.AddIssue(tys.Issue{
			Code:    tys.CodeInvalidDate,
			Message: msg,
			Params: map[string]any{
				"check": dateCheckNames[ck.kind],
				"got":   v.Format(time.RFC3339Nano),
			},
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

func evalDateCheck(ck dateCheck, v, snapshot time.Time) bool {
	switch ck.kind {
	case chkDateMin:
		b := ck.min.resolve(snapshot)
		if ck.inclusive {
			return !v.Before(b)
		}
		return v.After(b)
	case chkDateMax:
		b := ck.max.resolve(snapshot)
		if ck.inclusive {
			return !v.After(b)
		}
		return v.Before(b)
	case chkDateRange:
		lo, hi := ck.min.resolve(snapshot), ck.max.resolve(snapshot)
		if ck.inclusive {
			return !v.Before(lo) && !v.After(hi)
		}
		return v.After(lo) && v.Before(hi)
	}
	return true
}

func asTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case *time.Time:
		if x != nil {
			return *x, true
		}
	}
	return time.Time{}, false
}

// coerceDate converts RFC 3339 strings and epoch-millisecond numbers to
// time.Time on a best-effort basis.
func coerceDate(v any) any {
	switch x := v.(type) {
	case time.Time, *time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339Nano, x); err == nil {
			return t
		}
		if t, err := time.Parse("2006-01-02", x); err == nil {
			return t
		}
		return v
	}
	if f, ok := toFloat(v); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
		ms := int64(f)
		return time.UnixMilli(ms).UTC()
	}
	return v
}
