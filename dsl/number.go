package dsl

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	tys "github.com/tyslab/tys"
)

type numberCheckKind int

const (
	chkNumMin numberCheckKind = iota
	chkNumMax
	chkNumRange
	chkNumInt
	chkNumPositive
	chkNumNonneg
	chkNumNegative
	chkNumNonpos
	chkNumFinite
	chkNumPort
	chkNumMultiple
)

var numberCheckNames = map[numberCheckKind]string{
	chkNumMin: "min", chkNumMax: "max", chkNumRange: "range",
	chkNumInt: "integer", chkNumPositive: "positive", chkNumNonneg: "nonnegative",
	chkNumNegative: "negative", chkNumNonpos: "nonpositive",
	chkNumFinite: "finite", chkNumPort: "port", chkNumMultiple: "multiple_of",
}

func numberCheckRank(k numberCheckKind) int {
	switch k {
	case chkNumMin:
		return 10
	case chkNumMax:
		return 11
	case chkNumRange:
		return 12
	default:
		return 20
	}
}

type numberCheck struct {
	kind      numberCheckKind
	min, max  float64
	inclusive bool
	msg       string
}

// NumberSchema validates numeric values as float64.
type NumberSchema struct {
	base
	coerce bool
	checks []numberCheck
}

// Number returns a new number schema node.
func Number() *NumberSchema {
	return &NumberSchema{base: base{kind: tys.KindNumber}}
}

func (s *NumberSchema) clone() *NumberSchema {
	c := *s
	c.opts = s.opts.clone()
	c.checks = append([]numberCheck(nil), s.checks...)
	return &c
}

// Coerce enables best-effort conversion of the raw input to a number.
func (s *NumberSchema) Coerce() *NumberSchema {
	c := s.clone()
	c.coerce = true
	return c
}

// FailFast sets the node-level abort-early preference.
func (s *NumberSchema) FailFast(on bool) *NumberSchema {
	c := s.clone()
	c.opts.failFast = &on
	return c
}

// Message overrides the message used for a given issue code on this node.
func (s *NumberSchema) Message(code, msg string) *NumberSchema {
	c := s.clone()
	c.opts.setMessage(code, msg)
	return c
}

func (s *NumberSchema) addCheck(ck numberCheck) *NumberSchema {
	c := s.clone()
	c.checks = append(c.checks, ck)
	sortNumberChecks(c.checks)
	return c
}

func sortNumberChecks(checks []numberCheck) {
	// stable insertion by rank keeps min before max before everything else
	for i := 1; i < len(checks); i++ {
		for j := i; j > 0 && numberCheckRank(checks[j].kind) < numberCheckRank(checks[j-1].kind); j-- {
			checks[j], checks[j-1] = checks[j-1], checks[j]
		}
	}
}

func (s *NumberSchema) dropChecks(kinds ...numberCheckKind) {
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

// Min requires v >= n (or > n with Exclusive). Adding it removes a previous
// Range.
func (s *NumberSchema) Min(n float64, opts ...CheckOpt) *NumberSchema {
	cfg := applyCheckOpts(opts)
	c := s.clone()
	c.dropChecks(chkNumRange)
	return c.addCheck(numberCheck{kind: chkNumMin, min: n, inclusive: cfg.inclusive, msg: cfg.msg})
}

// Max requires v <= n (or < n with Exclusive). Adding it removes a previous
// Range.
func (s *NumberSchema) Max(n float64, opts ...CheckOpt) *NumberSchema {
	cfg := applyCheckOpts(opts)
	c := s.clone()
	c.dropChecks(chkNumRange)
	return c.addCheck(numberCheck{kind: chkNumMax, max: n, inclusive: cfg.inclusive, msg: cfg.msg})
}

// Range requires min <= v <= max. Adding it removes previous Min/Max, and
// adding Min or Max afterwards removes the Range (last write wins).
func (s *NumberSchema) Range(min, max float64, opts ...CheckOpt) *NumberSchema {
	cfg := applyCheckOpts(opts)
	c := s.clone()
	c.dropChecks(chkNumMin, chkNumMax)
	return c.addCheck(numberCheck{kind: chkNumRange, min: min, max: max, inclusive: cfg.inclusive, msg: cfg.msg})
}

// Int requires an integral value.
func (s *NumberSchema) Int(opts ...CheckOpt) *NumberSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(numberCheck{kind: chkNumInt, msg: cfg.msg})
}

// Positive requires v > 0.
func (s *NumberSchema) Positive(opts ...CheckOpt) *NumberSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(numberCheck{kind: chkNumPositive, msg: cfg.msg})
}

// Nonnegative requires v >= 0.
func (s *NumberSchema) Nonnegative(opts ...CheckOpt) *NumberSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(numberCheck{kind: chkNumNonneg, msg: cfg.msg})
}

// Negative requires v < 0.
func (s *NumberSchema) Negative(opts ...CheckOpt) *NumberSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(numberCheck{kind: chkNumNegative, msg: cfg.msg})
}

// Nonpositive requires v <= 0.
func (s *NumberSchema) Nonpositive(opts ...CheckOpt) *NumberSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(numberCheck{kind: chkNumNonpos, msg: cfg.msg})
}

// Finite rejects infinities.
func (s *NumberSchema) Finite(opts ...CheckOpt) *NumberSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(numberCheck{kind: chkNumFinite, msg: cfg.msg})
}

// Port requires an integer in [0, 65535].
func (s *NumberSchema) Port(opts ...CheckOpt) *NumberSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(numberCheck{kind: chkNumPort, msg: cfg.msg})
}

// Multiple requires v to be a multiple of n, using a decimal-safe remainder
// so Multiple(0.1) accepts 0.3.
func (s *NumberSchema) Multiple(n float64, opts ...CheckOpt) *NumberSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(numberCheck{kind: chkNumMultiple, min: n, msg: cfg.msg})
}

// ParseIn implements coerce, type-guard (with the NaN carve-out), then the
// ordered check list.
func (s *NumberSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	if s.coerce {
		pc.SetData(coerceNumber(pc.Data()))
	}
	v, ok := asFloat64(pc.Data())
	if !ok || math.IsNaN(v) {
		return invalidType(pc, "number", s.message(tys.CodeInvalidType))
	}
	pc.SetData(v)

	before := len(pc.Issues())
	for _, ck := range s.checks {
		if evalNumberCheck(ck, v) {
			continue
		}
		msg := ck.msg
		if msg == "" {
			msg = s.message(tys.CodeInvalidNumber)
		}
		pc.AddIssue(tys.Issue{
			Code:    tys.CodeInvalidNumber,
			Message: msg,
			Params:  numberCheckParams(ck, v),
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

func evalNumberCheck(ck numberCheck, v float64) bool {
	switch ck.kind {
	case chkNumMin:
		if ck.inclusive {
			return v >= ck.min
		}
		return v > ck.min
	case chkNumMax:
		if ck.inclusive {
			return v <= ck.max
		}
		return v < ck.max
	case chkNumRange:
		if ck.inclusive {
			return v >= ck.min && v <= ck.max
		}
		return v > ck.min && v < ck.max
	case chkNumInt:
		return !math.IsInf(v, 0) && math.Trunc(v) == v
	case chkNumPositive:
		return v > 0
	case chkNumNonneg:
		return v >= 0
	case chkNumNegative:
		return v < 0
	case chkNumNonpos:
		return v <= 0
	case chkNumFinite:
		return !math.IsInf(v, 0)
	case chkNumPort:
		return math.Trunc(v) == v && v >= 0 && v <= 65535
	case chkNumMultiple:
		return decimalSafeRemainder(v, ck.min) == 0
	}
	return true
}

func numberCheckParams(ck numberCheck, got float64) map[string]any {
	p := map[string]any{"check": numberCheckNames[ck.kind], "got": got}
	switch ck.kind {
	case chkNumMin:
		p["min"] = ck.min
		p["inclusive"] = ck.inclusive
	case chkNumMax:
		p["max"] = ck.max
		p["inclusive"] = ck.inclusive
	case chkNumRange:
		p["min"] = ck.min
		p["max"] = ck.max
		p["inclusive"] = ck.inclusive
	case chkNumMultiple:
		p["multiple"] = ck.min
	}
	return p
}

// decimalSafeRemainder scales both operands to integers based on their
// decimal-digit counts before computing the modulo, avoiding floating-point
// drift (0.3 % 0.1 == 0).
func decimalSafeRemainder(v, step float64) float64 {
	if step == 0 {
		return v
	}
	digits := decimalDigits(v)
	if d := decimalDigits(step); d > digits {
		digits = d
	}
	scale := math.Pow(10, float64(digits))
	vi := math.Round(v * scale)
	si := math.Round(step * scale)
	if si == 0 {
		return v
	}
	return math.Mod(vi, si) / scale
}

func decimalDigits(v float64) int {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

func asFloat64(v any) (float64, bool) {
	if f, ok := toFloat(v); ok {
		return f, true
	}
	if n, ok := v.(json.Number); ok {
		if f, err := n.Float64(); err == nil {
			return f, true
		}
	}
	return 0, false
}

// coerceNumber converts the input to float64 on a best-effort basis; values
// without a numeric rendition pass through unchanged.
func coerceNumber(v any) any {
	switch x := v.(type) {
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return f
		}
		return v
	case bool:
		if x {
			return float64(1)
		}
		return float64(0)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f
		}
		return v
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return v
}
