package dsl

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	tys "github.com/tyslab/tys"
)

type stringCheckKind int

const (
	// transforms (run before any check, in configuration order)
	chkTrim stringCheckKind = iota
	chkLower
	chkUpper
	chkReplace
	// bounds
	chkStrMin
	chkStrMax
	chkStrLength
	// pattern
	chkPattern
	chkDisallow
	// value-of-format
	chkAlphanum
	chkCUID
	chkUUID
	chkISODate
	chkISODuration
	chkEmail
	chkBase64
	chkURL
	// affix
	chkPrefix
	chkSuffix
	chkContains
)

var stringCheckNames = map[stringCheckKind]string{
	chkStrMin: "min", chkStrMax: "max", chkStrLength: "length",
	chkPattern: "pattern", chkDisallow: "disallow",
	chkAlphanum: "alphanumeric", chkCUID: "cuid", chkUUID: "uuid",
	chkISODate: "iso_date", chkISODuration: "iso_duration",
	chkEmail: "email", chkBase64: "base64", chkURL: "url",
	chkPrefix: "prefix", chkSuffix: "suffix", chkContains: "contains",
}

// stringCheckRank fixes the evaluation order independent of configuration
// order: bounds, then pattern, then formats, then affixes.
func stringCheckRank(k stringCheckKind) int {
	switch k {
	case chkStrMin:
		return 10
	case chkStrMax:
		return 11
	case chkStrLength:
		return 12
	case chkPattern:
		return 20
	case chkDisallow:
		return 21
	case chkAlphanum, chkCUID, chkUUID, chkISODate, chkISODuration, chkEmail, chkBase64, chkURL:
		return 30
	default: // affixes
		return 40
	}
}

type stringCheck struct {
	kind      stringCheckKind
	n         int
	inclusive bool
	re        *regexp.Regexp
	str       string
	repl      string
	msg       string
}

// StringSchema validates string values. The zero value is unusable; build
// nodes with String().
type StringSchema struct {
	base
	coerce     bool
	transforms []stringCheck
	checks     []stringCheck
}

// String returns a new string schema node.
func String() *StringSchema {
	return &StringSchema{base: base{kind: tys.KindString}}
}

func (s *StringSchema) clone() *StringSchema {
	c := *s
	c.opts = s.opts.clone()
	c.transforms = append([]stringCheck(nil), s.transforms...)
	c.checks = append([]stringCheck(nil), s.checks...)
	return &c
}

// Coerce enables best-effort conversion of the raw input to string before
// type checking.
func (s *StringSchema) Coerce() *StringSchema {
	c := s.clone()
	c.coerce = true
	return c
}

// FailFast sets the node-level abort-early preference.
func (s *StringSchema) FailFast(on bool) *StringSchema {
	c := s.clone()
	c.opts.failFast = &on
	return c
}

// Message overrides the message used for a given issue code on this node.
func (s *StringSchema) Message(code, msg string) *StringSchema {
	c := s.clone()
	c.opts.setMessage(code, msg)
	return c
}

func (s *StringSchema) addTransform(ck stringCheck) *StringSchema {
	c := s.clone()
	c.transforms = append(c.transforms, ck)
	return c
}

func (s *StringSchema) addCheck(ck stringCheck) *StringSchema {
	c := s.clone()
	c.checks = append(c.checks, ck)
	sort.SliceStable(c.checks, func(i, j int) bool {
		return stringCheckRank(c.checks[i].kind) < stringCheckRank(c.checks[j].kind)
	})
	return c
}

// dropChecks removes every check whose kind is in kinds (last-write-wins
// exclusivity between min/max and length).
func (s *StringSchema) dropChecks(kinds ...stringCheckKind) {
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

// Trim removes surrounding whitespace before any check runs.
func (s *StringSchema) Trim() *StringSchema { return s.addTransform(stringCheck{kind: chkTrim}) }

// Lowercase converts the value to lower case before any check runs.
func (s *StringSchema) Lowercase() *StringSchema { return s.addTransform(stringCheck{kind: chkLower}) }

// Uppercase converts the value to upper case before any check runs.
func (s *StringSchema) Uppercase() *StringSchema { return s.addTransform(stringCheck{kind: chkUpper}) }

// Replace substitutes every occurrence of old with new before any check runs.
func (s *StringSchema) Replace(old, new string) *StringSchema {
	return s.addTransform(stringCheck{kind: chkReplace, str: old, repl: new})
}

// Min requires at least n characters. Adding it removes a previous Length.
func (s *StringSchema) Min(n int, opts ...CheckOpt) *StringSchema {
	cfg := applyCheckOpts(opts)
	c := s.clone()
	c.dropChecks(chkStrLength)
	return c.addCheck(stringCheck{kind: chkStrMin, n: n, inclusive: cfg.inclusive, msg: cfg.msg})
}

// Max allows at most n characters. Adding it removes a previous Length.
func (s *StringSchema) Max(n int, opts ...CheckOpt) *StringSchema {
	cfg := applyCheckOpts(opts)
	c := s.clone()
	c.dropChecks(chkStrLength)
	return c.addCheck(stringCheck{kind: chkStrMax, n: n, inclusive: cfg.inclusive, msg: cfg.msg})
}

// Length requires exactly n characters. Adding it removes previous Min/Max.
func (s *StringSchema) Length(n int, opts ...CheckOpt) *StringSchema {
	cfg := applyCheckOpts(opts)
	c := s.clone()
	c.dropChecks(chkStrMin, chkStrMax)
	return c.addCheck(stringCheck{kind: chkStrLength, n: n, msg: cfg.msg})
}

// Pattern requires the value to match the regular expression. The expression
// must be valid; an invalid one is a programmer error and panics at
// construction time.
func (s *StringSchema) Pattern(expr string, opts ...CheckOpt) *StringSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(stringCheck{kind: chkPattern, re: regexp.MustCompile(expr), str: expr, msg: cfg.msg})
}

// Disallow rejects values matching the regular expression.
func (s *StringSchema) Disallow(expr string, opts ...CheckOpt) *StringSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(stringCheck{kind: chkDisallow, re: regexp.MustCompile(expr), str: expr, msg: cfg.msg})
}

// Alphanumeric requires [a-zA-Z0-9]+.
func (s *StringSchema) Alphanumeric(opts ...CheckOpt) *StringSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(stringCheck{kind: chkAlphanum, msg: cfg.msg})
}

// CUID requires a collision-resistant id ("c" followed by base36).
func (s *StringSchema) CUID(opts ...CheckOpt) *StringSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(stringCheck{kind: chkCUID, msg: cfg.msg})
}

// UUID requires an RFC 4122 UUID.
func (s *StringSchema) UUID(opts ...CheckOpt) *StringSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(stringCheck{kind: chkUUID, msg: cfg.msg})
}

// ISODate requires an ISO 8601 date or date-time. On success the value is
// normalized to its canonical form as a side effect.
func (s *StringSchema) ISODate(opts ...CheckOpt) *StringSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(stringCheck{kind: chkISODate, msg: cfg.msg})
}

// ISODuration requires an ISO 8601 duration (P1DT2H...).
func (s *StringSchema) ISODuration(opts ...CheckOpt) *StringSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(stringCheck{kind: chkISODuration, msg: cfg.msg})
}

// Email requires a plausible email address.
func (s *StringSchema) Email(opts ...CheckOpt) *StringSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(stringCheck{kind: chkEmail, msg: cfg.msg})
}

// Base64 requires valid standard base64.
func (s *StringSchema) Base64(opts ...CheckOpt) *StringSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(stringCheck{kind: chkBase64, msg: cfg.msg})
}

// URL requires an absolute URL with scheme and host.
func (s *StringSchema) URL(opts ...CheckOpt) *StringSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(stringCheck{kind: chkURL, msg: cfg.msg})
}

// Prefix requires the value to start with p.
func (s *StringSchema) Prefix(p string, opts ...CheckOpt) *StringSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(stringCheck{kind: chkPrefix, str: p, msg: cfg.msg})
}

// Suffix requires the value to end with p.
func (s *StringSchema) Suffix(p string, opts ...CheckOpt) *StringSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(stringCheck{kind: chkSuffix, str: p, msg: cfg.msg})
}

// Contains requires the value to contain sub.
func (s *StringSchema) Contains(sub string, opts ...CheckOpt) *StringSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(stringCheck{kind: chkContains, str: sub, msg: cfg.msg})
}

var (
	alphanumRe    = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	cuidRe        = regexp.MustCompile(`^c[0-9a-z]{8,}$`)
	emailRe       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	isoDurationRe = regexp.MustCompile(`^P(?:\d+Y)?(?:\d+M)?(?:\d+W)?(?:\d+D)?(?:T(?:\d+H)?(?:\d+M)?(?:\d+(?:\.\d+)?S)?)?$`)
)

// ParseIn implements the primitive algorithm: coerce, type-guard, transforms,
// then the ordered check list.
func (s *StringSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	if s.coerce {
		pc.SetData(coerceString(pc.Data()))
	}
	v, ok := pc.Data().(string)
	if !ok {
		return invalidType(pc, "string", s.message(tys.CodeInvalidType))
	}
	for _, t := range s.transforms {
		switch t.kind {
		case chkTrim:
			v = strings.TrimSpace(v)
		case chkLower:
			v = strings.ToLower(v)
		case chkUpper:
			v = strings.ToUpper(v)
		case chkReplace:
			v = strings.ReplaceAll(v, t.str, t.repl)
		}
	}
	pc.SetData(v)

	before := len(pc.Issues())
	for _, ck := range s.checks {
		v = pc.Data().(string)
		pass, normalized := evalStringCheck(ck, v)
		if !pass {
			msg := ck.msg
			if msg == "" {
				msg = s.message(tys.CodeInvalidString)
			}
			pc.AddIssue(tys.Issue{
				Code:    tys.CodeInvalidString,
				Message: msg,
				Params:  stringCheckParams(ck, v),
			})
			if pc.FailFast() {
				return pc.Abort()
			}
			continue
		}
		if ck.kind == chkISODate && normalized != v {
			pc.SetData(normalized)
		}
	}
	if len(pc.Issues()) > before {
		return tys.Invalid()
	}
	return tys.Valid(pc.Data())
}

func evalStringCheck(ck stringCheck, v string) (pass bool, normalized string) {
	switch ck.kind {
	case chkStrMin:
		if ck.inclusive {
			return len(v) >= ck.n, v
		}
		return len(v) > ck.n, v
	case chkStrMax:
		if ck.inclusive {
			return len(v) <= ck.n, v
		}
		return len(v) < ck.n, v
	case chkStrLength:
		return len(v) == ck.n, v
	case chkPattern:
		return ck.re.MatchString(v), v
	case chkDisallow:
		return !ck.re.MatchString(v), v
	case chkAlphanum:
		return alphanumRe.MatchString(v), v
	case chkCUID:
		return cuidRe.MatchString(v), v
	case chkUUID:
		_, err := uuid.Parse(v)
		return err == nil, v
	case chkISODate:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return true, t.UTC().Format(time.RFC3339Nano)
		}
		if t, err := time.Parse("2006-01-02", v); err == nil {
			return true, t.Format("2006-01-02")
		}
		return false, v
	case chkISODuration:
		if len(v) < 2 || strings.HasSuffix(v, "P") || strings.HasSuffix(v, "T") {
			return false, v
		}
		return isoDurationRe.MatchString(v), v
	case chkEmail:
		return emailRe.MatchString(v), v
	case chkBase64:
		_, err := base64.StdEncoding.DecodeString(v)
		return err == nil, v
	case chkURL:
		u, err := url.Parse(v)
		return err == nil && u.Scheme != "" && u.Host != "", v
	case chkPrefix:
		return strings.HasPrefix(v, ck.str), v
	case chkSuffix:
		return strings.HasSuffix(v, ck.str), v
	case chkContains:
		return strings.Contains(v, ck.str), v
	}
	return true, v
}

func stringCheckParams(ck stringCheck, got string) map[string]any {
	p := map[string]any{"check": stringCheckNames[ck.kind], "got": got}
	switch ck.kind {
	case chkStrMin, chkStrMax, chkStrLength:
		p["n"] = ck.n
		p["inclusive"] = ck.inclusive
	case chkPattern, chkDisallow:
		p["pattern"] = ck.str
	case chkPrefix, chkSuffix, chkContains:
		p["expected"] = ck.str
	}
	return p
}

// coerceString converts the input to a string on a best-effort basis. It
// never fails; values without a sensible rendition pass through unchanged so
// the type guard reports them.
func coerceString(v any) any {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	}
	return v
}
