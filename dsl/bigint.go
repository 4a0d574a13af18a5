package dsl

import (
	"math"
	"math/big"
	"strings"

	tys "github.com/tyslab/tys"
)

type bigintCheckKind int

const (
	chkBigMin bigintCheckKind = iota
	chkBigMax
	chkBigPositive
	chkBigNonneg
	chkBigNegative
	chkBigNonpos
	chkBigMultiple
)

var bigintCheckNames = map[bigintCheckKind]string{
	chkBigMin: "min", chkBigMax: "max",
	chkBigPositive: "positive", chkBigNonneg: "nonnegative",
	chkBigNegative: "negative", chkBigNonpos: "nonpositive",
	chkBigMultiple: "multiple_of",
}

type bigintCheck struct {
	kind      bigintCheckKind
	bound     *big.Int
	inclusive bool
	msg       string
}

// BigIntSchema validates arbitrary-precision integers as *big.Int.
type BigIntSchema struct {
	base
	coerce bool
	checks []bigintCheck
}

// BigInt returns a new bigint schema node.
func BigInt() *BigIntSchema {
	return &BigIntSchema{base: base{kind: tys.KindBigInt}}
}

func (s *BigIntSchema) clone() *BigIntSchema {
	c := *s
	c.opts = s.opts.clone()
	c.checks = append([]bigintCheck(nil), s.checks...)
	return &c
}

// Coerce enables conversion from strings, ints, and bools.
func (s *BigIntSchema) Coerce() *BigIntSchema {
	c := s.clone()
	c.coerce = true
	return c
}

// FailFast sets the node-level abort-early preference.
func (s *BigIntSchema) FailFast(on bool) *BigIntSchema {
	c := s.clone()
	c.opts.failFast = &on
	return c
}

// Message overrides the message used for a given issue code on this node.
func (s *BigIntSchema) Message(code, msg string) *BigIntSchema {
	c := s.clone()
	c.opts.setMessage(code, msg)
	return c
}

func (s *BigIntSchema) addCheck(ck bigintCheck) *BigIntSchema {
	c := s.clone()
	c.checks = append(c.checks, ck)
	return c
}

// Min requires v >= n (or > n with Exclusive).
func (s *BigIntSchema) Min(n *big.Int, opts ...CheckOpt) *BigIntSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(bigintCheck{kind: chkBigMin, bound: n, inclusive: cfg.inclusive, msg: cfg.msg})
}

// Max requires v <= n (or < n with Exclusive).
func (s *BigIntSchema) Max(n *big.Int, opts ...CheckOpt) *BigIntSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(bigintCheck{kind: chkBigMax, bound: n, inclusive: cfg.inclusive, msg: cfg.msg})
}

// Positive requires v > 0.
func (s *BigIntSchema) Positive(opts ...CheckOpt) *BigIntSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(bigintCheck{kind: chkBigPositive, msg: cfg.msg})
}

// Nonnegative requires v >= 0.
func (s *BigIntSchema) Nonnegative(opts ...CheckOpt) *BigIntSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(bigintCheck{kind: chkBigNonneg, msg: cfg.msg})
}

// Negative requires v < 0.
func (s *BigIntSchema) Negative(opts ...CheckOpt) *BigIntSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(bigintCheck{kind: chkBigNegative, msg: cfg.msg})
}

// Nonpositive requires v <= 0.
func (s *BigIntSchema) Nonpositive(opts ...CheckOpt) *BigIntSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(bigintCheck{kind: chkBigNonpos, msg: cfg.msg})
}

// Multiple requires v to be a multiple of n.
func (s *BigIntSchema) Multiple(n *big.Int, opts ...CheckOpt) *BigIntSchema {
	cfg := applyCheckOpts(opts)
	return s.addCheck(bigintCheck{kind: chkBigMultiple, bound: n, msg: cfg.msg})
}

// ParseIn implements coerce, type-guard, then the ordered check list.
func (s *BigIntSchema) ParseIn(pc *tys.ParseContext) tys.Result {
	if s.coerce {
		pc.SetData(coerceBigInt(pc.Data()))
	}
	v, ok := asBigInt(pc.Data())
	if !ok {
		return invalidType(pc, "bigint", s.message(tys.CodeInvalidType))
	}
	pc.SetData(v)

	before := len(pc.Issues())
	for _, ck := range s.checks {
		if evalBigIntCheck(ck, v) {
			continue
		}
		msg := ck.msg
		if msg == "" {
			msg = s.message(tys.CodeInvalidBigInt)
		}
		params := map[string]any{"check": bigintCheckNames[ck.kind], "got": v.String()}
		if ck.bound != nil {
			params["bound"] = ck.bound.String()
			params["inclusive"] = ck.inclusive
		}
		pc.AddIssue(tys.Issue{Code: tys.CodeInvalidBigInt, Message: msg, Params: params})
		if pc.FailFast() {
			return pc.Abort()
		}
	}
	if len(pc.Issues()) > before {
		return tys.Invalid()
	}
	return tys.Valid(v)
}

func evalBigIntCheck(ck bigintCheck, v *big.Int) bool {
	switch ck.kind {
	case chkBigMin:
		if ck.inclusive {
			return v.Cmp(ck.bound) >= 0
		}
		return v.Cmp(ck.bound) > 0
	case chkBigMax:
		if ck.inclusive {
			return v.Cmp(ck.bound) <= 0
		}
		return v.Cmp(ck.bound) < 0
	case chkBigPositive:
		return v.Sign() > 0
	case chkBigNonneg:
		return v.Sign() >= 0
	case chkBigNegative:
		return v.Sign() < 0
	case chkBigNonpos:
		return v.Sign() <= 0
	case chkBigMultiple:
		if ck.bound.Sign() == 0 {
			return false
		}
		m := new(big.Int)
		m.Mod(m.Abs(new(big.Int).Set(v)), new(big.Int).Abs(ck.bound))
		return m.Sign() == 0
	}
	return true
}

func asBigInt(v any) (*big.Int, bool) {
	switch x := v.(type) {
	case *big.Int:
		return x, true
	case big.Int:
		return &x, true
	}
	return nil, false
}

// coerceBigInt converts strings, integers, and bools to *big.Int on a
// best-effort basis.
func coerceBigInt(v any) any {
	switch x := v.(type) {
	case *big.Int, big.Int:
		return v
	case string:
		if b, ok := new(big.Int).SetString(strings.TrimSpace(x), 10); ok {
			return b
		}
		return v
	case bool:
		if x {
			return big.NewInt(1)
		}
		return big.NewInt(0)
	case int:
		return big.NewInt(int64(x))
	case int8:
		return big.NewInt(int64(x))
	case int16:
		return big.NewInt(int64(x))
	case int32:
		return big.NewInt(int64(x))
	case int64:
		return big.NewInt(x)
	case uint:
		return new(big.Int).SetUint64(uint64(x))
	case uint8:
		return big.NewInt(int64(x))
	case uint16:
		return big.NewInt(int64(x))
	case uint32:
		return big.NewInt(int64(x))
	case uint64:
		return new(big.Int).SetUint64(x)
	case float64:
		if math.Trunc(x) == x && !math.IsInf(x, 0) {
			return big.NewInt(int64(x))
		}
		return v
	}
	return v
}
