package dsl

// CheckOpt tunes a single declarative check: bound inclusivity and a custom
// failure message.
type CheckOpt func(*checkCfg)

type checkCfg struct {
	inclusive bool
	msg       string
}

func applyCheckOpts(opts []CheckOpt) checkCfg {
	cfg := checkCfg{inclusive: true}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// Exclusive makes a bound check exclusive (min 5 rejects 5).
func Exclusive() CheckOpt { return func(c *checkCfg) { c.inclusive = false } }

// Msg attaches a custom message to one check.
func Msg(m string) CheckOpt { return func(c *checkCfg) { c.msg = m } }
