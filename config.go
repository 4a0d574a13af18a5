package tys

import (
	"sync"

	"github.com/go-logr/logr"
	json "github.com/goccy/go-json"
)

// Formatter renders the final message of a ParseError from its issue list.
type Formatter func(Issues) string

// ErrorMap resolves a message for an issue before its message is filled in.
// Returning "" falls through to the next resolver in the chain
// (contextual map > schema map > global map > i18n default).
type ErrorMap func(Issue) string

// Config is the process-wide configuration singleton. It is read-mostly:
// every root parse invocation snapshots it once at construction time.
type Config struct {
	mu         sync.RWMutex
	formatter  Formatter
	errorMap   ErrorMap
	abortEarly bool
	logger     logr.Logger
}

var (
	globalOnce sync.Once
	globalCfg  *Config
)

// Global returns the lazily constructed configuration singleton.
func Global() *Config {
	globalOnce.Do(func() {
		globalCfg = &Config{
			formatter: FormatPretty,
			logger:    logr.Discard(),
		}
	})
	return globalCfg
}

// SetErrorFormatter replaces the formatter used for ParseError messages in
// all subsequent parse calls. A nil formatter restores the default.
func SetErrorFormatter(f Formatter) {
	c := Global()
	c.mu.Lock()
	defer c.mu.Unlock()
	if f == nil {
		f = FormatPretty
	}
	c.formatter = f
}

// SetErrorMap installs a process-wide message override consulted after any
// per-call and per-schema maps. A nil map removes the override.
func SetErrorMap(m ErrorMap) {
	c := Global()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorMap = m
}

// SetAbortEarly sets the process default for abort-early behavior. Schema
// and per-call options still take precedence.
func SetAbortEarly(on bool) {
	c := Global()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.abortEarly = on
}

// SetLogger installs the logger used when ParseOpt.Debug is enabled.
func SetLogger(l logr.Logger) {
	c := Global()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = l
}

// ErrorFormatter returns the currently configured formatter.
func (c *Config) ErrorFormatter() Formatter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.formatter
}

type configSnapshot struct {
	formatter  Formatter
	errorMap   ErrorMap
	abortEarly bool
	logger     logr.Logger
}

func (c *Config) snapshot() configSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return configSnapshot{
		formatter:  c.formatter,
		errorMap:   c.errorMap,
		abortEarly: c.abortEarly,
		logger:     c.logger,
	}
}

// FormatPretty is the default formatter: a structured dump of the issue list.
func FormatPretty(iss Issues) string {
	if len(iss) == 0 {
		return ""
	}
	b, err := json.MarshalIndent(issuesForDump(iss), "", "  ")
	if err != nil {
		return iss.Error()
	}
	return string(b)
}

// FormatCompact renders the one-line "code at /path" summary.
func FormatCompact(iss Issues) string { return iss.Error() }

type issueDump struct {
	Path    string         `json:"path"`
	Code    string         `json:"code"`
	Message string         `json:"message,omitempty"`
	Hint    string         `json:"hint,omitempty"`
	Params  map[string]any `json:"params,omitempty"`
	Nested  [][]issueDump  `json:"nested,omitempty"`
}

func issuesForDump(iss Issues) []issueDump {
	out := make([]issueDump, 0, len(iss))
	for _, it := range iss {
		d := issueDump{Path: it.Path, Code: it.Code, Message: it.Message, Hint: it.Hint, Params: it.Params}
		for _, branch := range it.Nested {
			d.Nested = append(d.Nested, issuesForDump(branch))
		}
		out = append(out, d)
	}
	return out
}
