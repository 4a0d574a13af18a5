// Package i18n resolves human-readable messages for issue codes. The default
// dictionary covers every engine code; callers may switch languages, load a
// YAML dictionary, or plug in a custom Translator.
package i18n

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Translator retrieves localized messages for issue codes. params provides
// optional structured data to interpolate into the message (for example
// "min" or "expected").
type Translator interface {
	Message(code string, params map[string]any) string
}

var defaultMessages = map[string]string{
	"invalid_type":          "invalid type: expected {expected}, received {received}",
	"required":              "required",
	"invalid_literal":       "invalid literal value, expected {expected}",
	"invalid_enum_value":    "invalid enum value, expected one of {options}",
	"invalid_string":        "invalid string: {check}",
	"invalid_number":        "invalid number: {check}",
	"invalid_bigint":        "invalid bigint: {check}",
	"invalid_date":          "invalid date: {check}",
	"invalid_bytes":         "invalid bytes: {check}",
	"invalid_array":         "invalid array: {check}",
	"invalid_set":           "invalid set: {check}",
	"invalid_tuple":         "invalid tuple: {check}",
	"invalid_union":         "no union member matched the input",
	"invalid_intersection":  "intersection results could not be merged",
	"unrecognized_keys":     "unrecognized keys: {keys}",
	"invalid_instance":      "input is not an instance of {expected}",
	"forbidden":             "forbidden",
	"custom":                "invalid input",
	"discriminator_missing": "discriminator property missing",
	"discriminator_unknown": "unknown discriminator value",
	"parse_error":           "parse error",
}

// dictTranslator is the built-in dictionary-based Translator with parameter
// interpolation.
type dictTranslator struct {
	messages map[string]string
}

func (t dictTranslator) Message(code string, params map[string]any) string {
	msg, ok := t.messages[code]
	if !ok {
		return code
	}
	return interpolate(msg, params)
}

func interpolate(msg string, params map[string]any) string {
	if len(params) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	for k, v := range params {
		msg = strings.ReplaceAll(msg, "{"+k+"}", renderParam(v))
	}
	return msg
}

func renderParam(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []string:
		return strings.Join(x, ", ")
	case []any:
		parts := make([]string, 0, len(x))
		for _, it := range x {
			parts = append(parts, fmt.Sprint(it))
		}
		sort.Strings(parts)
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{messages: defaultMessages}
)

// SetTranslator replaces the Translator implementation. A nil value restores
// the built-in dictionary.
func SetTranslator(tr Translator) {
	mu.Lock()
	defer mu.Unlock()
	if tr == nil {
		currentTranslator = dictTranslator{messages: defaultMessages}
		return
	}
	currentTranslator = tr
}

// SetMessages overrides individual dictionary entries, keeping the defaults
// for codes not present in the override.
func SetMessages(override map[string]string) {
	merged := make(map[string]string, len(defaultMessages)+len(override))
	for k, v := range defaultMessages {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	mu.Lock()
	defer mu.Unlock()
	currentTranslator = dictTranslator{messages: merged}
}

// LoadLocale installs a YAML dictionary mapping issue codes to message
// templates, merged over the defaults.
func LoadLocale(data []byte) error {
	var dict map[string]string
	if err := yaml.Unmarshal(data, &dict); err != nil {
		return fmt.Errorf("i18n: invalid locale: %w", err)
	}
	SetMessages(dict)
	return nil
}

// LoadLocaleFile reads and installs a YAML locale file.
func LoadLocaleFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("i18n: read locale: %w", err)
	}
	return LoadLocale(data)
}

// T fetches a message for the given code using the current Translator.
func T(code string, params map[string]any) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, params)
}
