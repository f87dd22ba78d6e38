// Package sanitizer normalizes untrusted per-recipient values before they reach
// a template, and wraps bluemonday to strip or sanitize markup in them.
package sanitizer

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// DefaultMaxLength bounds every scalar value passed to a template.
const DefaultMaxLength = 1000

type options struct {
	maxLength int
	html      HTMLMode
}

// Option configures Context.
type Option func(*options)

// WithMaxLength overrides DefaultMaxLength. Non-positive values are ignored.
func WithMaxLength(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLength = n
		}
	}
}

// WithHTMLStripping removes markup from string values before they are trimmed.
func WithHTMLStripping() Option {
	return WithHTMLMode(HTMLStrip)
}

// WithHTMLSanitizing keeps basic formatting tags in string values and removes
// everything else. See SanitizeHTML.
func WithHTMLSanitizing() Option {
	return WithHTMLMode(HTMLSafe)
}

// WithHTMLMode sets how markup in string values is treated. The last HTML
// option given wins.
func WithHTMLMode(m HTMLMode) Option {
	return func(o *options) {
		o.html = m
	}
}

// Context returns a fresh map where every scalar value (string, integer,
// float, json.Number) is converted to text, trimmed and cut to the max length
// in runes. Everything else (bools, nil, slices, nested maps) is copied through
// as is: nested structures are not bounded.
//
// The input map is never modified.
func Context(values map[string]any, opts ...Option) map[string]any {
	o := &options{maxLength: DefaultMaxLength}
	for _, opt := range opts {
		opt(o)
	}

	out := make(map[string]any, len(values))
	for key, value := range values {
		s, ok := scalarText(value)
		if !ok {
			out[key] = value
			continue
		}
		switch o.html {
		case HTMLStrip:
			s = StripHTML(s)
		case HTMLSafe:
			s = SanitizeHTML(s)
		}
		out[key] = truncate(strings.TrimSpace(s), o.maxLength)
	}
	return out
}

// scalarText converts scalar values to their text form.
func scalarText(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case int:
		return strconv.Itoa(val), true
	case int8:
		return strconv.FormatInt(int64(val), 10), true
	case int16:
		return strconv.FormatInt(int64(val), 10), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case uint:
		return strconv.FormatUint(uint64(val), 10), true
	case uint8:
		return strconv.FormatUint(uint64(val), 10), true
	case uint16:
		return strconv.FormatUint(uint64(val), 10), true
	case uint32:
		return strconv.FormatUint(uint64(val), 10), true
	case uint64:
		return strconv.FormatUint(val, 10), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case json.Number:
		return val.String(), true
	default:
		return "", false
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := 0
	for i := range s {
		if runes == limit {
			// cut may leave trailing whitespace from the middle of the value
			return strings.TrimRightFunc(s[:i], unicode.IsSpace)
		}
		runes++
	}
	return s
}
