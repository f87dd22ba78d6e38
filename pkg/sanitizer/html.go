package sanitizer

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// ErrUnknownHTMLMode is returned by ParseHTMLMode.
var ErrUnknownHTMLMode = errors.New("sanitizer: unknown html mode")

// HTMLMode selects how markup inside record values is treated.
type HTMLMode int

const (
	// HTMLKeep leaves values untouched. The markdown renderer still omits raw
	// HTML unless it is told otherwise.
	HTMLKeep HTMLMode = iota
	// HTMLStrip removes every tag.
	HTMLStrip
	// HTMLSafe keeps basic formatting tags.
	HTMLSafe
)

// ParseHTMLMode reads a mode name. Boolean spellings are accepted so an
// existing STRIP_HTML=true keeps working.
func ParseHTMLMode(s string) (HTMLMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "0", "no", "off", "keep":
		return HTMLKeep, nil
	case "true", "1", "yes", "on", "strip":
		return HTMLStrip, nil
	case "safe":
		return HTMLSafe, nil
	default:
		return HTMLKeep, fmt.Errorf("%w: %q", ErrUnknownHTMLMode, s)
	}
}

// String implements fmt.Stringer.
func (m HTMLMode) String() string {
	switch m {
	case HTMLStrip:
		return "strip"
	case HTMLSafe:
		return "safe"
	default:
		return "keep"
	}
}

var (
	strictPolicy *bluemonday.Policy
	safePolicy   *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		// StrictPolicy strips ALL HTML, returns plain text
		strictPolicy = bluemonday.StrictPolicy()

		// SafePolicy keeps the formatting a personalized note may carry
		safePolicy = bluemonday.NewPolicy()
		safePolicy.AllowStandardURLs()
		safePolicy.AllowElements(
			"p", "br",
			"strong", "b", "em", "i",
			"ul", "ol", "li",
		)
		safePolicy.AllowAttrs("href").OnElements("a")
		safePolicy.RequireNoFollowOnLinks(true)
	})
}

// StripHTML removes every tag from s and returns the remaining text.
// Script and style contents are dropped entirely.
func StripHTML(s string) string {
	initPolicies()
	return strictPolicy.Sanitize(s)
}

// SanitizeHTML keeps basic formatting tags (p, br, strong, em, lists, links)
// and strips everything else, including scripts, event handlers
// and javascript: URLs.
func SanitizeHTML(s string) string {
	initPolicies()
	return safePolicy.Sanitize(s)
}
