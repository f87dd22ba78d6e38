// Package validator provides cheap syntactic checks run before any rendering or
// transport work is done for a recipient.
package validator

import "strings"

const (
	addressSeparator = "@"
	labelSeparator   = "."
)

// Address reports whether addr looks like a deliverable mailbox address:
// it must contain "@" and the part after the first "@" must contain a dot.
//
// This is a sanity check only. No DNS or mailbox lookup is performed.
func Address(addr string) bool {
	_, domain, ok := strings.Cut(addr, addressSeparator)
	if !ok {
		return false
	}
	return strings.Contains(domain, labelSeparator)
}
