// Package handle normalizes the human-readable account identifiers used by
// the wallet platform. Handles are compared case-insensitively with an
// optional single leading "@" or "$" prefix stripped; hex user IDs pass
// through unchanged apart from lowercasing.
package handle

import (
	"regexp"
	"strings"
)

var (
	userIDPattern = regexp.MustCompile(`^[a-fA-F0-9]{24,}$`)
	handlePattern = regexp.MustCompile(`^[\w\-.]{3,50}$`)
)

type RefKind string

const (
	KindHandle RefKind = "handle"
	KindUserID RefKind = "userid"
)

// Ref is a parsed handle-or-user-id reference.
type Ref struct {
	Value string
	Kind  RefKind
}

// Normalize lowercases a handle and strips a single leading @ or $.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 0 && (s[0] == '@' || s[0] == '$') {
		s = s[1:]
	}
	return strings.ToLower(s)
}

// IsUserID reports whether the input looks like a platform user ID
// (hex string, at least 24 characters).
func IsUserID(s string) bool {
	return userIDPattern.MatchString(strings.TrimSpace(s))
}

// IsHandle reports whether the input looks like a handle after prefix removal.
func IsHandle(s string) bool {
	return handlePattern.MatchString(Normalize(s))
}

// IsValid reports whether the input is usable as either a handle or a user ID.
func IsValid(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	return IsUserID(s) || IsHandle(s)
}

// Parse classifies and normalizes a single handle-or-id input.
func Parse(input string) Ref {
	trimmed := strings.TrimSpace(input)
	if IsUserID(trimmed) {
		return Ref{Value: strings.ToLower(trimmed), Kind: KindUserID}
	}
	return Ref{Value: Normalize(trimmed), Kind: KindHandle}
}

// ParseList parses a comma- or newline-separated list of handles/ids,
// skipping empty entries.
func ParseList(input string) []Ref {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == '\n'
	})
	refs := make([]Ref, 0, len(fields))
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			continue
		}
		refs = append(refs, Parse(f))
	}
	return refs
}
