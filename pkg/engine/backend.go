package engine

import (
	"strings"
	"time"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

// Backend names a regular expression implementation
type Backend string

const (
	// BackendECMAScript is a backtracking engine with lookaround and
	// back-references, closest to the patterns editor users write
	BackendECMAScript Backend = "ecmascript"
	// BackendRE2 guarantees linear-time matching and rejects backtracking-only syntax
	BackendRE2 Backend = "re2"
)

// Backends lists the supported backends, default first.
func Backends() []Backend {
	return []Backend{BackendECMAScript, BackendRE2}
}

// ParseBackend validates a backend name. The empty string selects the default.
func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackendECMAScript:
		return BackendECMAScript, nil
	case BackendRE2:
		return BackendRE2, nil
	default:
		return "", errors.Errorf("unknown regex engine %q (want %s or %s)", s, BackendECMAScript, BackendRE2)
	}
}

// span is a byte range of the input; start < 0 marks a group that did not participate
type span struct {
	start, end int
}

func (s span) ok() bool {
	return s.start >= 0
}

// match holds the whole match at groups[0] followed by each capture group
type match struct {
	groups []span
}

func (m match) whole() span {
	return m.groups[0]
}

// matcher is a compiled pattern
type matcher interface {
	// findAll returns up to limit non-overlapping matches left to right, all when limit < 0
	findAll(text string, limit int) ([]match, error)

	// groupNames maps named groups to their group index
	groupNames() map[string]int
}

type compileFunc func(pattern string, flags Flags, timeout time.Duration) (matcher, error)

func compilerFor(b Backend) compileFunc {
	if b == BackendRE2 {
		return compileRE2
	}
	return compileECMAScript
}

// keepSticky drops every match after the first one that does not start where
// the previous one ended, the first one having to start at 0.
func keepSticky(text string, matches []match) []match {
	pos := 0
	for i, m := range matches {
		w := m.whole()
		if w.start != pos {
			return matches[:i]
		}
		pos = w.end
		if w.start == w.end {
			if pos >= len(text) {
				return matches[:i+1]
			}
			_, size := utf8.DecodeRuneInString(text[pos:])
			pos += size
		}
	}
	return matches
}
