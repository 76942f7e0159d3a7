package engine

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Flags is the parsed form of a rule's flag letters
type Flags struct {
	Global     bool // g: replace every match instead of the first
	IgnoreCase bool // i
	Multiline  bool // m: ^ and $ match at line boundaries
	DotAll     bool // s: . matches newlines
	Sticky     bool // y: matches must be contiguous from the start of the text
	Unicode    bool // u or v, no effect on matching
	Indices    bool // d, no effect on matching
}

// ParseFlags parses ECMAScript-style flag letters. Unknown and repeated
// letters are rejected, as is the u/v combination.
func ParseFlags(s string) (Flags, error) {
	var f Flags
	seen := make(map[rune]bool, len(s))
	for _, c := range s {
		if seen[c] {
			return Flags{}, errors.Errorf("duplicate flag %q in %q", c, s)
		}
		seen[c] = true

		switch c {
		case 'g':
			f.Global = true
		case 'i':
			f.IgnoreCase = true
		case 'm':
			f.Multiline = true
		case 's':
			f.DotAll = true
		case 'y':
			f.Sticky = true
		case 'u', 'v':
			f.Unicode = true
		case 'd':
			f.Indices = true
		default:
			return Flags{}, errors.Errorf("invalid flag %q in %q", c, s)
		}
	}
	if seen['u'] && seen['v'] {
		return Flags{}, errors.Errorf("flags u and v cannot be combined in %q", s)
	}
	return f, nil
}

// String renders the flags in canonical order.
func (f Flags) String() string {
	var b strings.Builder
	if f.Indices {
		b.WriteByte('d')
	}
	if f.Global {
		b.WriteByte('g')
	}
	if f.IgnoreCase {
		b.WriteByte('i')
	}
	if f.Multiline {
		b.WriteByte('m')
	}
	if f.DotAll {
		b.WriteByte('s')
	}
	if f.Unicode {
		b.WriteByte('u')
	}
	if f.Sticky {
		b.WriteByte('y')
	}
	return b.String()
}

func isFlagLetters(s string) bool {
	for _, c := range s {
		if !strings.ContainsRune("dgimsuvy", c) {
			return false
		}
	}
	return true
}
