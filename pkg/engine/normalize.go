package engine

import (
	"regexp"

	"github.com/walteh/regexrules/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

// Normalized is the canonical shape of a rule: one pattern, one replacement,
// parsed flags. Everything past Normalize works only on this shape.
type Normalized struct {
	Pattern     string
	Replacement string
	Flags       Flags
	Literal     bool
}

// Normalize joins list-valued fields, applies the flag default and escapes
// literal patterns.
func Normalize(r rule.Rule) (Normalized, error) {
	if r.FindString() == "" {
		return Normalized{}, errors.New("find is required")
	}

	flags, err := ParseFlags(r.FlagsString())
	if err != nil {
		return Normalized{}, errors.Errorf("parsing flags: %w", err)
	}

	n := Normalized{
		Pattern:     r.FindString(),
		Replacement: r.ReplaceString(),
		Flags:       flags,
		Literal:     r.Literal,
	}
	if n.Literal {
		n.Pattern = regexp.QuoteMeta(n.Pattern)
	}
	return n, nil
}
