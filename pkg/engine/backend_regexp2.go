package engine

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

type ecmaMatcher struct {
	re    *regexp2.Regexp
	names map[string]int
}

func compileECMAScript(pattern string, flags Flags, timeout time.Duration) (matcher, error) {
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	if flags.IgnoreCase {
		opts |= regexp2.IgnoreCase
	}
	if flags.Multiline {
		opts |= regexp2.Multiline
	}
	if flags.DotAll {
		// ECMAScript mode ignores Singleline for the dot
		pattern = dotAll(pattern)
	}

	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		re.MatchTimeout = timeout
	}

	names := make(map[string]int)
	for _, name := range re.GetGroupNames() {
		if _, err := strconv.Atoi(name); err == nil {
			continue
		}
		names[name] = re.GroupNumberFromName(name)
	}

	return &ecmaMatcher{re: re, names: names}, nil
}

func (m *ecmaMatcher) groupNames() map[string]int {
	return m.names
}

func (m *ecmaMatcher) findAll(text string, limit int) ([]match, error) {
	// regexp2 reports positions in runes
	offsets := runeOffsets(text)

	var out []match
	found, err := m.re.FindStringMatch(text)
	for found != nil && (limit < 0 || len(out) < limit) {
		groups := found.Groups()
		spans := make([]span, len(groups))
		for i, g := range groups {
			if len(g.Captures) == 0 {
				spans[i] = span{start: -1, end: -1}
				continue
			}
			spans[i] = span{start: offsets[g.Index], end: offsets[g.Index+g.Length]}
		}
		out = append(out, match{groups: spans})

		found, err = m.re.FindNextMatch(found)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// runeOffsets maps rune index to byte offset, with one trailing entry for len(s).
// Invalid bytes count as one rune each, like a []rune conversion.
func runeOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i := 0; i < len(s); {
		offsets = append(offsets, i)
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return append(offsets, len(s))
}

// dotAll rewrites every unescaped dot outside a character class to [\s\S].
func dotAll(pattern string) string {
	if !strings.Contains(pattern, ".") {
		return pattern
	}

	var b strings.Builder
	inClass := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\' && i+1 < len(pattern):
			b.WriteByte(c)
			i++
			b.WriteByte(pattern[i])
			continue
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '.' && !inClass:
			b.WriteString(`[\s\S]`)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
