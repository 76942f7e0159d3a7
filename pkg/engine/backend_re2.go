package engine

import (
	"strings"
	"time"

	re2 "github.com/wasilibs/go-re2"
)

type re2Matcher struct {
	re    *re2.Regexp
	names map[string]int
}

// compileRE2 ignores the timeout, RE2 matching is linear in the input.
func compileRE2(pattern string, flags Flags, _ time.Duration) (matcher, error) {
	inline := ""
	if flags.IgnoreCase {
		inline += "i"
	}
	if flags.Multiline {
		inline += "m"
	}
	if flags.DotAll {
		inline += "s"
	}
	pattern = namedGroupsToRE2(pattern)
	if inline != "" {
		pattern = "(?" + inline + ")" + pattern
	}

	re, err := re2.Compile(pattern)
	if err != nil {
		return nil, err
	}

	names := make(map[string]int)
	for i, name := range re.SubexpNames() {
		if name != "" {
			names[name] = i
		}
	}

	return &re2Matcher{re: re, names: names}, nil
}

func (m *re2Matcher) groupNames() map[string]int {
	return m.names
}

func (m *re2Matcher) findAll(text string, limit int) ([]match, error) {
	all := m.re.FindAllStringSubmatchIndex(text, limit)
	out := make([]match, 0, len(all))
	for _, idx := range all {
		spans := make([]span, len(idx)/2)
		for i := range spans {
			spans[i] = span{start: idx[2*i], end: idx[2*i+1]}
		}
		out = append(out, match{groups: spans})
	}
	return out, nil
}

// namedGroupsToRE2 rewrites (?<name> groups to the (?P<name> form every RE2
// release accepts. Lookbehind is left alone for RE2 to reject.
func namedGroupsToRE2(pattern string) string {
	if !strings.Contains(pattern, "(?<") {
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
		case c == '(' && !inClass && strings.HasPrefix(pattern[i:], "(?<") &&
			i+3 < len(pattern) && pattern[i+3] != '=' && pattern[i+3] != '!':
			b.WriteString("(?P<")
			i += 2
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
