package engine

import (
	"bytes"
	"encoding/json"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Stringify validates a user-entered pattern and returns its source as a JSON
// string, ready to paste into a rule's find field. Enclosing /.../ delimiters
// and trailing flag letters are stripped first; the flags take part in
// validation only.
func (e *Engine) Stringify(input string) (string, error) {
	pattern, flagLetters := splitDelimited(input)

	flags, err := ParseFlags(flagLetters)
	if err != nil {
		return "", invalidPattern("", err)
	}
	if _, err := e.compile(pattern, flags, e.timeout); err != nil {
		return "", invalidPattern("", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(patternSource(pattern)); err != nil {
		return "", errors.Errorf("encoding pattern: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// splitDelimited turns "/abc/gi" into ("abc", "gi"). Input without a leading
// slash and a closing slash followed only by flag letters is returned as is.
func splitDelimited(input string) (string, string) {
	if len(input) < 2 || input[0] != '/' {
		return input, ""
	}
	end := strings.LastIndexByte(input, '/')
	if end <= 0 || !isFlagLetters(input[end+1:]) {
		return input, ""
	}
	return input[1:end], input[end+1:]
}

// patternSource renders a pattern the way a regex literal would print it:
// unescaped slashes outside classes get a backslash, line breaks become
// escapes, and the empty pattern becomes (?:).
func patternSource(pattern string) string {
	if pattern == "" {
		return "(?:)"
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
		case c == '/' && !inClass:
			b.WriteString(`\/`)
			continue
		case c == '\n':
			b.WriteString(`\n`)
			continue
		case c == '\r':
			b.WriteString(`\r`)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
