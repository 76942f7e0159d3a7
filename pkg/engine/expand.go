package engine

import (
	"strings"
)

// expand appends template to b with ECMAScript substitution patterns resolved:
// $$, $&, $`, $', $n, $nn and $<name>. Anything else after $ is literal.
func expand(b *strings.Builder, template string, text string, m match, names map[string]int) {
	captures := len(m.groups) - 1
	whole := m.whole()

	writeGroup := func(i int) {
		if g := m.groups[i]; g.ok() {
			b.WriteString(text[g.start:g.end])
		}
	}

	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '$' || i+1 == len(template) {
			b.WriteByte(c)
			continue
		}

		next := template[i+1]
		switch {
		case next == '$':
			b.WriteByte('$')
			i++
		case next == '&':
			b.WriteString(text[whole.start:whole.end])
			i++
		case next == '`':
			b.WriteString(text[:whole.start])
			i++
		case next == '\'':
			b.WriteString(text[whole.end:])
			i++
		case isDigit(next):
			if i+2 < len(template) && isDigit(template[i+2]) {
				nn := int(next-'0')*10 + int(template[i+2]-'0')
				if nn >= 1 && nn <= captures {
					writeGroup(nn)
					i += 2
					continue
				}
			}
			if d := int(next - '0'); d >= 1 && d <= captures {
				writeGroup(d)
				i++
				continue
			}
			b.WriteByte('$')
		case next == '<':
			if len(names) == 0 {
				b.WriteByte('$')
				continue
			}
			end := strings.IndexByte(template[i+2:], '>')
			if end < 0 {
				b.WriteByte('$')
				continue
			}
			if idx, ok := names[template[i+2:i+2+end]]; ok && idx < len(m.groups) {
				writeGroup(idx)
			}
			i += 2 + end
		default:
			b.WriteByte('$')
		}
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
