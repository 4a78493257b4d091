package csv

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	lo "github.com/samber/lo"
)

// ParseLabels parses the list literal stored in the labels column, e.g.
// ['a', "it's", 'caf\xe9']. Strings follow the quoting and escape rules of the
// exporter that wrote them. An empty cell means no labels.
func ParseLabels(s string) ([]string, error) {
	p := &literalParser{src: strings.TrimSpace(s)}
	if p.src == "" {
		return nil, nil
	}
	out, err := p.list()
	if err != nil {
		return nil, fmt.Errorf("labels %q: %w", s, err)
	}
	return out, nil
}

// FormatLabels renders labels as a list literal readable by ParseLabels.
func FormatLabels(labels []string) string {
	return "[" + strings.Join(lo.Map(labels, func(l string, _ int) string { return quoteLabel(l) }), ", ") + "]"
}

// quoteLabel prefers single quotes and switches to double quotes only when the
// label holds a single quote and no double quote.
func quoteLabel(l string) string {
	q := '\''
	if strings.ContainsRune(l, '\'') && !strings.ContainsRune(l, '"') {
		q = '"'
	}
	var b strings.Builder
	b.WriteRune(q)
	for _, r := range l {
		switch {
		case r == '\\' || r == q:
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune(q)
	return b.String()
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) errorf(format string, args ...any) error {
	return fmt.Errorf("offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) && strings.IndexByte(" \t\r\n", p.src[p.pos]) >= 0 {
		p.pos++
	}
}

func (p *literalParser) consume(c byte) bool {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *literalParser) list() ([]string, error) {
	if !p.consume('[') {
		return nil, p.errorf("expected '['")
	}
	out := []string{}
	for {
		if p.consume(']') {
			break
		}
		s, err := p.str()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
		if p.consume(',') {
			continue
		}
		if p.consume(']') {
			break
		}
		return nil, p.errorf("expected ',' or ']'")
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q after list", p.src[p.pos:])
	}
	return out, nil
}

func (p *literalParser) str() (string, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return "", p.errorf("unexpected end of input")
	}
	q := p.src[p.pos]
	if q != '\'' && q != '"' {
		return "", p.errorf("expected string, got %q", q)
	}
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case q:
			p.pos++
			return b.String(), nil
		case '\n':
			return "", p.errorf("newline in string")
		case '\\':
			if err := p.escape(&b); err != nil {
				return "", err
			}
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errorf("unterminated string")
}

var simpleEscapes = map[byte]byte{
	'\\': '\\', '\'': '\'', '"': '"',
	'a': '\a', 'b': '\b', 'f': '\f', 'n': '\n', 'r': '\r', 't': '\t', 'v': '\v',
}

func (p *literalParser) escape(b *strings.Builder) error {
	p.pos++
	if p.pos >= len(p.src) {
		return p.errorf("unterminated string")
	}
	c := p.src[p.pos]
	p.pos++
	if r, ok := simpleEscapes[c]; ok {
		b.WriteByte(r)
		return nil
	}
	switch {
	case c == 'x':
		return p.codePoint(b, 2)
	case c == 'u':
		return p.codePoint(b, 4)
	case c == 'U':
		return p.codePoint(b, 8)
	case c >= '0' && c <= '7':
		end := p.pos
		for end < len(p.src) && end < p.pos+2 && p.src[end] >= '0' && p.src[end] <= '7' {
			end++
		}
		v, _ := strconv.ParseUint(p.src[p.pos-1:end], 8, 32)
		p.pos = end
		b.WriteRune(rune(v))
	case c == '\n':
		// line continuation
	default:
		// unknown escapes are kept verbatim
		b.WriteByte('\\')
		b.WriteByte(c)
	}
	return nil
}

func (p *literalParser) codePoint(b *strings.Builder, digits int) error {
	if p.pos+digits > len(p.src) {
		return p.errorf("truncated escape")
	}
	v, err := strconv.ParseUint(p.src[p.pos:p.pos+digits], 16, 32)
	if err != nil || v > unicode.MaxRune {
		return p.errorf("invalid escape %q", p.src[p.pos:p.pos+digits])
	}
	p.pos += digits
	b.WriteRune(rune(v))
	return nil
}
