package api

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseParams parses a parameter expression into a string-keyed mapping.
//
// The accepted grammar is a strict structured literal: mappings, sequences,
// strings, numbers, booleans and null, in either JSON notation or the
// Python-repr style the tool has historically accepted (single quotes,
// True/False/None). The top-level value must be a mapping. Nothing is ever
// evaluated; anything outside the grammar fails with ErrMalformedParams.
func ParseParams(expr string) (map[string]any, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return map[string]any{}, nil
	}

	p := &paramParser{input: expr}
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, p.errorf("unexpected trailing input")
	}

	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value must be a mapping", ErrMalformedParams)
	}
	return m, nil
}

// paramParser is a small recursive-descent parser over the literal grammar.
type paramParser struct {
	input string
	pos   int
}

func (p *paramParser) errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%w: %s at offset %d", ErrMalformedParams, msg, p.pos)
}

func (p *paramParser) skipSpace() {
	for p.pos < len(p.input) {
		r, size := utf8.DecodeRuneInString(p.input[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += size
	}
}

func (p *paramParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *paramParser) parseValue() (any, error) {
	p.skipSpace()
	switch c := p.peek(); {
	case c == '{':
		return p.parseMapping()
	case c == '[':
		return p.parseSequence()
	case c == '"' || c == '\'':
		return p.parseString()
	case c == '-' || c == '+' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	case c >= 'A' && c <= 'z':
		return p.parseKeyword()
	default:
		return nil, p.errorf("unexpected character %q", c)
	}
}

func (p *paramParser) parseMapping() (map[string]any, error) {
	p.pos++ // consume '{'
	m := make(map[string]any)

	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return m, nil
	}

	for {
		p.skipSpace()
		if c := p.peek(); c != '"' && c != '\'' {
			return nil, p.errorf("mapping keys must be strings")
		}
		key, err := p.parseString()
		if err != nil {
			return nil, err
		}

		p.skipSpace()
		if p.peek() != ':' {
			return nil, p.errorf("expected ':' after mapping key")
		}
		p.pos++

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		m[key] = val

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			p.skipSpace()
			// Tolerate a trailing comma before the closing brace.
			if p.peek() == '}' {
				p.pos++
				return m, nil
			}
		case '}':
			p.pos++
			return m, nil
		default:
			return nil, p.errorf("expected ',' or '}' in mapping")
		}
	}
}

func (p *paramParser) parseSequence() ([]any, error) {
	p.pos++ // consume '['
	var s []any

	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return []any{}, nil
	}

	for {
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		s = append(s, val)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			p.skipSpace()
			if p.peek() == ']' {
				p.pos++
				return s, nil
			}
		case ']':
			p.pos++
			return s, nil
		default:
			return nil, p.errorf("expected ',' or ']' in sequence")
		}
	}
}

func (p *paramParser) parseString() (string, error) {
	quote := p.input[p.pos]
	p.pos++

	var b strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch c {
		case quote:
			p.pos++
			return b.String(), nil
		case '\\':
			p.pos++
			if p.pos >= len(p.input) {
				return "", p.errorf("unterminated escape sequence")
			}
			esc := p.input[p.pos]
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'u':
				if p.pos+4 >= len(p.input) {
					return "", p.errorf("invalid unicode escape")
				}
				n, err := strconv.ParseUint(p.input[p.pos+1:p.pos+5], 16, 32)
				if err != nil {
					return "", p.errorf("invalid unicode escape")
				}
				b.WriteRune(rune(n))
				p.pos += 4
			default:
				b.WriteByte(esc)
			}
			p.pos++
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errorf("unterminated string")
}

func (p *paramParser) parseNumber() (any, error) {
	start := p.pos
	if c := p.peek(); c == '-' || c == '+' {
		p.pos++
	}
	isFloat := false
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		if c == '.' || c == 'e' || c == 'E' {
			isFloat = true
			p.pos++
			continue
		}
		if (c == '-' || c == '+') && isFloat {
			// exponent sign
			p.pos++
			continue
		}
		break
	}

	text := p.input[start:p.pos]
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, p.errorf("invalid number %q", text)
		}
		return f, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, p.errorf("invalid number %q", text)
	}
	return n, nil
}

func (p *paramParser) parseKeyword() (any, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			p.pos++
			continue
		}
		break
	}

	switch p.input[start:p.pos] {
	case "true", "True":
		return true, nil
	case "false", "False":
		return false, nil
	case "null", "None":
		return nil, nil
	default:
		return nil, p.errorf("unknown literal %q", p.input[start:p.pos])
	}
}
