// Package compose turns a rename template into new basenames. A
// template is parsed once into a token stream (literal text, positional
// {} placeholders, named {group} placeholders) and then applied per
// file, so the template string is never re-parsed during planning.
package compose

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingGroup indicates a placeholder has no corresponding capture.
var ErrMissingGroup = errors.New("no capture for placeholder")

// ErrMalformedPlaceholder indicates the template syntax is invalid.
var ErrMalformedPlaceholder = errors.New("malformed placeholder")

// CounterName is the reserved placeholder name fed by the per-plan
// counter in increment mode rather than by a capture group.
const CounterName = "counter"

// TokenKind discriminates template tokens.
type TokenKind int

const (
	// TokenLiteral is verbatim text copied into the output.
	TokenLiteral TokenKind = iota
	// TokenPositional is an empty {} placeholder filled from the
	// positional captures in order of appearance.
	TokenPositional
	// TokenNamed is a {name} placeholder filled by exact key lookup.
	TokenNamed
)

// Token is one element of a parsed template.
type Token struct {
	Kind TokenKind
	Text string // Literal text, or the group name for TokenNamed
}

// Template is a compiled rename pattern.
type Template struct {
	raw        string
	tokens     []Token
	positional int
	names      []string
}

// Parse compiles a template string. Doubled braces ({{ and }}) escape
// literal braces. Placeholder names must be identifiers; anything else
// inside braces, or an unterminated brace, is a MalformedPlaceholder.
func Parse(raw string) (*Template, error) {
	t := &Template{raw: raw}
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			t.tokens = append(t.tokens, Token{Kind: TokenLiteral, Text: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '{':
			if i+1 < len(raw) && raw[i+1] == '{' {
				literal.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(raw[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated '{' at offset %d in %q", ErrMalformedPlaceholder, i, raw)
			}
			name := raw[i+1 : i+end]
			flush()
			if name == "" {
				t.tokens = append(t.tokens, Token{Kind: TokenPositional})
				t.positional++
			} else {
				if !isIdentifier(name) {
					return nil, fmt.Errorf("%w: %q in %q", ErrMalformedPlaceholder, name, raw)
				}
				t.tokens = append(t.tokens, Token{Kind: TokenNamed, Text: name})
				t.names = append(t.names, name)
			}
			i += end
		case '}':
			if i+1 < len(raw) && raw[i+1] == '}' {
				literal.WriteByte('}')
				i++
				continue
			}
			return nil, fmt.Errorf("%w: unmatched '}' at offset %d in %q", ErrMalformedPlaceholder, i, raw)
		default:
			literal.WriteByte(raw[i])
		}
	}
	flush()

	return t, nil
}

// String returns the original template source.
func (t *Template) String() string {
	return t.raw
}

// PositionalCount returns the number of {} placeholders.
func (t *Template) PositionalCount() int {
	return t.positional
}

// Names returns the named placeholders in order of appearance.
// Duplicates are preserved.
func (t *Template) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// UsesCounter reports whether the template references the reserved
// counter placeholder.
func (t *Template) UsesCounter() bool {
	for _, n := range t.names {
		if n == CounterName {
			return true
		}
	}
	return false
}

// Compose substitutes captures into the template and returns the new
// basename. Positional placeholders consume positional captures left to
// right; named placeholders look up named by exact key. Running out of
// positional captures or referencing an unknown name fails with
// MissingGroup.
func (t *Template) Compose(positional []string, named map[string]string) (string, error) {
	var out strings.Builder
	next := 0

	for _, token := range t.tokens {
		switch token.Kind {
		case TokenLiteral:
			out.WriteString(token.Text)
		case TokenPositional:
			if next >= len(positional) {
				return "", fmt.Errorf("%w: template %q uses %d positional placeholders but only %d captures exist",
					ErrMissingGroup, t.raw, t.positional, len(positional))
			}
			out.WriteString(positional[next])
			next++
		case TokenNamed:
			value, ok := named[token.Text]
			if !ok {
				return "", fmt.Errorf("%w: %q", ErrMissingGroup, token.Text)
			}
			out.WriteString(value)
		}
	}

	return out.String(), nil
}

// isIdentifier reports whether s is a valid placeholder name:
// a letter or underscore followed by letters, digits, or underscores.
func isIdentifier(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return len(s) > 0
}
