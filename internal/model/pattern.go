package model

import (
	"fmt"
	"strings"
)

const (
	nameStartClass = `:A-Z_a-z\x{C0}-\x{D6}\x{D8}-\x{F6}\x{F8}-\x{2FF}\x{370}-\x{37D}\x{37F}-\x{1FFF}\x{200C}-\x{200D}\x{2070}-\x{218F}\x{2C00}-\x{2FEF}\x{3001}-\x{D7FF}\x{F900}-\x{FDCF}\x{FDF0}-\x{FFFD}`
	nameCharClass  = nameStartClass + `\-.0-9\x{B7}\x{300}-\x{36F}\x{203F}-\x{2040}`
	spaceClass     = ` \t\n\r`
)

// TranslatePattern translates an XSD 1.0 regular expression into an
// anchored RE2 expression. Constructs RE2 cannot express, such as character
// class subtraction and Unicode block escapes, are rejected.
func TranslatePattern(pattern string) (string, error) {
	t := patternTranslator{src: []rune(pattern), pattern: pattern}
	if err := t.run(); err != nil {
		return "", err
	}
	return `^(?:` + t.out.String() + `)$`, nil
}

type patternTranslator struct {
	pattern string
	src     []rune
	i       int
	out     strings.Builder
	depth   int
}

func (t *patternTranslator) run() error {
	for t.i < len(t.src) {
		r := t.src[t.i]
		switch r {
		case '\\':
			esc, err := t.escape(false)
			if err != nil {
				return err
			}
			t.out.WriteString(esc)
			continue
		case '[':
			if err := t.class(); err != nil {
				return err
			}
			continue
		case '.':
			t.out.WriteString(`[^\n\r]`)
		case '^', '$':
			t.out.WriteRune('\\')
			t.out.WriteRune(r)
		case '(':
			if t.i+1 < len(t.src) && t.src[t.i+1] == '?' {
				return t.errorf("group modifiers are not XSD syntax")
			}
			t.depth++
			t.out.WriteRune(r)
		case ')':
			t.depth--
			if t.depth < 0 {
				return t.errorf("unbalanced ')'")
			}
			t.out.WriteRune(r)
		case '?', '*', '+':
			t.out.WriteRune(r)
			if t.i+1 < len(t.src) && t.src[t.i+1] == '?' {
				return t.errorf("lazy quantifiers are not XSD syntax")
			}
		default:
			t.out.WriteRune(r)
		}
		t.i++
	}
	if t.depth != 0 {
		return t.errorf("unclosed '('")
	}
	return nil
}

// class translates a character class starting at '['; on return t.i is
// past the closing bracket.
func (t *patternTranslator) class() error {
	t.i++
	var body strings.Builder
	negated := false
	if t.i < len(t.src) && t.src[t.i] == '^' {
		negated = true
		t.i++
	}
	first := true
	for {
		if t.i >= len(t.src) {
			return t.errorf("unclosed character class")
		}
		r := t.src[t.i]
		switch {
		case r == ']' && !first:
			t.i++
			if negated {
				t.out.WriteString("[^" + body.String() + "]")
			} else {
				t.out.WriteString("[" + body.String() + "]")
			}
			return nil
		case r == '-' && t.i+1 < len(t.src) && t.src[t.i+1] == '[':
			return t.errorf("character class subtraction is not supported")
		case r == '\\':
			esc, err := t.escape(true)
			if err != nil {
				return err
			}
			body.WriteString(esc)
			first = false
			continue
		case r == '[':
			return t.errorf("unescaped '[' in character class")
		case r == '^' || r == ']':
			body.WriteRune('\\')
			body.WriteRune(r)
		default:
			body.WriteRune(r)
		}
		first = false
		t.i++
	}
}

// escape translates the escape at t.i and advances past it.
func (t *patternTranslator) escape(inClass bool) (string, error) {
	if t.i+1 >= len(t.src) {
		return "", t.errorf("trailing backslash")
	}
	r := t.src[t.i+1]
	t.i += 2
	switch r {
	case 'n', 'r', 't', '\\', '|', '.', '?', '*', '+', '(', ')', '{', '}', '-', '[', ']', '^', '$':
		return `\` + string(r), nil
	case 's':
		return wrapClass(spaceClass, inClass), nil
	case 'i':
		return wrapClass(nameStartClass, inClass), nil
	case 'c':
		return wrapClass(nameCharClass, inClass), nil
	case 'd':
		return `\p{Nd}`, nil
	case 'D':
		return `\P{Nd}`, nil
	case 'W':
		return wrapClass(`\p{P}\p{Z}\p{C}`, inClass), nil
	case 'S', 'I', 'C', 'w':
		if inClass {
			return "", t.errorf(`\%c inside a character class is not supported`, r)
		}
		switch r {
		case 'S':
			return "[^" + spaceClass + "]", nil
		case 'I':
			return "[^" + nameStartClass + "]", nil
		case 'C':
			return "[^" + nameCharClass + "]", nil
		default:
			return `[^\p{P}\p{Z}\p{C}]`, nil
		}
	case 'p', 'P':
		end := t.i
		if end >= len(t.src) || t.src[end] != '{' {
			return "", t.errorf(`\%c requires a {category}`, r)
		}
		for end < len(t.src) && t.src[end] != '}' {
			end++
		}
		if end >= len(t.src) {
			return "", t.errorf("unclosed category escape")
		}
		name := string(t.src[t.i+1 : end])
		if strings.HasPrefix(name, "Is") {
			return "", t.errorf("unicode block %s is not supported", name)
		}
		t.i = end + 1
		return `\` + string(r) + "{" + name + "}", nil
	default:
		return "", t.errorf(`unknown escape \%c`, r)
	}
}

func wrapClass(body string, inClass bool) string {
	if inClass {
		return body
	}
	return "[" + body + "]"
}

func (t *patternTranslator) errorf(format string, args ...any) error {
	return fmt.Errorf("pattern %q: %s", t.pattern, fmt.Sprintf(format, args...))
}
