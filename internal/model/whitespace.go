package model

import "strings"

// WhiteSpace is the whiteSpace facet value.
type WhiteSpace uint8

const (
	Preserve WhiteSpace = iota
	Replace
	Collapse
)

// ParseWhiteSpace maps a facet lexical value to WhiteSpace.
func ParseWhiteSpace(s string) (WhiteSpace, bool) {
	switch s {
	case "preserve":
		return Preserve, true
	case "replace":
		return Replace, true
	case "collapse":
		return Collapse, true
	default:
		return Preserve, false
	}
}

// Normalize applies whitespace processing to a lexical value.
func Normalize(s string, ws WhiteSpace) string {
	switch ws {
	case Replace:
		return replaceWhitespace(s)
	case Collapse:
		return strings.Join(strings.FieldsFunc(s, isXMLSpace), " ")
	default:
		return s
	}
}

func replaceWhitespace(s string) string {
	if !strings.ContainsAny(s, "\t\n\r") {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		if c == '\t' || c == '\n' || c == '\r' {
			b[i] = ' '
		}
	}
	return string(b)
}

func isXMLSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// IsBlank reports whether s holds only XML whitespace.
func IsBlank(s string) bool {
	return strings.TrimFunc(s, isXMLSpace) == ""
}
