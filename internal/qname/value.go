package qname

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/beevik/etree"
)

// ParseQNameValue parses a QName lexical value with namespace resolution.
// An unprefixed value takes the default namespace when one is in scope.
func ParseQNameValue(lexical string, nsContext map[string]string) (QName, error) {
	trimmed := strings.TrimSpace(lexical)
	if trimmed == "" {
		return QName{}, fmt.Errorf("invalid QName: empty string")
	}

	prefix, local, hasPrefix, err := Split(trimmed)
	if err != nil {
		return QName{}, err
	}

	if !hasPrefix {
		return QName{Namespace: nsContext[""], Local: local}, nil
	}
	if prefix == XMLPrefix {
		if bound, ok := nsContext[prefix]; ok && bound != XMLNamespace {
			return QName{}, fmt.Errorf("prefix xml bound to %s", bound)
		}
		return QName{Namespace: XMLNamespace, Local: local}, nil
	}
	ns, ok := nsContext[prefix]
	if !ok {
		return QName{}, fmt.Errorf("prefix %s not found in namespace context", prefix)
	}
	return QName{Namespace: ns, Local: local}, nil
}

// Context collects the namespace bindings in scope at el, nearest first.
// The empty key holds the default namespace.
func Context(el *etree.Element) map[string]string {
	ctx := map[string]string{}
	for e := el; e != nil; e = e.Parent() {
		for _, a := range e.Attr {
			switch {
			case a.Space == "" && a.Key == "xmlns":
				if _, seen := ctx[""]; !seen {
					ctx[""] = a.Value
				}
			case a.Space == "xmlns":
				if _, seen := ctx[a.Key]; !seen {
					ctx[a.Key] = a.Value
				}
			}
		}
	}
	return ctx
}

// OfElement returns the expanded name of el.
func OfElement(el *etree.Element) QName {
	if el.Space == XMLPrefix {
		return QName{Namespace: XMLNamespace, Local: el.Tag}
	}
	return QName{Namespace: el.NamespaceURI(), Local: el.Tag}
}

// OfAttr returns the expanded name of a; unprefixed attributes have no namespace.
func OfAttr(a *etree.Attr) QName {
	switch a.Space {
	case "":
		return QName{Local: a.Key}
	case XMLPrefix:
		return QName{Namespace: XMLNamespace, Local: a.Key}
	default:
		return QName{Namespace: a.NamespaceURI(), Local: a.Key}
	}
}

// IsNamespaceDecl reports whether a is an xmlns or xmlns:p declaration.
func IsNamespaceDecl(a *etree.Attr) bool {
	return a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns")
}

// IsNCName reports whether s is a non-colonized XML name.
func IsNCName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !isNameStart(r) {
				return false
			}
			continue
		}
		if !isNameChar(r) {
			return false
		}
	}
	return utf8.ValidString(s)
}

// IsName reports whether s is an XML Name (colons allowed).
func IsName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == ':' {
			continue
		}
		if i == 0 && !isNameStart(r) {
			return false
		}
		if i > 0 && !isNameChar(r) {
			return false
		}
	}
	return true
}

// IsNMToken reports whether s is an XML name token.
func IsNMToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != ':' && !isNameChar(r) {
			return false
		}
	}
	return true
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) ||
		(r >= 0xC0 && r <= 0x2FF && r != 0xD7 && r != 0xF7) ||
		(r >= 0x370 && r <= 0x1FFF && r != 0x37E) ||
		(r >= 0x2C00 && r <= 0x2FEF) || (r >= 0x3001 && r <= 0xD7FF) ||
		(r >= 0xF900 && r <= 0xFDCF) || (r >= 0xFDF0 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0xEFFFF)
}

func isNameChar(r rune) bool {
	return isNameStart(r) || r == '-' || r == '.' || unicode.IsDigit(r) ||
		r == 0xB7 || (r >= 0x300 && r <= 0x36F) || r == 0x203F || r == 0x2040
}
