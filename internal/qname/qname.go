// Package qname holds namespace-qualified names and the helpers used to
// resolve prefixed lexical names against an element's in-scope namespaces.
package qname

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Well-known namespaces.
const (
	XMLNamespace = "http://www.w3.org/XML/1998/namespace"
	XSDNamespace = "http://www.w3.org/2001/XMLSchema"
	XSINamespace = "http://www.w3.org/2001/XMLSchema-instance"

	XMLPrefix = "xml"
)

// QName is an expanded name.
type QName struct {
	Namespace string
	Local     string
}

// New returns the QName {ns}local.
func New(ns, local string) QName {
	return QName{Namespace: ns, Local: local}
}

// XSD returns a name in the XML Schema namespace.
func XSD(local string) QName {
	return QName{Namespace: XSDNamespace, Local: local}
}

// IsZero reports whether q has no local part.
func (q QName) IsZero() bool {
	return q.Local == ""
}

// String formats q in Clark notation; unqualified names print bare.
func (q QName) String() string {
	if q.Namespace == "" {
		return q.Local
	}
	return "{" + q.Namespace + "}" + q.Local
}

// Compare orders names by namespace, then local part.
func Compare(a, b QName) int {
	if c := cmp.Compare(a.Namespace, b.Namespace); c != 0 {
		return c
	}
	return cmp.Compare(a.Local, b.Local)
}

// SortedMapKeys returns the keys of m in Compare order.
func SortedMapKeys[V any](m map[QName]V) []QName {
	keys := make([]QName, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, Compare)
	return keys
}

// Split separates a lexical name into prefix and local part.
func Split(lexical string) (prefix, local string, hasPrefix bool, err error) {
	if lexical == "" {
		return "", "", false, fmt.Errorf("invalid QName: empty string")
	}
	idx := strings.IndexByte(lexical, ':')
	if idx < 0 {
		if !IsNCName(lexical) {
			return "", "", false, fmt.Errorf("invalid QName %q", lexical)
		}
		return "", lexical, false, nil
	}
	prefix, local = lexical[:idx], lexical[idx+1:]
	if !IsNCName(prefix) || !IsNCName(local) {
		return "", "", false, fmt.Errorf("invalid QName %q", lexical)
	}
	return prefix, local, true, nil
}
