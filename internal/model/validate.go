package model

import (
	"strings"

	"github.com/ands/rifcs/internal/qname"
)

// Validate checks a lexical value against t and returns its normalized form.
// Failures are *ValueError. nsContext resolves QName-typed values and may be nil.
func (t *SimpleType) Validate(lexical string, nsContext map[string]string) (string, error) {
	normalized := Normalize(lexical, t.WhiteSpace)
	switch t.Variety {
	case List:
		for _, item := range strings.Fields(normalized) {
			if _, err := t.Item.Validate(item, nsContext); err != nil {
				return "", err
			}
		}
	case Union:
		if !t.matchesMember(lexical, nsContext) {
			return "", &ValueError{Msg: "value " + quote(normalized) + " matches no member of union " + typeLabel(t)}
		}
	default:
		if err := t.checkLexical(normalized, nsContext); err != nil {
			return "", err
		}
	}
	length := valueLength(t, normalized)
	for step := t; step != nil; step = step.Base {
		for _, f := range step.Facets {
			if err := f.check(t, normalized, length); err != nil {
				return "", err
			}
		}
	}
	return normalized, nil
}

func (t *SimpleType) matchesMember(lexical string, nsContext map[string]string) bool {
	for _, m := range t.Members {
		if _, err := m.Validate(lexical, nsContext); err == nil {
			return true
		}
	}
	return false
}

func (t *SimpleType) checkLexical(normalized string, nsContext map[string]string) error {
	if err := checkPrimitive(t.Primitive, normalized); err != nil {
		return &ValueError{Msg: err.Error()}
	}
	for step := t; step != nil; step = step.Base {
		if step.check == nil {
			continue
		}
		if err := step.check(normalized); err != nil {
			return &ValueError{Msg: err.Error()}
		}
	}
	if t.Primitive == PrimitiveQName && nsContext != nil {
		if _, err := qname.ParseQNameValue(normalized, nsContext); err != nil {
			return &ValueError{Msg: err.Error()}
		}
	}
	return nil
}

func quote(s string) string { return `"` + s + `"` }

func typeLabel(t *SimpleType) string {
	if t.Name.IsZero() {
		return "(anonymous)"
	}
	return t.Name.Local
}
