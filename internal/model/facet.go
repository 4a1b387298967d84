package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ValueError reports a value rejected by a simple type. Facet is empty for
// lexical (datatype) failures and names the violated facet otherwise.
type ValueError struct {
	Facet string
	Msg   string
}

func (e *ValueError) Error() string { return e.Msg }

func facetErrorf(facet, format string, args ...any) *ValueError {
	return &ValueError{Facet: facet, Msg: fmt.Sprintf(format, args...)}
}

// Facet is a constraining facet of one derivation step.
type Facet interface {
	Name() string
	check(t *SimpleType, normalized string, length int) error
}

// LengthFacet covers length, minLength and maxLength.
type LengthFacet struct {
	Kind  string
	Value int
}

// NewLengthFacet parses a length-style facet value.
func NewLengthFacet(kind, lexical string) (*LengthFacet, error) {
	n, err := strconv.Atoi(strings.TrimSpace(lexical))
	if err != nil || n < 0 {
		return nil, fmt.Errorf("invalid %s value %q", kind, lexical)
	}
	return &LengthFacet{Kind: kind, Value: n}, nil
}

func (f *LengthFacet) Name() string { return f.Kind }

func (f *LengthFacet) check(_ *SimpleType, _ string, length int) error {
	if length < 0 {
		return nil
	}
	switch f.Kind {
	case "length":
		if length != f.Value {
			return facetErrorf(f.Kind, "length %d must be %d", length, f.Value)
		}
	case "minLength":
		if length < f.Value {
			return facetErrorf(f.Kind, "length %d is less than minimum %d", length, f.Value)
		}
	case "maxLength":
		if length > f.Value {
			return facetErrorf(f.Kind, "length %d exceeds maximum %d", length, f.Value)
		}
	}
	return nil
}

// PatternFacet holds the patterns of one derivation step; a value must
// match at least one of them.
type PatternFacet struct {
	Sources []string
	res     []*regexp.Regexp
}

// AddPattern translates and appends an XSD pattern.
func (f *PatternFacet) AddPattern(pattern string) error {
	translated, err := TranslatePattern(pattern)
	if err != nil {
		return err
	}
	re, err := regexp.Compile(translated)
	if err != nil {
		return fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	f.Sources = append(f.Sources, pattern)
	f.res = append(f.res, re)
	return nil
}

func (f *PatternFacet) Name() string { return "pattern" }

func (f *PatternFacet) check(_ *SimpleType, normalized string, _ int) error {
	for _, re := range f.res {
		if re.MatchString(normalized) {
			return nil
		}
	}
	return facetErrorf("pattern", "value %q does not match pattern %s", normalized, strings.Join(f.Sources, " | "))
}

// EnumerationFacet holds the enumerated values of one derivation step.
type EnumerationFacet struct {
	Values []string
}

func (f *EnumerationFacet) Name() string { return "enumeration" }

func (f *EnumerationFacet) check(t *SimpleType, normalized string, _ int) error {
	for _, v := range f.Values {
		if t.Variety == Atomic && equalValues(t.Primitive, Normalize(v, t.WhiteSpace), normalized) {
			return nil
		}
		if Normalize(v, t.WhiteSpace) == normalized {
			return nil
		}
	}
	return facetErrorf("enumeration", "value %q is not in enumeration [%s]", normalized, strings.Join(f.Values, ", "))
}

// RangeFacet covers minInclusive, maxInclusive, minExclusive and maxExclusive.
type RangeFacet struct {
	Kind  string
	Value string
}

func (f *RangeFacet) Name() string { return f.Kind }

func (f *RangeFacet) check(t *SimpleType, normalized string, _ int) error {
	c, ok := compareValues(t.Primitive, normalized, f.Value)
	if !ok {
		return nil
	}
	var valid bool
	switch f.Kind {
	case "minInclusive":
		valid = c >= 0
	case "maxInclusive":
		valid = c <= 0
	case "minExclusive":
		valid = c > 0
	case "maxExclusive":
		valid = c < 0
	}
	if !valid {
		return facetErrorf(f.Kind, "value %s violates %s %s", normalized, f.Kind, f.Value)
	}
	return nil
}

// DigitsFacet covers totalDigits and fractionDigits.
type DigitsFacet struct {
	Kind  string
	Value int
}

// NewDigitsFacet parses a digits facet value.
func NewDigitsFacet(kind, lexical string) (*DigitsFacet, error) {
	n, err := strconv.Atoi(strings.TrimSpace(lexical))
	if err != nil || n < 0 || (kind == "totalDigits" && n == 0) {
		return nil, fmt.Errorf("invalid %s value %q", kind, lexical)
	}
	return &DigitsFacet{Kind: kind, Value: n}, nil
}

func (f *DigitsFacet) Name() string { return f.Kind }

func (f *DigitsFacet) check(t *SimpleType, normalized string, _ int) error {
	if t.Primitive != PrimitiveDecimal {
		return nil
	}
	total, fraction := decimalDigits(normalized)
	if f.Kind == "totalDigits" && total > f.Value {
		return facetErrorf(f.Kind, "value %s has %d digits, maximum %d", normalized, total, f.Value)
	}
	if f.Kind == "fractionDigits" && fraction > f.Value {
		return facetErrorf(f.Kind, "value %s has %d fraction digits, maximum %d", normalized, fraction, f.Value)
	}
	return nil
}

// valueLength measures a normalized value for the length facets; -1 means
// length is not applicable.
func valueLength(t *SimpleType, normalized string) int {
	switch {
	case t.Variety == List:
		return len(strings.Fields(normalized))
	case t.Variety == Union:
		return -1
	}
	switch t.Primitive {
	case PrimitiveHexBinary:
		return len(normalized) / 2
	case PrimitiveBase64Binary:
		b, err := decodeBase64(normalized)
		if err != nil {
			return -1
		}
		return len(b)
	case PrimitiveQName, PrimitiveNotation:
		return -1
	default:
		return utf8.RuneCountInString(normalized)
	}
}
