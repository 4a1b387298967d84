package model

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ands/rifcs/internal/qname"
)

var anySimpleType = &SimpleType{
	Name:      qname.XSD("anySimpleType"),
	Primitive: PrimitiveAnySimple,
}

// AnySimpleType returns xs:anySimpleType.
func AnySimpleType() *SimpleType { return anySimpleType }

var languageRE = regexp.MustCompile(`^[a-zA-Z]{1,8}(?:-[a-zA-Z0-9]{1,8})*$`)

type builtinSpec struct {
	name      string
	base      string
	primitive Primitive
	ws        WhiteSpace
	check     func(string) error
	facets    func() []Facet
	listOf    string
}

func lexicalRule(what string, ok func(string) bool) func(string) error {
	return func(s string) error {
		if !ok(s) {
			return fmt.Errorf("invalid %s %q", what, s)
		}
		return nil
	}
}

func integerRange(lo, hi string) func() []Facet {
	return func() []Facet {
		var out []Facet
		if lo != "" {
			out = append(out, &RangeFacet{Kind: "minInclusive", Value: lo})
		}
		if hi != "" {
			out = append(out, &RangeFacet{Kind: "maxInclusive", Value: hi})
		}
		return out
	}
}

// builtinSpecs is ordered so that every base precedes its derivations.
var builtinSpecs = []builtinSpec{
	{name: "string", primitive: PrimitiveString, ws: Preserve},
	{name: "boolean", primitive: PrimitiveBoolean, ws: Collapse},
	{name: "decimal", primitive: PrimitiveDecimal, ws: Collapse},
	{name: "float", primitive: PrimitiveFloat, ws: Collapse},
	{name: "double", primitive: PrimitiveDouble, ws: Collapse},
	{name: "duration", primitive: PrimitiveDuration, ws: Collapse},
	{name: "dateTime", primitive: PrimitiveDateTime, ws: Collapse},
	{name: "time", primitive: PrimitiveTime, ws: Collapse},
	{name: "date", primitive: PrimitiveDate, ws: Collapse},
	{name: "gYearMonth", primitive: PrimitiveGYearMonth, ws: Collapse},
	{name: "gYear", primitive: PrimitiveGYear, ws: Collapse},
	{name: "gMonthDay", primitive: PrimitiveGMonthDay, ws: Collapse},
	{name: "gDay", primitive: PrimitiveGDay, ws: Collapse},
	{name: "gMonth", primitive: PrimitiveGMonth, ws: Collapse},
	{name: "hexBinary", primitive: PrimitiveHexBinary, ws: Collapse},
	{name: "base64Binary", primitive: PrimitiveBase64Binary, ws: Collapse},
	{name: "anyURI", primitive: PrimitiveAnyURI, ws: Collapse},
	{name: "QName", primitive: PrimitiveQName, ws: Collapse},
	{name: "NOTATION", primitive: PrimitiveNotation, ws: Collapse},

	{name: "normalizedString", base: "string", ws: Replace},
	{name: "token", base: "normalizedString", ws: Collapse},
	{name: "language", base: "token", ws: Collapse, check: lexicalRule("language", languageRE.MatchString)},
	{name: "NMTOKEN", base: "token", ws: Collapse, check: lexicalRule("NMTOKEN", qname.IsNMToken)},
	{name: "Name", base: "token", ws: Collapse, check: lexicalRule("Name", qname.IsName)},
	{name: "NCName", base: "Name", ws: Collapse, check: lexicalRule("NCName", qname.IsNCName)},
	{name: "ID", base: "NCName", ws: Collapse},
	{name: "IDREF", base: "NCName", ws: Collapse},
	{name: "ENTITY", base: "NCName", ws: Collapse},
	{name: "NMTOKENS", listOf: "NMTOKEN", facets: func() []Facet { return []Facet{&LengthFacet{Kind: "minLength", Value: 1}} }},
	{name: "IDREFS", listOf: "IDREF", facets: func() []Facet { return []Facet{&LengthFacet{Kind: "minLength", Value: 1}} }},
	{name: "ENTITIES", listOf: "ENTITY", facets: func() []Facet { return []Facet{&LengthFacet{Kind: "minLength", Value: 1}} }},

	{name: "integer", base: "decimal", ws: Collapse, check: lexicalRule("integer", func(s string) bool { return !strings.Contains(s, ".") }),
		facets: func() []Facet { return []Facet{&DigitsFacet{Kind: "fractionDigits", Value: 0}} }},
	{name: "nonPositiveInteger", base: "integer", ws: Collapse, facets: integerRange("", "0")},
	{name: "negativeInteger", base: "nonPositiveInteger", ws: Collapse, facets: integerRange("", "-1")},
	{name: "long", base: "integer", ws: Collapse, facets: integerRange("-9223372036854775808", "9223372036854775807")},
	{name: "int", base: "long", ws: Collapse, facets: integerRange("-2147483648", "2147483647")},
	{name: "short", base: "int", ws: Collapse, facets: integerRange("-32768", "32767")},
	{name: "byte", base: "short", ws: Collapse, facets: integerRange("-128", "127")},
	{name: "nonNegativeInteger", base: "integer", ws: Collapse, facets: integerRange("0", "")},
	{name: "unsignedLong", base: "nonNegativeInteger", ws: Collapse, facets: integerRange("", "18446744073709551615")},
	{name: "unsignedInt", base: "unsignedLong", ws: Collapse, facets: integerRange("", "4294967295")},
	{name: "unsignedShort", base: "unsignedInt", ws: Collapse, facets: integerRange("", "65535")},
	{name: "unsignedByte", base: "unsignedShort", ws: Collapse, facets: integerRange("", "255")},
	{name: "positiveInteger", base: "nonNegativeInteger", ws: Collapse, facets: integerRange("1", "")},
}

var builtins = buildBuiltins()

func buildBuiltins() map[string]*SimpleType {
	out := map[string]*SimpleType{"anySimpleType": anySimpleType}
	for _, spec := range builtinSpecs {
		name := qname.XSD(spec.name)
		var t *SimpleType
		switch {
		case spec.listOf != "":
			t = NewList(name, out[spec.listOf])
		case spec.base == "":
			t = &SimpleType{Name: name, Base: anySimpleType, Primitive: spec.primitive, WhiteSpace: spec.ws}
		default:
			t = Restrict(name, out[spec.base])
			t.WhiteSpace = spec.ws
		}
		t.check = spec.check
		if spec.facets != nil {
			t.Facets = spec.facets()
		}
		out[spec.name] = t
	}
	return out
}

// Builtin returns the built-in simple type with the given local name in the
// XML Schema namespace.
func Builtin(local string) (*SimpleType, bool) {
	t, ok := builtins[local]
	return t, ok
}

// BuiltinType resolves a name in the XML Schema namespace to a built-in
// simple type or xs:anyType.
func BuiltinType(name qname.QName) (Type, bool) {
	if name.Namespace != qname.XSDNamespace {
		return nil, false
	}
	if name.Local == "anyType" {
		return anyType, true
	}
	t, ok := builtins[name.Local]
	if !ok {
		return nil, false
	}
	return t, true
}
