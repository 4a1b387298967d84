package model

import (
	"errors"
	"regexp"
	"testing"

	"github.com/ands/rifcs/internal/qname"
)

func mustBuiltin(t *testing.T, name string) *SimpleType {
	t.Helper()
	st, ok := Builtin(name)
	if !ok {
		t.Fatalf("Builtin(%q) not found", name)
	}
	return st
}

func TestBuiltinLexicalSpaces(t *testing.T) {
	tests := []struct {
		typ   string
		value string
		ok    bool
	}{
		{"string", "  any text ", true},
		{"boolean", "1", true},
		{"boolean", "yes", false},
		{"decimal", "-12.50", true},
		{"decimal", "1e3", false},
		{"integer", "42", true},
		{"integer", "4.2", false},
		{"byte", "128", false},
		{"unsignedByte", "255", true},
		{"positiveInteger", "0", false},
		{"double", "-INF", true},
		{"float", "1.5E-3", true},
		{"dateTime", "2013-07-09T12:34:56Z", true},
		{"dateTime", "2013-02-30T00:00:00Z", false},
		{"dateTime", "2013-07-09T24:00:00", true},
		{"date", "2012-02-29", true},
		{"date", "2013-02-29", false},
		{"gYear", "2009", true},
		{"gYearMonth", "2009-13", false},
		{"gMonthDay", "--02-29", true},
		{"time", "10:15:00+10:00", true},
		{"duration", "P1Y2M3DT4H", true},
		{"duration", "PT", false},
		{"hexBinary", "0fA1", true},
		{"hexBinary", "0fA", false},
		{"base64Binary", "aGVs bG8=", true},
		{"language", "en-AU", true},
		{"language", "toolonglanguage", false},
		{"NCName", "registryObject", true},
		{"NCName", "rif:key", false},
		{"NMTOKENS", "a b c", true},
		{"NMTOKENS", "   ", false},
		{"QName", "rif:key", true},
		{"anyURI", "http://example.org/a b", true},
	}
	for _, tt := range tests {
		st := mustBuiltin(t, tt.typ)
		_, err := st.Validate(tt.value, nil)
		if (err == nil) != tt.ok {
			t.Fatalf("%s.Validate(%q) error = %v, want ok=%v", tt.typ, tt.value, err, tt.ok)
		}
	}
}

func TestWhitespaceNormalization(t *testing.T) {
	token := mustBuiltin(t, "token")
	got, err := token.Validate("  a \t b\n ", nil)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got != "a b" {
		t.Fatalf("Validate() = %q, want %q", got, "a b")
	}
	if got := Normalize("a\tb", Replace); got != "a b" {
		t.Fatalf("Normalize(replace) = %q", got)
	}
}

func TestRestrictionFacets(t *testing.T) {
	base := mustBuiltin(t, "string")
	st := Restrict(qname.New("urn:t", "collectionType"), base)
	st.WhiteSpace = Collapse
	st.Facets = []Facet{&EnumerationFacet{Values: []string{"collection", "dataset", "repository"}}}

	if _, err := st.Validate(" dataset ", nil); err != nil {
		t.Fatalf("Validate(dataset) error = %v", err)
	}
	_, err := st.Validate("box", nil)
	var verr *ValueError
	if !errors.As(err, &verr) || verr.Facet != "enumeration" {
		t.Fatalf("Validate(box) error = %v, want enumeration violation", err)
	}

	length, err := NewLengthFacet("maxLength", "3")
	if err != nil {
		t.Fatalf("NewLengthFacet() error = %v", err)
	}
	short := Restrict(qname.QName{}, base)
	short.Facets = []Facet{length}
	if _, err := short.Validate("abcd", nil); err == nil {
		t.Fatal("Validate(abcd) error = nil, want maxLength violation")
	}

	num := Restrict(qname.QName{}, mustBuiltin(t, "decimal"))
	digits, _ := NewDigitsFacet("totalDigits", "4")
	num.Facets = []Facet{digits, &RangeFacet{Kind: "minExclusive", Value: "0"}}
	if _, err := num.Validate("12.34", nil); err != nil {
		t.Fatalf("Validate(12.34) error = %v", err)
	}
	if _, err := num.Validate("123.45", nil); err == nil {
		t.Fatal("Validate(123.45) error = nil, want totalDigits violation")
	}
	if _, err := num.Validate("0", nil); err == nil {
		t.Fatal("Validate(0) error = nil, want minExclusive violation")
	}
}

func TestPatternFacetStepsAreANDed(t *testing.T) {
	first := Restrict(qname.QName{}, mustBuiltin(t, "string"))
	p1 := &PatternFacet{}
	if err := p1.AddPattern(`[a-z]+`); err != nil {
		t.Fatalf("AddPattern() error = %v", err)
	}
	if err := p1.AddPattern(`[0-9]+`); err != nil {
		t.Fatalf("AddPattern() error = %v", err)
	}
	first.Facets = []Facet{p1}
	second := Restrict(qname.QName{}, first)
	p2 := &PatternFacet{}
	if err := p2.AddPattern(`.{1,3}`); err != nil {
		t.Fatalf("AddPattern() error = %v", err)
	}
	second.Facets = []Facet{p2}

	for value, ok := range map[string]bool{"abc": true, "123": true, "abcd": false, "a1": false} {
		if _, err := second.Validate(value, nil); (err == nil) != ok {
			t.Fatalf("Validate(%q) error = %v, want ok=%v", value, err, ok)
		}
	}
}

func TestTranslatePattern(t *testing.T) {
	tests := []struct {
		pattern string
		match   []string
		reject  []string
	}{
		{`\d{4}-\d{2}`, []string{"2013-07"}, []string{"13-07", "2013-07x"}},
		{`\i\c*`, []string{"key", "_a.b"}, []string{"1a", ""}},
		{`[^\s]+`, []string{"abc"}, []string{"a b"}},
		{`a.c`, []string{"abc"}, []string{"a\nc"}},
		{`\^\$?`, []string{"^", "^$"}, []string{""}},
		{`[\p{Lu}]x`, []string{"Ax"}, []string{"ax"}},
	}
	for _, tt := range tests {
		translated, err := TranslatePattern(tt.pattern)
		if err != nil {
			t.Fatalf("TranslatePattern(%q) error = %v", tt.pattern, err)
		}
		re := regexp.MustCompile(translated)
		for _, s := range tt.match {
			if !re.MatchString(s) {
				t.Fatalf("%q (%s) should match %q", tt.pattern, translated, s)
			}
		}
		for _, s := range tt.reject {
			if re.MatchString(s) {
				t.Fatalf("%q (%s) should not match %q", tt.pattern, translated, s)
			}
		}
	}
}

func TestTranslatePatternFailsClosed(t *testing.T) {
	for _, pattern := range []string{`[a-z-[aeiou]]`, `\p{IsBasicLatin}`, `(a`, `a*?`, `[\w]`, `\q`} {
		if _, err := TranslatePattern(pattern); err == nil {
			t.Fatalf("TranslatePattern(%q) error = nil, want error", pattern)
		}
	}
}

func TestListAndUnion(t *testing.T) {
	ints := NewList(qname.QName{}, mustBuiltin(t, "integer"))
	if _, err := ints.Validate("1 2  3", nil); err != nil {
		t.Fatalf("list Validate() error = %v", err)
	}
	if _, err := ints.Validate("1 x", nil); err == nil {
		t.Fatal("list Validate(1 x) error = nil")
	}
	empty := Restrict(qname.QName{}, mustBuiltin(t, "string"))
	empty.Facets = []Facet{&EnumerationFacet{Values: []string{""}}}
	lang := NewUnion(qname.New(qname.XMLNamespace, "langType"), []*SimpleType{mustBuiltin(t, "language"), empty})
	for _, v := range []string{"en", ""} {
		if _, err := lang.Validate(v, nil); err != nil {
			t.Fatalf("union Validate(%q) error = %v", v, err)
		}
	}
	if _, err := lang.Validate("not a language", nil); err == nil {
		t.Fatal("union Validate() error = nil")
	}
}

func TestWildcardAllows(t *testing.T) {
	other := &Wildcard{Other: true, TargetNS: "urn:a"}
	if other.Allows("urn:a") || other.Allows("") || !other.Allows("urn:b") {
		t.Fatal("##other mismatch")
	}
	local := &Wildcard{Namespaces: []string{""}}
	if !local.Allows("") || local.Allows("urn:a") {
		t.Fatal("##local mismatch")
	}
}

func TestDerivedFrom(t *testing.T) {
	token := mustBuiltin(t, "token")
	str := mustBuiltin(t, "string")
	if !DerivedFrom(token, str) {
		t.Fatal("token should derive from string")
	}
	if DerivedFrom(str, token) {
		t.Fatal("string should not derive from token")
	}
	if !DerivedFrom(str, AnyType()) {
		t.Fatal("everything derives from anyType")
	}
}
