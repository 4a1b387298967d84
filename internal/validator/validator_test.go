package validator

import (
	"strings"
	"testing"

	"github.com/beevik/etree"

	xsderrors "github.com/ands/rifcs/errors"
	"github.com/ands/rifcs/internal/parser"
)

const testSchema = `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
    xmlns="http://ands.org.au/standards/rif-cs/registryObjects"
    targetNamespace="http://ands.org.au/standards/rif-cs/registryObjects"
    elementFormDefault="qualified">
  <xs:element name="registryObjects">
    <xs:complexType>
      <xs:sequence>
        <xs:element ref="registryObject" minOccurs="0" maxOccurs="unbounded"/>
      </xs:sequence>
    </xs:complexType>
  </xs:element>
  <xs:element name="registryObject">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="key" type="keyType"/>
        <xs:element name="originatingSource" type="xs:string"/>
        <xs:choice>
          <xs:element name="collection" type="collectionType"/>
          <xs:element name="party" type="partyType"/>
        </xs:choice>
      </xs:sequence>
      <xs:attribute name="group" type="xs:string" use="required"/>
    </xs:complexType>
  </xs:element>
  <xs:simpleType name="keyType">
    <xs:restriction base="xs:string">
      <xs:minLength value="1"/>
    </xs:restriction>
  </xs:simpleType>
  <xs:complexType name="collectionType">
    <xs:sequence>
      <xs:element name="name" type="nameType" maxOccurs="unbounded"/>
      <xs:element name="dates" minOccurs="0">
        <xs:complexType>
          <xs:sequence>
            <xs:element name="date" type="xs:date"/>
          </xs:sequence>
        </xs:complexType>
      </xs:element>
      <xs:any namespace="##other" processContents="lax" minOccurs="0" maxOccurs="unbounded"/>
    </xs:sequence>
    <xs:attribute name="type" use="required">
      <xs:simpleType>
        <xs:restriction base="xs:token">
          <xs:enumeration value="collection"/>
          <xs:enumeration value="dataset"/>
        </xs:restriction>
      </xs:simpleType>
    </xs:attribute>
    <xs:attribute name="dateModified" type="xs:dateTime"/>
    <xs:attribute ref="xml:lang"/>
  </xs:complexType>
  <xs:complexType name="partyType">
    <xs:sequence>
      <xs:element name="name" type="nameType"/>
    </xs:sequence>
    <xs:attribute name="type" type="xs:string" use="required"/>
  </xs:complexType>
  <xs:complexType name="nameType">
    <xs:sequence>
      <xs:element name="namePart" maxOccurs="unbounded">
        <xs:complexType>
          <xs:simpleContent>
            <xs:extension base="xs:string">
              <xs:attribute name="type" type="xs:string"/>
            </xs:extension>
          </xs:simpleContent>
        </xs:complexType>
      </xs:element>
    </xs:sequence>
    <xs:attribute name="type" type="xs:string" fixed="primary"/>
  </xs:complexType>
</xs:schema>`

func compile(t *testing.T) *Validator {
	t.Helper()
	schema, err := parser.ParseReader(strings.NewReader(testSchema), "registryObjects.xsd", parser.Options{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	v, err := Compile(schema, Options{})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return v
}

func validate(t *testing.T, v *Validator, doc string) xsderrors.ValidationList {
	t.Helper()
	d := etree.NewDocument()
	if err := d.ReadFromString(doc); err != nil {
		t.Fatalf("ReadFromString() error = %v", err)
	}
	err := v.Validate(d)
	if err == nil {
		return nil
	}
	list, ok := xsderrors.AsValidations(err)
	if !ok {
		t.Fatalf("Validate() error = %v, want ValidationList", err)
	}
	return list
}

func wrap(body string) string {
	return `<registryObjects xmlns="http://ands.org.au/standards/rif-cs/registryObjects"
    xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` + body + `</registryObjects>`
}

const validObject = `<registryObject group="ANDS">
  <key>collection-1</key>
  <originatingSource>http://example.org</originatingSource>
  <collection type="dataset" xml:lang="en">
    <name type="primary"><namePart>Ocean temperatures</namePart></name>
  </collection>
</registryObject>`

func TestValidateAcceptsConformingDocument(t *testing.T) {
	v := compile(t)
	if errs := validate(t, v, wrap(validObject)); errs != nil {
		t.Fatalf("Validate() = %v, want nil", errs)
	}
	if errs := validate(t, v, wrap("")); errs != nil {
		t.Fatalf("Validate(empty) = %v, want nil", errs)
	}
}

func TestValidateReportsViolations(t *testing.T) {
	tests := []struct {
		name string
		body string
		code xsderrors.ErrorCode
		path string
	}{
		{
			name: "missing key",
			body: `<registryObject group="g"><originatingSource>s</originatingSource><collection type="dataset"><name><namePart>n</namePart></name></collection></registryObject>`,
			code: xsderrors.ErrUnexpectedElement,
			path: "/registryObjects/registryObject/originatingSource",
		},
		{
			name: "missing class",
			body: `<registryObject group="g"><key>k</key><originatingSource>s</originatingSource></registryObject>`,
			code: xsderrors.ErrRequiredElementMissing,
			path: "/registryObjects/registryObject",
		},
		{
			name: "bad enumeration",
			body: `<registryObject group="g"><key>k</key><originatingSource>s</originatingSource><collection type="box"><name><namePart>n</namePart></name></collection></registryObject>`,
			code: xsderrors.ErrFacetViolation,
			path: "/registryObjects/registryObject/collection/@type",
		},
		{
			name: "missing required attribute",
			body: `<registryObject><key>k</key><originatingSource>s</originatingSource><collection type="dataset"><name><namePart>n</namePart></name></collection></registryObject>`,
			code: xsderrors.ErrRequiredAttributeMissing,
			path: "/registryObjects/registryObject",
		},
		{
			name: "undeclared attribute",
			body: `<registryObject group="g" colour="red"><key>k</key><originatingSource>s</originatingSource><collection type="dataset"><name><namePart>n</namePart></name></collection></registryObject>`,
			code: xsderrors.ErrAttributeNotDeclared,
			path: "/registryObjects/registryObject/@colour",
		},
		{
			name: "empty key",
			body: `<registryObject group="g"><key></key><originatingSource>s</originatingSource><collection type="dataset"><name><namePart>n</namePart></name></collection></registryObject>`,
			code: xsderrors.ErrFacetViolation,
			path: "/registryObjects/registryObject/key",
		},
		{
			name: "bad date",
			body: `<registryObject group="g"><key>k</key><originatingSource>s</originatingSource><collection type="dataset"><name><namePart>n</namePart></name><dates><date>2013-02-30</date></dates></collection></registryObject>`,
			code: xsderrors.ErrDatatypeInvalid,
			path: "/registryObjects/registryObject/collection/dates/date",
		},
		{
			name: "fixed attribute",
			body: `<registryObject group="g"><key>k</key><originatingSource>s</originatingSource><collection type="dataset"><name type="alternative"><namePart>n</namePart></name></collection></registryObject>`,
			code: xsderrors.ErrAttributeFixedValue,
			path: "/registryObjects/registryObject/collection/name/@type",
		},
		{
			name: "text in element-only content",
			body: `<registryObject group="g">oops<key>k</key><originatingSource>s</originatingSource><collection type="dataset"><name><namePart>n</namePart></name></collection></registryObject>`,
			code: xsderrors.ErrTextInElementOnly,
			path: "/registryObjects/registryObject",
		},
		{
			name: "child in simple content",
			body: `<registryObject group="g"><key>k</key><originatingSource>s</originatingSource><collection type="dataset"><name><namePart><b>n</b></namePart></name></collection></registryObject>`,
			code: xsderrors.ErrTextInSimpleContent,
			path: "/registryObjects/registryObject/collection/name/namePart",
		},
		{
			name: "not nillable",
			body: `<registryObject group="g"><key xsi:nil="true"/><originatingSource>s</originatingSource><collection type="dataset"><name><namePart>n</namePart></name></collection></registryObject>`,
			code: xsderrors.ErrElementNotNillable,
			path: "/registryObjects/registryObject/key",
		},
	}
	v := compile(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validate(t, v, wrap(tt.body))
			if len(errs) == 0 {
				t.Fatal("Validate() = nil, want violations")
			}
			for _, e := range errs {
				if e.Code == string(tt.code) && e.Path == tt.path {
					return
				}
			}
			t.Fatalf("Validate() = %v, want %s at %s", errs, tt.code, tt.path)
		})
	}
}

func TestValidatePathsIndexRepeatedSiblings(t *testing.T) {
	v := compile(t)
	bad := strings.Replace(validObject, "<key>collection-1</key>", "<key></key>", 1)
	errs := validate(t, v, wrap(validObject+bad))
	if len(errs) != 1 {
		t.Fatalf("Validate() = %v, want one violation", errs)
	}
	if errs[0].Path != "/registryObjects/registryObject[2]/key" {
		t.Fatalf("path = %q", errs[0].Path)
	}
}

func TestValidateLaxWildcard(t *testing.T) {
	v := compile(t)
	ext := strings.Replace(validObject, "</name>", `</name><ext:extra xmlns:ext="urn:ext"><ext:anything/></ext:extra>`, 1)
	if errs := validate(t, v, wrap(ext)); errs != nil {
		t.Fatalf("Validate() = %v, want lax wildcard to accept unknown element", errs)
	}
}

func TestValidateRootNotDeclared(t *testing.T) {
	v := compile(t)
	errs := validate(t, v, `<other/>`)
	if len(errs) != 1 || errs[0].Code != string(xsderrors.ErrRootNotDeclared) {
		t.Fatalf("Validate() = %v, want root not declared", errs)
	}
}

func TestValidateMaxErrors(t *testing.T) {
	schema, err := parser.ParseReader(strings.NewReader(testSchema), "registryObjects.xsd", parser.Options{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	v, err := Compile(schema, Options{MaxErrors: 1})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	body := `<registryObject a="1" b="2" c="3"><key>k</key><originatingSource>s</originatingSource><party type="person"><name><namePart>n</namePart></name></party></registryObject>`
	if errs := validate(t, v, wrap(body)); len(errs) != 1 {
		t.Fatalf("Validate() = %d violations, want 1", len(errs))
	}
}
