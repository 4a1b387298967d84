package xsd

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/ands/rifcs/errors"
)

const coreSchema = `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
    xmlns="urn:test"
    targetNamespace="urn:test"
    elementFormDefault="qualified">
  <xs:include schemaLocation="types.xsd"/>
  <xs:element name="registryObjects">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="registryObject" type="objectType" maxOccurs="unbounded"/>
      </xs:sequence>
    </xs:complexType>
  </xs:element>
</xs:schema>`

const typesSchema = `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
    xmlns="urn:test"
    targetNamespace="urn:test"
    elementFormDefault="qualified">
  <xs:complexType name="objectType">
    <xs:sequence>
      <xs:element name="key" type="xs:string"/>
    </xs:sequence>
    <xs:attribute name="group" type="xs:string" use="required"/>
  </xs:complexType>
</xs:schema>`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"schemas/registryObjects.xsd": &fstest.MapFile{Data: []byte(coreSchema)},
		"schemas/types.xsd":           &fstest.MapFile{Data: []byte(typesSchema)},
	}
}

const validDoc = `<registryObjects xmlns="urn:test"><registryObject group="g"><key>k</key></registryObject></registryObjects>`

func TestLoadResolvesIncludes(t *testing.T) {
	schema, err := Load(testFS(), "schemas/registryObjects.xsd")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := schema.GlobalElements(); got != 1 {
		t.Fatalf("GlobalElements() = %d, want 1", got)
	}
	if err := schema.Validate(strings.NewReader(validDoc)); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateReportsCodes(t *testing.T) {
	schema, err := Load(testFS(), "schemas/registryObjects.xsd")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	err = schema.Validate(strings.NewReader(`<registryObjects xmlns="urn:test"><registryObject><key>k</key></registryObject></registryObjects>`))
	list, ok := errors.AsValidations(err)
	if !ok {
		t.Fatalf("Validate() error = %v, want validations", err)
	}
	if len(list) != 1 || list[0].Code != string(errors.ErrRequiredAttributeMissing) {
		t.Fatalf("Validate() = %v", list)
	}
}

func TestValidateMalformedInput(t *testing.T) {
	schema, err := Load(testFS(), "schemas/registryObjects.xsd")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	err = schema.Validate(strings.NewReader("<registryObjects"))
	list, ok := errors.AsValidations(err)
	if !ok || list[0].Code != string(errors.ErrXMLParse) {
		t.Fatalf("Validate() error = %v, want %s", err, errors.ErrXMLParse)
	}
}

func TestNilSchema(t *testing.T) {
	var schema *Schema
	err := schema.Validate(strings.NewReader(validDoc))
	list, ok := errors.AsValidations(err)
	if !ok || list[0].Code != string(errors.ErrSchemaNotLoaded) {
		t.Fatalf("Validate() error = %v, want %s", err, errors.ErrSchemaNotLoaded)
	}
}

func TestCompileSchemaWithResolver(t *testing.T) {
	var requested []string
	resolver := ResolverFunc(func(req ResolveRequest) (io.ReadCloser, string, error) {
		requested = append(requested, req.SchemaLocation)
		if req.Kind != ResolveInclude {
			t.Fatalf("Kind = %v, want include", req.Kind)
		}
		return io.NopCloser(strings.NewReader(typesSchema)), "mem:types.xsd", nil
	})
	schema, err := CompileSchema(strings.NewReader(coreSchema),
		WithResolver(resolver),
		WithBaseSystemID("mem:registryObjects.xsd"),
	)
	if err != nil {
		t.Fatalf("CompileSchema() error = %v", err)
	}
	if len(requested) != 1 || requested[0] != "types.xsd" {
		t.Fatalf("requested = %v", requested)
	}
	if err := schema.Validate(strings.NewReader(validDoc)); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestCompileSchemaWithoutResolver(t *testing.T) {
	if _, err := CompileSchema(strings.NewReader(coreSchema)); err == nil {
		t.Fatal("CompileSchema() error = nil, want include failure")
	}
}

func TestCompileFSMissingRoot(t *testing.T) {
	if _, err := CompileFS(testFS(), "schemas/missing.xsd"); err == nil {
		t.Fatal("CompileFS() error = nil, want error")
	}
}

func TestWithCompileLimitsMaxErrors(t *testing.T) {
	schema, err := CompileFS(testFS(), "schemas/registryObjects.xsd", WithCompileLimits(CompileLimits{MaxErrors: 1}))
	if err != nil {
		t.Fatalf("CompileFS() error = %v", err)
	}
	doc := `<registryObjects xmlns="urn:test"><registryObject><key>k</key></registryObject><registryObject><key>k</key></registryObject></registryObjects>`
	list, ok := errors.AsValidations(schema.Validate(strings.NewReader(doc)))
	if !ok || len(list) != 1 {
		t.Fatalf("Validate() = %v, want exactly one violation", list)
	}
}

func TestLoadFileAndValidateFile(t *testing.T) {
	dir := t.TempDir()
	for name, data := range map[string]string{
		"registryObjects.xsd": coreSchema,
		"types.xsd":           typesSchema,
		"doc.xml":             validDoc,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0o600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}
	schema, err := LoadFile(filepath.Join(dir, "registryObjects.xsd"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if err := schema.ValidateFile(filepath.Join(dir, "doc.xml")); err != nil {
		t.Fatalf("ValidateFile() error = %v", err)
	}
	if err := schema.ValidateFile(filepath.Join(dir, "missing.xml")); err == nil {
		t.Fatal("ValidateFile() error = nil, want open failure")
	}
}

const patternSchema = `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="d">
    <xs:simpleType>
      <xs:restriction base="xs:string">
        <xs:pattern value="\d{4}-\d{2}"/>
      </xs:restriction>
    </xs:simpleType>
  </xs:element>
</xs:schema>`

func TestPatternFacetWithEscapes(t *testing.T) {
	schema, err := CompileSchema(strings.NewReader(patternSchema))
	if err != nil {
		t.Fatalf("CompileSchema() error = %v", err)
	}
	for _, value := range []string{"2013-07", "1999-12"} {
		if err := schema.Validate(strings.NewReader("<d>" + value + "</d>")); err != nil {
			t.Fatalf("Validate(%q) error = %v", value, err)
		}
	}
	for _, value := range []string{"13-07", "2013-7", "2013-07x", "2013407"} {
		list, ok := errors.AsValidations(schema.Validate(strings.NewReader("<d>" + value + "</d>")))
		if !ok || len(list) != 1 {
			t.Fatalf("Validate(%q) violations = %v, want one", value, list)
		}
		if list[0].Code != string(errors.ErrFacetViolation) {
			t.Fatalf("Validate(%q) code = %s, want %s", value, list[0].Code, errors.ErrFacetViolation)
		}
	}
}
