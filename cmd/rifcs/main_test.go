package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testBase = "http://schemas.example.org/rifcs/"

func schemaFlags() []string {
	return []string{"--schema-dir", "../../schema/testdata/rifcs", "--schema-base", testBase}
}

type result struct {
	code           int
	stdout, stderr string
}

func invoke(t *testing.T, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := runWithArgs(args, &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("RIFCS_CATALOG_PATH", filepath.Join(home, "catalog.db"))
	return home
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newDocument(t *testing.T, args ...string) string {
	t.Helper()
	res := invoke(t, append([]string{"new"}, args...)...)
	require.Equal(t, 0, res.code, res.stderr)
	return res.stdout
}

func TestNewThenValidate(t *testing.T) {
	dir := isolate(t)
	doc := newDocument(t, "--class", "collection", "--key", "example.edu/c/1",
		"--group", "Example University", "--source", "http://example.edu", "--name", "Ocean temperatures")
	assert.Contains(t, doc, "<key>example.edu/c/1</key>")
	assert.Contains(t, doc, `<collection type="dataset">`)
	assert.Contains(t, doc, `<name type="primary">`)

	path := writeFile(t, dir, "new.xml", doc)
	res := invoke(t, append(append([]string{"validate"}, schemaFlags()...), path)...)
	assert.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, path+" validates")
}

func TestNewGeneratesKey(t *testing.T) {
	isolate(t)
	doc := newDocument(t, "--class", "party", "--group", "G", "--source", "http://example.edu", "--name", "Jane")
	assert.Contains(t, doc, "<key>urn:uuid:")
	assert.Contains(t, doc, `<party type="person">`)
}

func TestNewUsageErrors(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "bad class", args: []string{"--class", "widget", "--group", "G", "--source", "s", "--name", "n"}, want: `unknown class "widget"`},
		{name: "missing group", args: []string{"--source", "s", "--name", "n"}, want: "--group is required"},
		{name: "positional", args: []string{"extra"}, want: "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := invoke(t, append([]string{"new"}, tt.args...)...)
			assert.Equal(t, 2, res.code)
			assert.Contains(t, res.stderr, tt.want)
			assert.Contains(t, res.stderr, "--help' for usage.")
		})
	}
}

func TestValidateReportsViolations(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "keyless.xml", `<registryObjects xmlns="http://ands.org.au/standards/rif-cs/registryObjects">
  <registryObject group="G">
    <originatingSource>http://example.edu</originatingSource>
    <collection type="dataset"/>
  </registryObject>
</registryObjects>`)
	res := invoke(t, append(append([]string{"validate"}, schemaFlags()...), path)...)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "has no key")
	assert.Contains(t, res.stderr, path+" fails to validate")
	assert.Empty(t, res.stdout)
}

func TestValidateReportsSchemaViolations(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "untyped.xml", `<registryObjects xmlns="http://ands.org.au/standards/rif-cs/registryObjects">
  <registryObject group="G">
    <key>example.edu/c/1</key>
    <originatingSource>http://example.edu</originatingSource>
    <collection><name><namePart>n</namePart></name></collection>
  </registryObject>
</registryObjects>`)
	res := invoke(t, append(append([]string{"validate"}, schemaFlags()...), path)...)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, path+": [cvc-complex-type.4]")
	assert.Contains(t, res.stderr, path+" fails to validate")
	assert.Empty(t, res.stdout)
}

func TestValidateRejectsForeignRoot(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "other.xml", `<catalogue xmlns="urn:other"/>`)
	res := invoke(t, append(append([]string{"validate"}, schemaFlags()...), path)...)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "registryObjects")
	assert.Contains(t, res.stderr, path+" fails to validate")
}

func TestValidateMalformedFile(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "broken.xml", "<registryObjects")
	res := invoke(t, append(append([]string{"validate"}, schemaFlags()...), path)...)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, path)
}

func TestValidateRequiresFile(t *testing.T) {
	isolate(t)
	res := invoke(t, "validate")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "requires at least 1 arg")
}

func TestUnknownFlag(t *testing.T) {
	isolate(t)
	res := invoke(t, "validate", "--bogus", "x.xml")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "unknown flag: --bogus")
}

func TestInspect(t *testing.T) {
	isolate(t)
	res := invoke(t, "inspect", "../../testdata/collection.xml")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "../../testdata/collection.xml: 2 registry objects")
	assert.Contains(t, res.stdout, "example.edu/party/jane")
	assert.Contains(t, res.stdout, "example.edu/collection/ocean-temps")
	assert.Contains(t, res.stdout, "Ocean temperatures 1990-2010")
	assert.True(t, strings.Contains(res.stdout, "collection   1") || strings.Contains(res.stdout, "collection 1"), res.stdout)
}

func TestInspectYAML(t *testing.T) {
	isolate(t)
	res := invoke(t, "inspect", "--format", "yaml", "../../testdata/collection.xml")
	require.Equal(t, 0, res.code, res.stderr)

	var report inspectReport
	require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &report))
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Classes["collection"])
	assert.Equal(t, 1, report.Classes["party"])
	assert.Equal(t, 0, report.Classes["service"])
	require.Len(t, report.Objects, 2)
	assert.Equal(t, "example.edu/collection/ocean-temps", report.Objects[0].Key)
	assert.Equal(t, "University of Examples", report.Objects[0].Group)
	assert.Equal(t, "Jane Doe", report.Objects[1].Title)
}

func TestInspectErrors(t *testing.T) {
	dir := isolate(t)
	res := invoke(t, "inspect", filepath.Join(dir, "missing.xml"))
	assert.Equal(t, 1, res.code)

	res = invoke(t, "inspect", "--format", "json", "../../testdata/collection.xml")
	assert.Equal(t, 2, res.code)
}

func TestCompose(t *testing.T) {
	dir := isolate(t)
	out := filepath.Join(dir, "composed.xsd")
	res := invoke(t, append(append([]string{"compose"}, schemaFlags()...), "-o", out)...)
	require.Equal(t, 0, res.code, res.stderr)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	composed := string(data)
	assert.Contains(t, composed, `name="collection"`)
	assert.Contains(t, composed, `name="party"`)
	assert.Contains(t, composed, testBase+"extRif.xsd")
	assert.NotContains(t, composed, "<xsd:include")
}

func TestComposeStdout(t *testing.T) {
	isolate(t)
	res := invoke(t, append([]string{"compose"}, schemaFlags()...)...)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "<xsd:schema")
}

func TestCatalog(t *testing.T) {
	dir := isolate(t)
	party := writeFile(t, dir, "party.xml", newDocument(t, "--class", "party", "--key", "example.edu/p/1",
		"--group", "G", "--source", "http://example.edu", "--name", "Jane Citizen"))

	res := invoke(t, "catalog", "add", "../../testdata/collection.xml", party)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "../../testdata/collection.xml: 2 objects")
	assert.Contains(t, res.stdout, party+": 1 objects")

	res = invoke(t, "catalog", "list")
	require.Equal(t, 0, res.code, res.stderr)
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "example.edu/collection/ocean-temps"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "example.edu/p/1"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "example.edu/party/jane"), lines[2])

	res = invoke(t, "catalog", "list", "--class", "party", "--format", "yaml")
	require.Equal(t, 0, res.code, res.stderr)
	var entries []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "example.edu/p/1", entries[0]["key"])
	assert.Equal(t, "Jane Citizen", entries[0]["title"])
	assert.Equal(t, "example.edu/party/jane", entries[1]["key"])

	res = invoke(t, "catalog", "list", "--class", "widget")
	assert.Equal(t, 2, res.code)
}

func TestCatalogConfigFile(t *testing.T) {
	dir := isolate(t)
	t.Setenv("RIFCS_CATALOG_PATH", "")
	db := filepath.Join(dir, "from-config.db")
	cfg := writeFile(t, dir, "rifcs.yaml", "catalog:\n  path: "+db+"\n")

	res := invoke(t, "--config", cfg, "catalog", "add", "../../testdata/collection.xml")
	require.Equal(t, 0, res.code, res.stderr)
	_, err := os.Stat(db)
	assert.NoError(t, err)
}

func TestMissingConfigFile(t *testing.T) {
	dir := isolate(t)
	res := invoke(t, "--config", filepath.Join(dir, "nope.yaml"), "inspect", "../../testdata/collection.xml")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "error:")
}

func TestConfigInitAndShow(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "conf", "rifcs.yaml")

	res := invoke(t, "config", "init", path)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "wrote "+path)

	res = invoke(t, "config", "init", path)
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "already exists")

	res = invoke(t, "--config", path, "--schema-base", testBase, "config", "show")
	require.Equal(t, 0, res.code, res.stderr)
	var shown map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &shown))
	schemaSection, ok := shown["schema"].(map[string]any)
	require.True(t, ok, res.stdout)
	assert.Equal(t, testBase, schemaSection["base"])
	assert.Equal(t, "30s", schemaSection["timeout"])
}
