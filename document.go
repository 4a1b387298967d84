package rifcs

import (
	"bytes"
	"io"
	"os"

	"github.com/beevik/etree"

	"github.com/ands/rifcs/errors"
)

// Document is a RIF-CS document and the index of its registry objects.
// It is not safe for concurrent mutation.
type Document struct {
	tree     *etree.Document
	registry *Registry
}

// New returns an empty document whose root declares the RIF-CS namespace
// and schema location.
func New() (*Document, error) {
	tree := etree.NewDocument()
	tree.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := tree.CreateElement(elemRegistryObjects)
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("xmlns:xsi", XSINamespace)
	root.CreateAttr("xsi:schemaLocation", Namespace+" "+SchemaBase+"registryObjects.xsd")
	return FromTree(tree)
}

// FromTree wraps an existing tree and indexes its registry objects.
func FromTree(tree *etree.Document) (*Document, error) {
	registry, err := LoadRegistry(tree)
	if err != nil {
		return nil, err
	}
	return &Document{tree: tree, registry: registry}, nil
}

// Parse reads a document from r.
func Parse(r io.Reader) (*Document, error) {
	tree := etree.NewDocument()
	if _, err := tree.ReadFrom(r); err != nil {
		return nil, errors.New(errors.KindStructure, "parse", "document", err)
	}
	return FromTree(tree)
}

// ParseBytes reads a document from b.
func ParseBytes(b []byte) (*Document, error) {
	return Parse(bytes.NewReader(b))
}

// ParseFile reads a document from the file at path.
func ParseFile(path string) (_ *Document, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(errors.KindStructure, "open", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = errors.New(errors.KindStructure, "close", path, closeErr)
		}
	}()
	return Parse(f)
}

// Tree returns the underlying tree. Mutations made through it bypass the
// registry index.
func (d *Document) Tree() *etree.Document { return d.tree }

// Registry returns the registry index.
func (d *Document) Registry() *Registry { return d.registry }

// Root returns the registryObjects node.
func (d *Document) Root() Node { return d.registry.root }

// WriteTo writes the document indented by two spaces. The live tree keeps
// its own whitespace.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	out := d.tree.Copy()
	out.Indent(2)
	return out.WriteTo(w)
}

// Bytes returns the indented document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// String returns the indented document, or "" when it cannot be serialized.
func (d *Document) String() string {
	b, err := d.Bytes()
	if err != nil {
		return ""
	}
	return string(b)
}
