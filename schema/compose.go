package schema

import (
	"context"
	"fmt"
	"slices"

	"github.com/beevik/etree"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ands/rifcs/errors"
	"github.com/ands/rifcs/internal/qname"
)

// Composer assembles the RIF-CS schema modules into one schema document.
//
// Modules that share the core's target namespace are spliced into the core
// document. Modules in another namespace, such as the extension module, are
// referenced by an import and kept aside so a Validator can resolve them
// without fetching them again.
type Composer struct {
	fetcher Fetcher
	opts    options
}

// NewComposer returns a Composer reading modules through fetcher.
func NewComposer(fetcher Fetcher, opts ...Option) *Composer {
	return &Composer{fetcher: fetcher, opts: applyOptions(opts)}
}

// Locations returns the module locations the Composer reads.
func (c *Composer) Locations() Locations { return c.opts.locations }

// composition is a composed schema plus the foreign modules it imports.
type composition struct {
	doc       *etree.Document
	location  string
	namespace string
	// foreign holds the raw bytes of modules served through imports.
	foreign map[string][]byte
}

type importDirective struct {
	namespace string
	location  string
}

// Compose fetches every module and returns the composite schema document.
func (c *Composer) Compose(ctx context.Context) (*etree.Document, error) {
	comp, err := c.compose(ctx)
	if err != nil {
		return nil, err
	}
	return comp.doc, nil
}

func (c *Composer) compose(ctx context.Context) (*composition, error) {
	ctx, span := c.opts.tracer.Start(ctx, "schema.compose",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("schema.core", c.opts.locations.Core)),
	)
	defer span.End()

	comp, err := c.assemble(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("schema.foreign_modules", len(comp.foreign)))
	span.SetStatus(codes.Ok, "")
	return comp, nil
}

func (c *Composer) assemble(ctx context.Context) (*composition, error) {
	locs := c.opts.locations
	core, _, err := c.fetch(ctx, locs.Core)
	if err != nil {
		return nil, err
	}
	root := core.Root()
	comp := &composition{
		doc:       core,
		location:  locs.Core,
		namespace: plainAttrValue(root, "targetNamespace"),
		foreign:   map[string][]byte{},
	}

	imports := []importDirective{{namespace: qname.XMLNamespace, location: XMLSchemaLocation}}
	removeDirectives(root, "include", "import")

	var spliced []*etree.Element
	for _, m := range locs.modules() {
		doc, raw, err := c.fetch(ctx, m.location)
		if err != nil {
			return nil, err
		}
		mroot := doc.Root()
		ns := plainAttrValue(mroot, "targetNamespace")
		if ns != comp.namespace {
			c.opts.logger.Debug("importing foreign module", "module", m.name, "namespace", ns)
			imports = addImport(imports, importDirective{namespace: ns, location: m.location})
			comp.foreign[m.location] = raw
			continue
		}
		for _, d := range directives(mroot, "import") {
			ns := plainAttrValue(d, "namespace")
			loc := plainAttrValue(d, "schemaLocation")
			if ns == comp.namespace || loc == "" {
				continue
			}
			imports = addImport(imports, importDirective{namespace: ns, location: resolveLocation(m.location, loc)})
		}
		removeDirectives(mroot, "include", "import")
		c.opts.logger.Debug("splicing module", "module", m.name, "declarations", len(mroot.ChildElements()))
		spliced = append(spliced, mroot)
	}

	insertImports(root, imports)
	for _, mroot := range spliced {
		splice(root, mroot)
	}
	c.opts.logger.Info("composed schema",
		"core", locs.Core,
		"declarations", len(root.ChildElements()),
		"imports", len(imports),
	)
	return comp, nil
}

func (c *Composer) fetch(ctx context.Context, location string) (*etree.Document, []byte, error) {
	if c.fetcher == nil {
		return nil, nil, errors.SchemaFetch("fetch", location, fmt.Errorf("no fetcher configured"))
	}
	c.opts.logger.Debug("fetching schema module", "location", location)
	raw, err := c.fetcher.Fetch(ctx, location)
	if err != nil {
		if errors.KindOf(err) == errors.KindSchemaFetch {
			return nil, nil, err
		}
		return nil, nil, errors.SchemaFetch("fetch", location, err)
	}
	doc, err := parseSchema(location, raw)
	if err != nil {
		return nil, nil, err
	}
	return doc, raw, nil
}

func parseSchema(location string, raw []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, errors.SchemaFetch("parse", location, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.SchemaFetch("parse", location, fmt.Errorf("empty document"))
	}
	if qname.OfElement(root) != qname.XSD("schema") {
		return nil, errors.SchemaFetch("parse", location, fmt.Errorf("root element %s is not xs:schema", root.FullTag()))
	}
	return doc, nil
}

func plainAttrValue(el *etree.Element, key string) string {
	for _, a := range el.Attr {
		if a.Space == "" && a.Key == key {
			return a.Value
		}
	}
	return ""
}

func isDirective(el *etree.Element, locals []string) bool {
	name := qname.OfElement(el)
	return name.Namespace == qname.XSDNamespace && slices.Contains(locals, name.Local)
}

func directives(root *etree.Element, locals ...string) []*etree.Element {
	var out []*etree.Element
	for _, el := range root.ChildElements() {
		if isDirective(el, locals) {
			out = append(out, el)
		}
	}
	return out
}

func removeDirectives(root *etree.Element, locals ...string) {
	for _, el := range directives(root, locals...) {
		root.RemoveChild(el)
	}
}

// addImport appends d unless its namespace is already imported.
func addImport(imports []importDirective, d importDirective) []importDirective {
	if slices.ContainsFunc(imports, func(i importDirective) bool { return i.namespace == d.namespace }) {
		return imports
	}
	return append(imports, d)
}

// insertImports places the imports in order before the first declaration.
func insertImports(root *etree.Element, imports []importDirective) {
	pos := len(root.Child)
	for _, el := range root.ChildElements() {
		if qname.OfElement(el) != qname.XSD("annotation") {
			pos = el.Index()
			break
		}
	}
	for i, d := range imports {
		el := etree.NewElement("import")
		el.Space = root.Space
		el.CreateAttr("namespace", d.namespace)
		el.CreateAttr("schemaLocation", d.location)
		root.InsertChildAt(pos+i, el)
	}
}

// splice moves the declarations of src under dst. Namespace bindings of src
// that differ from those in scope at dst are redeclared on every moved
// element so prefixed names inside it keep their meaning.
func splice(dst, src *etree.Element) {
	scope := qname.Context(dst)
	var decls []etree.Attr
	for i := range src.Attr {
		a := &src.Attr[i]
		if !qname.IsNamespaceDecl(a) {
			continue
		}
		prefix := a.Key
		if a.Space == "" {
			prefix = ""
		}
		if bound, ok := scope[prefix]; !ok || bound != a.Value {
			decls = append(decls, *a)
		}
	}
	for _, el := range src.ChildElements() {
		for _, d := range decls {
			if !declares(el, d) {
				el.CreateAttr(d.FullKey(), d.Value)
			}
		}
		dst.AddChild(el)
	}
}

func declares(el *etree.Element, d etree.Attr) bool {
	for _, a := range el.Attr {
		if a.Space == d.Space && a.Key == d.Key {
			return true
		}
	}
	return false
}
