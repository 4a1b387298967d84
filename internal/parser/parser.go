// Package parser reads XML Schema documents into a model.Schema.
//
// Global components are indexed across every loaded document first and
// resolved on demand, so forward references and recursive content models
// need no particular declaration order.
package parser

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/beevik/etree"

	"github.com/ands/rifcs/internal/model"
	"github.com/ands/rifcs/internal/qname"
)

// Options configures a parse.
type Options struct {
	// Resolver fetches included and imported documents. Without one, every
	// directive carrying a schemaLocation fails.
	Resolver Resolver
	// AllowMissingImportLocations skips imports whose document cannot be
	// resolved instead of failing.
	AllowMissingImportLocations bool
}

type componentKind uint8

const (
	kindElement componentKind = iota
	kindAttribute
	kindType
	kindGroup
	kindAttributeGroup
)

func (k componentKind) String() string {
	switch k {
	case kindElement:
		return "element"
	case kindAttribute:
		return "attribute"
	case kindType:
		return "type"
	case kindGroup:
		return "group"
	default:
		return "attributeGroup"
	}
}

// document is one loaded schema document with its effective target namespace.
type document struct {
	systemID string
	root     *etree.Element
	targetNS string
	// chameleon is set for a no-namespace document included into a namespace.
	chameleon          bool
	elementQualified   bool
	attributeQualified bool
}

type component struct {
	el  *etree.Element
	doc *document
}

type docKey struct {
	systemID string
	targetNS string
}

const (
	statePending = iota
	stateBusy
	stateDone
)

type complexState struct {
	ct    *model.ComplexType
	el    *etree.Element
	doc   *document
	state int
}

type parser struct {
	opts    Options
	schema  *model.Schema
	docs    []*document
	loaded  map[docKey]bool
	globals map[componentKind]map[qname.QName]component

	elements  map[*etree.Element]*model.ElementDecl
	attrs     map[*etree.Element]*model.AttributeDecl
	simple    map[*etree.Element]*model.SimpleType
	complex   map[*etree.Element]*complexState
	states    map[*model.ComplexType]*complexState
	pending   []*complexState
	busy      map[*etree.Element]bool
	heads     map[*model.ElementDecl]qname.QName
	headOrder []*model.ElementDecl
	untyped   map[*model.ElementDecl]bool
}

// Parse reads the schema rooted at doc, following its includes and imports
// through opts.Resolver, and returns the resolved components.
func Parse(doc *etree.Document, systemID string, opts Options) (*model.Schema, error) {
	p := &parser{
		opts:     opts,
		schema:   model.NewSchema(),
		loaded:   map[docKey]bool{},
		globals:  map[componentKind]map[qname.QName]component{},
		elements: map[*etree.Element]*model.ElementDecl{},
		attrs:    map[*etree.Element]*model.AttributeDecl{},
		simple:   map[*etree.Element]*model.SimpleType{},
		complex:  map[*etree.Element]*complexState{},
		states:   map[*model.ComplexType]*complexState{},
		busy:     map[*etree.Element]bool{},
		heads:    map[*model.ElementDecl]qname.QName{},
		untyped:  map[*model.ElementDecl]bool{},
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("parse %s: empty document", systemID)
	}
	if err := p.load(root, systemID, "", false); err != nil {
		return nil, err
	}
	if err := p.resolveAll(); err != nil {
		return nil, err
	}
	return p.schema, nil
}

// ParseReader reads one schema document from r and parses it.
func ParseReader(r io.Reader, systemID string, opts Options) (*model.Schema, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("parse %s: %w", systemID, err)
	}
	return Parse(doc, systemID, opts)
}

// load registers root and, recursively, the documents it includes and
// imports. includerNS is the namespace of the including document, used when
// root has no targetNamespace of its own.
func (p *parser) load(root *etree.Element, systemID, includerNS string, included bool) error {
	if !isXSD(root, "schema") {
		return fmt.Errorf("parse %s: root element %s is not xs:schema", systemID, root.Tag)
	}
	targetNS := root.SelectAttrValue("targetNamespace", "")
	doc := &document{
		systemID:           systemID,
		root:               root,
		targetNS:           targetNS,
		elementQualified:   root.SelectAttrValue("elementFormDefault", "") == "qualified",
		attributeQualified: root.SelectAttrValue("attributeFormDefault", "") == "qualified",
	}
	if included {
		switch {
		case targetNS == "" && includerNS != "":
			doc.targetNS = includerNS
			doc.chameleon = true
		case targetNS != includerNS:
			return fmt.Errorf("parse %s: included document has targetNamespace %q, want %q", systemID, targetNS, includerNS)
		}
	}
	key := docKey{systemID: systemID, targetNS: doc.targetNS}
	if p.loaded[key] {
		return nil
	}
	p.loaded[key] = true
	p.docs = append(p.docs, doc)

	for _, child := range root.ChildElements() {
		if qname.OfElement(child).Namespace != qname.XSDNamespace {
			return p.errorf(doc, child, "unexpected top-level element %s", child.Tag)
		}
		var err error
		switch child.Tag {
		case "include":
			err = p.loadDirective(doc, child, ResolveInclude)
		case "import":
			err = p.loadDirective(doc, child, ResolveImport)
		case "redefine", "override":
			err = p.errorf(doc, child, "xs:%s is not supported", child.Tag)
		case "element":
			err = p.declare(doc, child, kindElement)
		case "attribute":
			err = p.declare(doc, child, kindAttribute)
		case "simpleType", "complexType":
			err = p.declare(doc, child, kindType)
		case "group":
			err = p.declare(doc, child, kindGroup)
		case "attributeGroup":
			err = p.declare(doc, child, kindAttributeGroup)
		case "annotation", "notation":
		default:
			err = p.errorf(doc, child, "unexpected top-level element xs:%s", child.Tag)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) loadDirective(doc *document, el *etree.Element, kind ResolveKind) error {
	location := strings.TrimSpace(el.SelectAttrValue("schemaLocation", ""))
	namespace := el.SelectAttrValue("namespace", "")
	if kind == ResolveImport {
		if namespace == doc.targetNS {
			return p.errorf(doc, el, "import namespace %q equals the target namespace", namespace)
		}
		if namespace == qname.XMLNamespace {
			return nil
		}
		if location == "" {
			return nil
		}
	} else if location == "" {
		return p.errorf(doc, el, "include requires schemaLocation")
	}
	if p.opts.Resolver == nil {
		if kind == ResolveImport && p.opts.AllowMissingImportLocations {
			return nil
		}
		return p.errorf(doc, el, "%s %s: no resolver configured", kind, location)
	}
	rc, systemID, err := p.opts.Resolver.Resolve(ResolveRequest{
		BaseSystemID:   doc.systemID,
		SchemaLocation: location,
		Namespace:      namespace,
		Kind:           kind,
	})
	if err != nil {
		if kind == ResolveImport && (p.opts.AllowMissingImportLocations || errors.Is(err, fs.ErrNotExist) && p.hasNamespace(namespace)) {
			return nil
		}
		return p.errorf(doc, el, "%s %s: %v", kind, location, err)
	}
	defer rc.Close()
	loaded := etree.NewDocument()
	if _, err := loaded.ReadFrom(rc); err != nil {
		return fmt.Errorf("parse %s: %w", systemID, err)
	}
	if loaded.Root() == nil {
		return fmt.Errorf("parse %s: empty document", systemID)
	}
	if kind == ResolveInclude {
		return p.load(loaded.Root(), systemID, doc.targetNS, true)
	}
	if got := loaded.Root().SelectAttrValue("targetNamespace", ""); got != namespace {
		return p.errorf(doc, el, "imported document %s has targetNamespace %q, want %q", systemID, got, namespace)
	}
	return p.load(loaded.Root(), systemID, "", false)
}

func (p *parser) hasNamespace(ns string) bool {
	for _, doc := range p.docs {
		if doc.targetNS == ns {
			return true
		}
	}
	return false
}

func (p *parser) declare(doc *document, el *etree.Element, kind componentKind) error {
	name := el.SelectAttrValue("name", "")
	if !qname.IsNCName(name) {
		return p.errorf(doc, el, "top-level %s has invalid name %q", el.Tag, name)
	}
	qn := qname.New(doc.targetNS, name)
	byName := p.globals[kind]
	if byName == nil {
		byName = map[qname.QName]component{}
		p.globals[kind] = byName
	}
	if prev, dup := byName[qn]; dup {
		if prev.el == el {
			return nil
		}
		return p.errorf(doc, el, "duplicate %s %s (first declared in %s)", kind, qn, prev.doc.systemID)
	}
	byName[qn] = component{el: el, doc: doc}
	return nil
}

func (p *parser) lookup(kind componentKind, name qname.QName) (component, bool) {
	c, ok := p.globals[kind][name]
	return c, ok
}

// resolveAll resolves every global component, then finishes the complex
// types discovered along the way.
func (p *parser) resolveAll() error {
	for _, name := range qname.SortedMapKeys(p.globals[kindType]) {
		if _, err := p.typeByName(name); err != nil {
			return err
		}
	}
	for _, name := range qname.SortedMapKeys(p.globals[kindAttribute]) {
		if _, err := p.attributeByName(name); err != nil {
			return err
		}
	}
	for _, name := range qname.SortedMapKeys(p.globals[kindElement]) {
		if _, err := p.elementByName(name); err != nil {
			return err
		}
	}
	for _, name := range qname.SortedMapKeys(p.globals[kindAttributeGroup]) {
		c := p.globals[kindAttributeGroup][name]
		if _, _, err := p.attributeGroup(c); err != nil {
			return err
		}
	}
	for _, name := range qname.SortedMapKeys(p.globals[kindGroup]) {
		c := p.globals[kindGroup][name]
		if _, err := p.groupParticle(c); err != nil {
			return err
		}
	}
	for len(p.pending) > 0 {
		st := p.pending[0]
		p.pending = p.pending[1:]
		if err := p.finishComplex(st); err != nil {
			return err
		}
	}
	return p.resolveSubstitutions()
}

func (p *parser) resolveQName(doc *document, el *etree.Element, value string) (qname.QName, error) {
	qn, err := qname.ParseQNameValue(value, qname.Context(el))
	if err != nil {
		return qname.QName{}, p.errorf(doc, el, "%v", err)
	}
	if qn.Namespace == "" && doc.chameleon {
		qn.Namespace = doc.targetNS
	}
	return qn, nil
}

func (p *parser) errorf(doc *document, el *etree.Element, format string, args ...any) error {
	where := el.Tag
	if name := el.SelectAttrValue("name", ""); name != "" {
		where += " " + name
	} else if ref := el.SelectAttrValue("ref", ""); ref != "" {
		where += " ref=" + ref
	}
	return fmt.Errorf("parse %s: %s: %s", doc.systemID, where, fmt.Sprintf(format, args...))
}

func isXSD(el *etree.Element, local string) bool {
	return el.Tag == local && qname.OfElement(el).Namespace == qname.XSDNamespace
}

// xsdChildren returns the XML Schema children of el, skipping annotations.
func xsdChildren(el *etree.Element) []*etree.Element {
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if qname.OfElement(child).Namespace != qname.XSDNamespace || child.Tag == "annotation" {
			continue
		}
		out = append(out, child)
	}
	return out
}

func firstXSDChild(el *etree.Element, locals ...string) *etree.Element {
	for _, child := range xsdChildren(el) {
		for _, local := range locals {
			if child.Tag == local {
				return child
			}
		}
	}
	return nil
}

func attrValue(el *etree.Element, key string) (string, bool) {
	a := el.SelectAttr(key)
	if a == nil {
		return "", false
	}
	return a.Value, true
}

func boolAttr(el *etree.Element, key string) bool {
	v := strings.TrimSpace(el.SelectAttrValue(key, "false"))
	return v == "true" || v == "1"
}
