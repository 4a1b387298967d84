package parser

import (
	"slices"

	"github.com/beevik/etree"

	"github.com/ands/rifcs/internal/model"
	"github.com/ands/rifcs/internal/qname"
)

// xmlAttributes are the global attributes of the XML namespace, available
// without importing xml.xsd.
var xmlAttributes = buildXMLAttributes()

func buildXMLAttributes() map[string]*model.AttributeDecl {
	builtin := func(local string) *model.SimpleType {
		st, _ := model.Builtin(local)
		return st
	}
	empty := model.Restrict(qname.QName{}, builtin("string"))
	empty.Facets = []model.Facet{&model.EnumerationFacet{Values: []string{""}}}
	space := model.Restrict(qname.QName{}, builtin("NCName"))
	space.Facets = []model.Facet{&model.EnumerationFacet{Values: []string{"default", "preserve"}}}

	decl := func(local string, t *model.SimpleType) *model.AttributeDecl {
		return &model.AttributeDecl{Name: qname.New(qname.XMLNamespace, local), Type: t}
	}
	return map[string]*model.AttributeDecl{
		"lang":  decl("lang", model.NewUnion(qname.QName{}, []*model.SimpleType{builtin("language"), empty})),
		"space": decl("space", space),
		"base":  decl("base", builtin("anyURI")),
		"id":    decl("id", builtin("ID")),
	}
}

func (p *parser) attributeByName(name qname.QName) (*model.AttributeDecl, error) {
	if name.Namespace == qname.XMLNamespace {
		if decl, ok := xmlAttributes[name.Local]; ok {
			p.schema.Attributes[name] = decl
			return decl, nil
		}
	}
	c, ok := p.lookup(kindAttribute, name)
	if !ok {
		return nil, errUnknown(kindAttribute, name)
	}
	return p.attributeDecl(c.doc, c.el, name)
}

func (p *parser) attributeDecl(doc *document, el *etree.Element, name qname.QName) (*model.AttributeDecl, error) {
	if decl, ok := p.attrs[el]; ok {
		return decl, nil
	}
	if name.Namespace == qname.XSINamespace {
		return nil, p.errorf(doc, el, "attributes in the xsi namespace cannot be declared")
	}
	if name.Namespace == "" && name.Local == "xmlns" {
		return nil, p.errorf(doc, el, "xmlns cannot be declared as an attribute")
	}
	decl := &model.AttributeDecl{Name: name}
	typeAttr, hasType := attrValue(el, "type")
	inline := firstXSDChild(el, "simpleType")
	var err error
	switch {
	case hasType && inline != nil:
		return nil, p.errorf(doc, el, "type attribute and inline simpleType are mutually exclusive")
	case hasType:
		decl.Type, err = p.simpleTypeByName(doc, el, typeAttr)
	case inline != nil:
		decl.Type, err = p.simpleType(doc, inline, qname.QName{})
	default:
		decl.Type = model.AnySimpleType()
	}
	if err != nil {
		return nil, err
	}
	decl.Default, decl.HasDefault = attrValue(el, "default")
	decl.Fixed, decl.HasFixed = attrValue(el, "fixed")
	if err := p.checkAttributeValues(doc, el, decl.Type, decl.HasDefault, decl.Default, decl.HasFixed, decl.Fixed); err != nil {
		return nil, err
	}
	p.attrs[el] = decl
	if isXSD(el.Parent(), "schema") {
		p.schema.Attributes[name] = decl
	}
	return decl, nil
}

func (p *parser) checkAttributeValues(doc *document, el *etree.Element, t *model.SimpleType, hasDefault bool, def string, hasFixed bool, fixed string) error {
	if hasDefault && hasFixed {
		return p.errorf(doc, el, "default and fixed are mutually exclusive")
	}
	for _, v := range []struct {
		set   bool
		value string
	}{{hasDefault, def}, {hasFixed, fixed}} {
		if !v.set {
			continue
		}
		if _, err := t.Validate(v.value, qname.Context(el)); err != nil {
			return p.errorf(doc, el, "invalid value constraint %q: %v", v.value, err)
		}
	}
	return nil
}

// attributeUses collects the attribute uses and attribute wildcard declared
// directly under el, expanding attribute group references.
func (p *parser) attributeUses(doc *document, el *etree.Element) ([]*model.AttributeUse, *model.Wildcard, error) {
	var (
		uses     []*model.AttributeUse
		wildcard *model.Wildcard
	)
	for _, child := range xsdChildren(el) {
		switch child.Tag {
		case "attribute":
			use, err := p.attributeUse(doc, child)
			if err != nil {
				return nil, nil, err
			}
			if slices.ContainsFunc(uses, func(u *model.AttributeUse) bool { return u.Decl.Name == use.Decl.Name }) {
				return nil, nil, p.errorf(doc, child, "duplicate attribute %s", use.Decl.Name)
			}
			uses = append(uses, use)
		case "attributeGroup":
			ref, ok := attrValue(child, "ref")
			if !ok {
				return nil, nil, p.errorf(doc, child, "attributeGroup reference requires ref")
			}
			name, err := p.resolveQName(doc, child, ref)
			if err != nil {
				return nil, nil, err
			}
			c, ok := p.lookup(kindAttributeGroup, name)
			if !ok {
				return nil, nil, p.errorf(doc, child, "%v", errUnknown(kindAttributeGroup, name))
			}
			groupUses, groupWildcard, err := p.attributeGroup(c)
			if err != nil {
				return nil, nil, err
			}
			for _, use := range groupUses {
				if !slices.ContainsFunc(uses, func(u *model.AttributeUse) bool { return u.Decl.Name == use.Decl.Name }) {
					uses = append(uses, use)
				}
			}
			wildcard = intersectWildcard(wildcard, groupWildcard)
		case "anyAttribute":
			w, err := p.wildcard(doc, child)
			if err != nil {
				return nil, nil, err
			}
			wildcard = intersectWildcard(wildcard, w)
		}
	}
	return uses, wildcard, nil
}

func (p *parser) attributeGroup(c component) ([]*model.AttributeUse, *model.Wildcard, error) {
	if p.busy[c.el] {
		return nil, nil, p.errorf(c.doc, c.el, "%v", errCycle("attributeGroup reference", qname.New(c.doc.targetNS, c.el.SelectAttrValue("name", ""))))
	}
	p.busy[c.el] = true
	defer delete(p.busy, c.el)
	return p.attributeUses(c.doc, c.el)
}

func (p *parser) attributeUse(doc *document, el *etree.Element) (*model.AttributeUse, error) {
	use := &model.AttributeUse{}
	switch v := el.SelectAttrValue("use", "optional"); v {
	case "optional":
	case "required":
		use.Required = true
	case "prohibited":
		use.Prohibited = true
	default:
		return nil, p.errorf(doc, el, "invalid use %q", v)
	}

	if ref, ok := attrValue(el, "ref"); ok {
		name, err := p.resolveQName(doc, el, ref)
		if err != nil {
			return nil, err
		}
		decl, err := p.attributeByName(name)
		if err != nil {
			return nil, p.errorf(doc, el, "%v", err)
		}
		use.Decl = decl
		use.Default, use.HasDefault = attrValue(el, "default")
		use.Fixed, use.HasFixed = attrValue(el, "fixed")
		if err := p.checkAttributeValues(doc, el, decl.Type, use.HasDefault, use.Default, use.HasFixed, use.Fixed); err != nil {
			return nil, err
		}
		if fixed, ok := decl.Fixed, decl.HasFixed; ok && use.HasFixed && use.Fixed != fixed {
			return nil, p.errorf(doc, el, "fixed value %q conflicts with declaration's %q", use.Fixed, fixed)
		}
	} else {
		local := el.SelectAttrValue("name", "")
		if !qname.IsNCName(local) {
			return nil, p.errorf(doc, el, "invalid attribute name %q", local)
		}
		ns := ""
		form, hasForm := attrValue(el, "form")
		if (hasForm && form == "qualified") || (!hasForm && doc.attributeQualified) {
			ns = doc.targetNS
		}
		decl, err := p.attributeDecl(doc, el, qname.New(ns, local))
		if err != nil {
			return nil, err
		}
		use.Decl = decl
	}
	if use.Required && (use.HasDefault || use.Decl.HasDefault && el.SelectAttr("ref") == nil) {
		return nil, p.errorf(doc, el, "a required attribute cannot have a default")
	}
	return use, nil
}

// mergeAttributeUses combines inherited and declared attribute uses. A
// restriction may override inherited uses and remove them with
// use="prohibited"; an extension only adds.
func mergeAttributeUses(base, own []*model.AttributeUse, restriction bool) []*model.AttributeUse {
	out := make([]*model.AttributeUse, 0, len(base)+len(own))
	for _, inherited := range base {
		idx := slices.IndexFunc(own, func(u *model.AttributeUse) bool { return u.Decl.Name == inherited.Decl.Name })
		if idx >= 0 && restriction {
			continue
		}
		out = append(out, inherited)
	}
	for _, use := range own {
		if use.Prohibited {
			continue
		}
		if !restriction && slices.ContainsFunc(base, func(u *model.AttributeUse) bool { return u.Decl.Name == use.Decl.Name }) {
			continue
		}
		out = append(out, use)
	}
	return out
}

// unionWildcard widens an inherited attribute wildcard with an extension's.
func unionWildcard(a, b *model.Wildcard) *model.Wildcard {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case a.Any || b.Any:
		return &model.Wildcard{Any: true, Process: b.Process}
	case a.Other && b.Other:
		if a.TargetNS == b.TargetNS {
			return b
		}
		return &model.Wildcard{Any: true, Process: b.Process}
	case a.Other || b.Other:
		other, list := a, b
		if b.Other {
			other, list = b, a
		}
		if slices.Contains(list.Namespaces, other.TargetNS) {
			return &model.Wildcard{Any: true, Process: b.Process}
		}
		return &model.Wildcard{Other: true, TargetNS: other.TargetNS, Process: b.Process}
	default:
		merged := slices.Clone(a.Namespaces)
		for _, ns := range b.Namespaces {
			if !slices.Contains(merged, ns) {
				merged = append(merged, ns)
			}
		}
		return &model.Wildcard{Namespaces: merged, Process: b.Process}
	}
}

// intersectWildcard combines the wildcards of attribute groups and the
// complex type's own anyAttribute.
func intersectWildcard(a, b *model.Wildcard) *model.Wildcard {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case a.Any:
		return b
	case b.Any:
		return a
	case a.Other && b.Other:
		return a
	case a.Other || b.Other:
		other, list := a, b
		if b.Other {
			other, list = b, a
		}
		var kept []string
		for _, ns := range list.Namespaces {
			if other.Allows(ns) {
				kept = append(kept, ns)
			}
		}
		return &model.Wildcard{Namespaces: kept, Process: list.Process}
	default:
		var kept []string
		for _, ns := range a.Namespaces {
			if slices.Contains(b.Namespaces, ns) {
				kept = append(kept, ns)
			}
		}
		return &model.Wildcard{Namespaces: kept, Process: a.Process}
	}
}
