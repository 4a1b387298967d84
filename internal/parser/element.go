package parser

import (
	"github.com/beevik/etree"

	"github.com/ands/rifcs/internal/model"
	"github.com/ands/rifcs/internal/qname"
)

func (p *parser) elementByName(name qname.QName) (*model.ElementDecl, error) {
	c, ok := p.lookup(kindElement, name)
	if !ok {
		return nil, errUnknown(kindElement, name)
	}
	return p.elementDecl(c.doc, c.el, qname.New(c.doc.targetNS, c.el.SelectAttrValue("name", "")), true)
}

// localElement builds the declaration of a local (non-ref) element particle.
func (p *parser) localElement(doc *document, el *etree.Element) (*model.ElementDecl, error) {
	local := el.SelectAttrValue("name", "")
	if !qname.IsNCName(local) {
		return nil, p.errorf(doc, el, "invalid element name %q", local)
	}
	ns := ""
	form, hasForm := attrValue(el, "form")
	if (hasForm && form == "qualified") || (!hasForm && doc.elementQualified) {
		ns = doc.targetNS
	}
	return p.elementDecl(doc, el, qname.New(ns, local), false)
}

// elementDecl allocates and memoizes the declaration for el before resolving
// its type, so that recursive content models terminate.
func (p *parser) elementDecl(doc *document, el *etree.Element, name qname.QName, global bool) (*model.ElementDecl, error) {
	if decl, ok := p.elements[el]; ok {
		return decl, nil
	}
	decl := &model.ElementDecl{
		Name:     name,
		Global:   global,
		Nillable: boolAttr(el, "nillable"),
		Abstract: global && boolAttr(el, "abstract"),
	}
	p.elements[el] = decl
	if global {
		p.schema.Elements[name] = decl
	}
	decl.Default, decl.HasDefault = attrValue(el, "default")
	decl.Fixed, decl.HasFixed = attrValue(el, "fixed")
	if decl.HasDefault && decl.HasFixed {
		return nil, p.errorf(doc, el, "default and fixed are mutually exclusive")
	}

	if sg, ok := attrValue(el, "substitutionGroup"); ok && global {
		head, err := p.resolveQName(doc, el, sg)
		if err != nil {
			return nil, err
		}
		p.heads[decl] = head
		p.headOrder = append(p.headOrder, decl)
	}

	typeAttr, hasType := attrValue(el, "type")
	inline := firstXSDChild(el, "complexType", "simpleType")
	switch {
	case hasType && inline != nil:
		return nil, p.errorf(doc, el, "type attribute and inline type are mutually exclusive")
	case hasType:
		tn, err := p.resolveQName(doc, el, typeAttr)
		if err != nil {
			return nil, err
		}
		t, err := p.typeByName(tn)
		if err != nil {
			return nil, p.errorf(doc, el, "%v", err)
		}
		decl.Type = t
	case inline != nil && inline.Tag == "complexType":
		decl.Type = p.complexType(doc, inline, qname.QName{})
	case inline != nil:
		st, err := p.simpleType(doc, inline, qname.QName{})
		if err != nil {
			return nil, err
		}
		decl.Type = st
	default:
		decl.Type = model.AnyType()
		p.untyped[decl] = true
	}

	if decl.HasDefault || decl.HasFixed {
		if err := p.checkElementValue(doc, el, decl); err != nil {
			return nil, err
		}
	}
	return decl, nil
}

func (p *parser) checkElementValue(doc *document, el *etree.Element, decl *model.ElementDecl) error {
	value := decl.Default
	if decl.HasFixed {
		value = decl.Fixed
	}
	// Value constraints on complex types are checked against the simple
	// content type during validation.
	st, ok := decl.Type.(*model.SimpleType)
	if !ok {
		return nil
	}
	if _, err := st.Validate(value, qname.Context(el)); err != nil {
		return p.errorf(doc, el, "invalid value constraint %q: %v", value, err)
	}
	return nil
}

func (p *parser) headOf(decl *model.ElementDecl) *model.ElementDecl {
	name, ok := p.heads[decl]
	if !ok {
		return nil
	}
	return p.schema.Elements[name]
}

// resolveSubstitutions links every substitution group member to its head,
// transitively, and gives typeless members the type of their nearest typed
// head.
func (p *parser) resolveSubstitutions() error {
	for _, member := range p.headOrder {
		name := p.heads[member]
		if _, err := p.elementByName(name); err != nil {
			return err
		}
		member.SubstitutionGroup = name
	}
	for _, member := range p.headOrder {
		seen := map[*model.ElementDecl]bool{member: true}
		for cur := p.headOf(member); cur != nil; cur = p.headOf(cur) {
			if seen[cur] {
				return errCycle("substitution group", member.Name)
			}
			seen[cur] = true
			p.schema.Substitutions[cur] = append(p.schema.Substitutions[cur], member)
		}
	}
	for _, member := range p.headOrder {
		if !p.untyped[member] {
			continue
		}
		for cur := p.headOf(member); cur != nil; cur = p.headOf(cur) {
			if !p.untyped[cur] {
				member.Type = cur.Type
				break
			}
		}
	}
	return nil
}
