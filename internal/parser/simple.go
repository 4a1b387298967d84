package parser

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/ands/rifcs/internal/model"
	"github.com/ands/rifcs/internal/qname"
)

func errUnknown(kind componentKind, name qname.QName) error {
	return fmt.Errorf("unknown %s %s", kind, name)
}

func errCycle(what string, name qname.QName) error {
	return fmt.Errorf("circular %s involving %s", what, name)
}

// typeByName resolves a type reference to a built-in or global type.
func (p *parser) typeByName(name qname.QName) (model.Type, error) {
	if t, ok := model.BuiltinType(name); ok {
		return t, nil
	}
	if t, ok := p.schema.Types[name]; ok {
		return t, nil
	}
	c, ok := p.lookup(kindType, name)
	if !ok {
		return nil, errUnknown(kindType, name)
	}
	if c.el.Tag == "complexType" {
		return p.complexType(c.doc, c.el, name), nil
	}
	st, err := p.simpleType(c.doc, c.el, name)
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (p *parser) simpleTypeByName(doc *document, el *etree.Element, value string) (*model.SimpleType, error) {
	name, err := p.resolveQName(doc, el, value)
	if err != nil {
		return nil, err
	}
	t, err := p.typeByName(name)
	if err != nil {
		return nil, p.errorf(doc, el, "%v", err)
	}
	st, ok := t.(*model.SimpleType)
	if !ok {
		return nil, p.errorf(doc, el, "%s is not a simple type", name)
	}
	return st, nil
}

// simpleType builds the simple type defined by el. Simple types cannot be
// recursive, so they are resolved eagerly and cycles are errors.
func (p *parser) simpleType(doc *document, el *etree.Element, name qname.QName) (*model.SimpleType, error) {
	if st, ok := p.simple[el]; ok {
		return st, nil
	}
	if p.busy[el] {
		return nil, p.errorf(doc, el, "%v", errCycle("simple type derivation", name))
	}
	p.busy[el] = true
	defer delete(p.busy, el)

	derivation := firstXSDChild(el, "restriction", "list", "union")
	if derivation == nil {
		return nil, p.errorf(doc, el, "simpleType requires restriction, list or union")
	}
	var (
		st  *model.SimpleType
		err error
	)
	switch derivation.Tag {
	case "restriction":
		st, err = p.simpleRestriction(doc, derivation, name)
	case "list":
		st, err = p.simpleList(doc, derivation, name)
	default:
		st, err = p.simpleUnion(doc, derivation, name)
	}
	if err != nil {
		return nil, err
	}
	p.simple[el] = st
	if !name.IsZero() {
		p.schema.Types[name] = st
	}
	return st, nil
}

// restrictionBase resolves the base of a restriction, given either as the
// base attribute or an inline simpleType child.
func (p *parser) restrictionBase(doc *document, el *etree.Element) (*model.SimpleType, error) {
	baseAttr, hasBase := attrValue(el, "base")
	inline := firstXSDChild(el, "simpleType")
	switch {
	case hasBase && inline != nil:
		return nil, p.errorf(doc, el, "base attribute and inline simpleType are mutually exclusive")
	case hasBase:
		return p.simpleTypeByName(doc, el, baseAttr)
	case inline != nil:
		return p.simpleType(doc, inline, qname.QName{})
	default:
		return nil, p.errorf(doc, el, "restriction requires a base type")
	}
}

func (p *parser) simpleRestriction(doc *document, el *etree.Element, name qname.QName) (*model.SimpleType, error) {
	base, err := p.restrictionBase(doc, el)
	if err != nil {
		return nil, err
	}
	if base == model.AnySimpleType() {
		return nil, p.errorf(doc, el, "cannot restrict xs:anySimpleType")
	}
	st := model.Restrict(name, base)
	if err := p.applyFacets(doc, el, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (p *parser) simpleList(doc *document, el *etree.Element, name qname.QName) (*model.SimpleType, error) {
	itemAttr, hasItem := attrValue(el, "itemType")
	inline := firstXSDChild(el, "simpleType")
	var (
		item *model.SimpleType
		err  error
	)
	switch {
	case hasItem && inline != nil:
		return nil, p.errorf(doc, el, "itemType and inline simpleType are mutually exclusive")
	case hasItem:
		item, err = p.simpleTypeByName(doc, el, itemAttr)
	case inline != nil:
		item, err = p.simpleType(doc, inline, qname.QName{})
	default:
		return nil, p.errorf(doc, el, "list requires an item type")
	}
	if err != nil {
		return nil, err
	}
	if item.Variety == model.List {
		return nil, p.errorf(doc, el, "list item type must not be a list")
	}
	return model.NewList(name, item), nil
}

func (p *parser) simpleUnion(doc *document, el *etree.Element, name qname.QName) (*model.SimpleType, error) {
	var members []*model.SimpleType
	for _, ref := range strings.Fields(el.SelectAttrValue("memberTypes", "")) {
		member, err := p.simpleTypeByName(doc, el, ref)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	for _, child := range xsdChildren(el) {
		if child.Tag != "simpleType" {
			continue
		}
		member, err := p.simpleType(doc, child, qname.QName{})
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	if len(members) == 0 {
		return nil, p.errorf(doc, el, "union requires member types")
	}
	return model.NewUnion(name, members), nil
}

// applyFacets adds the facets declared under a restriction to st.
func (p *parser) applyFacets(doc *document, el *etree.Element, st *model.SimpleType) error {
	var (
		patterns     *model.PatternFacet
		enumerations *model.EnumerationFacet
	)
	for _, child := range xsdChildren(el) {
		value := child.SelectAttrValue("value", "")
		switch child.Tag {
		case "simpleType", "attribute", "attributeGroup", "anyAttribute":
		case "enumeration":
			if enumerations == nil {
				enumerations = &model.EnumerationFacet{}
				st.Facets = append(st.Facets, enumerations)
			}
			enumerations.Values = append(enumerations.Values, value)
		case "pattern":
			if patterns == nil {
				patterns = &model.PatternFacet{}
				st.Facets = append(st.Facets, patterns)
			}
			if err := patterns.AddPattern(value); err != nil {
				return p.errorf(doc, child, "%v", err)
			}
		case "length", "minLength", "maxLength":
			f, err := model.NewLengthFacet(child.Tag, value)
			if err != nil {
				return p.errorf(doc, child, "%v", err)
			}
			st.Facets = append(st.Facets, f)
		case "totalDigits", "fractionDigits":
			f, err := model.NewDigitsFacet(child.Tag, value)
			if err != nil {
				return p.errorf(doc, child, "%v", err)
			}
			st.Facets = append(st.Facets, f)
		case "minInclusive", "maxInclusive", "minExclusive", "maxExclusive":
			if _, err := st.Validate(value, nil); err != nil && !isFacetOnly(err) {
				return p.errorf(doc, child, "invalid %s value %q: %v", child.Tag, value, err)
			}
			st.Facets = append(st.Facets, &model.RangeFacet{Kind: child.Tag, Value: model.Normalize(value, model.Collapse)})
		case "whiteSpace":
			ws, ok := model.ParseWhiteSpace(value)
			if !ok {
				return p.errorf(doc, child, "invalid whiteSpace value %q", value)
			}
			if ws < st.WhiteSpace {
				return p.errorf(doc, child, "whiteSpace %s cannot relax the base type's", value)
			}
			st.WhiteSpace = ws
		default:
			return p.errorf(doc, child, "unsupported facet xs:%s", child.Tag)
		}
	}
	return nil
}

// isFacetOnly reports whether err is a facet violation rather than a
// lexical failure; range bounds need only be lexically valid.
func isFacetOnly(err error) bool {
	verr, ok := err.(*model.ValueError)
	return ok && verr.Facet != ""
}
