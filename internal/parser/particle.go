package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/ands/rifcs/internal/model"
	"github.com/ands/rifcs/internal/qname"
)

// occurs reads minOccurs and maxOccurs, both defaulting to 1.
func occurs(el *etree.Element) (int, int, error) {
	minOcc, maxOcc := 1, 1
	if v, ok := attrValue(el, "minOccurs"); ok {
		n, err := parseOccursValue("minOccurs", v)
		if err != nil {
			return 0, 0, err
		}
		minOcc = n
	}
	if v, ok := attrValue(el, "maxOccurs"); ok {
		n, err := parseOccursValue("maxOccurs", v)
		if err != nil {
			return 0, 0, err
		}
		maxOcc = n
	}
	if maxOcc != model.Unbounded && minOcc > maxOcc {
		return 0, 0, fmt.Errorf("minOccurs %d exceeds maxOccurs %d", minOcc, maxOcc)
	}
	return minOcc, maxOcc, nil
}

func parseOccursValue(attr, value string) (int, error) {
	value = model.Normalize(value, model.Collapse)
	if value == "" {
		return 0, fmt.Errorf("%s attribute cannot be empty", attr)
	}
	if value == "unbounded" {
		if attr == "minOccurs" {
			return 0, fmt.Errorf("minOccurs attribute cannot be 'unbounded'")
		}
		return model.Unbounded, nil
	}
	n, err := strconv.ParseUint(value, 10, 31)
	if err != nil {
		return 0, fmt.Errorf("invalid %s attribute value '%s'", attr, value)
	}
	return int(n), nil
}

// particle parses an element, wildcard, model group or group reference.
func (p *parser) particle(doc *document, el *etree.Element) (model.Particle, error) {
	minOcc, maxOcc, err := occurs(el)
	if err != nil {
		return nil, p.errorf(doc, el, "%v", err)
	}
	switch el.Tag {
	case "element":
		return p.elementParticle(doc, el, minOcc, maxOcc)
	case "any":
		w, err := p.wildcard(doc, el)
		if err != nil {
			return nil, err
		}
		return &model.WildcardParticle{Wildcard: w, Min: minOcc, Max: maxOcc}, nil
	case "sequence", "choice", "all":
		return p.modelGroup(doc, el, minOcc, maxOcc)
	case "group":
		ref, ok := attrValue(el, "ref")
		if !ok {
			return nil, p.errorf(doc, el, "group reference requires ref")
		}
		name, err := p.resolveQName(doc, el, ref)
		if err != nil {
			return nil, err
		}
		c, ok := p.lookup(kindGroup, name)
		if !ok {
			return nil, p.errorf(doc, el, "%v", errUnknown(kindGroup, name))
		}
		inner, err := p.groupParticle(c)
		if err != nil {
			return nil, err
		}
		return &model.ModelGroup{Kind: inner.Kind, Particles: inner.Particles, Min: minOcc, Max: maxOcc}, nil
	default:
		return nil, p.errorf(doc, el, "unexpected xs:%s in content model", el.Tag)
	}
}

func (p *parser) elementParticle(doc *document, el *etree.Element, minOcc, maxOcc int) (model.Particle, error) {
	ref, isRef := attrValue(el, "ref")
	if !isRef {
		decl, err := p.localElement(doc, el)
		if err != nil {
			return nil, err
		}
		return &model.ElementParticle{Decl: decl, Min: minOcc, Max: maxOcc}, nil
	}
	name, err := p.resolveQName(doc, el, ref)
	if err != nil {
		return nil, err
	}
	decl, err := p.elementByName(name)
	if err != nil {
		return nil, p.errorf(doc, el, "%v", err)
	}
	return &model.ElementParticle{Decl: decl, Min: minOcc, Max: maxOcc, Ref: true}, nil
}

func (p *parser) modelGroup(doc *document, el *etree.Element, minOcc, maxOcc int) (*model.ModelGroup, error) {
	g := &model.ModelGroup{Min: minOcc, Max: maxOcc}
	switch el.Tag {
	case "sequence":
		g.Kind = model.Sequence
	case "choice":
		g.Kind = model.Choice
	default:
		g.Kind = model.All
	}
	for _, child := range xsdChildren(el) {
		particle, err := p.particle(doc, child)
		if err != nil {
			return nil, err
		}
		if g.Kind == model.All {
			if _, ok := particle.(*model.ElementParticle); !ok {
				return nil, p.errorf(doc, child, "all group may only contain elements")
			}
		}
		if inner, ok := particle.(*model.ModelGroup); ok && inner.Kind == model.All {
			return nil, p.errorf(doc, child, "all group must be the whole content model")
		}
		g.Particles = append(g.Particles, particle)
	}
	return g, nil
}

// groupParticle returns the model group of a named group definition.
// Group references may not recurse into themselves.
func (p *parser) groupParticle(c component) (*model.ModelGroup, error) {
	if p.busy[c.el] {
		return nil, p.errorf(c.doc, c.el, "%v", errCycle("group reference", qname.New(c.doc.targetNS, c.el.SelectAttrValue("name", ""))))
	}
	p.busy[c.el] = true
	defer delete(p.busy, c.el)
	inner := firstXSDChild(c.el, "sequence", "choice", "all")
	if inner == nil {
		return nil, p.errorf(c.doc, c.el, "group requires sequence, choice or all")
	}
	return p.modelGroup(c.doc, inner, 1, 1)
}

// wildcard parses the namespace and processContents attributes of xs:any or
// xs:anyAttribute.
func (p *parser) wildcard(doc *document, el *etree.Element) (*model.Wildcard, error) {
	w := &model.Wildcard{TargetNS: doc.targetNS}
	switch pc := el.SelectAttrValue("processContents", "strict"); pc {
	case "strict":
		w.Process = model.ProcessStrict
	case "lax":
		w.Process = model.ProcessLax
	case "skip":
		w.Process = model.ProcessSkip
	default:
		return nil, p.errorf(doc, el, "invalid processContents %q", pc)
	}
	ns := model.Normalize(el.SelectAttrValue("namespace", "##any"), model.Collapse)
	switch ns {
	case "##any":
		w.Any = true
	case "##other":
		w.Other = true
	default:
		w.Namespaces = []string{}
		for _, token := range strings.Fields(ns) {
			switch token {
			case "##targetNamespace":
				w.Namespaces = append(w.Namespaces, doc.targetNS)
			case "##local":
				w.Namespaces = append(w.Namespaces, "")
			case "##any", "##other":
				return nil, p.errorf(doc, el, "%s cannot appear in a namespace list", token)
			default:
				w.Namespaces = append(w.Namespaces, token)
			}
		}
	}
	return w, nil
}
