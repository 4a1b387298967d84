package parser

import (
	"github.com/beevik/etree"

	"github.com/ands/rifcs/internal/model"
	"github.com/ands/rifcs/internal/qname"
)

// complexType allocates the type defined by el and queues it for
// finishComplex. Content is filled later so that types may refer to each
// other through element declarations in any order.
func (p *parser) complexType(doc *document, el *etree.Element, name qname.QName) *model.ComplexType {
	if st, ok := p.complex[el]; ok {
		return st.ct
	}
	ct := &model.ComplexType{Name: name, Abstract: boolAttr(el, "abstract")}
	st := &complexState{ct: ct, el: el, doc: doc}
	p.complex[el] = st
	p.states[ct] = st
	p.pending = append(p.pending, st)
	p.schema.ComplexTypes = append(p.schema.ComplexTypes, ct)
	if !name.IsZero() {
		p.schema.Types[name] = ct
	}
	return ct
}

// finishComplex computes the effective content and attribute uses of a
// complex type. Base types are finished first; a type reached again while
// its own derivation is being finished is circular.
func (p *parser) finishComplex(st *complexState) error {
	switch st.state {
	case stateDone:
		return nil
	case stateBusy:
		return p.errorf(st.doc, st.el, "%v", errCycle("type derivation", st.ct.Name))
	}
	st.state = stateBusy
	var err error
	switch content := firstXSDChild(st.el, "simpleContent", "complexContent"); {
	case content == nil:
		err = p.implicitContent(st)
	case content.Tag == "simpleContent":
		err = p.simpleContent(st, content)
	default:
		err = p.complexContent(st, content)
	}
	if err != nil {
		return err
	}
	st.state = stateDone
	return nil
}

func (p *parser) finishBase(doc *document, el *etree.Element, t model.Type) error {
	ct, ok := t.(*model.ComplexType)
	if !ok || model.IsAnyType(ct) {
		return nil
	}
	st, ok := p.states[ct]
	if !ok {
		return p.errorf(doc, el, "base type %s was never declared", ct.Name)
	}
	return p.finishComplex(st)
}

// implicitContent handles a complexType whose children are the content
// model directly: a restriction of xs:anyType.
func (p *parser) implicitContent(st *complexState) error {
	ct := st.ct
	ct.Base = model.AnyType()
	ct.Derivation = model.DerivationRestriction
	particle, err := p.contentParticle(st.doc, st.el)
	if err != nil {
		return err
	}
	ct.Particle = particle
	ct.Content = contentKind(boolAttr(st.el, "mixed"), particle)
	uses, wildcard, err := p.attributeUses(st.doc, st.el)
	if err != nil {
		return err
	}
	ct.Attributes = mergeAttributeUses(nil, uses, true)
	ct.AnyAttribute = wildcard
	return nil
}

func contentKind(mixed bool, particle model.Particle) model.ContentKind {
	switch {
	case mixed:
		return model.ContentMixed
	case model.IsEmptyParticle(particle):
		return model.ContentEmpty
	default:
		return model.ContentElementOnly
	}
}

func (p *parser) complexContent(st *complexState, content *etree.Element) error {
	derivation := firstXSDChild(content, "extension", "restriction")
	if derivation == nil {
		return p.errorf(st.doc, content, "complexContent requires extension or restriction")
	}
	base, err := p.derivationBase(st.doc, derivation)
	if err != nil {
		return err
	}
	baseCT, ok := base.(*model.ComplexType)
	if !ok {
		return p.errorf(st.doc, derivation, "complexContent base %s must be a complex type", base.TypeName())
	}
	if err := p.finishBase(st.doc, derivation, baseCT); err != nil {
		return err
	}
	if baseCT.Content == model.ContentSimple {
		return p.errorf(st.doc, derivation, "complexContent base %s has simple content", baseCT.Name)
	}

	mixed := boolAttr(st.el, "mixed")
	if v, ok := attrValue(content, "mixed"); ok {
		mixed = v == "true" || v == "1"
	}
	own, err := p.contentParticle(st.doc, derivation)
	if err != nil {
		return err
	}
	uses, wildcard, err := p.attributeUses(st.doc, derivation)
	if err != nil {
		return err
	}

	ct := st.ct
	ct.Base = baseCT
	if derivation.Tag == "extension" {
		ct.Derivation = model.DerivationExtension
		ct.Particle = extendParticle(baseCT.Particle, own)
		if baseCT.Content == model.ContentMixed {
			mixed = true
		}
		ct.Attributes = mergeAttributeUses(baseCT.Attributes, uses, false)
		ct.AnyAttribute = unionWildcard(baseCT.AnyAttribute, wildcard)
	} else {
		ct.Derivation = model.DerivationRestriction
		ct.Particle = own
		ct.Attributes = mergeAttributeUses(baseCT.Attributes, uses, true)
		ct.AnyAttribute = wildcard
	}
	ct.Content = contentKind(mixed, ct.Particle)
	return nil
}

// extendParticle appends the extension's content to the base content model.
func extendParticle(base, own model.Particle) model.Particle {
	switch {
	case model.IsEmptyParticle(base):
		return own
	case model.IsEmptyParticle(own):
		return base
	}
	return &model.ModelGroup{Kind: model.Sequence, Min: 1, Max: 1, Particles: []model.Particle{base, own}}
}

func (p *parser) simpleContent(st *complexState, content *etree.Element) error {
	derivation := firstXSDChild(content, "extension", "restriction")
	if derivation == nil {
		return p.errorf(st.doc, content, "simpleContent requires extension or restriction")
	}
	base, err := p.derivationBase(st.doc, derivation)
	if err != nil {
		return err
	}
	if err := p.finishBase(st.doc, derivation, base); err != nil {
		return err
	}
	uses, wildcard, err := p.attributeUses(st.doc, derivation)
	if err != nil {
		return err
	}

	ct := st.ct
	ct.Base = base
	ct.Content = model.ContentSimple
	var (
		baseSimple *model.SimpleType
		baseUses   []*model.AttributeUse
		baseAny    *model.Wildcard
	)
	switch b := base.(type) {
	case *model.SimpleType:
		baseSimple = b
	case *model.ComplexType:
		if b.Content != model.ContentSimple {
			if derivation.Tag == "extension" || b.Content != model.ContentMixed {
				return p.errorf(st.doc, derivation, "simpleContent base %s does not have simple content", b.Name)
			}
		}
		baseSimple = b.Simple
		baseUses = b.Attributes
		baseAny = b.AnyAttribute
	}

	if derivation.Tag == "extension" {
		ct.Derivation = model.DerivationExtension
		ct.Simple = baseSimple
		ct.Attributes = mergeAttributeUses(baseUses, uses, false)
		ct.AnyAttribute = unionWildcard(baseAny, wildcard)
		return nil
	}

	ct.Derivation = model.DerivationRestriction
	restricted := baseSimple
	if inline := firstXSDChild(derivation, "simpleType"); inline != nil {
		if restricted, err = p.simpleType(st.doc, inline, qname.QName{}); err != nil {
			return err
		}
	}
	if restricted == nil {
		restricted = model.AnySimpleType()
	}
	ct.Simple = model.Restrict(qname.QName{}, restricted)
	if err := p.applyFacets(st.doc, derivation, ct.Simple); err != nil {
		return err
	}
	ct.Attributes = mergeAttributeUses(baseUses, uses, true)
	ct.AnyAttribute = wildcard
	return nil
}

func (p *parser) derivationBase(doc *document, el *etree.Element) (model.Type, error) {
	baseAttr, ok := attrValue(el, "base")
	if !ok {
		return nil, p.errorf(doc, el, "%s requires a base attribute", el.Tag)
	}
	name, err := p.resolveQName(doc, el, baseAttr)
	if err != nil {
		return nil, err
	}
	t, err := p.typeByName(name)
	if err != nil {
		return nil, p.errorf(doc, el, "%v", err)
	}
	return t, nil
}

// contentParticle parses the optional model group child of a complex type
// or derivation step.
func (p *parser) contentParticle(doc *document, el *etree.Element) (model.Particle, error) {
	child := firstXSDChild(el, "sequence", "choice", "all", "group")
	if child == nil {
		return nil, nil
	}
	return p.particle(doc, child)
}
