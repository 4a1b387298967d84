package validator

import (
	"github.com/beevik/etree"

	xsderrors "github.com/ands/rifcs/errors"
	"github.com/ands/rifcs/internal/contentmodel"
	"github.com/ands/rifcs/internal/model"
	"github.com/ands/rifcs/internal/qname"
)

// element validates el against decl. The caller has pushed el onto the path.
func (r *run) element(el *etree.Element, decl *model.ElementDecl) {
	if r.stop() {
		return
	}
	path := r.path.String()
	if decl.Abstract {
		r.report(xsderrors.ErrElementAbstract, path, "", nil, "element %s is abstract", decl.Name.Local)
		return
	}

	t, ok := r.effectiveType(el, decl, path)
	if !ok {
		return
	}
	if ct, isComplex := t.(*model.ComplexType); isComplex && ct.Abstract {
		r.report(xsderrors.ErrElementTypeAbstract, path, "", nil, "type %s of element %s is abstract", typeName(ct), decl.Name.Local)
		return
	}

	if nilAttr := xsiAttr(el, "nil"); nilAttr != nil {
		nilled := model.Normalize(nilAttr.Value, model.Collapse)
		if nilled != "true" && nilled != "1" && nilled != "false" && nilled != "0" {
			r.report(xsderrors.ErrDatatypeInvalid, r.path.attr("xsi:nil"), nilAttr.Value, nil, "xsi:nil must be a boolean")
			return
		}
		if nilled == "true" || nilled == "1" {
			if !decl.Nillable {
				r.report(xsderrors.ErrElementNotNillable, path, "", nil, "element %s is not nillable", decl.Name.Local)
				return
			}
			if len(el.ChildElements()) > 0 || !model.IsBlank(textContent(el)) {
				r.report(xsderrors.ErrNilElementNotEmpty, path, "", nil, "nilled element %s must be empty", decl.Name.Local)
			}
			if decl.HasFixed {
				r.report(xsderrors.ErrElementFixedValue, path, "", nil, "element %s has a fixed value and cannot be nilled", decl.Name.Local)
			}
			if ct, ok := t.(*model.ComplexType); ok {
				r.attributes(el, ct)
			}
			return
		}
	}

	switch typ := t.(type) {
	case *model.SimpleType:
		r.simpleElement(el, decl, typ)
	case *model.ComplexType:
		r.attributes(el, typ)
		r.complexContent(el, decl, typ)
	}
}

// effectiveType applies xsi:type, which must name a type derived from the
// declared one.
func (r *run) effectiveType(el *etree.Element, decl *model.ElementDecl, path string) (model.Type, bool) {
	attr := xsiAttr(el, "type")
	if attr == nil {
		return decl.Type, true
	}
	name, err := qname.ParseQNameValue(attr.Value, qname.Context(el))
	if err != nil {
		r.report(xsderrors.ErrXsiTypeInvalid, path, attr.Value, nil, "invalid xsi:type: %v", err)
		return nil, false
	}
	t, ok := model.BuiltinType(name)
	if !ok {
		t, ok = r.v.schema.Types[name]
	}
	if !ok {
		r.report(xsderrors.ErrXsiTypeInvalid, path, attr.Value, nil, "xsi:type %s is not declared", name)
		return nil, false
	}
	if !model.DerivedFrom(t, decl.Type) {
		r.report(xsderrors.ErrXsiTypeInvalid, path, attr.Value, nil, "xsi:type %s is not derived from %s", name, typeName(decl.Type))
		return nil, false
	}
	return t, true
}

func (r *run) simpleElement(el *etree.Element, decl *model.ElementDecl, st *model.SimpleType) {
	path := r.path.String()
	for i := range el.Attr {
		a := &el.Attr[i]
		if qname.IsNamespaceDecl(a) || isXSIAttr(a) {
			continue
		}
		r.report(xsderrors.ErrAttributeNotDeclared, r.path.attr(attrLabel(a)), "", nil, "attribute %s is not allowed on element %s", attrLabel(a), decl.Name.Local)
	}
	if len(el.ChildElements()) > 0 {
		r.report(xsderrors.ErrSimpleTypeChildren, path, "", nil, "element %s has simple type %s and cannot have element children", decl.Name.Local, typeName(st))
		return
	}
	r.checkValue(el, decl, st, path)
}

// checkValue validates the character content of a simple-typed or
// simple-content element, applying the declaration's default and fixed value.
func (r *run) checkValue(el *etree.Element, decl *model.ElementDecl, st *model.SimpleType, path string) {
	text := textContent(el)
	if text == "" && decl.HasDefault {
		text = decl.Default
	}
	if text == "" && decl.HasFixed {
		text = decl.Fixed
	}
	nsContext := qname.Context(el)
	normalized, err := st.Validate(text, nsContext)
	if err != nil {
		r.reportValue(path, text, err)
		return
	}
	if decl.HasFixed {
		fixed, err := st.Validate(decl.Fixed, nsContext)
		if err == nil && fixed != normalized {
			r.report(xsderrors.ErrElementFixedValue, path, text, []string{decl.Fixed}, "element %s must have fixed value", decl.Name.Local)
		}
	}
}

func (r *run) complexContent(el *etree.Element, decl *model.ElementDecl, ct *model.ComplexType) {
	path := r.path.String()
	switch ct.Content {
	case model.ContentSimple:
		if len(el.ChildElements()) > 0 {
			r.report(xsderrors.ErrTextInSimpleContent, path, "", nil, "element %s has simple content and cannot have element children", decl.Name.Local)
			return
		}
		if ct.Simple != nil {
			r.checkValue(el, decl, ct.Simple, path)
		}
		return
	case model.ContentEmpty:
		if len(el.ChildElements()) > 0 || !model.IsBlank(textContent(el)) {
			r.report(xsderrors.ErrElementNotEmpty, path, "", nil, "element %s must be empty", decl.Name.Local)
		}
		return
	case model.ContentElementOnly:
		if !model.IsBlank(textContent(el)) {
			r.report(xsderrors.ErrTextInElementOnly, path, "", nil, "element %s cannot contain character data", decl.Name.Local)
		}
	}
	if decl.HasFixed && ct.Content == model.ContentMixed && len(el.ChildElements()) == 0 {
		if textContent(el) != decl.Fixed {
			r.report(xsderrors.ErrElementFixedValue, path, textContent(el), []string{decl.Fixed}, "element %s must have fixed value", decl.Name.Local)
		}
	}

	m := r.v.models[ct]
	if m == nil {
		r.report(xsderrors.ErrContentModelInvalid, path, "", nil, "no content model compiled for type %s", typeName(ct))
		return
	}
	matcher := m.Start()
	for _, child := range el.ChildElements() {
		name := qname.OfElement(child)
		match, err := matcher.Next(name)
		r.path.push(child)
		if err != nil {
			r.contentError(err, decl)
			r.path.pop()
			return
		}
		r.matched(child, match)
		r.path.pop()
	}
	if err := matcher.End(); err != nil {
		r.contentError(err, decl)
	}
}

func (r *run) contentError(err error, decl *model.ElementDecl) {
	cmErr, ok := err.(*contentmodel.Error)
	if !ok {
		r.report(xsderrors.ErrContentModelInvalid, r.path.String(), "", nil, "%v", err)
		return
	}
	if cmErr.Kind == contentmodel.Incomplete {
		r.report(xsderrors.ErrRequiredElementMissing, r.path.String(), "", cmErr.Expected, "content of %s is incomplete", decl.Name.Local)
		return
	}
	r.report(xsderrors.ErrUnexpectedElement, r.path.String(), "", cmErr.Expected, "element %s is not expected in %s", cmErr.Name.Local, decl.Name.Local)
}

// matched validates a child according to the term it matched.
func (r *run) matched(child *etree.Element, match contentmodel.Match) {
	if match.Element != nil {
		r.element(child, match.Element)
		return
	}
	switch match.Wildcard.Process {
	case model.ProcessSkip:
	case model.ProcessStrict:
		decl, ok := r.v.schema.Elements[qname.OfElement(child)]
		if !ok {
			r.report(xsderrors.ErrWildcardNotDeclared, r.path.String(), "", nil, "no declaration for element %s matched by a strict wildcard", child.Tag)
			return
		}
		r.element(child, decl)
	default:
		r.lax(child)
	}
}

// lax validates child if it is declared and otherwise descends into its
// children looking for declared elements.
func (r *run) lax(el *etree.Element) {
	if decl, ok := r.v.schema.Elements[qname.OfElement(el)]; ok {
		r.element(el, decl)
		return
	}
	for _, child := range el.ChildElements() {
		r.path.push(child)
		r.lax(child)
		r.path.pop()
	}
}
