package validator

import (
	"github.com/beevik/etree"

	xsderrors "github.com/ands/rifcs/errors"
	"github.com/ands/rifcs/internal/model"
	"github.com/ands/rifcs/internal/qname"
)

func isXSIAttr(a *etree.Attr) bool {
	return a.Space != "" && qname.OfAttr(a).Namespace == qname.XSINamespace
}

// xsiAttr returns the attribute local in the XML Schema instance namespace,
// whatever prefix the document binds to it.
func xsiAttr(el *etree.Element, local string) *etree.Attr {
	for i := range el.Attr {
		a := &el.Attr[i]
		if a.Key == local && isXSIAttr(a) {
			return a
		}
	}
	return nil
}

func attrLabel(a *etree.Attr) string {
	if a.Space == "" {
		return a.Key
	}
	return a.Space + ":" + a.Key
}

// attributes checks the attributes of el against the uses and wildcard of ct.
func (r *run) attributes(el *etree.Element, ct *model.ComplexType) {
	var (
		seen      = make(map[*model.AttributeUse]bool, len(ct.Attributes))
		nsContext map[string]string
	)
	context := func() map[string]string {
		if nsContext == nil {
			nsContext = qname.Context(el)
		}
		return nsContext
	}
	for i := range el.Attr {
		a := &el.Attr[i]
		if qname.IsNamespaceDecl(a) || isXSIAttr(a) {
			continue
		}
		name := qname.OfAttr(a)
		path := r.path.attr(attrLabel(a))
		if use := ct.Attribute(name); use != nil {
			seen[use] = true
			normalized, err := use.Decl.Type.Validate(a.Value, context())
			if err != nil {
				r.reportValue(path, a.Value, err)
				continue
			}
			if fixed, ok := use.FixedValue(); ok {
				want, err := use.Decl.Type.Validate(fixed, context())
				if err == nil && want != normalized {
					r.report(xsderrors.ErrAttributeFixedValue, path, a.Value, []string{fixed}, "attribute %s must have fixed value", attrLabel(a))
				}
			}
			continue
		}
		if !ct.AnyAttribute.Allows(name.Namespace) {
			r.report(xsderrors.ErrAttributeNotDeclared, path, "", nil, "attribute %s is not allowed on element %s", attrLabel(a), el.Tag)
			continue
		}
		if ct.AnyAttribute.Process == model.ProcessSkip {
			continue
		}
		decl, ok := r.v.schema.Attributes[name]
		if !ok {
			if ct.AnyAttribute.Process == model.ProcessStrict {
				r.report(xsderrors.ErrWildcardNotDeclared, path, "", nil, "no declaration for attribute %s matched by a strict wildcard", attrLabel(a))
			}
			continue
		}
		if _, err := decl.Type.Validate(a.Value, context()); err != nil {
			r.reportValue(path, a.Value, err)
		}
	}
	for _, use := range ct.Attributes {
		if use.Required && !seen[use] {
			r.report(xsderrors.ErrRequiredAttributeMissing, r.path.String(), "", []string{use.Decl.Name.Local}, "element %s is missing required attribute %s", el.Tag, use.Decl.Name.Local)
		}
	}
}
