// Package validator checks instance trees against a compiled schema.
package validator

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	xsderrors "github.com/ands/rifcs/errors"
	"github.com/ands/rifcs/internal/contentmodel"
	"github.com/ands/rifcs/internal/model"
	"github.com/ands/rifcs/internal/qname"
)

// Options tunes compilation and validation.
type Options struct {
	// MaxPositions bounds the expansion of a single content model.
	MaxPositions int
	// MaxErrors stops collecting violations once reached; zero means no limit.
	MaxErrors int
}

// Validator is a compiled schema ready to validate instances. It holds no
// per-document state and is safe for concurrent use.
type Validator struct {
	schema *model.Schema
	models map[*model.ComplexType]contentmodel.Model
	opts   Options
}

// Compile builds the content model automaton of every complex type.
func Compile(schema *model.Schema, opts Options) (*Validator, error) {
	v := &Validator{
		schema: schema,
		models: make(map[*model.ComplexType]contentmodel.Model, len(schema.ComplexTypes)+1),
		opts:   opts,
	}
	for _, ct := range append([]*model.ComplexType{model.AnyType()}, schema.ComplexTypes...) {
		if ct.Content == model.ContentSimple {
			continue
		}
		m, err := contentmodel.Compile(ct.Particle, schema, opts.MaxPositions)
		if err != nil {
			return nil, fmt.Errorf("compile content model of %s: %w", typeName(ct), err)
		}
		v.models[ct] = m
	}
	return v, nil
}

// Schema returns the compiled components.
func (v *Validator) Schema() *model.Schema { return v.schema }

// Validate checks doc and returns nil or an errors.ValidationList.
func (v *Validator) Validate(doc *etree.Document) error {
	r := &run{v: v}
	root := doc.Root()
	if root == nil {
		return xsderrors.ValidationList{xsderrors.NewValidation(xsderrors.ErrNoRoot, "document has no root element", "")}
	}
	r.path.push(root)
	name := qname.OfElement(root)
	if decl, ok := v.schema.Elements[name]; ok {
		r.element(root, decl)
	} else {
		r.report(xsderrors.ErrRootNotDeclared, r.path.String(), "", nil, "no declaration for root element %s", name)
	}
	if len(r.errs) == 0 {
		return nil
	}
	return r.errs
}

// run holds the state of one Validate call.
type run struct {
	v    *Validator
	path pathStack
	errs xsderrors.ValidationList
}

// stop reports whether the error limit has been reached.
func (r *run) stop() bool {
	return r.v.opts.MaxErrors > 0 && len(r.errs) >= r.v.opts.MaxErrors
}

func (r *run) report(code xsderrors.ErrorCode, path, actual string, expected []string, format string, args ...any) {
	if r.stop() {
		return
	}
	violation := xsderrors.NewValidationf(code, path, format, args...)
	violation.Actual = actual
	violation.Expected = expected
	r.errs = append(r.errs, violation)
}

// reportValue maps a simple type failure to a datatype or facet violation.
func (r *run) reportValue(path, value string, err error) {
	code := xsderrors.ErrDatatypeInvalid
	if verr, ok := err.(*model.ValueError); ok && verr.Facet != "" {
		code = xsderrors.ErrFacetViolation
	}
	r.report(code, path, value, nil, "%s", err.Error())
}

func typeName(t model.Type) string {
	if t == nil {
		return "(none)"
	}
	if name := t.TypeName(); !name.IsZero() {
		return name.Local
	}
	return "(anonymous)"
}

// textContent concatenates the character data directly under el.
func textContent(el *etree.Element) string {
	var b strings.Builder
	for _, tok := range el.Child {
		if cd, ok := tok.(*etree.CharData); ok {
			b.WriteString(cd.Data)
		}
	}
	return b.String()
}
