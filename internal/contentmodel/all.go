package contentmodel

import (
	"fmt"
	"slices"

	"github.com/ands/rifcs/internal/model"
	"github.com/ands/rifcs/internal/qname"
)

// allModel matches an all group: each child at most once, in any order.
type allModel struct {
	group    *model.ModelGroup
	children []*model.ElementParticle
	schema   *model.Schema
}

func newAllModel(g *model.ModelGroup, schema *model.Schema) (*allModel, error) {
	if g.Max > 1 || g.Max == model.Unbounded {
		return nil, fmt.Errorf("content model: all group maxOccurs must be 0 or 1")
	}
	m := &allModel{group: g, schema: schema}
	for _, child := range g.Particles {
		ep, ok := child.(*model.ElementParticle)
		if !ok {
			return nil, fmt.Errorf("content model: all group may only contain elements")
		}
		if ep.Max > 1 || ep.Max == model.Unbounded {
			return nil, fmt.Errorf("content model: element %s in all group has maxOccurs > 1", ep.Decl.Name.Local)
		}
		if ep.Max == 0 {
			continue
		}
		m.children = append(m.children, ep)
	}
	return m, nil
}

func (a *allModel) Start() Matcher {
	return &allMatcher{model: a, seen: make([]bool, len(a.children))}
}

type allMatcher struct {
	model *allModel
	seen  []bool
	any   bool
}

func (m *allMatcher) Next(name qname.QName) (Match, error) {
	for i, child := range m.model.children {
		if m.seen[i] {
			continue
		}
		decl := child.Decl
		if child.Ref {
			decl = m.model.schema.Substitute(child.Decl, name)
		} else if decl.Name != name {
			decl = nil
		}
		if decl == nil || decl.Abstract {
			continue
		}
		m.seen[i] = true
		m.any = true
		return Match{Element: decl}, nil
	}
	return Match{}, &Error{Kind: Unexpected, Name: name, Expected: m.remaining(false)}
}

func (m *allMatcher) End() error {
	if !m.any && m.model.group.Min == 0 {
		return nil
	}
	if missing := m.remaining(true); len(missing) > 0 {
		return &Error{Kind: Incomplete, Expected: missing}
	}
	return nil
}

func (m *allMatcher) remaining(requiredOnly bool) []string {
	var out []string
	for i, child := range m.model.children {
		if m.seen[i] || (requiredOnly && child.Min == 0) {
			continue
		}
		out = append(out, expectedNames(m.model.schema, child)...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
