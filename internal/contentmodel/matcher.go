package contentmodel

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ands/rifcs/internal/model"
	"github.com/ands/rifcs/internal/qname"
)

// Model is a compiled content model.
type Model interface {
	Start() Matcher
}

// Matcher consumes the child elements of one element instance.
type Matcher interface {
	// Next consumes a child element name.
	Next(name qname.QName) (Match, error)
	// End reports whether the consumed sequence is complete.
	End() error
}

// Match is the term a child element was matched against. Exactly one of
// Element and Wildcard is set.
type Match struct {
	Element  *model.ElementDecl
	Wildcard *model.Wildcard
}

// ErrorKind separates the two ways a child sequence can fail.
type ErrorKind uint8

const (
	// Unexpected means a child element is not allowed at its position.
	Unexpected ErrorKind = iota
	// Incomplete means the content ended before a required element.
	Incomplete
)

// Error is a content model mismatch with the names allowed at that point.
type Error struct {
	Kind     ErrorKind
	Name     qname.QName
	Expected []string
}

func (e *Error) Error() string {
	expected := "nothing"
	if len(e.Expected) > 0 {
		expected = strings.Join(e.Expected, ", ")
	}
	if e.Kind == Incomplete {
		return "content is incomplete, expected " + expected
	}
	return fmt.Sprintf("element %s is not expected here, expected %s", e.Name.Local, expected)
}

// Compile builds the model for a complex type's particle, using the
// dedicated matcher for all groups.
func Compile(particle model.Particle, schema *model.Schema, maxPositions int) (Model, error) {
	if g, ok := particle.(*model.ModelGroup); ok && g.Kind == model.All && g.Max != 0 {
		return newAllModel(g, schema)
	}
	return BuildGlushkov(particle, schema, maxPositions)
}

// Start implements Model.
func (g *Glushkov) Start() Matcher {
	return &glushkovMatcher{g: g}
}

type glushkovMatcher struct {
	g   *Glushkov
	cur *bitset
}

func (m *glushkovMatcher) candidates() *bitset {
	if m.cur == nil {
		return m.g.first
	}
	next := newBitset(len(m.g.positions))
	m.cur.forEach(func(i int) {
		next.or(m.g.follow[i])
	})
	return next
}

func (m *glushkovMatcher) Next(name qname.QName) (Match, error) {
	candidates := m.candidates()
	matched := newBitset(len(m.g.positions))
	var elem, wild Match
	candidates.forEach(func(i int) {
		pos := m.g.positions[i]
		switch {
		case pos.element != nil:
			if decl := m.g.resolve(pos.element, name); decl != nil {
				matched.set(i)
				if elem.Element == nil {
					elem.Element = decl
				}
			}
		case pos.wildcard.Wildcard.Allows(name.Namespace):
			matched.set(i)
			if wild.Wildcard == nil {
				wild.Wildcard = pos.wildcard.Wildcard
			}
		}
	})
	if matched.empty() {
		return Match{}, &Error{Kind: Unexpected, Name: name, Expected: m.g.expected(candidates)}
	}
	m.cur = matched
	if elem.Element != nil {
		return elem, nil
	}
	return wild, nil
}

func (m *glushkovMatcher) End() error {
	if m.cur == nil {
		if m.g.nullable {
			return nil
		}
		return &Error{Kind: Incomplete, Expected: m.g.expected(m.g.first)}
	}
	if m.cur.intersects(m.g.last) {
		return nil
	}
	return &Error{Kind: Incomplete, Expected: m.g.expected(m.candidates())}
}

func (g *Glushkov) resolve(p *model.ElementParticle, name qname.QName) *model.ElementDecl {
	if p.Ref {
		if decl := g.schema.Substitute(p.Decl, name); decl != nil && !decl.Abstract {
			return decl
		}
		return nil
	}
	if p.Decl.Name == name {
		return p.Decl
	}
	return nil
}

func (g *Glushkov) expected(set *bitset) []string {
	var out []string
	set.forEach(func(i int) {
		pos := g.positions[i]
		if pos.element != nil {
			out = append(out, expectedNames(g.schema, pos.element)...)
			return
		}
		out = append(out, describeWildcard(pos.wildcard.Wildcard))
	})
	slices.Sort(out)
	return slices.Compact(out)
}

func expectedNames(schema *model.Schema, p *model.ElementParticle) []string {
	var out []string
	if !p.Decl.Abstract {
		out = append(out, p.Decl.Name.Local)
	}
	if p.Ref && schema != nil {
		for _, member := range schema.Substitutions[p.Decl] {
			if !member.Abstract {
				out = append(out, member.Name.Local)
			}
		}
	}
	return out
}

func describeWildcard(w *model.Wildcard) string {
	switch {
	case w.Any:
		return "any element"
	case w.Other:
		return "any element not in " + quoteNS(w.TargetNS)
	default:
		names := make([]string, len(w.Namespaces))
		for i, ns := range w.Namespaces {
			names[i] = quoteNS(ns)
		}
		return "any element in " + strings.Join(names, " or ")
	}
}

func quoteNS(ns string) string {
	if ns == "" {
		return "no namespace"
	}
	return "{" + ns + "}"
}
