// Package contentmodel compiles element content models into position
// automata and matches child element sequences against them.
package contentmodel

import (
	"fmt"

	"github.com/ands/rifcs/internal/model"
)

// DefaultMaxPositions bounds the number of positions a single content model
// may expand to.
const DefaultMaxPositions = 20000

// position is one occurrence of an element or wildcard term after the
// occurrence bounds of every enclosing particle have been expanded.
type position struct {
	element  *model.ElementParticle
	wildcard *model.WildcardParticle
}

// Glushkov is the position automaton of a content model.
type Glushkov struct {
	positions []position
	first     *bitset
	last      *bitset
	follow    []*bitset
	nullable  bool
	schema    *model.Schema
}

type builder struct {
	size      int
	positions []position
	follow    []*bitset
}

// BuildGlushkov compiles particle into a position automaton. schema resolves
// substitution groups for global element references and may be nil.
func BuildGlushkov(particle model.Particle, schema *model.Schema, maxPositions int) (*Glushkov, error) {
	if maxPositions <= 0 {
		maxPositions = DefaultMaxPositions
	}
	size, err := countPositions(particle, maxPositions)
	if err != nil {
		return nil, err
	}
	b := &builder{size: size}
	root, err := b.buildParticle(particle)
	if err != nil {
		return nil, err
	}
	g := &Glushkov{
		positions: b.positions,
		follow:    b.follow,
		schema:    schema,
		first:     newBitset(size),
		last:      newBitset(size),
		nullable:  true,
	}
	if root != nil {
		g.first = root.firstPos()
		g.last = root.lastPos()
		g.nullable = root.nullable()
	}
	return g, nil
}

// countPositions returns how many positions particle expands to.
func countPositions(p model.Particle, limit int) (int, error) {
	if p == nil || p.MaxOcc() == 0 {
		return 0, nil
	}
	var terms int
	switch t := p.(type) {
	case *model.ElementParticle, *model.WildcardParticle:
		terms = 1
	case *model.ModelGroup:
		for _, child := range t.Particles {
			n, err := countPositions(child, limit)
			if err != nil {
				return 0, err
			}
			terms += n
		}
	default:
		return 0, fmt.Errorf("content model: unsupported particle %T", p)
	}
	copies := p.MaxOcc()
	if copies == model.Unbounded {
		copies = max(p.MinOcc(), 1)
	}
	total := terms * copies
	if total > limit {
		return 0, fmt.Errorf("content model expands to more than %d positions", limit)
	}
	return total, nil
}

// buildParticle returns nil for a particle that only matches the empty
// sequence.
func (b *builder) buildParticle(p model.Particle) (node, error) {
	if p == nil || p.MaxOcc() == 0 {
		return nil, nil
	}
	minOcc, maxOcc := occursBounds(p)
	if maxOcc == model.Unbounded {
		return b.buildUnbounded(p, minOcc)
	}
	return b.buildBounded(p, minOcc, maxOcc)
}

func occursBounds(p model.Particle) (int, int) {
	minOcc := max(p.MinOcc(), 0)
	return minOcc, p.MaxOcc()
}

func (b *builder) buildUnbounded(p model.Particle, minOcc int) (node, error) {
	if minOcc == 0 {
		term, err := b.buildTerm(p)
		if err != nil || term == nil {
			return nil, err
		}
		return b.star(term), nil
	}
	var prefix node
	for range minOcc - 1 {
		term, err := b.buildTerm(p)
		if err != nil {
			return nil, err
		}
		prefix = b.seq(prefix, term)
	}
	term, err := b.buildTerm(p)
	if err != nil {
		return nil, err
	}
	if term == nil {
		return prefix, nil
	}
	return b.seq(prefix, b.plus(term)), nil
}

func (b *builder) buildBounded(p model.Particle, minOcc, maxOcc int) (node, error) {
	var result node
	for range minOcc {
		term, err := b.buildTerm(p)
		if err != nil {
			return nil, err
		}
		result = b.seq(result, term)
	}
	var tail node
	for range maxOcc - minOcc {
		term, err := b.buildTerm(p)
		if err != nil {
			return nil, err
		}
		if term == nil {
			continue
		}
		tail = b.seq(term, tail)
		tail = b.opt(tail)
	}
	return b.seq(result, tail), nil
}

func (b *builder) buildTerm(p model.Particle) (node, error) {
	switch t := p.(type) {
	case *model.ElementParticle:
		return b.leaf(position{element: t}), nil
	case *model.WildcardParticle:
		return b.leaf(position{wildcard: t}), nil
	case *model.ModelGroup:
		if t.Kind == model.All {
			return nil, fmt.Errorf("content model: all group must be the whole content model")
		}
		// The first child seeds the fold so that a nil operand in alt only
		// ever stands for an empty alternative.
		var result node
		for i, child := range t.Particles {
			n, err := b.buildParticle(child)
			if err != nil {
				return nil, err
			}
			switch {
			case i == 0:
				result = n
			case t.Kind == model.Sequence:
				result = b.seq(result, n)
			default:
				result = b.alt(result, n)
			}
		}
		return result, nil
	default:
		return nil, fmt.Errorf("content model: unsupported particle %T", p)
	}
}

func (b *builder) leaf(pos position) node {
	idx := len(b.positions)
	b.positions = append(b.positions, pos)
	b.follow = append(b.follow, newBitset(b.size))
	return newLeaf(idx, b.size)
}

// seq treats a nil operand as the empty sequence.
func (b *builder) seq(left, right node) node {
	switch {
	case left == nil:
		return right
	case right == nil:
		return left
	}
	left.lastPos().forEach(func(i int) {
		b.follow[i].or(right.firstPos())
	})
	return newSeq(left, right)
}

// alt treats a nil operand as the empty sequence.
func (b *builder) alt(left, right node) node {
	switch {
	case left == nil && right == nil:
		return nil
	case left == nil:
		return b.opt(right)
	case right == nil:
		return b.opt(left)
	}
	return newAlt(left, right)
}

func (b *builder) star(child node) node {
	b.loop(child)
	return &repeatNode{child: child, star: true}
}

func (b *builder) plus(child node) node {
	b.loop(child)
	return &repeatNode{child: child}
}

func (b *builder) opt(child node) node {
	if child == nil || child.nullable() {
		return child
	}
	return &optNode{child: child}
}

func (b *builder) loop(child node) {
	child.lastPos().forEach(func(i int) {
		b.follow[i].or(child.firstPos())
	})
}

// Positions returns the number of positions in the automaton.
func (g *Glushkov) Positions() int { return len(g.positions) }

// Nullable reports whether the content model accepts no children.
func (g *Glushkov) Nullable() bool { return g.nullable }
