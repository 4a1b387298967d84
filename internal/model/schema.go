// Package model defines the compiled schema components shared by the parser
// and the validator.
package model

import (
	"slices"

	"github.com/ands/rifcs/internal/qname"
)

// Unbounded is the MaxOcc value of a particle without an upper bound.
const Unbounded = -1

// Schema is a compiled schema: the global components of every loaded
// document, keyed by expanded name.
type Schema struct {
	Elements   map[qname.QName]*ElementDecl
	Attributes map[qname.QName]*AttributeDecl
	Types      map[qname.QName]Type

	// ComplexTypes lists every complex type, named or anonymous, so that
	// content models can be compiled ahead of validation.
	ComplexTypes []*ComplexType

	// Substitutions maps a head element to the members of its substitution
	// group, transitively, in declaration order.
	Substitutions map[*ElementDecl][]*ElementDecl
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{
		Elements:      map[qname.QName]*ElementDecl{},
		Attributes:    map[qname.QName]*AttributeDecl{},
		Types:         map[qname.QName]Type{},
		Substitutions: map[*ElementDecl][]*ElementDecl{},
	}
}

// Substitute returns the declaration that name selects for a reference to
// head: head itself or a member of its substitution group.
func (s *Schema) Substitute(head *ElementDecl, name qname.QName) *ElementDecl {
	if head.Name == name {
		return head
	}
	if s == nil {
		return nil
	}
	for _, member := range s.Substitutions[head] {
		if member.Name == name {
			return member
		}
	}
	return nil
}

// ElementDecl is an element declaration, global or local.
type ElementDecl struct {
	Name              qname.QName
	Type              Type
	SubstitutionGroup qname.QName
	Default           string
	Fixed             string
	HasDefault        bool
	HasFixed          bool
	Nillable          bool
	Abstract          bool
	Global            bool
}

// AttributeDecl is an attribute declaration.
type AttributeDecl struct {
	Name       qname.QName
	Type       *SimpleType
	Default    string
	Fixed      string
	HasDefault bool
	HasFixed   bool
}

// AttributeUse binds a declaration to a complex type.
type AttributeUse struct {
	Decl       *AttributeDecl
	Default    string
	Fixed      string
	HasDefault bool
	HasFixed   bool
	Required   bool
	Prohibited bool
}

// FixedValue returns the fixed value in force for the use, if any.
func (u *AttributeUse) FixedValue() (string, bool) {
	if u.HasFixed {
		return u.Fixed, true
	}
	if u.Decl != nil && u.Decl.HasFixed {
		return u.Decl.Fixed, true
	}
	return "", false
}

// ProcessContents is the processContents mode of a wildcard.
type ProcessContents uint8

const (
	ProcessStrict ProcessContents = iota
	ProcessLax
	ProcessSkip
)

// Wildcard is an element or attribute wildcard.
type Wildcard struct {
	// Other is set for ##other: any namespace except TargetNS and absent.
	Other    bool
	Any      bool
	TargetNS string
	// Namespaces is the explicit list; the empty string stands for ##local.
	Namespaces []string
	Process    ProcessContents
}

// Allows reports whether ns is matched by the wildcard's namespace constraint.
func (w *Wildcard) Allows(ns string) bool {
	switch {
	case w == nil:
		return false
	case w.Any:
		return true
	case w.Other:
		return ns != "" && ns != w.TargetNS
	default:
		return slices.Contains(w.Namespaces, ns)
	}
}

// Particle is a term with occurrence bounds.
type Particle interface {
	MinOcc() int
	MaxOcc() int
}

// ElementParticle places an element declaration in a content model.
// Ref is set when the declaration is global and may be substituted.
type ElementParticle struct {
	Decl *ElementDecl
	Min  int
	Max  int
	Ref  bool
}

func (p *ElementParticle) MinOcc() int { return p.Min }
func (p *ElementParticle) MaxOcc() int { return p.Max }

// WildcardParticle places an element wildcard in a content model.
type WildcardParticle struct {
	Wildcard *Wildcard
	Min      int
	Max      int
}

func (p *WildcardParticle) MinOcc() int { return p.Min }
func (p *WildcardParticle) MaxOcc() int { return p.Max }

// GroupKind is the compositor of a model group.
type GroupKind uint8

const (
	Sequence GroupKind = iota
	Choice
	All
)

func (k GroupKind) String() string {
	switch k {
	case Sequence:
		return "sequence"
	case Choice:
		return "choice"
	case All:
		return "all"
	default:
		return "unknown"
	}
}

// ModelGroup is a sequence, choice or all group.
type ModelGroup struct {
	Kind      GroupKind
	Particles []Particle
	Min       int
	Max       int
}

func (g *ModelGroup) MinOcc() int { return g.Min }
func (g *ModelGroup) MaxOcc() int { return g.Max }

// IsEmptyParticle reports whether p can match nothing but the empty sequence.
func IsEmptyParticle(p Particle) bool {
	if p == nil || p.MaxOcc() == 0 {
		return true
	}
	g, ok := p.(*ModelGroup)
	if !ok {
		return false
	}
	for _, child := range g.Particles {
		if !IsEmptyParticle(child) {
			return false
		}
	}
	return true
}

// Type is a simple or complex type definition.
type Type interface {
	TypeName() qname.QName
	BaseType() Type
}

// DerivedFrom reports whether t is base or derives from it.
func DerivedFrom(t, base Type) bool {
	if IsAnyType(base) {
		return true
	}
	for cur := t; cur != nil; cur = cur.BaseType() {
		if cur == base {
			return true
		}
	}
	return false
}
