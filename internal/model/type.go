package model

import "github.com/ands/rifcs/internal/qname"

// Derivation is the derivation method of a type.
type Derivation uint8

const (
	DerivationNone Derivation = iota
	DerivationExtension
	DerivationRestriction
)

// ContentKind is the content type variety of a complex type.
type ContentKind uint8

const (
	ContentEmpty ContentKind = iota
	ContentSimple
	ContentElementOnly
	ContentMixed
)

// ComplexType is a complex type definition with its effective content and
// attribute uses already merged along the derivation chain.
type ComplexType struct {
	Name         qname.QName
	Base         Type
	Derivation   Derivation
	Abstract     bool
	Content      ContentKind
	Particle     Particle
	Simple       *SimpleType
	Attributes   []*AttributeUse
	AnyAttribute *Wildcard
}

// TypeName implements Type.
func (t *ComplexType) TypeName() qname.QName { return t.Name }

// BaseType implements Type.
func (t *ComplexType) BaseType() Type {
	if t.Base == nil {
		return nil
	}
	return t.Base
}

// Attribute returns the attribute use declared for name.
func (t *ComplexType) Attribute(name qname.QName) *AttributeUse {
	for _, use := range t.Attributes {
		if use.Decl.Name == name {
			return use
		}
	}
	return nil
}

var anyType = &ComplexType{
	Name:         qname.XSD("anyType"),
	Content:      ContentMixed,
	Particle:     &ModelGroup{Kind: Sequence, Min: 1, Max: 1, Particles: []Particle{&WildcardParticle{Wildcard: &Wildcard{Any: true, Process: ProcessLax}, Min: 0, Max: Unbounded}}},
	AnyAttribute: &Wildcard{Any: true, Process: ProcessLax},
}

// AnyType returns the xs:anyType ur-type.
func AnyType() *ComplexType { return anyType }

// IsAnyType reports whether t is xs:anyType.
func IsAnyType(t Type) bool {
	ct, ok := t.(*ComplexType)
	return ok && ct == anyType
}

// Variety is the variety of a simple type.
type Variety uint8

const (
	Atomic Variety = iota
	List
	Union
)

// SimpleType is a simple type definition. Facets holds only the facets of
// this derivation step; Validate applies the whole chain.
type SimpleType struct {
	Name       qname.QName
	Base       *SimpleType
	Variety    Variety
	Item       *SimpleType
	Members    []*SimpleType
	Facets     []Facet
	WhiteSpace WhiteSpace
	Primitive  Primitive

	// check is the built-in lexical rule for this step, if any.
	check func(string) error
}

// TypeName implements Type.
func (t *SimpleType) TypeName() qname.QName { return t.Name }

// BaseType implements Type.
func (t *SimpleType) BaseType() Type {
	if t.Base == nil {
		if t == anySimpleType {
			return anyType
		}
		return nil
	}
	return t.Base
}

// Restrict returns a new anonymous atomic, list or union type derived from
// base by restriction, inheriting its variety and whitespace.
func Restrict(name qname.QName, base *SimpleType) *SimpleType {
	return &SimpleType{
		Name:       name,
		Base:       base,
		Variety:    base.Variety,
		Item:       base.Item,
		Members:    base.Members,
		WhiteSpace: base.WhiteSpace,
		Primitive:  base.Primitive,
	}
}

// NewList returns a list type over item.
func NewList(name qname.QName, item *SimpleType) *SimpleType {
	return &SimpleType{
		Name:       name,
		Base:       anySimpleType,
		Variety:    List,
		Item:       item,
		WhiteSpace: Collapse,
		Primitive:  PrimitiveAnySimple,
	}
}

// NewUnion returns a union type over members.
func NewUnion(name qname.QName, members []*SimpleType) *SimpleType {
	return &SimpleType{
		Name:       name,
		Base:       anySimpleType,
		Variety:    Union,
		Members:    members,
		WhiteSpace: Collapse,
		Primitive:  PrimitiveAnySimple,
	}
}
