package rifcs

import "github.com/beevik/etree"

// Identifier is a typed identifier of an object, format or citation.
type Identifier struct{ typed }

func wrapIdentifier(el *etree.Element) (*Identifier, error) {
	n, err := NewNode(el, elemIdentifier)
	if err != nil {
		return nil, err
	}
	return &Identifier{typed{n}}, nil
}

// NamePart is one typed part of a name.
type NamePart struct{ typed }

func wrapNamePart(el *etree.Element) (*NamePart, error) {
	n, err := NewNode(el, elemNamePart)
	if err != nil {
		return nil, err
	}
	return &NamePart{typed{n}}, nil
}

// Description is typed free text with an optional language.
type Description struct{ typed }

func wrapDescription(el *etree.Element) (*Description, error) {
	n, err := NewNode(el, elemDescription)
	if err != nil {
		return nil, err
	}
	return &Description{typed{n}}, nil
}

// Subject is a typed subject term.
type Subject struct{ typed }

func wrapSubject(el *etree.Element) (*Subject, error) {
	n, err := NewNode(el, elemSubject)
	if err != nil {
		return nil, err
	}
	return &Subject{typed{n}}, nil
}

// TermIdentifier returns the termIdentifier attribute.
func (s *Subject) TermIdentifier() string { return s.Attr(attrTermIdentifier) }

// SetTermIdentifier sets the termIdentifier attribute.
func (s *Subject) SetTermIdentifier(v string) { s.SetAttr(attrTermIdentifier, v) }

// AddressPart is one typed line of a physical address.
type AddressPart struct{ typed }

func wrapAddressPart(el *etree.Element) (*AddressPart, error) {
	n, err := NewNode(el, elemAddressPart)
	if err != nil {
		return nil, err
	}
	return &AddressPart{typed{n}}, nil
}

// Spatial is a typed spatial location or coverage value.
type Spatial struct{ typed }

func wrapSpatial(el *etree.Element) (*Spatial, error) {
	n, err := NewNode(el, elemSpatial)
	if err != nil {
		return nil, err
	}
	return &Spatial{typed{n}}, nil
}

// Arg describes an argument of an electronic address. Its text is the
// argument name.
type Arg struct{ typed }

func wrapArg(el *etree.Element) (*Arg, error) {
	n, err := NewNode(el, elemArg)
	if err != nil {
		return nil, err
	}
	return &Arg{typed{n}}, nil
}

// Required returns the required attribute.
func (a *Arg) Required() string { return a.Attr(attrRequired) }

// SetRequired sets the required attribute.
func (a *Arg) SetRequired(v string) { a.SetAttr(attrRequired, v) }

// Use returns the use attribute.
func (a *Arg) Use() string { return a.Attr(attrUse) }

// SetUse sets the use attribute.
func (a *Arg) SetUse(v string) { a.SetAttr(attrUse, v) }

// Date is a date element with optional type and dateFormat attributes.
type Date struct{ typed }

func wrapDate(el *etree.Element) (*Date, error) {
	n, err := NewNode(el, elemDate)
	if err != nil {
		return nil, err
	}
	return &Date{typed{n}}, nil
}

// DateFormat returns the dateFormat attribute.
func (d *Date) DateFormat() string { return d.Attr(attrDateFormat) }

// SetDateFormat sets the dateFormat attribute.
func (d *Date) SetDateFormat(v string) { d.SetAttr(attrDateFormat, v) }

// DateBound is the start or end date of existenceDates.
type DateBound struct{ Node }

func wrapDateBound(name string) func(*etree.Element) (*DateBound, error) {
	return func(el *etree.Element) (*DateBound, error) {
		n, err := NewNode(el, name)
		if err != nil {
			return nil, err
		}
		return &DateBound{n}, nil
	}
}

// DateFormat returns the dateFormat attribute.
func (d *DateBound) DateFormat() string { return d.Attr(attrDateFormat) }

// SetDateFormat sets the dateFormat attribute.
func (d *DateBound) SetDateFormat(v string) { d.SetAttr(attrDateFormat, v) }

// Relation types the link from a related object or related info.
type Relation struct{ typed }

func wrapRelation(el *etree.Element) (*Relation, error) {
	n, err := NewNode(el, elemRelation)
	if err != nil {
		return nil, err
	}
	return &Relation{typed{n}}, nil
}

// Description returns the relation's description text.
func (r *Relation) Description() string { return r.childText(elemDescription) }

// SetDescription sets the relation's description text.
func (r *Relation) SetDescription(v string) { r.setChildText(elemDescription, v) }

// URL returns the relation's url text.
func (r *Relation) URL() string { return r.childText(elemURL) }

// SetURL sets the relation's url text.
func (r *Relation) SetURL(v string) { r.setChildText(elemURL, v) }

// RightsInfo is a rights statement, licence or access rights entry.
type RightsInfo struct{ typed }

func wrapRightsInfo(name string) func(*etree.Element) (*RightsInfo, error) {
	return func(el *etree.Element) (*RightsInfo, error) {
		n, err := NewNode(el, name)
		if err != nil {
			return nil, err
		}
		return &RightsInfo{typed{n}}, nil
	}
}

// RightsURI returns the rightsUri attribute.
func (r *RightsInfo) RightsURI() string { return r.Attr(attrRightsURI) }

// SetRightsURI sets the rightsUri attribute.
func (r *RightsInfo) SetRightsURI(v string) { r.SetAttr(attrRightsURI, v) }

// AccessPolicy is a URL describing how a service may be used.
type AccessPolicy struct{ Node }

func wrapAccessPolicy(el *etree.Element) (*AccessPolicy, error) {
	n, err := NewNode(el, elemAccessPolicy)
	if err != nil {
		return nil, err
	}
	return &AccessPolicy{n}, nil
}
