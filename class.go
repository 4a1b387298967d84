package rifcs

import (
	"time"

	"github.com/beevik/etree"

	"github.com/ands/rifcs/errors"
)

// ObjectClass is the variant kind of a registry object.
type ObjectClass string

// Object classes. Unclassified marks a registry object without a class child.
const (
	Unclassified    ObjectClass = ""
	ClassCollection ObjectClass = "collection"
	ClassActivity   ObjectClass = "activity"
	ClassParty      ObjectClass = "party"
	ClassService    ObjectClass = "service"
)

// Classes lists the object classes in schema order.
var Classes = []ObjectClass{ClassActivity, ClassCollection, ClassParty, ClassService}

// Valid reports whether c is one of the four object classes.
func (c ObjectClass) Valid() bool {
	switch c {
	case ClassCollection, ClassActivity, ClassParty, ClassService:
		return true
	default:
		return false
	}
}

// ClassObject is the class child of a registry object: exactly one of
// *Collection, *Activity, *Party or *Service.
type ClassObject interface {
	element
	Class() ObjectClass
	Body() *ClassBody
	sealed()
}

// wrapClass binds el to the container of its class. A failed wrap never
// yields a non-nil interface.
func wrapClass(class ObjectClass, el *etree.Element) (ClassObject, error) {
	switch class {
	case ClassCollection:
		c, err := wrapCollection(el)
		if err != nil {
			return nil, err
		}
		return c, nil
	case ClassActivity:
		a, err := wrapActivity(el)
		if err != nil {
			return nil, err
		}
		return a, nil
	case ClassParty:
		p, err := wrapParty(el)
		if err != nil {
			return nil, err
		}
		return p, nil
	case ClassService:
		s, err := wrapService(el)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, errors.Structuref("bind", string(class), "unknown object class")
	}
}

// ClassBody holds the children shared by the four object classes.
type ClassBody struct {
	typed
	identifiers    []*Identifier
	names          []*Name
	locations      []*Location
	coverages      []*Coverage
	relatedObjects []*RelatedObject
	subjects       []*Subject
	descriptions   []*Description
	rights         []*Rights
	existenceDates []*ExistenceDates
	relatedInfos   []*RelatedInfo
}

func wrapBody(el *etree.Element, class ObjectClass) (ClassBody, error) {
	n, err := NewNode(el, string(class))
	if err != nil {
		return ClassBody{}, err
	}
	b := ClassBody{typed: typed{n}}
	if b.identifiers, err = collect(n, elemIdentifier, wrapIdentifier); err != nil {
		return ClassBody{}, err
	}
	if b.names, err = collect(n, elemName, wrapName); err != nil {
		return ClassBody{}, err
	}
	if b.locations, err = collect(n, elemLocation, wrapLocation); err != nil {
		return ClassBody{}, err
	}
	if b.coverages, err = collect(n, elemCoverage, wrapCoverage); err != nil {
		return ClassBody{}, err
	}
	if b.relatedObjects, err = collect(n, elemRelatedObject, wrapRelatedObject); err != nil {
		return ClassBody{}, err
	}
	if b.subjects, err = collect(n, elemSubject, wrapSubject); err != nil {
		return ClassBody{}, err
	}
	if b.descriptions, err = collect(n, elemDescription, wrapDescription); err != nil {
		return ClassBody{}, err
	}
	if b.rights, err = collect(n, elemRights, wrapRights); err != nil {
		return ClassBody{}, err
	}
	if b.existenceDates, err = collect(n, elemExistenceDates, wrapExistenceDates); err != nil {
		return ClassBody{}, err
	}
	if b.relatedInfos, err = collect(n, elemRelatedInfo, wrapRelatedInfo); err != nil {
		return ClassBody{}, err
	}
	return b, nil
}

// Body returns the shared children of the class object.
func (b *ClassBody) Body() *ClassBody { return b }

// DateModified returns the dateModified attribute.
func (b *ClassBody) DateModified() string { return b.Attr(attrDateModified) }

// SetDateModified sets the dateModified attribute from a timestamp.
func (b *ClassBody) SetDateModified(t time.Time) { b.SetAttr(attrDateModified, FormatTimestamp(t)) }

// NewIdentifier returns a detached identifier.
func (b *ClassBody) NewIdentifier() (*Identifier, error) {
	return create(b.Node, elemIdentifier, wrapIdentifier)
}

// AddIdentifier appends id.
func (b *ClassBody) AddIdentifier(id *Identifier) error {
	return appendTo(b.Node, &b.identifiers, id)
}

// AddIdentifierValue appends an identifier with the given text and type.
func (b *ClassBody) AddIdentifierValue(value, idType string) (*Identifier, error) {
	return addIdentifier(b.Node, &b.identifiers, value, idType)
}

// Identifiers returns the identifiers in document order.
func (b *ClassBody) Identifiers() []*Identifier { return snapshot(b.identifiers) }

// NewName returns a detached name.
func (b *ClassBody) NewName() (*Name, error) { return create(b.Node, elemName, wrapName) }

// AddName appends name.
func (b *ClassBody) AddName(name *Name) error { return appendTo(b.Node, &b.names, name) }

// Names returns the names in document order.
func (b *ClassBody) Names() []*Name { return snapshot(b.names) }

// NewLocation returns a detached location.
func (b *ClassBody) NewLocation() (*Location, error) {
	return create(b.Node, elemLocation, wrapLocation)
}

// AddLocation appends l.
func (b *ClassBody) AddLocation(l *Location) error { return appendTo(b.Node, &b.locations, l) }

// Locations returns the locations in document order.
func (b *ClassBody) Locations() []*Location { return snapshot(b.locations) }

// NewCoverage returns a detached coverage.
func (b *ClassBody) NewCoverage() (*Coverage, error) {
	return create(b.Node, elemCoverage, wrapCoverage)
}

// AddCoverage appends c.
func (b *ClassBody) AddCoverage(c *Coverage) error { return appendTo(b.Node, &b.coverages, c) }

// Coverages returns the coverages in document order.
func (b *ClassBody) Coverages() []*Coverage { return snapshot(b.coverages) }

// NewRelatedObject returns a detached related object.
func (b *ClassBody) NewRelatedObject() (*RelatedObject, error) {
	return create(b.Node, elemRelatedObject, wrapRelatedObject)
}

// AddRelatedObject appends r.
func (b *ClassBody) AddRelatedObject(r *RelatedObject) error {
	return appendTo(b.Node, &b.relatedObjects, r)
}

// RelatedObjects returns the related objects in document order.
func (b *ClassBody) RelatedObjects() []*RelatedObject { return snapshot(b.relatedObjects) }

// NewSubject returns a detached subject.
func (b *ClassBody) NewSubject() (*Subject, error) {
	return create(b.Node, elemSubject, wrapSubject)
}

// AddSubject appends s.
func (b *ClassBody) AddSubject(s *Subject) error { return appendTo(b.Node, &b.subjects, s) }

// AddSubjectValue appends a subject with the given text, type and language.
// An empty lang leaves xml:lang unset.
func (b *ClassBody) AddSubjectValue(value, subjectType, lang string) (*Subject, error) {
	s, err := b.NewSubject()
	if err != nil {
		return nil, err
	}
	s.SetText(value)
	s.SetType(subjectType)
	if lang != "" {
		s.SetLang(lang)
	}
	return s, b.AddSubject(s)
}

// Subjects returns the subjects in document order.
func (b *ClassBody) Subjects() []*Subject { return snapshot(b.subjects) }

// NewDescription returns a detached description.
func (b *ClassBody) NewDescription() (*Description, error) {
	return create(b.Node, elemDescription, wrapDescription)
}

// AddDescription appends d.
func (b *ClassBody) AddDescription(d *Description) error {
	return appendTo(b.Node, &b.descriptions, d)
}

// AddDescriptionValue appends a description with the given text, type and
// language. An empty lang leaves xml:lang unset.
func (b *ClassBody) AddDescriptionValue(value, descType, lang string) (*Description, error) {
	d, err := b.NewDescription()
	if err != nil {
		return nil, err
	}
	d.SetText(value)
	d.SetType(descType)
	if lang != "" {
		d.SetLang(lang)
	}
	return d, b.AddDescription(d)
}

// Descriptions returns the descriptions in document order.
func (b *ClassBody) Descriptions() []*Description { return snapshot(b.descriptions) }

// NewRights returns detached rights.
func (b *ClassBody) NewRights() (*Rights, error) { return create(b.Node, elemRights, wrapRights) }

// AddRights appends r.
func (b *ClassBody) AddRights(r *Rights) error { return appendTo(b.Node, &b.rights, r) }

// Rights returns the rights in document order.
func (b *ClassBody) Rights() []*Rights { return snapshot(b.rights) }

// NewExistenceDates returns detached existence dates.
func (b *ClassBody) NewExistenceDates() (*ExistenceDates, error) {
	return create(b.Node, elemExistenceDates, wrapExistenceDates)
}

// AddExistenceDates appends e.
func (b *ClassBody) AddExistenceDates(e *ExistenceDates) error {
	return appendTo(b.Node, &b.existenceDates, e)
}

// AddExistenceDatesValue appends existence dates with the given bounds.
// An empty bound is left out.
func (b *ClassBody) AddExistenceDatesValue(start, startFormat, end, endFormat string) (*ExistenceDates, error) {
	e, err := b.NewExistenceDates()
	if err != nil {
		return nil, err
	}
	if start != "" {
		if err := e.SetStartDate(start, startFormat); err != nil {
			return nil, err
		}
	}
	if end != "" {
		if err := e.SetEndDate(end, endFormat); err != nil {
			return nil, err
		}
	}
	return e, b.AddExistenceDates(e)
}

// ExistenceDates returns the existence dates in document order.
func (b *ClassBody) ExistenceDates() []*ExistenceDates { return snapshot(b.existenceDates) }

// NewRelatedInfo returns detached related info.
func (b *ClassBody) NewRelatedInfo() (*RelatedInfo, error) {
	return create(b.Node, elemRelatedInfo, wrapRelatedInfo)
}

// AddRelatedInfo appends r.
func (b *ClassBody) AddRelatedInfo(r *RelatedInfo) error {
	return appendTo(b.Node, &b.relatedInfos, r)
}

// RelatedInfos returns the related info entries in document order.
func (b *ClassBody) RelatedInfos() []*RelatedInfo { return snapshot(b.relatedInfos) }

// Collection describes a collection of data or objects.
type Collection struct {
	ClassBody
	dates         []*Dates
	citationInfos []*CitationInfo
}

func wrapCollection(el *etree.Element) (*Collection, error) {
	body, err := wrapBody(el, ClassCollection)
	if err != nil {
		return nil, err
	}
	c := &Collection{ClassBody: body}
	if c.dates, err = collect(body.Node, elemDates, wrapDates); err != nil {
		return nil, err
	}
	if c.citationInfos, err = collect(body.Node, elemCitationInfo, wrapCitationInfo); err != nil {
		return nil, err
	}
	return c, nil
}

// Class returns ClassCollection.
func (*Collection) Class() ObjectClass { return ClassCollection }

func (*Collection) sealed() {}

// DateAccessioned returns the dateAccessioned attribute.
func (c *Collection) DateAccessioned() string { return c.Attr(attrDateAccessioned) }

// SetDateAccessioned sets the dateAccessioned attribute from a timestamp.
func (c *Collection) SetDateAccessioned(t time.Time) {
	c.SetAttr(attrDateAccessioned, FormatTimestamp(t))
}

// NewDates returns detached dates.
func (c *Collection) NewDates() (*Dates, error) { return create(c.Node, elemDates, wrapDates) }

// AddDates appends d.
func (c *Collection) AddDates(d *Dates) error { return appendTo(c.Node, &c.dates, d) }

// Dates returns the dates groups in document order.
func (c *Collection) Dates() []*Dates { return snapshot(c.dates) }

// NewCitationInfo returns detached citation info.
func (c *Collection) NewCitationInfo() (*CitationInfo, error) {
	return create(c.Node, elemCitationInfo, wrapCitationInfo)
}

// AddCitationInfo appends ci.
func (c *Collection) AddCitationInfo(ci *CitationInfo) error {
	return appendTo(c.Node, &c.citationInfos, ci)
}

// CitationInfos returns the citation info entries in document order.
func (c *Collection) CitationInfos() []*CitationInfo { return snapshot(c.citationInfos) }

// Activity describes a project, program or other undertaking.
type Activity struct{ ClassBody }

func wrapActivity(el *etree.Element) (*Activity, error) {
	body, err := wrapBody(el, ClassActivity)
	if err != nil {
		return nil, err
	}
	return &Activity{body}, nil
}

// Class returns ClassActivity.
func (*Activity) Class() ObjectClass { return ClassActivity }

func (*Activity) sealed() {}

// Party describes a person or group.
type Party struct{ ClassBody }

func wrapParty(el *etree.Element) (*Party, error) {
	body, err := wrapBody(el, ClassParty)
	if err != nil {
		return nil, err
	}
	return &Party{body}, nil
}

// Class returns ClassParty.
func (*Party) Class() ObjectClass { return ClassParty }

func (*Party) sealed() {}

// Service describes a system providing access to collections.
type Service struct {
	ClassBody
	policies []*AccessPolicy
}

func wrapService(el *etree.Element) (*Service, error) {
	body, err := wrapBody(el, ClassService)
	if err != nil {
		return nil, err
	}
	policies, err := collect(body.Node, elemAccessPolicy, wrapAccessPolicy)
	if err != nil {
		return nil, err
	}
	return &Service{ClassBody: body, policies: policies}, nil
}

// Class returns ClassService.
func (*Service) Class() ObjectClass { return ClassService }

func (*Service) sealed() {}

// NewAccessPolicy returns a detached access policy.
func (s *Service) NewAccessPolicy() (*AccessPolicy, error) {
	return create(s.Node, elemAccessPolicy, wrapAccessPolicy)
}

// AddAccessPolicy appends p.
func (s *Service) AddAccessPolicy(p *AccessPolicy) error {
	return appendTo(s.Node, &s.policies, p)
}

// AccessPolicies returns the access policies in document order.
func (s *Service) AccessPolicies() []*AccessPolicy { return snapshot(s.policies) }
