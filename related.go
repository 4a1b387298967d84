package rifcs

import "github.com/beevik/etree"

// RelatedObject links to another registry object by key.
type RelatedObject struct {
	Node
	relations []*Relation
}

func wrapRelatedObject(el *etree.Element) (*RelatedObject, error) {
	n, err := NewNode(el, elemRelatedObject)
	if err != nil {
		return nil, err
	}
	relations, err := collect(n, elemRelation, wrapRelation)
	if err != nil {
		return nil, err
	}
	return &RelatedObject{Node: n, relations: relations}, nil
}

// Key returns the key of the related registry object.
func (r *RelatedObject) Key() string { return r.childText(elemKey) }

// SetKey sets the key of the related registry object.
func (r *RelatedObject) SetKey(key string) {
	el := r.setChildText(elemKey, key)
	if el.Index() != 0 {
		r.el.InsertChildAt(0, el)
	}
}

// NewRelation returns a detached relation.
func (r *RelatedObject) NewRelation() (*Relation, error) {
	return create(r.Node, elemRelation, wrapRelation)
}

// AddRelation appends rel.
func (r *RelatedObject) AddRelation(rel *Relation) error {
	return appendTo(r.Node, &r.relations, rel)
}

// AddRelationValue appends a relation with the given type, description and url.
func (r *RelatedObject) AddRelationValue(relType, description, url string) (*Relation, error) {
	return addRelation(r.Node, &r.relations, relType, description, url)
}

// Relations returns the relations in document order.
func (r *RelatedObject) Relations() []*Relation { return snapshot(r.relations) }

func addRelation(n Node, list *[]*Relation, relType, description, url string) (*Relation, error) {
	rel, err := create(n, elemRelation, wrapRelation)
	if err != nil {
		return nil, err
	}
	rel.SetType(relType)
	if description != "" {
		rel.SetDescription(description)
	}
	if url != "" {
		rel.SetURL(url)
	}
	return rel, appendTo(n, list, rel)
}

// RelatedInfo points at information outside the registry.
type RelatedInfo struct {
	typed
	identifiers []*Identifier
	relations   []*Relation
	format      *Format
}

func wrapRelatedInfo(el *etree.Element) (*RelatedInfo, error) {
	n, err := NewNode(el, elemRelatedInfo)
	if err != nil {
		return nil, err
	}
	r := &RelatedInfo{typed: typed{n}}
	if r.identifiers, err = collect(n, elemIdentifier, wrapIdentifier); err != nil {
		return nil, err
	}
	if r.relations, err = collect(n, elemRelation, wrapRelation); err != nil {
		return nil, err
	}
	if r.format, err = first(n, elemFormat, wrapFormat); err != nil {
		return nil, err
	}
	return r, nil
}

// NewIdentifier returns a detached identifier.
func (r *RelatedInfo) NewIdentifier() (*Identifier, error) {
	return create(r.Node, elemIdentifier, wrapIdentifier)
}

// AddIdentifier appends id.
func (r *RelatedInfo) AddIdentifier(id *Identifier) error {
	return appendTo(r.Node, &r.identifiers, id)
}

// AddIdentifierValue appends an identifier with the given text and type.
func (r *RelatedInfo) AddIdentifierValue(value, idType string) (*Identifier, error) {
	return addIdentifier(r.Node, &r.identifiers, value, idType)
}

// Identifiers returns the identifiers in document order.
func (r *RelatedInfo) Identifiers() []*Identifier { return snapshot(r.identifiers) }

// NewRelation returns a detached relation.
func (r *RelatedInfo) NewRelation() (*Relation, error) {
	return create(r.Node, elemRelation, wrapRelation)
}

// AddRelation appends rel.
func (r *RelatedInfo) AddRelation(rel *Relation) error {
	return appendTo(r.Node, &r.relations, rel)
}

// AddRelationValue appends a relation with the given type, description and url.
func (r *RelatedInfo) AddRelationValue(relType, description, url string) (*Relation, error) {
	return addRelation(r.Node, &r.relations, relType, description, url)
}

// Relations returns the relations in document order.
func (r *RelatedInfo) Relations() []*Relation { return snapshot(r.relations) }

// NewFormat returns a detached format.
func (r *RelatedInfo) NewFormat() (*Format, error) { return create(r.Node, elemFormat, wrapFormat) }

// SetFormat installs f, replacing any existing format.
func (r *RelatedInfo) SetFormat(f *Format) error { return replace(r.Node, &r.format, f) }

// Format returns the format, or nil.
func (r *RelatedInfo) Format() *Format { return r.format }

// Title returns the title text.
func (r *RelatedInfo) Title() string { return r.childText(elemTitle) }

// SetTitle sets the title text.
func (r *RelatedInfo) SetTitle(v string) { r.setChildText(elemTitle, v) }

// Notes returns the notes text.
func (r *RelatedInfo) Notes() string { return r.childText(elemNotes) }

// SetNotes sets the notes text.
func (r *RelatedInfo) SetNotes(v string) { r.setChildText(elemNotes, v) }

// Format describes the format of related information by identifiers.
type Format struct {
	Node
	identifiers []*Identifier
}

func wrapFormat(el *etree.Element) (*Format, error) {
	n, err := NewNode(el, elemFormat)
	if err != nil {
		return nil, err
	}
	ids, err := collect(n, elemIdentifier, wrapIdentifier)
	if err != nil {
		return nil, err
	}
	return &Format{Node: n, identifiers: ids}, nil
}

// NewIdentifier returns a detached identifier.
func (f *Format) NewIdentifier() (*Identifier, error) {
	return create(f.Node, elemIdentifier, wrapIdentifier)
}

// AddIdentifier appends id.
func (f *Format) AddIdentifier(id *Identifier) error {
	return appendTo(f.Node, &f.identifiers, id)
}

// AddIdentifierValue appends an identifier with the given text and type.
func (f *Format) AddIdentifierValue(value, idType string) (*Identifier, error) {
	return addIdentifier(f.Node, &f.identifiers, value, idType)
}

// Identifiers returns the identifiers in document order.
func (f *Format) Identifiers() []*Identifier { return snapshot(f.identifiers) }

func addIdentifier(n Node, list *[]*Identifier, value, idType string) (*Identifier, error) {
	id, err := create(n, elemIdentifier, wrapIdentifier)
	if err != nil {
		return nil, err
	}
	id.SetText(value)
	setOptional(id.Node, attrType, idType)
	return id, appendTo(n, list, id)
}
