package rifcs

import "github.com/beevik/etree"

// CitationInfo holds either a full citation string or citation metadata.
type CitationInfo struct {
	Node
	metadata *CitationMetadata
}

func wrapCitationInfo(el *etree.Element) (*CitationInfo, error) {
	n, err := NewNode(el, elemCitationInfo)
	if err != nil {
		return nil, err
	}
	md, err := first(n, elemCitationMetadata, wrapCitationMetadata)
	if err != nil {
		return nil, err
	}
	return &CitationInfo{Node: n, metadata: md}, nil
}

// SetFullCitation sets the full citation text and its style. An empty
// style removes any previous one.
func (c *CitationInfo) SetFullCitation(citation, style string) {
	el := c.setChildText(elemFullCitation, citation)
	if style != "" {
		el.CreateAttr(attrStyle, style)
	} else if plainAttr(el, attrStyle) != nil {
		el.RemoveAttr(attrStyle)
	}
}

// FullCitation returns the full citation text.
func (c *CitationInfo) FullCitation() string { return c.childText(elemFullCitation) }

// CitationStyle returns the style of the full citation.
func (c *CitationInfo) CitationStyle() string {
	el := c.child(elemFullCitation)
	if el == nil {
		return ""
	}
	return plainAttrValue(el, attrStyle)
}

// NewCitationMetadata returns detached citation metadata.
func (c *CitationInfo) NewCitationMetadata() (*CitationMetadata, error) {
	return create(c.Node, elemCitationMetadata, wrapCitationMetadata)
}

// SetCitationMetadata installs md, replacing any existing metadata.
func (c *CitationInfo) SetCitationMetadata(md *CitationMetadata) error {
	return replace(c.Node, &c.metadata, md)
}

// CitationMetadata returns the citation metadata, or nil.
func (c *CitationInfo) CitationMetadata() *CitationMetadata { return c.metadata }

// CitationMetadata describes a citation field by field.
type CitationMetadata struct {
	Node
	identifier   *Identifier
	contributors []*Contributor
	dates        []*Date
}

func wrapCitationMetadata(el *etree.Element) (*CitationMetadata, error) {
	n, err := NewNode(el, elemCitationMetadata)
	if err != nil {
		return nil, err
	}
	m := &CitationMetadata{Node: n}
	if m.identifier, err = first(n, elemIdentifier, wrapIdentifier); err != nil {
		return nil, err
	}
	if m.contributors, err = collect(n, elemContributor, wrapContributor); err != nil {
		return nil, err
	}
	if m.dates, err = collect(n, elemDate, wrapDate); err != nil {
		return nil, err
	}
	return m, nil
}

// SetIdentifier sets the cited work's identifier.
func (m *CitationMetadata) SetIdentifier(value, idType string) (*Identifier, error) {
	id, err := create(m.Node, elemIdentifier, wrapIdentifier)
	if err != nil {
		return nil, err
	}
	id.SetText(value)
	setOptional(id.Node, attrType, idType)
	return id, replace(m.Node, &m.identifier, id)
}

// Identifier returns the cited work's identifier, or nil.
func (m *CitationMetadata) Identifier() *Identifier { return m.identifier }

// NewContributor returns a detached contributor.
func (m *CitationMetadata) NewContributor() (*Contributor, error) {
	return create(m.Node, elemContributor, wrapContributor)
}

// AddContributor appends c.
func (m *CitationMetadata) AddContributor(c *Contributor) error {
	return appendTo(m.Node, &m.contributors, c)
}

// Contributors returns the contributors in document order.
func (m *CitationMetadata) Contributors() []*Contributor { return snapshot(m.contributors) }

// NewDate returns a detached citation date.
func (m *CitationMetadata) NewDate() (*Date, error) { return create(m.Node, elemDate, wrapDate) }

// AddDate appends date.
func (m *CitationMetadata) AddDate(date *Date) error { return appendTo(m.Node, &m.dates, date) }

// AddDateValue appends a citation date with the given text and type.
func (m *CitationMetadata) AddDateValue(value, dateType string) (*Date, error) {
	return addDate(m.Node, &m.dates, value, dateType, "")
}

// Dates returns the citation dates in document order.
func (m *CitationMetadata) Dates() []*Date { return snapshot(m.dates) }

// Title returns the cited work's title.
func (m *CitationMetadata) Title() string { return m.childText(elemTitle) }

// SetTitle sets the cited work's title.
func (m *CitationMetadata) SetTitle(v string) { m.setChildText(elemTitle, v) }

// Edition returns the edition.
func (m *CitationMetadata) Edition() string { return m.childText(elemEdition) }

// SetEdition sets the edition.
func (m *CitationMetadata) SetEdition(v string) { m.setChildText(elemEdition, v) }

// Version returns the version.
func (m *CitationMetadata) Version() string { return m.childText(elemVersion) }

// SetVersion sets the version.
func (m *CitationMetadata) SetVersion(v string) { m.setChildText(elemVersion, v) }

// Publisher returns the publisher.
func (m *CitationMetadata) Publisher() string { return m.childText(elemPublisher) }

// SetPublisher sets the publisher.
func (m *CitationMetadata) SetPublisher(v string) { m.setChildText(elemPublisher, v) }

// PlacePublished returns the place of publication.
func (m *CitationMetadata) PlacePublished() string { return m.childText(elemPlacePublished) }

// SetPlacePublished sets the place of publication.
func (m *CitationMetadata) SetPlacePublished(v string) { m.setChildText(elemPlacePublished, v) }

// URL returns the url.
func (m *CitationMetadata) URL() string { return m.childText(elemURL) }

// SetURL sets the url.
func (m *CitationMetadata) SetURL(v string) { m.setChildText(elemURL, v) }

// Context returns the citation context.
func (m *CitationMetadata) Context() string { return m.childText(elemContext) }

// SetContext sets the citation context.
func (m *CitationMetadata) SetContext(v string) { m.setChildText(elemContext, v) }
