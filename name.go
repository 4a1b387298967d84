package rifcs

import "github.com/beevik/etree"

// Name is a typed name made of ordered name parts.
type Name struct {
	typed
	parts []*NamePart
}

func wrapName(el *etree.Element) (*Name, error) {
	n, err := NewNode(el, elemName)
	if err != nil {
		return nil, err
	}
	parts, err := collect(n, elemNamePart, wrapNamePart)
	if err != nil {
		return nil, err
	}
	return &Name{typed: typed{n}, parts: parts}, nil
}

// NewNamePart returns a detached name part.
func (m *Name) NewNamePart() (*NamePart, error) {
	return create(m.Node, elemNamePart, wrapNamePart)
}

// AddNamePart appends p.
func (m *Name) AddNamePart(p *NamePart) error {
	return appendTo(m.Node, &m.parts, p)
}

// AddPart appends a name part with the given text and type.
func (m *Name) AddPart(value, partType string) (*NamePart, error) {
	p, err := m.NewNamePart()
	if err != nil {
		return nil, err
	}
	p.SetText(value)
	setOptional(p.Node, attrType, partType)
	return p, m.AddNamePart(p)
}

// NameParts returns the name parts in document order.
func (m *Name) NameParts() []*NamePart { return snapshot(m.parts) }

// Contributor names a contributor of a cited work.
type Contributor struct {
	Node
	parts []*NamePart
}

func wrapContributor(el *etree.Element) (*Contributor, error) {
	n, err := NewNode(el, elemContributor)
	if err != nil {
		return nil, err
	}
	parts, err := collect(n, elemNamePart, wrapNamePart)
	if err != nil {
		return nil, err
	}
	return &Contributor{Node: n, parts: parts}, nil
}

// Seq returns the seq attribute.
func (c *Contributor) Seq() string { return c.Attr(attrSeq) }

// SetSeq sets the seq attribute.
func (c *Contributor) SetSeq(v string) { c.SetAttr(attrSeq, v) }

// NewNamePart returns a detached name part.
func (c *Contributor) NewNamePart() (*NamePart, error) {
	return create(c.Node, elemNamePart, wrapNamePart)
}

// AddNamePart appends p.
func (c *Contributor) AddNamePart(p *NamePart) error {
	return appendTo(c.Node, &c.parts, p)
}

// AddPart appends a name part with the given text and type.
func (c *Contributor) AddPart(value, partType string) (*NamePart, error) {
	p, err := c.NewNamePart()
	if err != nil {
		return nil, err
	}
	p.SetText(value)
	setOptional(p.Node, attrType, partType)
	return p, c.AddNamePart(p)
}

// NameParts returns the name parts in document order.
func (c *Contributor) NameParts() []*NamePart { return snapshot(c.parts) }
