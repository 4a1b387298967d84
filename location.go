package rifcs

import (
	"time"

	"github.com/beevik/etree"
)

// Location is a physical or electronic place, valid between two dates.
type Location struct {
	typed
	addresses []*Address
	spatials  []*Spatial
}

func wrapLocation(el *etree.Element) (*Location, error) {
	n, err := NewNode(el, elemLocation)
	if err != nil {
		return nil, err
	}
	l := &Location{typed: typed{n}}
	if l.addresses, err = collect(n, elemAddress, wrapAddress); err != nil {
		return nil, err
	}
	if l.spatials, err = collect(n, elemSpatial, wrapSpatial); err != nil {
		return nil, err
	}
	return l, nil
}

// DateFrom returns the dateFrom attribute.
func (l *Location) DateFrom() string { return l.Attr(attrDateFrom) }

// SetDateFrom sets the dateFrom attribute from a timestamp.
func (l *Location) SetDateFrom(t time.Time) { l.SetAttr(attrDateFrom, FormatTimestamp(t)) }

// DateTo returns the dateTo attribute.
func (l *Location) DateTo() string { return l.Attr(attrDateTo) }

// SetDateTo sets the dateTo attribute from a timestamp.
func (l *Location) SetDateTo(t time.Time) { l.SetAttr(attrDateTo, FormatTimestamp(t)) }

// NewAddress returns a detached address.
func (l *Location) NewAddress() (*Address, error) { return create(l.Node, elemAddress, wrapAddress) }

// AddAddress appends a.
func (l *Location) AddAddress(a *Address) error { return appendTo(l.Node, &l.addresses, a) }

// Addresses returns the addresses in document order.
func (l *Location) Addresses() []*Address { return snapshot(l.addresses) }

// NewSpatial returns a detached spatial value.
func (l *Location) NewSpatial() (*Spatial, error) { return create(l.Node, elemSpatial, wrapSpatial) }

// AddSpatial appends s.
func (l *Location) AddSpatial(s *Spatial) error { return appendTo(l.Node, &l.spatials, s) }

// Spatials returns the spatial values in document order.
func (l *Location) Spatials() []*Spatial { return snapshot(l.spatials) }

// Address holds electronic and physical addresses.
type Address struct {
	Node
	electronics []*Electronic
	physicals   []*Physical
}

func wrapAddress(el *etree.Element) (*Address, error) {
	n, err := NewNode(el, elemAddress)
	if err != nil {
		return nil, err
	}
	a := &Address{Node: n}
	if a.electronics, err = collect(n, elemElectronic, wrapElectronic); err != nil {
		return nil, err
	}
	if a.physicals, err = collect(n, elemPhysical, wrapPhysical); err != nil {
		return nil, err
	}
	return a, nil
}

// NewElectronic returns a detached electronic address.
func (a *Address) NewElectronic() (*Electronic, error) {
	return create(a.Node, elemElectronic, wrapElectronic)
}

// AddElectronic appends e.
func (a *Address) AddElectronic(e *Electronic) error { return appendTo(a.Node, &a.electronics, e) }

// Electronics returns the electronic addresses in document order.
func (a *Address) Electronics() []*Electronic { return snapshot(a.electronics) }

// NewPhysical returns a detached physical address.
func (a *Address) NewPhysical() (*Physical, error) { return create(a.Node, elemPhysical, wrapPhysical) }

// AddPhysical appends p.
func (a *Address) AddPhysical(p *Physical) error { return appendTo(a.Node, &a.physicals, p) }

// Physicals returns the physical addresses in document order.
func (a *Address) Physicals() []*Physical { return snapshot(a.physicals) }

// Electronic is an electronic address such as a URL or an email address.
type Electronic struct {
	typed
	args []*Arg
}

func wrapElectronic(el *etree.Element) (*Electronic, error) {
	n, err := NewNode(el, elemElectronic)
	if err != nil {
		return nil, err
	}
	args, err := collect(n, elemArg, wrapArg)
	if err != nil {
		return nil, err
	}
	return &Electronic{typed: typed{n}, args: args}, nil
}

// Target returns the target attribute.
func (e *Electronic) Target() string { return e.Attr(attrTarget) }

// SetTarget sets the target attribute.
func (e *Electronic) SetTarget(v string) { e.SetAttr(attrTarget, v) }

// Value returns the address value.
func (e *Electronic) Value() string { return e.childText(elemValue) }

// SetValue sets the address value.
func (e *Electronic) SetValue(v string) { e.setChildText(elemValue, v) }

// Title returns the address title.
func (e *Electronic) Title() string { return e.childText(elemTitle) }

// SetTitle sets the address title.
func (e *Electronic) SetTitle(v string) { e.setChildText(elemTitle, v) }

// Notes returns the address notes.
func (e *Electronic) Notes() string { return e.childText(elemNotes) }

// SetNotes sets the address notes.
func (e *Electronic) SetNotes(v string) { e.setChildText(elemNotes, v) }

// NewArg returns a detached argument.
func (e *Electronic) NewArg() (*Arg, error) { return create(e.Node, elemArg, wrapArg) }

// AddArg appends a.
func (e *Electronic) AddArg(a *Arg) error { return appendTo(e.Node, &e.args, a) }

// AddArgValue appends an argument with the given name, required flag, type
// and use.
func (e *Electronic) AddArgValue(name, required, argType, use string) (*Arg, error) {
	a, err := e.NewArg()
	if err != nil {
		return nil, err
	}
	a.SetText(name)
	setOptional(a.Node, attrRequired, required)
	setOptional(a.Node, attrType, argType)
	setOptional(a.Node, attrUse, use)
	return a, e.AddArg(a)
}

// Args returns the arguments in document order.
func (e *Electronic) Args() []*Arg { return snapshot(e.args) }

// Physical is a postal or street address made of address parts.
type Physical struct {
	typed
	parts []*AddressPart
}

func wrapPhysical(el *etree.Element) (*Physical, error) {
	n, err := NewNode(el, elemPhysical)
	if err != nil {
		return nil, err
	}
	parts, err := collect(n, elemAddressPart, wrapAddressPart)
	if err != nil {
		return nil, err
	}
	return &Physical{typed: typed{n}, parts: parts}, nil
}

// NewAddressPart returns a detached address part.
func (p *Physical) NewAddressPart() (*AddressPart, error) {
	return create(p.Node, elemAddressPart, wrapAddressPart)
}

// AddAddressPart appends part.
func (p *Physical) AddAddressPart(part *AddressPart) error {
	return appendTo(p.Node, &p.parts, part)
}

// AddPart appends an address part with the given text and type.
func (p *Physical) AddPart(value, partType string) (*AddressPart, error) {
	part, err := p.NewAddressPart()
	if err != nil {
		return nil, err
	}
	part.SetText(value)
	setOptional(part.Node, attrType, partType)
	return part, p.AddAddressPart(part)
}

// AddressParts returns the address parts in document order.
func (p *Physical) AddressParts() []*AddressPart { return snapshot(p.parts) }
