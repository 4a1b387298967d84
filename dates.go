package rifcs

import (
	"time"

	"github.com/beevik/etree"
)

// Dates groups typed dates of a collection.
type Dates struct {
	typed
	dates []*Date
}

func wrapDates(el *etree.Element) (*Dates, error) {
	n, err := NewNode(el, elemDates)
	if err != nil {
		return nil, err
	}
	dates, err := collect(n, elemDate, wrapDate)
	if err != nil {
		return nil, err
	}
	return &Dates{typed: typed{n}, dates: dates}, nil
}

// NewDate returns a detached date.
func (d *Dates) NewDate() (*Date, error) { return create(d.Node, elemDate, wrapDate) }

// AddDate appends date.
func (d *Dates) AddDate(date *Date) error { return appendTo(d.Node, &d.dates, date) }

// AddDateValue appends a date with the given text, type and dateFormat.
// Empty type or format leave the attribute unset.
func (d *Dates) AddDateValue(value, dateType, format string) (*Date, error) {
	return addDate(d.Node, &d.dates, value, dateType, format)
}

// AddTime appends a date holding t in the UTC timestamp profile.
func (d *Dates) AddTime(t time.Time, dateType string) (*Date, error) {
	return addDate(d.Node, &d.dates, FormatTimestamp(t), dateType, "W3CDTF")
}

// Dates returns the dates in document order.
func (d *Dates) Dates() []*Date { return snapshot(d.dates) }

func addDate(n Node, list *[]*Date, value, dateType, format string) (*Date, error) {
	date, err := create(n, elemDate, wrapDate)
	if err != nil {
		return nil, err
	}
	date.SetText(value)
	setOptional(date.Node, attrType, dateType)
	setOptional(date.Node, attrDateFormat, format)
	return date, appendTo(n, list, date)
}

// Temporal is the temporal part of a coverage: dates and free text.
type Temporal struct {
	Node
	dates []*Date
}

func wrapTemporal(el *etree.Element) (*Temporal, error) {
	n, err := NewNode(el, elemTemporal)
	if err != nil {
		return nil, err
	}
	dates, err := collect(n, elemDate, wrapDate)
	if err != nil {
		return nil, err
	}
	return &Temporal{Node: n, dates: dates}, nil
}

// NewDate returns a detached date.
func (t *Temporal) NewDate() (*Date, error) { return create(t.Node, elemDate, wrapDate) }

// AddDate appends date.
func (t *Temporal) AddDate(date *Date) error { return appendTo(t.Node, &t.dates, date) }

// AddDateValue appends a date with the given text, type and dateFormat.
func (t *Temporal) AddDateValue(value, dateType, format string) (*Date, error) {
	return addDate(t.Node, &t.dates, value, dateType, format)
}

// Dates returns the dates in document order.
func (t *Temporal) Dates() []*Date { return snapshot(t.dates) }

// AddText appends a free text period description.
func (t *Temporal) AddText(text string) {
	el := t.NewChildElement(elemText)
	el.SetText(text)
	t.el.AddChild(el)
}

// Texts returns the free text period descriptions in document order.
func (t *Temporal) Texts() []string {
	var out []string
	for _, el := range t.Children(elemText) {
		out = append(out, el.Text())
	}
	return out
}

// Coverage holds spatial and temporal coverage.
type Coverage struct {
	Node
	spatials  []*Spatial
	temporals []*Temporal
}

func wrapCoverage(el *etree.Element) (*Coverage, error) {
	n, err := NewNode(el, elemCoverage)
	if err != nil {
		return nil, err
	}
	c := &Coverage{Node: n}
	if c.spatials, err = collect(n, elemSpatial, wrapSpatial); err != nil {
		return nil, err
	}
	if c.temporals, err = collect(n, elemTemporal, wrapTemporal); err != nil {
		return nil, err
	}
	return c, nil
}

// NewSpatial returns a detached spatial value.
func (c *Coverage) NewSpatial() (*Spatial, error) { return create(c.Node, elemSpatial, wrapSpatial) }

// AddSpatial appends s.
func (c *Coverage) AddSpatial(s *Spatial) error { return appendTo(c.Node, &c.spatials, s) }

// Spatials returns the spatial values in document order.
func (c *Coverage) Spatials() []*Spatial { return snapshot(c.spatials) }

// NewTemporal returns a detached temporal coverage.
func (c *Coverage) NewTemporal() (*Temporal, error) { return create(c.Node, elemTemporal, wrapTemporal) }

// AddTemporal appends t.
func (c *Coverage) AddTemporal(t *Temporal) error { return appendTo(c.Node, &c.temporals, t) }

// Temporals returns the temporal coverages in document order.
func (c *Coverage) Temporals() []*Temporal { return snapshot(c.temporals) }

// ExistenceDates holds the start and end of an object's existence.
type ExistenceDates struct {
	Node
	start *DateBound
	end   *DateBound
}

func wrapExistenceDates(el *etree.Element) (*ExistenceDates, error) {
	n, err := NewNode(el, elemExistenceDates)
	if err != nil {
		return nil, err
	}
	e := &ExistenceDates{Node: n}
	if e.start, err = first(n, elemStartDate, wrapDateBound(elemStartDate)); err != nil {
		return nil, err
	}
	if e.end, err = first(n, elemEndDate, wrapDateBound(elemEndDate)); err != nil {
		return nil, err
	}
	return e, nil
}

// SetStartDate sets the start date text and dateFormat.
func (e *ExistenceDates) SetStartDate(value, format string) error {
	return e.setBound(&e.start, elemStartDate, value, format)
}

// StartDate returns the start date, or nil.
func (e *ExistenceDates) StartDate() *DateBound { return e.start }

// SetEndDate sets the end date text and dateFormat.
func (e *ExistenceDates) SetEndDate(value, format string) error {
	return e.setBound(&e.end, elemEndDate, value, format)
}

// EndDate returns the end date, or nil.
func (e *ExistenceDates) EndDate() *DateBound { return e.end }

func (e *ExistenceDates) setBound(slot **DateBound, name, value, format string) error {
	b, err := create(e.Node, name, wrapDateBound(name))
	if err != nil {
		return err
	}
	b.SetText(value)
	setOptional(b.Node, attrDateFormat, format)
	if err := replace(e.Node, slot, b); err != nil {
		return err
	}
	e.order()
	return nil
}

// order keeps startDate ahead of endDate.
func (e *ExistenceDates) order() {
	if e.start == nil || e.end == nil {
		return
	}
	if e.end.el.Index() < e.start.el.Index() {
		e.el.InsertChildAt(e.end.el.Index(), e.start.el)
	}
}
