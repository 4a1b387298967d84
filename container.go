package rifcs

import (
	"slices"

	"github.com/beevik/etree"

	"github.com/ands/rifcs/errors"
)

// element is implemented by every typed node.
type element interface {
	Element() *etree.Element
}

// typedPtr constrains P to a pointer to a typed node.
type typedPtr[T any] interface {
	*T
	element
}

// collect wraps every direct child named name, preserving document order.
// wrap binds an element and reconstructs its own children; the first
// failure aborts the scan.
func collect[T any, P typedPtr[T]](n Node, name string, wrap func(*etree.Element) (P, error)) ([]P, error) {
	var out []P
	for _, el := range n.Children(name) {
		v, err := wrap(el)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// first wraps the first direct child named name, or returns nil.
func first[T any, P typedPtr[T]](n Node, name string, wrap func(*etree.Element) (P, error)) (P, error) {
	el := n.child(name)
	if el == nil {
		return nil, nil
	}
	return wrap(el)
}

// create allocates a detached child named name and wraps it.
func create[T any, P typedPtr[T]](n Node, name string, wrap func(*etree.Element) (P, error)) (P, error) {
	return wrap(n.NewChildElement(name))
}

// appendTo appends child under n and to list. It is the only way child
// lists grow after construction.
func appendTo[T any, P typedPtr[T]](n Node, list *[]P, child P) error {
	if child == nil {
		return errors.Structuref("add", n.name, "nil child")
	}
	if err := detached("add", n, child.Element()); err != nil {
		return err
	}
	n.el.AddChild(child.Element())
	*list = append(*list, child)
	return nil
}

// detached rejects an element that already has a parent. Attaching it
// elsewhere would move it out of the list that holds it.
func detached(op string, n Node, el *etree.Element) error {
	if p := el.Parent(); p != nil {
		return errors.Structuref(op, n.name, "%s is already attached to %s", el.Tag, p.Tag)
	}
	return nil
}

// replace installs child as the single child of its name under n.
func replace[T any, P typedPtr[T]](n Node, slot *P, child P) error {
	if child == nil {
		return errors.Structuref("set", n.name, "nil child")
	}
	if *slot == child {
		return nil
	}
	if err := detached("set", n, child.Element()); err != nil {
		return err
	}
	n.setChild(child.Element())
	*slot = child
	return nil
}

// snapshot returns a copy of list so callers cannot reorder the original.
func snapshot[P any](list []P) []P {
	return slices.Clone(list)
}

// typed is embedded by nodes carrying a type attribute.
type typed struct{ Node }

// Type returns the type attribute.
func (t typed) Type() string { return t.Attr(attrType) }

// SetType sets the type attribute.
func (t typed) SetType(v string) { t.SetAttr(attrType, v) }

// setOptional sets attribute name unless value is empty.
func setOptional(n Node, name, value string) {
	if value != "" {
		n.SetAttr(name, value)
	}
}
