package rifcs

import (
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/ands/rifcs/errors"
	"github.com/ands/rifcs/internal/qname"
)

// Node binds one tree element to the RIF-CS element name it must carry.
// It holds no state of its own: reads query the element and writes mutate it.
type Node struct {
	el   *etree.Element
	name string
}

// NewNode binds el to name. The element's local name must equal name and its
// namespace, when it resolves, must be Namespace; any prefix is accepted.
func NewNode(el *etree.Element, name string) (Node, error) {
	if el == nil {
		return Node{}, errors.Structuref("bind", name, "nil element")
	}
	if el.Tag != name {
		return Node{}, errors.Structuref("bind", name, "element is %q", el.FullTag())
	}
	if !inNamespace(el) {
		return Node{}, errors.Structuref("bind", name, "element %q is in namespace %q", el.FullTag(), el.NamespaceURI())
	}
	return Node{el: el, name: name}, nil
}

// inNamespace reports whether el is in the RIF-CS namespace or in no
// resolvable namespace, as detached elements are.
func inNamespace(el *etree.Element) bool {
	ns := el.NamespaceURI()
	return ns == "" || ns == Namespace
}

// Element returns the bound element.
func (n Node) Element() *etree.Element { return n.el }

// Name returns the element name the node is bound to.
func (n Node) Name() string { return n.name }

// Attr returns the value of the unqualified attribute name, or "".
func (n Node) Attr(name string) string {
	if a := n.attr(name); a != nil {
		return a.Value
	}
	return ""
}

// HasAttr reports whether the unqualified attribute name is present.
func (n Node) HasAttr(name string) bool {
	return n.attr(name) != nil
}

func (n Node) attr(name string) *etree.Attr { return plainAttr(n.el, name) }

// plainAttr returns the unprefixed attribute name of el. etree's own lookup
// treats an unprefixed key as matching any prefix.
func plainAttr(el *etree.Element, name string) *etree.Attr {
	for i := range el.Attr {
		if a := &el.Attr[i]; a.Space == "" && a.Key == name {
			return a
		}
	}
	return nil
}

func plainAttrValue(el *etree.Element, name string) string {
	if a := plainAttr(el, name); a != nil {
		return a.Value
	}
	return ""
}

// SetAttr sets the unqualified attribute name.
func (n Node) SetAttr(name, value string) {
	n.el.CreateAttr(name, value)
}

// AttrNS returns the value of the attribute {ns}local, or "".
func (n Node) AttrNS(ns, local string) string {
	want := qname.New(ns, local)
	for i := range n.el.Attr {
		a := &n.el.Attr[i]
		if a.Space != "" && !qname.IsNamespaceDecl(a) && qname.OfAttr(a) == want {
			return a.Value
		}
	}
	return ""
}

// SetAttrNS sets the attribute {ns}local, reusing an in-scope prefix for ns
// or declaring one on the element.
func (n Node) SetAttrNS(ns, local, value string) {
	n.el.CreateAttr(n.prefixFor(ns)+":"+local, value)
}

func (n Node) prefixFor(ns string) string {
	if ns == XMLNamespace {
		return qname.XMLPrefix
	}
	ctx := qname.Context(n.el)
	for prefix, uri := range ctx {
		if prefix != "" && uri == ns {
			return prefix
		}
	}
	for i := 1; ; i++ {
		prefix := "ns" + strconv.Itoa(i)
		if _, taken := ctx[prefix]; !taken {
			n.el.CreateAttr("xmlns:"+prefix, ns)
			return prefix
		}
	}
}

// Lang returns the xml:lang attribute.
func (n Node) Lang() string { return n.AttrNS(XMLNamespace, attrLang) }

// SetLang sets the xml:lang attribute.
func (n Node) SetLang(lang string) { n.SetAttrNS(XMLNamespace, attrLang, lang) }

// Text returns the character data of the element.
func (n Node) Text() string { return n.el.Text() }

// SetText replaces the character data of the element.
func (n Node) SetText(value string) { n.el.SetText(value) }

// SetTime stores t as text in the UTC timestamp profile.
func (n Node) SetTime(t time.Time) { n.SetText(FormatTimestamp(t)) }

// NewChildElement allocates a detached RIF-CS element using the node's
// prefix. It joins the tree only when appended under a parent.
func (n Node) NewChildElement(name string) *etree.Element {
	el := etree.NewElement(name)
	el.Space = n.el.Space
	return el
}

// Descendants returns every RIF-CS element named name below the node, in
// document order.
func (n Node) Descendants(name string) []*etree.Element {
	var out []*etree.Element
	var walk func(*etree.Element)
	walk = func(el *etree.Element) {
		for _, c := range el.ChildElements() {
			if c.Tag == name && inNamespace(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n.el)
	return out
}

// Children returns the direct RIF-CS children named name, in document order.
func (n Node) Children(name string) []*etree.Element {
	var out []*etree.Element
	for _, c := range n.el.ChildElements() {
		if c.Tag == name && inNamespace(c) {
			out = append(out, c)
		}
	}
	return out
}

// AllChildren returns every direct child element, in document order.
func (n Node) AllChildren() []*etree.Element {
	return n.el.ChildElements()
}

// child returns the first direct child named name. Later duplicates are ignored.
func (n Node) child(name string) *etree.Element {
	for _, c := range n.el.ChildElements() {
		if c.Tag == name && inNamespace(c) {
			return c
		}
	}
	return nil
}

func (n Node) childText(name string) string {
	if c := n.child(name); c != nil {
		return c.Text()
	}
	return ""
}

// setChild puts el in place of the first direct child with the same name,
// or appends it.
func (n Node) setChild(el *etree.Element) {
	old := n.child(el.Tag)
	if old == nil {
		n.el.AddChild(el)
		return
	}
	if old == el {
		return
	}
	n.el.InsertChildAt(old.Index(), el)
	n.el.RemoveChild(old)
}

func (n Node) setChildText(name, value string) *etree.Element {
	if c := n.child(name); c != nil {
		c.SetText(value)
		return c
	}
	c := n.NewChildElement(name)
	c.SetText(value)
	n.el.AddChild(c)
	return c
}

func (n Node) String() string {
	return fmt.Sprintf("%s(%s)", n.name, n.el.GetPath())
}
