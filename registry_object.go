package rifcs

import (
	"github.com/beevik/etree"

	"github.com/ands/rifcs/errors"
)

// RegistryObject is the top-level record: a key, an optional group and
// originating source, and exactly one class child.
type RegistryObject struct {
	Node
	class ClassObject
}

// wrapRegistryObject binds el and classifies it by the first class child
// in document order. Later class children are ignored.
func wrapRegistryObject(el *etree.Element) (*RegistryObject, error) {
	n, err := NewNode(el, elemRegistryObject)
	if err != nil {
		return nil, err
	}
	ro := &RegistryObject{Node: n}
	for _, c := range n.AllChildren() {
		class := ObjectClass(c.Tag)
		if !class.Valid() || !inNamespace(c) {
			continue
		}
		if ro.class, err = wrapClass(class, c); err != nil {
			return nil, err
		}
		break
	}
	return ro, nil
}

// Key returns the key text, or "" when unset.
func (r *RegistryObject) Key() string { return r.childText(elemKey) }

// SetKey sets the key, replacing any existing one. The key is kept as the
// first child.
func (r *RegistryObject) SetKey(key string) {
	el := r.setChildText(elemKey, key)
	r.moveTo(el, 0)
}

// Group returns the group attribute.
func (r *RegistryObject) Group() string { return r.Attr(attrGroup) }

// SetGroup sets the group attribute.
func (r *RegistryObject) SetGroup(group string) { r.SetAttr(attrGroup, group) }

// OriginatingSource returns the originating source text.
func (r *RegistryObject) OriginatingSource() string { return r.childText(elemOriginatingSource) }

// OriginatingSourceType returns the type of the originating source.
func (r *RegistryObject) OriginatingSourceType() string {
	el := r.child(elemOriginatingSource)
	if el == nil {
		return ""
	}
	return plainAttrValue(el, attrType)
}

// SetOriginatingSource sets the originating source and its type, replacing
// any existing one. An empty sourceType leaves the attribute unset. The
// source follows the key.
func (r *RegistryObject) SetOriginatingSource(source, sourceType string) {
	el := r.setChildText(elemOriginatingSource, source)
	if sourceType != "" {
		el.CreateAttr(attrType, sourceType)
	} else if plainAttr(el, attrType) != nil {
		el.RemoveAttr(attrType)
	}
	pos := 0
	if key := r.child(elemKey); key != nil {
		pos = key.Index() + 1
	}
	r.moveTo(el, pos)
}

// moveTo places el at child index pos when it is not already there.
func (r *RegistryObject) moveTo(el *etree.Element, pos int) {
	if el.Index() == pos {
		return
	}
	r.el.InsertChildAt(pos, el)
}

// NewCollection returns a detached collection.
func (r *RegistryObject) NewCollection() (*Collection, error) {
	return wrapCollection(r.NewChildElement(string(ClassCollection)))
}

// NewActivity returns a detached activity.
func (r *RegistryObject) NewActivity() (*Activity, error) {
	return wrapActivity(r.NewChildElement(string(ClassActivity)))
}

// NewParty returns a detached party.
func (r *RegistryObject) NewParty() (*Party, error) {
	return wrapParty(r.NewChildElement(string(ClassParty)))
}

// NewService returns a detached service.
func (r *RegistryObject) NewService() (*Service, error) {
	return wrapService(r.NewChildElement(string(ClassService)))
}

// AddCollection installs c as the class child.
func (r *RegistryObject) AddCollection(c *Collection) error {
	if c == nil {
		return errors.Structuref("add", elemRegistryObject, "nil collection")
	}
	return r.install(c)
}

// AddActivity installs a as the class child.
func (r *RegistryObject) AddActivity(a *Activity) error {
	if a == nil {
		return errors.Structuref("add", elemRegistryObject, "nil activity")
	}
	return r.install(a)
}

// AddParty installs p as the class child.
func (r *RegistryObject) AddParty(p *Party) error {
	if p == nil {
		return errors.Structuref("add", elemRegistryObject, "nil party")
	}
	return r.install(p)
}

// AddService installs s as the class child.
func (r *RegistryObject) AddService(s *Service) error {
	if s == nil {
		return errors.Structuref("add", elemRegistryObject, "nil service")
	}
	return r.install(s)
}

// install appends obj and fixes the variant. A registry object is
// classified once.
func (r *RegistryObject) install(obj ClassObject) error {
	if r.class != nil {
		return errors.IndexConsistencyf("add "+string(obj.Class()), r.Key(), "registry object is already a %s", r.class.Class())
	}
	if err := detached("add "+string(obj.Class()), r.Node, obj.Element()); err != nil {
		return err
	}
	r.el.AddChild(obj.Element())
	r.class = obj
	return nil
}

// ObjectClass returns the variant kind, or Unclassified.
func (r *RegistryObject) ObjectClass() ObjectClass {
	if r.class == nil {
		return Unclassified
	}
	return r.class.Class()
}

// ClassObject re-wraps the single descendant named after the object class.
// It returns nil without error when the object is unclassified or when zero
// or several such descendants exist; callers must read nil as "not
// well-formed for this operation".
func (r *RegistryObject) ClassObject() (ClassObject, error) {
	class := r.ObjectClass()
	if class == Unclassified {
		return nil, nil
	}
	found := r.Descendants(string(class))
	if len(found) != 1 {
		return nil, nil
	}
	return wrapClass(class, found[0])
}

// Class returns the class child installed or discovered at construction.
func (r *RegistryObject) Class() ClassObject { return r.class }

// Collection returns the class child when it is a collection.
func (r *RegistryObject) Collection() (*Collection, bool) {
	c, ok := r.class.(*Collection)
	return c, ok
}

// Activity returns the class child when it is an activity.
func (r *RegistryObject) Activity() (*Activity, bool) {
	a, ok := r.class.(*Activity)
	return a, ok
}

// Party returns the class child when it is a party.
func (r *RegistryObject) Party() (*Party, bool) {
	p, ok := r.class.(*Party)
	return p, ok
}

// Service returns the class child when it is a service.
func (r *RegistryObject) Service() (*Service, bool) {
	s, ok := r.class.(*Service)
	return s, ok
}
