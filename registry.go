package rifcs

import (
	"slices"

	"github.com/beevik/etree"

	"github.com/ands/rifcs/errors"
)

// Registry indexes the registry objects of one document by key and by
// class. The tree stays authoritative; the index only changes through Add
// and LoadRegistry.
type Registry struct {
	root    Node
	byKey   map[string]*RegistryObject
	byClass map[ObjectClass][]*RegistryObject
	objects []*RegistryObject
}

func newRegistry(root Node) *Registry {
	r := &Registry{
		root:    root,
		byKey:   make(map[string]*RegistryObject),
		byClass: make(map[ObjectClass][]*RegistryObject, len(Classes)),
	}
	for _, class := range Classes {
		r.byClass[class] = nil
	}
	return r
}

// LoadRegistry indexes every registry object of tree in document order.
// The root must be registryObjects. It fails at the first object that
// cannot be bound or indexed.
func LoadRegistry(tree *etree.Document) (*Registry, error) {
	if tree == nil {
		return nil, errors.Structuref("load", elemRegistryObjects, "nil document")
	}
	root, err := NewNode(tree.Root(), elemRegistryObjects)
	if err != nil {
		return nil, err
	}
	r := newRegistry(root)
	for _, el := range root.Descendants(elemRegistryObject) {
		ro, err := wrapRegistryObject(el)
		if err != nil {
			return nil, err
		}
		if err := r.check("load", ro); err != nil {
			return nil, err
		}
		r.index(ro)
	}
	return r, nil
}

// NewRegistryObject returns a detached, unclassified registry object.
func (r *Registry) NewRegistryObject() (*RegistryObject, error) {
	return wrapRegistryObject(r.root.NewChildElement(elemRegistryObject))
}

// Add appends ro under the document root and indexes it. ro must be
// classified and keyed. An existing entry with the same key is replaced in
// the key index.
func (r *Registry) Add(ro *RegistryObject) error {
	if ro == nil {
		return errors.IndexConsistencyf("add", "", "nil registry object")
	}
	if p := ro.el.Parent(); p != nil {
		return errors.IndexConsistencyf("add", ro.Key(), "registry object is already attached to %s", p.Tag)
	}
	if err := r.check("add", ro); err != nil {
		return err
	}
	r.root.el.AddChild(ro.el)
	r.index(ro)
	return nil
}

// check reports why ro cannot be indexed.
func (r *Registry) check(op string, ro *RegistryObject) error {
	class := ro.ObjectClass()
	if class == Unclassified {
		return errors.IndexConsistencyf(op, ro.Key(), "registry object has no class")
	}
	if _, ok := r.byClass[class]; !ok {
		return errors.IndexConsistencyf(op, ro.Key(), "unknown object class %q", class)
	}
	if ro.Key() == "" {
		return errors.IndexConsistencyf(op, "", "registry object of class %s has no key", class)
	}
	return nil
}

func (r *Registry) index(ro *RegistryObject) {
	class := ro.ObjectClass()
	r.byKey[ro.Key()] = ro
	r.byClass[class] = append(r.byClass[class], ro)
	r.objects = append(r.objects, ro)
}

// ByClass returns the objects indexed under class, in insertion order.
func (r *Registry) ByClass(class ObjectClass) []*RegistryObject {
	return slices.Clone(r.byClass[class])
}

// Collections returns the collection objects.
func (r *Registry) Collections() []*RegistryObject { return r.ByClass(ClassCollection) }

// Activities returns the activity objects.
func (r *Registry) Activities() []*RegistryObject { return r.ByClass(ClassActivity) }

// Parties returns the party objects.
func (r *Registry) Parties() []*RegistryObject { return r.ByClass(ClassParty) }

// Services returns the service objects.
func (r *Registry) Services() []*RegistryObject { return r.ByClass(ClassService) }

// Lookup returns the object most recently indexed under key.
func (r *Registry) Lookup(key string) (*RegistryObject, bool) {
	ro, ok := r.byKey[key]
	return ro, ok
}

// Keys returns the indexed keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.byKey))
	for k := range r.byKey {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of distinct keys.
func (r *Registry) Len() int { return len(r.byKey) }

// Objects returns every indexed object in insertion order, including
// objects whose key was later reused.
func (r *Registry) Objects() []*RegistryObject { return slices.Clone(r.objects) }
