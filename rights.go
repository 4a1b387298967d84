package rifcs

import "github.com/beevik/etree"

// Rights carries a rights statement, a licence and access rights. Each part
// is a singleton; when a document repeats one, the first is kept.
type Rights struct {
	Node
	statement    *RightsInfo
	licence      *RightsInfo
	accessRights *RightsInfo
}

func wrapRights(el *etree.Element) (*Rights, error) {
	n, err := NewNode(el, elemRights)
	if err != nil {
		return nil, err
	}
	r := &Rights{Node: n}
	if r.statement, err = first(n, elemRightsStatement, wrapRightsInfo(elemRightsStatement)); err != nil {
		return nil, err
	}
	if r.licence, err = first(n, elemLicence, wrapRightsInfo(elemLicence)); err != nil {
		return nil, err
	}
	if r.accessRights, err = first(n, elemAccessRights, wrapRightsInfo(elemAccessRights)); err != nil {
		return nil, err
	}
	return r, nil
}

// SetRightsStatement sets the rights statement text and rightsUri.
func (r *Rights) SetRightsStatement(value, rightsURI string) (*RightsInfo, error) {
	return r.set(&r.statement, elemRightsStatement, value, rightsURI, "")
}

// RightsStatement returns the rights statement, or nil.
func (r *Rights) RightsStatement() *RightsInfo { return r.statement }

// SetLicence sets the licence text, rightsUri and type.
func (r *Rights) SetLicence(value, rightsURI, licenceType string) (*RightsInfo, error) {
	return r.set(&r.licence, elemLicence, value, rightsURI, licenceType)
}

// Licence returns the licence, or nil.
func (r *Rights) Licence() *RightsInfo { return r.licence }

// SetAccessRights sets the access rights text, rightsUri and type.
func (r *Rights) SetAccessRights(value, rightsURI, accessType string) (*RightsInfo, error) {
	return r.set(&r.accessRights, elemAccessRights, value, rightsURI, accessType)
}

// AccessRights returns the access rights, or nil.
func (r *Rights) AccessRights() *RightsInfo { return r.accessRights }

func (r *Rights) set(slot **RightsInfo, name, value, rightsURI, infoType string) (*RightsInfo, error) {
	info, err := create(r.Node, name, wrapRightsInfo(name))
	if err != nil {
		return nil, err
	}
	info.SetText(value)
	setOptional(info.Node, attrRightsURI, rightsURI)
	setOptional(info.Node, attrType, infoType)
	return info, replace(r.Node, slot, info)
}
