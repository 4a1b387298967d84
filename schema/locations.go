package schema

import (
	"strings"

	"github.com/ands/rifcs"
)

// Schema module file names under a RIF-CS schema base.
const (
	CoreFile       = "registryObjects.xsd"
	ActivityFile   = "activity.xsd"
	CollectionFile = "collection.xsd"
	PartyFile      = "party.xsd"
	ServiceFile    = "service.xsd"
	TypesFile      = "registryTypes.xsd"
	ExtensionFile  = "extRif.xsd"
)

// XMLSchemaLocation is where the composite schema imports the XML namespace from.
const XMLSchemaLocation = "http://www.w3.org/2001/xml.xsd"

// Locations names every module of the RIF-CS schema.
type Locations struct {
	Core       string
	Activity   string
	Collection string
	Party      string
	Service    string
	Types      string
	Extension  string
}

// DefaultLocations returns the module locations under base. An empty base
// selects rifcs.SchemaBase.
func DefaultLocations(base string) Locations {
	if base == "" {
		base = rifcs.SchemaBase
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return Locations{
		Core:       base + CoreFile,
		Activity:   base + ActivityFile,
		Collection: base + CollectionFile,
		Party:      base + PartyFile,
		Service:    base + ServiceFile,
		Types:      base + TypesFile,
		Extension:  base + ExtensionFile,
	}
}

type module struct {
	name     string
	location string
}

// modules lists the non-core modules in splice order.
func (l Locations) modules() []module {
	return []module{
		{"activity", l.Activity},
		{"collection", l.Collection},
		{"party", l.Party},
		{"service", l.Service},
		{"types", l.Types},
		{"extension", l.Extension},
	}
}
