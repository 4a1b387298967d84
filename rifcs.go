// Package rifcs is a typed object model for RIF-CS registry documents.
//
// A Document owns an etree tree and a Registry indexing its registry
// objects. Every typed element embeds Node, which binds one tree element and
// reads and writes the tree directly. Containers keep ordered child lists
// that are filled once when an existing element is wrapped and afterwards
// change only through their Add methods, which update the tree and the list
// together.
package rifcs

import "time"

// Namespaces and schema locations used by RIF-CS 1.6 documents.
const (
	Namespace    = "http://ands.org.au/standards/rif-cs/registryObjects"
	ExtNamespace = "http://ands.org.au/standards/rif-cs/extendedRegistryObjects"
	SchemaBase   = "http://services.ands.org.au/documentation/rifcs/1.6/schema/"

	XMLNamespace = "http://www.w3.org/XML/1998/namespace"
	XSINamespace = "http://www.w3.org/2001/XMLSchema-instance"
)

// TimestampLayout is the UTC profile used for timestamps stored as text.
const TimestampLayout = "2006-01-02T15:04:05Z"

// FormatTimestamp formats t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

const (
	elemRegistryObjects   = "registryObjects"
	elemRegistryObject    = "registryObject"
	elemKey               = "key"
	elemOriginatingSource = "originatingSource"
	elemIdentifier        = "identifier"
	elemName              = "name"
	elemNamePart          = "namePart"
	elemDates             = "dates"
	elemDate              = "date"
	elemLocation          = "location"
	elemAddress           = "address"
	elemElectronic        = "electronic"
	elemPhysical          = "physical"
	elemAddressPart       = "addressPart"
	elemArg               = "arg"
	elemValue             = "value"
	elemTitle             = "title"
	elemNotes             = "notes"
	elemSpatial           = "spatial"
	elemCoverage          = "coverage"
	elemTemporal          = "temporal"
	elemText              = "text"
	elemRelatedObject     = "relatedObject"
	elemRelation          = "relation"
	elemDescription       = "description"
	elemURL               = "url"
	elemSubject           = "subject"
	elemRelatedInfo       = "relatedInfo"
	elemFormat            = "format"
	elemRights            = "rights"
	elemRightsStatement   = "rightsStatement"
	elemLicence           = "licence"
	elemAccessRights      = "accessRights"
	elemAccessPolicy      = "accessPolicy"
	elemExistenceDates    = "existenceDates"
	elemStartDate         = "startDate"
	elemEndDate           = "endDate"
	elemCitationInfo      = "citationInfo"
	elemFullCitation      = "fullCitation"
	elemCitationMetadata  = "citationMetadata"
	elemContributor       = "contributor"
	elemEdition           = "edition"
	elemVersion           = "version"
	elemPublisher         = "publisher"
	elemPlacePublished    = "placePublished"
	elemContext           = "context"

	attrType            = "type"
	attrGroup           = "group"
	attrDateAccessioned = "dateAccessioned"
	attrDateModified    = "dateModified"
	attrDateFrom        = "dateFrom"
	attrDateTo          = "dateTo"
	attrDateFormat      = "dateFormat"
	attrTermIdentifier  = "termIdentifier"
	attrRequired        = "required"
	attrUse             = "use"
	attrTarget          = "target"
	attrRightsURI       = "rightsUri"
	attrStyle           = "style"
	attrSeq             = "seq"
	attrLang            = "lang"
)
