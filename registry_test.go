package rifcs_test

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ands/rifcs"
	"github.com/ands/rifcs/errors"
)

func newCollectionObject(t *testing.T, doc *rifcs.Document, key string) *rifcs.RegistryObject {
	t.Helper()
	ro, err := doc.Registry().NewRegistryObject()
	require.NoError(t, err)
	ro.SetKey(key)
	ro.SetGroup("ANDS")
	ro.SetOriginatingSource("http://example.org", "authoritative")

	c, err := ro.NewCollection()
	require.NoError(t, err)
	c.SetType("dataset")
	name, err := c.NewName()
	require.NoError(t, err)
	name.SetType("primary")
	_, err = name.AddPart("Collection "+key, "")
	require.NoError(t, err)
	require.NoError(t, c.AddName(name))
	require.NoError(t, ro.AddCollection(c))
	return ro
}

func TestNewDocumentDeclaresNamespace(t *testing.T) {
	doc, err := rifcs.New()
	require.NoError(t, err)

	root := doc.Tree().Root()
	assert.Equal(t, "registryObjects", root.Tag)
	assert.Equal(t, rifcs.Namespace, root.NamespaceURI())
	assert.Equal(t, rifcs.Namespace+" "+rifcs.SchemaBase+"registryObjects.xsd", root.SelectAttrValue("xsi:schemaLocation", ""))
	assert.Zero(t, doc.Registry().Len())
	for _, class := range rifcs.Classes {
		assert.Empty(t, doc.Registry().ByClass(class))
	}
}

func TestRegistryAddIndexesByKeyAndClass(t *testing.T) {
	doc, err := rifcs.New()
	require.NoError(t, err)
	reg := doc.Registry()

	ro := newCollectionObject(t, doc, "c1")
	require.NoError(t, reg.Add(ro))

	got, ok := reg.Lookup("c1")
	require.True(t, ok)
	assert.Same(t, ro, got)
	assert.Equal(t, []*rifcs.RegistryObject{ro}, reg.Collections())
	assert.Empty(t, reg.Parties())
	assert.Equal(t, []string{"c1"}, reg.Keys())
	assert.Same(t, doc.Tree().Root(), ro.Element().Parent())
}

func TestRegistryKeyOverwrite(t *testing.T) {
	doc, err := rifcs.New()
	require.NoError(t, err)
	reg := doc.Registry()

	first := newCollectionObject(t, doc, "dup")
	second := newCollectionObject(t, doc, "dup")
	require.NoError(t, reg.Add(first))
	require.NoError(t, reg.Add(second))

	assert.Equal(t, 1, reg.Len())
	got, ok := reg.Lookup("dup")
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Len(t, reg.Objects(), 2)
}

func TestRegistryAddRejectsMisuse(t *testing.T) {
	doc, err := rifcs.New()
	require.NoError(t, err)
	reg := doc.Registry()

	unclassified, err := reg.NewRegistryObject()
	require.NoError(t, err)
	unclassified.SetKey("k")

	keyless, err := reg.NewRegistryObject()
	require.NoError(t, err)
	p, err := keyless.NewParty()
	require.NoError(t, err)
	require.NoError(t, keyless.AddParty(p))

	added := newCollectionObject(t, doc, "once")
	require.NoError(t, reg.Add(added))

	tests := []struct {
		name string
		ro   *rifcs.RegistryObject
	}{
		{name: "nil", ro: nil},
		{name: "unclassified", ro: unclassified},
		{name: "no key", ro: keyless},
		{name: "added twice", ro: added},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Add(tt.ro)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrIndexConsistency)
		})
	}
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryObjectVariant(t *testing.T) {
	doc, err := rifcs.New()
	require.NoError(t, err)
	reg := doc.Registry()

	tests := []struct {
		class   rifcs.ObjectClass
		install func(*rifcs.RegistryObject) error
	}{
		{rifcs.ClassCollection, func(ro *rifcs.RegistryObject) error {
			c, err := ro.NewCollection()
			if err != nil {
				return err
			}
			return ro.AddCollection(c)
		}},
		{rifcs.ClassActivity, func(ro *rifcs.RegistryObject) error {
			a, err := ro.NewActivity()
			if err != nil {
				return err
			}
			return ro.AddActivity(a)
		}},
		{rifcs.ClassParty, func(ro *rifcs.RegistryObject) error {
			p, err := ro.NewParty()
			if err != nil {
				return err
			}
			return ro.AddParty(p)
		}},
		{rifcs.ClassService, func(ro *rifcs.RegistryObject) error {
			s, err := ro.NewService()
			if err != nil {
				return err
			}
			return ro.AddService(s)
		}},
	}
	for _, tt := range tests {
		t.Run(string(tt.class), func(t *testing.T) {
			ro, err := reg.NewRegistryObject()
			require.NoError(t, err)
			assert.Equal(t, rifcs.Unclassified, ro.ObjectClass())

			obj, err := ro.ClassObject()
			require.NoError(t, err)
			assert.Nil(t, obj)

			require.NoError(t, tt.install(ro))
			assert.Equal(t, tt.class, ro.ObjectClass())

			obj, err = ro.ClassObject()
			require.NoError(t, err)
			require.NotNil(t, obj)
			assert.Equal(t, tt.class, obj.Class())
			assert.Same(t, ro.Class().Element(), obj.Element())

			err = tt.install(ro)
			assert.ErrorIs(t, err, errors.ErrIndexConsistency)
			assert.Equal(t, tt.class, ro.ObjectClass())
		})
	}
}

func TestClassObjectAmbiguous(t *testing.T) {
	doc, err := rifcs.Parse(strings.NewReader(`<registryObjects xmlns="` + rifcs.Namespace + `">
  <registryObject group="g">
    <key>k</key>
    <originatingSource>s</originatingSource>
    <party type="person"/>
    <party type="group"/>
  </registryObject>
</registryObjects>`))
	require.NoError(t, err)

	ro, ok := doc.Registry().Lookup("k")
	require.True(t, ok)
	assert.Equal(t, rifcs.ClassParty, ro.ObjectClass())
	p, ok := ro.Party()
	require.True(t, ok)
	assert.Equal(t, "person", p.Type())

	obj, err := ro.ClassObject()
	require.NoError(t, err)
	assert.Nil(t, obj)
}

func TestFirstClassChildWins(t *testing.T) {
	doc, err := rifcs.Parse(strings.NewReader(`<registryObjects xmlns="` + rifcs.Namespace + `">
  <registryObject><key>k</key><service type="report"/><collection type="dataset"/></registryObject>
</registryObjects>`))
	require.NoError(t, err)

	assert.Len(t, doc.Registry().Services(), 1)
	assert.Empty(t, doc.Registry().Collections())
}

func TestSetKeyKeepsSchemaOrder(t *testing.T) {
	doc, err := rifcs.New()
	require.NoError(t, err)
	ro, err := doc.Registry().NewRegistryObject()
	require.NoError(t, err)

	p, err := ro.NewParty()
	require.NoError(t, err)
	require.NoError(t, ro.AddParty(p))
	ro.SetOriginatingSource("http://example.org", "")
	ro.SetKey("first")
	ro.SetKey("second")
	ro.SetOriginatingSource("http://example.net", "authoritative")

	var tags []string
	for _, el := range ro.AllChildren() {
		tags = append(tags, el.Tag)
	}
	assert.Equal(t, []string{"key", "originatingSource", "party"}, tags)
	assert.Equal(t, "second", ro.Key())
	assert.Equal(t, "http://example.net", ro.OriginatingSource())
	assert.Equal(t, "authoritative", ro.OriginatingSourceType())

	ro.SetOriginatingSource("http://example.com", "")
	assert.Empty(t, ro.OriginatingSourceType())
}

func TestParseReconstructsFixture(t *testing.T) {
	doc, err := rifcs.ParseFile("testdata/collection.xml")
	require.NoError(t, err)
	reg := doc.Registry()

	require.Equal(t, []string{"example.edu/collection/ocean-temps", "example.edu/party/jane"}, reg.Keys())
	ro, ok := reg.Lookup("example.edu/collection/ocean-temps")
	require.True(t, ok)
	assert.Equal(t, "University of Examples", ro.Group())
	assert.Equal(t, "authoritative", ro.OriginatingSourceType())

	c, ok := ro.Collection()
	require.True(t, ok)
	assert.Equal(t, "dataset", c.Type())
	assert.Equal(t, "2013-02-11T04:05:06Z", c.DateModified())

	names := c.Names()
	require.Len(t, names, 2)
	assert.Equal(t, "primary", names[0].Type())
	assert.Equal(t, "Ocean temperatures 1990-2010", names[0].NameParts()[0].Text())
	assert.Equal(t, "alternative", names[1].Type())

	dates := c.Dates()
	require.Len(t, dates, 1)
	require.Len(t, dates[0].Dates(), 2)
	assert.Equal(t, "dateTo", dates[0].Dates()[1].Type())
	assert.Equal(t, "W3CDTF", dates[0].Dates()[1].DateFormat())

	elec := c.Locations()[0].Addresses()[0].Electronics()[0]
	assert.Equal(t, "http://example.edu/ocean", elec.Value())
	assert.Equal(t, "landingPage", elec.Target())
	require.Len(t, elec.Args(), 1)
	assert.Equal(t, "inline", elec.Args()[0].Use())
	phys := c.Locations()[0].Addresses()[0].Physicals()[0]
	assert.Equal(t, "1 Example Road", phys.AddressParts()[0].Text())

	cov := c.Coverages()[0]
	assert.Equal(t, "iso19139dcmiBox", cov.Spatials()[0].Type())
	assert.Equal(t, []string{"Two decades"}, cov.Temporals()[0].Texts())

	rel := c.RelatedObjects()[0]
	assert.Equal(t, "example.edu/party/jane", rel.Key())
	assert.Equal(t, "hasCollector", rel.Relations()[0].Type())

	assert.Equal(t, "en", c.Subjects()[0].Lang())
	assert.Equal(t, "Monthly sea surface temperatures.", c.Descriptions()[0].Text())

	rights := c.Rights()[0]
	assert.Equal(t, "http://example.edu/rights", rights.RightsStatement().RightsURI())
	assert.Equal(t, "CC-BY", rights.Licence().Type())
	assert.Nil(t, rights.AccessRights())

	info := c.RelatedInfos()[0]
	assert.Equal(t, "Ocean paper", info.Title())
	assert.Nil(t, info.Format())

	md := c.CitationInfos()[0].CitationMetadata()
	require.NotNil(t, md)
	assert.Equal(t, "doi", md.Identifier().Type())
	assert.Equal(t, "Example University", md.Publisher())
	assert.Equal(t, "1", md.Contributors()[0].Seq())
	assert.Equal(t, "publicationDate", md.Dates()[0].Type())

	party, ok := reg.Parties()[0].Party()
	require.True(t, ok)
	parts := party.Names()[0].NameParts()
	require.Len(t, parts, 2)
	assert.Equal(t, "given", parts[0].Type())
	assert.Equal(t, "family", parts[1].Type())
	assert.Equal(t, "1970", party.ExistenceDates()[0].StartDate().Text())
	assert.Nil(t, party.ExistenceDates()[0].EndDate())
}

func TestParseFailsFast(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want error
	}{
		{name: "malformed", xml: `<registryObjects`, want: errors.ErrStructure},
		{name: "wrong root", xml: `<registryObject xmlns="` + rifcs.Namespace + `"/>`, want: errors.ErrStructure},
		{name: "foreign root", xml: `<registryObjects xmlns="urn:other"/>`, want: errors.ErrStructure},
		{name: "unclassified", xml: `<registryObjects xmlns="` + rifcs.Namespace + `"><registryObject><key>k</key></registryObject></registryObjects>`, want: errors.ErrIndexConsistency},
		{name: "keyless", xml: `<registryObjects xmlns="` + rifcs.Namespace + `"><registryObject><party/></registryObject></registryObjects>`, want: errors.ErrIndexConsistency},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rifcs.Parse(strings.NewReader(tt.xml))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := rifcs.ParseFile("testdata/missing.xml")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAddKeepsOrder(t *testing.T) {
	doc, err := rifcs.New()
	require.NoError(t, err)
	ro, err := doc.Registry().NewRegistryObject()
	require.NoError(t, err)
	s, err := ro.NewService()
	require.NoError(t, err)

	for _, v := range []string{"b", "a", "c"} {
		_, err := s.AddIdentifierValue(v, "local")
		require.NoError(t, err)
	}
	ids := s.Identifiers()
	require.Len(t, ids, 3)
	assert.Equal(t, "b", ids[0].Text())
	assert.Equal(t, "a", ids[1].Text())
	assert.Equal(t, "c", ids[2].Text())

	ids[0] = nil
	assert.NotNil(t, s.Identifiers()[0])

	assert.Error(t, s.AddIdentifier(nil))
	assert.Len(t, s.Identifiers(), 3)
}

func TestWriteToIndentsCopy(t *testing.T) {
	doc, err := rifcs.New()
	require.NoError(t, err)
	require.NoError(t, doc.Registry().Add(newCollectionObject(t, doc, "c1")))

	out := doc.String()
	assert.Contains(t, out, "\n  <registryObject group=\"ANDS\">\n    <key>c1</key>")
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))

	for _, tok := range doc.Tree().Root().Child {
		_, isText := tok.(interface{ IsWhitespace() bool })
		assert.False(t, isText, "live tree must not be re-indented")
	}
}

func TestAddRejectsAttachedChild(t *testing.T) {
	doc, err := rifcs.New()
	require.NoError(t, err)
	ro := newCollectionObject(t, doc, "c1")
	c, ok := ro.Collection()
	require.True(t, ok)

	id, err := c.NewIdentifier()
	require.NoError(t, err)
	id.SetText("10.1000/1")
	require.NoError(t, c.AddIdentifier(id))

	err = c.AddIdentifier(id)
	assert.ErrorIs(t, err, errors.ErrStructure)
	assert.Len(t, c.Identifiers(), 1)
	assert.Len(t, c.Element().SelectElements("identifier"), 1)

	other := newCollectionObject(t, doc, "c2")
	c2, ok := other.Collection()
	require.True(t, ok)
	err = c2.AddIdentifier(id)
	assert.ErrorIs(t, err, errors.ErrStructure)
	assert.Empty(t, c2.Identifiers())
	assert.Empty(t, c2.Element().SelectElements("identifier"))
	assert.Same(t, c.Element(), id.Element().Parent())
}

func TestAddClassRejectsObjectOfAnotherRecord(t *testing.T) {
	doc, err := rifcs.New()
	require.NoError(t, err)
	owner := newCollectionObject(t, doc, "c1")
	c, ok := owner.Collection()
	require.True(t, ok)

	ro, err := doc.Registry().NewRegistryObject()
	require.NoError(t, err)
	err = ro.AddCollection(c)
	assert.ErrorIs(t, err, errors.ErrStructure)
	assert.Equal(t, rifcs.Unclassified, ro.ObjectClass())
	assert.Same(t, owner.Element(), c.Element().Parent())
	assert.Empty(t, ro.Element().ChildElements())
}

func TestSetCitationMetadataRejectsAttached(t *testing.T) {
	doc, err := rifcs.New()
	require.NoError(t, err)
	ro := newCollectionObject(t, doc, "c1")
	c, ok := ro.Collection()
	require.True(t, ok)

	first, err := c.NewCitationInfo()
	require.NoError(t, err)
	require.NoError(t, c.AddCitationInfo(first))
	md, err := first.NewCitationMetadata()
	require.NoError(t, err)
	require.NoError(t, first.SetCitationMetadata(md))
	require.NoError(t, first.SetCitationMetadata(md))
	assert.Len(t, first.Element().SelectElements("citationMetadata"), 1)

	second, err := c.NewCitationInfo()
	require.NoError(t, err)
	require.NoError(t, c.AddCitationInfo(second))
	err = second.SetCitationMetadata(md)
	assert.ErrorIs(t, err, errors.ErrStructure)
	assert.Nil(t, second.CitationMetadata())
	assert.Same(t, md, first.CitationMetadata())
}

func TestSetFullCitationClearsStyle(t *testing.T) {
	doc, err := rifcs.New()
	require.NoError(t, err)
	ro := newCollectionObject(t, doc, "c1")
	c, ok := ro.Collection()
	require.True(t, ok)
	ci, err := c.NewCitationInfo()
	require.NoError(t, err)
	require.NoError(t, c.AddCitationInfo(ci))

	ci.SetFullCitation("Doe, J. (2013) Ocean temperatures.", "Harvard")
	assert.Equal(t, "Harvard", ci.CitationStyle())

	ci.SetFullCitation("Doe, J. (2014) Ocean temperatures.", "")
	assert.Equal(t, "Doe, J. (2014) Ocean temperatures.", ci.FullCitation())
	assert.Empty(t, ci.CitationStyle())
	assert.Nil(t, ci.Element().FindElement("fullCitation").SelectAttr("style"))
}
