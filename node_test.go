package rifcs

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ands/rifcs/errors"
)

func TestFormatTimestamp(t *testing.T) {
	aest := time.FixedZone("AEST", 10*60*60)
	instant := time.Date(2013, time.March, 4, 5, 6, 7, 999, aest)

	assert.Equal(t, "2013-03-03T19:06:07Z", FormatTimestamp(instant))
	assert.Equal(t, "1970-01-01T00:00:00Z", FormatTimestamp(time.Unix(0, 0)))
}

func TestNewNodeRejectsMismatches(t *testing.T) {
	foreign := etree.NewDocument()
	require.NoError(t, foreign.ReadFromString(`<key xmlns="urn:other"/>`))

	tests := []struct {
		name string
		el   *etree.Element
	}{
		{name: "nil element", el: nil},
		{name: "wrong tag", el: etree.NewElement("name")},
		{name: "suffix only", el: etree.NewElement("monkey")},
		{name: "foreign namespace", el: foreign.Root()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNode(tt.el, "key")
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrStructure)
			assert.Equal(t, errors.KindStructure, errors.KindOf(err))
		})
	}
}

func TestNewNodeAcceptsAnyPrefix(t *testing.T) {
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(`<r:key xmlns:r="`+Namespace+`">k</r:key>`))

	n, err := NewNode(doc.Root(), "key")
	require.NoError(t, err)
	assert.Equal(t, "k", n.Text())
	assert.Equal(t, "key", n.Name())
}

func TestNodeAttributes(t *testing.T) {
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(`<description xmlns="`+Namespace+`" xmlns:xsi="`+XSINamespace+`" xsi:type="x" type="brief"/>`))
	n, err := NewNode(doc.Root(), "description")
	require.NoError(t, err)

	assert.Equal(t, "brief", n.Attr("type"))
	assert.Equal(t, "x", n.AttrNS(XSINamespace, "type"))
	assert.False(t, n.HasAttr("lang"))

	n.SetLang("en")
	assert.Equal(t, "en", n.Lang())
	assert.Equal(t, "en", n.Element().SelectAttrValue("xml:lang", ""))

	n.SetAttrNS("urn:ext", "note", "v")
	assert.Equal(t, "v", n.AttrNS("urn:ext", "note"))
	assert.Equal(t, "urn:ext", n.Element().SelectAttrValue("xmlns:ns1", ""))

	n.SetAttrNS(XSINamespace, "type", "y")
	assert.Equal(t, "y", n.AttrNS(XSINamespace, "type"))
	assert.Equal(t, "brief", n.Attr("type"))
}

func TestNodeTextAndTime(t *testing.T) {
	n, err := NewNode(etree.NewElement("date"), "date")
	require.NoError(t, err)

	n.SetText("2001")
	assert.Equal(t, "2001", n.Text())

	n.SetTime(time.Date(2012, time.December, 31, 23, 59, 58, 0, time.UTC))
	assert.Equal(t, "2012-12-31T23:59:58Z", n.Text())
}

func TestNodeChildQueries(t *testing.T) {
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(`<collection xmlns="`+Namespace+`">
  <name><namePart>a</namePart></name>
  <identifier>1</identifier>
  <name><namePart>b</namePart></name>
  <x:name xmlns:x="urn:other"/>
</collection>`))
	n, err := NewNode(doc.Root(), "collection")
	require.NoError(t, err)

	assert.Len(t, n.Children("name"), 2)
	assert.Len(t, n.AllChildren(), 4)
	parts := n.Descendants("namePart")
	require.Len(t, parts, 2)
	assert.Equal(t, "a", parts[0].Text())
	assert.Equal(t, "b", parts[1].Text())

	child := n.NewChildElement("subject")
	assert.Nil(t, child.Parent())
	assert.Equal(t, "subject", child.Tag)
}

func TestSetChildReplacesInPlace(t *testing.T) {
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(`<rights xmlns="`+Namespace+`"><rightsStatement>old</rightsStatement><licence>l</licence></rights>`))
	r, err := wrapRights(doc.Root())
	require.NoError(t, err)

	_, err = r.SetRightsStatement("new", "http://example.org")
	require.NoError(t, err)

	kids := r.AllChildren()
	require.Len(t, kids, 2)
	assert.Equal(t, "rightsStatement", kids[0].Tag)
	assert.Equal(t, "new", kids[0].Text())
	assert.Equal(t, "new", r.RightsStatement().Text())
	assert.Equal(t, "http://example.org", r.RightsStatement().RightsURI())
}
