package rifcs_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/ands/rifcs"
)

type objectSpec struct {
	key          string
	class        rifcs.ObjectClass
	group        string
	names        [][]string
	descriptions []string
	subjects     []string
}

func drawObject(t *rapid.T, key string) objectSpec {
	text := rapid.StringMatching(`[A-Za-z0-9][A-Za-z0-9 .,&<>-]{0,20}[A-Za-z0-9]`)
	return objectSpec{
		key:          key,
		class:        rapid.SampledFrom(rifcs.Classes).Draw(t, "class"),
		group:        text.Draw(t, "group"),
		names:        rapid.SliceOfN(rapid.SliceOfN(text, 1, 3), 0, 3).Draw(t, "names"),
		descriptions: rapid.SliceOfN(text, 0, 3).Draw(t, "descriptions"),
		subjects:     rapid.SliceOfN(text, 0, 3).Draw(t, "subjects"),
	}
}

func install(ro *rifcs.RegistryObject, class rifcs.ObjectClass) (*rifcs.ClassBody, error) {
	switch class {
	case rifcs.ClassCollection:
		c, err := ro.NewCollection()
		if err != nil {
			return nil, err
		}
		return c.Body(), ro.AddCollection(c)
	case rifcs.ClassActivity:
		a, err := ro.NewActivity()
		if err != nil {
			return nil, err
		}
		return a.Body(), ro.AddActivity(a)
	case rifcs.ClassParty:
		p, err := ro.NewParty()
		if err != nil {
			return nil, err
		}
		return p.Body(), ro.AddParty(p)
	default:
		s, err := ro.NewService()
		if err != nil {
			return nil, err
		}
		return s.Body(), ro.AddService(s)
	}
}

func build(t *rapid.T, specs []objectSpec) *rifcs.Document {
	doc, err := rifcs.New()
	require.NoError(t, err)
	for _, spec := range specs {
		ro, err := doc.Registry().NewRegistryObject()
		require.NoError(t, err)
		ro.SetKey(spec.key)
		ro.SetGroup(spec.group)
		ro.SetOriginatingSource("http://example.org", "")
		body, err := install(ro, spec.class)
		require.NoError(t, err)
		body.SetType("test")
		for _, parts := range spec.names {
			name, err := body.NewName()
			require.NoError(t, err)
			for _, part := range parts {
				_, err := name.AddPart(part, "")
				require.NoError(t, err)
			}
			require.NoError(t, body.AddName(name))
		}
		for _, d := range spec.descriptions {
			_, err := body.AddDescriptionValue(d, "brief", "en")
			require.NoError(t, err)
		}
		for _, s := range spec.subjects {
			_, err := body.AddSubjectValue(s, "local", "")
			require.NoError(t, err)
		}
		require.NoError(t, doc.Registry().Add(ro))
	}
	return doc
}

func observe(t *rapid.T, doc *rifcs.Document) []objectSpec {
	var out []objectSpec
	for _, ro := range doc.Registry().Objects() {
		obj, err := ro.ClassObject()
		require.NoError(t, err)
		require.NotNil(t, obj)
		body := obj.Body()
		spec := objectSpec{key: ro.Key(), class: ro.ObjectClass(), group: ro.Group()}
		for _, name := range body.Names() {
			var parts []string
			for _, p := range name.NameParts() {
				parts = append(parts, p.Text())
			}
			spec.names = append(spec.names, parts)
		}
		for _, d := range body.Descriptions() {
			require.Equal(t, "en", d.Lang())
			spec.descriptions = append(spec.descriptions, d.Text())
		}
		for _, s := range body.Subjects() {
			spec.subjects = append(spec.subjects, s.Text())
		}
		out = append(out, spec)
	}
	return out
}

func TestRoundTripPreservesObjectGraph(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		keys := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z]{1,8}/[a-z0-9]{1,8}`), 1, 5, rapid.ID[string]).Draw(t, "keys")
		specs := make([]objectSpec, len(keys))
		for i, key := range keys {
			specs[i] = drawObject(t, key)
		}

		built := build(t, specs)
		data, err := built.Bytes()
		require.NoError(t, err)

		parsed, err := rifcs.ParseBytes(data)
		require.NoError(t, err)

		require.Equal(t, built.Registry().Keys(), parsed.Registry().Keys())
		require.Equal(t, observe(t, built), observe(t, parsed))
		for _, class := range rifcs.Classes {
			require.Len(t, parsed.Registry().ByClass(class), len(built.Registry().ByClass(class)))
		}
	})
}
