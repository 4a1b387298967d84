package rifcs_test

import (
	"fmt"
	"strings"

	"github.com/ands/rifcs"
)

func ExampleNew() {
	doc, err := rifcs.New()
	if err != nil {
		panic(err)
	}
	reg := doc.Registry()
	ro, err := reg.NewRegistryObject()
	if err != nil {
		panic(err)
	}
	ro.SetKey("example.edu/party/1")
	ro.SetGroup("Example University")
	ro.SetOriginatingSource("http://example.edu", "")
	party, err := ro.NewParty()
	if err != nil {
		panic(err)
	}
	party.SetType("person")
	if err := ro.AddParty(party); err != nil {
		panic(err)
	}
	if err := reg.Add(ro); err != nil {
		panic(err)
	}

	fmt.Println(strings.Contains(doc.String(), `<party type="person"/>`))
	fmt.Println(len(reg.Parties()), reg.Keys())
	// Output:
	// true
	// 1 [example.edu/party/1]
}
