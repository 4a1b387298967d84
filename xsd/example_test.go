package xsd_test

import (
	"fmt"
	"strings"
	"testing/fstest"

	"github.com/ands/rifcs/errors"
	"github.com/ands/rifcs/xsd"
)

func ExampleLoad() {
	fsys := fstest.MapFS{
		"key.xsd": &fstest.MapFile{Data: []byte(`<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="key" type="xs:token"/>
</xs:schema>`)},
	}
	schema, err := xsd.Load(fsys, "key.xsd")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(schema.Validate(strings.NewReader(`<key>collection-1</key>`)) == nil)
	// Output: true
}

func ExampleSchema_Validate() {
	schema, err := xsd.CompileSchema(strings.NewReader(`<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="date" type="xs:date"/>
</xs:schema>`))
	if err != nil {
		fmt.Println(err)
		return
	}
	list, _ := errors.AsValidations(schema.Validate(strings.NewReader(`<date>2013-13-01</date>`)))
	for _, v := range list {
		fmt.Println(v.Code, v.Path)
	}
	// Output: cvc-datatype-valid /date
}
