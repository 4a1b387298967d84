package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ands/rifcs"
)

// defaultTypes are the class type attributes used when --type is absent.
var defaultTypes = map[rifcs.ObjectClass]string{
	rifcs.ClassCollection: "dataset",
	rifcs.ClassActivity:   "project",
	rifcs.ClassParty:      "person",
	rifcs.ClassService:    "report",
}

type newOptions struct {
	class     string
	key       string
	group     string
	source    string
	name      string
	classType string
}

func newNewCmd(a *app) *cobra.Command {
	var opts newOptions
	cmd := &cobra.Command{
		Use:   "new --class CLASS --group GROUP --source URL --name NAME [--key KEY]",
		Short: "Print a new minimal registry document",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := buildDocument(opts)
			if err != nil {
				return err
			}
			return writef(a.stdout, "%s", doc.String())
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.class, "class", string(rifcs.ClassCollection), "collection, activity, party or service")
	flags.StringVar(&opts.key, "key", "", "registry object key (default: urn:uuid:<random>)")
	flags.StringVar(&opts.group, "group", "", "owning group")
	flags.StringVar(&opts.source, "source", "", "originating source URL")
	flags.StringVar(&opts.name, "name", "", "primary name")
	flags.StringVar(&opts.classType, "type", "", "class type attribute (default depends on --class)")
	return cmd
}

func buildDocument(opts newOptions) (*rifcs.Document, error) {
	class := rifcs.ObjectClass(opts.class)
	if !class.Valid() {
		return nil, usagef("unknown class %q", opts.class)
	}
	required := []struct{ flag, value string }{
		{"group", opts.group},
		{"source", opts.source},
		{"name", opts.name},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, usagef("--%s is required", r.flag)
		}
	}
	key := opts.key
	if key == "" {
		key = "urn:uuid:" + uuid.NewString()
	}
	classType := opts.classType
	if classType == "" {
		classType = defaultTypes[class]
	}

	doc, err := rifcs.New()
	if err != nil {
		return nil, err
	}
	reg := doc.Registry()
	ro, err := reg.NewRegistryObject()
	if err != nil {
		return nil, err
	}
	ro.SetKey(key)
	ro.SetGroup(opts.group)
	ro.SetOriginatingSource(opts.source, "")

	body, err := install(ro, class)
	if err != nil {
		return nil, err
	}
	body.SetType(classType)
	name, err := body.NewName()
	if err != nil {
		return nil, err
	}
	name.SetType("primary")
	if _, err := name.AddPart(opts.name, ""); err != nil {
		return nil, err
	}
	if err := body.AddName(name); err != nil {
		return nil, err
	}
	if err := reg.Add(ro); err != nil {
		return nil, err
	}
	return doc, nil
}

// install adds an empty class object of the given class to ro.
func install(ro *rifcs.RegistryObject, class rifcs.ObjectClass) (*rifcs.ClassBody, error) {
	switch class {
	case rifcs.ClassActivity:
		obj, err := ro.NewActivity()
		if err != nil {
			return nil, err
		}
		return obj.Body(), ro.AddActivity(obj)
	case rifcs.ClassParty:
		obj, err := ro.NewParty()
		if err != nil {
			return nil, err
		}
		return obj.Body(), ro.AddParty(obj)
	case rifcs.ClassService:
		obj, err := ro.NewService()
		if err != nil {
			return nil, err
		}
		return obj.Body(), ro.AddService(obj)
	default:
		obj, err := ro.NewCollection()
		if err != nil {
			return nil, err
		}
		return obj.Body(), ro.AddCollection(obj)
	}
}
