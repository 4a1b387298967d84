package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ands/rifcs"
	"github.com/ands/rifcs/internal/catalog"
)

type objectReport struct {
	Key    string            `yaml:"key"`
	Class  rifcs.ObjectClass `yaml:"class"`
	Group  string            `yaml:"group,omitempty"`
	Source string            `yaml:"source,omitempty"`
	Title  string            `yaml:"title,omitempty"`
}

type inspectReport struct {
	File    string         `yaml:"file"`
	Total   int            `yaml:"total"`
	Classes map[string]int `yaml:"classes"`
	Objects []objectReport `yaml:"objects"`
}

func newInspectCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "inspect [--format text|yaml] FILE",
		Short: "Print the registry index of a document",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "yaml" {
				return usagef("unknown format %q", format)
			}
			doc, err := rifcs.ParseFile(args[0])
			if err != nil {
				return err
			}
			report := buildReport(args[0], doc.Registry())
			if format == "yaml" {
				enc := yaml.NewEncoder(a.stdout)
				enc.SetIndent(2)
				if err := enc.Encode(report); err != nil {
					return fmt.Errorf("encode report: %w", err)
				}
				return enc.Close()
			}
			return writeReport(a, report)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or yaml")
	return cmd
}

func buildReport(file string, reg *rifcs.Registry) inspectReport {
	report := inspectReport{File: file, Total: reg.Len(), Classes: map[string]int{}}
	for _, class := range rifcs.Classes {
		report.Classes[string(class)] = len(reg.ByClass(class))
	}
	for _, ro := range reg.Objects() {
		report.Objects = append(report.Objects, objectReport{
			Key:    ro.Key(),
			Class:  ro.ObjectClass(),
			Group:  ro.Group(),
			Source: ro.OriginatingSource(),
			Title:  catalog.Title(ro),
		})
	}
	return report
}

func writeReport(a *app, report inspectReport) error {
	if err := writef(a.stdout, "%s: %d registry objects\n", report.File, report.Total); err != nil {
		return err
	}
	for _, class := range rifcs.Classes {
		if err := writef(a.stdout, "  %-10s %d\n", class, report.Classes[string(class)]); err != nil {
			return err
		}
	}
	if len(report.Objects) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	if err := writef(tw, "\nKEY\tCLASS\tGROUP\tTITLE\n"); err != nil {
		return err
	}
	for _, o := range report.Objects {
		if err := writef(tw, "%s\t%s\t%s\t%s\n", o.Key, o.Class, o.Group, o.Title); err != nil {
			return err
		}
	}
	return tw.Flush()
}
