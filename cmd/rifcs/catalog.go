package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ands/rifcs"
	"github.com/ands/rifcs/internal/catalog"
)

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Maintain the registry object catalogue",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newCatalogAddCmd(a), newCatalogListCmd(a))
	return cmd
}

func newCatalogAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add FILE...",
		Short: "Index the registry objects of documents",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd.Context())
			defer cancel()

			c, err := catalog.Open(ctx, a.cfg.Catalog.Path)
			if err != nil {
				return err
			}
			defer c.Close()

			for _, file := range args {
				doc, err := rifcs.ParseFile(file)
				if err != nil {
					return err
				}
				n, err := c.Add(ctx, file, doc.Registry())
				if err != nil {
					return err
				}
				a.logger.Debug("catalogued document", "file", file, "objects", n, "catalog", a.cfg.Catalog.Path)
				if err := writef(a.stdout, "%s: %d objects\n", file, n); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newCatalogListCmd(a *app) *cobra.Command {
	var class, format string
	cmd := &cobra.Command{
		Use:   "list [--class CLASS] [--format text|yaml]",
		Short: "List catalogued registry objects",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			oc := rifcs.ObjectClass(class)
			if oc != rifcs.Unclassified && !oc.Valid() {
				return usagef("unknown class %q", class)
			}
			if format != "text" && format != "yaml" {
				return usagef("unknown format %q", format)
			}
			ctx, cancel := a.context(cmd.Context())
			defer cancel()

			c, err := catalog.Open(ctx, a.cfg.Catalog.Path)
			if err != nil {
				return err
			}
			defer c.Close()

			entries, err := c.List(ctx, oc)
			if err != nil {
				return err
			}
			if format == "yaml" {
				out, err := yaml.Marshal(entries)
				if err != nil {
					return fmt.Errorf("encode entries: %w", err)
				}
				_, err = a.stdout.Write(out)
				return err
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			for _, e := range entries {
				if err := writef(tw, "%s\t%s\t%s\t%s\t%s\n", e.Key, e.Class, e.Group, e.Title, e.File); err != nil {
					return err
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&class, "class", "", "only list objects of this class")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or yaml")
	return cmd
}
