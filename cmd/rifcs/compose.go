package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newComposeCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "compose [-o FILE]",
		Short: "Write the composed RIF-CS schema",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd.Context())
			defer cancel()

			doc, err := a.validator().Composer().Compose(ctx)
			if err != nil {
				return err
			}
			doc.Indent(2)
			if output == "" || output == "-" {
				_, err := doc.WriteTo(a.stdout)
				return err
			}
			if err := doc.WriteToFile(output); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			info, err := os.Stat(output)
			if err != nil {
				return err
			}
			a.logger.Info("wrote composed schema", "path", output, "bytes", info.Size())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}
