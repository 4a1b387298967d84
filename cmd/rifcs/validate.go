package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/beevik/etree"
	"github.com/spf13/cobra"

	"github.com/ands/rifcs"
	rifcserrors "github.com/ands/rifcs/errors"
	"github.com/ands/rifcs/internal/watch"
	"github.com/ands/rifcs/schema"
	"github.com/ands/rifcs/xsd"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		schemaURL string
		watchMode bool
	)
	cmd := &cobra.Command{
		Use:   "validate [--schema URL] [--watch] FILE...",
		Short: "Validate documents against the RIF-CS schema",
		Long: `Validate composes the RIF-CS schema modules and validates each FILE
against the result. With --schema the given schema is used as is.
Exit status is 0 when every document validates and 1 otherwise.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, files []string) error {
			if !watchMode {
				return a.validateFiles(cmd.Context(), schemaURL, files)
			}
			return a.watchFiles(cmd.Context(), schemaURL, files)
		},
	}
	cmd.Flags().StringVar(&schemaURL, "schema", "", "validate against this schema instead of the composed one")
	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "revalidate files whenever they change")
	return cmd
}

func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

func compileSchema(ctx context.Context, v *schema.Validator, schemaURL string) (*xsd.Schema, error) {
	if schemaURL != "" {
		return v.SchemaAt(ctx, schemaURL)
	}
	return v.Schema(ctx)
}

// validateFiles compiles the schema once and validates every file,
// returning errInvalid when any document does not conform.
func (a *app) validateFiles(parent context.Context, schemaURL string, files []string) error {
	ctx, cancel := a.context(parent)
	defer cancel()

	v := a.validator()
	compiled, err := compileSchema(ctx, v, schemaURL)
	if err != nil {
		return err
	}
	failed := false
	for _, file := range files {
		ok, err := a.validateFile(ctx, v.Check, compiled, file)
		if err != nil {
			return err
		}
		failed = failed || !ok
	}
	if failed {
		return errInvalid
	}
	return nil
}

type checkFunc func(ctx context.Context, schema *xsd.Schema, doc *etree.Document) error

func (a *app) validateFile(ctx context.Context, check checkFunc, compiled *xsd.Schema, file string) (bool, error) {
	doc, err := rifcs.ParseFile(file)
	if err != nil {
		a.logger.Debug("document rejected before schema validation", "file", file, "kind", rifcserrors.KindOf(err))
		if writeErr := writef(a.stderr, "%s: %v\n", file, err); writeErr != nil {
			return false, writeErr
		}
		return false, writef(a.stderr, "%s fails to validate\n", file)
	}
	err = check(ctx, compiled, doc.Tree())
	if err == nil {
		return true, writef(a.stdout, "%s validates\n", file)
	}
	if !errors.Is(err, rifcserrors.ErrValidation) {
		return false, err
	}
	var classified *rifcserrors.Error
	if errors.As(err, &classified) {
		for _, v := range classified.Violations() {
			if writeErr := writeln(a.stderr, file+": "+v.Error()); writeErr != nil {
				return false, writeErr
			}
		}
	}
	return false, writef(a.stderr, "%s fails to validate\n", file)
}

// watchFiles validates files now and again after every change until
// interrupted.
func (a *app) watchFiles(parent context.Context, schemaURL string, files []string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(watch.Config{Paths: files, Debounce: a.cfg.Watch.Debounce, Logger: a.logger})
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()
	changes, err := w.Start()
	if err != nil {
		return err
	}

	pass := func(files []string) error {
		err := a.validateFiles(ctx, schemaURL, files)
		if errors.Is(err, errInvalid) {
			return nil
		}
		return err
	}
	if err := pass(files); err != nil {
		return err
	}
	a.logger.Info("watching for changes", "files", len(files))
	for {
		select {
		case <-ctx.Done():
			return nil
		case changed := <-changes:
			if err := pass(changed); err != nil {
				return err
			}
		}
	}
}
