// Package xsd compiles XML Schema 1.0 documents and validates XML instances
// against them.
package xsd

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/beevik/etree"

	"github.com/ands/rifcs/errors"
	"github.com/ands/rifcs/internal/validator"
)

// Schema is a compiled schema. It is immutable and safe for concurrent use.
type Schema struct {
	validator *validator.Validator
}

// LoadOptions configures schema loading and compilation.
type LoadOptions struct {
	AllowMissingImportLocations bool
	MaxPositions                int
}

// Load loads and compiles a schema from the given filesystem and location.
func Load(fsys fs.FS, location string) (*Schema, error) {
	return LoadWithOptions(fsys, location, LoadOptions{})
}

// LoadWithOptions loads and compiles a schema with explicit configuration.
func LoadWithOptions(fsys fs.FS, location string, opts LoadOptions) (*Schema, error) {
	schema, err := CompileFS(fsys, location,
		WithAllowMissingImportLocations(opts.AllowMissingImportLocations),
		WithCompileLimits(CompileLimits{MaxPositions: opts.MaxPositions}),
	)
	if err != nil {
		return nil, fmt.Errorf("load schema %s: %w", location, err)
	}
	return schema, nil
}

// LoadFile loads and compiles a schema from a file path.
func LoadFile(path string) (*Schema, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	return LoadWithOptions(os.DirFS(dir), base, LoadOptions{})
}

// Validate validates a document against the schema.
func (s *Schema) Validate(r io.Reader) error {
	if s == nil || s.validator == nil {
		return schemaNotLoadedError()
	}
	if r == nil {
		return errors.ValidationList{errors.NewValidation(errors.ErrXMLParse, "nil reader", "")}
	}
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return errors.ValidationList{errors.NewValidationf(errors.ErrXMLParse, "", "parse document: %v", err)}
	}
	return s.validator.Validate(doc)
}

// ValidateDocument validates an already parsed document.
func (s *Schema) ValidateDocument(doc *etree.Document) error {
	if s == nil || s.validator == nil {
		return schemaNotLoadedError()
	}
	if doc == nil {
		return errors.ValidationList{errors.NewValidation(errors.ErrNoRoot, "nil document", "")}
	}
	return s.validator.Validate(doc)
}

// ValidateFile validates an XML file against the schema.
func (s *Schema) ValidateFile(path string) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open xml file %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close xml file %s: %w", path, closeErr)
		}
	}()

	return s.Validate(f)
}

// GlobalElements returns the number of global element declarations.
func (s *Schema) GlobalElements() int {
	if s == nil || s.validator == nil {
		return 0
	}
	return len(s.validator.Schema().Elements)
}

func schemaNotLoadedError() error {
	return errors.ValidationList{errors.NewValidation(errors.ErrSchemaNotLoaded, "schema not loaded", "")}
}
