package xsd

import (
	"fmt"
	"io"
	"io/fs"

	"github.com/beevik/etree"

	"github.com/ands/rifcs/internal/model"
	"github.com/ands/rifcs/internal/parser"
	"github.com/ands/rifcs/internal/validator"
)

// CompileOption configures schema compilation.
type CompileOption interface{ apply(*compileOptions) }

// CompileLimits constrain compilation behavior.
type CompileLimits struct {
	// MaxPositions bounds the expansion of a single content model.
	MaxPositions int
	// MaxErrors caps the violations collected per validated document.
	MaxErrors int
}

type compileOptions struct {
	fsys                        fs.FS
	resolver                    Resolver
	baseSystemID                string
	allowMissingImportLocations bool
	limits                      CompileLimits
}

type compileOptionFunc func(*compileOptions)

func (f compileOptionFunc) apply(cfg *compileOptions) {
	if cfg == nil {
		return
	}
	f(cfg)
}

// WithResolver sets a custom schema resolver.
func WithResolver(r Resolver) CompileOption {
	return compileOptionFunc(func(cfg *compileOptions) {
		cfg.resolver = r
	})
}

// WithFS overrides the filesystem used for schema loading.
func WithFS(fsys fs.FS) CompileOption {
	return compileOptionFunc(func(cfg *compileOptions) {
		cfg.fsys = fsys
	})
}

// WithBaseSystemID sets the base system ID for reader-based compilation.
func WithBaseSystemID(base string) CompileOption {
	return compileOptionFunc(func(cfg *compileOptions) {
		cfg.baseSystemID = base
	})
}

// WithAllowMissingImportLocations controls import-without-location behavior.
func WithAllowMissingImportLocations(b bool) CompileOption {
	return compileOptionFunc(func(cfg *compileOptions) {
		cfg.allowMissingImportLocations = b
	})
}

// WithCompileLimits sets compilation limits.
func WithCompileLimits(l CompileLimits) CompileOption {
	return compileOptionFunc(func(cfg *compileOptions) {
		cfg.limits = l
	})
}

// CompileFS compiles a schema from the given filesystem and root path.
func CompileFS(fsys fs.FS, root string, opts ...CompileOption) (*Schema, error) {
	cfg := applyCompileOptions(opts)
	if cfg.fsys != nil {
		fsys = cfg.fsys
	}
	if fsys == nil {
		return nil, fmt.Errorf("compile schema: nil fs")
	}
	if cfg.resolver == nil {
		cfg.resolver = parser.NewFSResolver(fsys)
	}
	f, err := fsys.Open(root)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", root, err)
	}
	defer f.Close()
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", root, err)
	}
	cfg.baseSystemID = root
	return compile(doc, cfg)
}

// CompileSchema compiles a schema from an io.Reader.
func CompileSchema(r io.Reader, opts ...CompileOption) (*Schema, error) {
	if r == nil {
		return nil, fmt.Errorf("compile schema: nil reader")
	}
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return Compile(doc, opts...)
}

// Compile compiles an already parsed schema document. Includes and imports
// are resolved relative to WithBaseSystemID through the configured resolver
// or filesystem.
func Compile(doc *etree.Document, opts ...CompileOption) (*Schema, error) {
	if doc == nil {
		return nil, fmt.Errorf("compile schema: nil document")
	}
	return compile(doc, applyCompileOptions(opts))
}

func compile(doc *etree.Document, cfg compileOptions) (*Schema, error) {
	baseSystemID := cfg.baseSystemID
	if baseSystemID == "" {
		baseSystemID = "schema.xsd"
	}
	resolver := cfg.resolver
	if resolver == nil && cfg.fsys != nil {
		resolver = parser.NewFSResolver(cfg.fsys)
	}
	parsed, err := parser.Parse(doc, baseSystemID, parser.Options{
		Resolver:                    resolver,
		AllowMissingImportLocations: cfg.allowMissingImportLocations,
	})
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", baseSystemID, err)
	}
	return newSchema(parsed, cfg.limits)
}

func newSchema(parsed *model.Schema, limits CompileLimits) (*Schema, error) {
	v, err := validator.Compile(parsed, validator.Options{
		MaxPositions: limits.MaxPositions,
		MaxErrors:    limits.MaxErrors,
	})
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{validator: v}, nil
}

func applyCompileOptions(opts []CompileOption) compileOptions {
	var cfg compileOptions
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&cfg)
		}
	}
	return cfg
}
