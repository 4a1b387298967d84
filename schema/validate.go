package schema

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"

	"github.com/beevik/etree"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ands/rifcs/errors"
	"github.com/ands/rifcs/xsd"
)

// Validator checks documents against the composed RIF-CS schema or a single
// caller-supplied schema.
type Validator struct {
	fetcher  Fetcher
	composer *Composer
	opts     options
}

// NewValidator returns a Validator reading schema documents through fetcher.
func NewValidator(fetcher Fetcher, opts ...Option) *Validator {
	o := applyOptions(opts)
	return &Validator{
		fetcher:  fetcher,
		composer: &Composer{fetcher: fetcher, opts: o},
		opts:     o,
	}
}

// Composer returns the Composer used by Validate.
func (v *Validator) Composer() *Composer { return v.composer }

// Schema composes and compiles the RIF-CS schema. The result may be reused
// across documents.
func (v *Validator) Schema(ctx context.Context) (*xsd.Schema, error) {
	ctx, span := v.opts.tracer.Start(ctx, "schema.compile",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()

	comp, err := v.composer.compose(ctx)
	if err != nil {
		return nil, spanError(span, err)
	}
	res := &fetchResolver{
		ctx:      ctx,
		fetcher:  v.fetcher,
		known:    comp.foreign,
		skipNS:   comp.namespace,
		location: comp.location,
	}
	schema, err := xsd.Compile(comp.doc,
		xsd.WithResolver(res),
		xsd.WithBaseSystemID(comp.location),
		xsd.WithCompileLimits(v.opts.limits),
	)
	if err != nil {
		return nil, spanError(span, errors.SchemaFetch("compile", comp.location, err))
	}
	span.SetAttributes(attribute.Int("schema.global_elements", schema.GlobalElements()))
	span.SetStatus(codes.Ok, "")
	return schema, nil
}

// Validate composes the RIF-CS schema and validates doc against it. A
// non-conforming document yields a KindValidation error carrying the
// violations.
func (v *Validator) Validate(ctx context.Context, doc *etree.Document) error {
	schema, err := v.Schema(ctx)
	if err != nil {
		return err
	}
	return v.check(ctx, schema, v.opts.locations.Core, doc)
}

// ValidateWithSchema validates doc against the schema at location, skipping
// composition. Includes and imports of that schema are fetched relative to
// it.
func (v *Validator) ValidateWithSchema(ctx context.Context, doc *etree.Document, location string) error {
	schema, err := v.SchemaAt(ctx, location)
	if err != nil {
		return err
	}
	return v.check(ctx, schema, location, doc)
}

// SchemaAt fetches and compiles the single schema at location.
func (v *Validator) SchemaAt(ctx context.Context, location string) (*xsd.Schema, error) {
	ctx, span := v.opts.tracer.Start(ctx, "schema.compile",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("schema.location", location)),
	)
	defer span.End()

	doc, _, err := v.composer.fetch(ctx, location)
	if err != nil {
		return nil, spanError(span, err)
	}
	res := &fetchResolver{ctx: ctx, fetcher: v.fetcher, location: location}
	schema, err := xsd.Compile(doc,
		xsd.WithResolver(res),
		xsd.WithBaseSystemID(location),
		xsd.WithCompileLimits(v.opts.limits),
	)
	if err != nil {
		return nil, spanError(span, errors.SchemaFetch("compile", location, err))
	}
	span.SetStatus(codes.Ok, "")
	return schema, nil
}

// Check validates doc against an already compiled schema.
func (v *Validator) Check(ctx context.Context, schema *xsd.Schema, doc *etree.Document) error {
	return v.check(ctx, schema, "", doc)
}

func (v *Validator) check(ctx context.Context, schema *xsd.Schema, location string, doc *etree.Document) error {
	_, span := v.opts.tracer.Start(ctx, "schema.validate",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()

	err := schema.ValidateDocument(doc)
	if err == nil {
		v.opts.logger.Debug("document is valid", "schema", location)
		span.SetStatus(codes.Ok, "")
		return nil
	}
	list, ok := errors.AsValidations(err)
	if !ok {
		return spanError(span, err)
	}
	span.SetAttributes(attribute.Int("schema.violations", len(list)))
	v.opts.logger.Info("document is not valid", "schema", location, "violations", len(list))
	return spanError(span, errors.Validationf(location, errors.ValidationList(list)))
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// fetchResolver serves includes and imports during compilation. Modules the
// Composer already fetched are served from memory; anything else goes
// through the fetcher. Imports of skipNS are reported missing so the engine
// falls back to the declarations it already holds.
type fetchResolver struct {
	ctx      context.Context
	fetcher  Fetcher
	known    map[string][]byte
	skipNS   string
	location string
}

func (r *fetchResolver) Resolve(req xsd.ResolveRequest) (io.ReadCloser, string, error) {
	if req.Kind == xsd.ResolveImport && r.skipNS != "" && req.Namespace == r.skipNS {
		return nil, "", fmt.Errorf("namespace %s is composed: %w", req.Namespace, fs.ErrNotExist)
	}
	if raw, ok := r.known[req.SchemaLocation]; ok {
		return io.NopCloser(bytes.NewReader(raw)), req.SchemaLocation, nil
	}
	base := req.BaseSystemID
	if base == "" {
		base = r.location
	}
	loc := resolveLocation(base, req.SchemaLocation)
	if raw, ok := r.known[loc]; ok {
		return io.NopCloser(bytes.NewReader(raw)), loc, nil
	}
	if r.fetcher == nil {
		return nil, "", fmt.Errorf("no fetcher configured for %s", loc)
	}
	raw, err := r.fetcher.Fetch(r.ctx, loc)
	if err != nil {
		return nil, "", err
	}
	return io.NopCloser(bytes.NewReader(raw)), loc, nil
}
