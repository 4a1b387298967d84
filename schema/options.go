package schema

import (
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/ands/rifcs/xsd"
)

// Option configures a Composer or Validator.
type Option func(*options)

type options struct {
	locations Locations
	logger    *slog.Logger
	tracer    trace.Tracer
	limits    xsd.CompileLimits
}

// WithLocations overrides the module locations.
func WithLocations(l Locations) Option {
	return func(o *options) { o.locations = l }
}

// WithBase sets the module locations to DefaultLocations(base).
func WithBase(base string) Option {
	return func(o *options) { o.locations = DefaultLocations(base) }
}

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTracer sets the tracer. The default is a no-op tracer.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithCompileLimits bounds schema compilation and the number of violations
// reported per document.
func WithCompileLimits(l xsd.CompileLimits) Option {
	return func(o *options) { o.limits = l }
}

func applyOptions(opts []Option) options {
	o := options{
		locations: DefaultLocations(""),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:    noop.NewTracerProvider().Tracer("noop"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
