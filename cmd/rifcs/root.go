package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ands/rifcs/internal/config"
	"github.com/ands/rifcs/internal/logging"
	"github.com/ands/rifcs/internal/tracing"
	"github.com/ands/rifcs/schema"
	"github.com/ands/rifcs/xsd"
)

var version = "dev"

// app carries the state shared by every subcommand of one invocation.
type app struct {
	stdout, stderr io.Writer

	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logger  *slog.Logger
	tracing *tracing.Provider

	val *schema.Validator

	cpuProfile  string
	memProfile  string
	stopProfile func() error
}

func newRootCmd(a *app) *cobra.Command {
	a.v = viper.New()
	root := &cobra.Command{
		Use:           "rifcs",
		Short:         "Work with RIF-CS registry documents",
		Long:          `rifcs validates RIF-CS registry documents against the composed RIF-CS schema, inspects and builds them, and keeps a catalogue of registry objects.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default: ./.rifcs.yaml or ~/.config/rifcs/config.yaml)")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("schema-base", "", "base URL of the RIF-CS schema modules")
	flags.String("schema-dir", "", "local directory mirroring the schema base")
	flags.Duration("timeout", 0, "timeout for fetching schemas and validating one pass")
	flags.Bool("trace", false, "enable OpenTelemetry tracing")
	flags.StringVar(&a.cpuProfile, "cpuprofile", "", "write CPU profile to file")
	flags.StringVar(&a.memProfile, "memprofile", "", "write memory profile to file")
	bindFlags(a.v, flags, map[string]string{
		"log.level":       "log-level",
		"schema.base":     "schema-base",
		"schema.dir":      "schema-dir",
		"schema.timeout":  "timeout",
		"tracing.enabled": "trace",
	})

	root.AddCommand(
		newValidateCmd(a),
		newInspectCmd(a),
		newComposeCmd(a),
		newNewCmd(a),
		newCatalogCmd(a),
		newConfigCmd(a),
	)
	return root
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}
}

// init loads configuration and builds the logger and tracer.
func (a *app) init() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(a.stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return usagef("%v", err)
	}
	a.logger = logger

	provider, err := tracing.NewProvider(cfg.Tracing, a.stderr)
	if err != nil {
		return err
	}
	a.tracing = provider

	if a.cpuProfile != "" {
		stop, err := startCPUProfile(a.cpuProfile)
		if err != nil {
			return err
		}
		a.stopProfile = stop
	}
	a.logger.Debug("configuration loaded", "config", a.v.ConfigFileUsed(), "schema_base", cfg.Schema.Base, "schema_dir", cfg.Schema.Dir)
	return nil
}

// context bounds one unit of work by the configured timeout.
func (a *app) context(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if a.cfg.Schema.Timeout > 0 {
		return context.WithTimeout(parent, a.cfg.Schema.Timeout)
	}
	return context.WithCancel(parent)
}

func (a *app) fetcher() schema.Fetcher {
	var f schema.Fetcher
	if a.cfg.Schema.Dir != "" {
		f = schema.DirFetcher{FS: os.DirFS(a.cfg.Schema.Dir), Base: a.cfg.Schema.Base}
	} else {
		f = &schema.HTTPFetcher{Client: &http.Client{Timeout: a.httpTimeout()}}
	}
	return schema.NewCachingFetcher(f, a.cfg.Schema.CacheTTL)
}

func (a *app) httpTimeout() time.Duration {
	if a.cfg.Schema.Timeout > 0 {
		return a.cfg.Schema.Timeout
	}
	return time.Minute
}

func (a *app) options() []schema.Option {
	return []schema.Option{
		schema.WithBase(a.cfg.Schema.Base),
		schema.WithLogger(a.logger),
		schema.WithTracer(a.tracing.Tracer()),
		schema.WithCompileLimits(xsd.CompileLimits{MaxErrors: a.cfg.Schema.MaxErrors}),
	}
}

// validator returns the invocation's Validator, sharing its module cache
// across passes.
func (a *app) validator() *schema.Validator {
	if a.val == nil {
		a.val = schema.NewValidator(a.fetcher(), a.options()...)
	}
	return a.val
}
