package propkit

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Namespace.
type Option func(*nsConfig)

// nsConfig holds configuration collected by NewTypes before the namespace is
// assembled.
type nsConfig struct {
	logger   *slog.Logger
	tracer   trace.Tracer
	meter    metric.Meter
	defaults map[Kind]any
}

// WithLogger routes the namespace's diagnostics through logger instead of the
// process default sink.
func WithLogger(logger *slog.Logger) Option {
	return func(c *nsConfig) {
		c.logger = logger
	}
}

// WithTracer enables an OpenTelemetry span around each namespace-bound
// validation run.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *nsConfig) {
		c.tracer = tracer
	}
}

// WithMeter enables check and failure counters on namespace-bound validation
// runs.
func WithMeter(meter metric.Meter) Option {
	return func(c *nsConfig) {
		c.meter = meter
	}
}

// WithDefaults seeds the namespace's mutable defaults record consulted by the
// convenience getters. The map is copied; later mutations of the argument do
// not reach the namespace.
func WithDefaults(defaults map[Kind]any) Option {
	return func(c *nsConfig) {
		if c.defaults == nil {
			c.defaults = make(map[Kind]any, len(defaults))
		}
		for k, v := range defaults {
			c.defaults[k] = v
		}
	}
}

// WithDefault seeds a single kind default, see WithDefaults.
func WithDefault(kind Kind, value any) Option {
	return func(c *nsConfig) {
		if c.defaults == nil {
			c.defaults = make(map[Kind]any)
		}
		c.defaults[kind] = value
	}
}
