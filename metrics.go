package propkit

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// nsMetrics holds the OpenTelemetry instruments for one namespace. They are
// created once in NewTypes when a meter is configured and reused for every
// namespace-bound validation run.
type nsMetrics struct {
	// checks counts validation runs, with kind and outcome attributes.
	checks metric.Int64Counter

	// failures counts failed runs, with kind attribute.
	failures metric.Int64Counter
}

func newNSMetrics(meter metric.Meter) (*nsMetrics, error) {
	m := &nsMetrics{}
	var err error

	m.checks, err = meter.Int64Counter(
		"propkit.checks",
		metric.WithDescription("Number of prop validation runs"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create checks counter: %w", err)
	}

	m.failures, err = meter.Int64Counter(
		"propkit.failures",
		metric.WithDescription("Number of failed prop validation runs"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create failures counter: %w", err)
	}

	return m, nil
}

// observe runs check under a span and records counters. With no tracer and no
// meter configured it reduces to calling check directly.
func (ns *Namespace) observe(kind Kind, prop string, check func() *ValidationError) *ValidationError {
	if ns.tracer == nil && ns.metrics == nil {
		return check()
	}

	ctx := context.Background()
	var span trace.Span
	if ns.tracer != nil {
		ctx, span = ns.tracer.Start(ctx, "propkit.check")
		defer span.End()
		span.SetAttributes(
			attribute.String("propkit.namespace", ns.id),
			attribute.String("propkit.kind", string(kind)),
		)
		if prop != "" {
			span.SetAttributes(attribute.String("propkit.prop", prop))
		}
	}

	err := check()

	if span != nil {
		if err == nil {
			span.SetStatus(codes.Ok, "")
		} else {
			span.SetStatus(codes.Error, err.Error())
		}
	}

	if ns.metrics != nil {
		opts := metric.WithAttributes(
			attribute.String("propkit.namespace", ns.id),
			attribute.String("propkit.kind", string(kind)),
			attribute.Bool("propkit.valid", err == nil),
		)
		ns.metrics.checks.Add(ctx, 1, opts)
		if err != nil {
			ns.metrics.failures.Add(ctx, 1, metric.WithAttributes(
				attribute.String("propkit.namespace", ns.id),
				attribute.String("propkit.kind", string(kind)),
			))
		}
	}
	return err
}
