package propkit

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func recordingNamespace(t *testing.T, opts ...Option) (*Namespace, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	opts = append(opts, WithTracer(tp.Tracer("test")), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return NewTypes(opts...), recorder
}

func TestObserveRecordsSpanOnSuccess(t *testing.T) {
	ns, recorder := recordingNamespace(t)

	assert.True(t, ns.ValidateProp("title", TypeString, "ok"))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]

	assert.Equal(t, "propkit.check", span.Name())
	assert.Equal(t, codes.Ok, span.Status().Code)

	attrs := span.Attributes()
	assert.Contains(t, attrs, attribute.String("propkit.namespace", ns.ID()))
	assert.Contains(t, attrs, attribute.String("propkit.kind", string(KindString)))
	assert.Contains(t, attrs, attribute.String("propkit.prop", "title"))
}

func TestObserveRecordsSpanOnFailure(t *testing.T) {
	ns, recorder := recordingNamespace(t)

	assert.Error(t, ns.CheckType(TypeString, 10))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]

	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Contains(t, span.Status().Description, "expected string")
}

func TestObserveOmitsPropAttributeWhenUnnamed(t *testing.T) {
	ns, recorder := recordingNamespace(t)

	ns.ValidateType(TypeString, "ok")

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	for _, attr := range spans[0].Attributes() {
		assert.NotEqual(t, attribute.Key("propkit.prop"), attr.Key)
	}
}

func TestObserveSpanPerCheck(t *testing.T) {
	ns, recorder := recordingNamespace(t)

	ns.ValidateType(TypeString, "a")
	ns.ValidateType(TypeNumber, 1)
	ns.CheckType(TypeBoolean, true)

	assert.Len(t, recorder.Ended(), 3)
}

func TestWithMeterCountersCreated(t *testing.T) {
	// The noop provider satisfies instrument creation; the counters just
	// must not disturb validation semantics.
	ns := NewTypes(
		WithMeter(noopmetric.NewMeterProvider().Meter("test")),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	assert.True(t, ns.ValidateType(TypeString, "ok"))
	assert.False(t, ns.ValidateType(TypeString, 10))
	assert.Error(t, ns.CheckProp("n", TypeNumber, "x"))
}

func TestUninstrumentedNamespaceSkipsObservation(t *testing.T) {
	ns := NewTypes()

	assert.Nil(t, ns.tracer)
	assert.Nil(t, ns.metrics)
	assert.True(t, ns.ValidateType(TypeString, "ok"))
}
