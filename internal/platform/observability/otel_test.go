package observability

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestInit_InstallsTraceContextPropagation(t *testing.T) {
	instruments, shutdown, err := Init(context.Background(), Settings{
		ServiceName: "petstore-mock",
		Exporter:    ExporterNone,
		LogLevel:    "warn",
	})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, shutdown(context.Background())) })

	ctx, span := instruments.Tracer("test").Start(context.Background(), "create pet")
	header := http.Header{}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(header))
	span.End()
	require.NotEmpty(t, header.Get("traceparent"))

	// The receiving side resumes the same trace from the header.
	remote := otel.GetTextMapPropagator().Extract(context.Background(), propagation.HeaderCarrier(header))
	require.Equal(t, span.SpanContext().TraceID(), trace.SpanContextFromContext(remote).TraceID())
	require.NotNil(t, instruments.Meter("test"))
}

func TestInit_RejectsBadSettings(t *testing.T) {
	_, _, err := Init(context.Background(), Settings{Exporter: ExporterNone})
	require.ErrorContains(t, err, "service name")

	_, _, err = Init(context.Background(), Settings{ServiceName: "svc", Exporter: "zipkin"})
	require.ErrorContains(t, err, "zipkin")

	_, _, err = Init(context.Background(), Settings{ServiceName: "svc", Exporter: ExporterNone, LogLevel: "loud"})
	require.Error(t, err)
}

func TestPropagator_Fields(t *testing.T) {
	require.ElementsMatch(t, []string{"traceparent", "tracestate", "baggage"}, Propagator().Fields())
}

func TestInstruments_NilIsUsable(t *testing.T) {
	var instruments *Instruments
	require.NotNil(t, instruments.Tracer("x"))
	require.NotNil(t, instruments.Meter("x"))
}
