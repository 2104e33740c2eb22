package otel_test

import (
	"context"
	"errors"
	"stayfinder/infras/otel"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestScope_RecordsErrorAndAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("test").Start(context.Background(), "archive")
	scope := otel.NewScope(span)

	scope.SetAttributes(map[string]any{
		"listing.id":        "l-1",
		"affected_bookings": 2,
		"allow_stays":       false,
	})
	scope.TraceIfError(nil)
	scope.TraceIfError(errors.New("listing is already archived"))
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "listing is already archived", spans[0].Status().Description)
	assert.Len(t, spans[0].Attributes(), 3)
}

func TestScope_AttributeTypes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("test").Start(context.Background(), "unarchive")
	scope := otel.NewScope(span)

	archivedAt := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)

	scope.SetAttribute("archived_at", archivedAt)
	scope.SetAttribute("cause", errors.New("listing not found"))
	scope.SetAttribute("price", 120.5)
	scope.SetAttribute("booking_ids", []string{"B1", "B2"})
	scope.SetAttribute("guests", uint8(3))
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	got := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		got[kv.Key] = kv.Value
	}

	assert.Equal(t, "2025-06-01T08:30:00Z", got["archived_at"].AsString())
	assert.Equal(t, "listing not found", got["cause"].AsString())
	assert.InDelta(t, 120.5, got["price"].AsFloat64(), 0.0001)
	assert.Equal(t, []string{"B1", "B2"}, got["booking_ids"].AsStringSlice())
	assert.Equal(t, "3", got["guests"].AsString())
}
