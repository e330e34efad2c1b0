package instrumentation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(previous) })
	return recorder
}

func TestStartAPISpan(t *testing.T) {
	recorder := withRecorder(t)

	ctx, span := StartAPISpan(context.Background(), ServiceTrello, OperationCreate)
	assert.NotEmpty(t, GetTraceID(ctx))
	EndSpan(span, nil)

	spans := recorder.Ended()
	if assert.Len(t, spans, 1) {
		assert.Equal(t, "api.trello.create", spans[0].Name())
		assert.Equal(t, codes.Ok, spans[0].Status().Code)
	}
}

func TestEndSpan_Error(t *testing.T) {
	recorder := withRecorder(t)

	_, span := StartSpan(context.Background(), "sync")
	EndSpan(span, errors.New("board not found"))

	spans := recorder.Ended()
	if assert.Len(t, spans, 1) {
		assert.Equal(t, codes.Error, spans[0].Status().Code)
		assert.Equal(t, "board not found", spans[0].Status().Description)
	}
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Equal(t, "", GetTraceID(context.Background()))
}
