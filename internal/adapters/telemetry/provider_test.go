package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/lockmend/internal/adapters/telemetry"
	"go.trai.ch/lockmend/internal/core/ports"
)

func TestOTelTracer_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := telemetry.NewProvider(recorder)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	tracer := telemetry.NewOTelTracer(tp)

	ctx, parent := tracer.Start(context.Background(), "autofix", ports.WithAttribute("lockfile", "yarn.lock"))
	_, child := tracer.Start(ctx, "retrieve")
	child.SetAttribute("variants", 2)
	child.SetAttribute("commits", []string{"a", "b"})
	child.SetAttribute("immutable", false)
	child.SetAttribute("other", struct{ X int }{X: 1})
	child.RecordError(errors.New("git failed"))
	child.End()
	parent.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	retrieve, autofix := spans[0], spans[1]
	assert.Equal(t, "retrieve", retrieve.Name())
	assert.Equal(t, "autofix", autofix.Name())
	assert.Equal(t, autofix.SpanContext().SpanID(), retrieve.Parent().SpanID())

	assert.Contains(t, autofix.Attributes(), attribute.String("lockfile", "yarn.lock"))
	assert.Contains(t, retrieve.Attributes(), attribute.Int("variants", 2))
	assert.Contains(t, retrieve.Attributes(), attribute.StringSlice("commits", []string{"a", "b"}))
	assert.Contains(t, retrieve.Attributes(), attribute.Bool("immutable", false))
	assert.Contains(t, retrieve.Attributes(), attribute.String("other", "{1}"))

	assert.Equal(t, codes.Error, retrieve.Status().Code)
	assert.Equal(t, "git failed", retrieve.Status().Description)
	assert.Equal(t, codes.Unset, autofix.Status().Code)
}

func TestOTelSpan_RecordNilError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := telemetry.NewProvider(recorder)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := telemetry.NewOTelTracer(tp).Start(context.Background(), "stage")
	span.RecordError(nil)
	span.End()

	require.Len(t, recorder.Ended(), 1)
	assert.Equal(t, codes.Unset, recorder.Ended()[0].Status().Code)
}

func TestNoOpTracer(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()
	ctx := context.Background()

	got, span := tracer.Start(ctx, "stage", ports.WithAttribute("k", "v"))
	assert.Equal(t, ctx, got)

	span.SetAttribute("k", "v")
	span.RecordError(errors.New("ignored"))
	span.End()
}
