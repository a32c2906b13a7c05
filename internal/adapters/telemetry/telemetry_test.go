package telemetry_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/pkgdeps/internal/adapters/logger"
	"go.trai.ch/pkgdeps/internal/adapters/telemetry"
	"go.trai.ch/pkgdeps/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestBridge_LogsFinishedSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	var lines []string
	log.EXPECT().Debug(gomock.Any()).Do(func(msg string) {
		lines = append(lines, msg)
	}).Times(2)

	p := telemetry.NewProvider(log)
	defer func() { _ = p.Shutdown(context.Background()) }()

	tracer := p.Tracer("test")
	ctx, root := tracer.Start(context.Background(), "resolve")
	_, child := tracer.Start(ctx, "package.lookup")
	child.SetAttributes(attribute.String("package", "ui"), attribute.String("source", "workspace"))
	child.End()
	root.End()

	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "package.lookup ")
	assert.Contains(t, lines[0], "package=ui")
	assert.Contains(t, lines[0], "source=workspace")
	assert.Contains(t, lines[1], "resolve ")
}

func TestBridge_NilLogger(t *testing.T) {
	p := telemetry.NewProvider(nil)
	defer func() { _ = p.Shutdown(context.Background()) }()

	assert.NotPanics(t, func() {
		_, span := p.Tracer("test").Start(context.Background(), "resolve")
		span.End()
	})
}

func TestProvider_ExtraProcessors(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).Times(1)

	sr := tracetest.NewSpanRecorder()
	p := telemetry.NewProvider(log, sr)
	defer func() { _ = p.Shutdown(context.Background()) }()

	_, span := p.Tracer("test").Start(context.Background(), "resolve")
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "resolve", spans[0].Name())
}

func TestFormatSpan_Error(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	p := telemetry.NewProvider(nil, sr)
	defer func() { _ = p.Shutdown(context.Background()) }()

	_, span := p.Tracer("test").Start(context.Background(), "package.lookup")
	span.SetAttributes(attribute.String("package", "Z"))
	span.RecordError(errors.New("boom"))
	span.SetStatus(codes.Error, "unresolved package")
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)

	line := telemetry.FormatSpan(spans[0])
	assert.Contains(t, line, "package.lookup ")
	assert.Contains(t, line, "package=Z")
	assert.Contains(t, line, `error="unresolved package"`)
}

func TestBridge_StructuredLogger(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	lg.SetVerbose(true)

	p := telemetry.NewProvider(lg)
	defer func() { _ = p.Shutdown(context.Background()) }()

	_, span := p.Tracer("test").Start(context.Background(), "package.lookup")
	span.SetAttributes(attribute.String("package", "ui"), attribute.String("source", "framework"))
	span.End()

	assert.Contains(t, buf.String(), "~ package.lookup ui (framework) ")
	assert.NotContains(t, buf.String(), "package=ui")
}

func TestSpanAttrs(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	p := telemetry.NewProvider(nil, sr)
	defer func() { _ = p.Shutdown(context.Background()) }()

	_, span := p.Tracer("test").Start(context.Background(), "package.lookup")
	span.SetAttributes(attribute.String("package", "Z"), attribute.Int("attempt", 1))
	span.SetStatus(codes.Error, "")
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)

	attrs := telemetry.SpanAttrs(spans[0])
	require.Len(t, attrs, 4)
	assert.Equal(t, "package", attrs[0].Key)
	assert.Equal(t, "Z", attrs[0].Value.String())
	assert.Equal(t, "attempt", attrs[1].Key)
	assert.Equal(t, int64(1), attrs[1].Value.Int64())
	assert.Equal(t, "duration", attrs[2].Key)
	assert.Equal(t, slog.KindDuration, attrs[2].Value.Kind())
	assert.GreaterOrEqual(t, attrs[2].Value.Duration(), time.Duration(0))
	assert.Equal(t, slog.String("error", "failed"), attrs[3])
}
