// Package telemetry installs the OpenTelemetry tracer provider and forwards finished spans to the logger.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/pkgdeps/internal/core/ports"
)

// attrLogger is implemented by loggers that accept structured debug attributes.
type attrLogger interface {
	DebugAttrs(msg string, attrs ...slog.Attr)
}

// Bridge implements sdktrace.SpanProcessor to bridge OTel spans to a Logger.
// Each finished span becomes one debug line, structured when the logger supports it.
type Bridge struct {
	logger ports.Logger
}

// NewBridge returns a new Bridge.
func NewBridge(logger ports.Logger) *Bridge {
	return &Bridge{
		logger: logger,
	}
}

// OnStart does nothing.
func (b *Bridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd is called when a span ends.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil {
		return
	}
	if !s.SpanContext().IsValid() {
		return
	}
	if al, ok := b.logger.(attrLogger); ok {
		al.DebugAttrs(s.Name(), SpanAttrs(s)...)
		return
	}
	b.logger.Debug(FormatSpan(s))
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}

// SpanAttrs converts a finished span into slog attributes: the span attributes in order,
// then its duration, then an error attribute when the span failed.
func SpanAttrs(s sdktrace.ReadOnlySpan) []slog.Attr {
	kvs := s.Attributes()
	attrs := make([]slog.Attr, 0, len(kvs)+2)
	for _, kv := range kvs {
		attrs = append(attrs, slog.Any(string(kv.Key), kv.Value.AsInterface()))
	}
	attrs = append(attrs, slog.Duration("duration", s.EndTime().Sub(s.StartTime())))

	if s.Status().Code == codes.Error {
		attrs = append(attrs, slog.String("error", statusDescription(s)))
	}
	return attrs
}

func statusDescription(s sdktrace.ReadOnlySpan) string {
	if desc := s.Status().Description; desc != "" {
		return desc
	}
	return "failed"
}

// FormatSpan renders a span as "name duration key=value ...".
// Failed spans carry an error attribute with the status description.
func FormatSpan(s sdktrace.ReadOnlySpan) string {
	var sb strings.Builder
	sb.WriteString(s.Name())
	sb.WriteByte(' ')
	sb.WriteString(s.EndTime().Sub(s.StartTime()).Round(time.Microsecond).String())

	for _, kv := range s.Attributes() {
		fmt.Fprintf(&sb, " %s=%s", kv.Key, kv.Value.Emit())
	}

	if s.Status().Code == codes.Error {
		fmt.Fprintf(&sb, " error=%q", statusDescription(s))
	}

	return sb.String()
}
