package logger_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/pkgdeps/internal/adapters/logger"
)

func newTestHandler(t *testing.T) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	h := logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(h), buf
}

func TestPrettyHandler_ResolutionLayout(t *testing.T) {
	tests := []struct {
		name  string
		level slog.Level
		msg   string
		attrs []slog.Attr
		want  string
	}{
		{
			name:  "lookup with source and duration",
			level: slog.LevelDebug,
			msg:   "package.lookup",
			attrs: []slog.Attr{
				slog.Duration(logger.AttrDuration, 1234567*time.Nanosecond),
				slog.String(logger.AttrSource, "workspace"),
				slog.String(logger.AttrPackage, "ui"),
			},
			want: "~ package.lookup ui (workspace) 1.235ms\n",
		},
		{
			name:  "unresolved requirement",
			level: slog.LevelWarn,
			msg:   "not found",
			attrs: []slog.Attr{
				slog.String(logger.AttrPackage, "charts"),
				slog.String(logger.AttrRequestedBy, "app"),
			},
			want: "! not found charts ← app\n",
		},
		{
			name:  "error attribute goes last",
			level: slog.LevelDebug,
			msg:   "package.lookup",
			attrs: []slog.Attr{
				slog.Any(logger.AttrError, errors.New("unresolved package")),
				slog.String(logger.AttrPackage, "Z"),
				slog.Int("attempt", 2),
			},
			want: "~ package.lookup Z attempt=2 error=\"unresolved package\"\n",
		},
		{
			name:  "non-duration value under the duration key",
			level: slog.LevelInfo,
			msg:   "cached",
			attrs: []slog.Attr{slog.String(logger.AttrDuration, "forever")},
			want:  "cached duration=forever\n",
		},
		{
			name:  "plain message",
			level: slog.LevelError,
			msg:   "failed",
			want:  "✗ failed\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, buf := newTestHandler(t)
			log.LogAttrs(context.Background(), tt.level, tt.msg, tt.attrs...)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrettyHandler_Groups(t *testing.T) {
	log, buf := newTestHandler(t)

	log.With(slog.String(logger.AttrSource, "registry")).
		WithGroup("http").
		With(slog.Int("status", 404)).
		Info("fetched", slog.String(logger.AttrPackage, "grouped"))

	// Grouped attributes never take the resolution layout.
	assert.Equal(t, "fetched (registry) http.status=404 http.package=grouped\n", buf.String())
}

func TestPrettyHandler_InlineGroupAttr(t *testing.T) {
	log, buf := newTestHandler(t)

	log.Info("snapshot", slog.Group("diff", slog.Int("added", 1), slog.Int("removed", 0)))

	assert.Equal(t, "snapshot diff.added=1 diff.removed=0\n", buf.String())
}

func TestPrettyHandler_Level(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var level slog.LevelVar
	buf := &bytes.Buffer{}
	log := slog.New(logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: &level}))

	log.Debug("hidden")
	assert.Empty(t, buf.String())

	level.Set(slog.LevelDebug)
	log.Debug("shown")
	assert.Equal(t, "~ shown\n", buf.String())
}

func TestLogger_DebugAttrs(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.DebugAttrs("package.lookup", slog.String(logger.AttrPackage, "ui"))
	assert.Empty(t, buf.String(), "debug attributes are hidden by default")

	lg.SetVerbose(true)
	lg.DebugAttrs("package.lookup",
		slog.String(logger.AttrPackage, "ui"),
		slog.String(logger.AttrSource, "framework"),
		slog.Duration(logger.AttrDuration, 42*time.Microsecond),
	)

	g := goldie.New(t)
	g.Assert(t, "debug_attrs", buf.Bytes())
}
