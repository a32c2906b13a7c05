package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/pkgdeps/internal/ui/output"
	"go.trai.ch/pkgdeps/internal/ui/style"
)

// Attribute keys the pretty handler lays out instead of printing as key=value.
const (
	AttrPackage     = "package"
	AttrSource      = "source"
	AttrRequestedBy = "requested_by"
	AttrDuration    = "duration"
	AttrError       = "error"
)

// PrettyHandler is a custom slog.Handler that produces human-readable,
// colored output using the shared UI components.
//
// Resolution attributes get a fixed layout:
//
//	~ package.lookup ui (workspace) ← app 1.2ms
//
// Anything else follows as key=value, with group names joined by dots.
type PrettyHandler struct {
	out    *termenv.Output
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// NewPrettyHandler creates a new PrettyHandler writing to the provided writer.
// The level is read on every record, so a *slog.LevelVar can change it later.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   output.New(w),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// record collects the parts of one log line before it is written.
type record struct {
	pkg         string
	source      string
	requestedBy string
	duration    time.Duration
	hasDuration bool
	err         string
	rest        []string
}

// Handle formats and outputs the log record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	prefix, color := levelStyle(r.Level)

	var rec record
	for _, attr := range h.attrs {
		rec.add(nil, attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		rec.add(h.groups, attr)
		return true
	})

	var sb strings.Builder
	sb.WriteString(h.out.String(prefix + r.Message).Foreground(color).String())
	h.writeParts(&sb, &rec, color)
	sb.WriteByte('\n')

	_, err := h.out.WriteString(sb.String())
	return err
}

func (h *PrettyHandler) writeParts(sb *strings.Builder, rec *record, color termenv.Color) {
	if rec.pkg != "" {
		sb.WriteByte(' ')
		sb.WriteString(h.out.String(rec.pkg).Bold().String())
	}
	if rec.source != "" {
		sb.WriteByte(' ')
		label := "(" + rec.source + ")"
		sb.WriteString(h.out.String(label).Foreground(termenv.RGBColor(string(style.SourceColor(rec.source)))).String())
	}
	if rec.requestedBy != "" {
		sb.WriteString(" " + style.BackArrow + " " + rec.requestedBy)
	}
	if rec.hasDuration {
		sb.WriteByte(' ')
		sb.WriteString(h.out.String(rec.duration.Round(time.Microsecond).String()).Faint().String())
	}
	for _, part := range rec.rest {
		sb.WriteByte(' ')
		sb.WriteString(h.out.String(part).Foreground(color).String())
	}
	if rec.err != "" {
		sb.WriteByte(' ')
		errPart := fmt.Sprintf("%s=%q", AttrError, rec.err)
		sb.WriteString(h.out.String(errPart).Foreground(termenv.RGBColor(string(style.Red))).String())
	}
}

// add routes attr into the record. Only ungrouped attributes get the resolution layout.
func (rec *record) add(groups []string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()

	if attr.Value.Kind() == slog.KindGroup {
		sub := groups
		if attr.Key != "" {
			sub = append(append([]string(nil), groups...), attr.Key)
		}
		for _, a := range attr.Value.Group() {
			rec.add(sub, a)
		}
		return
	}
	if attr.Equal(slog.Attr{}) {
		return
	}

	if len(groups) == 0 {
		switch attr.Key {
		case AttrPackage:
			rec.pkg = attr.Value.String()
			return
		case AttrSource:
			rec.source = attr.Value.String()
			return
		case AttrRequestedBy:
			rec.requestedBy = attr.Value.String()
			return
		case AttrDuration:
			if attr.Value.Kind() == slog.KindDuration {
				rec.duration = attr.Value.Duration()
				rec.hasDuration = true
				return
			}
		case AttrError:
			rec.err = attr.Value.String()
			return
		}
	}

	key := attr.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	rec.rest = append(rec.rest, key+"="+attr.Value.String())
}

func levelStyle(level slog.Level) (string, termenv.Color) {
	switch {
	case level >= slog.LevelError:
		return style.Cross + " ", termenv.RGBColor(string(style.Red))
	case level >= slog.LevelWarn:
		return style.Warning + " ", termenv.RGBColor(string(style.Yellow))
	case level >= slog.LevelInfo:
		return "", termenv.RGBColor(string(style.Slate))
	default:
		return style.Tilde + " ", termenv.RGBColor(string(style.Slate))
	}
}

// WithAttrs returns a new Handler with the given attributes appended.
// Attributes added inside a group keep that group.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	for _, a := range attrs {
		newAttrs = append(newAttrs, nest(h.groups, a))
	}

	return &PrettyHandler{
		out:    h.out,
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

// WithGroup returns a new Handler with the given group name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	groups := make([]string, len(h.groups), len(h.groups)+1)
	copy(groups, h.groups)

	return &PrettyHandler{
		out:    h.out,
		level:  h.level,
		attrs:  h.attrs,
		groups: append(groups, name),
	}
}

// nest wraps a in the given groups, innermost last.
func nest(groups []string, a slog.Attr) slog.Attr {
	for i := len(groups) - 1; i >= 0; i-- {
		a = slog.Attr{Key: groups[i], Value: slog.GroupValue(a)}
	}
	return a
}
