// Package resolver computes the transitive closure of package requirements.
package resolver

import (
	"context"
	"fmt"
	"reflect"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/pkgdeps/internal/core/domain"
	"go.trai.ch/pkgdeps/internal/core/ports"
	"go.trai.ch/zerr"
)

// TracerName is the instrumentation name used for resolver spans.
const TracerName = "go.trai.ch/pkgdeps/resolver"

// Span names emitted by the resolver.
const (
	SpanResolve = "resolve"
	SpanLookup  = "package.lookup"
)

// Resolver resolves package names against a fixed, ordered chain of sources.
type Resolver struct {
	sources []ports.Source
	tracer  trace.Tracer
}

// New validates the source chain and returns a Resolver over it.
// Sources are queried in the order given. The chain cannot be changed afterwards.
func New(sources ...ports.Source) (*Resolver, error) {
	if len(sources) == 0 {
		return nil, domain.NewInvalidSourceError(-1, "no sources configured")
	}

	seen := make(map[string]int, len(sources))
	for i, src := range sources {
		if isNil(src) {
			return nil, domain.NewInvalidSourceError(i, "source is nil")
		}

		name := src.Name()
		if name == "" {
			return nil, domain.NewInvalidSourceError(i, "source has no name")
		}
		if prev, ok := seen[name]; ok {
			return nil, domain.NewInvalidSourceError(i, fmt.Sprintf("duplicate source %q (first at index %d)", name, prev))
		}
		seen[name] = i
	}

	chain := make([]ports.Source, len(sources))
	copy(chain, sources)

	return &Resolver{
		sources: chain,
		tracer:  otel.Tracer(TracerName),
	}, nil
}

// WithTracer sets the tracer used for resolver spans.
func (r *Resolver) WithTracer(tracer trace.Tracer) *Resolver {
	r.tracer = tracer
	return r
}

// SourceNames returns the names of the source chain in priority order.
func (r *Resolver) SourceNames() []string {
	names := make([]string, len(r.sources))
	for i, src := range r.sources {
		names[i] = src.Name()
	}
	return names
}

// Resolve adds every package reachable from names through requires and extend edges to acc
// and returns it. A nil acc starts from an empty set. Names already present in acc are
// neither looked up nor descended into.
// Any name that no source can produce aborts the resolution with ErrUnresolvedPackage.
// On error the content of acc is unspecified.
func (r *Resolver) Resolve(
	ctx context.Context,
	names []string,
	fw *domain.Framework,
	acc *domain.PackageSet,
) (*domain.PackageSet, error) {
	if acc == nil {
		acc = domain.NewPackageSet()
	}

	ctx, span := r.tracer.Start(ctx, SpanResolve, trace.WithAttributes(
		attribute.StringSlice("packages", names),
		attribute.String("framework", frameworkName(fw)),
	))
	defer span.End()

	if err := r.resolve(ctx, names, "", fw, acc); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("resolved", acc.Len()))
	return acc, nil
}

func (r *Resolver) resolve(
	ctx context.Context,
	names []string,
	requestedBy string,
	fw *domain.Framework,
	acc *domain.PackageSet,
) error {
	for _, name := range names {
		if acc.Has(name) {
			continue
		}

		pkg, err := r.lookup(ctx, name, requestedBy, fw)
		if err != nil {
			return err
		}

		// Inserting before descending is what stops cycles.
		acc.Put(name, pkg)

		if err := r.resolve(ctx, pkg.RequiredNames(), name, fw, acc); err != nil {
			return err
		}
	}
	return nil
}

// Lookup runs the source chain for a single name and returns the first package found.
func (r *Resolver) Lookup(ctx context.Context, name string, fw *domain.Framework) (*domain.Package, error) {
	return r.lookup(ctx, name, "", fw)
}

func (r *Resolver) lookup(
	ctx context.Context,
	name string,
	requestedBy string,
	fw *domain.Framework,
) (*domain.Package, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewUnresolvedPackageError(name, requestedBy, err)
	}

	ctx, span := r.tracer.Start(ctx, SpanLookup, trace.WithAttributes(
		attribute.String("package", name),
	))
	defer span.End()
	if requestedBy != "" {
		span.SetAttributes(attribute.String("requested_by", requestedBy))
	}

	for _, src := range r.sources {
		pkg, err := src.Load(ctx, name, fw)
		if err != nil {
			err = zerr.With(err, "source", src.Name())
			err = domain.NewUnresolvedPackageError(name, requestedBy, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if pkg == nil {
			continue
		}

		if pkg.Source == "" {
			pkg.Source = src.Name()
		}
		span.SetAttributes(attribute.String("source", src.Name()))
		return pkg, nil
	}

	err := domain.NewUnresolvedPackageError(name, requestedBy, nil)
	err = zerr.With(err, "sources", r.SourceNames())
	span.SetStatus(codes.Error, err.Error())
	return nil, err
}

func frameworkName(fw *domain.Framework) string {
	if fw == nil {
		return ""
	}
	return fw.Name
}

// isNil reports whether src is nil or an interface holding a nil pointer.
func isNil(src ports.Source) bool {
	if src == nil {
		return true
	}
	v := reflect.ValueOf(src)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Func, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
