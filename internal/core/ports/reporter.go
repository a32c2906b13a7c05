package ports

import (
	"io"

	"go.trai.ch/pkgdeps/internal/core/domain"
)

// Reporter renders resolution results.
//
//go:generate mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks
type Reporter interface {
	// Report writes res to w in the given format ("list", "tree" or "json").
	Report(w io.Writer, res *domain.Resolution, format string) error

	// ReportOrder writes the packages one per line, in the given order.
	ReportOrder(w io.Writer, order []*domain.Package) error
}
