package search

import (
	"context"

	"github.com/kailas-cloud/nivosearch/internal/domain/catalog"
	"github.com/kailas-cloud/nivosearch/internal/domain/search/predicate"
	"github.com/kailas-cloud/nivosearch/internal/domain/settings"
)

// Catalog is the read-only catalog executor.
type Catalog interface {
	SearchProducts(ctx context.Context, p predicate.Predicate) ([]catalog.Product, int, error)
	LookupTerms(ctx context.Context, q predicate.TermQuery) ([]catalog.Term, error)
}

// SettingsResolver produces the effective settings of one request.
type SettingsResolver interface {
	Resolve(ctx context.Context, presetID int64, overrides settings.Layer) (settings.Settings, error)
}
