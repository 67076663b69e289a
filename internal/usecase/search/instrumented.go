package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nivosearch/internal/domain/catalog"
	"github.com/kailas-cloud/nivosearch/internal/domain/search/predicate"
	"github.com/kailas-cloud/nivosearch/internal/metrics"
)

// InstrumentedCatalog wraps a Catalog with query timing and debug logging.
type InstrumentedCatalog struct {
	inner  Catalog
	logger *zap.Logger
}

// NewInstrumentedCatalog wraps cat. logger may be nil.
func NewInstrumentedCatalog(cat Catalog, logger *zap.Logger) *InstrumentedCatalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedCatalog{inner: cat, logger: logger}
}

// SearchProducts delegates and records the products query duration.
func (c *InstrumentedCatalog) SearchProducts(
	ctx context.Context, p predicate.Predicate,
) ([]catalog.Product, int, error) {
	start := time.Now()
	products, total, err := c.inner.SearchProducts(ctx, p)
	duration := time.Since(start)
	metrics.CatalogQueryDuration.WithLabelValues("products").Observe(duration.Seconds())

	if err != nil {
		c.logger.Error("Product query failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, 0, err
	}
	c.logger.Debug("Product query completed",
		zap.Duration("duration", duration),
		zap.Int("returned", len(products)),
		zap.Int("total", total),
	)
	return products, total, nil
}

// LookupTerms delegates and records the duration under the taxonomy label.
func (c *InstrumentedCatalog) LookupTerms(ctx context.Context, q predicate.TermQuery) ([]catalog.Term, error) {
	start := time.Now()
	terms, err := c.inner.LookupTerms(ctx, q)
	metrics.CatalogQueryDuration.WithLabelValues(string(q.Taxonomy)).Observe(time.Since(start).Seconds())
	return terms, err
}
