package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/nivosearch/internal/domain"
	"github.com/kailas-cloud/nivosearch/internal/domain/catalog"
	"github.com/kailas-cloud/nivosearch/internal/domain/search/predicate"
	"github.com/kailas-cloud/nivosearch/internal/domain/search/request"
	"github.com/kailas-cloud/nivosearch/internal/domain/search/result"
	"github.com/kailas-cloud/nivosearch/internal/domain/settings"
	"github.com/kailas-cloud/nivosearch/internal/logger"
	"github.com/kailas-cloud/nivosearch/internal/metrics"
)

// Service runs the live search pipeline: resolve settings, plan, query the
// catalog, rank and format.
type Service struct {
	settings  SettingsResolver
	catalog   Catalog
	termLimit int
	words     int
}

// Option configures a Service.
type Option func(*Service)

// WithTermLimit caps each category and tag lookup.
func WithTermLimit(n int) Option {
	return func(s *Service) { s.termLimit = n }
}

// WithDescriptionWords sets the short description length.
func WithDescriptionWords(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.words = n
		}
	}
}

// New creates a search service.
func New(resolver SettingsResolver, cat Catalog, opts ...Option) *Service {
	s := &Service{
		settings:  resolver,
		catalog:   cat,
		termLimit: predicate.DefaultTermLimit,
		words:     DefaultDescriptionWords,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Search answers one live search request.
func (s *Service) Search(ctx context.Context, req *request.Request) (result.Response, error) {
	start := time.Now()
	resp, err := s.search(ctx, req)
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	metrics.SearchRequestsTotal.WithLabelValues(outcome(resp, err)).Inc()
	if err == nil {
		metrics.SearchResults.WithLabelValues("products").Observe(float64(len(resp.Products)))
		metrics.SearchResults.WithLabelValues("categories").Observe(float64(len(resp.Categories)))
		metrics.SearchResults.WithLabelValues("tags").Observe(float64(len(resp.Tags)))
	}
	return resp, err
}

func (s *Service) search(ctx context.Context, req *request.Request) (result.Response, error) {
	eff, err := s.settings.Resolve(ctx, req.PresetID(), req.Overrides())
	if err != nil {
		return result.Response{}, fmt.Errorf("resolve settings: %w", err)
	}
	if !eff.Enabled {
		return result.Response{}, domain.ErrSearchDisabled
	}

	pred, err := predicate.Plan(req.Query(), eff, predicate.WithTermLimit(s.termLimit))
	if err != nil {
		return result.Response{}, err
	}

	var (
		products []catalog.Product
		total    int
		cats     []catalog.Term
		tags     []catalog.Term
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, total, err = s.catalog.SearchProducts(gctx, pred)
		return err
	})
	for _, tq := range pred.Terms {
		tq := tq
		g.Go(func() error {
			terms := s.lookupTerms(gctx, tq)
			if tq.Taxonomy == catalog.Tags {
				tags = terms
			} else {
				cats = terms
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result.Response{}, fmt.Errorf("search products: %w", err)
	}

	products = postFilter(products, pred)
	matches := rank(products, pred.Query, pred.HasField(settings.FieldSKU))

	resp := format(matches, cats, tags, eff, s.words)
	resp.Total = total
	return resp, nil
}

// lookupTerms never fails the request; term suggestions are optional.
func (s *Service) lookupTerms(ctx context.Context, q predicate.TermQuery) []catalog.Term {
	terms, err := s.catalog.LookupTerms(ctx, q)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.FromContext(ctx).Warn("term lookup failed",
				zap.String("taxonomy", string(q.Taxonomy)),
				zap.Error(err),
			)
		}
		return nil
	}
	return terms
}

// postFilter drops anything the executor should have excluded already.
func postFilter(products []catalog.Product, p predicate.Predicate) []catalog.Product {
	if len(p.ExcludedIDs) == 0 && !p.ExcludeOutOfStock {
		return products
	}
	excluded := make(map[int64]struct{}, len(p.ExcludedIDs))
	for _, id := range p.ExcludedIDs {
		excluded[id] = struct{}{}
	}
	out := products[:0]
	for _, prod := range products {
		if _, ok := excluded[prod.ID]; ok {
			continue
		}
		if p.ExcludeOutOfStock && prod.StockStatus == catalog.StockOutOfStock {
			continue
		}
		out = append(out, prod)
	}
	return out
}

func outcome(resp result.Response, err error) string {
	switch {
	case errors.Is(err, domain.ErrQueryTooShort):
		return "too_short"
	case errors.Is(err, domain.ErrSearchDisabled):
		return "disabled"
	case err != nil:
		return "error"
	case len(resp.Products)+len(resp.Categories)+len(resp.Tags) == 0:
		return "empty"
	default:
		return "ok"
	}
}
