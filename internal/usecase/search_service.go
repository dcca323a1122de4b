package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/EliJ91/albion-market-history/internal/catalog"
	"github.com/EliJ91/albion-market-history/internal/domain"
)

// SearchServiceConfig holds limits and the catalog source for the search service
type SearchServiceConfig struct {
	DefaultLimit  int
	MaxLimit      int
	FeaturedCount int
	CatalogPath   string
	CatalogFormat string
}

// SearchService answers autocomplete and catalog browsing requests
type SearchService struct {
	store         *catalog.Store
	logger        *zap.Logger
	defaultLimit  int
	maxLimit      int
	featuredCount int
	catalogPath   string
	catalogFormat string

	// rank is swapped in tests to exercise the panic boundary
	rank func(c *catalog.Catalog, query string, limit int, filter *domain.AttributeFilter) []domain.ScoredMatch
}

// CatalogStats summarizes the installed catalog snapshot
type CatalogStats struct {
	Items    int       `json:"items"`
	LoadedAt time.Time `json:"loadedAt"`
}

// NewSearchService creates a search service over a catalog store
func NewSearchService(store *catalog.Store, logger *zap.Logger, config SearchServiceConfig) *SearchService {
	if logger == nil {
		logger = zap.NewNop()
	}

	defaultLimit := config.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	maxLimit := config.MaxLimit
	if maxLimit < defaultLimit {
		maxLimit = max(defaultLimit, 50)
	}
	featuredCount := config.FeaturedCount
	if featuredCount <= 0 {
		featuredCount = 20
	}
	format := config.CatalogFormat
	if format == "" {
		format = catalog.FormatJSON
	}

	return &SearchService{
		store:         store,
		logger:        logger.Named("search"),
		defaultLimit:  defaultLimit,
		maxLimit:      maxLimit,
		featuredCount: featuredCount,
		catalogPath:   config.CatalogPath,
		catalogFormat: format,
		rank:          Search,
	}
}

// Search ranks the installed catalog against the request. It never fails:
// bad filters are rejected up front and anything unexpected inside ranking
// is logged and reported as no matches.
func (s *SearchService) Search(ctx context.Context, request *domain.ItemSearchRequest) ([]domain.ScoredMatch, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}
	if request.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", domain.ErrInvalidRequest)
	}

	filter, err := request.Filter()
	if err != nil {
		return nil, err
	}

	limit := s.clampLimit(request.Limit)
	start := time.Now()
	matches := s.safeRank(request.Query, limit, filter)

	s.logger.Debug("search",
		zap.String("query", request.Query),
		zap.Int("limit", limit),
		zap.Int("results", len(matches)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return matches, nil
}

func (s *SearchService) safeRank(query string, limit int, filter *domain.AttributeFilter) (matches []domain.ScoredMatch) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("search failed, returning no matches",
				zap.String("query", query),
				zap.Any("panic", r),
			)
			matches = []domain.ScoredMatch{}
		}
	}()
	return s.rank(s.store.Current(), query, limit, filter)
}

func (s *SearchService) clampLimit(limit int) int {
	if limit == 0 {
		return s.defaultLimit
	}
	return min(limit, s.maxLimit)
}

// Featured returns commonly traded items; count <= 0 uses the configured default
func (s *SearchService) Featured(ctx context.Context, count int) []domain.CatalogRecord {
	if count <= 0 {
		count = s.featuredCount
	}
	return ClassifyFeatured(s.store.Current(), min(count, s.maxLimit))
}

// Categories buckets the catalog by category
func (s *SearchService) Categories(ctx context.Context) map[Category][]domain.CatalogRecord {
	return Categorize(s.store.Current())
}

// Item returns an identifier's record with its tier and enchantment broken out
func (s *SearchService) Item(ctx context.Context, identifier string) (*domain.ItemDetails, error) {
	c := s.store.Current()
	if c == nil {
		return nil, domain.ErrCatalogNotLoaded
	}

	rec, ok := c.Lookup(identifier)
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	details := catalog.Describe(rec)
	return &details, nil
}

// Stats reports the size and age of the installed catalog
func (s *SearchService) Stats() CatalogStats {
	c := s.store.Current()
	return CatalogStats{Items: c.Len(), LoadedAt: c.LoadedAt()}
}

// Reload re-reads the configured catalog file and installs it.
// The previous snapshot stays in place when loading fails.
func (s *SearchService) Reload(ctx context.Context) (catalog.ParseStats, error) {
	if s.catalogPath == "" {
		return catalog.ParseStats{}, fmt.Errorf("%w: no catalog path configured", domain.ErrInvalidRequest)
	}

	c, stats, err := catalog.LoadFile(s.catalogPath, s.catalogFormat)
	if err != nil {
		s.logger.Error("catalog reload failed", zap.String("path", s.catalogPath), zap.Error(err))
		return stats, err
	}

	previous := s.store.Replace(c)
	s.logger.Info("catalog reloaded",
		zap.String("path", s.catalogPath),
		zap.Int("items", c.Len()),
		zap.Int("previousItems", previous.Len()),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
		zap.Int("duplicates", stats.Duplicates),
	)
	return stats, nil
}
