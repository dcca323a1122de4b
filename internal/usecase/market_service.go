package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/EliJ91/albion-market-history/internal/catalog"
	"github.com/EliJ91/albion-market-history/internal/domain"
	"github.com/EliJ91/albion-market-history/internal/infrastructure/albion"
)

// historyTimeScales are fetched together for every history request: hourly and daily
var historyTimeScales = []int{1, 24}

// MarketRequest selects market data for one item
type MarketRequest struct {
	ItemID    string
	Locations []string
	Qualities []int
	Quality   int // when set, only this quality is reported
}

// MarketService fetches live prices and history for catalog items.
// Responses are passed through as fetched; nothing is cached.
type MarketService struct {
	client domain.MarketClient
	store  *catalog.Store
	logger *zap.Logger
}

// NewMarketService creates a market service
func NewMarketService(client domain.MarketClient, store *catalog.Store, logger *zap.Logger) *MarketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarketService{
		client: client,
		store:  store,
		logger: logger.Named("market"),
	}
}

// Prices returns current prices grouped by city
func (s *MarketService) Prices(ctx context.Context, request *MarketRequest) (*domain.PriceReport, error) {
	name, err := s.validate(request)
	if err != nil {
		return nil, err
	}

	entries, err := s.client.GetPrices(ctx, domain.PriceQuery{
		ItemIDs:   []string{request.ItemID},
		Locations: request.Locations,
		Qualities: request.Qualities,
	})
	if err != nil {
		s.logger.Warn("price lookup failed", zap.String("item", request.ItemID), zap.Error(err))
		return nil, err
	}

	return &domain.PriceReport{
		ItemID:    request.ItemID,
		Name:      name,
		Cities:    albion.GroupPricesByCity(entries, request.Quality),
		Qualities: albion.QualitiesOf(entries),
		FetchedAt: time.Now().UTC(),
	}, nil
}

// History fetches hourly and daily history concurrently. Both must succeed.
func (s *MarketService) History(ctx context.Context, request *MarketRequest) (*domain.HistoryReport, error) {
	name, err := s.validate(request)
	if err != nil {
		return nil, err
	}

	type result struct {
		scale  int
		series []domain.HistorySeries
		err    error
	}

	results := make([]result, len(historyTimeScales))
	var wg sync.WaitGroup
	for i, scale := range historyTimeScales {
		wg.Add(1)
		go func(i, scale int) {
			defer wg.Done()
			series, err := s.client.GetHistory(ctx, domain.HistoryQuery{
				ItemID:    request.ItemID,
				Locations: request.Locations,
				Qualities: request.Qualities,
				TimeScale: scale,
			})
			results[i] = result{scale: scale, series: series, err: err}
		}(i, scale)
	}
	wg.Wait()

	byScale := make(map[int][]domain.HistorySeries, len(results))
	for _, r := range results {
		if r.err != nil {
			s.logger.Warn("history lookup failed",
				zap.String("item", request.ItemID),
				zap.Int("timeScale", r.scale),
				zap.Error(r.err),
			)
			return nil, fmt.Errorf("time scale %d: %w", r.scale, r.err)
		}
		byScale[r.scale] = filterSeriesQuality(r.series, request.Quality)
	}

	return &domain.HistoryReport{
		ItemID:    request.ItemID,
		Name:      name,
		Series:    albion.OrganizeHistory(byScale),
		FetchedAt: time.Now().UTC(),
	}, nil
}

// validate checks the request and resolves the item's display name.
// Enchanted variants missing from the catalog resolve through their base item.
func (s *MarketService) validate(request *MarketRequest) (string, error) {
	if request == nil {
		return "", domain.ErrInvalidRequest
	}
	request.ItemID = strings.TrimSpace(request.ItemID)
	if request.ItemID == "" {
		return "", fmt.Errorf("%w: item id is required", domain.ErrInvalidRequest)
	}
	for _, loc := range request.Locations {
		if !albion.IsCity(loc) {
			return "", fmt.Errorf("%w: unknown city %q", domain.ErrInvalidRequest, loc)
		}
	}
	for _, q := range request.Qualities {
		if !albion.ValidQuality(q) {
			return "", fmt.Errorf("%w: unknown quality %d", domain.ErrInvalidRequest, q)
		}
	}
	if request.Quality != 0 && !albion.ValidQuality(request.Quality) {
		return "", fmt.Errorf("%w: unknown quality %d", domain.ErrInvalidRequest, request.Quality)
	}

	c := s.store.Current()
	if c == nil {
		return "", domain.ErrCatalogNotLoaded
	}
	if rec, ok := c.Lookup(request.ItemID); ok {
		return rec.DisplayName, nil
	}
	if rec, ok := c.Lookup(catalog.BaseID(request.ItemID)); ok {
		return rec.DisplayName, nil
	}
	return "", domain.ErrItemNotFound
}

func filterSeriesQuality(series []domain.HistorySeries, quality int) []domain.HistorySeries {
	if quality == 0 {
		return series
	}
	out := make([]domain.HistorySeries, 0, len(series))
	for _, s := range series {
		if s.Quality == quality {
			out = append(out, s)
		}
	}
	return out
}
