package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/EliJ91/albion-market-history/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data     map[string][]byte
	getError error
	setError error
	lastTTL  time.Duration
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string][]byte),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.setError != nil {
		return m.setError
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	m.lastTTL = ttl
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockMarketClient is a mock implementation of domain.MarketClient.
// History is requested concurrently, so calls are recorded under a lock.
type MockMarketClient struct {
	mu           sync.Mutex
	prices       []domain.PriceEntry
	pricesError  error
	history      map[int][]domain.HistorySeries
	historyError map[int]error
	priceCalls   []domain.PriceQuery
	historyCalls []domain.HistoryQuery
}

func NewMockMarketClient() *MockMarketClient {
	return &MockMarketClient{
		history:      make(map[int][]domain.HistorySeries),
		historyError: make(map[int]error),
	}
}

func (m *MockMarketClient) GetPrices(ctx context.Context, query domain.PriceQuery) ([]domain.PriceEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.priceCalls = append(m.priceCalls, query)
	if m.pricesError != nil {
		return nil, m.pricesError
	}
	return m.prices, nil
}

func (m *MockMarketClient) GetHistory(ctx context.Context, query domain.HistoryQuery) ([]domain.HistorySeries, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.historyCalls = append(m.historyCalls, query)
	if err := m.historyError[query.TimeScale]; err != nil {
		return nil, err
	}
	return m.history[query.TimeScale], nil
}
