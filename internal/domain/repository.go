package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are stored serialized, mirroring an external key-value store.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// MarketClient defines the interface for interacting with the market data API
type MarketClient interface {
	GetPrices(ctx context.Context, query PriceQuery) ([]PriceEntry, error)
	GetHistory(ctx context.Context, query HistoryQuery) ([]HistorySeries, error)
}
