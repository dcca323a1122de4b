package albion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EliJ91/albion-market-history/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{BaseURL: server.URL + "/", RequestsPerMinute: 6000, Burst: 50}, nil)
	return client, &calls
}

func TestNewClient(t *testing.T) {
	client := NewClient(ClientConfig{BaseURL: "https://api.example.com/stats/"}, nil)

	assert.NotNil(t, client)
	assert.Equal(t, "https://api.example.com/stats", client.baseURL)
	assert.Equal(t, "AlbionMarketHistory/1.0", client.userAgent)
	assert.Equal(t, 15*time.Second, client.httpClient.Timeout)
	assert.Equal(t, 10, client.rateLimiter.Burst())
	assert.InDelta(t, 3.0, float64(client.rateLimiter.Limit()), 0.0001)
	assert.NotNil(t, client.logger)
}

func TestBaseURLForRegion(t *testing.T) {
	u, ok := BaseURLForRegion("Europe")
	assert.True(t, ok)
	assert.Equal(t, "https://europe.albion-online-data.com/api/v2/stats", u)

	_, ok = BaseURLForRegion("mars")
	assert.False(t, ok)
}

func TestGetPrices_Success(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/prices/T4_BAG,T4_MAIN_SWORD@1", r.URL.Path)
		assert.Equal(t, "Martlock,Fort Sterling", r.URL.Query().Get("locations"))
		assert.Equal(t, "1,2", r.URL.Query().Get("qualities"))
		assert.Equal(t, "AlbionMarketHistory/1.0", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"item_id":"T4_BAG","city":"Martlock","quality":1,"sell_price_min":1500,"sell_price_min_date":"2026-03-01T10:20:30","buy_price_max":1200},
			{"item_id":"T4_BAG","city":"Fort Sterling","quality":2,"sell_price_min":1800,"sell_price_min_date":"0001-01-01T00:00:00"}
		]`))
	})

	entries, err := client.GetPrices(context.Background(), domain.PriceQuery{
		ItemIDs:   []string{"T4_BAG", "T4_MAIN_SWORD@1"},
		Locations: []string{"Martlock", "Fort Sterling"},
		Qualities: []int{1, 2},
	})

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int32(1), *calls)
	assert.Equal(t, "Martlock", entries[0].City)
	assert.Equal(t, int64(1500), entries[0].SellPriceMin)
	assert.Equal(t, int64(1200), entries[0].BuyPriceMax)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 20, 30, 0, time.UTC), entries[0].SellPriceMinDate.Time)
	assert.Equal(t, 2, entries[1].Quality)
}

func TestGetPrices_NoItems(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := client.GetPrices(context.Background(), domain.PriceQuery{})

	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Equal(t, int32(0), *calls)
}

func TestGetPrices_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetPrices(context.Background(), domain.PriceQuery{ItemIDs: []string{"T4_NOPE"}})

	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestGetPrices_ServerErrorIsNotRetried(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("upstream busy"))
	})

	_, err := client.GetPrices(context.Background(), domain.PriceQuery{ItemIDs: []string{"T4_BAG"}})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMarketAPIFailure)
	assert.Contains(t, err.Error(), "status 503")
	assert.Contains(t, err.Error(), "upstream busy")
	assert.Equal(t, int32(1), *calls)
}

func TestGetPrices_MalformedBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"`))
	})

	_, err := client.GetPrices(context.Background(), domain.PriceQuery{ItemIDs: []string{"T4_BAG"}})

	assert.ErrorIs(t, err, domain.ErrMarketAPIFailure)
}

func TestGetPrices_CancelledContext(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetPrices(ctx, domain.PriceQuery{ItemIDs: []string{"T4_BAG"}})

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled) || errors.Is(err, domain.ErrMarketAPIFailure))
	assert.Equal(t, int32(0), *calls)
}

func TestGetHistory_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/history/T4_BAG", r.URL.Path)
		assert.Equal(t, "24", r.URL.Query().Get("time-scale"))
		assert.Equal(t, "Caerleon", r.URL.Query().Get("locations"))

		_, _ = w.Write([]byte(`[{"location":"Caerleon","item_id":"T4_BAG","quality":2,"data":[
			{"timestamp":"2026-03-02T00:00:00","avg_price":1450,"item_count":31},
			{"timestamp":"2026-03-01T00:00:00","avg_price":1400,"item_count":12}
		]}]`))
	})

	series, err := client.GetHistory(context.Background(), domain.HistoryQuery{
		ItemID:    "T4_BAG",
		Locations: []string{"Caerleon"},
		TimeScale: 24,
	})

	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, "Caerleon", series[0].Location)
	assert.Equal(t, 2, series[0].Quality)
	require.Len(t, series[0].Data, 2)
	assert.Equal(t, int64(1450), series[0].Data[0].AvgPrice)
	assert.Equal(t, int64(31), series[0].Data[0].ItemCount)
}

func TestGetHistory_InvalidQuery(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	tests := []struct {
		name  string
		query domain.HistoryQuery
	}{
		{"missing item", domain.HistoryQuery{TimeScale: 1}},
		{"unsupported time scale", domain.HistoryQuery{ItemID: "T4_BAG", TimeScale: 12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.GetHistory(context.Background(), tt.query)
			assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		})
	}
	assert.Equal(t, int32(0), *calls)
}

func TestFilterParams(t *testing.T) {
	assert.Empty(t, filterParams(nil, nil))

	params := filterParams([]string{"Lymhurst"}, []int{3})
	assert.Equal(t, "Lymhurst", params.Get("locations"))
	assert.Equal(t, "3", params.Get("qualities"))

	assert.Equal(t, "https://x/prices/A", buildURL("https://x/prices/A", url.Values{}))
}
