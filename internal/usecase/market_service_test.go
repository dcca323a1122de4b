package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/EliJ91/albion-market-history/internal/catalog"
	"github.com/EliJ91/albion-market-history/internal/domain"
)

func newTestMarketService(t *testing.T, client *MockMarketClient) *MarketService {
	t.Helper()
	c := newTestCatalog(t,
		"T4_MAIN_SWORD", "Adept's Broadsword",
		"T5_POTION_HEAL", "Major Healing Potion",
	)
	return NewMarketService(client, catalog.NewStore(c), zap.NewNop())
}

func day(d int) domain.APITime {
	return domain.APITime{Time: time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC)}
}

func TestMarketService_Prices(t *testing.T) {
	client := NewMockMarketClient()
	client.prices = []domain.PriceEntry{
		{ItemID: "T4_MAIN_SWORD", City: "Caerleon", Quality: 2, SellPriceMin: 5200},
		{ItemID: "T4_MAIN_SWORD", City: "Caerleon", Quality: 1, SellPriceMin: 5000},
		{ItemID: "T4_MAIN_SWORD", City: "Martlock", Quality: 1, SellPriceMin: 4800},
	}
	svc := newTestMarketService(t, client)
	ctx := context.Background()

	t.Run("groups by city", func(t *testing.T) {
		report, err := svc.Prices(ctx, &MarketRequest{ItemID: "T4_MAIN_SWORD", Locations: []string{"Caerleon", "Martlock"}})

		require.NoError(t, err)
		assert.Equal(t, "Adept's Broadsword", report.Name)
		assert.Len(t, report.Cities, 2)
		assert.Equal(t, 1, report.Cities["Caerleon"][0].Quality)
		assert.Equal(t, []int{1, 2}, report.Qualities)
		assert.False(t, report.FetchedAt.IsZero())

		last := client.priceCalls[len(client.priceCalls)-1]
		assert.Equal(t, []string{"T4_MAIN_SWORD"}, last.ItemIDs)
		assert.Equal(t, []string{"Caerleon", "Martlock"}, last.Locations)
	})

	t.Run("quality filter", func(t *testing.T) {
		report, err := svc.Prices(ctx, &MarketRequest{ItemID: "T4_MAIN_SWORD", Quality: 2})

		require.NoError(t, err)
		assert.Len(t, report.Cities, 1)
		assert.Len(t, report.Cities["Caerleon"], 1)
		assert.Equal(t, []int{1, 2}, report.Qualities)
	})

	t.Run("enchanted variant resolves through base item", func(t *testing.T) {
		report, err := svc.Prices(ctx, &MarketRequest{ItemID: "T4_MAIN_SWORD@2"})

		require.NoError(t, err)
		assert.Equal(t, "Adept's Broadsword", report.Name)
	})
}

func TestMarketService_Prices_Validation(t *testing.T) {
	client := NewMockMarketClient()
	svc := newTestMarketService(t, client)
	ctx := context.Background()

	tests := []struct {
		name    string
		request *MarketRequest
		wantErr error
	}{
		{"nil request", nil, domain.ErrInvalidRequest},
		{"blank item", &MarketRequest{ItemID: "  "}, domain.ErrInvalidRequest},
		{"unknown city", &MarketRequest{ItemID: "T4_MAIN_SWORD", Locations: []string{"Brecilien"}}, domain.ErrInvalidRequest},
		{"unknown quality", &MarketRequest{ItemID: "T4_MAIN_SWORD", Qualities: []int{9}}, domain.ErrInvalidRequest},
		{"unknown report quality", &MarketRequest{ItemID: "T4_MAIN_SWORD", Quality: 6}, domain.ErrInvalidRequest},
		{"unknown item", &MarketRequest{ItemID: "T9_NOTHING"}, domain.ErrItemNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Prices(ctx, tt.request)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Empty(t, client.priceCalls)
}

func TestMarketService_Prices_NoCatalog(t *testing.T) {
	svc := NewMarketService(NewMockMarketClient(), catalog.NewStore(nil), nil)

	_, err := svc.Prices(context.Background(), &MarketRequest{ItemID: "T4_BAG"})

	assert.ErrorIs(t, err, domain.ErrCatalogNotLoaded)
}

func TestMarketService_Prices_ClientError(t *testing.T) {
	client := NewMockMarketClient()
	client.pricesError = domain.ErrMarketAPIFailure
	svc := newTestMarketService(t, client)

	report, err := svc.Prices(context.Background(), &MarketRequest{ItemID: "T4_MAIN_SWORD"})

	assert.Nil(t, report)
	assert.ErrorIs(t, err, domain.ErrMarketAPIFailure)
	assert.Len(t, client.priceCalls, 1)
}

func TestMarketService_History(t *testing.T) {
	client := NewMockMarketClient()
	client.history[1] = []domain.HistorySeries{
		{Location: "Thetford", Quality: 1, Data: []domain.HistoryPoint{
			{Timestamp: day(3), AvgPrice: 310},
			{Timestamp: day(1), AvgPrice: 290},
		}},
		{Location: "Thetford", Quality: 2, Data: []domain.HistoryPoint{
			{Timestamp: day(2), AvgPrice: 400},
		}},
	}
	client.history[24] = []domain.HistorySeries{
		{Location: "Lymhurst", Quality: 1, Data: []domain.HistoryPoint{
			{Timestamp: day(1), AvgPrice: 300, ItemCount: 40},
		}},
	}
	svc := newTestMarketService(t, client)
	ctx := context.Background()

	t.Run("fetches both time scales", func(t *testing.T) {
		report, err := svc.History(ctx, &MarketRequest{ItemID: "T5_POTION_HEAL"})

		require.NoError(t, err)
		assert.Equal(t, "Major Healing Potion", report.Name)
		require.Len(t, report.Series, 2)

		hourly := report.Series[1]["Thetford"]
		require.Len(t, hourly, 3)
		assert.Equal(t, int64(290), hourly[0].AvgPrice)
		assert.Equal(t, int64(400), hourly[1].AvgPrice)
		assert.Equal(t, int64(310), hourly[2].AvgPrice)

		daily := report.Series[24]["Lymhurst"]
		require.Len(t, daily, 1)
		assert.Equal(t, int64(40), daily[0].ItemCount)
	})

	t.Run("quality filter", func(t *testing.T) {
		report, err := svc.History(ctx, &MarketRequest{ItemID: "T5_POTION_HEAL", Quality: 2})

		require.NoError(t, err)
		require.Len(t, report.Series[1]["Thetford"], 1)
		assert.Equal(t, 2, report.Series[1]["Thetford"][0].Quality)
		assert.Empty(t, report.Series[24])
	})

	scales := map[int]int{}
	for _, q := range client.historyCalls {
		scales[q.TimeScale]++
		assert.Equal(t, "T5_POTION_HEAL", q.ItemID)
	}
	assert.Equal(t, map[int]int{1: 2, 24: 2}, scales)
}

func TestMarketService_History_OneScaleFails(t *testing.T) {
	client := NewMockMarketClient()
	client.historyError[24] = domain.ErrMarketAPIFailure
	svc := newTestMarketService(t, client)

	report, err := svc.History(context.Background(), &MarketRequest{ItemID: "T5_POTION_HEAL"})

	assert.Nil(t, report)
	assert.True(t, errors.Is(err, domain.ErrMarketAPIFailure))
	assert.Contains(t, err.Error(), "time scale 24")
}
