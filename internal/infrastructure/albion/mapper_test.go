package albion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EliJ91/albion-market-history/internal/domain"
)

func at(day int) domain.APITime {
	return domain.APITime{Time: time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC)}
}

func TestGroupPricesByCity(t *testing.T) {
	entries := []domain.PriceEntry{
		{City: "Martlock", Quality: 3, SellPriceMin: 300},
		{City: "Caerleon", Quality: 1, SellPriceMin: 100},
		{City: "Martlock", Quality: 1, SellPriceMin: 110},
		{City: "Martlock", Quality: 2, SellPriceMin: 210},
	}

	t.Run("all qualities", func(t *testing.T) {
		grouped := GroupPricesByCity(entries, 0)

		require.Len(t, grouped, 2)
		require.Len(t, grouped["Martlock"], 3)
		assert.Equal(t, []int{1, 2, 3}, []int{
			grouped["Martlock"][0].Quality,
			grouped["Martlock"][1].Quality,
			grouped["Martlock"][2].Quality,
		})
		assert.Len(t, grouped["Caerleon"], 1)
	})

	t.Run("single quality", func(t *testing.T) {
		grouped := GroupPricesByCity(entries, 2)

		require.Len(t, grouped, 1)
		assert.Equal(t, int64(210), grouped["Martlock"][0].SellPriceMin)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, GroupPricesByCity(nil, 0))
	})
}

func TestQualitiesOf(t *testing.T) {
	entries := []domain.PriceEntry{{Quality: 4}, {Quality: 1}, {Quality: 4}, {Quality: 2}}

	assert.Equal(t, []int{1, 2, 4}, QualitiesOf(entries))
	assert.Equal(t, []int{}, QualitiesOf(nil))
}

func TestOrganizeHistory(t *testing.T) {
	byScale := map[int][]domain.HistorySeries{
		1: {
			{Location: "Lymhurst", Quality: 2, Data: []domain.HistoryPoint{
				{Timestamp: at(3), AvgPrice: 30},
				{Timestamp: at(1), AvgPrice: 10},
			}},
			{Location: "Lymhurst", Data: []domain.HistoryPoint{
				{Timestamp: at(2), AvgPrice: 20},
			}},
			{Location: "Thetford", Quality: 5, Data: []domain.HistoryPoint{
				{Timestamp: at(1), AvgPrice: 99, Quality: 4},
			}},
		},
		24: {},
	}

	organized := OrganizeHistory(byScale)

	require.Len(t, organized, 2)

	lymhurst := organized[1]["Lymhurst"]
	require.Len(t, lymhurst, 3)
	assert.Equal(t, []int64{10, 20, 30}, []int64{lymhurst[0].AvgPrice, lymhurst[1].AvgPrice, lymhurst[2].AvgPrice})
	assert.Equal(t, 2, lymhurst[0].Quality)
	assert.Equal(t, DefaultQuality, lymhurst[1].Quality)

	assert.Equal(t, 4, organized[1]["Thetford"][0].Quality)

	assert.NotNil(t, organized[24])
	assert.Empty(t, organized[24])
}

func TestReferenceData(t *testing.T) {
	assert.Len(t, Cities, 6)
	assert.True(t, IsCity("Fort Sterling"))
	assert.False(t, IsCity("fort sterling"))
	assert.False(t, IsCity("Brecilien"))

	for q := 1; q <= 5; q++ {
		assert.True(t, ValidQuality(q), "quality %d", q)
	}
	assert.False(t, ValidQuality(0))
	assert.False(t, ValidQuality(6))

	assert.True(t, ValidTimeScale(1))
	assert.True(t, ValidTimeScale(6))
	assert.True(t, ValidTimeScale(24))
	assert.False(t, ValidTimeScale(12))
}
