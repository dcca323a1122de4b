package domain

import (
	"strings"
	"time"
)

// apiTimeLayout is the zone-less timestamp format used by the market data API
const apiTimeLayout = "2006-01-02T15:04:05"

// APITime is a UTC timestamp as reported by the market data API
type APITime struct {
	time.Time
}

// UnmarshalJSON accepts both the API's zone-less layout and RFC 3339
func (t *APITime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}

	parsed, err := time.Parse(apiTimeLayout, s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
	}
	t.Time = parsed.UTC()
	return nil
}

// MarshalJSON writes the timestamp back in the API's layout
func (t APITime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(apiTimeLayout) + `"`), nil
}

// PriceEntry is the current order book summary for one item, city and quality
type PriceEntry struct {
	ItemID           string  `json:"item_id"`
	City             string  `json:"city"`
	Quality          int     `json:"quality"`
	SellPriceMin     int64   `json:"sell_price_min"`
	SellPriceMinDate APITime `json:"sell_price_min_date"`
	SellPriceMax     int64   `json:"sell_price_max"`
	SellPriceMaxDate APITime `json:"sell_price_max_date"`
	BuyPriceMin      int64   `json:"buy_price_min"`
	BuyPriceMinDate  APITime `json:"buy_price_min_date"`
	BuyPriceMax      int64   `json:"buy_price_max"`
	BuyPriceMaxDate  APITime `json:"buy_price_max_date"`
}

// HistorySeries is the price history for one item, location and quality
type HistorySeries struct {
	Location string         `json:"location"`
	ItemID   string         `json:"item_id"`
	Quality  int            `json:"quality"`
	Data     []HistoryPoint `json:"data"`
}

// HistoryPoint is one aggregated bucket of trades
type HistoryPoint struct {
	Timestamp APITime `json:"timestamp"`
	AvgPrice  int64   `json:"avg_price"`
	ItemCount int64   `json:"item_count"`
	Quality   int     `json:"quality,omitempty"`
}

// PriceQuery describes a current-prices lookup
type PriceQuery struct {
	ItemIDs   []string
	Locations []string
	Qualities []int
}

// HistoryQuery describes a price history lookup
type HistoryQuery struct {
	ItemID    string
	Locations []string
	Qualities []int
	TimeScale int // hours per bucket: 1, 6 or 24
}

// PriceReport groups current prices by city
type PriceReport struct {
	ItemID    string                  `json:"itemId"`
	Name      string                  `json:"name,omitempty"`
	Cities    map[string][]PriceEntry `json:"cities"`
	Qualities []int                   `json:"qualities"`
	FetchedAt time.Time               `json:"timestamp"`
}

// HistoryReport holds history organized as time scale -> city -> points
type HistoryReport struct {
	ItemID    string                            `json:"itemId"`
	Name      string                            `json:"name,omitempty"`
	Series    map[int]map[string][]HistoryPoint `json:"series"`
	FetchedAt time.Time                         `json:"timestamp"`
}

// Selection is the dashboard state a user wants restored on their next visit
type Selection struct {
	ItemID   string   `json:"itemId,omitempty"`
	ItemName string   `json:"itemName,omitempty"`
	Cities   []string `json:"cities,omitempty"`
	Quality  int      `json:"quality,omitempty"`
	Tier     string   `json:"tier,omitempty"`
	Enchant  *int     `json:"enchant,omitempty"`
}
