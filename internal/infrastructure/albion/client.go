package albion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/EliJ91/albion-market-history/internal/domain"
)

// Regional endpoints of the public market data project
var Regions = map[string]string{
	"americas": "https://west.albion-online-data.com/api/v2/stats",
	"asia":     "https://east.albion-online-data.com/api/v2/stats",
	"europe":   "https://europe.albion-online-data.com/api/v2/stats",
}

// BaseURLForRegion returns the stats endpoint for a region name
func BaseURLForRegion(region string) (string, bool) {
	u, ok := Regions[strings.ToLower(region)]
	return u, ok
}

// maxErrorBody bounds how much of a failed response ends up in the error
const maxErrorBody = 512

// ClientConfig holds connection settings for the market data API
type ClientConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
	Burst             int
	UserAgent         string
}

// Client handles communication with the market data API.
// Every call is a single attempt; failures are reported, not retried.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates a new market data API client
func NewClient(config ClientConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	perMinute := config.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 180
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 10
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "AlbionMarketHistory/1.0"
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     strings.TrimRight(config.BaseURL, "/"),
		userAgent:   userAgent,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60), burst),
		logger:      logger.Named("albion"),
	}
}

// GetPrices fetches current order book summaries for one or more items
func (c *Client) GetPrices(ctx context.Context, query domain.PriceQuery) ([]domain.PriceEntry, error) {
	if len(query.ItemIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one item id is required", domain.ErrInvalidRequest)
	}

	ids := make([]string, len(query.ItemIDs))
	for i, id := range query.ItemIDs {
		ids[i] = url.PathEscape(id)
	}

	params := filterParams(query.Locations, query.Qualities)
	reqURL := buildURL(c.baseURL+"/prices/"+strings.Join(ids, ","), params)

	var entries []domain.PriceEntry
	if err := c.getJSON(ctx, reqURL, &entries); err != nil {
		return nil, err
	}

	c.logger.Debug("fetched prices",
		zap.Strings("items", query.ItemIDs),
		zap.Int("entries", len(entries)),
	)
	return entries, nil
}

// GetHistory fetches aggregated trade history for a single item
func (c *Client) GetHistory(ctx context.Context, query domain.HistoryQuery) ([]domain.HistorySeries, error) {
	if query.ItemID == "" {
		return nil, fmt.Errorf("%w: item id is required", domain.ErrInvalidRequest)
	}
	if !ValidTimeScale(query.TimeScale) {
		return nil, fmt.Errorf("%w: unsupported time scale %d", domain.ErrInvalidRequest, query.TimeScale)
	}

	params := filterParams(query.Locations, query.Qualities)
	params.Set("time-scale", strconv.Itoa(query.TimeScale))
	reqURL := buildURL(c.baseURL+"/history/"+url.PathEscape(query.ItemID), params)

	var series []domain.HistorySeries
	if err := c.getJSON(ctx, reqURL, &series); err != nil {
		return nil, err
	}

	c.logger.Debug("fetched history",
		zap.String("item", query.ItemID),
		zap.Int("timeScale", query.TimeScale),
		zap.Int("series", len(series)),
	)
	return series, nil
}

// getJSON performs one rate-limited GET and decodes the body into out
func (c *Client) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("market request failed", zap.String("url", reqURL), zap.Error(err))
		return fmt.Errorf("%w: %v", domain.ErrMarketAPIFailure, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("market request",
		zap.String("url", reqURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrItemNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: status %d, body: %s", domain.ErrMarketAPIFailure, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", domain.ErrMarketAPIFailure, err)
	}
	return nil
}

func filterParams(locations []string, qualities []int) url.Values {
	params := url.Values{}
	if len(locations) > 0 {
		params.Set("locations", strings.Join(locations, ","))
	}
	if len(qualities) > 0 {
		qs := make([]string, len(qualities))
		for i, q := range qualities {
			qs[i] = strconv.Itoa(q)
		}
		params.Set("qualities", strings.Join(qs, ","))
	}
	return params
}

func buildURL(endpoint string, params url.Values) string {
	if len(params) == 0 {
		return endpoint
	}
	return endpoint + "?" + params.Encode()
}
