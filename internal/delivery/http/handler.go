package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/EliJ91/albion-market-history/internal/catalog"
	"github.com/EliJ91/albion-market-history/internal/domain"
	"github.com/EliJ91/albion-market-history/internal/infrastructure/albion"
	"github.com/EliJ91/albion-market-history/internal/usecase"
)

const (
	serviceName    = "albion-market-history"
	serviceVersion = "1.0.0"
)

// Handler holds dependencies for HTTP handlers.
// Any service may be nil; its endpoints then answer 501.
type Handler struct {
	search     *usecase.SearchService
	market     *usecase.MarketService
	selections *usecase.SelectionService
	logger     *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	search *usecase.SearchService,
	market *usecase.MarketService,
	selections *usecase.SelectionService,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		search:     search,
		market:     market,
		selections: selections,
		logger:     logger.Named("http"),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	body := gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	}
	if h.search != nil {
		body["catalog"] = h.search.Stats()
	}
	c.JSON(http.StatusOK, body)
}

// SearchItems handles autocomplete requests: GET /items/search?q=&limit=&tier=&enchant=
func (h *Handler) SearchItems(c *gin.Context) {
	if h.search == nil {
		notConfigured(c, "item search")
		return
	}

	var request domain.ItemSearchRequest
	if err := c.ShouldBindQuery(&request); err != nil {
		h.respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	results, err := h.search.Search(c.Request.Context(), &request)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   request.Query,
		"count":   len(results),
		"results": results,
	})
}

// FeaturedItems lists commonly traded items: GET /items/featured?count=
func (h *Handler) FeaturedItems(c *gin.Context) {
	if h.search == nil {
		notConfigured(c, "item search")
		return
	}

	count, err := queryInt(c, "count")
	if err != nil {
		h.respondError(c, err)
		return
	}

	items := h.search.Featured(c.Request.Context(), count)
	c.JSON(http.StatusOK, gin.H{
		"count": len(items),
		"items": items,
	})
}

// ItemCategories reports how many items fall into each category
func (h *Handler) ItemCategories(c *gin.Context) {
	if h.search == nil {
		notConfigured(c, "item search")
		return
	}

	buckets := h.search.Categories(c.Request.Context())
	counts := make(map[usecase.Category]int, len(buckets))
	total := 0
	for cat, items := range buckets {
		counts[cat] = len(items)
		total += len(items)
	}

	c.JSON(http.StatusOK, gin.H{
		"order":      usecase.Categories,
		"categories": counts,
		"total":      total,
	})
}

// GetItem returns a single catalog record with its identifier broken down
func (h *Handler) GetItem(c *gin.Context) {
	if h.search == nil {
		notConfigured(c, "item search")
		return
	}

	details, err := h.search.Item(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// ReloadCatalog re-reads the catalog file and swaps it in
func (h *Handler) ReloadCatalog(c *gin.Context) {
	if h.search == nil {
		notConfigured(c, "item search")
		return
	}

	stats, err := h.search.Reload(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stats":   stats,
		"catalog": h.search.Stats(),
	})
}

// MarketPrices returns current prices: GET /market/prices/:id?locations=&qualities=&quality=
func (h *Handler) MarketPrices(c *gin.Context) {
	if h.market == nil {
		notConfigured(c, "market data")
		return
	}

	request, err := marketRequest(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	report, err := h.market.Prices(c.Request.Context(), request)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// MarketHistory returns hourly and daily history: GET /market/history/:id
func (h *Handler) MarketHistory(c *gin.Context) {
	if h.market == nil {
		notConfigured(c, "market data")
		return
	}

	request, err := marketRequest(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	report, err := h.market.History(c.Request.Context(), request)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

type tierInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Reference returns the fixed lists the dashboard builds its dropdowns from
func (h *Handler) Reference(c *gin.Context) {
	tiers := make([]tierInfo, len(catalog.TierCodes))
	for i, code := range catalog.TierCodes {
		tiers[i] = tierInfo{Code: code, Name: catalog.TierName(code)}
	}

	c.JSON(http.StatusOK, gin.H{
		"cities":       albion.Cities,
		"qualities":    albion.Qualities,
		"timeScales":   albion.TimeScales,
		"tiers":        tiers,
		"enchantments": catalog.EnchantLevels,
	})
}

// SaveSelection stores dashboard state: PUT /selections[/:session]
func (h *Handler) SaveSelection(c *gin.Context) {
	if h.selections == nil {
		notConfigured(c, "selections")
		return
	}

	var selection domain.Selection
	if err := c.ShouldBindJSON(&selection); err != nil {
		h.respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	sessionID, err := h.selections.Save(c.Request.Context(), c.Param("session"), &selection)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId": sessionID,
		"selection": selection,
	})
}

// GetSelection restores dashboard state: GET /selections/:session
func (h *Handler) GetSelection(c *gin.Context) {
	if h.selections == nil {
		notConfigured(c, "selections")
		return
	}

	selection, err := h.selections.Get(c.Request.Context(), c.Param("session"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId": c.Param("session"),
		"selection": selection,
	})
}

// DeleteSelection forgets dashboard state: DELETE /selections/:session
func (h *Handler) DeleteSelection(c *gin.Context) {
	if h.selections == nil {
		notConfigured(c, "selections")
		return
	}

	if err := h.selections.Delete(c.Request.Context(), c.Param("session")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// marketRequest reads the item id and comma separated filters
func marketRequest(c *gin.Context) (*usecase.MarketRequest, error) {
	qualities, err := intList(c.Query("qualities"))
	if err != nil {
		return nil, err
	}
	quality, err := queryInt(c, "quality")
	if err != nil {
		return nil, err
	}

	return &usecase.MarketRequest{
		ItemID:    c.Param("id"),
		Locations: stringList(c.Query("locations")),
		Qualities: qualities,
		Quality:   quality,
	}, nil
}

func stringList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func intList(raw string) ([]int, error) {
	parts := stringList(raw)
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// queryInt parses an optional integer query parameter; absent means 0
func queryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	return n, nil
}

func notConfigured(c *gin.Context, feature string) {
	c.JSON(http.StatusNotImplemented, gin.H{
		"error":     feature + " is not configured",
		"requestId": requestID(c),
	})
}

// respondError maps domain errors to HTTP statuses
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrItemNotFound), errors.Is(err, domain.ErrSelectionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrCatalogNotLoaded):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrMarketAPIFailure):
		status = http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("requestId", requestID(c)),
			zap.Int("status", status),
			zap.Error(err),
		)
	}

	c.JSON(status, gin.H{
		"error":     err.Error(),
		"requestId": requestID(c),
	})
}
