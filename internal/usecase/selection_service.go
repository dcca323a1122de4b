package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/EliJ91/albion-market-history/internal/catalog"
	"github.com/EliJ91/albion-market-history/internal/domain"
	"github.com/EliJ91/albion-market-history/internal/infrastructure/albion"
)

const selectionKeyPrefix = "selection:"

// SelectionService remembers the dashboard state per browser session
type SelectionService struct {
	cache  domain.CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewSelectionService creates a selection service. A zero TTL keeps
// selections for 30 days.
func NewSelectionService(cache domain.CacheRepository, ttl time.Duration, logger *zap.Logger) *SelectionService {
	if ttl <= 0 {
		ttl = 720 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SelectionService{
		cache:  cache,
		ttl:    ttl,
		logger: logger.Named("selections"),
	}
}

// Save stores a selection. An empty session id starts a new session;
// the session id in use is returned.
func (s *SelectionService) Save(ctx context.Context, sessionID string, selection *domain.Selection) (string, error) {
	if selection == nil {
		return "", domain.ErrInvalidRequest
	}
	if err := normalizeSelection(selection); err != nil {
		return "", err
	}

	if sessionID == "" {
		sessionID = uuid.NewString()
	} else if _, err := uuid.Parse(sessionID); err != nil {
		return "", fmt.Errorf("%w: malformed session id", domain.ErrInvalidRequest)
	}

	if err := s.cache.Set(ctx, selectionKeyPrefix+sessionID, selection, s.ttl); err != nil {
		s.logger.Error("failed to store selection", zap.String("session", sessionID), zap.Error(err))
		return "", err
	}
	return sessionID, nil
}

// Get returns the selection stored for a session
func (s *SelectionService) Get(ctx context.Context, sessionID string) (*domain.Selection, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, fmt.Errorf("%w: malformed session id", domain.ErrInvalidRequest)
	}

	raw, err := s.cache.Get(ctx, selectionKeyPrefix+sessionID)
	if errors.Is(err, domain.ErrCacheMiss) {
		return nil, domain.ErrSelectionNotFound
	}
	if err != nil {
		return nil, err
	}

	var selection domain.Selection
	if err := json.Unmarshal(raw, &selection); err != nil {
		s.logger.Warn("discarding unreadable selection", zap.String("session", sessionID), zap.Error(err))
		_ = s.cache.Delete(ctx, selectionKeyPrefix+sessionID)
		return nil, domain.ErrSelectionNotFound
	}
	return &selection, nil
}

// Delete forgets a session's selection
func (s *SelectionService) Delete(ctx context.Context, sessionID string) error {
	if _, err := uuid.Parse(sessionID); err != nil {
		return fmt.Errorf("%w: malformed session id", domain.ErrInvalidRequest)
	}
	return s.cache.Delete(ctx, selectionKeyPrefix+sessionID)
}

func normalizeSelection(sel *domain.Selection) error {
	sel.ItemID = strings.TrimSpace(sel.ItemID)
	sel.Tier = strings.ToUpper(strings.TrimSpace(sel.Tier))
	if sel.Tier == "ALL" {
		sel.Tier = ""
	}

	if sel.Quality != 0 && !albion.ValidQuality(sel.Quality) {
		return fmt.Errorf("%w: unknown quality %d", domain.ErrInvalidRequest, sel.Quality)
	}
	if sel.Tier != "" {
		if _, ok := catalog.TierNames[sel.Tier]; !ok {
			return fmt.Errorf("%w: unknown tier %q", domain.ErrInvalidRequest, sel.Tier)
		}
	}
	if sel.Enchant != nil && (*sel.Enchant < 0 || *sel.Enchant > catalog.MaxEnchant) {
		return fmt.Errorf("%w: enchant must be between 0 and %d", domain.ErrInvalidRequest, catalog.MaxEnchant)
	}
	for _, city := range sel.Cities {
		if !albion.IsCity(city) {
			return fmt.Errorf("%w: unknown city %q", domain.ErrInvalidRequest, city)
		}
	}
	return nil
}
