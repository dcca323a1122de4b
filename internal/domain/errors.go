package domain

import "errors"

var (
	// ErrItemNotFound is returned when an identifier is unknown to the catalog or the market API
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCatalogNotLoaded is returned when no catalog snapshot has been installed yet
	ErrCatalogNotLoaded = errors.New("item catalog not loaded")

	// ErrCatalogParse is returned when a catalog source cannot be parsed
	ErrCatalogParse = errors.New("failed to parse item catalog")

	// ErrMarketAPIFailure is returned when the market data API request fails
	ErrMarketAPIFailure = errors.New("market data API request failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrSelectionNotFound is returned when no saved selection exists for a session
	ErrSelectionNotFound = errors.New("selection not found")
)
