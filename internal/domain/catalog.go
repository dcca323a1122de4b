package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// CatalogRecord is one tradable item variant known to the catalog
type CatalogRecord struct {
	Identifier  string `json:"itemId"` // Code used in market API calls, e.g. T4_MAIN_SWORD@1
	DisplayName string `json:"name"`   // What users search for
	SearchText  string `json:"-"`      // lower(identifier + " " + displayName)
}

// NewCatalogRecord trims both fields and precomputes the search text.
// Returns false when either field is empty after trimming.
func NewCatalogRecord(identifier, displayName string) (CatalogRecord, bool) {
	identifier = strings.TrimSpace(identifier)
	displayName = strings.TrimSpace(displayName)
	if identifier == "" || displayName == "" {
		return CatalogRecord{}, false
	}

	return CatalogRecord{
		Identifier:  identifier,
		DisplayName: displayName,
		SearchText:  strings.ToLower(identifier + " " + displayName),
	}, true
}

// MatchKind explains why a record matched a query
type MatchKind int

const (
	MatchNameStart MatchKind = iota + 1
	MatchIDStart
	MatchNameContains
	MatchIDContains
	MatchFuzzy
)

// String returns the label shown next to a suggestion
func (k MatchKind) String() string {
	switch k {
	case MatchNameStart:
		return "name-start"
	case MatchIDStart:
		return "id-start"
	case MatchNameContains:
		return "name-contains"
	case MatchIDContains:
		return "id-contains"
	case MatchFuzzy:
		return "fuzzy"
	}
	return fmt.Sprintf("MatchKind(%d)", int(k))
}

// MarshalText encodes the kind as its label
func (k MatchKind) MarshalText() ([]byte, error) {
	switch k {
	case MatchNameStart, MatchIDStart, MatchNameContains, MatchIDContains, MatchFuzzy:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("invalid match kind %d", int(k))
}

// ScoredMatch is a catalog record ranked against a single query.
// Scores are only comparable within the search call that produced them.
type ScoredMatch struct {
	CatalogRecord
	Score int       `json:"score"`
	Kind  MatchKind `json:"matchType"`
}

// AttributeFilter narrows ranked matches by attributes encoded in the identifier.
// Nil fields are not applied.
type AttributeFilter struct {
	TierCode     *string `json:"tier,omitempty"`
	EnchantLevel *int    `json:"enchant,omitempty"`
}

// IsZero reports whether the filter would keep every match
func (f *AttributeFilter) IsZero() bool {
	return f == nil || (f.TierCode == nil && f.EnchantLevel == nil)
}

// ItemDetails is a catalog record with its identifier broken down
type ItemDetails struct {
	CatalogRecord
	Tier     string `json:"tier,omitempty"`
	TierName string `json:"tierName,omitempty"`
	Enchant  int    `json:"enchant"`
	BaseID   string `json:"baseId"`
	Gear     bool   `json:"gear"`
}

// ItemSearchRequest is an autocomplete lookup as sent by the dashboard.
// Tier and Enchant accept "all" or an empty value to disable the filter.
type ItemSearchRequest struct {
	Query   string `form:"q" json:"query"`
	Limit   int    `form:"limit" json:"limit,omitempty"`
	Tier    string `form:"tier" json:"tier,omitempty"`
	Enchant string `form:"enchant" json:"enchant,omitempty"`
}

// Filter converts the request's tier/enchant selectors into an attribute filter
func (r *ItemSearchRequest) Filter() (*AttributeFilter, error) {
	f := &AttributeFilter{}

	tier := strings.ToUpper(strings.TrimSpace(r.Tier))
	if tier != "" && tier != "ALL" {
		f.TierCode = &tier
	}

	enchant := strings.ToLower(strings.TrimSpace(r.Enchant))
	if enchant != "" && enchant != "all" {
		n, err := strconv.Atoi(strings.TrimPrefix(enchant, "+"))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: enchant must be a non-negative integer, got %q", ErrInvalidRequest, r.Enchant)
		}
		f.EnchantLevel = &n
	}

	if f.IsZero() {
		return nil, nil
	}
	return f, nil
}
