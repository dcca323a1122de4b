package usecase

import (
	"regexp"
	"strings"

	"github.com/EliJ91/albion-market-history/internal/catalog"
	"github.com/EliJ91/albion-market-history/internal/domain"
)

// featuredGearTier matches gear codes in the T4-T8 range
var featuredGearTier = regexp.MustCompile(`^T[4-8]_`)

// Identifier keyword families for commonly traded items
var (
	featuredGearKeywords       = []string{"SWORD", "BOW", "STAFF", "ARMOR", "HEAD", "SHOES", "BAG", "CAPE", "TOOL"}
	featuredResourceKeywords   = []string{"FIBER", "HIDE", "ORE", "ROCK", "WOOD"}
	featuredConsumableKeywords = []string{"MEAL", "POTION"}
)

// ClassifyFeatured returns the first count commonly traded items in catalog order:
// T4-T8 weapons, armor, bags, capes and tools, raw resources, food and potions.
func ClassifyFeatured(c *catalog.Catalog, count int) []domain.CatalogRecord {
	if count <= 0 {
		return []domain.CatalogRecord{}
	}

	out := make([]domain.CatalogRecord, 0, min(count, c.Len()))
	for _, e := range c.Entries() {
		if len(out) == count {
			break
		}
		if isFeatured(e.Record.Identifier) {
			out = append(out, e.Record)
		}
	}
	return out
}

func isFeatured(code string) bool {
	if featuredGearTier.MatchString(code) && containsAny(code, featuredGearKeywords) {
		return true
	}
	return containsAny(code, featuredResourceKeywords) || containsAny(code, featuredConsumableKeywords)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// Category groups items by what they are used for
type Category string

const (
	CategoryWeapons     Category = "weapons"
	CategoryArmor       Category = "armor"
	CategoryAccessories Category = "accessories"
	CategoryTools       Category = "tools"
	CategoryResources   Category = "resources"
	CategoryConsumables Category = "consumables"
	CategoryMounts      Category = "mounts"
	CategoryFurniture   Category = "furniture"
	CategoryOther       Category = "other"
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryWeapons, CategoryArmor, CategoryAccessories, CategoryTools, CategoryResources,
	CategoryConsumables, CategoryMounts, CategoryFurniture, CategoryOther,
}

// plainResourcePattern matches bare resource codes such as T4_PLANKS
var plainResourcePattern = regexp.MustCompile(`^T\d+_[A-Z]+$`)

// categoryRules are checked in order; the first hit wins
var categoryRules = []struct {
	category Category
	keywords []string
	pattern  *regexp.Regexp
}{
	{CategoryWeapons, []string{"SWORD", "BOW", "STAFF", "HAMMER", "AXE", "MACE", "SPEAR", "DAGGER", "CROSSBOW"}, nil},
	{CategoryArmor, []string{"ARMOR", "HEAD", "SHOES"}, nil},
	{CategoryAccessories, []string{"BAG", "CAPE", "RING"}, nil},
	{CategoryTools, []string{"TOOL_"}, nil},
	{CategoryResources, []string{"FIBER", "HIDE", "ORE", "ROCK", "WOOD"}, plainResourcePattern},
	{CategoryConsumables, []string{"MEAL", "POTION", "FISH"}, nil},
	{CategoryMounts, []string{"HORSE", "OX", "WOLF", "MOUNT"}, nil},
	{CategoryFurniture, []string{"FURNITURE"}, nil},
}

// CategoryOf assigns an identifier to a single category
func CategoryOf(code string) Category {
	for _, rule := range categoryRules {
		if containsAny(code, rule.keywords) || (rule.pattern != nil && rule.pattern.MatchString(code)) {
			return rule.category
		}
	}
	return CategoryOther
}

// Categorize buckets the whole catalog, keeping catalog order within each bucket
func Categorize(c *catalog.Catalog) map[Category][]domain.CatalogRecord {
	out := make(map[Category][]domain.CatalogRecord, len(Categories))
	for _, cat := range Categories {
		out[cat] = []domain.CatalogRecord{}
	}
	for _, e := range c.Entries() {
		cat := CategoryOf(e.Record.Identifier)
		out[cat] = append(out[cat], e.Record)
	}
	return out
}
