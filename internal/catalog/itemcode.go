package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/EliJ91/albion-market-history/internal/domain"
)

var (
	tierPattern    = regexp.MustCompile(`^T(\d+)`)
	enchantPattern = regexp.MustCompile(`@(\d+)$`)
	gearPattern    = regexp.MustCompile(`^T\d+_`)
)

// TierNames maps tier codes to their in-game prefixes
var TierNames = map[string]string{
	"T3": "Novice",
	"T4": "Adept",
	"T5": "Expert",
	"T6": "Master",
	"T7": "Grandmaster",
	"T8": "Elder",
}

// TierCodes lists the tiers offered as filters, lowest first
var TierCodes = []string{"T3", "T4", "T5", "T6", "T7", "T8"}

// MaxEnchant is the highest enchantment level an item can carry
const MaxEnchant = 4

// EnchantLevels lists the enchantment levels offered as filters
var EnchantLevels = []int{0, 1, 2, 3, 4}

// TierOf returns the tier prefix of an identifier (T4_BAG -> T4), or "" when absent
func TierOf(identifier string) string {
	m := tierPattern.FindStringSubmatch(identifier)
	if m == nil {
		return ""
	}
	return "T" + m[1]
}

// EnchantOf returns the @N suffix of an identifier, 0 when absent
func EnchantOf(identifier string) int {
	m := enchantPattern.FindStringSubmatch(identifier)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// BaseID strips the enchant suffix
func BaseID(identifier string) string {
	return enchantPattern.ReplaceAllString(identifier, "")
}

// WithEnchant returns the identifier of the same item at another enchant level
func WithEnchant(identifier string, level int) string {
	base := BaseID(identifier)
	if level <= 0 {
		return base
	}
	return fmt.Sprintf("%s@%d", base, level)
}

// IsGear reports whether the identifier carries a tier prefix
func IsGear(identifier string) bool {
	return gearPattern.MatchString(identifier)
}

// TierName returns the display prefix for a tier code, or the code itself
func TierName(tier string) string {
	if name, ok := TierNames[strings.ToUpper(tier)]; ok {
		return name
	}
	return tier
}

// Describe breaks a record's identifier into its attributes
func Describe(rec domain.CatalogRecord) domain.ItemDetails {
	tier := TierOf(rec.Identifier)
	details := domain.ItemDetails{
		CatalogRecord: rec,
		Tier:          tier,
		Enchant:       EnchantOf(rec.Identifier),
		BaseID:        BaseID(rec.Identifier),
		Gear:          IsGear(rec.Identifier),
	}
	if tier != "" {
		details.TierName = TierName(tier)
	}
	return details
}
