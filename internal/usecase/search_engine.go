package usecase

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/EliJ91/albion-market-history/internal/catalog"
	"github.com/EliJ91/albion-market-history/internal/domain"
)

// Score bands, highest first. A record takes the first band it satisfies.
const (
	scoreExactName      = 1000
	scoreExactID        = 950
	scoreNamePrefix     = 900 // plus up to 50 for short names
	scoreIDPrefix       = 850
	scoreWordPrefix     = 800
	scoreWordBoundary   = 750
	scoreNameContains   = 700 // plus up to 50 for an early match
	scoreIDContains     = 650
	scoreFuzzyBase      = 500 // plus fuzzyCharPoints per matched query char
	fuzzyCharPoints     = 10
	bonusCeiling        = 50
	fuzzyMinQueryLength = 3
	fuzzyCoverage       = 0.7
	confidentScore      = 900 // top score that triggers the confidence gate
	confidentWindow     = 100 // max distance below the top score
	confidentFloor      = 800 // absolute floor under the gate
	confidentMaxResults = 5
)

// matchPredicates are the starts-with/contains tests shared by scoring and
// classification so the two never disagree
type matchPredicates struct {
	nameStart    bool
	idStart      bool
	nameContains bool
	idContains   bool
}

func evaluate(query string, e *catalog.Entry) matchPredicates {
	return matchPredicates{
		nameStart:    strings.HasPrefix(e.NameKey, query),
		idStart:      strings.HasPrefix(e.IDKey, query),
		nameContains: strings.Contains(e.NameKey, query),
		idContains:   strings.Contains(e.IDKey, query),
	}
}

// kind picks the label for a match from the predicates
func (p matchPredicates) kind() domain.MatchKind {
	switch {
	case p.nameStart:
		return domain.MatchNameStart
	case p.idStart:
		return domain.MatchIDStart
	case p.nameContains:
		return domain.MatchNameContains
	case p.idContains:
		return domain.MatchIDContains
	default:
		return domain.MatchFuzzy
	}
}

// Search ranks catalog records against a free-text query for live autocomplete.
// Results are sorted by score (descending) then display name length (ascending),
// keeping catalog order for full ties. When the best match is a prefix match or
// better, weaker matches are dropped and at most five results are returned.
// The filter is applied last, after limiting, and never reorders results.
func Search(c *catalog.Catalog, query string, limit int, filter *domain.AttributeFilter) []domain.ScoredMatch {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit <= 0 || c.Len() == 0 {
		return []domain.ScoredMatch{}
	}
	qLen := utf8.RuneCountInString(q)

	entries := c.Entries()
	matches := make([]domain.ScoredMatch, 0)
	for i := range entries {
		e := &entries[i]
		p := evaluate(q, e)

		score := scoreEntry(q, qLen, e, p)
		if score <= 0 {
			continue
		}
		matches = append(matches, domain.ScoredMatch{
			CatalogRecord: e.Record,
			Score:         score,
			Kind:          p.kind(),
		})
	}

	sortMatches(matches)
	ranked := applyConfidenceGate(matches, limit)
	return applyFilter(ranked, filter)
}

// scoreEntry walks the score bands; 0 means the record does not match
func scoreEntry(q string, qLen int, e *catalog.Entry, p matchPredicates) int {
	name := e.NameKey

	switch {
	case name == q:
		return scoreExactName
	case e.IDKey == q:
		return scoreExactID
	case p.nameStart:
		return scoreNamePrefix + max(0, bonusCeiling-utf8.RuneCountInString(name))
	case p.idStart:
		return scoreIDPrefix
	case anyWordHasPrefix(name, q):
		return scoreWordPrefix
	case strings.Contains(name, " "+q) || strings.Contains(name, q+" "):
		return scoreWordBoundary
	case p.nameContains:
		idx := utf8.RuneCountInString(name[:strings.Index(name, q)])
		return scoreNameContains + max(0, bonusCeiling-idx)
	case p.idContains:
		return scoreIDContains
	case qLen >= fuzzyMinQueryLength:
		return fuzzyScore(q, qLen, name)
	}
	return 0
}

func anyWordHasPrefix(name, q string) bool {
	for _, word := range strings.Fields(name) {
		if strings.HasPrefix(word, q) {
			return true
		}
	}
	return false
}

// fuzzyScore counts query characters present anywhere in the name.
// Repeated query characters count once per occurrence in the query.
func fuzzyScore(q string, qLen int, name string) int {
	matched := 0
	for _, r := range q {
		if strings.ContainsRune(name, r) {
			matched++
		}
	}
	if matched < int(math.Ceil(float64(qLen)*fuzzyCoverage)) {
		return 0
	}
	return scoreFuzzyBase + matched*fuzzyCharPoints
}

func sortMatches(matches []domain.ScoredMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return utf8.RuneCountInString(matches[i].DisplayName) < utf8.RuneCountInString(matches[j].DisplayName)
	})
}

// applyConfidenceGate trims sorted matches to the result window
func applyConfidenceGate(sorted []domain.ScoredMatch, limit int) []domain.ScoredMatch {
	if len(sorted) == 0 {
		return sorted
	}

	top := sorted[0].Score
	if top < confidentScore {
		return sorted[:min(limit, len(sorted))]
	}

	floor := max(top-confidentWindow, confidentFloor)
	capped := min(limit, confidentMaxResults)
	out := make([]domain.ScoredMatch, 0, capped)
	for _, m := range sorted {
		if len(out) == capped {
			break
		}
		if m.Score >= floor {
			out = append(out, m)
		}
	}
	return out
}

// applyFilter drops matches whose tier or enchant does not match.
// Unknown filter values simply yield no matches.
func applyFilter(matches []domain.ScoredMatch, filter *domain.AttributeFilter) []domain.ScoredMatch {
	if filter.IsZero() {
		return matches
	}

	out := make([]domain.ScoredMatch, 0, len(matches))
	for _, m := range matches {
		if filter.TierCode != nil && catalog.TierOf(m.Identifier) != *filter.TierCode {
			continue
		}
		if filter.EnchantLevel != nil && catalog.EnchantOf(m.Identifier) != *filter.EnchantLevel {
			continue
		}
		out = append(out, m)
	}
	return out
}
