package albion

import (
	"sort"

	"github.com/EliJ91/albion-market-history/internal/domain"
)

// GroupPricesByCity buckets price entries by city, ordered by quality within
// each city. A positive quality keeps only entries of that quality.
func GroupPricesByCity(entries []domain.PriceEntry, quality int) map[string][]domain.PriceEntry {
	grouped := make(map[string][]domain.PriceEntry)

	for _, e := range entries {
		if quality > 0 && e.Quality != quality {
			continue
		}
		grouped[e.City] = append(grouped[e.City], e)
	}

	for city := range grouped {
		sort.SliceStable(grouped[city], func(i, j int) bool {
			return grouped[city][i].Quality < grouped[city][j].Quality
		})
	}

	return grouped
}

// QualitiesOf returns the distinct qualities present, ascending
func QualitiesOf(entries []domain.PriceEntry) []int {
	seen := make(map[int]struct{})
	out := make([]int, 0, len(Qualities))

	for _, e := range entries {
		if _, ok := seen[e.Quality]; ok {
			continue
		}
		seen[e.Quality] = struct{}{}
		out = append(out, e.Quality)
	}

	sort.Ints(out)
	return out
}

// OrganizeHistory flattens API series into time scale -> city -> points
// sorted by timestamp. Points without a quality inherit the series quality,
// falling back to DefaultQuality.
func OrganizeHistory(byScale map[int][]domain.HistorySeries) map[int]map[string][]domain.HistoryPoint {
	organized := make(map[int]map[string][]domain.HistoryPoint, len(byScale))

	for scale, series := range byScale {
		cities := make(map[string][]domain.HistoryPoint)

		for _, s := range series {
			for _, p := range s.Data {
				if p.Quality == 0 {
					p.Quality = s.Quality
				}
				if p.Quality == 0 {
					p.Quality = DefaultQuality
				}
				cities[s.Location] = append(cities[s.Location], p)
			}
		}

		for city := range cities {
			points := cities[city]
			sort.SliceStable(points, func(i, j int) bool {
				return points[i].Timestamp.Before(points[j].Timestamp.Time)
			})
		}

		organized[scale] = cities
	}

	return organized
}
