package domain

import "sort"

type RegionCount struct {
	Region string
	Count  int
}

// PortfolioStats summarises a set of listings for the dashboards.
type PortfolioStats struct {
	Total       int
	Available   int
	Rented      int
	Sold        int
	Negotiating int
	// TotalValue sums the price of sold and rented listings.
	TotalValue float64
	TopRegions []RegionCount
}

// Percent returns n as a share of Total, for the status bars.
func (s PortfolioStats) Percent(n int) int {
	if s.Total == 0 {
		return 0
	}
	return n * 100 / s.Total
}

// ComputeStats counts listings per status and per region. Regions are
// ordered by count, ties broken by name; topN <= 0 keeps all of them.
func ComputeStats(list []Property, topN int) PortfolioStats {
	s := PortfolioStats{Total: len(list)}
	byRegion := map[string]int{}
	for _, p := range list {
		switch p.Status {
		case StatusAvailable:
			s.Available++
		case StatusRented:
			s.Rented++
			s.TotalValue += p.Price
		case StatusSold:
			s.Sold++
			s.TotalValue += p.Price
		case StatusNegotiating:
			s.Negotiating++
		}
		byRegion[p.Region]++
	}

	regions := make([]RegionCount, 0, len(byRegion))
	for r, n := range byRegion {
		regions = append(regions, RegionCount{Region: r, Count: n})
	}
	sort.Slice(regions, func(i, j int) bool {
		if regions[i].Count != regions[j].Count {
			return regions[i].Count > regions[j].Count
		}
		return regions[i].Region < regions[j].Region
	})
	if topN > 0 && len(regions) > topN {
		regions = regions[:topN]
	}
	s.TopRegions = regions
	return s
}
