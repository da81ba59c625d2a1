package services

import (
	"cmp"
	"slices"
	"strings"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/money"
)

const (
	// AllCategories disables the category predicate.
	AllCategories = "All"
	// NoCategory is reported as the top category when nothing matched.
	NoCategory = "-"

	topProductsLimit = 5
)

type Aggregates struct {
	Filter            models.Filter         `json:"filter"`
	Records           []models.Transaction  `json:"records"`
	TotalRevenue      float64               `json:"total_revenue"`
	TotalUnits        int                   `json:"total_units"`
	AverageUnitPrice  int64                 `json:"average_unit_price"`
	RevenueByCategory GroupSums             `json:"revenue_by_category"`
	RevenueByCountry  GroupSums             `json:"revenue_by_country"`
	RevenueByMonth    GroupSums             `json:"revenue_by_month"`
	TopCategory       string                `json:"top_category"`
	TopProducts       []models.ProductUnits `json:"top_products"`
}

// LatestFirst returns the filtered records in reverse input order, which is
// how the transactions table lists them.
func (a *Aggregates) LatestFirst() []models.Transaction {
	out := slices.Clone(a.Records)
	slices.Reverse(out)
	return out
}

// MonthlySeries returns monthly revenue ordered by month key.
func (a *Aggregates) MonthlySeries() []models.GroupTotal {
	return a.RevenueByMonth.SortedEntries()
}

// ComputeAggregates filters records by category and search text and
// derives every dashboard figure from the matching subset in one pass.
// It never fails: empty input yields zero values and the NoCategory
// sentinel.
func ComputeAggregates(records []models.Transaction, category, search string) *Aggregates {
	needle := strings.ToLower(strings.TrimSpace(search))

	result := &Aggregates{
		Filter:  models.Filter{Category: category, Search: search},
		Records: make([]models.Transaction, 0),
	}

	var products productTally
	for _, tx := range records {
		if !matches(tx, category, needle) {
			continue
		}
		result.Records = append(result.Records, tx)

		revenue := tx.Revenue()
		result.TotalRevenue += revenue
		result.TotalUnits += tx.Quantity

		result.RevenueByCategory.Add(tx.Category, revenue)
		result.RevenueByCountry.Add(tx.Country, revenue)
		result.RevenueByMonth.Add(tx.MonthKey(), revenue)

		products.add(tx.Product, tx.Quantity)
	}

	result.AverageUnitPrice = money.Average(result.TotalRevenue, result.TotalUnits)
	result.TopCategory = topByRevenue(result.RevenueByCategory)
	result.TopProducts = products.top(topProductsLimit)

	return result
}

// ListCategories returns AllCategories followed by each distinct category in
// first-seen order.
func ListCategories(records []models.Transaction) []string {
	seen := make(map[string]struct{})
	categories := []string{AllCategories}
	for _, tx := range records {
		if _, ok := seen[tx.Category]; ok {
			continue
		}
		seen[tx.Category] = struct{}{}
		categories = append(categories, tx.Category)
	}
	return categories
}

// Matches reports whether tx passes the category and search predicates.
func Matches(tx models.Transaction, category, search string) bool {
	return matches(tx, category, strings.ToLower(strings.TrimSpace(search)))
}

func matches(tx models.Transaction, category, needle string) bool {
	if category != AllCategories && tx.Category != category {
		return false
	}
	if needle == "" {
		return true
	}
	haystack := strings.ToLower(tx.Product + " " + tx.Country + " " + tx.Category)
	return strings.Contains(haystack, needle)
}

// topByRevenue keeps the first key holding the maximum.
func topByRevenue(groups GroupSums) string {
	best, found := "", false
	var bestRevenue float64
	for _, k := range groups.keys {
		if v := groups.values[k]; !found || v > bestRevenue {
			best, bestRevenue, found = k, v, true
		}
	}
	if best == "" {
		return NoCategory
	}
	return best
}

type productTally struct {
	order []string
	units map[string]int
}

func (p *productTally) add(product string, quantity int) {
	if p.units == nil {
		p.units = make(map[string]int)
	}
	if _, ok := p.units[product]; !ok {
		p.order = append(p.order, product)
	}
	p.units[product] += quantity
}

func (p *productTally) top(limit int) []models.ProductUnits {
	ranked := make([]models.ProductUnits, len(p.order))
	for i, name := range p.order {
		ranked[i] = models.ProductUnits{Product: name, Units: p.units[name]}
	}
	slices.SortStableFunc(ranked, func(a, b models.ProductUnits) int {
		return cmp.Compare(b.Units, a.Units)
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
