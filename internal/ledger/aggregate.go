package ledger

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/sokho/sokho/internal/store"
)

// BuildReport recomputes the full inventory valuation from the transaction
// history. Nothing is cached: a retroactive edit or deletion of a receipt or
// issue is reflected on the next call. Per-record problems degrade that row,
// never the whole report.
func BuildReport(data store.Data, cutoff Cutoff, filter Filter) Report {
	asOf := cutoff.AsOf()
	report := Report{
		Batches:    []BatchRow{},
		Categories: []CategoryRollup{},
		Products:   []ProductRollup{},
	}

	type productKey struct {
		name, category, manufacturer string
	}
	categoryIdx := map[string]int{}
	productIdx := map[productKey]int{}

	for _, batch := range data.Imports {
		if batch.Date.After(asOf) {
			continue
		}
		product := data.ProductByID(batch.ProductID)
		if !matches(product, filter) {
			continue
		}
		status := Resolve(batch, data.Sales, cutoff)
		if status.Remaining < 0 {
			report.NegativeBatches++
			continue
		}
		if product == nil {
			report.MissingProducts++
		}

		row := BatchRow{
			BatchID:   batch.ID,
			ProductID: batch.ProductID,
			Year:      batch.Year,
			Opening:   batch.Quantity,
			Issued:    status.Issued,
			Remaining: status.Remaining,
			UnitCost:  batch.ImportPrice,
			Value:     status.Value,
		}
		category := unknownLabel
		manufacturer := unknownLabel
		if product != nil {
			row.Code = product.Code
			row.Name = product.Name
			row.Category = product.Category
			row.Manufacturer = product.Manufacturer
			row.Unit = product.Unit
			if product.Category != "" {
				category = product.Category
			}
			if product.Manufacturer != "" {
				manufacturer = product.Manufacturer
			}
		}
		report.Batches = append(report.Batches, row)
		report.TotalQuantity += status.Remaining
		report.TotalValue += status.Value

		i, ok := categoryIdx[category]
		if !ok {
			i = len(report.Categories)
			categoryIdx[category] = i
			report.Categories = append(report.Categories, CategoryRollup{Name: category})
		}
		report.Categories[i].Batches++
		report.Categories[i].Quantity += status.Remaining
		report.Categories[i].Value += status.Value

		key := productKey{name: row.Name, category: category, manufacturer: manufacturer}
		j, ok := productIdx[key]
		if !ok {
			j = len(report.Products)
			productIdx[key] = j
			report.Products = append(report.Products, ProductRollup{
				Name:         row.Name,
				Category:     category,
				Manufacturer: manufacturer,
				Unit:         row.Unit,
			})
		}
		report.Products[j].Quantity += status.Remaining
		report.Products[j].Value += status.Value
	}

	for i := range report.Categories {
		report.Categories[i].Share = Share(report.Categories[i].Value, report.TotalValue)
	}
	sort.SliceStable(report.Categories, func(i, j int) bool {
		if report.Categories[i].Value != report.Categories[j].Value {
			return report.Categories[i].Value > report.Categories[j].Value
		}
		return report.Categories[i].Name < report.Categories[j].Name
	})
	sort.SliceStable(report.Products, func(i, j int) bool {
		if report.Products[i].Value != report.Products[j].Value {
			return report.Products[i].Value > report.Products[j].Value
		}
		return report.Products[i].Name < report.Products[j].Name
	})
	return report
}

// ManufacturerOptions lists manufacturer names selectable alongside the given
// category filter, sorted. An empty category imposes no constraint.
func ManufacturerOptions(data store.Data, categoryName string) []string {
	var categoryID string
	if categoryName != "" {
		found := false
		for _, c := range data.Categories {
			if c.Name == categoryName {
				categoryID = c.ID
				found = true
				break
			}
		}
		if !found {
			return []string{}
		}
	}
	seen := map[string]struct{}{}
	names := []string{}
	for _, m := range data.Manufacturers {
		if categoryID != "" && m.CategoryID != categoryID {
			continue
		}
		if _, ok := seen[m.Name]; ok {
			continue
		}
		seen[m.Name] = struct{}{}
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names
}

// matches applies the shared filter predicate. A batch whose SKU is gone
// stays visible only under an empty filter, so one broken link never hides
// the rest of the report yet cannot satisfy a positive filter.
func matches(product *store.Product, filter Filter) bool {
	if product == nil {
		return filter.Search == "" && filter.Category == "" && filter.Manufacturer == ""
	}
	if filter.Search != "" {
		needle := Normalize(filter.Search)
		if !strings.Contains(Normalize(product.Code), needle) &&
			!strings.Contains(Normalize(product.Name), needle) {
			return false
		}
	}
	if filter.Category != "" && product.Category != filter.Category {
		return false
	}
	if filter.Manufacturer != "" && product.Manufacturer != filter.Manufacturer {
		return false
	}
	return true
}

// Normalize lowercases and NFC-normalizes text for search comparison, so
// composed and decomposed Vietnamese names match.
func Normalize(s string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(s)))
}

// Share converts a value into a whole percentage of total, rounded half away
// from zero. A zero total yields zero for every part.
func Share(value, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(value) / float64(total) * 100))
}
