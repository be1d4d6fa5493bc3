// Package masterdata manages the reference entities behind the stock ledger:
// categories, units, manufacturers, product templates and SKUs.
package masterdata

import (
	"sort"
	"strings"

	"github.com/sokho/sokho/internal/store"
)

// CreateCategoryRequest creates a category.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// CreateUnitRequest creates a unit of measure.
type CreateUnitRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// RenameRequest renames a named entity and propagates the new name.
type RenameRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// CreateManufacturerRequest creates a manufacturer inside a category.
type CreateManufacturerRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=120"`
	CategoryID string `json:"categoryId" validate:"required,uuid4"`
}

// TemplateRequest creates or updates a product template.
type TemplateRequest struct {
	Name           string `json:"name" validate:"required,min=1,max=200"`
	CategoryID     string `json:"categoryId" validate:"required,uuid4"`
	ManufacturerID string `json:"manufacturerId" validate:"required,uuid4"`
	UnitID         string `json:"unitId" validate:"required,uuid4"`
}

// ProductRequest registers or updates a SKU against a template.
type ProductRequest struct {
	Code       string `json:"code" validate:"required,min=1,max=40"`
	TemplateID string `json:"templateId" validate:"required,uuid4"`
}

// NormalizeCode canonicalises a SKU code for storage and comparison.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func sortedByName[T any](items []T, name func(T) string) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(name(out[i])) < strings.ToLower(name(out[j]))
	})
	return out
}

// SortedCategories returns categories ordered by name.
func SortedCategories(data store.Data) []store.Category {
	return sortedByName(data.Categories, func(c store.Category) string { return c.Name })
}

// SortedUnits returns units ordered by name.
func SortedUnits(data store.Data) []store.Unit {
	return sortedByName(data.Units, func(u store.Unit) string { return u.Name })
}

// SortedManufacturers returns manufacturers ordered by name, optionally
// restricted to one category.
func SortedManufacturers(data store.Data, categoryID string) []store.Manufacturer {
	items := data.Manufacturers
	if categoryID != "" {
		filtered := make([]store.Manufacturer, 0, len(items))
		for _, m := range items {
			if m.CategoryID == categoryID {
				filtered = append(filtered, m)
			}
		}
		items = filtered
	}
	return sortedByName(items, func(m store.Manufacturer) string { return m.Name })
}
