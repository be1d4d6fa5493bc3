package masterdata

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sokho/sokho/internal/ledger"
	"github.com/sokho/sokho/internal/platform/httpx"
	"github.com/sokho/sokho/internal/store"
)

// Service mutates master data through whole-store updates. Every rename
// refreshes the denormalized name copies on templates and SKUs.
type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// ---------------------------------------------------------------------------
// Categories

func (s *Service) ListCategories(ctx context.Context) []store.Category {
	return SortedCategories(s.store.Snapshot())
}

func (s *Service) CreateCategory(ctx context.Context, req CreateCategoryRequest) (store.Category, error) {
	category := store.Category{ID: uuid.NewString(), Name: strings.TrimSpace(req.Name)}
	err := s.store.Update(ctx, func(data store.Data) (store.Data, error) {
		for _, existing := range data.Categories {
			if strings.EqualFold(existing.Name, category.Name) {
				return store.Data{}, fmt.Errorf("masterdata: category %q: %w", category.Name, httpx.ErrDuplicate)
			}
		}
		data.Categories = append(cloneSlice(data.Categories), category)
		return data, nil
	})
	if err != nil {
		return store.Category{}, err
	}
	return category, nil
}

func (s *Service) RenameCategory(ctx context.Context, id string, req RenameRequest) error {
	name := strings.TrimSpace(req.Name)
	return s.store.Update(ctx, func(data store.Data) (store.Data, error) {
		categories := cloneSlice(data.Categories)
		found := false
		for i := range categories {
			if categories[i].ID == id {
				categories[i].Name = name
				found = true
				continue
			}
			if strings.EqualFold(categories[i].Name, name) {
				return store.Data{}, fmt.Errorf("masterdata: category %q: %w", name, httpx.ErrDuplicate)
			}
		}
		if !found {
			return store.Data{}, fmt.Errorf("masterdata: category %s: %w", id, httpx.ErrNotFound)
		}
		data.Categories = categories

		touched := map[string]bool{}
		templates := cloneSlice(data.ProductTemplates)
		for i := range templates {
			if templates[i].CategoryID == id {
				templates[i].CategoryName = name
				touched[templates[i].ID] = true
			}
		}
		data.ProductTemplates = templates
		data.Products = refreshProducts(data, touched)
		return data, nil
	})
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return s.deleteByID(ctx, id, "category", func(data *store.Data) *int {
		return removeWhere(&data.Categories, func(c store.Category) bool { return c.ID == id })
	})
}

// ---------------------------------------------------------------------------
// Units

func (s *Service) ListUnits(ctx context.Context) []store.Unit {
	return SortedUnits(s.store.Snapshot())
}

func (s *Service) CreateUnit(ctx context.Context, req CreateUnitRequest) (store.Unit, error) {
	unit := store.Unit{ID: uuid.NewString(), Name: strings.TrimSpace(req.Name)}
	err := s.store.Update(ctx, func(data store.Data) (store.Data, error) {
		for _, existing := range data.Units {
			if strings.EqualFold(existing.Name, unit.Name) {
				return store.Data{}, fmt.Errorf("masterdata: unit %q: %w", unit.Name, httpx.ErrDuplicate)
			}
		}
		data.Units = append(cloneSlice(data.Units), unit)
		return data, nil
	})
	if err != nil {
		return store.Unit{}, err
	}
	return unit, nil
}

func (s *Service) RenameUnit(ctx context.Context, id string, req RenameRequest) error {
	name := strings.TrimSpace(req.Name)
	return s.store.Update(ctx, func(data store.Data) (store.Data, error) {
		units := cloneSlice(data.Units)
		found := false
		for i := range units {
			if units[i].ID == id {
				units[i].Name = name
				found = true
				continue
			}
			if strings.EqualFold(units[i].Name, name) {
				return store.Data{}, fmt.Errorf("masterdata: unit %q: %w", name, httpx.ErrDuplicate)
			}
		}
		if !found {
			return store.Data{}, fmt.Errorf("masterdata: unit %s: %w", id, httpx.ErrNotFound)
		}
		data.Units = units

		touched := map[string]bool{}
		templates := cloneSlice(data.ProductTemplates)
		for i := range templates {
			if templates[i].UnitID == id {
				templates[i].UnitName = name
				touched[templates[i].ID] = true
			}
		}
		data.ProductTemplates = templates
		data.Products = refreshProducts(data, touched)
		return data, nil
	})
}

func (s *Service) DeleteUnit(ctx context.Context, id string) error {
	return s.deleteByID(ctx, id, "unit", func(data *store.Data) *int {
		return removeWhere(&data.Units, func(u store.Unit) bool { return u.ID == id })
	})
}

// ---------------------------------------------------------------------------
// Manufacturers

func (s *Service) ListManufacturers(ctx context.Context, categoryID string) []store.Manufacturer {
	return SortedManufacturers(s.store.Snapshot(), categoryID)
}

func (s *Service) CreateManufacturer(ctx context.Context, req CreateManufacturerRequest) (store.Manufacturer, error) {
	manufacturer := store.Manufacturer{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(req.Name),
		CategoryID: req.CategoryID,
	}
	err := s.store.Update(ctx, func(data store.Data) (store.Data, error) {
		if data.CategoryByID(req.CategoryID) == nil {
			return store.Data{}, fmt.Errorf("masterdata: category %s: %w", req.CategoryID, httpx.ErrNotFound)
		}
		for _, existing := range data.Manufacturers {
			if existing.CategoryID == req.CategoryID && strings.EqualFold(existing.Name, manufacturer.Name) {
				return store.Data{}, fmt.Errorf("masterdata: manufacturer %q: %w", manufacturer.Name, httpx.ErrDuplicate)
			}
		}
		data.Manufacturers = append(cloneSlice(data.Manufacturers), manufacturer)
		return data, nil
	})
	if err != nil {
		return store.Manufacturer{}, err
	}
	return manufacturer, nil
}

func (s *Service) RenameManufacturer(ctx context.Context, id string, req RenameRequest) error {
	name := strings.TrimSpace(req.Name)
	return s.store.Update(ctx, func(data store.Data) (store.Data, error) {
		manufacturers := cloneSlice(data.Manufacturers)
		idx := -1
		for i := range manufacturers {
			if manufacturers[i].ID == id {
				idx = i
			}
		}
		if idx == -1 {
			return store.Data{}, fmt.Errorf("masterdata: manufacturer %s: %w", id, httpx.ErrNotFound)
		}
		for i := range manufacturers {
			if i == idx || manufacturers[i].CategoryID != manufacturers[idx].CategoryID {
				continue
			}
			if strings.EqualFold(manufacturers[i].Name, name) {
				return store.Data{}, fmt.Errorf("masterdata: manufacturer %q: %w", name, httpx.ErrDuplicate)
			}
		}
		manufacturers[idx].Name = name
		data.Manufacturers = manufacturers

		touched := map[string]bool{}
		templates := cloneSlice(data.ProductTemplates)
		for i := range templates {
			if templates[i].ManufacturerID == id {
				templates[i].ManufacturerName = name
				touched[templates[i].ID] = true
			}
		}
		data.ProductTemplates = templates
		data.Products = refreshProducts(data, touched)
		return data, nil
	})
}

func (s *Service) DeleteManufacturer(ctx context.Context, id string) error {
	return s.deleteByID(ctx, id, "manufacturer", func(data *store.Data) *int {
		return removeWhere(&data.Manufacturers, func(m store.Manufacturer) bool { return m.ID == id })
	})
}

// ---------------------------------------------------------------------------
// Product templates

func (s *Service) ListTemplates(ctx context.Context) []store.ProductTemplate {
	return sortedByName(s.store.Snapshot().ProductTemplates,
		func(t store.ProductTemplate) string { return t.Name })
}

func (s *Service) CreateTemplate(ctx context.Context, req TemplateRequest) (store.ProductTemplate, error) {
	var template store.ProductTemplate
	err := s.store.Update(ctx, func(data store.Data) (store.Data, error) {
		built, err := buildTemplate(data, uuid.NewString(), req)
		if err != nil {
			return store.Data{}, err
		}
		template = built
		data.ProductTemplates = append(cloneSlice(data.ProductTemplates), template)
		return data, nil
	})
	if err != nil {
		return store.ProductTemplate{}, err
	}
	return template, nil
}

func (s *Service) UpdateTemplate(ctx context.Context, id string, req TemplateRequest) error {
	return s.store.Update(ctx, func(data store.Data) (store.Data, error) {
		templates := cloneSlice(data.ProductTemplates)
		found := false
		for i := range templates {
			if templates[i].ID != id {
				continue
			}
			built, err := buildTemplate(data, id, req)
			if err != nil {
				return store.Data{}, err
			}
			templates[i] = built
			found = true
			break
		}
		if !found {
			return store.Data{}, fmt.Errorf("masterdata: template %s: %w", id, httpx.ErrNotFound)
		}
		data.ProductTemplates = templates
		data.Products = refreshProducts(data, map[string]bool{id: true})
		return data, nil
	})
}

func (s *Service) DeleteTemplate(ctx context.Context, id string) error {
	return s.deleteByID(ctx, id, "template", func(data *store.Data) *int {
		return removeWhere(&data.ProductTemplates, func(t store.ProductTemplate) bool { return t.ID == id })
	})
}

// ---------------------------------------------------------------------------
// Products (SKUs)

func (s *Service) ListProducts(ctx context.Context, search string) []store.Product {
	data := s.store.Snapshot()
	needle := ledger.Normalize(search)
	products := make([]store.Product, 0, len(data.Products))
	for _, p := range data.Products {
		if needle == "" ||
			strings.Contains(ledger.Normalize(p.Code), needle) ||
			strings.Contains(ledger.Normalize(p.Name), needle) ||
			strings.Contains(ledger.Normalize(p.Manufacturer), needle) {
			products = append(products, p)
		}
	}
	return sortedByName(products, func(p store.Product) string { return p.Code })
}

func (s *Service) CreateProduct(ctx context.Context, req ProductRequest) (store.Product, error) {
	var product store.Product
	err := s.store.Update(ctx, func(data store.Data) (store.Data, error) {
		built, err := buildProduct(data, uuid.NewString(), req, "")
		if err != nil {
			return store.Data{}, err
		}
		product = built
		data.Products = append(cloneSlice(data.Products), product)
		return data, nil
	})
	if err != nil {
		return store.Product{}, err
	}
	return product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, req ProductRequest) error {
	return s.store.Update(ctx, func(data store.Data) (store.Data, error) {
		products := cloneSlice(data.Products)
		found := false
		for i := range products {
			if products[i].ID != id {
				continue
			}
			built, err := buildProduct(data, id, req, id)
			if err != nil {
				return store.Data{}, err
			}
			products[i] = built
			found = true
			break
		}
		if !found {
			return store.Data{}, fmt.Errorf("masterdata: product %s: %w", id, httpx.ErrNotFound)
		}
		data.Products = products
		return data, nil
	})
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.deleteByID(ctx, id, "product", func(data *store.Data) *int {
		return removeWhere(&data.Products, func(p store.Product) bool { return p.ID == id })
	})
}

// ---------------------------------------------------------------------------
// Helpers

// buildTemplate resolves the referenced master entities and snapshots their
// names onto the template. The manufacturer must belong to the chosen category.
func buildTemplate(data store.Data, id string, req TemplateRequest) (store.ProductTemplate, error) {
	category := data.CategoryByID(req.CategoryID)
	if category == nil {
		return store.ProductTemplate{}, fmt.Errorf("masterdata: category %s: %w", req.CategoryID, httpx.ErrNotFound)
	}
	var manufacturer *store.Manufacturer
	for i := range data.Manufacturers {
		if data.Manufacturers[i].ID == req.ManufacturerID {
			manufacturer = &data.Manufacturers[i]
			break
		}
	}
	if manufacturer == nil {
		return store.ProductTemplate{}, fmt.Errorf("masterdata: manufacturer %s: %w", req.ManufacturerID, httpx.ErrNotFound)
	}
	if manufacturer.CategoryID != req.CategoryID {
		return store.ProductTemplate{}, fmt.Errorf("masterdata: manufacturer %q is not in category %q: %w",
			manufacturer.Name, category.Name, httpx.ErrValidation)
	}
	var unit *store.Unit
	for i := range data.Units {
		if data.Units[i].ID == req.UnitID {
			unit = &data.Units[i]
			break
		}
	}
	if unit == nil {
		return store.ProductTemplate{}, fmt.Errorf("masterdata: unit %s: %w", req.UnitID, httpx.ErrNotFound)
	}
	return store.ProductTemplate{
		ID:               id,
		Name:             strings.TrimSpace(req.Name),
		CategoryID:       req.CategoryID,
		ManufacturerID:   req.ManufacturerID,
		UnitID:           req.UnitID,
		CategoryName:     category.Name,
		ManufacturerName: manufacturer.Name,
		UnitName:         unit.Name,
	}, nil
}

// buildProduct links a SKU to its template and copies the display fields.
// excludeID skips the SKU itself during the code-uniqueness scan.
func buildProduct(data store.Data, id string, req ProductRequest, excludeID string) (store.Product, error) {
	code := NormalizeCode(req.Code)
	if code == "" {
		return store.Product{}, fmt.Errorf("masterdata: empty product code: %w", httpx.ErrValidation)
	}
	for _, existing := range data.Products {
		if existing.ID != excludeID && existing.Code == code {
			return store.Product{}, fmt.Errorf("masterdata: product code %q: %w", code, httpx.ErrDuplicate)
		}
	}
	var template *store.ProductTemplate
	for i := range data.ProductTemplates {
		if data.ProductTemplates[i].ID == req.TemplateID {
			template = &data.ProductTemplates[i]
			break
		}
	}
	if template == nil {
		return store.Product{}, fmt.Errorf("masterdata: template %s: %w", req.TemplateID, httpx.ErrNotFound)
	}
	return store.Product{
		ID:           id,
		Code:         code,
		TemplateID:   template.ID,
		Name:         template.Name,
		Category:     template.CategoryName,
		Manufacturer: template.ManufacturerName,
		Unit:         template.UnitName,
	}, nil
}

// refreshProducts re-copies template fields onto SKUs whose template changed.
func refreshProducts(data store.Data, touched map[string]bool) []store.Product {
	if len(touched) == 0 {
		return data.Products
	}
	templates := make(map[string]store.ProductTemplate, len(data.ProductTemplates))
	for _, t := range data.ProductTemplates {
		templates[t.ID] = t
	}
	products := cloneSlice(data.Products)
	for i := range products {
		if !touched[products[i].TemplateID] {
			continue
		}
		t := templates[products[i].TemplateID]
		products[i].Name = t.Name
		products[i].Category = t.CategoryName
		products[i].Manufacturer = t.ManufacturerName
		products[i].Unit = t.UnitName
	}
	return products
}

func (s *Service) deleteByID(ctx context.Context, id, kind string, remove func(*store.Data) *int) error {
	return s.store.Update(ctx, func(data store.Data) (store.Data, error) {
		if removed := remove(&data); removed == nil {
			return store.Data{}, fmt.Errorf("masterdata: %s %s: %w", kind, id, httpx.ErrNotFound)
		}
		return data, nil
	})
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// removeWhere returns the index of the removed element, nil when absent.
func removeWhere[T any](items *[]T, match func(T) bool) *int {
	for i, item := range *items {
		if match(item) {
			next := make([]T, 0, len(*items)-1)
			next = append(next, (*items)[:i]...)
			next = append(next, (*items)[i+1:]...)
			*items = next
			return &i
		}
	}
	return nil
}
