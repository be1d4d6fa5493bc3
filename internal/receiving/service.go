package receiving

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/sokho/sokho/internal/ledger"
	"github.com/sokho/sokho/internal/platform/httpx"
	"github.com/sokho/sokho/internal/store"
)

// Service manages receipt batches.
type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// List returns receipt batches joined with SKU info, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) []ImportView {
	data := s.store.Snapshot()
	needle := ledger.Normalize(filter.Search)

	views := make([]ImportView, 0, len(data.Imports))
	for _, record := range data.Imports {
		if filter.Year != 0 && record.Year != filter.Year {
			continue
		}
		view := ImportView{ImportRecord: record}
		if product := data.ProductByID(record.ProductID); product != nil {
			view.Code = product.Code
			view.Name = product.Name
			view.Category = product.Category
			view.Manufacturer = product.Manufacturer
			view.Unit = product.Unit
		}
		if needle != "" &&
			!strings.Contains(ledger.Normalize(view.Code), needle) &&
			!strings.Contains(ledger.Normalize(view.Name), needle) {
			continue
		}
		views = append(views, view)
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Date.After(views[j].Date)
	})
	return views
}

// Create registers a new batch.
func (s *Service) Create(ctx context.Context, req ImportRequest) (store.ImportRecord, error) {
	record, err := buildRecord(uuid.NewString(), req)
	if err != nil {
		return store.ImportRecord{}, err
	}
	err = s.store.Update(ctx, func(data store.Data) (store.Data, error) {
		if data.ProductByID(req.ProductID) == nil {
			return store.Data{}, fmt.Errorf("receiving: product %s: %w", req.ProductID, httpx.ErrNotFound)
		}
		imports := make([]store.ImportRecord, len(data.Imports), len(data.Imports)+1)
		copy(imports, data.Imports)
		data.Imports = append(imports, record)
		return data, nil
	})
	if err != nil {
		return store.ImportRecord{}, err
	}
	return record, nil
}

// Update rewrites an existing batch in place. Sales already drawn from the
// batch keep referring to it; shrinking the quantity below the issued total
// surfaces later as a negative remainder in the report.
func (s *Service) Update(ctx context.Context, id string, req ImportRequest) error {
	record, err := buildRecord(id, req)
	if err != nil {
		return err
	}
	return s.store.Update(ctx, func(data store.Data) (store.Data, error) {
		if data.ProductByID(req.ProductID) == nil {
			return store.Data{}, fmt.Errorf("receiving: product %s: %w", req.ProductID, httpx.ErrNotFound)
		}
		imports := make([]store.ImportRecord, len(data.Imports))
		copy(imports, data.Imports)
		for i := range imports {
			if imports[i].ID == id {
				imports[i] = record
				data.Imports = imports
				return data, nil
			}
		}
		return store.Data{}, fmt.Errorf("receiving: import %s: %w", id, httpx.ErrNotFound)
	})
}

// Delete removes a batch and every sale drawn from it.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Update(ctx, func(data store.Data) (store.Data, error) {
		imports := make([]store.ImportRecord, 0, len(data.Imports))
		found := false
		for _, record := range data.Imports {
			if record.ID == id {
				found = true
				continue
			}
			imports = append(imports, record)
		}
		if !found {
			return store.Data{}, fmt.Errorf("receiving: import %s: %w", id, httpx.ErrNotFound)
		}
		sales := make([]store.SaleRecord, 0, len(data.Sales))
		for _, sale := range data.Sales {
			if sale.ImportRecordID == id {
				continue
			}
			sales = append(sales, sale)
		}
		data.Imports = imports
		data.Sales = sales
		return data, nil
	})
}

// Suggest returns SKUs matching the search, each pre-filled with the prices
// of its newest batch.
func (s *Service) Suggest(ctx context.Context, search string) []Suggestion {
	data := s.store.Snapshot()
	needle := ledger.Normalize(search)

	suggestions := make([]Suggestion, 0, len(data.Products))
	for _, product := range data.Products {
		if needle != "" &&
			!strings.Contains(ledger.Normalize(product.Code), needle) &&
			!strings.Contains(ledger.Normalize(product.Name), needle) {
			continue
		}
		suggestion := Suggestion{Product: product}
		var newest *store.ImportRecord
		for i := range data.Imports {
			if data.Imports[i].ProductID != product.ID {
				continue
			}
			if newest == nil || data.Imports[i].Date.After(newest.Date) {
				newest = &data.Imports[i]
			}
		}
		if newest != nil {
			suggestion.LastImportPrice = newest.ImportPrice
			suggestion.LastSellingPrice = newest.SellingPrice
		}
		suggestions = append(suggestions, suggestion)
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Code < suggestions[j].Code
	})
	return suggestions
}

func buildRecord(id string, req ImportRequest) (store.ImportRecord, error) {
	day, err := parseDay(req.Date)
	if err != nil {
		return store.ImportRecord{}, fmt.Errorf("receiving: invalid date %q: %w", req.Date, httpx.ErrValidation)
	}
	return store.ImportRecord{
		ID:            id,
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		ImportPrice:   req.ImportPrice,
		SellingPrice:  req.SellingPrice,
		Year:          day.Year(),
		InvoiceNumber: strings.TrimSpace(req.InvoiceNumber),
		InvoiceImage:  req.InvoiceImage,
		Date:          day,
	}, nil
}
