package sales

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sokho/sokho/internal/ledger"
	"github.com/sokho/sokho/internal/platform/httpx"
	"github.com/sokho/sokho/internal/store"
)

// Service issues stock and builds the sales dashboard.
type Service struct {
	store *store.Store
	now   func() time.Time
}

func NewService(st *store.Store) *Service {
	return &Service{store: st, now: func() time.Time { return time.Now().UTC() }}
}

// ListAvailable returns batches with positive remaining stock, joined with
// SKU info. The search also matches the manufacturer, so a seller can pull
// up everything from one brand.
func (s *Service) ListAvailable(ctx context.Context, search string) []AvailableBatch {
	data := s.store.Snapshot()
	needle := ledger.Normalize(search)

	available := make([]AvailableBatch, 0, len(data.Imports))
	for _, batch := range data.Imports {
		status := ledger.Resolve(batch, data.Sales, ledger.All())
		if status.Remaining <= 0 {
			continue
		}
		product := data.ProductByID(batch.ProductID)
		if product == nil {
			continue
		}
		if needle != "" &&
			!strings.Contains(ledger.Normalize(product.Code), needle) &&
			!strings.Contains(ledger.Normalize(product.Name), needle) &&
			!strings.Contains(ledger.Normalize(product.Manufacturer), needle) {
			continue
		}
		available = append(available, AvailableBatch{
			BatchID:      batch.ID,
			ProductID:    product.ID,
			Code:         product.Code,
			Name:         product.Name,
			Category:     product.Category,
			Manufacturer: product.Manufacturer,
			Unit:         product.Unit,
			Year:         batch.Year,
			Remaining:    status.Remaining,
			SellingPrice: batch.SellingPrice,
			LowStock:     status.Remaining <= ledger.LowStockThreshold,
		})
	}
	sort.SliceStable(available, func(i, j int) bool {
		if available[i].Code != available[j].Code {
			return available[i].Code < available[j].Code
		}
		return available[i].Year < available[j].Year
	})
	return available
}

// Record issues stock from one batch after the admission check passes. The
// check and the append happen under the same store update, so two concurrent
// sales cannot both drain the last units.
func (s *Service) Record(ctx context.Context, req SaleRequest) (SaleResult, error) {
	var result SaleResult
	saleDate := s.now()
	if req.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
		if err != nil {
			return SaleResult{}, fmt.Errorf("sales: invalid date %q: %w", req.Date, httpx.ErrValidation)
		}
		saleDate = parsed
	}

	err := s.store.Update(ctx, func(data store.Data) (store.Data, error) {
		batch := data.ImportByID(req.ImportRecordID)
		if batch == nil {
			return store.Data{}, fmt.Errorf("sales: batch %s: %w", req.ImportRecordID, httpx.ErrNotFound)
		}
		admission, err := ledger.Admit(*batch, data.Sales, req.Quantity)
		if err != nil {
			return store.Data{}, err
		}
		price := req.Price
		if price == 0 {
			price = batch.SellingPrice
		}
		sale := store.SaleRecord{
			ID:             uuid.NewString(),
			ProductID:      batch.ProductID,
			ImportRecordID: batch.ID,
			Quantity:       req.Quantity,
			Price:          price,
			Date:           saleDate,
		}
		sales := make([]store.SaleRecord, len(data.Sales), len(data.Sales)+1)
		copy(sales, data.Sales)
		data.Sales = append(sales, sale)

		result = SaleResult{
			Sale:       sale,
			Remaining:  admission.Remaining,
			LowStock:   admission.LowStock,
			OutOfStock: admission.OutOfStock,
		}
		return data, nil
	})
	if err != nil {
		return SaleResult{}, err
	}
	return result, nil
}

// Delete removes a sale, returning its quantity to the batch.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Update(ctx, func(data store.Data) (store.Data, error) {
		sales := make([]store.SaleRecord, 0, len(data.Sales))
		found := false
		for _, sale := range data.Sales {
			if sale.ID == id {
				found = true
				continue
			}
			sales = append(sales, sale)
		}
		if !found {
			return store.Data{}, fmt.Errorf("sales: sale %s: %w", id, httpx.ErrNotFound)
		}
		data.Sales = sales
		return data, nil
	})
}

// List returns sales inside the cutoff window, newest first.
func (s *Service) List(ctx context.Context, cutoff ledger.Cutoff, search string) []SaleView {
	data := s.store.Snapshot()
	needle := ledger.Normalize(search)

	views := make([]SaleView, 0, len(data.Sales))
	for _, sale := range data.Sales {
		if !cutoff.Visible(sale.Date) {
			continue
		}
		view := SaleView{
			SaleRecord: sale,
			Revenue:    sale.Quantity * sale.Price,
		}
		if product := data.ProductByID(sale.ProductID); product != nil {
			view.Code = product.Code
			view.Name = product.Name
			view.Unit = product.Unit
		}
		if batch := data.ImportByID(sale.ImportRecordID); batch != nil {
			view.UnitCost = batch.ImportPrice
			view.Cost = sale.Quantity * batch.ImportPrice
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

// BuildStats computes the dashboard for one cutoff window, optionally
// narrowed by a SKU search and an exact category name. Revenue, cost and
// profit cover sales inside the window; stock capital is the inventory value
// as of the window's end. A sale whose batch is gone contributes revenue but
// no cost.
func (s *Service) BuildStats(ctx context.Context, cutoff ledger.Cutoff, search, categoryFilter string) Stats {
	data := s.store.Snapshot()
	needle := ledger.Normalize(search)
	stats := Stats{
		Buckets:    []Bucket{},
		Categories: []CategorySales{},
		TopSellers: []TopSeller{},
		LowStock:   []LowStockItem{},
	}

	bucketIdx := map[string]int{}
	categoryIdx := map[string]int{}
	type sellerAgg struct {
		code, name string
		quantity   int64
		revenue    int64
	}
	sellers := map[string]*sellerAgg{}

	for _, sale := range data.Sales {
		if !cutoff.Visible(sale.Date) {
			continue
		}
		category := "unknown"
		code, name := "", ""
		if product := data.ProductByID(sale.ProductID); product != nil {
			if product.Category != "" {
				category = product.Category
			}
			code, name = product.Code, product.Name
		}
		if categoryFilter != "" && category != categoryFilter {
			continue
		}
		if needle != "" &&
			!strings.Contains(ledger.Normalize(code), needle) &&
			!strings.Contains(ledger.Normalize(name), needle) {
			continue
		}

		revenue := sale.Quantity * sale.Price
		var cost int64
		if batch := data.ImportByID(sale.ImportRecordID); batch != nil {
			cost = sale.Quantity * batch.ImportPrice
		}
		stats.Revenue += revenue
		stats.Cost += cost

		label := bucketLabel(cutoff, sale.Date)
		i, ok := bucketIdx[label]
		if !ok {
			i = len(stats.Buckets)
			bucketIdx[label] = i
			stats.Buckets = append(stats.Buckets, Bucket{Label: label})
		}
		stats.Buckets[i].Revenue += revenue
		stats.Buckets[i].Profit += revenue - cost

		j, ok := categoryIdx[category]
		if !ok {
			j = len(stats.Categories)
			categoryIdx[category] = j
			stats.Categories = append(stats.Categories, CategorySales{Name: category})
		}
		stats.Categories[j].Revenue += revenue

		if code != "" {
			agg, ok := sellers[code]
			if !ok {
				agg = &sellerAgg{code: code, name: name}
				sellers[code] = agg
			}
			agg.quantity += sale.Quantity
			agg.revenue += revenue
		}
	}
	stats.Profit = stats.Revenue - stats.Cost
	stats.StockCapital = ledger.BuildReport(data, cutoff, ledger.Filter{Search: search, Category: categoryFilter}).TotalValue

	for i := range stats.Categories {
		stats.Categories[i].Share = ledger.Share(stats.Categories[i].Revenue, stats.Revenue)
	}
	sort.SliceStable(stats.Categories, func(i, j int) bool {
		if stats.Categories[i].Revenue != stats.Categories[j].Revenue {
			return stats.Categories[i].Revenue > stats.Categories[j].Revenue
		}
		return stats.Categories[i].Name < stats.Categories[j].Name
	})
	sort.SliceStable(stats.Buckets, func(i, j int) bool {
		return stats.Buckets[i].Label < stats.Buckets[j].Label
	})

	for _, agg := range sellers {
		stats.TopSellers = append(stats.TopSellers, TopSeller{
			Code: agg.code, Name: agg.name, Quantity: agg.quantity, Revenue: agg.revenue,
		})
	}
	sort.SliceStable(stats.TopSellers, func(i, j int) bool {
		if stats.TopSellers[i].Quantity != stats.TopSellers[j].Quantity {
			return stats.TopSellers[i].Quantity > stats.TopSellers[j].Quantity
		}
		return stats.TopSellers[i].Revenue > stats.TopSellers[j].Revenue
	})
	if len(stats.TopSellers) > 5 {
		stats.TopSellers = stats.TopSellers[:5]
	}

	stats.LowStock = lowStockItems(data)
	return stats
}

// lowStockItems lists batches at or below the warning threshold, most
// depleted first. Exhausted batches are not warnings; they simply stop
// appearing in the sale picker.
func lowStockItems(data store.Data) []LowStockItem {
	items := []LowStockItem{}
	for _, batch := range data.Imports {
		status := ledger.Resolve(batch, data.Sales, ledger.All())
		if status.Remaining <= 0 || status.Remaining > ledger.LowStockThreshold {
			continue
		}
		item := LowStockItem{BatchID: batch.ID, Remaining: status.Remaining}
		if product := data.ProductByID(batch.ProductID); product != nil {
			item.Code = product.Code
			item.Name = product.Name
			item.Unit = product.Unit
		}
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Remaining != items[j].Remaining {
			return items[i].Remaining < items[j].Remaining
		}
		return items[i].Code < items[j].Code
	})
	return items
}

// bucketLabel picks the chart granularity from the cutoff span: hours inside
// one day, days inside a month or range, months otherwise. The labels sort
// lexicographically in chronological order.
func bucketLabel(cutoff ledger.Cutoff, t time.Time) string {
	t = t.UTC()
	switch cutoff.Kind {
	case ledger.CutoffDay:
		return fmt.Sprintf("%02d:00", t.Hour())
	case ledger.CutoffMonth, ledger.CutoffRange:
		return t.Format("2006-01-02")
	default:
		return t.Format("2006-01")
	}
}
