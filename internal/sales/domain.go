// Package sales issues stock against receipt batches and reports on the
// results: revenue, cost of goods, profit and low-stock warnings.
package sales

import (
	"github.com/sokho/sokho/internal/store"
)

// SaleRequest issues quantity from one batch. Price zero falls back to the
// batch's selling price; Date empty records the sale at the current time.
type SaleRequest struct {
	ImportRecordID string `json:"importRecordId" validate:"required"`
	Quantity       int64  `json:"quantity" validate:"required"`
	Price          int64  `json:"price" validate:"gte=0"`
	Date           string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// SaleResult is the recorded sale plus the post-sale stock position.
type SaleResult struct {
	Sale       store.SaleRecord `json:"sale"`
	Remaining  int64            `json:"remaining"`
	LowStock   bool             `json:"lowStock"`
	OutOfStock bool             `json:"outOfStock"`
}

// AvailableBatch is a sellable batch: positive remaining stock joined with
// the SKU display fields.
type AvailableBatch struct {
	BatchID      string `json:"batchId"`
	ProductID    string `json:"productId"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Manufacturer string `json:"manufacturer"`
	Unit         string `json:"unit"`
	Year         int    `json:"year"`
	Remaining    int64  `json:"remaining"`
	SellingPrice int64  `json:"sellingPrice"`
	LowStock     bool   `json:"lowStock"`
}

// SaleView is a sale joined with SKU and batch info for listings.
type SaleView struct {
	store.SaleRecord
	Code     string `json:"code"`
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	UnitCost int64  `json:"unitCost"`
	Revenue  int64  `json:"revenue"`
	Cost     int64  `json:"cost"`
}

// Bucket is one time slot in the revenue chart.
type Bucket struct {
	Label   string `json:"label"`
	Revenue int64  `json:"revenue"`
	Profit  int64  `json:"profit"`
}

// CategorySales is revenue attribution per category.
type CategorySales struct {
	Name    string `json:"name"`
	Revenue int64  `json:"revenue"`
	Share   int    `json:"share"`
}

// TopSeller is one entry of the best-sellers board.
type TopSeller struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Revenue  int64  `json:"revenue"`
}

// LowStockItem flags a batch at or below the warning threshold.
type LowStockItem struct {
	BatchID   string `json:"batchId"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Unit      string `json:"unit"`
	Remaining int64  `json:"remaining"`
}

// Stats is the period dashboard.
type Stats struct {
	Revenue      int64           `json:"revenue"`
	Cost         int64           `json:"cost"`
	Profit       int64           `json:"profit"`
	StockCapital int64           `json:"stockCapital"`
	Buckets      []Bucket        `json:"buckets"`
	Categories   []CategorySales `json:"categories"`
	TopSellers   []TopSeller     `json:"topSellers"`
	LowStock     []LowStockItem  `json:"lowStock"`
}
