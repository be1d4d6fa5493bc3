// Package receiving records goods-receipt batches. Each batch carries its own
// purchase cost and becomes the unit of FIFO attribution for later sales.
package receiving

import (
	"time"

	"github.com/sokho/sokho/internal/store"
)

// ImportRequest creates or updates a receipt batch.
type ImportRequest struct {
	ProductID     string `json:"productId" validate:"required"`
	Quantity      int64  `json:"quantity" validate:"required,gt=0"`
	ImportPrice   int64  `json:"importPrice" validate:"gte=0"`
	SellingPrice  int64  `json:"sellingPrice" validate:"gte=0"`
	InvoiceNumber string `json:"invoiceNumber" validate:"max=60"`
	InvoiceImage  string `json:"invoiceImage" validate:"max=500000"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
}

// ImportView is a receipt batch joined with its SKU's display fields.
type ImportView struct {
	store.ImportRecord
	Code         string `json:"code"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Manufacturer string `json:"manufacturer"`
	Unit         string `json:"unit"`
}

// ListFilter narrows the receipt listing.
type ListFilter struct {
	Search string
	Year   int
}

// Suggestion is a SKU offered during receipt entry, pre-filled with the
// prices of its most recent batch.
type Suggestion struct {
	store.Product
	LastImportPrice  int64 `json:"lastImportPrice"`
	LastSellingPrice int64 `json:"lastSellingPrice"`
}

func parseDay(raw string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", raw, time.UTC)
}
