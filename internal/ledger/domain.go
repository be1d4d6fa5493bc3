package ledger

import "errors"

// LowStockThreshold flags batches for a replenishment warning. Not a
// rejection condition; out of stock is specifically a zero remainder.
const LowStockThreshold = 20

// ErrInsufficientStock indicates a requested issue exceeds the batch remainder.
var ErrInsufficientStock = errors.New("ledger: requested quantity exceeds remaining stock")

// ErrInvalidQuantity indicates a non-positive requested quantity.
var ErrInvalidQuantity = errors.New("ledger: quantity must be positive")

// Filter narrows report rows. Search matches case-insensitively as a
// substring of SKU code or product name; Category and Manufacturer are
// exact matches against denormalized names. Empty fields impose nothing.
type Filter struct {
	Search       string
	Category     string
	Manufacturer string
}

// BatchRow is one receipt batch annotated with its resolved stock figures,
// the FIFO-traceable detail view.
type BatchRow struct {
	BatchID      string `json:"batchId"`
	ProductID    string `json:"productId"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Manufacturer string `json:"manufacturer"`
	Unit         string `json:"unit"`
	Year         int    `json:"year"`
	Opening      int64  `json:"opening"`
	Issued       int64  `json:"issued"`
	Remaining    int64  `json:"remaining"`
	UnitCost     int64  `json:"unitCost"`
	Value        int64  `json:"value"`
}

// CategoryRollup sums remaining stock per category.
type CategoryRollup struct {
	Name     string `json:"name"`
	Batches  int    `json:"batches"`
	Quantity int64  `json:"quantity"`
	Value    int64  `json:"value"`
	Share    int    `json:"share"`
}

// ProductRollup merges batches of the same named product from the same
// manufacturer across receipt years.
type ProductRollup struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	Manufacturer string `json:"manufacturer"`
	Unit         string `json:"unit"`
	Quantity     int64  `json:"quantity"`
	Value        int64  `json:"value"`
}

// Report is the full inventory valuation as of a cutoff. The three views
// reflect the same filter; a batch excluded from one is excluded from all.
type Report struct {
	Batches    []BatchRow       `json:"batches"`
	Categories []CategoryRollup `json:"categories"`
	Products   []ProductRollup  `json:"products"`

	TotalQuantity int64 `json:"totalQuantity"`
	TotalValue    int64 `json:"totalValue"`

	// NegativeBatches counts historically oversold batches excluded from the
	// views above; MissingProducts counts batches whose SKU no longer
	// resolves. Both are diagnostics, never failures.
	NegativeBatches int `json:"negativeBatches"`
	MissingProducts int `json:"missingProducts"`
}

// unknownLabel stands in for joined fields whose master record is gone.
const unknownLabel = "unknown"
