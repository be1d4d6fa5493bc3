package ledger

import (
	"github.com/sokho/sokho/internal/store"
)

// Admission reports the stock position a granted issue would leave behind.
type Admission struct {
	Remaining  int64
	LowStock   bool
	OutOfStock bool
}

// Admit validates a proposed issue of quantity units against the batch's
// live remainder. It is the authoritative last-line guard: listings filter
// exhausted batches upstream, but only Admit decides. It does not persist
// anything; the caller appends the sale record on success.
func Admit(batch store.ImportRecord, sales []store.SaleRecord, quantity int64) (Admission, error) {
	if quantity <= 0 {
		return Admission{}, ErrInvalidQuantity
	}
	status := Resolve(batch, sales, All())
	if quantity > status.Remaining {
		return Admission{}, ErrInsufficientStock
	}
	remaining := status.Remaining - quantity
	return Admission{
		Remaining:  remaining,
		LowStock:   remaining <= LowStockThreshold,
		OutOfStock: remaining == 0,
	}, nil
}
