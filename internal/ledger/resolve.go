package ledger

import (
	"github.com/sokho/sokho/internal/store"
)

// BatchStatus is the resolved stock position of one receipt batch as of a
// cutoff. Remaining is not clamped; a negative value is a data-integrity
// signal the caller decides how to surface.
type BatchStatus struct {
	Batch     store.ImportRecord
	Issued    int64
	Remaining int64
	Value     int64
}

// Resolve computes the cumulative issued quantity and remainder for batch
// against the sale history, counting issues dated at or before the cutoff
// snapshot instant. Valuation always uses the batch acquisition cost.
func Resolve(batch store.ImportRecord, sales []store.SaleRecord, cutoff Cutoff) BatchStatus {
	asOf := cutoff.AsOf()
	var issued int64
	for _, sale := range sales {
		if sale.ImportRecordID != batch.ID {
			continue
		}
		if sale.Date.After(asOf) {
			continue
		}
		issued += sale.Quantity
	}
	remaining := batch.Quantity - issued
	return BatchStatus{
		Batch:     batch,
		Issued:    issued,
		Remaining: remaining,
		Value:     remaining * batch.ImportPrice,
	}
}
