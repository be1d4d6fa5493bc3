package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sokho/sokho/internal/store"
)

func fixtureData() store.Data {
	return store.Data{
		Categories: []store.Category{
			{ID: "c-el", Name: "Electrical"},
			{ID: "c-pl", Name: "Plumbing"},
		},
		Manufacturers: []store.Manufacturer{
			{ID: "m-pana", Name: "Panasonic", CategoryID: "c-el"},
			{ID: "m-sino", Name: "Sino", CategoryID: "c-el"},
			{ID: "m-tp", Name: "Tien Phong", CategoryID: "c-pl"},
		},
		Products: []store.Product{
			{ID: "p-sw", Code: "SW-PANA-01", Name: "Wall switch", Category: "Electrical", Manufacturer: "Panasonic", Unit: "pcs"},
			{ID: "p-pipe", Code: "PPR-25-TP", Name: "PPR pipe 25", Category: "Plumbing", Manufacturer: "Tien Phong", Unit: "m"},
		},
		Imports: []store.ImportRecord{
			{ID: "b-sw-23", ProductID: "p-sw", Quantity: 50, ImportPrice: 10000, SellingPrice: 15000, Year: 2023, Date: date(2023, time.May, 2)},
			{ID: "b-sw-24", ProductID: "p-sw", Quantity: 30, ImportPrice: 12000, SellingPrice: 16000, Year: 2024, Date: date(2024, time.January, 10)},
			{ID: "b-pipe-24", ProductID: "p-pipe", Quantity: 100, ImportPrice: 50000, SellingPrice: 65000, Year: 2024, Date: date(2024, time.January, 15)},
		},
		Sales: []store.SaleRecord{
			{ID: "s-1", ProductID: "p-sw", ImportRecordID: "b-sw-23", Quantity: 40, Price: 15000, Date: date(2024, time.February, 1)},
		},
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
}

func TestValuationFormula(t *testing.T) {
	batch := store.ImportRecord{ID: "b", Quantity: 100, ImportPrice: 50000, Date: date(2024, time.January, 1)}
	status := Resolve(batch, nil, All())
	require.Equal(t, int64(0), status.Issued)
	require.Equal(t, int64(100), status.Remaining)
	require.Equal(t, int64(5_000_000), status.Value)
}

func TestConservation(t *testing.T) {
	data := fixtureData()
	for _, batch := range data.Imports {
		status := Resolve(batch, data.Sales, All())
		require.Equal(t, batch.Quantity, status.Remaining+status.Issued, "batch %s", batch.ID)
	}
}

func TestFIFOAcrossTwoBatches(t *testing.T) {
	data := fixtureData()
	report := BuildReport(data, All(), Filter{Search: "wall switch"})

	require.Len(t, report.Batches, 2)
	byBatch := map[string]BatchRow{}
	for _, row := range report.Batches {
		byBatch[row.BatchID] = row
	}
	require.Equal(t, int64(10), byBatch["b-sw-23"].Remaining)
	require.Equal(t, int64(100_000), byBatch["b-sw-23"].Value)
	require.Equal(t, int64(30), byBatch["b-sw-24"].Remaining)
	require.Equal(t, int64(360_000), byBatch["b-sw-24"].Value)

	require.Len(t, report.Products, 1)
	require.Equal(t, int64(40), report.Products[0].Quantity)
	require.Equal(t, int64(460_000), report.Products[0].Value)
}

func TestCutoffExcludesLaterBatches(t *testing.T) {
	data := store.Data{
		Products: []store.Product{{ID: "p", Code: "X", Name: "x"}},
		Imports: []store.ImportRecord{
			{ID: "b", ProductID: "p", Quantity: 10, ImportPrice: 100, Date: date(2024, time.March, 1)},
		},
	}
	report := BuildReport(data, Day(date(2024, time.February, 1)), Filter{})
	require.Empty(t, report.Batches)
	require.Zero(t, report.TotalValue)
}

func TestCutoffMonotonicity(t *testing.T) {
	data := fixtureData()
	batch := data.Imports[0] // b-sw-23, sold against in Feb 2024
	cutoffs := []Cutoff{
		Year(2023),
		Month(2024, time.January),
		Month(2024, time.February),
		All(),
	}
	prev := int64(-1)
	for i, c := range cutoffs {
		status := Resolve(batch, data.Sales, c)
		if i > 0 {
			require.LessOrEqual(t, status.Remaining, prev, "remaining may only decrease as the cutoff advances")
		}
		prev = status.Remaining
	}
	require.Equal(t, int64(50), Resolve(batch, data.Sales, Year(2023)).Remaining)
	require.Equal(t, int64(10), Resolve(batch, data.Sales, All()).Remaining)
}

func TestAggregationConsistency(t *testing.T) {
	data := fixtureData()
	for _, filter := range []Filter{{}, {Category: "Electrical"}, {Search: "ppr"}} {
		report := BuildReport(data, All(), filter)
		var batchTotal, categoryTotal, productTotal int64
		for _, row := range report.Batches {
			batchTotal += row.Value
		}
		for _, c := range report.Categories {
			categoryTotal += c.Value
		}
		for _, p := range report.Products {
			productTotal += p.Value
		}
		require.Equal(t, batchTotal, categoryTotal)
		require.Equal(t, batchTotal, productTotal)
		require.Equal(t, batchTotal, report.TotalValue)
	}
}

func TestShareRounding(t *testing.T) {
	data := store.Data{
		Products: []store.Product{
			{ID: "p1", Code: "A", Name: "a", Category: "Electrical"},
			{ID: "p2", Code: "B", Name: "b", Category: "Plumbing"},
		},
		Imports: []store.ImportRecord{
			{ID: "b1", ProductID: "p1", Quantity: 10, ImportPrice: 1000, Date: date(2024, time.January, 1)},
			{ID: "b2", ProductID: "p2", Quantity: 10, ImportPrice: 1000, Date: date(2024, time.January, 1)},
		},
	}
	report := BuildReport(data, All(), Filter{})
	require.Len(t, report.Categories, 2)
	require.Equal(t, 50, report.Categories[0].Share)
	require.Equal(t, 50, report.Categories[1].Share)

	// zero total must not fault
	zero := store.Data{
		Products: []store.Product{{ID: "p1", Code: "A", Name: "a", Category: "Electrical"}},
		Imports: []store.ImportRecord{
			{ID: "b1", ProductID: "p1", Quantity: 10, ImportPrice: 0, Date: date(2024, time.January, 1)},
		},
	}
	report = BuildReport(zero, All(), Filter{})
	require.Equal(t, 0, report.Categories[0].Share)
}

func TestNegativeRemainderExcludedButCounted(t *testing.T) {
	data := store.Data{
		Products: []store.Product{{ID: "p", Code: "X", Name: "x", Category: "Electrical"}},
		Imports: []store.ImportRecord{
			{ID: "b", ProductID: "p", Quantity: 5, ImportPrice: 100, Date: date(2024, time.January, 1)},
		},
		Sales: []store.SaleRecord{
			// oversold via a manual edit that bypassed admission
			{ID: "s", ProductID: "p", ImportRecordID: "b", Quantity: 9, Date: date(2024, time.February, 1)},
		},
	}
	report := BuildReport(data, All(), Filter{})
	require.Empty(t, report.Batches)
	require.Equal(t, 1, report.NegativeBatches)
}

func TestMissingProductDegradesRow(t *testing.T) {
	data := store.Data{
		Imports: []store.ImportRecord{
			{ID: "b", ProductID: "gone", Quantity: 3, ImportPrice: 100, Date: date(2024, time.January, 1)},
		},
	}
	report := BuildReport(data, All(), Filter{})
	require.Len(t, report.Batches, 1)
	require.Empty(t, report.Batches[0].Name)
	require.Equal(t, 1, report.MissingProducts)
	require.Equal(t, "unknown", report.Categories[0].Name)

	// a broken link cannot satisfy a positive filter
	report = BuildReport(data, All(), Filter{Category: "Electrical"})
	require.Empty(t, report.Batches)
}

func TestSearchMatchesCodeOrNameCaseInsensitive(t *testing.T) {
	data := fixtureData()

	report := BuildReport(data, All(), Filter{Search: "ppr-25"})
	require.Len(t, report.Batches, 1)
	require.Equal(t, "PPR-25-TP", report.Batches[0].Code)

	report = BuildReport(data, All(), Filter{Search: "SWITCH"})
	require.Len(t, report.Batches, 2)

	report = BuildReport(data, All(), Filter{Search: "no such item"})
	require.Empty(t, report.Batches)
}

func TestManufacturerOptionsConstrainedByCategory(t *testing.T) {
	data := fixtureData()
	require.Equal(t, []string{"Panasonic", "Sino", "Tien Phong"}, ManufacturerOptions(data, ""))
	require.Equal(t, []string{"Panasonic", "Sino"}, ManufacturerOptions(data, "Electrical"))
	require.Equal(t, []string{"Tien Phong"}, ManufacturerOptions(data, "Plumbing"))
	require.Empty(t, ManufacturerOptions(data, "Nonexistent"))
}
