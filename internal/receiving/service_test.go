package receiving

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sokho/sokho/internal/platform/httpx"
	"github.com/sokho/sokho/internal/store"
)

func fixtureService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	data := store.Data{
		Products: []store.Product{
			{ID: "sku-1", Code: "SW-PANA-01", Name: "Wall switch", Category: "Electrical", Manufacturer: "Panasonic", Unit: "piece"},
			{ID: "sku-2", Code: "PPR-25-TP", Name: "PPR pipe", Category: "Plumbing", Manufacturer: "Tien Phong", Unit: "meter"},
		},
		Imports: []store.ImportRecord{
			{ID: "b-1", ProductID: "sku-1", Quantity: 50, ImportPrice: 10000, SellingPrice: 15000, Year: 2023,
				Date: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)},
			{ID: "b-2", ProductID: "sku-1", Quantity: 30, ImportPrice: 12000, SellingPrice: 16000, Year: 2024,
				Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		},
		Sales: []store.SaleRecord{
			{ID: "s-1", ProductID: "sku-1", ImportRecordID: "b-1", Quantity: 40, Price: 15000,
				Date: time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
	st := store.New(data, 0, nil)
	return NewService(st), st
}

func TestCreateDerivesYearFromDate(t *testing.T) {
	svc, st := fixtureService(t)

	record, err := svc.Create(context.Background(), ImportRequest{
		ProductID:    "sku-2",
		Quantity:     100,
		ImportPrice:  50000,
		SellingPrice: 65000,
		Date:         "2024-03-15",
	})
	require.NoError(t, err)
	require.Equal(t, 2024, record.Year)
	require.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), record.Date)
	require.Len(t, st.Snapshot().Imports, 3)
}

func TestCreateRejectsUnknownProduct(t *testing.T) {
	svc, _ := fixtureService(t)

	_, err := svc.Create(context.Background(), ImportRequest{
		ProductID: "nope", Quantity: 1, Date: "2024-03-15",
	})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestListJoinsAndFilters(t *testing.T) {
	svc, _ := fixtureService(t)

	views := svc.List(context.Background(), ListFilter{})
	require.Len(t, views, 2)
	// Newest first.
	require.Equal(t, "b-2", views[0].ID)
	require.Equal(t, "SW-PANA-01", views[0].Code)
	require.Equal(t, "Wall switch", views[0].Name)

	views = svc.List(context.Background(), ListFilter{Year: 2023})
	require.Len(t, views, 1)
	require.Equal(t, "b-1", views[0].ID)

	require.Empty(t, svc.List(context.Background(), ListFilter{Search: "pipe"}))
}

func TestDeleteRemovesDependentSales(t *testing.T) {
	svc, st := fixtureService(t)

	require.NoError(t, svc.Delete(context.Background(), "b-1"))

	data := st.Snapshot()
	require.Len(t, data.Imports, 1)
	require.Empty(t, data.Sales)
}

func TestUpdateRewritesBatch(t *testing.T) {
	svc, st := fixtureService(t)

	err := svc.Update(context.Background(), "b-2", ImportRequest{
		ProductID:    "sku-1",
		Quantity:     35,
		ImportPrice:  11500,
		SellingPrice: 16000,
		Date:         "2024-01-12",
	})
	require.NoError(t, err)

	record := st.Snapshot().ImportByID("b-2")
	require.NotNil(t, record)
	require.EqualValues(t, 35, record.Quantity)
	require.EqualValues(t, 11500, record.ImportPrice)
}

func TestSuggestPrefillsLatestPrices(t *testing.T) {
	svc, _ := fixtureService(t)

	suggestions := svc.Suggest(context.Background(), "switch")
	require.Len(t, suggestions, 1)
	require.EqualValues(t, 12000, suggestions[0].LastImportPrice)
	require.EqualValues(t, 16000, suggestions[0].LastSellingPrice)

	// SKU without batches suggests zero prices.
	suggestions = svc.Suggest(context.Background(), "ppr")
	require.Len(t, suggestions, 1)
	require.Zero(t, suggestions[0].LastImportPrice)
}
