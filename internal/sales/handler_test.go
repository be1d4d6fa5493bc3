package sales

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func postSale(t *testing.T, r chi.Router, req SaleRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sales/", bytes.NewReader(body)))
	return rec
}

func TestRecordEndpointMapsStockErrors(t *testing.T) {
	svc, _ := fixtureService(t)
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
	r := chi.NewRouter()
	r.Route("/sales", h.MountRoutes)

	// b-sw has 10 units left after the seeded sale.
	rec := postSale(t, r, SaleRequest{ImportRecordID: "b-sw", Quantity: 60})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = postSale(t, r, SaleRequest{ImportRecordID: "b-sw", Quantity: -1})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postSale(t, r, SaleRequest{ImportRecordID: "b-missing", Quantity: 1})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = postSale(t, r, SaleRequest{ImportRecordID: "b-sw", Quantity: 5})
	require.Equal(t, http.StatusCreated, rec.Code)
}
