package sales

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sokho/sokho/internal/ledger"
	"github.com/sokho/sokho/internal/platform/httpx"
)

// Handler manages sales endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

// MountRoutes registers sales routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/available", h.listAvailable)
	r.Get("/", h.list)
	r.Post("/", h.record)
	r.Delete("/{id}", h.delete)
	r.Get("/stats", h.stats)
	r.Get("/export.csv", h.exportCSV)
}

func (h *Handler) listAvailable(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"batches": h.service.ListAvailable(r.Context(), r.URL.Query().Get("search")),
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	cutoff, err := ledger.ParseCutoff(r.URL.Query())
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Query", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"sales": h.service.List(r.Context(), cutoff, r.URL.Query().Get("search")),
	})
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	var req SaleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var detail string
		if fieldErrors, ok := err.(validator.ValidationErrors); ok && len(fieldErrors) > 0 {
			detail = fieldErrors[0].Error()
		} else {
			detail = err.Error()
		}
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", detail)
		return
	}

	result, err := h.service.Record(r.Context(), req)
	if err != nil {
		h.logger.Error("record sale failed", "error", err, "batch", req.ImportRecordID)
		h.respondAdmissionError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, result)
}

// respondAdmissionError maps the stock admission sentinels before falling
// through to the shared error responder.
func (h *Handler) respondAdmissionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidQuantity):
		httpx.Problem(w, http.StatusBadRequest, "Invalid Quantity", err.Error())
	case errors.Is(err, ledger.ErrInsufficientStock):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Insufficient Stock", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete sale failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	cutoff, err := ledger.ParseCutoff(r.URL.Query())
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Query", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, h.service.BuildStats(r.Context(), cutoff, r.URL.Query().Get("search"), r.URL.Query().Get("category")))
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	cutoff, err := ledger.ParseCutoff(r.URL.Query())
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Query", err.Error())
		return
	}
	views := h.service.List(r.Context(), cutoff, r.URL.Query().Get("search"))

	filename := "sales-" + time.Now().UTC().Format("20060102-150405") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := WriteSalesCSV(w, views); err != nil {
		h.logger.Error("write sales csv failed", "error", err)
	}
}
