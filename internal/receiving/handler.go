package receiving

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sokho/sokho/internal/platform/httpx"
)

// Handler manages goods-receipt endpoints.
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

// MountRoutes registers receiving routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/imports", h.list)
	r.Post("/imports", h.create)
	r.Put("/imports/{id}", h.update)
	r.Delete("/imports/{id}", h.delete)
	r.Get("/suggestions", h.suggest)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{Search: r.URL.Query().Get("search")}
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Query", "year must be numeric")
			return
		}
		filter.Year = year
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"imports": h.service.List(r.Context(), filter),
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	record, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create import failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, record)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.service.Update(r.Context(), id, req); err != nil {
		h.logger.Error("update import failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete import failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"suggestions": h.service.Suggest(r.Context(), r.URL.Query().Get("search")),
	})
}

func (h *Handler) decodeValid(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return false
	}
	if err := h.validate.Struct(target); err != nil {
		var detail string
		if fieldErrors, ok := err.(validator.ValidationErrors); ok && len(fieldErrors) > 0 {
			detail = fieldErrors[0].Error()
		} else {
			detail = err.Error()
		}
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", detail)
		return false
	}
	return true
}
