package masterdata

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sokho/sokho/internal/platform/httpx"
)

// Handler manages master-data endpoints.
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

// MountRoutes registers master-data routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.listCategories)
		r.Post("/", h.createCategory)
		r.Put("/{id}", h.renameCategory)
		r.Delete("/{id}", h.deleteCategory)
	})
	r.Route("/units", func(r chi.Router) {
		r.Get("/", h.listUnits)
		r.Post("/", h.createUnit)
		r.Put("/{id}", h.renameUnit)
		r.Delete("/{id}", h.deleteUnit)
	})
	r.Route("/manufacturers", func(r chi.Router) {
		r.Get("/", h.listManufacturers)
		r.Post("/", h.createManufacturer)
		r.Put("/{id}", h.renameManufacturer)
		r.Delete("/{id}", h.deleteManufacturer)
	})
	r.Route("/templates", func(r chi.Router) {
		r.Get("/", h.listTemplates)
		r.Post("/", h.createTemplate)
		r.Put("/{id}", h.updateTemplate)
		r.Delete("/{id}", h.deleteTemplate)
	})
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Post("/", h.createProduct)
		r.Put("/{id}", h.updateProduct)
		r.Delete("/{id}", h.deleteProduct)
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

// ---------------------------------------------------------------------------
// Categories

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"categories": h.service.ListCategories(r.Context()),
	})
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	category, err := h.service.CreateCategory(r.Context(), req)
	if err != nil {
		h.logger.Error("create category failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, category)
}

func (h *Handler) renameCategory(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.service.RenameCategory(r.Context(), id, req); err != nil {
		h.logger.Error("rename category failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		h.logger.Error("delete category failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

// ---------------------------------------------------------------------------
// Units

func (h *Handler) listUnits(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"units": h.service.ListUnits(r.Context()),
	})
}

func (h *Handler) createUnit(w http.ResponseWriter, r *http.Request) {
	var req CreateUnitRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	unit, err := h.service.CreateUnit(r.Context(), req)
	if err != nil {
		h.logger.Error("create unit failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, unit)
}

func (h *Handler) renameUnit(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.service.RenameUnit(r.Context(), id, req); err != nil {
		h.logger.Error("rename unit failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) deleteUnit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteUnit(r.Context(), id); err != nil {
		h.logger.Error("delete unit failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

// ---------------------------------------------------------------------------
// Manufacturers

func (h *Handler) listManufacturers(w http.ResponseWriter, r *http.Request) {
	categoryID := r.URL.Query().Get("category_id")
	httpx.JSON(w, http.StatusOK, map[string]any{
		"manufacturers": h.service.ListManufacturers(r.Context(), categoryID),
	})
}

func (h *Handler) createManufacturer(w http.ResponseWriter, r *http.Request) {
	var req CreateManufacturerRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	manufacturer, err := h.service.CreateManufacturer(r.Context(), req)
	if err != nil {
		h.logger.Error("create manufacturer failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, manufacturer)
}

func (h *Handler) renameManufacturer(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.service.RenameManufacturer(r.Context(), id, req); err != nil {
		h.logger.Error("rename manufacturer failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) deleteManufacturer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteManufacturer(r.Context(), id); err != nil {
		h.logger.Error("delete manufacturer failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

// ---------------------------------------------------------------------------
// Product templates

func (h *Handler) listTemplates(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"templates": h.service.ListTemplates(r.Context()),
	})
}

func (h *Handler) createTemplate(w http.ResponseWriter, r *http.Request) {
	var req TemplateRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	template, err := h.service.CreateTemplate(r.Context(), req)
	if err != nil {
		h.logger.Error("create template failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, template)
}

func (h *Handler) updateTemplate(w http.ResponseWriter, r *http.Request) {
	var req TemplateRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.service.UpdateTemplate(r.Context(), id, req); err != nil {
		h.logger.Error("update template failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteTemplate(r.Context(), id); err != nil {
		h.logger.Error("delete template failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

// ---------------------------------------------------------------------------
// Products

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	httpx.JSON(w, http.StatusOK, map[string]any{
		"products": h.service.ListProducts(r.Context(), search),
	})
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	product, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		h.logger.Error("create product failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.service.UpdateProduct(r.Context(), id, req); err != nil {
		h.logger.Error("update product failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		h.logger.Error("delete product failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}
