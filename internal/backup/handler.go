package backup

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sokho/sokho/internal/platform/httpx"
)

// maxArchiveSize caps restore uploads; invoice images inflate the payload.
const maxArchiveSize = 256 << 20

// Handler manages backup endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers backup routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.download)
	r.Post("/restore", h.restore)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	filename := "sokho-backup-" + time.Now().UTC().Format("20060102-150405") + ".zip"
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := h.service.Write(w); err != nil {
		h.logger.Error("write backup failed", "error", err)
	}
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxArchiveSize)
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		httpx.Problem(w, http.StatusRequestEntityTooLarge, "Archive Too Large", err.Error())
		return
	}
	if err := h.service.Restore(r.Context(), bytes.NewReader(raw), int64(len(raw))); err != nil {
		h.logger.Error("restore backup failed", "error", err)
		httpx.Problem(w, http.StatusBadRequest, "Restore Failed", err.Error())
		return
	}
	httpx.NoContent(w)
}
