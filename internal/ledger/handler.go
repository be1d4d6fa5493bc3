package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/singleflight"

	"github.com/sokho/sokho/internal/observability"
	"github.com/sokho/sokho/internal/platform/httpx"
	"github.com/sokho/sokho/internal/store"
)

// Handler serves inventory valuation reports.
type Handler struct {
	logger  *slog.Logger
	store   *store.Store
	metrics *observability.Metrics
	group   singleflight.Group
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, st *store.Store, metrics *observability.Metrics) *Handler {
	return &Handler{logger: logger, store: st, metrics: metrics}
}

// MountRoutes registers inventory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/report", h.getReport)
	r.Get("/report.csv", h.exportReportCSV)
	r.Get("/manufacturers", h.listManufacturers)
}

func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	cutoff, filter, err := parseReportQuery(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Query", err.Error())
		return
	}

	report, err := h.buildReport(r.Context(), cutoff, filter)
	if err != nil {
		h.logger.Error("build report failed", "error", err)
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) exportReportCSV(w http.ResponseWriter, r *http.Request) {
	cutoff, filter, err := parseReportQuery(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Query", err.Error())
		return
	}

	report, err := h.buildReport(r.Context(), cutoff, filter)
	if err != nil {
		h.logger.Error("build report failed", "error", err)
		httpx.RespondError(w, err)
		return
	}

	filename := "inventory-" + time.Now().UTC().Format("20060102-150405") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := WriteReportCSV(w, report); err != nil {
		h.logger.Error("write report csv failed", "error", err)
	}
}

func (h *Handler) listManufacturers(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	data := h.store.Snapshot()
	httpx.JSON(w, http.StatusOK, map[string]any{
		"manufacturers": ManufacturerOptions(data, category),
	})
}

// buildReport deduplicates identical in-flight report computations. The key
// includes the store version, so a write invalidates every pending key.
func (h *Handler) buildReport(ctx context.Context, cutoff Cutoff, filter Filter) (Report, error) {
	key := fmt.Sprintf("%d|%d|%s|%s|%s|%d|%d|%s|%s",
		h.store.Version(), cutoff.Kind,
		cutoff.Day.Format(time.RFC3339), cutoff.Start.Format(time.RFC3339), cutoff.End.Format(time.RFC3339),
		cutoff.Year, cutoff.Month,
		filter.Search+"|"+filter.Category, filter.Manufacturer)

	resultChan := h.group.DoChan(key, func() (any, error) {
		start := time.Now()
		report := BuildReport(h.store.Snapshot(), cutoff, filter)
		h.metrics.ObserveReportBuild(time.Since(start))
		return report, nil
	})
	select {
	case <-ctx.Done():
		return Report{}, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return Report{}, res.Err
		}
		return res.Val.(Report), nil
	}
}

func parseReportQuery(r *http.Request) (Cutoff, Filter, error) {
	q := r.URL.Query()
	filter := Filter{
		Search:       q.Get("search"),
		Category:     q.Get("category"),
		Manufacturer: q.Get("manufacturer"),
	}

	cutoff, err := ParseCutoff(q)
	if err != nil {
		return Cutoff{}, Filter{}, err
	}
	return cutoff, filter, nil
}

// ParseCutoff reads the cutoff selection from query parameters: cutoff=all|
// day|month|year|range plus date, month, year, start and end as applicable.
func ParseCutoff(q url.Values) (Cutoff, error) {
	get := q.Get

	switch kind := q.Get("cutoff"); kind {
	case "", "all":
		return All(), nil
	case "day":
		day, err := time.ParseInLocation("2006-01-02", get("date"), time.UTC)
		if err != nil {
			return Cutoff{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", get("date"))
		}
		return Day(day), nil
	case "month":
		m, err := time.ParseInLocation("2006-01", get("month"), time.UTC)
		if err != nil {
			return Cutoff{}, fmt.Errorf("invalid month %q, want YYYY-MM", get("month"))
		}
		return Month(m.Year(), m.Month()), nil
	case "year":
		year, err := strconv.Atoi(get("year"))
		if err != nil || year <= 0 {
			return Cutoff{}, fmt.Errorf("invalid year %q", get("year"))
		}
		return Year(year), nil
	case "range":
		var start, end time.Time
		if raw := get("start"); raw != "" {
			parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
			if err != nil {
				return Cutoff{}, fmt.Errorf("invalid start %q, want YYYY-MM-DD", raw)
			}
			start = parsed
		}
		if raw := get("end"); raw != "" {
			parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
			if err != nil {
				return Cutoff{}, fmt.Errorf("invalid end %q, want YYYY-MM-DD", raw)
			}
			end = parsed
		}
		if !start.IsZero() && !end.IsZero() && end.Before(start) {
			return Cutoff{}, fmt.Errorf("range end %s precedes start %s", get("end"), get("start"))
		}
		return Range(start, end), nil
	default:
		return Cutoff{}, fmt.Errorf("unknown cutoff kind %q", kind)
	}
}
