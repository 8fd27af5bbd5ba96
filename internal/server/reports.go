package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sculptbody/cierre-backend/internal/common"
	"github.com/sculptbody/cierre-backend/internal/export"
	"github.com/sculptbody/cierre-backend/internal/ingest"
	"github.com/sculptbody/cierre-backend/internal/stats"
)

type monthQuery struct {
	Month string `validate:"omitempty,len=7,datetime=2006-01"`
}

func (h *Handler) monthParam(r *http.Request) (string, error) {
	q := monthQuery{Month: r.URL.Query().Get("month")}
	if err := h.validate.Struct(q); err != nil {
		return "", common.NewAppError("INVALID_MONTH",
			fmt.Sprintf("invalid month %q, expected YYYY-MM", q.Month),
			common.ErrInvalidInput)
	}
	return q.Month, nil
}

func (h *Handler) handleListBranches(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.branches.ListOrFallback(r.Context()))
}

func (h *Handler) handleListReports(w http.ResponseWriter, r *http.Request) {
	month, err := h.monthParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	reports, err := ingest.ListReports(r.Context(), h.reports, h.cache, month, h.logger)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// handleDeleteReport removes a hosted report, or a cached demo one when the
// id is not in the store.
func (h *Handler) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, common.NewAppError("MISSING_ID", "report id is required", common.ErrInvalidInput))
		return
	}

	err := h.reports.Delete(r.Context(), id)
	if err != nil {
		if cacheErr := ingest.DeleteLocal(r.Context(), h.cache, id); cacheErr == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, err)
			return
		}
		// store unreachable and not in cache either
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	month, err := h.monthParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	reports, err := ingest.ListReports(r.Context(), h.reports, h.cache, month, h.logger)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats.Compute(reports))
}

func (h *Handler) handleExportTXT(w http.ResponseWriter, r *http.Request) {
	month, err := h.monthParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	reports, err := ingest.ListReports(r.Context(), h.reports, h.cache, month, h.logger)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "cierre_"+month+".txt"))
	_, _ = w.Write([]byte(export.RenderTXT(month, reports)))
}

func (h *Handler) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	month, err := h.monthParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	reports, err := ingest.ListReports(r.Context(), h.reports, h.cache, month, h.logger)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := export.RenderXLSX(month, reports, h.logger)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "cierre_"+month+".xlsx"))
	_, _ = w.Write(data)
}

func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	out, err := h.reconciler.Run(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
