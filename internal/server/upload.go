package server

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/sculptbody/cierre-backend/constants"
	"github.com/sculptbody/cierre-backend/internal/batch"
	"github.com/sculptbody/cierre-backend/internal/common"
	"github.com/sculptbody/cierre-backend/internal/entity"
	"github.com/sculptbody/cierre-backend/internal/extract"
	"github.com/sculptbody/cierre-backend/internal/ingest"
)

type uploadForm struct {
	BranchID string `validate:"required"`
	Month    string `validate:"required,len=7,datetime=2006-01"`
}

type uploadResponse struct {
	Results []batch.ItemResult   `json:"results"`
	Summary batch.Summary        `json:"summary"`
	Reports []entity.SalesReport `json:"reportes"`
}

// handleBatchUpload accepts a multipart batch of report photos for one branch
// and month, extracts each sequentially and persists the successes. A single
// invalid file rejects the whole batch up front.
func (h *Handler) handleBatchUpload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		writeError(w, common.NewAppError("BAD_MULTIPART", err.Error(), common.ErrInvalidInput))
		return
	}

	form := uploadForm{
		BranchID: r.FormValue("sucursal_id"),
		Month:    r.FormValue("mes"),
	}
	if err := h.validate.Struct(form); err != nil {
		writeError(w, common.NewAppError("INVALID_FORM",
			"sucursal_id and mes (YYYY-MM) are required", common.ErrInvalidInput))
		return
	}

	branch, err := h.resolveBranch(r, form.BranchID)
	if err != nil {
		writeError(w, err)
		return
	}

	files := r.MultipartForm.File["imagenes"]
	if len(files) == 0 {
		writeError(w, common.NewAppError("NO_FILES", "no files in field 'imagenes'", common.ErrInvalidInput))
		return
	}

	images := make([]extract.Image, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			writeError(w, common.NewAppError("FILE_OPEN", err.Error(), common.ErrInvalidInput))
			return
		}
		// read one byte past the cap so validation can flag oversize files
		data, err := io.ReadAll(io.LimitReader(f, int64(constants.MaxImageBytes)+1))
		_ = f.Close()
		if err != nil {
			writeError(w, common.NewAppError("FILE_READ", err.Error(), common.ErrInvalidInput))
			return
		}
		// browsers and multipart writers often send octet-stream
		mime := fh.Header.Get("Content-Type")
		if mime == "" || mime == "application/octet-stream" {
			mime = constants.MIMEFromExt(filepath.Ext(fh.Filename))
		}
		images = append(images, extract.Image{
			FileName: fh.Filename,
			MIMEType: mime,
			Data:     data,
		})
	}

	if err := ingest.ValidateBatch(images); err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("upload.batch.start",
		"branch", branch.Name,
		"month", form.Month,
		"files", len(images))

	result := h.orchestrator.ProcessAll(r.Context(), images, func(p batch.Progress) {
		h.logger.Info("upload.batch.progress",
			"current", p.Current, "total", p.Total, "file", p.FileName)
	})

	resp := uploadResponse{
		Results: result.Items,
		Summary: result.Summary,
		Reports: []entity.SalesReport{},
	}
	for i := range result.Items {
		item := &result.Items[i]
		if !item.Success || item.Report == nil {
			continue
		}
		rep, err := h.router.Persist(r.Context(), item.Report, images[i], branch, form.Month)
		if err != nil {
			h.logger.Error("upload.persist.failed", "file", item.FileName, "error", err)
			item.Success = false
			item.Error = err.Error()
			resp.Summary.Success--
			resp.Summary.Failed++
			continue
		}
		resp.Reports = append(resp.Reports, *rep)
	}

	h.logger.Info("upload.batch.done",
		"branch", branch.Name,
		"saved", len(resp.Reports),
		"failed", resp.Summary.Failed,
		"elapsed_ms", time.Since(start).Milliseconds())
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) resolveBranch(r *http.Request, id string) (entity.Branch, error) {
	for _, b := range h.branches.ListOrFallback(r.Context()) {
		if b.ID == id {
			return b, nil
		}
	}
	return entity.Branch{}, common.NewAppError("UNKNOWN_BRANCH",
		fmt.Sprintf("unknown branch id %q", id), common.ErrNotFound)
}
