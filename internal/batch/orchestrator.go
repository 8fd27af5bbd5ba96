package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/sculptbody/cierre-backend/internal/extract"
)

// Progress is reported synchronously before each item so a caller can render
// a progress bar.
type Progress struct {
	Current  int    `json:"current"`
	Total    int    `json:"total"`
	FileName string `json:"fileName"`
}

// ItemResult is the per-file outcome. Exactly one of Report/Error is set.
type ItemResult struct {
	FileName string          `json:"fileName"`
	Success  bool            `json:"success"`
	Report   *extract.Report `json:"data,omitempty"`
	Error    string          `json:"error,omitempty"`
}

type Summary struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

type Result struct {
	Items   []ItemResult `json:"results"`
	Summary Summary      `json:"summary"`
}

// Orchestrator drives the extraction client over a set of images. Strictly
// sequential: the inter-call delay exists to respect the provider's rate
// limit, so it must stay even where parallelism would be possible.
type Orchestrator struct {
	extractor extract.Extractor
	delay     time.Duration
	logger    *slog.Logger
}

func NewOrchestrator(extractor extract.Extractor, delay time.Duration, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{extractor: extractor, delay: delay, logger: logger}
}

// ProcessAll runs extraction over every image in input order. A single item's
// failure never aborts the batch; it becomes a result-list entry. Results are
// appended strictly in input order and summary.Success+Failed == Total.
func (o *Orchestrator) ProcessAll(ctx context.Context, images []extract.Image, onProgress func(Progress)) Result {
	res := Result{
		Items:   make([]ItemResult, 0, len(images)),
		Summary: Summary{Total: len(images)},
	}

	for i, img := range images {
		if onProgress != nil {
			onProgress(Progress{Current: i + 1, Total: len(images), FileName: img.FileName})
		}

		rep, err := o.extractor.Extract(ctx, img)
		if err != nil {
			o.logger.Warn("batch.item.failed", "file", img.FileName, "error", err)
			res.Items = append(res.Items, ItemResult{FileName: img.FileName, Error: err.Error()})
			res.Summary.Failed++
		} else {
			o.logger.Info("batch.item.ok", "file", img.FileName, "professional", rep.ProfessionalName)
			res.Items = append(res.Items, ItemResult{FileName: img.FileName, Success: true, Report: rep})
			res.Summary.Success++
		}

		// Pause between calls to stay under the provider quota; pointless
		// after the last item.
		if i < len(images)-1 {
			o.sleep(ctx)
		}
	}

	o.logger.Info("batch.done",
		"total", res.Summary.Total,
		"success", res.Summary.Success,
		"failed", res.Summary.Failed,
	)
	return res
}

func (o *Orchestrator) sleep(ctx context.Context) {
	if o.delay <= 0 {
		return
	}
	t := time.NewTimer(o.delay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
