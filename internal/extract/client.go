package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sculptbody/cierre-backend/internal/common"
)

// Client implements Extractor by iterating an ordered channel list: first
// success wins, failures are collected and never surfaced to the caller
// unless every channel is exhausted.
type Client struct {
	channels []Channel
	logger   *slog.Logger
}

func NewClient(channels []Channel, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{channels: channels, logger: logger}
}

func (c *Client) Extract(ctx context.Context, img Image) (*Report, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("extract.start",
		"req_id", rid,
		"file", img.FileName,
		"bytes", len(img.Data),
		"channels", len(c.channels),
	)

	var lastErr error
	for _, ch := range c.channels {
		rep, err := ch.AttemptExtract(ctx, img)
		if err != nil {
			c.logger.Warn("extract.channel.failed",
				"req_id", rid,
				"channel", ch.Name(),
				"error", err,
			)
			lastErr = err
			continue
		}
		c.logger.Info("extract.ok",
			"req_id", rid,
			"channel", ch.Name(),
			"professional", rep.ProfessionalName,
			"total", rep.TotalSales,
			"services", len(rep.Services),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return rep, nil
	}

	msg := "no extraction channels configured"
	if lastErr != nil {
		msg = lastErr.Error()
	}
	c.logger.Error("extract.exhausted",
		"req_id", rid,
		"file", img.FileName,
		"error", msg,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil, common.NewAppError("EXTRACTION_EXHAUSTED", msg, common.ErrExtraction)
}
