package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"

	"github.com/sculptbody/cierre-backend/internal/extract"
)

// Config for the terminal OpenAI fallback channel.
type Config struct {
	APIKey  string
	Model   string // e.g. "gpt-4o-mini"
	Timeout time.Duration
}

// Channel implements extract.Channel on the OpenAI Responses API. It sits
// last in the fallback list: a different provider for when every Gemini
// channel is down or over quota.
type Channel struct {
	client openai.Client
	model  shared.ResponsesModel
	logger *slog.Logger
}

func NewChannel(cfg Config, logger *slog.Logger) *Channel {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
	)
	return &Channel{client: client, model: shared.ResponsesModel(cfg.Model), logger: logger}
}

func (c *Channel) Name() string {
	return "openai/" + string(c.model)
}

func (c *Channel) AttemptExtract(ctx context.Context, img extract.Image) (*extract.Report, error) {
	dataURL := "data:" + img.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)

	resp, err := c.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: c.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(extract.ExtractionPrompt, responses.EasyInputMessageRoleSystem),
				responses.ResponseInputItemParamOfInputMessage(responses.ResponseInputMessageContentListParam{
					responses.ResponseInputContentParamOfInputText("Transcribe el reporte de ventas adjunto."),
					responses.ResponseInputContentUnionParam{
						OfInputImage: &responses.ResponseInputImageParam{
							Detail:   responses.ResponseInputImageDetailAuto,
							ImageURL: openai.String(dataURL),
						},
					},
				}, "user"),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name(), err)
	}

	output := strings.TrimSpace(resp.OutputText())
	if output == "" {
		return nil, errors.New(c.Name() + ": model returned an empty response")
	}
	return extract.ParseReport([]byte(output), c.logger)
}
