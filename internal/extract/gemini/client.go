package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sculptbody/cierre-backend/internal/extract"
)

// Channel implements extract.Channel against one Gemini model+version pair
// using the raw generateContent REST endpoint.
type Channel struct {
	spec   ChannelSpec
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func (c *Channel) Name() string {
	return c.spec.Model + "@" + c.spec.APIVersion
}

// AttemptExtract sends the fixed instruction prompt plus the inline image and
// parses the textual response. Transport and quota failures surface as errors
// so the fallback loop can advance to the next channel.
func (c *Channel) AttemptExtract(ctx context.Context, img extract.Image) (*extract.Report, error) {
	body := map[string]any{
		"contents": []map[string]any{{
			"parts": []map[string]any{
				{"text": extract.ExtractionPrompt},
				{"inline_data": map[string]any{
					"mime_type": img.MIMEType,
					"data":      base64.StdEncoding.EncodeToString(img.Data),
				}},
			},
		}},
	}

	url := fmt.Sprintf("%s/%s/models/%s:generateContent",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.spec.APIVersion, c.spec.Model)
	headers := map[string]string{"x-goog-api-key": c.cfg.APIKey}

	raw, _, err := extract.SendJSON(ctx, c.http, url, body, headers, c.logger)
	if err != nil {
		return nil, fmt.Errorf("gemini %s: %w", c.Name(), err)
	}

	var gr struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &gr); err != nil {
		return nil, fmt.Errorf("gemini %s: decode response: %w", c.Name(), err)
	}
	if len(gr.Candidates) == 0 {
		return nil, fmt.Errorf("gemini %s: no candidates in response", c.Name())
	}

	var sb strings.Builder
	for _, part := range gr.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return nil, fmt.Errorf("gemini %s: empty candidate text", c.Name())
	}

	return extract.ParseReport([]byte(text), c.logger)
}
