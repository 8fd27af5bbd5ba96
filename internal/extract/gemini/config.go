package gemini

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sculptbody/cierre-backend/internal/extract"
)

// Config for the Gemini generateContent client.
type Config struct {
	APIKey  string        // required
	BaseURL string        // default https://generativelanguage.googleapis.com
	Timeout time.Duration // per-request http timeout
}

// ChannelSpec is one (model id, API version) pair. Different quota tiers and
// regions expose the same model under different API versions, so the pair is
// the unit of fallback, not the model alone.
type ChannelSpec struct {
	Model      string
	APIVersion string
}

// ParseChannelSpecs parses a comma-separated "model@version" list. A missing
// version defaults to v1beta.
func ParseChannelSpecs(s string) []ChannelSpec {
	var specs []ChannelSpec
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		model, version, found := strings.Cut(part, "@")
		if !found || version == "" {
			version = "v1beta"
		}
		specs = append(specs, ChannelSpec{Model: strings.TrimSpace(model), APIVersion: strings.TrimSpace(version)})
	}
	return specs
}

// NewChannels builds one extract.Channel per spec, sharing a single HTTP
// client.
func NewChannels(cfg Config, specs []ChannelSpec, logger *slog.Logger) []extract.Channel {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	hc := &http.Client{Timeout: cfg.Timeout}

	channels := make([]extract.Channel, 0, len(specs))
	for _, spec := range specs {
		channels = append(channels, &Channel{
			spec:   spec,
			cfg:    cfg,
			http:   hc,
			logger: logger,
		})
	}
	return channels
}
