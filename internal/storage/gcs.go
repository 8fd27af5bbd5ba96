package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gstorage "cloud.google.com/go/storage"

	"github.com/sculptbody/cierre-backend/internal/common"
)

type Config struct {
	Bucket    string
	KeyPrefix string
	Timeout   time.Duration
}

// GCSStore uploads report images to a public Google Cloud Storage bucket.
type GCSStore struct {
	client *gstorage.Client
	cfg    Config
	logger *slog.Logger
}

func NewGCSStore(ctx context.Context, cfg Config, logger *slog.Logger) (*GCSStore, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "reportes"
	}
	if logger == nil {
		logger = slog.Default()
	}
	client, err := gstorage.NewClient(ctx)
	if err != nil {
		return nil, common.NewAppError("STORAGE_INIT", err.Error(), common.ErrInternal)
	}
	return &GCSStore{client: client, cfg: cfg, logger: logger}, nil
}

func (s *GCSStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	objectKey := fmt.Sprintf("%s/%s", s.cfg.KeyPrefix, key)
	start := time.Now()
	s.logger.Info("storage.upload.start", "bucket", s.cfg.Bucket, "key", objectKey, "bytes", len(data))

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	w := s.client.Bucket(s.cfg.Bucket).Object(objectKey).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		s.logger.Error("storage.upload.failed", "key", objectKey, "error", err)
		return "", common.NewAppError("STORAGE_UPLOAD", err.Error(), common.ErrStore)
	}
	if err := w.Close(); err != nil {
		s.logger.Error("storage.upload.failed", "key", objectKey, "error", err)
		return "", common.NewAppError("STORAGE_UPLOAD", err.Error(), common.ErrStore)
	}

	url := fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.cfg.Bucket, objectKey)
	s.logger.Info("storage.upload.done", "key", objectKey, "elapsed_ms", time.Since(start).Milliseconds())
	return url, nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

// ObjectKey builds a collision-resistant key for an uploaded report image.
func ObjectKey(fileName string) string {
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), fileName)
}
