// Package storage uploads report photographs and hands back public URLs.
package storage

import "context"

// ObjectStore persists raw image bytes under a key and returns a public URL.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (publicURL string, err error)
}
