package constants

import "strings"

// AllowedImageMIMETypes holds the MIME types accepted for report uploads.
// One image = one professional's monthly sales report.
var AllowedImageMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/webp": {},
}

// MaxImageBytes is the ceiling for a single uploaded report image.
const MaxImageBytes = 10 * 1024 * 1024

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MIMEFromExt maps a file extension to the upload MIME type. Returns "" for
// extensions outside the allow-list.
func MIMEFromExt(ext string) string {
	switch NormalizeExt(ext) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	default:
		return ""
	}
}
