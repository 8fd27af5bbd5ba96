package ingest

import (
	"fmt"
	"path/filepath"

	"github.com/sculptbody/cierre-backend/constants"
	"github.com/sculptbody/cierre-backend/internal/common"
	"github.com/sculptbody/cierre-backend/internal/extract"
)

// ValidateImage rejects unsupported formats and oversized files before any
// extraction work is spent on them.
func ValidateImage(img extract.Image) error {
	mime := img.MIMEType
	if mime == "" {
		mime = constants.MIMEFromExt(filepath.Ext(img.FileName))
	}
	if _, ok := constants.AllowedImageMIMETypes[mime]; !ok {
		return common.NewAppError("UNSUPPORTED_FORMAT",
			fmt.Sprintf("formato no soportado: %s (usar JPG, PNG o WebP)", mime),
			common.ErrValidation)
	}
	if len(img.Data) == 0 {
		return common.NewAppError("EMPTY_FILE",
			fmt.Sprintf("archivo vacío: %s", img.FileName),
			common.ErrValidation)
	}
	if len(img.Data) > constants.MaxImageBytes {
		return common.NewAppError("FILE_TOO_LARGE",
			fmt.Sprintf("archivo demasiado grande: %s (%d bytes, máximo %d)",
				img.FileName, len(img.Data), constants.MaxImageBytes),
			common.ErrValidation)
	}
	return nil
}

// ValidateBatch checks every image up front. A single bad file blocks the
// whole batch so the operator fixes the folder instead of getting a partial
// month saved.
func ValidateBatch(images []extract.Image) error {
	for _, img := range images {
		if err := ValidateImage(img); err != nil {
			return err
		}
	}
	return nil
}
