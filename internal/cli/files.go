package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"storefront_service/internal/usecase"

	"github.com/gabriel-vasile/mimetype"
)

// flagName maps an editable field to its flag, e.g. image_url -> image-url.
func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

// openImage opens path for upload, detecting its content type from the bytes.
func openImage(path string) (usecase.File, func(), error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return usecase.File{}, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return usecase.File{}, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return usecase.File{}, nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return usecase.File{
		Name:        filepath.Base(path),
		ContentType: mtype.String(),
		Size:        info.Size(),
		Body:        f,
	}, func() { f.Close() }, nil
}
