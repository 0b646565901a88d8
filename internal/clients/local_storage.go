package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"storefront_service/internal/domain"

	"github.com/sirupsen/logrus"
)

// localStorage keeps objects under <root>/<bucket>/<path>; the HTTP server
// exposes them under <publicBaseURL>/media/.
type localStorage struct {
	root          string
	publicBaseURL string
	log           *logrus.Logger
}

func NewLocalStorage(root, publicBaseURL string, logger *logrus.Logger) ObjectStorage {
	return &localStorage{
		root:          root,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		log:           logger,
	}
}

func (s *localStorage) Upload(ctx context.Context, bucket, path string, body io.Reader, contentType string, opts UploadOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	target, err := s.resolve(bucket, path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		s.log.Errorf("LocalStorage: Failed to create directory for %s: %v", target, err)
		return "", fmt.Errorf("could not prepare storage directory: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !opts.Upsert {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(target, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			s.log.Warnf("LocalStorage: Object %s/%s already exists", bucket, path)
			return "", fmt.Errorf("object '%s' %w", path, domain.ErrConflict)
		}
		s.log.Errorf("LocalStorage: Failed to open %s: %v", target, err)
		return "", fmt.Errorf("could not store object: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		s.log.Errorf("LocalStorage: Failed to write %s: %v", target, err)
		return "", fmt.Errorf("could not store object: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("could not finalise object: %w", err)
	}

	s.log.Infof("LocalStorage: Stored %s (%s) in bucket %s", path, contentType, bucket)
	return path, nil
}

func (s *localStorage) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/media/%s/%s", s.publicBaseURL, bucket, escapePath(path))
}

func (s *localStorage) resolve(bucket, path string) (string, error) {
	base := filepath.Join(s.root, filepath.Clean("/"+bucket))
	target := filepath.Join(base, filepath.Clean("/"+path))
	if target == base || !strings.HasPrefix(target, base+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid object path '%s': %w", path, domain.ErrValidation)
	}
	return target, nil
}
