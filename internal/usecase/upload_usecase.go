package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"storefront_service/internal/clients"
	"storefront_service/internal/domain"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
)

const (
	MaxImageSize = 5 << 20 // 5 MiB
	sniffLen     = 3072

	imageCacheControl = "3600"
)

// File is an image handed over for upload.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type ImageUploader interface {
	// Upload stores the image under folder (may be empty) and returns its public URL.
	Upload(ctx context.Context, file File, folder string) (string, error)
}

type imageUploader struct {
	storage clients.ObjectStorage
	bucket  string
	now     func() time.Time
	log     *logrus.Logger
}

func NewImageUploader(storage clients.ObjectStorage, bucket string, logger *logrus.Logger) ImageUploader {
	return &imageUploader{
		storage: storage,
		bucket:  bucket,
		now:     time.Now,
		log:     logger,
	}
}

func (u *imageUploader) Upload(ctx context.Context, file File, folder string) (string, error) {
	if file.Body == nil {
		return "", fmt.Errorf("no file selected: %w", domain.ErrValidation)
	}

	sniffed := strings.TrimSpace(file.ContentType) == ""
	file, err := DetectContentType(file)
	if err != nil {
		return "", err
	}
	contentType := file.ContentType
	if sniffed {
		u.log.Debugf("Use Case: Sniffed content type %s for %s", contentType, file.Name)
	}

	if !strings.HasPrefix(contentType, "image/") {
		u.log.Warnf("Use Case: Rejected upload of %s with type %s", file.Name, contentType)
		return "", fmt.Errorf("file must be an image, got %s: %w", contentType, domain.ErrValidation)
	}
	if file.Size > MaxImageSize {
		u.log.Warnf("Use Case: Rejected upload of %s (%d bytes)", file.Name, file.Size)
		return "", fmt.Errorf("image must be at most 5MB, got %d bytes: %w", file.Size, domain.ErrValidation)
	}

	// Size is caller-reported; the body itself must not exceed the limit either.
	data, err := io.ReadAll(io.LimitReader(file.Body, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("could not read file: %w", err)
	}
	if len(data) > MaxImageSize {
		u.log.Warnf("Use Case: Rejected upload of %s, body exceeds %d bytes", file.Name, MaxImageSize)
		return "", fmt.Errorf("image must be at most 5MB: %w", domain.ErrValidation)
	}

	objectPath := u.objectName(file.Name, contentType)
	if folder = strings.Trim(folder, "/"); folder != "" {
		objectPath = folder + "/" + objectPath
	}

	stored, err := u.storage.Upload(ctx, u.bucket, objectPath,
		bytes.NewReader(data), contentType,
		clients.UploadOptions{CacheControl: imageCacheControl, Upsert: false})
	if err != nil {
		u.log.Errorf("Use Case: Storage failed to upload %s: %v", objectPath, err)
		return "", fmt.Errorf("could not upload image: %w", err)
	}

	publicURL := u.storage.PublicURL(u.bucket, stored)
	u.log.Infof("Use Case: Image %s uploaded, public URL %s", stored, publicURL)
	return publicURL, nil
}

// DetectContentType lowercases file.ContentType and, when it is empty, sniffs
// it from the first bytes of the body. The returned file reads the full body.
func DetectContentType(file File) (File, error) {
	file.ContentType = strings.ToLower(strings.TrimSpace(file.ContentType))
	if file.ContentType != "" || file.Body == nil {
		return file, nil
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file.Body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return file, fmt.Errorf("could not read file: %w", err)
	}
	head = head[:n]
	file.ContentType = mimetype.Detect(head).String()
	file.Body = io.MultiReader(bytes.NewReader(head), file.Body)
	return file, nil
}

// objectName is <unix-millis>.<ext>, the extension taken from the original name.
func (u *imageUploader) objectName(name, contentType string) string {
	ext := strings.TrimPrefix(path.Ext(name), ".")
	if ext == "" {
		if mt := mimetype.Lookup(contentType); mt != nil {
			ext = strings.TrimPrefix(mt.Extension(), ".")
		}
	}
	millis := strconv.FormatInt(u.now().UnixMilli(), 10)
	if ext == "" {
		return millis
	}
	return millis + "." + strings.ToLower(ext)
}
