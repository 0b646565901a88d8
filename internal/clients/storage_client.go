package clients

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type UploadOptions struct {
	CacheControl string // seconds, e.g. "3600"
	Upsert       bool
}

// ObjectStorage is the bucket API images are uploaded to.
type ObjectStorage interface {
	Upload(ctx context.Context, bucket, path string, body io.Reader, contentType string, opts UploadOptions) (string, error)
	PublicURL(bucket, path string) string
}

type storageHTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *logrus.Logger
}

func NewStorageHTTPClient(baseURL, apiKey string, timeout time.Duration, logger *logrus.Logger) ObjectStorage {
	return &storageHTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
		log: logger,
	}
}

func (c *storageHTTPClient) Upload(ctx context.Context, bucket, path string, body io.Reader, contentType string, opts UploadOptions) (string, error) {
	target := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, url.PathEscape(bucket), escapePath(path))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, body)
	if err != nil {
		c.log.Errorf("StorageClient: Failed to create upload request for %s/%s: %v", bucket, path, err)
		return "", fmt.Errorf("failed to create storage request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)
	if opts.CacheControl != "" {
		req.Header.Set("cache-control", "max-age="+opts.CacheControl)
	}
	req.Header.Set("x-upsert", strconv.FormatBool(opts.Upsert))

	c.log.Infof("StorageClient: Uploading object %s to bucket %s", path, bucket)
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("StorageClient: Upload of %s/%s failed: %v", bucket, path, err)
		return "", fmt.Errorf("failed to communicate with storage service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeAPIError(resp)
		c.log.Warnf("StorageClient: Upload of %s/%s returned status %d: %s", bucket, path, resp.StatusCode, apiErr.Message)
		return "", apiErr
	}

	c.log.Infof("StorageClient: Object %s uploaded to bucket %s", path, bucket)
	return path, nil
}

func (c *storageHTTPClient) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, url.PathEscape(bucket), escapePath(path))
}

func escapePath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
