package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"storefront_service/internal/domain"
	"storefront_service/internal/usecase"

	"github.com/sirupsen/logrus"
)

// ResponseError is a "Fail" envelope answered by the storefront API.
type ResponseError struct {
	Status  int
	Message string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("storefront API returned status %d: %s", e.Status, e.Message)
}

func (e *ResponseError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return domain.ErrValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrUnauthorized
	}
	return nil
}

type envelope struct {
	Status  string          `json:"Status"`
	Message string          `json:"Message"`
	Data    json.RawMessage `json:"Data"`
}

// Client talks to the storefront HTTP API with a bearer token. It backs the
// admin CLI and satisfies console.CatalogAPI.
type Client struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		log: logger,
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	var session domain.Session
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/login", body, &session); err != nil {
		return nil, err
	}
	c.SetToken(session.Token)
	return &session, nil
}

func (c *Client) ListPurchases(ctx context.Context, status string) ([]domain.Purchase, error) {
	path := "/compras"
	if status != "" {
		path += "?" + url.Values{"status": {status}}.Encode()
	}
	var purchases []domain.Purchase
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &purchases); err != nil {
		return nil, err
	}
	return purchases, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.doJSON(ctx, http.MethodGet, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	var created domain.Category
	if err := c.doJSON(ctx, http.MethodPost, "/admin/categories", category, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	var updated domain.Category
	path := "/admin/categories/" + strconv.Itoa(category.ID)
	if err := c.doJSON(ctx, http.MethodPut, path, category, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListProducts lists every product when categoryID is 0.
func (c *Client) ListProducts(ctx context.Context, categoryID int) ([]domain.Product, error) {
	path := "/products"
	if categoryID != 0 {
		path += "?category_id=" + strconv.Itoa(categoryID)
	}
	var products []domain.Product
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	var created domain.Product
	if err := c.doJSON(ctx, http.MethodPost, "/admin/products", product, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	var updated domain.Product
	path := "/admin/products/" + strconv.Itoa(product.ID)
	if err := c.doJSON(ctx, http.MethodPut, path, product, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, "/admin/products/"+strconv.Itoa(id), nil, nil)
}

func (c *Client) UploadImage(ctx context.Context, file usecase.File, folder string) (string, error) {
	if file.Body == nil {
		return "", fmt.Errorf("no file selected: %w", domain.ErrValidation)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	if file.ContentType != "" {
		h.Set("Content-Type", file.ContentType)
	}
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("failed to prepare upload: %w", err)
	}
	if _, err := io.Copy(part, file.Body); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", file.Name, err)
	}
	if err := mw.WriteField("folder", folder); err != nil {
		return "", fmt.Errorf("failed to prepare upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to prepare upload: %w", err)
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/admin/uploads", &buf, mw.FormDataContentType(), &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			c.log.Errorf("StorefrontClient: Failed to marshal %s %s body: %v", method, path, err)
			return fmt.Errorf("failed to prepare storefront request: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		c.log.Errorf("StorefrontClient: Failed to create %s request for %s: %v", method, path, err)
		return fmt.Errorf("failed to create storefront request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.Debugf("StorefrontClient: %s %s", method, path)
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("StorefrontClient: %s %s failed: %v", method, path, err)
		return fmt.Errorf("failed to communicate with storefront API: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, 8<<20)).Decode(&env); err != nil && err != io.EOF {
		c.log.Errorf("StorefrontClient: Failed to decode %s %s response: %v", method, path, err)
		return fmt.Errorf("failed to decode storefront response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || env.Status == "Fail" {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		c.log.Warnf("StorefrontClient: %s %s returned status %d: %s", method, path, resp.StatusCode, msg)
		return &ResponseError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode storefront data: %w", err)
	}
	return nil
}
