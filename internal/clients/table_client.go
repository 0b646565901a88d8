package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront_service/internal/domain"

	"github.com/sirupsen/logrus"
)

// APIError is a non-2xx answer from the hosted data service.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("data service returned status %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("data service returned status %d: %s", e.Status, e.Message)
}

// Unwrap classifies the failure into the domain sentinels.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusNotFound, e.Code == "PGRST116":
		return domain.ErrNotFound
	case e.Status == http.StatusConflict, e.Code == "23505":
		return domain.ErrConflict
	case e.Code == "23503", e.Code == "23514", e.Code == "22P02", e.Status == http.StatusBadRequest:
		return domain.ErrValidation
	case e.Status == http.StatusUnauthorized, e.Status == http.StatusForbidden:
		return domain.ErrUnauthorized
	}
	return nil
}

// TableClient talks to the table API of the hosted data service
// (<base>/rest/v1/<table>).
type TableClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *logrus.Logger
}

func NewTableClient(baseURL, apiKey string, timeout time.Duration, logger *logrus.Logger) *TableClient {
	return &TableClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
		log: logger,
	}
}

// Query is built fluently: From(t).Select("*").Eq("category_id", 3).Order("name").
type Query struct {
	c       *TableClient
	table   string
	method  string
	columns string
	filters url.Values
	order   []string
	body    interface{}
}

func (c *TableClient) From(table string) *Query {
	return &Query{
		c:       c,
		table:   table,
		method:  http.MethodGet,
		columns: "*",
		filters: url.Values{},
	}
}

func (q *Query) Select(columns string) *Query {
	q.method = http.MethodGet
	q.columns = columns
	return q
}

func (q *Query) Insert(row interface{}) *Query {
	q.method = http.MethodPost
	q.body = row
	return q
}

func (q *Query) Update(fields interface{}) *Query {
	q.method = http.MethodPatch
	q.body = fields
	return q
}

func (q *Query) Delete() *Query {
	q.method = http.MethodDelete
	return q
}

func (q *Query) Eq(column string, value interface{}) *Query {
	q.filters.Add(column, "eq."+fmt.Sprint(value))
	return q
}

// Order sorts ascending by column; OrderDesc sorts descending.
func (q *Query) Order(column string) *Query {
	q.order = append(q.order, column+".asc")
	return q
}

func (q *Query) OrderDesc(column string) *Query {
	q.order = append(q.order, column+".desc")
	return q
}

func (q *Query) URL() string {
	params := url.Values{}
	for k, v := range q.filters {
		params[k] = v
	}
	params.Set("select", q.columns)
	if len(q.order) > 0 {
		params.Set("order", strings.Join(q.order, ","))
	}
	return fmt.Sprintf("%s/rest/v1/%s?%s", q.c.baseURL, q.table, params.Encode())
}

// Execute runs the query and decodes the JSON answer into out (may be nil).
// Updates and deletes must carry at least one filter.
func (q *Query) Execute(ctx context.Context, out interface{}) error {
	c := q.c
	if (q.method == http.MethodPatch || q.method == http.MethodDelete) && len(q.filters) == 0 {
		return fmt.Errorf("refusing unfiltered %s on table %s: %w", q.method, q.table, domain.ErrValidation)
	}

	var body io.Reader
	if q.body != nil {
		payload, err := json.Marshal(q.body)
		if err != nil {
			c.log.Errorf("TableClient: Failed to marshal %s body for table %s: %v", q.method, q.table, err)
			return fmt.Errorf("failed to prepare data service request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	target := q.URL()
	req, err := http.NewRequestWithContext(ctx, q.method, target, body)
	if err != nil {
		c.log.Errorf("TableClient: Failed to create %s request for %s: %v", q.method, target, err)
		return fmt.Errorf("failed to create data service request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if q.method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	c.log.Debugf("TableClient: %s %s", q.method, target)
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("TableClient: %s %s failed: %v", q.method, q.table, err)
		return fmt.Errorf("failed to communicate with data service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeAPIError(resp)
		c.log.Warnf("TableClient: %s %s returned status %d: %s", q.method, q.table, resp.StatusCode, apiErr.Message)
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		c.log.Errorf("TableClient: Failed to decode %s %s response: %v", q.method, q.table, err)
		return fmt.Errorf("failed to decode data service response: %w", err)
	}
	return nil
}

func (c *TableClient) authorize(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
