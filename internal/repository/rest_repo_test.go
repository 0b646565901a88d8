package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront_service/internal/clients"
	"storefront_service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTableClient(t *testing.T, h http.HandlerFunc) *clients.TableClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return clients.NewTableClient(srv.URL, "anon-key", time.Second, quietLogger())
}

func TestRESTListCategoriesOrderedByName(t *testing.T) {
	tables := newTableClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/categories", r.URL.Path)
		assert.Equal(t, "name.asc", r.URL.Query().Get("order"))
		_, _ = io.WriteString(w, `[{"id":2,"name":"Brindes","slug":"brindes","icon":"gift"},{"id":1,"name":"Decoração","slug":"decoracao","icon":"diamond"}]`)
	})

	categories, err := NewRESTCategoryRepository(tables, quietLogger()).ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Brindes", categories[0].Name)
}

func TestRESTUpdateCategorySendsEditableFields(t *testing.T) {
	tables := newTableClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.7", r.URL.Query().Get("id"))
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body, 4)
		assert.Contains(t, body, "image_url")
		assert.NotContains(t, body, "slug")
		_, _ = io.WriteString(w, `[{"id":7,"name":"Festas","slug":"festas","icon":"party-popper"}]`)
	})

	updated, err := NewRESTCategoryRepository(tables, quietLogger()).UpdateCategory(context.Background(),
		&domain.Category{ID: 7, Name: "Festas", Icon: "party-popper"})
	require.NoError(t, err)
	assert.Equal(t, "festas", updated.Slug)
}

func TestRESTDeleteProductMissingRow(t *testing.T) {
	tables := newTableClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "eq.9", r.URL.Query().Get("id"))
		_, _ = io.WriteString(w, `[]`)
	})

	err := NewRESTProductRepository(tables, quietLogger()).DeleteProduct(context.Background(), 9)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRESTListProductsByCategory(t *testing.T) {
	tables := newTableClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.3", r.URL.Query().Get("category_id"))
		assert.Equal(t, "name.asc", r.URL.Query().Get("order"))
		_, _ = io.WriteString(w, `[{"id":5,"name":"Engrenagem","price":"129.90","stock":4,"category_id":3}]`)
	})

	products, err := NewRESTProductRepository(tables, quietLogger()).ListProductsByCategory(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 3, products[0].CategoryID)
}

func TestRESTCreateCategoryConflict(t *testing.T) {
	tables := newTableClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"code":"23505","message":"duplicate key value violates unique constraint"}`)
	})

	_, err := NewRESTCategoryRepository(tables, quietLogger()).CreateCategory(context.Background(),
		&domain.Category{Name: "Kits", Slug: "kits", Icon: "boxes"})
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestRESTPurchasesFilterAndCodes(t *testing.T) {
	tables := newTableClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "eq.ana@example.com", q.Get("user_email"))
		assert.Equal(t, "eq.processing", q.Get("status"))
		assert.Equal(t, "created_at.desc,id.desc", q.Get("order"))
		_, _ = io.WriteString(w, `[{"id":3,"user_email":"ana@example.com","items":[],"total":"10","status":"processing","download_available":false,"created_at":"2024-03-01T10:00:00.123456+00:00"}]`)
	})

	purchases, err := NewRESTPurchaseRepository(tables, quietLogger()).
		ListPurchasesByEmail(context.Background(), "ana@example.com", domain.StatusProcessing)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, "PED-003", purchases[0].Code)
}

func TestRESTUserKeepsPasswordHash(t *testing.T) {
	tables := newTableClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.ana@example.com", r.URL.Query().Get("email"))
		_, _ = io.WriteString(w, `[{"id":1,"name":"Ana","email":"ana@example.com","password_hash":"$2a$hash"}]`)
	})

	user, err := NewRESTUserRepository(tables, quietLogger()).GetUserByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "$2a$hash", user.PasswordHash)
}
