package repository

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"storefront_service/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newMock(t *testing.T) (sqlmock.Sqlmock, func() *postgresRepos) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return mock, func() *postgresRepos {
		log := quietLogger()
		return &postgresRepos{
			categories: NewPostgresCategoryRepository(db, log),
			products:   NewPostgresProductRepository(db, log),
			purchases:  NewPostgresPurchaseRepository(db, log),
			users:      NewPostgresUserRepository(db, log),
		}
	}
}

type postgresRepos struct {
	categories domain.CategoryRepository
	products   domain.ProductRepository
	purchases  domain.PurchaseRepository
	users      domain.UserRepository
}

func TestPostgresListCategoriesOrderedByName(t *testing.T) {
	mock, repos := newMock(t)
	rows := sqlmock.NewRows([]string{"id", "name", "slug", "description", "image_url", "icon"}).
		AddRow(2, "Brindes", "brindes", nil, nil, "gift").
		AddRow(1, "Decoração", "decoracao", "Vasos e enfeites", "http://img/1.png", "diamond")
	mock.ExpectQuery(regexp.QuoteMeta("FROM categories ORDER BY name ASC")).WillReturnRows(rows)

	categories, err := repos().categories.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Brindes", categories[0].Name)
	assert.Nil(t, categories[0].Description)
	require.NotNil(t, categories[1].ImageURL)
	assert.Equal(t, "http://img/1.png", *categories[1].ImageURL)
}

func TestPostgresCreateCategoryDuplicateSlug(t *testing.T) {
	mock, repos := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO categories")).
		WithArgs("Festas", "festas", nil, nil, "party-popper").
		WillReturnError(&pq.Error{Code: pqUniqueViolation})

	_, err := repos().categories.CreateCategory(context.Background(),
		&domain.Category{Name: "Festas", Slug: "festas", Icon: "party-popper"})
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestPostgresGetCategoryBySlugNotFound(t *testing.T) {
	mock, repos := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM categories WHERE slug = $1")).
		WithArgs("kits").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repos().categories.GetCategoryBySlug(context.Background(), "kits")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestPostgresDeleteCategory(t *testing.T) {
	t.Run("still referenced", func(t *testing.T) {
		mock, repos := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM categories")).
			WithArgs(4).
			WillReturnError(&pq.Error{Code: pqForeignKeyViolation})
		err := repos().categories.DeleteCategory(context.Background(), 4)
		assert.True(t, errors.Is(err, domain.ErrConflict))
	})
	t.Run("missing", func(t *testing.T) {
		mock, repos := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM categories")).
			WithArgs(4).
			WillReturnResult(sqlmock.NewResult(0, 0))
		err := repos().categories.DeleteCategory(context.Background(), 4)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestPostgresListProductsByCategory(t *testing.T) {
	mock, repos := newMock(t)
	rows := sqlmock.NewRows([]string{"id", "name", "description", "price", "image_url", "stock", "category_id", "merchandise"}).
		AddRow(5, "Engrenagem", nil, "129.90", nil, 4, 3, "peça").
		AddRow(6, "Polia", "aço", "49.00", nil, 0, 3, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE category_id = $1 ORDER BY name ASC")).
		WithArgs(3).
		WillReturnRows(rows)

	products, err := repos().products.ListProductsByCategory(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, products, 2)
	for _, p := range products {
		assert.Equal(t, 3, p.CategoryID)
	}
	assert.True(t, decimal.RequireFromString("129.9").Equal(products[0].Price))
	require.NotNil(t, products[0].Merchandise)
	assert.Nil(t, products[1].Merchandise)
}

func TestPostgresUpdateProductWritesEditableSet(t *testing.T) {
	mock, repos := newMock(t)
	desc := "nova"
	p := &domain.Product{ID: 5, Name: "Engrenagem", Description: &desc, Price: decimal.RequireFromString("10"), Stock: 2, CategoryID: 3}
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE products")).
		WithArgs("Engrenagem", "nova", p.Price, 2, nil, nil, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "price", "image_url", "stock", "category_id", "merchandise"}).
			AddRow(5, "Engrenagem", "nova", "10", nil, 2, 3, nil))

	updated, err := repos().products.UpdateProduct(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "nova", *updated.Description)
}

func TestPostgresCreateProductUnknownCategory(t *testing.T) {
	mock, repos := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products")).
		WillReturnError(&pq.Error{Code: pqForeignKeyViolation})

	_, err := repos().products.CreateProduct(context.Background(), &domain.Product{Name: "x", CategoryID: 99})
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Contains(t, err.Error(), "category with id 99 does not exist")
}

func TestPostgresListPurchasesWithStatus(t *testing.T) {
	mock, repos := newMock(t)
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "user_email", "total", "status", "download_available", "items", "created_at"}).
		AddRow(2, "ana@example.com", "129.90", "completed", true,
			`[{"product_id":5,"name":"Engrenagem","quantity":1,"price":"129.90"}]`, created)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_email = $1 AND status = $2 ORDER BY created_at DESC, id DESC")).
		WithArgs("ana@example.com", "completed").
		WillReturnRows(rows)

	purchases, err := repos().purchases.ListPurchasesByEmail(context.Background(), "ana@example.com", domain.StatusCompleted)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, "PED-002", purchases[0].Code)
	assert.Equal(t, domain.StatusCompleted, purchases[0].Status)
	require.Len(t, purchases[0].Items, 1)
	assert.Equal(t, "Engrenagem", purchases[0].Items[0].Name)
}

func TestPostgresCreateUserDuplicateEmail(t *testing.T) {
	mock, repos := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: pqUniqueViolation})

	_, err := repos().users.CreateUser(context.Background(), &domain.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "h"})
	assert.True(t, errors.Is(err, domain.ErrConflict))
}
