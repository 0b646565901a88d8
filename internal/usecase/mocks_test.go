package usecase

import (
	"context"
	"io"

	"storefront_service/internal/clients"
	"storefront_service/internal/domain"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type mockCategoryRepo struct{ mock.Mock }

func (m *mockCategoryRepo) CreateCategory(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(*domain.Category)
	return out, args.Error(1)
}

func (m *mockCategoryRepo) GetCategoryByID(ctx context.Context, id int) (*domain.Category, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*domain.Category)
	return out, args.Error(1)
}

func (m *mockCategoryRepo) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	args := m.Called(ctx, slug)
	out, _ := args.Get(0).(*domain.Category)
	return out, args.Error(1)
}

func (m *mockCategoryRepo) UpdateCategory(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(*domain.Category)
	return out, args.Error(1)
}

func (m *mockCategoryRepo) DeleteCategory(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCategoryRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]domain.Category)
	return out, args.Error(1)
}

type mockProductRepo struct{ mock.Mock }

func (m *mockProductRepo) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(*domain.Product)
	return out, args.Error(1)
}

func (m *mockProductRepo) GetProductByID(ctx context.Context, id int) (*domain.Product, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*domain.Product)
	return out, args.Error(1)
}

func (m *mockProductRepo) UpdateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(*domain.Product)
	return out, args.Error(1)
}

func (m *mockProductRepo) UpdateStock(ctx context.Context, id int, stock int) error {
	return m.Called(ctx, id, stock).Error(0)
}

func (m *mockProductRepo) DeleteProduct(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProductRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]domain.Product)
	return out, args.Error(1)
}

func (m *mockProductRepo) ListProductsByCategory(ctx context.Context, categoryID int) ([]domain.Product, error) {
	args := m.Called(ctx, categoryID)
	out, _ := args.Get(0).([]domain.Product)
	return out, args.Error(1)
}

type mockPurchaseRepo struct{ mock.Mock }

func (m *mockPurchaseRepo) CreatePurchase(ctx context.Context, p *domain.Purchase) (*domain.Purchase, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(*domain.Purchase)
	return out, args.Error(1)
}

func (m *mockPurchaseRepo) GetPurchaseByID(ctx context.Context, id int) (*domain.Purchase, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*domain.Purchase)
	return out, args.Error(1)
}

func (m *mockPurchaseRepo) UpdatePurchaseStatus(ctx context.Context, id int, status domain.PurchaseStatus, download bool) (*domain.Purchase, error) {
	args := m.Called(ctx, id, status, download)
	out, _ := args.Get(0).(*domain.Purchase)
	return out, args.Error(1)
}

func (m *mockPurchaseRepo) ListPurchasesByEmail(ctx context.Context, email string, status domain.PurchaseStatus) ([]domain.Purchase, error) {
	args := m.Called(ctx, email, status)
	out, _ := args.Get(0).([]domain.Purchase)
	return out, args.Error(1)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	out, _ := args.Get(0).(*domain.User)
	return out, args.Error(1)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	out, _ := args.Get(0).(*domain.User)
	return out, args.Error(1)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*domain.User)
	return out, args.Error(1)
}

type mockStorage struct{ mock.Mock }

func (m *mockStorage) Upload(ctx context.Context, bucket, path string, body io.Reader, contentType string, opts clients.UploadOptions) (string, error) {
	args := m.Called(ctx, bucket, path, body, contentType, opts)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) PublicURL(bucket, path string) string {
	return m.Called(bucket, path).String(0)
}
