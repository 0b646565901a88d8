package grpc

import (
	"context"
	"fmt"
	"io"
	"net"
	"testing"

	"storefront_service/internal/clients"
	"storefront_service/internal/domain"
	"storefront_service/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type stubCategories struct {
	usecase.CategoryUseCase
	list []domain.Category
	err  error
}

func (s *stubCategories) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.list, s.err
}

func (s *stubCategories) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	for i := range s.list {
		if s.list[i].Slug == slug {
			return &s.list[i], nil
		}
	}
	return nil, fmt.Errorf("category with slug %s: %w", slug, domain.ErrNotFound)
}

type stubProducts struct {
	usecase.ProductUseCase
	list []domain.Product
}

func (s *stubProducts) ListProducts(ctx context.Context, categoryID int) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range s.list {
		if categoryID == 0 || p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func startCatalog(t *testing.T, cats *stubCategories, prods *stubProducts) *clients.CatalogGRPCClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterCatalogServer(srv, NewCatalogHandler(cats, prods, quietLogger()))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	client, err := clients.NewCatalogGRPCClient("passthrough:///bufnet", quietLogger(),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func sampleCatalog() (*stubCategories, *stubProducts) {
	desc := "peças de reposição"
	return &stubCategories{list: []domain.Category{
			{ID: 1, Name: "Brindes", Slug: "brindes", Icon: "gift"},
			{ID: 2, Name: "Peças Mecânicas", Slug: "pecas-mecanicas", Icon: "cog", Description: &desc},
		}}, &stubProducts{list: []domain.Product{
			{ID: 10, Name: "Chaveiro", Price: decimal.RequireFromString("12.50"), Stock: 3, CategoryID: 1},
			{ID: 11, Name: "Engrenagem", Price: decimal.RequireFromString("45.00"), Stock: 0, CategoryID: 2},
		}}
}

func TestCatalogListCategories(t *testing.T) {
	cats, prods := sampleCatalog()
	client := startCatalog(t, cats, prods)

	got, err := client.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Brindes", got[0].Name)
	assert.Equal(t, "pecas-mecanicas", got[1].Slug)
	require.NotNil(t, got[1].Description)
	assert.Equal(t, "peças de reposição", *got[1].Description)
	assert.Nil(t, got[0].ImageURL)
}

func TestCatalogGetCategoryBySlug(t *testing.T) {
	cats, prods := sampleCatalog()
	client := startCatalog(t, cats, prods)

	cat, err := client.GetCategoryBySlug(context.Background(), "brindes")
	require.NoError(t, err)
	assert.Equal(t, 1, cat.ID)

	_, err = client.GetCategoryBySlug(context.Background(), "kits")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = client.GetCategoryBySlug(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCatalogListProductsByCategory(t *testing.T) {
	cats, prods := sampleCatalog()
	client := startCatalog(t, cats, prods)

	products, err := client.ListProducts(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 2, products[0].CategoryID)
	assert.True(t, decimal.RequireFromString("45").Equal(products[0].Price))

	all, err := client.ListProducts(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	empty, err := client.ListProducts(context.Background(), 99)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCatalogRejectsBadCategoryFilter(t *testing.T) {
	cats, prods := sampleCatalog()
	h := NewCatalogHandler(cats, prods, quietLogger())

	req, err := structpb.NewStruct(map[string]interface{}{"category_id": 1.5})
	require.NoError(t, err)
	_, err = h.ListProducts(context.Background(), req)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestMapDomainErrorToGrpcStatus(t *testing.T) {
	cases := []struct {
		err  error
		code codes.Code
	}{
		{fmt.Errorf("product 3: %w", domain.ErrNotFound), codes.NotFound},
		{fmt.Errorf("slug taken: %w", domain.ErrConflict), codes.AlreadyExists},
		{fmt.Errorf("name: %w", domain.ErrValidation), codes.InvalidArgument},
		{domain.ErrUnauthorized, codes.Unauthenticated},
		{fmt.Errorf("pq: duplicate key value"), codes.AlreadyExists},
		{io.ErrClosedPipe, codes.Internal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, status.Code(mapDomainErrorToGrpcStatus(tc.err)), tc.err.Error())
	}
	assert.NoError(t, mapDomainErrorToGrpcStatus(nil))
}

func TestCatalogInternalErrorSurfacesToClient(t *testing.T) {
	cats, prods := sampleCatalog()
	cats.err = io.ErrUnexpectedEOF
	client := startCatalog(t, cats, prods)

	_, err := client.ListCategories(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, codes.Internal, status.Code(err))
}
