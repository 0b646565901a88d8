package clients

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront_service/internal/domain"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const catalogService = "/storefront.catalog.v1.Catalog/"

// CatalogGRPCClient reads the catalog over the Struct-based gRPC API.
type CatalogGRPCClient struct {
	conn *grpc.ClientConn
	log  *logrus.Logger
}

// NewCatalogGRPCClient does not block; the connection is made on first call.
func NewCatalogGRPCClient(target string, logger *logrus.Logger, opts ...grpc.DialOption) (*CatalogGRPCClient, error) {
	logger.Infof("CatalogClient: Creating gRPC client for target: %s", target)
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		logger.Errorf("CatalogClient: Failed to create client for %s: %v", target, err)
		return nil, fmt.Errorf("failed to connect to catalog service at %s: %w", target, err)
	}
	return &CatalogGRPCClient{conn: conn, log: logger}, nil
}

func (c *CatalogGRPCClient) Close() error {
	if c.conn != nil {
		c.log.Info("CatalogClient: Closing gRPC connection")
		return c.conn.Close()
	}
	return nil
}

func (c *CatalogGRPCClient) ListCategories(ctx context.Context) ([]domain.Category, error) {
	c.log.Debug("CatalogClient(gRPC): Calling ListCategories")
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, catalogService+"ListCategories", &emptypb.Empty{}, out); err != nil {
		return nil, mapGrpcError(err)
	}
	var cats []domain.Category
	if err := fromStruct(out, "categories", &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *CatalogGRPCClient) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	c.log.Debugf("CatalogClient(gRPC): Calling GetCategoryBySlug: Slug=%s", slug)
	in, err := structpb.NewStruct(map[string]interface{}{"slug": slug})
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, catalogService+"GetCategoryBySlug", in, out); err != nil {
		return nil, mapGrpcError(err)
	}
	var cat domain.Category
	if err := fromStruct(out, "category", &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// ListProducts lists every product when categoryID is 0.
func (c *CatalogGRPCClient) ListProducts(ctx context.Context, categoryID int) ([]domain.Product, error) {
	c.log.Debugf("CatalogClient(gRPC): Calling ListProducts: CategoryID=%d", categoryID)
	fields := map[string]interface{}{}
	if categoryID != 0 {
		fields["category_id"] = categoryID
	}
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, catalogService+"ListProducts", in, out); err != nil {
		return nil, mapGrpcError(err)
	}
	var products []domain.Product
	if err := fromStruct(out, "products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

func fromStruct(s *structpb.Struct, key string, out interface{}) error {
	v, ok := s.GetFields()[key]
	if !ok {
		return fmt.Errorf("catalog response is missing %q", key)
	}
	raw, err := json.Marshal(v.AsInterface())
	if err != nil {
		return fmt.Errorf("failed to re-encode catalog response: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}
	return nil
}

// mapGrpcError turns a status back into the domain sentinels so callers can
// classify with errors.Is.
func mapGrpcError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.NotFound:
		return fmt.Errorf("%s: %w", st.Message(), domain.ErrNotFound)
	case codes.AlreadyExists, codes.Aborted:
		return fmt.Errorf("%s: %w", st.Message(), domain.ErrConflict)
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return fmt.Errorf("%s: %w", st.Message(), domain.ErrValidation)
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%s: %w", st.Message(), domain.ErrUnauthorized)
	case codes.Unavailable:
		return fmt.Errorf("catalog service temporarily unavailable: %w", err)
	case codes.DeadlineExceeded:
		return fmt.Errorf("catalog request timed out: %w", err)
	}
	return err
}
