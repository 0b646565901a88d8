package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"storefront_service/internal/domain"
	"storefront_service/internal/usecase"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

type CatalogHandler struct {
	categoryUseCase usecase.CategoryUseCase
	productUseCase  usecase.ProductUseCase
	log             *logrus.Logger
}

func NewCatalogHandler(cuc usecase.CategoryUseCase, puc usecase.ProductUseCase, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		categoryUseCase: cuc,
		productUseCase:  puc,
		log:             logger,
	}
}

// toStruct goes through the JSON form so the wire keys match the HTTP API.
func toStruct(key string, v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(map[string]interface{}{key: v})
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

func (h *CatalogHandler) ListCategories(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	h.log.Info("gRPC Handler: Received ListCategories request")

	cats, err := h.categoryUseCase.ListCategories(ctx)
	if err != nil {
		h.log.Errorf("gRPC Handler: ListCategories use case error: %v", err)
		return nil, mapDomainErrorToGrpcStatus(err)
	}
	if cats == nil {
		cats = []domain.Category{}
	}

	resp, err := toStruct("categories", cats)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "Failed to encode categories: %v", err)
	}
	h.log.Infof("gRPC Handler: Listed %d categories successfully", len(cats))
	return resp, nil
}

func (h *CatalogHandler) GetCategoryBySlug(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	slug := strings.TrimSpace(req.GetFields()["slug"].GetStringValue())
	h.log.Infof("gRPC Handler: Received GetCategoryBySlug request: Slug=%s", slug)
	if slug == "" {
		return nil, status.Error(codes.InvalidArgument, "Category slug is required")
	}

	cat, err := h.categoryUseCase.GetCategoryBySlug(ctx, slug)
	if err != nil {
		h.log.Warnf("gRPC Handler: GetCategoryBySlug use case error for %s: %v", slug, err)
		return nil, mapDomainErrorToGrpcStatus(err)
	}

	resp, err := toStruct("category", cat)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "Failed to encode category: %v", err)
	}
	return resp, nil
}

func (h *CatalogHandler) ListProducts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	categoryID := 0
	if v, ok := req.GetFields()["category_id"]; ok {
		n := v.GetNumberValue()
		if n <= 0 || n != float64(int(n)) {
			return nil, status.Error(codes.InvalidArgument, "Invalid category ID filter value")
		}
		categoryID = int(n)
	}
	h.log.Infof("gRPC Handler: Received ListProducts request: CategoryID=%d", categoryID)

	products, err := h.productUseCase.ListProducts(ctx, categoryID)
	if err != nil {
		h.log.Errorf("gRPC Handler: ListProducts use case error: %v", err)
		return nil, mapDomainErrorToGrpcStatus(err)
	}
	if products == nil {
		products = []domain.Product{}
	}

	resp, err := toStruct("products", products)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "Failed to encode products: %v", err)
	}
	h.log.Infof("gRPC Handler: Listed %d products successfully", len(products))
	return resp, nil
}

func mapDomainErrorToGrpcStatus(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, domain.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, err.Error())
	}

	errMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errMsg, "not found"):
		return status.Error(codes.NotFound, err.Error())
	case strings.Contains(errMsg, "already exists"),
		strings.Contains(errMsg, "duplicate key"),
		strings.Contains(errMsg, "unique constraint"):
		return status.Error(codes.AlreadyExists, err.Error())
	case strings.Contains(errMsg, "invalid"),
		strings.Contains(errMsg, "cannot be empty"),
		strings.Contains(errMsg, "cannot be negative"):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Errorf(codes.Internal, "Internal server error: %v", err)
	}
}
