package usecase

import (
	"context"
	"errors"
	"fmt"

	"storefront_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type ProductUseCase interface {
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetProductByID(ctx context.Context, id int) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int) error
	// ListProducts returns every product when categoryID is 0.
	ListProducts(ctx context.Context, categoryID int) ([]domain.Product, error)
}

type productUseCase struct {
	productRepo  domain.ProductRepository
	categoryRepo domain.CategoryRepository
	log          *logrus.Logger
}

func NewProductUseCase(pRepo domain.ProductRepository, cRepo domain.CategoryRepository, logger *logrus.Logger) ProductUseCase {
	return &productUseCase{
		productRepo:  pRepo,
		categoryRepo: cRepo,
		log:          logger,
	}
}

func (uc *productUseCase) ensureCategory(ctx context.Context, categoryID int) error {
	if _, err := uc.categoryRepo.GetCategoryByID(ctx, categoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.log.Warnf("Use Case: Category ID %d not found", categoryID)
			return fmt.Errorf("category with id %d does not exist: %w", categoryID, domain.ErrValidation)
		}
		return err
	}
	return nil
}

func (uc *productUseCase) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := product.Validate(); err != nil {
		uc.log.Warnf("Use Case: Rejected product create: %v", err)
		return nil, err
	}
	if err := uc.ensureCategory(ctx, product.CategoryID); err != nil {
		return nil, err
	}

	uc.log.Infof("Use Case: Attempting to create product '%s' in category %d", product.Name, product.CategoryID)
	created, err := uc.productRepo.CreateProduct(ctx, product)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create product '%s': %v", product.Name, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product '%s' created successfully with ID %d", created.Name, created.ID)
	return created, nil
}

func (uc *productUseCase) GetProductByID(ctx context.Context, id int) (*domain.Product, error) {
	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted to get product with invalid ID: %d", id)
		return nil, fmt.Errorf("invalid product ID %d: %w", id, domain.ErrValidation)
	}

	product, err := uc.productRepo.GetProductByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get product ID %d: %v", id, err)
		return nil, err
	}
	return product, nil
}

// UpdateProduct always writes the full editable field set.
func (uc *productUseCase) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product.ID <= 0 {
		uc.log.Warnf("Use Case: Attempted update with invalid product ID: %d", product.ID)
		return nil, fmt.Errorf("invalid product ID %d for update: %w", product.ID, domain.ErrValidation)
	}

	current, err := uc.productRepo.GetProductByID(ctx, product.ID)
	if err != nil {
		uc.log.Warnf("Use Case: Product ID %d not found for update: %v", product.ID, err)
		return nil, err
	}
	if product.CategoryID == 0 {
		product.CategoryID = current.CategoryID
	}
	if err := product.Validate(); err != nil {
		uc.log.Warnf("Use Case: Rejected update for product ID %d: %v", product.ID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Attempting update for product ID %d", product.ID)
	updated, err := uc.productRepo.UpdateProduct(ctx, product)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update product ID %d: %v", product.ID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product updated successfully for ID %d", updated.ID)
	return updated, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id int) error {
	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted delete with invalid product ID: %d", id)
		return fmt.Errorf("invalid product ID %d for delete: %w", id, domain.ErrValidation)
	}
	uc.log.Infof("Use Case: Attempting to delete product ID %d", id)
	if err := uc.productRepo.DeleteProduct(ctx, id); err != nil {
		uc.log.Warnf("Use Case: Repository failed to delete product ID %d: %v", id, err)
		return err
	}
	uc.log.Infof("Use Case: Product deleted successfully for ID %d", id)
	return nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, categoryID int) ([]domain.Product, error) {
	if categoryID < 0 {
		uc.log.Warnf("Use Case: Attempted list by category with invalid category ID: %d", categoryID)
		return nil, fmt.Errorf("invalid category ID %d: %w", categoryID, domain.ErrValidation)
	}

	if categoryID == 0 {
		products, err := uc.productRepo.ListProducts(ctx)
		if err != nil {
			uc.log.Errorf("Use Case: Repository failed to list products: %v", err)
			return nil, fmt.Errorf("could not retrieve products: %w", err)
		}
		uc.log.Infof("Use Case: Retrieved %d products", len(products))
		return products, nil
	}

	products, err := uc.productRepo.ListProductsByCategory(ctx, categoryID)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list products for category %d: %v", categoryID, err)
		return nil, fmt.Errorf("could not retrieve products for category %d: %w", categoryID, err)
	}
	uc.log.Infof("Use Case: Retrieved %d products for category %d", len(products), categoryID)
	return products, nil
}
