package repository

import (
	"context"
	"fmt"

	"storefront_service/internal/clients"
	"storefront_service/internal/domain"

	"github.com/sirupsen/logrus"
)

const (
	categoriesTable = "categories"
	productsTable   = "products"
)

// restCategoryRepository stores categories in the hosted data service.
type restCategoryRepository struct {
	tables *clients.TableClient
	log    *logrus.Logger
}

func NewRESTCategoryRepository(tables *clients.TableClient, logger *logrus.Logger) domain.CategoryRepository {
	return &restCategoryRepository{tables: tables, log: logger}
}

func (r *restCategoryRepository) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	row := category.EditableFields()
	row["slug"] = category.Slug

	var created []domain.Category
	if err := r.tables.From(categoriesTable).Insert(row).Execute(ctx, &created); err != nil {
		r.log.Errorf("Failed to create category '%s': %v", category.Name, err)
		return nil, fmt.Errorf("could not create category '%s': %w", category.Slug, err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("could not create category: empty response from data service")
	}
	r.log.Infof("Category created successfully with ID: %d, Slug: %s", created[0].ID, created[0].Slug)
	return &created[0], nil
}

func (r *restCategoryRepository) GetCategoryByID(ctx context.Context, id int) (*domain.Category, error) {
	return r.getOne(ctx, "id", id)
}

func (r *restCategoryRepository) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return r.getOne(ctx, "slug", slug)
}

func (r *restCategoryRepository) getOne(ctx context.Context, column string, value interface{}) (*domain.Category, error) {
	var rows []domain.Category
	if err := r.tables.From(categoriesTable).Select("*").Eq(column, value).Execute(ctx, &rows); err != nil {
		r.log.Errorf("Failed to get category by %s %v: %v", column, value, err)
		return nil, fmt.Errorf("could not get category by %s: %w", column, err)
	}
	if len(rows) == 0 {
		r.log.Warnf("Category with %s %v not found", column, value)
		return nil, notFound("category with "+column, value)
	}
	return &rows[0], nil
}

func (r *restCategoryRepository) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	var rows []domain.Category
	err := r.tables.From(categoriesTable).Update(category.EditableFields()).Eq("id", category.ID).Execute(ctx, &rows)
	if err != nil {
		r.log.Errorf("Failed to update category ID %d: %v", category.ID, err)
		return nil, fmt.Errorf("could not update category: %w", err)
	}
	if len(rows) == 0 {
		r.log.Warnf("Category with ID %d not found for update", category.ID)
		return nil, notFound("category with id", category.ID)
	}
	r.log.Infof("Category updated successfully with ID: %d", category.ID)
	return &rows[0], nil
}

func (r *restCategoryRepository) DeleteCategory(ctx context.Context, id int) error {
	var rows []domain.Category
	if err := r.tables.From(categoriesTable).Delete().Eq("id", id).Execute(ctx, &rows); err != nil {
		r.log.Errorf("Failed to delete category ID %d: %v", id, err)
		return fmt.Errorf("could not delete category: %w", err)
	}
	if len(rows) == 0 {
		r.log.Warnf("Attempted to delete non-existent category ID %d", id)
		return notFound("category with id", id)
	}
	r.log.Infof("Category deleted successfully with ID: %d", id)
	return nil
}

func (r *restCategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories := []domain.Category{}
	if err := r.tables.From(categoriesTable).Select("*").Order("name").Execute(ctx, &categories); err != nil {
		r.log.Errorf("Failed to list categories: %v", err)
		return nil, fmt.Errorf("could not list categories: %w", err)
	}
	r.log.Infof("Retrieved %d categories", len(categories))
	return categories, nil
}

// restProductRepository stores products in the hosted data service.
type restProductRepository struct {
	tables *clients.TableClient
	log    *logrus.Logger
}

func NewRESTProductRepository(tables *clients.TableClient, logger *logrus.Logger) domain.ProductRepository {
	return &restProductRepository{tables: tables, log: logger}
}

func (r *restProductRepository) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	row := product.EditableFields()
	row["category_id"] = product.CategoryID

	var created []domain.Product
	if err := r.tables.From(productsTable).Insert(row).Execute(ctx, &created); err != nil {
		r.log.Errorf("Failed to create product '%s': %v", product.Name, err)
		return nil, fmt.Errorf("could not create product: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("could not create product: empty response from data service")
	}
	r.log.Infof("Product created successfully with ID: %d, Name: %s", created[0].ID, created[0].Name)
	return &created[0], nil
}

func (r *restProductRepository) GetProductByID(ctx context.Context, id int) (*domain.Product, error) {
	var rows []domain.Product
	if err := r.tables.From(productsTable).Select("*").Eq("id", id).Execute(ctx, &rows); err != nil {
		r.log.Errorf("Failed to get product by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get product by id: %w", err)
	}
	if len(rows) == 0 {
		r.log.Warnf("Product with ID %d not found", id)
		return nil, notFound("product with id", id)
	}
	return &rows[0], nil
}

func (r *restProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	return r.update(ctx, product.ID, product.EditableFields())
}

func (r *restProductRepository) UpdateStock(ctx context.Context, id int, stock int) error {
	_, err := r.update(ctx, id, map[string]interface{}{"stock": stock})
	return err
}

func (r *restProductRepository) update(ctx context.Context, id int, fields map[string]interface{}) (*domain.Product, error) {
	var rows []domain.Product
	if err := r.tables.From(productsTable).Update(fields).Eq("id", id).Execute(ctx, &rows); err != nil {
		r.log.Errorf("Failed to update product ID %d: %v", id, err)
		return nil, fmt.Errorf("could not update product: %w", err)
	}
	if len(rows) == 0 {
		r.log.Warnf("Product with ID %d not found for update", id)
		return nil, notFound("product with id", id)
	}
	r.log.Infof("Product updated successfully with ID: %d", id)
	return &rows[0], nil
}

func (r *restProductRepository) DeleteProduct(ctx context.Context, id int) error {
	var rows []domain.Product
	if err := r.tables.From(productsTable).Delete().Eq("id", id).Execute(ctx, &rows); err != nil {
		r.log.Errorf("Failed to delete product ID %d: %v", id, err)
		return fmt.Errorf("could not delete product: %w", err)
	}
	if len(rows) == 0 {
		r.log.Warnf("Attempted to delete non-existent product ID %d", id)
		return notFound("product with id", id)
	}
	r.log.Infof("Product deleted successfully with ID: %d", id)
	return nil
}

func (r *restProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products := []domain.Product{}
	if err := r.tables.From(productsTable).Select("*").Order("name").Execute(ctx, &products); err != nil {
		r.log.Errorf("Failed to list products: %v", err)
		return nil, fmt.Errorf("could not list products: %w", err)
	}
	r.log.Infof("Retrieved %d products", len(products))
	return products, nil
}

func (r *restProductRepository) ListProductsByCategory(ctx context.Context, categoryID int) ([]domain.Product, error) {
	products := []domain.Product{}
	err := r.tables.From(productsTable).Select("*").Eq("category_id", categoryID).Order("name").Execute(ctx, &products)
	if err != nil {
		r.log.Errorf("Failed to list products for category %d: %v", categoryID, err)
		return nil, fmt.Errorf("could not list products by category: %w", err)
	}
	r.log.Infof("Retrieved %d products for category %d", len(products), categoryID)
	return products, nil
}
