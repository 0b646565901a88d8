package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront_service/internal/domain"

	"github.com/sirupsen/logrus"
)

const productColumns = `id, name, description, price, image_url, stock, category_id, merchandise`

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(db *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{
		db:  db,
		log: logger,
	}
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		product     domain.Product
		description sql.NullString
		imageURL    sql.NullString
		merchandise sql.NullString
	)
	err := row.Scan(
		&product.ID,
		&product.Name,
		&description,
		&product.Price,
		&imageURL,
		&product.Stock,
		&product.CategoryID,
		&merchandise,
	)
	if err != nil {
		return nil, err
	}
	product.Description = fromNullString(description)
	product.ImageURL = fromNullString(imageURL)
	product.Merchandise = fromNullString(merchandise)
	return &product, nil
}

func (r *postgresProductRepository) mapWriteError(err error, product *domain.Product, action string) error {
	switch pqCode(err) {
	case pqForeignKeyViolation:
		r.log.Warnf("Attempted to %s product with non-existent category ID: %d", action, product.CategoryID)
		return fmt.Errorf("category with id %d does not exist: %w", product.CategoryID, domain.ErrValidation)
	case pqCheckViolation:
		r.log.Warnf("Check constraint violation for product '%s': %s", product.Name, pqMessage(err))
		return fmt.Errorf("product data constraint violation: %s: %w", pqMessage(err), domain.ErrValidation)
	}
	r.log.Errorf("Failed to %s product '%s': %v", action, product.Name, err)
	return fmt.Errorf("could not %s product: %w", action, err)
}

func (r *postgresProductRepository) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
        INSERT INTO products (name, description, price, image_url, stock, category_id, merchandise)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		product.Name,
		nullString(product.Description),
		product.Price,
		nullString(product.ImageURL),
		product.Stock,
		product.CategoryID,
		nullString(product.Merchandise),
	).Scan(&product.ID)
	if err != nil {
		return nil, r.mapWriteError(err, product, "create")
	}
	r.log.Infof("Product created successfully with ID: %d, Name: %s", product.ID, product.Name)
	return product, nil
}

func (r *postgresProductRepository) GetProductByID(ctx context.Context, id int) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Product with ID %d not found", id)
			return nil, notFound("product with id", id)
		}
		r.log.Errorf("Failed to get product by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get product by id: %w", err)
	}
	return product, nil
}

// UpdateProduct writes the whole editable field set; category_id is left as is.
func (r *postgresProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
        UPDATE products
        SET name = $1, description = $2, price = $3, stock = $4, merchandise = $5, image_url = $6
        WHERE id = $7
        RETURNING ` + productColumns
	updated, err := scanProduct(r.db.QueryRowContext(ctx, query,
		product.Name,
		nullString(product.Description),
		product.Price,
		product.Stock,
		nullString(product.Merchandise),
		nullString(product.ImageURL),
		product.ID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Product with ID %d not found for update", product.ID)
			return nil, notFound("product with id", product.ID)
		}
		return nil, r.mapWriteError(err, product, "update")
	}
	r.log.Infof("Product updated successfully with ID: %d", updated.ID)
	return updated, nil
}

func (r *postgresProductRepository) UpdateStock(ctx context.Context, id int, stock int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE products SET stock = $1 WHERE id = $2`, stock, id)
	if err != nil {
		return r.mapWriteError(err, &domain.Product{ID: id}, "update stock of")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Failed to get rows affected after stock update for ID %d: %v", id, err)
		return fmt.Errorf("could not confirm stock update: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Product with ID %d not found for stock update", id)
		return notFound("product with id", id)
	}
	r.log.Infof("Stock for product ID %d set to %d", id, stock)
	return nil
}

func (r *postgresProductRepository) DeleteProduct(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Failed to delete product ID %d: %v", id, err)
		return fmt.Errorf("could not delete product: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Failed to get rows affected after deleting product ID %d: %v", id, err)
		return fmt.Errorf("could not confirm product deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Attempted to delete non-existent product ID %d", id)
		return notFound("product with id", id)
	}
	r.log.Infof("Product deleted successfully with ID: %d", id)
	return nil
}

func (r *postgresProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name ASC`
	return r.queryProducts(ctx, query)
}

func (r *postgresProductRepository) ListProductsByCategory(ctx context.Context, categoryID int) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category_id = $1 ORDER BY name ASC`
	return r.queryProducts(ctx, query, categoryID)
}

func (r *postgresProductRepository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Errorf("Failed to list products (args %v): %v", args, err)
		return nil, fmt.Errorf("could not list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			r.log.Errorf("Failed to scan product row: %v", err)
			return nil, fmt.Errorf("error scanning product data: %w", err)
		}
		products = append(products, *product)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during products list iteration: %v", err)
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	r.log.Infof("Retrieved %d products (args %v)", len(products), args)
	return products, nil
}
