package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    *string         `json:"image_url"`
	Stock       int             `json:"stock"`
	CategoryID  int             `json:"category_id"`
	Merchandise *string         `json:"merchandise"`
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *Product) (*Product, error)
	GetProductByID(ctx context.Context, id int) (*Product, error)
	UpdateProduct(ctx context.Context, product *Product) (*Product, error)
	UpdateStock(ctx context.Context, id int, stock int) error
	DeleteProduct(ctx context.Context, id int) error
	ListProducts(ctx context.Context) ([]Product, error)
	ListProductsByCategory(ctx context.Context, categoryID int) ([]Product, error)
}

func (p *Product) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("product name cannot be empty: %w", ErrValidation)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("product price cannot be negative: %w", ErrValidation)
	}
	if p.Stock < 0 {
		return fmt.Errorf("product stock cannot be negative: %w", ErrValidation)
	}
	if p.CategoryID <= 0 {
		return fmt.Errorf("invalid category ID %d for product: %w", p.CategoryID, ErrValidation)
	}
	return nil
}

// EditableFields is the field set sent on every product update. The owning
// category is fixed at insert time.
func (p *Product) EditableFields() map[string]interface{} {
	return map[string]interface{}{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"stock":       p.Stock,
		"merchandise": p.Merchandise,
		"image_url":   p.ImageURL,
	}
}

func (p Product) Clone() Product {
	p.Description = cloneString(p.Description)
	p.ImageURL = cloneString(p.ImageURL)
	p.Merchandise = cloneString(p.Merchandise)
	return p
}

func (p Product) DisplayPrice() string {
	return FormatPrice(p.Price)
}
