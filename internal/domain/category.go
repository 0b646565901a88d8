package domain

import (
	"context"
	"fmt"
	"strings"
)

type Category struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	Icon        string  `json:"icon"`
}

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *Category) (*Category, error)
	GetCategoryByID(ctx context.Context, id int) (*Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	UpdateCategory(ctx context.Context, category *Category) (*Category, error)
	DeleteCategory(ctx context.Context, id int) error
	ListCategories(ctx context.Context) ([]Category, error)
}

// Validate checks the fields an insert must carry. The slug is filled from
// the name when empty.
func (c *Category) Validate() error {
	if err := c.ValidateUpdate(); err != nil {
		return err
	}
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	if !IsValidSlug(c.Slug) {
		return fmt.Errorf("invalid category slug '%s': %w", c.Slug, ErrValidation)
	}
	return nil
}

// ValidateUpdate checks only the editable fields. The slug is fixed at
// creation and is not sent on update.
func (c *Category) ValidateUpdate() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("category name cannot be empty: %w", ErrValidation)
	}
	c.Icon = ResolveIcon(c.Icon)
	return nil
}

// EditableFields is the field set sent on every category update.
func (c *Category) EditableFields() map[string]interface{} {
	return map[string]interface{}{
		"name":        c.Name,
		"description": c.Description,
		"image_url":   c.ImageURL,
		"icon":        c.Icon,
	}
}

// Clone returns a deep copy suitable for local editing.
func (c Category) Clone() Category {
	c.Description = cloneString(c.Description)
	c.ImageURL = cloneString(c.ImageURL)
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
