// Package console implements the admin edit flow: select a row, edit a local
// copy, persist it on save and refetch the list.
package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"storefront_service/internal/domain"
	"storefront_service/internal/listing"
	"storefront_service/internal/notify"
	"storefront_service/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	categoryImageFolder = "categories"
	productImageFolder  = "products"
)

// CatalogAPI is the remote catalog the console edits.
type CatalogAPI interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	ListProducts(ctx context.Context, categoryID int) ([]domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int) error
	UploadImage(ctx context.Context, file usecase.File, folder string) (string, error)
}

type AdminConsole struct {
	api      CatalogAPI
	reporter notify.Reporter
	log      *logrus.Logger

	categories *listing.Loader[domain.Category]
	products   *listing.Loader[domain.Product]

	mu            sync.Mutex
	category      *domain.Category // editable copy of the selected category
	product       *domain.Product  // editable copy (ID 0 means a new draft)
	pendingDelete int
}

func NewAdminConsole(api CatalogAPI, reporter notify.Reporter, logger *logrus.Logger) *AdminConsole {
	return &AdminConsole{
		api:        api,
		reporter:   reporter,
		log:        logger,
		categories: listing.NewLoader[domain.Category](notify.OpLoadCategories, reporter),
		products:   listing.NewLoader[domain.Product](notify.OpLoadProducts, reporter),
	}
}

func (c *AdminConsole) RefreshCategories(ctx context.Context) error {
	return c.categories.Load(ctx, c.api.ListCategories)
}

func (c *AdminConsole) refreshProducts(ctx context.Context, categoryID int) error {
	return c.products.Load(ctx, func(ctx context.Context) ([]domain.Product, error) {
		return c.api.ListProducts(ctx, categoryID)
	})
}

func (c *AdminConsole) Categories() ([]domain.Category, bool) { return c.categories.Snapshot() }

func (c *AdminConsole) Products() ([]domain.Product, bool) { return c.products.Snapshot() }

// SelectCategory copies a listed category into the editor and loads its products.
func (c *AdminConsole) SelectCategory(ctx context.Context, id int) error {
	var found *domain.Category
	for _, cat := range c.categories.Items() {
		if cat.ID == id {
			clone := cat.Clone()
			found = &clone
			break
		}
	}
	if found == nil {
		return fmt.Errorf("category with id %d is not listed: %w", id, domain.ErrNotFound)
	}

	c.mu.Lock()
	c.category = found
	c.product = nil
	c.pendingDelete = 0
	c.mu.Unlock()

	c.log.Debugf("Console: Selected category %d (%s)", found.ID, found.Slug)
	return c.refreshProducts(ctx, id)
}

func (c *AdminConsole) SelectedCategory() *domain.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.category == nil {
		return nil
	}
	clone := c.category.Clone()
	return &clone
}

// NewCategory starts a blank category draft.
func (c *AdminConsole) NewCategory() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.category = &domain.Category{Icon: domain.DefaultIcon}
	c.product = nil
}

// SetCategoryField edits the local copy only.
func (c *AdminConsole) SetCategoryField(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.category == nil {
		return fmt.Errorf("no category selected: %w", domain.ErrValidation)
	}
	switch field {
	case "name":
		c.category.Name = value
	case "slug":
		if c.category.ID != 0 {
			return fmt.Errorf("slug of an existing category cannot change: %w", domain.ErrValidation)
		}
		c.category.Slug = value
	case "description":
		c.category.Description = domain.StringPtr(value)
	case "image_url":
		c.category.ImageURL = domain.StringPtr(value)
	case "icon":
		c.category.Icon = value
	default:
		return fmt.Errorf("unknown category field '%s': %w", field, domain.ErrValidation)
	}
	return nil
}

// SaveCategory sends one update (or insert for a draft) and refetches the list once.
func (c *AdminConsole) SaveCategory(ctx context.Context) (notify.Notification, error) {
	op := notify.OpSaveCategory
	draft := c.SelectedCategory()
	if draft == nil {
		err := fmt.Errorf("no category selected: %w", domain.ErrValidation)
		return c.reporter.Report(ctx, op, err), err
	}
	validate := draft.ValidateUpdate
	if draft.ID == 0 {
		op = notify.OpCreateCategory
		validate = draft.Validate
	}
	if err := validate(); err != nil {
		return c.reporter.Report(ctx, op, err), err
	}

	var (
		saved *domain.Category
		err   error
	)
	if draft.ID == 0 {
		saved, err = c.api.CreateCategory(ctx, draft)
	} else {
		saved, err = c.api.UpdateCategory(ctx, draft)
	}
	if err != nil {
		return c.reporter.Report(ctx, op, err), err
	}

	c.mu.Lock()
	clone := saved.Clone()
	c.category = &clone
	c.mu.Unlock()

	_ = c.RefreshCategories(ctx)
	return c.reporter.Success(ctx, op), nil
}

// EditProduct copies a listed product into the editor.
func (c *AdminConsole) EditProduct(id int) error {
	for _, p := range c.products.Items() {
		if p.ID == id {
			clone := p.Clone()
			c.mu.Lock()
			c.product = &clone
			c.mu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("product with id %d is not listed: %w", id, domain.ErrNotFound)
}

// NewProduct starts a blank draft in the selected category.
func (c *AdminConsole) NewProduct() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.category == nil || c.category.ID == 0 {
		return fmt.Errorf("select a category before adding products: %w", domain.ErrValidation)
	}
	c.product = &domain.Product{Price: decimal.Zero, CategoryID: c.category.ID}
	return nil
}

func (c *AdminConsole) ProductDraft() *domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.product == nil {
		return nil
	}
	clone := c.product.Clone()
	return &clone
}

func (c *AdminConsole) SetProductField(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.product == nil {
		return fmt.Errorf("no product being edited: %w", domain.ErrValidation)
	}
	switch field {
	case "name":
		c.product.Name = value
	case "description":
		c.product.Description = domain.StringPtr(value)
	case "price":
		price, err := decimal.NewFromString(strings.Replace(strings.TrimSpace(value), ",", ".", 1))
		if err != nil {
			return fmt.Errorf("invalid price '%s': %w", value, domain.ErrValidation)
		}
		c.product.Price = price
	case "stock":
		stock, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid stock '%s': %w", value, domain.ErrValidation)
		}
		c.product.Stock = stock
	case "merchandise":
		c.product.Merchandise = domain.StringPtr(value)
	case "image_url":
		c.product.ImageURL = domain.StringPtr(value)
	default:
		return fmt.Errorf("unknown product field '%s': %w", field, domain.ErrValidation)
	}
	return nil
}

// SaveProduct validates locally, then updates by id (or inserts a new draft)
// and refetches the selected category's products once.
func (c *AdminConsole) SaveProduct(ctx context.Context) (notify.Notification, error) {
	op := notify.OpSaveProduct
	draft := c.ProductDraft()
	if draft == nil {
		err := fmt.Errorf("no product being edited: %w", domain.ErrValidation)
		return c.reporter.Report(ctx, op, err), err
	}
	if draft.ID == 0 {
		op = notify.OpCreateProduct
	}
	if err := draft.Validate(); err != nil {
		return c.reporter.Report(ctx, op, err), err
	}

	var err error
	if draft.ID == 0 {
		_, err = c.api.CreateProduct(ctx, draft)
	} else {
		_, err = c.api.UpdateProduct(ctx, draft)
	}
	if err != nil {
		return c.reporter.Report(ctx, op, err), err
	}

	c.mu.Lock()
	c.product = nil
	categoryID := draft.CategoryID
	if c.category != nil {
		categoryID = c.category.ID
	}
	c.mu.Unlock()

	_ = c.refreshProducts(ctx, categoryID)
	return c.reporter.Success(ctx, op), nil
}

// RequestDeleteProduct only arms the confirmation.
func (c *AdminConsole) RequestDeleteProduct(id int) error {
	for _, p := range c.products.Items() {
		if p.ID == id {
			c.mu.Lock()
			c.pendingDelete = id
			c.mu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("product with id %d is not listed: %w", id, domain.ErrNotFound)
}

func (c *AdminConsole) PendingDelete() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingDelete, c.pendingDelete != 0
}

func (c *AdminConsole) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingDelete = 0
}

// ConfirmDelete deletes the armed product and refetches its category.
func (c *AdminConsole) ConfirmDelete(ctx context.Context) (notify.Notification, error) {
	c.mu.Lock()
	id := c.pendingDelete
	c.pendingDelete = 0
	categoryID := 0
	if c.category != nil {
		categoryID = c.category.ID
	}
	c.mu.Unlock()

	if id == 0 {
		err := fmt.Errorf("no product deletion was requested: %w", domain.ErrValidation)
		return c.reporter.Report(ctx, notify.OpDeleteProduct, err), err
	}
	if err := c.api.DeleteProduct(ctx, id); err != nil {
		return c.reporter.Report(ctx, notify.OpDeleteProduct, err), err
	}
	c.log.Infof("Console: Product %d deleted", id)

	_ = c.refreshProducts(ctx, categoryID)
	return c.reporter.Success(ctx, notify.OpDeleteProduct), nil
}

// UploadCategoryImage uploads file and puts the URL on the category copy.
func (c *AdminConsole) UploadCategoryImage(ctx context.Context, file usecase.File) (notify.Notification, error) {
	if c.SelectedCategory() == nil {
		err := fmt.Errorf("no category selected: %w", domain.ErrValidation)
		return c.reporter.Report(ctx, notify.OpUploadImage, err), err
	}
	url, err := c.upload(ctx, file, categoryImageFolder)
	if err != nil {
		return c.reporter.Report(ctx, notify.OpUploadImage, err), err
	}
	c.mu.Lock()
	if c.category != nil {
		c.category.ImageURL = domain.StringPtr(url)
	}
	c.mu.Unlock()
	return c.reporter.Success(ctx, notify.OpUploadImage), nil
}

// UploadProductImage uploads file and puts the URL on the product copy.
func (c *AdminConsole) UploadProductImage(ctx context.Context, file usecase.File) (notify.Notification, error) {
	if c.ProductDraft() == nil {
		err := fmt.Errorf("no product being edited: %w", domain.ErrValidation)
		return c.reporter.Report(ctx, notify.OpUploadImage, err), err
	}
	url, err := c.upload(ctx, file, productImageFolder)
	if err != nil {
		return c.reporter.Report(ctx, notify.OpUploadImage, err), err
	}
	c.mu.Lock()
	if c.product != nil {
		c.product.ImageURL = domain.StringPtr(url)
	}
	c.mu.Unlock()
	return c.reporter.Success(ctx, notify.OpUploadImage), nil
}

// UploadImage uploads a standalone image into folder and returns its URL.
func (c *AdminConsole) UploadImage(ctx context.Context, file usecase.File, folder string) (string, notify.Notification, error) {
	url, err := c.upload(ctx, file, folder)
	if err != nil {
		return "", c.reporter.Report(ctx, notify.OpUploadImage, err), err
	}
	return url, c.reporter.Success(ctx, notify.OpUploadImage), nil
}

func (c *AdminConsole) upload(ctx context.Context, file usecase.File, folder string) (string, error) {
	if file.Body == nil {
		return "", fmt.Errorf("no file selected: %w", domain.ErrValidation)
	}
	file, err := usecase.DetectContentType(file)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(file.ContentType, "image/") {
		return "", fmt.Errorf("file must be an image, got %s: %w", file.ContentType, domain.ErrValidation)
	}
	if file.Size > usecase.MaxImageSize {
		return "", fmt.Errorf("image must be at most 5MB: %w", domain.ErrValidation)
	}
	return c.api.UploadImage(ctx, file, folder)
}
