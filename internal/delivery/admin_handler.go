package delivery

import (
	"net/http"

	"storefront_service/internal/middleware"
	"storefront_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AdminHandler struct {
	categories usecase.CategoryUseCase
	products   usecase.ProductUseCase
	log        *logrus.Logger
}

func NewAdminHandler(categories usecase.CategoryUseCase, products usecase.ProductUseCase, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{categories: categories, products: products, log: logger}
}

type adminSummary struct {
	User           string         `json:"user"`
	CategoryCount  int            `json:"category_count"`
	ProductCount   int            `json:"product_count"`
	OutOfStock     int            `json:"out_of_stock"`
	ProductsBySlug map[string]int `json:"products_by_slug"`
}

// Summary backs the console landing page.
func (h *AdminHandler) Summary(c *gin.Context) {
	ctx := c.Request.Context()
	categories, err := h.categories.ListCategories(ctx)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to load console summary")
		return
	}
	products, err := h.products.ListProducts(ctx, 0)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to load console summary")
		return
	}

	slugs := make(map[int]string, len(categories))
	summary := adminSummary{
		CategoryCount:  len(categories),
		ProductCount:   len(products),
		ProductsBySlug: make(map[string]int, len(categories)),
	}
	for _, cat := range categories {
		slugs[cat.ID] = cat.Slug
		summary.ProductsBySlug[cat.Slug] = 0
	}
	for _, p := range products {
		if p.Stock == 0 {
			summary.OutOfStock++
		}
		if slug, ok := slugs[p.CategoryID]; ok {
			summary.ProductsBySlug[slug]++
		}
	}
	if session, ok := middleware.CurrentSession(c); ok {
		summary.User = session.Email
	}
	SuccessResponse(c, http.StatusOK, "Console summary", summary)
}
