package delivery

import (
	"net/http"

	"storefront_service/internal/domain"
	"storefront_service/internal/middleware"
	"storefront_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type PurchaseHandler struct {
	useCase usecase.PurchaseUseCase
	log     *logrus.Logger
}

func NewPurchaseHandler(uc usecase.PurchaseUseCase, logger *logrus.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		useCase: uc,
		log:     logger,
	}
}

// RegisterRoutes expects a guarded router.
func (h *PurchaseHandler) RegisterRoutes(protected gin.IRouter) {
	protected.GET("/compras", h.ListPurchases)
	protected.POST("/compras", h.Checkout)
}

func (h *PurchaseHandler) RegisterAdminRoutes(admin gin.IRouter) {
	admin.PATCH("/purchases/:id", h.UpdateStatus)
}

type checkoutRequest struct {
	Items []struct {
		ProductID int `json:"product_id"`
		Quantity  int `json:"quantity"`
	} `json:"items" binding:"required"`
}

type statusRequest struct {
	Status domain.PurchaseStatus `json:"status" binding:"required"`
}

func (h *PurchaseHandler) ListPurchases(c *gin.Context) {
	session, _ := middleware.CurrentSession(c)
	status := c.DefaultQuery("status", usecase.StatusAll)

	purchases, err := h.useCase.ListPurchases(c.Request.Context(), session.Email, status)
	if err != nil {
		h.log.Warnf("Failed to list purchases for %s: %v", session.Email, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve purchases: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Purchases retrieved successfully", purchases)
}

func (h *PurchaseHandler) Checkout(c *gin.Context) {
	session, _ := middleware.CurrentSession(c)

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for checkout: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	items := make([]domain.PurchaseItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, domain.PurchaseItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	purchase, err := h.useCase.Checkout(c.Request.Context(), session.Email, items)
	if err != nil {
		h.log.Errorf("Checkout failed for %s: %v", session.Email, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to create purchase: "+err.Error())
		return
	}

	h.log.Infof("Purchase %s created for %s", purchase.Code, session.Email)
	SuccessResponse(c, http.StatusCreated, "Purchase created successfully", purchase)
}

func (h *PurchaseHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "Invalid purchase ID format")
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	purchase, err := h.useCase.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.log.Warnf("Failed to update status of purchase %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to update purchase status: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Purchase status updated successfully", purchase)
}
