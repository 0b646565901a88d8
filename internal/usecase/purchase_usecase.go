package usecase

import (
	"context"
	"fmt"
	"strings"

	"storefront_service/internal/domain"

	"github.com/sirupsen/logrus"
)

// StatusAll lists purchases regardless of status.
const StatusAll = "all"

type PurchaseUseCase interface {
	Checkout(ctx context.Context, email string, items []domain.PurchaseItem) (*domain.Purchase, error)
	ListPurchases(ctx context.Context, email, status string) ([]domain.Purchase, error)
	UpdateStatus(ctx context.Context, id int, status domain.PurchaseStatus) (*domain.Purchase, error)
}

type purchaseUseCase struct {
	purchaseRepo domain.PurchaseRepository
	productRepo  domain.ProductRepository
	log          *logrus.Logger
}

func NewPurchaseUseCase(repo domain.PurchaseRepository, products domain.ProductRepository, logger *logrus.Logger) PurchaseUseCase {
	return &purchaseUseCase{
		purchaseRepo: repo,
		productRepo:  products,
		log:          logger,
	}
}

type stockReservation struct {
	product  *domain.Product
	quantity int
}

func (uc *purchaseUseCase) Checkout(ctx context.Context, email string, items []domain.PurchaseItem) (*domain.Purchase, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("purchase requires a user email: %w", domain.ErrValidation)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("purchase must contain at least one item: %w", domain.ErrValidation)
	}
	for i, item := range items {
		if item.ProductID <= 0 {
			return nil, fmt.Errorf("item %d: invalid product ID: %w", i, domain.ErrValidation)
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("item %d (product %d): quantity must be positive: %w", i, item.ProductID, domain.ErrValidation)
		}
	}
	uc.log.Infof("Use Case: Starting stock check for purchase of %s (%d items)", email, len(items))

	reservations := make(map[int]*stockReservation)
	var order []int
	purchase := &domain.Purchase{UserEmail: email, Status: domain.StatusProcessing}

	for _, item := range items {
		res, ok := reservations[item.ProductID]
		if !ok {
			product, err := uc.productRepo.GetProductByID(ctx, item.ProductID)
			if err != nil {
				uc.log.Warnf("Use Case: Stock check failed for Product ID %d: %v", item.ProductID, err)
				return nil, fmt.Errorf("stock check failed for product %d: %w", item.ProductID, err)
			}
			res = &stockReservation{product: product}
			reservations[item.ProductID] = res
			order = append(order, item.ProductID)
		}
		res.quantity += item.Quantity

		if res.product.Stock < res.quantity {
			uc.log.Warnf("Use Case: Insufficient stock for Product ID %d (Requested total: %d, Available: %d)",
				item.ProductID, res.quantity, res.product.Stock)
			return nil, fmt.Errorf("insufficient stock for product %d (requested total: %d, available: %d): %w",
				item.ProductID, res.quantity, res.product.Stock, domain.ErrValidation)
		}

		purchase.Items = append(purchase.Items, domain.PurchaseItem{
			ProductID: item.ProductID,
			Name:      res.product.Name,
			Quantity:  item.Quantity,
			Price:     res.product.Price,
		})
	}
	purchase.ComputeTotal()

	var reserved []int
	for _, productID := range order {
		res := reservations[productID]
		newStock := res.product.Stock - res.quantity
		if err := uc.productRepo.UpdateStock(ctx, productID, newStock); err != nil {
			uc.log.Errorf("Use Case: Failed to decrease stock for Product ID %d: %v. Rolling back...", productID, err)
			uc.rollback(ctx, reservations, reserved)
			return nil, fmt.Errorf("failed to reserve stock for product %d: %w", productID, err)
		}
		reserved = append(reserved, productID)
	}
	uc.log.Info("Use Case: Stock reservation successful.")

	created, err := uc.purchaseRepo.CreatePurchase(ctx, purchase)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create purchase for %s AFTER stock update: %v. Rolling back...", email, err)
		uc.rollback(ctx, reservations, reserved)
		return nil, fmt.Errorf("failed to save purchase after reserving stock: %w", err)
	}

	uc.log.Infof("Use Case: Purchase %s created for %s, total %s", created.Code, email, created.Total.StringFixed(2))
	return created, nil
}

func (uc *purchaseUseCase) rollback(ctx context.Context, reservations map[int]*stockReservation, reserved []int) {
	for _, productID := range reserved {
		original := reservations[productID].product.Stock
		uc.log.Warnf("Use Case: Rolling back Product ID %d to stock %d", productID, original)
		if err := uc.productRepo.UpdateStock(ctx, productID, original); err != nil {
			uc.log.Errorf("Use Case: CRITICAL! Failed to rollback stock for Product ID %d: %v. Manual intervention required!", productID, err)
		}
	}
}

func (uc *purchaseUseCase) ListPurchases(ctx context.Context, email, status string) ([]domain.Purchase, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("listing purchases requires a user email: %w", domain.ErrValidation)
	}

	filter := domain.PurchaseStatus(strings.ToLower(strings.TrimSpace(status)))
	if filter == StatusAll {
		filter = ""
	}
	if filter != "" && !domain.IsValidStatus(filter) {
		return nil, fmt.Errorf("unknown purchase status '%s': %w", status, domain.ErrValidation)
	}

	purchases, err := uc.purchaseRepo.ListPurchasesByEmail(ctx, email, filter)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list purchases for %s: %v", email, err)
		return nil, fmt.Errorf("could not retrieve purchases for %s: %w", email, err)
	}
	uc.log.Infof("Use Case: Retrieved %d purchases for %s", len(purchases), email)
	return purchases, nil
}

// UpdateStatus moves a purchase between states. Completed purchases unlock the
// download; cancelled ones return their items to stock.
func (uc *purchaseUseCase) UpdateStatus(ctx context.Context, id int, status domain.PurchaseStatus) (*domain.Purchase, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid purchase ID %d: %w", id, domain.ErrValidation)
	}
	if !domain.IsValidStatus(status) {
		return nil, fmt.Errorf("invalid target purchase status '%s': %w", status, domain.ErrValidation)
	}

	current, err := uc.purchaseRepo.GetPurchaseByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Could not get purchase %d for status update: %v", id, err)
		return nil, err
	}
	if current.Status == domain.StatusCompleted && status == domain.StatusCancelled {
		uc.log.Warnf("Use Case: Attempt to cancel an already completed purchase %d", id)
		return nil, fmt.Errorf("cannot cancel a completed purchase: %w", domain.ErrConflict)
	}
	if current.Status == domain.StatusCancelled && status != domain.StatusCancelled {
		uc.log.Warnf("Use Case: Attempt to change status of cancelled purchase %d", id)
		return nil, fmt.Errorf("cannot change status of a cancelled purchase: %w", domain.ErrConflict)
	}

	if status == domain.StatusCancelled && current.Status != domain.StatusCancelled {
		uc.log.Infof("Use Case: Purchase %d is being cancelled. Returning items to stock.", id)
		for _, item := range current.Items {
			product, err := uc.productRepo.GetProductByID(ctx, item.ProductID)
			if err != nil {
				uc.log.Errorf("Use Case: CRITICAL! Failed to load product %d to return stock for purchase %d: %v", item.ProductID, id, err)
				continue
			}
			if err := uc.productRepo.UpdateStock(ctx, item.ProductID, product.Stock+item.Quantity); err != nil {
				uc.log.Errorf("Use Case: CRITICAL! Failed to return stock for product %d (purchase %d): %v", item.ProductID, id, err)
			}
		}
	}

	updated, err := uc.purchaseRepo.UpdatePurchaseStatus(ctx, id, status, status == domain.StatusCompleted)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update status for purchase %d: %v", id, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Purchase %s status updated to %s", updated.Code, updated.Status)
	return updated, nil
}
