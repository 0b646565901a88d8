package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseStatus string

const (
	StatusProcessing PurchaseStatus = "processing"
	StatusCompleted  PurchaseStatus = "completed"
	StatusCancelled  PurchaseStatus = "cancelled"
)

type Purchase struct {
	ID                int             `json:"id"`
	Code              string          `json:"code"`
	UserEmail         string          `json:"user_email"`
	Items             []PurchaseItem  `json:"items"`
	Total             decimal.Decimal `json:"total"`
	Status            PurchaseStatus  `json:"status"`
	DownloadAvailable bool            `json:"download_available"`
	CreatedAt         time.Time       `json:"created_at"`
}

type PurchaseItem struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type PurchaseRepository interface {
	CreatePurchase(ctx context.Context, purchase *Purchase) (*Purchase, error)
	GetPurchaseByID(ctx context.Context, id int) (*Purchase, error)
	UpdatePurchaseStatus(ctx context.Context, id int, status PurchaseStatus, downloadAvailable bool) (*Purchase, error)
	// ListPurchasesByEmail returns newest first; an empty status means all.
	ListPurchasesByEmail(ctx context.Context, email string, status PurchaseStatus) ([]Purchase, error)
}

func IsValidStatus(status PurchaseStatus) bool {
	switch status {
	case StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// PurchaseCode is the customer-facing order number, e.g. PED-007.
func PurchaseCode(id int) string {
	return fmt.Sprintf("PED-%03d", id)
}

func (p *Purchase) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range p.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	p.Total = total
	return total
}
