package usecase

import (
	"context"
	"errors"
	"testing"

	"storefront_service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCheckoutSnapshotsAndReservesStock(t *testing.T) {
	purchases, products := &mockPurchaseRepo{}, &mockProductRepo{}
	products.On("GetProductByID", mock.Anything, 5).
		Return(&domain.Product{ID: 5, Name: "Engrenagem", Price: decimal.RequireFromString("129.90"), Stock: 4}, nil)
	products.On("UpdateStock", mock.Anything, 5, 1).Return(nil)
	purchases.On("CreatePurchase", mock.Anything, mock.MatchedBy(func(p *domain.Purchase) bool {
		return p.Status == domain.StatusProcessing && len(p.Items) == 2 &&
			p.Items[0].Name == "Engrenagem" && p.Total.Equal(decimal.RequireFromString("389.70"))
	})).Return(&domain.Purchase{ID: 1, Code: "PED-001", Status: domain.StatusProcessing}, nil)

	uc := NewPurchaseUseCase(purchases, products, quietLogger())
	created, err := uc.Checkout(context.Background(), " Ana@Example.com ", []domain.PurchaseItem{
		{ProductID: 5, Quantity: 1},
		{ProductID: 5, Quantity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "PED-001", created.Code)
	products.AssertNumberOfCalls(t, "GetProductByID", 1)
	purchases.AssertExpectations(t)
}

func TestCheckoutAggregatedStockShortage(t *testing.T) {
	purchases, products := &mockPurchaseRepo{}, &mockProductRepo{}
	products.On("GetProductByID", mock.Anything, 5).Return(&domain.Product{ID: 5, Name: "x", Stock: 2}, nil)

	uc := NewPurchaseUseCase(purchases, products, quietLogger())
	_, err := uc.Checkout(context.Background(), "ana@example.com", []domain.PurchaseItem{
		{ProductID: 5, Quantity: 2},
		{ProductID: 5, Quantity: 1},
	})
	assert.True(t, errors.Is(err, domain.ErrValidation))
	products.AssertNotCalled(t, "UpdateStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutRollsBackOnSaveFailure(t *testing.T) {
	purchases, products := &mockPurchaseRepo{}, &mockProductRepo{}
	products.On("GetProductByID", mock.Anything, 1).Return(&domain.Product{ID: 1, Stock: 5}, nil)
	products.On("GetProductByID", mock.Anything, 2).Return(&domain.Product{ID: 2, Stock: 3}, nil)
	products.On("UpdateStock", mock.Anything, 1, 4).Return(nil).Once()
	products.On("UpdateStock", mock.Anything, 2, 1).Return(nil).Once()
	products.On("UpdateStock", mock.Anything, 1, 5).Return(nil).Once()
	products.On("UpdateStock", mock.Anything, 2, 3).Return(nil).Once()
	purchases.On("CreatePurchase", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	uc := NewPurchaseUseCase(purchases, products, quietLogger())
	_, err := uc.Checkout(context.Background(), "ana@example.com", []domain.PurchaseItem{
		{ProductID: 1, Quantity: 1},
		{ProductID: 2, Quantity: 2},
	})
	require.Error(t, err)
	products.AssertExpectations(t)
}

func TestCheckoutRejectsBadItems(t *testing.T) {
	uc := NewPurchaseUseCase(&mockPurchaseRepo{}, &mockProductRepo{}, quietLogger())
	for name, items := range map[string][]domain.PurchaseItem{
		"empty":        nil,
		"bad product":  {{ProductID: 0, Quantity: 1}},
		"bad quantity": {{ProductID: 1, Quantity: 0}},
	} {
		_, err := uc.Checkout(context.Background(), "ana@example.com", items)
		assert.True(t, errors.Is(err, domain.ErrValidation), name)
	}
}

func TestListPurchasesStatusFilter(t *testing.T) {
	purchases := &mockPurchaseRepo{}
	purchases.On("ListPurchasesByEmail", mock.Anything, "ana@example.com", domain.PurchaseStatus("")).Return([]domain.Purchase{{ID: 1}, {ID: 2}}, nil)
	purchases.On("ListPurchasesByEmail", mock.Anything, "ana@example.com", domain.StatusCompleted).Return([]domain.Purchase{{ID: 2}}, nil)

	uc := NewPurchaseUseCase(purchases, &mockProductRepo{}, quietLogger())
	all, err := uc.ListPurchases(context.Background(), "ana@example.com", "all")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	all, err = uc.ListPurchases(context.Background(), "ana@example.com", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	done, err := uc.ListPurchases(context.Background(), "ana@example.com", "completed")
	require.NoError(t, err)
	assert.Len(t, done, 1)

	_, err = uc.ListPurchases(context.Background(), "ana@example.com", "shipped")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestUpdateStatusCompletedUnlocksDownload(t *testing.T) {
	purchases := &mockPurchaseRepo{}
	purchases.On("GetPurchaseByID", mock.Anything, 3).Return(&domain.Purchase{ID: 3, Status: domain.StatusProcessing}, nil)
	purchases.On("UpdatePurchaseStatus", mock.Anything, 3, domain.StatusCompleted, true).
		Return(&domain.Purchase{ID: 3, Code: "PED-003", Status: domain.StatusCompleted, DownloadAvailable: true}, nil)

	uc := NewPurchaseUseCase(purchases, &mockProductRepo{}, quietLogger())
	updated, err := uc.UpdateStatus(context.Background(), 3, domain.StatusCompleted)
	require.NoError(t, err)
	assert.True(t, updated.DownloadAvailable)
}

func TestUpdateStatusCancelReturnsStock(t *testing.T) {
	purchases, products := &mockPurchaseRepo{}, &mockProductRepo{}
	purchases.On("GetPurchaseByID", mock.Anything, 4).Return(&domain.Purchase{
		ID: 4, Status: domain.StatusProcessing,
		Items: []domain.PurchaseItem{{ProductID: 9, Quantity: 2}},
	}, nil)
	products.On("GetProductByID", mock.Anything, 9).Return(&domain.Product{ID: 9, Stock: 1}, nil)
	products.On("UpdateStock", mock.Anything, 9, 3).Return(nil)
	purchases.On("UpdatePurchaseStatus", mock.Anything, 4, domain.StatusCancelled, false).
		Return(&domain.Purchase{ID: 4, Status: domain.StatusCancelled}, nil)

	uc := NewPurchaseUseCase(purchases, products, quietLogger())
	_, err := uc.UpdateStatus(context.Background(), 4, domain.StatusCancelled)
	require.NoError(t, err)
	products.AssertExpectations(t)
}

func TestUpdateStatusCannotCancelCompleted(t *testing.T) {
	purchases := &mockPurchaseRepo{}
	purchases.On("GetPurchaseByID", mock.Anything, 4).Return(&domain.Purchase{ID: 4, Status: domain.StatusCompleted}, nil)

	uc := NewPurchaseUseCase(purchases, &mockProductRepo{}, quietLogger())
	_, err := uc.UpdateStatus(context.Background(), 4, domain.StatusCancelled)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}
