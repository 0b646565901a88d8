package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"storefront_service/internal/domain"

	"github.com/sirupsen/logrus"
)

const purchaseColumns = `id, user_email, total, status, download_available, items, created_at`

type postgresPurchaseRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresPurchaseRepository(db *sql.DB, logger *logrus.Logger) domain.PurchaseRepository {
	return &postgresPurchaseRepository{
		db:  db,
		log: logger,
	}
}

func scanPurchase(row rowScanner) (*domain.Purchase, error) {
	var (
		purchase domain.Purchase
		items    []byte
	)
	err := row.Scan(
		&purchase.ID,
		&purchase.UserEmail,
		&purchase.Total,
		&purchase.Status,
		&purchase.DownloadAvailable,
		&items,
		&purchase.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &purchase.Items); err != nil {
		return nil, fmt.Errorf("corrupt items for purchase %d: %w", purchase.ID, err)
	}
	purchase.Code = domain.PurchaseCode(purchase.ID)
	return &purchase, nil
}

func (r *postgresPurchaseRepository) CreatePurchase(ctx context.Context, purchase *domain.Purchase) (*domain.Purchase, error) {
	items, err := json.Marshal(purchase.Items)
	if err != nil {
		r.log.Errorf("Failed to encode items for purchase of %s: %v", purchase.UserEmail, err)
		return nil, fmt.Errorf("could not encode purchase items: %w", err)
	}

	query := `
        INSERT INTO purchases (user_email, total, status, download_available, items)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`
	err = r.db.QueryRowContext(ctx, query,
		purchase.UserEmail, purchase.Total, string(purchase.Status), purchase.DownloadAvailable, items,
	).Scan(&purchase.ID, &purchase.CreatedAt)
	if err != nil {
		if pqCode(err) == pqCheckViolation {
			r.log.Warnf("Check constraint violation for purchase of %s: %s", purchase.UserEmail, pqMessage(err))
			return nil, fmt.Errorf("purchase data constraint violation: %s: %w", pqMessage(err), domain.ErrValidation)
		}
		r.log.Errorf("Failed to insert purchase for %s: %v", purchase.UserEmail, err)
		return nil, fmt.Errorf("could not create purchase: %w", err)
	}
	purchase.Code = domain.PurchaseCode(purchase.ID)
	r.log.Infof("Purchase %s created for %s with %d items", purchase.Code, purchase.UserEmail, len(purchase.Items))
	return purchase, nil
}

func (r *postgresPurchaseRepository) GetPurchaseByID(ctx context.Context, id int) (*domain.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`
	purchase, err := scanPurchase(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Purchase with ID %d not found", id)
			return nil, notFound("purchase with id", id)
		}
		r.log.Errorf("Failed to get purchase by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get purchase by id: %w", err)
	}
	return purchase, nil
}

func (r *postgresPurchaseRepository) UpdatePurchaseStatus(ctx context.Context, id int, status domain.PurchaseStatus, downloadAvailable bool) (*domain.Purchase, error) {
	query := `UPDATE purchases SET status = $1, download_available = $2 WHERE id = $3 RETURNING ` + purchaseColumns
	purchase, err := scanPurchase(r.db.QueryRowContext(ctx, query, string(status), downloadAvailable, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Purchase with ID %d not found for status update", id)
			return nil, notFound("purchase with id", id)
		}
		r.log.Errorf("Failed to update status of purchase %d: %v", id, err)
		return nil, fmt.Errorf("could not update purchase status: %w", err)
	}
	r.log.Infof("Purchase %d status set to %s", id, status)
	return purchase, nil
}

func (r *postgresPurchaseRepository) ListPurchasesByEmail(ctx context.Context, email string, status domain.PurchaseStatus) ([]domain.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE user_email = $1`
	args := []interface{}{email}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Errorf("Failed to list purchases for %s: %v", email, err)
		return nil, fmt.Errorf("could not list purchases: %w", err)
	}
	defer rows.Close()

	purchases := []domain.Purchase{}
	for rows.Next() {
		purchase, err := scanPurchase(rows)
		if err != nil {
			r.log.Errorf("Failed to scan purchase row: %v", err)
			return nil, fmt.Errorf("error scanning purchase data: %w", err)
		}
		purchases = append(purchases, *purchase)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during purchases list iteration: %v", err)
		return nil, fmt.Errorf("error iterating purchases: %w", err)
	}
	r.log.Infof("Retrieved %d purchases for %s (status filter '%s')", len(purchases), email, status)
	return purchases, nil
}
