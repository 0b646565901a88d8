package repository

import (
	"context"
	"fmt"
	"time"

	"storefront_service/internal/clients"
	"storefront_service/internal/domain"

	"github.com/sirupsen/logrus"
)

const (
	purchasesTable = "purchases"
	usersTable     = "users"
)

type restPurchaseRepository struct {
	tables *clients.TableClient
	log    *logrus.Logger
}

func NewRESTPurchaseRepository(tables *clients.TableClient, logger *logrus.Logger) domain.PurchaseRepository {
	return &restPurchaseRepository{tables: tables, log: logger}
}

func withCodes(purchases []domain.Purchase) []domain.Purchase {
	for i := range purchases {
		purchases[i].Code = domain.PurchaseCode(purchases[i].ID)
	}
	return purchases
}

func (r *restPurchaseRepository) CreatePurchase(ctx context.Context, purchase *domain.Purchase) (*domain.Purchase, error) {
	row := map[string]interface{}{
		"user_email":         purchase.UserEmail,
		"total":              purchase.Total,
		"status":             purchase.Status,
		"download_available": purchase.DownloadAvailable,
		"items":              purchase.Items,
	}
	var created []domain.Purchase
	if err := r.tables.From(purchasesTable).Insert(row).Execute(ctx, &created); err != nil {
		r.log.Errorf("Failed to insert purchase for %s: %v", purchase.UserEmail, err)
		return nil, fmt.Errorf("could not create purchase: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("could not create purchase: empty response from data service")
	}
	p := &withCodes(created)[0]
	r.log.Infof("Purchase %s created for %s", p.Code, p.UserEmail)
	return p, nil
}

func (r *restPurchaseRepository) GetPurchaseByID(ctx context.Context, id int) (*domain.Purchase, error) {
	var rows []domain.Purchase
	if err := r.tables.From(purchasesTable).Select("*").Eq("id", id).Execute(ctx, &rows); err != nil {
		r.log.Errorf("Failed to get purchase by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get purchase by id: %w", err)
	}
	if len(rows) == 0 {
		return nil, notFound("purchase with id", id)
	}
	return &withCodes(rows)[0], nil
}

func (r *restPurchaseRepository) UpdatePurchaseStatus(ctx context.Context, id int, status domain.PurchaseStatus, downloadAvailable bool) (*domain.Purchase, error) {
	fields := map[string]interface{}{"status": status, "download_available": downloadAvailable}
	var rows []domain.Purchase
	if err := r.tables.From(purchasesTable).Update(fields).Eq("id", id).Execute(ctx, &rows); err != nil {
		r.log.Errorf("Failed to update status of purchase %d: %v", id, err)
		return nil, fmt.Errorf("could not update purchase status: %w", err)
	}
	if len(rows) == 0 {
		return nil, notFound("purchase with id", id)
	}
	r.log.Infof("Purchase %d status set to %s", id, status)
	return &withCodes(rows)[0], nil
}

func (r *restPurchaseRepository) ListPurchasesByEmail(ctx context.Context, email string, status domain.PurchaseStatus) ([]domain.Purchase, error) {
	q := r.tables.From(purchasesTable).Select("*").Eq("user_email", email)
	if status != "" {
		q = q.Eq("status", status)
	}
	purchases := []domain.Purchase{}
	if err := q.OrderDesc("created_at").OrderDesc("id").Execute(ctx, &purchases); err != nil {
		r.log.Errorf("Failed to list purchases for %s: %v", email, err)
		return nil, fmt.Errorf("could not list purchases: %w", err)
	}
	r.log.Infof("Retrieved %d purchases for %s (status filter '%s')", len(purchases), email, status)
	return withCodes(purchases), nil
}

type restUserRepository struct {
	tables *clients.TableClient
	log    *logrus.Logger
}

func NewRESTUserRepository(tables *clients.TableClient, logger *logrus.Logger) domain.UserRepository {
	return &restUserRepository{tables: tables, log: logger}
}

// userRow mirrors the users table; domain.User hides the hash from JSON.
type userRow struct {
	ID           int64     `json:"id,omitempty"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

func (u userRow) toDomain() *domain.User {
	return &domain.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r *restUserRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := map[string]interface{}{
		"name":          user.Name,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
	}
	var created []userRow
	if err := r.tables.From(usersTable).Insert(row).Execute(ctx, &created); err != nil {
		r.log.Errorf("Repository: Failed to create user '%s': %v", user.Email, err)
		return nil, fmt.Errorf("could not create user '%s': %w", user.Email, err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("could not create user: empty response from data service")
	}
	r.log.Infof("Repository: User created successfully with ID: %d, Email: %s", created[0].ID, created[0].Email)
	return created[0].toDomain(), nil
}

func (r *restUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "email", email)
}

func (r *restUserRepository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, "id", id)
}

func (r *restUserRepository) getOne(ctx context.Context, column string, value interface{}) (*domain.User, error) {
	var rows []userRow
	if err := r.tables.From(usersTable).Select("*").Eq(column, value).Execute(ctx, &rows); err != nil {
		r.log.Errorf("Repository: Failed to get user by %s %v: %v", column, value, err)
		return nil, fmt.Errorf("could not get user: %w", err)
	}
	if len(rows) == 0 {
		r.log.Warnf("Repository: User with %s %v not found", column, value)
		return nil, notFound("user with "+column, value)
	}
	return rows[0].toDomain(), nil
}
