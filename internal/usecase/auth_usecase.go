package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"storefront_service/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)

type AuthUseCase interface {
	Register(ctx context.Context, name, email, password string) (*domain.Session, error)
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Logout(ctx context.Context, token string) error
	Verify(ctx context.Context, token string) (*domain.Session, error)
}

type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type authUseCase struct {
	userRepo domain.UserRepository
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
	log      *logrus.Logger

	mu      sync.Mutex
	revoked map[string]time.Time // jti -> expiry
}

func NewAuthUseCase(repo domain.UserRepository, secret string, ttl time.Duration, logger *logrus.Logger) AuthUseCase {
	return &authUseCase{
		userRepo: repo,
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
		log:      logger,
		revoked:  make(map[string]time.Time),
	}
}

func (uc *authUseCase) Register(ctx context.Context, name, email, password string) (*domain.Session, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	uc.log.Infof("Use Case: Attempting registration for email: %s", email)

	if name == "" {
		uc.log.Warn("Use Case: Registration failed - empty name")
		return nil, fmt.Errorf("user name cannot be empty: %w", domain.ErrValidation)
	}
	if !isValidEmail(email) {
		uc.log.Warnf("Use Case: Registration failed - invalid email format: %s", email)
		return nil, fmt.Errorf("invalid email format: %w", domain.ErrValidation)
	}
	if err := validatePassword(password); err != nil {
		uc.log.Warnf("Use Case: Registration failed - password validation error: %v", err)
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to hash password for %s: %v", email, err)
		return nil, fmt.Errorf("internal error processing password: %w", err)
	}

	user, err := uc.userRepo.CreateUser(ctx, &domain.User{Name: name, Email: email, PasswordHash: string(hashed)})
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create user %s: %v", email, err)
		return nil, err
	}

	uc.log.Infof("Use Case: User registered successfully. ID: %d, Email: %s", user.ID, user.Email)
	return uc.issue(user)
}

func (uc *authUseCase) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = normalizeEmail(email)
	uc.log.Infof("Use Case: Attempting authentication for email: %s", email)

	if !isValidEmail(email) || password == "" {
		uc.log.Warnf("Use Case: Auth failed - invalid email or empty password for %s", email)
		return nil, errInvalidCredentials
	}

	user, err := uc.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.log.Warnf("Use Case: Auth failed - user not found: %s", email)
			return nil, errInvalidCredentials
		}
		uc.log.Errorf("Use Case: Error retrieving user %s during auth: %v", email, err)
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			uc.log.Warnf("Use Case: Auth failed - incorrect password for user %s (ID: %d)", email, user.ID)
			return nil, errInvalidCredentials
		}
		uc.log.Errorf("Use Case: Error comparing password hash for user %s: %v", email, err)
		return nil, fmt.Errorf("internal error during authentication: %w", err)
	}

	uc.log.Infof("Use Case: Authentication successful for user %s (ID: %d)", email, user.ID)
	return uc.issue(user)
}

func (uc *authUseCase) issue(user *domain.User) (*domain.Session, error) {
	now := uc.now()
	session := &domain.Session{
		TokenID:   uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		IssuedAt:  now,
		ExpiresAt: now.Add(uc.ttl),
	}
	claims := sessionClaims{
		Email: user.Email,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.TokenID,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.secret)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to sign token for user %d: %v", user.ID, err)
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}
	session.Token = token
	return session, nil
}

// Verify parses and checks a token. Revoked and expired tokens are rejected.
func (uc *authUseCase) Verify(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, fmt.Errorf("missing session token: %w", domain.ErrUnauthorized)
	}

	claims := &sessionClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return uc.secret, nil
	})
	if err != nil {
		uc.log.Warnf("Use Case: Rejected session token: %v", err)
		return nil, fmt.Errorf("invalid session token: %w", domain.ErrUnauthorized)
	}
	if claims.ExpiresAt == nil || claims.ID == "" {
		return nil, fmt.Errorf("incomplete session token: %w", domain.ErrUnauthorized)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid session subject: %w", domain.ErrUnauthorized)
	}
	session := &domain.Session{
		Token:     token,
		TokenID:   claims.ID,
		UserID:    userID,
		Email:     claims.Email,
		Name:      claims.Name,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	if session.Expired(uc.now()) {
		return nil, fmt.Errorf("session expired: %w", domain.ErrUnauthorized)
	}
	if uc.isRevoked(claims.ID) {
		return nil, fmt.Errorf("session revoked: %w", domain.ErrUnauthorized)
	}
	return session, nil
}

// Logout revokes the token until it would have expired anyway.
func (uc *authUseCase) Logout(ctx context.Context, token string) error {
	session, err := uc.Verify(ctx, token)
	if err != nil {
		return err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	now := uc.now()
	for jti, exp := range uc.revoked {
		if !now.Before(exp) {
			delete(uc.revoked, jti)
		}
	}
	uc.revoked[session.TokenID] = session.ExpiresAt
	uc.log.Infof("Use Case: Session for %s revoked", session.Email)
	return nil
}

func (uc *authUseCase) isRevoked(jti string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	_, ok := uc.revoked[jti]
	return ok
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}
	domainParts := strings.Split(parts[1], ".")
	return len(domainParts) >= 2 && domainParts[0] != "" && domainParts[len(domainParts)-1] != ""
}

// validatePassword enforces basic password complexity rules.
func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}
	if !hasUpper {
		return errors.New("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return errors.New("password must contain at least one lowercase letter")
	}
	if !hasDigit {
		return errors.New("password must contain at least one digit")
	}
	return nil
}
