package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront_service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuth(repo domain.UserRepository) *authUseCase {
	return NewAuthUseCase(repo, "test-secret", time.Hour, quietLogger()).(*authUseCase)
}

func TestRegisterHashesPasswordAndIssuesToken(t *testing.T) {
	repo := &mockUserRepo{}
	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "ana@example.com" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("Segredo123")) == nil
	})).Return(&domain.User{ID: 7, Name: "Ana", Email: "ana@example.com"}, nil)

	uc := newAuth(repo)
	session, err := uc.Register(context.Background(), "Ana", " ANA@example.com", "Segredo123")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)

	verified, err := uc.Verify(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), verified.UserID)
	assert.Equal(t, "Ana", verified.Name)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	repo := &mockUserRepo{}
	_, err := newAuth(repo).Register(context.Background(), "Ana", "ana@example.com", "short")
	assert.True(t, errors.Is(err, domain.ErrValidation))
	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Segredo123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &mockUserRepo{}
	repo.On("GetUserByEmail", mock.Anything, "ana@example.com").
		Return(&domain.User{ID: 1, Email: "ana@example.com", PasswordHash: string(hash)}, nil)
	repo.On("GetUserByEmail", mock.Anything, "bob@example.com").Return(nil, domain.ErrNotFound)

	uc := newAuth(repo)
	_, err = uc.Login(context.Background(), "ana@example.com", "Errado123")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	_, err = uc.Login(context.Background(), "bob@example.com", "Segredo123")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	session, err := uc.Login(context.Background(), "ana@example.com", "Segredo123")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", session.Email)
}

func TestLogoutRevokesToken(t *testing.T) {
	uc := newAuth(&mockUserRepo{})
	session, err := uc.issue(&domain.User{ID: 3, Email: "ana@example.com"})
	require.NoError(t, err)

	require.NoError(t, uc.Logout(context.Background(), session.Token))
	_, err = uc.Verify(context.Background(), session.Token)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	assert.True(t, errors.Is(uc.Logout(context.Background(), session.Token), domain.ErrUnauthorized))
}

func TestVerifyRejectsExpiredAndForeignTokens(t *testing.T) {
	uc := newAuth(&mockUserRepo{})
	session, err := uc.issue(&domain.User{ID: 3, Email: "ana@example.com"})
	require.NoError(t, err)

	uc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = uc.Verify(context.Background(), session.Token)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	other := NewAuthUseCase(&mockUserRepo{}, "other-secret", time.Hour, quietLogger())
	_, err = other.Verify(context.Background(), session.Token)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	_, err = uc.Verify(context.Background(), "")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}
