package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/marcusw/leadclaim/internal/auth"
	"github.com/marcusw/leadclaim/internal/models"
	pkgauth "github.com/marcusw/leadclaim/pkg/auth"
	"github.com/stretchr/testify/assert"
)

func testTokenManager() *auth.TokenManager {
	return auth.NewTokenManager("test-secret-at-least-32-characters-long", time.Hour)
}

func TestRegister_CreatesUserAndToken(t *testing.T) {
	var created *models.User
	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			user.ID = "user-1"
			user.CreatedAt = time.Now()
			created = user
			return user, nil
		},
	}

	service := NewAuthService(repo, testTokenManager(), testLogger())
	resp, err := service.Register(context.Background(), "  Alice Smith  ", " Alice@Example.COM ", "Secret123")

	assert.NoError(t, err)
	assert.Equal(t, "Alice Smith", created.Name)
	assert.Equal(t, "alice@example.com", created.Email)
	assert.NotEqual(t, "Secret123", created.PasswordHash)
	assert.NoError(t, pkgauth.ComparePassword(created.PasswordHash, "Secret123"))

	assert.Equal(t, "user-1", resp.User.ID)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.Token)
}

func TestRegister_RejectsWeakPassword(t *testing.T) {
	service := NewAuthService(&MockUserRepository{}, testTokenManager(), testLogger())

	_, err := service.Register(context.Background(), "Alice", "alice@example.com", "weak")

	var policyErr *pkgauth.PasswordValidationError
	assert.ErrorAs(t, err, &policyErr)
	assert.NotEmpty(t, policyErr.Errors)
}

func TestRegister_EmailAlreadyInUse(t *testing.T) {
	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "user-1", Email: email}, nil
		},
	}

	service := NewAuthService(repo, testTokenManager(), testLogger())
	_, err := service.Register(context.Background(), "Alice", "alice@example.com", "Secret123")

	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestRegister_DuplicateRaceCaughtByUniqueIndex(t *testing.T) {
	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			return nil, models.ErrConflict
		},
	}

	service := NewAuthService(repo, testTokenManager(), testLogger())
	_, err := service.Register(context.Background(), "Alice", "alice@example.com", "Secret123")

	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestLogin_Success(t *testing.T) {
	hash, err := pkgauth.HashPassword("Secret123")
	assert.NoError(t, err)

	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			assert.Equal(t, "alice@example.com", email)
			return &models.User{
				ID:           "user-1",
				Name:         "Alice Smith",
				Email:        email,
				PasswordHash: hash,
			}, nil
		},
	}

	service := NewAuthService(repo, testTokenManager(), testLogger())
	resp, err := service.Login(context.Background(), " Alice@Example.COM ", "Secret123")

	assert.NoError(t, err)
	assert.Equal(t, "user-1", resp.User.ID)
	assert.NotEmpty(t, resp.Token)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := pkgauth.HashPassword("Secret123")
	assert.NoError(t, err)

	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "user-1", Email: email, PasswordHash: hash}, nil
		},
	}

	service := NewAuthService(repo, testTokenManager(), testLogger())
	_, err = service.Login(context.Background(), "alice@example.com", "WrongPass1")

	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
	}

	service := NewAuthService(repo, testTokenManager(), testLogger())
	_, err := service.Login(context.Background(), "nobody@example.com", "Secret123")

	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestLogin_EmptyEmail(t *testing.T) {
	service := NewAuthService(&MockUserRepository{}, testTokenManager(), testLogger())

	_, err := service.Login(context.Background(), "   ", "Secret123")

	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestLogin_RepositoryFailure(t *testing.T) {
	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, errors.New("connection reset")
		},
	}

	service := NewAuthService(repo, testTokenManager(), testLogger())
	_, err := service.Login(context.Background(), "alice@example.com", "Secret123")

	assert.ErrorIs(t, err, models.ErrInternalServer)
}
