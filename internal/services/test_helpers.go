package services

import (
	"context"

	"github.com/marcusw/leadclaim/internal/models"
	"github.com/marcusw/leadclaim/internal/repositories"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc    func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	CreateFunc     func(ctx context.Context, user *models.User) (*models.User, error)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetByEmailFunc(ctx, email)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc == nil {
		return user, nil
	}
	return m.CreateFunc(ctx, user)
}

// MockEnquiryRepository implements EnquiryRepository for testing
type MockEnquiryRepository struct {
	CreateFunc        func(ctx context.Context, enquiry *models.Enquiry) (*models.Enquiry, error)
	GetByIDFunc       func(ctx context.Context, id string) (*models.Enquiry, error)
	ClaimFunc         func(ctx context.Context, id, userID string) (*models.Enquiry, error)
	ListUnclaimedFunc func(ctx context.Context, sort repositories.SortSpec, limit, offset int) ([]*models.Enquiry, int64, error)
	ListClaimedByFunc func(ctx context.Context, userID string, sort repositories.SortSpec, limit, offset int) ([]*models.Enquiry, int64, error)
}

func (m *MockEnquiryRepository) Create(ctx context.Context, enquiry *models.Enquiry) (*models.Enquiry, error) {
	if m.CreateFunc == nil {
		return enquiry, nil
	}
	return m.CreateFunc(ctx, enquiry)
}

func (m *MockEnquiryRepository) GetByID(ctx context.Context, id string) (*models.Enquiry, error) {
	if m.GetByIDFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *MockEnquiryRepository) Claim(ctx context.Context, id, userID string) (*models.Enquiry, error) {
	if m.ClaimFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.ClaimFunc(ctx, id, userID)
}

func (m *MockEnquiryRepository) ListUnclaimed(ctx context.Context, sort repositories.SortSpec, limit, offset int) ([]*models.Enquiry, int64, error) {
	if m.ListUnclaimedFunc == nil {
		return []*models.Enquiry{}, 0, nil
	}
	return m.ListUnclaimedFunc(ctx, sort, limit, offset)
}

func (m *MockEnquiryRepository) ListClaimedBy(ctx context.Context, userID string, sort repositories.SortSpec, limit, offset int) ([]*models.Enquiry, int64, error) {
	if m.ListClaimedByFunc == nil {
		return []*models.Enquiry{}, 0, nil
	}
	return m.ListClaimedByFunc(ctx, userID, sort, limit, offset)
}
