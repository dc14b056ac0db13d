package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/marcusw/leadclaim/internal/models"
	"github.com/marcusw/leadclaim/internal/repositories"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100

	// unknownClaimant is surfaced when a claimant's user record has gone
	// missing; the conflict report must not fail because of it.
	unknownClaimant = "Unknown user"
)

// Sort field allow-lists, mapping API names to columns. Anything not in the
// map for a given listing falls back to that listing's default; raw caller
// strings are never interpolated into a query.
var (
	unclaimedSortFields = map[string]string{
		"createdAt":      "created_at",
		"name":           "name",
		"email":          "email",
		"courseInterest": "course_interest",
	}

	claimedSortFields = map[string]string{
		"updatedAt":      "updated_at",
		"createdAt":      "created_at",
		"name":           "name",
		"email":          "email",
		"courseInterest": "course_interest",
	}
)

// EnquiryRepository defines the interface for enquiry data access
type EnquiryRepository interface {
	Create(ctx context.Context, enquiry *models.Enquiry) (*models.Enquiry, error)
	GetByID(ctx context.Context, id string) (*models.Enquiry, error)
	Claim(ctx context.Context, id, userID string) (*models.Enquiry, error)
	ListUnclaimed(ctx context.Context, sort repositories.SortSpec, limit, offset int) ([]*models.Enquiry, int64, error)
	ListClaimedBy(ctx context.Context, userID string, sort repositories.SortSpec, limit, offset int) ([]*models.Enquiry, int64, error)
}

// EnquiryService orchestrates intake, listing and the claim transition
type EnquiryService struct {
	repo   EnquiryRepository
	users  UserRepository
	logger *slog.Logger
}

// NewEnquiryService creates a new EnquiryService
func NewEnquiryService(repo EnquiryRepository, users UserRepository, logger *slog.Logger) *EnquiryService {
	return &EnquiryService{
		repo:   repo,
		users:  users,
		logger: logger,
	}
}

// Submit validates nothing itself (the handler's DTO validation runs first),
// normalizes the three fields and inserts a new unclaimed enquiry.
func (s *EnquiryService) Submit(ctx context.Context, name, email, courseInterest string) (*models.Enquiry, error) {
	enquiry := &models.Enquiry{
		Name:           strings.TrimSpace(name),
		Email:          strings.ToLower(strings.TrimSpace(email)),
		CourseInterest: strings.TrimSpace(courseInterest),
	}

	created, err := s.repo.Create(ctx, enquiry)
	if err != nil {
		s.logger.Error("failed to create enquiry", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("enquiry submitted", slog.String("enquiry_id", created.ID))
	return created, nil
}

// Claim transitions an unclaimed enquiry to Claimed(userID). The conditional
// UPDATE in the repository is the only concurrency guard: if it affects zero
// rows another actor won the race, and that loss is reported exactly like
// finding the enquiry already claimed up front.
func (s *EnquiryService) Claim(ctx context.Context, enquiryID, userID string) (*models.Enquiry, error) {
	enquiry, err := s.repo.GetByID(ctx, enquiryID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get enquiry", slog.String("enquiry_id", enquiryID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if enquiry.Claimed() {
		return nil, &models.AlreadyClaimedError{ClaimantName: s.claimantName(ctx, *enquiry.ClaimedBy)}
	}

	claimed, err := s.repo.Claim(ctx, enquiryID, userID)
	if err == nil {
		s.logger.Info("enquiry claimed",
			slog.String("enquiry_id", enquiryID),
			slog.String("user_id", userID))
		return claimed, nil
	}

	if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to claim enquiry", slog.String("enquiry_id", enquiryID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	// Zero rows matched: someone else claimed between the read and the
	// write. Re-fetch to report the actual winner.
	current, err := s.repo.GetByID(ctx, enquiryID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to re-fetch enquiry after claim race", slog.String("enquiry_id", enquiryID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if current.Claimed() {
		return nil, &models.AlreadyClaimedError{ClaimantName: s.claimantName(ctx, *current.ClaimedBy)}
	}

	// Row exists and is unclaimed but the conditional write matched nothing;
	// nothing sane to report beyond an internal fault.
	s.logger.Error("claim matched zero rows on an unclaimed enquiry", slog.String("enquiry_id", enquiryID))
	return nil, models.ErrInternalServer
}

// ListUnclaimed returns a page of unclaimed enquiries with pagination metadata
func (s *EnquiryService) ListUnclaimed(ctx context.Context, params models.ListParams) ([]*models.Enquiry, *models.Pagination, error) {
	page, limit := normalizePage(params)
	sort := resolveSort(params, unclaimedSortFields, "createdAt")

	enquiries, count, err := s.repo.ListUnclaimed(ctx, sort, limit, (page-1)*limit)
	if err != nil {
		s.logger.Error("failed to list unclaimed enquiries", slog.Any("error", err))
		return nil, nil, models.ErrInternalServer
	}

	return enquiries, buildPagination(page, limit, count), nil
}

// ListMine returns a page of the user's claimed enquiries with pagination
// metadata. Default sort is updatedAt, which is the claim timestamp.
func (s *EnquiryService) ListMine(ctx context.Context, userID string, params models.ListParams) ([]*models.Enquiry, *models.Pagination, error) {
	page, limit := normalizePage(params)
	sort := resolveSort(params, claimedSortFields, "updatedAt")

	enquiries, count, err := s.repo.ListClaimedBy(ctx, userID, sort, limit, (page-1)*limit)
	if err != nil {
		s.logger.Error("failed to list claimed enquiries", slog.String("user_id", userID), slog.Any("error", err))
		return nil, nil, models.ErrInternalServer
	}

	return enquiries, buildPagination(page, limit, count), nil
}

// claimantName resolves a claimant's display name, degrading to a
// placeholder if the user record is gone.
func (s *EnquiryService) claimantName(ctx context.Context, userID string) string {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Error("failed to resolve claimant", slog.String("user_id", userID), slog.Any("error", err))
		}
		return unknownClaimant
	}
	return user.Name
}

func normalizePage(params models.ListParams) (page, limit int) {
	page = params.Page
	if page < 1 {
		page = defaultPage
	}

	limit = params.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return page, limit
}

// resolveSort maps caller sort input onto a SortSpec via the allow-list.
// Unknown fields fall back to the listing's default; any direction other
// than "asc" is descending.
func resolveSort(params models.ListParams, allowed map[string]string, defaultField string) repositories.SortSpec {
	column, ok := allowed[params.SortBy]
	if !ok {
		column = allowed[defaultField]
	}

	direction := "DESC"
	if params.SortOrder == "asc" {
		direction = "ASC"
	}

	return repositories.SortSpec{Column: column, Direction: direction}
}

func buildPagination(page, limit int, count int64) *models.Pagination {
	totalPages := int((count + int64(limit) - 1) / int64(limit))

	return &models.Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  count,
		Limit:       limit,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}
