package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/marcusw/leadclaim/internal/database"
	"github.com/marcusw/leadclaim/internal/models"
)

// SortSpec is a resolved sort column and direction. Values are produced only
// from the service layer's allow-lists, never from raw request input.
type SortSpec struct {
	Column    string
	Direction string // "ASC" or "DESC"
}

type EnquiryRepository struct {
	pool *pgxpool.Pool
}

func NewEnquiryRepository(db *database.DB) *EnquiryRepository {
	return &EnquiryRepository{pool: db.Pool}
}

func scanEnquiryRow(scanner rowScanner) (*models.Enquiry, error) {
	var enquiry models.Enquiry
	var claimedBy *string

	err := scanner.Scan(
		&enquiry.ID, &enquiry.Name, &enquiry.Email, &enquiry.CourseInterest,
		&claimedBy, &enquiry.CreatedAt, &enquiry.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	enquiry.ClaimedBy = claimedBy
	return &enquiry, nil
}

func scanEnquiryRows(rows pgx.Rows) ([]*models.Enquiry, error) {
	defer rows.Close()

	enquiries := make([]*models.Enquiry, 0)

	for rows.Next() {
		enquiry, err := scanEnquiryRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enquiry: %w", err)
		}
		enquiries = append(enquiries, enquiry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return enquiries, nil
}

func (r *EnquiryRepository) Create(ctx context.Context, enquiry *models.Enquiry) (*models.Enquiry, error) {
	enquiry.ID = uuid.New().String()

	now := time.Now()
	enquiry.CreatedAt = now
	enquiry.UpdatedAt = now

	query := `
		INSERT INTO enquiries (id, name, email, course_interest, claimed_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULL, $5, $6)
		RETURNING id, name, email, course_interest, claimed_by, created_at, updated_at
	`

	return scanEnquiryRow(r.pool.QueryRow(ctx, query,
		enquiry.ID, enquiry.Name, enquiry.Email, enquiry.CourseInterest,
		enquiry.CreatedAt, enquiry.UpdatedAt,
	))
}

func (r *EnquiryRepository) GetByID(ctx context.Context, id string) (*models.Enquiry, error) {
	query := `
		SELECT id, name, email, course_interest, claimed_by, created_at, updated_at
		FROM enquiries WHERE id = $1
	`

	return scanEnquiryRow(r.pool.QueryRow(ctx, query, id))
}

// Claim sets claimed_by only if the row is still unclaimed at write time.
// The WHERE clause is the sole concurrency guard: of any number of
// concurrent claimants exactly one UPDATE matches the row, and the losers
// get models.ErrNotFound (zero rows) regardless of what they read earlier.
func (r *EnquiryRepository) Claim(ctx context.Context, id, userID string) (*models.Enquiry, error) {
	query := `
		UPDATE enquiries SET claimed_by = $1, updated_at = $2
		WHERE id = $3 AND claimed_by IS NULL
		RETURNING id, name, email, course_interest, claimed_by, created_at, updated_at
	`

	return scanEnquiryRow(r.pool.QueryRow(ctx, query, userID, time.Now(), id))
}

// ListUnclaimed returns a page of unclaimed enquiries plus the total
// unclaimed count.
func (r *EnquiryRepository) ListUnclaimed(ctx context.Context, sort SortSpec, limit, offset int) ([]*models.Enquiry, int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM enquiries WHERE claimed_by IS NULL`).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count unclaimed enquiries: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, email, course_interest, claimed_by, created_at, updated_at
		FROM enquiries WHERE claimed_by IS NULL
		ORDER BY %s %s LIMIT $1 OFFSET $2
	`, sort.Column, sort.Direction)

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query unclaimed enquiries: %w", err)
	}

	enquiries, err := scanEnquiryRows(rows)
	if err != nil {
		return nil, 0, err
	}

	return enquiries, count, nil
}

// ListClaimedBy returns a page of enquiries claimed by the given user plus
// the total count of that user's claims.
func (r *EnquiryRepository) ListClaimedBy(ctx context.Context, userID string, sort SortSpec, limit, offset int) ([]*models.Enquiry, int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM enquiries WHERE claimed_by = $1`, userID).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count claimed enquiries: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, email, course_interest, claimed_by, created_at, updated_at
		FROM enquiries WHERE claimed_by = $1
		ORDER BY %s %s LIMIT $2 OFFSET $3
	`, sort.Column, sort.Direction)

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query claimed enquiries: %w", err)
	}

	enquiries, err := scanEnquiryRows(rows)
	if err != nil {
		return nil, 0, err
	}

	return enquiries, count, nil
}
