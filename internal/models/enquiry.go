package models

import (
	"time"
)

// Enquiry is a lead submitted through the public form. ClaimedBy is nil
// until a staff member claims it; once set it never changes.
type Enquiry struct {
	ID             string
	Name           string
	Email          string
	CourseInterest string
	ClaimedBy      *string
	CreatedAt      time.Time
	UpdatedAt      time.Time // doubles as the claim timestamp once claimed
}

// Claimed reports whether the enquiry has been claimed.
func (e *Enquiry) Claimed() bool {
	return e.ClaimedBy != nil
}

// ListParams carries pagination and sorting for enquiry listings.
// SortBy/SortOrder are raw caller input; the service layer resolves them
// against an allow-list before they get anywhere near a query.
type ListParams struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Pagination is the metadata block returned alongside every enquiry page.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	Limit       int   `json:"limit"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}
