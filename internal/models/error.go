package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Token errors are distinct so the auth gate can report a precise reason
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// AlreadyClaimedError reports a claim attempt on an enquiry that is already
// owned, carrying the current claimant's display name for the 409 payload.
type AlreadyClaimedError struct {
	ClaimantName string
}

func (e *AlreadyClaimedError) Error() string {
	return fmt.Sprintf("enquiry already claimed by %s", e.ClaimantName)
}
