package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/marcusw/leadclaim/internal/auth"
	"github.com/marcusw/leadclaim/internal/models"
	"github.com/marcusw/leadclaim/pkg/httpx"
)

// EnquiryServiceInterface defines the interface for enquiry business logic
type EnquiryServiceInterface interface {
	Submit(ctx context.Context, name, email, courseInterest string) (*models.Enquiry, error)
	Claim(ctx context.Context, enquiryID, userID string) (*models.Enquiry, error)
	ListUnclaimed(ctx context.Context, params models.ListParams) ([]*models.Enquiry, *models.Pagination, error)
	ListMine(ctx context.Context, userID string, params models.ListParams) ([]*models.Enquiry, *models.Pagination, error)
}

// EnquiryHandler handles enquiry intake, listing and claiming
type EnquiryHandler struct {
	service EnquiryServiceInterface
}

// NewEnquiryHandler creates a new EnquiryHandler
func NewEnquiryHandler(service EnquiryServiceInterface) *EnquiryHandler {
	return &EnquiryHandler{service: service}
}

// CreateEnquiryRequest represents the public submission body
type CreateEnquiryRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=100"`
	Email          string `json:"email" validate:"required,email"`
	CourseInterest string `json:"courseInterest" validate:"required,min=2,max=200"`
}

// EnquiryResponse is the representation returned from intake and listings
type EnquiryResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	CourseInterest string `json:"courseInterest"`
	CreatedAt      string `json:"createdAt"`
	ClaimedAt      string `json:"claimedAt,omitempty"`
}

// ClaimantResponse is the claiming user's public identity
type ClaimantResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ClaimedEnquiryResponse is the payload for a successful claim
type ClaimedEnquiryResponse struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	CourseInterest string            `json:"courseInterest"`
	ClaimedAt      string            `json:"claimedAt"`
	ClaimedBy      *ClaimantResponse `json:"claimedBy"`
}

// EnquiryListData is the data block for listing endpoints
type EnquiryListData struct {
	Enquiries  []*EnquiryResponse `json:"enquiries"`
	Pagination *models.Pagination `json:"pagination"`
}

// Submit handles the public enquiry form
func (h *EnquiryHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req CreateEnquiryRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteBadRequest(w, "Invalid request body")
		return
	}

	if fieldErrors := ValidateRequest(req); fieldErrors != nil {
		httpx.WriteValidationErrors(w, fieldErrors)
		return
	}

	enquiry, err := h.service.Submit(r.Context(), req.Name, req.Email, req.CourseInterest)
	if err != nil {
		httpx.WriteInternalError(w, "Internal server error")
		return
	}

	httpx.WriteSuccess(w, http.StatusCreated, "Enquiry submitted successfully", map[string]interface{}{
		"enquiry": enquiryModelToResponse(enquiry, false),
	})
}

// ListUnclaimed returns unclaimed enquiries with pagination
func (h *EnquiryHandler) ListUnclaimed(w http.ResponseWriter, r *http.Request) {
	enquiries, pagination, err := h.service.ListUnclaimed(r.Context(), listParamsFromQuery(r))
	if err != nil {
		httpx.WriteInternalError(w, "Internal server error")
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, "Unclaimed enquiries retrieved successfully", &EnquiryListData{
		Enquiries:  enquiriesToResponses(enquiries, false),
		Pagination: pagination,
	})
}

// Claim claims an enquiry for the authenticated user
func (h *EnquiryHandler) Claim(w http.ResponseWriter, r *http.Request) {
	enquiryID := chi.URLParam(r, "id")
	if enquiryID == "" {
		httpx.WriteBadRequest(w, "Enquiry ID is required")
		return
	}

	user := auth.GetUserFromContext(r)
	if user == nil {
		httpx.WriteUnauthorized(w, "Access denied. No valid token provided")
		return
	}

	enquiry, err := h.service.Claim(r.Context(), enquiryID, user.ID)
	if err != nil {
		var alreadyClaimed *models.AlreadyClaimedError
		switch {
		case errors.Is(err, models.ErrNotFound):
			httpx.WriteNotFound(w, "Enquiry not found")
		case errors.As(err, &alreadyClaimed):
			httpx.WriteErrorWithData(w, http.StatusConflict, "Enquiry already claimed", map[string]string{
				"claimedBy": alreadyClaimed.ClaimantName,
			})
		default:
			httpx.WriteInternalError(w, "Internal server error")
		}
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, "Enquiry claimed successfully", map[string]interface{}{
		"enquiry": &ClaimedEnquiryResponse{
			ID:             enquiry.ID,
			Name:           enquiry.Name,
			Email:          enquiry.Email,
			CourseInterest: enquiry.CourseInterest,
			ClaimedAt:      enquiry.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
			ClaimedBy: &ClaimantResponse{
				ID:    user.ID,
				Name:  user.Name,
				Email: user.Email,
			},
		},
	})
}

// ListMine returns the authenticated user's claimed enquiries
func (h *EnquiryHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)
	if user == nil {
		httpx.WriteUnauthorized(w, "Access denied. No valid token provided")
		return
	}

	enquiries, pagination, err := h.service.ListMine(r.Context(), user.ID, listParamsFromQuery(r))
	if err != nil {
		httpx.WriteInternalError(w, "Internal server error")
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, "Your claimed enquiries retrieved successfully", &EnquiryListData{
		Enquiries:  enquiriesToResponses(enquiries, true),
		Pagination: pagination,
	})
}

// listParamsFromQuery extracts pagination and sorting from the query string.
// Unparsable numbers fall back to defaults in the service layer.
func listParamsFromQuery(r *http.Request) models.ListParams {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	return models.ListParams{
		Page:      page,
		Limit:     limit,
		SortBy:    query.Get("sortBy"),
		SortOrder: query.Get("sortOrder"),
	}
}

func enquiryModelToResponse(enquiry *models.Enquiry, withClaimedAt bool) *EnquiryResponse {
	resp := &EnquiryResponse{
		ID:             enquiry.ID,
		Name:           enquiry.Name,
		Email:          enquiry.Email,
		CourseInterest: enquiry.CourseInterest,
		CreatedAt:      enquiry.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if withClaimedAt {
		resp.ClaimedAt = enquiry.UpdatedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

func enquiriesToResponses(enquiries []*models.Enquiry, withClaimedAt bool) []*EnquiryResponse {
	responses := make([]*EnquiryResponse, len(enquiries))
	for i, enquiry := range enquiries {
		responses[i] = enquiryModelToResponse(enquiry, withClaimedAt)
	}
	return responses
}
