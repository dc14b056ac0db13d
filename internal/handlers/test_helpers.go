package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/marcusw/leadclaim/internal/auth"
	"github.com/marcusw/leadclaim/internal/models"
	"github.com/marcusw/leadclaim/internal/services"
	"github.com/marcusw/leadclaim/pkg/httpx"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAuthContext attaches an authenticated user to the request context
func WithAuthContext(req *http.Request, user *models.User) *http.Request {
	ctx := context.WithValue(req.Context(), auth.UserContextKey, user)
	return req.WithContext(ctx)
}

// WithChiRouteContext adds chi URL parameters to request context for testing
func WithChiRouteContext(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// AssertEnvelope checks status and decodes the response envelope
func AssertEnvelope(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedSuccess bool) httpx.Response {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp httpx.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode response envelope")
	assert.Equal(t, expectedSuccess, resp.Success)
	assert.NotEmpty(t, resp.Message)

	return resp
}

// DataField re-decodes the envelope's data block into target
func DataField(t *testing.T, resp httpx.Response, target interface{}) {
	raw, err := json.Marshal(resp.Data)
	assert.NoError(t, err)
	assert.NoError(t, json.Unmarshal(raw, target))
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	RegisterFunc func(ctx context.Context, name, email, password string) (*services.AuthResponse, error)
	LoginFunc    func(ctx context.Context, email, password string) (*services.AuthResponse, error)
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (*services.AuthResponse, error) {
	if m.RegisterFunc == nil {
		return nil, models.ErrConflict
	}
	return m.RegisterFunc(ctx, name, email, password)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*services.AuthResponse, error) {
	if m.LoginFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.LoginFunc(ctx, email, password)
}

// MockEnquiryService implements EnquiryServiceInterface for testing
type MockEnquiryService struct {
	SubmitFunc        func(ctx context.Context, name, email, courseInterest string) (*models.Enquiry, error)
	ClaimFunc         func(ctx context.Context, enquiryID, userID string) (*models.Enquiry, error)
	ListUnclaimedFunc func(ctx context.Context, params models.ListParams) ([]*models.Enquiry, *models.Pagination, error)
	ListMineFunc      func(ctx context.Context, userID string, params models.ListParams) ([]*models.Enquiry, *models.Pagination, error)
}

func (m *MockEnquiryService) Submit(ctx context.Context, name, email, courseInterest string) (*models.Enquiry, error) {
	if m.SubmitFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.SubmitFunc(ctx, name, email, courseInterest)
}

func (m *MockEnquiryService) Claim(ctx context.Context, enquiryID, userID string) (*models.Enquiry, error) {
	if m.ClaimFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.ClaimFunc(ctx, enquiryID, userID)
}

func (m *MockEnquiryService) ListUnclaimed(ctx context.Context, params models.ListParams) ([]*models.Enquiry, *models.Pagination, error) {
	if m.ListUnclaimedFunc == nil {
		return []*models.Enquiry{}, &models.Pagination{}, nil
	}
	return m.ListUnclaimedFunc(ctx, params)
}

func (m *MockEnquiryService) ListMine(ctx context.Context, userID string, params models.ListParams) ([]*models.Enquiry, *models.Pagination, error) {
	if m.ListMineFunc == nil {
		return []*models.Enquiry{}, &models.Pagination{}, nil
	}
	return m.ListMineFunc(ctx, userID, params)
}
