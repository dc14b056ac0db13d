package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/marcusw/leadclaim/internal/auth"
	"github.com/marcusw/leadclaim/internal/database"
	"github.com/marcusw/leadclaim/internal/handlers"
	middlewareCustom "github.com/marcusw/leadclaim/internal/middleware"
	"github.com/marcusw/leadclaim/internal/repositories"
	"github.com/marcusw/leadclaim/internal/routes"
	"github.com/marcusw/leadclaim/internal/services"
	"github.com/marcusw/leadclaim/pkg/httpx"
)

// TestServer wraps httptest.Server with a fully wired router against a real
// database. The intake rate limit is set high so functional tests don't trip
// it; rate limiting has its own tests.
type TestServer struct {
	Server *httptest.Server
	DB     *database.DB
}

// NewTestServer initializes the complete HTTP surface backed by db
func NewTestServer(db *database.DB) *TestServer {
	logger := slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))

	userRepo := repositories.NewUserRepository(db)
	enquiryRepo := repositories.NewEnquiryRepository(db)

	tokenManager := auth.NewTokenManager("test-secret-32-characters-long-for-testing", time.Hour)

	authService := services.NewAuthService(userRepo, tokenManager, logger)
	enquiryService := services.NewEnquiryService(enquiryRepo, userRepo, logger)

	authHandler := handlers.NewAuthHandler(authService)
	enquiryHandler := handlers.NewEnquiryHandler(enquiryService)
	healthHandler := handlers.NewHealthHandler(db)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: "test"}))
	r.Use(middlewareCustom.Recovery(logger))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	intakeLimit := middlewareCustom.RateLimitConfig{
		Requests: 1000,
		Window:   time.Minute,
		Message:  "Too many enquiry submissions. Please try again after a minute.",
	}
	routes.RegisterRoutes(r, authHandler, enquiryHandler, healthHandler, tokenManager, userRepo, intakeLimit)

	return &TestServer{
		Server: httptest.NewServer(r),
		DB:     db,
	}
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	if ts.Server != nil {
		ts.Server.Close()
	}
}

// Request makes an HTTP request to the test server
func (ts *TestServer) Request(method, path string, body interface{}, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return http.DefaultClient.Do(req)
}

// RequestWithAuth makes an authenticated HTTP request with a bearer token
func (ts *TestServer) RequestWithAuth(method, path, token string, body interface{}) (*http.Response, error) {
	return ts.Request(method, path, body, map[string]string{
		"Authorization": "Bearer " + token,
	})
}

// ParseEnvelope decodes the response body into the standard envelope
func ParseEnvelope(resp *http.Response) (*httpx.Response, error) {
	defer resp.Body.Close()

	var envelope httpx.Response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}

// jsonDecode decodes a raw (non-enveloped) response body into target
func jsonDecode(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(target)
}

// ExtractToken pulls the JWT out of a register/login response envelope
func ExtractToken(envelope *httpx.Response) string {
	data, ok := envelope.Data.(map[string]interface{})
	if !ok {
		return ""
	}
	token, _ := data["token"].(string)
	return token
}
