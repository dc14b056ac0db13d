package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIFlow_RegisterSubmitClaim(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	testDB, err := SetupTestDatabase(ctx)
	require.NoError(t, err)
	defer testDB.Teardown(ctx)

	ts := NewTestServer(testDB.DB)
	defer ts.Close()

	// Register a staff member
	resp, err := ts.Request("POST", "/api/auth/register", map[string]string{
		"name":     "Bob Jones",
		"email":    "bob@example.com",
		"password": "Secret123",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	envelope, err := ParseEnvelope(resp)
	require.NoError(t, err)
	assert.True(t, envelope.Success)
	token := ExtractToken(envelope)
	require.NotEmpty(t, token)

	// Public enquiry intake needs no auth
	resp, err = ts.Request("POST", "/api/public/enquiries", map[string]string{
		"name":           "Alice Smith",
		"email":          "alice@example.com",
		"courseInterest": "Data Science",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	envelope, err = ParseEnvelope(resp)
	require.NoError(t, err)
	data := envelope.Data.(map[string]interface{})
	enquiry := data["enquiry"].(map[string]interface{})
	enquiryID := enquiry["id"].(string)
	require.NotEmpty(t, enquiryID)

	// Listing without a token is rejected
	resp, err = ts.Request("GET", "/api/enquiries/unclaimed", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
	resp.Body.Close()

	// The new enquiry shows up in the unclaimed listing
	resp, err = ts.RequestWithAuth("GET", "/api/enquiries/unclaimed", token, nil)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	envelope, err = ParseEnvelope(resp)
	require.NoError(t, err)
	listData := envelope.Data.(map[string]interface{})
	enquiries := listData["enquiries"].([]interface{})
	assert.Len(t, enquiries, 1)

	pagination := listData["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["totalCount"])
	assert.Equal(t, float64(1), pagination["currentPage"])

	// Claim it
	resp, err = ts.RequestWithAuth("POST", "/api/enquiries/"+enquiryID+"/claim", token, nil)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	envelope, err = ParseEnvelope(resp)
	require.NoError(t, err)
	claimData := envelope.Data.(map[string]interface{})
	claimedEnquiry := claimData["enquiry"].(map[string]interface{})
	claimedBy := claimedEnquiry["claimedBy"].(map[string]interface{})
	assert.Equal(t, "Bob Jones", claimedBy["name"])

	// A second staff member claiming gets a conflict naming the claimant
	resp, err = ts.Request("POST", "/api/auth/register", map[string]string{
		"name":     "Carol White",
		"email":    "carol@example.com",
		"password": "Secret123",
	}, nil)
	require.NoError(t, err)
	envelope, err = ParseEnvelope(resp)
	require.NoError(t, err)
	otherToken := ExtractToken(envelope)
	require.NotEmpty(t, otherToken)

	resp, err = ts.RequestWithAuth("POST", "/api/enquiries/"+enquiryID+"/claim", otherToken, nil)
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)

	envelope, err = ParseEnvelope(resp)
	require.NoError(t, err)
	assert.False(t, envelope.Success)
	assert.Equal(t, "Enquiry already claimed", envelope.Message)
	conflictData := envelope.Data.(map[string]interface{})
	assert.Equal(t, "Bob Jones", conflictData["claimedBy"])

	// It is gone from unclaimed and present in the winner's claimed listing
	resp, err = ts.RequestWithAuth("GET", "/api/enquiries/unclaimed", token, nil)
	require.NoError(t, err)
	envelope, err = ParseEnvelope(resp)
	require.NoError(t, err)
	listData = envelope.Data.(map[string]interface{})
	assert.Empty(t, listData["enquiries"])

	resp, err = ts.RequestWithAuth("GET", "/api/enquiries/claimed", token, nil)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	envelope, err = ParseEnvelope(resp)
	require.NoError(t, err)
	listData = envelope.Data.(map[string]interface{})
	enquiries = listData["enquiries"].([]interface{})
	require.Len(t, enquiries, 1)
	mine := enquiries[0].(map[string]interface{})
	assert.Equal(t, enquiryID, mine["id"])
	assert.NotEmpty(t, mine["claimedAt"])
}

func TestAPI_LoginAndDuplicateRegistration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	testDB, err := SetupTestDatabase(ctx)
	require.NoError(t, err)
	defer testDB.Teardown(ctx)

	ts := NewTestServer(testDB.DB)
	defer ts.Close()

	_, err = SeedUser(ctx, testDB.DB, "Bob Jones", "bob@example.com", "Secret123")
	require.NoError(t, err)

	// Valid login
	resp, err := ts.Request("POST", "/api/auth/login", map[string]string{
		"email":    "bob@example.com",
		"password": "Secret123",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	envelope, err := ParseEnvelope(resp)
	require.NoError(t, err)
	assert.NotEmpty(t, ExtractToken(envelope))

	// Wrong password
	resp, err = ts.Request("POST", "/api/auth/login", map[string]string{
		"email":    "bob@example.com",
		"password": "WrongPass1",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	envelope, err = ParseEnvelope(resp)
	require.NoError(t, err)
	assert.Equal(t, "Invalid email or password", envelope.Message)

	// Duplicate registration, case-insensitive on email
	resp, err = ts.Request("POST", "/api/auth/register", map[string]string{
		"name":     "Bob Again",
		"email":    "Bob@Example.com",
		"password": "Secret123",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)
	resp.Body.Close()

	// Unknown route gets an enveloped 404
	resp, err = ts.Request("GET", "/api/nope", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	envelope, err = ParseEnvelope(resp)
	require.NoError(t, err)
	assert.False(t, envelope.Success)
	assert.Equal(t, "Route not found", envelope.Message)
}

func TestAPI_Health(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	testDB, err := SetupTestDatabase(ctx)
	require.NoError(t, err)
	defer testDB.Teardown(ctx)

	ts := NewTestServer(testDB.DB)
	defer ts.Close()

	resp, err := ts.Request("GET", "/api/health", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]interface{}
	decodeErr := jsonDecode(resp, &body)
	require.NoError(t, decodeErr)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "connected", body["database"])
}
