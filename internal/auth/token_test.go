package auth

import (
	"testing"
	"time"

	"github.com/marcusw/leadclaim/internal/models"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret-at-least-32-characters-long"

func TestGenerateAndValidate(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	token, err := tm.Generate("user-1", "alice@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := tm.Validate(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID)
}

func TestValidate_ExpiredToken(t *testing.T) {
	tm := NewTokenManager(testSecret, -time.Minute)

	token, err := tm.Generate("user-1", "alice@example.com")
	assert.NoError(t, err)

	_, err = tm.Validate(token)
	assert.ErrorIs(t, err, models.ErrTokenExpired)
}

func TestValidate_WrongSecret(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	other := NewTokenManager("a-different-secret-also-32-characters", time.Hour)

	token, err := tm.Generate("user-1", "alice@example.com")
	assert.NoError(t, err)

	_, err = other.Validate(token)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestValidate_TamperedToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	token, err := tm.Generate("user-1", "alice@example.com")
	assert.NoError(t, err)

	_, err = tm.Validate(token + "x")
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestValidate_Garbage(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	tests := []string{"", "not-a-jwt", "a.b.c"}
	for _, token := range tests {
		_, err := tm.Validate(token)
		assert.ErrorIs(t, err, models.ErrInvalidToken)
	}
}

func TestValidate_MissingUserID(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	token, err := tm.Generate("", "alice@example.com")
	assert.NoError(t, err)

	_, err = tm.Validate(token)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}
