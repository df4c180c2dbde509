package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	manager := NewManager("test-secret", time.Hour, "prodledger-api")

	signed, err := manager.Issue("user-123", "production")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := manager.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "production", claims.Role)
	assert.Equal(t, "prodledger-api", claims.Issuer)
	assert.Equal(t, "user-123", claims.Subject)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	manager := NewManager("test-secret", -time.Minute, "prodledger-api")

	signed, err := manager.Issue("user-123", "admin")
	require.NoError(t, err)

	_, err = manager.Parse(signed)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour, "prodledger-api")
	verifier := NewManager("secret-b", time.Hour, "prodledger-api")

	signed, err := issuer.Issue("user-123", "admin")
	require.NoError(t, err)

	_, err = verifier.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	manager := NewManager("test-secret", time.Hour, "prodledger-api")

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty string", token: ""},
		{name: "not a jwt", token: "definitely-not-a-token"},
		{name: "truncated jwt", token: "eyJhbGciOiJIUzI1NiJ9.eyJ1aWQi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manager.Parse(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTTL(t *testing.T) {
	manager := NewManager("test-secret", 45*time.Minute, "prodledger-api")
	assert.Equal(t, 45*time.Minute, manager.TTL())
}
