package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	maker := NewJWTMaker(secretKey, tokenTTL)

	tests := []struct {
		name     string
		username string
		userUID  string
	}{
		{
			name:     "regular user",
			username: "regular_user",
			userUID:  "9f1c2d3e-0000-4000-8000-000000000001",
		},
		{
			name:     "user with email username",
			username: "user@example.com",
			userUID:  "9f1c2d3e-0000-4000-8000-000000000002",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.username, tt.userUID)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.username, claims.Username)
			assert.Equal(t, tt.userUID, claims.UserUID)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Minute)
		})
	}
}

func TestJWTMaker_ParseToken_InvalidCases(t *testing.T) {
	maker := NewJWTMaker("test_secret_key_1234567890", 15*time.Minute)

	t.Run("garbage token", func(t *testing.T) {
		_, err := maker.ParseToken("not-a-token")
		require.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTMaker("another_secret_key", 15*time.Minute)
		token, err := other.GenerateToken("testuser", "uid")
		require.NoError(t, err)

		_, err = maker.ParseToken(token)
		require.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewJWTMaker("test_secret_key_1234567890", -time.Minute)
		token, err := expired.GenerateToken("testuser", "uid")
		require.NoError(t, err)

		_, err = maker.ParseToken(token)
		require.Error(t, err)
	})
}
