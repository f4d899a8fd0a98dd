package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/premuk420/Myslivec/internal/pkg/apperror"
)

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute)

	t.Run("Round trip keeps user id and email", func(t *testing.T) {
		token, err := m.GenerateAccessToken("user-1", "a@example.com")
		require.NoError(t, err)

		claims, err := m.ParseAndValidate(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID())
		assert.Equal(t, Issuer, claims.Issuer)
		assert.Equal(t, "a@example.com", claims.Email)
	})

	t.Run("Expired token is rejected", func(t *testing.T) {
		expired := NewJWTManager("test-secret", -time.Minute)
		token, err := expired.GenerateAccessToken("user-1", "a@example.com")
		require.NoError(t, err)

		_, err = m.ParseAndValidate(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("Foreign secret is rejected", func(t *testing.T) {
		other := NewJWTManager("other-secret", time.Minute)
		token, err := other.GenerateAccessToken("user-1", "a@example.com")
		require.NoError(t, err)

		_, err = m.ParseAndValidate(token)
		assert.Error(t, err)
	})

	t.Run("Garbage is rejected", func(t *testing.T) {
		_, err := m.ParseAndValidate("not-a-token")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestBcryptPasswordHasher(t *testing.T) {
	h := NewBcryptPasswordHasher(4)

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.NoError(t, h.Compare(hash, "correct horse"))
	assert.Error(t, h.Compare(hash, "wrong"))
}

func TestAuthRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewJWTManager("test-secret", time.Minute)

	r := gin.New()
	r.GET("/private", AuthRequired(m), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "email": GetUserEmail(c)})
	})

	do := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("Missing header", func(t *testing.T) {
		w := do("")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "auth_required", body["kind"])
	})

	t.Run("Wrong scheme", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do("Basic abc").Code)
	})

	t.Run("Invalid token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do("Bearer nope").Code)
	})

	t.Run("Valid token sets the caller", func(t *testing.T) {
		token, err := m.GenerateAccessToken("user-1", "a@example.com")
		require.NoError(t, err)

		w := do("bearer " + token)
		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "user-1", body["user_id"])
		assert.Equal(t, "a@example.com", body["email"])
	})
}

func TestAuthRequiredRunsChecks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewJWTManager("test-secret", time.Minute)
	disabled := func(_ context.Context, userID string) error {
		if userID == "gone" {
			return apperror.AuthRequired("account is disabled")
		}
		return nil
	}

	r := gin.New()
	r.GET("/private", AuthRequired(m, disabled), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for userID, want := range map[string]int{"gone": http.StatusUnauthorized, "here": http.StatusNoContent} {
		token, err := m.GenerateAccessToken(userID, userID+"@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, userID)
	}
}
