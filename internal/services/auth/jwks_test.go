package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test JWKS server for testing
func createTestJWKSServer(t *testing.T) (*httptest.Server, *ecdsa.PrivateKey, string) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	pubKey := privateKey.PublicKey
	x := pubKey.X.Bytes()
	y := pubKey.Y.Bytes()

	// Pad to 32 bytes for P-256
	if len(x) < 32 {
		padding := make([]byte, 32-len(x))
		x = append(padding, x...)
	}
	if len(y) < 32 {
		padding := make([]byte, 32-len(y))
		y = append(padding, y...)
	}

	jwk := JWK{
		Kty: "EC",
		Kid: "test-key-1",
		Use: "sig",
		Alg: "ES256",
		Crv: "P-256",
		X:   base64.RawURLEncoding.EncodeToString(x),
		Y:   base64.RawURLEncoding.EncodeToString(y),
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(JWKS{Keys: []JWK{jwk}})
	}))

	return server, privateKey, jwk.Kid
}

func createTestToken(t *testing.T, privateKey *ecdsa.PrivateKey, kid string, claims *Claims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["kid"] = kid

	tokenString, err := token.SignedString(privateKey)
	require.NoError(t, err)
	return tokenString
}

func validClaims(sub string) *Claims {
	return &Claims{
		Sub:   sub,
		Email: sub + "@example.com",
		Role:  "authenticated",
		AppMetadata: AppMetadata{
			Permissions: []string{"sessions:read", "sessions:write"},
		},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestNewService(t *testing.T) {
	server, _, _ := createTestJWKSServer(t)
	defer server.Close()

	t.Run("valid JWKS URL", func(t *testing.T) {
		service, err := NewService(server.URL)
		assert.NoError(t, err)
		assert.NotNil(t, service)
		assert.False(t, service.devAuthEnabled)
	})

	t.Run("empty JWKS URL", func(t *testing.T) {
		service, err := NewService("")
		assert.Error(t, err)
		assert.Nil(t, service)
	})

	t.Run("unreachable JWKS URL", func(t *testing.T) {
		service, err := NewService("http://invalid-url-that-does-not-exist.local:99999")
		assert.Error(t, err)
		assert.Nil(t, service)
	})
}

func TestService_ValidateToken(t *testing.T) {
	server, privateKey, kid := createTestJWKSServer(t)
	defer server.Close()

	service, err := NewService(server.URL)
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		tokenString := createTestToken(t, privateKey, kid, validClaims("user-42"))

		claims, err := service.ValidateToken(tokenString)
		require.NoError(t, err)
		assert.Equal(t, "user-42", claims.Sub)
		assert.True(t, claims.HasPermission("sessions:read"))
	})

	t.Run("expired token", func(t *testing.T) {
		claims := validClaims("user-42")
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		tokenString := createTestToken(t, privateKey, kid, claims)

		_, err := service.ValidateToken(tokenString)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("no permissions", func(t *testing.T) {
		claims := validClaims("user-42")
		claims.AppMetadata.Permissions = nil
		tokenString := createTestToken(t, privateKey, kid, claims)

		_, err := service.ValidateToken(tokenString)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("wrong permissions", func(t *testing.T) {
		claims := validClaims("user-42")
		claims.AppMetadata.Permissions = []string{"billing:read"}
		tokenString := createTestToken(t, privateKey, kid, claims)

		_, err := service.ValidateToken(tokenString)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := service.ValidateToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unknown kid", func(t *testing.T) {
		tokenString := createTestToken(t, privateKey, "missing-kid", validClaims("user-42"))

		_, err := service.ValidateToken(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		otherKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)
		tokenString := createTestToken(t, otherKey, kid, validClaims("user-42"))

		_, err = service.ValidateToken(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestService_DevAuth(t *testing.T) {
	server, _, _ := createTestJWKSServer(t)
	defer server.Close()

	service, err := NewService(server.URL)
	require.NoError(t, err)
	service.SetDevAuth(true, "dev-secret")

	claims, err := service.ValidateToken("dev-secret")
	require.NoError(t, err)
	assert.Equal(t, "dev-user-001", claims.Sub)
	assert.True(t, claims.HasAnyPermission("sessions:admin"))

	_, err = service.ValidateToken("wrong-secret")
	assert.Error(t, err)
}

func TestGetUserInfo(t *testing.T) {
	claims := validClaims("user-7")
	info := GetUserInfo(claims)
	assert.Equal(t, "user-7", info.ID)
	assert.Equal(t, "user-7@example.com", info.Email)
	assert.Equal(t, []string{"sessions:read", "sessions:write"}, info.Permissions)
}
