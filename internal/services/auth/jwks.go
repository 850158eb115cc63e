// Package auth validates bearer tokens against a JWKS endpoint. Every
// API resource is owned by the token's subject, so the validated
// subject id is the ownership key for all queries.
package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrUnauthorized = errors.New("unauthorized - missing required permissions")
	ErrJWKSFetch    = errors.New("failed to fetch JWKS")
)

// Claims represents the JWT claims carried by an access token.
type Claims struct {
	Sub   string `json:"sub"`   // User ID, the ownership key
	Email string `json:"email"` // User email
	Role  string `json:"role"`  // Provider role (authenticated, etc.)

	// Custom claims from app_metadata
	AppMetadata AppMetadata `json:"app_metadata"`

	jwt.RegisteredClaims
}

// AppMetadata contains provisioned user metadata.
type AppMetadata struct {
	Permissions []string `json:"permissions"`
	Role        string   `json:"role"`
}

// HasPermission checks if the user has a specific permission
func (c *Claims) HasPermission(permission string) bool {
	for _, p := range c.AppMetadata.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// HasAnyPermission checks if the user has any of the specified permissions
func (c *Claims) HasAnyPermission(permissions ...string) bool {
	for _, permission := range permissions {
		if c.HasPermission(permission) {
			return true
		}
	}
	return false
}

// JWK represents a JSON Web Key
type JWK struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Y   string `json:"y"`
}

// JWKS represents a JSON Web Key Set
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// Service validates bearer JWTs using a cached JWKS key set.
type Service struct {
	jwksURL        string
	keys           map[string]*ecdsa.PublicKey
	keysMutex      sync.RWMutex
	lastFetch      time.Time
	cacheDuration  time.Duration
	devAuthEnabled bool
	devAuthToken   string
}

// NewService creates a new auth service and primes the key cache.
func NewService(jwksURL string) (*Service, error) {
	if jwksURL == "" {
		return nil, fmt.Errorf("JWKS URL is required")
	}

	service := &Service{
		jwksURL:       jwksURL,
		keys:          make(map[string]*ecdsa.PublicKey),
		cacheDuration: time.Hour,
	}

	if err := service.fetchJWKS(); err != nil {
		return nil, fmt.Errorf("failed to fetch initial JWKS: %w", err)
	}

	return service, nil
}

// NewOfflineService creates an auth service with an empty key cache.
// Only the dev bypass token will validate until the JWKS endpoint
// becomes reachable and a token forces a refresh.
func NewOfflineService() *Service {
	return &Service{
		keys:          make(map[string]*ecdsa.PublicKey),
		cacheDuration: time.Hour,
	}
}

// SetDevAuth configures development authentication bypass
func (s *Service) SetDevAuth(enabled bool, token string) {
	s.devAuthEnabled = enabled
	s.devAuthToken = token
}

// fetchJWKS fetches and parses the JWKS from the URL
func (s *Service) fetchJWKS() error {
	resp, err := http.Get(s.jwksURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrJWKSFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: endpoint returned status %d", ErrJWKSFetch, resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return fmt.Errorf("failed to decode JWKS: %w", err)
	}

	s.keysMutex.Lock()
	defer s.keysMutex.Unlock()

	s.keys = make(map[string]*ecdsa.PublicKey)

	for _, jwk := range jwks.Keys {
		if jwk.Kty == "EC" && jwk.Alg == "ES256" {
			pubKey, err := parseECKey(jwk)
			if err != nil {
				continue // Skip invalid keys
			}
			s.keys[jwk.Kid] = pubKey
		}
	}

	s.lastFetch = time.Now()
	return nil
}

// parseECKey converts a JWK to an ECDSA public key
func parseECKey(jwk JWK) (*ecdsa.PublicKey, error) {
	xBytes, err := base64.RawURLEncoding.DecodeString(jwk.X)
	if err != nil {
		return nil, fmt.Errorf("failed to decode X coordinate: %w", err)
	}

	yBytes, err := base64.RawURLEncoding.DecodeString(jwk.Y)
	if err != nil {
		return nil, fmt.Errorf("failed to decode Y coordinate: %w", err)
	}

	return &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(xBytes),
		Y:     new(big.Int).SetBytes(yBytes),
	}, nil
}

// getPublicKey retrieves a public key by kid, refreshing JWKS if necessary
func (s *Service) getPublicKey(kid string) (*ecdsa.PublicKey, error) {
	s.keysMutex.RLock()
	key, exists := s.keys[kid]
	shouldRefresh := time.Since(s.lastFetch) > s.cacheDuration
	s.keysMutex.RUnlock()

	if !exists || shouldRefresh {
		if err := s.fetchJWKS(); err != nil {
			return nil, fmt.Errorf("failed to refresh JWKS: %w", err)
		}

		s.keysMutex.RLock()
		key, exists = s.keys[kid]
		s.keysMutex.RUnlock()
	}

	if !exists {
		return nil, fmt.Errorf("key with id %s not found", kid)
	}

	return key, nil
}

// ValidateToken validates a bearer JWT and returns the claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	// Check if it's the dev token first
	if s.devAuthEnabled && s.devAuthToken != "" &&
		subtle.ConstantTimeCompare([]byte(tokenString), []byte(s.devAuthToken)) == 1 {
		return s.GetDevClaims(), nil
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("no kid found in token header")
		}

		return s.getPublicKey(kid)
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		// Only manually provisioned users get permissions; everyone
		// else is denied even with a valid signature
		if len(claims.AppMetadata.Permissions) == 0 {
			return nil, ErrUnauthorized
		}

		if !claims.HasAnyPermission("sessions:read", "sessions:write", "sessions:admin") {
			return nil, ErrUnauthorized
		}

		return claims, nil
	}

	return nil, ErrInvalidToken
}

// GetDevClaims returns fixed claims for development mode
func (s *Service) GetDevClaims() *Claims {
	return &Claims{
		Sub:   "dev-user-001",
		Email: "dev@meliora.local",
		Role:  "authenticated",
		AppMetadata: AppMetadata{
			Permissions: []string{"sessions:read", "sessions:write", "sessions:admin"},
			Role:        "admin",
		},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(365 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
}

// UserInfo represents public user information
type UserInfo struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions"`
	Role        string   `json:"role"`
}

// GetUserInfo extracts user info from claims
func GetUserInfo(claims *Claims) *UserInfo {
	return &UserInfo{
		ID:          claims.Sub,
		Email:       claims.Email,
		Permissions: claims.AppMetadata.Permissions,
		Role:        claims.AppMetadata.Role,
	}
}
