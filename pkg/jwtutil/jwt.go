package jwtutil

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"notes-service/pkg/config"
)

// ErrInvalidToken is returned for any token that is malformed, expired, or
// signed with a different secret. Callers get no detail beyond this; the
// claims of a rejected token are never partially trusted.
var ErrInvalidToken = errors.New("invalid or expired token")

// UserClaims represents the JWT claims for an authenticated user. TenantID
// and Role are snapshots taken at login; request handling re-reads the live
// user record, so only UserID is load-bearing for identity.
type UserClaims struct {
	UserID   uint   `json:"user_id"`
	TenantID uint   `json:"tenant_id"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// JWT issues and verifies HS256-signed identity tokens. The signing key and
// token lifetime are fixed at construction.
type JWT struct {
	secret     []byte
	expiration time.Duration
}

// New creates a JWT utility from the given configuration.
func New(cfg *config.JWTConfig) *JWT {
	return &JWT{
		secret:     []byte(cfg.SigningKey),
		expiration: time.Duration(cfg.ExpirationHours) * time.Hour,
	}
}

// GenerateToken creates a signed token embedding the user's identity with an
// expiry relative to now.
func (j *JWT) GenerateToken(userID, tenantID uint, role, email string) (string, error) {
	now := time.Now()
	claims := UserClaims{
		UserID:   userID,
		TenantID: tenantID,
		Role:     role,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// ValidateToken verifies the token's signature and expiry and returns the
// embedded claims. Any failure yields ErrInvalidToken.
func (j *JWT) ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return j.secret, nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
