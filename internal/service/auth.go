package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed validity window for issued session tokens.
const TokenTTL = 24 * time.Hour

// ErrInvalidToken covers malformed, unsigned, tampered, and expired tokens.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity embedded in a session token.
type Claims struct {
	AdminID string `json:"admin_id"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService issues and verifies signed session tokens for admin users.
// Verification is purely cryptographic; resolving the claimed identity
// against the store is the auth middleware's job.
type AuthService struct {
	secret []byte
}

// NewAuthService creates an AuthService signing with the given secret. The
// caller is responsible for refusing to start without one.
func NewAuthService(secret string) *AuthService {
	return &AuthService{secret: []byte(secret)}
}

// IssueToken creates a signed HS256 token carrying the admin's identity,
// valid for the given duration.
func (s *AuthService) IssueToken(adminID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		AdminID: adminID,
		Email:   email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "siteapi",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyToken validates a token's signature and expiry and returns its
// claims. Any failure is reported as ErrInvalidToken.
func (s *AuthService) VerifyToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
