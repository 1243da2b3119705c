// Package identity issues and validates the bearer tokens that name callers
// by DID, and derives device descriptions for audit trails.
package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "vocert/pkg/domain-errors"
)

// Claims are the JWT claims carried by a caller token. The DID names the
// identity acting in the issuer, holder, or verifier role.
type Claims struct {
	DID string `json:"did"`
	jwt.RegisteredClaims
}

// TokenService mints and validates HS256 caller tokens.
type TokenService struct {
	signingKey []byte
	issuer     string
	tokenTTL   time.Duration
}

// NewTokenService constructs a token service around a shared signing key.
func NewTokenService(signingKey string, issuer string, tokenTTL time.Duration) *TokenService {
	return &TokenService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		tokenTTL:   tokenTTL,
	}
}

// Mint creates a signed token naming the given DID.
func (s *TokenService) Mint(did string) (string, error) {
	if did == "" {
		return "", dErrors.New(dErrors.CodeValidation, "did is required")
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		DID: did,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   did,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	return signed, nil
}

// Verify validates a token string and returns the DID it names.
func (s *TokenService) Verify(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "unexpected signing method")
		}
		return s.signingKey, nil
	})
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if claims.DID == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "token carries no did claim")
	}
	return claims.DID, nil
}
