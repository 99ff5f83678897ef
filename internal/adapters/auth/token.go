package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"crmsync/internal/domain"
)

// signupClaims are the claims a signup form backend puts in its bearer token.
type signupClaims struct {
	jwt.RegisteredClaims
	Source string `json:"source,omitempty"`
}

type jwtVerifier struct {
	secret []byte
	leeway time.Duration
}

// NewJWTVerifier returns a TokenVerifier that accepts HS256 tokens signed with secret.
// Tokens must carry an expiry; the returned subject is the token's "sub" (or "source" when sub is empty).
func NewJWTVerifier(secret string, leeway time.Duration) domain.TokenVerifier {
	return &jwtVerifier{secret: []byte(secret), leeway: leeway}
}

func (v *jwtVerifier) Verify(token string) (string, error) {
	claims := &signupClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil {
		return "", fmt.Errorf("invalid signup token: %w", err)
	}
	if !parsed.Valid {
		return "", errors.New("invalid signup token")
	}
	if claims.Subject != "" {
		return claims.Subject, nil
	}
	return claims.Source, nil
}
