package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every verification failure. Expired,
// tampered and malformed tokens are deliberately indistinguishable so the
// response cannot be used as a verification oracle.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload carried by an access token: the user's identifier
// as the registered subject plus denormalized profile fields.
type Claims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	Username string `json:"username"`
}

// TokenService issues and verifies HMAC-SHA256 signed access tokens. The
// secret and default lifetime are fixed at construction; the service holds
// no other state and is safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	return &TokenService{secret: secret, ttl: ttl}
}

// Issue signs a token for the given identity using the default lifetime.
func (s *TokenService) Issue(subject, email, username string) (string, error) {
	return s.IssueWithTTL(subject, email, username, s.ttl)
}

// IssueWithTTL signs a token whose expiry is now + ttl.
func (s *TokenService) IssueWithTTL(subject, email, username string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		Email:    email,
		Username: username,
	})

	return token.SignedString(s.secret)
}

// Verify decodes and validates a token string, returning its claims.
// Any failure (bad signature, malformed encoding, expiry) is reported as
// ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
