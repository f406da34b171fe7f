package auth

import (
	"errors"
	"fmt"
	"time"

	"delivery-ops/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims identify the session a token was issued for. The subject is the
// session user id.
type Claims struct {
	Name string          `json:"name"`
	Role models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs session tokens with an HMAC secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for user.
func (i *Issuer) Issue(user models.User) (string, error) {
	now := i.now()
	claims := Claims{
		Name: user.Name,
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("auth.Issue: %w", err)
	}
	return token, nil
}

// Parse verifies a token string and returns its claims.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("auth.Parse: invalid token")
	}
	return claims, nil
}

func (i *Issuer) Secret() []byte { return i.secret }
