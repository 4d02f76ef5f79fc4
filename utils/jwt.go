package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type JWTclaims struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
	jwt.RegisteredClaims
}

var ErrJWTSecretMissing = errors.New("jwt secret is not configured")

var (
	jwtSecret []byte
	jwtTTL    = 15 * time.Minute
)

// InitJWT replaces the signing secret and token lifetime.
func InitJWT(secret string, ttl time.Duration) {
	if secret != "" {
		jwtSecret = []byte(secret)
	}
	if ttl > 0 {
		jwtTTL = ttl
	}
}

func GenerateJWT(email, provider string, id uint) (string, time.Time, error) {
	if len(jwtSecret) == 0 {
		return "", time.Time{}, ErrJWTSecretMissing
	}
	expiresAt := time.Now().Add(jwtTTL)
	claims := JWTclaims{
		UserID:   id,
		Email:    email,
		Provider: provider,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func ParseJWT(tokenstring string) (*JWTclaims, error) {
	if len(jwtSecret) == 0 {
		return nil, ErrJWTSecretMissing
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenstring, &JWTclaims{}, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTclaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
