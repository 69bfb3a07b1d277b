package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/upca/personnel-console/internal"
)

const issuer = "upca-console"

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	now                func() time.Time
}

// NewJWTTokenGenerator creates a new HS256 token generator. Zero TTLs fall
// back to 15 minutes and 24 hours.
func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 24 * time.Hour
	}
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
		now:                time.Now,
	}
}

func (j *JWTTokenGenerator) secretAndTTL(typ TokenType) ([]byte, time.Duration, error) {
	switch typ {
	case AccessToken:
		return j.AccessTokenSecret, j.AccessTokenTTL, nil
	case RefreshToken:
		return j.RefreshTokenSecret, j.RefreshTokenTTL, nil
	}
	return nil, 0, fmt.Errorf("unknown token type %q", typ)
}

func (j *JWTTokenGenerator) Generate(identity Identity, typ TokenType) (string, *Claims, error) {
	secret, ttl, err := j.secretAndTTL(typ)
	if err != nil {
		return "", nil, err
	}

	now := j.now()
	claims := &Claims{
		UserID: identity.ID,
		Email:  identity.Email,
		Role:   string(identity.Role),
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
			Issuer:    issuer,
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Validate checks signature, expiry and token type.
func (j *JWTTokenGenerator) Validate(tokenString string, typ TokenType) (*Claims, error) {
	secret, _, err := j.secretAndTTL(typ)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(j.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken.WithCause(err)
	}

	if claims.Type != typ || claims.UserID == "" || claims.ID == "" {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}
