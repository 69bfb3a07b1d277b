package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinBcryptCost is the lowest work factor HashPassword will use.
const MinBcryptCost = 10

var ErrEmptySecret = errors.New("secret must not be empty")

// HashPassword hashes secret with bcrypt. Costs below MinBcryptCost are raised to it.
func HashPassword(secret string, cost int) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	if cost < MinBcryptCost {
		cost = MinBcryptCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether secret matches hash. It fails closed: an
// empty or malformed hash is a mismatch.
func VerifyPassword(secret, hash string) bool {
	if hash == "" || secret == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
