package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrPasswordMissing is returned when no plaintext password was supplied.
	ErrPasswordMissing = errors.New("password argument is missing")
	// ErrHashMissing is returned when the stored record carries no hash.
	ErrHashMissing = errors.New("hashed password is missing")
)

// HashPassword hashes a plaintext password using bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	return HashPasswordWithCost(password, bcrypt.DefaultCost)
}

// HashPasswordWithCost hashes a plaintext password using bcrypt.
// Out of range costs fall back to bcrypt.DefaultCost.
func HashPasswordWithCost(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(hash), err
}

// CheckPasswordHash compares a plaintext password with a bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// VerifyPassword is CheckPasswordHash with explicit errors for missing input,
// so a data problem is not mistaken for a wrong password.
func VerifyPassword(password, hash string) (bool, error) {
	if password == "" {
		return false, ErrPasswordMissing
	}
	if hash == "" {
		return false, ErrHashMissing
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
