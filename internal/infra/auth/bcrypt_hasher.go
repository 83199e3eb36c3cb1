// Package auth provides concrete implementations for authentication-related
// domain services.
package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"pepre/internal/domain/service"
)

// bcryptPrefix marks a well-formed bcrypt digest ("$2a$", "$2b$", ...).
// Anything else stored in a password field is treated as a verification
// failure, not a system fault.
const bcryptPrefix = "$2"

// bcryptHasher is a concrete implementation of the PasswordHasher interface
// using bcrypt.
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher is the constructor for bcryptHasher with the default cost.
func NewBcryptHasher() service.PasswordHasher {
	return &bcryptHasher{cost: bcrypt.DefaultCost}
}

// NewBcryptHasherWithCost builds a hasher with an explicit cost factor.
// Costs outside bcrypt's valid range fall back to the default.
func NewBcryptHasherWithCost(cost int) service.PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &bcryptHasher{cost: cost}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt draws a fresh random salt per call, so equal plaintexts produce
// different digests.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)

	return string(bytes), err
}

// Check compares a plaintext password with a bcrypt hash. Malformed digests
// (missing the bcrypt marker) and mismatches both report false.
func (h *bcryptHasher) Check(password, hash string) bool {
	if !strings.HasPrefix(hash, bcryptPrefix) {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
