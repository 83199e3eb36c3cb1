// Package password implements the initial-password policies for entity
// types whose credentials are assigned by the service.
package password

import (
	"crypto/rand"
	"math/big"

	"pepre/internal/domain/service"
	"pepre/internal/errors"
)

const (
	lowercase    = "abcdefghijklmnopqrstuvwxyz"
	uppercase    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits       = "0123456789"
	specialChars = "@$*-"

	// minGeneratedLength leaves room for the one-of-each requirement.
	minGeneratedLength = 4

	// DefaultGeneratedLength matches the original registry's convention.
	DefaultGeneratedLength = 8
)

// fixedPolicy hands out one constant password for every assignment.
type fixedPolicy struct {
	value string
}

// NewFixedPolicy builds a policy returning the given constant. This mirrors
// the legacy registry behavior where every new employee starts with the same
// well-known password.
func NewFixedPolicy(value string) service.InitialPasswordPolicy {
	return &fixedPolicy{value: value}
}

func (p *fixedPolicy) NewPassword() (string, error) {
	return p.value, nil
}

// generatedPolicy produces a fresh random password per assignment with
// exactly one uppercase letter, one digit and one special character from
// @$*-, lowercase elsewhere.
type generatedPolicy struct {
	length int
}

// NewGeneratedPolicy builds a random-password policy of the given length.
func NewGeneratedPolicy(length int) service.InitialPasswordPolicy {
	if length < minGeneratedLength {
		length = DefaultGeneratedLength
	}

	return &generatedPolicy{length: length}
}

func (p *generatedPolicy) NewPassword() (string, error) {
	chars := make([]byte, 0, p.length)

	for _, set := range []string{uppercase, digits, specialChars} {
		c, err := pickChar(set)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	for len(chars) < p.length {
		c, err := pickChar(lowercase)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	if err := shuffle(chars); err != nil {
		return "", err
	}

	return string(chars), nil
}

func pickChar(set string) (byte, error) {
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, errors.Wrap(err, "failed to draw random character")
	}

	return set[idx.Int64()], nil
}

// shuffle randomizes character positions so the mandatory classes are not
// always at the front (Fisher-Yates over crypto/rand).
func shuffle(chars []byte) error {
	for i := len(chars) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return errors.Wrap(err, "failed to draw shuffle index")
		}
		chars[i], chars[j.Int64()] = chars[j.Int64()], chars[i]
	}

	return nil
}
