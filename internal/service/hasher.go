package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const DefaultHashCost = 10

var ErrMismatchedPassword = errors.New("password does not match")

// Hasher produces and checks salted one-way password hashes.
type Hasher interface {
	Hash(password string) ([]byte, error)
	// Compare returns ErrMismatchedPassword when password does not produce hash.
	Compare(hash []byte, password string) error
}

type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{Cost: DefaultHashCost}
}

func (h *BcryptHasher) Hash(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), h.Cost)
}

func (h *BcryptHasher) Compare(hash []byte, password string) error {
	err := bcrypt.CompareHashAndPassword(hash, []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatchedPassword
	}
	return err
}
