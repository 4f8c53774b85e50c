// Package pin hashes and verifies operator PINs for terminal login.
package pin

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrHashingFailed = errors.New("pin hashing failed")
	ErrMismatch      = errors.New("pin mismatch")
	ErrInvalidPIN    = errors.New("invalid pin")
)

const DefaultCost = bcrypt.DefaultCost

func Hash(rawPIN string) (string, error) {
	if rawPIN == "" {
		return "", ErrInvalidPIN
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(rawPIN), DefaultCost)
	if err != nil {
		return "", ErrHashingFailed
	}

	return string(hashedBytes), nil
}

func Compare(hashedPIN, rawPIN string) error {
	if hashedPIN == "" || rawPIN == "" {
		return ErrInvalidPIN
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashedPIN), []byte(rawPIN))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return err
	}

	return nil
}
