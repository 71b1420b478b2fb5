// Package passwords wraps bcrypt hashing for stored user credentials.
package passwords

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const DefaultCost = 10

// Hash derives a salted bcrypt hash from a plaintext password. It must only
// be called when a password is first set or changed; hashing an
// already-hashed value produces an unverifiable credential.
func Hash(plaintext string, cost int) ([]byte, error) {
	const op = "passwords.Hash"

	if cost == 0 {
		cost = DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return hash, nil
}

// Verify re-derives the hash from the candidate using the salt embedded in
// storedHash. A mismatch is a normal false, not an error; a malformed
// stored hash is an error.
func Verify(plaintext string, storedHash []byte) (bool, error) {
	const op = "passwords.Verify"

	err := bcrypt.CompareHashAndPassword(storedHash, []byte(plaintext))
	if err == nil {
		return true, nil
	}

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}

	return false, fmt.Errorf("%s: %w", op, err)
}
