package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used in production (~250ms per hash).
const DefaultCost = 12

// maxPasswordBytes is bcrypt's input limit; longer input would be silently truncated.
const maxPasswordBytes = 72

var (
	ErrInvalidPassword = errors.New("auth: invalid password")
	ErrPasswordTooLong = fmt.Errorf("auth: password must be %d bytes or fewer", maxPasswordBytes)
)

// PasswordService hashes and verifies account passwords with bcrypt.
// The cost is a field so tests can use bcrypt.MinCost.
type PasswordService struct {
	cost int
}

// NewPasswordService returns a PasswordService with DefaultCost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: DefaultCost}
}

// NewPasswordServiceWithCost is for tests and the CLI; never go below
// DefaultCost in a server.
func NewPasswordServiceWithCost(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash returns a self-describing bcrypt hash (salt and cost embedded).
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify returns nil when plaintext matches hash and ErrInvalidPassword when
// it does not. The comparison is constant-time.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
