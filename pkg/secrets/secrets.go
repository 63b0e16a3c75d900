package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	dErrors "saasbase/pkg/domain-errors"
)

// MaxPasswordBytes is the bcrypt input limit; longer inputs are rejected, never truncated.
const MaxPasswordBytes = 72

// Generate creates a cryptographically secure random secret.
// Returns a base64-encoded string suitable for signing keys.
func Generate() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not generate secret")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Hasher hashes and verifies passwords with bcrypt at a fixed cost.
type Hasher struct {
	cost int
	// dummy is compared against when the account does not exist so a failed
	// login takes as long whether or not the email is known.
	dummy []byte
}

// NewHasher returns a Hasher. Costs outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("timing-equalization"), cost)
	if err != nil {
		panic(fmt.Sprintf("secrets: generate dummy hash: %v", err))
	}
	return &Hasher{cost: cost, dummy: dummy}
}

// Hash creates a bcrypt hash of the provided password.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", dErrors.New(dErrors.CodeValidation, "password cannot be empty")
	}
	if len(password) > MaxPasswordBytes {
		return "", dErrors.New(dErrors.CodeValidation, "password is too long")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeValidation, "password is too long")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not hash password")
	}
	return string(hashed), nil
}

// Verify checks if a plaintext password matches a bcrypt hash.
func (h *Hasher) Verify(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not verify password")
	}
	return nil
}

// Equalize burns one bcrypt comparison against a fixed hash.
func (h *Hasher) Equalize(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password)) //nolint:errcheck // result intentionally discarded
}
