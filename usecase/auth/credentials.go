package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/axsec/backend/domain"
)

// CredentialVerifier decides whether a presented secret matches an account's
// stored credential. Implementations must return ErrAuthenticationFailed on
// any mismatch so callers cannot distinguish failure causes.
type CredentialVerifier interface {
	Verify(secret, storedHash string) error
}

// MinLengthVerifier accepts any secret of at least Min characters. This is
// the demo policy inherited from the dashboard; production deployments run
// the bcrypt verifier instead.
type MinLengthVerifier struct {
	Min int
}

func (v MinLengthVerifier) Verify(secret, storedHash string) error {
	min := v.Min
	if min <= 0 {
		min = 4
	}
	if len(secret) < min {
		return domain.ErrAuthenticationFailed
	}
	return nil
}

// BcryptVerifier compares the secret against a stored bcrypt hash. Accounts
// without a stored hash never verify.
type BcryptVerifier struct{}

func (BcryptVerifier) Verify(secret, storedHash string) error {
	if storedHash == "" {
		return domain.ErrAuthenticationFailed
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(secret)); err != nil {
		return domain.ErrAuthenticationFailed
	}
	return nil
}

// HashSecret produces a bcrypt hash suitable for Account.CredentialHash.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
