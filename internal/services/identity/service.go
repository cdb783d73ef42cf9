package identity

import (
	"fmt"
	"unicode"

	"sessionkit/internal/crypto"
	"sessionkit/internal/domain"
)

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)
)

// Service manages identity key creation and access using a backing store.
//
// The identity is one Curve25519 key pair, used both for agreement and,
// through XEdDSA, for signing.
type Service struct {
	store domain.KeyStore
	curve domain.Curve
}

// New returns an identity service backed by the given store.
func New(s domain.KeyStore, c domain.Curve) *Service { return &Service{store: s, curve: c} }

// GenerateIdentity creates a new key pair, saves it encrypted with the
// passphrase, and returns it plus a short fingerprint of the public key.
func (s *Service) GenerateIdentity(
	passphrase string,
) (domain.KeyPair, domain.Fingerprint, error) {
	if !isSecurePassphrase(passphrase) {
		return domain.KeyPair{}, "", ErrWeakPassphrase
	}

	kp, err := s.curve.GenerateKeyPair()
	if err != nil {
		return domain.KeyPair{}, "", err
	}
	if err := s.store.SaveKeyPair(passphrase, kp); err != nil {
		return domain.KeyPair{}, "", err
	}
	return kp, domain.Fingerprint(crypto.Fingerprint(kp.Public)), nil
}

// LoadIdentity decrypts and returns the local key pair.
func (s *Service) LoadIdentity(passphrase string) (domain.KeyPair, error) {
	return s.store.LoadKeyPair(passphrase)
}

// FingerprintIdentity returns a short fingerprint of the local public key.
func (s *Service) FingerprintIdentity(passphrase string) (domain.Fingerprint, error) {
	kp, err := s.store.LoadKeyPair(passphrase)
	if err != nil {
		return "", err
	}
	return domain.Fingerprint(crypto.Fingerprint(kp.Public)), nil
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
