package crypto

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/curve25519"

	"sessionkit/internal/domain"
)

const (
	// KeyBytes is the size of a raw X25519 key.
	KeyBytes = 32

	// DJBType prefixes serialized Curve25519 public keys.
	DJBType byte = 0x05
)

// GenerateKeyPair returns a fresh X25519 key pair. The private key is
// clamped per RFC 7748; the public key carries the DJBType prefix.
func GenerateKeyPair() (domain.KeyPair, error) {
	priv := make([]byte, KeyBytes)
	if _, err := rand.Read(priv); err != nil {
		return domain.KeyPair{}, err
	}
	clamp(priv)
	pub, err := PublicFromPrivate(priv)
	if err != nil {
		return domain.KeyPair{}, err
	}
	return domain.KeyPair{Public: pub, Private: priv}, nil
}

// PublicFromPrivate derives the prefixed public key for priv.
func PublicFromPrivate(priv []byte) ([]byte, error) {
	if err := validatePrivateKey(priv); err != nil {
		return nil, err
	}
	u, err := curve25519.X25519(priv, curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return prefixPublicKey(u), nil
}

// ComputeAgreement returns the 32-byte X25519 shared secret of priv and pub.
func ComputeAgreement(pub, priv []byte) ([]byte, error) {
	raw, err := scrubPublicKey(pub)
	if err != nil {
		return nil, err
	}
	if err := validatePrivateKey(priv); err != nil {
		return nil, err
	}
	secret, err := curve25519.X25519(priv, raw)
	if err != nil {
		// Low-order points yield an all-zero secret.
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return secret, nil
}

func validatePrivateKey(priv []byte) error {
	if priv == nil {
		return fmt.Errorf("%w: missing private key", ErrInvalidKey)
	}
	if len(priv) != KeyBytes {
		return fmt.Errorf("%w: private key length %d", ErrInvalidKey, len(priv))
	}
	return nil
}

// scrubPublicKey accepts a bare or DJBType-prefixed public key and returns
// the bare 32 bytes.
func scrubPublicKey(pub []byte) ([]byte, error) {
	switch {
	case len(pub) == KeyBytes:
		return pub, nil
	case len(pub) == KeyBytes+1 && pub[0] == DJBType:
		return pub[1:], nil
	default:
		return nil, fmt.Errorf("%w: public key length %d", ErrInvalidKey, len(pub))
	}
}

func prefixPublicKey(u []byte) []byte {
	out := make([]byte, 0, KeyBytes+1)
	out = append(out, DJBType)
	return append(out, u...)
}

func clamp(k []byte) {
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
}

// Curve25519 exposes the package functions as a domain.Curve.
type Curve25519 struct{}

func (Curve25519) GenerateKeyPair() (domain.KeyPair, error) { return GenerateKeyPair() }

func (Curve25519) PublicFromPrivate(priv []byte) ([]byte, error) {
	return PublicFromPrivate(priv)
}

func (Curve25519) ComputeAgreement(pub, priv []byte) ([]byte, error) {
	return ComputeAgreement(pub, priv)
}

func (Curve25519) Sign(priv, msg []byte) ([]byte, error) { return Sign(priv, msg) }

func (Curve25519) Verify(pub, msg, sig []byte, skipVerification bool) (bool, error) {
	return Verify(pub, msg, sig, skipVerification)
}

// Compile-time assertion that Curve25519 implements domain.Curve.
var _ domain.Curve = Curve25519{}
