package crypto_test

import (
	"bytes"
	"errors"
	"testing"

	"sessionkit/internal/crypto"
	"sessionkit/internal/domain"
)

// makeKeyPair returns a fresh prefixed key pair.
func makeKeyPair(t *testing.T) domain.KeyPair {
	t.Helper()
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	return kp
}

func TestGenerateKeyPair_Shape(t *testing.T) {
	kp := makeKeyPair(t)
	if len(kp.Private) != 32 {
		t.Fatalf("private length %d, want 32", len(kp.Private))
	}
	if len(kp.Public) != 33 || kp.Public[0] != crypto.DJBType {
		t.Fatalf("public key %x not DJB-prefixed", kp.Public)
	}
}

func TestPublicFromPrivate_MatchesGenerated(t *testing.T) {
	kp := makeKeyPair(t)
	pub, err := crypto.PublicFromPrivate(kp.Private)
	if err != nil {
		t.Fatalf("PublicFromPrivate: %v", err)
	}
	if !bytes.Equal(pub, kp.Public) {
		t.Fatalf("derived %x, generated %x", pub, kp.Public)
	}
}

func TestPublicFromPrivate_RejectsBadLength(t *testing.T) {
	for _, n := range []int{0, 31, 33, 64} {
		if _, err := crypto.PublicFromPrivate(make([]byte, n)); !errors.Is(err, crypto.ErrInvalidKey) {
			t.Fatalf("len %d: err = %v, want ErrInvalidKey", n, err)
		}
	}
	if _, err := crypto.PublicFromPrivate(nil); !errors.Is(err, crypto.ErrInvalidKey) {
		t.Fatalf("nil: err = %v, want ErrInvalidKey", err)
	}
}

func TestComputeAgreement_Symmetric(t *testing.T) {
	alice := makeKeyPair(t)
	bob := makeKeyPair(t)

	ab, err := crypto.ComputeAgreement(bob.Public, alice.Private)
	if err != nil {
		t.Fatalf("ComputeAgreement(bob, alice): %v", err)
	}
	ba, err := crypto.ComputeAgreement(alice.Public, bob.Private)
	if err != nil {
		t.Fatalf("ComputeAgreement(alice, bob): %v", err)
	}
	if !bytes.Equal(ab, ba) {
		t.Fatal("shared secrets differ")
	}
	if len(ab) != 32 {
		t.Fatalf("secret length %d, want 32", len(ab))
	}

	// The bare 32-byte form agrees with the prefixed one.
	bare, err := crypto.ComputeAgreement(bob.Public[1:], alice.Private)
	if err != nil {
		t.Fatalf("ComputeAgreement(bare): %v", err)
	}
	if !bytes.Equal(bare, ab) {
		t.Fatal("bare public key gave a different secret")
	}
}

func TestComputeAgreement_RejectsMalformedKeys(t *testing.T) {
	kp := makeKeyPair(t)

	wrongPrefix := append([]byte{0x06}, kp.Public[1:]...)
	cases := []struct {
		name      string
		pub, priv []byte
	}{
		{"short public", kp.Public[:20], kp.Private},
		{"wrong prefix", wrongPrefix, kp.Private},
		{"long public", append(append([]byte{}, kp.Public...), 0), kp.Private},
		{"short private", kp.Public, kp.Private[:31]},
		{"nil private", kp.Public, nil},
		{"low-order public", make([]byte, 32), kp.Private},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := crypto.ComputeAgreement(tc.pub, tc.priv); !errors.Is(err, crypto.ErrInvalidKey) {
				t.Fatalf("err = %v, want ErrInvalidKey", err)
			}
		})
	}
}

func TestFingerprint_IgnoresPrefix(t *testing.T) {
	kp := makeKeyPair(t)
	if crypto.Fingerprint(kp.Public) != crypto.Fingerprint(kp.Public[1:]) {
		t.Fatal("fingerprint depends on key form")
	}
	if len(crypto.Fingerprint(kp.Public)) != 20 {
		t.Fatalf("fingerprint %q, want 20 hex chars", crypto.Fingerprint(kp.Public))
	}
}

func TestDeriveSecrets(t *testing.T) {
	ikm := bytes.Repeat([]byte{0x0b}, 32)
	a, err := crypto.DeriveSecrets(ikm, nil, []byte("info"), 3)
	if err != nil {
		t.Fatalf("DeriveSecrets: %v", err)
	}
	b, err := crypto.DeriveSecrets(ikm, make([]byte, 32), []byte("info"), 2)
	if err != nil {
		t.Fatalf("DeriveSecrets: %v", err)
	}
	if len(a) != 3 || !bytes.Equal(a[0], b[0]) || !bytes.Equal(a[1], b[1]) {
		t.Fatal("nil salt should match zero salt and prefixes should agree")
	}
	if bytes.Equal(a[0], a[1]) {
		t.Fatal("chunks should differ")
	}
	if _, err := crypto.DeriveSecrets(ikm, []byte("short"), nil, 1); !errors.Is(err, crypto.ErrInvalidInput) {
		t.Fatalf("short salt: err = %v", err)
	}
	if _, err := crypto.DeriveSecrets(ikm, nil, nil, 0); !errors.Is(err, crypto.ErrInvalidInput) {
		t.Fatalf("zero chunks: err = %v", err)
	}
}

func TestWipe(t *testing.T) {
	b := []byte{1, 2, 3}
	crypto.Wipe(b)
	if !bytes.Equal(b, []byte{0, 0, 0}) {
		t.Fatalf("Wipe left %v", b)
	}
	crypto.Wipe(nil)
}
