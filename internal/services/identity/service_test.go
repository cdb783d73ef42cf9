package identity_test

import (
	"bytes"
	"errors"
	"testing"

	"sessionkit/internal/crypto"
	"sessionkit/internal/services/identity"
	"sessionkit/internal/store"
)

const strongPassphrase = "Correct-Horse-9-Battery"

func newService(t *testing.T) *identity.Service {
	t.Helper()
	ks, err := store.NewKeyFileStore(t.TempDir(), store.KDFScrypt)
	if err != nil {
		t.Fatalf("NewKeyFileStore: %v", err)
	}
	return identity.New(ks, crypto.Curve25519{})
}

func TestGenerateIdentity_PersistsKeyPair(t *testing.T) {
	svc := newService(t)

	kp, fp, err := svc.GenerateIdentity(strongPassphrase)
	if err != nil {
		t.Fatalf("GenerateIdentity: %v", err)
	}
	if fp.String() != crypto.Fingerprint(kp.Public) {
		t.Fatalf("fingerprint %q does not match key", fp)
	}

	loaded, err := svc.LoadIdentity(strongPassphrase)
	if err != nil {
		t.Fatalf("LoadIdentity: %v", err)
	}
	if !bytes.Equal(loaded.Private, kp.Private) {
		t.Fatal("loaded key differs from generated key")
	}

	again, err := svc.FingerprintIdentity(strongPassphrase)
	if err != nil || again != fp {
		t.Fatalf("FingerprintIdentity = (%q, %v), want %q", again, err, fp)
	}
}

func TestGenerateIdentity_WeakPassphrase(t *testing.T) {
	svc := newService(t)
	for _, p := range []string{"short", "alllowercase123!", "NoDigitsHere!!", "NoSymbols12345"} {
		if _, _, err := svc.GenerateIdentity(p); !errors.Is(err, identity.ErrWeakPassphrase) {
			t.Fatalf("%q: err = %v, want ErrWeakPassphrase", p, err)
		}
	}
}
