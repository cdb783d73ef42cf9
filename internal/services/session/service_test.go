package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"sessionkit/internal/crypto"
	"sessionkit/internal/domain"
	"sessionkit/internal/jobqueue"
	"sessionkit/internal/services/session"
	"sessionkit/internal/store"
)

type peer struct {
	identity  domain.KeyPair
	preKey    domain.KeyPair
	signature []byte
}

// makePeer returns an identity plus a signed pre-key.
func makePeer(t *testing.T) peer {
	t.Helper()
	id, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	pk, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	sig, err := crypto.Sign(id.Private, pk.Public)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	return peer{identity: id, preKey: pk, signature: sig}
}

func newService(t *testing.T) (*session.Service, *store.MemorySessionStore) {
	t.Helper()
	st := store.NewMemorySessionStore()
	q := jobqueue.New[string]()
	return session.New(crypto.Curve25519{}, st, q, zerolog.Nop()), st
}

func TestEstablishSession_StoresRecord(t *testing.T) {
	svc, st := newService(t)
	ours, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	bob := makePeer(t)
	addr := domain.NewAddress("bob", 1)

	rec, err := svc.EstablishSession(context.Background(), addr, ours,
		bob.identity.Public, bob.preKey.Public, bob.signature, false)
	if err != nil {
		t.Fatalf("EstablishSession: %v", err)
	}
	if len(rec.RootKey) != 32 || len(rec.ChainKey) != 32 {
		t.Fatalf("unexpected key sizes root=%d chain=%d", len(rec.RootKey), len(rec.ChainKey))
	}
	if string(rec.RootKey) == string(rec.ChainKey) {
		t.Fatal("root and chain keys are identical")
	}

	got, ok, err := svc.GetSession(addr)
	if err != nil || !ok {
		t.Fatalf("GetSession = (%v, %v)", ok, err)
	}
	if string(got.RootKey) != string(rec.RootKey) {
		t.Fatal("stored root key differs")
	}
	if st.Len() != 1 {
		t.Fatalf("store has %d records, want 1", st.Len())
	}
}

func TestEstablishSession_BadSignature(t *testing.T) {
	svc, _ := newService(t)
	ours, _ := crypto.GenerateKeyPair()
	bob := makePeer(t)
	mallory := makePeer(t)
	addr := domain.NewAddress("bob", 1)

	// Pre-key signed by someone else.
	_, err := svc.EstablishSession(context.Background(), addr, ours,
		bob.identity.Public, bob.preKey.Public, mallory.signature, false)
	if !errors.Is(err, session.ErrUntrustedIdentity) {
		t.Fatalf("err = %v, want ErrUntrustedIdentity", err)
	}

	// Trust-on-first-use skips the check.
	if _, err := svc.EstablishSession(context.Background(), addr, ours,
		bob.identity.Public, bob.preKey.Public, mallory.signature, true); err != nil {
		t.Fatalf("EstablishSession(tofu): %v", err)
	}
}

func TestEstablishSession_IdentityChange(t *testing.T) {
	svc, _ := newService(t)
	ours, _ := crypto.GenerateKeyPair()
	addr := domain.NewAddress("bob", 1)

	first := makePeer(t)
	if _, err := svc.EstablishSession(context.Background(), addr, ours,
		first.identity.Public, first.preKey.Public, first.signature, false); err != nil {
		t.Fatalf("EstablishSession: %v", err)
	}

	// Same identity in bare form is not a change.
	if _, err := svc.EstablishSession(context.Background(), addr, ours,
		first.identity.Public[1:], first.preKey.Public, first.signature, false); err != nil {
		t.Fatalf("EstablishSession(bare key): %v", err)
	}

	second := makePeer(t)
	_, err := svc.EstablishSession(context.Background(), addr, ours,
		second.identity.Public, second.preKey.Public, second.signature, false)
	if !errors.Is(err, session.ErrUntrustedIdentity) {
		t.Fatalf("err = %v, want ErrUntrustedIdentity", err)
	}
}

func TestUpdateSession_SerializesPerAddress(t *testing.T) {
	svc, _ := newService(t)
	ours, _ := crypto.GenerateKeyPair()
	addrs := []domain.Address{domain.NewAddress("bob", 1), domain.NewAddress("bob", 2)}
	for _, a := range addrs {
		p := makePeer(t)
		if _, err := svc.EstablishSession(context.Background(), a, ours,
			p.identity.Public, p.preKey.Public, p.signature, false); err != nil {
			t.Fatalf("EstablishSession: %v", err)
		}
	}

	const perAddr = 200
	var wg sync.WaitGroup
	errs := make(chan error, perAddr*len(addrs))
	for _, a := range addrs {
		for i := 0; i < perAddr; i++ {
			wg.Add(1)
			go func(a domain.Address) {
				defer wg.Done()
				_, err := svc.UpdateSession(context.Background(), a, func(r *domain.SessionRecord) error {
					r.Counter++
					return nil
				})
				if err != nil {
					errs <- err
				}
			}(a)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("UpdateSession: %v", err)
	}

	for _, a := range addrs {
		rec, ok, err := svc.GetSession(a)
		if err != nil || !ok {
			t.Fatalf("GetSession(%s) = (%v, %v)", a, ok, err)
		}
		if rec.Counter != perAddr {
			t.Fatalf("%s: counter = %d, want %d (lost updates)", a, rec.Counter, perAddr)
		}
	}
}

func TestUpdateSession_Errors(t *testing.T) {
	svc, _ := newService(t)
	addr := domain.NewAddress("nobody", 9)

	_, err := svc.UpdateSession(context.Background(), addr, func(r *domain.SessionRecord) error { return nil })
	if !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}

	ours, _ := crypto.GenerateKeyPair()
	p := makePeer(t)
	if _, err := svc.EstablishSession(context.Background(), addr, ours,
		p.identity.Public, p.preKey.Public, p.signature, false); err != nil {
		t.Fatalf("EstablishSession: %v", err)
	}

	boom := errors.New("boom")
	_, err = svc.UpdateSession(context.Background(), addr, func(r *domain.SessionRecord) error {
		r.Counter = 42
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	rec, _, _ := svc.GetSession(addr)
	if rec.Counter != 0 {
		t.Fatalf("failed update was persisted: counter = %d", rec.Counter)
	}

	if err := svc.DeleteSession(context.Background(), addr); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, ok, _ := svc.GetSession(addr); ok {
		t.Fatal("session still present after delete")
	}
}
