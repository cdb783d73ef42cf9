package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"sessionkit/internal/crypto"
	"sessionkit/internal/domain"
	"sessionkit/internal/jobqueue"
)

// rootInfo labels HKDF output for session root and chain keys.
const rootInfo = "sessionkit-root"

var (
	// ErrNoSession indicates there is no stored session for the address.
	ErrNoSession = errors.New("no session for address")

	// ErrUntrustedIdentity is returned when the signed pre-key signature
	// does not verify, or the remote identity changed without
	// trust-on-first-use.
	ErrUntrustedIdentity = errors.New("untrusted identity")
)

// Service establishes and mutates session records.
//
// Every call that writes a record is queued behind earlier calls for the
// same address. The ctx given to a call bounds the caller's wait; once
// queued, the work runs even if the caller stops waiting.
type Service struct {
	curve  domain.Curve
	store  domain.SessionStore
	queue  *jobqueue.Scheduler[string]
	logger zerolog.Logger
	now    func() time.Time
}

// New constructs a Session Service.
func New(
	curve domain.Curve,
	store domain.SessionStore,
	queue *jobqueue.Scheduler[string],
	logger zerolog.Logger,
) *Service {
	return &Service{
		curve:  curve,
		store:  store,
		queue:  queue,
		logger: logger,
		now:    time.Now,
	}
}

// EstablishSession creates or replaces the session for addr.
//
// Steps:
//  1. Verify theirSignedPreKey was signed by theirIdentity (skipped when
//     trustOnFirstUse is set).
//  2. Refuse a changed identity for an existing session unless
//     trustOnFirstUse is set.
//  3. Agree with both remote keys and derive root and chain keys.
//  4. Persist the record.
func (s *Service) EstablishSession(
	ctx context.Context,
	addr domain.Address,
	ours domain.KeyPair,
	theirIdentity []byte,
	theirSignedPreKey []byte,
	signature []byte,
	trustOnFirstUse bool,
) (domain.SessionRecord, error) {
	return jobqueue.Do(ctx, s.queue, addr.String(), func(ctx context.Context) (domain.SessionRecord, error) {
		ok, err := s.curve.Verify(theirIdentity, theirSignedPreKey, signature, trustOnFirstUse)
		if err != nil {
			return domain.SessionRecord{}, fmt.Errorf("verify signed pre-key: %w", err)
		}
		if !ok {
			return domain.SessionRecord{}, fmt.Errorf("%w: bad signed pre-key signature for %s", ErrUntrustedIdentity, addr)
		}

		existing, found, err := s.store.LoadSession(addr)
		if err != nil {
			return domain.SessionRecord{}, err
		}
		if found && !trustOnFirstUse && !sameKey(existing.RemoteIdentity, theirIdentity) {
			return domain.SessionRecord{}, fmt.Errorf("%w: identity for %s changed", ErrUntrustedIdentity, addr)
		}

		root, chain, err := s.deriveKeys(ours, theirIdentity, theirSignedPreKey)
		if err != nil {
			return domain.SessionRecord{}, err
		}

		now := s.now().Unix()
		record := domain.SessionRecord{
			Address:        addr,
			RemoteIdentity: append([]byte(nil), theirIdentity...),
			RootKey:        root,
			ChainKey:       chain,
			CreatedUTC:     now,
			UpdatedUTC:     now,
		}
		if err := s.store.SaveSession(record); err != nil {
			return domain.SessionRecord{}, err
		}
		s.logger.Debug().
			Str("address", addr.String()).
			Str("remote", crypto.Fingerprint(theirIdentity)).
			Bool("replaced", found).
			Msg("session established")
		return record, nil
	})
}

// deriveKeys runs DH(ours, signedPreKey) and DH(ours, identity) and expands
// the concatenation into root and chain keys.
func (s *Service) deriveKeys(ours domain.KeyPair, identity, signedPreKey []byte) (root, chain []byte, err error) {
	dh1, err := s.curve.ComputeAgreement(signedPreKey, ours.Private)
	if err != nil {
		return nil, nil, fmt.Errorf("agree with signed pre-key: %w", err)
	}
	defer crypto.Wipe(dh1)
	dh2, err := s.curve.ComputeAgreement(identity, ours.Private)
	if err != nil {
		return nil, nil, fmt.Errorf("agree with identity: %w", err)
	}
	defer crypto.Wipe(dh2)

	ikm := append(append(make([]byte, 0, len(dh1)+len(dh2)), dh1...), dh2...)
	defer crypto.Wipe(ikm)
	keys, err := crypto.DeriveSecrets(ikm, nil, []byte(rootInfo), 2)
	if err != nil {
		return nil, nil, err
	}
	return keys[0], keys[1], nil
}

// UpdateSession loads the record for addr, applies fn and saves the result.
// An error from fn leaves the stored record untouched.
func (s *Service) UpdateSession(
	ctx context.Context,
	addr domain.Address,
	fn func(*domain.SessionRecord) error,
) (domain.SessionRecord, error) {
	return jobqueue.Do(ctx, s.queue, addr.String(), func(ctx context.Context) (domain.SessionRecord, error) {
		record, ok, err := s.store.LoadSession(addr)
		if err != nil {
			return domain.SessionRecord{}, err
		}
		if !ok {
			return domain.SessionRecord{}, fmt.Errorf("%w: %s", ErrNoSession, addr)
		}
		if err := fn(&record); err != nil {
			return domain.SessionRecord{}, err
		}
		record.Address = addr
		record.UpdatedUTC = s.now().Unix()
		if err := s.store.SaveSession(record); err != nil {
			return domain.SessionRecord{}, err
		}
		return record, nil
	})
}

// GetSession returns the stored record for addr.
func (s *Service) GetSession(addr domain.Address) (domain.SessionRecord, bool, error) {
	return s.store.LoadSession(addr)
}

// DeleteSession removes the record for addr after any queued work for it.
func (s *Service) DeleteSession(ctx context.Context, addr domain.Address) error {
	_, err := jobqueue.Do(ctx, s.queue, addr.String(), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.store.DeleteSession(addr)
	})
	return err
}

func sameKey(a, b []byte) bool {
	if len(a) == crypto.KeyBytes+1 {
		a = a[1:]
	}
	if len(b) == crypto.KeyBytes+1 {
		b = b[1:]
	}
	return bytes.Equal(a, b)
}

// Compile-time assertion that Service implements domain.SessionService.
var _ domain.SessionService = (*Service)(nil)
