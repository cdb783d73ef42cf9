package interfaces

import (
	"context"

	domaintypes "sessionkit/internal/domain/types"
)

// Curve is the key agreement and signing contract consumed by session code.
type Curve interface {
	GenerateKeyPair() (domaintypes.KeyPair, error)
	PublicFromPrivate(priv []byte) ([]byte, error)
	ComputeAgreement(pub, priv []byte) ([]byte, error)
	Sign(priv, msg []byte) ([]byte, error)
	Verify(pub, msg, sig []byte, skipVerification bool) (bool, error)
}

// IdentityService creates, retrieves, and inspects your identity key pair.
type IdentityService interface {
	GenerateIdentity(passphrase string) (
		domaintypes.KeyPair,
		domaintypes.Fingerprint,
		error,
	)
	LoadIdentity(passphrase string) (domaintypes.KeyPair, error)
	FingerprintIdentity(passphrase string) (domaintypes.Fingerprint, error)
}

// SessionService owns per-device session records. Implementations must
// apply mutations for one address one at a time, in call order.
type SessionService interface {
	EstablishSession(
		ctx context.Context,
		addr domaintypes.Address,
		ours domaintypes.KeyPair,
		theirIdentity []byte,
		theirSignedPreKey []byte,
		signature []byte,
		trustOnFirstUse bool,
	) (domaintypes.SessionRecord, error)
	UpdateSession(
		ctx context.Context,
		addr domaintypes.Address,
		fn func(*domaintypes.SessionRecord) error,
	) (domaintypes.SessionRecord, error)
	GetSession(addr domaintypes.Address) (domaintypes.SessionRecord, bool, error)
	DeleteSession(ctx context.Context, addr domaintypes.Address) error
}
