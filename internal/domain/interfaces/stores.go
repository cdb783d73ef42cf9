package interfaces

import domaintypes "sessionkit/internal/domain/types"

// KeyStore persists your identity key pair encrypted under a passphrase.
type KeyStore interface {
	SaveKeyPair(passphrase string, kp domaintypes.KeyPair) error
	LoadKeyPair(passphrase string) (domaintypes.KeyPair, error)
}

// SessionStore holds session records by device address.
type SessionStore interface {
	SaveSession(record domaintypes.SessionRecord) error
	LoadSession(addr domaintypes.Address) (domaintypes.SessionRecord, bool, error)
	DeleteSession(addr domaintypes.Address) error
}
