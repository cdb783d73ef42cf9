// Package identity manages creation, encryption and loading of the local
// identity key pair.
//
// It enforces passphrase policy, generates a Curve25519 key pair, and
// persists it via the domain.KeyStore.
package identity
