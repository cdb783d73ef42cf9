// Package crypto is the curve adapter used by session code.
//
// Contents
//
//   - X25519 key generation and Diffie–Hellman agreement (GenerateKeyPair,
//     PublicFromPrivate, ComputeAgreement)
//   - XEdDSA signatures made and checked with the same X25519 keys (Sign,
//     Verify)
//   - HKDF-SHA256 secret derivation (DeriveSecrets)
//   - Best-effort memory wiping for sensitive byte slices (Wipe)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// # Key formats
//
// Private keys are 32 raw bytes. Public keys are produced as 33 bytes: the
// type byte 0x05 (DJBType) followed by the Montgomery u-coordinate. Every
// function that takes a public key also accepts the bare 32-byte form.
//
// # Errors
//
// Inputs are validated before any curve operation. Failures wrap one of
// ErrInvalidKey, ErrInvalidInput or ErrInvalidSignature; match them with
// errors.Is.
package crypto
