// Package store provides persistence for sessionkit's key material and
// session records.
//
// It contains concrete implementations of the domain storage interfaces:
//   - KeyFileStore keeps the identity key pair on disk, sealed with
//     ChaCha20-Poly1305 under a passphrase-derived key (Argon2id or scrypt).
//   - MemorySessionStore keeps per-device session records in memory.
//
// All methods are concurrency-safe via internal locking.
package store
