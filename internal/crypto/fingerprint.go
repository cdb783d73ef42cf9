package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a short hex fingerprint of a public key.
//
// The type byte is stripped first so both public key forms print the same
// fingerprint. It hashes with SHA-256 and truncates to 10 bytes (20 hex chars).
func Fingerprint(pub []byte) string {
	if raw, err := scrubPublicKey(pub); err == nil {
		pub = raw
	}
	sum := sha256.Sum256(pub)
	return hex.EncodeToString(sum[:10])
}
