package crypto

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// DeriveSecrets expands ikm with HKDF-SHA256 into chunks 32-byte secrets.
// A nil salt is treated as 32 zero bytes.
func DeriveSecrets(ikm, salt, info []byte, chunks int) ([][]byte, error) {
	if chunks < 1 || chunks > 3 {
		return nil, fmt.Errorf("%w: chunks must be 1..3, got %d", ErrInvalidInput, chunks)
	}
	if salt == nil {
		salt = make([]byte, sha256.Size)
	}
	if len(salt) != sha256.Size {
		return nil, fmt.Errorf("%w: salt length %d", ErrInvalidInput, len(salt))
	}
	r := hkdf.New(sha256.New, ikm, salt, info)
	out := make([][]byte, chunks)
	for i := range out {
		out[i] = make([]byte, sha256.Size)
		if _, err := io.ReadFull(r, out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}
