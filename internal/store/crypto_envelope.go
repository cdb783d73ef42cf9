package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"sessionkit/internal/crypto"
)

const (
	// The current supported version of the encrypted blob format stored on disk.
	keystoreFormatVersion = 1

	saltBytes = 16

	// Upper bounds on KDF costs read back from a key file.
	maxArgonTime    = 64
	maxArgonMemory  = 1 << 20 // KiB
	maxArgonThreads = 64
	maxScryptN      = 1 << 20
	maxScryptR      = 32
	maxScryptP      = 16
)

// KDF names a passphrase key-derivation function.
type KDF string

const (
	KDFArgon2id KDF = "argon2id"
	KDFScrypt   KDF = "scrypt"
)

var (
	// ErrWrongPassphrase is returned when the passphrase is incorrect or the
	// ciphertext has been modified / corrupted.
	ErrWrongPassphrase = errors.New("wrong passphrase or corrupted key file")

	// ErrUnknownKDF is returned for a KDF name this build does not support.
	ErrUnknownKDF = errors.New("unknown key derivation function")

	// ErrCorruptKeyFile is returned when a key file's header is malformed
	// or asks for KDF costs outside the accepted range.
	ErrCorruptKeyFile = errors.New("corrupt key file")
)

// kdfParams are the tunables recorded next to the ciphertext so a file
// stays readable after defaults change.
type kdfParams struct {
	// scrypt
	N int `json:"n,omitempty"`
	R int `json:"r,omitempty"`
	P int `json:"p,omitempty"`

	// argon2id
	Time    uint32 `json:"time,omitempty"`
	Memory  uint32 `json:"memory,omitempty"`
	Threads uint8  `json:"threads,omitempty"`
}

// blob is the on-disk JSON structure holding the ciphertext and KDF parameters.
type blob struct {
	V      int       `json:"v"`
	KDF    KDF       `json:"kdf"`
	Salt   []byte    `json:"salt"`
	Params kdfParams `json:"params"`
	Cipher []byte    `json:"cipher"`
}

// Tunables for key derivation.
func defaultParams(kdf KDF) (kdfParams, error) {
	switch kdf {
	case KDFArgon2id:
		return kdfParams{Time: 1, Memory: 64 * 1024, Threads: 4}, nil
	case KDFScrypt:
		return kdfParams{N: 1 << 15, R: 8, P: 1}, nil
	default:
		return kdfParams{}, fmt.Errorf("%w: %q", ErrUnknownKDF, kdf)
	}
}

// check rejects parameters the KDF would panic on or that would allocate
// without bound.
func (p kdfParams) check(kdf KDF) error {
	switch kdf {
	case KDFArgon2id:
		if p.Time < 1 || p.Time > maxArgonTime {
			return fmt.Errorf("argon2id time %d out of range", p.Time)
		}
		if p.Threads < 1 || p.Threads > maxArgonThreads {
			return fmt.Errorf("argon2id threads %d out of range", p.Threads)
		}
		if p.Memory < 8*uint32(p.Threads) || p.Memory > maxArgonMemory {
			return fmt.Errorf("argon2id memory %d KiB out of range", p.Memory)
		}
	case KDFScrypt:
		if p.N < 2 || p.N > maxScryptN || p.N&(p.N-1) != 0 {
			return fmt.Errorf("scrypt N %d is not a power of two in range", p.N)
		}
		if p.R < 1 || p.R > maxScryptR {
			return fmt.Errorf("scrypt r %d out of range", p.R)
		}
		if p.P < 1 || p.P > maxScryptP {
			return fmt.Errorf("scrypt p %d out of range", p.P)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKDF, kdf)
	}
	return nil
}

func deriveKey(passphrase string, kdf KDF, salt []byte, p kdfParams) ([]byte, error) {
	switch kdf {
	case KDFArgon2id:
		return argon2.IDKey([]byte(passphrase), salt, p.Time, p.Memory, p.Threads, chacha20poly1305.KeySize), nil
	case KDFScrypt:
		return scrypt.Key([]byte(passphrase), salt, p.N, p.R, p.P, chacha20poly1305.KeySize)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKDF, kdf)
	}
}

// encrypt derives a key from passphrase and seals raw into a JSON blob.
func encrypt(passphrase string, raw []byte, kdf KDF, params kdfParams) ([]byte, error) {
	var salt [saltBytes]byte
	if _, err := rand.Read(salt[:] /* #nosec G404 */); err != nil {
		return nil, err
	}
	key, err := deriveKey(passphrase, kdf, salt[:], params)
	if err != nil {
		return nil, err
	}
	defer crypto.Wipe(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte // zero nonce; salt-bound key guarantees uniqueness
	ct := aead.Seal(nil, nonce[:], raw, salt[:])

	return json.Marshal(blob{
		V:      keystoreFormatVersion,
		KDF:    kdf,
		Salt:   salt[:],
		Params: params,
		Cipher: ct,
	})
}

// decrypt opens the JSON blob using a key derived from passphrase.
func decrypt(passphrase string, b []byte) ([]byte, error) {
	var bl blob
	if err := json.Unmarshal(b, &bl); err != nil {
		return nil, fmt.Errorf("decode key file: %w", err)
	}
	if bl.V > keystoreFormatVersion {
		return nil, fmt.Errorf("unsupported keystore version %d", bl.V)
	}
	if len(bl.Salt) != saltBytes {
		return nil, fmt.Errorf("%w: salt is %d bytes", ErrCorruptKeyFile, len(bl.Salt))
	}
	if err := bl.Params.check(bl.KDF); err != nil {
		if errors.Is(err, ErrUnknownKDF) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrCorruptKeyFile, err)
	}

	key, err := deriveKey(passphrase, bl.KDF, bl.Salt, bl.Params)
	if err != nil {
		return nil, err
	}
	defer crypto.Wipe(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte
	pt, err := aead.Open(nil, nonce[:], bl.Cipher, bl.Salt)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}
