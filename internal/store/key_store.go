package store

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"

	"sessionkit/internal/domain"
)

// KeyFilename is the key file name under the store directory.
const KeyFilename = "identity.key.enc"

var (
	// ErrNotFound is returned when no key file exists yet.
	ErrNotFound = errors.New("not found")

	// ErrEmptyKeyPair is returned when asked to save a pair without keys.
	ErrEmptyKeyPair = errors.New("empty key pair")
)

// KeyFileStore persists the local identity key pair to disk.
type KeyFileStore struct {
	dir    string
	kdf    KDF
	params kdfParams
	mu     sync.Mutex
}

// NewKeyFileStore returns a KeyFileStore rooted at dir that seals new key
// files with kdf. Files written with either KDF can be read back.
func NewKeyFileStore(dir string, kdf KDF) (*KeyFileStore, error) {
	if kdf == "" {
		kdf = KDFArgon2id
	}
	params, err := defaultParams(kdf)
	if err != nil {
		return nil, err
	}
	return &KeyFileStore{dir: dir, kdf: kdf, params: params}, nil
}

// Path returns the key file location.
func (s *KeyFileStore) Path() string { return filepath.Join(s.dir, KeyFilename) }

// SaveKeyPair writes the encrypted key pair to disk.
func (s *KeyFileStore) SaveKeyPair(passphrase string, kp domain.KeyPair) error {
	if kp.IsZero() {
		return ErrEmptyKeyPair
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(kp)
	if err != nil {
		return err
	}
	ct, err := encrypt(passphrase, raw, s.kdf, s.params)
	if err != nil {
		return err
	}
	return writeFile(s.Path(), ct, 0o600)
}

// LoadKeyPair reads and decrypts the key pair.
func (s *KeyFileStore) LoadKeyPair(passphrase string) (domain.KeyPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readFile(s.Path())
	if err != nil {
		return domain.KeyPair{}, err
	}
	pt, err := decrypt(passphrase, b)
	if err != nil {
		return domain.KeyPair{}, err
	}
	var kp domain.KeyPair
	if err := json.Unmarshal(pt, &kp); err != nil {
		return domain.KeyPair{}, err
	}
	return kp, nil
}

// Compile-time assertion that KeyFileStore implements domain.KeyStore.
var _ domain.KeyStore = (*KeyFileStore)(nil)
