package types

// KeyPair is a Curve25519 key pair. Public carries the 0x05 type byte
// (33 bytes); Private is the raw 32-byte scalar.
type KeyPair struct {
	Public  []byte `json:"public"`
	Private []byte `json:"private"`
}

// IsZero reports whether the pair holds no key material.
func (k KeyPair) IsZero() bool { return len(k.Public) == 0 && len(k.Private) == 0 }
