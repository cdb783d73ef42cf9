package crypto

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha512"
	"fmt"

	"filippo.io/edwards25519"
	"filippo.io/edwards25519/field"
)

// SignatureBytes is the size of an XEdDSA signature.
const SignatureBytes = 64

// hash1Prefix domain-separates nonce derivation from the challenge hash:
// 0xFE followed by 31 bytes of 0xFF.
var hash1Prefix = func() []byte {
	p := bytes.Repeat([]byte{0xFF}, 32)
	p[0] = 0xFE
	return p
}()

// Sign returns an XEdDSA signature over msg made with the X25519 private
// key priv. Signatures are randomized.
func Sign(priv, msg []byte) ([]byte, error) {
	if err := validatePrivateKey(priv); err != nil {
		return nil, err
	}
	if len(msg) == 0 {
		return nil, fmt.Errorf("%w: empty message", ErrInvalidInput)
	}
	var z [64]byte
	if _, err := rand.Read(z[:]); err != nil {
		return nil, err
	}
	defer Wipe(z[:])
	return xeddsaSign(priv, msg, z[:])
}

func xeddsaSign(priv, msg, z []byte) ([]byte, error) {
	a, err := edwards25519.NewScalar().SetBytesWithClamping(priv)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	A := new(edwards25519.Point).ScalarBaseMult(a)
	pubA := A.Bytes()
	// The Edwards key must have sign bit 0 so verifiers can rebuild it from u.
	if pubA[31]&0x80 != 0 {
		a.Negate(a)
		pubA = A.Negate(A).Bytes()
	}

	h := sha512.New()
	h.Write(hash1Prefix)
	h.Write(a.Bytes())
	h.Write(msg)
	h.Write(z)
	r, err := edwards25519.NewScalar().SetUniformBytes(h.Sum(nil))
	if err != nil {
		return nil, err
	}
	R := new(edwards25519.Point).ScalarBaseMult(r).Bytes()

	h.Reset()
	h.Write(R)
	h.Write(pubA)
	h.Write(msg)
	k, err := edwards25519.NewScalar().SetUniformBytes(h.Sum(nil))
	if err != nil {
		return nil, err
	}
	s := edwards25519.NewScalar().MultiplyAdd(k, a, r)

	sig := make([]byte, 0, SignatureBytes)
	sig = append(sig, R...)
	return append(sig, s.Bytes()...), nil
}

// Verify checks an XEdDSA signature. With skipVerification set it returns
// true without looking at its arguments; this is the trust-on-first-use path.
//
// Signatures that carry the Edwards sign bit in the top bit of their last
// byte are accepted as well.
func Verify(pub, msg, sig []byte, skipVerification bool) (bool, error) {
	if skipVerification {
		return true, nil
	}
	u, err := scrubPublicKey(pub)
	if err != nil {
		return false, err
	}
	if len(msg) == 0 {
		return false, fmt.Errorf("%w: empty message", ErrInvalidInput)
	}
	if len(sig) != SignatureBytes {
		return false, fmt.Errorf("%w: length %d", ErrInvalidSignature, len(sig))
	}

	edPub, ok := edwardsFromMontgomery(u)
	if !ok {
		return false, nil
	}
	s := sig
	if sig[63]&0x80 != 0 {
		edPub[31] |= 0x80
		s = append([]byte(nil), sig...)
		s[63] &= 0x7F
	}
	return ed25519.Verify(ed25519.PublicKey(edPub), msg, s), nil
}

// edwardsFromMontgomery maps u to the Edwards y-coordinate (u-1)/(u+1) and
// encodes it with sign bit 0. Non-canonical u is rejected.
func edwardsFromMontgomery(u []byte) ([]byte, bool) {
	var mu field.Element
	if _, err := mu.SetBytes(u); err != nil {
		return nil, false
	}
	if !bytes.Equal(mu.Bytes(), u) {
		return nil, false
	}
	one := new(field.Element).One()
	den := new(field.Element).Add(&mu, one)
	if den.Equal(new(field.Element).Zero()) == 1 {
		return nil, false
	}
	num := new(field.Element).Subtract(&mu, one)
	y := new(field.Element).Multiply(num, new(field.Element).Invert(den))
	out := y.Bytes()
	out[31] &= 0x7F
	return out, true
}
