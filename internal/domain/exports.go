package domain

import (
	interfaces "sessionkit/internal/domain/interfaces"
	types "sessionkit/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Fingerprint   = types.Fingerprint
	KeyPair       = types.KeyPair
	Address       = types.Address
	SessionRecord = types.SessionRecord
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	Curve           = interfaces.Curve
	IdentityService = interfaces.IdentityService
	SessionService  = interfaces.SessionService
	KeyStore        = interfaces.KeyStore
	SessionStore    = interfaces.SessionStore
)

// ErrInvalidAddress is returned by ParseAddress for malformed text.
var ErrInvalidAddress = types.ErrInvalidAddress

// ParseAddress parses "<name>.<deviceId>".
func ParseAddress(text string) (Address, error) { return types.ParseAddress(text) }

// NewAddress returns the address of deviceID under name.
func NewAddress(name string, deviceID uint32) Address { return types.NewAddress(name, deviceID) }
