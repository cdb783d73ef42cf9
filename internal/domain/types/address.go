package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// AddressDelimiter separates the name from the device id.
const AddressDelimiter = "."

// ErrInvalidAddress is returned for text that is not "<name>.<deviceId>".
var ErrInvalidAddress = errors.New("invalid address")

// Address identifies one device of an account. The name may itself contain
// dots (for example "user.name" or "123@s.whatsapp.net").
type Address struct {
	Name     string `json:"name"`
	DeviceID uint32 `json:"device_id"`
}

// NewAddress returns the address of device deviceID under name.
func NewAddress(name string, deviceID uint32) Address {
	return Address{Name: name, DeviceID: deviceID}
}

// ParseAddress splits text on its last delimiter. The trailing segment must
// be a base-10 device id.
func ParseAddress(text string) (Address, error) {
	i := strings.LastIndex(text, AddressDelimiter)
	if i < 0 {
		return Address{}, fmt.Errorf("%w: %q has no device id separator", ErrInvalidAddress, text)
	}
	id, err := strconv.ParseUint(text[i+1:], 10, 32)
	if err != nil {
		return Address{}, fmt.Errorf("%w: device id %q is not a number", ErrInvalidAddress, text[i+1:])
	}
	return Address{Name: text[:i], DeviceID: uint32(id)}, nil
}

// String formats the address as "<name>.<deviceId>".
func (a Address) String() string {
	return a.Name + AddressDelimiter + strconv.FormatUint(uint64(a.DeviceID), 10)
}

// Equal reports whether a and b name the same device.
func (a Address) Equal(b Address) bool {
	return a.Name == b.Name && a.DeviceID == b.DeviceID
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(b []byte) error {
	parsed, err := ParseAddress(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
