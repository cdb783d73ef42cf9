package types

// SessionRecord is the mutable per-device session state. Mutations for one
// Address are serialized by the session service.
type SessionRecord struct {
	Address        Address `json:"address"`
	RemoteIdentity []byte  `json:"remote_identity"`
	RootKey        []byte  `json:"root_key"`
	ChainKey       []byte  `json:"chain_key"`
	Counter        uint32  `json:"counter"`
	CreatedUTC     int64   `json:"created_utc"`
	UpdatedUTC     int64   `json:"updated_utc"`
}

// Clone returns a deep copy so stored records never alias caller memory.
func (r SessionRecord) Clone() SessionRecord {
	r.RemoteIdentity = append([]byte(nil), r.RemoteIdentity...)
	r.RootKey = append([]byte(nil), r.RootKey...)
	r.ChainKey = append([]byte(nil), r.ChainKey...)
	return r
}
