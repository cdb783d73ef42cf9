package store

import (
	"sync"

	"sessionkit/internal/domain"
)

// MemorySessionStore keeps session records in memory, keyed by address.
// Records are copied in and out so callers never share backing arrays.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.Address]domain.SessionRecord
}

// NewMemorySessionStore returns an empty MemorySessionStore.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[domain.Address]domain.SessionRecord)}
}

// SaveSession stores record under record.Address.
func (s *MemorySessionStore) SaveSession(record domain.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[record.Address] = record.Clone()
	return nil
}

// LoadSession retrieves the record for addr.
func (s *MemorySessionStore) LoadSession(addr domain.Address) (domain.SessionRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.sessions[addr]
	if !ok {
		return domain.SessionRecord{}, false, nil
	}
	return record.Clone(), true, nil
}

// DeleteSession removes the record for addr, if any.
func (s *MemorySessionStore) DeleteSession(addr domain.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, addr)
	return nil
}

// Len returns the number of stored records.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Compile-time assertion that MemorySessionStore implements domain.SessionStore.
var _ domain.SessionStore = (*MemorySessionStore)(nil)
