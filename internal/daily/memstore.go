package daily

import "sync"

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu   sync.Mutex
	data map[Key][]byte
	// SaveErr, when set, is returned by every Save without storing anything.
	SaveErr error
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[Key][]byte)}
}

// Load returns a copy of the stored bytes for key.
func (s *MemoryStore) Load(key Key) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Save stores a copy of value under key.
func (s *MemoryStore) Save(key Key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	v := make([]byte, len(value))
	copy(v, value)
	s.data[key] = v
	return nil
}
