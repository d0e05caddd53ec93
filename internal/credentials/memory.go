package credentials

import "sync"

// MemoryStore keeps secrets for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	secrets map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{secrets: make(map[string]string)}
}

func memoryKey(service, key string) string {
	return service + "\x00" + key
}

func (s *MemoryStore) Get(service, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	secret, ok := s.secrets[memoryKey(service, key)]
	if !ok {
		return "", ErrNotFound
	}
	return secret, nil
}

func (s *MemoryStore) Set(service, key, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[memoryKey(service, key)] = secret
	return nil
}

func (s *MemoryStore) Delete(service, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := memoryKey(service, key)
	if _, ok := s.secrets[k]; !ok {
		return ErrNotFound
	}
	delete(s.secrets, k)
	return nil
}
