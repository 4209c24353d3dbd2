package memory

import (
	"sort"
	"sync"

	"github.com/custodia-labs/axrepo/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is an in-memory implementation of driven.ConfigStore for testing.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewConfigStore creates a new in-memory config store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		values: make(map[string]any),
	}
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	return val, ok
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	val, _ := s.Get(key)
	str, _ := val.(string)
	return str
}

// GetInt retrieves an integer configuration value.
func (s *ConfigStore) GetInt(key string) int {
	val, _ := s.Get(key)
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

// GetFloat retrieves a numeric configuration value.
func (s *ConfigStore) GetFloat(key string) float64 {
	val, _ := s.Get(key)
	switch v := val.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// GetBool retrieves a boolean configuration value.
func (s *ConfigStore) GetBool(key string) bool {
	val, _ := s.Get(key)
	b, _ := val.(bool)
	return b
}

// Set stores a configuration value.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Delete removes a key.
func (s *ConfigStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Keys lists the stored keys in sorted order.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Save persists the current configuration (no-op for memory store).
func (s *ConfigStore) Save() error {
	return nil
}

// Load reads configuration from storage (no-op for memory store).
func (s *ConfigStore) Load() error {
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return ":memory:"
}
