package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/axrepo/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is a file-based implementation of driven.ConfigStore using TOML.
// Settings live in config.toml within the axrepo config directory.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.axrepo/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	// The file holds credentials.
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		data:     make(map[string]any),
	}

	if err := s.Load(); err != nil {
		return nil, err
	}

	return s, nil
}

// DefaultDir returns ~/.axrepo.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".axrepo"), nil
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
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

	// TOML integers are parsed as int64
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// GetFloat retrieves a numeric configuration value.
// Hand-edited files often write "10" where "10.0" is meant.
func (s *ConfigStore) GetFloat(key string) float64 {
	val, _ := s.Get(key)

	switch v := val.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
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

// Set stores a configuration value and persists immediately.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.data[key]
	s.data[key] = value
	if err := s.save(); err != nil {
		// Keep memory consistent with disk.
		if existed {
			s.data[key] = previous
		} else {
			delete(s.data, key)
		}
		return err
	}
	return nil
}

// Delete removes a key and persists immediately.
func (s *ConfigStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.save()
}

// Keys lists the stored keys in sorted order.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Save persists the current configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes the TOML file through a temp file and rename (caller must hold lock).
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.filePath), ".config-*.toml")
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	// CreateTemp already uses 0600.
	return os.Rename(tmp.Name(), s.filePath)
}

// Load reads configuration from the TOML file.
// A missing file yields an empty configuration.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = make(map[string]any)
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	loaded := make(map[string]any)
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parsing %s: %w", s.filePath, err)
	}

	s.data = flatten(loaded, "")
	return nil
}

// flatten converts tables to dot-notation keys.
// E.g., [connection] api_url = "x" becomes "connection.api_url".
func flatten(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any, len(m))

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			for k, v := range flatten(nested, fullKey) {
				result[k] = v
			}
			continue
		}
		result[fullKey] = value
	}

	return result
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
