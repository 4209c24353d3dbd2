package driven

// ConfigStore provides access to the connection settings file.
// Keys are flat; implementations handle persistence and type conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString returns "" if the key is missing or not a string.
	GetString(key string) string

	// GetInt returns 0 if the key is missing or not an integer.
	GetInt(key string) int

	// GetFloat accepts integer and float values.
	// Returns 0 if the key is missing or not numeric.
	GetFloat(key string) float64

	// GetBool returns false if the key is missing or not a boolean.
	GetBool(key string) bool

	// Set stores a configuration value and persists it immediately.
	Set(key string, value any) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(key string) error

	// Keys lists the stored keys in sorted order.
	Keys() []string

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
