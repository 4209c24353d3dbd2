package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/axrepo/internal/core/domain"
	"github.com/custodia-labs/axrepo/internal/core/ports/driven"
	"github.com/custodia-labs/axrepo/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyAPIURL            = "api_url"
	keyManagementURL     = "management_url"
	keyWorkflowURL       = "workflow_url"
	keyUsername          = "username"
	keyPassword          = "password"
	keyClientID          = "client_id"
	keyClientSecret      = "client_secret"
	keyAOO               = "aoo"
	keyImpersonateUserID = "impersonate_user_id"
	keyRequestsPerSecond = "requests_per_second"
	keyBurst             = "burst"
	keyTimeoutSeconds    = "timeout_seconds"
	keyJournal           = "journal"
)

var stringKeys = []string{
	keyAPIURL, keyManagementURL, keyWorkflowURL,
	keyUsername, keyPassword, keyClientID, keyClientSecret, keyAOO,
}

// SettingsService manages connection settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves the current connection settings.
func (s *SettingsService) Get() (*domain.ConnectionSettings, error) {
	defaults := domain.DefaultConnectionSettings()

	settings := &domain.ConnectionSettings{
		APIURL:            s.configStore.GetString(keyAPIURL),
		ManagementURL:     s.configStore.GetString(keyManagementURL),
		WorkflowURL:       s.configStore.GetString(keyWorkflowURL),
		Username:          s.configStore.GetString(keyUsername),
		Password:          s.configStore.GetString(keyPassword),
		ClientID:          s.configStore.GetString(keyClientID),
		ClientSecret:      s.configStore.GetString(keyClientSecret),
		AOO:               s.configStore.GetString(keyAOO),
		RequestsPerSecond: s.getFloat(keyRequestsPerSecond, defaults.RequestsPerSecond),
		Burst:             s.getInt(keyBurst, defaults.Burst),
		Timeout:           time.Duration(s.getInt(keyTimeoutSeconds, int(defaults.Timeout/time.Second))) * time.Second,
		Journal:           s.getBool(keyJournal, defaults.Journal),
	}

	if _, ok := s.configStore.Get(keyImpersonateUserID); ok {
		id := int64(s.configStore.GetInt(keyImpersonateUserID))
		if id > 0 {
			settings.ImpersonateUserID = &id
		}
	}

	return settings, nil
}

// Save persists connection settings.
func (s *SettingsService) Save(settings *domain.ConnectionSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyAPIURL, settings.APIURL},
		{keyManagementURL, settings.ManagementURL},
		{keyWorkflowURL, settings.WorkflowURL},
		{keyUsername, settings.Username},
		{keyClientID, settings.ClientID},
		{keyAOO, settings.AOO},
		{keyRequestsPerSecond, settings.RequestsPerSecond},
		{keyBurst, settings.Burst},
		{keyTimeoutSeconds, int(settings.Timeout / time.Second)},
		{keyJournal, settings.Journal},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Secrets are only written when provided so an empty form never wipes them.
	if settings.Password != "" {
		if err := s.configStore.Set(keyPassword, settings.Password); err != nil {
			return fmt.Errorf("save %s: %w", keyPassword, err)
		}
	}
	if settings.ClientSecret != "" {
		if err := s.configStore.Set(keyClientSecret, settings.ClientSecret); err != nil {
			return fmt.Errorf("save %s: %w", keyClientSecret, err)
		}
	}
	if settings.ImpersonateUserID != nil {
		if err := s.configStore.Set(keyImpersonateUserID, *settings.ImpersonateUserID); err != nil {
			return fmt.Errorf("save %s: %w", keyImpersonateUserID, err)
		}
	}

	return nil
}

// Set updates a single setting by its config key.
func (s *SettingsService) Set(key, value string) error {
	key = strings.TrimSpace(strings.ToLower(key))

	for _, k := range stringKeys {
		if k == key {
			return s.configStore.Set(key, value)
		}
	}

	switch key {
	case keyImpersonateUserID, keyBurst, keyTimeoutSeconds:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative integer: %w", key, domain.ErrInvalidInput)
		}
		return s.configStore.Set(key, n)
	case keyRequestsPerSecond:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%s must be a non-negative number: %w", key, domain.ErrInvalidInput)
		}
		return s.configStore.Set(key, f)
	case keyJournal:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false: %w", key, domain.ErrInvalidInput)
		}
		return s.configStore.Set(key, b)
	default:
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}
}

// Unset removes a setting so its default applies again.
func (s *SettingsService) Unset(key string) error {
	key = strings.TrimSpace(strings.ToLower(key))
	for _, k := range s.Keys() {
		if k == key {
			return s.configStore.Delete(key)
		}
	}
	return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
}

// Path returns where settings are persisted.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// Keys lists the config keys accepted by Set.
func (s *SettingsService) Keys() []string {
	keys := append([]string{}, stringKeys...)
	return append(keys, keyImpersonateUserID, keyRequestsPerSecond, keyBurst, keyTimeoutSeconds, keyJournal)
}

func (s *SettingsService) getInt(key string, fallback int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return fallback
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, fallback bool) bool {
	if _, ok := s.configStore.Get(key); !ok {
		return fallback
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getFloat(key string, fallback float64) float64 {
	if _, ok := s.configStore.Get(key); !ok {
		return fallback
	}
	return s.configStore.GetFloat(key)
}
