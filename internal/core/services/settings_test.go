package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/axrepo/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/axrepo/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultConnectionSettings()
	assert.Equal(t, defaults.RequestsPerSecond, settings.RequestsPerSecond)
	assert.Equal(t, defaults.Burst, settings.Burst)
	assert.Equal(t, defaults.Timeout, settings.Timeout)
	assert.Equal(t, defaults.Journal, settings.Journal)
	assert.Nil(t, settings.ImpersonateUserID)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("api_url", "https://arx.example.com/api")
	_ = store.Set("username", "svc")
	_ = store.Set("requests_per_second", int64(4))
	_ = store.Set("timeout_seconds", int64(5))
	_ = store.Set("impersonate_user_id", int64(77))
	_ = store.Set("journal", false)

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, "https://arx.example.com/api", settings.APIURL)
	assert.Equal(t, "svc", settings.Username)
	assert.Equal(t, 4.0, settings.RequestsPerSecond)
	assert.Equal(t, 5*time.Second, settings.Timeout)
	require.NotNil(t, settings.ImpersonateUserID)
	assert.Equal(t, int64(77), *settings.ImpersonateUserID)
	assert.False(t, settings.Journal)
}

func TestSettingsService_Save_KeepsSecretsWhenEmpty(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("password", "old-secret")
	service := NewSettingsService(store)

	settings := domain.DefaultConnectionSettings()
	settings.APIURL = "https://arx.example.com/api"
	settings.Username = "svc"

	require.NoError(t, service.Save(&settings))

	assert.Equal(t, "old-secret", store.GetString("password"))
	assert.Equal(t, "https://arx.example.com/api", store.GetString("api_url"))
}

func TestSettingsService_Set(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NoError(t, service.Set("API_URL", "https://arx.example.com/api"))
	require.NoError(t, service.Set("burst", "3"))
	require.NoError(t, service.Set("requests_per_second", "2.5"))
	require.NoError(t, service.Set("journal", "false"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "https://arx.example.com/api", settings.APIURL)
	assert.Equal(t, 3, settings.Burst)
	assert.Equal(t, 2.5, settings.RequestsPerSecond)
	assert.False(t, settings.Journal)
}

func TestSettingsService_Set_Invalid(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	assert.True(t, errors.Is(service.Set("unknown", "x"), domain.ErrInvalidInput))
	assert.True(t, errors.Is(service.Set("burst", "-1"), domain.ErrInvalidInput))
	assert.True(t, errors.Is(service.Set("requests_per_second", "fast"), domain.ErrInvalidInput))
	assert.True(t, errors.Is(service.Set("journal", "maybe"), domain.ErrInvalidInput))
}

func TestSettingsService_Validate(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	assert.True(t, errors.Is(service.Validate(), domain.ErrInvalidInput))

	_ = store.Set("api_url", "https://arx.example.com/api")
	_ = store.Set("username", "svc")
	_ = store.Set("client_id", "app")
	assert.NoError(t, service.Validate())
}

func TestSettingsService_Keys(t *testing.T) {
	keys := NewSettingsService(memory.NewConfigStore()).Keys()
	assert.Contains(t, keys, "api_url")
	assert.Contains(t, keys, "impersonate_user_id")
	assert.Contains(t, keys, "journal")
}

func TestSettingsService_Unset(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NoError(t, service.Set("burst", "3"))
	require.NoError(t, service.Unset("burst"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBurst, settings.Burst)
	assert.True(t, errors.Is(service.Unset("nope"), domain.ErrInvalidInput))
	assert.Equal(t, ":memory:", service.Path())
}
