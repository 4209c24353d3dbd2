package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/axrepo/internal/core/domain"
)

func TestConfigShowCmd(t *testing.T) {
	env := setupTestServices(t)
	_ = env.config.Set("api_url", "https://arx.example/api")
	_ = env.config.Set("password", "verysecret")

	out, err := execute("config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "https://arx.example/api")
	assert.Contains(t, out, "****cret")
	assert.NotContains(t, out, "verysecret")
	assert.Contains(t, out, "(same as API URL)")
	assert.Contains(t, out, "Incomplete:")
}

func TestConfigSetCmd(t *testing.T) {
	env := setupTestServices(t)

	out, err := execute("config", "set", "burst", "5")

	require.NoError(t, err)
	assert.Equal(t, "burst updated\n", out)
	assert.Equal(t, 5, env.config.GetInt("burst"))
}

func TestConfigSetCmd_Invalid(t *testing.T) {
	setupTestServices(t)

	_, err := execute("config", "set", "burst", "many")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = execute("config", "set", "colour", "red")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConfigUnsetCmd(t *testing.T) {
	env := setupTestServices(t)
	_ = env.config.Set("aoo", "AOO1")

	_, err := execute("config", "unset", "aoo")

	require.NoError(t, err)
	_, ok := env.config.Get("aoo")
	assert.False(t, ok)
}

func TestConfigKeysCmd(t *testing.T) {
	setupTestServices(t)

	out, err := execute("config", "keys")

	require.NoError(t, err)
	assert.Contains(t, out, "api_url")
	assert.Contains(t, out, "journal")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "(not set)", maskSecret(""))
	assert.Equal(t, "****", maskSecret("abc"))
	assert.Equal(t, "****5678", maskSecret("12345678"))
}
