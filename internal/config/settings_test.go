package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"SOLARSIM_ADDR", "SOLARSIM_PROFILE", "SOLARSIM_PARAMS_FILE", "SOLARSIM_STATIC_DIR",
		"SOLARSIM_CORS_ORIGINS", "API_ENV", "MQTT_BROKER", "MQTT_TOPIC_PREFIX"} {
		t.Setenv(k, "")
	}

	s := SettingsFromEnv()
	assert.Equal(t, ":8080", s.Addr)
	assert.Equal(t, "data/profile.csv", s.ProfilePath)
	assert.Equal(t, "data/params.json", s.ParamsPath)
	assert.Equal(t, []string{"*"}, s.CORSOrigins)
	assert.False(t, s.Production)
	assert.Empty(t, s.MQTTBroker)
	assert.Equal(t, "solarsim", s.MQTTTopicPrefix)
}

func TestSettingsFromEnv_Overrides(t *testing.T) {
	t.Setenv("SOLARSIM_ADDR", ":9090")
	t.Setenv("SOLARSIM_CORS_ORIGINS", "http://a.local, http://b.local,")
	t.Setenv("API_ENV", "Production")
	t.Setenv("MQTT_BROKER", "tcp://broker:1883")
	t.Setenv("MQTT_TOPIC_PREFIX", "home/solar")

	s := SettingsFromEnv()
	assert.Equal(t, ":9090", s.Addr)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, s.CORSOrigins)
	assert.True(t, s.Production)
	assert.Equal(t, "tcp://broker:1883", s.MQTTBroker)
	assert.Equal(t, "home/solar", s.MQTTTopicPrefix)
}

func TestLoadEnv_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SOLARSIM_TEST_KEY=from-file\n"), 0o644))
	t.Setenv("SOLARSIM_TEST_KEY", "")
	os.Unsetenv("SOLARSIM_TEST_KEY")

	LoadEnv(path)
	assert.Equal(t, "from-file", os.Getenv("SOLARSIM_TEST_KEY"))
}

func TestLoadEnv_MissingFileIsQuiet(t *testing.T) {
	LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
}
