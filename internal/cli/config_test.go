package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castkit-project/castkit/pkg/config"
)

func TestConfigCommand_ShowDefaults(t *testing.T) {
	home := setupConfigHome(t)

	stdout, _, err := executeCommand("", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# Location: "+filepath.Join(home, "config.yaml"))
	assert.Contains(t, stdout, "server.url: https://asciinema.org\n")
	assert.Contains(t, stdout, "convert.speed: 1\n")
	assert.Contains(t, stdout, "logging.level: warn\n")
}

func TestConfigCommand_SetThenGet(t *testing.T) {
	home := setupConfigHome(t)

	stdout, _, err := executeCommand("", "config", "set", "convert.idle_time_limit", "2.5")
	require.NoError(t, err)
	assert.Equal(t, "Set convert.idle_time_limit = 2.5\n", stdout)

	stdout, _, err = executeCommand("", "config", "get", "convert.idle_time_limit")
	require.NoError(t, err)
	assert.Equal(t, "2.5\n", stdout)

	cfg, err := config.Load(home)
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.Convert.IdleTimeLimit)
	assert.Equal(t, 1.0, cfg.Convert.Speed)
}

func TestConfigCommand_SetDoesNotPersistEnvOverride(t *testing.T) {
	home := setupConfigHome(t)
	t.Setenv(config.EnvServerURL, "http://localhost:4000")

	_, _, err := executeCommand("", "config", "set", "convert.speed", "2")
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(home, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "https://asciinema.org")
	assert.NotContains(t, string(raw), "localhost")
}

func TestConfigCommand_ShowJSON(t *testing.T) {
	setupConfigHome(t)
	t.Setenv(config.EnvServerURL, "http://localhost:4000")

	stdout, _, err := executeCommand("", "--json", "config", "show")
	require.NoError(t, err)

	var values map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &values))
	assert.Equal(t, "http://localhost:4000", values["server.url"])
	assert.Equal(t, "0", values["convert.idle_time_limit"])
}

func TestConfigCommand_Errors(t *testing.T) {
	home := setupConfigHome(t)

	_, _, err := executeCommand("", "config", "set", "convert.speed", "-1")
	assert.Error(t, err)
	_, statErr := os.Stat(filepath.Join(home, "config.yaml"))
	assert.True(t, os.IsNotExist(statErr), "nothing saved on invalid value")

	_, _, err = executeCommand("", "config", "get", "bogus")
	assert.Error(t, err)

	_, _, err = executeCommand("", "config", "set", "convert.speed")
	assert.Error(t, err)
}
