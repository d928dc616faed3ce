package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoCommand_Text(t *testing.T) {
	setupConfigHome(t)

	stdout, _, err := executeCommand("", "info", filepath.Join("testdata", "demo.cast"))
	require.NoError(t, err)

	assert.Contains(t, stdout, "Version: 2")
	assert.Contains(t, stdout, "Size: 75x18")
	assert.Contains(t, stdout, "Recorded: 2017-10-27T08:10:18Z")
	assert.Contains(t, stdout, "Idle time limit: 2.5s")
	assert.Contains(t, stdout, "Env: SHELL=/bin/zsh")
	assert.Contains(t, stdout, "Duration: 3.0005s")
	assert.Contains(t, stdout, "Events: 12 (i=3, m=1, o=6, r=1, x=1)")
}

func TestInfoCommand_V1(t *testing.T) {
	setupConfigHome(t)

	stdout, _, err := executeCommand("", "info", filepath.Join("testdata", "full.json"))
	require.NoError(t, err)

	assert.Contains(t, stdout, "Version: 1")
	assert.Contains(t, stdout, "Command: /bin/bash")
	assert.Contains(t, stdout, "Title: Demo")
	assert.NotContains(t, stdout, "Recorded:")
	assert.Contains(t, stdout, "Duration: 10.5s")
}

func TestInfoCommand_JSON(t *testing.T) {
	setupConfigHome(t)

	stdout, _, err := executeCommand("", "--json", "info", filepath.Join("testdata", "demo.cast"))
	require.NoError(t, err)

	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, float64(2), info["version"])
	assert.Equal(t, float64(75), info["width"])
	assert.Equal(t, float64(12), info["event_count"])
	assert.Equal(t, 3.0005, info["duration"])
	assert.Equal(t, map[string]any{"o": 6.0, "i": 3.0, "m": 1.0, "r": 1.0, "x": 1.0}, info["events_by_code"])
	assert.NotContains(t, info, "command")
}

func TestInfoCommand_Errors(t *testing.T) {
	setupConfigHome(t)

	_, _, err := executeCommand("", "info")
	assert.Error(t, err)

	_, _, err = executeCommand("", "info", filepath.Join(t.TempDir(), "missing.cast"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't open asciicast file")
}
