package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionCommand(t *testing.T) {
	setupConfigHome(t)

	tests := []struct {
		shell string
		want  string
	}{
		{"bash", "__start_castkit"},
		{"zsh", "#compdef castkit"},
		{"fish", "complete -c castkit"},
		{"powershell", "Register-ArgumentCompleter"},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			stdout, _, err := executeCommand("", "completion", tt.shell)
			require.NoError(t, err)
			assert.Contains(t, stdout, tt.want)
		})
	}
}

func TestCompletionCommand_InvalidShell(t *testing.T) {
	setupConfigHome(t)

	_, _, err := executeCommand("", "completion", "tcsh")
	assert.Error(t, err)

	_, _, err = executeCommand("", "completion")
	assert.Error(t, err)
}

func TestCompleteRecordings(t *testing.T) {
	exts, directive := completeRecordings(nil, nil, "")
	assert.Equal(t, []string{"cast", "json", "gz"}, exts)
	assert.NotZero(t, directive)
}
