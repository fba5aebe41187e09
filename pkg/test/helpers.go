package test

import (
	"path/filepath"
	"testing"

	"deskbox/pkg/runlog"
	"deskbox/pkg/runner"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// NewTestContext returns a runner context over an in-memory filesystem with
// a mock command runner, an in-memory recorder and a permissive PATH lookup.
func NewTestContext() (*runner.Context, *MockCommandRunner, *runlog.Recorder) {
	cmdRunner := NewMockCommandRunner()
	recorder := runlog.New(nil, nil, nil, nil)
	ctx := &runner.Context{
		Runner:         cmdRunner,
		Fs:             afero.NewMemMapFs(),
		LookPath:       func(name string) (string, error) { return "/usr/bin/" + name, nil },
		Recorder:       recorder,
		NonInteractive: true,
	}
	return ctx, cmdRunner, recorder
}

// WriteOSRelease writes an Ubuntu-style /etc/os-release to the filesystem.
func WriteOSRelease(t *testing.T, fs afero.Fs, id, versionID string) {
	t.Helper()
	content := "ID=" + id + "\nVERSION_ID=\"" + versionID + "\"\n"
	require.NoError(t, afero.WriteFile(fs, "/etc/os-release", []byte(content), 0644))
}

// CreateTestFile creates a file with content in the test filesystem.
func CreateTestFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
}

// AssertFileExists checks that a file exists and, when expectedContent is
// non-empty, that it has exactly that content.
func AssertFileExists(t *testing.T, fs afero.Fs, path, expectedContent string) {
	t.Helper()
	exists, err := afero.Exists(fs, path)
	require.NoError(t, err)
	require.True(t, exists, "File %s should exist", path)

	if expectedContent != "" {
		content, err := afero.ReadFile(fs, path)
		require.NoError(t, err)
		require.Equal(t, expectedContent, string(content))
	}
}

// AssertFileNotExists checks that a file does not exist.
func AssertFileNotExists(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	exists, err := afero.Exists(fs, path)
	require.NoError(t, err)
	require.False(t, exists, "File %s should not exist", path)
}

// AssertCommandExecuted checks that a command was executed by the mock runner.
func AssertCommandExecuted(t *testing.T, runner *MockCommandRunner, command string) {
	t.Helper()
	require.Contains(t, runner.Commands, command, "Command should have been executed: %s", command)
}

// AssertCommandNotExecuted checks that a command was not executed.
func AssertCommandNotExecuted(t *testing.T, runner *MockCommandRunner, command string) {
	t.Helper()
	require.NotContains(t, runner.Commands, command, "Command should not have been executed: %s", command)
}
