package test

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/afero"
)

// MockCommandRunner is a shared mock implementation of system.CommandRunner.
// It tracks executed commands and allows setting up responses and errors.
type MockCommandRunner struct {
	Commands     []string            // Track executed commands
	Responses    map[string][]byte   // Response by command key (user:command)
	Errors       map[string]error    // Error by command key
	UserCommands map[string][]string // Track commands by user
}

// NewMockCommandRunner creates a new MockCommandRunner with initialized maps.
func NewMockCommandRunner() *MockCommandRunner {
	return &MockCommandRunner{
		Commands:     []string{},
		Responses:    make(map[string][]byte),
		Errors:       make(map[string]error),
		UserCommands: make(map[string][]string),
	}
}

// Run simulates running a command and returns configured response or error.
func (r *MockCommandRunner) Run(user, command string) ([]byte, error) {
	key := user + ":" + command
	r.Commands = append(r.Commands, command)
	r.UserCommands[user] = append(r.UserCommands[user], command)

	if err, ok := r.Errors[key]; ok {
		return r.Responses[key], err
	}
	if resp, ok := r.Responses[key]; ok {
		return resp, nil
	}
	return nil, nil
}

// SetResponse configures a response for a specific user:command.
func (r *MockCommandRunner) SetResponse(user, command string, response []byte) {
	r.Responses[user+":"+command] = response
}

// SetError configures an error for a specific user:command.
func (r *MockCommandRunner) SetError(user, command string, err error) {
	r.Errors[user+":"+command] = err
}

// Reset clears all tracked commands and configurations.
func (r *MockCommandRunner) Reset() {
	r.Commands = []string{}
	r.UserCommands = make(map[string][]string)
	r.Responses = make(map[string][]byte)
	r.Errors = make(map[string]error)
}

// MockLogger is a shared mock implementation of log.Logger.
// It captures logged messages for verification.
type MockLogger struct {
	Messages []string
	Level    slog.Level
}

// NewMockLogger creates a new MockLogger with the specified level.
func NewMockLogger(level slog.Level) *MockLogger {
	return &MockLogger{
		Messages: []string{},
		Level:    level,
	}
}

func (l *MockLogger) Debug(msg string, args ...any) {
	if l.Level <= slog.LevelDebug {
		l.captureMessage("DEBUG", msg, args...)
	}
}

func (l *MockLogger) Info(msg string, args ...any) {
	if l.Level <= slog.LevelInfo {
		l.captureMessage("INFO", msg, args...)
	}
}

func (l *MockLogger) Warn(msg string, args ...any) {
	if l.Level <= slog.LevelWarn {
		l.captureMessage("WARN", msg, args...)
	}
}

func (l *MockLogger) Error(msg string, args ...any) {
	if l.Level <= slog.LevelError {
		l.captureMessage("ERROR", msg, args...)
	}
}

func (l *MockLogger) captureMessage(level, msg string, args ...any) {
	buf := &bytes.Buffer{}
	buf.WriteString(level)
	buf.WriteString(": ")
	buf.WriteString(msg)
	for i := 0; i+1 < len(args); i += 2 {
		buf.WriteString(" ")
		buf.WriteString(fmt.Sprintf("%v", args[i]))
		buf.WriteString("=")
		buf.WriteString(fmt.Sprintf("%v", args[i+1]))
	}
	l.Messages = append(l.Messages, buf.String())
}

// Reset clears all captured messages.
func (l *MockLogger) Reset() {
	l.Messages = []string{}
}

// HasMessage checks if any captured message contains the given substring.
func (l *MockLogger) HasMessage(substring string) bool {
	for _, msg := range l.Messages {
		if strings.Contains(msg, substring) {
			return true
		}
	}
	return false
}

// FailingFs wraps an afero.Fs and refuses writes under FailPath. Used to
// simulate a partially failing artifact-generation run.
type FailingFs struct {
	afero.Fs
	FailPath string
}

func (f *FailingFs) failing(name string) bool {
	return strings.HasPrefix(name, f.FailPath)
}

func (f *FailingFs) Create(name string) (afero.File, error) {
	if f.failing(name) {
		return nil, fmt.Errorf("write to %s refused", name)
	}
	return f.Fs.Create(name)
}

func (f *FailingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if f.failing(name) && flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE) != 0 {
		return nil, fmt.Errorf("write to %s refused", name)
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func (f *FailingFs) MkdirAll(path string, perm os.FileMode) error {
	if f.failing(path) {
		return fmt.Errorf("mkdir %s refused", path)
	}
	return f.Fs.MkdirAll(path, perm)
}
