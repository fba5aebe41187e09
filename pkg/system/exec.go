// Package system is the boundary to the host: external commands, PATH
// lookups, service state and the OS release file. Everything the
// provisioning steps do to the machine goes through this package.
package system

import (
	"fmt"
	"os/exec"
)

// CommandRunner defines an interface for running commands.
// This allows for mocking in tests.
type CommandRunner interface {
	// Run executes command through the shell and returns its combined
	// output. A non-empty user runs the command as that user. The call is
	// synchronous: it returns only once the command has finished.
	Run(user, command string) ([]byte, error)
}

// LiveCommandRunner is an implementation of CommandRunner that runs commands on the live system.
type LiveCommandRunner struct{}

// Run executes the given command and returns its output.
func (r *LiveCommandRunner) Run(user, command string) ([]byte, error) {
	if user != "" {
		command = fmt.Sprintf("su - %s -c '%s'", user, command)
	}
	cmd := exec.Command("sh", "-c", command)
	return cmd.CombinedOutput()
}
