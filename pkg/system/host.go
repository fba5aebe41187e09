package system

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// LookPathFunc locates an executable on the current PATH, exec.LookPath
// shaped so tests can inject their own.
type LookPathFunc func(name string) (string, error)

// CommandPresent returns nil when the named executable can be located on the
// current PATH.
func CommandPresent(lookPath LookPathFunc, name string) error {
	if lookPath == nil {
		return fmt.Errorf("no PATH lookup available")
	}
	if _, err := lookPath(name); err != nil {
		return fmt.Errorf("command %q not found on PATH", name)
	}
	return nil
}

// ServiceActive returns nil when systemd reports the named service as
// active. Any other unit state, or a failure to query it, is an error.
func ServiceActive(runner CommandRunner, name string) error {
	output, err := runner.Run("", fmt.Sprintf("systemctl is-active %s", name))
	state := strings.TrimSpace(string(output))
	if err != nil {
		if state != "" {
			return fmt.Errorf("service %s is not active (state: %s)", name, state)
		}
		return fmt.Errorf("error querying service %s: %w", name, err)
	}
	if state != "" && state != "active" {
		return fmt.Errorf("service %s is not active (state: %s)", name, state)
	}
	return nil
}

const osReleasePath = "/etc/os-release"

// OSRelease holds the os-release fields the preflight checks care about.
type OSRelease struct {
	ID         string
	VersionID  string
	PrettyName string
}

// ReadOSRelease parses /etc/os-release from the given filesystem.
func ReadOSRelease(fs afero.Fs) (*OSRelease, error) {
	f, err := fs.Open(osReleasePath)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", osReleasePath, err)
	}
	defer f.Close()

	release := &OSRelease{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"`)
		switch key {
		case "ID":
			release.ID = value
		case "VERSION_ID":
			release.VersionID = value
		case "PRETTY_NAME":
			release.PrettyName = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", osReleasePath, err)
	}

	return release, nil
}
