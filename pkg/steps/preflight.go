package steps

import (
	"fmt"

	"deskbox/pkg/runner"
	"deskbox/pkg/system"
)

// Host release every plan requires before the first package-manager step.
const (
	RequiredOSID      = "ubuntu"
	RequiredOSVersion = "24.04"
)

// RequireRelease halts the run unless /etc/os-release matches the expected
// distribution and version.
func RequireRelease(id, versionID string) runner.Step {
	return runner.Step{
		Name:    "check-host-release",
		Policy:  runner.Fatal,
		Details: []string{fmt.Sprintf("require: os-release ID=%s VERSION_ID=%s", id, versionID)},
		Action: func(ctx *runner.Context) error {
			release, err := system.ReadOSRelease(ctx.Fs)
			if err != nil {
				return err
			}
			if release.ID != id || release.VersionID != versionID {
				return fmt.Errorf("unsupported host: %s %s (want %s %s)", release.ID, release.VersionID, id, versionID)
			}
			return nil
		},
	}
}

// VerifyCommandPresent fails unless the named executable is on the PATH.
func VerifyCommandPresent(command string) runner.Step {
	return runner.Step{
		Name:    "verify-command-" + command,
		Policy:  runner.Fatal,
		Details: []string{"check: " + command + " on PATH"},
		Action: func(ctx *runner.Context) error {
			return system.CommandPresent(ctx.LookPath, command)
		},
	}
}

// VerifyServiceActive fails unless systemd reports the named service active.
func VerifyServiceActive(service string) runner.Step {
	return runner.Step{
		Name:    "verify-service-" + service,
		Policy:  runner.Fatal,
		Details: []string{fmt.Sprintf("run: systemctl is-active %s", service)},
		Action: func(ctx *runner.Context) error {
			return system.ServiceActive(ctx.Runner, service)
		},
	}
}
