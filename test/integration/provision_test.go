package integration

import (
	"fmt"
	"strings"
	"testing"

	"deskbox/pkg/config"
	"deskbox/pkg/runlog"
	"deskbox/pkg/runner"
	"deskbox/pkg/steps"
	"deskbox/pkg/test"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRun wires a full provisioning run over an in-memory host: manifest on
// disk, os-release in place, mock command boundary, file-backed run log.
func newRun(t *testing.T) (*runner.Context, *test.MockCommandRunner, []runner.Step) {
	t.Helper()
	fs := afero.NewMemMapFs()
	test.WriteOSRelease(t, fs, "ubuntu", "24.04")
	test.WriteSampleManifest(t, fs, "/deskbox.yaml")

	manifest, err := config.LoadManifest(fs, "/deskbox.yaml", nil)
	require.NoError(t, err)

	plan, err := steps.BuildPlan(manifest)
	require.NoError(t, err)

	cmdRunner := test.NewMockCommandRunner()
	cmdRunner.SetResponse("", "systemctl is-active xrdp", []byte("active\n"))

	recorder, closeLogs, err := runlog.OpenFiles(fs, "/var/log/deskbox", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeLogs() })

	ctx := &runner.Context{
		Runner:         cmdRunner,
		Fs:             fs,
		LookPath:       func(name string) (string, error) { return "/usr/bin/" + name, nil },
		Recorder:       recorder,
		NonInteractive: true,
	}
	return ctx, cmdRunner, plan
}

func TestFullProvisioningRun(t *testing.T) {
	ctx, cmdRunner, plan := newRun(t)

	result := runner.New().Run(ctx, plan)
	require.True(t, result.Success(), "run failed at %s: %s", result.FailedStep, result.Message)
	assert.Equal(t, 0, result.ExitCode())

	// Package-manager and service commands went through the boundary.
	assert.Contains(t, cmdRunner.Commands, "DEBIAN_FRONTEND=noninteractive apt-get update")
	assert.Contains(t, cmdRunner.Commands, "DEBIAN_FRONTEND=noninteractive apt-get install -y xfce4 xfce4-goodies xfce4-terminal")
	assert.Contains(t, cmdRunner.Commands, "adduser xrdp ssl-cert")
	assert.Contains(t, cmdRunner.Commands, "systemctl enable xrdp")
	assert.Contains(t, cmdRunner.Commands, "ufw allow 3389/tcp")

	// Derived artifacts exist, one per variant, each with its own user agent.
	work, err := afero.ReadFile(ctx.Fs, "/home/kiosk/.mozilla/firefox/work/user.js")
	require.NoError(t, err)
	staging, err := afero.ReadFile(ctx.Fs, "/home/kiosk/.mozilla/firefox/staging/user.js")
	require.NoError(t, err)
	assert.Contains(t, string(work), "rv:126.0) Gecko/20100101 Firefox/126.0")
	assert.Contains(t, string(work), "X11; Linux x86_64")
	assert.Contains(t, string(staging), "Windows NT 10.0")
	assert.NotContains(t, string(staging), "X11; Linux x86_64")
	test.AssertFileExists(t, ctx.Fs, "/home/kiosk/Desktop/firefox-work.desktop", "")
	test.AssertFileExists(t, ctx.Fs, "/home/kiosk/Desktop/firefox-staging.desktop", "")

	// Per-step checkpoints landed in the log files, in order.
	combined, err := afero.ReadFile(ctx.Fs, "/var/log/deskbox/provision.log")
	require.NoError(t, err)
	assert.Contains(t, string(combined), "[CHECKPOINT]")
	assert.Contains(t, string(combined), "starting check-host-release")
	assert.Contains(t, string(combined), "verify-service-xrdp succeeded")

	errorLog, err := afero.ReadFile(ctx.Fs, "/var/log/deskbox/errors.log")
	require.NoError(t, err)
	assert.Empty(t, string(errorLog))
}

func TestProvisioningHaltsOnFatalFailure(t *testing.T) {
	ctx, cmdRunner, plan := newRun(t)
	cmdRunner.SetError("", "DEBIAN_FRONTEND=noninteractive apt-get install -y xrdp", fmt.Errorf("disk full"))

	result := runner.New().Run(ctx, plan)
	require.False(t, result.Success())
	assert.Equal(t, "install-remote-access", result.FailedStep)
	assert.Contains(t, result.Message, "disk full")

	// Nothing after the failed step ran, on the host or the filesystem.
	assert.NotContains(t, cmdRunner.Commands, "systemctl enable xrdp")
	test.AssertFileNotExists(t, ctx.Fs, "/home/kiosk/.mozilla/firefox/work/user.js")

	// The failure is in both the combined log and the error log.
	combined, err := afero.ReadFile(ctx.Fs, "/var/log/deskbox/provision.log")
	require.NoError(t, err)
	assert.Contains(t, string(combined), "disk full")
	errorLog, err := afero.ReadFile(ctx.Fs, "/var/log/deskbox/errors.log")
	require.NoError(t, err)
	assert.Contains(t, string(errorLog), "disk full")
}

func TestProvisioningToleratedFailureContinues(t *testing.T) {
	ctx, cmdRunner, plan := newRun(t)
	// The sample manifest enables upgrade; a failing upgrade must not halt
	// the run.
	cmdRunner.SetError("", "DEBIAN_FRONTEND=noninteractive apt-get upgrade -y", fmt.Errorf("held packages"))

	result := runner.New().Run(ctx, plan)
	require.True(t, result.Success())
	assert.Contains(t, cmdRunner.Commands, "systemctl enable xrdp")

	combined, err := afero.ReadFile(ctx.Fs, "/var/log/deskbox/provision.log")
	require.NoError(t, err)
	assert.Contains(t, string(combined), "apt-upgrade failed (continuing): ")
}

func TestReprovisioningIsIdempotent(t *testing.T) {
	ctx, _, plan := newRun(t)

	require.True(t, runner.New().Run(ctx, plan).Success())
	first, err := afero.ReadFile(ctx.Fs, "/home/kiosk/.mozilla/firefox/profiles.ini")
	require.NoError(t, err)

	require.True(t, runner.New().Run(ctx, plan).Success())
	second, err := afero.ReadFile(ctx.Fs, "/home/kiosk/.mozilla/firefox/profiles.ini")
	require.NoError(t, err)

	// Re-running converges: same artifact set, no appended duplicates.
	assert.Equal(t, string(first), string(second))
	userJS, err := afero.ReadFile(ctx.Fs, "/home/kiosk/.mozilla/firefox/work/user.js")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(userJS), "general.useragent.override"))
}

func TestPreconditionFailureStopsBeforePackages(t *testing.T) {
	ctx, cmdRunner, plan := newRun(t)
	test.WriteOSRelease(t, ctx.Fs, "ubuntu", "22.04")

	result := runner.New().Run(ctx, plan)
	require.False(t, result.Success())
	assert.Equal(t, "check-host-release", result.FailedStep)
	assert.Contains(t, result.Message, "unsupported host: ubuntu 22.04")

	// No package-manager command ever ran.
	assert.Empty(t, cmdRunner.Commands)
}
