package steps

import (
	"fmt"
	"strings"

	"deskbox/pkg/runner"
)

const aptNonInteractive = "DEBIAN_FRONTEND=noninteractive "

func aptGet(ctx *runner.Context, args string) error {
	command := "apt-get " + args
	if ctx.NonInteractive {
		command = aptNonInteractive + command
	}
	output, err := ctx.Runner.Run("", command)
	if err != nil {
		return fmt.Errorf("apt-get %s: %w: %s", args, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// AptUpdate refreshes the package index. Nothing installs without it, so a
// failure is fatal.
func AptUpdate() runner.Step {
	return runner.Step{
		Name:    "apt-update",
		Policy:  runner.Fatal,
		Details: []string{"run: apt-get update"},
		Action: func(ctx *runner.Context) error {
			return aptGet(ctx, "update")
		},
	}
}

// AptUpgrade upgrades already-installed packages. The rest of the run works
// on a non-upgraded host, so a failure only warns.
func AptUpgrade() runner.Step {
	return runner.Step{
		Name:    "apt-upgrade",
		Policy:  runner.WarnAndContinue,
		Details: []string{"run: apt-get upgrade -y"},
		Action: func(ctx *runner.Context) error {
			return aptGet(ctx, "upgrade -y")
		},
	}
}

// InstallPackages installs one named group of packages in a single apt-get
// invocation. apt-get install is idempotent, so re-running is safe.
func InstallPackages(name string, packages []string) runner.Step {
	args := "install -y " + strings.Join(packages, " ")
	return runner.Step{
		Name:    name,
		Policy:  runner.Fatal,
		Details: []string{"run: apt-get " + args},
		Action: func(ctx *runner.Context) error {
			if len(packages) == 0 {
				return nil
			}
			return aptGet(ctx, args)
		},
	}
}
