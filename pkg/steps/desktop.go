package steps

import (
	"fmt"
	"path/filepath"

	"deskbox/pkg/runner"
)

// WriteSessionFile points the user's X session at the desktop's session
// command, so xrdp logins land in the right desktop. The file is replaced
// wholesale on every run.
func WriteSessionFile(user, sessionCommand string) runner.Step {
	path := filepath.Join("/home", user, ".xsession")
	return runner.Step{
		Name:   "write-xsession",
		Policy: runner.Fatal,
		Details: []string{
			fmt.Sprintf("write: %s -> %s", path, sessionCommand),
			fmt.Sprintf("run: chown %s: %s", user, path),
		},
		Action: func(ctx *runner.Context) error {
			if err := writeArtifact(ctx, path, sessionCommand+"\n", 0644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			if _, err := ctx.Runner.Run("", fmt.Sprintf("chown %s: %s", user, path)); err != nil {
				return fmt.Errorf("chowning %s: %w", path, err)
			}
			return nil
		},
	}
}

// Desktop settings applied for the session user. Remote sessions have no
// console to unlock from, so blanking and locking are switched off.
var desktopTweaks = []string{
	"xfconf-query -c xfce4-screensaver -p /saver/enabled -n -t bool -s false",
	"xfconf-query -c xfce4-screensaver -p /lock/enabled -n -t bool -s false",
	"xfconf-query -c xfce4-power-manager -p /xfce4-power-manager/blank-on-ac -n -t int -s 0",
	"xfconf-query -c xfce4-power-manager -p /xfce4-power-manager/dpms-enabled -n -t bool -s false",
}

// ConfigureDesktopTweaks applies cosmetic desktop settings as the session
// user. These are nice-to-haves; a failure only warns.
func ConfigureDesktopTweaks(user string) runner.Step {
	details := make([]string, len(desktopTweaks))
	for i, tweak := range desktopTweaks {
		details[i] = fmt.Sprintf("run as %s: %s", user, tweak)
	}
	return runner.Step{
		Name:    "configure-desktop-tweaks",
		Policy:  runner.WarnAndContinue,
		Details: details,
		Action: func(ctx *runner.Context) error {
			for _, tweak := range desktopTweaks {
				if _, err := ctx.Runner.Run(user, tweak); err != nil {
					return fmt.Errorf("%s: %w", tweak, err)
				}
			}
			return nil
		},
	}
}
