package steps

import (
	"fmt"
	"path/filepath"
	"strings"

	"deskbox/pkg/model"
	"deskbox/pkg/runner"
)

// userJS renders the per-profile preference file. The whole file is derived
// from the profile record, so overwriting it on a re-run converges instead
// of stacking duplicate user_pref lines.
func userJS(profile model.Profile) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("user_pref(\"general.useragent.override\", %q);\n", profile.UserAgent))
	sb.WriteString("user_pref(\"browser.shell.checkDefaultBrowser\", false);\n")
	sb.WriteString("user_pref(\"datareporting.policy.dataSubmissionEnabled\", false);\n")
	if profile.Homepage != "" {
		sb.WriteString(fmt.Sprintf("user_pref(\"browser.startup.homepage\", %q);\n", profile.Homepage))
	}
	if profile.Resolution != "" {
		width, height, ok := strings.Cut(profile.Resolution, "x")
		if ok {
			sb.WriteString(fmt.Sprintf("user_pref(\"privacy.window.maxInnerWidth\", %s);\n", width))
			sb.WriteString(fmt.Sprintf("user_pref(\"privacy.window.maxInnerHeight\", %s);\n", height))
		}
	}
	return sb.String()
}

// profilesINI renders the registry of all profiles. Regenerated wholesale
// from the full profile list every run.
func profilesINI(profiles []model.Profile) string {
	var sb strings.Builder
	sb.WriteString("[General]\nStartWithLastProfile=1\nVersion=2\n")
	for i, profile := range profiles {
		sb.WriteString(fmt.Sprintf("\n[Profile%d]\nName=%s\nIsRelative=1\nPath=%s\n", i, profile.Name, profile.Name))
		if i == 0 {
			sb.WriteString("Default=1\n")
		}
	}
	return sb.String()
}

// CreateProfiles generates one browser profile directory with a preference
// file per variant, plus the profiles.ini registry. Generation stops at the
// first write failure and reports it as the step's failure; already-written
// profiles are left in place.
func CreateProfiles(user, profilesDir string, profiles []model.Profile) runner.Step {
	details := make([]string, 0, len(profiles)+2)
	for _, profile := range profiles {
		details = append(details, fmt.Sprintf("write: %s", filepath.Join(profilesDir, profile.Name, "user.js")))
	}
	details = append(details,
		fmt.Sprintf("write: %s", filepath.Join(profilesDir, "profiles.ini")),
		fmt.Sprintf("run: chown -R %s: %s", user, profilesDir),
	)

	return runner.Step{
		Name:    "create-browser-profiles",
		Policy:  runner.Fatal,
		Details: details,
		Action: func(ctx *runner.Context) error {
			for _, profile := range profiles {
				path := filepath.Join(profilesDir, profile.Name, "user.js")
				if err := writeArtifact(ctx, path, userJS(profile), 0644); err != nil {
					return fmt.Errorf("profile %s: %w", profile.Name, err)
				}
			}
			if err := writeArtifact(ctx, filepath.Join(profilesDir, "profiles.ini"), profilesINI(profiles), 0644); err != nil {
				return fmt.Errorf("profiles.ini: %w", err)
			}
			if _, err := ctx.Runner.Run("", fmt.Sprintf("chown -R %s: %s", user, profilesDir)); err != nil {
				return fmt.Errorf("chowning %s: %w", profilesDir, err)
			}
			return nil
		},
	}
}

// desktopEntry renders a launcher shortcut opening the browser with one
// profile.
func desktopEntry(profile model.Profile) string {
	var sb strings.Builder
	sb.WriteString("[Desktop Entry]\n")
	sb.WriteString("Version=1.0\n")
	sb.WriteString("Type=Application\n")
	sb.WriteString(fmt.Sprintf("Name=%s\n", profile.DisplayName()))
	sb.WriteString(fmt.Sprintf("Comment=Firefox (%s profile)\n", profile.Name))
	sb.WriteString(fmt.Sprintf("Exec=firefox -P %q --new-instance\n", profile.Name))
	sb.WriteString("Icon=firefox\n")
	sb.WriteString("Terminal=false\n")
	sb.WriteString("Categories=Network;WebBrowser;\n")
	return sb.String()
}

// CreateShortcuts generates one launcher shortcut per profile. Same
// overwrite and stop-at-first-failure behavior as CreateProfiles.
func CreateShortcuts(user, shortcutsDir string, profiles []model.Profile) runner.Step {
	details := make([]string, 0, len(profiles)+1)
	for _, profile := range profiles {
		details = append(details, fmt.Sprintf("write: %s", shortcutPath(shortcutsDir, profile)))
	}
	details = append(details, fmt.Sprintf("run: chown -R %s: %s", user, shortcutsDir))

	return runner.Step{
		Name:    "create-launcher-shortcuts",
		Policy:  runner.Fatal,
		Details: details,
		Action: func(ctx *runner.Context) error {
			for _, profile := range profiles {
				if err := writeArtifact(ctx, shortcutPath(shortcutsDir, profile), desktopEntry(profile), 0755); err != nil {
					return fmt.Errorf("shortcut %s: %w", profile.Name, err)
				}
			}
			if _, err := ctx.Runner.Run("", fmt.Sprintf("chown -R %s: %s", user, shortcutsDir)); err != nil {
				return fmt.Errorf("chowning %s: %w", shortcutsDir, err)
			}
			return nil
		},
	}
}

func shortcutPath(dir string, profile model.Profile) string {
	return filepath.Join(dir, fmt.Sprintf("firefox-%s.desktop", profile.Name))
}
