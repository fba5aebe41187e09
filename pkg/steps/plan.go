package steps

import (
	"fmt"

	"deskbox/pkg/model"
	"deskbox/pkg/runner"
)

// desktopFlavor is one installable desktop environment. Flavors are a
// declarative table so that choosing a desktop is a manifest value, not a
// competing code path.
type desktopFlavor struct {
	Packages []string
	Session  string // session command for the user's .xsession
}

var desktopFlavors = map[string]desktopFlavor{
	"xfce": {
		Packages: []string{"xfce4", "xfce4-goodies", "xfce4-terminal"},
		Session:  "startxfce4",
	},
	"xfce-minimal": {
		Packages: []string{"xfce4"},
		Session:  "startxfce4",
	},
}

// remoteFlavor is one installable remote-access stack.
type remoteFlavor struct {
	Packages []string
	Service  string
	Binary   string
	Port     string
}

var remoteFlavors = map[string]remoteFlavor{
	"xrdp": {
		Packages: []string{"xrdp"},
		Service:  "xrdp",
		Binary:   "xrdp",
		Port:     "3389/tcp",
	},
}

// BuildPlan assembles the full ordered step list for the manifest. The
// host-release check always comes first, before any package-manager step.
func BuildPlan(manifest *model.Manifest) ([]runner.Step, error) {
	desktop, ok := desktopFlavors[manifest.Desktop]
	if !ok {
		return nil, fmt.Errorf("unknown desktop flavor %q", manifest.Desktop)
	}
	remote, ok := remoteFlavors[manifest.RemoteAccess]
	if !ok {
		return nil, fmt.Errorf("unknown remote-access flavor %q", manifest.RemoteAccess)
	}

	plan := []runner.Step{
		RequireRelease(RequiredOSID, RequiredOSVersion),
		AptUpdate(),
	}
	if manifest.Upgrade {
		plan = append(plan, AptUpgrade())
	}

	plan = append(plan,
		InstallPackages("install-desktop", desktop.Packages),
		InstallPackages("install-remote-access", remote.Packages),
		InstallPackages("install-browser", []string{"firefox"}),
	)
	if len(manifest.Packages) > 0 {
		plan = append(plan, InstallPackages("install-extra-packages", manifest.Packages))
	}

	plan = append(plan,
		AddUserToGroup(remote.Service, "ssl-cert"),
		WriteSessionFile(manifest.User, desktop.Session),
		EnableService(remote.Service),
	)
	if manifest.Firewall {
		plan = append(plan, AllowFirewallPort(remote.Port))
	}
	plan = append(plan, ConfigureDesktopTweaks(manifest.User))

	if len(manifest.Profiles) > 0 {
		plan = append(plan,
			CreateProfiles(manifest.User, manifest.ProfilesDir, manifest.Profiles),
			CreateShortcuts(manifest.User, manifest.ShortcutsDir, manifest.Profiles),
		)
	}

	verification, err := VerificationPlan(manifest)
	if err != nil {
		return nil, err
	}
	return append(plan, verification...), nil
}

// VerificationPlan returns only the post-condition checks for the manifest.
// The verify command runs these on their own; provision runs them at the end
// of the full plan.
func VerificationPlan(manifest *model.Manifest) ([]runner.Step, error) {
	desktop, ok := desktopFlavors[manifest.Desktop]
	if !ok {
		return nil, fmt.Errorf("unknown desktop flavor %q", manifest.Desktop)
	}
	remote, ok := remoteFlavors[manifest.RemoteAccess]
	if !ok {
		return nil, fmt.Errorf("unknown remote-access flavor %q", manifest.RemoteAccess)
	}

	return []runner.Step{
		VerifyCommandPresent(desktop.Session),
		VerifyCommandPresent(remote.Binary),
		VerifyCommandPresent("firefox"),
		VerifyServiceActive(remote.Service),
	}, nil
}
