package model

import (
	"fmt"
	"regexp"
	"strings"
)

// Valid desktop flavors the planner knows how to install.
var ValidDesktops = map[string]bool{
	"xfce":         true,
	"xfce-minimal": true,
}

// Valid remote-access flavors.
var ValidRemoteAccess = map[string]bool{
	"xrdp": true,
}

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationErrors []ValidationError

func (es ValidationErrors) Error() string {
	if len(es) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("manifest validation failed:\n")
	for _, e := range es {
		sb.WriteString(fmt.Sprintf("  - %s\n", e.Error()))
	}
	return sb.String()
}

// Manifest is the desired end state of a provisioned workstation: which
// desktop and remote-access stack to install, which user gets the session,
// and which browser profiles to generate.
type Manifest struct {
	Includes     []string  `yaml:"includes,omitempty"` // manifest files to merge in, lowest priority first
	Desktop      string    `yaml:"desktop"`
	RemoteAccess string    `yaml:"remote-access"`
	User         string    `yaml:"user"`
	Upgrade      bool      `yaml:"upgrade,omitempty"`
	Firewall     bool      `yaml:"firewall,omitempty"`
	Packages     []string  `yaml:"packages,omitempty"`
	ProfilesDir  string    `yaml:"profiles-dir,omitempty"`
	ShortcutsDir string    `yaml:"shortcuts-dir,omitempty"`
	Profiles     []Profile `yaml:"profiles,omitempty"`
}

// Profile describes one browser profile variant. Every field for a variant
// lives in its record, so nothing has to line up by index across separate
// lists.
type Profile struct {
	Name       string `yaml:"name"`
	Label      string `yaml:"label,omitempty"`
	UserAgent  string `yaml:"user-agent"`
	Homepage   string `yaml:"homepage,omitempty"`
	Resolution string `yaml:"resolution,omitempty"` // WIDTHxHEIGHT, e.g. 1920x1080
}

// DisplayName returns the label shown on launcher shortcuts.
func (p Profile) DisplayName() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Name
}

var resolutionPattern = regexp.MustCompile(`^[0-9]+x[0-9]+$`)

func (m *Manifest) Validate() ValidationErrors {
	var errs ValidationErrors

	for i, include := range m.Includes {
		if strings.TrimSpace(include) == "" {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("includes[%d]", i), Message: "include path cannot be empty"})
		}
	}

	if strings.TrimSpace(m.Desktop) == "" {
		errs = append(errs, ValidationError{Field: "desktop", Message: "desktop flavor is required"})
	} else if !ValidDesktops[m.Desktop] {
		errs = append(errs, ValidationError{Field: "desktop", Message: fmt.Sprintf("unknown desktop flavor '%s', must be one of: xfce, xfce-minimal", m.Desktop)})
	}

	if strings.TrimSpace(m.RemoteAccess) == "" {
		errs = append(errs, ValidationError{Field: "remote-access", Message: "remote-access flavor is required"})
	} else if !ValidRemoteAccess[m.RemoteAccess] {
		errs = append(errs, ValidationError{Field: "remote-access", Message: fmt.Sprintf("unknown remote-access flavor '%s', must be: xrdp", m.RemoteAccess)})
	}

	if strings.TrimSpace(m.User) == "" {
		errs = append(errs, ValidationError{Field: "user", Message: "user is required"})
	} else if !isValidUserName(m.User) {
		errs = append(errs, ValidationError{Field: "user", Message: "user name contains invalid characters (only lowercase letters, numbers, hyphens, and underscores allowed)"})
	}

	for i, pkg := range m.Packages {
		if strings.TrimSpace(pkg) == "" {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("packages[%d]", i), Message: "package name cannot be empty"})
		} else if !isValidPackageName(pkg) {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("packages[%d]", i), Message: "package name contains invalid characters"})
		}
	}

	for _, field := range []struct{ name, value string }{
		{"profiles-dir", m.ProfilesDir},
		{"shortcuts-dir", m.ShortcutsDir},
	} {
		if field.value != "" && !strings.HasPrefix(field.value, "/") {
			errs = append(errs, ValidationError{Field: field.name, Message: "path must be absolute (start with '/')"})
		}
	}

	seen := make(map[string]bool)
	for i, profile := range m.Profiles {
		if strings.TrimSpace(profile.Name) == "" {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("profiles[%d].name", i), Message: "profile name cannot be empty"})
			continue
		}
		if !isValidProfileName(profile.Name) {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("profiles[%d].name", i), Message: "profile name contains invalid characters (only letters, numbers, hyphens, and underscores allowed)"})
		}
		if seen[profile.Name] {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("profiles[%d].name", i), Message: fmt.Sprintf("duplicate profile name '%s'", profile.Name)})
		}
		seen[profile.Name] = true

		if strings.TrimSpace(profile.UserAgent) == "" {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("profiles[%d].user-agent", i), Message: "user-agent is required"})
		}
		if profile.Resolution != "" && !resolutionPattern.MatchString(profile.Resolution) {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("profiles[%d].resolution", i), Message: "resolution must look like WIDTHxHEIGHT, e.g. 1920x1080"})
		}
	}

	return errs
}

func isValidPackageName(name string) bool {
	for _, r := range name {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '.' || r == '+') {
			return false
		}
	}
	return true
}

func isValidUserName(name string) bool {
	for _, r := range name {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_') {
			return false
		}
	}
	return true
}

func isValidProfileName(name string) bool {
	for _, r := range name {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_') {
			return false
		}
	}
	return true
}
