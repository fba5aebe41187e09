// Package config loads the provisioning manifest. A manifest may pull in
// other manifest files through its includes list; included files are merged
// lowest-priority first, with the including file winning conflicts.
package config

import (
	"fmt"
	"path/filepath"

	"deskbox/pkg/log"
	"deskbox/pkg/model"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Defaults applied after includes are merged, before validation.
const (
	DefaultDesktop      = "xfce"
	DefaultRemoteAccess = "xrdp"
)

func LoadManifest(fs afero.Fs, filename string, logger log.Logger) (*model.Manifest, error) {
	manifest, err := loadManifestFile(fs, filename)
	if err != nil {
		return nil, err
	}

	if len(manifest.Includes) > 0 {
		visited := make(map[string]bool)
		manifest, err = processIncludes(fs, manifest, filename, visited, logger)
		if err != nil {
			return nil, err
		}
	}

	applyDefaults(&manifest)

	if errs := manifest.Validate(); len(errs) > 0 {
		return nil, errs
	}

	return &manifest, nil
}

func loadManifestFile(fs afero.Fs, filename string) (model.Manifest, error) {
	content, err := afero.ReadFile(fs, filename)
	if err != nil {
		return model.Manifest{}, fmt.Errorf("error reading manifest %s: %w", filename, err)
	}

	var manifest model.Manifest
	if err := yaml.Unmarshal(content, &manifest); err != nil {
		return model.Manifest{}, fmt.Errorf("error parsing manifest %s: %w", filename, err)
	}

	return manifest, nil
}

// processIncludes loads and merges included manifests recursively, detecting
// include cycles by absolute path.
func processIncludes(fs afero.Fs, manifest model.Manifest, baseFile string, visited map[string]bool, logger log.Logger) (model.Manifest, error) {
	absBase, err := filepath.Abs(baseFile)
	if err != nil {
		return model.Manifest{}, fmt.Errorf("failed to resolve absolute path for %s: %w", baseFile, err)
	}
	if visited[absBase] {
		return model.Manifest{}, fmt.Errorf("circular include detected: %s", baseFile)
	}
	visited[absBase] = true

	result := model.Manifest{}
	for _, includePath := range manifest.Includes {
		resolvedPath := resolveIncludePath(baseFile, includePath)

		included, err := loadManifestFile(fs, resolvedPath)
		if err != nil {
			return model.Manifest{}, fmt.Errorf("failed to load include '%s': %w", includePath, err)
		}
		if logger != nil {
			logger.Debug("merged include", "path", resolvedPath)
		}

		if len(included.Includes) > 0 {
			included, err = processIncludes(fs, included, resolvedPath, visited, logger)
			if err != nil {
				return model.Manifest{}, err
			}
		}

		result = mergeManifests(result, included)
	}

	// The including file itself has the highest priority.
	return mergeManifests(result, manifest), nil
}

func resolveIncludePath(baseFile, includePath string) string {
	if filepath.IsAbs(includePath) {
		return includePath
	}
	return filepath.Join(filepath.Dir(baseFile), includePath)
}

// mergeManifests merges overlay into base. Scalars from the overlay win when
// set; packages are appended without duplicates; profiles merge by name with
// the overlay's record replacing the base's.
func mergeManifests(base, overlay model.Manifest) model.Manifest {
	result := base
	result.Includes = nil

	if overlay.Desktop != "" {
		result.Desktop = overlay.Desktop
	}
	if overlay.RemoteAccess != "" {
		result.RemoteAccess = overlay.RemoteAccess
	}
	if overlay.User != "" {
		result.User = overlay.User
	}
	if overlay.ProfilesDir != "" {
		result.ProfilesDir = overlay.ProfilesDir
	}
	if overlay.ShortcutsDir != "" {
		result.ShortcutsDir = overlay.ShortcutsDir
	}
	result.Upgrade = result.Upgrade || overlay.Upgrade
	result.Firewall = result.Firewall || overlay.Firewall

	havePackage := make(map[string]bool)
	for _, pkg := range result.Packages {
		havePackage[pkg] = true
	}
	for _, pkg := range overlay.Packages {
		if !havePackage[pkg] {
			result.Packages = append(result.Packages, pkg)
			havePackage[pkg] = true
		}
	}

	profileIndex := make(map[string]int)
	for i, profile := range result.Profiles {
		profileIndex[profile.Name] = i
	}
	for _, profile := range overlay.Profiles {
		if i, ok := profileIndex[profile.Name]; ok {
			result.Profiles[i] = profile
		} else {
			result.Profiles = append(result.Profiles, profile)
			profileIndex[profile.Name] = len(result.Profiles) - 1
		}
	}

	return result
}

func applyDefaults(manifest *model.Manifest) {
	if manifest.Desktop == "" {
		manifest.Desktop = DefaultDesktop
	}
	if manifest.RemoteAccess == "" {
		manifest.RemoteAccess = DefaultRemoteAccess
	}
	if manifest.User != "" {
		home := filepath.Join("/home", manifest.User)
		if manifest.ProfilesDir == "" {
			manifest.ProfilesDir = filepath.Join(home, ".mozilla", "firefox")
		}
		if manifest.ShortcutsDir == "" {
			manifest.ShortcutsDir = filepath.Join(home, "Desktop")
		}
	}
}
