// Package steps builds the ordered provisioning steps a run executes:
// preflight checks, package installs, service setup, desktop session
// configuration, derived browser-profile artifacts and post-condition
// verification.
package steps

import (
	"os"
	"path/filepath"

	"deskbox/pkg/runner"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/afero"
)

// writeArtifact writes a derived artifact, replacing any previous version
// wholesale. Re-running a generation step therefore converges on the same
// file set instead of accumulating appended content. When an existing file
// is replaced with different content the diff is logged at debug level.
func writeArtifact(ctx *runner.Context, path, content string, mode os.FileMode) error {
	previous, readErr := afero.ReadFile(ctx.Fs, path)

	if err := ctx.Fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := afero.WriteFile(ctx.Fs, path, []byte(content), mode); err != nil {
		return err
	}

	if readErr == nil && string(previous) != content && ctx.Logger != nil {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(string(previous), content, false)
		ctx.Logger.Debug("overwrote artifact", "path", path, "diff", dmp.DiffPrettyText(diffs))
	}
	return nil
}
