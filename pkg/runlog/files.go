package runlog

import (
	"fmt"
	"os"
	"path/filepath"

	"deskbox/pkg/log"

	"github.com/spf13/afero"
)

// File names of the three run-log sinks inside the log directory.
const (
	CombinedLogName   = "provision.log"
	CheckpointLogName = "checkpoints.log"
	ErrorLogName      = "errors.log"
)

// OpenFiles opens the three run-log files under dir in append mode and
// returns a Recorder writing to them, plus a close function for the
// underlying files. Existing content is never truncated; a re-run appends
// after the previous run's records.
func OpenFiles(fs afero.Fs, dir string, logger log.Logger) (*Recorder, func() error, error) {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("error creating log directory %s: %w", dir, err)
	}

	var files []afero.File
	open := func(name string) (afero.File, error) {
		f, err := fs.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("error opening log file %s: %w", name, err)
		}
		files = append(files, f)
		return f, nil
	}

	closeAll := func() error {
		var lastErr error
		for _, f := range files {
			if err := f.Close(); err != nil {
				lastErr = err
			}
		}
		return lastErr
	}

	combined, err := open(CombinedLogName)
	if err != nil {
		return nil, nil, err
	}
	checkpoints, err := open(CheckpointLogName)
	if err != nil {
		_ = closeAll()
		return nil, nil, err
	}
	errors, err := open(ErrorLogName)
	if err != nil {
		_ = closeAll()
		return nil, nil, err
	}

	return New(combined, checkpoints, errors, logger), closeAll, nil
}
