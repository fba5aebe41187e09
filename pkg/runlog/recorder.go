// Package runlog implements the append-only run log of a provisioning run.
// Every record lands in a combined log, in a kind-specific log (checkpoints
// or errors) and on the process logger, and is flushed before the recorder
// returns so that a later hard failure cannot lose it.
package runlog

import (
	"fmt"
	"io"
	"time"

	"deskbox/pkg/log"
)

type Kind string

const (
	KindCheckpoint Kind = "CHECKPOINT"
	KindError      Kind = "ERROR"
)

// Entry is one immutable record of the run log.
type Entry struct {
	Time    time.Time
	Kind    Kind
	Message string
}

// String renders the on-disk record format: [KIND] <timestamp> <message>.
func (e Entry) String() string {
	return fmt.Sprintf("[%s] %s %s", e.Kind, e.Time.UTC().Format(time.RFC3339), e.Message)
}

type syncer interface {
	Sync() error
}

// Recorder appends run-log entries to its sinks. Any sink may be nil, in
// which case the entry is only kept in memory (and mirrored to the logger).
// Recorder is not safe for concurrent use; a run is single-threaded.
type Recorder struct {
	combined    io.Writer
	checkpoints io.Writer
	errors      io.Writer
	logger      log.Logger
	now         func() time.Time
	entries     []Entry
}

func New(combined, checkpoints, errors io.Writer, logger log.Logger) *Recorder {
	return &Recorder{
		combined:    combined,
		checkpoints: checkpoints,
		errors:      errors,
		logger:      logger,
		now:         time.Now,
	}
}

// Checkpoint records an informational progress entry.
func (r *Recorder) Checkpoint(format string, args ...any) {
	r.record(KindCheckpoint, fmt.Sprintf(format, args...))
}

// Error records a failure entry.
func (r *Recorder) Error(format string, args ...any) {
	r.record(KindError, fmt.Sprintf(format, args...))
}

func (r *Recorder) record(kind Kind, msg string) {
	entry := Entry{Time: r.now(), Kind: kind, Message: msg}
	r.entries = append(r.entries, entry)

	r.append(r.combined, entry)
	switch kind {
	case KindCheckpoint:
		r.append(r.checkpoints, entry)
		if r.logger != nil {
			r.logger.Info(msg)
		}
	case KindError:
		r.append(r.errors, entry)
		if r.logger != nil {
			r.logger.Error(msg)
		}
	}
}

func (r *Recorder) append(w io.Writer, entry Entry) {
	if w == nil {
		return
	}
	// A failing sink must not abort the run; the entry is still held in
	// memory and mirrored to the other sinks.
	_, _ = fmt.Fprintln(w, entry.String())
	if s, ok := w.(syncer); ok {
		_ = s.Sync()
	}
}

// Entries returns a copy of the ordered entries recorded so far.
func (r *Recorder) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Checkpoints returns only the checkpoint entries, in order.
func (r *Recorder) Checkpoints() []Entry {
	return r.filter(KindCheckpoint)
}

// Errors returns only the error entries, in order.
func (r *Recorder) Errors() []Entry {
	return r.filter(KindError)
}

func (r *Recorder) filter(kind Kind) []Entry {
	var out []Entry
	for _, e := range r.entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
