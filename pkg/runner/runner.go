// Package runner drives an ordered list of provisioning steps to completion
// or to the first fatal failure. Every step gets identical checkpoint
// logging and identical halt semantics regardless of what it touches.
package runner

import (
	"os/exec"

	"deskbox/pkg/log"
	"deskbox/pkg/runlog"
	"deskbox/pkg/system"

	"github.com/spf13/afero"
)

// Policy decides what a step's failure does to the rest of the run.
type Policy string

const (
	// Fatal halts the whole run on failure. No later step executes.
	Fatal Policy = "fatal"
	// WarnAndContinue records the failure as a checkpoint and moves on.
	WarnAndContinue Policy = "warn-and-continue"
)

// Step is one named, orderable unit of provisioning work.
type Step struct {
	Name    string
	Policy  Policy
	Details []string // low-level operations, for plan listings
	Action  func(ctx *Context) error
}

// Context carries everything a step action may touch: the command boundary,
// the filesystem, PATH lookup and the run log. It is threaded explicitly
// through every action; there is no ambient global state.
type Context struct {
	Runner   system.CommandRunner
	Fs       afero.Fs
	LookPath system.LookPathFunc
	Logger   log.Logger
	Recorder *runlog.Recorder
	// NonInteractive makes package-manager steps run without prompts
	// (DEBIAN_FRONTEND=noninteractive).
	NonInteractive bool
}

// NewLiveContext returns a context wired to the real host.
func NewLiveContext(logger log.Logger, recorder *runlog.Recorder) *Context {
	return &Context{
		Runner:         &system.LiveCommandRunner{},
		Fs:             afero.NewOsFs(),
		LookPath:       exec.LookPath,
		Logger:         logger,
		Recorder:       recorder,
		NonInteractive: true,
	}
}

// State is the runner's lifecycle state.
type State string

const (
	StateNotStarted State = "not-started"
	StateRunning    State = "running"
	StateHalted     State = "halted"
	StateCompleted  State = "completed"
)

// Status is the terminal outcome of a whole run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Result is the single terminal outcome of a run. A failed run names the
// step that halted it and carries the step's failure message.
type Result struct {
	Status     Status
	FailedStep string
	Message    string
}

func (r Result) Success() bool {
	return r.Status == StatusSuccess
}

// ExitCode maps the result onto the process exit contract: 0 on success,
// non-zero on failure.
func (r Result) ExitCode() int {
	if r.Success() {
		return 0
	}
	return 1
}

// Runner executes steps strictly in declared order. A Runner is good for
// exactly one run.
type Runner struct {
	state   State
	current int
}

func New() *Runner {
	return &Runner{state: StateNotStarted}
}

// State reports the runner's current lifecycle state.
func (r *Runner) State() State {
	return r.state
}

// Run drives the steps in order. Each step is announced with a "starting"
// checkpoint before its action runs and closed with a checkpoint after. A
// failing Fatal step records an error plus a FAILED checkpoint and halts the
// run immediately; a failing WarnAndContinue step is recorded and the next
// step runs. Steps never run concurrently and no step is re-entered.
func (r *Runner) Run(ctx *Context, steps []Step) Result {
	for i, step := range steps {
		r.state = StateRunning
		r.current = i

		ctx.Recorder.Checkpoint("starting %s", step.Name)
		err := step.Action(ctx)
		if err == nil {
			ctx.Recorder.Checkpoint("%s succeeded", step.Name)
			continue
		}

		if step.Policy == WarnAndContinue {
			ctx.Recorder.Checkpoint("%s failed (continuing): %v", step.Name, err)
			continue
		}

		ctx.Recorder.Error("%s: %v", step.Name, err)
		ctx.Recorder.Checkpoint("FAILED: %v", err)
		r.state = StateHalted
		return Result{Status: StatusFailure, FailedStep: step.Name, Message: err.Error()}
	}

	r.state = StateCompleted
	return Result{Status: StatusSuccess}
}
