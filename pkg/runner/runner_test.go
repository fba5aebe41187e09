package runner

import (
	"fmt"
	"testing"

	"deskbox/pkg/runlog"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext() (*Context, *runlog.Recorder) {
	recorder := runlog.New(nil, nil, nil, nil)
	return &Context{
		Fs:       afero.NewMemMapFs(),
		Recorder: recorder,
	}, recorder
}

func okStep(name string, executed *[]string) Step {
	return Step{
		Name:   name,
		Policy: Fatal,
		Action: func(ctx *Context) error {
			*executed = append(*executed, name)
			return nil
		},
	}
}

func failStep(name string, policy Policy, msg string, executed *[]string) Step {
	return Step{
		Name:   name,
		Policy: policy,
		Action: func(ctx *Context) error {
			*executed = append(*executed, name)
			return fmt.Errorf("%s", msg)
		},
	}
}

func TestRun_AllStepsSucceed(t *testing.T) {
	ctx, recorder := newTestContext()
	var executed []string
	steps := []Step{
		okStep("A", &executed),
		okStep("B", &executed),
		okStep("C", &executed),
	}

	result := New().Run(ctx, steps)

	assert.True(t, result.Success())
	assert.Equal(t, 0, result.ExitCode())
	assert.Equal(t, []string{"A", "B", "C"}, executed)

	// Exactly one "starting" and one "succeeded" checkpoint per step, in order.
	checkpoints := recorder.Checkpoints()
	require.Len(t, checkpoints, 6)
	expected := []string{
		"starting A", "A succeeded",
		"starting B", "B succeeded",
		"starting C", "C succeeded",
	}
	for i, want := range expected {
		assert.Equal(t, want, checkpoints[i].Message)
	}
	assert.Empty(t, recorder.Errors())
}

func TestRun_FatalFailureHaltsRun(t *testing.T) {
	ctx, recorder := newTestContext()
	var executed []string
	steps := []Step{
		okStep("A", &executed),
		failStep("B", Fatal, "disk full", &executed),
		okStep("C", &executed),
	}

	result := New().Run(ctx, steps)

	assert.False(t, result.Success())
	assert.Equal(t, 1, result.ExitCode())
	assert.Equal(t, "B", result.FailedStep)
	assert.Equal(t, "disk full", result.Message)

	// C never starts.
	assert.Equal(t, []string{"A", "B"}, executed)
	for _, entry := range recorder.Entries() {
		assert.NotContains(t, entry.Message, "C")
	}

	// Exactly one error entry carrying the failure message.
	errors := recorder.Errors()
	require.Len(t, errors, 1)
	assert.Contains(t, errors[0].Message, "disk full")

	// The failure is also visible as a checkpoint.
	checkpoints := recorder.Checkpoints()
	require.Len(t, checkpoints, 4)
	assert.Equal(t, "starting A", checkpoints[0].Message)
	assert.Equal(t, "A succeeded", checkpoints[1].Message)
	assert.Equal(t, "starting B", checkpoints[2].Message)
	assert.Equal(t, "FAILED: disk full", checkpoints[3].Message)
}

func TestRun_WarnAndContinueKeepsGoing(t *testing.T) {
	ctx, recorder := newTestContext()
	var executed []string
	steps := []Step{
		okStep("A", &executed),
		failStep("B", WarnAndContinue, "optional tweak failed", &executed),
		okStep("C", &executed),
	}

	result := New().Run(ctx, steps)

	assert.True(t, result.Success())
	assert.Equal(t, []string{"A", "B", "C"}, executed)

	// The tolerated failure is visible, not silently swallowed.
	checkpoints := recorder.Checkpoints()
	require.Len(t, checkpoints, 6)
	assert.Equal(t, "B failed (continuing): optional tweak failed", checkpoints[3].Message)
	assert.Empty(t, recorder.Errors())
}

func TestRun_WarnAndContinueThenFatal(t *testing.T) {
	ctx, _ := newTestContext()
	var executed []string
	steps := []Step{
		failStep("A", WarnAndContinue, "tolerated", &executed),
		failStep("B", Fatal, "fatal", &executed),
		okStep("C", &executed),
	}

	result := New().Run(ctx, steps)

	assert.False(t, result.Success())
	assert.Equal(t, "B", result.FailedStep)
	assert.Equal(t, []string{"A", "B"}, executed)
}

func TestRun_EmptyStepList(t *testing.T) {
	ctx, recorder := newTestContext()

	result := New().Run(ctx, nil)

	assert.True(t, result.Success())
	assert.Empty(t, recorder.Entries())
}

func TestRunner_StateMachine(t *testing.T) {
	ctx, _ := newTestContext()
	r := New()
	assert.Equal(t, StateNotStarted, r.State())

	var observed State
	steps := []Step{{
		Name:   "probe",
		Policy: Fatal,
		Action: func(ctx *Context) error {
			observed = r.State()
			return nil
		},
	}}

	result := r.Run(ctx, steps)
	assert.True(t, result.Success())
	assert.Equal(t, StateRunning, observed)
	assert.Equal(t, StateCompleted, r.State())
}

func TestRunner_StateHaltedOnFatalFailure(t *testing.T) {
	ctx, _ := newTestContext()
	r := New()
	var executed []string

	result := r.Run(ctx, []Step{failStep("A", Fatal, "boom", &executed)})

	assert.False(t, result.Success())
	assert.Equal(t, StateHalted, r.State())
}

func TestNewLiveContext(t *testing.T) {
	recorder := runlog.New(nil, nil, nil, nil)
	ctx := NewLiveContext(nil, recorder)

	assert.NotNil(t, ctx.Runner)
	assert.NotNil(t, ctx.Fs)
	assert.NotNil(t, ctx.LookPath)
	assert.True(t, ctx.NonInteractive)
	assert.Same(t, recorder, ctx.Recorder)
}
