package cmd

import (
	"fmt"

	"deskbox/pkg/config"
	"deskbox/pkg/log"
	"deskbox/pkg/runlog"
	"deskbox/pkg/runner"
	"deskbox/pkg/steps"

	"github.com/spf13/cobra"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Runs only the post-condition checks for the manifest",
	Long: `The verify command checks an already-provisioned host: the desktop and
browser binaries are on the PATH and the remote-access service is active.
It exits non-zero on the first failing check.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := cmd.Context().Value("logger").(log.Logger)
		manifest, err := config.LoadManifest(hostFs, cfgFile, logger)
		if err != nil {
			return err
		}

		checks, err := steps.VerificationPlan(manifest)
		if err != nil {
			return err
		}

		// Verification is read-only; the run log stays in memory and the
		// records surface through the process logger.
		ctx := &runner.Context{
			Runner:   cmdRunner,
			Fs:       hostFs,
			LookPath: lookPath,
			Logger:   logger,
			Recorder: runlog.New(nil, nil, nil, logger),
		}

		result := runner.New().Run(ctx, checks)
		if !result.Success() {
			return fmt.Errorf("verification failed at step %s: %s", result.FailedStep, result.Message)
		}

		logger.Info("Verification passed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
