package cmd

import (
	"encoding/json"
	"fmt"

	"deskbox/pkg/config"
	"deskbox/pkg/log"
	"deskbox/pkg/runlog"
	"deskbox/pkg/runner"
	"deskbox/pkg/steps"

	"github.com/spf13/cobra"
)

var dryRun bool

// provisionCmd represents the provision command
var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Provisions the host to match the manifest",
	Long: `The provision command reads the manifest, builds the ordered step plan
(host checks, package installs, service setup, browser profiles and
shortcuts, post-condition verification) and executes it. Every step is
checkpointed to the run log before and after it executes; the first fatal
step failure halts the run and the process exits non-zero.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := cmd.Context().Value("logger").(log.Logger)
		manifest, err := config.LoadManifest(hostFs, cfgFile, logger)
		if err != nil {
			return err
		}

		plan, err := steps.BuildPlan(manifest)
		if err != nil {
			return err
		}

		if dryRun {
			return printPlan(cmd, plan)
		}

		recorder, closeLogs, err := runlog.OpenFiles(hostFs, logDir, logger)
		if err != nil {
			return err
		}
		defer closeLogs()

		ctx := &runner.Context{
			Runner:         cmdRunner,
			Fs:             hostFs,
			LookPath:       lookPath,
			Logger:         logger,
			Recorder:       recorder,
			NonInteractive: true,
		}

		result := runner.New().Run(ctx, plan)
		if !result.Success() {
			return fmt.Errorf("provisioning failed at step %s: %s", result.FailedStep, result.Message)
		}

		logger.Info("Provisioning complete.")
		return nil
	},
}

func printPlan(cmd *cobra.Command, plan []runner.Step) error {
	if jsonOutput {
		stepsJSON := make([]stepForJSON, 0, len(plan))
		for _, step := range plan {
			stepsJSON = append(stepsJSON, stepForJSON{
				Name:    step.Name,
				Policy:  string(step.Policy),
				Details: step.Details,
			})
		}
		jsonBytes, err := json.MarshalIndent(stepsJSON, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal plan to JSON: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(jsonBytes))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), "The following steps will be executed:")
	for _, step := range plan {
		fmt.Fprintf(cmd.OutOrStdout(), "=> %s [%s]\n", step.Name, step.Policy)
		for _, detail := range step.Details {
			fmt.Fprintf(cmd.OutOrStdout(), "   - %s\n", detail)
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(provisionCmd)
	provisionCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the step plan without executing it")
	provisionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the plan in JSON format (only valid with --dry-run)")
}
