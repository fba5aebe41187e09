package cmd

import (
	"deskbox/pkg/config"
	"deskbox/pkg/log"
	"deskbox/pkg/steps"

	"github.com/spf13/cobra"
)

// planCmd represents the plan command
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Shows the step plan the manifest would execute",
	Long: `The plan command builds the ordered step plan for the manifest and prints
it without touching the host. Useful for reviewing what provision would do.`,
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

		return printPlan(cmd, plan)
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the plan in JSON format")
}
