package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"deskbox/pkg/log"
	"deskbox/pkg/system"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	logLevel   string
	logDir     string
	jsonOutput bool
	logger     log.Logger
	cmdRunner  system.CommandRunner = &system.LiveCommandRunner{}
	hostFs     afero.Fs             = afero.NewOsFs()
	lookPath   system.LookPathFunc  = exec.LookPath
	rootCmd                         = &cobra.Command{
		Use:   "deskbox",
		Short: "deskbox provisions Ubuntu remote-desktop workstations",
		Long: `A tool that turns a stock Ubuntu 24.04 machine into a remote-desktop
workstation: an XFCE desktop reachable over XRDP, with preconfigured Firefox
profiles and launcher shortcuts, driven by a declarative manifest and
executed as an ordered list of checkpointed provisioning steps.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLogLevel(logLevel)
			if err != nil {
				return err
			}
			writer := cmd.ErrOrStderr()
			logger = log.NewSlogLogger(level, writer)
			ctx := context.WithValue(cmd.Context(), "logger", logger)
			cmd.SetContext(ctx)
			return nil
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseLogLevel(levelStr string) (slog.Level, error) {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", levelStr)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "./deskbox.yaml", "manifest file (default is ./deskbox.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "/var/log/deskbox", "Directory for the run-log files")
}
