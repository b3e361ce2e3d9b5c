package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sitstretch/internal/app"
	"sitstretch/internal/logger"
	"sitstretch/internal/version"
)

var (
	// settingsPath overrides the settings file location.
	settingsPath string
	// logLevel is the minimum level written to stderr.
	logLevel string
	// muted starts the timer with audio muted.
	muted bool

	// rootCmd runs the desktop timer.
	rootCmd = &cobra.Command{
		Use:   "sitstretch",
		Short: "Sitting and stretching timer with audio cues.",
		Long: `Desktop timer that cycles between sitting, a short preparation and stretching.

A bell marks the start of every period, the preparation and stretching
periods play a looped ambient track that fades out before they end.
Durations are edited in the preferences window and kept in a YAML file
in the user configuration directory.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", logLevel)
			}
			logger.SetLevel(level)
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return app.Run(ctx, &app.Options{
				SettingsPath: settingsPath,
				Muted:        muted,
			})
		},
	}
)

// Execute runs the CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)
	rootCmd.AddCommand(newAutostartCommand())

	if err := rootCmd.Execute(); err != nil {
		logger.Logger().Errorw("exit", "error", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&settingsPath, "settings", "s", "", "path to the settings file")
	rootCmd.Flags().BoolVarP(&muted, "muted", "m", false, "start with audio muted")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "log level: debug, info, warn or error")
}
