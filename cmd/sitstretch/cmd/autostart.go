package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sitstretch/internal/app"
	"sitstretch/internal/platform"
)

func newAutostartCommand() *cobra.Command {
	var startMuted bool

	autostart := &cobra.Command{
		Use:   "autostart",
		Short: "Manage launching the timer at login.",
	}

	enable := &cobra.Command{
		Use:   "enable",
		Short: "Launch the timer at login.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			execPath, err := os.Executable()
			if err != nil {
				return fmt.Errorf("resolve executable: %w", err)
			}

			item := platform.LoginItem{Name: app.Name, Exec: execPath}
			if startMuted {
				item.Args = append(item.Args, "--muted")
			}
			if err := platform.InstallLoginItem(item); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "autostart enabled for", execPath)
			return nil
		},
	}
	enable.Flags().BoolVarP(&startMuted, "muted", "m", false, "start muted at login")

	disable := &cobra.Command{
		Use:   "disable",
		Short: "Stop launching the timer at login.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := platform.RemoveLoginItem(app.Name); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "autostart disabled")
			return nil
		},
	}

	autostart.AddCommand(enable, disable)
	return autostart
}
