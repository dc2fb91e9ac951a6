package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/lockmend/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Fix the lockfile every time it changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			progress, _ := cmd.Flags().GetBool("progress")
			cwd, _ := cmd.Flags().GetString("cwd")
			return c.app.Watch(cmd.Context(), app.WatchOptions{Cwd: cwd, Progress: progress})
		},
	}
}
