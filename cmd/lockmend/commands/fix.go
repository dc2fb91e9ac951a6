package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/lockmend/internal/app"
)

func (c *CLI) newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Rebuild a conflicted lockfile from both sides of the conflict",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			immutable, _ := cmd.Flags().GetBool("immutable")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			progress, _ := cmd.Flags().GetBool("progress")
			cwd, _ := cmd.Flags().GetString("cwd")
			return c.app.Fix(cmd.Context(), app.FixOptions{
				Cwd:       cwd,
				Immutable: immutable,
				DryRun:    dryRun,
				Progress:  progress,
			})
		},
	}
	cmd.Flags().Bool("immutable", false, "Fail instead of modifying a conflicted lockfile")
	cmd.Flags().Bool("dry-run", false, "Print the merged lockfile instead of writing it")
	return cmd
}
