package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/lockmend/internal/app"
	"go.trai.ch/lockmend/internal/engine/autofix"
	"go.trai.ch/zerr"
)

// ErrConflictFound is returned by check --exit-code when the lockfile has conflicts.
var ErrConflictFound = zerr.New("lockfile has merge conflicts")

func (c *CLI) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report whether the lockfile has merge conflicts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			exitCode, _ := cmd.Flags().GetBool("exit-code")
			cwd, _ := cmd.Flags().GetString("cwd")

			status, err := c.app.Check(cmd.Context(), app.CheckOptions{Cwd: cwd})
			if err != nil {
				return err
			}
			if exitCode && status == autofix.StatusConflicted {
				return ErrConflictFound
			}
			return nil
		},
	}
	cmd.Flags().Bool("exit-code", false, "Exit with status 2 when the lockfile has conflicts")
	return cmd
}
