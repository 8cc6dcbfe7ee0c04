package cli

import (
	"github.com/spf13/cobra"
)

// NewMoveCmd creates the move command.
func NewMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move REPO_FROM REPO_TO PKGBASE...",
		Short: "Move package groups between repositories",
		Long: "Relocate the metadata records of the given package groups from one " +
			"repository to another and regenerate both repository databases",
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			op, err := newOperator(cfg)
			if err != nil {
				return err
			}
			return op.Move(cmd.Context(), args[0], args[1], args[2:])
		},
	}
}
