package cli

import (
	"github.com/spf13/cobra"
)

// NewRemoveCmd creates the remove command.
func NewRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove REPO PKGBASE...",
		Short: "Remove package groups from a repository",
		Long: "Delete the metadata records of the given package groups, regenerate " +
			"the repository database and delete the groups' archive files",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			op, err := newOperator(cfg)
			if err != nil {
				return err
			}
			return op.Remove(cmd.Context(), args[0], args[1:])
		},
	}
}
