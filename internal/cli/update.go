package cli

import (
	"github.com/spf13/cobra"
)

// NewUpdateCmd creates the update command.
func NewUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Ingest staged package archives",
		Long: "Scan the staging area, validate and verify every staged archive, " +
			"update the metadata store and regenerate the affected repository databases",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			op, err := newOperator(cfg)
			if err != nil {
				return err
			}
			return op.Update(cmd.Context())
		},
	}
}
