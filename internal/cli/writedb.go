package cli

import (
	"github.com/spf13/cobra"
)

// NewWriteDBCmd creates the writedb command.
func NewWriteDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "writedb REPO",
		Short: "Regenerate a repository database",
		Long:  "Rebuild the binary database artifact of a repository from the metadata store alone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			op, err := newOperator(cfg)
			if err != nil {
				return err
			}
			return op.WriteDB(cmd.Context(), args[0])
		},
	}
}
