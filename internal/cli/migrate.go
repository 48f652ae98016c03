package cli

import (
	"github.com/spf13/cobra"

	"github.com/avrm/opsdash/internal/backend"
)

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bc, err := backend.FromAppConfig(a.cfg)
			if err != nil {
				return err
			}
			repo, err := a.factory.CreateStore(cmd.Context(), bc)
			if err != nil {
				return err
			}
			a.logger.Info("Migrations applied", "driver", repo.Driver())
			return repo.Close()
		},
	}
}
