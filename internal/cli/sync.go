package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	applog "github.com/avrm/opsdash/internal/log"
)

func newSyncCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync-properties",
		Short: "Pull Hostaway listings into the property filter settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := SignalContext(cmd.Context())
			defer stop()

			res, err := a.factory.CreateBackend(ctx, a.cfg)
			if err != nil {
				return err
			}
			defer res.Cleanup()

			n, err := res.Properties.Sync(ctx)
			if err != nil {
				return fmt.Errorf("sync properties: %w", err)
			}
			a.logger.Info("Properties synced", applog.FieldRecords, n)
			fmt.Fprintf(cmd.OutOrStdout(), "synced %d properties\n", n)
			return nil
		},
	}
}
