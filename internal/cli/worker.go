package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avrm/opsdash/internal/amqp"
	"github.com/avrm/opsdash/internal/backend"
	applog "github.com/avrm/opsdash/internal/log"
	"github.com/avrm/opsdash/internal/worker"
)

func newWorkerCommand(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Mirror expense entries into the Google Sheets ledger",
		Long: "Consumes expense_entry.upserted events and periodically re-mirrors the\n" +
			"current expense window. With --dry-run a single sweep is written to an\n" +
			"in-memory ledger and the process exits.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := SignalContext(cmd.Context())
			defer stop()
			return a.runWorker(ctx, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "sweep once into an in-memory ledger and exit")
	return cmd
}

func (a *app) runWorker(ctx context.Context, dryRun bool) error {
	logger := a.logger.WithComponent(applog.ComponentWorker)

	if !dryRun {
		if err := a.cfg.ValidateLedger(); err != nil {
			return fmt.Errorf("ledger worker: %w", err)
		}
	}

	bc, err := backend.FromAppConfig(a.cfg)
	if err != nil {
		return err
	}
	repo, err := a.factory.CreateStore(ctx, bc)
	if err != nil {
		return err
	}
	defer repo.Close()

	ledger, err := a.factory.CreateLedger(ctx, a.cfg, dryRun)
	if err != nil {
		return err
	}

	w := worker.NewLedgerWorker(repo, ledger, worker.Config{
		SweepInterval: a.cfg.SyncInterval,
		Months:        a.cfg.ExpenseWindowMonths,
	})

	if dryRun {
		n, err := w.Sweep(ctx)
		logger.Info("Dry-run sweep finished", applog.FieldRecords, n)
		return err
	}

	consumer, err := amqp.NewClient(a.cfg.AMQPURL, a.cfg.AMQPExchange, a.cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("initialize AMQP consumer: %w", err)
	}
	defer consumer.Close()

	logger.Info("Starting ledger worker",
		"exchange", a.cfg.AMQPExchange,
		"queue", a.cfg.AMQPQueue,
		"sweep_interval", a.cfg.SyncInterval.String())
	if err := w.Run(ctx, consumer); err != nil {
		return err
	}
	logger.Info("Worker shutdown complete")
	return nil
}
