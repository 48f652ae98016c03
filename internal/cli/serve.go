package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	apphttp "github.com/avrm/opsdash/internal/http"
	applog "github.com/avrm/opsdash/internal/log"
	"github.com/avrm/opsdash/internal/systems"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := SignalContext(cmd.Context())
			defer stop()
			return a.runServe(ctx, catalogPath)
		},
	}
	cmd.Flags().StringVar(&catalogPath, "systems", "", "systems catalog YAML (defaults to the embedded catalog)")
	return cmd
}

func (a *app) runServe(ctx context.Context, catalogPath string) error {
	logger := a.logger

	catalog, err := systems.Load(catalogPath)
	if err != nil {
		return fmt.Errorf("load systems catalog: %w", err)
	}

	res, err := a.factory.CreateBackend(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", applog.FieldError, err.Error())
		}
	}()

	srv, err := apphttp.NewServer(net.JoinHostPort("", a.cfg.Port), apphttp.Deps{
		Config:     a.cfg,
		Logger:     logger,
		Dashboard:  res.Dashboard,
		Properties: res.Properties,
		Expenses:   res.Expenses,
		Contacts:   res.Contacts,
		Systems:    catalog,
		Store:      res.Store,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting opsdash server",
			"port", a.cfg.Port,
			"environment", a.cfg.Environment,
			"driver", res.Store.Driver(),
			"ledger_mirror", a.cfg.LedgerEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on :%s: %w", a.cfg.Port, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
