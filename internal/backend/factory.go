package backend

import (
	"context"
	"fmt"

	"github.com/avrm/opsdash/internal/amqp"
	"github.com/avrm/opsdash/internal/config"
	applog "github.com/avrm/opsdash/internal/log"
	"github.com/avrm/opsdash/internal/services"
	"github.com/avrm/opsdash/internal/sheets"
	gsheet "github.com/avrm/opsdash/internal/sheets/google"
	"github.com/avrm/opsdash/internal/sheets/memory"
	"github.com/avrm/opsdash/internal/storage"
	"github.com/avrm/opsdash/internal/upstream"
	"github.com/avrm/opsdash/internal/upstream/airtable"
	"github.com/avrm/opsdash/internal/upstream/ghl"
	"github.com/avrm/opsdash/internal/upstream/hostaway"
)

// DefaultFactory implements Factory.
type DefaultFactory struct {
	logger *applog.Logger
}

func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{logger: logger.WithComponent(applog.ComponentBackend)}
}

// CreateStore opens the configured repository and runs migrations.
func (f *DefaultFactory) CreateStore(ctx context.Context, c Config) (*storage.Repository, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var (
		repo *storage.Repository
		err  error
	)
	switch c.Type {
	case SQLiteBackend:
		repo, err = storage.NewSQLiteRepository(c.SQLiteDBPath)
	case PostgresBackend:
		repo, err = storage.NewPostgresRepository(ctx, c.DatabaseURL)
	}
	if err != nil {
		return nil, fmt.Errorf("initialize %s repository: %w", c.Type, err)
	}
	f.logger.Info("Initialized repository", "driver", repo.Driver())
	return repo, nil
}

// CreateBackend wires the store, the upstream clients and the services.
// Upstream clients that lack credentials are replaced by stand-ins that
// report the configuration error on first use.
func (f *DefaultFactory) CreateBackend(ctx context.Context, cfg *config.Config) (*BackendResult, error) {
	bc, err := FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	repo, err := f.CreateStore(ctx, bc)
	if err != nil {
		return nil, err
	}

	var (
		listings     upstream.ListingReader
		owners       upstream.OwnerReader
		reservations upstream.ReservationReader
		reviews      upstream.ReviewReader
		lister       upstream.PropertyLister
		contacts     upstream.ContactReader
	)

	if at, err := airtable.New(cfg.Airtable, cfg.UpstreamTimeout); err != nil {
		f.logger.Warn("Airtable client unavailable", applog.FieldError, err.Error())
		listings, owners = upstream.Unavailable{Err: err}, upstream.Unavailable{Err: err}
	} else {
		listings, owners = at, at
	}

	if ha, err := hostaway.New(cfg.Hostaway, cfg.UpstreamTimeout); err != nil {
		f.logger.Warn("Hostaway client unavailable", applog.FieldError, err.Error())
		stub := upstream.Unavailable{Err: err}
		reservations, reviews, lister = stub, stub, stub
	} else {
		reservations, reviews, lister = ha, ha, ha
	}

	if gc, err := ghl.New(cfg.GHL, cfg.UpstreamTimeout); err != nil {
		f.logger.Warn("GHL client unavailable", applog.FieldError, err.Error())
		contacts = upstream.Unavailable{Err: err}
	} else {
		contacts = gc
	}

	expenses := services.NewExpenseService(repo, f.createPublisher(bc))

	return &BackendResult{
		Store: repo,
		Dashboard: services.NewDashboardService(services.DashboardDeps{
			Listings:     listings,
			Owners:       owners,
			Reservations: reservations,
			Reviews:      reviews,
			Stages:       ghl.PlaceholderStages{},
			Settings:     repo,
		}),
		Properties: services.NewPropertyService(repo, lister),
		Expenses:   expenses,
		Contacts:   contacts,
		Cleanup:    expenses.Close,
	}, nil
}

// createPublisher returns nil when AMQP is disabled or unreachable.
func (f *DefaultFactory) createPublisher(c Config) services.EntryPublisher {
	if c.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(c.AMQPURL, c.AMQPExchange, c.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without ledger mirror", applog.FieldError, err.Error())
		return nil
	}
	f.logger.Info("Initialized AMQP client", "exchange", c.AMQPExchange, "queue", c.AMQPQueue)
	return client
}

// CreateLedger returns the Google Sheets ledger, or an in-memory one for dry runs.
func (f *DefaultFactory) CreateLedger(ctx context.Context, cfg *config.Config, dryRun bool) (sheets.LedgerWriter, error) {
	if dryRun {
		f.logger.Info("Using in-memory ledger (dry run)")
		return memory.New(), nil
	}
	client, err := gsheet.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize Google Sheets ledger: %w", err)
	}
	f.logger.Info("Initialized Google Sheets ledger", "sheet", cfg.GoogleLedgerSheet)
	return client, nil
}
