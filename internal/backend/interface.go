package backend

import (
	"context"

	"github.com/avrm/opsdash/internal/config"
	"github.com/avrm/opsdash/internal/services"
	"github.com/avrm/opsdash/internal/sheets"
	"github.com/avrm/opsdash/internal/storage"
	"github.com/avrm/opsdash/internal/upstream"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// BackendResult is the wired set of collaborators the API and CLI consume.
type BackendResult struct {
	Store      *storage.Repository
	Dashboard  *services.DashboardService
	Properties *services.PropertyService
	Expenses   *services.ExpenseService
	Contacts   upstream.ContactReader
	Cleanup    CleanupFunc
}

// Factory builds backends from configuration.
type Factory interface {
	CreateStore(ctx context.Context, c Config) (*storage.Repository, error)
	CreateBackend(ctx context.Context, cfg *config.Config) (*BackendResult, error)
	CreateLedger(ctx context.Context, cfg *config.Config, dryRun bool) (sheets.LedgerWriter, error)
}

// Config selects and locates the backing store.
type Config struct {
	Type         BackendType
	SQLiteDBPath string
	DatabaseURL  string

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType names a relational backing store.
type BackendType string

const (
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}
