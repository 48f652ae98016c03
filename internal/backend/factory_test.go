package backend

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avrm/opsdash/internal/config"
	"github.com/avrm/opsdash/internal/core"
	applog "github.com/avrm/opsdash/internal/log"
	"github.com/avrm/opsdash/internal/sheets/memory"
)

func quietFactory() *DefaultFactory {
	return NewFactory(applog.New(applog.Config{Output: io.Discard})).(*DefaultFactory)
}

func TestFromAppConfig(t *testing.T) {
	cfg := config.Default()
	c, err := FromAppConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, SQLiteBackend, c.Type)

	cfg.DBDriver = "postgres"
	_, err = FromAppConfig(cfg)
	assert.ErrorContains(t, err, "DATABASE_URL")

	cfg.DBDriver = "mysql"
	_, err = FromAppConfig(cfg)
	assert.ErrorContains(t, err, "[sqlite postgres]")

	_, err = FromAppConfig(nil)
	assert.Error(t, err)
}

func TestBackendTypeIsValid(t *testing.T) {
	for _, bt := range GetBackendTypes() {
		assert.True(t, bt.IsValid(), bt.String())
	}
	assert.False(t, BackendType("mysql").IsValid())
	assert.False(t, BackendType("").IsValid())
}

func TestCreateBackendWithoutCredentials(t *testing.T) {
	cfg := config.Default()
	cfg.SQLiteDBPath = filepath.Join(t.TempDir(), "opsdash.db")

	res, err := quietFactory().CreateBackend(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Cleanup() })

	require.NoError(t, res.Store.Ping(context.Background()))

	_, err = res.Dashboard.Enrichment(context.Background())
	var cfgErr *core.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "Airtable", cfgErr.Service)
	assert.ErrorContains(t, err, "AIRTABLE_API_KEY")

	_, err = res.Contacts.Contacts(context.Background(), 10)
	assert.ErrorContains(t, err, "GHL_API_KEY")

	_, err = res.Properties.Sync(context.Background())
	assert.ErrorContains(t, err, "HOSTAWAY_API_KEY")

	src, err := res.Expenses.CreateSource(context.Background(), core.ExpenseSource{Name: "Cleaning", IsRecurring: true, IsActive: true})
	require.NoError(t, err)
	assert.NotZero(t, src.ID)
}

func TestCreateLedgerDryRun(t *testing.T) {
	ledger, err := quietFactory().CreateLedger(context.Background(), config.Default(), true)
	require.NoError(t, err)
	assert.IsType(t, &memory.Ledger{}, ledger)

	_, err = quietFactory().CreateLedger(context.Background(), config.Default(), false)
	assert.ErrorContains(t, err, "GOOGLE_SPREADSHEET_ID")
}
