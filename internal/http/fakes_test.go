package http

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avrm/opsdash/internal/config"
	"github.com/avrm/opsdash/internal/core"
	applog "github.com/avrm/opsdash/internal/log"
	"github.com/avrm/opsdash/internal/systems"
)

type fakeDashboard struct {
	enrichment core.EnrichmentMetrics
	hosting    core.HostingMetrics
	leads      []core.Lead
	err        error
}

func (f *fakeDashboard) Enrichment(context.Context) (core.EnrichmentMetrics, error) {
	return f.enrichment, f.err
}
func (f *fakeDashboard) TopListings(context.Context) ([]core.Listing, error) {
	return []core.Listing{{RecordID: "rec1"}}, f.err
}
func (f *fakeDashboard) Owners(context.Context) ([]core.Owner, error) {
	return []core.Owner{{RecordID: "own1"}}, f.err
}
func (f *fakeDashboard) Hosting(context.Context) (core.HostingMetrics, error) { return f.hosting, f.err }
func (f *fakeDashboard) Revenue(context.Context) (core.RevenueSummary, error) {
	return core.RevenueSummary{TTMRevenue: 1200, MonthlyAvg: 100, PropertyCount: 2}, f.err
}
func (f *fakeDashboard) Funnel(context.Context) ([]core.FunnelStage, error) {
	return []core.FunnelStage{{Name: "Leads", Count: 3, Value: "$12K"}}, f.err
}
func (f *fakeDashboard) Leads(context.Context) ([]core.Lead, error) { return f.leads, f.err }

type setIncludedCall struct {
	id      string
	include bool
}

type fakeProperties struct {
	views []core.PropertyView
	calls []setIncludedCall
	err   error
}

func (f *fakeProperties) Properties(context.Context) ([]core.PropertyView, error) {
	return f.views, f.err
}

func (f *fakeProperties) SetIncluded(_ context.Context, id string, include bool) (core.PropertySetting, error) {
	f.calls = append(f.calls, setIncludedCall{id, include})
	if f.err != nil {
		return core.PropertySetting{}, f.err
	}
	return core.PropertySetting{ID: id, IncludeInMetrics: include}, nil
}

func (f *fakeProperties) Sync(context.Context) (int, error) { return len(f.views), f.err }

type fakeExpenses struct {
	sources   []core.ExpenseSource
	created   []core.ExpenseSource
	upserted  []core.ExpenseEntry
	summary   core.ExpenseSummary
	gotMonths int
	err       error
}

func (f *fakeExpenses) Sources(context.Context) ([]core.ExpenseSource, error) { return f.sources, f.err }

func (f *fakeExpenses) CreateSource(_ context.Context, src core.ExpenseSource) (core.ExpenseSource, error) {
	if f.err != nil {
		return core.ExpenseSource{}, f.err
	}
	src.ID = int64(len(f.created) + 1)
	f.created = append(f.created, src)
	return src, nil
}

func (f *fakeExpenses) UpsertEntry(_ context.Context, e core.ExpenseEntry) (core.ExpenseEntry, error) {
	if f.err != nil {
		return core.ExpenseEntry{}, f.err
	}
	if err := e.Validate(); err != nil {
		return core.ExpenseEntry{}, err
	}
	e.ID = 7
	f.upserted = append(f.upserted, e)
	return e, nil
}

func (f *fakeExpenses) Summary(_ context.Context, months int) (core.ExpenseSummary, error) {
	f.gotMonths = months
	f.summary.Months = months
	return f.summary, f.err
}

type fakeContacts struct{ gotLimit int }

func (f *fakeContacts) Contacts(_ context.Context, limit int) ([]core.Contact, error) {
	f.gotLimit = limit
	return []core.Contact{{ID: "c1", FirstName: "Ada"}}, nil
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type testServer struct {
	*Server
	dashboard  *fakeDashboard
	properties *fakeProperties
	expenses   *fakeExpenses
	contacts   *fakeContacts
	env        map[string]string
}

func newTestServer(t *testing.T, mutate ...func(*Deps)) *testServer {
	t.Helper()
	catalog, err := systems.Load("")
	require.NoError(t, err)

	ts := &testServer{
		dashboard:  &fakeDashboard{},
		properties: &fakeProperties{},
		expenses:   &fakeExpenses{},
		contacts:   &fakeContacts{},
		env:        map[string]string{},
	}
	deps := Deps{
		Config:     config.Default(),
		Logger:     applog.New(applog.Config{Output: io.Discard}),
		Dashboard:  ts.dashboard,
		Properties: ts.properties,
		Expenses:   ts.expenses,
		Contacts:   ts.contacts,
		Systems:    catalog,
		Store:      fakePinger{},
		LookupEnv: func(k string) (string, bool) {
			v, ok := ts.env[k]
			return v, ok
		},
	}
	for _, m := range mutate {
		m(&deps)
	}
	srv, err := NewServer(":0", deps)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	ts.Server = srv
	return ts
}
