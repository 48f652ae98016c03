package http

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/avrm/opsdash/internal/config"
	"github.com/avrm/opsdash/internal/core"
	applog "github.com/avrm/opsdash/internal/log"
	"github.com/avrm/opsdash/internal/middleware/ratelimit"
	"github.com/avrm/opsdash/internal/middleware/security"
	"github.com/avrm/opsdash/internal/middleware/trace"
	"github.com/avrm/opsdash/internal/systems"
	"github.com/avrm/opsdash/internal/upstream"
)

// DashboardReader serves the read-only dashboard widgets.
type DashboardReader interface {
	Enrichment(ctx context.Context) (core.EnrichmentMetrics, error)
	TopListings(ctx context.Context) ([]core.Listing, error)
	Owners(ctx context.Context) ([]core.Owner, error)
	Hosting(ctx context.Context) (core.HostingMetrics, error)
	Revenue(ctx context.Context) (core.RevenueSummary, error)
	Funnel(ctx context.Context) ([]core.FunnelStage, error)
	Leads(ctx context.Context) ([]core.Lead, error)
}

// PropertyManager reads and edits property filter settings.
type PropertyManager interface {
	Properties(ctx context.Context) ([]core.PropertyView, error)
	SetIncluded(ctx context.Context, propertyID string, include bool) (core.PropertySetting, error)
	Sync(ctx context.Context) (int, error)
}

// ExpenseManager reads and writes expense sources and entries.
type ExpenseManager interface {
	Sources(ctx context.Context) ([]core.ExpenseSource, error)
	CreateSource(ctx context.Context, src core.ExpenseSource) (core.ExpenseSource, error)
	UpsertEntry(ctx context.Context, e core.ExpenseEntry) (core.ExpenseEntry, error)
	Summary(ctx context.Context, months int) (core.ExpenseSummary, error)
}

// Pinger checks backing store reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators behind the API routes.
type Deps struct {
	Config     *config.Config
	Logger     *applog.Logger
	Dashboard  DashboardReader
	Properties PropertyManager
	Expenses   ExpenseManager
	Contacts   upstream.ContactReader
	Systems    *systems.Catalog
	Store      Pinger

	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

type Server struct {
	http.Server
	deps    Deps
	limiter *ratelimit.Limiter

	shutdownOnce sync.Once
}

// NewServer builds the API server listening on addr.
func NewServer(addr string, deps Deps) (*Server, error) {
	if deps.Config == nil {
		deps.Config = config.Default()
	}
	if deps.Logger == nil {
		deps.Logger = applog.New(applog.DefaultConfig())
	}
	if deps.LookupEnv == nil {
		deps.LookupEnv = os.LookupEnv
	}

	resolver, err := security.NewClientIPResolver()
	if err != nil {
		return nil, fmt.Errorf("build client ip resolver: %w", err)
	}

	s := &Server{
		deps:    deps,
		limiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	mux := http.NewServeMux()
	s.routes(mux)

	limited := s.limiter.Middleware(resolver.ClientIP, func(w http.ResponseWriter, r *http.Request) {
		Fail(http.StatusTooManyRequests, "rate limit exceeded").Write(w)
	})(mux)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(deps.Logger.WithComponent(applog.ComponentHTTP), resolver.ClientIP)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           headers.Middleware(tracer.Middleware(limited)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      deps.Config.UpstreamTimeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/airtable/enrichment", s.handleEnrichment)
	mux.HandleFunc("GET /api/airtable/listings", s.handleListings)
	mux.HandleFunc("GET /api/airtable/owners", s.handleOwners)

	mux.HandleFunc("GET /api/hostaway/metrics", s.handleHostingMetrics)
	mux.HandleFunc("GET /api/hostaway/properties", s.handleListProperties)
	mux.HandleFunc("PUT /api/hostaway/properties", s.handleUpdateProperty)
	mux.HandleFunc("POST /api/hostaway/sync", s.handleSyncProperties)

	mux.HandleFunc("GET /api/finance/sources", s.handleListSources)
	mux.HandleFunc("POST /api/finance/sources", s.handleCreateSource)
	mux.HandleFunc("GET /api/finance/expenses", s.handleExpenseSummary)
	mux.HandleFunc("POST /api/finance/expenses", s.handleUpsertExpense)
	mux.HandleFunc("GET /api/finance/expenses/export", s.handleExportExpenses)
	mux.HandleFunc("GET /api/finance/revenue", s.handleRevenue)

	mux.HandleFunc("GET /api/pipeline/funnel", s.handleFunnel)
	mux.HandleFunc("GET /api/pipeline/leads", s.handleLeads)
	mux.HandleFunc("GET /api/ghl/contacts", s.handleContacts)

	mux.HandleFunc("GET /api/systems", s.handleSystems)
	mux.HandleFunc("GET /api/debug/env", s.handleDebugEnv)
}

// Shutdown stops the limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
