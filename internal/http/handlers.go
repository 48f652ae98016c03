package http

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	applog "github.com/avrm/opsdash/internal/log"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	OK(map[string]string{"status": "ok"}).Write(w)
}

// handleReady pings the backing store.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		OK(map[string]string{"status": "ok"}).Write(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.deps.Store.Ping(ctx); err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "readiness check failed", applog.FieldError, err.Error())
		Fail(http.StatusServiceUnavailable, "database unavailable").Write(w)
		return
	}
	OK(map[string]string{"status": "ready"}).Write(w)
}

func (s *Server) handleSystems(w http.ResponseWriter, r *http.Request) {
	if s.deps.Systems == nil {
		Fail(http.StatusInternalServerError, "systems catalog not loaded").Write(w)
		return
	}
	OK(s.deps.Systems).Write(w)
}

// debugEnvGroups lists the variables reported by /api/debug/env.
var debugEnvGroups = map[string][]string{
	"server":   {"PORT", "ENVIRONMENT", "LOG_LEVEL", "LOG_FORMAT", "DEBUG_KEY"},
	"database": {"DB_DRIVER", "SQLITE_DB_PATH", "DATABASE_URL", "POSTGRES_URL"},
	"airtable": {"AIRTABLE_API_KEY", "AIRTABLE_BASE_ID", "AIRTABLE_BASE_URL"},
	"hostaway": {"HOSTAWAY_API_KEY", "HOSTAWAY_ACCOUNT_ID", "HOSTAWAY_BASE_URL"},
	"ghl":      {"GHL_API_KEY", "GHL_LOCATION_ID", "GHL_BASE_URL"},
	"ledger": {
		"AMQP_URL", "AMQP_EXCHANGE", "AMQP_QUEUE",
		"GOOGLE_SPREADSHEET_ID", "GOOGLE_LEDGER_SHEET_NAME",
		"GOOGLE_SERVICE_ACCOUNT_JSON", "GOOGLE_SERVICE_ACCOUNT_FILE",
	},
}

// DebugEnvReport says which variables are set, never their values.
type DebugEnvReport struct {
	Environment string                     `json:"environment"`
	Variables   map[string]map[string]bool `json:"variables"`
}

func (s *Server) handleDebugEnv(w http.ResponseWriter, r *http.Request) {
	cfg := s.deps.Config
	if cfg.IsProduction() {
		key := r.URL.Query().Get("key")
		if cfg.DebugKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(cfg.DebugKey)) != 1 {
			Fail(http.StatusUnauthorized, "Unauthorized").Write(w)
			return
		}
	}

	report := DebugEnvReport{
		Environment: cfg.Environment,
		Variables:   make(map[string]map[string]bool, len(debugEnvGroups)),
	}
	for group, names := range debugEnvGroups {
		present := make(map[string]bool, len(names))
		for _, name := range names {
			v, ok := s.deps.LookupEnv(name)
			present[name] = ok && v != ""
		}
		report.Variables[group] = present
	}
	OK(report).Write(w)
}
