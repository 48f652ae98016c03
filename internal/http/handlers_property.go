package http

import (
	"net/http"

	applog "github.com/avrm/opsdash/internal/log"
)

func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	props, err := s.deps.Properties.Properties(r.Context())
	if err != nil {
		writeError(w, r, applog.ComponentProperty, applog.OpList, err)
		return
	}
	OK(props).Write(w)
}

// handleUpdateProperty accepts {propertyId, includeInMetrics}. propertyId may
// be a string or a number; includeInMetrics must be a boolean.
func (s *Server) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	body, err := ParseJSONBody(w, r)
	if err != nil {
		writeError(w, r, applog.ComponentProperty, applog.OpValidate, err)
		return
	}
	id, err := body.String("propertyId")
	if err != nil {
		writeError(w, r, applog.ComponentProperty, applog.OpValidate, err)
		return
	}
	include, err := body.Bool("includeInMetrics")
	if err != nil {
		writeError(w, r, applog.ComponentProperty, applog.OpValidate, err)
		return
	}

	setting, err := s.deps.Properties.SetIncluded(r.Context(), id, include)
	if err != nil {
		writeError(w, r, applog.ComponentProperty, applog.OpUpsert, err)
		return
	}
	OK(setting).Write(w)
}

// handleSyncProperties refreshes the settings table from the PMS and returns
// {syncedCount}. Include flags chosen by the user survive a sync; only newly
// seen listings start out included. It does not reset existing rows to
// included.
func (s *Server) handleSyncProperties(w http.ResponseWriter, r *http.Request) {
	n, err := s.deps.Properties.Sync(r.Context())
	if err != nil {
		writeError(w, r, applog.ComponentProperty, applog.OpSync, err)
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "properties synced", applog.FieldRecords, n)
	OK(map[string]int{"syncedCount": n}).Write(w)
}
