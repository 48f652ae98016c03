package http

import (
	"fmt"
	"net/http"

	applog "github.com/avrm/opsdash/internal/log"
)

// contactsPageSize caps /api/ghl/contacts.
const contactsPageSize = 100

func (s *Server) handleEnrichment(w http.ResponseWriter, r *http.Request) {
	m, err := s.deps.Dashboard.Enrichment(r.Context())
	if err != nil {
		writeError(w, r, applog.ComponentMetrics, applog.OpRead, err)
		return
	}
	OK(m).Write(w)
}

func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	listings, err := s.deps.Dashboard.TopListings(r.Context())
	if err != nil {
		writeError(w, r, applog.ComponentUpstream, applog.OpList, err)
		return
	}
	OK(listings).Write(w)
}

func (s *Server) handleOwners(w http.ResponseWriter, r *http.Request) {
	owners, err := s.deps.Dashboard.Owners(r.Context())
	if err != nil {
		writeError(w, r, applog.ComponentUpstream, applog.OpList, err)
		return
	}
	OK(owners).Write(w)
}

func (s *Server) handleHostingMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := s.deps.Dashboard.Hosting(r.Context())
	if err != nil {
		writeError(w, r, applog.ComponentMetrics, applog.OpRead, err)
		return
	}
	resp := OK(m)
	if maxAge := int(s.deps.Config.HostingCacheMaxAge.Seconds()); maxAge > 0 {
		resp.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
	}
	resp.Write(w)
}

func (s *Server) handleRevenue(w http.ResponseWriter, r *http.Request) {
	rev, err := s.deps.Dashboard.Revenue(r.Context())
	if err != nil {
		writeError(w, r, applog.ComponentMetrics, applog.OpRead, err)
		return
	}
	OK(rev).Write(w)
}

func (s *Server) handleFunnel(w http.ResponseWriter, r *http.Request) {
	stages, err := s.deps.Dashboard.Funnel(r.Context())
	if err != nil {
		writeError(w, r, applog.ComponentMetrics, applog.OpRead, err)
		return
	}
	OK(stages).Write(w)
}

func (s *Server) handleLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := s.deps.Dashboard.Leads(r.Context())
	if err != nil {
		writeError(w, r, applog.ComponentMetrics, applog.OpList, err)
		return
	}
	OK(leads).Write(w)
}

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.deps.Contacts.Contacts(r.Context(), contactsPageSize)
	if err != nil {
		writeError(w, r, applog.ComponentUpstream, applog.OpList, err)
		return
	}
	OK(contacts).Write(w)
}
