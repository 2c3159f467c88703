package api

import (
	"net/http"
	"time"

	"github.com/rubiojr/xmlsearch/pkg/search"
	"github.com/rubiojr/xmlsearch/pkg/session"
	"github.com/rubiojr/xmlsearch/pkg/version"
)

// HandleSearch evaluates the query parameters the web UI uses (search
// parameter, page, sort, dir). A failed load is reported as a 503.
func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	state := session.Decode(r.URL.Query(), s.search.SessionOptions())

	results, err := s.search.Search(state)
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "Load failed", err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, NewSearchResponse(results))
}

func (s *Server) HandleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.search.Status())
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if s.search.Status().State == search.StateFailed {
		status = "degraded"
	}
	health := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
	}

	s.writeJSON(w, http.StatusOK, health)
}
