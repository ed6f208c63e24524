package httpserver

import (
	"net/http"
	"strings"

	"github.com/Clark-Hu/moviesapp/internal/domain"
	"github.com/Clark-Hu/moviesapp/internal/uistate"
)

const maxSearchLength = 200

type exploreResponse struct {
	Search string                        `json:"search"`
	Genres uistate.State[[]domain.Genre] `json:"genres"`
}

type searchRequest struct {
	Text string `json:"text"`
}

func (s *Server) exploreState() exploreResponse {
	return exploreResponse{
		Search: s.explore.SearchField(),
		Genres: s.explore.GenresState().Value(),
	}
}

// handleExplore returns the explore state and, with ?page=, one page of results
// for the current search text.
func (s *Server) handleExplore(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		s.respondJSON(w, http.StatusOK, s.exploreState())
		return
	}
	page, err := parsePage(raw)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	result, err := s.explore.Page(r.Context(), page)
	if err != nil {
		s.respondUpstreamError(w, err, "load explore page")
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleUpdateSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if len(req.Text) > maxSearchLength {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "search text is too long")
		return
	}
	s.explore.UpdateSearchField(strings.TrimSpace(req.Text))
	s.respondJSON(w, http.StatusOK, s.exploreState())
}

func (s *Server) handleLoadGenres(w http.ResponseWriter, r *http.Request) {
	s.trigger(w, r, "load genres", s.explore.LoadGenres, func() interface{} {
		return s.explore.GenresState().Value()
	})
}
