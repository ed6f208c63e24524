package httpserver

import (
	"net/http"

	"github.com/Clark-Hu/moviesapp/internal/domain"
	"github.com/Clark-Hu/moviesapp/internal/tmdb"
	"github.com/Clark-Hu/moviesapp/internal/uistate"
	"github.com/Clark-Hu/moviesapp/internal/viewmodel"
)

type homeResponse struct {
	MoviesWithNewReleases uistate.State[domain.MoviesWithNewReleases] `json:"moviesWithNewReleases"`
	NewReleases           uistate.State[[]domain.MovieNewRelease]     `json:"newReleases"`
	TopRated              uistate.State[tmdb.MoviesResponse]          `json:"topRated"`
}

func (s *Server) homeState() homeResponse {
	return homeResponse{
		MoviesWithNewReleases: s.home.MoviesWithNewReleasesState().Value(),
		NewReleases:           s.home.NewReleasesState().Value(),
		TopRated:              s.home.TopRatedState().Value(),
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.homeState())
}

func (s *Server) handleHomeRefresh(w http.ResponseWriter, r *http.Request) {
	s.trigger(w, r, "refresh home", s.home.LoadMoviesWithNewReleases, func() interface{} {
		return s.home.MoviesWithNewReleasesState().Value()
	})
}

func (s *Server) handleNewReleases(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.home.NewReleasesState().Value())
}

func (s *Server) handleLoadNewReleases(w http.ResponseWriter, r *http.Request) {
	s.trigger(w, r, "load new releases", s.home.LoadNewReleases, func() interface{} {
		return s.home.NewReleasesState().Value()
	})
}

func (s *Server) handleTopRated(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.home.TopRatedState().Value())
}

func (s *Server) handleLoadTopRated(w http.ResponseWriter, r *http.Request) {
	s.trigger(w, r, "load top rated", s.home.LoadTopRated, func() interface{} {
		return s.home.TopRatedState().Value()
	})
}

func (s *Server) handleNewReleasePages(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r.URL.Query().Get("page"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	result, err := s.home.NewReleasePages(r.Context(), page)
	if err != nil {
		s.respondUpstreamError(w, err, "load new releases page")
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleUpcomingPages(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r.URL.Query().Get("page"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	result, err := s.home.UpcomingPages(r.Context(), page)
	if err != nil {
		s.respondUpstreamError(w, err, "load upcoming page")
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

// trigger launches a feed fetch. By default it answers 202 with the Loading
// state; with ?wait=true it answers once the fetch has finished.
func (s *Server) trigger(w http.ResponseWriter, r *http.Request, action string, launch func() *viewmodel.Job, state func() interface{}) {
	job := launch()
	if !wantsWait(r) {
		select {
		case <-job.Done():
			if err := job.Wait(); err != nil {
				s.respondUpstreamError(w, err, action)
				return
			}
			s.respondJSON(w, http.StatusOK, state())
		default:
			s.respondJSON(w, http.StatusAccepted, state())
		}
		return
	}

	select {
	case <-job.Done():
	case <-r.Context().Done():
		return
	}
	if err := job.Wait(); err != nil {
		s.respondUpstreamError(w, err, action)
		return
	}
	s.respondJSON(w, http.StatusOK, state())
}
