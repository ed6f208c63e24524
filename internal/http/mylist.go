package httpserver

import (
	"net/http"

	"github.com/Clark-Hu/moviesapp/internal/domain"
	"github.com/Clark-Hu/moviesapp/internal/uistate"
)

func (s *Server) myListState() uistate.State[[]domain.MovieFavourite] {
	return s.mylist.FavouritesState().Value()
}

func (s *Server) handleMyList(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.myListState())
}

func (s *Server) handleMyListRefresh(w http.ResponseWriter, r *http.Request) {
	s.trigger(w, r, "load favourites", s.mylist.LoadFavourites, func() interface{} {
		return s.myListState()
	})
}
