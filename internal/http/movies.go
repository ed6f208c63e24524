package httpserver

import (
	"context"
	"errors"
	"io"
	"net/http"
)

type favouriteRequest struct {
	Favorite *bool `json:"favorite"`
}

func (s *Server) handleTrailers(w http.ResponseWriter, r *http.Request) {
	s.movieAction(w, r, "load trailers", func(ctx context.Context, id int64) (interface{}, error) {
		trailers, err := s.movies.Trailers(ctx, id)
		return trailers, err
	})
}

func (s *Server) handleMovieState(w http.ResponseWriter, r *http.Request) {
	s.movieAction(w, r, "load movie state", func(ctx context.Context, id int64) (interface{}, error) {
		state, err := s.movies.State(ctx, id)
		return state, err
	})
}

// handleFavourite sets the favourite flag from the body, or flips it when the
// body is empty.
func (s *Server) handleFavourite(w http.ResponseWriter, r *http.Request) {
	var req favouriteRequest
	if err := decodeJSONBody(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		s.respondDecodeError(w, err)
		return
	}
	s.movieAction(w, r, "update favourite", func(ctx context.Context, id int64) (interface{}, error) {
		if req.Favorite == nil {
			state, err := s.movies.ToggleFavourite(ctx, id)
			return state, err
		}
		state, err := s.movies.SetFavourite(ctx, id, *req.Favorite)
		return state, err
	})
}

func (s *Server) movieAction(w http.ResponseWriter, r *http.Request, action string, fn func(ctx context.Context, id int64) (interface{}, error)) {
	id, err := parseMovieID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	result, err := fn(r.Context(), id)
	if err != nil {
		s.respondUpstreamError(w, err, action)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}
