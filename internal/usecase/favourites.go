package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Clark-Hu/moviesapp/internal/domain"
	"github.com/Clark-Hu/moviesapp/internal/mappers"
	"github.com/Clark-Hu/moviesapp/internal/tmdb"
)

// ErrNoAccount is returned by account operations when no account is configured.
var ErrNoAccount = errors.New("usecase: no upstream account configured")

// Favourites serves the my-list screen and the per-movie account actions.
type Favourites struct {
	client    tmdb.Client
	accountID string
}

// NewFavourites binds the use case to an upstream account.
func NewFavourites(client tmdb.Client, accountID string) *Favourites {
	return &Favourites{client: client, accountID: accountID}
}

// List returns one page of the account's favourites.
func (u *Favourites) List(ctx context.Context, page int) ([]domain.MovieFavourite, error) {
	if u.accountID == "" {
		return nil, ErrNoAccount
	}
	resp, err := u.client.Favourites(ctx, u.accountID, page)
	if err != nil {
		return nil, err
	}
	return mappers.ToMovieFavourites(resp), nil
}

// Trailers returns the YouTube trailers of a movie.
func (u *Favourites) Trailers(ctx context.Context, movieID int64) (domain.MovieTrailer, error) {
	resp, err := u.client.Trailers(ctx, movieID)
	if err != nil {
		return domain.MovieTrailer{}, err
	}
	return mappers.ToMovieTrailer(resp), nil
}

// State returns whether the account marked the movie as favourite.
func (u *Favourites) State(ctx context.Context, movieID int64) (domain.MovieState, error) {
	resp, err := u.client.AccountState(ctx, movieID)
	if err != nil {
		return domain.MovieState{}, err
	}
	return mappers.ToMovieState(resp), nil
}

// SetFavourite marks or unmarks a movie.
func (u *Favourites) SetFavourite(ctx context.Context, movieID int64, favorite bool) (domain.MovieState, error) {
	if u.accountID == "" {
		return domain.MovieState{}, ErrNoAccount
	}
	if err := u.client.MarkFavourite(ctx, u.accountID, movieID, favorite); err != nil {
		return domain.MovieState{}, fmt.Errorf("mark favourite %d: %w", movieID, err)
	}
	return domain.MovieState{Favorite: favorite}, nil
}

// ToggleFavourite flips the movie's favourite flag and returns the new state.
func (u *Favourites) ToggleFavourite(ctx context.Context, movieID int64) (domain.MovieState, error) {
	current, err := u.State(ctx, movieID)
	if err != nil {
		return domain.MovieState{}, err
	}
	return u.SetFavourite(ctx, movieID, !current.Favorite)
}
