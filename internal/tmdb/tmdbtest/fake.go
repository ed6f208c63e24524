// Package tmdbtest provides an in-memory tmdb.Client for tests.
package tmdbtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/Clark-Hu/moviesapp/internal/tmdb"
)

// Fake implements tmdb.Client with overridable functions. A nil function
// returns a zero payload and no error. Calls are counted per method.
type Fake struct {
	PopularFunc       func(ctx context.Context, page int) (tmdb.MoviesResponse, error)
	NewReleasesFunc   func(ctx context.Context, page int) (tmdb.MoviesResponse, error)
	UpcomingFunc      func(ctx context.Context, page int) (tmdb.MoviesResponse, error)
	TopRatedFunc      func(ctx context.Context, page int) (tmdb.MoviesResponse, error)
	DiscoverFunc      func(ctx context.Context, page int) (tmdb.MoviesResponse, error)
	SearchFunc        func(ctx context.Context, query string, page int) (tmdb.MoviesResponse, error)
	GenresFunc        func(ctx context.Context) (tmdb.GenresResponse, error)
	TrailersFunc      func(ctx context.Context, movieID int64) (tmdb.TrailersResponse, error)
	AccountStateFunc  func(ctx context.Context, movieID int64) (tmdb.AccountState, error)
	FavouritesFunc    func(ctx context.Context, accountID string, page int) (tmdb.FavouritesResponse, error)
	MarkFavouriteFunc func(ctx context.Context, accountID string, movieID int64, favorite bool) error

	mu    sync.Mutex
	calls map[string]int
}

var _ tmdb.Client = (*Fake)(nil)

// Calls reports how many times method was invoked.
func (f *Fake) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *Fake) record(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[method]++
}

func (f *Fake) Popular(ctx context.Context, page int) (tmdb.MoviesResponse, error) {
	f.record("Popular")
	if f.PopularFunc == nil {
		return tmdb.MoviesResponse{}, nil
	}
	return f.PopularFunc(ctx, page)
}

func (f *Fake) NewReleases(ctx context.Context, page int) (tmdb.MoviesResponse, error) {
	f.record("NewReleases")
	if f.NewReleasesFunc == nil {
		return tmdb.MoviesResponse{}, nil
	}
	return f.NewReleasesFunc(ctx, page)
}

func (f *Fake) Upcoming(ctx context.Context, page int) (tmdb.MoviesResponse, error) {
	f.record("Upcoming")
	if f.UpcomingFunc == nil {
		return tmdb.MoviesResponse{}, nil
	}
	return f.UpcomingFunc(ctx, page)
}

func (f *Fake) TopRated(ctx context.Context, page int) (tmdb.MoviesResponse, error) {
	f.record("TopRated")
	if f.TopRatedFunc == nil {
		return tmdb.MoviesResponse{}, nil
	}
	return f.TopRatedFunc(ctx, page)
}

func (f *Fake) Discover(ctx context.Context, page int) (tmdb.MoviesResponse, error) {
	f.record("Discover")
	if f.DiscoverFunc == nil {
		return tmdb.MoviesResponse{}, nil
	}
	return f.DiscoverFunc(ctx, page)
}

func (f *Fake) Search(ctx context.Context, query string, page int) (tmdb.MoviesResponse, error) {
	f.record("Search")
	if f.SearchFunc == nil {
		return tmdb.MoviesResponse{}, nil
	}
	return f.SearchFunc(ctx, query, page)
}

func (f *Fake) Genres(ctx context.Context) (tmdb.GenresResponse, error) {
	f.record("Genres")
	if f.GenresFunc == nil {
		return tmdb.GenresResponse{}, nil
	}
	return f.GenresFunc(ctx)
}

func (f *Fake) Trailers(ctx context.Context, movieID int64) (tmdb.TrailersResponse, error) {
	f.record("Trailers")
	if f.TrailersFunc == nil {
		return tmdb.TrailersResponse{}, nil
	}
	return f.TrailersFunc(ctx, movieID)
}

func (f *Fake) AccountState(ctx context.Context, movieID int64) (tmdb.AccountState, error) {
	f.record("AccountState")
	if f.AccountStateFunc == nil {
		return tmdb.AccountState{ID: movieID}, nil
	}
	return f.AccountStateFunc(ctx, movieID)
}

func (f *Fake) Favourites(ctx context.Context, accountID string, page int) (tmdb.FavouritesResponse, error) {
	f.record("Favourites")
	if f.FavouritesFunc == nil {
		return tmdb.FavouritesResponse{}, nil
	}
	return f.FavouritesFunc(ctx, accountID, page)
}

func (f *Fake) MarkFavourite(ctx context.Context, accountID string, movieID int64, favorite bool) error {
	f.record("MarkFavourite")
	if f.MarkFavouriteFunc == nil {
		return nil
	}
	return f.MarkFavouriteFunc(ctx, accountID, movieID, favorite)
}

// Movies builds a listing page holding one result per id.
func Movies(page, totalPages int, ids ...int64) tmdb.MoviesResponse {
	results := make([]tmdb.MovieResult, 0, len(ids))
	for _, id := range ids {
		results = append(results, tmdb.MovieResult{
			ID:               id,
			OriginalLanguage: "en",
			OriginalTitle:    fmt.Sprintf("Movie %d", id),
			Title:            fmt.Sprintf("Movie %d", id),
			ReleaseDate:      "2024-01-01",
			VoteAverage:      7,
			VoteCount:        id,
		})
	}
	return tmdb.MoviesResponse{
		Page:         page,
		Results:      results,
		TotalPages:   totalPages,
		TotalResults: totalPages * len(ids),
	}
}

// Range returns the ids from first to last inclusive.
func Range(first, last int64) []int64 {
	ids := make([]int64, 0, last-first+1)
	for id := first; id <= last; id++ {
		ids = append(ids, id)
	}
	return ids
}
