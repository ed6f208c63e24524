package usecase

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/moviesapp/internal/domain"
	"github.com/Clark-Hu/moviesapp/internal/repository/repotest"
	"github.com/Clark-Hu/moviesapp/internal/tmdb"
	"github.com/Clark-Hu/moviesapp/internal/tmdb/tmdbtest"
)

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestMoviesWithNewReleases(t *testing.T) {
	db := repotest.New(t)
	ctx := context.Background()

	fake := &tmdbtest.Fake{
		PopularFunc: func(ctx context.Context, page int) (tmdb.MoviesResponse, error) {
			return tmdbtest.Movies(1, 5, 100, 101, 102), nil
		},
		NewReleasesFunc: func(ctx context.Context, page int) (tmdb.MoviesResponse, error) {
			return tmdbtest.Movies(1, 5, tmdbtest.Range(1, 20)...), nil
		},
	}
	u := NewMovies(fake, db.Repository, quietLogger())

	got, err := u.MoviesWithNewReleases(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 101, 102}, lo.Map(got.Movies, func(m domain.Movie, _ int) int64 { return m.MovieID }))
	assert.Equal(t, tmdbtest.Range(1, 20), lo.Map(got.NewReleases, func(m domain.MovieNewRelease, _ int) int64 { return m.MovieID }))
	for _, m := range got.Movies {
		assert.NotZero(t, m.ID)
	}

	// A second sync replaces the cached rows instead of appending.
	_, err = u.MoviesWithNewReleases(ctx)
	require.NoError(t, err)
	n, err := db.Repository.Movies.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestMoviesWithNewReleases_FailsWhenEitherFails(t *testing.T) {
	db := repotest.New(t)
	fake := &tmdbtest.Fake{
		PopularFunc: func(ctx context.Context, page int) (tmdb.MoviesResponse, error) {
			return tmdbtest.Movies(1, 1, 7), nil
		},
		NewReleasesFunc: func(ctx context.Context, page int) (tmdb.MoviesResponse, error) {
			return tmdb.MoviesResponse{}, tmdb.ErrTransient
		},
	}
	u := NewMovies(fake, db.Repository, quietLogger())

	_, err := u.MoviesWithNewReleases(context.Background())
	assert.ErrorIs(t, err, tmdb.ErrTransient)
}

func TestNewReleasesAndTopRated(t *testing.T) {
	top := tmdbtest.Movies(1, 9, 42)
	fake := &tmdbtest.Fake{
		NewReleasesFunc: func(ctx context.Context, page int) (tmdb.MoviesResponse, error) {
			assert.Equal(t, 1, page)
			return tmdbtest.Movies(1, 1, 3, 2, 1), nil
		},
		TopRatedFunc: func(ctx context.Context, page int) (tmdb.MoviesResponse, error) {
			return top, nil
		},
	}
	u := NewMovies(fake, nil, quietLogger())

	releases, err := u.NewReleases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, lo.Map(releases, func(m domain.MovieNewRelease, _ int) int64 { return m.MovieID }))
	assert.Zero(t, releases[0].ID)

	got, err := u.TopRated(context.Background())
	require.NoError(t, err)
	assert.Equal(t, top, got)
}

func TestFavourites(t *testing.T) {
	favourite := true
	var marked []bool
	fake := &tmdbtest.Fake{
		FavouritesFunc: func(ctx context.Context, accountID string, page int) (tmdb.FavouritesResponse, error) {
			assert.Equal(t, "acct", accountID)
			return tmdb.FavouritesResponse{Results: []*tmdb.FavouriteResult{{ID: lo.ToPtr(int64(5))}}}, nil
		},
		AccountStateFunc: func(ctx context.Context, movieID int64) (tmdb.AccountState, error) {
			return tmdb.AccountState{ID: movieID, Favorite: favourite}, nil
		},
		MarkFavouriteFunc: func(ctx context.Context, accountID string, movieID int64, favorite bool) error {
			marked = append(marked, favorite)
			return nil
		},
		TrailersFunc: func(ctx context.Context, movieID int64) (tmdb.TrailersResponse, error) {
			return tmdb.TrailersResponse{ID: lo.ToPtr(movieID), Results: []*tmdb.TrailerResult{
				{Site: lo.ToPtr("YouTube"), Type: lo.ToPtr("Trailer"), Key: lo.ToPtr("k")},
				{Site: lo.ToPtr("YouTube"), Type: lo.ToPtr("Clip"), Key: lo.ToPtr("c")},
			}}, nil
		},
	}
	u := NewFavourites(fake, "acct")
	ctx := context.Background()

	list, err := u.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(5), *list[0].ID)

	state, err := u.ToggleFavourite(ctx, 5)
	require.NoError(t, err)
	assert.False(t, state.Favorite)
	assert.Equal(t, []bool{false}, marked)

	trailers, err := u.Trailers(ctx, 5)
	require.NoError(t, err)
	require.Len(t, trailers.Results, 1)
	assert.Equal(t, "k", *trailers.Results[0].Key)
}

func TestFavourites_NoAccount(t *testing.T) {
	u := NewFavourites(&tmdbtest.Fake{}, "")
	_, err := u.List(context.Background(), 1)
	assert.True(t, errors.Is(err, ErrNoAccount))
	_, err = u.SetFavourite(context.Background(), 1, true)
	assert.True(t, errors.Is(err, ErrNoAccount))
}

func TestPagedSearch(t *testing.T) {
	fake := &tmdbtest.Fake{}
	p := NewPaged(fake, nil, quietLogger())
	_, err := p.Search("").Load(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.Calls("Discover"))
}
