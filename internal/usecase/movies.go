// Package usecase combines upstream fetches, the local cache and the mappers
// into the operations the view-models trigger.
package usecase

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Clark-Hu/moviesapp/internal/domain"
	"github.com/Clark-Hu/moviesapp/internal/entity"
	"github.com/Clark-Hu/moviesapp/internal/mappers"
	"github.com/Clark-Hu/moviesapp/internal/repository"
	"github.com/Clark-Hu/moviesapp/internal/tmdb"
)

// Movies serves the home screen feeds.
type Movies struct {
	client tmdb.Client
	repo   *repository.Repository
	logger logrus.FieldLogger
}

// NewMovies constructs the home feed use case.
func NewMovies(client tmdb.Client, repo *repository.Repository, logger logrus.FieldLogger) *Movies {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Movies{client: client, repo: repo, logger: logger.WithField("component", "usecase")}
}

// MoviesWithNewReleases syncs the first page of the general feed into the
// cache while fetching new releases, and returns both. Either failure fails
// the whole call.
func (u *Movies) MoviesWithNewReleases(ctx context.Context) (domain.MoviesWithNewReleases, error) {
	var result domain.MoviesWithNewReleases

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		movies, err := u.SyncMovies(gctx)
		if err != nil {
			return err
		}
		result.Movies = movies
		return nil
	})
	g.Go(func() error {
		releases, err := u.NewReleases(gctx)
		if err != nil {
			return err
		}
		result.NewReleases = releases
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.MoviesWithNewReleases{}, err
	}
	return result, nil
}

// SyncMovies replaces the cached general feed with the first upstream page.
func (u *Movies) SyncMovies(ctx context.Context) ([]domain.Movie, error) {
	resp, err := u.client.Popular(ctx, 1)
	if err != nil {
		return nil, err
	}
	var stored []entity.Movie
	err = u.repo.InTx(ctx, func(tx *repository.Repository) error {
		var err error
		stored, err = tx.Movies.ReplaceAll(ctx, mappers.ToMovieEntities(resp.Results))
		return err
	})
	if err != nil {
		return nil, err
	}
	u.logger.WithField("items", len(stored)).Debug("movies synced")
	return mappers.ToMovies(stored), nil
}

// NewReleases fetches the first page of the now-playing feed. The rows are
// not stored, so their local ids stay zero.
func (u *Movies) NewReleases(ctx context.Context) ([]domain.MovieNewRelease, error) {
	resp, err := u.client.NewReleases(ctx, 1)
	if err != nil {
		return nil, err
	}
	return mappers.ToMovieNewReleases(mappers.ToNewReleaseEntities(resp.Results)), nil
}

// TopRated returns the first top-rated page as delivered by upstream.
func (u *Movies) TopRated(ctx context.Context) (tmdb.MoviesResponse, error) {
	return u.client.TopRated(ctx, 1)
}

// Genres returns the explore filter genres.
func (u *Movies) Genres(ctx context.Context) ([]domain.Genre, error) {
	resp, err := u.client.Genres(ctx)
	if err != nil {
		return nil, err
	}
	return mappers.ToGenres(resp), nil
}
