// Package paging loads feeds one upstream page at a time.
//
// Feeds that are cached locally go through a FeedMediator: each loaded page is
// appended to the feed table together with the page keys of its movies, and
// loading page 1 starts the cache over. Search results are never cached and are
// served by a SearchSource.
package paging

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/moviesapp/internal/domain"
	"github.com/Clark-Hu/moviesapp/internal/entity"
	"github.com/Clark-Hu/moviesapp/internal/mappers"
	"github.com/Clark-Hu/moviesapp/internal/repository"
	"github.com/Clark-Hu/moviesapp/internal/tmdb"
)

// Remote key feed names.
const (
	FeedNewReleases = "new_releases"
	FeedUpcoming    = "upcoming"
)

// Page is one loaded page. A nil key means there is no neighbouring page in
// that direction.
type Page[T any] struct {
	Items   []T  `json:"items"`
	PrevKey *int `json:"prevKey"`
	NextKey *int `json:"nextKey"`
}

// Pager loads a page by its upstream page number.
type Pager[T any] interface {
	Load(ctx context.Context, page int) (Page[T], error)
}

// FeedMediator pages one cached feed.
type FeedMediator[E repository.Row, D any] struct {
	feed     string
	fetch    func(ctx context.Context, page int) (tmdb.MoviesResponse, error)
	rows     func(r *repository.Repository) *repository.FeedRepository[E]
	toRows   func([]tmdb.MovieResult) []E
	toDomain func([]E) []D
	repo     *repository.Repository
	logger   logrus.FieldLogger
}

// NewReleases pages the now-playing feed into the movie_new_releases table.
func NewReleases(client tmdb.Client, repo *repository.Repository, logger logrus.FieldLogger) *FeedMediator[entity.MovieNewRelease, domain.MovieNewRelease] {
	return &FeedMediator[entity.MovieNewRelease, domain.MovieNewRelease]{
		feed:     FeedNewReleases,
		fetch:    client.NewReleases,
		rows:     func(r *repository.Repository) *repository.FeedRepository[entity.MovieNewRelease] { return r.NewReleases },
		toRows:   mappers.ToNewReleaseEntities,
		toDomain: mappers.ToMovieNewReleases,
		repo:     repo,
		logger:   componentLogger(logger, FeedNewReleases),
	}
}

// Upcoming pages the upcoming feed into the movie_upcoming table.
func Upcoming(client tmdb.Client, repo *repository.Repository, logger logrus.FieldLogger) *FeedMediator[entity.MovieUpcoming, domain.MovieUpcoming] {
	return &FeedMediator[entity.MovieUpcoming, domain.MovieUpcoming]{
		feed:     FeedUpcoming,
		fetch:    client.Upcoming,
		rows:     func(r *repository.Repository) *repository.FeedRepository[entity.MovieUpcoming] { return r.Upcoming },
		toRows:   mappers.ToUpcomingEntities,
		toDomain: mappers.ToMovieUpcomings,
		repo:     repo,
		logger:   componentLogger(logger, FeedUpcoming),
	}
}

func componentLogger(logger logrus.FieldLogger, feed string) logrus.FieldLogger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return logger.WithFields(logrus.Fields{"component": "paging", "feed": feed})
}

// Feed returns the remote key feed name.
func (m *FeedMediator[E, D]) Feed() string {
	return m.feed
}

// Load fetches upstream page and appends it to the cache. Page 1 clears the
// cached rows and keys first, all inside the same transaction as the append.
func (m *FeedMediator[E, D]) Load(ctx context.Context, page int) (Page[D], error) {
	if page < 1 {
		page = 1
	}
	resp, err := m.fetch(ctx, page)
	if err != nil {
		return Page[D]{}, err
	}

	prev, next := keysFor(page, resp)
	var stored []E
	err = m.repo.InTx(ctx, func(tx *repository.Repository) error {
		rows := m.rows(tx)
		if page == 1 {
			if err := rows.Clear(ctx); err != nil {
				return err
			}
			if err := tx.RemoteKeys.Clear(ctx, m.feed); err != nil {
				return err
			}
		}
		var err error
		stored, err = rows.Insert(ctx, m.toRows(resp.Results))
		if err != nil {
			return err
		}
		keys := lo.Map(stored, func(row E, _ int) entity.RemoteKey {
			return entity.RemoteKey{Feed: m.feed, MovieID: entity.Movie(row).MovieID, PrevKey: prev, NextKey: next}
		})
		return tx.RemoteKeys.UpsertMany(ctx, keys)
	})
	if err != nil {
		return Page[D]{}, fmt.Errorf("cache %s page %d: %w", m.feed, page, err)
	}

	m.logger.WithFields(logrus.Fields{"page": page, "items": len(stored)}).Debug("page cached")
	return Page[D]{Items: m.toDomain(stored), PrevKey: prev, NextKey: next}, nil
}

// Append loads the page after the most recently cached row. An empty cache
// loads page 1. When the cache already holds the last page, Append returns an
// empty page with no next key.
func (m *FeedMediator[E, D]) Append(ctx context.Context) (Page[D], error) {
	last, err := m.rows(m.repo).Last(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return m.Load(ctx, 1)
	}
	if err != nil {
		return Page[D]{}, err
	}
	key, err := m.repo.RemoteKeys.Get(ctx, m.feed, entity.Movie(last).MovieID)
	if errors.Is(err, repository.ErrNotFound) {
		return m.Load(ctx, 1)
	}
	if err != nil {
		return Page[D]{}, err
	}
	if key.NextKey == nil {
		return Page[D]{Items: []D{}, PrevKey: key.PrevKey}, nil
	}
	return m.Load(ctx, *key.NextKey)
}

// CachedPage is a slice of the locally cached feed.
type CachedPage[D any] struct {
	Items      []D     `json:"items"`
	NextCursor *string `json:"nextCursor"`
}

// Cached reads the cached feed without touching upstream.
func (m *FeedMediator[E, D]) Cached(ctx context.Context, limit int, cursor string) (CachedPage[D], error) {
	decoded, err := repository.DecodeCursor(cursor)
	if err != nil {
		return CachedPage[D]{}, err
	}
	page, err := m.rows(m.repo).Page(ctx, limit, decoded)
	if err != nil {
		return CachedPage[D]{}, err
	}
	return CachedPage[D]{Items: m.toDomain(page.Items), NextCursor: page.NextCursor}, nil
}

func keysFor(page int, resp tmdb.MoviesResponse) (prev, next *int) {
	if page > 1 {
		prev = lo.ToPtr(page - 1)
	}
	if len(resp.Results) > 0 && page < resp.TotalPages {
		next = lo.ToPtr(page + 1)
	}
	return prev, next
}

// SearchSource pages explore results straight from upstream. An empty query
// lists discover results.
type SearchSource struct {
	client tmdb.Client
	query  string
}

var _ Pager[domain.Movie] = (*SearchSource)(nil)

// NewSearchSource returns a source for query.
func NewSearchSource(client tmdb.Client, query string) *SearchSource {
	return &SearchSource{client: client, query: query}
}

// Query returns the search text the source was built for.
func (s *SearchSource) Query() string {
	return s.query
}

// Load fetches one page of results.
func (s *SearchSource) Load(ctx context.Context, page int) (Page[domain.Movie], error) {
	if page < 1 {
		page = 1
	}
	var (
		resp tmdb.MoviesResponse
		err  error
	)
	if s.query == "" {
		resp, err = s.client.Discover(ctx, page)
	} else {
		resp, err = s.client.Search(ctx, s.query, page)
	}
	if err != nil {
		return Page[domain.Movie]{}, err
	}
	prev, next := keysFor(page, resp)
	return Page[domain.Movie]{
		Items:   mappers.ToMovies(mappers.ToMovieEntities(resp.Results)),
		PrevKey: prev,
		NextKey: next,
	}, nil
}
