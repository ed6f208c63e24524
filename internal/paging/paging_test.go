package paging

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

func TestKeysFor(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		resp     tmdb.MoviesResponse
		wantPrev *int
		wantNext *int
	}{
		{"first of many", 1, tmdbtest.Movies(1, 3, 1), nil, lo.ToPtr(2)},
		{"middle", 2, tmdbtest.Movies(2, 3, 1), lo.ToPtr(1), lo.ToPtr(3)},
		{"last", 3, tmdbtest.Movies(3, 3, 1), lo.ToPtr(2), nil},
		{"empty page", 2, tmdbtest.Movies(2, 5), lo.ToPtr(1), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev, next := keysFor(tt.page, tt.resp)
			assert.Equal(t, tt.wantPrev, prev)
			assert.Equal(t, tt.wantNext, next)
		})
	}
}

func TestSearchSource_EmptyQueryDiscovers(t *testing.T) {
	fake := &tmdbtest.Fake{
		DiscoverFunc: func(ctx context.Context, page int) (tmdb.MoviesResponse, error) {
			return tmdbtest.Movies(page, 2, 5, 6), nil
		},
	}

	page, err := NewSearchSource(fake, "").Load(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.Calls("Discover"))
	assert.Zero(t, fake.Calls("Search"))
	assert.Equal(t, []int64{5, 6}, lo.Map(page.Items, func(m domain.Movie, _ int) int64 { return m.MovieID }))
	assert.Nil(t, page.PrevKey)
	assert.Equal(t, lo.ToPtr(2), page.NextKey)
}

func TestSearchSource_QuerySearches(t *testing.T) {
	var gotQuery string
	fake := &tmdbtest.Fake{
		SearchFunc: func(ctx context.Context, query string, page int) (tmdb.MoviesResponse, error) {
			gotQuery = query
			return tmdbtest.Movies(page, 1, 9), nil
		},
	}

	page, err := NewSearchSource(fake, "alien").Load(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "alien", gotQuery)
	require.Len(t, page.Items, 1)
	assert.Nil(t, page.NextKey)
}

func TestSearchSource_PropagatesErrors(t *testing.T) {
	fake := &tmdbtest.Fake{
		SearchFunc: func(ctx context.Context, query string, page int) (tmdb.MoviesResponse, error) {
			return tmdb.MoviesResponse{}, tmdb.ErrTransient
		},
	}
	_, err := NewSearchSource(fake, "x").Load(context.Background(), 1)
	assert.ErrorIs(t, err, tmdb.ErrTransient)
}

func TestFeedMediator_LoadAppendRefresh(t *testing.T) {
	db := repotest.New(t)
	ctx := context.Background()

	fake := &tmdbtest.Fake{
		UpcomingFunc: func(ctx context.Context, page int) (tmdb.MoviesResponse, error) {
			first := int64(page-1)*2 + 1
			return tmdbtest.Movies(page, 2, first, first+1), nil
		},
	}
	mediator := Upcoming(fake, db.Repository, quietLogger())

	first, err := mediator.Append(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, lo.Map(first.Items, func(m domain.MovieUpcoming, _ int) int64 { return m.MovieID }))
	assert.Equal(t, lo.ToPtr(2), first.NextKey)
	for _, item := range first.Items {
		assert.NotZero(t, item.ID)
	}

	second, err := mediator.Append(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, lo.Map(second.Items, func(m domain.MovieUpcoming, _ int) int64 { return m.MovieID }))
	assert.Equal(t, lo.ToPtr(1), second.PrevKey)
	assert.Nil(t, second.NextKey)

	end, err := mediator.Append(ctx)
	require.NoError(t, err)
	assert.Empty(t, end.Items)
	assert.Nil(t, end.NextKey)
	assert.Equal(t, 2, fake.Calls("Upcoming"))

	cached, err := mediator.Cached(ctx, 10, "")
	require.NoError(t, err)
	assert.Len(t, cached.Items, 4)

	key, err := db.Repository.RemoteKeys.Get(ctx, FeedUpcoming, 3)
	require.NoError(t, err)
	assert.Equal(t, lo.ToPtr(1), key.PrevKey)

	_, err = mediator.Load(ctx, 1)
	require.NoError(t, err)
	n, err := db.Repository.Upcoming.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "page 1 starts the cache over")
	_, err = db.Repository.RemoteKeys.Get(ctx, FeedUpcoming, 3)
	assert.Error(t, err)
}

func TestFeedMediator_FetchErrorLeavesCache(t *testing.T) {
	db := repotest.New(t)
	ctx := context.Background()

	fail := false
	fake := &tmdbtest.Fake{
		NewReleasesFunc: func(ctx context.Context, page int) (tmdb.MoviesResponse, error) {
			if fail {
				return tmdb.MoviesResponse{}, tmdb.ErrTransient
			}
			return tmdbtest.Movies(page, 1, 10, 11, 12), nil
		},
	}
	mediator := NewReleases(fake, db.Repository, quietLogger())

	_, err := mediator.Load(ctx, 1)
	require.NoError(t, err)

	fail = true
	_, err = mediator.Load(ctx, 1)
	require.True(t, errors.Is(err, tmdb.ErrTransient))

	n, err := db.Repository.NewReleases.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
