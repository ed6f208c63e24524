package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/Clark-Hu/moviesapp/internal/entity"
	"github.com/Clark-Hu/moviesapp/internal/repository"
	"github.com/Clark-Hu/moviesapp/internal/repository/repotest"
)

type testEnv struct {
	ctx        context.Context
	repository *repository.Repository
}

func newTestEnv(t testing.TB) *testEnv {
	t.Helper()
	db := repotest.New(t)
	return &testEnv{ctx: context.Background(), repository: db.Repository}
}

func movieRow(movieID int64) entity.Movie {
	poster := fmt.Sprintf("/poster-%d.jpg", movieID)
	return entity.Movie{
		MovieID:          movieID,
		OriginalLanguage: "en",
		OriginalTitle:    fmt.Sprintf("Movie %d", movieID),
		Overview:         "overview",
		Popularity:       float64(movieID),
		PosterPath:       &poster,
		ReleaseDate:      "2024-01-01",
		Title:            fmt.Sprintf("Movie %d", movieID),
		VoteAverage:      7.5,
		VoteCount:        movieID * 10,
	}
}

func TestFeedRepository_InsertPageReplace(t *testing.T) {
	env := newTestEnv(t)

	rows := []entity.Movie{movieRow(30), movieRow(10), movieRow(20)}
	stored, err := env.repository.Movies.Insert(env.ctx, rows)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("stored = %d rows, want 3", len(stored))
	}
	for i, row := range stored {
		if row.ID == 0 {
			t.Fatalf("row %d has no local id", i)
		}
		if row.MovieID != rows[i].MovieID {
			t.Fatalf("row %d movie id = %d, want %d", i, row.MovieID, rows[i].MovieID)
		}
		if row.ID == row.MovieID {
			t.Fatalf("local id must not reuse upstream id")
		}
	}

	firstPage, err := env.repository.Movies.Page(env.ctx, 2, nil)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if len(firstPage.Items) != 2 || firstPage.NextCursor == nil {
		t.Fatalf("page 1 = %+v, want 2 items and a cursor", firstPage)
	}
	if firstPage.Items[0].MovieID != 30 || firstPage.Items[1].MovieID != 10 {
		t.Fatalf("page 1 order = %d,%d, want 30,10", firstPage.Items[0].MovieID, firstPage.Items[1].MovieID)
	}
	if firstPage.Items[1].BackdropPath != nil {
		t.Fatalf("absent backdrop came back as %q", *firstPage.Items[1].BackdropPath)
	}

	cursor, err := repository.DecodeCursor(*firstPage.NextCursor)
	if err != nil {
		t.Fatalf("decode cursor: %v", err)
	}
	secondPage, err := env.repository.Movies.Page(env.ctx, 2, cursor)
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(secondPage.Items) != 1 || secondPage.Items[0].MovieID != 20 {
		t.Fatalf("page 2 = %+v, want movie 20", secondPage.Items)
	}
	if secondPage.NextCursor != nil {
		t.Fatalf("expected last page to have no cursor")
	}

	err = env.repository.InTx(env.ctx, func(tx *repository.Repository) error {
		_, err := tx.Movies.ReplaceAll(env.ctx, []entity.Movie{movieRow(99)})
		return err
	})
	if err != nil {
		t.Fatalf("replace all: %v", err)
	}
	count, err := env.repository.Movies.Count(env.ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("count after replace = %d, want 1", count)
	}
	last, err := env.repository.Movies.Last(env.ctx)
	if err != nil {
		t.Fatalf("last: %v", err)
	}
	if last.MovieID != 99 {
		t.Fatalf("last movie = %d, want 99", last.MovieID)
	}
}

func TestFeedRepository_TablesAreIndependent(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.repository.NewReleases.Insert(env.ctx, []entity.MovieNewRelease{entity.MovieNewRelease(movieRow(1))}); err != nil {
		t.Fatalf("insert new release: %v", err)
	}
	if _, err := env.repository.Upcoming.Last(env.ctx); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("upcoming Last() error = %v, want repository.ErrNotFound", err)
	}
	n, err := env.repository.NewReleases.Count(env.ctx)
	if err != nil || n != 1 {
		t.Fatalf("new releases count = %d (%v), want 1", n, err)
	}
}

func TestInTx_RollsBackOnError(t *testing.T) {
	env := newTestEnv(t)

	boom := errors.New("boom")
	err := env.repository.InTx(env.ctx, func(tx *repository.Repository) error {
		if _, err := tx.Upcoming.Insert(env.ctx, []entity.MovieUpcoming{entity.MovieUpcoming(movieRow(5))}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("InTx error = %v, want boom", err)
	}
	n, err := env.repository.Upcoming.Count(env.ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("count after rollback = %d, want 0", n)
	}
}

func TestRemoteKeysRepository_UpsertGetClear(t *testing.T) {
	env := newTestEnv(t)

	one, two, three := 1, 2, 3
	keys := []entity.RemoteKey{
		{Feed: "upcoming", MovieID: 7, PrevKey: nil, NextKey: &two},
		{Feed: "upcoming", MovieID: 8, PrevKey: nil, NextKey: &two},
		{Feed: "upcoming", MovieID: 7, PrevKey: &one, NextKey: &three},
	}
	if err := env.repository.RemoteKeys.UpsertMany(env.ctx, keys); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := env.repository.RemoteKeys.Get(env.ctx, "upcoming", 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PrevKey == nil || *got.PrevKey != 1 || got.NextKey == nil || *got.NextKey != 3 {
		t.Fatalf("key = %+v, want prev 1 next 3", got)
	}

	if _, err := env.repository.RemoteKeys.Get(env.ctx, "new_releases", 7); err != repository.ErrNotFound {
		t.Fatalf("expected repository.ErrNotFound for other feed, got %v", err)
	}

	if err := env.repository.RemoteKeys.Clear(env.ctx, "upcoming"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := env.repository.RemoteKeys.Get(env.ctx, "upcoming", 8); err != repository.ErrNotFound {
		t.Fatalf("expected repository.ErrNotFound after clear, got %v", err)
	}
}

func TestFeedRepository_ConcurrentInserts(t *testing.T) {
	env := newTestEnv(t)

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if _, err := env.repository.Movies.Insert(env.ctx, []entity.Movie{movieRow(id)}); err != nil {
				t.Errorf("insert %d: %v", id, err)
			}
		}(int64(i + 1))
	}
	wg.Wait()

	n, err := env.repository.Movies.Count(env.ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != workers {
		t.Fatalf("count = %d, want %d", n, workers)
	}
}

func TestDecodeCursor_Invalid(t *testing.T) {
	if c, err := repository.DecodeCursor(""); err != nil || c != nil {
		t.Fatalf("empty token = %v, %v; want nil, nil", c, err)
	}
	if _, err := repository.DecodeCursor("%%%"); err == nil {
		t.Fatalf("expected error for non-base64 cursor")
	}
}

func BenchmarkFeedRepositoryInsert(b *testing.B) {
	env := newTestEnv(b)

	page := make([]entity.Movie, 20)
	for i := range page {
		page[i] = movieRow(int64(i + 1))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := env.repository.Movies.Insert(env.ctx, page); err != nil {
			b.Fatalf("insert: %v", err)
		}
	}
}
