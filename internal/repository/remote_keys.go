package repository

import (
	"context"
	"errors"
	"fmt"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"

	"github.com/Clark-Hu/moviesapp/internal/entity"
)

// RemoteKeysRepository stores the upstream page neighbours of cached movies.
type RemoteKeysRepository struct {
	q Querier
}

// UpsertMany inserts or updates keys. When a movie appears twice the last key wins.
func (r *RemoteKeysRepository) UpsertMany(ctx context.Context, keys []entity.RemoteKey) error {
	if len(keys) == 0 {
		return nil
	}
	type keyID struct {
		feed    string
		movieID int64
	}
	latest := lo.Reverse(lo.UniqBy(lo.Reverse(append([]entity.RemoteKey(nil), keys...)), func(k entity.RemoteKey) keyID {
		return keyID{feed: k.Feed, movieID: k.MovieID}
	}))

	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto("remote_keys").Cols("feed", "movie_id", "prev_key", "next_key")
	for _, k := range latest {
		ib.Values(k.Feed, k.MovieID, k.PrevKey, k.NextKey)
	}
	ib.SQL("ON CONFLICT (feed, movie_id) DO UPDATE SET prev_key = EXCLUDED.prev_key, next_key = EXCLUDED.next_key")
	query, args := ib.Build()

	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert remote keys: %w", err)
	}
	return nil
}

// Get returns the key recorded for a movie of a feed.
func (r *RemoteKeysRepository) Get(ctx context.Context, feed string, movieID int64) (entity.RemoteKey, error) {
	const query = `
        SELECT feed, movie_id, prev_key, next_key
        FROM remote_keys
        WHERE feed = $1 AND movie_id = $2
    `
	var k entity.RemoteKey
	err := r.q.QueryRow(ctx, query, feed, movieID).Scan(&k.Feed, &k.MovieID, &k.PrevKey, &k.NextKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.RemoteKey{}, ErrNotFound
		}
		return entity.RemoteKey{}, err
	}
	return k, nil
}

// Clear removes every key of a feed.
func (r *RemoteKeysRepository) Clear(ctx context.Context, feed string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM remote_keys WHERE feed = $1`, feed); err != nil {
		return fmt.Errorf("clear remote keys: %w", err)
	}
	return nil
}
