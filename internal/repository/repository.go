package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/moviesapp/internal/entity"
	"github.com/Clark-Hu/moviesapp/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Feed table names.
const (
	TableMovies      = "movies"
	TableNewReleases = "movie_new_releases"
	TableUpcoming    = "movie_upcoming"
)

// Repository aggregates all feed repositories.
type Repository struct {
	pool        *pgxpool.Pool
	Movies      *FeedRepository[entity.Movie]
	NewReleases *FeedRepository[entity.MovieNewRelease]
	Upcoming    *FeedRepository[entity.MovieUpcoming]
	RemoteKeys  *RemoteKeysRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	r := withQuerier(pool)
	r.pool = pool
	return r
}

func withQuerier(q Querier) *Repository {
	return &Repository{
		Movies:      &FeedRepository[entity.Movie]{q: q, table: TableMovies},
		NewReleases: &FeedRepository[entity.MovieNewRelease]{q: q, table: TableNewReleases},
		Upcoming:    &FeedRepository[entity.MovieUpcoming]{q: q, table: TableUpcoming},
		RemoteKeys:  &RemoteKeysRepository{q: q},
	}
}

// InTx runs fn with repositories bound to a single transaction. The transaction
// commits when fn returns nil and rolls back otherwise. Calling InTx on a
// transaction-bound Repository reuses the open transaction.
func (r *Repository) InTx(ctx context.Context, fn func(tx *Repository) error) error {
	if r.pool == nil {
		return fn(r)
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(withQuerier(tx))
	})
}
