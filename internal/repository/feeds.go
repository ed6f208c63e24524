package repository

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	"github.com/jackc/pgx/v5"

	"github.com/Clark-Hu/moviesapp/internal/entity"
)

// Row is any stored feed record.
type Row interface {
	entity.Movie | entity.MovieNewRelease | entity.MovieUpcoming
}

// FeedRepository persists the rows of one cached feed table.
type FeedRepository[E Row] struct {
	q     Querier
	table string
}

var feedColumns = []string{
	"id",
	"movie_id",
	"adult",
	"backdrop_path",
	"original_language",
	"original_title",
	"overview",
	"popularity",
	"poster_path",
	"release_date",
	"title",
	"video",
	"vote_average",
	"vote_count",
}

// FeedCursor allows stable pagination by local id.
type FeedCursor struct {
	ID int64 `json:"id"`
}

// FeedPage returns one page of stored rows.
type FeedPage[E Row] struct {
	Items      []E
	NextCursor *string
}

// Table returns the backing table name.
func (r *FeedRepository[E]) Table() string {
	return r.table
}

// Insert stores rows in order and returns them with their assigned local ids.
func (r *FeedRepository[E]) Insert(ctx context.Context, rows []E) ([]E, error) {
	if len(rows) == 0 {
		return []E{}, nil
	}

	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto(r.table).Cols(feedColumns[1:]...)
	for _, row := range rows {
		m := entity.Movie(row)
		ib.Values(m.MovieID, m.Adult, m.BackdropPath, m.OriginalLanguage, m.OriginalTitle, m.Overview,
			m.Popularity, m.PosterPath, m.ReleaseDate, m.Title, m.Video, m.VoteAverage, m.VoteCount)
	}
	ib.SQL("RETURNING id")
	query, args := ib.Build()

	res, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", r.table, err)
	}
	defer res.Close()

	stored := make([]E, 0, len(rows))
	for i := 0; res.Next(); i++ {
		if i >= len(rows) {
			return nil, fmt.Errorf("insert %s: unexpected extra row", r.table)
		}
		m := entity.Movie(rows[i])
		if err := res.Scan(&m.ID); err != nil {
			return nil, err
		}
		stored = append(stored, E(m))
	}
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("insert %s: %w", r.table, err)
	}
	return stored, nil
}

// Clear deletes every row of the feed.
func (r *FeedRepository[E]) Clear(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, "DELETE FROM "+r.table); err != nil {
		return fmt.Errorf("clear %s: %w", r.table, err)
	}
	return nil
}

// ReplaceAll drops the cached rows and stores rows in their place. Run it inside
// Repository.InTx so readers never observe the empty table.
func (r *FeedRepository[E]) ReplaceAll(ctx context.Context, rows []E) ([]E, error) {
	if err := r.Clear(ctx); err != nil {
		return nil, err
	}
	return r.Insert(ctx, rows)
}

// Page returns up to limit rows after cursor in insertion order.
func (r *FeedRepository[E]) Page(ctx context.Context, limit int, cursor *FeedCursor) (FeedPage[E], error) {
	if limit <= 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(feedColumns...).From(r.table)
	if cursor != nil {
		sb.Where(sb.GreaterThan("id", cursor.ID))
	}
	sb.OrderBy("id").Asc().Limit(limit)
	query, args := sb.Build()

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return FeedPage[E]{}, err
	}
	defer rows.Close()

	items := make([]E, 0, limit)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return FeedPage[E]{}, err
		}
		items = append(items, E(m))
	}
	if err := rows.Err(); err != nil {
		return FeedPage[E]{}, err
	}

	var next *string
	if len(items) == limit {
		last := entity.Movie(items[len(items)-1])
		token, err := encodeCursor(FeedCursor{ID: last.ID})
		if err != nil {
			return FeedPage[E]{}, err
		}
		next = &token
	}
	return FeedPage[E]{Items: items, NextCursor: next}, nil
}

// Last returns the most recently inserted row.
func (r *FeedRepository[E]) Last(ctx context.Context) (E, error) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(feedColumns...).From(r.table).OrderBy("id").Desc().Limit(1)
	query, args := sb.Build()

	m, err := scanMovie(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		var zero E
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, ErrNotFound
		}
		return zero, err
	}
	return E(m), nil
}

// Count returns the number of cached rows.
func (r *FeedRepository[E]) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, "SELECT COUNT(*) FROM "+r.table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", r.table, err)
	}
	return n, nil
}

func scanMovie(row pgx.Row) (entity.Movie, error) {
	var m entity.Movie
	err := row.Scan(
		&m.ID,
		&m.MovieID,
		&m.Adult,
		&m.BackdropPath,
		&m.OriginalLanguage,
		&m.OriginalTitle,
		&m.Overview,
		&m.Popularity,
		&m.PosterPath,
		&m.ReleaseDate,
		&m.Title,
		&m.Video,
		&m.VoteAverage,
		&m.VoteCount,
	)
	if err != nil {
		return entity.Movie{}, err
	}
	return m, nil
}

func encodeCursor(c FeedCursor) (string, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(payload), nil
}

// DecodeCursor parses a cursor token into a FeedCursor.
func DecodeCursor(token string) (*FeedCursor, error) {
	if token == "" {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}
	var cursor FeedCursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, fmt.Errorf("invalid cursor payload: %w", err)
	}
	return &cursor, nil
}
