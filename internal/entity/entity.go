// Package entity defines the rows stored for each locally cached movie feed.
//
// ID is the local surrogate key assigned on insert. MovieID carries the upstream
// identifier; the two are never interchangeable.
package entity

// Movie is a row of the general movie feed.
type Movie struct {
	ID               int64
	MovieID          int64
	Adult            bool
	BackdropPath     *string
	OriginalLanguage string
	OriginalTitle    string
	Overview         string
	Popularity       float64
	PosterPath       *string
	ReleaseDate      string
	Title            string
	Video            bool
	VoteAverage      float64
	VoteCount        int64
}

// MovieNewRelease is a row of the new-releases feed.
type MovieNewRelease Movie

// MovieUpcoming is a row of the upcoming feed.
type MovieUpcoming Movie

// RemoteKey records the upstream page neighbours of a cached movie so paging can
// resume after a restart.
type RemoteKey struct {
	Feed    string
	MovieID int64
	PrevKey *int
	NextKey *int
}
