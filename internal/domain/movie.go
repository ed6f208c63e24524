// Package domain holds the records consumed by the presentation layer. They are
// decoupled from both the wire shapes and the stored rows.
package domain

// Movie is a movie of the general feed.
type Movie struct {
	ID               int64   `json:"id"`
	MovieID          int64   `json:"movieId"`
	Adult            bool    `json:"adult"`
	BackdropPath     *string `json:"backdropPath"`
	OriginalLanguage string  `json:"originalLanguage"`
	OriginalTitle    string  `json:"originalTitle"`
	Overview         string  `json:"overview"`
	Popularity       float64 `json:"popularity"`
	PosterPath       *string `json:"posterPath"`
	ReleaseDate      string  `json:"releaseDate"`
	Title            string  `json:"title"`
	Video            bool    `json:"video"`
	VoteAverage      float64 `json:"voteAverage"`
	VoteCount        int64   `json:"voteCount"`
}

// MovieNewRelease is a movie of the new-releases feed.
type MovieNewRelease Movie

// MovieUpcoming is a movie of the upcoming feed.
type MovieUpcoming Movie

// MoviesWithNewReleases is the payload of the combined home feed.
type MoviesWithNewReleases struct {
	Movies      []Movie           `json:"movies"`
	NewReleases []MovieNewRelease `json:"newReleases"`
}

// MovieFavourite is an entry of the favourites list. Upstream may leave any field
// empty, so every field is optional.
type MovieFavourite struct {
	Adult            *bool    `json:"adult"`
	BackdropPath     *string  `json:"backdropPath"`
	ID               *int64   `json:"id"`
	OriginalLanguage *string  `json:"originalLanguage"`
	OriginalTitle    *string  `json:"originalTitle"`
	Overview         *string  `json:"overview"`
	Popularity       *float64 `json:"popularity"`
	PosterPath       *string  `json:"posterPath"`
	ReleaseDate      *string  `json:"releaseDate"`
	Title            *string  `json:"title"`
	Video            *bool    `json:"video"`
	VoteAverage      *float64 `json:"voteAverage"`
	VoteCount        *int64   `json:"voteCount"`
}

// MovieState is the signed-in account's relation to a movie.
type MovieState struct {
	Favorite bool `json:"favorite"`
}

// Genre is a movie category offered by the explore filter.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
