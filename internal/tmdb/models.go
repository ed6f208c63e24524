// Package tmdb holds the upstream wire shapes and the HTTP client that fetches them.
package tmdb

// MovieResult is a single movie as delivered by list, search and discover endpoints.
type MovieResult struct {
	Adult            bool    `json:"adult"`
	BackdropPath     *string `json:"backdrop_path"`
	ID               int64   `json:"id"`
	OriginalLanguage string  `json:"original_language"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	Popularity       float64 `json:"popularity"`
	PosterPath       *string `json:"poster_path"`
	ReleaseDate      string  `json:"release_date"`
	Title            string  `json:"title"`
	Video            bool    `json:"video"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int64   `json:"vote_count"`
}

// MoviesResponse is the paged envelope shared by every movie listing endpoint.
type MoviesResponse struct {
	Page         int           `json:"page"`
	Results      []MovieResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

// TrailersResponse lists the videos attached to a movie.
type TrailersResponse struct {
	ID      *int64           `json:"id"`
	Results []*TrailerResult `json:"results"`
}

// TrailerResult is one video entry; upstream may omit any field.
type TrailerResult struct {
	ID          *string `json:"id"`
	ISO6391     *string `json:"iso_639_1"`
	ISO31661    *string `json:"iso_3166_1"`
	Key         *string `json:"key"`
	Name        *string `json:"name"`
	Official    *bool   `json:"official"`
	PublishedAt *string `json:"published_at"`
	Site        *string `json:"site"`
	Size        *int    `json:"size"`
	Type        *string `json:"type"`
}

// FavouritesResponse is the account favourites listing. Entries can be partially populated.
type FavouritesResponse struct {
	Page         *int               `json:"page"`
	Results      []*FavouriteResult `json:"results"`
	TotalPages   *int               `json:"total_pages"`
	TotalResults *int               `json:"total_results"`
}

// FavouriteResult mirrors MovieResult with every field optional.
type FavouriteResult struct {
	Adult            *bool    `json:"adult"`
	BackdropPath     *string  `json:"backdrop_path"`
	ID               *int64   `json:"id"`
	OriginalLanguage *string  `json:"original_language"`
	OriginalTitle    *string  `json:"original_title"`
	Overview         *string  `json:"overview"`
	Popularity       *float64 `json:"popularity"`
	PosterPath       *string  `json:"poster_path"`
	ReleaseDate      *string  `json:"release_date"`
	Title            *string  `json:"title"`
	Video            *bool    `json:"video"`
	VoteAverage      *float64 `json:"vote_average"`
	VoteCount        *int64   `json:"vote_count"`
}

// AccountState describes the signed-in account's relation to a movie.
type AccountState struct {
	ID       int64 `json:"id"`
	Favorite bool  `json:"favorite"`
}

// GenresResponse lists the movie genres used by the explore filter.
type GenresResponse struct {
	Genres []Genre `json:"genres"`
}

// Genre is a named movie category.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type favouriteRequest struct {
	MediaType string `json:"media_type"`
	MediaID   int64  `json:"media_id"`
	Favorite  bool   `json:"favorite"`
}
