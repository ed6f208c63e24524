package domain

// MovieTrailer lists the playable trailers of a movie.
type MovieTrailer struct {
	ID      *int64               `json:"id"`
	Results []MovieTrailerResult `json:"results"`
}

// MovieTrailerResult is a single trailer.
type MovieTrailerResult struct {
	ID          *string `json:"id"`
	ISOOne      *string `json:"isoOne"`
	ISOTwo      *string `json:"isoTwo"`
	Key         *string `json:"key"`
	Name        *string `json:"name"`
	Official    *bool   `json:"official"`
	PublishedAt *string `json:"publishedAt"`
	Site        *string `json:"site"`
	Size        *int    `json:"size"`
	Type        *string `json:"type"`
}
