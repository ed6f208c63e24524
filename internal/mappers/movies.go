// Package mappers translates between upstream records, stored rows and domain
// records. Every function is total and pure; optional fields stay optional and
// nothing is ever defaulted.
package mappers

import (
	"github.com/samber/lo"

	"github.com/Clark-Hu/moviesapp/internal/domain"
	"github.com/Clark-Hu/moviesapp/internal/entity"
	"github.com/Clark-Hu/moviesapp/internal/tmdb"
)

const (
	trailerSite = "YouTube"
	trailerType = "Trailer"
)

// ToMovieEntity converts an upstream movie into a general-feed row. The local ID
// is left zero until the row is stored.
func ToMovieEntity(r tmdb.MovieResult) entity.Movie {
	return entity.Movie{
		MovieID:          r.ID,
		Adult:            r.Adult,
		BackdropPath:     r.BackdropPath,
		OriginalLanguage: r.OriginalLanguage,
		OriginalTitle:    r.OriginalTitle,
		Overview:         r.Overview,
		Popularity:       r.Popularity,
		PosterPath:       r.PosterPath,
		ReleaseDate:      r.ReleaseDate,
		Title:            r.Title,
		Video:            r.Video,
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
	}
}

// ToNewReleaseEntity converts an upstream movie into a new-releases row.
func ToNewReleaseEntity(r tmdb.MovieResult) entity.MovieNewRelease {
	return entity.MovieNewRelease(ToMovieEntity(r))
}

// ToUpcomingEntity converts an upstream movie into an upcoming row.
func ToUpcomingEntity(r tmdb.MovieResult) entity.MovieUpcoming {
	return entity.MovieUpcoming(ToMovieEntity(r))
}

// ToMovie converts a stored row into a domain movie.
func ToMovie(e entity.Movie) domain.Movie {
	return domain.Movie{
		ID:               e.ID,
		MovieID:          e.MovieID,
		Adult:            e.Adult,
		BackdropPath:     e.BackdropPath,
		OriginalLanguage: e.OriginalLanguage,
		OriginalTitle:    e.OriginalTitle,
		Overview:         e.Overview,
		Popularity:       e.Popularity,
		PosterPath:       e.PosterPath,
		ReleaseDate:      e.ReleaseDate,
		Title:            e.Title,
		Video:            e.Video,
		VoteAverage:      e.VoteAverage,
		VoteCount:        e.VoteCount,
	}
}

// ToMovieNewRelease converts a stored new-release row into its domain record.
func ToMovieNewRelease(e entity.MovieNewRelease) domain.MovieNewRelease {
	return domain.MovieNewRelease(ToMovie(entity.Movie(e)))
}

// ToMovieUpcoming converts a stored upcoming row into its domain record.
func ToMovieUpcoming(e entity.MovieUpcoming) domain.MovieUpcoming {
	return domain.MovieUpcoming(ToMovie(entity.Movie(e)))
}

// ToMovieEntities maps a page of upstream movies to general-feed rows.
func ToMovieEntities(results []tmdb.MovieResult) []entity.Movie {
	return lo.Map(results, func(r tmdb.MovieResult, _ int) entity.Movie { return ToMovieEntity(r) })
}

// ToNewReleaseEntities maps a page of upstream movies to new-release rows.
func ToNewReleaseEntities(results []tmdb.MovieResult) []entity.MovieNewRelease {
	return lo.Map(results, func(r tmdb.MovieResult, _ int) entity.MovieNewRelease { return ToNewReleaseEntity(r) })
}

// ToUpcomingEntities maps a page of upstream movies to upcoming rows.
func ToUpcomingEntities(results []tmdb.MovieResult) []entity.MovieUpcoming {
	return lo.Map(results, func(r tmdb.MovieResult, _ int) entity.MovieUpcoming { return ToUpcomingEntity(r) })
}

// ToMovies maps stored general-feed rows to domain movies.
func ToMovies(rows []entity.Movie) []domain.Movie {
	return lo.Map(rows, func(e entity.Movie, _ int) domain.Movie { return ToMovie(e) })
}

// ToMovieNewReleases maps stored new-release rows to domain records.
func ToMovieNewReleases(rows []entity.MovieNewRelease) []domain.MovieNewRelease {
	return lo.Map(rows, func(e entity.MovieNewRelease, _ int) domain.MovieNewRelease { return ToMovieNewRelease(e) })
}

// ToMovieUpcomings maps stored upcoming rows to domain records.
func ToMovieUpcomings(rows []entity.MovieUpcoming) []domain.MovieUpcoming {
	return lo.Map(rows, func(e entity.MovieUpcoming, _ int) domain.MovieUpcoming { return ToMovieUpcoming(e) })
}

// ToMovieTrailer keeps only YouTube trailers, in upstream order. A missing
// result list stays missing; it is not turned into an empty one.
func ToMovieTrailer(r tmdb.TrailersResponse) domain.MovieTrailer {
	trailer := domain.MovieTrailer{ID: r.ID}
	if r.Results == nil {
		return trailer
	}
	kept := lo.Filter(r.Results, func(v *tmdb.TrailerResult, _ int) bool {
		return v != nil &&
			v.Site != nil && *v.Site == trailerSite &&
			v.Type != nil && *v.Type == trailerType
	})
	trailer.Results = lo.Map(kept, func(v *tmdb.TrailerResult, _ int) domain.MovieTrailerResult {
		return domain.MovieTrailerResult{
			ID:          v.ID,
			ISOOne:      v.ISO6391,
			ISOTwo:      v.ISO31661,
			Key:         v.Key,
			Name:        v.Name,
			Official:    v.Official,
			PublishedAt: v.PublishedAt,
			Site:        v.Site,
			Size:        v.Size,
			Type:        v.Type,
		}
	})
	return trailer
}

// ToMovieFavourites maps the favourites listing. A missing result list maps to
// nil and a missing entry maps to a favourite with every field absent.
func ToMovieFavourites(r tmdb.FavouritesResponse) []domain.MovieFavourite {
	if r.Results == nil {
		return nil
	}
	return lo.Map(r.Results, func(v *tmdb.FavouriteResult, _ int) domain.MovieFavourite {
		if v == nil {
			return domain.MovieFavourite{}
		}
		return domain.MovieFavourite{
			Adult:            v.Adult,
			BackdropPath:     v.BackdropPath,
			ID:               v.ID,
			OriginalLanguage: v.OriginalLanguage,
			OriginalTitle:    v.OriginalTitle,
			Overview:         v.Overview,
			Popularity:       v.Popularity,
			PosterPath:       v.PosterPath,
			ReleaseDate:      v.ReleaseDate,
			Title:            v.Title,
			Video:            v.Video,
			VoteAverage:      v.VoteAverage,
			VoteCount:        v.VoteCount,
		}
	})
}

// ToMovieState keeps only the favourite flag.
func ToMovieState(s tmdb.AccountState) domain.MovieState {
	return domain.MovieState{Favorite: s.Favorite}
}

// ToGenres maps the upstream genre list.
func ToGenres(r tmdb.GenresResponse) []domain.Genre {
	return lo.Map(r.Genres, func(g tmdb.Genre, _ int) domain.Genre {
		return domain.Genre{ID: g.ID, Name: g.Name}
	})
}
