package mappers

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/moviesapp/internal/domain"
	"github.com/Clark-Hu/moviesapp/internal/entity"
	"github.com/Clark-Hu/moviesapp/internal/tmdb"
)

func sampleResult(id int64) tmdb.MovieResult {
	return tmdb.MovieResult{
		Adult:            id%2 == 0,
		BackdropPath:     lo.ToPtr("/backdrop.jpg"),
		ID:               id,
		OriginalLanguage: "en",
		OriginalTitle:    "Original",
		Overview:         "Overview",
		Popularity:       12.5,
		PosterPath:       nil,
		ReleaseDate:      "2024-05-01",
		Title:            "Title",
		Video:            true,
		VoteAverage:      7.9,
		VoteCount:        321,
	}
}

func TestRemoteToDomainPreservesFields(t *testing.T) {
	remote := sampleResult(603)

	row := ToMovieEntity(remote)
	assert.Zero(t, row.ID, "local id is assigned by storage")
	assert.Equal(t, remote.ID, row.MovieID)

	row.ID = 17
	got := ToMovie(row)

	want := domain.Movie{
		ID:               17,
		MovieID:          603,
		Adult:            remote.Adult,
		BackdropPath:     remote.BackdropPath,
		OriginalLanguage: remote.OriginalLanguage,
		OriginalTitle:    remote.OriginalTitle,
		Overview:         remote.Overview,
		Popularity:       remote.Popularity,
		PosterPath:       nil,
		ReleaseDate:      remote.ReleaseDate,
		Title:            remote.Title,
		Video:            remote.Video,
		VoteAverage:      remote.VoteAverage,
		VoteCount:        remote.VoteCount,
	}
	assert.Equal(t, want, got)
}

func TestFeedSpecificMappers(t *testing.T) {
	remote := sampleResult(11)

	newRelease := ToNewReleaseEntity(remote)
	newRelease.ID = 3
	nr := ToMovieNewRelease(newRelease)
	assert.Equal(t, int64(3), nr.ID)
	assert.Equal(t, int64(11), nr.MovieID)
	assert.Equal(t, remote.Title, nr.Title)

	upcoming := ToUpcomingEntity(remote)
	upcoming.ID = 4
	up := ToMovieUpcoming(upcoming)
	assert.Equal(t, int64(4), up.ID)
	assert.Equal(t, int64(11), up.MovieID)
	assert.Equal(t, remote.BackdropPath, up.BackdropPath)
}

func TestSliceMappersPreserveOrder(t *testing.T) {
	results := make([]tmdb.MovieResult, 0, 20)
	for i := int64(1); i <= 20; i++ {
		results = append(results, sampleResult(i))
	}

	rows := ToNewReleaseEntities(results)
	require.Len(t, rows, 20)
	for i, row := range rows {
		assert.Equal(t, int64(i+1), row.MovieID)
	}

	movies := ToMovies([]entity.Movie{{ID: 2, MovieID: 20}, {ID: 1, MovieID: 10}})
	assert.Equal(t, []int64{20, 10}, lo.Map(movies, func(m domain.Movie, _ int) int64 { return m.MovieID }))
}

func trailer(site, kind, key string) *tmdb.TrailerResult {
	return &tmdb.TrailerResult{Site: lo.ToPtr(site), Type: lo.ToPtr(kind), Key: lo.ToPtr(key)}
}

func TestToMovieTrailerFiltersYouTubeTrailers(t *testing.T) {
	in := tmdb.TrailersResponse{
		ID: lo.ToPtr(int64(550)),
		Results: []*tmdb.TrailerResult{
			trailer("YouTube", "Trailer", "a"),
			trailer("Vimeo", "Trailer", "b"),
			nil,
			trailer("YouTube", "Teaser", "c"),
			trailer("youtube", "Trailer", "d"),
			{Site: lo.ToPtr("YouTube")},
			trailer("YouTube", "Trailer", "e"),
		},
	}

	got := ToMovieTrailer(in)
	require.NotNil(t, got.ID)
	assert.Equal(t, int64(550), *got.ID)
	keys := lo.Map(got.Results, func(r domain.MovieTrailerResult, _ int) string { return *r.Key })
	assert.Equal(t, []string{"a", "e"}, keys)
}

func TestToMovieTrailerAbsentVersusEmpty(t *testing.T) {
	absent := ToMovieTrailer(tmdb.TrailersResponse{})
	assert.Nil(t, absent.Results)

	empty := ToMovieTrailer(tmdb.TrailersResponse{Results: []*tmdb.TrailerResult{}})
	assert.NotNil(t, empty.Results)
	assert.Empty(t, empty.Results)

	noneKept := ToMovieTrailer(tmdb.TrailersResponse{Results: []*tmdb.TrailerResult{trailer("Vimeo", "Clip", "x")}})
	assert.NotNil(t, noneKept.Results)
	assert.Empty(t, noneKept.Results)
}

func TestToMovieTrailerCopiesEveryField(t *testing.T) {
	in := &tmdb.TrailerResult{
		ID:          lo.ToPtr("abc"),
		ISO6391:     lo.ToPtr("en"),
		ISO31661:    lo.ToPtr("US"),
		Key:         lo.ToPtr("k"),
		Name:        lo.ToPtr("Official Trailer"),
		Official:    lo.ToPtr(true),
		PublishedAt: lo.ToPtr("2024-01-01T00:00:00.000Z"),
		Site:        lo.ToPtr("YouTube"),
		Size:        lo.ToPtr(1080),
		Type:        lo.ToPtr("Trailer"),
	}
	got := ToMovieTrailer(tmdb.TrailersResponse{Results: []*tmdb.TrailerResult{in}})
	require.Len(t, got.Results, 1)
	assert.Equal(t, domain.MovieTrailerResult{
		ID:          in.ID,
		ISOOne:      in.ISO6391,
		ISOTwo:      in.ISO31661,
		Key:         in.Key,
		Name:        in.Name,
		Official:    in.Official,
		PublishedAt: in.PublishedAt,
		Site:        in.Site,
		Size:        in.Size,
		Type:        in.Type,
	}, got.Results[0])
}

func TestToMovieFavourites(t *testing.T) {
	assert.Nil(t, ToMovieFavourites(tmdb.FavouritesResponse{}))

	in := tmdb.FavouritesResponse{Results: []*tmdb.FavouriteResult{
		{ID: lo.ToPtr(int64(1)), Title: lo.ToPtr("Heat")},
		nil,
		{Popularity: lo.ToPtr(3.5), Video: lo.ToPtr(false)},
	}}
	got := ToMovieFavourites(in)
	require.Len(t, got, 3)

	assert.Equal(t, int64(1), *got[0].ID)
	assert.Equal(t, "Heat", *got[0].Title)
	assert.Nil(t, got[0].Overview)
	assert.Nil(t, got[0].VoteCount)

	assert.Equal(t, domain.MovieFavourite{}, got[1])

	assert.Nil(t, got[2].ID)
	assert.Nil(t, got[2].Title)
	require.NotNil(t, got[2].Video)
	assert.False(t, *got[2].Video)
	assert.Equal(t, 3.5, *got[2].Popularity)
}

func TestToMovieState(t *testing.T) {
	for _, favorite := range []bool{true, false} {
		got := ToMovieState(tmdb.AccountState{ID: 9, Favorite: favorite})
		assert.Equal(t, favorite, got.Favorite)
	}
}

func TestToGenres(t *testing.T) {
	got := ToGenres(tmdb.GenresResponse{Genres: []tmdb.Genre{{ID: 28, Name: "Action"}, {ID: 35, Name: "Comedy"}}})
	assert.Equal(t, []domain.Genre{{ID: 28, Name: "Action"}, {ID: 35, Name: "Comedy"}}, got)
	assert.Empty(t, ToGenres(tmdb.GenresResponse{}))
}

func FuzzToMovieTrailer(f *testing.F) {
	f.Add("YouTube", "Trailer", "Vimeo", "Teaser")
	f.Add("", "", "YouTube", "Trailer")

	f.Fuzz(func(t *testing.T, site1, type1, site2, type2 string) {
		in := tmdb.TrailersResponse{Results: []*tmdb.TrailerResult{
			trailer(site1, type1, "first"),
			trailer(site2, type2, "second"),
		}}
		got := ToMovieTrailer(in)

		var want []string
		if site1 == "YouTube" && type1 == "Trailer" {
			want = append(want, "first")
		}
		if site2 == "YouTube" && type2 == "Trailer" {
			want = append(want, "second")
		}
		if len(got.Results) != len(want) {
			t.Fatalf("kept %d trailers, want %d", len(got.Results), len(want))
		}
		for i, r := range got.Results {
			if *r.Key != want[i] {
				t.Fatalf("trailer %d = %s, want %s", i, *r.Key, want[i])
			}
		}
	})
}
