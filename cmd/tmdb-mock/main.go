package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/moviesapp/internal/tmdb"
)

const pageSize = 20

// fixture is the mock data file layout. Missing lists are synthesized.
type fixture struct {
	Popular    []tmdb.MovieResult               `json:"popular"`
	NowPlaying []tmdb.MovieResult               `json:"now_playing"`
	Upcoming   []tmdb.MovieResult               `json:"upcoming"`
	TopRated   []tmdb.MovieResult               `json:"top_rated"`
	Genres     []tmdb.Genre                     `json:"genres"`
	Videos     map[string][]*tmdb.TrailerResult `json:"videos"`
	Favourites []int64                          `json:"favourites"`
}

type mock struct {
	data fixture

	mu         sync.Mutex
	favourites map[int64]bool
}

func main() {
	var (
		port     = flag.String("port", "9099", "port to listen on")
		data     = flag.String("data", "", "path to mock data file; empty synthesizes a catalogue")
		count    = flag.Int("movies", 60, "movies per synthesized list")
		logCalls = flag.Bool("log", false, "enable request logging")
	)
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	var fx fixture
	if *data != "" {
		file, err := os.ReadFile(*data)
		if err != nil {
			logger.WithError(err).Fatal("read mock data")
		}
		if err := json.Unmarshal(file, &fx); err != nil {
			logger.WithError(err).Fatal("parse mock data")
		}
	}
	fx.fill(*count)

	m := &mock{data: fx, favourites: map[int64]bool{}}
	for _, id := range fx.Favourites {
		m.favourites[id] = true
	}

	r := chi.NewRouter()
	if *logCalls {
		r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logger, NoColor: true}))
	}
	r.Route("/3", func(r chi.Router) {
		r.Get("/movie/popular", m.list(fx.Popular))
		r.Get("/movie/now_playing", m.list(fx.NowPlaying))
		r.Get("/movie/upcoming", m.list(fx.Upcoming))
		r.Get("/movie/top_rated", m.list(fx.TopRated))
		r.Get("/discover/movie", m.list(fx.Popular))
		r.Get("/search/movie", m.search)
		r.Get("/genre/movie/list", m.genres)
		r.Get("/movie/{id}/videos", m.videos)
		r.Get("/movie/{id}/account_states", m.accountState)
		r.Get("/account/{account}/favorite/movies", m.listFavourites)
		r.Post("/account/{account}/favorite", m.markFavourite)
	})

	addr := ":" + *port
	logger.WithFields(logrus.Fields{
		"addr":    addr,
		"popular": len(fx.Popular),
		"genres":  len(fx.Genres),
	}).Info("mock tmdb listening on /3")
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.WithError(err).Fatal("server error")
	}
}

func (f *fixture) fill(count int) {
	if len(f.Popular) == 0 {
		f.Popular = synthesize("Popular", 1000, count)
	}
	if len(f.NowPlaying) == 0 {
		f.NowPlaying = synthesize("Now Playing", 2000, count)
	}
	if len(f.Upcoming) == 0 {
		f.Upcoming = synthesize("Upcoming", 3000, count)
	}
	if len(f.TopRated) == 0 {
		f.TopRated = synthesize("Top Rated", 4000, count)
	}
	if len(f.Genres) == 0 {
		f.Genres = lo.Map([]string{"Action", "Comedy", "Drama", "Horror", "Romance", "Thriller"}, func(name string, i int) tmdb.Genre {
			return tmdb.Genre{ID: int64(i + 1), Name: name}
		})
	}
}

func synthesize(label string, base int64, count int) []tmdb.MovieResult {
	return lo.Times(count, func(i int) tmdb.MovieResult {
		id := base + int64(i)
		poster := fmt.Sprintf("/poster-%d.jpg", id)
		return tmdb.MovieResult{
			ID:               id,
			Title:            fmt.Sprintf("%s %d", label, i+1),
			OriginalTitle:    fmt.Sprintf("%s %d", label, i+1),
			OriginalLanguage: "en",
			Overview:         "Synthesized by the mock server.",
			PosterPath:       &poster,
			ReleaseDate:      fmt.Sprintf("2024-%02d-%02d", i%12+1, i%28+1),
			Popularity:       float64(count - i),
			VoteAverage:      float64(i%10) + 0.5,
			VoteCount:        int64(100 + i),
		}
	})
}

func (m *mock) list(movies []tmdb.MovieResult) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, paginate(movies, pageOf(r)))
	}
}

func (m *mock) search(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(r.URL.Query().Get("query"))
	all := lo.Flatten([][]tmdb.MovieResult{m.data.Popular, m.data.NowPlaying, m.data.Upcoming, m.data.TopRated})
	hits := lo.UniqBy(lo.Filter(all, func(movie tmdb.MovieResult, _ int) bool {
		return strings.Contains(strings.ToLower(movie.Title), query)
	}), func(movie tmdb.MovieResult) int64 { return movie.ID })
	writeJSON(w, paginate(hits, pageOf(r)))
}

func (m *mock) genres(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, tmdb.GenresResponse{Genres: m.data.Genres})
}

func (m *mock) videos(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(w, r)
	if !ok {
		return
	}
	results, found := m.data.Videos[strconv.FormatInt(id, 10)]
	if !found {
		key, site, kind := fmt.Sprintf("trailer-%d", id), "YouTube", "Trailer"
		results = []*tmdb.TrailerResult{{Key: &key, Site: &site, Type: &kind}}
	}
	writeJSON(w, tmdb.TrailersResponse{ID: &id, Results: results})
}

func (m *mock) accountState(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(w, r)
	if !ok {
		return
	}
	m.mu.Lock()
	favorite := m.favourites[id]
	m.mu.Unlock()
	writeJSON(w, tmdb.AccountState{ID: id, Favorite: favorite})
}

func (m *mock) listFavourites(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	ids := lo.Keys(m.favourites)
	m.mu.Unlock()
	slices.Sort(ids)

	all := lo.Flatten([][]tmdb.MovieResult{m.data.Popular, m.data.NowPlaying, m.data.Upcoming, m.data.TopRated})
	byID := lo.KeyBy(all, func(movie tmdb.MovieResult) int64 { return movie.ID })
	movies := lo.FilterMap(ids, func(id int64, _ int) (tmdb.MovieResult, bool) {
		movie, ok := byID[id]
		return movie, ok
	})
	listing := paginate(movies, pageOf(r))
	results := lo.Map(listing.Results, func(movie tmdb.MovieResult, _ int) *tmdb.FavouriteResult {
		return &tmdb.FavouriteResult{
			ID:          lo.ToPtr(movie.ID),
			Title:       lo.ToPtr(movie.Title),
			Overview:    lo.ToPtr(movie.Overview),
			PosterPath:  movie.PosterPath,
			ReleaseDate: lo.ToPtr(movie.ReleaseDate),
			VoteAverage: lo.ToPtr(movie.VoteAverage),
		}
	})
	writeJSON(w, tmdb.FavouritesResponse{
		Page:         &listing.Page,
		Results:      results,
		TotalPages:   &listing.TotalPages,
		TotalResults: &listing.TotalResults,
	})
}

func (m *mock) markFavourite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MediaID  int64 `json:"media_id"`
		Favorite bool  `json:"favorite"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	m.mu.Lock()
	if req.Favorite {
		m.favourites[req.MediaID] = true
	} else {
		delete(m.favourites, req.MediaID)
	}
	m.mu.Unlock()
	writeJSON(w, map[string]interface{}{"success": true, "status_code": 1})
}

func paginate(movies []tmdb.MovieResult, page int) tmdb.MoviesResponse {
	totalPages := (len(movies) + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	results := []tmdb.MovieResult{}
	if start < len(movies) {
		results = movies[start:min(start+pageSize, len(movies))]
	}
	return tmdb.MoviesResponse{
		Page:         page,
		Results:      results,
		TotalPages:   totalPages,
		TotalResults: len(movies),
	}
}

func pageOf(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func movieID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
