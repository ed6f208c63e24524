package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/moviesapp/internal/auth"
	"github.com/Clark-Hu/moviesapp/internal/config"
	"github.com/Clark-Hu/moviesapp/internal/repository"
	"github.com/Clark-Hu/moviesapp/internal/store"
	"github.com/Clark-Hu/moviesapp/internal/tmdb"
	"github.com/Clark-Hu/moviesapp/internal/usecase"
	"github.com/Clark-Hu/moviesapp/internal/viewmodel"
)

type application struct {
	store      *store.Store
	movies     *usecase.Movies
	paged      *usecase.Paged
	favourites *usecase.Favourites
	home       *viewmodel.Home
	explore    *viewmodel.Explore
	mylist     *viewmodel.MyList
}

func build(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (*application, error) {
	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	st, err := store.New(dbCtx, cfg.DBURL, store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 logger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	client, err := tmdb.NewHTTPClient(cfg.TMDBURL, tmdb.Options{
		Token:    cfg.TMDBToken,
		Language: cfg.TMDBLanguage,
		Timeout:  time.Duration(cfg.TMDBTimeoutSecs) * time.Second,
		Logger:   logger,
	})
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("init tmdb client: %w", err)
	}

	repo := repository.New(st)
	movies := usecase.NewMovies(client, repo, logger)
	paged := usecase.NewPaged(client, repo, logger)
	favourites := usecase.NewFavourites(client, cfg.TMDBAccountID)

	return &application{
		store:      st,
		movies:     movies,
		paged:      paged,
		favourites: favourites,
		home: viewmodel.NewHome(viewmodel.HomeDeps{
			Movies:          movies,
			NewReleasePages: paged.NewReleases,
			UpcomingPages:   paged.Upcoming,
			Auth:            auth.NewFileProvider(cfg.SessionFile, []byte(cfg.SessionSecret), logger),
			Logger:          logger,
		}),
		explore: viewmodel.NewExplore(viewmodel.ExploreDeps{
			Genres: movies.Genres,
			Search: paged.Search,
			Logger: logger,
		}),
		mylist: viewmodel.NewMyList(favourites, logger),
	}, nil
}

// close stops the coordinators before releasing the pool their jobs use.
func (a *application) close() {
	a.home.Close()
	a.explore.Close()
	a.mylist.Close()
	a.store.Close()
}
