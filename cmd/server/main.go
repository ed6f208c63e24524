package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Clark-Hu/moviesapp/internal/auth"
	"github.com/Clark-Hu/moviesapp/internal/config"
	httpserver "github.com/Clark-Hu/moviesapp/internal/http"
	"github.com/Clark-Hu/moviesapp/internal/store"
)

func main() {
	app := &cli.App{
		Name:  "moviesapp",
		Usage: "Movies browser backend serving home, explore and favourites screens",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML config file, overridden by environment variables",
				EnvVars: []string{"CONFIG_FILE"},
			},
		},
		Commands: []*cli.Command{
			serveCmd,
			migrateCmd,
			syncCmd,
			signInCmd,
			signOutCmd,
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("moviesapp exited")
	}
}

var serveCmd = &cli.Command{
	Name:  "serve",
	Usage: "Run the HTTP server",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "migrate",
			Usage:   "Apply pending migrations before serving",
			Value:   true,
			EnvVars: []string{"AUTO_MIGRATE"},
		},
	},
	Action: func(c *cli.Context) error {
		cfg, logger, err := setup(c)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()

		if c.Bool("migrate") {
			if err := store.Migrate(cfg.DBURL, logger); err != nil {
				return err
			}
		}

		app, err := build(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer app.close()

		server := httpserver.New(cfg, httpserver.Deps{
			Health:  app.store,
			Home:    app.home,
			Explore: app.explore,
			MyList:  app.mylist,
			Movies:  app.favourites,
			Logger:  logger,
		})

		app.home.LoadMoviesWithNewReleases()
		app.home.LoadNewReleases()
		app.home.LoadTopRated()
		app.explore.LoadGenres()
		if cfg.TMDBAccountID != "" {
			app.mylist.LoadFavourites()
		}

		serverErrCh := make(chan error, 1)
		go func() {
			if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				serverErrCh <- err
				return
			}
			serverErrCh <- nil
		}()

		logger.WithField("port", cfg.Port).Info("moviesapp listening")

		var serveErr error
		select {
		case err := <-serverErrCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr = err
			}
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("graceful shutdown error")
		}
		return serveErr
	},
}

var migrateCmd = &cli.Command{
	Name:  "migrate",
	Usage: "Apply pending database migrations",
	Action: func(c *cli.Context) error {
		cfg, logger, err := setup(c)
		if err != nil {
			return err
		}
		return store.Migrate(cfg.DBURL, logger)
	},
}

var syncCmd = &cli.Command{
	Name:  "sync",
	Usage: "Refresh the cached feeds from TMDB and exit",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "pages",
			Usage: "Number of pages to cache for each paged feed",
			Value: 1,
		},
	},
	Action: func(c *cli.Context) error {
		cfg, logger, err := setup(c)
		if err != nil {
			return err
		}
		pages := c.Int("pages")
		if pages < 1 {
			return fmt.Errorf("--pages must be at least 1")
		}

		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, err := build(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer app.close()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			result, err := app.movies.MoviesWithNewReleases(gctx)
			if err != nil {
				return fmt.Errorf("sync movies: %w", err)
			}
			logger.WithFields(logrus.Fields{
				"movies":       len(result.Movies),
				"new_releases": len(result.NewReleases),
			}).Info("movies synced")
			return nil
		})
		g.Go(func() error {
			for page := 1; page <= pages; page++ {
				if _, err := app.paged.NewReleases.Load(gctx, page); err != nil {
					return fmt.Errorf("sync new releases page %d: %w", page, err)
				}
			}
			return nil
		})
		g.Go(func() error {
			for page := 1; page <= pages; page++ {
				if _, err := app.paged.Upcoming.Load(gctx, page); err != nil {
					return fmt.Errorf("sync upcoming page %d: %w", page, err)
				}
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			return err
		}
		logger.WithField("pages", pages).Info("paged feeds synced")
		return nil
	},
}

var signInCmd = &cli.Command{
	Name:  "sign-in",
	Usage: "Store a signed session token for the profile screen",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "token",
			Usage:    "JWT identifying the user",
			Required: true,
			EnvVars:  []string{"SESSION_TOKEN"},
		},
	},
	Action: func(c *cli.Context) error {
		cfg, logger, err := setup(c)
		if err != nil {
			return err
		}
		provider := auth.NewFileProvider(cfg.SessionFile, []byte(cfg.SessionSecret), logger)
		user, err := provider.SignIn(c.String("token"))
		if err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{"user_id": user.UserID, "name": user.UserName}).Info("signed in")
		return nil
	},
}

var signOutCmd = &cli.Command{
	Name:  "sign-out",
	Usage: "Remove the stored session",
	Action: func(c *cli.Context) error {
		cfg, logger, err := setup(c)
		if err != nil {
			return err
		}
		provider := auth.NewFileProvider(cfg.SessionFile, []byte(cfg.SessionSecret), logger)
		return provider.SignOut(c.Context)
	},
}

// setup loads configuration and a logger honouring LOG_LEVEL.
func setup(c *cli.Context) (config.Config, *logrus.Logger, error) {
	if path := c.String("config"); path != "" {
		if err := os.Setenv("CONFIG_FILE", path); err != nil {
			return config.Config{}, nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("config error: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return cfg, logger, nil
}
