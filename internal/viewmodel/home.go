package viewmodel

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/moviesapp/internal/auth"
	"github.com/Clark-Hu/moviesapp/internal/domain"
	"github.com/Clark-Hu/moviesapp/internal/paging"
	"github.com/Clark-Hu/moviesapp/internal/tmdb"
	"github.com/Clark-Hu/moviesapp/internal/uistate"
)

// Home feed names used in logs and metrics.
const (
	FeedMoviesWithNewReleases = "movies_with_new_releases"
	FeedNewReleases           = "new_releases"
	FeedTopRated              = "top_rated"
)

// HomeUseCase fetches the home screen feeds.
type HomeUseCase interface {
	MoviesWithNewReleases(ctx context.Context) (domain.MoviesWithNewReleases, error)
	NewReleases(ctx context.Context) ([]domain.MovieNewRelease, error)
	TopRated(ctx context.Context) (tmdb.MoviesResponse, error)
}

// HomeDeps are the collaborators of Home.
type HomeDeps struct {
	Movies          HomeUseCase
	NewReleasePages paging.Pager[domain.MovieNewRelease]
	UpcomingPages   paging.Pager[domain.MovieUpcoming]
	Auth            auth.Provider
	Logger          logrus.FieldLogger
}

// Home coordinates the home and profile screens.
type Home struct {
	scope *scope
	deps  HomeDeps

	moviesWithNewReleases *uistate.Container[domain.MoviesWithNewReleases]
	newReleases           *uistate.Container[[]domain.MovieNewRelease]
	topRated              *uistate.Container[tmdb.MoviesResponse]
	profile               auth.UserData
}

// NewHome builds the coordinator. The profile is read once from the auth
// provider; without a session it holds the placeholder identity.
func NewHome(deps HomeDeps) *Home {
	return &Home{
		scope:                 newScope("home", deps.Logger),
		deps:                  deps,
		moviesWithNewReleases: uistate.NewContainer[domain.MoviesWithNewReleases](),
		newReleases:           uistate.NewContainer[[]domain.MovieNewRelease](),
		topRated:              uistate.NewContainer[tmdb.MoviesResponse](),
		profile:               auth.ProfileOf(deps.Auth),
	}
}

// MoviesWithNewReleasesState observes the combined home feed.
func (h *Home) MoviesWithNewReleasesState() uistate.Observable[domain.MoviesWithNewReleases] {
	return h.moviesWithNewReleases
}

// NewReleasesState observes the new-releases feed.
func (h *Home) NewReleasesState() uistate.Observable[[]domain.MovieNewRelease] {
	return h.newReleases
}

// TopRatedState observes the top-rated feed.
func (h *Home) TopRatedState() uistate.Observable[tmdb.MoviesResponse] {
	return h.topRated
}

// ProfileInfo returns the identity captured at construction.
func (h *Home) ProfileInfo() auth.UserData {
	return h.profile
}

// LoadMoviesWithNewReleases refreshes the combined home feed.
func (h *Home) LoadMoviesWithNewReleases() *Job {
	return launch(h.scope, FeedMoviesWithNewReleases, h.moviesWithNewReleases, h.deps.Movies.MoviesWithNewReleases)
}

// LoadNewReleases refreshes the new-releases feed.
func (h *Home) LoadNewReleases() *Job {
	return launch(h.scope, FeedNewReleases, h.newReleases, h.deps.Movies.NewReleases)
}

// LoadTopRated refreshes the top-rated feed.
func (h *Home) LoadTopRated() *Job {
	return launch(h.scope, FeedTopRated, h.topRated, h.deps.Movies.TopRated)
}

// NewReleasePages loads one page of the cached new-releases feed.
func (h *Home) NewReleasePages(ctx context.Context, page int) (paging.Page[domain.MovieNewRelease], error) {
	if h.scope.closed() {
		return paging.Page[domain.MovieNewRelease]{}, ErrClosed
	}
	return h.deps.NewReleasePages.Load(ctx, page)
}

// UpcomingPages loads one page of the cached upcoming feed.
func (h *Home) UpcomingPages(ctx context.Context, page int) (paging.Page[domain.MovieUpcoming], error) {
	if h.scope.closed() {
		return paging.Page[domain.MovieUpcoming]{}, ErrClosed
	}
	return h.deps.UpcomingPages.Load(ctx, page)
}

// SignOut ends the session. Feed states and the captured profile are untouched.
func (h *Home) SignOut(ctx context.Context) error {
	if h.deps.Auth == nil {
		return nil
	}
	return h.deps.Auth.SignOut(ctx)
}

// Close cancels in-flight fetches. Nothing is published afterwards.
func (h *Home) Close() {
	h.scope.close()
}
