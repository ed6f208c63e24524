package viewmodel

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/moviesapp/internal/domain"
	"github.com/Clark-Hu/moviesapp/internal/uistate"
)

// FeedFavourites names the my-list feed in logs and metrics.
const FeedFavourites = "favourites"

// FavouritesUseCase lists the account's favourites.
type FavouritesUseCase interface {
	List(ctx context.Context, page int) ([]domain.MovieFavourite, error)
}

// MyList coordinates the my-list screen.
type MyList struct {
	scope      *scope
	usecase    FavouritesUseCase
	favourites *uistate.Container[[]domain.MovieFavourite]
}

// NewMyList builds the coordinator.
func NewMyList(usecase FavouritesUseCase, logger logrus.FieldLogger) *MyList {
	return &MyList{
		scope:      newScope("mylist", logger),
		usecase:    usecase,
		favourites: uistate.NewContainer[[]domain.MovieFavourite](),
	}
}

// FavouritesState observes the favourites list.
func (m *MyList) FavouritesState() uistate.Observable[[]domain.MovieFavourite] {
	return m.favourites
}

// LoadFavourites refreshes the first page of favourites.
func (m *MyList) LoadFavourites() *Job {
	return launch(m.scope, FeedFavourites, m.favourites, func(ctx context.Context) ([]domain.MovieFavourite, error) {
		return m.usecase.List(ctx, 1)
	})
}

// Close cancels in-flight fetches.
func (m *MyList) Close() {
	m.scope.close()
}
