package viewmodel

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/moviesapp/internal/domain"
	"github.com/Clark-Hu/moviesapp/internal/paging"
	"github.com/Clark-Hu/moviesapp/internal/uistate"
)

// FeedGenres names the explore genre list in logs and metrics.
const FeedGenres = "genres"

// ExploreDeps are the collaborators of Explore.
type ExploreDeps struct {
	Genres func(ctx context.Context) ([]domain.Genre, error)
	Search func(query string) paging.Pager[domain.Movie]
	Logger logrus.FieldLogger
}

// Explore coordinates the explore screen: a search field, the genre filter and
// the paged results for the current search text.
type Explore struct {
	scope  *scope
	deps   ExploreDeps
	genres *uistate.Container[[]domain.Genre]

	mu     sync.RWMutex
	search string
}

// NewExplore builds the coordinator with an empty search field.
func NewExplore(deps ExploreDeps) *Explore {
	return &Explore{
		scope:  newScope("explore", deps.Logger),
		deps:   deps,
		genres: uistate.NewContainer[[]domain.Genre](),
	}
}

// SearchField returns the current search text.
func (e *Explore) SearchField() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.search
}

// UpdateSearchField replaces the search text. Later pages follow the new text.
func (e *Explore) UpdateSearchField(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.search = text
}

// GenresState observes the genre filter.
func (e *Explore) GenresState() uistate.Observable[[]domain.Genre] {
	return e.genres
}

// LoadGenres refreshes the genre filter.
func (e *Explore) LoadGenres() *Job {
	return launch(e.scope, FeedGenres, e.genres, e.deps.Genres)
}

// Page loads a page of results for the current search text.
func (e *Explore) Page(ctx context.Context, page int) (paging.Page[domain.Movie], error) {
	if e.scope.closed() {
		return paging.Page[domain.Movie]{}, ErrClosed
	}
	return e.deps.Search(e.SearchField()).Load(ctx, page)
}

// Close cancels in-flight fetches.
func (e *Explore) Close() {
	e.scope.close()
}
