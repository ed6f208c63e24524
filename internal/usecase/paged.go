package usecase

import (
	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/moviesapp/internal/domain"
	"github.com/Clark-Hu/moviesapp/internal/entity"
	"github.com/Clark-Hu/moviesapp/internal/paging"
	"github.com/Clark-Hu/moviesapp/internal/repository"
	"github.com/Clark-Hu/moviesapp/internal/tmdb"
)

// Paged exposes the paged feeds.
type Paged struct {
	NewReleases *paging.FeedMediator[entity.MovieNewRelease, domain.MovieNewRelease]
	Upcoming    *paging.FeedMediator[entity.MovieUpcoming, domain.MovieUpcoming]
	client      tmdb.Client
}

// NewPaged wires the cached feed mediators.
func NewPaged(client tmdb.Client, repo *repository.Repository, logger logrus.FieldLogger) *Paged {
	return &Paged{
		NewReleases: paging.NewReleases(client, repo, logger),
		Upcoming:    paging.Upcoming(client, repo, logger),
		client:      client,
	}
}

// Search returns an uncached source for the explore results of query.
func (p *Paged) Search(query string) paging.Pager[domain.Movie] {
	return paging.NewSearchSource(p.client, query)
}
