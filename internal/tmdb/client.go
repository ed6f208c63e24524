package tmdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

var (
	// ErrTransient marks recoverable I/O failures: transport errors, timeouts,
	// throttling and upstream 5xx responses.
	ErrTransient = errors.New("tmdb: transient failure")
	// ErrNotFound is returned when upstream cannot find the requested resource.
	ErrNotFound = errors.New("tmdb: not found")
	// ErrMalformed is returned when a response body cannot be decoded.
	ErrMalformed = errors.New("tmdb: malformed response")
)

var upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moviesapp_tmdb_requests_total",
	Help: "Upstream requests by endpoint and outcome",
}, []string{"endpoint", "outcome"})

// Client defines the contract for querying the upstream movie database.
type Client interface {
	Popular(ctx context.Context, page int) (MoviesResponse, error)
	NewReleases(ctx context.Context, page int) (MoviesResponse, error)
	Upcoming(ctx context.Context, page int) (MoviesResponse, error)
	TopRated(ctx context.Context, page int) (MoviesResponse, error)
	Discover(ctx context.Context, page int) (MoviesResponse, error)
	Search(ctx context.Context, query string, page int) (MoviesResponse, error)
	Genres(ctx context.Context) (GenresResponse, error)
	Trailers(ctx context.Context, movieID int64) (TrailersResponse, error)
	AccountState(ctx context.Context, movieID int64) (AccountState, error)
	Favourites(ctx context.Context, accountID string, page int) (FavouritesResponse, error)
	MarkFavourite(ctx context.Context, accountID string, movieID int64, favorite bool) error
}

// Options tunes an HTTPClient.
type Options struct {
	Token    string
	Language string
	Timeout  time.Duration
	Logger   logrus.FieldLogger
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL  *url.URL
	token    string
	language string
	client   *http.Client
	logger   logrus.FieldLogger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient constructs a new HTTP-backed client.
func NewHTTPClient(baseURL string, opts Options) (*HTTPClient, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse tmdb url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("parse tmdb url: %q is not absolute", baseURL)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPClient{
		baseURL:  parsed,
		token:    opts.Token,
		language: opts.Language,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger.WithField("component", "tmdb"),
	}, nil
}

// Popular lists the general movie feed.
func (c *HTTPClient) Popular(ctx context.Context, page int) (MoviesResponse, error) {
	return c.listMovies(ctx, "popular", "/movie/popular", page, nil)
}

// NewReleases lists movies currently in theatres.
func (c *HTTPClient) NewReleases(ctx context.Context, page int) (MoviesResponse, error) {
	return c.listMovies(ctx, "now_playing", "/movie/now_playing", page, nil)
}

// Upcoming lists movies about to be released.
func (c *HTTPClient) Upcoming(ctx context.Context, page int) (MoviesResponse, error) {
	return c.listMovies(ctx, "upcoming", "/movie/upcoming", page, nil)
}

// TopRated lists the highest rated movies.
func (c *HTTPClient) TopRated(ctx context.Context, page int) (MoviesResponse, error) {
	return c.listMovies(ctx, "top_rated", "/movie/top_rated", page, nil)
}

// Discover lists movies by popularity without a query.
func (c *HTTPClient) Discover(ctx context.Context, page int) (MoviesResponse, error) {
	return c.listMovies(ctx, "discover", "/discover/movie", page, url.Values{"sort_by": {"popularity.desc"}})
}

// Search lists movies whose title matches query.
func (c *HTTPClient) Search(ctx context.Context, query string, page int) (MoviesResponse, error) {
	return c.listMovies(ctx, "search", "/search/movie", page, url.Values{"query": {query}})
}

// Genres lists the movie genres.
func (c *HTTPClient) Genres(ctx context.Context) (GenresResponse, error) {
	var payload GenresResponse
	err := c.do(ctx, "genres", http.MethodGet, "/genre/movie/list", nil, nil, &payload)
	return payload, err
}

// Trailers lists the videos of a movie.
func (c *HTTPClient) Trailers(ctx context.Context, movieID int64) (TrailersResponse, error) {
	var payload TrailersResponse
	err := c.do(ctx, "videos", http.MethodGet, fmt.Sprintf("/movie/%d/videos", movieID), nil, nil, &payload)
	return payload, err
}

// AccountState returns the signed-in account's state for a movie.
func (c *HTTPClient) AccountState(ctx context.Context, movieID int64) (AccountState, error) {
	var payload AccountState
	err := c.do(ctx, "account_states", http.MethodGet, fmt.Sprintf("/movie/%d/account_states", movieID), nil, nil, &payload)
	return payload, err
}

// Favourites lists an account's favourite movies.
func (c *HTTPClient) Favourites(ctx context.Context, accountID string, page int) (FavouritesResponse, error) {
	var payload FavouritesResponse
	q := url.Values{"page": {strconv.Itoa(normalizePage(page))}}
	err := c.do(ctx, "favourites", http.MethodGet, "/account/"+url.PathEscape(accountID)+"/favorite/movies", q, nil, &payload)
	return payload, err
}

// MarkFavourite adds or removes a movie from an account's favourites.
func (c *HTTPClient) MarkFavourite(ctx context.Context, accountID string, movieID int64, favorite bool) error {
	body := favouriteRequest{MediaType: "movie", MediaID: movieID, Favorite: favorite}
	return c.do(ctx, "mark_favourite", http.MethodPost, "/account/"+url.PathEscape(accountID)+"/favorite", nil, body, nil)
}

func (c *HTTPClient) listMovies(ctx context.Context, endpoint, path string, page int, extra url.Values) (MoviesResponse, error) {
	q := url.Values{}
	for k, v := range extra {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(normalizePage(page)))
	var payload MoviesResponse
	err := c.do(ctx, endpoint, http.MethodGet, path, q, nil, &payload)
	return payload, err
}

func (c *HTTPClient) do(ctx context.Context, endpoint, method, path string, query url.Values, body, dst interface{}) error {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if query == nil {
		query = url.Values{}
	}
	if c.language != "" && query.Get("language") == "" {
		query.Set("language", c.language)
	}
	u.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			upstreamRequests.WithLabelValues(endpoint, "canceled").Inc()
			return ctxErr
		}
		upstreamRequests.WithLabelValues(endpoint, "transient").Inc()
		return fmt.Errorf("%w: %s %s: %w", ErrTransient, method, endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if dst == nil {
			upstreamRequests.WithLabelValues(endpoint, "ok").Inc()
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) {
				upstreamRequests.WithLabelValues(endpoint, "transient").Inc()
				return fmt.Errorf("%w: read %s: %w", ErrTransient, endpoint, err)
			}
			upstreamRequests.WithLabelValues(endpoint, "malformed").Inc()
			return fmt.Errorf("%w: decode %s: %w", ErrMalformed, endpoint, err)
		}
		upstreamRequests.WithLabelValues(endpoint, "ok").Inc()
		return nil
	case resp.StatusCode == http.StatusNotFound:
		upstreamRequests.WithLabelValues(endpoint, "not_found").Inc()
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		upstreamRequests.WithLabelValues(endpoint, "transient").Inc()
		c.logger.WithFields(logrus.Fields{"endpoint": endpoint, "status": resp.StatusCode}).Warn("upstream unavailable")
		return fmt.Errorf("%w: %s returned %d", ErrTransient, endpoint, resp.StatusCode)
	default:
		upstreamRequests.WithLabelValues(endpoint, "error").Inc()
		c.logger.WithFields(logrus.Fields{"endpoint": endpoint, "status": resp.StatusCode}).Error("unexpected upstream status")
		return fmt.Errorf("tmdb: %s returned %d", endpoint, resp.StatusCode)
	}
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
