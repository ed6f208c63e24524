package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Clark-Hu/moviesapp/internal/uistate"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsReadTimeout  = 60 * time.Second
	wsPingInterval = 30 * time.Second
)

var (
	wsCurrentStreams = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "moviesapp_ws_streams",
		Help: "Open state streams",
	})
	wsMessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moviesapp_ws_messages_total",
		Help: "State messages pushed to stream clients by feed",
	}, []string{"feed"})
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// Stream feed names accepted by /ws/{feed}.
const (
	StreamMoviesWithNewReleases = "movies-with-new-releases"
	StreamNewReleases           = "new-releases"
	StreamTopRated              = "top-rated"
	StreamGenres                = "genres"
	StreamFavourites            = "favourites"
)

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	feed := chi.URLParam(r, "feed")
	var run func(ctx context.Context, conn *websocket.Conn) error
	switch feed {
	case StreamMoviesWithNewReleases:
		run = streamer(feed, s.home.MoviesWithNewReleasesState())
	case StreamNewReleases:
		run = streamer(feed, s.home.NewReleasesState())
	case StreamTopRated:
		run = streamer(feed, s.home.TopRatedState())
	case StreamGenres:
		run = streamer(feed, s.explore.GenresState())
	case StreamFavourites:
		run = streamer(feed, s.mylist.FavouritesState())
	default:
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Unknown feed")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	wsCurrentStreams.Inc()
	defer wsCurrentStreams.Dec()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The client never sends data; reading only serves control frames and
	// notices when the peer goes away.
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.logger.WithError(err).WithField("feed", feed).Debug("stream closed by peer")
				}
				return
			}
		}
	}()

	if err := run(ctx, conn); err != nil {
		s.logger.WithError(err).WithField("feed", feed).Debug("stream ended")
	}
}

// streamer pushes every state of obs to the connection and pings at an
// interval until ctx ends or a write fails.
func streamer[T any](feed string, obs uistate.Observable[T]) func(ctx context.Context, conn *websocket.Conn) error {
	return func(ctx context.Context, conn *websocket.Conn) error {
		states := obs.Subscribe(ctx)
		ticker := time.NewTicker(wsPingInterval)
		defer ticker.Stop()

		for {
			select {
			case state, ok := <-states:
				if !ok {
					return ctx.Err()
				}
				_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				if err := conn.WriteJSON(state); err != nil {
					return err
				}
				wsMessagesSent.WithLabelValues(feed).Inc()
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
					return err
				}
			case <-ctx.Done():
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(wsWriteTimeout))
				return ctx.Err()
			}
		}
	}
}
