// Package viewmodel holds the screen coordinators. Each coordinator owns a set
// of observable containers and a lifecycle; triggers publish Loading at once
// and run their fetch in the background until the coordinator is closed.
package viewmodel

import (
	"context"
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/moviesapp/internal/tmdb"
	"github.com/Clark-Hu/moviesapp/internal/uistate"
)

// ErrClosed is returned by triggers invoked after Close.
var ErrClosed = errors.New("viewmodel: closed")

var transitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moviesapp_feed_transitions_total",
	Help: "Feed state transitions by coordinator, feed and state",
}, []string{"tag", "feed", "state"})

// Job is the handle of one launched fetch.
type Job struct {
	done chan struct{}
	err  error
}

func newJob() *Job {
	return &Job{done: make(chan struct{})}
}

func finishedJob(err error) *Job {
	j := newJob()
	j.err = err
	close(j.done)
	return j
}

// Done is closed when the job finishes.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job finishes. It returns nil when the feed reached a
// terminal state, the context error when the coordinator was closed first, and
// any failure that is not a recognised I/O error.
func (j *Job) Wait() error {
	<-j.done
	return j.err
}

// scope is a coordinator lifecycle. Publishing holds a read lock so that once
// close returns no further state is published.
type scope struct {
	tag    string
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.RWMutex
	logger logrus.FieldLogger
}

func newScope(tag string, logger logrus.FieldLogger) *scope {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &scope{
		tag:    tag,
		ctx:    ctx,
		cancel: cancel,
		logger: logger.WithField("tag", tag),
	}
}

func (s *scope) publish(fn func()) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ctx.Err() != nil {
		return false
	}
	fn()
	return true
}

func (s *scope) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel()
}

func (s *scope) closed() bool {
	return s.ctx.Err() != nil
}

// launch publishes Loading to c and fetches in the background. A recognised
// transient failure is logged and published as Failure; any other error leaves
// c as it is and is reported by the returned Job.
func launch[T any](s *scope, feed string, c *uistate.Container[T], fetch func(ctx context.Context) (T, error)) *Job {
	if !s.publish(func() { set(s, feed, c, uistate.Loading[T]()) }) {
		return finishedJob(ErrClosed)
	}

	job := newJob()
	go func() {
		defer close(job.done)

		v, err := fetch(s.ctx)
		if ctxErr := s.ctx.Err(); ctxErr != nil {
			job.err = ctxErr
			return
		}
		var published bool
		switch {
		case err == nil:
			published = s.publish(func() { set(s, feed, c, uistate.Success(v)) })
		case errors.Is(err, tmdb.ErrTransient):
			s.logger.WithField("feed", feed).WithError(err).Error("fetch failed")
			published = s.publish(func() { set(s, feed, c, uistate.Failure[T]()) })
		default:
			job.err = err
			return
		}
		if !published {
			job.err = s.ctx.Err()
		}
	}()
	return job
}

func set[T any](s *scope, feed string, c *uistate.Container[T], state uistate.State[T]) {
	c.Set(state)
	transitions.WithLabelValues(s.tag, feed, state.Status().String()).Inc()
}
