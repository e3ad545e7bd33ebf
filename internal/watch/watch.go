// Package watch polls a Sentinel and reports topology changes.
package watch

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/pior/sentinel"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/exp/rand"
)

// Poll outcomes reported to Metrics.
const (
	StatusOK      = "ok"
	StatusDown    = "down"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// ErrSentinelDown is returned by Poll when the Sentinel did not answer PING.
var ErrSentinelDown = errors.New("sentinel did not answer PING")

// Metrics receives the watcher observations. All methods must be safe for
// concurrent use.
type Metrics interface {
	SetUp(up bool)
	RecordPoll(status string)
	SetMasters(count int)
	RecordTopologyChange()
	SetBreakerState(state gobreaker.State)
}

// Change describes a new topology.
type Change struct {
	Masters     []sentinel.Record
	Fingerprint uint64
	Previous    uint64
	Initial     bool // first successful poll, Previous is meaningless
}

// Config configures a Watcher.
type Config struct {
	// Interval between polls. Defaults to 10s.
	Interval time.Duration

	// Jitter adds a random delay in [0, Jitter) to each interval.
	Jitter time.Duration

	// PollTimeout bounds each poll. Defaults to 5s.
	PollTimeout time.Duration

	// BreakerFailures is the number of consecutive failed polls that opens
	// the circuit breaker. Defaults to 3.
	BreakerFailures uint32

	// BreakerTimeout is how long the breaker stays open. Defaults to 30s.
	BreakerTimeout time.Duration

	Logger   *slog.Logger
	Metrics  Metrics
	OnChange func(Change)
}

// Watcher polls a Sentinel through a circuit breaker.
type Watcher struct {
	querier sentinel.Querier
	config  Config
	logger  *slog.Logger
	breaker *gobreaker.CircuitBreaker[[]sentinel.Record]

	mu          sync.Mutex
	masters     []sentinel.Record
	fingerprint uint64
	seen        bool
}

// New creates a Watcher. Nothing happens until Poll or Run is called.
func New(querier sentinel.Querier, config Config) *Watcher {
	if config.Interval <= 0 {
		config.Interval = 10 * time.Second
	}
	if config.PollTimeout <= 0 {
		config.PollTimeout = 5 * time.Second
	}
	if config.BreakerFailures == 0 {
		config.BreakerFailures = 3
	}
	if config.BreakerTimeout <= 0 {
		config.BreakerTimeout = 30 * time.Second
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}

	w := &Watcher{
		querier: querier,
		config:  config,
		logger:  config.Logger,
	}

	w.breaker = sentinel.NewCircuitBreaker[[]sentinel.Record]("sentinel", config.BreakerFailures, config.BreakerTimeout, w.onStateChange)

	if config.Metrics != nil {
		config.Metrics.SetBreakerState(gobreaker.StateClosed)
	}

	return w
}

// Run polls until ctx is done and returns ctx.Err().
func (w *Watcher) Run(ctx context.Context) error {
	for {
		_, _ = w.Poll(ctx)

		timer := time.NewTimer(w.nextDelay())
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Poll checks the Sentinel once and returns the masters it reports.
// While the breaker is open, Poll returns gobreaker.ErrOpenState without
// contacting the Sentinel.
func (w *Watcher) Poll(ctx context.Context) ([]sentinel.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, w.config.PollTimeout)
	defer cancel()

	masters, err := w.breaker.Execute(func() ([]sentinel.Record, error) {
		if !w.querier.Ping(ctx) {
			if err := ctx.Err(); errors.Is(err, context.Canceled) {
				return nil, err
			}
			return nil, ErrSentinelDown
		}
		return w.querier.Masters(ctx)
	})
	if err != nil {
		status := StatusError
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			status = StatusSkipped
		case errors.Is(err, ErrSentinelDown):
			status = StatusDown
		}

		w.logger.Warn("poll failed", slog.String("status", status), slog.Any("error", err))
		if m := w.config.Metrics; m != nil {
			m.SetUp(false)
			m.RecordPoll(status)
		}
		return nil, err
	}

	if m := w.config.Metrics; m != nil {
		m.SetUp(true)
		m.RecordPoll(StatusOK)
		m.SetMasters(len(masters))
	}

	w.observe(masters)
	return masters, nil
}

// Masters returns the masters seen by the last successful poll.
// The records are shared and must not be modified.
func (w *Watcher) Masters() []sentinel.Record {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.masters)
}

// BreakerState returns the circuit breaker state.
func (w *Watcher) BreakerState() gobreaker.State {
	return w.breaker.State()
}

func (w *Watcher) observe(masters []sentinel.Record) {
	fp := Fingerprint(masters)

	w.mu.Lock()
	change := Change{
		Masters:     masters,
		Fingerprint: fp,
		Previous:    w.fingerprint,
		Initial:     !w.seen,
	}
	changed := !w.seen || fp != w.fingerprint
	w.masters = masters
	w.fingerprint = fp
	w.seen = true
	w.mu.Unlock()

	if !changed {
		return
	}

	if !change.Initial {
		w.logger.Info("topology changed", slog.Int("masters", len(masters)), slog.Uint64("fingerprint", fp))
		if m := w.config.Metrics; m != nil {
			m.RecordTopologyChange()
		}
	}

	if w.config.OnChange != nil {
		w.config.OnChange(change)
	}
}

func (w *Watcher) onStateChange(name string, from, to gobreaker.State) {
	w.logger.Warn("circuit breaker state changed",
		slog.String("breaker", name),
		slog.String("from", from.String()),
		slog.String("to", to.String()),
	)
	if m := w.config.Metrics; m != nil {
		m.SetBreakerState(to)
	}
}

func (w *Watcher) nextDelay() time.Duration {
	delay := w.config.Interval
	if w.config.Jitter > 0 {
		delay += time.Duration(rand.Int63n(int64(w.config.Jitter)))
	}
	return delay
}
