package reannounce

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ochronus/qbreannounce/internal/app"
	"github.com/ochronus/qbreannounce/internal/metrics"
	"github.com/ochronus/qbreannounce/internal/services/qbittorrent"
	"github.com/sirupsen/logrus"
)

var (
	// ErrLogin marks a cycle that could not open a session. No other call was made.
	ErrLogin = errors.New("login failed")
	// ErrBusy is returned when a cycle is started while another one is running.
	ErrBusy = errors.New("a reannounce cycle is already running")
)

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Result describes a completed cycle
type Result struct {
	RunID    uuid.UUID
	Hashes   []string
	Duration time.Duration
}

// Runner performs the pause, reannounce, resume cycle against qBittorrent.
type Runner struct {
	client qbittorrent.ClientAPI
	logger *logrus.Logger
	delay  time.Duration
	sleep  Sleeper

	mu sync.Mutex
}

// Option customizes a Runner.
type Option func(*Runner)

// WithSleeper replaces the delay implementation (useful in tests).
func WithSleeper(s Sleeper) Option {
	return func(r *Runner) {
		if s != nil {
			r.sleep = s
		}
	}
}

// NewRunner creates a Runner from the container's client, logger and configured delay.
func NewRunner(container *app.Container, opts ...Option) *Runner {
	r := &Runner{
		client: container.QbitClient,
		logger: container.Logger,
		delay:  time.Duration(container.Config.Delay) * time.Second,
		sleep:  Sleep,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one cycle: login, list, pause, wait, reannounce, wait, resume, logout.
// Any failure aborts the cycle without further calls to qBittorrent.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if !r.mu.TryLock() {
		return nil, ErrBusy
	}
	defer r.mu.Unlock()

	result := &Result{RunID: uuid.New()}
	log := r.logger.WithField("run", result.RunID.String())
	start := time.Now()

	err := r.run(ctx, log, result)
	result.Duration = time.Since(start)
	metrics.CycleDuration.Observe(result.Duration.Seconds())

	switch {
	case err == nil:
		metrics.CyclesTotal.WithLabelValues(metrics.StatusSuccess).Inc()
		metrics.Torrents.Set(float64(len(result.Hashes)))
		log.Infof("cycle finished in %s", result.Duration.Round(time.Millisecond))
		return result, nil
	case errors.Is(err, ErrLogin):
		metrics.CyclesTotal.WithLabelValues(metrics.StatusLoginFailed).Inc()
	default:
		metrics.CyclesTotal.WithLabelValues(metrics.StatusFailed).Inc()
	}

	log.Errorf("cycle aborted: %v", err)
	return result, err
}

func (r *Runner) run(ctx context.Context, log *logrus.Entry, result *Result) error {
	if err := r.client.Login(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrLogin, err)
	}
	log.Debug("logged in to qbittorrent")

	torrents, err := r.client.ListTorrents(ctx)
	if err != nil {
		return fmt.Errorf("list torrents: %w", err)
	}
	hashes := qbittorrent.Hashes(torrents)
	result.Hashes = hashes
	log.Infof("found %d torrents", len(hashes))
	for _, t := range torrents {
		log.Debugf("%s: state %s", t, t.State)
	}

	if err := r.client.Pause(ctx, hashes); err != nil {
		return fmt.Errorf("pause: %w", err)
	}
	log.Info("paused all torrents")

	if err := r.sleep(ctx, r.delay); err != nil {
		return err
	}

	if err := r.client.Reannounce(ctx, hashes); err != nil {
		return fmt.Errorf("reannounce: %w", err)
	}
	log.Info("forced reannounce of all torrents")

	if err := r.sleep(ctx, r.delay); err != nil {
		return err
	}

	if err := r.client.Resume(ctx, hashes); err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	log.Info("resumed all torrents")

	if err := r.client.Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	log.Debug("logged out of qbittorrent")

	return nil
}

// Sleep waits for d, returning early with the context error if ctx is canceled.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
