package commands

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/maksimkurb/hostconf/src/internal/log"
)

// RestartableRunner runs a long-lived function in a goroutine and restarts it
// with exponential backoff when it returns an error or panics.
type RestartableRunner struct {
	name    string
	runFunc func(ctx context.Context) error
	cfg     RunnerConfig
	logger  *log.Logger

	mu           sync.RWMutex
	cancel       context.CancelFunc
	done         chan struct{}
	lastError    error
	restartCount int
}

// RunnerConfig contains configuration for RestartableRunner.
type RunnerConfig struct {
	Name           string
	MaxRestarts    int           // 0 = unlimited restarts
	RestartBackoff time.Duration // Initial backoff (default: 1s)
	MaxBackoff     time.Duration // Max backoff (default: 30s)
}

// NewRestartableRunner creates a new restartable runner.
func NewRestartableRunner(cfg RunnerConfig, runFunc func(ctx context.Context) error) *RestartableRunner {
	if cfg.RestartBackoff == 0 {
		cfg.RestartBackoff = time.Second
	}
	if cfg.MaxBackoff == 0 {
		cfg.MaxBackoff = 30 * time.Second
	}
	return &RestartableRunner{
		name:    cfg.Name,
		runFunc: runFunc,
		cfg:     cfg,
		logger:  log.Prefixed(cfg.Name),
	}
}

// Start starts the runner in a goroutine.
func (r *RestartableRunner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done != nil {
		return fmt.Errorf("%s is already running", r.name)
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.restartCount = 0
	r.lastError = nil

	go r.loop(runCtx, r.done)
	return nil
}

// Stop cancels the runner and waits up to timeout for it to return.
func (r *RestartableRunner) Stop(timeout time.Duration) error {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	if done == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
	case <-time.After(timeout):
		return fmt.Errorf("%s: timeout waiting for stop", r.name)
	}

	r.mu.Lock()
	r.done = nil
	r.mu.Unlock()
	return nil
}

// IsRunning returns true if the runner has been started and not stopped.
func (r *RestartableRunner) IsRunning() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.done == nil {
		return false
	}
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}

// LastError returns the error of the last run.
func (r *RestartableRunner) LastError() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastError
}

// RestartCount returns the number of restarts since Start.
func (r *RestartableRunner) RestartCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.restartCount
}

func (r *RestartableRunner) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	backoff := r.cfg.RestartBackoff
	for {
		err := r.runOnce(ctx)

		r.mu.Lock()
		r.lastError = err
		r.mu.Unlock()

		if err == nil {
			r.logger.Infof("Exited cleanly")
			return
		}
		if ctx.Err() != nil {
			r.logger.Infof("Stopped")
			return
		}

		r.mu.Lock()
		r.restartCount++
		count := r.restartCount
		r.mu.Unlock()

		if r.cfg.MaxRestarts > 0 && count >= r.cfg.MaxRestarts {
			r.logger.Errorf("Max restarts (%d) reached, giving up. Last error: %v", r.cfg.MaxRestarts, err)
			return
		}
		r.logger.Errorf("Crashed with error: %v. Restarting in %v (restart #%d)", err, backoff, count)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		backoff *= 2
		if backoff > r.cfg.MaxBackoff {
			backoff = r.cfg.MaxBackoff
		}
	}
}

func (r *RestartableRunner) runOnce(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("panic: %v", recovered)
		}
	}()
	return r.runFunc(ctx)
}
