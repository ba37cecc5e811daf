package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"recap/internal/config"
	"recap/internal/logging"
	"recap/internal/session"
	"recap/internal/story"
	"recap/internal/web"
)

const pruneInterval = time.Hour

// Daemon owns the web server and the session store and enforces
// single-instance execution per state directory.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *session.Store
	server *web.Server

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Status represents daemon runtime information.
type Status struct {
	Running       bool
	Address       string
	Manifest      string
	LockFilePath  string
	SessionDB     string
	Sessions      int
	CachedStories int
}

// New constructs a daemon with initialized dependencies. It requires a
// configured gate password.
func New(cfg *config.Config, store *session.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("daemon requires config and session store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := cfg.ValidateGate(); err != nil {
		return nil, err
	}
	gate, err := session.GateFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	client := &http.Client{}
	pipeline := story.New(cfg, client, logger)
	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		server:   web.New(cfg, pipeline, gate, store, logger),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and begins serving.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another recap daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.server.Start(runCtx); err != nil {
		_ = d.lock.Unlock()
		cancel()
		return fmt.Errorf("start web server: %w", err)
	}
	d.cancel = cancel

	d.wg.Add(1)
	go d.pruneLoop(runCtx)

	d.running.Store(true)
	d.logger.Info("recap daemon started",
		logging.String("lock", d.lockPath),
		logging.String("address", d.server.Addr()),
		logging.String("manifest", d.cfg.Story.Manifest),
	)
	return nil
}

// Stop stops serving and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.server.Stop()
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("recap daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status reports runtime information.
func (d *Daemon) Status(ctx context.Context) Status {
	st := Status{
		Running:       d.running.Load(),
		Address:       d.server.Addr(),
		Manifest:      d.cfg.Story.Manifest,
		LockFilePath:  d.lockPath,
		SessionDB:     d.store.Path(),
		CachedStories: d.server.CachedStories(),
	}
	if n, err := d.store.Count(ctx); err == nil {
		st.Sessions = n
	}
	return st
}

func (d *Daemon) pruneLoop(ctx context.Context) {
	defer d.wg.Done()
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		d.prune(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (d *Daemon) prune(ctx context.Context) {
	removed, err := d.store.Prune(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			d.logger.Warn("session prune failed", logging.Error(err))
		}
		return
	}
	if removed > 0 {
		d.logger.Info("pruned idle sessions", logging.Int64("removed", removed))
	}
	if dropped := d.server.PruneStories(ctx); dropped > 0 {
		d.logger.Info("dropped cached stories", logging.Int("dropped", dropped))
	}
}
