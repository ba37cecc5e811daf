package preload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"recap/internal/config"
	"recap/internal/logging"
	"recap/internal/manifest"
	"recap/internal/progress"
	"recap/internal/services"
)

const defaultReadahead = 512 << 10

// Options tunes the preloader.
type Options struct {
	// MaxParallel bounds concurrent loads; zero is unbounded.
	MaxParallel int
	// AssetTimeout bounds a single load; zero waits forever.
	AssetTimeout   time.Duration
	VideoReadahead int64
	MaxImageBytes  int64
	// MaxImagePixels caps width*height before decoding; zero disables it.
	MaxImagePixels int64
	UserAgent      string
}

// OptionsFromConfig maps the [preload] config section.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return Options{VideoReadahead: defaultReadahead}
	}
	return Options{
		MaxParallel:    cfg.Preload.MaxParallel,
		AssetTimeout:   cfg.AssetTimeout(),
		VideoReadahead: cfg.Preload.VideoReadaheadBytes,
		MaxImageBytes:  cfg.Preload.MaxImageBytes,
		MaxImagePixels: cfg.Preload.MaxImagePixels,
		UserAgent:      cfg.Preload.UserAgent,
	}
}

// Preloader fetches every slide's media before the story is shown.
type Preloader struct {
	opts   Options
	client *http.Client
	logger *slog.Logger
}

// New constructs a Preloader. A nil client uses http.DefaultClient.
func New(opts Options, client *http.Client, logger *slog.Logger) *Preloader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Preloader{
		opts:   opts,
		client: client,
		logger: logging.NewComponentLogger(logger, "preload"),
	}
}

// publisher owns the progress counters. Every update happens under mu so
// reporters see one strictly ordered sequence.
type publisher struct {
	mu       sync.Mutex
	state    progress.State
	reporter progress.Reporter
}

func (p *publisher) publish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reporter.Publish(p.state)
}

func (p *publisher) resolve() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.Loaded < p.state.Total {
		p.state.Loaded++
	}
	p.reporter.Publish(p.state)
}

func (p *publisher) snapshot() progress.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Run loads every slide's media concurrently and returns once each one has
// resolved, successfully or not. Results are indexed by slide position.
// Individual failures are absorbed into the results; Run itself never fails.
func (p *Preloader) Run(ctx context.Context, m *manifest.Manifest, reporter progress.Reporter) ([]Result, progress.State) {
	if reporter == nil {
		reporter = progress.Discard
	}
	slides := m.Slides()
	base := m.Source()
	results := make([]Result, len(slides))
	pub := &publisher{reporter: reporter, state: progress.State{Total: len(slides)}}
	pub.publish()

	p.logger.Info("preload started",
		logging.Int("slides", len(slides)),
		logging.Int("max_parallel", p.opts.MaxParallel),
		logging.Duration("asset_timeout", p.opts.AssetTimeout),
	)
	started := time.Now()

	var group errgroup.Group
	if p.opts.MaxParallel > 0 {
		group.SetLimit(p.opts.MaxParallel)
	}
	for i, slide := range slides {
		group.Go(func() error {
			results[i] = p.load(ctx, base, i, slide)
			pub.resolve()
			return nil
		})
	}
	_ = group.Wait()

	summary := Summarize(results)
	p.logger.Info("preload finished",
		logging.Int("loaded", summary.Loaded),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
		logging.Duration("elapsed", time.Since(started)),
	)
	return results, pub.snapshot()
}

func (p *Preloader) load(ctx context.Context, base string, index int, slide manifest.Slide) Result {
	started := time.Now()
	result := Result{Index: index, Slide: slide, Status: StatusLoaded}
	logger := logging.WithContext(services.WithSlideIndex(ctx, index), p.logger)

	if !slide.Type.Known() {
		logger.Debug("slide has no preloadable media", logging.String("type", string(slide.Type)))
		result.Elapsed = time.Since(started)
		return result
	}

	loadCtx := ctx
	if p.opts.AssetTimeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, p.opts.AssetTimeout)
		defer cancel()
	}

	asset, err := p.fetch(loadCtx, base, slide)
	result.Elapsed = time.Since(started)
	if err != nil {
		if p.opts.AssetTimeout > 0 && errors.Is(loadCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			err = services.Wrap(services.ErrTimeout, "preload", string(slide.Type),
				fmt.Sprintf("no response within %s", p.opts.AssetTimeout), err)
		}
		result.Status = StatusFailed
		result.Err = &AssetError{Index: index, Kind: slide.Type, Src: slide.Src, Err: err}
		logging.WarnWithContext(logger, "asset failed to preload", "asset_load_failed",
			logging.String("type", string(slide.Type)),
			logging.String("src", slide.Src),
			logging.Error(err),
			logging.String(logging.FieldImpact, "slide shows a placeholder instead of its media"),
		)
		return result
	}

	result.Asset = asset
	logger.Debug("asset preloaded",
		logging.String("type", string(slide.Type)),
		logging.String("content_type", asset.ContentType),
		logging.Int64("bytes", asset.Bytes),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result
}

func (p *Preloader) fetch(ctx context.Context, base string, slide manifest.Slide) (*Asset, error) {
	target, err := resolve(base, slide.Src)
	if err != nil {
		return nil, err
	}
	switch slide.Type {
	case manifest.KindImage:
		return p.loadImage(ctx, target)
	case manifest.KindVideo:
		return p.loadVideo(ctx, target)
	default:
		return nil, nil
	}
}
