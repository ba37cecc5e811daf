package story

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"recap/internal/config"
	"recap/internal/logging"
	"recap/internal/manifest"
	"recap/internal/preload"
	"recap/internal/progress"
	"recap/internal/render"
	"recap/internal/services"
)

// ManifestSource yields the slide list.
type ManifestSource interface {
	Source() string
	Load(ctx context.Context) (*manifest.Manifest, error)
}

// MediaPreloader resolves every slide's media.
type MediaPreloader interface {
	Run(ctx context.Context, m *manifest.Manifest, reporter progress.Reporter) ([]preload.Result, progress.State)
}

// Story is a fully prepared recap: every asset resolved and every slide
// rendered.
type Story struct {
	Manifest *manifest.Manifest
	Results  []preload.Result
	Units    []render.Unit
	State    progress.State
	Summary  preload.Summary
	Elapsed  time.Duration
}

// Pipeline runs load, preload, and render in order. Nothing is rendered
// until the preload barrier releases.
type Pipeline struct {
	Loader    ManifestSource
	Preloader MediaPreloader
	Logger    *slog.Logger
}

// New builds a pipeline from configuration.
func New(cfg *config.Config, client *http.Client, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		Loader:    manifest.NewLoader(cfg.Story.Manifest, client, cfg.Preload.UserAgent, logger),
		Preloader: preload.New(preload.OptionsFromConfig(cfg), client, logger),
		Logger:    logger,
	}
}

// Run prepares the story. A manifest failure stops the run before any media
// is requested; asset failures are carried in Story.Results.
func (p *Pipeline) Run(ctx context.Context, reporter progress.Reporter) (*Story, error) {
	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, uuid.NewString())
	}
	logger := logging.WithContext(ctx, logging.NewComponentLogger(p.Logger, "story"))
	started := time.Now()

	m, err := p.Loader.Load(ctx)
	if err != nil {
		logging.ErrorWithContext(logger, "manifest load failed", "manifest_failed",
			logging.String("source", p.Loader.Source()),
			logging.Error(err),
		)
		return nil, err
	}
	logger.Info("manifest loaded",
		logging.String("source", m.Source()),
		logging.Int("slides", m.Len()),
	)

	results, state := p.Preloader.Run(ctx, m, reporter)

	units, err := render.Units(m, results)
	if err != nil {
		return nil, services.Wrap(services.ErrManifest, "story", "render", "", err)
	}

	st := &Story{
		Manifest: m,
		Results:  results,
		Units:    units,
		State:    state,
		Summary:  preload.Summarize(results),
		Elapsed:  time.Since(started),
	}
	logger.Info("story ready",
		logging.Int("loaded", st.Summary.Loaded),
		logging.Int("failed", st.Summary.Failed),
		logging.Duration("elapsed", st.Elapsed),
	)
	return st, nil
}

// Fragment renders the story's slide markup in the catalog's language.
func (s *Story) Fragment(cat *progress.Catalog) (string, error) {
	if cat == nil {
		cat = progress.NewCatalog("en")
	}
	return render.SlidesHTML(s.Units, cat.BrokenMedia())
}

// Notification returns the single message a visitor sees when the story
// cannot be shown. Only halting failures have one.
func Notification(err error, cat *progress.Catalog) string {
	if err == nil || services.Classify(err) == services.DispositionAbsorb {
		return ""
	}
	if cat == nil {
		cat = progress.NewCatalog("en")
	}
	return cat.Notification()
}

// Describe gives operators a one-line reason for a failed run.
func Describe(err error) string {
	var merr *manifest.Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &merr):
		return fmt.Sprintf("manifest %s: %s", merr.Source, merr.Reason)
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return err.Error()
	}
}
