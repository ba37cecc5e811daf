package progress

import (
	"log/slog"

	"recap/internal/logging"
)

// Tracker turns preload states into snapshots for a sink and logs them
// through a sampler so long preloads don't flood the log.
type Tracker struct {
	catalog *Catalog
	sink    func(Snapshot)
	sampler *logging.ProgressSampler
	logger  *slog.Logger
}

// NewTracker builds a Tracker. sink may be nil when only logging is wanted.
func NewTracker(cat *Catalog, sink func(Snapshot), logger *slog.Logger) *Tracker {
	if cat == nil {
		cat = NewCatalog("en")
	}
	return &Tracker{
		catalog: cat,
		sink:    sink,
		sampler: logging.NewProgressSampler(25),
		logger:  logging.NewComponentLogger(logger, "progress"),
	}
}

// Publish implements Reporter.
func (t *Tracker) Publish(s State) {
	snap := t.catalog.Snapshot(s)
	if t.sampler.ShouldLog(float64(snap.Percent)) {
		t.logger.Info("preload progress",
			logging.Int("loaded", snap.Loaded),
			logging.Int("total", snap.Total),
			logging.Int("percent", snap.Percent),
		)
	}
	if t.sink != nil {
		t.sink(snap)
	}
}
