// Package daemon wires ingress sources, filtering, content resolution, and
// the overlay engine into the running minipopd process.
package daemon

import (
	"log/slog"
	"time"

	"github.com/minipop/minipop/internal/content"
	"github.com/minipop/minipop/internal/filter"
	"github.com/minipop/minipop/internal/ingress"
	"github.com/minipop/minipop/internal/model"
	"github.com/minipop/minipop/internal/settings"
)

// Presenter receives display units ready for presentation.
type Presenter interface {
	Submit(unit *model.DisplayUnit)
}

// Daemon owns the event pipeline: every ingress event is recorded, filtered
// against the current settings snapshot, resolved to displayable content,
// and submitted to the presenter.
type Daemon struct {
	logger  *slog.Logger
	store   *settings.Store
	engine  Presenter
	sources []ingress.Source
	watcher *settings.Watcher

	now func() time.Time
}

// New creates a daemon over the given collaborators.
func New(store *settings.Store, engine Presenter, sources []ingress.Source, logger *slog.Logger) *Daemon {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Daemon{
		logger:  logger,
		store:   store,
		engine:  engine,
		sources: sources,
		now:     time.Now,
	}
	d.watcher = settings.NewWatcher(store.Dir(), d.onSettingsChanged, logger)
	return d
}

// Start begins the settings watcher and all ingress sources. Sources that
// fail to start are skipped; at least one must start.
func (d *Daemon) Start() error {
	if err := d.watcher.Start(); err != nil {
		d.logger.Warn("settings watcher unavailable", "error", err)
	}

	started := 0
	var lastErr error
	for _, src := range d.sources {
		if err := src.Start(d.HandleEvent); err != nil {
			d.logger.Error("failed to start ingress source", "source", src.Name(), "error", err)
			lastErr = err
			continue
		}
		d.logger.Info("ingress source started", "source", src.Name())
		started++
	}
	if started == 0 {
		return lastErr
	}

	return nil
}

// Stop halts sources and the settings watcher.
func (d *Daemon) Stop() {
	for _, src := range d.sources {
		if err := src.Stop(); err != nil {
			d.logger.Warn("failed to stop ingress source", "source", src.Name(), "error", err)
		}
	}
	d.watcher.Stop()
}

// HandleEvent runs one event through the pipeline. Safe to call from any
// source goroutine.
func (d *Daemon) HandleEvent(ev *model.NotificationEvent) {
	if err := ev.Validate(); err != nil {
		d.logger.Warn("dropping invalid event", "error", err)
		return
	}

	if err := d.store.RecordSource(ev.SourceID, ev.Timestamp); err != nil {
		d.logger.Warn("failed to record source", "source", ev.SourceID, "error", err)
	}

	snap := d.store.FilterSnapshot()
	if reason := filter.Decide(*ev, snap, d.now()); reason != filter.RejectNone {
		d.logger.Debug("event filtered",
			"source", ev.SourceID,
			"reason", reason,
		)
		return
	}

	resolved := content.Resolve(*ev)
	unit, err := model.NewDisplayUnit(*ev, resolved, d.store.Presentation())
	if err != nil {
		d.logger.Error("failed to create display unit", "source", ev.SourceID, "error", err)
		return
	}

	d.logger.Debug("event accepted",
		"source", ev.SourceID,
		"unit_id", unit.ID,
		"persistent", unit.Persistent,
	)

	d.engine.Submit(unit)
}

// onSettingsChanged reacts to external settings writes. Each event reads a
// fresh snapshot, so there is nothing to invalidate; the change is only
// surfaced in the log.
func (d *Daemon) onSettingsChanged() {
	d.logger.Info("settings changed, applying to subsequent events")
}
