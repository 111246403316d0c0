package overlay

import (
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/minipop/minipop/internal/icon"
	"github.com/minipop/minipop/internal/marquee"
	"github.com/minipop/minipop/internal/model"
)

// commandKind discriminates the internal commands re-entering the engine
// loop.
type commandKind int

const (
	commandDismissTimer commandKind = iota
	commandMarqueeStart
	commandIconReady
	commandTouch
	commandHostDismiss
)

// command is a serialized instruction for the engine goroutine. Timer
// callbacks, gesture input, and icon decode results all funnel through this
// type so presentation state is only ever touched from one goroutine.
type command struct {
	kind   commandKind
	unitID string
	icon   image.Image
	touch  TouchRelease
}

// Engine owns the single visible overlay and the single pending replacement.
//
// All mutable presentation state is confined to the run goroutine. External
// input arrives through two serialized entry points: Submit (a single-slot
// latest-wins inbox for new units) and the command channel (timer fires,
// touches, host dismissals, icon results). Units superseded while still
// pending are never rendered.
type Engine struct {
	logger   *slog.Logger
	surface  Surface
	nav      Navigator
	notifier Notifier

	mu      sync.Mutex
	pending *model.DisplayUnit
	running bool

	wake   chan struct{}
	cmds   chan command
	stopCh chan struct{}
	doneCh chan struct{}

	// State below is owned exclusively by the run goroutine.
	current      *model.DisplayUnit
	handle       Handle
	attached     bool
	activePos    model.Position
	activeStyle  model.Style
	dismissTimer *time.Timer
	marqueeTimer *time.Timer
}

// NewEngine creates an overlay engine over the given collaborators.
func NewEngine(surface Surface, nav Navigator, notifier Notifier, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Engine{
		logger:   logger,
		surface:  surface,
		nav:      nav,
		notifier: notifier,
		wake:     make(chan struct{}, 1),
		cmds:     make(chan command, 16),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the engine goroutine.
func (e *Engine) Start() error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil
	}
	e.running = true
	e.mu.Unlock()

	go e.run()

	e.logger.Info("overlay engine started")
	return nil
}

// Stop tears down any visible overlay and stops the engine goroutine.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	close(e.stopCh)
	e.mu.Unlock()

	<-e.doneCh
	e.logger.Info("overlay engine stopped")
}

// Submit hands a new display unit to the engine. The inbox holds at most one
// not-yet-displayed unit: a newer submission replaces an older pending one,
// which is then never rendered.
func (e *Engine) Submit(unit *model.DisplayUnit) {
	e.mu.Lock()
	superseded := e.pending
	e.pending = unit
	e.mu.Unlock()

	if superseded != nil {
		e.logger.Debug("pending unit superseded",
			"superseded_id", superseded.ID,
			"unit_id", unit.ID,
		)
	}

	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// Touch reports a touch release on the overlay.
func (e *Engine) Touch(t TouchRelease) {
	e.post(command{kind: commandTouch, touch: t})
}

// Dismiss removes the current overlay regardless of its persistence. This is
// the host-driven path for clearing persistent overlays.
func (e *Engine) Dismiss() {
	e.post(command{kind: commandHostDismiss})
}

// post enqueues a command unless the engine is stopping.
func (e *Engine) post(cmd command) {
	select {
	case e.cmds <- cmd:
	case <-e.stopCh:
	}
}

// run is the engine goroutine. It is the only goroutine allowed to touch
// presentation state or call the surface.
func (e *Engine) run() {
	defer close(e.doneCh)

	for {
		select {
		case <-e.stopCh:
			e.teardown()
			return
		case <-e.wake:
			if unit := e.takePending(); unit != nil {
				e.show(unit)
			}
		case cmd := <-e.cmds:
			e.handleCommand(cmd)
		}
	}
}

// takePending consumes the latest pending unit, if any.
func (e *Engine) takePending() *model.DisplayUnit {
	e.mu.Lock()
	defer e.mu.Unlock()
	unit := e.pending
	e.pending = nil
	return unit
}

// show promotes a unit to current, reusing the attached overlay when the
// position and style are unchanged and rebuilding it when they are not.
func (e *Engine) show(unit *model.DisplayUnit) {
	e.cancelTimers()

	structural := e.attached &&
		(e.activePos != unit.Config.Position || e.activeStyle != unit.Config.Style)
	if structural {
		e.logger.Debug("structural change, rebuilding overlay",
			"unit_id", unit.ID,
			"position", unit.Config.Position,
			"style", unit.Config.Style,
		)
		e.surface.StopScroll(e.handle)
		e.surface.Destroy(e.handle)
		e.attached = false
	}

	if !e.attached {
		h, err := e.surface.Create(unit.Config)
		if err != nil {
			e.logger.Warn("failed to attach overlay", "unit_id", unit.ID, "error", err)
			e.notifier.Notify("Overlay unavailable",
				"Could not attach the notification overlay: "+err.Error())
			e.clear()
			return
		}
		e.handle = h
		e.attached = true
	}

	e.current = unit
	e.activePos = unit.Config.Position
	e.activeStyle = unit.Config.Style

	if err := e.surface.Update(e.handle, e.content(unit, nil)); err != nil {
		e.logger.Warn("failed to render overlay content", "unit_id", unit.ID, "error", err)
		e.notifier.Notify("Overlay unavailable",
			"Could not render the notification overlay: "+err.Error())
		e.teardown()
		return
	}

	e.logger.Debug("overlay shown",
		"unit_id", unit.ID,
		"source", unit.SourceID,
		"persistent", unit.Persistent,
	)

	e.decodeIcon(unit)
	e.scheduleMarquee(unit)
	e.armDismiss(unit)
}

// content assembles the surface content for a unit.
func (e *Engine) content(unit *model.DisplayUnit, img image.Image) Content {
	return Content{
		Title:  unit.Content.Title,
		Body:   unit.Content.Body,
		Icon:   img,
		Config: unit.Config,
	}
}

// decodeIcon offloads icon decoding to a worker goroutine. The result
// resynchronizes onto the engine goroutine through the command channel and
// is dropped if the unit has been superseded by then.
func (e *Engine) decodeIcon(unit *model.DisplayUnit) {
	if len(unit.Icon) == 0 {
		return
	}

	id := unit.ID
	data := unit.Icon
	go func() {
		img, ok := icon.DecodeOrPlaceholder(data)
		if !ok {
			e.logger.Debug("icon decode failed, using placeholder", "unit_id", id)
		}
		e.post(command{kind: commandIconReady, unitID: id, icon: img})
	}()
}

// scheduleMarquee recomputes the scroll plan for the current content and,
// when scrolling is needed, schedules the delayed start. Only the narrow
// style scrolls; banner text wraps instead.
func (e *Engine) scheduleMarquee(unit *model.DisplayUnit) {
	e.surface.StopScroll(e.handle)

	if unit.Config.Style != model.StyleNarrow {
		return
	}

	text := unit.Content.Line()
	textWidth, viewportWidth := e.surface.Measure(e.handle, text, unit.Config.FontScale)
	scroll := marquee.Compute(textWidth, viewportWidth, unit.Config.ScrollSpeed)
	if !scroll.Needed {
		return
	}

	id := unit.ID
	e.marqueeTimer = time.AfterFunc(marquee.StartDelay, func() {
		e.post(command{kind: commandMarqueeStart, unitID: id})
	})
}

// armDismiss schedules the auto-dismiss timer, keyed by unit ID so a fire
// against a superseded unit is a no-op.
func (e *Engine) armDismiss(unit *model.DisplayUnit) {
	if unit.Persistent {
		return
	}

	id := unit.ID
	e.dismissTimer = time.AfterFunc(unit.Duration(), func() {
		e.post(command{kind: commandDismissTimer, unitID: id})
	})
}

func (e *Engine) handleCommand(cmd command) {
	switch cmd.kind {
	case commandDismissTimer:
		if e.current == nil || e.current.ID != cmd.unitID {
			e.logger.Debug("ignoring stale dismiss timer", "unit_id", cmd.unitID)
			return
		}
		e.logger.Debug("overlay expired", "unit_id", cmd.unitID)
		e.teardown()

	case commandMarqueeStart:
		if e.current == nil || e.current.ID != cmd.unitID {
			return
		}
		unit := e.current
		text := unit.Content.Line()
		textWidth, viewportWidth := e.surface.Measure(e.handle, text, unit.Config.FontScale)
		scroll := marquee.Compute(textWidth, viewportWidth, unit.Config.ScrollSpeed)
		if scroll.Needed {
			e.surface.StartScroll(e.handle, scroll)
		}

	case commandIconReady:
		if e.current == nil || e.current.ID != cmd.unitID {
			return
		}
		if err := e.surface.Update(e.handle, e.content(e.current, cmd.icon)); err != nil {
			e.logger.Debug("failed to patch overlay icon", "unit_id", cmd.unitID, "error", err)
		}

	case commandTouch:
		if e.current == nil {
			return
		}
		action := Classify(cmd.touch)
		e.logger.Debug("overlay touch",
			"unit_id", e.current.ID,
			"dx", cmd.touch.DX,
			"dy", cmd.touch.DY,
			"action", action,
		)
		switch action {
		case GestureDismiss:
			e.teardown()
		case GestureActivate:
			e.activate()
		}

	case commandHostDismiss:
		if e.current == nil {
			return
		}
		e.logger.Debug("overlay dismissed by host", "unit_id", e.current.ID)
		e.teardown()
	}
}

// activate attempts navigation for the current unit. Teardown happens
// regardless of the navigation outcome; navigation itself runs off the
// engine goroutine because it may invoke external processes.
func (e *Engine) activate() {
	unit := e.current
	e.teardown()

	go func() {
		if unit.Activation != "" {
			if err := e.nav.Activate(unit.Activation); err == nil {
				return
			} else {
				e.logger.Debug("activation handle failed, falling back to launch",
					"unit_id", unit.ID,
					"source", unit.SourceID,
					"error", err,
				)
			}
		}

		if err := e.nav.Launch(unit.SourceID); err != nil {
			e.logger.Warn("failed to open notification source",
				"unit_id", unit.ID,
				"source", unit.SourceID,
				"error", err,
			)
			e.notifier.Notify("Could not open notification",
				"Neither the notification context nor "+unit.SourceID+" could be opened.")
		}
	}()
}

// teardown removes the overlay and returns the engine to the empty state.
// Always cancels outstanding timers first so a late fire cannot double
// teardown or leak an animation.
func (e *Engine) teardown() {
	e.cancelTimers()
	if e.attached {
		e.surface.StopScroll(e.handle)
		e.surface.Destroy(e.handle)
	}
	e.clear()
}

func (e *Engine) clear() {
	e.attached = false
	e.current = nil
	e.activePos = ""
	e.activeStyle = ""
}

func (e *Engine) cancelTimers() {
	if e.dismissTimer != nil {
		e.dismissTimer.Stop()
		e.dismissTimer = nil
	}
	if e.marqueeTimer != nil {
		e.marqueeTimer.Stop()
		e.marqueeTimer = nil
	}
}

// nopNotifier drops notices. Used when no notifier is wired.
type nopNotifier struct{}

func (nopNotifier) Notify(string, string) {}
