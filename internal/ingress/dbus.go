package ingress

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/minipop/minipop/internal/model"
)

const (
	notificationsInterface = "org.freedesktop.Notifications"

	// Hints recognized beyond the freedesktop basics. Senders that feed
	// richer payloads through the bus use the x-minipop-* namespace.
	hintUrgency      = "urgency"
	hintDesktopEntry = "desktop-entry"
	hintImagePath    = "image-path"
	hintGroupSummary = "x-minipop-group-summary"
	hintPersistent   = "x-minipop-persistent"
	hintBigText      = "x-minipop-big-text"
	hintSubText      = "x-minipop-sub-text"
	hintTicker       = "x-minipop-ticker"

	urgencyCritical = 2
)

// notifyCall holds the raw arguments of one captured Notify method call.
type notifyCall struct {
	AppName       string
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string
	Hints         map[string]dbus.Variant
	ExpireTimeout int32
}

// DBusMonitor passively observes session-bus notification traffic without
// claiming the org.freedesktop.Notifications name, so it can run alongside
// a regular notification daemon.
type DBusMonitor struct {
	logger  *slog.Logger
	conn    *dbus.Conn
	handler Handler
}

// NewDBusMonitor creates a notification bus monitor.
func NewDBusMonitor(logger *slog.Logger) *DBusMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &DBusMonitor{logger: logger}
}

// Name returns the source identifier.
func (m *DBusMonitor) Name() string {
	return "dbus"
}

// Start begins monitoring the session bus for Notify calls.
func (m *DBusMonitor) Start(handler Handler) error {
	m.handler = handler

	conn, err := dbus.SessionBus()
	if err != nil {
		return &SourceError{Source: m.Name(), Message: "failed to connect to session bus", Err: err}
	}
	m.conn = conn

	rules := []string{
		fmt.Sprintf("type='method_call',interface='%s',member='Notify'", notificationsInterface),
	}
	err = conn.BusObject().Call(
		"org.freedesktop.DBus.Monitoring.BecomeMonitor",
		0,
		rules,
		uint32(0),
	).Err
	if err != nil {
		// Older buses lack BecomeMonitor. Fall back to eavesdrop matching.
		m.logger.Warn("BecomeMonitor not available, trying AddMatch", "error", err)
		return m.startWithAddMatch()
	}

	m.logger.Info("started notification bus monitor using BecomeMonitor")

	go m.processMessages()
	return nil
}

func (m *DBusMonitor) startWithAddMatch() error {
	matchRule := fmt.Sprintf(
		"type='method_call',interface='%s',member='Notify',eavesdrop='true'",
		notificationsInterface,
	)
	err := m.conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, matchRule).Err
	if err != nil {
		return &SourceError{
			Source:  m.Name(),
			Message: "failed to add match rule (eavesdrop may require permissions)",
			Err:     err,
		}
	}

	m.logger.Info("started notification bus monitor using AddMatch with eavesdrop")

	go m.processMessages()
	return nil
}

// Stop closes the bus connection, which ends message processing.
func (m *DBusMonitor) Stop() error {
	if m.conn != nil {
		return m.conn.Close()
	}
	return nil
}

func (m *DBusMonitor) processMessages() {
	ch := make(chan *dbus.Message, 100)
	m.conn.Eavesdrop(ch)

	for msg := range ch {
		if msg.Type != dbus.TypeMethodCall {
			continue
		}
		if msg.Headers[dbus.FieldInterface].Value() != notificationsInterface {
			continue
		}
		if msg.Headers[dbus.FieldMember].Value() != "Notify" {
			continue
		}
		m.handleNotify(msg)
	}
}

func (m *DBusMonitor) handleNotify(msg *dbus.Message) {
	call, err := parseNotify(msg.Body)
	if err != nil {
		m.logger.Warn("malformed Notify call", "error", err)
		return
	}

	event := call.toEvent(time.Now())

	m.logger.Debug("captured notification",
		"source", event.SourceID,
		"summary", call.Summary,
	)

	if m.handler != nil {
		m.handler(event)
	}
}

// parseNotify extracts the arguments of a Notify method call:
// Notify(app_name, replaces_id, app_icon, summary, body, actions, hints, expire_timeout)
func parseNotify(body []interface{}) (*notifyCall, error) {
	if len(body) < 8 {
		return nil, fmt.Errorf("expected 8 arguments, got %d", len(body))
	}

	call := &notifyCall{}

	var ok bool
	if call.AppName, ok = body[0].(string); !ok {
		return nil, fmt.Errorf("invalid app_name type %T", body[0])
	}
	if _, ok = body[1].(uint32); !ok {
		return nil, fmt.Errorf("invalid replaces_id type %T", body[1])
	}
	if call.AppIcon, ok = body[2].(string); !ok {
		return nil, fmt.Errorf("invalid app_icon type %T", body[2])
	}
	if call.Summary, ok = body[3].(string); !ok {
		return nil, fmt.Errorf("invalid summary type %T", body[3])
	}
	if call.Body, ok = body[4].(string); !ok {
		return nil, fmt.Errorf("invalid body type %T", body[4])
	}
	if actions, ok := body[5].([]string); ok {
		call.Actions = actions
	}
	if hints, ok := body[6].(map[string]dbus.Variant); ok {
		call.Hints = hints
	}
	if timeout, ok := body[7].(int32); ok {
		call.ExpireTimeout = timeout
	}

	return call, nil
}

// toEvent maps a captured Notify call onto the daemon's event model.
func (c *notifyCall) toEvent(now time.Time) *model.NotificationEvent {
	event := &model.NotificationEvent{
		SourceID:     c.sourceID(),
		GroupSummary: c.boolHint(hintGroupSummary),
		Persistent:   c.persistent(),
		Fields: model.Fields{
			Title:   c.Summary,
			Text:    c.Body,
			BigText: c.stringHint(hintBigText),
			SubText: c.stringHint(hintSubText),
			Ticker:  c.stringHint(hintTicker),
		},
		Activation: c.activation(),
		Icon:       c.iconBytes(),
		Timestamp:  now,
	}
	return event
}

// sourceID prefers the desktop-entry hint, which is the stable application
// identity, over the free-form app name.
func (c *notifyCall) sourceID() string {
	if entry := c.stringHint(hintDesktopEntry); entry != "" {
		return entry
	}
	return c.AppName
}

// persistent is true for events that should stay up until dismissed:
// critical urgency, a zero expire timeout, or an explicit hint.
func (c *notifyCall) persistent() bool {
	if c.boolHint(hintPersistent) {
		return true
	}
	if c.ExpireTimeout == 0 {
		return true
	}
	return c.urgency() == urgencyCritical
}

// activation maps the freedesktop default action onto an activation handle.
// In monitor mode the origin's action cannot be invoked directly, so the
// handle carries the application identity for the navigator to open.
func (c *notifyCall) activation() model.ActivationHandle {
	for i := 0; i+1 < len(c.Actions); i += 2 {
		if c.Actions[i] == "default" {
			return model.ActivationHandle("app:" + c.sourceID())
		}
	}
	return ""
}

// iconBytes loads the icon payload from the image-path hint or the app_icon
// argument when either names a readable file. Named theme icons are left to
// the surface's placeholder.
func (c *notifyCall) iconBytes() []byte {
	for _, path := range []string{c.stringHint(hintImagePath), c.AppIcon} {
		if !filepath.IsAbs(path) {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return data
	}
	return nil
}

func (c *notifyCall) urgency() int {
	if v, ok := c.Hints[hintUrgency]; ok {
		if b, ok := v.Value().(byte); ok {
			return int(b)
		}
	}
	return 1
}

func (c *notifyCall) stringHint(key string) string {
	if v, ok := c.Hints[key]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

func (c *notifyCall) boolHint(key string) bool {
	if v, ok := c.Hints[key]; ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}
