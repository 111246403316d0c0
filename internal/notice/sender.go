// Package notice posts desktop notifications over the session bus. The
// daemon uses it for failure notices; the CLI uses it to inject test events.
package notice

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsName   = "org.freedesktop.Notifications"
	notificationsPath   = "/org/freedesktop/Notifications"
	notificationsNotify = "org.freedesktop.Notifications.Notify"
)

// Options describes one notification to post. The x-minipop hints let a
// sender exercise the daemon's richer event fields through a plain
// freedesktop bus.
type Options struct {
	Source       string
	Title        string
	Body         string
	BigText      string
	SubText      string
	Ticker       string
	GroupSummary bool
	Persistent   bool
	IconPath     string
}

// Sender is a session-bus notification client.
type Sender struct {
	conn *dbus.Conn
}

// NewSender connects to the session bus.
func NewSender() (*Sender, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Sender{conn: conn}, nil
}

// Close releases the bus connection.
func (s *Sender) Close() error {
	return s.conn.Close()
}

// Send posts one notification and returns the server-assigned ID.
func (s *Sender) Send(opts Options) (uint32, error) {
	hints := map[string]dbus.Variant{}
	if opts.Source != "" {
		hints["desktop-entry"] = dbus.MakeVariant(opts.Source)
	}
	if opts.BigText != "" {
		hints["x-minipop-big-text"] = dbus.MakeVariant(opts.BigText)
	}
	if opts.SubText != "" {
		hints["x-minipop-sub-text"] = dbus.MakeVariant(opts.SubText)
	}
	if opts.Ticker != "" {
		hints["x-minipop-ticker"] = dbus.MakeVariant(opts.Ticker)
	}
	if opts.GroupSummary {
		hints["x-minipop-group-summary"] = dbus.MakeVariant(true)
	}
	if opts.Persistent {
		hints["x-minipop-persistent"] = dbus.MakeVariant(true)
	}
	if opts.IconPath != "" {
		hints["image-path"] = dbus.MakeVariant(opts.IconPath)
	}

	obj := s.conn.Object(notificationsName, dbus.ObjectPath(notificationsPath))

	var id uint32
	err := obj.Call(notificationsNotify, 0,
		opts.Source,   // app_name
		uint32(0),     // replaces_id
		opts.IconPath, // app_icon
		opts.Title,    // summary
		opts.Body,     // body
		[]string{},    // actions
		hints,
		int32(-1), // expire_timeout
	).Store(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to post notification: %w", err)
	}

	return id, nil
}
