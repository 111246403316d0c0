package notice

import (
	"log/slog"
	"sync"
	"time"
)

// SendFunc delivers one notice.
type SendFunc func(summary, body string) error

// RateLimited emits failure notices through a SendFunc, suppressing repeats
// of the same notice within a minimum interval so a persistent fault cannot
// flood the desktop. Implements the overlay engine's Notifier.
type RateLimited struct {
	mu     sync.Mutex
	logger *slog.Logger
	send   SendFunc

	lastSent    map[string]time.Time
	minInterval time.Duration
	enabled     bool

	now func() time.Time
}

// NewRateLimited creates a rate-limited notifier.
func NewRateLimited(send SendFunc, minInterval time.Duration, logger *slog.Logger) *RateLimited {
	if logger == nil {
		logger = slog.Default()
	}
	return &RateLimited{
		logger:      logger,
		send:        send,
		lastSent:    make(map[string]time.Time),
		minInterval: minInterval,
		enabled:     true,
		now:         time.Now,
	}
}

// SetEnabled enables or disables notice delivery.
func (n *RateLimited) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// Notify sends a notice unless the same summary fired within the minimum
// interval.
func (n *RateLimited) Notify(summary, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.enabled {
		return
	}

	if last, ok := n.lastSent[summary]; ok {
		if n.now().Sub(last) < n.minInterval {
			n.logger.Debug("notice rate-limited", "summary", summary)
			return
		}
	}
	n.lastSent[summary] = n.now()

	if err := n.send(summary, body); err != nil {
		// The notice channel itself failing must never cascade into more
		// notices.
		n.logger.Warn("failed to deliver notice", "summary", summary, "error", err)
	}
}
