package ingress

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/minipop/minipop/internal/model"
)

// stdinEvent is the line-delimited JSON wire format accepted on stdin. Each
// line is one event; blank lines are skipped.
type stdinEvent struct {
	Source       string               `json:"source"`
	GroupSummary bool                 `json:"group_summary"`
	Persistent   bool                 `json:"persistent"`
	Title        string               `json:"title"`
	Text         string               `json:"text"`
	BigText      string               `json:"big_text"`
	SubText      string               `json:"sub_text"`
	Ticker       string               `json:"ticker"`
	TextLines    []string             `json:"text_lines"`
	Messages     []model.MessageEntry `json:"messages"`
	Activation   string               `json:"activation"`
	IconPath     string               `json:"icon_path"`
}

// StdinSource reads line-delimited JSON events from a reader, normally
// os.Stdin. Intended for scripting and testing the daemon without a bus.
type StdinSource struct {
	logger *slog.Logger
	reader io.Reader

	mu      sync.Mutex
	running bool
	stopped bool
}

// NewStdinSource creates a source reading from os.Stdin.
func NewStdinSource(logger *slog.Logger) *StdinSource {
	return NewStdinSourceWithReader(os.Stdin, logger)
}

// NewStdinSourceWithReader creates a source with a custom reader.
func NewStdinSourceWithReader(r io.Reader, logger *slog.Logger) *StdinSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &StdinSource{logger: logger, reader: r}
}

// Name returns the source identifier.
func (s *StdinSource) Name() string {
	return "stdin"
}

// Start begins reading events. The feed ends at EOF; Stop only prevents
// further events from being delivered, it cannot unblock a pending read on
// a real stdin.
func (s *StdinSource) Start(handler Handler) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	go s.loop(handler)
	return nil
}

// Stop halts event delivery.
func (s *StdinSource) Stop() error {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	return nil
}

func (s *StdinSource) loop(handler Handler) {
	scanner := bufio.NewScanner(s.reader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		s.mu.Lock()
		stopped := s.stopped
		s.mu.Unlock()
		if stopped {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		event, err := parseStdinLine([]byte(line), time.Now())
		if err != nil {
			s.logger.Warn("skipping malformed input line", "error", err)
			continue
		}

		handler(event)
	}

	if err := scanner.Err(); err != nil {
		s.logger.Warn("stdin read failed", "error", err)
	}
}

// parseStdinLine decodes one JSON line into an event.
func parseStdinLine(line []byte, now time.Time) (*model.NotificationEvent, error) {
	var in stdinEvent
	if err := json.Unmarshal(line, &in); err != nil {
		return nil, &SourceError{Source: "stdin", Message: "failed to parse JSON input", Err: err}
	}

	event := &model.NotificationEvent{
		SourceID:     in.Source,
		GroupSummary: in.GroupSummary,
		Persistent:   in.Persistent,
		Fields: model.Fields{
			Title:     in.Title,
			Text:      in.Text,
			BigText:   in.BigText,
			SubText:   in.SubText,
			Ticker:    in.Ticker,
			TextLines: in.TextLines,
			Messages:  in.Messages,
		},
		Activation: model.ActivationHandle(in.Activation),
		Timestamp:  now,
	}

	if in.IconPath != "" {
		data, err := os.ReadFile(in.IconPath)
		if err == nil {
			event.Icon = data
		}
	}

	if err := event.Validate(); err != nil {
		return nil, &SourceError{Source: "stdin", Message: "invalid event", Err: err}
	}

	return event, nil
}
