// Package settings persists user-tunable daemon state in a small on-disk
// key/value store. Every value is JSON under a flat key; missing or corrupt
// values fall back to defaults so a damaged store degrades instead of
// failing.
package settings

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"github.com/minipop/minipop/internal/filter"
	"github.com/minipop/minipop/internal/model"
)

// Store keys.
const (
	KeySelectedSources       = "selected_sources"
	KeyActiveHours           = "active_hours"
	KeyDurationSeconds       = "duration_seconds"
	KeyPosition              = "position"
	KeyStyle                 = "style"
	KeyBackgroundColor       = "background_color"
	KeyTextColor             = "text_color"
	KeyBackgroundAlpha       = "background_alpha"
	KeyTextAlpha             = "text_alpha"
	KeyFontScale             = "font_scale"
	KeyScrollSpeed           = "scroll_speed"
	KeyPersistentBypassHours = "persistent_bypass_hours"
	KeyRecentSources         = "recent_sources"
)

const recentSourcesMax = 50

// RecentSource is one entry of the recently-seen source list, used by the
// CLI to offer candidates for the allow list.
type RecentSource struct {
	SourceID string    `json:"source_id"`
	LastSeen time.Time `json:"last_seen"`
}

// Store is the persistent settings store.
type Store struct {
	logger *slog.Logger
	d      *diskv.Diskv
	dir    string

	// mu serializes read-modify-write sequences; individual diskv
	// operations are already safe.
	mu sync.Mutex
}

// Open creates or opens a settings store rooted at dir.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tempDir := filepath.Join(dir, ".tmp")
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create settings directory: %w", err)
	}

	// No read cache: the CLI writes the same store from another process,
	// and every event must see the freshest values.
	d := diskv.New(diskv.Options{
		BasePath:     dir,
		TempDir:      tempDir,
		CacheSizeMax: 0,
	})

	return &Store{logger: logger, d: d, dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

func get[T any](s *Store, key string, def T) T {
	data, err := s.d.Read(key)
	if err != nil {
		return def
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		s.logger.Warn("discarding corrupt setting", "key", key, "error", err)
		return def
	}
	return v
}

func put(s *Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode setting %s: %w", key, err)
	}
	if err := s.d.Write(key, data); err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}

// SelectedSources returns the allow-listed source IDs, sorted.
func (s *Store) SelectedSources() []string {
	ids := get(s, KeySelectedSources, []string(nil))
	sort.Strings(ids)
	return ids
}

// SetSelectedSources replaces the allow list.
func (s *Store) SetSelectedSources(ids []string) error {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return put(s, KeySelectedSources, sorted)
}

// AddSource adds one source to the allow list.
func (s *Store) AddSource(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.SelectedSources()
	for _, existing := range ids {
		if existing == id {
			return nil
		}
	}
	return s.SetSelectedSources(append(ids, id))
}

// RemoveSource removes one source from the allow list.
func (s *Store) RemoveSource(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.SelectedSources()
	kept := ids[:0]
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	return s.SetSelectedSources(kept)
}

// ActiveHours returns the configured active hours, or nil when the default
// window applies.
func (s *Store) ActiveHours() []int {
	hours := get(s, KeyActiveHours, []int(nil))
	sort.Ints(hours)
	return hours
}

// SetActiveHours replaces the active-hour set. Hours outside 0..23 are
// rejected.
func (s *Store) SetActiveHours(hours []int) error {
	for _, h := range hours {
		if h < 0 || h > 23 {
			return fmt.Errorf("invalid hour %d, must be 0-23", h)
		}
	}
	sorted := append([]int(nil), hours...)
	sort.Ints(sorted)
	return put(s, KeyActiveHours, sorted)
}

// PersistentBypassHours reports whether persistent events skip the
// active-hours rule.
func (s *Store) PersistentBypassHours() bool {
	return get(s, KeyPersistentBypassHours, false)
}

// SetPersistentBypassHours sets the persistent bypass flag.
func (s *Store) SetPersistentBypassHours(v bool) error {
	return put(s, KeyPersistentBypassHours, v)
}

// FilterSnapshot assembles the current filtering state.
func (s *Store) FilterSnapshot() filter.Snapshot {
	selected := make(map[string]bool)
	for _, id := range s.SelectedSources() {
		selected[id] = true
	}

	var hours map[int]bool
	if stored := s.ActiveHours(); len(stored) > 0 {
		hours = make(map[int]bool, len(stored))
		for _, h := range stored {
			hours[h] = true
		}
	}

	return filter.Snapshot{
		SelectedSources:       selected,
		ActiveHours:           hours,
		PersistentBypassHours: s.PersistentBypassHours(),
	}
}

// Presentation assembles the current presentation configuration, falling
// back to defaults per field and wholesale when the stored combination does
// not validate.
func (s *Store) Presentation() model.PresentationConfig {
	def := model.DefaultPresentationConfig()

	cfg := model.PresentationConfig{
		Position:        model.Position(get(s, KeyPosition, string(def.Position))),
		Style:           model.Style(get(s, KeyStyle, string(def.Style))),
		BackgroundColor: get(s, KeyBackgroundColor, def.BackgroundColor),
		TextColor:       get(s, KeyTextColor, def.TextColor),
		BackgroundAlpha: get(s, KeyBackgroundAlpha, def.BackgroundAlpha),
		TextAlpha:       get(s, KeyTextAlpha, def.TextAlpha),
		FontScale:       get(s, KeyFontScale, def.FontScale),
		DurationSeconds: get(s, KeyDurationSeconds, def.DurationSeconds),
		ScrollSpeed:     get(s, KeyScrollSpeed, def.ScrollSpeed),
	}

	if err := cfg.Validate(); err != nil {
		s.logger.Warn("stored presentation settings invalid, using defaults", "error", err)
		return def
	}
	return cfg
}

// SetPosition sets the overlay screen edge.
func (s *Store) SetPosition(p model.Position) error {
	if !p.Valid() {
		return fmt.Errorf("invalid position %q", p)
	}
	return put(s, KeyPosition, string(p))
}

// SetStyle sets the overlay style.
func (s *Store) SetStyle(st model.Style) error {
	if !st.Valid() {
		return fmt.Errorf("invalid style %q", st)
	}
	return put(s, KeyStyle, string(st))
}

// SetDuration sets the auto-dismiss duration in seconds.
func (s *Store) SetDuration(seconds int) error {
	if seconds < model.MinDurationSeconds || seconds > model.MaxDurationSeconds {
		return fmt.Errorf("invalid duration %d, must be %d-%d seconds",
			seconds, model.MinDurationSeconds, model.MaxDurationSeconds)
	}
	return put(s, KeyDurationSeconds, seconds)
}

// SetScrollSpeed sets the marquee speed factor.
func (s *Store) SetScrollSpeed(speed int) error {
	if speed < model.MinScrollSpeed || speed > model.MaxScrollSpeed {
		return fmt.Errorf("invalid scroll speed %d, must be %d-%d",
			speed, model.MinScrollSpeed, model.MaxScrollSpeed)
	}
	return put(s, KeyScrollSpeed, speed)
}

// SetFontScale sets the text scale percentage.
func (s *Store) SetFontScale(percent int) error {
	if percent < model.MinFontScale || percent > model.MaxFontScale {
		return fmt.Errorf("invalid font scale %d, must be %d-%d percent",
			percent, model.MinFontScale, model.MaxFontScale)
	}
	return put(s, KeyFontScale, percent)
}

// SetBackgroundColor sets the overlay background color as a hex string.
func (s *Store) SetBackgroundColor(hex string) error {
	if !model.ValidHexColor(hex) {
		return fmt.Errorf("invalid color %q, expected #RRGGBB", hex)
	}
	return put(s, KeyBackgroundColor, hex)
}

// SetTextColor sets the overlay text color as a hex string.
func (s *Store) SetTextColor(hex string) error {
	if !model.ValidHexColor(hex) {
		return fmt.Errorf("invalid color %q, expected #RRGGBB", hex)
	}
	return put(s, KeyTextColor, hex)
}

// SetBackgroundAlpha sets the background opacity.
func (s *Store) SetBackgroundAlpha(alpha float64) error {
	if alpha < 0 || alpha > 1 {
		return fmt.Errorf("invalid alpha %v, must be 0.0-1.0", alpha)
	}
	return put(s, KeyBackgroundAlpha, alpha)
}

// SetTextAlpha sets the text opacity.
func (s *Store) SetTextAlpha(alpha float64) error {
	if alpha < 0 || alpha > 1 {
		return fmt.Errorf("invalid alpha %v, must be 0.0-1.0", alpha)
	}
	return put(s, KeyTextAlpha, alpha)
}

// RecordSource notes that a source posted an event, so the CLI can list
// recently seen sources as allow-list candidates.
func (s *Store) RecordSource(id string, seen time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recents := get(s, KeyRecentSources, []RecentSource(nil))

	found := false
	for i := range recents {
		if recents[i].SourceID == id {
			recents[i].LastSeen = seen
			found = true
			break
		}
	}
	if !found {
		recents = append(recents, RecentSource{SourceID: id, LastSeen: seen})
	}

	sort.Slice(recents, func(i, j int) bool {
		return recents[i].LastSeen.After(recents[j].LastSeen)
	})
	if len(recents) > recentSourcesMax {
		recents = recents[:recentSourcesMax]
	}

	return put(s, KeyRecentSources, recents)
}

// RecentSources returns recently seen sources, most recent first.
func (s *Store) RecentSources() []RecentSource {
	return get(s, KeyRecentSources, []RecentSource(nil))
}
