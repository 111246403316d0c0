package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minipop/minipop/internal/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir(), nil)
	require.NoError(t, err)
	return store
}

func TestDefaultsOnEmptyStore(t *testing.T) {
	store := testStore(t)

	assert.Empty(t, store.SelectedSources())
	assert.Empty(t, store.ActiveHours())
	assert.False(t, store.PersistentBypassHours())
	assert.Equal(t, model.DefaultPresentationConfig(), store.Presentation())
	assert.Empty(t, store.RecentSources())
}

func TestSelectedSourcesRoundTrip(t *testing.T) {
	store := testStore(t)

	require.NoError(t, store.SetSelectedSources([]string{"org.b", "org.a"}))
	assert.Equal(t, []string{"org.a", "org.b"}, store.SelectedSources())

	require.NoError(t, store.AddSource("org.c"))
	require.NoError(t, store.AddSource("org.c"))
	assert.Equal(t, []string{"org.a", "org.b", "org.c"}, store.SelectedSources())

	require.NoError(t, store.RemoveSource("org.b"))
	assert.Equal(t, []string{"org.a", "org.c"}, store.SelectedSources())
}

func TestActiveHoursValidation(t *testing.T) {
	store := testStore(t)

	require.NoError(t, store.SetActiveHours([]int{22, 8, 9}))
	assert.Equal(t, []int{8, 9, 22}, store.ActiveHours())

	assert.Error(t, store.SetActiveHours([]int{24}))
	assert.Error(t, store.SetActiveHours([]int{-1}))
}

func TestFilterSnapshot(t *testing.T) {
	store := testStore(t)

	require.NoError(t, store.SetSelectedSources([]string{"org.a"}))
	require.NoError(t, store.SetActiveHours([]int{9, 10}))
	require.NoError(t, store.SetPersistentBypassHours(true))

	snap := store.FilterSnapshot()
	assert.True(t, snap.SelectedSources["org.a"])
	assert.False(t, snap.SelectedSources["org.b"])
	assert.Equal(t, map[int]bool{9: true, 10: true}, snap.ActiveHours)
	assert.True(t, snap.PersistentBypassHours)
}

func TestFilterSnapshotUnsetHoursMeansDefaultWindow(t *testing.T) {
	store := testStore(t)
	assert.Nil(t, store.FilterSnapshot().ActiveHours)
}

func TestPresentationSetters(t *testing.T) {
	store := testStore(t)

	require.NoError(t, store.SetPosition(model.PositionBottom))
	require.NoError(t, store.SetStyle(model.StyleBanner))
	require.NoError(t, store.SetDuration(30))
	require.NoError(t, store.SetScrollSpeed(25))
	require.NoError(t, store.SetFontScale(150))
	require.NoError(t, store.SetBackgroundColor("#1e1e2e"))
	require.NoError(t, store.SetTextColor("#cdd6f4"))
	require.NoError(t, store.SetBackgroundAlpha(0.8))
	require.NoError(t, store.SetTextAlpha(0.9))

	cfg := store.Presentation()
	assert.Equal(t, model.PositionBottom, cfg.Position)
	assert.Equal(t, model.StyleBanner, cfg.Style)
	assert.Equal(t, 30, cfg.DurationSeconds)
	assert.Equal(t, 25, cfg.ScrollSpeed)
	assert.Equal(t, 150, cfg.FontScale)
	assert.Equal(t, "#1e1e2e", cfg.BackgroundColor)
	assert.Equal(t, "#cdd6f4", cfg.TextColor)
	assert.InDelta(t, 0.8, cfg.BackgroundAlpha, 1e-9)
	assert.InDelta(t, 0.9, cfg.TextAlpha, 1e-9)
}

func TestPresentationSetterValidation(t *testing.T) {
	store := testStore(t)

	assert.Error(t, store.SetPosition("left"))
	assert.Error(t, store.SetStyle("huge"))
	assert.Error(t, store.SetDuration(0))
	assert.Error(t, store.SetDuration(601))
	assert.Error(t, store.SetScrollSpeed(0))
	assert.Error(t, store.SetFontScale(10))
	assert.Error(t, store.SetBackgroundColor("333333"))
	assert.Error(t, store.SetBackgroundColor("#33"))
	assert.Error(t, store.SetTextColor("#gggggg"))
	assert.Error(t, store.SetBackgroundAlpha(1.5))
	assert.Error(t, store.SetTextAlpha(-0.1))
}

func TestCorruptValueFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir, nil)
	require.NoError(t, err)

	require.NoError(t, store.SetDuration(30))
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyDurationSeconds), []byte("{broken"), 0o644))

	assert.Equal(t, model.DefaultPresentationConfig().DurationSeconds, store.Presentation().DurationSeconds)
}

func TestRecentSourcesOrderedAndCapped(t *testing.T) {
	store := testStore(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.RecordSource("org.a", base))
	require.NoError(t, store.RecordSource("org.b", base.Add(time.Minute)))
	require.NoError(t, store.RecordSource("org.a", base.Add(2*time.Minute)))

	recents := store.RecentSources()
	require.Len(t, recents, 2)
	assert.Equal(t, "org.a", recents[0].SourceID)
	assert.Equal(t, "org.b", recents[1].SourceID)

	for i := 0; i < recentSourcesMax+10; i++ {
		require.NoError(t, store.RecordSource(
			"org.bulk."+string(rune('a'+i%26))+string(rune('a'+i/26)),
			base.Add(time.Duration(3+i)*time.Minute)))
	}
	assert.Len(t, store.RecentSources(), recentSourcesMax)
}

func TestWatcherReportsExternalWrites(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir, nil)
	require.NoError(t, err)

	changed := make(chan struct{}, 1)
	w := NewWatcher(dir, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}, nil)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, store.SetDuration(42))

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("expected change notification")
	}
}
