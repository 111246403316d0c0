package daemon

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minipop/minipop/internal/model"
	"github.com/minipop/minipop/internal/settings"
)

type fakePresenter struct {
	mu    sync.Mutex
	units []*model.DisplayUnit
}

func (p *fakePresenter) Submit(unit *model.DisplayUnit) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.units = append(p.units, unit)
}

func (p *fakePresenter) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.units)
}

func (p *fakePresenter) last() *model.DisplayUnit {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.units[len(p.units)-1]
}

func noon() time.Time {
	return time.Date(2026, 8, 1, 12, 0, 0, 0, time.Local)
}

func testEvent(source string) *model.NotificationEvent {
	return &model.NotificationEvent{
		SourceID: source,
		Fields: model.Fields{
			Title: "Mail",
			Text:  "new message",
		},
		Timestamp: noon(),
	}
}

func testDaemon(t *testing.T) (*Daemon, *settings.Store, *fakePresenter) {
	t.Helper()

	store, err := settings.Open(t.TempDir(), nil)
	require.NoError(t, err)
	require.NoError(t, store.SetSelectedSources([]string{"org.example.mail"}))

	presenter := &fakePresenter{}
	d := New(store, presenter, nil, nil)
	d.now = noon
	return d, store, presenter
}

func TestHandleEventSubmitsResolvedUnit(t *testing.T) {
	d, _, presenter := testDaemon(t)

	d.HandleEvent(testEvent("org.example.mail"))

	require.Equal(t, 1, presenter.count())
	unit := presenter.last()
	assert.Equal(t, "Mail", unit.Content.Title)
	assert.Equal(t, "new message", unit.Content.Body)
	assert.Equal(t, "org.example.mail", unit.SourceID)
	assert.NotEmpty(t, unit.ID)
	assert.Equal(t, model.DefaultPresentationConfig(), unit.Config)
}

func TestHandleEventFiltersUnselectedSource(t *testing.T) {
	d, store, presenter := testDaemon(t)

	d.HandleEvent(testEvent("org.example.chat"))
	assert.Zero(t, presenter.count())

	// Still recorded as a recently seen source.
	recents := store.RecentSources()
	require.Len(t, recents, 1)
	assert.Equal(t, "org.example.chat", recents[0].SourceID)
}

func TestHandleEventFiltersGroupSummary(t *testing.T) {
	d, _, presenter := testDaemon(t)

	ev := testEvent("org.example.mail")
	ev.GroupSummary = true
	d.HandleEvent(ev)

	assert.Zero(t, presenter.count())
}

func TestHandleEventFiltersOutsideActiveHours(t *testing.T) {
	d, _, presenter := testDaemon(t)
	d.now = func() time.Time {
		return time.Date(2026, 8, 1, 3, 0, 0, 0, time.Local)
	}

	d.HandleEvent(testEvent("org.example.mail"))
	assert.Zero(t, presenter.count())
}

func TestHandleEventDropsInvalidEvent(t *testing.T) {
	d, store, presenter := testDaemon(t)

	d.HandleEvent(&model.NotificationEvent{Timestamp: noon()})

	assert.Zero(t, presenter.count())
	assert.Empty(t, store.RecentSources())
}

func TestSettingsChangeAppliesToNextEvent(t *testing.T) {
	d, store, presenter := testDaemon(t)

	d.HandleEvent(testEvent("org.example.mail"))
	require.Equal(t, 1, presenter.count())
	assert.Equal(t, model.PositionTop, presenter.last().Config.Position)

	require.NoError(t, store.SetPosition(model.PositionBottom))

	d.HandleEvent(testEvent("org.example.mail"))
	require.Equal(t, 2, presenter.count())
	assert.Equal(t, model.PositionBottom, presenter.last().Config.Position)
}
