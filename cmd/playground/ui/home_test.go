package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	"playground/internal/home"
	"playground/internal/users"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, draw int) (HomeModel, *home.Store) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	src := users.NewFakeSource(0, users.WithDraw(func() int { return draw }))
	store := home.NewStore(ctx, src, nil)
	t.Cleanup(func() {
		cancel()
		store.Close()
	})

	m := NewHomeModel(ctx, store, HomeOptions{
		Styles:          NewStyles(LightTheme()),
		SnackbarTimeout: time.Minute,
	})
	return m, store
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// next runs a blocking subscription command with a deadline.
func next(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	got := make(chan tea.Msg, 1)
	go func() { got <- cmd() }()
	select {
	case msg := <-got:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the store")
		return nil
	}
}

func update(t *testing.T, m HomeModel, msg tea.Msg) (HomeModel, tea.Cmd) {
	t.Helper()
	model, cmd := m.Update(msg)
	hm, ok := model.(HomeModel)
	require.True(t, ok)
	return hm, cmd
}

// settle feeds state snapshots into m until pred holds.
func settle(t *testing.T, m HomeModel, pred func(home.State) bool) HomeModel {
	t.Helper()
	for !pred(m.state) {
		msg := next(t, waitForState(m.states))
		m, _ = update(t, m, msg)
	}
	return m
}

func loaded(s home.State) bool {
	_, ok := s.Users.(home.UsersSuccess)
	return ok
}

func TestHomeModelIdleView(t *testing.T) {
	m, _ := newTestModel(t, 1)
	assert.Contains(t, m.View(), "Nothing to display yet")
}

func TestHomeModelLoadsUsers(t *testing.T) {
	m, store := newTestModel(t, 1)

	m, _ = update(t, m, runeKey('l'))
	m = settle(t, m, loaded)

	view := m.View()
	assert.Contains(t, view, "Peter")
	assert.Contains(t, view, "#2")
	assert.NotContains(t, view, "Nothing to display yet")
	assert.Equal(t, store.State(), m.state)
}

func TestHomeModelCursorStaysInRange(t *testing.T) {
	m, _ := newTestModel(t, 1)
	m, _ = update(t, m, runeKey('l'))
	m = settle(t, m, loaded)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)

	for range 40 {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, len(users.Catalog())-1, m.cursor)
}

func TestHomeModelDialogRoundTrip(t *testing.T) {
	m, _ := newTestModel(t, 1)
	m, _ = update(t, m, runeKey('l'))
	m = settle(t, m, loaded)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m, _ = update(t, m, next(t, waitForEffect(m.effects)))
	require.NotNil(t, m.dialog)
	assert.Equal(t, users.Catalog()[1], *m.dialog)
	assert.Contains(t, m.View(), "Hello, "+m.dialog.Name)
	assert.Contains(t, m.View(), "CLOSE")

	// Keys other than close are swallowed while the dialog is up.
	m, _ = update(t, m, runeKey('e'))
	require.NotNil(t, m.dialog)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.dialog)

	msg := next(t, waitForEffect(m.effects))
	assert.Equal(t, effectMsg{effect: home.NoEffect{}}, msg)
}

func TestHomeModelSnackbarDismissedByKey(t *testing.T) {
	m, _ := newTestModel(t, 1)

	m, _ = update(t, m, runeKey('e'))
	m, cmd := update(t, m, next(t, waitForEffect(m.effects)))
	require.NotNil(t, cmd)
	assert.True(t, m.snackbar)
	assert.Contains(t, m.View(), "Something went wrong")

	m, _ = update(t, m, runeKey('x'))
	assert.False(t, m.snackbar)
	assert.NotContains(t, m.View(), "Something went wrong")

	msg := next(t, waitForEffect(m.effects))
	assert.Equal(t, effectMsg{effect: home.NoEffect{}}, msg)
}

func TestHomeModelSnackbarExpires(t *testing.T) {
	m, _ := newTestModel(t, 1)

	m, _ = update(t, m, runeKey('e'))
	m, _ = update(t, m, next(t, waitForEffect(m.effects)))
	require.True(t, m.snackbar)

	// A timer from an earlier snackbar must not close this one.
	m, _ = update(t, m, snackbarExpiredMsg{seq: m.snackSeq - 1})
	assert.True(t, m.snackbar)

	m, _ = update(t, m, snackbarExpiredMsg{seq: m.snackSeq})
	assert.False(t, m.snackbar)
	assert.Equal(t, effectMsg{effect: home.NoEffect{}}, next(t, waitForEffect(m.effects)))
}

func TestHomeModelFailedLoadShowsSnackbar(t *testing.T) {
	m, store := newTestModel(t, 0)

	m, _ = update(t, m, runeKey('l'))
	m, _ = update(t, m, next(t, waitForEffect(m.effects)))
	assert.True(t, m.snackbar)
	assert.Equal(t, home.State{Users: home.UsersIdle{}}, store.State())
}

func TestHomeModelQuit(t *testing.T) {
	m, _ := newTestModel(t, 1)
	for _, k := range []tea.KeyMsg{runeKey('q'), {Type: tea.KeyCtrlC}} {
		_, cmd := update(t, m, k)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
	}
}

func TestHomeModelQuitsWhenStoreCloses(t *testing.T) {
	m, store := newTestModel(t, 1)
	require.NoError(t, store.Close())

	msg := next(t, waitForState(m.states))
	// The first read may still deliver the replayed snapshot.
	if _, ok := msg.(stateMsg); ok {
		msg = next(t, waitForState(m.states))
	}
	_, cmd := update(t, m, msg)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestHomeModelHelpToggle(t *testing.T) {
	m, _ := newTestModel(t, 1)
	short := m.View()
	m, _ = update(t, m, runeKey('?'))
	assert.True(t, m.help.ShowAll)
	assert.True(t, strings.Count(m.View(), "\n") >= strings.Count(short, "\n"))
}
