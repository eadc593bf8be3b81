package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"playground/internal/home"
	"playground/internal/users"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// DefaultSnackbarTimeout is used when HomeOptions leaves it unset.
const DefaultSnackbarTimeout = 4 * time.Second

type (
	stateMsg           struct{ state home.State }
	effectMsg          struct{ effect home.Effect }
	storeClosedMsg     struct{}
	snackbarExpiredMsg struct{ seq int }
)

// HomeOptions configures a HomeModel.
type HomeOptions struct {
	Styles          Styles
	SnackbarTimeout time.Duration
	Logger          *zap.Logger
}

// HomeModel is the bubbletea model for the users screen. Everything it
// draws comes from the store's state, except the dialog and the snackbar,
// which it opens when the store emits the matching effect.
type HomeModel struct {
	store   *home.Store
	states  <-chan home.State
	effects <-chan home.Effect
	log     *zap.Logger

	styles  Styles
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	timeout time.Duration

	state    home.State
	cursor   int
	dialog   *users.User
	snackbar bool
	snackSeq int
	width    int
	height   int
	err      error
}

// NewHomeModel subscribes to store for as long as ctx lives.
func NewHomeModel(ctx context.Context, store *home.Store, opts HomeOptions) HomeModel {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.SnackbarTimeout <= 0 {
		opts.SnackbarTimeout = DefaultSnackbarTimeout
	}
	if opts.Styles.Theme.Foreground == "" {
		opts.Styles = DefaultStyles()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = opts.Styles.Spinner

	h := help.New()
	h.Styles.ShortKey = opts.Styles.Bold
	h.Styles.FullKey = opts.Styles.Bold

	return HomeModel{
		store:   store,
		states:  store.States(ctx),
		effects: store.Effects(ctx),
		log:     opts.Logger,
		styles:  opts.Styles,
		keys:    defaultKeyMap(),
		help:    h,
		spinner: sp,
		timeout: opts.SnackbarTimeout,
		state:   store.State(),
	}
}

func waitForState(ch <-chan home.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return storeClosedMsg{}
		}
		return stateMsg{state: s}
	}
}

func waitForEffect(ch <-chan home.Effect) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-ch
		if !ok {
			return storeClosedMsg{}
		}
		return effectMsg{effect: f}
	}
}

// Init implements tea.Model.
func (m HomeModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForState(m.states), waitForEffect(m.effects))
}

// Update implements tea.Model.
func (m HomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case stateMsg:
		m.state = msg.state
		m.clampCursor()
		return m, waitForState(m.states)

	case effectMsg:
		return m.applyEffect(msg.effect)

	case snackbarExpiredMsg:
		if m.snackbar && msg.seq == m.snackSeq {
			m.dismissSnackbar()
		}
		return m, nil

	case storeClosedMsg:
		if err := m.store.Err(); err != nil {
			m.err = err
			m.log.Error("store stopped", zap.Error(err))
		}
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m HomeModel) applyEffect(f home.Effect) (tea.Model, tea.Cmd) {
	next := waitForEffect(m.effects)
	switch f := f.(type) {
	case home.ShowDialog:
		u := f.User
		m.dialog = &u
	case home.ShowErrorMessage:
		m.snackbar = true
		m.snackSeq++
		seq := m.snackSeq
		expire := tea.Tick(m.timeout, func(time.Time) tea.Msg { return snackbarExpiredMsg{seq: seq} })
		return m, tea.Batch(next, expire)
	case home.NoEffect:
		m.dialog = nil
		m.snackbar = false
	}
	return m, next
}

func (m HomeModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.dialog != nil {
		if key.Matches(msg, m.keys.Close) {
			m.dialog = nil
			m.dispatch(home.UserDialogDismissed{})
		}
		return m, nil
	}

	if m.snackbar {
		m.dismissSnackbar()
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Load):
		m.dispatch(home.LoadUsersClicked{})
	case key.Matches(msg, m.keys.Error):
		m.dispatch(home.ShowErrorMessageClicked{})
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if list := m.list(); m.cursor < len(list)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		if list := m.list(); len(list) > 0 {
			m.dispatch(home.UserClicked{User: list[m.cursor]})
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *HomeModel) dismissSnackbar() {
	m.snackbar = false
	m.dispatch(home.SnackbarDismissed{})
}

func (m HomeModel) dispatch(ev home.Event) {
	if err := m.store.Dispatch(ev); err != nil {
		m.log.Warn("dispatch failed", zap.String("event", fmt.Sprintf("%T", ev)), zap.Error(err))
	}
}

func (m HomeModel) list() []users.User {
	if s, ok := m.state.Users.(home.UsersSuccess); ok {
		return s.Users
	}
	return nil
}

func (m *HomeModel) clampCursor() {
	n := len(m.list())
	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// View implements tea.Model.
func (m HomeModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Header.Render("Users"))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Content.Render(m.body()))
	sb.WriteString("\n")

	if m.dialog != nil {
		sb.WriteString(m.renderDialog(*m.dialog))
		sb.WriteString("\n")
	}
	if m.snackbar {
		sb.WriteString(m.styles.Snackbar.Render("Something went wrong"))
		sb.WriteString("\n")
	}
	if m.err != nil {
		sb.WriteString(m.styles.Error.Render("store stopped: " + m.err.Error()))
		sb.WriteString("\n")
	}
	sb.WriteString(m.styles.Footer.Render(m.help.View(m.keys)))
	return sb.String()
}

func (m HomeModel) body() string {
	switch s := m.state.Users.(type) {
	case home.UsersLoading:
		return m.spinner.View() + " " + m.styles.Body.Render("Loading users...")
	case home.UsersSuccess:
		var sb strings.Builder
		for i, u := range s.Users {
			row := fmt.Sprintf("%-12s #%d", u.Name, u.ID)
			if i == m.cursor {
				sb.WriteString(m.styles.Selected.Render("› " + row))
			} else {
				sb.WriteString(m.styles.Body.Render("  " + row))
			}
			if i < len(s.Users)-1 {
				sb.WriteString("\n")
			}
		}
		return sb.String()
	default:
		return m.styles.Muted.Render("Nothing to display yet")
	}
}

func (m HomeModel) renderDialog(u users.User) string {
	box := m.styles.Dialog.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.DialogTitle.Render("Hello, "+u.Name),
		m.styles.Button.Render("[ CLOSE ]"),
	))
	if m.width > 0 {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, box)
	}
	return box
}
