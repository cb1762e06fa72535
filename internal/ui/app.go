// Package ui renders the feed as a full-screen Bubble Tea program and
// translates terminal input into gesture intents for the controller.
package ui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/alshorts/shorts/internal/api"
	"github.com/alshorts/shorts/internal/config"
	"github.com/alshorts/shorts/internal/controller"
	"github.com/alshorts/shorts/internal/feed"
	"github.com/alshorts/shorts/internal/gesture"
	"github.com/alshorts/shorts/internal/logging"
	"github.com/alshorts/shorts/internal/session"
)

type mode int

const (
	modeFeed mode = iota
	modeProfile
	modeAuth
)

const (
	// Mouse positions arrive in cell rows, not pixels, so the swipe
	// threshold is a handful of rows rather than the touch default.
	dragThresholdRows = 3.0

	heartDuration = 600 * time.Millisecond
	frameInterval = time.Second / 60
	requestWait   = 15 * time.Second
)

// Model is the root Bubble Tea model.
type Model struct {
	ctrl   *controller.Controller
	client *api.Client
	sess   *session.Store
	cfg    *config.Config

	keys  keyMap
	theme Theme
	nav   *gesture.Navigator

	spinner spinner.Model
	spring  harmonica.Spring
	pos     float64
	vel     float64
	animate bool

	width  int
	height int

	mode      mode
	form      authForm
	dragging  bool
	showHeart bool
	notice    string
}

// New assembles the root model. The theme preference persisted in the
// session store wins over the config default.
func New(ctrl *controller.Controller, client *api.Client, sess *session.Store, cfg *config.Config) Model {
	themeName := cfg.Theme
	if t := sess.Theme(); t != "" {
		themeName = t
	}
	theme := themeByName(themeName)

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(theme.Meta),
	)

	return Model{
		ctrl:    ctrl,
		client:  client,
		sess:    sess,
		cfg:     cfg,
		keys:    defaultKeyMap(),
		theme:   theme,
		nav:     gesture.NewWith(dragThresholdRows, gesture.DefaultDoubleTapWindow),
		spinner: sp,
		spring:  harmonica.NewSpring(harmonica.FPS(60), 6.0, 0.8),
	}
}

// Init kicks off the first page load and, for a restored session, the
// bookmark refresh.
func (m Model) Init() tea.Cmd {
	effects := m.ctrl.Start(m.cfg.StartLanguage())
	effects = append(effects, m.ctrl.RefreshBookmarks()...)
	return tea.Batch(m.spinner.Tick, runEffects(m.client, effects))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case feedLoadedMsg:
		m.ctrl.CommitFeed(msg.req, msg.items, msg.err)
		if msg.err != nil {
			logging.Error("feed load failed", "page", msg.req.Page, "err", msg.err)
			m.notice = "couldn't load stories - [r] to retry"
		} else {
			m.notice = ""
		}
		return m, runEffects(m.client, m.ctrl.Drain())

	case bookmarksMsg:
		m.ctrl.CommitBookmarks(msg.ids, msg.err)
		if msg.err != nil {
			logging.Warn("bookmark refresh failed", "err", msg.err)
		}
		return m, runEffects(m.client, m.ctrl.Drain())

	case toggleDoneMsg:
		effects := m.ctrl.CommitToggle(msg.id, msg.err)
		if msg.err != nil {
			logging.Warn("bookmark toggle failed", "id", msg.id, "err", msg.err)
			m.notice = "bookmark not saved"
		}
		effects = append(effects, m.ctrl.Drain()...)
		return m, runEffects(m.client, effects)

	case authDoneMsg:
		return m.handleAuthDone(msg)

	case heartDoneMsg:
		m.showHeart = false
		return m, nil

	case animTickMsg:
		return m.stepSpring()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.mode == modeAuth {
		return m, m.form.update(msg)
	}
	return m, nil
}

// handleKey dispatches keys for the current mode.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeAuth:
		return m.handleAuthKey(msg)
	case modeProfile:
		return m.handleProfileKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		return m.applyIntent(gesture.Next)
	case key.Matches(msg, m.keys.Prev):
		return m.applyIntent(gesture.Prev)
	case key.Matches(msg, m.keys.Bookmark):
		// Keyboard shortcut for the double-tap action.
		return m.applyIntent(gesture.DoubleTap)
	case key.Matches(msg, m.keys.Language):
		effects := m.ctrl.ToggleLanguage()
		m.pos, m.vel, m.animate = 0, 0, false
		m.notice = ""
		return m, runEffects(m.client, effects)
	case key.Matches(msg, m.keys.Theme):
		return m.toggleTheme()
	case key.Matches(msg, m.keys.Profile):
		m.mode = modeProfile
		return m, nil
	case key.Matches(msg, m.keys.Retry):
		m.notice = ""
		return m, runEffects(m.client, m.ctrl.Prefetch())
	}
	return m, nil
}

// handleMouse feeds pointer input through the gesture navigator.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeFeed {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelDown:
		return m.applyIntent(gesture.Next)
	case tea.MouseButtonWheelUp:
		return m.applyIntent(gesture.Prev)
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.nav.TouchStart(float64(msg.Y))
			m.dragging = true
		}
	case tea.MouseActionMotion:
		if m.dragging {
			m.nav.TouchMove(float64(msg.Y))
		}
	case tea.MouseActionRelease:
		if !m.dragging {
			return m, nil
		}
		m.dragging = false
		intent := m.nav.TouchEnd()
		if intent == gesture.None {
			if item, ok := m.ctrl.CurrentItem(); ok {
				intent = m.nav.Tap(item.ID, time.Now())
			}
		}
		return m.applyIntent(intent)
	}
	return m, nil
}

// applyIntent runs one gesture intent through the controller and turns
// the resulting effects into commands. A toggle also triggers the heart
// overlay; an index change kicks the transition spring.
func (m Model) applyIntent(in gesture.Intent) (tea.Model, tea.Cmd) {
	before := m.ctrl.ActiveIndex()
	effects := m.ctrl.HandleIntent(in)

	var cmds []tea.Cmd
	for _, e := range effects {
		switch e.(type) {
		case controller.ToggleBookmark:
			m.showHeart = true
			cmds = append(cmds, tea.Tick(heartDuration, func(time.Time) tea.Msg {
				return heartDoneMsg{}
			}))
		case controller.AuthRequired:
			m.mode = modeProfile
		}
	}
	cmds = append(cmds, runEffects(m.client, effects))

	if m.ctrl.ActiveIndex() != before && !m.animate {
		m.animate = true
		cmds = append(cmds, animTick())
	}
	return m, tea.Batch(cmds...)
}

// stepSpring advances the page-transition animation one frame.
func (m Model) stepSpring() (tea.Model, tea.Cmd) {
	target := float64(m.ctrl.ActiveIndex())
	m.pos, m.vel = m.spring.Update(m.pos, m.vel, target)

	if math.Abs(m.pos-target) < 0.005 && math.Abs(m.vel) < 0.005 {
		m.pos, m.vel, m.animate = target, 0, false
		return m, nil
	}
	return m, animTick()
}

func animTick() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return animTickMsg{}
	})
}

// toggleTheme flips and persists the theme preference.
func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	next := "light"
	if m.theme.Name == "light" {
		next = "dark"
	}
	m.theme = themeByName(next)
	if err := m.sess.SetTheme(next); err != nil {
		logging.Warn("persist theme failed", "err", err)
	}
	return m, nil
}

// handleProfileKey handles the profile modal: account info when logged
// in, the auth entry points when not.
func (m Model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Profile):
		m.mode = modeFeed
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}

	if m.ctrl.Authenticated() {
		if msg.String() == "o" {
			m.sess.Logout()
			m.mode = modeFeed
			m.notice = "logged out"
			return m, runEffects(m.client, m.ctrl.Drain())
		}
		return m, nil
	}

	switch msg.String() {
	case "l":
		m.mode = modeAuth
		m.form = newAuthForm(false)
	case "s":
		m.mode = modeAuth
		m.form = newAuthForm(true)
	}
	return m, nil
}

// handleAuthKey handles the login/signup form.
func (m Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form.busy {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.mode = modeProfile
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "down":
		m.form.cycleFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.form.cycleFocus(-1)
		return m, nil
	case "enter":
		return m.submitAuth()
	}
	return m, m.form.update(msg)
}

// submitAuth validates locally and fires the auth request. Validation
// failures never reach the network.
func (m Model) submitAuth() (tea.Model, tea.Cmd) {
	if msg := m.form.validate(); msg != "" {
		m.form.errMsg = msg
		return m, nil
	}
	m.form.errMsg = ""
	m.form.busy = true

	name, email, password := m.form.values()
	signup := m.form.signup
	client := m.client
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestWait)
		defer cancel()

		var creds api.Credentials
		var err error
		if signup {
			creds, err = client.Signup(ctx, name, email, password)
		} else {
			creds, err = client.Login(ctx, email, password)
		}
		return authDoneMsg{creds: creds, err: err}
	}
}

// handleAuthDone settles a login/signup round trip.
func (m Model) handleAuthDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	m.form.busy = false
	if msg.err != nil {
		logging.Warn("auth failed", "signup", m.form.signup, "err", msg.err)
		m.form.errMsg = humanError(msg.err)
		return m, nil
	}

	err := m.sess.Login(session.Session{
		Token: msg.creds.Token,
		User: session.User{
			ID:    msg.creds.User.ID,
			Name:  msg.creds.User.Name,
			Email: msg.creds.User.Email,
		},
	})
	if err != nil {
		logging.Error("persist session failed", "err", err)
		m.form.errMsg = "couldn't save session"
		return m, nil
	}

	m.mode = modeFeed
	m.notice = "welcome, " + msg.creds.User.Name
	return m, runEffects(m.client, m.ctrl.Drain())
}

// humanError maps taxonomy errors onto short form messages.
func humanError(err error) string {
	switch {
	case errors.Is(err, api.ErrValidation):
		return strings.TrimPrefix(err.Error(), api.ErrValidation.Error()+": ")
	case errors.Is(err, api.ErrAuth):
		return "invalid credentials"
	case errors.Is(err, api.ErrNetwork):
		return "network error - is the backend running?"
	default:
		return "something went wrong, try again"
	}
}

// runEffects converts controller effects into Bubble Tea commands. The
// AuthRequired effect is handled synchronously in applyIntent; here it
// is a no-op.
func runEffects(client *api.Client, effects []controller.Effect) tea.Cmd {
	if len(effects) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(effects))
	for _, e := range effects {
		switch e := e.(type) {
		case controller.LoadPage:
			req, limit := e.Req, e.Limit
			cmds = append(cmds, func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), requestWait)
				defer cancel()
				items, err := client.FetchFeed(ctx, req.Page, req.Language, limit)
				return feedLoadedMsg{req: req, items: items, err: err}
			})
		case controller.FetchBookmarks:
			cmds = append(cmds, func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), requestWait)
				defer cancel()
				ids, err := client.Bookmarks(ctx)
				return bookmarksMsg{ids: ids, err: err}
			})
		case controller.ToggleBookmark:
			id := e.ID
			cmds = append(cmds, func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), requestWait)
				defer cancel()
				return toggleDoneMsg{id: id, err: client.ToggleBookmark(ctx, id)}
			})
		}
	}
	return tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	switch m.mode {
	case modeAuth:
		return m.form.view(m.theme, m.width, m.height)
	case modeProfile:
		return m.profileView()
	}
	return m.feedView()
}

// feedView renders header, the active card, and the status bar.
func (m Model) feedView() string {
	header := m.headerView()
	status := m.statusView()

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(status)
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	var body string
	if m.ctrl.Len() == 0 {
		body = m.emptyView(bodyHeight)
	} else {
		body = m.cardView(bodyHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

// headerView is the top bar: app name, language, bookmark count, user.
func (m Model) headerView() string {
	lang := "हिंदी"
	if m.ctrl.Language() == feed.LangEnglish {
		lang = "English"
	}

	who := "guest"
	if sess, ok := m.sess.Current(); ok {
		who = sess.User.Name
	}

	left := " shorts "
	right := fmt.Sprintf(" %s  ★ %d  %s ",
		m.theme.Pill.Render(lang), m.ctrl.BookmarkCount(), who)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return m.theme.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// cardView renders the story nearest the spring position, nudged by the
// fractional offset so page changes read as a vertical slide.
func (m Model) cardView(height int) string {
	idx := int(math.Round(m.pos))
	if idx < 0 {
		idx = 0
	}
	if max := m.ctrl.Len() - 1; idx > max {
		idx = max
	}
	item := m.ctrl.Items()[idx]

	lang := m.ctrl.Language()
	cardWidth := m.width - 6
	if cardWidth > 72 {
		cardWidth = 72
	}
	if cardWidth < 20 {
		cardWidth = 20
	}
	inner := cardWidth - 4

	var b strings.Builder

	imageRows := height * 2 / 5
	if imageRows < 2 {
		imageRows = 2
	}
	if imageRows > 8 {
		imageRows = 8
	}
	imageRow := strings.Repeat("▒", inner)
	for i := 0; i < imageRows; i++ {
		b.WriteString(m.theme.Image.Render(imageRow))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.theme.Title.Width(inner).Render(item.Title(lang)))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Summary.Width(inner).Render(item.Summary(lang)))
	b.WriteString("\n\n")

	meta := item.Age(time.Now())
	if m.ctrl.Bookmarked(item.ID) {
		meta += "  " + m.theme.Bookmark.Render("★ saved")
	}
	if m.ctrl.ToggleBusy(item.ID) {
		meta += "  " + m.spinner.View()
	}
	b.WriteString(m.theme.Meta.Render(meta))

	card := m.theme.Card.Width(cardWidth).Render(b.String())

	if m.showHeart {
		heart := m.theme.Heart.Render("♥")
		card = overlayCenter(card, heart)
	}

	// Fractional spring offset becomes a small vertical nudge.
	offset := int(math.Round((m.pos - float64(idx)) * 2))
	pad := ""
	if offset < 0 {
		pad = strings.Repeat("\n", -offset)
	}

	indicator := m.theme.Meta.Render(fmt.Sprintf("%d / %d", m.ctrl.ActiveIndex()+1, m.ctrl.Len()))
	content := lipgloss.JoinVertical(lipgloss.Center, pad+card, "", indicator)
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, content)
}

// overlayCenter drops a short string onto the middle line of a block.
func overlayCenter(block, over string) string {
	lines := strings.Split(block, "\n")
	mid := len(lines) / 2
	if mid >= len(lines) {
		return block
	}
	width := lipgloss.Width(lines[mid])
	left := (width - lipgloss.Width(over)) / 2
	if left < 0 {
		left = 0
	}
	lines[mid] = strings.Repeat(" ", left) + over
	return strings.Join(lines, "\n")
}

// emptyView covers the before-first-page and empty-feed states.
func (m Model) emptyView(height int) string {
	var msg string
	switch {
	case m.ctrl.IsLoading():
		msg = m.spinner.View() + " loading stories..."
	case m.notice != "":
		msg = m.theme.Notice.Render(m.notice)
	default:
		msg = m.theme.Meta.Render("no stories yet - [r] to refresh")
	}
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, msg)
}

// statusView is the bottom bar: hints, transient notices, load state.
func (m Model) statusView() string {
	hints := "[j/k] navigate  [b] bookmark  [l] language  [p] profile  [q] quit"

	extra := ""
	switch {
	case m.notice != "" && m.ctrl.Len() > 0:
		extra = "  " + m.theme.Notice.Render(m.notice)
	case m.ctrl.IsLoading():
		extra = "  " + m.spinner.View()
	case m.ctrl.IsExhausted() && m.ctrl.Len() > 0 && m.ctrl.ActiveIndex() == m.ctrl.Len()-1:
		extra = "  · end of feed ·"
	}

	return m.theme.Status.Width(m.width).Render(" " + hints + extra)
}

// profileView is the account modal.
func (m Model) profileView() string {
	var b strings.Builder
	if sess, ok := m.sess.Current(); ok {
		b.WriteString(m.theme.Title.Render(sess.User.Name))
		b.WriteString("\n")
		b.WriteString(m.theme.Meta.Render(sess.User.Email))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("★ %d bookmarks\n", m.ctrl.BookmarkCount()))
		b.WriteString("\n" + m.theme.Meta.Render("[o] logout  [esc] back"))
	} else {
		b.WriteString(m.theme.Title.Render("Welcome"))
		b.WriteString("\n\n")
		b.WriteString("Log in to save bookmarks.\n")
		b.WriteString("\n" + m.theme.Meta.Render("[l] login  [s] sign up  [esc] back"))
	}

	modal := m.theme.Modal.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}
