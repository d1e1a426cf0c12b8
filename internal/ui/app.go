package ui

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/config"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/session"
)

// routeOrder is the tab order of the protected views.
var routeOrder = []session.Route{
	session.RouteSeries,
	session.RouteCategories,
	session.RouteEpisodes,
	session.RouteActivity,
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    *catalog.Client
	Gate      *session.Gate
	Config    config.Config
	Prefs     prefs.Prefs
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    *catalog.Client
	gate      *session.Gate
	config    config.Config
	prefs     prefs.Prefs
	prefsPath string
	keys      keyMap

	// UI state
	theme    Theme
	route    session.Route
	intended session.Route
	mount    int
	width    int
	height   int
	ready    bool
	spinner  spinner.Model
	showHelp bool
	modal    Modal
	toast    toast

	// Screens
	login      loginState
	series     seriesState
	categories categoryState
	episodes   episodeState
	activity   activityState
}

// New creates a new Bubble Tea model. The gate starts in Loading, so the
// placeholder renders until Init's restore completes.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	userPrefs := opts.Prefs
	if userPrefs.Theme == "" {
		userPrefs = prefs.Defaults()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	cfg := opts.Config
	if cfg.SeriesPageSize < 1 || cfg.CategoryPageSize < 1 {
		defaults := config.Default()
		cfg.SeriesPageSize = max(cfg.SeriesPageSize, defaults.SeriesPageSize)
		cfg.CategoryPageSize = max(cfg.CategoryPageSize, defaults.CategoryPageSize)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:       ctx,
		client:    opts.Client,
		gate:      opts.Gate,
		config:    cfg,
		prefs:     userPrefs,
		prefsPath: prefsPath,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(userPrefs.Theme),
		route:     session.RoutePlaceholder,
		intended:  session.RouteSeries,
		spinner:   sp,
		login:     newLoginState(),
		series:    newSeriesState(),
		activity:  activityState{level: levelAll},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, restoreCmd(m.ctx, m.gate))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.activity.viewport = viewport.New(msg.Width, m.contentHeight())
		}
		m.ready = true
		m.resizeActivity()
		return m, nil

	case spinner.TickMsg:
		if m.route != session.RoutePlaceholder {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sessionRestoredMsg:
		if msg.err != nil && !session.IsNoSession(msg.err) {
			log.Printf("WARN: session restore: %v", msg.err)
		}
		if m.gate != nil {
			if user, ok := m.gate.CurrentUser(); ok {
				log.Printf("INFO: session restored for %s", user.Label())
			}
		}
		return m, m.navigate(m.intended)

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case seriesLoadedMsg:
		return m.handleSeriesLoaded(msg)

	case seriesCategoriesMsg:
		return m.handleSeriesCategories(msg)

	case categoriesLoadedMsg:
		return m.handleCategoriesLoaded(msg)

	case seriesFetchedMsg:
		return m.handleSeriesFetched(msg)

	case categoryFetchedMsg:
		return m.handleCategoryFetched(msg)

	case episodeSeriesMsg:
		return m.handleEpisodeSeries(msg)

	case formSavedMsg:
		return m.handleFormSaved(msg)

	case deleteDoneMsg:
		return m.handleDeleteDone(msg)

	case activityLoadedMsg:
		return m.handleActivityLoaded(msg)

	case activityTickMsg:
		if m.route != session.RouteActivity || msg.mount != m.mount {
			return m, nil
		}
		return m, tea.Batch(m.loadActivity(), activityTickCmd(m.mount))

	case toastExpiredMsg:
		if msg.id == m.toast.id {
			m.toast.text = ""
		}
		return m, nil
	}

	// Cursor blink and other component messages go to whatever has focus.
	return m.forwardToFocus(msg)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	return m.renderMain()
}

// handleKey processes keyboard input. Modals and text inputs see keys before
// the global bindings so typing never triggers navigation.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		next, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = next
		}
		return m, cmd
	}

	switch m.route {
	case session.RoutePlaceholder:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	case session.RouteLogin:
		return m.handleLoginKey(msg)
	}

	if m.route == session.RouteSeries && m.series.searching {
		return m.handleSeriesSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		m.renderActivity()
		return m, nil

	case key.Matches(msg, m.keys.Logout):
		return m, m.logout("Signed out")

	case key.Matches(msg, m.keys.Tab):
		return m, m.navigate(m.cycleRoute(1))

	case key.Matches(msg, m.keys.ShiftTab):
		return m, m.navigate(m.cycleRoute(-1))

	case key.Matches(msg, m.keys.ViewSeries):
		return m, m.navigate(session.RouteSeries)

	case key.Matches(msg, m.keys.ViewCategories):
		return m, m.navigate(session.RouteCategories)

	case key.Matches(msg, m.keys.ViewEpisodes):
		return m, m.navigate(session.RouteEpisodes)

	case key.Matches(msg, m.keys.ViewActivity):
		return m, m.navigate(session.RouteActivity)
	}

	// View-specific keys
	switch m.route {
	case session.RouteSeries:
		return m.handleSeriesKey(msg)
	case session.RouteCategories:
		return m.handleCategoriesKey(msg)
	case session.RouteEpisodes:
		return m.handleEpisodesKey(msg)
	case session.RouteActivity:
		return m.handleActivityKey(msg)
	}

	return m, nil
}

// forwardToFocus hands non-key messages to the focused text input.
func (m Model) forwardToFocus(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.modal != nil:
		var closed bool
		var next Modal
		next, cmd, closed = m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = next
		}
	case m.route == session.RouteLogin:
		m.login.inputs[m.login.focus], cmd = m.login.inputs[m.login.focus].Update(msg)
	case m.route == session.RouteSeries && m.series.searching:
		m.series.search, cmd = m.series.search.Update(msg)
	}
	return m, cmd
}

// navigate leaves the current view and mounts the view the gate allows for r.
func (m *Model) navigate(r session.Route) tea.Cmd {
	target := r
	if m.gate != nil {
		target = m.gate.Resolve(r)
	}
	if r.Protected() && target == session.RouteLogin {
		m.intended = r
	}

	m.unmount()
	m.mount++
	m.route = target

	switch target {
	case session.RouteLogin:
		return m.mountLogin()
	case session.RouteSeries:
		return m.mountSeries()
	case session.RouteCategories:
		return m.mountCategories()
	case session.RouteEpisodes:
		return m.mountEpisodes()
	case session.RouteActivity:
		return m.mountActivity()
	case session.RoutePlaceholder:
		return m.spinner.Tick
	}
	return nil
}

// unmount detaches the current view's state so late results are dropped.
func (m *Model) unmount() {
	m.modal = nil
	m.series.unmount()
	m.categories.unmount()
	m.episodes.form = nil
}

func (m Model) cycleRoute(step int) session.Route {
	for i, r := range routeOrder {
		if r == m.route {
			return routeOrder[(i+step+len(routeOrder))%len(routeOrder)]
		}
	}
	return routeOrder[0]
}

// logout clears the session and returns to the login view.
func (m *Model) logout(reason string) tea.Cmd {
	if m.gate != nil {
		if err := m.gate.Logout(); err != nil {
			log.Printf("WARN: clear session: %v", err)
		}
	}
	log.Printf("INFO: %s", strings.ToLower(reason))
	m.intended = m.route
	if !m.intended.Protected() {
		m.intended = session.RouteSeries
	}
	return tea.Batch(m.navigate(session.RouteLogin), m.notify(toastInfo, reason))
}

// fail logs err, surfaces it as a toast and signs out on 401.
func (m *Model) fail(action string, err error) tea.Cmd {
	if err == nil {
		return nil
	}
	log.Printf("ERROR: %s: %v", action, err)
	if errors.Is(err, catalog.ErrUnauthorized) {
		return m.logout("Session expired, please sign in again")
	}
	return m.notify(toastError, describeError(action, err))
}

// describeError turns err into a short single-line notification.
func describeError(action string, err error) string {
	var status *catalog.StatusError
	if errors.As(err, &status) {
		if msg := strings.TrimSpace(status.Message); msg != "" {
			return action + ": " + msg
		}
		return action + ": server returned " + strconv.Itoa(status.StatusCode)
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return action + ": API offline"
	case strings.Contains(msg, "no such host"):
		return action + ": API host not found"
	case strings.Contains(msg, "deadline exceeded"), strings.Contains(msg, "timeout"):
		return action + ": request timed out"
	}
	return action + ": " + msg
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		log.Printf("WARN: save prefs: %v", err)
	}
}

// contentHeight is the space left under the header and command bar.
func (m Model) contentHeight() int {
	return max(m.height-3, 1)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	// Header line 1: logo, tabs, user, toast
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// Header line 2: command bar
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	// Main content
	b.WriteString(m.renderContent())

	return b.String()
}

// renderContent renders the main content area based on current route.
func (m Model) renderContent() string {
	switch m.route {
	case session.RouteLogin:
		return m.renderLogin()
	case session.RouteSeries:
		return m.renderSeries()
	case session.RouteCategories:
		return m.renderCategories()
	case session.RouteEpisodes:
		return m.renderEpisodes()
	case session.RouteActivity:
		return m.renderActivityView()
	default:
		return m.renderPlaceholder()
	}
}

// renderPlaceholder is shown while the session is being restored.
func (m Model) renderPlaceholder() string {
	styles := m.theme.Styles()
	msg := m.spinner.View() + " " + styles.MutedText.Render("Restoring session...")
	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, msg)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
