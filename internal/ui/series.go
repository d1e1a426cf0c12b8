package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/config"
	"github.com/five82/marquee/internal/form"
	"github.com/five82/marquee/internal/paging"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/session"
	"github.com/five82/marquee/internal/state"
)

// seriesState holds the series view. list is nil while another view is shown.
type seriesState struct {
	list       *seriesList
	cursor     *atomic.Int64 // page the server-paged fetch asks for
	pager      paging.Pager
	rows       []catalog.Series
	matched    int
	selected   int
	search     textinput.Model
	searching  bool
	query      string
	categories []catalog.Category
	form       *form.Controller[catalog.Series, catalog.SeriesInput]
}

func newSeriesState() seriesState {
	search := textinput.New()
	search.Placeholder = "name contains..."
	search.CharLimit = 100
	search.Width = 30
	search.Prompt = "/"

	return seriesState{
		search: search,
		form: form.NewController[catalog.Series, catalog.SeriesInput](defaultSeriesInput, func(s catalog.Series) (int64, catalog.SeriesInput) {
			return s.ID, s.Input()
		}),
	}
}

func defaultSeriesInput() catalog.SeriesInput {
	return catalog.SeriesInput{Year: time.Now().Year()}
}

func seriesID(s catalog.Series) int64 { return s.ID }

func (s *seriesState) unmount() {
	if s.list != nil {
		s.list.Close()
	}
	s.list = nil
	s.rows = nil
	s.searching = false
	s.search.Blur()
	s.form.Cancel()
}

// mountSeries builds a fresh list for the configured paging mode and loads it
// together with the category names used for display and the form picker.
func (m *Model) mountSeries() tea.Cmd {
	if m.client == nil {
		return nil
	}
	s := &m.series
	size := m.config.SeriesPageSize
	s.pager = paging.New(size)
	s.cursor = new(atomic.Int64)
	s.cursor.Store(1)
	s.selected = 0

	resource := m.client.Series()
	if m.config.SeriesPaging == config.PagingServer {
		cursor := s.cursor
		fetch := func(ctx context.Context) ([]catalog.Series, int, error) {
			page, err := resource.Page(ctx, int(cursor.Load()), size)
			if err != nil {
				return nil, 0, err
			}
			return page.Content, page.TotalElements, nil
		}
		s.list = state.NewList[catalog.Series, catalog.SeriesInput](fetch, resource, seriesID, state.WithResync())
	} else {
		s.list = state.NewList[catalog.Series, catalog.SeriesInput](state.FetchAll(resource.List), resource, seriesID)
	}

	return tea.Batch(
		refreshSeriesCmd(m.ctx, s.list),
		m.loadSeriesCategories(),
	)
}

func (m *Model) loadSeriesCategories() tea.Cmd {
	ctx, categories, mount := m.ctx, m.client.Categories(), m.mount
	return func() tea.Msg {
		items, err := categories.List(ctx)
		return seriesCategoriesMsg{mount: mount, items: items, err: err}
	}
}

func (m Model) handleSeriesLoaded(msg seriesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.list == nil || msg.list != m.series.list {
		return m, nil
	}
	cmd := m.syncSeries()
	if msg.err != nil && !errors.Is(msg.err, state.ErrClosed) {
		return m, tea.Batch(cmd, m.fail("load series", msg.err))
	}
	return m, cmd
}

func (m Model) handleSeriesCategories(msg seriesCategoriesMsg) (tea.Model, tea.Cmd) {
	if msg.mount != m.mount || m.route != session.RouteSeries {
		return m, nil
	}
	if msg.err != nil {
		return m, m.fail("load categories", msg.err)
	}
	m.series.categories = msg.items
	return m, nil
}

// syncSeries recomputes the visible rows from the list snapshot: server order
// or a stable newest-first copy, then the name filter, then the current page.
// Under server paging a reclamped page is fetched again.
func (m *Model) syncSeries() tea.Cmd {
	s := &m.series
	if s.list == nil {
		return nil
	}
	snap := s.list.Snapshot()

	items := snap.Items
	if m.prefs.SeriesOrder == prefs.OrderYearDesc {
		items = state.Sorted(items, catalog.CompareYearDesc)
	}
	filtered := filterSeries(items, s.query)
	s.matched = len(filtered)

	var cmd tea.Cmd
	if m.config.SeriesPaging == config.PagingServer {
		if s.pager.SetTotal(snap.Total) && snap.Loaded {
			cmd = m.fetchSeriesPage()
		}
		s.rows = filtered
	} else {
		s.pager.SetTotal(len(filtered))
		s.rows = paging.Slice(s.pager, filtered)
	}
	s.selected = clampSelection(s.selected, len(s.rows))
	return cmd
}

// fetchSeriesPage points the server-paged fetch at the pager's page.
func (m *Model) fetchSeriesPage() tea.Cmd {
	s := &m.series
	if s.list == nil || s.cursor == nil {
		return nil
	}
	s.cursor.Store(int64(s.pager.Page()))
	return refreshSeriesCmd(m.ctx, s.list)
}

// filterSeries keeps the series whose name contains query, ignoring case.
func filterSeries(items []catalog.Series, query string) []catalog.Series {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}
	out := make([]catalog.Series, 0, len(items))
	for _, s := range items {
		if strings.Contains(strings.ToLower(s.Name), query) {
			out = append(out, s)
		}
	}
	return out
}

func (m Model) selectedSeries() (catalog.Series, bool) {
	if len(m.series.rows) == 0 {
		return catalog.Series{}, false
	}
	return m.series.rows[clampSelection(m.series.selected, len(m.series.rows))], true
}

// handleSeriesKey processes keyboard input for the series view.
func (m Model) handleSeriesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.series
	if s.list == nil {
		return m, nil
	}
	if sel, ok := m.moveSelection(msg, s.selected, len(s.rows)); ok {
		s.selected = sel
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.NextPage):
		if s.pager.Next() {
			s.selected = 0
			return m, m.pageSeries()
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		if s.pager.Previous() {
			s.selected = 0
			return m, m.pageSeries()
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		return m, m.openSeriesForm(nil)

	case key.Matches(msg, m.keys.Edit):
		if row, ok := m.selectedSeries(); ok {
			return m, m.fetchSeriesForEdit(row.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if row, ok := m.selectedSeries(); ok {
			m.openDelete(SeriesTarget(row))
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, tea.Batch(refreshSeriesCmd(m.ctx, s.list), m.loadSeriesCategories())

	case key.Matches(msg, m.keys.Search):
		s.searching = true
		s.search.SetValue(s.query)
		s.search.CursorEnd()
		s.search.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.ToggleOrder):
		m.prefs.SeriesOrder = m.prefs.SeriesOrder.Toggle()
		m.savePrefs()
		return m, m.syncSeries()

	case key.Matches(msg, m.keys.Escape):
		if s.query != "" {
			s.query = ""
			s.pager.Jump(1)
			return m, m.syncSeries()
		}
	}
	return m, nil
}

// pageSeries shows the pager's page: a new slice locally, or a fetch when
// the server pages.
func (m *Model) pageSeries() tea.Cmd {
	if m.config.SeriesPaging == config.PagingServer {
		return m.fetchSeriesPage()
	}
	return m.syncSeries()
}

// handleSeriesSearchInput filters as the user types. Enter keeps the filter,
// Esc drops it.
func (m Model) handleSeriesSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.series
	switch {
	case key.Matches(msg, m.keys.Confirm):
		s.searching = false
		s.search.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		s.searching = false
		s.search.Blur()
		s.search.SetValue("")
		s.query = ""
		s.pager.Jump(1)
		return m, m.syncSeries()
	}

	var cmd tea.Cmd
	s.search, cmd = s.search.Update(msg)
	if q := strings.TrimSpace(s.search.Value()); q != s.query {
		s.query = q
		s.pager.Jump(1)
		s.selected = 0
		return m, tea.Batch(cmd, m.syncSeries())
	}
	return m, cmd
}

// fetchSeriesForEdit loads the current server copy of a series before the
// edit dialog opens.
func (m *Model) fetchSeriesForEdit(id int64) tea.Cmd {
	ctx, resource, list := m.ctx, m.client.Series(), m.series.list
	return func() tea.Msg {
		item, err := resource.Get(ctx, id)
		return seriesFetchedMsg{list: list, id: id, item: item, err: err}
	}
}

func (m Model) handleSeriesFetched(msg seriesFetchedMsg) (tea.Model, tea.Cmd) {
	if msg.list == nil || msg.list != m.series.list || m.modal != nil {
		return m, nil
	}
	switch {
	case errors.Is(msg.err, catalog.ErrNotFound):
		msg.list.Forget(msg.id)
		cmd := m.syncSeries()
		return m, tea.Batch(cmd, m.notify(toastError, "Series no longer exists"))
	case msg.err != nil:
		return m, m.fail("load series", msg.err)
	}
	return m, m.openSeriesForm(&msg.item)
}

// openSeriesForm opens the dialog in Creating mode, or Editing when row is set.
func (m *Model) openSeriesForm(row *catalog.Series) tea.Cmd {
	s := &m.series
	if row == nil {
		s.form.OpenCreate()
	} else {
		s.form.OpenEdit(*row)
	}
	m.modal = newFormModal[catalog.Series, catalog.SeriesInput](m.ctx, "Series", s.form, s.list, seriesFields(s.categories))
	return textinput.Blink
}

func seriesFields(categories []catalog.Category) []field[catalog.SeriesInput] {
	choices := make([]choice, 0, len(categories))
	for _, c := range categories {
		choices = append(choices, choice{id: c.ID, label: c.Name})
	}
	return []field[catalog.SeriesInput]{
		{
			name: "name", label: "Name", placeholder: "Ultraman Blazar", limit: 100,
			get: func(in catalog.SeriesInput) string { return in.Name },
			set: func(in catalog.SeriesInput, v string) catalog.SeriesInput { in.Name = v; return in },
		},
		{
			name: "year", label: "Year", placeholder: "2023", limit: 4,
			get: func(in catalog.SeriesInput) string { return formatInt(in.Year) },
			set: func(in catalog.SeriesInput, v string) catalog.SeriesInput { in.Year = parseInt(v); return in },
		},
		{
			name: "image", label: "Image URL", placeholder: "https://", limit: 1000,
			get: func(in catalog.SeriesInput) string { return in.Image },
			set: func(in catalog.SeriesInput, v string) catalog.SeriesInput { in.Image = v; return in },
		},
		{
			name: "bigImage", label: "Banner URL", placeholder: "https://", limit: 1000,
			get: func(in catalog.SeriesInput) string { return in.BigImage },
			set: func(in catalog.SeriesInput, v string) catalog.SeriesInput { in.BigImage = v; return in },
		},
		{
			name: "opening_video", label: "Opening video", placeholder: "https://", limit: 1000,
			get: func(in catalog.SeriesInput) string { return in.OpeningVideo },
			set: func(in catalog.SeriesInput, v string) catalog.SeriesInput { in.OpeningVideo = v; return in },
		},
		{
			name: "plot", label: "Plot", placeholder: "What is it about?", limit: 1000,
			get: func(in catalog.SeriesInput) string { return in.Plot },
			set: func(in catalog.SeriesInput, v string) catalog.SeriesInput { in.Plot = v; return in },
		},
		{
			name: "categoryId", label: "Category", choices: choices,
			get: func(in catalog.SeriesInput) string { return formatID(in.CategoryID) },
			set: func(in catalog.SeriesInput, v string) catalog.SeriesInput { in.CategoryID = parseID(v); return in },
		},
	}
}

func (m Model) categoryName(id int64) string {
	for _, c := range m.series.categories {
		if c.ID == id {
			return c.Name
		}
	}
	if id == 0 {
		return ""
	}
	return "#" + strconv.FormatInt(id, 10)
}

// renderSeries renders the series table and its status line.
func (m Model) renderSeries() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Background)
	s := m.series
	height := m.contentHeight()

	var snap state.Snapshot[catalog.Series]
	if s.list != nil {
		snap = s.list.Snapshot()
	}

	title := fmt.Sprintf("Series (%d)", ternaryInt(m.config.SeriesPaging == config.PagingServer, snap.Total, s.matched))
	var content string
	switch {
	case !snap.Loaded && snap.LastError == nil:
		content = styles.MutedText.Render("Loading series...")
	case len(s.rows) == 0 && s.query != "":
		content = styles.MutedText.Render(fmt.Sprintf("No series match %q. Esc clears the search.", s.query))
	case len(s.rows) == 0 && snap.Loaded:
		content = styles.MutedText.Render("No series yet. Press n to add one.")
	case len(s.rows) == 0:
		content = styles.DangerText.Render("Could not load series. Press r to retry.")
	default:
		cols := []column{{"ID", 5}, {"Name", 0}, {"Year", 5}, {"Category", 16}}
		if m.width >= LayoutWideWidth {
			cols = append(cols, column{"Plot", 48})
		}
		rows := make([][]string, len(s.rows))
		for i, row := range s.rows {
			rows[i] = []string{
				strconv.FormatInt(row.ID, 10),
				row.Name,
				strconv.Itoa(row.Year),
				m.categoryName(row.CategoryID),
				row.Plot,
			}
		}
		content = m.renderTable(cols, rows, s.selected, m.width-4)
	}

	box := m.renderBox(title, content, m.width, height-1)

	parts := []string{
		bg.Render(fmt.Sprintf("Page %d/%d", s.pager.Page(), s.pager.LastPage()), styles.AccentText),
		bg.Render(ternary(m.prefs.SeriesOrder == prefs.OrderYearDesc, "newest first", "server order"), styles.MutedText),
	}
	if m.config.SeriesPaging == config.PagingServer {
		parts = append(parts, bg.Render("server paging", styles.FaintText))
	}
	if s.searching {
		parts = append(parts, s.search.View())
	} else if s.query != "" {
		parts = append(parts, bg.Render("filter: "+s.query, styles.WarningText))
	}
	parts = append(parts, m.renderSyncStatus(snap.Loading, snap.LastUpdated, snap.LastError, snap.IsOffline(), styles, bg))

	return box + "\n" + bg.Divide(parts, "•", styles.FaintText)
}

// renderSyncStatus describes the freshness of a list for the status line.
func (m Model) renderSyncStatus(loading bool, updated time.Time, lastErr error, offline bool, styles Styles, bg BgStyle) string {
	switch {
	case loading:
		return bg.Render("refreshing", styles.InfoText)
	case offline:
		return bg.Render("OFFLINE", styles.DangerText)
	case lastErr != nil:
		return bg.Render("last refresh failed", styles.DangerText)
	case !updated.IsZero():
		return bg.Render("updated "+updated.Format("15:04:05"), styles.FaintText)
	}
	return ""
}

func ternaryInt(cond bool, a, b int) int {
	if cond {
		return a
	}
	return b
}
