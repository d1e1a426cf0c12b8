package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/form"
	"github.com/five82/marquee/internal/session"
)

// errEpisodeReadOnly is returned for edits; the API only accepts new episodes.
var errEpisodeReadOnly = errors.New("episodes cannot be edited")

// episodeTarget adapts the create-only episode endpoint to form.Target.
type episodeTarget struct {
	resource catalog.EpisodeResource
}

func (t episodeTarget) Create(ctx context.Context, in catalog.EpisodeInput) (catalog.Episode, error) {
	return t.resource.Create(ctx, in)
}

func (t episodeTarget) Update(context.Context, int64, catalog.EpisodeInput) (catalog.Episode, error) {
	return catalog.Episode{}, errEpisodeReadOnly
}

// Refresh is a no-op: there is no episode listing to reload.
func (t episodeTarget) Refresh(context.Context) error { return nil }

// episodeState holds the episode view: the series picker, newest first, and
// the episodes added during this session.
type episodeState struct {
	series   []catalog.Series
	loaded   bool
	err      error
	selected int
	recent   []catalog.Episode
	form     *form.Controller[catalog.Episode, catalog.EpisodeInput]
}

func (m *Model) mountEpisodes() tea.Cmd {
	if m.client == nil {
		return nil
	}
	e := &m.episodes
	e.loaded = false
	e.err = nil
	e.selected = 0

	ctx, resource, mount := m.ctx, m.client.Series(), m.mount
	return func() tea.Msg {
		items, err := resource.ListByYear(ctx)
		return episodeSeriesMsg{mount: mount, items: items, err: err}
	}
}

func (m Model) handleEpisodeSeries(msg episodeSeriesMsg) (tea.Model, tea.Cmd) {
	if msg.mount != m.mount || m.route != session.RouteEpisodes {
		return m, nil
	}
	m.episodes.err = msg.err
	if msg.err != nil {
		return m, m.fail("load series", msg.err)
	}
	m.episodes.series = msg.items
	m.episodes.loaded = true
	m.episodes.selected = clampSelection(m.episodes.selected, len(msg.items))
	return m, nil
}

// handleEpisodesKey processes keyboard input for the episodes view.
func (m Model) handleEpisodesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := &m.episodes
	if sel, ok := m.moveSelection(msg, e.selected, len(e.series)); ok {
		e.selected = sel
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.New), key.Matches(msg, m.keys.Edit):
		return m, m.openEpisodeForm()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.mountEpisodes()
	}
	return m, nil
}

// openEpisodeForm opens a create dialog with the highlighted series preselected.
func (m *Model) openEpisodeForm() tea.Cmd {
	if m.client == nil {
		return nil
	}
	e := &m.episodes
	if e.form == nil {
		e.form = form.NewController[catalog.Episode, catalog.EpisodeInput](
			func() catalog.EpisodeInput { return catalog.EpisodeInput{} },
			func(ep catalog.Episode) (int64, catalog.EpisodeInput) { return ep.ID, ep.Input() },
		)
	}
	e.form.OpenCreate()
	if len(e.series) > 0 {
		in := e.form.Input()
		in.SerieID = e.series[clampSelection(e.selected, len(e.series))].ID
		e.form.SetInput(in)
	}
	target := episodeTarget{resource: m.client.Episodes()}
	m.modal = newFormModal[catalog.Episode, catalog.EpisodeInput](m.ctx, "Episode", e.form, target, episodeFields(e.series))
	return textinput.Blink
}

func episodeFields(series []catalog.Series) []field[catalog.EpisodeInput] {
	choices := make([]choice, 0, len(series))
	for _, s := range series {
		choices = append(choices, choice{id: s.ID, label: fmt.Sprintf("%s (%d)", s.Name, s.Year)})
	}
	return []field[catalog.EpisodeInput]{
		{
			name: "serieId", label: "Series", choices: choices,
			get: func(in catalog.EpisodeInput) string { return formatID(in.SerieID) },
			set: func(in catalog.EpisodeInput, v string) catalog.EpisodeInput { in.SerieID = parseID(v); return in },
		},
		{
			name: "name", label: "Name", placeholder: "Episode 1", limit: 200,
			get: func(in catalog.EpisodeInput) string { return in.Name },
			set: func(in catalog.EpisodeInput, v string) catalog.EpisodeInput { in.Name = v; return in },
		},
		{
			name: "duration", label: "Duration", placeholder: "24:00", limit: 20,
			get: func(in catalog.EpisodeInput) string { return in.Duration },
			set: func(in catalog.EpisodeInput, v string) catalog.EpisodeInput { in.Duration = v; return in },
		},
		{
			name: "link", label: "Link", placeholder: "https://", limit: 1000,
			get: func(in catalog.EpisodeInput) string { return in.Link },
			set: func(in catalog.EpisodeInput, v string) catalog.EpisodeInput { in.Link = v; return in },
		},
	}
}

func (m Model) seriesName(id int64) string {
	for _, s := range m.episodes.series {
		if s.ID == id {
			return s.Name
		}
	}
	return "#" + strconv.FormatInt(id, 10)
}

// renderEpisodes renders the series picker above the session's new episodes.
func (m Model) renderEpisodes() string {
	styles := m.theme.Styles()
	e := m.episodes
	height := m.contentHeight()
	recentHeight := min(len(e.recent)+4, height/2)
	if len(e.recent) == 0 {
		recentHeight = 0
	}

	var content string
	switch {
	case !e.loaded && e.err != nil:
		content = styles.DangerText.Render("Could not load series. Press r to retry.")
	case !e.loaded:
		content = styles.MutedText.Render("Loading series...")
	case len(e.series) == 0:
		content = styles.MutedText.Render("Add a series before adding episodes.")
	default:
		rows := make([][]string, len(e.series))
		for i, s := range e.series {
			rows[i] = []string{strconv.FormatInt(s.ID, 10), s.Name, strconv.Itoa(s.Year)}
		}
		content = m.renderTable([]column{{"ID", 5}, {"Series", 0}, {"Year", 5}}, rows, e.selected, m.width-4)
	}

	picker := m.renderBox("Pick a series, then press n to add an episode", content, m.width, height-recentHeight)
	if recentHeight == 0 {
		return picker
	}

	rows := make([][]string, len(e.recent))
	for i := range e.recent {
		ep := e.recent[len(e.recent)-1-i]
		rows[i] = []string{m.seriesName(ep.SerieID), ep.Name, ep.Duration, ep.Link}
	}
	table := m.renderTable([]column{{"Series", 20}, {"Episode", 0}, {"Duration", 9}, {"Link", 32}}, rows, -1, m.width-4)
	recent := m.renderBox(fmt.Sprintf("Added this session (%d)", len(e.recent)), table, m.width, recentHeight)
	return strings.Join([]string{picker, recent}, "\n")
}
