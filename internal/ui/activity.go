package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marquee/internal/logtail"
	"github.com/five82/marquee/internal/session"
)

// levelAll disables the level filter.
const levelAll logtail.Level = ""

var levelCycle = []logtail.Level{levelAll, logtail.LevelWarn, logtail.LevelError}

// activityState holds the log tail view.
type activityState struct {
	viewport viewport.Model
	lines    []string
	level    logtail.Level
	follow   bool
	err      error
}

func (m *Model) mountActivity() tea.Cmd {
	m.activity.follow = true
	return tea.Batch(m.loadActivity(), activityTickCmd(m.mount))
}

// loadActivity rereads the tail of the log file off the update loop.
func (m *Model) loadActivity() tea.Cmd {
	path, level, mount := m.config.LogPath, m.activity.level, m.mount
	return func() tea.Msg {
		var keep func(string) bool
		if level != levelAll {
			keep = logtail.AtLeast(level)
		}
		lines, err := logtail.Read(path, ActivityLineLimit, keep)
		return activityLoadedMsg{mount: mount, lines: lines, err: err}
	}
}

func (m Model) handleActivityLoaded(msg activityLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.mount != m.mount || m.route != session.RouteActivity {
		return m, nil
	}
	m.activity.err = msg.err
	if msg.err == nil {
		m.activity.lines = msg.lines
	}
	m.renderActivity()
	return m, nil
}

// handleActivityKey processes keyboard input for the activity view.
func (m Model) handleActivityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := &m.activity
	switch {
	case key.Matches(msg, m.keys.CycleLevel):
		for i, lvl := range levelCycle {
			if lvl == a.level {
				a.level = levelCycle[(i+1)%len(levelCycle)]
				break
			}
		}
		return m, m.loadActivity()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadActivity()

	case key.Matches(msg, m.keys.Top):
		a.viewport.GotoTop()
		a.follow = false

	case key.Matches(msg, m.keys.Bottom):
		a.viewport.GotoBottom()
		a.follow = true

	case key.Matches(msg, m.keys.Down):
		a.viewport.LineDown(1)
		a.follow = a.viewport.AtBottom()

	case key.Matches(msg, m.keys.Up):
		a.viewport.LineUp(1)
		a.follow = false

	case key.Matches(msg, m.keys.NextPage):
		a.viewport.ViewDown()
		a.follow = a.viewport.AtBottom()

	case key.Matches(msg, m.keys.PrevPage):
		a.viewport.ViewUp()
		a.follow = false
	}
	return m, nil
}

func (m *Model) resizeActivity() {
	m.activity.viewport.Width = max(m.width-4, 1)
	m.activity.viewport.Height = max(m.contentHeight()-4, 1)
	m.renderActivity()
}

// renderActivity refills the viewport with colorized lines.
func (m *Model) renderActivity() {
	a := &m.activity
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	width := a.viewport.Width

	var b strings.Builder
	if len(a.lines) == 0 {
		b.WriteString(bg.FillLine(bg.Render("No log entries", styles.MutedText), width))
	}
	for i, line := range a.lines {
		b.WriteString(bg.FillLine(m.colorizeLine(line, styles, bg), width))
		if i < len(a.lines)-1 {
			b.WriteString("\n")
		}
	}
	a.viewport.SetContent(b.String())
	if a.follow {
		a.viewport.GotoBottom()
	}
}

// colorizeLine renders a log line as time, level badge and message.
func (m *Model) colorizeLine(line string, styles Styles, bg BgStyle) string {
	entry := logtail.Parse(line)
	var parts []string
	if !entry.Time.IsZero() {
		parts = append(parts, bg.Render(entry.Time.Format("01-02 15:04:05"), styles.FaintText))
	}
	parts = append(parts, styles.LevelStyle(string(entry.Level)).Render(padRight(string(entry.Level), 5)))

	msgStyle := styles.Text
	switch entry.Level {
	case logtail.LevelError:
		msgStyle = styles.DangerText
	case logtail.LevelWarn:
		msgStyle = styles.WarningText
	}
	parts = append(parts, bg.Render(truncate(entry.Message, max(m.activity.viewport.Width-24, 10)), msgStyle))
	return strings.Join(parts, bg.Space())
}

// renderActivityView renders the log box and its status line.
func (m Model) renderActivityView() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Background)
	a := m.activity

	title := "Activity"
	if a.level != levelAll {
		title = fmt.Sprintf("Activity (%s and above)", a.level)
	}
	box := m.renderBox(title, a.viewport.View(), m.width, m.contentHeight()-1)

	parts := []string{
		bg.Render(fmt.Sprintf("%d lines", len(a.lines)), styles.FaintText),
		bg.Render("follow "+ternary(a.follow, "on", "off"), styles.MutedText),
		bg.Render(truncateMiddle(m.config.LogPath, 48), styles.AccentText),
	}
	if a.err != nil {
		parts = append(parts, bg.Render(truncate(a.err.Error(), 40), styles.DangerText))
	}
	return box + "\n" + bg.Divide(parts, "•", styles.FaintText)
}
