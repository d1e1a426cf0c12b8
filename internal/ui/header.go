package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/session"
)

// routeLabels are the tab titles, numbered by their shortcut.
var routeLabels = map[session.Route]string{
	session.RouteSeries:     "1 Series",
	session.RouteCategories: "2 Categories",
	session.RouteEpisodes:   "3 Episodes",
	session.RouteActivity:   "4 Activity",
}

// renderHeader renders the logo, view tabs, signed-in user and toast.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	sep := bg.Spaces(2)

	parts := []string{bg.Render("marquee", styles.Logo)}

	if m.route.Protected() {
		tabs := make([]string, 0, len(routeOrder))
		for _, r := range routeOrder {
			label := routeLabels[r]
			if compact {
				label = label[:5]
			}
			if r == m.route {
				tabs = append(tabs, bg.Render(label, styles.AccentText.Bold(true).Underline(true)))
			} else {
				tabs = append(tabs, bg.Render(label, styles.MutedText))
			}
		}
		parts = append(parts, bg.Divide(tabs, "│", styles.FaintText))
	}

	if m.gate != nil {
		if user, ok := m.gate.CurrentUser(); ok {
			parts = append(parts, bg.Render("●", styles.SuccessText)+bg.Space()+
				bg.Render(truncate(user.Label(), ternaryInt(compact, 16, 32)), styles.Text))
		} else if m.route == session.RouteLogin {
			parts = append(parts, bg.Render("● signed out", styles.MutedText))
		}
	}

	if toast := m.renderToast(styles, bg, ternaryInt(compact, 30, 60)); toast != "" {
		parts = append(parts, toast)
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(strings.Join(parts, sep))
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	// Command bar uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.route {
	case session.RouteLogin:
		commands = []cmd{
			{"Tab", "Next field"},
			{"Enter", "Sign in"},
			{"Esc", "Clear"},
			{"^C", "Quit"},
		}
	case session.RouteSeries:
		if m.series.searching {
			commands = []cmd{
				{"Enter", "Apply"},
				{"Esc", "Clear"},
			}
			break
		}
		order := "Server order"
		if m.prefs.SeriesOrder == prefs.OrderYearDesc {
			order = "Newest first"
		}
		commands = []cmd{
			{"n", "New"},
			{"e", "Edit"},
			{"d", "Delete"},
			{"/", "Search"},
			{"o", order},
			{"[/]", "Page"},
			{"r", "Reload"},
			{"?", "More"},
		}
	case session.RouteCategories:
		commands = []cmd{
			{"n", "New"},
			{"e", "Edit"},
			{"d", "Delete"},
			{"[/]", "Page"},
			{"r", "Reload"},
			{"?", "More"},
		}
	case session.RouteEpisodes:
		commands = []cmd{
			{"j/k", "Series"},
			{"n", "Add episode"},
			{"r", "Reload"},
			{"?", "More"},
		}
	case session.RouteActivity:
		level := "All"
		if m.activity.level != levelAll {
			level = string(m.activity.level) + "+"
		}
		commands = []cmd{
			{"f", level},
			{"j/k", "Scroll"},
			{"G", "Follow"},
			{"r", "Reload"},
			{"?", "More"},
		}
	default:
		commands = []cmd{{"q", "Quit"}}
	}

	if m.route.Protected() {
		commands = append(commands, cmd{"L", "Logout"})
	}

	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments, bg.Hint(c.key, c.desc, styles.AccentText, styles.MutedText))
	}

	// Show the active series filter
	if m.route == session.RouteSeries && !m.series.searching && m.series.query != "" {
		segments = append(segments, bg.Render("/"+truncate(m.series.query, 18), styles.AccentText))
	}

	// Add theme indicator
	segments = append(segments, bg.Hint("T", m.theme.Name, styles.AccentText, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}
