package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/session"
	"github.com/five82/marquee/internal/state"
)

type (
	seriesList   = state.List[catalog.Series, catalog.SeriesInput]
	categoryList = state.List[catalog.Category, catalog.CategoryInput]
)

// Messages

type sessionRestoredMsg struct{ err error }

type loginResultMsg struct {
	user catalog.User
	err  error
}

// seriesLoadedMsg and categoriesLoadedMsg carry the list that issued the
// refresh; results for a list the view has since dropped are ignored.
type seriesLoadedMsg struct {
	list *seriesList
	err  error
}

type categoriesLoadedMsg struct {
	list *categoryList
	err  error
}

type seriesCategoriesMsg struct {
	mount int
	items []catalog.Category
	err   error
}

// seriesFetchedMsg and categoryFetchedMsg carry the fresh copy of an entity
// about to be edited.
type seriesFetchedMsg struct {
	list *seriesList
	id   int64
	item catalog.Series
	err  error
}

type categoryFetchedMsg struct {
	list *categoryList
	id   int64
	item catalog.Category
	err  error
}

type episodeSeriesMsg struct {
	mount int
	items []catalog.Series
	err   error
}

type formSavedMsg struct {
	form   any
	entity string
	verb   string
	input  any
	saved  any
	err    error
}

type deleteDoneMsg struct {
	modal  *deleteModal
	target DeleteTarget
	err    error
}

type activityLoadedMsg struct {
	mount int
	lines []string
	err   error
}

type activityTickMsg struct{ mount int }

type toastExpiredMsg struct{ id int }

// Commands

func restoreCmd(ctx context.Context, gate *session.Gate) tea.Cmd {
	return func() tea.Msg {
		if gate == nil {
			return sessionRestoredMsg{err: session.ErrNoSession}
		}
		return sessionRestoredMsg{err: gate.Restore(ctx)}
	}
}

func loginCmd(ctx context.Context, access session.Access, creds catalog.Credentials) tea.Cmd {
	return func() tea.Msg {
		user, err := access.Login(ctx, creds)
		return loginResultMsg{user: user, err: err}
	}
}

func refreshSeriesCmd(ctx context.Context, list *seriesList) tea.Cmd {
	return func() tea.Msg {
		return seriesLoadedMsg{list: list, err: list.Refresh(ctx)}
	}
}

func refreshCategoriesCmd(ctx context.Context, list *categoryList) tea.Cmd {
	return func() tea.Msg {
		return categoriesLoadedMsg{list: list, err: list.Refresh(ctx)}
	}
}

func activityTickCmd(mount int) tea.Cmd {
	return tea.Tick(ActivityRefreshInterval, func(time.Time) tea.Msg {
		return activityTickMsg{mount: mount}
	})
}
