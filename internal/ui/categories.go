package ui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/form"
	"github.com/five82/marquee/internal/paging"
	"github.com/five82/marquee/internal/state"
)

// categoryState holds the categories view. The API has no paged category
// endpoint, so the whole collection is fetched and paged locally.
type categoryState struct {
	list     *categoryList
	pager    paging.Pager
	rows     []catalog.Category
	selected int
	form     *form.Controller[catalog.Category, catalog.CategoryInput]
}

func categoryID(c catalog.Category) int64 { return c.ID }

func (c *categoryState) unmount() {
	if c.list != nil {
		c.list.Close()
	}
	c.list = nil
	c.rows = nil
	if c.form != nil {
		c.form.Cancel()
	}
}

func (m *Model) mountCategories() tea.Cmd {
	if m.client == nil {
		return nil
	}
	c := &m.categories
	if c.form == nil {
		c.form = form.NewController[catalog.Category, catalog.CategoryInput](
			func() catalog.CategoryInput { return catalog.CategoryInput{} },
			func(cat catalog.Category) (int64, catalog.CategoryInput) { return cat.ID, cat.Input() },
		)
	}
	c.pager = paging.New(m.config.CategoryPageSize)
	c.selected = 0

	resource := m.client.Categories()
	c.list = state.NewList[catalog.Category, catalog.CategoryInput](state.FetchAll(resource.List), resource, categoryID)
	return refreshCategoriesCmd(m.ctx, c.list)
}

func (m Model) handleCategoriesLoaded(msg categoriesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.list == nil || msg.list != m.categories.list {
		return m, nil
	}
	m.syncCategories()
	if msg.err != nil && !errors.Is(msg.err, state.ErrClosed) {
		return m, m.fail("load categories", msg.err)
	}
	return m, nil
}

// syncCategories reclamps the pager to the collection and slices the page.
func (m *Model) syncCategories() tea.Cmd {
	c := &m.categories
	if c.list == nil {
		return nil
	}
	items := c.list.Snapshot().Items
	c.pager.SetTotal(len(items))
	c.rows = paging.Slice(c.pager, items)
	c.selected = clampSelection(c.selected, len(c.rows))
	return nil
}

func (m Model) selectedCategory() (catalog.Category, bool) {
	if len(m.categories.rows) == 0 {
		return catalog.Category{}, false
	}
	return m.categories.rows[clampSelection(m.categories.selected, len(m.categories.rows))], true
}

// handleCategoriesKey processes keyboard input for the categories view.
func (m Model) handleCategoriesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := &m.categories
	if c.list == nil {
		return m, nil
	}
	if sel, ok := m.moveSelection(msg, c.selected, len(c.rows)); ok {
		c.selected = sel
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.NextPage):
		if c.pager.Next() {
			c.selected = 0
			m.syncCategories()
		}
	case key.Matches(msg, m.keys.PrevPage):
		if c.pager.Previous() {
			c.selected = 0
			m.syncCategories()
		}
	case key.Matches(msg, m.keys.New):
		return m, m.openCategoryForm(nil)
	case key.Matches(msg, m.keys.Edit):
		if row, ok := m.selectedCategory(); ok {
			return m, m.fetchCategoryForEdit(row.ID)
		}
	case key.Matches(msg, m.keys.Delete):
		if row, ok := m.selectedCategory(); ok {
			m.openDelete(CategoryTarget(row))
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, refreshCategoriesCmd(m.ctx, c.list)
	}
	return m, nil
}

func (m *Model) fetchCategoryForEdit(id int64) tea.Cmd {
	ctx, resource, list := m.ctx, m.client.Categories(), m.categories.list
	return func() tea.Msg {
		item, err := resource.Get(ctx, id)
		return categoryFetchedMsg{list: list, id: id, item: item, err: err}
	}
}

func (m Model) handleCategoryFetched(msg categoryFetchedMsg) (tea.Model, tea.Cmd) {
	if msg.list == nil || msg.list != m.categories.list || m.modal != nil {
		return m, nil
	}
	switch {
	case errors.Is(msg.err, catalog.ErrNotFound):
		msg.list.Forget(msg.id)
		cmd := m.syncCategories()
		return m, tea.Batch(cmd, m.notify(toastError, "Category no longer exists"))
	case msg.err != nil:
		return m, m.fail("load category", msg.err)
	}
	return m, m.openCategoryForm(&msg.item)
}

func (m *Model) openCategoryForm(row *catalog.Category) tea.Cmd {
	c := &m.categories
	if row == nil {
		c.form.OpenCreate()
	} else {
		c.form.OpenEdit(*row)
	}
	m.modal = newFormModal[catalog.Category, catalog.CategoryInput](m.ctx, "Category", c.form, c.list, categoryFields())
	return textinput.Blink
}

func categoryFields() []field[catalog.CategoryInput] {
	return []field[catalog.CategoryInput]{
		{
			name: "name", label: "Name", placeholder: "Tokusatsu", limit: 100,
			get: func(in catalog.CategoryInput) string { return in.Name },
			set: func(in catalog.CategoryInput, v string) catalog.CategoryInput { in.Name = v; return in },
		},
	}
}

// renderCategories renders the category table and its status line.
func (m Model) renderCategories() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Background)
	c := m.categories

	var snap state.Snapshot[catalog.Category]
	if c.list != nil {
		snap = c.list.Snapshot()
	}

	var content string
	switch {
	case !snap.Loaded && snap.LastError == nil:
		content = styles.MutedText.Render("Loading categories...")
	case len(c.rows) == 0 && snap.Loaded:
		content = styles.MutedText.Render("No categories yet. Press n to add one.")
	case len(c.rows) == 0:
		content = styles.DangerText.Render("Could not load categories. Press r to retry.")
	default:
		rows := make([][]string, len(c.rows))
		for i, row := range c.rows {
			rows[i] = []string{strconv.FormatInt(row.ID, 10), row.Name}
		}
		content = m.renderTable([]column{{"ID", 5}, {"Name", 0}}, rows, c.selected, m.width-4)
	}

	box := m.renderBox(fmt.Sprintf("Categories (%d)", len(snap.Items)), content, m.width, m.contentHeight()-1)

	parts := []string{
		bg.Render(fmt.Sprintf("Page %d/%d", c.pager.Page(), c.pager.LastPage()), styles.AccentText),
		bg.Render(fmt.Sprintf("%d per page", c.pager.Size()), styles.MutedText),
		m.renderSyncStatus(snap.Loading, snap.LastUpdated, snap.LastError, snap.IsOffline(), styles, bg),
	}
	return box + "\n" + bg.Divide(parts, "•", styles.FaintText)
}
