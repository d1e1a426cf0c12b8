package ui

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marquee/internal/catalog"
)

// DeleteKind tags what a DeleteTarget points at.
type DeleteKind int

const (
	DeleteSeries DeleteKind = iota + 1
	DeleteCategory
)

func (k DeleteKind) String() string {
	switch k {
	case DeleteSeries:
		return "series"
	case DeleteCategory:
		return "category"
	default:
		return "unknown"
	}
}

// DeleteTarget names the entity a delete confirmation acts on. Each kind is
// dispatched to its own list; there is no shared entity shape.
type DeleteTarget struct {
	Kind DeleteKind
	ID   int64
	Name string
}

// SeriesTarget returns the delete target for s.
func SeriesTarget(s catalog.Series) DeleteTarget {
	return DeleteTarget{Kind: DeleteSeries, ID: s.ID, Name: s.Name}
}

// CategoryTarget returns the delete target for c.
func CategoryTarget(c catalog.Category) DeleteTarget {
	return DeleteTarget{Kind: DeleteCategory, ID: c.ID, Name: c.Name}
}

// deleteModal asks for confirmation and then runs remove once.
type deleteModal struct {
	ctx     context.Context
	target  DeleteTarget
	remove  func(ctx context.Context, id int64) error
	pending bool
	err     string
}

// Update implements Modal.
func (d *deleteModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case deleteDoneMsg:
		if msg.modal != d {
			return d, nil, false
		}
		d.pending = false
		if msg.err != nil {
			d.err = msg.err.Error()
			return d, nil, false
		}
		return d, nil, true

	case tea.KeyMsg:
		if d.pending {
			return d, nil, false
		}
		switch {
		case key.Matches(msg, keys.Yes):
			d.pending = true
			d.err = ""
			ctx, remove, target := d.ctx, d.remove, d.target
			return d, func() tea.Msg {
				return deleteDoneMsg{modal: d, target: target, err: remove(ctx, target.ID)}
			}, false
		case key.Matches(msg, keys.Escape), msg.String() == "n":
			return d, nil, true
		}
	}
	return d, nil, false
}

// View implements Modal.
func (d *deleteModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(modalTitle(styles, "Delete "+d.target.Kind.String(), DeleteModalWidth-6))

	b.WriteString(styles.Text.Render(fmt.Sprintf("Delete %s #%d", d.target.Kind, d.target.ID)))
	b.WriteString("\n")
	b.WriteString(styles.WarningText.Render(truncate(d.target.Name, DeleteModalWidth-6)))
	b.WriteString("\n\n")
	if d.target.Kind == DeleteSeries {
		b.WriteString(styles.MutedText.Render("Its episodes are removed with it."))
		b.WriteString("\n\n")
	}

	if d.err != "" {
		b.WriteString(styles.DangerText.Render(truncate(d.err, DeleteModalWidth-6)))
		b.WriteString("\n\n")
	}
	if d.pending {
		b.WriteString(styles.WarningText.Render("Deleting..."))
	} else {
		b.WriteString(styles.FaintText.Render("y/Enter: Delete  •  n/Esc: Keep"))
	}

	return placeModal(theme, width, height, DeleteModalWidth, b.String())
}

// openDelete shows the confirmation for target, dispatching by kind to the
// list of the current view.
func (m *Model) openDelete(target DeleteTarget) {
	var remove func(context.Context, int64) error
	switch target.Kind {
	case DeleteSeries:
		if m.series.list != nil {
			remove = m.series.list.Remove
		}
	case DeleteCategory:
		if m.categories.list != nil {
			remove = m.categories.list.Remove
		}
	}
	if remove == nil || target.ID == 0 {
		return
	}
	m.modal = &deleteModal{ctx: m.ctx, target: target, remove: remove}
}

// handleDeleteDone closes the dialog on success and reconciles the view.
func (m Model) handleDeleteDone(msg deleteDoneMsg) (tea.Model, tea.Cmd) {
	if m.modal == nil || m.modal != Modal(msg.modal) {
		log.Printf("INFO: dropped delete result for %s %d after view change", msg.target.Kind, msg.target.ID)
		return m, nil
	}
	if _, _, closed := m.modal.Update(msg, m.keys); closed {
		m.modal = nil
	}

	label := fmt.Sprintf("delete %s %d", msg.target.Kind, msg.target.ID)
	if msg.err != nil {
		return m, m.fail(label, msg.err)
	}

	log.Printf("INFO: deleted %s %d (%s)", msg.target.Kind, msg.target.ID, msg.target.Name)
	var cmd tea.Cmd
	switch msg.target.Kind {
	case DeleteSeries:
		cmd = m.syncSeries()
	case DeleteCategory:
		cmd = m.syncCategories()
	}
	return m, tea.Batch(cmd, m.notify(toastSuccess, fmt.Sprintf("Deleted %s %q", msg.target.Kind, msg.target.Name)))
}
