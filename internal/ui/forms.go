package ui

import (
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marquee/internal/catalog"
)

// handleFormSaved completes the open dialog and reconciles the owning view.
// Results for a dialog that is no longer shown are logged and dropped.
func (m Model) handleFormSaved(msg formSavedMsg) (tea.Model, tea.Cmd) {
	if m.modal == nil || any(m.modal) != msg.form {
		if msg.err == nil {
			log.Printf("INFO: %s %s after its dialog closed", strings.ToLower(msg.entity), msg.verb)
		}
		return m, nil
	}
	if _, _, closed := m.modal.Update(msg, m.keys); closed {
		m.modal = nil
	}

	entity := strings.ToLower(msg.entity)
	if msg.err != nil {
		return m, m.fail("save "+entity, msg.err)
	}

	var cmd tea.Cmd
	switch saved := msg.saved.(type) {
	case catalog.Series:
		log.Printf("INFO: series %d %s (%s)", saved.ID, msg.verb, saved.Name)
		cmd = m.syncSeries()
	case catalog.Category:
		log.Printf("INFO: category %d %s (%s)", saved.ID, msg.verb, saved.Name)
		cmd = m.syncCategories()
	case catalog.Episode:
		// Some backends answer 201 with an empty body.
		if in, ok := msg.input.(catalog.EpisodeInput); ok && saved.Name == "" {
			saved = catalog.Episode{Name: in.Name, Duration: in.Duration, Link: in.Link, SerieID: in.SerieID}
		}
		log.Printf("INFO: episode %q %s for series %d", saved.Name, msg.verb, saved.SerieID)
		m.episodes.recent = append(m.episodes.recent, saved)
	}

	return m, tea.Batch(cmd, m.notify(toastSuccess, msg.entity+" "+msg.verb))
}
