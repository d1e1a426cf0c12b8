package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type toastKind string

const (
	toastInfo    toastKind = "INFO"
	toastSuccess toastKind = "OK"
	toastError   toastKind = "ERROR"
)

// toast is the single notification shown in the header. An empty text means
// none; ids keep increasing so stale expiries never clear a newer toast.
type toast struct {
	id   int
	kind toastKind
	text string
}

// notify replaces the current toast and schedules its expiry.
func (m *Model) notify(kind toastKind, text string) tea.Cmd {
	id := m.toast.id + 1
	m.toast = toast{id: id, kind: kind, text: text}
	return tea.Tick(ToastLifetime, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// renderToast renders the toast badge for the header.
func (m Model) renderToast(styles Styles, bg BgStyle, limit int) string {
	if m.toast.text == "" {
		return ""
	}
	badge := styles.LevelStyle(string(m.toast.kind)).Render(string(m.toast.kind))
	return badge + bg.Space() + bg.Render(truncate(m.toast.text, limit), styles.Text)
}
