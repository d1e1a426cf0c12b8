package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BgStyle renders segments on a fixed background. Every character, spaces
// included, carries the background, so joined segments leave no gaps.
type BgStyle struct {
	bg    lipgloss.Color
	space string
}

// NewBgStyle creates a helper for the given background color.
func NewBgStyle(bgColor string) BgStyle {
	bg := lipgloss.Color(bgColor)
	return BgStyle{
		bg:    bg,
		space: lipgloss.NewStyle().Background(bg).Render(" "),
	}
}

// Render renders text with style on the background. Words are styled one by
// one and rejoined with background spaces.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	wordStyle := style.Background(b.bg)
	if !strings.Contains(text, " ") {
		return wordStyle.Render(text)
	}
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = wordStyle.Render(w)
		}
	}
	return strings.Join(words, b.space)
}

// Space returns a single background space.
func (b BgStyle) Space() string {
	return b.space
}

// Spaces returns n background spaces.
func (b BgStyle) Spaces(n int) string {
	return lipgloss.NewStyle().Background(b.bg).Render(strings.Repeat(" ", n))
}

// Hint renders a command bar entry as key:desc.
func (b BgStyle) Hint(key, desc string, keyStyle, descStyle lipgloss.Style) string {
	colon := lipgloss.NewStyle().Background(b.bg).Render(":")
	return b.Render(key, keyStyle) + colon + b.Render(desc, descStyle)
}

// Divide joins the non-empty parts with mark, padded by one space each side.
// Status lines use "•" and the header tabs "│".
func (b BgStyle) Divide(parts []string, mark string, style lipgloss.Style) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, b.space+b.Render(mark, style)+b.space)
}

// FillLine pads content to width with the background color.
func (b BgStyle) FillLine(content string, width int) string {
	return lipgloss.NewStyle().Background(b.bg).Width(width).Render(content)
}
