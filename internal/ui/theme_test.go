package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"Nightfox", "Kanagawa", "Slate"}
	if len(names) != len(want) {
		t.Fatalf("ThemeNames() returned %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ThemeNames() = %v, want %v", names, want)
		}
	}
}

func TestNextTheme(t *testing.T) {
	tests := []struct {
		current string
		want    string
	}{
		{"Nightfox", "Kanagawa"},
		{"Kanagawa", "Slate"},
		{"Slate", "Nightfox"},
		{"Unknown", "Nightfox"},
	}
	for _, tt := range tests {
		if got := NextTheme(tt.current); got != tt.want {
			t.Errorf("NextTheme(%q) = %q, want %q", tt.current, got, tt.want)
		}
	}
}

func TestGetTheme_FallsBackToSlate(t *testing.T) {
	if got := GetTheme("Dracula").Name; got != "Slate" {
		t.Fatalf("GetTheme(unknown).Name = %q, want Slate", got)
	}
	if got := GetTheme("Kanagawa").Name; got != "Kanagawa" {
		t.Fatalf("GetTheme(Kanagawa).Name = %q", got)
	}
}

func TestThemesDefineLevelColors(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, level := range []string{"INFO", "WARN", "ERROR", "OK"} {
			if th.LevelColors[level] == "" {
				t.Errorf("%s: missing level color for %s", name, level)
			}
		}
	}
}

func TestWithBackgroundKeepsLevelColors(t *testing.T) {
	th := GetTheme("Nightfox")
	styles := th.Styles().WithBackground(th.Surface)
	if got := styles.levelColors["ERROR"]; got != th.LevelColors["ERROR"] {
		t.Fatalf("level color after WithBackground = %q, want %q", got, th.LevelColors["ERROR"])
	}
	if styles.muted != th.Muted {
		t.Fatalf("muted after WithBackground = %q, want %q", styles.muted, th.Muted)
	}
}

func TestBgStyleDivideSkipsEmptyParts(t *testing.T) {
	bg := NewBgStyle("#000000")
	plain := lipgloss.NewStyle()
	got := bg.Divide([]string{"a", "", "b"}, "•", plain)
	want := "a" + bg.Space() + bg.Render("•", plain) + bg.Space() + "b"
	if got != want {
		t.Fatalf("Divide = %q, want %q", got, want)
	}
	if got := bg.Divide([]string{"", ""}, "•", plain); got != "" {
		t.Fatalf("Divide of empty parts = %q, want empty", got)
	}
}

func TestBgStyleRenderKeepsSpaces(t *testing.T) {
	bg := NewBgStyle("#000000")
	plain := lipgloss.NewStyle()
	if got := lipgloss.Width(bg.Render("a  b", plain)); got != 4 {
		t.Fatalf("rendered width = %d, want 4", got)
	}
	if got := lipgloss.Width(bg.Hint("n", "New", plain, plain)); got != 5 {
		t.Fatalf("hint width = %d, want 5", got)
	}
}
