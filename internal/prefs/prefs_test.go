package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p := Load("")
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if p.SeriesOrder != OrderServer {
		t.Fatalf("SeriesOrder = %q, want %q", p.SeriesOrder, OrderServer)
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "marquee")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	prefsFile := filepath.Join(prefsDir, "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("theme = \"Kanagawa\"\nseries_order = \"year_desc\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := Load("")
	if p.Theme != "Kanagawa" {
		t.Fatalf("Theme = %q, want %q", p.Theme, "Kanagawa")
	}
	if p.SeriesOrder != OrderYearDesc {
		t.Fatalf("SeriesOrder = %q, want %q", p.SeriesOrder, OrderYearDesc)
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "subdir", "prefs.toml")

	if err := Save(prefsFile, Prefs{Theme: "Nightfox", SeriesOrder: OrderYearDesc}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded := Load(prefsFile)
	if loaded.Theme != "Nightfox" || loaded.SeriesOrder != OrderYearDesc {
		t.Fatalf("loaded = %+v", loaded)
	}
}

func TestLoad_InvalidValuesFallBackToDefault(t *testing.T) {
	tests := map[string]string{
		"empty theme":   "theme = \"\"\n",
		"unknown order": "theme = \"Slate\"\nseries_order = \"random\"\n",
		"invalid toml":  "not valid toml {{{\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
			if err := os.WriteFile(prefsFile, []byte(body), 0o644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			p := Load(prefsFile)
			if p.Theme != defaultTheme {
				t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
			}
			if p.SeriesOrder != OrderServer {
				t.Fatalf("SeriesOrder = %q, want %q", p.SeriesOrder, OrderServer)
			}
		})
	}
}

func TestSeriesOrder_Toggle(t *testing.T) {
	if OrderServer.Toggle() != OrderYearDesc || OrderYearDesc.Toggle() != OrderServer {
		t.Fatal("Toggle does not alternate between the two orders")
	}
}
