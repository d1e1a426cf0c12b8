package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/config"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/session"
	"github.com/five82/marquee/internal/ui"
)

// Options configure the Marquee application.
type Options struct {
	ConfigPath string   // empty uses ~/.config/marquee/config.toml
	PrefsPath  string   // empty uses ~/.config/marquee/prefs.toml
	EnvFiles   []string // optional dotenv files; nil reads ./.env
	Version    string
}

// Run boots the Marquee TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env"}
	}
	cfg, err := config.Load(opts.ConfigPath, envFiles...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFile, err := openLog(cfg.LogPath)
	if err != nil {
		return err
	}
	defer logFile.Close()

	client, gate, err := wire(cfg, opts.Version)
	if err != nil {
		return err
	}
	log.Printf("INFO: marquee %s starting against %s", versionOr(opts.Version), client.BaseURL())

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	err = ui.Run(ui.Options{
		Context:   ctx,
		Client:    client,
		Gate:      gate,
		Config:    cfg,
		Prefs:     prefs.Load(prefsPath),
		PrefsPath: prefsPath,
	})
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		log.Printf("INFO: marquee stopped: %v", ctx.Err())
		return nil
	}
	return err
}

// wire builds the API client and the session gate that owns its token.
func wire(cfg config.Config, version string) (*catalog.Client, *session.Gate, error) {
	client, err := catalog.NewClient(cfg.APIURL,
		catalog.WithTimeout(cfg.RequestTimeout),
		catalog.WithUserAgent("marquee/"+versionOr(version)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("init api client: %w", err)
	}
	gate := session.NewGate(session.NewFileStore(cfg.SessionPath), client)
	return client, gate, nil
}

// openLog points the standard logger at path; the terminal belongs to the TUI.
func openLog(path string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := tea.LogToFile(path, "")
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func versionOr(v string) string {
	if v == "" {
		return "dev"
	}
	return v
}
