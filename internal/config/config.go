package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// SeriesPaging selects how the series screen pages its results.
type SeriesPaging string

const (
	// PagingClient fetches the whole collection and slices it locally.
	PagingClient SeriesPaging = "client"
	// PagingServer asks /series/pageable for one page at a time.
	PagingServer SeriesPaging = "server"
)

// Config holds the dashboard settings.
type Config struct {
	APIURL           string
	SessionPath      string
	LogPath          string
	SeriesPageSize   int
	CategoryPageSize int
	SeriesPaging     SeriesPaging
	RequestTimeout   time.Duration
}

const (
	defaultConfigPath       = "~/.config/marquee/config.toml"
	defaultAPIURL           = "http://127.0.0.1:8080"
	defaultSessionPath      = "~/.local/state/marquee/session.toml"
	defaultLogPath          = "~/.local/state/marquee/marquee.log"
	defaultSeriesPageSize   = 4
	defaultCategoryPageSize = 6
	defaultRequestTimeout   = 10 * time.Second

	// EnvAPIURL overrides api_url.
	EnvAPIURL = "MARQUEE_API_URL"
	// EnvSessionPath overrides session_path.
	EnvSessionPath = "MARQUEE_SESSION_PATH"
)

// Default returns the built-in configuration with paths expanded.
func Default() Config {
	return Config{
		APIURL:           defaultAPIURL,
		SessionPath:      mustExpand(defaultSessionPath),
		LogPath:          mustExpand(defaultLogPath),
		SeriesPageSize:   defaultSeriesPageSize,
		CategoryPageSize: defaultCategoryPageSize,
		SeriesPaging:     PagingClient,
		RequestTimeout:   defaultRequestTimeout,
	}
}

// Load reads the config file at path (the default location when empty),
// fills gaps with defaults and applies environment overrides. Variables set in
// the process win over the optional env files, which are read in order.
func Load(path string, envFiles ...string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	bytes, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	if bytes != nil {
		var raw struct {
			APIURL                string `toml:"api_url"`
			SessionPath           string `toml:"session_path"`
			LogPath               string `toml:"log_path"`
			SeriesPageSize        int    `toml:"series_page_size"`
			CategoryPageSize      int    `toml:"category_page_size"`
			SeriesPaging          string `toml:"series_paging"`
			RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		if v := strings.TrimSpace(raw.APIURL); v != "" {
			cfg.APIURL = v
		}
		if v := strings.TrimSpace(raw.SessionPath); v != "" {
			cfg.SessionPath = mustExpand(v)
		}
		if v := strings.TrimSpace(raw.LogPath); v != "" {
			cfg.LogPath = mustExpand(v)
		}
		if raw.SeriesPageSize > 0 {
			cfg.SeriesPageSize = raw.SeriesPageSize
		}
		if raw.CategoryPageSize > 0 {
			cfg.CategoryPageSize = raw.CategoryPageSize
		}
		switch SeriesPaging(strings.ToLower(strings.TrimSpace(raw.SeriesPaging))) {
		case PagingServer:
			cfg.SeriesPaging = PagingServer
		case PagingClient, "":
		default:
			return Config{}, fmt.Errorf("parse config: series_paging must be %q or %q", PagingClient, PagingServer)
		}
		if raw.RequestTimeoutSeconds > 0 {
			cfg.RequestTimeout = time.Duration(raw.RequestTimeoutSeconds) * time.Second
		}
	}

	env, err := readEnvFiles(envFiles)
	if err != nil {
		return Config{}, err
	}
	if v := lookup(env, EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := lookup(env, EnvSessionPath); v != "" {
		cfg.SessionPath = mustExpand(v)
	}

	return cfg, nil
}

// readFile returns nil bytes for a missing file.
func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return bytes, nil
}

// readEnvFiles merges dotenv files without touching the process environment.
// Missing files are skipped; earlier files win.
func readEnvFiles(paths []string) (map[string]string, error) {
	merged := map[string]string{}
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		values, err := godotenv.Read(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read env file %s: %w", p, err)
		}
		for k, v := range values {
			if _, ok := merged[k]; !ok {
				merged[k] = v
			}
		}
	}
	return merged, nil
}

func lookup(env map[string]string, key string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(env[key])
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
