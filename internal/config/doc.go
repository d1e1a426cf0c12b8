// Package config loads the Marquee configuration file.
//
// # Resolution
//
// Load reads ~/.config/marquee/config.toml unless a path is given. A missing
// file is not an error: every field has a default, and empty or non-positive
// values fall back to it.
//
//	api_url = "http://127.0.0.1:8080"
//	session_path = "~/.local/state/marquee/session.toml"
//	log_path = "~/.local/state/marquee/marquee.log"
//	series_page_size = 4
//	category_page_size = 6
//	series_paging = "client"   # or "server"
//	request_timeout_seconds = 10
//
// # Environment
//
// MARQUEE_API_URL and MARQUEE_SESSION_PATH override the file. They are taken
// from the process environment first, then from any dotenv files passed to
// Load (typically ./.env). Dotenv files are read without modifying the
// process environment.
//
// Tilde paths are expanded and relative paths made absolute.
package config
