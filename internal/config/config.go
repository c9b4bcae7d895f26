package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures what the client needs to reach the grafiksp4600
// backend. The session cookie comes from a logged-in browser session;
// there is no in-client authentication flow.
type Config struct {
	Server        string
	User          string
	SessionCookie string
	CSRFToken     string
	PollSeconds   int
	DownloadDir   string
}

const (
	defaultConfigPath  = "~/.config/grafik/config.toml"
	defaultServer      = "127.0.0.1:8000"
	defaultPollSeconds = 30
	defaultDownloadDir = "~/Downloads"
)

// Load locates and parses the config file, falling back to defaults
// when it is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Server:      defaultServer,
		PollSeconds: defaultPollSeconds,
		DownloadDir: mustExpand(defaultDownloadDir),
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Server        string `toml:"server"`
		User          string `toml:"user"`
		SessionCookie string `toml:"session_cookie"`
		CSRFToken     string `toml:"csrf_token"`
		PollSeconds   int    `toml:"poll_seconds"`
		DownloadDir   string `toml:"download_dir"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if server := strings.TrimSpace(raw.Server); server != "" {
		cfg.Server = server
	}
	cfg.User = strings.TrimSpace(raw.User)
	cfg.SessionCookie = strings.TrimSpace(raw.SessionCookie)
	cfg.CSRFToken = strings.TrimSpace(raw.CSRFToken)
	if raw.PollSeconds > 0 {
		cfg.PollSeconds = raw.PollSeconds
	}
	if dir := strings.TrimSpace(raw.DownloadDir); dir != "" {
		cfg.DownloadDir = mustExpand(dir)
	}

	return cfg, nil
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
