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

// Config captures everything both binaries read at startup.
type Config struct {
	APIURL       string
	PollInterval time.Duration
	LogPath      string
	LogLevel     string
	Content      Content
}

// Content configures the content-update function.
type Content struct {
	APIURL     string
	Repo       string
	Path       string
	Branch     string
	Message    string
	Listen     string
	SchemaPath string
	Token      string // only ever read from the environment
}

const (
	// EnvAPIURL overrides the CMS base URL.
	EnvAPIURL = "STRAPI_URL"
	// EnvGitHubToken supplies the content-update token.
	EnvGitHubToken = "GITHUB_TOKEN"

	defaultConfigPath   = "~/.config/statusbox/config.toml"
	defaultAPIURL       = "http://localhost:1337"
	defaultPollInterval = 30 * time.Second
	defaultLogPath      = "~/.local/state/statusbox/statusbox.log"
	defaultLogLevel     = "info"

	defaultContentAPIURL  = "https://api.github.com"
	defaultContentRepo    = "your-username/your-repo"
	defaultContentPath    = "content/posts/hello-world.md"
	defaultContentBranch  = "main"
	defaultContentMessage = "Update content from backend"
	defaultContentListen  = "127.0.0.1:8888"
)

type rawConfig struct {
	APIURL      string     `toml:"api_url"`
	PollSeconds int        `toml:"poll_seconds"`
	LogFile     string     `toml:"log_file"`
	LogLevel    string     `toml:"log_level"`
	Content     rawContent `toml:"content"`
}

type rawContent struct {
	APIURL     string `toml:"api_url"`
	Repo       string `toml:"repo"`
	Path       string `toml:"path"`
	Branch     string `toml:"branch"`
	Message    string `toml:"message"`
	Listen     string `toml:"listen"`
	SchemaPath string `toml:"schema_path"`
}

// Load locates and parses the config file, falling back to defaults when it
// is missing, then applies environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw rawConfig
	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	if raw.PollSeconds < 0 {
		return Config{}, fmt.Errorf("poll_seconds must not be negative, got %d", raw.PollSeconds)
	}

	cfg := Config{
		APIURL:       orDefault(raw.APIURL, defaultAPIURL),
		PollInterval: defaultPollInterval,
		LogPath:      mustExpand(orDefault(raw.LogFile, defaultLogPath)),
		LogLevel:     orDefault(raw.LogLevel, defaultLogLevel),
		Content: Content{
			APIURL:     orDefault(raw.Content.APIURL, defaultContentAPIURL),
			Repo:       orDefault(raw.Content.Repo, defaultContentRepo),
			Path:       strings.TrimPrefix(orDefault(raw.Content.Path, defaultContentPath), "/"),
			Branch:     orDefault(raw.Content.Branch, defaultContentBranch),
			Message:    orDefault(raw.Content.Message, defaultContentMessage),
			Listen:     orDefault(raw.Content.Listen, defaultContentListen),
			SchemaPath: strings.TrimSpace(raw.Content.SchemaPath),
		},
	}
	if raw.PollSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollSeconds) * time.Second
	}
	if cfg.Content.SchemaPath != "" {
		cfg.Content.SchemaPath = mustExpand(cfg.Content.SchemaPath)
	}

	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		cfg.APIURL = v
	}
	cfg.Content.Token = strings.TrimSpace(os.Getenv(EnvGitHubToken))

	return cfg, nil
}

// LoadEnvFile loads variables from a dotenv file without overriding ones
// already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
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
