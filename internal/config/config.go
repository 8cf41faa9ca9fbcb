package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"artifact-proxy/internal/core/domain"
)

// maxPerPage is the largest page size the GitHub REST API honours.
const maxPerPage = 100

type Config struct {
	Server    ServerConfig
	GitHub    GitHubConfig
	Artifacts ArtifactsConfig
	RateLimit RateLimitConfig
	Logger    LoggerConfig
}

type ServerConfig struct {
	Host      string
	Port      int
	StaticDir string
}

type GitHubConfig struct {
	APIURL          string
	Token           string
	Owner           string
	Repo            string
	Timeout         time.Duration
	DownloadTimeout time.Duration
}

type ArtifactsConfig struct {
	Limit           int
	RunLimit        int
	PendingStatuses []domain.RunStatus
	DownloadMode    domain.DownloadMode
}

// RateLimitConfig limits /api requests per client IP. RPS <= 0 disables it.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type LoggerConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment, optionally seeded by the
// file named in ENV_FILE (default ".env") when it exists.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 3000)
	v.SetDefault("STATIC_DIR", ".")
	v.SetDefault("GITHUB_API_URL", "https://api.github.com")
	v.SetDefault("UPSTREAM_TIMEOUT", "30s")
	v.SetDefault("DOWNLOAD_TIMEOUT", "10m")
	v.SetDefault("ARTIFACT_LIMIT", 10)
	v.SetDefault("RUN_LIMIT", 5)
	v.SetDefault("PENDING_STATUSES", "in_progress,queued")
	v.SetDefault("DOWNLOAD_MODE", string(domain.DownloadModeRedirect))
	v.SetDefault("RATE_LIMIT_RPS", 0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Env
	v.AutomaticEnv()
	_ = v.BindEnv("SERVER_PORT", "SERVER_PORT", "PORT")

	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	timeout, err := time.ParseDuration(v.GetString("UPSTREAM_TIMEOUT"))
	if err != nil {
		timeout = 30 * time.Second
	}
	downloadTimeout, err := time.ParseDuration(v.GetString("DOWNLOAD_TIMEOUT"))
	if err != nil {
		downloadTimeout = 10 * time.Minute
	}

	mode, err := domain.ParseDownloadMode(v.GetString("DOWNLOAD_MODE"))
	if err != nil {
		return nil, fmt.Errorf("DOWNLOAD_MODE %q: %w", v.GetString("DOWNLOAD_MODE"), err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:      v.GetString("SERVER_HOST"),
			Port:      v.GetInt("SERVER_PORT"),
			StaticDir: v.GetString("STATIC_DIR"),
		},
		GitHub: GitHubConfig{
			APIURL:          v.GetString("GITHUB_API_URL"),
			Token:           v.GetString("GITHUB_TOKEN"),
			Owner:           v.GetString("REPO_OWNER"),
			Repo:            v.GetString("REPO_NAME"),
			Timeout:         timeout,
			DownloadTimeout: downloadTimeout,
		},
		Artifacts: ArtifactsConfig{
			Limit:           v.GetInt("ARTIFACT_LIMIT"),
			RunLimit:        v.GetInt("RUN_LIMIT"),
			PendingStatuses: domain.ParseRunStatuses(v.GetString("PENDING_STATUSES")),
			DownloadMode:    mode,
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.GitHub.Token == "" {
		errs = append(errs, errors.New("GITHUB_TOKEN is required"))
	}
	if c.GitHub.Owner == "" {
		errs = append(errs, errors.New("REPO_OWNER is required"))
	}
	if c.GitHub.Repo == "" {
		errs = append(errs, errors.New("REPO_NAME is required"))
	}
	if c.Artifacts.Limit <= 0 || c.Artifacts.Limit > maxPerPage {
		errs = append(errs, fmt.Errorf("ARTIFACT_LIMIT must be between 1 and %d", maxPerPage))
	}
	if c.Artifacts.RunLimit < 0 || c.Artifacts.RunLimit > maxPerPage {
		errs = append(errs, fmt.Errorf("RUN_LIMIT must be between 0 and %d", maxPerPage))
	}
	if c.Artifacts.RunLimit > 0 && len(c.Artifacts.PendingStatuses) == 0 {
		errs = append(errs, errors.New("PENDING_STATUSES must not be empty while RUN_LIMIT is positive"))
	}
	for _, s := range c.Artifacts.PendingStatuses {
		if !s.IsUnfinished() {
			errs = append(errs, fmt.Errorf("PENDING_STATUSES: %q is not an unfinished run status", s))
		}
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", c.Server.Port))
	}
	return errors.Join(errs...)
}
