// Package config loads the run configuration: secrets from the
// environment (optionally a .env file) and the run surface from a YAML
// file. Fail-fast: a missing required value aborts before any network
// activity.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/baxromumarov/intern-scout/internal/search"
)

type Config struct {
	Search          SearchConfig          `yaml:"search"`
	Safety          SafetyConfig          `yaml:"safety"`
	EmailSending    EmailSendingConfig    `yaml:"email_sending"`
	EmailGeneration EmailGenerationConfig `yaml:"email_generation"`
	Paths           PathsConfig           `yaml:"paths"`

	// From the environment.
	SerpAPIKey   string `yaml:"-"`
	OpenAIKey    string `yaml:"-"`
	SMTPUser     string `yaml:"-"`
	SMTPPassword string `yaml:"-"`
	DatabaseURL  string `yaml:"-"`
	StatusPort   string `yaml:"-"`
}

type SearchConfig struct {
	Keywords      []string            `yaml:"keywords"`
	MaxResults    int                 `yaml:"max_results"`
	Locale        string              `yaml:"locale"`
	RetryAttempts int                 `yaml:"retry_attempts"`
	DelaySeconds  int                 `yaml:"delay_seconds"`
	Filters       search.FilterConfig `yaml:"filters"`
}

type SafetyConfig struct {
	AllowedPrefixes []string `yaml:"allowed_prefixes"`
}

type EmailSendingConfig struct {
	SMTPServer      string `yaml:"smtp_server"`
	SMTPPort        int    `yaml:"smtp_port"`
	RateLimitPerDay int    `yaml:"rate_limit_per_day"`
}

type EmailGenerationConfig struct {
	Model                string  `yaml:"model"`
	Temperature          float64 `yaml:"temperature"`
	MaxTokens            int     `yaml:"max_tokens"`
	SystemPrompt         string  `yaml:"system_prompt"`
	Template             string  `yaml:"template"`
	IncludeResumeSummary *bool   `yaml:"include_resume_summary"`
}

func (c EmailGenerationConfig) ResumeSummaryEnabled() bool {
	if c.IncludeResumeSummary == nil {
		return true
	}
	return *c.IncludeResumeSummary
}

type PathsConfig struct {
	Resume  string `yaml:"resume"`
	SentLog string `yaml:"sent_log"`
}

// Load reads .env (if present), the YAML file at path, applies defaults
// and validates required values.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.SerpAPIKey = os.Getenv("SERPAPI_KEY")
	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	cfg.SMTPUser = os.Getenv("SMTP_USER")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.StatusPort = os.Getenv("STATUS_PORT")

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = 10
	}
	if c.Search.Locale == "" {
		c.Search.Locale = "en"
	}
	if c.Search.RetryAttempts <= 0 {
		c.Search.RetryAttempts = 3
	}
	if c.Search.DelaySeconds <= 0 {
		c.Search.DelaySeconds = 2
	}
	if c.EmailSending.SMTPPort <= 0 {
		c.EmailSending.SMTPPort = 587
	}
	if c.EmailSending.RateLimitPerDay <= 0 {
		c.EmailSending.RateLimitPerDay = 10
	}
	if len(c.Safety.AllowedPrefixes) == 0 {
		c.Safety.AllowedPrefixes = []string{"careers@", "hr@", "jobs@", "contact@"}
	}
	if c.Paths.Resume == "" {
		c.Paths.Resume = "data/resume.pdf"
	}
	if c.Paths.SentLog == "" {
		c.Paths.SentLog = "data/sent_log.csv"
	}
}

func (c *Config) validate() error {
	if c.SerpAPIKey == "" {
		return fmt.Errorf("SERPAPI_KEY is required")
	}
	if c.SMTPUser == "" {
		return fmt.Errorf("SMTP_USER is required")
	}
	if c.SMTPPassword == "" {
		return fmt.Errorf("SMTP_PASSWORD is required")
	}
	if c.EmailSending.SMTPServer == "" {
		return fmt.Errorf("email_sending.smtp_server is required")
	}
	if len(c.Search.Keywords) == 0 {
		return fmt.Errorf("search.keywords must not be empty")
	}
	return nil
}
